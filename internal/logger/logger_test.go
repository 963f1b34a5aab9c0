package logger

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type stubTransport struct {
	resp *http.Response
	err  error
	seen *http.Request
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.seen = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func TestRequestLogger_addsRequestID(t *testing.T) {
	var buf bytes.Buffer
	stub := &stubTransport{resp: &http.Response{StatusCode: http.StatusOK, Header: http.Header{"X-From-Cache": {"1"}}}}
	rl := NewRequestLoggerWith(zerolog.New(&buf).Level(zerolog.DebugLevel), stub)

	req := httptest.NewRequest(http.MethodGet, "http://shop.test/api/Products", nil)
	req.Header.Set("Authorization", "Bearer super-secret")

	resp, err := rl.RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	id := stub.seen.Header.Get(RequestIDHeader)
	require.NotEmpty(t, id)
	require.Empty(t, req.Header.Get(RequestIDHeader), "caller's request is not modified")

	out := buf.String()
	require.Contains(t, out, id)
	require.Contains(t, out, `"path":"/api/Products"`)
	require.Contains(t, out, `"fromCache":true`)
	require.NotContains(t, out, "super-secret")
}

func TestRequestLogger_keepsExistingRequestID(t *testing.T) {
	stub := &stubTransport{resp: &http.Response{StatusCode: http.StatusNoContent, Header: http.Header{}}}
	rl := NewRequestLoggerWith(zerolog.Nop(), stub)

	req := httptest.NewRequest(http.MethodDelete, "http://shop.test/api/Cart", nil)
	req.Header.Set(RequestIDHeader, "req-1")

	_, err := rl.RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, "req-1", stub.seen.Header.Get(RequestIDHeader))
}

func TestRequestLogger_logsFailures(t *testing.T) {
	var buf bytes.Buffer
	stub := &stubTransport{err: errors.New("connection refused")}
	rl := NewRequestLoggerWith(zerolog.New(&buf), stub)

	_, err := rl.RoundTrip(httptest.NewRequest(http.MethodGet, "http://shop.test/api/Orders", nil))
	require.Error(t, err)
	require.Contains(t, buf.String(), "connection refused")
	require.Contains(t, buf.String(), `"level":"error"`)
}

func TestSetup(t *testing.T) {
	require.Equal(t, zerolog.DebugLevel, Setup(true).GetLevel())
	require.Equal(t, zerolog.InfoLevel, Setup(false).GetLevel())
}
