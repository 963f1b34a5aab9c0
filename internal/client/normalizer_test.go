package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeInvalidator struct {
	calls int
	err   error
}

func (f *fakeInvalidator) Logout() error {
	f.calls++
	return f.err
}

func response(status int) *http.Response {
	return &http.Response{StatusCode: status, Status: http.StatusText(status)}
}

func TestNormalize_kinds(t *testing.T) {
	tests := []struct {
		status int
		kind   Kind
	}{
		{http.StatusUnauthorized, KindAuthentication},
		{http.StatusForbidden, KindAuthorization},
		{http.StatusBadRequest, KindValidation},
		{http.StatusConflict, KindValidation},
		{http.StatusUnprocessableEntity, KindValidation},
		{http.StatusNotFound, KindUnexpected},
		{http.StatusInternalServerError, KindUnexpected},
	}

	req := httptest.NewRequest(http.MethodGet, "http://shop.test/api/Cart", nil)
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			e := Normalize(req, response(tt.status), nil, nil)
			require.Equal(t, tt.kind, e.Kind)
			require.Equal(t, tt.status, e.Status)
		})
	}
}

func TestNormalize_message(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://shop.test/api/Auth/register", nil)

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "message field",
			body: `{"message":"Email already registered"}`,
			want: "Email already registered",
		},
		{
			name: "capitalized message field",
			body: `{"Message":"Invalid credentials"}`,
			want: "Invalid credentials",
		},
		{
			name: "message wins over errors",
			body: `{"message":"Bad input","errors":{"Email":["required"]}}`,
			want: "Bad input",
		},
		{
			name: "field errors flattened in key order",
			body: `{"errors":{"Password":["too short"],"Email":["required","invalid"]}}`,
			want: "required, invalid, too short",
		},
		{
			name: "errors list",
			body: `{"Errors":["first","second"]}`,
			want: "first, second",
		},
		{
			name: "blank message ignored",
			body: `{"message":"  ","errors":["x"]}`,
			want: "x",
		},
		{
			name: "not json",
			body: `<html>oops</html>`,
			want: "POST /api/Auth/register: Bad Request",
		},
		{
			name: "empty body",
			want: "POST /api/Auth/register: Bad Request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Normalize(req, response(http.StatusBadRequest), []byte(tt.body), nil)
			require.Equal(t, tt.want, e.Error())
		})
	}
}

func TestNormalize_transportFailure(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:5000: connection refused")

	e := Normalize(nil, nil, nil, cause)

	require.Equal(t, KindTransport, e.Kind)
	require.Zero(t, e.Status)
	require.Equal(t, cause.Error(), e.Error())
	require.ErrorIs(t, e, cause)

	require.Equal(t, fallbackMessage, Normalize(nil, nil, nil, nil).Error())
}

func TestNormalizer_successIsNil(t *testing.T) {
	inv := &fakeInvalidator{}
	n := &Normalizer{Session: inv}

	require.NoError(t, n.Check(context.Background(), nil, response(http.StatusOK), nil, nil))
	require.NoError(t, n.Check(context.Background(), nil, response(http.StatusNoContent), nil, nil))
	require.Zero(t, inv.calls)
}

func TestNormalizer_unauthorizedEndsSession(t *testing.T) {
	inv := &fakeInvalidator{}
	n := &Normalizer{Session: inv}
	req := httptest.NewRequest(http.MethodGet, "http://shop.test/api/Cart", nil)

	err := n.Check(context.Background(), req, response(http.StatusUnauthorized), []byte(`{"message":"Token expired"}`), nil)

	require.ErrorIs(t, err, ErrAuthentication)
	require.True(t, RedirectsToLogin(err))
	require.Equal(t, "Token expired", err.Error())
	require.Equal(t, 1, inv.calls)
}

func TestNormalizer_logoutFailureStillReturnsError(t *testing.T) {
	inv := &fakeInvalidator{err: errors.New("read-only file system")}
	n := &Normalizer{Session: inv}

	err := n.Check(context.Background(), nil, response(http.StatusUnauthorized), nil, nil)

	require.ErrorIs(t, err, ErrAuthentication)
	require.True(t, RedirectsToLogin(err))
}

func TestNormalizer_otherFailuresKeepSession(t *testing.T) {
	inv := &fakeInvalidator{}
	n := &Normalizer{Session: inv}

	for _, status := range []int{http.StatusForbidden, http.StatusBadRequest, http.StatusInternalServerError} {
		err := n.Check(context.Background(), nil, response(status), nil, nil)
		require.Error(t, err)
		require.False(t, RedirectsToLogin(err))
	}
	require.Zero(t, inv.calls)
}

func TestNormalizer_nilSession(t *testing.T) {
	n := &Normalizer{}
	err := n.Check(context.Background(), nil, response(http.StatusUnauthorized), nil, nil)
	require.ErrorIs(t, err, ErrAuthentication)
}
