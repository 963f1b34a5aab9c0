package api

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/storefront/internal/models"
)

type request struct {
	method string
	path   string
	query  url.Values
	body   any
}

// fakeDoer answers from canned JSON keyed by "METHOD path". Missing routes
// answer with an empty object.
type fakeDoer struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	// handle overrides the maps when set.
	handle   func(method, path string, body any) (string, error)
	requests []request
}

func newFakeDoer() *fakeDoer {
	return &fakeDoer{responses: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeDoer) do(method, path string, query url.Values, in, out any) error {
	f.mu.Lock()
	f.requests = append(f.requests, request{method: method, path: path, query: query, body: in})
	handle := f.handle
	key := method + " " + path
	body, ok := f.responses[key]
	err := f.errs[key]
	f.mu.Unlock()

	if handle != nil {
		body, err = handle(method, path, in)
		ok = true
	}
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if !ok {
		body = `{}`
	}
	return json.Unmarshal([]byte(body), out)
}

func (f *fakeDoer) Get(_ context.Context, path string, query url.Values, out any) error {
	return f.do("GET", path, query, nil, out)
}

func (f *fakeDoer) Post(_ context.Context, path string, in, out any) error {
	return f.do("POST", path, nil, in, out)
}

func (f *fakeDoer) Put(_ context.Context, path string, in, out any) error {
	return f.do("PUT", path, nil, in, out)
}

func (f *fakeDoer) Patch(_ context.Context, path string, in, out any) error {
	return f.do("PATCH", path, nil, in, out)
}

func (f *fakeDoer) Delete(_ context.Context, path string, out any) error {
	return f.do("DELETE", path, nil, nil, out)
}

func (f *fakeDoer) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.requests))
	for _, r := range f.requests {
		out = append(out, r.method+" "+r.path)
	}
	return out
}

type fixedUser struct {
	profile *models.Profile
}

func (f fixedUser) CurrentUser() *models.Profile { return f.profile }

var customer = fixedUser{profile: &models.Profile{UserID: 7, Email: "amira@example.com", Role: models.RoleCustomer}}

func TestDecodeNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"bare number", `3`, 3},
		{"object", `{"count":4}`, 4},
		{"second key", `{"totalItems":5}`, 5},
		{"numeric string", `{"count":"6"}`, 6},
		{"data envelope", `{"data":{"count":2}}`, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeNumber(json.RawMessage(tt.raw), "count", "totalItems")
			require.NoError(t, err)
			require.InDelta(t, tt.want, got, 0.0001)
		})
	}

	_, err := decodeNumber(json.RawMessage(`{"other":1}`), "count")
	require.Error(t, err)
	_, err = decodeNumber(json.RawMessage(`"abc"`), "count")
	require.Error(t, err)
}

func TestDecodeBool(t *testing.T) {
	got, err := decodeBool(json.RawMessage(`true`), "isInWishlist")
	require.NoError(t, err)
	require.True(t, got)

	got, err = decodeBool(json.RawMessage(`{"isInWishlist":false}`), "isInWishlist")
	require.NoError(t, err)
	require.False(t, got)

	_, err = decodeBool(json.RawMessage(`{}`), "isInWishlist")
	require.Error(t, err)
}

func TestTruncate(t *testing.T) {
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	require.Len(t, truncate(long), 67)
	require.Equal(t, "short", truncate([]byte("short")))
}
