package client

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheable(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		want   bool
	}{
		{"anonymous product read", http.MethodGet, "/api/Products", "", true},
		{"anonymous category read", http.MethodGet, "/api/Categories/3", "", true},
		{"authorized read", http.MethodGet, "/api/Products", "Bearer x", false},
		{"product write invalidates", http.MethodPut, "/api/Products/3", "Bearer x", true},
		{"auth flow", http.MethodPost, "/api/Auth/login", "", false},
		{"private", http.MethodGet, "/api/Cart", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "http://shop.test"+tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			require.Equal(t, tt.want, cacheable(req))
		})
	}
}

func TestCachingTransport_servesCatalogFromCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Cache-Control", "max-age=60")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"productId":1}]`)
	}))
	defer srv.Close()

	tr := NewCachingTransport(t.TempDir(), nil)

	for i := 0; i < 3; i++ {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/Products", nil)
		require.NoError(t, err)
		resp, err := tr.RoundTrip(req)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		require.JSONEq(t, `[{"productId":1}]`, string(body))
	}

	require.Equal(t, int32(1), hits.Load())
}

func TestCachingTransport_privateBypassesCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Cache-Control", "max-age=60")
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	tr := NewCachingTransport("", nil)

	for i := 0; i < 2; i++ {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/Cart", nil)
		require.NoError(t, err)
		resp, err := tr.RoundTrip(req)
		require.NoError(t, err)
		_, _ = io.Copy(io.Discard, resp.Body)
		require.NoError(t, resp.Body.Close())
	}

	require.Equal(t, int32(2), hits.Load())
}
