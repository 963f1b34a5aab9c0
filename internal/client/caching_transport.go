package client

import (
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

// CachingTransport sends anonymous catalog traffic through an HTTP cache so
// repeated product and category reads honour the backend's Cache-Control
// headers. Anything carrying credentials bypasses the cache.
type CachingTransport struct {
	cached http.RoundTripper
	direct http.RoundTripper
}

// NewCachingTransport uses a disk cache under cacheDir, or an in-memory cache
// when cacheDir is empty.
func NewCachingTransport(cacheDir string, next http.RoundTripper) *CachingTransport {
	if next == nil {
		next = http.DefaultTransport
	}

	var cache httpcache.Cache
	if cacheDir == "" {
		cache = httpcache.NewMemoryCache()
	} else {
		// Use disk-based cache for persistence across invocations
		cache = diskcache.New(cacheDir)
	}

	transport := httpcache.NewTransport(cache)
	transport.Transport = next

	return &CachingTransport{cached: transport, direct: next}
}

func (t *CachingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if cacheable(req) {
		return t.cached.RoundTrip(req)
	}
	return t.direct.RoundTrip(req)
}

// cacheable matches anonymous catalog reads. Catalog writes also go through
// the cache so the stored entry for the URL is invalidated.
func cacheable(req *http.Request) bool {
	f, ok := matchPublic(req.URL.Path)
	if !ok || f.authFlow {
		return false
	}
	if isReadOnly(req.Method) {
		return req.Header.Get("Authorization") == ""
	}
	return true
}
