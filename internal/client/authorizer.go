package client

import (
	"crypto/sha256"
	"net/http"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

type publicFragment struct {
	fragment string
	// authFlow endpoints are public for every method, the rest only for reads.
	authFlow bool
}

var publicFragments = []publicFragment{
	{fragment: "/Auth/login", authFlow: true},
	{fragment: "/Auth/register", authFlow: true},
	{fragment: "/Auth/verify-email", authFlow: true},
	{fragment: "/Auth/resend-verification", authFlow: true},
	{fragment: "/Products"},
	{fragment: "/Categories"},
}

// TokenSource supplies the current bearer token, empty when signed out.
type TokenSource interface {
	Token() string
}

// ValidToken rejects the empty string and the "undefined"/"null" placeholders
// left behind by older clients.
func ValidToken(token string) bool {
	return token != "" && token != "undefined" && token != "null"
}

func isReadOnly(method string) bool {
	switch method {
	case "", http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func matchPublic(path string) (publicFragment, bool) {
	for _, f := range publicFragments {
		if strings.Contains(path, f.fragment) {
			return f, true
		}
	}
	return publicFragment{}, false
}

// IsPublic reports whether a request to path with method is sent without credentials.
// Matching is a case sensitive substring check against the URL path.
func IsPublic(method, path string) bool {
	f, ok := matchPublic(path)
	if !ok {
		return false
	}
	return f.authFlow || isReadOnly(method)
}

// Authorize returns the request to send. Public requests and requests made
// without a usable token are returned unmodified, otherwise a clone carrying
// the bearer header is returned. It never fails.
func Authorize(req *http.Request, token string) *http.Request {
	if IsPublic(req.Method, req.URL.Path) || !ValidToken(token) {
		return req
	}

	authed := req.Clone(req.Context())
	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(authed)

	return authed
}

// AuthorizingTransport applies Authorize to every outgoing request.
type AuthorizingTransport struct {
	Tokens TokenSource
	Next   http.RoundTripper
}

func (t *AuthorizingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.Next
	if next == nil {
		next = http.DefaultTransport
	}

	var token string
	if t.Tokens != nil {
		token = t.Tokens.Token()
	}

	authed := Authorize(req, token)
	if authed != req {
		log.Debug().
			Str("path", req.URL.Path).
			Str("token", Fingerprint(token)).
			Msg("attached bearer token")
	}

	return next.RoundTrip(authed)
}

// Fingerprint identifies a token in logs without revealing it.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(token))
	return base58.Encode(hash[:8])
}
