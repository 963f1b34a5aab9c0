package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wolfeidau/storefront/internal/client"
)

// roleClaimURI is the role claim name ASP.NET Core issues.
const roleClaimURI = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"

// TokenInfo describes a bearer token for display. The token is decoded
// without verification, the backend stays the only authority on validity.
type TokenInfo struct {
	Fingerprint string
	Subject     string
	Role        string
	ExpiresAt   time.Time
}

// Expired reports whether the token carries an expiry that has passed.
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

// DescribeToken decodes the claims of a JWT. Opaque tokens return an error
// alongside a TokenInfo holding only the fingerprint.
func DescribeToken(token string) (TokenInfo, error) {
	info := TokenInfo{Fingerprint: client.Fingerprint(token)}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return info, fmt.Errorf("failed to decode token: %w", err)
	}

	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}

	for _, key := range []string{"role", roleClaimURI} {
		switch v := claims[key].(type) {
		case string:
			info.Role = v
		case []any:
			if len(v) > 0 {
				info.Role = fmt.Sprint(v[0])
			}
		}
		if info.Role != "" {
			break
		}
	}

	return info, nil
}
