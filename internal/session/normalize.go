package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wolfeidau/storefront/internal/client"
	"github.com/wolfeidau/storefront/internal/models"
)

var (
	// ErrMissingToken is returned when an auth response carries no usable token.
	ErrMissingToken = errors.New("login response did not include a token")

	// ErrIncompleteProfile is returned when an auth response lacks the user id or email.
	ErrIncompleteProfile = errors.New("login response did not include a user profile")
)

// NormalizeAuthResponse builds a session from a login response.
//
// Accepted shapes: the fields may sit at the top level, inside a "data"
// envelope, or inside a nested "user" object. Each field is read from its
// capitalized name first ("Token", "UserId", "Email", ...) and then its
// camel case name ("token", "userId", ...). The user id may be a JSON number
// or a numeric string; "id" is accepted in place of "userId".
func NormalizeAuthResponse(raw []byte) (*models.Session, error) {
	doc, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	token := stringField(doc, "Token", "token", "AccessToken", "accessToken")
	if !client.ValidToken(token) {
		return nil, ErrMissingToken
	}

	profile, err := normalizeProfile(doc)
	if err != nil {
		return nil, err
	}

	return &models.Session{Token: token, User: profile}, nil
}

// NormalizeProfile reads a profile using the same shape rules as NormalizeAuthResponse.
func NormalizeProfile(raw []byte) (*models.Profile, error) {
	doc, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	return normalizeProfile(doc)
}

func normalizeProfile(doc map[string]any) (*models.Profile, error) {
	src := doc
	if nested := objectField(doc, "User", "user"); nested != nil {
		src = merge(doc, nested)
	}

	profile := &models.Profile{
		UserID:      intField(src, "UserId", "userId", "Id", "id"),
		Email:       stringField(src, "Email", "email"),
		FirstName:   stringField(src, "FirstName", "firstName"),
		LastName:    stringField(src, "LastName", "lastName"),
		Role:        stringField(src, "Role", "role"),
		PhoneNumber: stringField(src, "PhoneNumber", "phoneNumber"),
	}

	if !profile.Valid() {
		return nil, ErrIncompleteProfile
	}

	return profile, nil
}

func decodeObject(raw []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse auth response: %w", err)
	}
	if doc == nil {
		return nil, ErrMissingToken
	}

	if data := objectField(doc, "Data", "data"); data != nil {
		return data, nil
	}

	return doc, nil
}

// merge overlays nested on top of doc without mutating either.
func merge(doc, nested map[string]any) map[string]any {
	out := make(map[string]any, len(doc)+len(nested))
	for k, v := range doc {
		out[k] = v
	}
	for k, v := range nested {
		out[k] = v
	}
	return out
}

func objectField(doc map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		if obj, ok := doc[key].(map[string]any); ok {
			return obj
		}
	}
	return nil
}

func stringField(doc map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := doc[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func intField(doc map[string]any, keys ...string) int {
	for _, key := range keys {
		switch v := doc[key].(type) {
		case float64:
			if v > 0 {
				return int(v)
			}
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}
