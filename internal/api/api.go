// Package api wraps the storefront REST endpoints in typed services. All
// services share one *client.Client, so every call goes through the same
// authorization and error normalization.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/wolfeidau/storefront/internal/client"
	"github.com/wolfeidau/storefront/internal/models"
)

// Doer is the HTTP surface the services need, implemented by *client.Client.
type Doer interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, in, out any) error
	Put(ctx context.Context, path string, in, out any) error
	Patch(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string, out any) error
}

var _ Doer = (*client.Client)(nil)

// UserSource exposes the signed-in profile, implemented by *session.Manager.
type UserSource interface {
	CurrentUser() *models.Profile
}

// Services groups one service per backend resource.
type Services struct {
	Products   *Products
	Categories *Categories
	Cart       *Cart
	Orders     *Orders
	Addresses  *Addresses
	Users      *Users
	Admin      *Admin
	Reviews    *Reviews
	Wishlist   *Wishlist
}

func New(c Doer, users UserSource) *Services {
	return &Services{
		Products:   &Products{c: c},
		Categories: &Categories{c: c},
		Cart:       &Cart{c: c, users: users},
		Orders:     &Orders{c: c},
		Addresses:  &Addresses{c: c},
		Users:      &Users{c: c},
		Admin:      &Admin{c: c},
		Reviews:    &Reviews{c: c},
		Wishlist:   &Wishlist{c: c},
	}
}

func itoa(id int) string {
	return strconv.Itoa(id)
}

// decodeNumber reads a bare JSON number or the first numeric field of an
// object found under keys.
func decodeNumber(raw json.RawMessage, keys ...string) (float64, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("unexpected response %s: %w", truncate(raw), err)
	}

	if data, ok := doc["data"].(map[string]any); ok {
		doc = data
	}

	for _, key := range keys {
		switch v := doc[key].(type) {
		case float64:
			return v, nil
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f, nil
			}
		}
	}

	return 0, fmt.Errorf("unexpected response %s", truncate(raw))
}

// decodeBool reads a bare JSON bool or the first bool field of an object
// found under keys.
func decodeBool(raw json.RawMessage, keys ...string) (bool, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false, fmt.Errorf("unexpected response %s: %w", truncate(raw), err)
	}

	for _, key := range keys {
		if v, ok := doc[key].(bool); ok {
			return v, nil
		}
	}

	return false, fmt.Errorf("unexpected response %s", truncate(raw))
}

func truncate(raw []byte) string {
	const limit = 64
	if len(raw) > limit {
		return string(raw[:limit]) + "..."
	}
	return string(raw)
}

// getList fetches a JSON array.
func getList[T any](ctx context.Context, c Doer, path string, query url.Values) ([]T, error) {
	var out []T
	if err := c.Get(ctx, path, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// getOne fetches a JSON object.
func getOne[T any](ctx context.Context, c Doer, path string) (*T, error) {
	var out T
	if err := c.Get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
