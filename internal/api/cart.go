package api

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/storefront/internal/client"
	"github.com/wolfeidau/storefront/internal/models"
)

// Cart manages the signed-in user's cart. Reads and clears try the user
// scoped route first and fall back to the generic route when the backend
// rejects it; older deployments only expose one of the two.
type Cart struct {
	c     Doer
	users UserSource
}

var errNotLoggedIn = client.NewError(client.KindAuthentication, "you must be logged in")

func (s *Cart) user() (*models.Profile, error) {
	if s.users == nil {
		return nil, errNotLoggedIn
	}
	u := s.users.CurrentUser()
	if u == nil {
		return nil, errNotLoggedIn
	}
	return u, nil
}

// shouldFallback is true when the backend answered but refused the user
// scoped route. Auth failures and unreachable backends are final.
func shouldFallback(err error) bool {
	switch client.KindOf(err) {
	case client.KindUnexpected, client.KindValidation:
		return true
	}
	return false
}

// withFallback runs primary and, when it is refused, secondary.
func (s *Cart) withFallback(ctx context.Context, primary, secondary string, call func(path string) error) error {
	err := call(primary)
	if err == nil || !shouldFallback(err) {
		return err
	}

	log.Debug().
		Err(err).
		Str("path", primary).
		Str("fallback", secondary).
		Msg("user cart route refused, trying generic route")

	return call(secondary)
}

func (s *Cart) Get(ctx context.Context) (*models.Cart, error) {
	u, err := s.user()
	if err != nil {
		return nil, err
	}

	var out models.Cart
	err = s.withFallback(ctx, "/Cart/user/"+itoa(u.UserID), "/Cart", func(path string) error {
		out = models.Cart{}
		return s.c.Get(ctx, path, nil, &out)
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// Add puts quantity units of a product in the cart.
func (s *Cart) Add(ctx context.Context, productID, quantity int) error {
	u, err := s.user()
	if err != nil {
		return err
	}
	if quantity < 1 {
		return client.NewError(client.KindValidation, "quantity must be at least 1")
	}

	return s.c.Post(ctx, "/Cart/items", models.AddCartItemRequest{
		UserID:    u.UserID,
		ProductID: productID,
		Quantity:  quantity,
	}, nil)
}

func (s *Cart) UpdateQuantity(ctx context.Context, cartItemID, quantity int) error {
	if quantity < 1 {
		return client.NewError(client.KindValidation, "quantity must be at least 1")
	}
	return s.c.Put(ctx, "/Cart/items/"+itoa(cartItemID), models.UpdateCartItemRequest{Quantity: quantity}, nil)
}

func (s *Cart) Remove(ctx context.Context, cartItemID int) error {
	return s.c.Delete(ctx, "/Cart/items/"+itoa(cartItemID), nil)
}

func (s *Cart) Clear(ctx context.Context) error {
	u, err := s.user()
	if err != nil {
		return err
	}

	return s.withFallback(ctx, "/Cart/user/"+itoa(u.UserID), "/Cart", func(path string) error {
		return s.c.Delete(ctx, path, nil)
	})
}

// Count returns the number of items. The backend answers with either a bare
// number or {"count": n}.
func (s *Cart) Count(ctx context.Context) (int, error) {
	u, err := s.user()
	if err != nil {
		return 0, err
	}

	var n float64
	err = s.withFallback(ctx, "/Cart/user/"+itoa(u.UserID)+"/count", "/Cart/count", func(path string) error {
		var raw json.RawMessage
		if err := s.c.Get(ctx, path, nil, &raw); err != nil {
			return err
		}
		v, err := decodeNumber(raw, "count", "Count", "totalItems")
		if err != nil {
			return client.WrapError(client.KindUnexpected, err.Error(), err)
		}
		n = v
		return nil
	})
	if err != nil {
		return 0, err
	}

	return int(n), nil
}

// Total returns the cart total as computed by the backend.
func (s *Cart) Total(ctx context.Context) (float64, error) {
	u, err := s.user()
	if err != nil {
		return 0, err
	}

	var total float64
	err = s.withFallback(ctx, "/Cart/user/"+itoa(u.UserID)+"/total", "/Cart/total", func(path string) error {
		var raw json.RawMessage
		if err := s.c.Get(ctx, path, nil, &raw); err != nil {
			return err
		}
		v, err := decodeNumber(raw, "total", "Total", "totalAmount", "totalPrice")
		if err != nil {
			return client.WrapError(client.KindUnexpected, err.Error(), err)
		}
		total = v
		return nil
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}
