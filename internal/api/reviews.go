package api

import (
	"context"
	"encoding/json"

	"github.com/wolfeidau/storefront/internal/client"
	"github.com/wolfeidau/storefront/internal/models"
)

// Reviews reads and writes product reviews.
type Reviews struct {
	c Doer
}

func (r *Reviews) ForProduct(ctx context.Context, productID int) ([]models.Review, error) {
	return getList[models.Review](ctx, r.c, "/Reviews/product/"+itoa(productID), nil)
}

func (r *Reviews) Create(ctx context.Context, in models.ReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, client.NewError(client.KindValidation, "rating must be between 1 and 5")
	}
	var out models.Review
	if err := r.c.Post(ctx, "/Reviews", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Reviews) Mine(ctx context.Context) ([]models.Review, error) {
	return getList[models.Review](ctx, r.c, "/Reviews/user/me", nil)
}

func (r *Reviews) Delete(ctx context.Context, id int) error {
	return r.c.Delete(ctx, "/Reviews/"+itoa(id), nil)
}

// Average returns the mean rating of a product.
func (r *Reviews) Average(ctx context.Context, productID int) (float64, error) {
	var raw json.RawMessage
	if err := r.c.Get(ctx, "/Reviews/product/"+itoa(productID)+"/average", nil, &raw); err != nil {
		return 0, err
	}
	avg, err := decodeNumber(raw, "averageRating", "average", "AverageRating")
	if err != nil {
		return 0, client.WrapError(client.KindUnexpected, err.Error(), err)
	}
	return avg, nil
}

// Wishlist manages saved products.
type Wishlist struct {
	c Doer
}

func (w *Wishlist) List(ctx context.Context) ([]models.WishlistItem, error) {
	return getList[models.WishlistItem](ctx, w.c, "/Wishlist", nil)
}

func (w *Wishlist) Add(ctx context.Context, productID int) error {
	return w.c.Post(ctx, "/Wishlist/"+itoa(productID), struct{}{}, nil)
}

func (w *Wishlist) Remove(ctx context.Context, productID int) error {
	return w.c.Delete(ctx, "/Wishlist/"+itoa(productID), nil)
}

// Contains reports whether a product is on the wishlist.
func (w *Wishlist) Contains(ctx context.Context, productID int) (bool, error) {
	var raw json.RawMessage
	if err := w.c.Get(ctx, "/Wishlist/check/"+itoa(productID), nil, &raw); err != nil {
		return false, err
	}
	ok, err := decodeBool(raw, "isInWishlist", "inWishlist", "exists")
	if err != nil {
		return false, client.WrapError(client.KindUnexpected, err.Error(), err)
	}
	return ok, nil
}

func (w *Wishlist) Count(ctx context.Context) (int, error) {
	var raw json.RawMessage
	if err := w.c.Get(ctx, "/Wishlist/count", nil, &raw); err != nil {
		return 0, err
	}
	n, err := decodeNumber(raw, "count", "Count")
	if err != nil {
		return 0, client.WrapError(client.KindUnexpected, err.Error(), err)
	}
	return int(n), nil
}
