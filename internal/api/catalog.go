package api

import (
	"context"
	"net/url"
	"strings"

	"github.com/wolfeidau/storefront/internal/client"
	"github.com/wolfeidau/storefront/internal/models"
)

// Products reads the public catalog and manages products for admins.
type Products struct {
	c Doer
}

func (p *Products) List(ctx context.Context) ([]models.Product, error) {
	return getList[models.Product](ctx, p.c, "/Products", nil)
}

func (p *Products) Active(ctx context.Context) ([]models.Product, error) {
	return getList[models.Product](ctx, p.c, "/Products/active", nil)
}

func (p *Products) Featured(ctx context.Context) ([]models.Product, error) {
	return getList[models.Product](ctx, p.c, "/Products/featured", nil)
}

func (p *Products) Get(ctx context.Context, id int) (*models.Product, error) {
	return getOne[models.Product](ctx, p.c, "/Products/"+itoa(id))
}

func (p *Products) BySlug(ctx context.Context, slug string) (*models.Product, error) {
	return getOne[models.Product](ctx, p.c, "/Products/slug/"+url.PathEscape(slug))
}

func (p *Products) ByCategory(ctx context.Context, categoryID int) ([]models.Product, error) {
	return getList[models.Product](ctx, p.c, "/Products/category/"+itoa(categoryID), nil)
}

// Search matches products by term.
func (p *Products) Search(ctx context.Context, term string) ([]models.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, client.NewError(client.KindValidation, "search term is required")
	}
	return getList[models.Product](ctx, p.c, "/Products/search", url.Values{"term": {term}})
}

func (p *Products) Images(ctx context.Context, productID int) ([]models.ProductImage, error) {
	return getList[models.ProductImage](ctx, p.c, "/Products/"+itoa(productID)+"/images", nil)
}

func (p *Products) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	var out models.Product
	if err := p.c.Post(ctx, "/Products", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Products) Update(ctx context.Context, id int, in models.ProductInput) error {
	if err := validateProduct(in); err != nil {
		return err
	}
	return p.c.Put(ctx, "/Products/"+itoa(id), in, nil)
}

func (p *Products) Delete(ctx context.Context, id int) error {
	return p.c.Delete(ctx, "/Products/"+itoa(id), nil)
}

func validateProduct(in models.ProductInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return client.NewError(client.KindValidation, "product name is required")
	case strings.TrimSpace(in.Slug) == "":
		return client.NewError(client.KindValidation, "product slug is required")
	case in.Price < 0:
		return client.NewError(client.KindValidation, "price must not be negative")
	case in.StockQuantity < 0:
		return client.NewError(client.KindValidation, "stock quantity must not be negative")
	}
	return nil
}

// Categories reads and manages product categories.
type Categories struct {
	c Doer
}

func (s *Categories) List(ctx context.Context) ([]models.Category, error) {
	return getList[models.Category](ctx, s.c, "/Categories", nil)
}

func (s *Categories) Active(ctx context.Context) ([]models.Category, error) {
	return getList[models.Category](ctx, s.c, "/Categories/active", nil)
}

func (s *Categories) Get(ctx context.Context, id int) (*models.Category, error) {
	return getOne[models.Category](ctx, s.c, "/Categories/"+itoa(id))
}

func (s *Categories) BySlug(ctx context.Context, slug string) (*models.Category, error) {
	return getOne[models.Category](ctx, s.c, "/Categories/slug/"+url.PathEscape(slug))
}

func (s *Categories) Create(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Slug) == "" {
		return nil, client.NewError(client.KindValidation, "category name and slug are required")
	}
	var out models.Category
	if err := s.c.Post(ctx, "/Categories", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Categories) Update(ctx context.Context, id int, in models.CategoryInput) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Slug) == "" {
		return client.NewError(client.KindValidation, "category name and slug are required")
	}
	return s.c.Put(ctx, "/Categories/"+itoa(id), in, nil)
}

func (s *Categories) Delete(ctx context.Context, id int) error {
	return s.c.Delete(ctx, "/Categories/"+itoa(id), nil)
}
