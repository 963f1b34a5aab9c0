package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/wolfeidau/storefront/internal/guard"
	"github.com/wolfeidau/storefront/internal/models"
)

// ProductsCmd browses the catalog.
type ProductsCmd struct {
	List   ProductsListCmd   `cmd:"" default:"withargs" help:"List products"`
	Show   ProductsShowCmd   `cmd:"" help:"Show a product by id or slug"`
	Images ProductsImagesCmd `cmd:"" help:"List product images"`
}

type ProductsListCmd struct {
	Active   bool   `help:"Only active products"`
	Featured bool   `help:"Only featured products"`
	Category int    `help:"Filter by category id"`
	Search   string `help:"Search term"`
}

func (c *ProductsListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.Public, "/products")
	if err != nil {
		return err
	}

	products := app.API.Products
	var list []models.Product

	switch {
	case c.Search != "":
		list, err = products.Search(ctx, c.Search)
	case c.Category > 0:
		list, err = products.ByCategory(ctx, c.Category)
	case c.Featured:
		list, err = products.Featured(ctx)
	case c.Active:
		list, err = products.Active(ctx)
	default:
		list, err = products.List(ctx)
	}
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Fprintln(globals.out(), "No products found.")
		return nil
	}

	w := newTable(globals.out(), "ID", "NAME", "PRICE", "STOCK", "SLUG")
	for _, p := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", p.ProductID, truncate(p.Name, 40), money(p.Price), p.StockQuantity, p.Slug)
	}
	return w.Flush()
}

type ProductsShowCmd struct {
	Ref string `arg:"" help:"Product id or slug"`
}

func (c *ProductsShowCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.Public, "/products/"+c.Ref)
	if err != nil {
		return err
	}

	var p *models.Product
	if id, convErr := strconv.Atoi(c.Ref); convErr == nil {
		p, err = app.API.Products.Get(ctx, id)
	} else {
		p, err = app.API.Products.BySlug(ctx, c.Ref)
	}
	if err != nil {
		return err
	}

	out := globals.out()
	fmt.Fprintf(out, "ID:          %d\n", p.ProductID)
	fmt.Fprintf(out, "Name:        %s\n", p.Name)
	fmt.Fprintf(out, "Slug:        %s\n", p.Slug)
	fmt.Fprintf(out, "Price:       %s\n", money(p.Price))
	if p.CompareAtPrice != nil {
		fmt.Fprintf(out, "Was:         %s\n", money(*p.CompareAtPrice))
	}
	fmt.Fprintf(out, "In stock:    %s (%d)\n", yesNo(p.InStock()), p.StockQuantity)
	if p.Category != nil {
		fmt.Fprintf(out, "Category:    %s\n", p.Category.Name)
	}
	if p.Origin != "" {
		fmt.Fprintf(out, "Origin:      %s\n", p.Origin)
	}
	if img := p.PrimaryImage(); img != "" {
		fmt.Fprintf(out, "Image:       %s\n", img)
	}
	if p.Description != "" {
		fmt.Fprintf(out, "\n%s\n", p.Description)
	}

	return nil
}

type ProductsImagesCmd struct {
	ID int `arg:"" help:"Product id"`
}

func (c *ProductsImagesCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.Public, "/products")
	if err != nil {
		return err
	}

	images, err := app.API.Products.Images(ctx, c.ID)
	if err != nil {
		return err
	}

	w := newTable(globals.out(), "ID", "PRIMARY", "ORDER", "URL")
	for _, img := range images {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", img.ImageID, yesNo(img.IsPrimary), img.DisplayOrder, img.ImageURL)
	}
	return w.Flush()
}

// CategoriesCmd browses categories.
type CategoriesCmd struct {
	List CategoriesListCmd `cmd:"" default:"withargs" help:"List categories"`
	Show CategoriesShowCmd `cmd:"" help:"Show a category by id or slug"`
}

type CategoriesListCmd struct {
	Active bool `help:"Only active categories"`
}

func (c *CategoriesListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.Public, "/categories")
	if err != nil {
		return err
	}

	var list []models.Category
	if c.Active {
		list, err = app.API.Categories.Active(ctx)
	} else {
		list, err = app.API.Categories.List(ctx)
	}
	if err != nil {
		return err
	}

	w := newTable(globals.out(), "ID", "NAME", "SLUG", "ACTIVE")
	for _, cat := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", cat.CategoryID, cat.Name, cat.Slug, yesNo(cat.IsActive))
	}
	return w.Flush()
}

type CategoriesShowCmd struct {
	Ref string `arg:"" help:"Category id or slug"`
}

func (c *CategoriesShowCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.Public, "/categories/"+c.Ref)
	if err != nil {
		return err
	}

	var cat *models.Category
	if id, convErr := strconv.Atoi(c.Ref); convErr == nil {
		cat, err = app.API.Categories.Get(ctx, id)
	} else {
		cat, err = app.API.Categories.BySlug(ctx, c.Ref)
	}
	if err != nil {
		return err
	}

	products, err := app.API.Products.ByCategory(ctx, cat.CategoryID)
	if err != nil {
		return err
	}

	out := globals.out()
	fmt.Fprintf(out, "ID:       %d\n", cat.CategoryID)
	fmt.Fprintf(out, "Name:     %s\n", cat.Name)
	fmt.Fprintf(out, "Slug:     %s\n", cat.Slug)
	fmt.Fprintf(out, "Active:   %s\n", yesNo(cat.IsActive))
	fmt.Fprintf(out, "Products: %d\n", len(products))
	if cat.Description != "" {
		fmt.Fprintf(out, "\n%s\n", cat.Description)
	}

	return nil
}
