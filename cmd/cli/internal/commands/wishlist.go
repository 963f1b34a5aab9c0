package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/storefront/internal/guard"
)

// WishlistCmd manages saved products.
type WishlistCmd struct {
	List   WishlistListCmd   `cmd:"" default:"1" help:"List saved products"`
	Add    WishlistAddCmd    `cmd:"" help:"Save a product"`
	Remove WishlistRemoveCmd `cmd:"" help:"Remove a saved product"`
	Check  WishlistCheckCmd  `cmd:"" help:"Check whether a product is saved"`
	Count  WishlistCountCmd  `cmd:"" help:"Show the number of saved products"`
}

type WishlistListCmd struct{}

func (c *WishlistListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/wishlist")
	if err != nil {
		return err
	}

	items, err := app.API.Wishlist.List(ctx)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Fprintln(globals.out(), "Your wishlist is empty.")
		return nil
	}

	w := newTable(globals.out(), "PRODUCT", "NAME", "PRICE", "IN STOCK")
	for _, item := range items {
		name, price, stock := "", "", ""
		if item.Product != nil {
			name, price, stock = item.Product.Name, money(item.Product.Price), yesNo(item.Product.InStock())
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", item.ProductID, truncate(name, 40), price, stock)
	}
	return w.Flush()
}

type WishlistAddCmd struct {
	ProductID int `arg:"" help:"Product id"`
}

func (c *WishlistAddCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/wishlist")
	if err != nil {
		return err
	}

	if err := app.API.Wishlist.Add(ctx, c.ProductID); err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Product %d saved\n", c.ProductID)

	return nil
}

type WishlistRemoveCmd struct {
	ProductID int `arg:"" help:"Product id"`
}

func (c *WishlistRemoveCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/wishlist")
	if err != nil {
		return err
	}

	if err := app.API.Wishlist.Remove(ctx, c.ProductID); err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Product %d removed\n", c.ProductID)

	return nil
}

type WishlistCheckCmd struct {
	ProductID int `arg:"" help:"Product id"`
}

func (c *WishlistCheckCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/wishlist")
	if err != nil {
		return err
	}

	ok, err := app.API.Wishlist.Contains(ctx, c.ProductID)
	if err != nil {
		return err
	}

	fmt.Fprintln(globals.out(), yesNo(ok))

	return nil
}

type WishlistCountCmd struct{}

func (c *WishlistCountCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/wishlist")
	if err != nil {
		return err
	}

	n, err := app.API.Wishlist.Count(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(globals.out(), n)

	return nil
}
