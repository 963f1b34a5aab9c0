package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/storefront/internal/guard"
)

// CartCmd manages the shopping cart.
type CartCmd struct {
	Show   CartShowCmd   `cmd:"" default:"1" help:"Show the cart"`
	Add    CartAddCmd    `cmd:"" help:"Add a product to the cart"`
	Update CartUpdateCmd `cmd:"" help:"Change the quantity of a cart item"`
	Remove CartRemoveCmd `cmd:"" help:"Remove a cart item"`
	Clear  CartClearCmd  `cmd:"" help:"Empty the cart"`
	Count  CartCountCmd  `cmd:"" help:"Show the number of items in the cart"`
}

type CartShowCmd struct{}

func (c *CartShowCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/cart")
	if err != nil {
		return err
	}

	cart, err := app.API.Cart.Get(ctx)
	if err != nil {
		return err
	}

	out := globals.out()
	if cart.Empty() {
		fmt.Fprintln(out, "Your cart is empty.")
		return nil
	}

	w := newTable(out, "ITEM", "PRODUCT", "QTY", "PRICE", "TOTAL")
	for _, item := range cart.CartItems {
		name := item.Name()
		if name == "" {
			name = fmt.Sprintf("product %d", item.ProductID)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", item.CartItemID, truncate(name, 40), item.Quantity, money(item.UnitPrice()), money(item.LineTotal()))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d items, subtotal %s\n", cart.Quantity(), money(cart.Subtotal()))

	return nil
}

type CartAddCmd struct {
	ProductID int `arg:"" help:"Product id"`
	Quantity  int `help:"Quantity" default:"1" short:"q"`
}

func (c *CartAddCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/cart")
	if err != nil {
		return err
	}

	if err := app.API.Cart.Add(ctx, c.ProductID, c.Quantity); err != nil {
		return err
	}

	count, err := app.API.Cart.Count(ctx)
	if err != nil {
		fmt.Fprintln(globals.out(), "Added to cart")
		return nil
	}

	fmt.Fprintf(globals.out(), "Added to cart (%d items)\n", count)

	return nil
}

type CartUpdateCmd struct {
	ItemID   int `arg:"" help:"Cart item id"`
	Quantity int `arg:"" help:"New quantity"`
}

func (c *CartUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/cart")
	if err != nil {
		return err
	}

	if err := app.API.Cart.UpdateQuantity(ctx, c.ItemID, c.Quantity); err != nil {
		return err
	}

	fmt.Fprintln(globals.out(), "Quantity updated")

	return nil
}

type CartRemoveCmd struct {
	ItemID int `arg:"" help:"Cart item id"`
}

func (c *CartRemoveCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/cart")
	if err != nil {
		return err
	}

	if err := app.API.Cart.Remove(ctx, c.ItemID); err != nil {
		return err
	}

	fmt.Fprintln(globals.out(), "Item removed")

	return nil
}

type CartClearCmd struct{}

func (c *CartClearCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/cart")
	if err != nil {
		return err
	}

	if err := app.API.Cart.Clear(ctx); err != nil {
		return err
	}

	fmt.Fprintln(globals.out(), "Cart cleared")

	return nil
}

type CartCountCmd struct{}

func (c *CartCountCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/cart")
	if err != nil {
		return err
	}

	count, err := app.API.Cart.Count(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(globals.out(), count)

	return nil
}
