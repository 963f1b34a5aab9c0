package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfeidau/storefront/internal/api"
	"github.com/wolfeidau/storefront/internal/guard"
)

// CheckoutCmd places an order for the current cart.
type CheckoutCmd struct {
	FirstName  string `help:"First name, defaults to the profile"`
	LastName   string `help:"Last name, defaults to the profile"`
	Email      string `help:"Contact email, defaults to the profile"`
	Phone      string `help:"Phone number, defaults to the profile"`
	Address    string `help:"Street address"`
	City       string `help:"City"`
	PostalCode string `help:"Postal code"`
	Country    string `help:"Country" default:"Tunisia"`
	Payment    string `help:"Payment method" enum:"card,paypal,cod" default:"cod"`
	Promo      string `help:"Promo code"`
	Notes      string `help:"Order notes"`
	Quote      bool   `help:"Only show the price breakdown"`
}

func (c *CheckoutCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/checkout")
	if err != nil {
		return err
	}

	checkout := app.API.Checkout(app.Config.Pricing)
	out := globals.out()

	if c.Quote {
		cart, totals, err := checkout.Quote(ctx, c.Promo)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Items:      %d\n", cart.Quantity())
		printTotals(globals, totals)
		return nil
	}

	user := app.Session.CurrentUser()
	details := api.CheckoutDetails{
		FirstName:     first(c.FirstName, user.FirstName),
		LastName:      first(c.LastName, user.LastName),
		Email:         first(c.Email, user.Email),
		Phone:         first(c.Phone, user.PhoneNumber),
		Address:       c.Address,
		City:          c.City,
		PostalCode:    c.PostalCode,
		Country:       c.Country,
		PaymentMethod: c.Payment,
		PromoCode:     c.Promo,
		Notes:         c.Notes,
	}

	receipt, err := checkout.PlaceOrder(ctx, details)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Order %s placed (#%d)\n\n", receipt.Order.OrderNumber, receipt.Order.OrderID)

	w := newTable(out, "PRODUCT", "QTY", "PRICE")
	for _, item := range receipt.Items {
		fmt.Fprintf(w, "%s\t%d\t%s\n", truncate(item.Name, 40), item.Quantity, money(item.Price))
	}
	w.Flush()

	fmt.Fprintln(out)
	printTotals(globals, receipt.Totals)
	fmt.Fprintf(out, "Payment:    %s\n", receipt.PaymentMethod)
	fmt.Fprintf(out, "Ship to:    %s, %s %s, %s\n", receipt.Shipping.AddressLine1, receipt.Shipping.PostalCode, receipt.Shipping.City, receipt.Shipping.Country)

	if !receipt.CartCleared {
		fmt.Fprintln(out, "\nThe cart could not be emptied, run 'storefront-cli cart clear'.")
	}

	return nil
}

func printTotals(globals *Globals, t api.Totals) {
	out := globals.out()
	fmt.Fprintf(out, "Subtotal:   %s\n", money(t.Subtotal))
	if t.Discount > 0 {
		fmt.Fprintf(out, "Discount:  -%s (%g%%)\n", money(t.Discount), t.DiscountPercent)
	}
	fmt.Fprintf(out, "Shipping:   %s\n", money(t.Shipping))
	fmt.Fprintf(out, "Tax:        %s\n", money(t.Tax))
	fmt.Fprintf(out, "Total:      %s\n", money(t.Total))
}

// PromoCodesCmd lists the promo codes accepted at checkout.
type PromoCodesCmd struct{}

func (c *PromoCodesCmd) Run(ctx context.Context, globals *Globals) error {
	w := newTable(globals.out(), "CODE", "DISCOUNT")
	for _, code := range api.PromoCodes() {
		_, pct, _ := api.LookupPromo(code)
		fmt.Fprintf(w, "%s\t%g%%\n", code, pct)
	}
	return w.Flush()
}

func first(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
