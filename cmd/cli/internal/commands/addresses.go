package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/storefront/internal/guard"
	"github.com/wolfeidau/storefront/internal/models"
)

// AddressesCmd manages the address book.
type AddressesCmd struct {
	List       AddressesListCmd       `cmd:"" default:"1" help:"List addresses"`
	Show       AddressesShowCmd       `cmd:"" help:"Show an address"`
	Add        AddressesAddCmd        `cmd:"" help:"Add an address"`
	Update     AddressesUpdateCmd     `cmd:"" help:"Replace an address"`
	Delete     AddressesDeleteCmd     `cmd:"" help:"Delete an address"`
	SetDefault AddressesSetDefaultCmd `cmd:"" name:"set-default" help:"Make an address the default"`
	Default    AddressesDefaultCmd    `cmd:"" help:"Show the default shipping or billing address"`
}

type AddressesListCmd struct{}

func (c *AddressesListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/addresses")
	if err != nil {
		return err
	}

	list, err := app.API.Addresses.List(ctx)
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Fprintln(globals.out(), "No addresses found.")
		return nil
	}

	w := newTable(globals.out(), "ID", "TYPE", "NAME", "ADDRESS", "CITY", "DEFAULT")
	for _, a := range list {
		def := ""
		if a.IsDefault {
			def = "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", a.AddressID, a.AddressType, a.FullName, truncate(a.AddressLine1, 30), a.City, def)
	}
	return w.Flush()
}

func printAddress(globals *Globals, a *models.Address) {
	out := globals.out()
	fmt.Fprintf(out, "ID:       %d\n", a.AddressID)
	fmt.Fprintf(out, "Type:     %s\n", a.AddressType)
	fmt.Fprintf(out, "Name:     %s\n", a.FullName)
	fmt.Fprintf(out, "Address:  %s\n", a.AddressLine1)
	if a.AddressLine2 != "" {
		fmt.Fprintf(out, "          %s\n", a.AddressLine2)
	}
	fmt.Fprintf(out, "City:     %s %s\n", a.City, a.PostalCode)
	if a.State != "" {
		fmt.Fprintf(out, "State:    %s\n", a.State)
	}
	fmt.Fprintf(out, "Country:  %s\n", a.Country)
	fmt.Fprintf(out, "Phone:    %s\n", a.PhoneNumber)
	fmt.Fprintf(out, "Default:  %s\n", yesNo(a.IsDefault))
}

type AddressesShowCmd struct {
	ID int `arg:"" help:"Address id"`
}

func (c *AddressesShowCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/addresses")
	if err != nil {
		return err
	}

	a, err := app.API.Addresses.Get(ctx, c.ID)
	if err != nil {
		return err
	}

	printAddress(globals, a)

	return nil
}

// AddressFlags are the fields of an address.
type AddressFlags struct {
	Type       string `help:"Shipping, Billing or Both" default:"Shipping" enum:"Shipping,Billing,Both"`
	Name       string `help:"Full name" required:""`
	Line1      string `help:"Address line 1" required:""`
	Line2      string `help:"Address line 2"`
	City       string `help:"City" required:""`
	State      string `help:"State or region"`
	PostalCode string `help:"Postal code" required:""`
	Country    string `help:"Country" default:"Tunisia"`
	Phone      string `help:"Phone number" required:""`
	Default    bool   `help:"Make this the default address"`
}

func (f AddressFlags) input() models.AddressInput {
	return models.AddressInput{
		AddressType:  f.Type,
		FullName:     f.Name,
		AddressLine1: f.Line1,
		AddressLine2: f.Line2,
		City:         f.City,
		State:        f.State,
		PostalCode:   f.PostalCode,
		Country:      f.Country,
		PhoneNumber:  f.Phone,
		IsDefault:    f.Default,
	}
}

type AddressesAddCmd struct {
	AddressFlags `embed:""`
}

func (c *AddressesAddCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/addresses")
	if err != nil {
		return err
	}

	a, err := app.API.Addresses.Create(ctx, c.input())
	if err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Address %d created\n", a.AddressID)

	return nil
}

type AddressesUpdateCmd struct {
	ID           int `arg:"" help:"Address id"`
	AddressFlags `embed:""`
}

func (c *AddressesUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/addresses")
	if err != nil {
		return err
	}

	if _, err := app.API.Addresses.Update(ctx, c.ID, c.input()); err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Address %d updated\n", c.ID)

	return nil
}

type AddressesDeleteCmd struct {
	ID int `arg:"" help:"Address id"`
}

func (c *AddressesDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/addresses")
	if err != nil {
		return err
	}

	if err := app.API.Addresses.Delete(ctx, c.ID); err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Address %d deleted\n", c.ID)

	return nil
}

type AddressesSetDefaultCmd struct {
	ID int `arg:"" help:"Address id"`
}

func (c *AddressesSetDefaultCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/addresses")
	if err != nil {
		return err
	}

	if err := app.API.Addresses.SetDefault(ctx, c.ID); err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Address %d is now the default\n", c.ID)

	return nil
}

type AddressesDefaultCmd struct {
	Billing bool `help:"Show the default billing address instead of shipping"`
}

func (c *AddressesDefaultCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/addresses")
	if err != nil {
		return err
	}

	var a *models.Address
	if c.Billing {
		a, err = app.API.Addresses.DefaultBilling(ctx)
	} else {
		a, err = app.API.Addresses.DefaultShipping(ctx)
	}
	if err != nil {
		return err
	}

	printAddress(globals, a)

	return nil
}
