package api

import (
	"context"
	"strings"

	"github.com/wolfeidau/storefront/internal/client"
	"github.com/wolfeidau/storefront/internal/models"
)

// Addresses manages the signed-in user's address book.
type Addresses struct {
	c Doer
}

func (a *Addresses) List(ctx context.Context) ([]models.Address, error) {
	return getList[models.Address](ctx, a.c, "/Addresses", nil)
}

func (a *Addresses) Get(ctx context.Context, id int) (*models.Address, error) {
	return getOne[models.Address](ctx, a.c, "/Addresses/"+itoa(id))
}

func (a *Addresses) Create(ctx context.Context, in models.AddressInput) (*models.Address, error) {
	if err := ValidateAddress(in); err != nil {
		return nil, err
	}
	var out models.Address
	if err := a.c.Post(ctx, "/Addresses", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *Addresses) Update(ctx context.Context, id int, in models.AddressInput) (*models.Address, error) {
	if err := ValidateAddress(in); err != nil {
		return nil, err
	}
	var out models.Address
	if err := a.c.Put(ctx, "/Addresses/"+itoa(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *Addresses) Delete(ctx context.Context, id int) error {
	return a.c.Delete(ctx, "/Addresses/"+itoa(id), nil)
}

func (a *Addresses) SetDefault(ctx context.Context, id int) error {
	return a.c.Put(ctx, "/Addresses/"+itoa(id)+"/set-default", struct{}{}, nil)
}

func (a *Addresses) DefaultShipping(ctx context.Context) (*models.Address, error) {
	return getOne[models.Address](ctx, a.c, "/Addresses/default/shipping")
}

func (a *Addresses) DefaultBilling(ctx context.Context) (*models.Address, error) {
	return getOne[models.Address](ctx, a.c, "/Addresses/default/billing")
}

// ValidateAddress checks the fields the backend requires.
func ValidateAddress(in models.AddressInput) error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"full name", in.FullName},
		{"address", in.AddressLine1},
		{"city", in.City},
		{"postal code", in.PostalCode},
		{"country", in.Country},
		{"phone number", in.PhoneNumber},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return client.NewError(client.KindValidation, "missing "+strings.Join(missing, ", "))
	}

	switch in.AddressType {
	case models.AddressShipping, models.AddressBilling, models.AddressBoth:
	default:
		return client.NewError(client.KindValidation, "address type must be Shipping, Billing or Both")
	}

	if !models.ValidPhone(in.PhoneNumber) {
		return client.NewError(client.KindValidation, "phone number is invalid")
	}

	return nil
}
