package api

import (
	"context"
	"fmt"
	"math"
	"net/mail"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/storefront/internal/client"
	"github.com/wolfeidau/storefront/internal/models"
	"github.com/wolfeidau/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultShippingCost = 15.00
	DefaultTaxRate      = 0.19
	DefaultCountry      = "Tunisia"
)

// promoCodes maps a code to its percentage discount.
var promoCodes = map[string]float64{
	"SAVE10":    10,
	"SAVE20":    20,
	"HONEY15":   15,
	"WELCOME10": 10,
	"SUMMER25":  25,
}

// PromoCodes lists the accepted codes in sorted order.
func PromoCodes() []string {
	codes := make([]string, 0, len(promoCodes))
	for code := range promoCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// LookupPromo normalizes code and returns its discount percentage.
func LookupPromo(code string) (string, float64, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	pct, ok := promoCodes[code]
	return code, pct, ok
}

// Payment methods accepted at checkout.
const (
	PaymentCard   = "card"
	PaymentPayPal = "paypal"
	PaymentCOD    = "cod"
)

// PaymentMethodName returns the display name of a payment method.
func PaymentMethodName(method string) string {
	switch method {
	case PaymentCard:
		return "Credit/Debit Card"
	case PaymentPayPal:
		return "PayPal"
	case PaymentCOD:
		return "Cash on Delivery"
	}
	return "Unknown"
}

// Pricing holds the checkout cost parameters.
type Pricing struct {
	ShippingCost float64
	TaxRate      float64
}

func DefaultPricing() Pricing {
	return Pricing{ShippingCost: DefaultShippingCost, TaxRate: DefaultTaxRate}
}

// Totals is the price breakdown shown before and after placing an order.
type Totals struct {
	Subtotal        float64
	DiscountPercent float64
	Discount        float64
	Tax             float64
	Shipping        float64
	Total           float64
}

// Compute applies the discount to the subtotal, taxes what remains and adds
// shipping. Amounts are rounded to cents.
func (p Pricing) Compute(subtotal, discountPercent float64) Totals {
	discount := subtotal * discountPercent / 100
	tax := (subtotal - discount) * p.TaxRate

	return Totals{
		Subtotal:        roundCents(subtotal),
		DiscountPercent: discountPercent,
		Discount:        roundCents(discount),
		Tax:             roundCents(tax),
		Shipping:        roundCents(p.ShippingCost),
		Total:           roundCents(subtotal - discount + p.ShippingCost + tax),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// CheckoutDetails is the delivery and payment information collected at checkout.
type CheckoutDetails struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Address       string
	City          string
	PostalCode    string
	Country       string
	PaymentMethod string
	PromoCode     string
	Notes         string
}

// Validate checks the details before anything is sent.
func (d CheckoutDetails) Validate() error {
	var problems []string

	if len(strings.TrimSpace(d.FirstName)) < 2 {
		problems = append(problems, "first name must be at least 2 characters")
	}
	if len(strings.TrimSpace(d.LastName)) < 2 {
		problems = append(problems, "last name must be at least 2 characters")
	}
	if _, err := mail.ParseAddress(d.Email); err != nil || strings.TrimSpace(d.Email) == "" {
		problems = append(problems, "email is invalid")
	}
	if strings.TrimSpace(d.Phone) == "" || !models.ValidPhone(d.Phone) {
		problems = append(problems, "phone number is invalid")
	}
	if len(strings.TrimSpace(d.Address)) < 5 {
		problems = append(problems, "address must be at least 5 characters")
	}
	if strings.TrimSpace(d.City) == "" {
		problems = append(problems, "city is required")
	}
	if strings.TrimSpace(d.PostalCode) == "" {
		problems = append(problems, "postal code is required")
	}
	if strings.TrimSpace(d.Country) == "" {
		problems = append(problems, "country is required")
	}
	switch d.PaymentMethod {
	case PaymentCard, PaymentPayPal, PaymentCOD:
	default:
		problems = append(problems, "payment method must be card, paypal or cod")
	}
	if d.PromoCode != "" {
		if _, _, ok := LookupPromo(d.PromoCode); !ok {
			problems = append(problems, "invalid promo code")
		}
	}

	if len(problems) > 0 {
		return client.NewError(client.KindValidation, strings.Join(problems, ", "))
	}

	return nil
}

func (d CheckoutDetails) address(kind string) models.AddressInput {
	return models.AddressInput{
		AddressType:  kind,
		FullName:     strings.TrimSpace(d.FirstName) + " " + strings.TrimSpace(d.LastName),
		AddressLine1: strings.TrimSpace(d.Address),
		City:         strings.TrimSpace(d.City),
		PostalCode:   strings.TrimSpace(d.PostalCode),
		Country:      strings.TrimSpace(d.Country),
		PhoneNumber:  strings.TrimSpace(d.Phone),
		IsDefault:    true,
	}
}

// ReceiptItem is a purchased line.
type ReceiptItem struct {
	Name     string
	Quantity int
	Price    float64
}

// Receipt summarizes a placed order.
type Receipt struct {
	Order         *models.Order
	Totals        Totals
	PaymentMethod string
	Items         []ReceiptItem
	Shipping      *models.Address
	Billing       *models.Address
	// CartCleared is false when the order was placed but the cart could not be emptied.
	CartCleared bool
}

// Checkout turns the cart into an order.
type Checkout struct {
	cart      *Cart
	addresses *Addresses
	orders    *Orders
	pricing   Pricing
}

// Checkout returns the checkout flow using pricing.
func (s *Services) Checkout(pricing Pricing) *Checkout {
	return &Checkout{
		cart:      s.Cart,
		addresses: s.Addresses,
		orders:    s.Orders,
		pricing:   pricing,
	}
}

// Quote prices the current cart with an optional promo code.
func (c *Checkout) Quote(ctx context.Context, promo string) (*models.Cart, Totals, error) {
	pct := 0.0
	if promo != "" {
		_, p, ok := LookupPromo(promo)
		if !ok {
			return nil, Totals{}, client.NewError(client.KindValidation, "invalid promo code")
		}
		pct = p
	}

	cart, err := c.cart.Get(ctx)
	if err != nil {
		return nil, Totals{}, err
	}

	return cart, c.pricing.Compute(cart.Subtotal(), pct), nil
}

// PlaceOrder creates the shipping and billing addresses concurrently, creates
// the order referencing both, then clears the cart. A failure to clear the
// cart is logged and reported on the receipt, the order already exists.
func (c *Checkout) PlaceOrder(ctx context.Context, d CheckoutDetails) (*Receipt, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	promo, pct, _ := LookupPromo(d.PromoCode)

	cart, totals, err := c.Quote(ctx, d.PromoCode)
	if err != nil {
		return nil, err
	}
	if cart.Empty() {
		return nil, client.NewError(client.KindValidation, "your cart is empty")
	}

	var shipping, billing *models.Address

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr, err := c.addresses.Create(gctx, d.address(models.AddressShipping))
		if err != nil {
			return err
		}
		shipping = addr
		return nil
	})
	g.Go(func() error {
		addr, err := c.addresses.Create(gctx, d.address(models.AddressBilling))
		if err != nil {
			return err
		}
		billing = addr
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	req := models.CreateOrderRequest{
		ShippingAddressID: shipping.AddressID,
		BillingAddressID:  billing.AddressID,
		Notes:             strings.TrimSpace(d.Notes),
	}
	if pct > 0 {
		req.PromoCode = promo
	}

	order, err := c.orders.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	telemetry.GetMetrics().OrdersPlacedTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("payment_method", d.PaymentMethod)))

	log.Info().
		Int("orderID", order.OrderID).
		Str("orderNumber", order.OrderNumber).
		Msg("order placed")

	receipt := &Receipt{
		Order:         order,
		Totals:        totals,
		PaymentMethod: PaymentMethodName(d.PaymentMethod),
		Shipping:      shipping,
		Billing:       billing,
		CartCleared:   true,
	}
	for _, item := range cart.CartItems {
		name := item.Name()
		if name == "" {
			name = fmt.Sprintf("product %d", item.ProductID)
		}
		receipt.Items = append(receipt.Items, ReceiptItem{Name: name, Quantity: item.Quantity, Price: item.UnitPrice()})
	}

	if err := c.cart.Clear(ctx); err != nil {
		log.Warn().Err(err).Int("orderID", order.OrderID).Msg("order placed but cart could not be cleared")
		receipt.CartCleared = false
	}

	return receipt, nil
}
