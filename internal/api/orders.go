package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/storefront/internal/client"
	"github.com/wolfeidau/storefront/internal/models"
)

// ErrTerminalStatus is returned by WaitForStatus when the order settles in a
// status other than the one being waited for.
var ErrTerminalStatus = errors.New("order reached a final status")

var errStatusPending = errors.New("order status not reached yet")

// Orders covers the customer and admin order endpoints.
type Orders struct {
	c Doer
}

// Mine lists the signed-in user's orders.
func (o *Orders) Mine(ctx context.Context) ([]models.Order, error) {
	return getList[models.Order](ctx, o.c, "/Orders", nil)
}

func (o *Orders) Get(ctx context.Context, id int) (*models.Order, error) {
	return getOne[models.Order](ctx, o.c, "/Orders/"+itoa(id))
}

func (o *Orders) Create(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	if req.ShippingAddressID <= 0 || req.BillingAddressID <= 0 {
		return nil, client.NewError(client.KindValidation, "shipping and billing addresses are required")
	}
	var out models.Order
	if err := o.c.Post(ctx, "/Orders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (o *Orders) Cancel(ctx context.Context, id int) error {
	return o.c.Put(ctx, "/Orders/"+itoa(id)+"/cancel", struct{}{}, nil)
}

// All lists every order, admin only.
func (o *Orders) All(ctx context.Context) ([]models.Order, error) {
	return getList[models.Order](ctx, o.c, "/Orders/all", nil)
}

// Pending lists orders awaiting processing, admin only.
func (o *Orders) Pending(ctx context.Context) ([]models.Order, error) {
	return getList[models.Order](ctx, o.c, "/Orders/pending", nil)
}

func (o *Orders) Statistics(ctx context.Context) (models.OrderStatistics, error) {
	var out models.OrderStatistics
	if err := o.c.Get(ctx, "/Orders/statistics", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus sets an order's status, admin only.
func (o *Orders) UpdateStatus(ctx context.Context, id int, status string) error {
	canonical, ok := models.ValidOrderStatus(status)
	if !ok {
		return client.NewError(client.KindValidation,
			fmt.Sprintf("invalid status %q, expected one of %s", status, strings.Join(models.OrderStatuses, ", ")))
	}
	return o.c.Put(ctx, "/Orders/"+itoa(id)+"/status", models.UpdateOrderStatusRequest{Status: canonical}, nil)
}

// WaitOptions tunes WaitForStatus polling.
type WaitOptions struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxWait         time.Duration
	// OnPoll is called with the order after every poll, may be nil.
	OnPoll func(*models.Order)
}

func (w WaitOptions) withDefaults() WaitOptions {
	if w.InitialInterval <= 0 {
		w.InitialInterval = 2 * time.Second
	}
	if w.MaxInterval <= 0 {
		w.MaxInterval = 30 * time.Second
	}
	if w.MaxWait <= 0 {
		w.MaxWait = 10 * time.Minute
	}
	return w
}

// WaitForStatus polls an order with exponential backoff until it reaches
// status. It gives up with ErrTerminalStatus if the order is delivered or
// cancelled first. Transport failures are retried, other failures end the wait.
func (o *Orders) WaitForStatus(ctx context.Context, id int, status string, opts WaitOptions) (*models.Order, error) {
	want, ok := models.ValidOrderStatus(status)
	if !ok {
		return nil, client.NewError(client.KindValidation, fmt.Sprintf("invalid status %q", status))
	}

	opts = opts.withDefaults()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = opts.InitialInterval
	b.MaxInterval = opts.MaxInterval

	operation := func() (*models.Order, error) {
		order, err := o.Get(ctx, id)
		if err != nil {
			if client.KindOf(err) == client.KindTransport {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}

		if opts.OnPoll != nil {
			opts.OnPoll(order)
		}

		switch {
		case strings.EqualFold(order.OrderStatus, want):
			return order, nil
		case models.IsTerminalStatus(order.OrderStatus):
			return order, backoff.Permanent(fmt.Errorf("%w: %s", ErrTerminalStatus, order.OrderStatus))
		}

		return nil, errStatusPending
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxElapsedTime(opts.MaxWait),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Debug().Err(err).Int("orderID", id).Dur("next", next).Msg("waiting for order status")
		}),
	)
}
