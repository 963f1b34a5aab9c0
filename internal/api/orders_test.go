package api

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/storefront/internal/client"
	"github.com/wolfeidau/storefront/internal/models"
)

func fastWait() WaitOptions {
	return WaitOptions{
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		MaxWait:         2 * time.Second,
	}
}

// statusSequence serves the order with each status in turn, repeating the last.
func statusSequence(statuses ...string) (*fakeDoer, *atomic.Int32) {
	var polls atomic.Int32
	doer := newFakeDoer()
	doer.handle = func(method, path string, _ any) (string, error) {
		n := int(polls.Add(1)) - 1
		if n >= len(statuses) {
			n = len(statuses) - 1
		}
		return fmt.Sprintf(`{"orderId":9,"orderNumber":"ORD-9","orderStatus":%q}`, statuses[n]), nil
	}
	return doer, &polls
}

func TestOrders_WaitForStatus(t *testing.T) {
	doer, polls := statusSequence(models.OrderPending, models.OrderProcessing, models.OrderShipped)
	orders := New(doer, customer).Orders

	var seen []string
	opts := fastWait()
	opts.OnPoll = func(o *models.Order) { seen = append(seen, o.OrderStatus) }

	order, err := orders.WaitForStatus(context.Background(), 9, "shipped", opts)
	require.NoError(t, err)
	require.Equal(t, models.OrderShipped, order.OrderStatus)
	require.Equal(t, int32(3), polls.Load())
	require.Equal(t, []string{"Pending", "Processing", "Shipped"}, seen)
}

func TestOrders_WaitForStatus_terminal(t *testing.T) {
	doer, polls := statusSequence(models.OrderPending, models.OrderCancelled)
	orders := New(doer, customer).Orders

	order, err := orders.WaitForStatus(context.Background(), 9, models.OrderDelivered, fastWait())
	require.ErrorIs(t, err, ErrTerminalStatus)
	require.Nil(t, order)
	require.Equal(t, int32(2), polls.Load())
}

func TestOrders_WaitForStatus_retriesTransportErrors(t *testing.T) {
	var polls atomic.Int32
	doer := newFakeDoer()
	doer.handle = func(method, path string, _ any) (string, error) {
		if polls.Add(1) < 3 {
			return "", &client.Error{Kind: client.KindTransport, Message: "connection refused"}
		}
		return `{"orderId":9,"orderStatus":"Delivered"}`, nil
	}
	orders := New(doer, customer).Orders

	order, err := orders.WaitForStatus(context.Background(), 9, models.OrderDelivered, fastWait())
	require.NoError(t, err)
	require.Equal(t, models.OrderDelivered, order.OrderStatus)
	require.Equal(t, int32(3), polls.Load())
}

func TestOrders_WaitForStatus_otherErrorsStop(t *testing.T) {
	var polls atomic.Int32
	doer := newFakeDoer()
	doer.handle = func(method, path string, _ any) (string, error) {
		polls.Add(1)
		return "", &client.Error{Kind: client.KindAuthorization, Status: 403}
	}
	orders := New(doer, customer).Orders

	_, err := orders.WaitForStatus(context.Background(), 9, models.OrderShipped, fastWait())
	require.ErrorIs(t, err, client.ErrAuthorization)
	require.Equal(t, int32(1), polls.Load())
}

func TestOrders_WaitForStatus_givesUp(t *testing.T) {
	doer, _ := statusSequence(models.OrderPending)
	orders := New(doer, customer).Orders

	opts := fastWait()
	opts.MaxWait = 50 * time.Millisecond

	_, err := orders.WaitForStatus(context.Background(), 9, models.OrderShipped, opts)
	require.ErrorIs(t, err, errStatusPending)
}

func TestOrders_WaitForStatus_invalidStatus(t *testing.T) {
	doer := newFakeDoer()
	_, err := New(doer, customer).Orders.WaitForStatus(context.Background(), 9, "Lost", fastWait())
	require.ErrorIs(t, err, client.ErrValidation)
	require.Empty(t, doer.paths())
}

func TestOrders_UpdateStatus(t *testing.T) {
	doer := newFakeDoer()
	orders := New(doer, customer).Orders

	require.ErrorIs(t, orders.UpdateStatus(context.Background(), 4, "teleported"), client.ErrValidation)
	require.NoError(t, orders.UpdateStatus(context.Background(), 4, "processing"))

	require.Equal(t, []string{"PUT /Orders/4/status"}, doer.paths())
	require.Equal(t, models.UpdateOrderStatusRequest{Status: models.OrderProcessing}, doer.requests[0].body)
}

func TestOrders_Create_requiresAddresses(t *testing.T) {
	doer := newFakeDoer()
	_, err := New(doer, customer).Orders.Create(context.Background(), models.CreateOrderRequest{ShippingAddressID: 1})
	require.ErrorIs(t, err, client.ErrValidation)
	require.Empty(t, doer.paths())
}

func TestOrders_routes(t *testing.T) {
	doer := newFakeDoer()
	doer.responses["GET /Orders"] = `[{"orderId":1},{"orderId":2}]`
	doer.responses["GET /Orders/statistics"] = `{"totalOrders":2}`
	doer.responses["GET /Orders/all"] = `[{"orderId":1},{"orderId":2},{"orderId":3}]`
	doer.responses["GET /Orders/pending"] = `[]`
	orders := New(doer, customer).Orders
	ctx := context.Background()

	mine, err := orders.Mine(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 2)

	stats, err := orders.Statistics(ctx)
	require.NoError(t, err)
	require.InDelta(t, 2, stats["totalOrders"], 0.0001)

	require.NoError(t, orders.Cancel(ctx, 1))
	all, err := orders.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	pending, err := orders.Pending(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)

	require.Equal(t, []string{
		"GET /Orders",
		"GET /Orders/statistics",
		"PUT /Orders/1/cancel",
		"GET /Orders/all",
		"GET /Orders/pending",
	}, doer.paths())
}
