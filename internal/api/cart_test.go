package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/storefront/internal/client"
	"github.com/wolfeidau/storefront/internal/models"
)

const cartJSON = `{"cartId":3,"userId":7,"cartItems":[
	{"cartItemId":1,"productId":10,"quantity":2,"price":12.5,"product":{"productId":10,"name":"Thyme Honey","price":12.5}},
	{"cartItemId":2,"productId":11,"quantity":1,"price":0,"product":{"productId":11,"name":"Orange Blossom Honey","price":20}}
]}`

func TestCart_Get_userRoute(t *testing.T) {
	doer := newFakeDoer()
	doer.responses["GET /Cart/user/7"] = cartJSON
	cart := New(doer, customer).Cart

	got, err := cart.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, got.CartItems, 2)
	require.InDelta(t, 45.0, got.Subtotal(), 0.0001)
	require.Equal(t, 3, got.Quantity())
	require.Equal(t, []string{"GET /Cart/user/7"}, doer.paths())
}

func TestCart_Get_fallsBackToGenericRoute(t *testing.T) {
	for _, kind := range []client.Kind{client.KindUnexpected, client.KindValidation} {
		t.Run(kind.String(), func(t *testing.T) {
			doer := newFakeDoer()
			doer.errs["GET /Cart/user/7"] = &client.Error{Kind: kind, Status: 404}
			doer.responses["GET /Cart"] = cartJSON
			cart := New(doer, customer).Cart

			got, err := cart.Get(context.Background())
			require.NoError(t, err)
			require.Equal(t, 3, got.CartID)
			require.Equal(t, []string{"GET /Cart/user/7", "GET /Cart"}, doer.paths())
		})
	}
}

func TestCart_Get_noFallbackOnAuthOrTransport(t *testing.T) {
	for _, kind := range []client.Kind{client.KindAuthentication, client.KindAuthorization, client.KindTransport} {
		t.Run(kind.String(), func(t *testing.T) {
			doer := newFakeDoer()
			doer.errs["GET /Cart/user/7"] = &client.Error{Kind: kind}
			cart := New(doer, customer).Cart

			_, err := cart.Get(context.Background())
			require.Equal(t, kind, client.KindOf(err))
			require.Equal(t, []string{"GET /Cart/user/7"}, doer.paths())
		})
	}
}

func TestCart_requiresUser(t *testing.T) {
	doer := newFakeDoer()
	cart := New(doer, fixedUser{}).Cart

	_, err := cart.Get(context.Background())
	require.ErrorIs(t, err, client.ErrAuthentication)

	err = cart.Add(context.Background(), 10, 1)
	require.ErrorIs(t, err, client.ErrAuthentication)

	require.ErrorIs(t, New(doer, nil).Cart.Clear(context.Background()), client.ErrAuthentication)
	require.Empty(t, doer.paths())
}

func TestCart_Add(t *testing.T) {
	doer := newFakeDoer()
	cart := New(doer, customer).Cart

	require.ErrorIs(t, cart.Add(context.Background(), 10, 0), client.ErrValidation)
	require.NoError(t, cart.Add(context.Background(), 10, 3))

	require.Len(t, doer.requests, 1)
	require.Equal(t, "/Cart/items", doer.requests[0].path)
	require.Equal(t, models.AddCartItemRequest{UserID: 7, ProductID: 10, Quantity: 3}, doer.requests[0].body)
}

func TestCart_UpdateAndRemove(t *testing.T) {
	doer := newFakeDoer()
	cart := New(doer, customer).Cart

	require.ErrorIs(t, cart.UpdateQuantity(context.Background(), 1, 0), client.ErrValidation)
	require.NoError(t, cart.UpdateQuantity(context.Background(), 1, 4))
	require.NoError(t, cart.Remove(context.Background(), 2))

	require.Equal(t, []string{"PUT /Cart/items/1", "DELETE /Cart/items/2"}, doer.paths())
	require.Equal(t, models.UpdateCartItemRequest{Quantity: 4}, doer.requests[0].body)
}

func TestCart_Clear_fallback(t *testing.T) {
	doer := newFakeDoer()
	doer.errs["DELETE /Cart/user/7"] = &client.Error{Kind: client.KindUnexpected, Status: 405}
	cart := New(doer, customer).Cart

	require.NoError(t, cart.Clear(context.Background()))
	require.Equal(t, []string{"DELETE /Cart/user/7", "DELETE /Cart"}, doer.paths())
}

func TestCart_CountAndTotal(t *testing.T) {
	doer := newFakeDoer()
	doer.responses["GET /Cart/user/7/count"] = `5`
	doer.errs["GET /Cart/user/7/total"] = &client.Error{Kind: client.KindUnexpected, Status: 404}
	doer.responses["GET /Cart/total"] = `{"totalAmount":"45.50"}`
	cart := New(doer, customer).Cart

	n, err := cart.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, n)

	total, err := cart.Total(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 45.5, total, 0.0001)
}
