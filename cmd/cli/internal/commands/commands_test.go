package commands

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/storefront/internal/client"
	"github.com/wolfeidau/storefront/internal/guard"
	"github.com/wolfeidau/storefront/internal/session"
)

const (
	customerToken = "tok-customer"
	adminToken    = "tok-admin"
)

// backend is a minimal storefront API. Cart reads require the customer token
// unless expired is set, in which case they answer 401.
type backend struct {
	expired atomic.Bool
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method + " " + r.URL.Path {
	case "POST /api/Auth/login":
		body, _ := io.ReadAll(r.Body)
		switch {
		case strings.Contains(string(body), `"admin@example.com"`):
			_, _ = io.WriteString(w, `{"token":"`+adminToken+`","userId":1,"email":"admin@example.com","firstName":"Sami","lastName":"Haddad","role":"Admin"}`)
		case strings.Contains(string(body), `"new@example.com"`):
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"message":"Veuillez vérifier votre email avant de vous connecter"}`)
		case strings.Contains(string(body), `"password":"secret"`):
			_, _ = io.WriteString(w, `{"token":"`+customerToken+`","userId":7,"email":"amira@example.com","firstName":"Amira","lastName":"Ben Ali","role":"Customer"}`)
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid email or password"}`)
		}
	case "GET /api/Cart/user/7":
		if b.expired.Load() || r.Header.Get("Authorization") != "Bearer "+customerToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"cartId":3,"userId":7,"cartItems":[{"cartItemId":1,"productId":10,"quantity":2,"price":12.5,"product":{"name":"Thyme Honey"}}]}`)
	case "GET /api/Admin/stats":
		if r.Header.Get("Authorization") != "Bearer "+adminToken {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = io.WriteString(w, `{"totalOrders":12,"totalUsers":4}`)
	default:
		http.NotFound(w, r)
	}
}

func newGlobals(t *testing.T) (*Globals, *bytes.Buffer, *backend) {
	t.Helper()

	b := &backend{}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	return &Globals{
		Server:     srv.URL + "/api",
		SessionDir: t.TempDir(),
		Version:    "test",
		Out:        &out,
	}, &out, b
}

func TestLoginAndWhoami(t *testing.T) {
	ctx := context.Background()
	globals, out, _ := newGlobals(t)

	err := (&LoginCmd{Email: "amira@example.com", Password: "secret", Return: "/cart"}).Run(ctx, globals)
	require.NoError(t, err)
	require.Contains(t, out.String(), "Logged in as Amira Ben Ali (amira@example.com)")
	require.Contains(t, out.String(), "Continue at: /cart")

	out.Reset()
	require.NoError(t, (&WhoamiCmd{}).Run(ctx, globals))
	require.Contains(t, out.String(), "amira@example.com")
	require.Contains(t, out.String(), "Customer")
	require.Contains(t, out.String(), client.Fingerprint(customerToken))
	require.NotContains(t, out.String(), customerToken)
}

func TestLogin_promptsForPassword(t *testing.T) {
	globals, out, _ := newGlobals(t)
	globals.In = strings.NewReader("secret\n")

	require.NoError(t, (&LoginCmd{Email: "amira@example.com"}).Run(context.Background(), globals))
	require.Contains(t, out.String(), "Password: ")
	require.Contains(t, out.String(), "Logged in as")
}

func TestLogin_rejected(t *testing.T) {
	globals, _, _ := newGlobals(t)

	err := (&LoginCmd{Email: "amira@example.com", Password: "wrong"}).Run(context.Background(), globals)
	require.ErrorIs(t, err, client.ErrAuthentication)
	require.Contains(t, err.Error(), "Invalid email or password")

	store, serr := session.NewStore(globals.SessionDir)
	require.NoError(t, serr)
	require.False(t, session.NewManager(store).IsLoggedIn())
}

func TestLogin_unverifiedEmailSuggestsResend(t *testing.T) {
	globals, _, _ := newGlobals(t)

	err := (&LoginCmd{Email: "new@example.com", Password: "secret"}).Run(context.Background(), globals)
	require.ErrorIs(t, err, session.ErrEmailNotVerified)
	require.Contains(t, err.Error(), "resend-verification new@example.com")

	err = (&LoginCmd{Email: "amira@example.com", Password: "wrong"}).Run(context.Background(), globals)
	require.NotContains(t, err.Error(), "resend-verification")
}

func TestLogin_whileLoggedIn(t *testing.T) {
	ctx := context.Background()
	globals, _, _ := newGlobals(t)
	require.NoError(t, (&LoginCmd{Email: "amira@example.com", Password: "secret"}).Run(ctx, globals))

	err := (&LoginCmd{Email: "amira@example.com", Password: "secret"}).Run(ctx, globals)
	require.ErrorIs(t, err, guard.ErrAlreadyLoggedIn)
	require.Contains(t, err.Error(), "logout")
}

func TestCart_requiresLogin(t *testing.T) {
	globals, _, _ := newGlobals(t)

	err := (&CartShowCmd{}).Run(context.Background(), globals)
	require.ErrorIs(t, err, guard.ErrLoginRequired)
	require.Contains(t, err.Error(), "--return /cart")
}

func TestCart_show(t *testing.T) {
	ctx := context.Background()
	globals, out, _ := newGlobals(t)
	require.NoError(t, (&LoginCmd{Email: "amira@example.com", Password: "secret"}).Run(ctx, globals))
	out.Reset()

	require.NoError(t, (&CartShowCmd{}).Run(ctx, globals))
	require.Contains(t, out.String(), "Thyme Honey")
	require.Contains(t, out.String(), "2 items, subtotal 25.00")
}

func TestCart_expiredSessionLogsOut(t *testing.T) {
	ctx := context.Background()
	globals, _, b := newGlobals(t)
	require.NoError(t, (&LoginCmd{Email: "amira@example.com", Password: "secret"}).Run(ctx, globals))

	b.expired.Store(true)

	err := (&CartShowCmd{}).Run(ctx, globals)
	require.ErrorIs(t, err, client.ErrAuthentication)
	require.True(t, client.RedirectsToLogin(err))
	require.Contains(t, Explain(err).Error(), "session has ended")

	store, serr := session.NewStore(globals.SessionDir)
	require.NoError(t, serr)
	require.False(t, session.NewManager(store).IsLoggedIn())

	err = (&CartShowCmd{}).Run(ctx, globals)
	require.ErrorIs(t, err, guard.ErrLoginRequired)
}

func TestAdmin_guard(t *testing.T) {
	ctx := context.Background()
	globals, _, _ := newGlobals(t)

	require.ErrorIs(t, (&AdminStatsCmd{}).Run(ctx, globals), guard.ErrLoginRequired)

	require.NoError(t, (&LoginCmd{Email: "amira@example.com", Password: "secret"}).Run(ctx, globals))
	err := (&AdminStatsCmd{}).Run(ctx, globals)
	require.ErrorIs(t, err, guard.ErrAdminRequired)
	require.ErrorIs(t, err, client.ErrAuthorization)
}

func TestAdmin_stats(t *testing.T) {
	ctx := context.Background()
	globals, out, _ := newGlobals(t)

	require.NoError(t, (&LoginCmd{Email: "admin@example.com", Password: "secret"}).Run(ctx, globals))
	require.Contains(t, out.String(), "Administrator access enabled")
	out.Reset()

	require.NoError(t, (&AdminStatsCmd{}).Run(ctx, globals))
	require.Contains(t, out.String(), "totalOrders")
	require.Contains(t, out.String(), "12")
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	globals, out, _ := newGlobals(t)

	require.ErrorIs(t, (&LogoutCmd{}).Run(ctx, globals), guard.ErrLoginRequired)

	require.NoError(t, (&LoginCmd{Email: "amira@example.com", Password: "secret"}).Run(ctx, globals))
	require.NoError(t, (&LogoutCmd{}).Run(ctx, globals))
	require.Contains(t, out.String(), "Logged out")

	require.ErrorIs(t, (&WhoamiCmd{}).Run(ctx, globals), guard.ErrLoginRequired)
}

func TestOpen_invalidServer(t *testing.T) {
	globals := &Globals{Server: "ftp://shop.example.com", SessionDir: t.TempDir(), Out: io.Discard}

	err := (&ProductsListCmd{}).Run(context.Background(), globals)
	require.Error(t, err)
	require.Contains(t, err.Error(), "http or https")
}

func TestExplain(t *testing.T) {
	require.NoError(t, Explain(nil))

	plain := client.NewError(client.KindValidation, "bad input")
	require.Same(t, error(plain), Explain(plain))
}

func TestReadSecret(t *testing.T) {
	var out bytes.Buffer
	g := &Globals{Out: &out, In: strings.NewReader("hunter2")}

	v, err := readSecret(g, "Password", "")
	require.NoError(t, err)
	require.Equal(t, "hunter2", v)

	v, err = readSecret(g, "Password", "given")
	require.NoError(t, err)
	require.Equal(t, "given", v)

	_, err = readSecret(&Globals{Out: &out, In: strings.NewReader("")}, "Password", "")
	require.Error(t, err)
}

func TestReadSecret_promptsShareInput(t *testing.T) {
	var out bytes.Buffer
	g := &Globals{Out: &out, In: strings.NewReader("current\nnext\nnext\n")}

	for _, want := range []struct{ label, value string }{
		{"Current password", "current"},
		{"New password", "next"},
		{"Confirm password", "next"},
	} {
		v, err := readSecret(g, want.label, "")
		require.NoError(t, err)
		require.Equal(t, want.value, v)
	}

	require.Equal(t, "Current password: New password: Confirm password: ", out.String())
}
