// Package guard decides whether a navigation target may be entered given the
// current session. Guards are pure and synchronous.
package guard

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/storefront/internal/client"
	"github.com/wolfeidau/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	LoginPath   = "/login"
	HomePath    = "/"
	ReturnParam = "returnUrl"
)

var (
	ErrLoginRequired   = fmt.Errorf("you must be logged in: %w", client.ErrAuthentication)
	ErrAdminRequired   = fmt.Errorf("administrator access is required: %w", client.ErrAuthorization)
	ErrAlreadyLoggedIn = fmt.Errorf("you are already logged in: %w", client.ErrAuthorization)
)

// State is the read-only view of the session a guard needs.
type State interface {
	IsLoggedIn() bool
	IsAdmin() bool
}

// Target is where a denied navigation is sent.
type Target int

const (
	TargetNone Target = iota
	TargetLogin
	TargetHome
)

func (t Target) String() string {
	switch t {
	case TargetLogin:
		return "login"
	case TargetHome:
		return "home"
	}
	return "none"
}

// Decision is the outcome of a guard.
type Decision struct {
	Allow  bool
	Target Target
	// ReturnPath is the originally requested path, only set for login redirects.
	ReturnPath string
	err        error
}

// RedirectURL renders the redirect, empty when allowed.
func (d Decision) RedirectURL() string {
	switch d.Target {
	case TargetLogin:
		if d.ReturnPath == "" {
			return LoginPath
		}
		return LoginPath + "?" + url.Values{ReturnParam: {d.ReturnPath}}.Encode()
	case TargetHome:
		return HomePath
	}
	return ""
}

// Err is nil when allowed, otherwise the sentinel explaining the denial.
func (d Decision) Err() error {
	if d.Allow {
		return nil
	}
	return d.err
}

func allow() Decision {
	return Decision{Allow: true}
}

// Authenticated allows signed-in users. Others go to login, carrying
// requested as the return path when it is not empty.
func Authenticated(s State, requested string) Decision {
	if s.IsLoggedIn() {
		return allow()
	}
	return Decision{Target: TargetLogin, ReturnPath: requested, err: ErrLoginRequired}
}

// Admin allows signed-in administrators. Everyone else goes home.
func Admin(s State) Decision {
	if s.IsLoggedIn() && s.IsAdmin() {
		return allow()
	}
	return Decision{Target: TargetHome, err: ErrAdminRequired}
}

// Guest allows only signed-out users, for login and registration.
func Guest(s State) Decision {
	if !s.IsLoggedIn() {
		return allow()
	}
	return Decision{Target: TargetHome, err: ErrAlreadyLoggedIn}
}

// Rule names the guard protecting a command.
type Rule int

const (
	Public Rule = iota
	RequireAuthenticated
	RequireAdmin
	RequireGuest
)

func (r Rule) String() string {
	switch r {
	case RequireAuthenticated:
		return "authenticated"
	case RequireAdmin:
		return "admin"
	case RequireGuest:
		return "guest"
	}
	return "public"
}

// Evaluate runs the guard for rule.
func Evaluate(r Rule, s State, requested string) Decision {
	switch r {
	case RequireAuthenticated:
		return Authenticated(s, requested)
	case RequireAdmin:
		return Admin(s)
	case RequireGuest:
		return Guest(s)
	}
	return allow()
}

// Check evaluates rule and records denials. It returns the decision's error.
func Check(ctx context.Context, r Rule, s State, requested string) error {
	d := Evaluate(r, s, requested)
	if d.Allow {
		return nil
	}

	telemetry.GetMetrics().GuardDenialsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("rule", r.String())))

	log.Debug().
		Str("rule", r.String()).
		Str("redirect", d.RedirectURL()).
		Msg("guard denied")

	return d.Err()
}

// IsDenied reports whether err came from a guard.
func IsDenied(err error) bool {
	return errors.Is(err, ErrLoginRequired) || errors.Is(err, ErrAdminRequired) || errors.Is(err, ErrAlreadyLoggedIn)
}
