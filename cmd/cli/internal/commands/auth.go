package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wolfeidau/storefront/internal/guard"
	"github.com/wolfeidau/storefront/internal/models"
	"github.com/wolfeidau/storefront/internal/session"
)

// LoginCmd signs in and stores the session.
type LoginCmd struct {
	Email    string `arg:"" help:"Account email"`
	Password string `help:"Account password, prompted for when empty" env:"STOREFRONT_PASSWORD"`
	Return   string `help:"Path to continue at after signing in" name:"return"`
}

func (c *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireGuest, "/login")
	if err != nil {
		return err
	}

	password, err := readSecret(globals, "Password", c.Password)
	if err != nil {
		return err
	}

	user, err := app.Session.Login(ctx, models.LoginRequest{Email: c.Email, Password: password})
	if err != nil {
		if errors.Is(err, session.ErrEmailNotVerified) {
			return fmt.Errorf("%w\n\nRun 'storefront-cli resend-verification %s' to get a new verification email", err, c.Email)
		}
		return err
	}

	out := globals.out()
	fmt.Fprintf(out, "Logged in as %s (%s)\n", user.FullName(), user.Email)
	if user.IsAdmin() {
		fmt.Fprintln(out, "Administrator access enabled")
	}
	if c.Return != "" {
		fmt.Fprintf(out, "Continue at: %s\n", c.Return)
	}

	return nil
}

// RegisterCmd creates an account. The account must be verified before login.
type RegisterCmd struct {
	Email           string `arg:"" help:"Account email"`
	FirstName       string `help:"First name" required:""`
	LastName        string `help:"Last name" required:""`
	Phone           string `help:"Phone number"`
	Password        string `help:"Password, prompted for when empty" env:"STOREFRONT_PASSWORD"`
	ConfirmPassword string `help:"Password confirmation, prompted for when empty" name:"confirm-password"`
}

func (c *RegisterCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireGuest, "/register")
	if err != nil {
		return err
	}

	password, err := readSecret(globals, "Password", c.Password)
	if err != nil {
		return err
	}
	confirm, err := readSecret(globals, "Confirm password", c.ConfirmPassword)
	if err != nil {
		return err
	}

	res, err := app.Session.Register(ctx, models.RegisterRequest{
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Email:           c.Email,
		PhoneNumber:     c.Phone,
		Password:        password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		return err
	}

	out := globals.out()
	fmt.Fprintln(out, res.Message)
	if res.VerificationRequired {
		fmt.Fprintf(out, "\nA verification email was sent to %s.\n", res.Email)
		fmt.Fprintln(out, "Run 'storefront-cli verify-email <token>' once it arrives, then log in.")
	}

	return nil
}

// VerifyEmailCmd confirms an email address.
type VerifyEmailCmd struct {
	Token string `arg:"" help:"Verification token from the email"`
}

func (c *VerifyEmailCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.Public, "/verify-email")
	if err != nil {
		return err
	}

	msg, err := app.Session.VerifyEmail(ctx, c.Token)
	if err != nil {
		return err
	}

	if msg == "" {
		msg = "Email verified. You can now log in."
	}
	fmt.Fprintln(globals.out(), msg)

	return nil
}

// ResendVerificationCmd requests a new verification email.
type ResendVerificationCmd struct {
	Email string `arg:"" help:"Account email"`
}

func (c *ResendVerificationCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.Public, "/resend-verification")
	if err != nil {
		return err
	}

	msg, err := app.Session.ResendVerification(ctx, c.Email)
	if err != nil {
		return err
	}

	if msg == "" {
		msg = "Verification email sent to " + c.Email
	}
	fmt.Fprintln(globals.out(), msg)

	return nil
}

// LogoutCmd ends the session.
type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/logout")
	if err != nil {
		return err
	}

	if err := app.Session.Logout(); err != nil {
		return fmt.Errorf("session cleared but the session file could not be updated: %w", err)
	}

	fmt.Fprintln(globals.out(), "Logged out")

	return nil
}

// WhoamiCmd shows the signed-in user.
type WhoamiCmd struct {
	Refresh bool `help:"Reload the profile from the server"`
}

func (c *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/profile")
	if err != nil {
		return err
	}

	user := app.Session.CurrentUser()
	if c.Refresh {
		if user, err = app.Session.RefreshProfile(ctx); err != nil {
			return err
		}
	}

	out := globals.out()
	fmt.Fprintf(out, "User ID:      %d\n", user.UserID)
	fmt.Fprintf(out, "Name:         %s\n", user.FullName())
	fmt.Fprintf(out, "Email:        %s\n", user.Email)
	fmt.Fprintf(out, "Role:         %s\n", user.Role)
	if user.PhoneNumber != "" {
		fmt.Fprintf(out, "Phone:        %s\n", user.PhoneNumber)
	}

	info, err := session.DescribeToken(app.Session.Token())
	fmt.Fprintf(out, "Token:        %s\n", info.Fingerprint)
	if err == nil && !info.ExpiresAt.IsZero() {
		status := "valid"
		if info.Expired(time.Now()) {
			status = "expired"
		}
		fmt.Fprintf(out, "Expires:      %s (%s)\n", info.ExpiresAt.Local().Format(time.RFC3339), status)
	}
	fmt.Fprintf(out, "Session file: %s\n", app.Store.Path())

	return nil
}

// ProfileCmd updates the signed-in user's profile.
type ProfileCmd struct {
	Phone    ProfilePhoneCmd    `cmd:"" help:"Update phone number"`
	Password ProfilePasswordCmd `cmd:"" help:"Change password"`
}

type ProfilePhoneCmd struct {
	Phone string `arg:"" help:"New phone number"`
}

func (c *ProfilePhoneCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/profile")
	if err != nil {
		return err
	}

	if err := app.Session.UpdatePhone(ctx, c.Phone); err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Phone number updated to %s\n", c.Phone)

	return nil
}

type ProfilePasswordCmd struct {
	Current string `help:"Current password, prompted for when empty"`
	New     string `help:"New password, prompted for when empty" name:"new"`
	Confirm string `help:"New password confirmation, prompted for when empty"`
}

func (c *ProfilePasswordCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/profile")
	if err != nil {
		return err
	}

	current, err := readSecret(globals, "Current password", c.Current)
	if err != nil {
		return err
	}
	newPassword, err := readSecret(globals, "New password", c.New)
	if err != nil {
		return err
	}
	confirm, err := readSecret(globals, "Confirm new password", c.Confirm)
	if err != nil {
		return err
	}

	if err := app.Session.ChangePassword(ctx, current, newPassword, confirm); err != nil {
		return err
	}

	fmt.Fprintln(globals.out(), "Password changed")

	return nil
}

// WatchSessionCmd prints every change to the stored session until interrupted,
// for example a login or logout made from another terminal.
type WatchSessionCmd struct{}

func (c *WatchSessionCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.Public, "/")
	if err != nil {
		return err
	}

	out := globals.out()
	unsubscribe := app.Session.Subscribe(func(p *models.Profile) {
		if p == nil {
			fmt.Fprintf(out, "%s signed out\n", time.Now().Format(time.TimeOnly))
			return
		}
		fmt.Fprintf(out, "%s signed in as %s (%s)\n", time.Now().Format(time.TimeOnly), p.Email, p.Role)
	})
	defer unsubscribe()

	if err := app.Session.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
