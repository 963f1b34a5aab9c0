package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/storefront/cmd/cli/internal/commands"
	"github.com/wolfeidau/storefront/internal/logger"
	"github.com/wolfeidau/storefront/internal/telemetry"
)

var (
	version = "dev"
	cli     struct {
		Login              commands.LoginCmd              `cmd:"" help:"Sign in"`
		Register           commands.RegisterCmd           `cmd:"" help:"Create an account"`
		VerifyEmail        commands.VerifyEmailCmd        `cmd:"" name:"verify-email" help:"Confirm an email address"`
		ResendVerification commands.ResendVerificationCmd `cmd:"" name:"resend-verification" help:"Send the verification email again"`
		Logout             commands.LogoutCmd             `cmd:"" help:"Sign out"`
		Whoami             commands.WhoamiCmd             `cmd:"" help:"Show the signed in user"`
		Profile            commands.ProfileCmd            `cmd:"" help:"Update your profile"`
		Products           commands.ProductsCmd           `cmd:"" help:"Browse products"`
		Categories         commands.CategoriesCmd         `cmd:"" help:"Browse categories"`
		Cart               commands.CartCmd               `cmd:"" help:"Manage your cart"`
		Checkout           commands.CheckoutCmd           `cmd:"" help:"Place an order for the cart"`
		PromoCodes         commands.PromoCodesCmd         `cmd:"" name:"promo-codes" help:"List promo codes"`
		Orders             commands.OrdersCmd             `cmd:"" help:"Track your orders"`
		Addresses          commands.AddressesCmd          `cmd:"" help:"Manage your addresses"`
		Wishlist           commands.WishlistCmd           `cmd:"" help:"Manage your wishlist"`
		Reviews            commands.ReviewsCmd            `cmd:"" help:"Read and write product reviews"`
		Admin              commands.AdminCmd              `cmd:"" help:"Store administration"`
		WatchSession       commands.WatchSessionCmd       `cmd:"" name:"watch-session" help:"Follow session changes made by other processes"`

		Debug      bool          `help:"Enable debug mode."`
		Server     string        `help:"API base URL" env:"STOREFRONT_SERVER"`
		Config     string        `help:"Path to the config file" env:"STOREFRONT_CONFIG" type:"path"`
		SessionDir string        `help:"Directory holding the session file" env:"STOREFRONT_SESSION_DIR" type:"path"`
		CacheDir   string        `help:"Directory for the HTTP response cache" env:"STOREFRONT_CACHE_DIR" type:"path"`
		Timeout    time.Duration `help:"Request timeout"`
		Tracing    bool          `help:"Export traces and metrics over OTLP" env:"STOREFRONT_TRACING"`
		Version    kong.VersionFlag
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Name("storefront-cli"),
		kong.Description("Shop from the terminal."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	log.Logger = logger.Setup(cli.Debug)

	if cli.Tracing {
		shutdown, err := telemetry.InitTelemetry(ctx, "storefront-cli", version)
		cmd.FatalIfErrorf(err)
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn().Err(err).Msg("telemetry shutdown failed")
			}
		}()
	}

	err := cmd.Run(&commands.Globals{
		Debug:      cli.Debug,
		Server:     cli.Server,
		Config:     cli.Config,
		SessionDir: cli.SessionDir,
		CacheDir:   cli.CacheDir,
		Timeout:    cli.Timeout,
		Version:    version,
	})
	if err != nil {
		stop()
		cmd.FatalIfErrorf(commands.Explain(err))
	}
}
