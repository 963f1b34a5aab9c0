package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/wolfeidau/storefront/internal/api"
	"github.com/wolfeidau/storefront/internal/client"
	"github.com/wolfeidau/storefront/internal/config"
	"github.com/wolfeidau/storefront/internal/guard"
	"github.com/wolfeidau/storefront/internal/session"
)

// Globals are the flags shared by every command.
type Globals struct {
	Debug      bool
	Server     string
	Config     string
	SessionDir string
	CacheDir   string
	Timeout    time.Duration
	Version    string

	// Out and In default to stdout and stdin.
	Out io.Writer
	In  io.Reader

	reader *bufio.Reader
}

func (g *Globals) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// in returns one buffered reader shared by every prompt so lines read
// ahead by an earlier prompt are not lost.
func (g *Globals) in() *bufio.Reader {
	if g.reader == nil {
		var r io.Reader = os.Stdin
		if g.In != nil {
			r = g.In
		}
		g.reader = bufio.NewReader(r)
	}
	return g.reader
}

// App is everything a command needs once the guard has let it through.
type App struct {
	Config  config.Config
	Store   *session.Store
	Session *session.Manager
	Client  *client.Client
	API     *api.Services
}

// open loads the session and configuration, applies the guard for rule and
// builds the client. requested is the path reported back to login when the
// guard redirects there.
func (g *Globals) open(ctx context.Context, rule guard.Rule, requested string) (*App, error) {
	store, err := session.NewStore(g.SessionDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	cfgPath := g.Config
	if cfgPath == "" {
		cfgPath = config.DefaultPath(store.Dir())
	}

	file, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	cfg := config.Resolve(config.Overrides{
		Server:   g.Server,
		Timeout:  g.Timeout,
		CacheDir: g.CacheDir,
	}, file)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mgr := session.NewManager(store)

	if err := guard.Check(ctx, rule, mgr, requested); err != nil {
		return nil, explainDenial(err, requested)
	}

	cfg.Client.UserAgent = "storefront-cli/" + g.Version

	c, err := client.New(cfg.Client, mgr)
	if err != nil {
		return nil, err
	}
	mgr.SetBackend(c)

	return &App{
		Config:  cfg,
		Store:   store,
		Session: mgr,
		Client:  c,
		API:     api.New(c, mgr),
	}, nil
}

func explainDenial(err error, requested string) error {
	switch {
	case errors.Is(err, guard.ErrLoginRequired):
		return fmt.Errorf("%w\n\nRun 'storefront-cli login <email> --return %s' to sign in", err, requested)
	case errors.Is(err, guard.ErrAdminRequired):
		return fmt.Errorf("%w\n\nThis command is only available to administrators", err)
	case errors.Is(err, guard.ErrAlreadyLoggedIn):
		return fmt.Errorf("%w\n\nRun 'storefront-cli logout' first", err)
	}
	return err
}

// Explain adds a next step to errors that need the user to act.
func Explain(err error) error {
	if err == nil {
		return nil
	}
	if client.RedirectsToLogin(err) {
		return fmt.Errorf("%w\n\nYour session has ended. Run 'storefront-cli login <email>' to sign in again", err)
	}
	return err
}

// readSecret returns value, or reads a line from in when value is empty.
func readSecret(g *Globals, label, value string) (string, error) {
	if value != "" {
		return value, nil
	}

	fmt.Fprintf(g.out(), "%s: ", label)

	line, err := g.in().ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}
