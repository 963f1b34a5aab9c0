package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoad_missingFile(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, &File{}, f)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server: https://shop.example.com/api
timeout: 10s
cache_dir: /tmp/storefront-cache
shipping_cost: 7.5
tax_rate: 0.2
`)

	f, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://shop.example.com/api", f.Server)
	require.Equal(t, 10*time.Second, f.Timeout)
	require.Equal(t, "/tmp/storefront-cache", f.CacheDir)
	require.InDelta(t, 7.5, *f.ShippingCost, 0.0001)
	require.InDelta(t, 0.2, *f.TaxRate, 0.0001)
}

func TestLoad_invalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	require.Error(t, err)
}

func TestResolve_defaults(t *testing.T) {
	cfg := Resolve(Overrides{}, nil)

	require.Equal(t, "http://localhost:5000/api", cfg.Client.ServerURL)
	require.Equal(t, 30*time.Second, cfg.Client.Timeout)
	require.InDelta(t, 15.0, cfg.Pricing.ShippingCost, 0.0001)
	require.InDelta(t, 0.19, cfg.Pricing.TaxRate, 0.0001)
	require.NoError(t, cfg.Validate())
}

func TestResolve_precedence(t *testing.T) {
	zero := 0.0
	f := &File{
		Server:       "https://file.example.com/api",
		Timeout:      5 * time.Second,
		CacheDir:     "/file/cache",
		ShippingCost: &zero,
	}

	cfg := Resolve(Overrides{Server: "https://flag.example.com/api"}, f)

	require.Equal(t, "https://flag.example.com/api", cfg.Client.ServerURL)
	require.Equal(t, 5*time.Second, cfg.Client.Timeout)
	require.Equal(t, "/file/cache", cfg.Client.CacheDir)
	require.Zero(t, cfg.Pricing.ShippingCost, "explicit zero in file wins over default")

	cfg = Resolve(Overrides{Timeout: time.Minute, CacheDir: "/flag/cache"}, f)
	require.Equal(t, "https://file.example.com/api", cfg.Client.ServerURL)
	require.Equal(t, time.Minute, cfg.Client.Timeout)
	require.Equal(t, "/flag/cache", cfg.Client.CacheDir)
}

func TestConfig_Validate(t *testing.T) {
	negative := -1.0
	tooHigh := 1.0

	tests := []struct {
		name string
		o    Overrides
		f    *File
	}{
		{"bad scheme", Overrides{Server: "ftp://shop.example.com"}, nil},
		{"no host", Overrides{Server: "http:///api"}, nil},
		{"not a url", Overrides{Server: "://"}, nil},
		{"negative shipping", Overrides{}, &File{ShippingCost: &negative}},
		{"tax rate of one", Overrides{}, &File{TaxRate: &tooHigh}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, Resolve(tt.o, tt.f).Validate())
		})
	}
}
