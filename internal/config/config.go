// Package config loads the optional CLI configuration file and resolves it
// against flags and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/storefront/internal/api"
	"github.com/wolfeidau/storefront/internal/client"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the storefront directory.
const FileName = "config.yaml"

// File mirrors config.yaml. Zero values mean "not set".
type File struct {
	Server       string        `yaml:"server"`
	Timeout      time.Duration `yaml:"timeout"`
	CacheDir     string        `yaml:"cache_dir"`
	ShippingCost *float64      `yaml:"shipping_cost"`
	TaxRate      *float64      `yaml:"tax_rate"`
}

// Load reads path. A missing file returns an empty File.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug().Str("path", path).Msg("no config file")
			return &File{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("config loaded")

	return &f, nil
}

// DefaultPath returns config.yaml inside dir.
func DefaultPath(dir string) string {
	return filepath.Join(dir, FileName)
}

// Config is the resolved configuration.
type Config struct {
	Client  client.Config
	Pricing api.Pricing
}

// Overrides are values taken from flags or the environment. Empty fields
// defer to the file.
type Overrides struct {
	Server   string
	Timeout  time.Duration
	CacheDir string
}

// Resolve merges in precedence order: overrides, then the file, then defaults.
func Resolve(o Overrides, f *File) Config {
	if f == nil {
		f = &File{}
	}

	cfg := Config{
		Client:  client.DefaultConfig(),
		Pricing: api.DefaultPricing(),
	}

	cfg.Client.ServerURL = first(o.Server, f.Server, cfg.Client.ServerURL)
	cfg.Client.CacheDir = first(o.CacheDir, f.CacheDir, cfg.Client.CacheDir)

	switch {
	case o.Timeout > 0:
		cfg.Client.Timeout = o.Timeout
	case f.Timeout > 0:
		cfg.Client.Timeout = f.Timeout
	}

	if f.ShippingCost != nil {
		cfg.Pricing.ShippingCost = *f.ShippingCost
	}
	if f.TaxRate != nil {
		cfg.Pricing.TaxRate = *f.TaxRate
	}

	return cfg
}

// Validate checks the resolved configuration.
func (c Config) Validate() error {
	u, err := url.Parse(c.Client.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server URL must use http or https, got %q", c.Client.ServerURL)
	}
	if u.Host == "" {
		return fmt.Errorf("server URL has no host: %q", c.Client.ServerURL)
	}
	if c.Client.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.Pricing.ShippingCost < 0 {
		return errors.New("shipping cost must not be negative")
	}
	if c.Pricing.TaxRate < 0 || c.Pricing.TaxRate >= 1 {
		return errors.New("tax rate must be between 0 and 1")
	}
	return nil
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
