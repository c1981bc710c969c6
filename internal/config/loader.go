package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if TALLY_CONFIG is set
//  3. env (prefix TALLY_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("TALLY_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: TALLY_ADDR, TALLY_QUEUE_SIZE, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("TALLY_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "tally_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	if c.DefaultTopN < 1 || c.MaxTopN < c.DefaultTopN {
		return fmt.Errorf("%w: top-n bounds out of order", ErrInvalidConfig)
	}
	if c.DefaultLimit < 1 || c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("%w: limit bounds out of order", ErrInvalidConfig)
	}
	return nil
}

// Location resolves the configured bucketing zone. Validate has already
// checked it, so failures here cannot happen after a successful Load.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
