// Package config loads RetailTunes server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	// DefaultAddr is the default server address.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultSessionTTL is how long an idle dashboard session is kept.
	DefaultSessionTTL = 24 * time.Hour
)

// Validation errors.
var (
	ErrInvalidAddr       = errors.New("invalid listen address")
	ErrInvalidSessionTTL = errors.New("session TTL must be positive")
)

// Config holds server configuration.
type Config struct {
	Addr       string        `env:"ADDR" envDefault:"127.0.0.1:8080"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	// Debug logs every dashboard state transition.
	Debug bool `env:"DEBUG"`
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		Addr:       DefaultAddr,
		SessionTTL: DefaultSessionTTL,
	}
}

// Load reads RETAILTUNES_* environment variables and validates the result.
func Load() (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: "RETAILTUNES_"})
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for obviously broken values.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidAddr, c.Addr, err)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidSessionTTL, c.SessionTTL)
	}
	return nil
}
