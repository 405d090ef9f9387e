package config

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/limaJavier/groupscheduling/pkg/sat"
)

const (
	envPrefix     = "GROUPS_"
	configPathEnv = "GROUPS_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if GROUPS_CONFIG is set
//  3. env (prefix GROUPS_)
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(configPathEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// GROUPS_SOLVER_TIMEOUT_MS -> solver_timeout_ms
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot default.
func (c *Config) Validate() error {
	c.Solver = strings.ToLower(c.Solver)

	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	} else if !slices.Contains(sat.SolverNames(), c.Solver) {
		return fmt.Errorf("%w: unknown solver %q, expected one of %v", ErrInvalidConfig, c.Solver, sat.SolverNames())
	} else if c.SolverTimeoutMS < 0 {
		return fmt.Errorf("%w: solver_timeout_ms must not be negative", ErrInvalidConfig)
	} else if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("%w: cache_ttl_seconds must not be negative", ErrInvalidConfig)
	} else if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	}
	return nil
}
