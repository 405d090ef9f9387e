// Package config defines the service configuration and how it is loaded.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/limaJavier/groupscheduling/pkg/sat"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Solver names the backend used to decide compiled problems.
	Solver string `koanf:"solver"`

	// SolverTimeoutMS bounds every solve; 0 disables the bound.
	SolverTimeoutMS int `koanf:"solver_timeout_ms"`

	// SolverPaths maps external solver names to their executables. Solvers missing here are looked up on PATH.
	SolverPaths map[string]string `koanf:"solver_paths"`

	// RedisAddr enables the result cache when set, e.g. "localhost:6379".
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// CacheTTLSeconds is how long cached results live.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// MaxUploadBytes caps the size of uploaded rosters.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":5013",
		Solver:          sat.DefaultSolver,
		SolverTimeoutMS: 60_000,
		SolverPaths:     make(map[string]string),
		CacheTTLSeconds: 3600,
		MaxUploadBytes:  8 << 20,
	}
}

func (c *Config) SolverTimeout() time.Duration {
	return time.Duration(c.SolverTimeoutMS) * time.Millisecond
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// SlogLevel maps LogLevel to a slog level. Unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
