// Package config provides application configuration.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	GRPCPort      string        `env:"GRPC_PORT"` // empty disables the gRPC health endpoint
	FrontendURL   string        `env:"FRONTEND_URL"`
	DBPath        string        `env:"DB_PATH" envDefault:"./data/companion.db"`
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	RedisURL      string        `env:"REDIS_URL"` // empty keeps break sessions in memory
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	Break         BreakConfig
	Health        HealthConfig
}

// BreakConfig controls the live countdown and session cleanup.
type BreakConfig struct {
	TickInterval  time.Duration `env:"BREAK_TICK_INTERVAL" envDefault:"1s"`
	SweepInterval time.Duration `env:"BREAK_SWEEP_INTERVAL" envDefault:"5m"`
	Retention     time.Duration `env:"BREAK_RETENTION" envDefault:"1h"`
}

// HealthConfig controls the database probe behind the gRPC health service.
type HealthConfig struct {
	ProbeInterval time.Duration `env:"HEALTH_PROBE_INTERVAL" envDefault:"15s"`
	ProbeTimeout  time.Duration `env:"HEALTH_PROBE_TIMEOUT" envDefault:"5s"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.SessionSecret == "" && cfg.IsDevelopment() {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.SessionSecret = secret
		slog.Warn("SESSION_SECRET not set, using an ephemeral development secret")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required outside development")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.Break.TickInterval <= 0 {
		return fmt.Errorf("BREAK_TICK_INTERVAL must be > 0")
	}
	if c.Break.SweepInterval <= 0 {
		return fmt.Errorf("BREAK_SWEEP_INTERVAL must be > 0")
	}
	if c.Break.Retention <= 0 {
		return fmt.Errorf("BREAK_RETENTION must be > 0")
	}
	if c.Health.ProbeInterval <= 0 || c.Health.ProbeTimeout <= 0 {
		return fmt.Errorf("HEALTH_PROBE_INTERVAL and HEALTH_PROBE_TIMEOUT must be > 0")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// SlogLevel returns the configured log level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	lvl, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ParseLogLevel maps debug|info|warn|error to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", s)
	}
	return lvl, nil
}

// IsContainer returns true if running inside a container image.
func IsContainer() bool {
	if os.Getenv("CONTAINER") == "true" {
		return true
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
