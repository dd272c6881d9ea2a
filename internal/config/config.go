// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/olegiv/ghostdash/internal/scheduler"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"GHOST_DB_PATH" envDefault:"./data/ghostdash.db"`
	SessionSecret string `env:"GHOST_SESSION_SECRET,required"`
	SessionCookie string `env:"GHOST_SESSION_COOKIE" envDefault:"session"`
	ServerHost    string `env:"GHOST_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"GHOST_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"GHOST_ENV" envDefault:"development"`
	LogLevel      string `env:"GHOST_LOG_LEVEL" envDefault:"info"`
	LoginURL      string `env:"GHOST_LOGIN_URL" envDefault:"/ghost-login"`

	// Backend API
	BackendURL     string        `env:"GHOST_BACKEND_URL,required"` // e.g. http://localhost:3000/api/ghost-dashboard
	BackendToken   string        `env:"GHOST_BACKEND_TOKEN"`
	BackendTimeout time.Duration `env:"GHOST_BACKEND_TIMEOUT" envDefault:"15s"`

	// Dashboard state cache
	RedisURL       string        `env:"GHOST_REDIS_URL"`
	CachePrefix    string        `env:"GHOST_CACHE_PREFIX" envDefault:"ghostdash:"`
	StateTTL       time.Duration `env:"GHOST_STATE_TTL" envDefault:"1h"`
	StateCacheSize int           `env:"GHOST_STATE_CACHE_SIZE" envDefault:"10000"`

	// Mutation rate limit per session
	MutationRPS   float64 `env:"GHOST_MUTATION_RPS" envDefault:"2"`
	MutationBurst int     `env:"GHOST_MUTATION_BURST" envDefault:"10"`

	// Activity log retention
	EventRetentionDays int    `env:"GHOST_EVENT_RETENTION_DAYS" envDefault:"90"`
	RetentionSchedule  string `env:"GHOST_RETENTION_SCHEDULE" envDefault:"0 3 * * *"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis is configured for dashboard state.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// EventRetention returns how long activity events are kept. Zero disables
// the purge.
func (c Config) EventRetention() time.Duration {
	if c.EventRetentionDays <= 0 {
		return 0
	}
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("GHOST_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("GHOST_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return fmt.Errorf("GHOST_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("GHOST_BACKEND_URL must be an absolute http(s) URL, got %q", c.BackendURL)
	}

	if c.LoginURL == "" {
		return fmt.Errorf("GHOST_LOGIN_URL must not be empty")
	}

	if c.MutationRPS <= 0 || c.MutationBurst <= 0 {
		return fmt.Errorf("GHOST_MUTATION_RPS and GHOST_MUTATION_BURST must be positive")
	}

	if c.StateTTL <= 0 {
		return fmt.Errorf("GHOST_STATE_TTL must be positive, got %s", c.StateTTL)
	}

	if err := scheduler.ValidateSchedule(c.RetentionSchedule); err != nil {
		return fmt.Errorf("GHOST_RETENTION_SCHEDULE: %w", err)
	}

	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
