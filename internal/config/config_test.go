// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-Secret-key-32-bytes-long!!!"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GHOST_SESSION_SECRET", testSecret)
	t.Setenv("GHOST_BACKEND_URL", "http://localhost:3000/api/ghost-dashboard")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data/ghostdash.db", cfg.DBPath)
	assert.Equal(t, "localhost", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "/ghost-login", cfg.LoginURL)
	assert.Equal(t, "session", cfg.SessionCookie)
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
	assert.Equal(t, time.Hour, cfg.StateTTL)
	assert.Equal(t, "ghostdash:", cfg.CachePrefix)
	assert.Equal(t, 90*24*time.Hour, cfg.EventRetention())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.UseRedisCache())
	assert.Equal(t, "localhost:8080", cfg.ServerAddr())
}

func TestLoad_CustomValues(t *testing.T) {
	setRequired(t)
	t.Setenv("GHOST_DB_PATH", "/custom/path.db")
	t.Setenv("GHOST_SERVER_HOST", "0.0.0.0")
	t.Setenv("GHOST_SERVER_PORT", "3001")
	t.Setenv("GHOST_ENV", "production")
	t.Setenv("GHOST_LOG_LEVEL", "debug")
	t.Setenv("GHOST_LOGIN_URL", "/auth/login")
	t.Setenv("GHOST_BACKEND_TOKEN", "tok")
	t.Setenv("GHOST_BACKEND_TIMEOUT", "3s")
	t.Setenv("GHOST_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("GHOST_STATE_TTL", "30m")
	t.Setenv("GHOST_MUTATION_RPS", "0.5")
	t.Setenv("GHOST_MUTATION_BURST", "3")
	t.Setenv("GHOST_EVENT_RETENTION_DAYS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/custom/path.db", cfg.DBPath)
	assert.Equal(t, "0.0.0.0:3001", cfg.ServerAddr())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "/auth/login", cfg.LoginURL)
	assert.Equal(t, "tok", cfg.BackendToken)
	assert.Equal(t, 3*time.Second, cfg.BackendTimeout)
	assert.True(t, cfg.UseRedisCache())
	assert.Equal(t, 30*time.Minute, cfg.StateTTL)
	assert.Equal(t, 0.5, cfg.MutationRPS)
	assert.Equal(t, 3, cfg.MutationBurst)
	assert.Zero(t, cfg.EventRetention())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"GHOST_SESSION_SECRET": ""}},
		{"short secret", map[string]string{"GHOST_SESSION_SECRET": "too-short"}},
		{"weak secret", map[string]string{"GHOST_SESSION_SECRET": "change-me-to-32-byte-secret-key!"}},
		{"missing backend", map[string]string{"GHOST_BACKEND_URL": ""}},
		{"relative backend", map[string]string{"GHOST_BACKEND_URL": "/api/ghost-dashboard"}},
		{"ftp backend", map[string]string{"GHOST_BACKEND_URL": "ftp://host/api"}},
		{"zero rps", map[string]string{"GHOST_MUTATION_RPS": "0"}},
		{"zero ttl", map[string]string{"GHOST_STATE_TTL": "0s"}},
		{"bad schedule", map[string]string{"GHOST_RETENTION_SCHEDULE": "whenever"}},
		{"bad port", map[string]string{"GHOST_SERVER_PORT": "http"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, Config{LogLevel: in}.SlogLevel(), in)
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	assert.True(t, hasMinimumEntropy("abcDEF123"))
	assert.True(t, hasMinimumEntropy("abc-123-xyz"))
	assert.False(t, hasMinimumEntropy("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))
	assert.False(t, hasMinimumEntropy("abcdef123456"))
}
