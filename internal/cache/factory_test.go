// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_Memory(t *testing.T) {
	c, info, err := New(Config{DefaultTTL: time.Minute}, discardLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer func() { _ = c.Close() }()

	if info.Backend != BackendMemory || info.IsFallback {
		t.Errorf("info = %+v, want memory without fallback", info)
	}
	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("expected *MemoryCache, got %T", c)
	}
}

func TestNew_RedisUnreachable(t *testing.T) {
	cfg := Config{
		RedisURL:   "redis://127.0.0.1:1/0",
		DefaultTTL: time.Minute,
	}

	if _, _, err := New(cfg, discardLogger()); err == nil {
		t.Error("expected error without fallback")
	}

	cfg.FallbackToMemory = true
	c, info, err := New(cfg, discardLogger())
	if err != nil {
		t.Fatalf("New with fallback failed: %v", err)
	}
	defer func() { _ = c.Close() }()

	if info.Backend != BackendMemory || !info.IsFallback {
		t.Errorf("info = %+v, want memory fallback", info)
	}
}

func TestNew_InvalidRedisURL(t *testing.T) {
	if _, _, err := New(Config{RedisURL: "not a url"}, discardLogger()); err == nil {
		t.Error("expected error for invalid redis URL")
	}
}
