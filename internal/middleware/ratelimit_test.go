// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMutationRateLimiter(t *testing.T) {
	rl := NewMutationRateLimiter(0.001, 2, func(r *http.Request) string {
		return r.Header.Get("X-Session")
	})
	handler := rl.Middleware()(okHandler())

	post := func(sessionKey string) int {
		req := httptest.NewRequest(http.MethodPost, "/ghost-dashboard/refresh", nil)
		req.Header.Set("X-Session", sessionKey)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post("a"))
	assert.Equal(t, http.StatusOK, post("a"))
	assert.Equal(t, http.StatusTooManyRequests, post("a"))
	assert.Equal(t, http.StatusOK, post("b"), "limits are per key")
}

func TestMutationRateLimiter_GetPassesThrough(t *testing.T) {
	rl := NewMutationRateLimiter(0.001, 1, nil)
	handler := rl.Middleware()(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ghost-dashboard", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Zero(t, rl.cache.size())
}

func TestMutationRateLimiter_FallsBackToIP(t *testing.T) {
	rl := NewMutationRateLimiter(0.001, 1, func(*http.Request) string { return "" })
	handler := rl.Middleware()(okHandler())

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:5678"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1234"))
}

func TestLimiterCache_ClearIfExceeds(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	lc.get("a")
	lc.get("b")
	assert.Same(t, lc.get("a"), lc.get("a"))

	assert.False(t, lc.clearIfExceeds(2))
	lc.get("c")
	assert.True(t, lc.clearIfExceeds(2))
	assert.Zero(t, lc.size())
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:4321"
	assert.Equal(t, "192.0.2.1", getClientIP(req))

	req.RemoteAddr = "192.0.2.1"
	assert.Equal(t, "192.0.2.1", getClientIP(req))
}
