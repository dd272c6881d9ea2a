// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the viewer identity, the
// admin gate, CSRF protection, rate limiting and security headers.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ghostdash/internal/model"
	"github.com/olegiv/ghostdash/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys.
const (
	ContextKeyIdentity    ContextKey = "identity"
	ContextKeyRequestPath ContextKey = "request_path"
)

// AccessLogger records denied access attempts.
type AccessLogger interface {
	LogWarning(ctx context.Context, category, message, actor, ipAddress string, metadata map[string]any) error
}

// LoadIdentity creates middleware that puts the session identity, if any,
// into the request context.
func LoadIdentity(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := session.Identity(r.Context(), sm)
			if id == nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *model.Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, id)
}

// GetIdentity retrieves the viewer from the request context.
// Returns nil if nobody is signed in.
func GetIdentity(r *http.Request) *model.Identity {
	id, _ := r.Context().Value(ContextKeyIdentity).(*model.Identity)
	return id
}

// GetActorEmail returns the viewer's email, or an empty string.
func GetActorEmail(r *http.Request) string {
	if id := GetIdentity(r); id != nil {
		return id.Email
	}
	return ""
}

// RequireAdmin creates middleware that lets only admins through. Anyone
// else, signed in or not, is redirected to loginURL and nothing is rendered.
// events may be nil.
func RequireAdmin(loginURL string, events AccessLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := GetIdentity(r)
			if id.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			if id != nil {
				path := requestPath(r)
				slog.Warn("access denied",
					"method", r.Method,
					"path", path,
					"user_role", id.Role,
					"remote_addr", r.RemoteAddr,
					"actor", id.Email,
					"category", model.EventCategoryAuth,
				)
				if events != nil {
					metadata := map[string]any{
						"method":    r.Method,
						"path":      path,
						"user_role": id.Role,
					}
					_ = events.LogWarning(r.Context(), model.EventCategoryAuth, "Access denied: admin role required", id.Email, r.RemoteAddr, metadata)
				}
			}

			http.Redirect(w, r, loginURL, http.StatusSeeOther)
		})
	}
}

// RequestPath creates middleware that stores the request path in the context.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}

// requestPath returns the path recorded by RequestPath, or the current URL
// path when the middleware did not run.
func requestPath(r *http.Request) string {
	if path := GetRequestPath(r.Context()); path != "" {
		return path
	}
	return r.URL.Path
}
