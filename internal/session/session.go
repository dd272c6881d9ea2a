// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the scs session manager shared with the login
// service and reads the viewer identity it stores.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ghostdash/internal/model"
)

// Keys written by the login service.
const (
	KeyUserName  = "user_name"
	KeyUserEmail = "user_email"
	KeyUserRole  = "user_role"
)

// DefaultCookieName is used when no cookie name is configured.
const DefaultCookieName = "session"

// Config configures the session manager.
type Config struct {
	// CookieName must match the login service's cookie.
	CookieName string
	Lifetime   time.Duration
	IsDev      bool
}

// New creates a new session manager configured with SQLite store.
func New(db *sql.DB, cfg Config) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = cfg.Lifetime
	if sm.Lifetime <= 0 {
		sm.Lifetime = 24 * time.Hour
	}

	sm.Cookie.Name = cfg.CookieName
	if sm.Cookie.Name == "" {
		sm.Cookie.Name = DefaultCookieName
	}
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !cfg.IsDev

	return sm
}

// Identity returns the viewer recorded in the session, or nil when nobody
// is signed in.
func Identity(ctx context.Context, sm *scs.SessionManager) *model.Identity {
	email := sm.GetString(ctx, KeyUserEmail)
	role := sm.GetString(ctx, KeyUserRole)
	if email == "" && role == "" {
		return nil
	}
	return &model.Identity{
		Name:  sm.GetString(ctx, KeyUserName),
		Email: email,
		Role:  role,
	}
}

// PutIdentity records id in the session. The login service normally does
// this; ghostdash uses it in tests.
func PutIdentity(ctx context.Context, sm *scs.SessionManager, id model.Identity) {
	sm.Put(ctx, KeyUserName, id.Name)
	sm.Put(ctx, KeyUserEmail, id.Email)
	sm.Put(ctx, KeyUserRole, id.Role)
}
