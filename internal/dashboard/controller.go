// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package dashboard implements the admin dashboard: loading the users, admins
// and articles collections, filtering them, and the delete and create-admin
// actions that reconcile local state after a successful backend call.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/olegiv/ghostdash/internal/backend"
	"github.com/olegiv/ghostdash/internal/model"
)

// Notification messages.
const (
	MsgLoadFailed         = "Failed to load dashboard data"
	MsgFieldsRequired     = "All fields are required"
	MsgAdminCreated       = "Admin created successfully"
	MsgCreateAdminFailed  = "Failed to create admin"
	MsgNoPendingDeletion  = "Nothing to delete"
	msgDeletedFormat      = "%s deleted successfully"
	msgDeleteFailedFormat = "Failed to delete %s"
)

// Notification kinds, matching the renderer's flash types.
const (
	KindSuccess = "success"
	KindError   = "error"
)

// Notification is a transient message for the viewer.
type Notification struct {
	Kind    string
	Message string
}

// IsError reports whether n reports a failure.
func (n *Notification) IsError() bool {
	return n != nil && n.Kind == KindError
}

func success(msg string) *Notification { return &Notification{Kind: KindSuccess, Message: msg} }
func failure(msg string) *Notification { return &Notification{Kind: KindError, Message: msg} }

// API is the backend the controller reads from and writes to.
type API interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	ListAdmins(ctx context.Context) ([]model.Admin, error)
	ListArticles(ctx context.Context) ([]model.Article, error)
	Delete(ctx context.Context, entity model.EntityType, id string) error
	CreateAdmin(ctx context.Context, in model.NewAdmin) (model.Admin, error)
}

// Controller applies dashboard operations to a viewer's State.
// It holds no per-viewer data itself and is safe for concurrent use.
type Controller struct {
	api    API
	logger *slog.Logger
	now    func() time.Time
}

// NewController creates a Controller backed by api.
func NewController(api API, logger *slog.Logger) *Controller {
	return &Controller{api: api, logger: logger, now: time.Now}
}

// Load fetches the three collections concurrently and replaces them in st.
// A failed fetch leaves its collection empty; any failure produces a single
// generic error notification. Load returns nil when all three succeeded.
func (c *Controller) Load(ctx context.Context, st *State) *Notification {
	var (
		users    []model.User
		admins   []model.Admin
		articles []model.Article
		g        errgroup.Group
	)

	g.Go(func() error {
		var err error
		if users, err = c.api.ListUsers(ctx); err != nil {
			c.logger.Info("error fetching users", "error", err, "category", model.EventCategoryBackend)
		}
		return err
	})
	g.Go(func() error {
		var err error
		if admins, err = c.api.ListAdmins(ctx); err != nil {
			c.logger.Info("error fetching admins", "error", err, "category", model.EventCategoryBackend)
		}
		return err
	})
	g.Go(func() error {
		var err error
		if articles, err = c.api.ListArticles(ctx); err != nil {
			c.logger.Info("error fetching articles", "error", err, "category", model.EventCategoryBackend)
		}
		return err
	})

	err := g.Wait()

	st.Users = orEmpty(users)
	st.Admins = orEmpty(admins)
	st.Articles = orEmpty(articles)
	st.Loaded = true
	st.LoadedAt = c.now()

	if err != nil {
		return failure(MsgLoadFailed)
	}
	return nil
}

// EnsureLoaded loads st on first activation only.
func (c *Controller) EnsureLoaded(ctx context.Context, st *State) *Notification {
	if st.Loaded {
		return nil
	}
	return c.Load(ctx, st)
}

// OpenDelete opens the confirmation prompt for a record in local state.
func (c *Controller) OpenDelete(st *State, entity model.EntityType, id string) *Notification {
	if !entity.Valid() {
		return failure(fmt.Sprintf("Unknown entity type %q", entity))
	}
	name, ok := st.displayName(entity, id)
	if !ok {
		return failure(entity.Title() + " not found")
	}

	st.Delete = DeleteDialog{
		Open:  true,
		Type:  entity,
		ID:    id,
		Name:  name,
		Token: uuid.NewString(),
	}
	return nil
}

// CancelDelete closes the confirmation prompt without deleting.
func (c *Controller) CancelDelete(st *State) {
	st.Delete = DeleteDialog{}
}

// ConfirmDelete deletes the record named by the open prompt. token must match
// the prompt's token. On success the record is removed from local state. The
// prompt is closed whatever the outcome.
func (c *Controller) ConfirmDelete(ctx context.Context, st *State, token string) *Notification {
	dlg := st.Delete
	defer c.CancelDelete(st)

	if !dlg.Open || token == "" || token != dlg.Token {
		return failure(MsgNoPendingDeletion)
	}

	if err := c.api.Delete(ctx, dlg.Type, dlg.ID); err != nil {
		c.logger.Info("error deleting "+string(dlg.Type),
			"error", err,
			"entity", dlg.Type,
			"id", dlg.ID,
			"category", model.EventCategoryBackend)
		return failure(fmt.Sprintf(msgDeleteFailedFormat, dlg.Type))
	}

	st.remove(dlg.Type, dlg.ID)
	return success(fmt.Sprintf(msgDeletedFormat, dlg.Type.Title()))
}

// CreateAdmin validates the inputs, creates the admin and appends it to local
// state. Name and email are kept in the form on failure and cleared on
// success; the password is never kept.
func (c *Controller) CreateAdmin(ctx context.Context, st *State, in model.NewAdmin) *Notification {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	st.NewAdmin = AdminForm{Name: in.Name, Email: in.Email}

	if in.Name == "" || in.Email == "" || in.Password == "" {
		return failure(MsgFieldsRequired)
	}

	admin, err := c.api.CreateAdmin(ctx, in)
	if err != nil {
		c.logger.Info("error creating admin", "error", err, "email", in.Email, "category", model.EventCategoryBackend)
		return failure(backend.ErrorMessage(err, MsgCreateAdminFailed))
	}

	st.Admins = append(st.Admins, admin)
	st.NewAdmin = AdminForm{}
	return success(MsgAdminCreated)
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
