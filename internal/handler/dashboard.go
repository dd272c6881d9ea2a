// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers for the dashboard pages, its
// JSON filter endpoint and the health check.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/olegiv/ghostdash/internal/dashboard"
	"github.com/olegiv/ghostdash/internal/middleware"
	"github.com/olegiv/ghostdash/internal/model"
	"github.com/olegiv/ghostdash/internal/render"
)

// RecentEventsLimit is how many activity events the dashboard shows.
const RecentEventsLimit = 20

// ActivityLog records and lists activity events.
type ActivityLog interface {
	LogEvent(ctx context.Context, level, category, message, actor, ipAddress string, metadata map[string]any) error
	ListRecent(ctx context.Context, limit int) ([]model.Event, error)
}

// DashboardHandler serves the dashboard page and its actions.
type DashboardHandler struct {
	ctrl     *dashboard.Controller
	states   *dashboard.Sessions
	sm       *scs.SessionManager
	renderer *render.Renderer
	events   ActivityLog
	loginURL string
	version  string
}

// DashboardConfig holds the handler settings.
type DashboardConfig struct {
	LoginURL string
	Version  string
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(ctrl *dashboard.Controller, states *dashboard.Sessions, sm *scs.SessionManager,
	renderer *render.Renderer, events ActivityLog, cfg DashboardConfig) *DashboardHandler {
	return &DashboardHandler{
		ctrl:     ctrl,
		states:   states,
		sm:       sm,
		renderer: renderer,
		events:   events,
		loginURL: cfg.LoginURL,
		version:  cfg.Version,
	}
}

// Routes registers the dashboard routes on r. r is expected to be mounted
// at RouteDashboard behind the admin gate.
func (h *DashboardHandler) Routes(r chi.Router) {
	r.Get(RouteRoot, h.Show)
	r.Post(RouteRefresh, h.Refresh)
	r.Post(RouteConfirmDelete, h.ConfirmDelete)
	r.Post(RouteCancelDelete, h.CancelDelete)
	r.Post(RouteOpenDelete, h.OpenDelete)
	r.Post(RouteAdmins, h.CreateAdmin)
	r.Post(RouteLogout, h.Logout)
	r.Get(RouteAPIEntity, h.APIList)
}

// TabView is one collection tab.
type TabView struct {
	Type   model.EntityType
	Label  string
	Count  int
	Active bool
	URL    string
}

// EventView is an activity event prepared for display.
type EventView struct {
	Level     string
	Category  string
	Message   string
	Actor     string
	Details   string
	CreatedAt time.Time
}

// DashboardData holds data for the dashboard template.
type DashboardData struct {
	BasePath  string
	Tabs      []TabView
	ActiveTab model.EntityType
	Search    string
	Users     []model.User
	Admins    []model.Admin
	Articles  []model.Article
	Delete    dashboard.DeleteDialog
	NewAdmin  dashboard.AdminForm
	Events    []EventView
	LoadedAt  time.Time
}

// Show handles GET /ghost-dashboard. The first visit loads the collections.
// The tab and q query parameters select the tab and set its search.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	var note *dashboard.Notification
	st, err := h.states.Update(ctx, h.stateKey(r), func(st *dashboard.State) error {
		if tab, err := model.ParseEntityType(query.Get("tab")); err == nil {
			st.ActiveTab = tab
		}
		if query.Has("q") {
			st.SetSearch(st.ActiveTab, query.Get("q"))
		}
		// A bare visit is a fresh page open and refetches; tab links and
		// post-action redirects carry a query and reuse the loaded state.
		if len(query) == 0 {
			note = h.ctrl.Load(ctx, st)
		} else {
			note = h.ctrl.EnsureLoaded(ctx, st)
		}
		return nil
	})
	if err != nil {
		logAndInternalError(w, "failed to load dashboard state", "error", err)
		return
	}
	if note != nil {
		h.recordLoadFailure(r)
		h.renderer.SetFlash(r, note.Message, note.Kind)
	}

	data := DashboardData{
		BasePath:  RouteDashboard,
		Tabs:      tabs(st),
		ActiveTab: st.ActiveTab,
		Search:    st.Search(st.ActiveTab),
		Users:     st.FilteredUsers(),
		Admins:    st.FilteredAdmins(),
		Articles:  st.FilteredArticles(),
		Delete:    st.Delete,
		NewAdmin:  st.NewAdmin,
		Events:    h.recentEvents(ctx),
		LoadedAt:  st.LoadedAt,
	}

	if err := h.renderer.Render(w, r, TemplateDashboard, render.TemplateData{
		Title:    "Ghost Dashboard",
		Data:     data,
		Identity: middleware.GetIdentity(r),
		Version:  h.version,
	}); err != nil {
		logAndInternalError(w, "failed to render dashboard", "error", err)
	}
}

// Refresh handles POST /ghost-dashboard/refresh.
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var note *dashboard.Notification
	st, err := h.states.Update(r.Context(), h.stateKey(r), func(st *dashboard.State) error {
		note = h.ctrl.Load(r.Context(), st)
		return nil
	})
	if err != nil {
		logAndInternalError(w, "failed to refresh dashboard state", "error", err)
		return
	}
	if note != nil {
		h.recordLoadFailure(r)
	}
	flashNotification(w, r, h.renderer, tabURL(st.ActiveTab), note)
}

// OpenDelete handles POST /ghost-dashboard/{entity}/{id}/delete.
func (h *DashboardHandler) OpenDelete(w http.ResponseWriter, r *http.Request) {
	entity, err := model.ParseEntityType(chi.URLParam(r, "entity"))
	if err != nil {
		flashError(w, r, h.renderer, RouteDashboard, "Unknown entity type")
		return
	}
	id := chi.URLParam(r, "id")

	var note *dashboard.Notification
	_, err = h.states.Update(r.Context(), h.stateKey(r), func(st *dashboard.State) error {
		st.ActiveTab = entity
		note = h.ctrl.OpenDelete(st, entity, id)
		return nil
	})
	if err != nil {
		logAndInternalError(w, "failed to update dashboard state", "error", err)
		return
	}
	flashNotification(w, r, h.renderer, tabURL(entity), note)
}

// ConfirmDelete handles POST /ghost-dashboard/delete/confirm.
func (h *DashboardHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteDashboard) {
		return
	}
	token := r.FormValue("token")

	var (
		note *dashboard.Notification
		dlg  dashboard.DeleteDialog
	)
	st, err := h.states.Update(r.Context(), h.stateKey(r), func(st *dashboard.State) error {
		dlg = st.Delete
		note = h.ctrl.ConfirmDelete(r.Context(), st, token)
		return nil
	})
	if err != nil {
		logAndInternalError(w, "failed to update dashboard state", "error", err)
		return
	}

	if dlg.Open && note != nil && note.Message != dashboard.MsgNoPendingDeletion {
		level := model.EventLevelInfo
		if note.IsError() {
			level = model.EventLevelError
		}
		h.record(r, level, model.EventCategoryDashboard, note.Message, map[string]any{
			"entity": string(dlg.Type),
			"id":     dlg.ID,
			"name":   dlg.Name,
		})
	}

	flashNotification(w, r, h.renderer, tabURL(st.ActiveTab), note)
}

// CancelDelete handles POST /ghost-dashboard/delete/cancel.
func (h *DashboardHandler) CancelDelete(w http.ResponseWriter, r *http.Request) {
	st, err := h.states.Update(r.Context(), h.stateKey(r), func(st *dashboard.State) error {
		h.ctrl.CancelDelete(st)
		return nil
	})
	if err != nil {
		logAndInternalError(w, "failed to update dashboard state", "error", err)
		return
	}
	http.Redirect(w, r, tabURL(st.ActiveTab), http.StatusSeeOther)
}

// CreateAdmin handles POST /ghost-dashboard/admins.
func (h *DashboardHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	redirectURL := tabURL(model.EntityAdmin)
	if !parseFormOrRedirect(w, r, h.renderer, redirectURL) {
		return
	}
	in := model.NewAdmin{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	var note *dashboard.Notification
	_, err := h.states.Update(r.Context(), h.stateKey(r), func(st *dashboard.State) error {
		st.ActiveTab = model.EntityAdmin
		note = h.ctrl.CreateAdmin(r.Context(), st, in)
		return nil
	})
	if err != nil {
		logAndInternalError(w, "failed to update dashboard state", "error", err)
		return
	}

	if note != nil && note.Message != dashboard.MsgFieldsRequired {
		level := model.EventLevelInfo
		if note.IsError() {
			level = model.EventLevelError
		}
		h.record(r, level, model.EventCategoryDashboard, note.Message, map[string]any{
			"email": strings.TrimSpace(in.Email),
		})
	}

	flashNotification(w, r, h.renderer, redirectURL, note)
}

// Logout handles POST /ghost-dashboard/logout.
func (h *DashboardHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if id := h.sm.GetString(r.Context(), SessionKeyDashboardID); id != "" {
		if err := h.states.Reset(r.Context(), id); err != nil {
			slog.Warn("failed to reset dashboard state", "error", err, "category", model.EventCategoryCache)
		}
	}

	h.record(r, model.EventLevelInfo, model.EventCategoryAuth, "Signed out", nil)

	if err := h.sm.Destroy(r.Context()); err != nil {
		logAndInternalError(w, "failed to destroy session", "error", err)
		return
	}
	http.Redirect(w, r, h.loginURL, http.StatusSeeOther)
}

// APIListResponse is the JSON body of GET /ghost-dashboard/api/{entity}.
type APIListResponse struct {
	Success bool             `json:"success"`
	Entity  model.EntityType `json:"entity"`
	Query   string           `json:"query"`
	Total   int              `json:"total"`
	Count   int              `json:"count"`
	Items   any              `json:"items"`
	Error   string           `json:"error,omitempty"`
}

// APIList handles GET /ghost-dashboard/api/{entity}?q=. It stores q as the
// collection's search and returns the filtered collection.
func (h *DashboardHandler) APIList(w http.ResponseWriter, r *http.Request) {
	entity, err := model.ParseEntityType(chi.URLParam(r, "entity"))
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "Unknown entity type")
		return
	}
	query := r.URL.Query()

	var note *dashboard.Notification
	st, err := h.states.Update(r.Context(), h.stateKey(r), func(st *dashboard.State) error {
		if query.Has("q") {
			st.SetSearch(entity, query.Get("q"))
		}
		note = h.ctrl.EnsureLoaded(r.Context(), st)
		return nil
	})
	if err != nil {
		slog.Error("failed to update dashboard state", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	resp := APIListResponse{
		Success: note == nil,
		Entity:  entity,
		Query:   st.Search(entity),
	}
	if note != nil {
		resp.Error = note.Message
	}

	switch entity {
	case model.EntityUser:
		items := st.FilteredUsers()
		resp.Items, resp.Count, resp.Total = items, len(items), len(st.Users)
	case model.EntityAdmin:
		items := st.FilteredAdmins()
		resp.Items, resp.Count, resp.Total = items, len(items), len(st.Admins)
	case model.EntityArticle:
		items := st.FilteredArticles()
		resp.Items, resp.Count, resp.Total = items, len(items), len(st.Articles)
	}

	writeJSON(w, http.StatusOK, resp)
}

// stateKey returns the cache key of the viewer's dashboard state, creating
// one on first use.
func (h *DashboardHandler) stateKey(r *http.Request) string {
	id := h.sm.GetString(r.Context(), SessionKeyDashboardID)
	if id == "" {
		id = uuid.NewString()
		h.sm.Put(r.Context(), SessionKeyDashboardID, id)
	}
	return id
}

func (h *DashboardHandler) recordLoadFailure(r *http.Request) {
	h.record(r, model.EventLevelError, model.EventCategoryBackend, dashboard.MsgLoadFailed, nil)
}

// record writes an activity event for the current viewer. Failures are
// logged by the activity log itself.
func (h *DashboardHandler) record(r *http.Request, level, category, message string, metadata map[string]any) {
	if h.events == nil {
		return
	}
	_ = h.events.LogEvent(r.Context(), level, category, message, middleware.GetActorEmail(r), r.RemoteAddr, metadata)
}

func (h *DashboardHandler) recentEvents(ctx context.Context) []EventView {
	if h.events == nil {
		return nil
	}
	events, err := h.events.ListRecent(ctx, RecentEventsLimit)
	if err != nil {
		slog.Warn("failed to list recent events", "error", err)
		return nil
	}

	views := make([]EventView, 0, len(events))
	for _, e := range events {
		views = append(views, EventView{
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			Actor:     e.Actor,
			Details:   formatMetadata(e.Metadata),
			CreatedAt: e.CreatedAt,
		})
	}
	return views
}

func tabs(st *dashboard.State) []TabView {
	counts := map[model.EntityType]int{
		model.EntityUser:    len(st.Users),
		model.EntityAdmin:   len(st.Admins),
		model.EntityArticle: len(st.Articles),
	}

	out := make([]TabView, 0, len(model.EntityTypes))
	for _, t := range model.EntityTypes {
		out = append(out, TabView{
			Type:   t,
			Label:  t.Title() + "s",
			Count:  counts[t],
			Active: t == st.ActiveTab,
			URL:    tabURL(t),
		})
	}
	return out
}

func tabURL(t model.EntityType) string {
	if !t.Valid() {
		return RouteDashboard
	}
	return RouteDashboard + "?" + url.Values{"tab": {string(t)}}.Encode()
}

// formatMetadata converts JSON metadata to readable text.
// Example: {"entity":"user","id":"42"} -> "entity: user, id: 42"
func formatMetadata(metadata string) string {
	if metadata == "" || metadata == "{}" {
		return ""
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(metadata), &data); err != nil {
		return metadata
	}

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		var strValue string
		switch v := data[key].(type) {
		case string:
			strValue = v
		case float64:
			strValue = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			strValue = strconv.FormatBool(v)
		default:
			if b, err := json.Marshal(v); err == nil {
				strValue = string(b)
			}
		}
		parts = append(parts, key+": "+strValue)
	}

	return strings.Join(parts, ", ")
}
