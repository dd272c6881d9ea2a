// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route patterns for chi router registration.
const (
	// RouteHealth is the health check route.
	RouteHealth = "/health"
	// RouteDashboard is the dashboard mount point.
	RouteDashboard = "/ghost-dashboard"
	// RouteRoot is the dashboard page relative to RouteDashboard.
	RouteRoot = "/"

	// RouteRefresh reloads the collections.
	RouteRefresh = "/refresh"
	// RouteOpenDelete opens the delete prompt for a record.
	RouteOpenDelete = "/{entity}/{id}/delete"
	// RouteConfirmDelete confirms the open delete prompt.
	RouteConfirmDelete = "/delete/confirm"
	// RouteCancelDelete closes the delete prompt.
	RouteCancelDelete = "/delete/cancel"
	// RouteAdmins creates an admin.
	RouteAdmins = "/admins"
	// RouteLogout ends the session.
	RouteLogout = "/logout"
	// RouteAPIEntity returns a filtered collection as JSON.
	RouteAPIEntity = "/api/{entity}"
)

// Flash message types.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Session keys owned by ghostdash.
const (
	// SessionKeyDashboardID names the viewer's dashboard state in the cache.
	SessionKeyDashboardID = "ghostdash_id"
)

// Template names.
const (
	TemplateDashboard = "pages/dashboard"
)
