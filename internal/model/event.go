// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth      = "auth"
	EventCategoryDashboard = "dashboard"
	EventCategoryBackend   = "backend"
	EventCategoryCache     = "cache"
	EventCategorySystem    = "system"
)

// Event is an activity log entry.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Actor     string // email of the viewer, empty for system events
	Metadata  string // JSON string
	CreatedAt time.Time
}
