// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "fmt"

// EntityType names one of the three collections managed by the dashboard.
type EntityType string

// Entity types.
const (
	EntityUser    EntityType = "user"
	EntityAdmin   EntityType = "admin"
	EntityArticle EntityType = "article"
)

// EntityTypes lists all entity types in display order.
var EntityTypes = []EntityType{EntityUser, EntityAdmin, EntityArticle}

// ParseEntityType parses a singular ("user") or collection ("users") name.
func ParseEntityType(s string) (EntityType, error) {
	switch s {
	case "user", "users":
		return EntityUser, nil
	case "admin", "admins":
		return EntityAdmin, nil
	case "article", "articles":
		return EntityArticle, nil
	}
	return "", fmt.Errorf("unknown entity type %q", s)
}

// Collection returns the plural collection name used in API paths.
func (t EntityType) Collection() string {
	return string(t) + "s"
}

// Title returns the capitalized name, e.g. "User".
func (t EntityType) Title() string {
	switch t {
	case EntityUser:
		return "User"
	case EntityAdmin:
		return "Admin"
	case EntityArticle:
		return "Article"
	}
	return string(t)
}

// Valid reports whether t is a known entity type.
func (t EntityType) Valid() bool {
	_, err := ParseEntityType(string(t))
	return err == nil
}
