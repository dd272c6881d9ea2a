// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the records the dashboard reads from the backend API
// (users, admins, articles) and the viewer identity taken from the session.
package model

// User roles as reported by the backend and carried in the session.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a platform account. Users register elsewhere; the dashboard only
// lists and deletes them.
type User struct {
	ID                string `json:"_id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	ArticlesGenerated int    `json:"articlesGenerated"`
}

// IsAdmin returns true if the user has admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Admin is an administrator account.
type Admin struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt Timestamp `json:"createdAt"`
}

// NewAdmin is the payload for creating an administrator.
type NewAdmin struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
