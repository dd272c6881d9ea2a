// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Identity is the signed-in viewer as recorded in the session by the login
// service.
type Identity struct {
	Name  string
	Email string
	Role  string
}

// IsAdmin returns true if the viewer has admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
