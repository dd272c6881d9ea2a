// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package dashboard

import (
	"strings"

	"github.com/olegiv/ghostdash/internal/model"
)

// FilterUsers returns the users whose name or email contains q,
// case-insensitively. An empty q matches every user.
func FilterUsers(users []model.User, q string) []model.User {
	return filter(users, q, func(u model.User) []string {
		return []string{u.Name, u.Email}
	})
}

// FilterAdmins returns the admins whose name or email contains q.
func FilterAdmins(admins []model.Admin, q string) []model.Admin {
	return filter(admins, q, func(a model.Admin) []string {
		return []string{a.Name, a.Email}
	})
}

// FilterArticles returns the articles whose title or author name contains q.
// Articles without an author name match on title only.
func FilterArticles(articles []model.Article, q string) []model.Article {
	return filter(articles, q, func(a model.Article) []string {
		return []string{a.Title, a.AuthorName}
	})
}

func filter[T any](items []T, q string, fields func(T) []string) []T {
	out := make([]T, 0, len(items))
	if q == "" {
		return append(out, items...)
	}

	needle := strings.ToLower(q)
	for _, it := range items {
		if containsAny(fields(it), needle) {
			out = append(out, it)
		}
	}
	return out
}

func containsAny(fields []string, needle string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
