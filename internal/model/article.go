// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Article statuses known to the dashboard. The backend may report others.
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

// Article is a generated article.
type Article struct {
	ID         string    `json:"_id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`               // author user ID
	AuthorName string    `json:"authorName,omitempty"` // empty when the backend did not resolve it
	Status     string    `json:"status"`
	CreatedAt  Timestamp `json:"createdAt"`
}

// IsPublished returns true if the article has been published.
func (a Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}
