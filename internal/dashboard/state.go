// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package dashboard

import (
	"time"

	"github.com/olegiv/ghostdash/internal/model"
)

// DeleteDialog is the confirmation prompt for a pending deletion.
type DeleteDialog struct {
	Open  bool             `json:"open"`
	Type  model.EntityType `json:"type,omitempty"`
	ID    string           `json:"id,omitempty"`
	Name  string           `json:"name,omitempty"`
	Token string           `json:"token,omitempty"` // must be echoed back on confirm
}

// AdminForm holds the create-admin inputs kept between requests. The
// password is never stored.
type AdminForm struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// State is one viewer's dashboard: the local copy of the three collections
// plus the UI inputs that survive between requests.
type State struct {
	Users    []model.User    `json:"users"`
	Admins   []model.Admin   `json:"admins"`
	Articles []model.Article `json:"articles"`

	UserSearch    string `json:"user_search"`
	AdminSearch   string `json:"admin_search"`
	ArticleSearch string `json:"article_search"`

	ActiveTab model.EntityType `json:"active_tab"`
	NewAdmin  AdminForm        `json:"new_admin"`
	Delete    DeleteDialog     `json:"delete"`

	Loaded   bool      `json:"loaded"`
	LoadedAt time.Time `json:"loaded_at"`
}

// NewState returns an empty, not yet loaded state on the users tab.
func NewState() *State {
	return &State{
		Users:     []model.User{},
		Admins:    []model.Admin{},
		Articles:  []model.Article{},
		ActiveTab: model.EntityUser,
	}
}

// Search returns the search string of the given collection.
func (s *State) Search(t model.EntityType) string {
	switch t {
	case model.EntityUser:
		return s.UserSearch
	case model.EntityAdmin:
		return s.AdminSearch
	case model.EntityArticle:
		return s.ArticleSearch
	}
	return ""
}

// SetSearch replaces the search string of the given collection.
func (s *State) SetSearch(t model.EntityType, q string) {
	switch t {
	case model.EntityUser:
		s.UserSearch = q
	case model.EntityAdmin:
		s.AdminSearch = q
	case model.EntityArticle:
		s.ArticleSearch = q
	}
}

// FilteredUsers applies the current user search.
func (s *State) FilteredUsers() []model.User {
	return FilterUsers(s.Users, s.UserSearch)
}

// FilteredAdmins applies the current admin search.
func (s *State) FilteredAdmins() []model.Admin {
	return FilterAdmins(s.Admins, s.AdminSearch)
}

// FilteredArticles applies the current article search.
func (s *State) FilteredArticles() []model.Article {
	return FilterArticles(s.Articles, s.ArticleSearch)
}

// displayName returns the label shown in the delete prompt for a record, or
// false when the record is not in local state.
func (s *State) displayName(t model.EntityType, id string) (string, bool) {
	switch t {
	case model.EntityUser:
		for _, u := range s.Users {
			if u.ID == id {
				return u.Name, true
			}
		}
	case model.EntityAdmin:
		for _, a := range s.Admins {
			if a.ID == id {
				return a.Name, true
			}
		}
	case model.EntityArticle:
		for _, a := range s.Articles {
			if a.ID == id {
				return a.Title, true
			}
		}
	}
	return "", false
}

// remove drops the record with id from the given collection.
func (s *State) remove(t model.EntityType, id string) {
	switch t {
	case model.EntityUser:
		s.Users = removeByID(s.Users, id, func(u model.User) string { return u.ID })
	case model.EntityAdmin:
		s.Admins = removeByID(s.Admins, id, func(a model.Admin) string { return a.ID })
	case model.EntityArticle:
		s.Articles = removeByID(s.Articles, id, func(a model.Article) string { return a.ID })
	}
}

func removeByID[T any](items []T, id string, idOf func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if idOf(it) != id {
			out = append(out, it)
		}
	}
	return out
}
