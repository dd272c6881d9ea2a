// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ghostdash/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL + "/api/ghost-dashboard/", Token: "secret"})
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "ftp://example.com"})
	assert.Error(t, err)

	c, err := New(Config{BaseURL: "https://example.com/api"})
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
}

func TestClient_ListUsers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/ghost-dashboard/users", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"users":[{"_id":"1","name":"Ann","email":"a@x.com","role":"user","articlesGenerated":2}]}`))
	})

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "1", users[0].ID)
	assert.Equal(t, 2, users[0].ArticlesGenerated)
}

func TestClient_ListAdminsAndArticles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/ghost-dashboard/admins":
			_, _ = w.Write([]byte(`{"admins":[{"_id":"a1","name":"Root","email":"root@x.com","createdAt":"2025-01-02T03:04:05Z"}]}`))
		case "/api/ghost-dashboard/articles":
			_, _ = w.Write([]byte(`{"articles":[{"_id":"p1","title":"Go","author":"1","authorName":"Ann","status":"published","createdAt":"2025-01-02T03:04:05Z"}]}`))
		default:
			http.NotFound(w, r)
		}
	})

	admins, err := c.ListAdmins(context.Background())
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "Root", admins[0].Name)

	articles, err := c.ListArticles(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Ann", articles[0].AuthorName)
	assert.Equal(t, 2025, articles[0].CreatedAt.Year())
}

func TestClient_ListArticles_MalformedCreatedAt(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"articles":[` +
			`{"_id":"p1","title":"A","status":"draft","createdAt":""},` +
			`{"_id":"p2","title":"B","status":"draft","createdAt":"yesterday"},` +
			`{"_id":"p3","title":"C","status":"published","createdAt":"2025-01-02T03:04:05Z"}]}`))
	})

	articles, err := c.ListArticles(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 3)
	assert.True(t, articles[0].CreatedAt.IsZero())
	assert.True(t, articles[1].CreatedAt.IsZero())
	assert.False(t, articles[2].CreatedAt.IsZero())
}

func TestClient_Delete(t *testing.T) {
	tests := []struct {
		entity model.EntityType
		path   string
	}{
		{model.EntityUser, "/api/ghost-dashboard/users"},
		{model.EntityAdmin, "/api/ghost-dashboard/admins"},
		{model.EntityArticle, "/api/ghost-dashboard/articles"},
	}

	for _, tt := range tests {
		t.Run(string(tt.entity), func(t *testing.T) {
			var gotPath, gotID, gotMethod string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotPath = r.URL.Path
				gotID = r.URL.Query().Get("id")
				w.WriteHeader(http.StatusNoContent)
			})

			require.NoError(t, c.Delete(context.Background(), tt.entity, "abc 123"))
			assert.Equal(t, http.MethodDelete, gotMethod)
			assert.Equal(t, tt.path, gotPath)
			assert.Equal(t, "abc 123", gotID)
		})
	}
}

func TestClient_Delete_UnknownEntity(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	err := c.Delete(context.Background(), model.EntityType("page"), "1")
	assert.Error(t, err)
	assert.False(t, called)
}

func TestClient_Delete_NonSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := c.Delete(context.Background(), model.EntityUser, "1")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	assert.Equal(t, "fallback", ErrorMessage(err, "fallback"))
}

func TestClient_CreateAdmin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in model.NewAdmin
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, model.NewAdmin{Name: "Bob", Email: "b@x.com", Password: "pw"}, in)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"admin":{"_id":"a9","name":"Bob","email":"b@x.com","createdAt":"2025-05-05T00:00:00Z"}}`))
	})

	admin, err := c.CreateAdmin(context.Background(), model.NewAdmin{Name: "Bob", Email: "b@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "a9", admin.ID)
}

func TestClient_CreateAdmin_ServerMessage(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"json error", http.StatusConflict, `{"error":"Email already exists"}`, "Email already exists"},
		{"markup stripped", http.StatusBadRequest, `{"error":"<b>Bad</b> & invalid"}`, "Bad & invalid"},
		{"empty body", http.StatusInternalServerError, ``, "Failed to create admin"},
		{"non-json body", http.StatusBadGateway, `upstream down`, "Failed to create admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.CreateAdmin(context.Background(), model.NewAdmin{Name: "x", Email: "y", Password: "z"})
			require.Error(t, err)
			assert.Equal(t, tt.status, statusOf(t, err))
			assert.Equal(t, tt.wantMsg, ErrorMessage(err, "Failed to create admin"))
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: base})
	require.NoError(t, err)

	_, err = c.ListUsers(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Equal(t, "generic", ErrorMessage(err, "generic"))
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	return apiErr.StatusCode
}
