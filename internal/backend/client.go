// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package backend is the HTTP client for the platform API that owns users,
// admins and articles.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/olegiv/ghostdash/internal/model"
)

// Client configuration defaults.
const (
	DefaultTimeout = 30 * time.Second
	UserAgent      = "ghostdash/1.0"
	maxErrorBody   = 10 * 1024
)

// Config holds backend client configuration.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:3000/api/ghost-dashboard
	BaseURL string

	// Token is sent as a bearer token when set.
	Token string

	// Timeout bounds a single request (0 = DefaultTimeout).
	Timeout time.Duration

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client talks to the backend API. Every call is a single attempt.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
}

// New creates a backend client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend URL must be http or https, got %q", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &Client{baseURL: u, token: cfg.Token, http: hc}, nil
}

type usersResponse struct {
	Users []model.User `json:"users"`
}

type adminsResponse struct {
	Admins []model.Admin `json:"admins"`
}

type articlesResponse struct {
	Articles []model.Article `json:"articles"`
}

type adminResponse struct {
	Admin model.Admin `json:"admin"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ListUsers handles GET /users.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var resp usersResponse
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return resp.Users, nil
}

// ListAdmins handles GET /admins.
func (c *Client) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	var resp adminsResponse
	if err := c.do(ctx, http.MethodGet, "/admins", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("listing admins: %w", err)
	}
	return resp.Admins, nil
}

// ListArticles handles GET /articles.
func (c *Client) ListArticles(ctx context.Context) ([]model.Article, error) {
	var resp articlesResponse
	if err := c.do(ctx, http.MethodGet, "/articles", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	return resp.Articles, nil
}

// Delete removes one record: DELETE /{collection}?id=.
func (c *Client) Delete(ctx context.Context, entity model.EntityType, id string) error {
	if !entity.Valid() {
		return fmt.Errorf("deleting %s: unknown entity type", entity)
	}
	q := url.Values{"id": {id}}
	if err := c.do(ctx, http.MethodDelete, "/"+entity.Collection(), q, nil, nil); err != nil {
		return fmt.Errorf("deleting %s %s: %w", entity, id, err)
	}
	return nil
}

// CreateAdmin handles POST /admins and returns the created record.
func (c *Client) CreateAdmin(ctx context.Context, in model.NewAdmin) (model.Admin, error) {
	var resp adminResponse
	if err := c.do(ctx, http.MethodPost, "/admins", nil, in, &resp); err != nil {
		return model.Admin{}, fmt.Errorf("creating admin: %w", err)
	}
	return resp.Admin, nil
}

// do performs one request. body is JSON-encoded when non-nil; out is decoded
// from a 2xx response when non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// decodeAPIError builds an APIError, reading the "error" field when the body
// is JSON.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var er errorResponse
	if json.Unmarshal(data, &er) == nil {
		apiErr.Message = strings.TrimSpace(sanitizeMessage(er.Error))
	}
	return apiErr
}
