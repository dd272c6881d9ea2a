// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"errors"
	"fmt"
	"html"
	"net/http"

	"github.com/microcosm-cc/bluemonday"
)

// APIError is returned for any non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string // from the response "error" field, markup stripped; may be empty
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// ErrorMessage returns the server-provided message carried by err, or
// fallback when there is none (transport failures, empty error bodies).
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

var stripPolicy = bluemonday.StrictPolicy()

// sanitizeMessage removes any markup from a server-provided message. The
// result is plain text; templates escape it again on output.
func sanitizeMessage(s string) string {
	return html.UnescapeString(stripPolicy.Sanitize(s))
}
