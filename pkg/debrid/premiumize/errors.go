// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package premiumize

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotCached is returned when the provider has no cached files for the source.
	ErrNotCached = errors.New("premiumize: source is not cached")
	// ErrMissingAPIKey is returned by DirectDL when the client has no API key.
	ErrMissingAPIKey = errors.New("premiumize: api key is not configured")
)

// APIError is a non-2xx response or a response whose status is not "success".
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("premiumize: status %d", e.StatusCode)
	}
	return fmt.Sprintf("premiumize: status %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether a retry may succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// IsRetryable reports whether err is worth another attempt: transport failures,
// 429 and 5xx responses. Context cancellation and definitive answers are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotCached) || errors.Is(err, ErrMissingAPIKey) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}

	var decodeErr *decodeError
	return !errors.As(err, &decodeErr)
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return "premiumize: decode response: " + e.err.Error() }

func (e *decodeError) Unwrap() error { return e.err }
