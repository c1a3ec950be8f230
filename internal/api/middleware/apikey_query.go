// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package middleware

import (
	"net/http"
	"strings"
)

// APIKeyHeader carries the API key.
const APIKeyHeader = "X-API-Key"

// APIKeyFromQuery promotes an API key query param into the X-API-Key header
// and removes it from the URL so it never reaches access logs.
func APIKeyFromQuery(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()
			if apiKey := strings.TrimSpace(query.Get(param)); apiKey != "" {
				if r.Header.Get(APIKeyHeader) == "" {
					r.Header.Set(APIKeyHeader, apiKey)
				}
				query.Del(param)
				r.URL.RawQuery = query.Encode()
			}
			next.ServeHTTP(w, r)
		})
	}
}
