// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// RequireAPIKey rejects requests whose X-API-Key header does not equal key.
// An empty key disables the check. CORS preflight requests always pass.
func RequireAPIKey(key string) func(http.Handler) http.Handler {
	key = strings.TrimSpace(key)

	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			given := r.Header.Get(APIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
				log.Debug().
					Str("url", r.URL.Path).
					Str("remote_ip", r.RemoteAddr).
					Bool("key_present", given != "").
					Msg("Rejected request with invalid API key")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
