// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/streamrank/internal/buildinfo"
)

func TestHealthHandler_HandleHealth(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(true)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.HandleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, buildinfo.Version, resp.Version)
	require.NotNil(t, resp.ResolveEnabled)
	assert.True(t, *resp.ResolveEnabled)
}

func TestHealthHandler_Integration(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(false)
	r := chi.NewRouter()
	r.Route("/health", h.Routes)

	tests := []struct {
		name               string
		path               string
		expectedStatus     int
		expectedStatusText string
	}{
		{"health endpoint", "/health", http.StatusOK, "ok"},
		{"readiness endpoint", "/health/readiness", http.StatusOK, "ready"},
		{"liveness endpoint", "/health/liveness", http.StatusOK, "alive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var resp HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.expectedStatusText, resp.Status)
		})
	}
}
