// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/autobrr/streamrank/internal/buildinfo"
)

type HealthHandler struct {
	resolveEnabled bool
}

func NewHealthHandler(resolveEnabled bool) *HealthHandler {
	return &HealthHandler{resolveEnabled: resolveEnabled}
}

func (h *HealthHandler) Routes(r chi.Router) {
	r.Get("/", h.HandleHealth)
	r.Get("/readiness", h.HandleReady)
	r.Get("/liveness", h.HandleLiveness)
}

type HealthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version,omitempty"`
	ResolveEnabled *bool  `json:"resolveEnabled,omitempty"`
}

func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	enabled := h.resolveEnabled
	RespondJSON(w, http.StatusOK, HealthResponse{
		Status:         "ok",
		Version:        buildinfo.Version,
		ResolveEnabled: &enabled,
	})
}

func (h *HealthHandler) HandleReady(w http.ResponseWriter, _ *http.Request) {
	RespondJSON(w, http.StatusOK, HealthResponse{Status: "ready"})
}

func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	RespondJSON(w, http.StatusOK, HealthResponse{Status: "alive"})
}
