// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// NewPprofHandler serves the runtime profiles under /debug.
func NewPprofHandler() http.Handler {
	r := chi.NewRouter()
	r.Mount("/debug", chimiddleware.Profiler())
	return r
}

// StartPprofServer serves profiles on addr until ctx is done. An empty addr
// disables it.
func StartPprofServer(ctx context.Context, addr string) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewPprofHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Msgf("Starting pprof server on %s", addr)
		log.Info().Msgf("  - CPU:  go tool pprof http://%s/debug/pprof/profile?seconds=30", addr)
		log.Info().Msgf("  - Heap: go tool pprof http://%s/debug/pprof/heap", addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Profiling server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
