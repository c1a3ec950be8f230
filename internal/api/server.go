// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/autobrr/streamrank/internal/api/handlers"
	"github.com/autobrr/streamrank/internal/api/middleware"
	"github.com/autobrr/streamrank/internal/config"
	"github.com/autobrr/streamrank/internal/metrics"
	"github.com/autobrr/streamrank/pkg/httphelpers"
	"github.com/autobrr/streamrank/pkg/releases"
)

const (
	compressionMinSize = 1024
	compressionLevel   = 5
	shutdownTimeout    = 10 * time.Second
)

type Dependencies struct {
	Config *config.AppConfig
	Parser *releases.Parser
	// Resolver is nil when no cache lookup provider is configured.
	Resolver handlers.StreamResolver
	Metrics  *metrics.Manager
}

type Server struct {
	deps   *Dependencies
	server *http.Server
}

func NewServer(deps *Dependencies) *Server {
	if deps.Parser == nil {
		deps.Parser = releases.NewDefaultParser()
	}
	return &Server{deps: deps}
}

// Handler builds the router. Routes live under the configured base URL.
func (s *Server) Handler() (*chi.Mux, error) {
	cfg := s.deps.Config.Current()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(middleware.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		c := cors.New(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", middleware.APIKeyHeader},
			AllowCredentials: true,
			MaxAge:           300,
		})
		r.Use(c.Handler)
	}

	r.Use(middleware.SelectiveCompress(compressionMinSize, compressionLevel, true, true))

	base := httphelpers.NormalizeBasePath(cfg.BaseURL)
	routes := func(r chi.Router) {
		r.Route("/health", handlers.NewHealthHandler(s.deps.Resolver != nil).Routes)

		if cfg.MetricsEnabled && s.deps.Metrics != nil {
			r.Handle("/metrics", s.deps.Metrics.Handler())
		}

		r.Route("/api", func(r chi.Router) {
			r.Use(middleware.APIKeyFromQuery("apikey"))
			r.Use(middleware.RequireAPIKey(cfg.APIKey))

			r.Get("/version", handlers.NewVersionHandler().GetVersion)
			handlers.NewRankingHandler(s.deps.Parser).Routes(r)
			handlers.NewResolveHandler(s.deps.Parser, s.deps.Resolver).Routes(r)
		})
	}

	if base == "" {
		routes(r)
		return r, nil
	}

	r.Route(base, routes)
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, httphelpers.JoinBasePath(base, ""), http.StatusFound)
	})

	return r, nil
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	router, err := s.Handler()
	if err != nil {
		return err
	}

	cfg := s.deps.Config.Current()
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	s.server = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	log.Info().
		Str("addr", listener.Addr().String()).
		Str("base_url", httphelpers.JoinBasePath(cfg.BaseURL, "")).
		Bool("resolve_enabled", s.deps.Resolver != nil).
		Msg("Starting API server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
