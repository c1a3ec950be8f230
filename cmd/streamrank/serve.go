// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/autobrr/streamrank/internal/api"
	"github.com/autobrr/streamrank/internal/buildinfo"
	"github.com/autobrr/streamrank/internal/config"
	"github.com/autobrr/streamrank/internal/domain"
	"github.com/autobrr/streamrank/internal/metrics"
	"github.com/autobrr/streamrank/internal/services/resolver"
	"github.com/autobrr/streamrank/pkg/debrid/premiumize"
	"github.com/autobrr/streamrank/pkg/releases"
)

func RunServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the ranking and resolve API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			appConfig, err := config.New(*configPath)
			if err != nil {
				return err
			}
			cfg := appConfig.Current()

			closer, err := config.SetupLogging(cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			log.Info().
				Str("version", buildinfo.Version).
				Str("commit", buildinfo.Commit).
				Str("config", appConfig.Path()).
				Bool("config_file", appConfig.FileLoaded()).
				Msg("Starting streamrank")

			appConfig.Watch(config.ApplyLogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			metricsManager := metrics.NewManager()
			deps := &api.Dependencies{
				Config:  appConfig,
				Parser:  releases.NewDefaultParser(),
				Metrics: metricsManager,
			}
			if svc := newResolverService(cfg, metricsManager.Resolver()); svc != nil {
				deps.Resolver = svc
			} else {
				log.Warn().Msg("premiumizeApiKey is not set, resolving is disabled")
			}

			api.StartPprofServer(ctx, cfg.PprofAddr)

			return api.NewServer(deps).ListenAndServe(ctx)
		},
	}
}

// newResolverService returns nil when no provider key is configured.
func newResolverService(cfg *domain.Config, recorder resolver.Recorder) *resolver.Service {
	if !cfg.ResolveEnabled() {
		return nil
	}

	client := premiumize.NewClient(cfg.PremiumizeAPIKey,
		premiumize.WithBaseURL(cfg.PremiumizeBaseURL),
		premiumize.WithUserAgent(buildinfo.UserAgent),
		premiumize.WithRetryAttempts(cfg.LookupRetries),
	)

	return resolver.NewService(client, resolver.Config{
		Workers:       cfg.ResolveWorkers,
		MaxResults:    cfg.MaxResults,
		LookupTimeout: cfg.LookupTimeoutDuration(),
	}, recorder)
}
