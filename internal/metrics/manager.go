// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Manager struct {
	registry         *prometheus.Registry
	resolverRecorder *ResolverRecorder
}

func NewManager() *Manager {
	registry := prometheus.NewRegistry()

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	resolverRecorder := NewResolverRecorder()
	resolverRecorder.MustRegister(registry)

	log.Info().Msg("Metrics manager initialized with resolver collector")

	return &Manager{
		registry:         registry,
		resolverRecorder: resolverRecorder,
	}
}

// Resolver returns the recorder the resolve service reports into.
func (m *Manager) Resolver() *ResolverRecorder {
	return m.resolverRecorder
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:          promLogger{},
		EnableOpenMetrics: true,
	})
}

type promLogger struct{}

func (promLogger) Println(v ...any) {
	log.Error().Str("component", "metrics").Msg(fmt.Sprint(v...))
}
