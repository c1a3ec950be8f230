// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resolve outcomes, one per candidate release.
const (
	OutcomeHit         = "hit"
	OutcomeMiss        = "miss"
	OutcomeNoSource    = "no_source"
	OutcomeLookupError = "lookup_error"
	OutcomeNoFile      = "no_file"
	OutcomeDuplicate   = "duplicate"
	OutcomeDiscarded   = "discarded"
)

// Outcomes lists every outcome label so the series exist before first use.
var Outcomes = []string{
	OutcomeHit,
	OutcomeMiss,
	OutcomeNoSource,
	OutcomeLookupError,
	OutcomeNoFile,
	OutcomeDuplicate,
	OutcomeDiscarded,
}

// ResolverRecorder counts candidate outcomes and times resolve batches.
type ResolverRecorder struct {
	candidates    *prometheus.CounterVec
	batchDuration prometheus.Histogram
	batchLinks    prometheus.Histogram
	earlyStops    prometheus.Counter
}

func NewResolverRecorder() *ResolverRecorder {
	r := &ResolverRecorder{
		candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streamrank",
			Subsystem: "resolver",
			Name:      "candidates_total",
			Help:      "Candidate releases processed by outcome",
		}, []string{"outcome"}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "streamrank",
			Subsystem: "resolver",
			Name:      "batch_duration_seconds",
			Help:      "Wall time of one resolve batch",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}),
		batchLinks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "streamrank",
			Subsystem: "resolver",
			Name:      "batch_links",
			Help:      "Stream links returned per resolve batch",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		}),
		earlyStops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "streamrank",
			Subsystem: "resolver",
			Name:      "early_stops_total",
			Help:      "Batches that stopped once the requested number of links was reached",
		}),
	}

	for _, outcome := range Outcomes {
		r.candidates.WithLabelValues(outcome)
	}

	return r
}

// MustRegister registers every metric of the recorder with reg.
func (r *ResolverRecorder) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(r.candidates, r.batchDuration, r.batchLinks, r.earlyStops)
}

// Outcome counts one candidate.
func (r *ResolverRecorder) Outcome(outcome string) {
	if r == nil {
		return
	}
	r.candidates.WithLabelValues(outcome).Inc()
}

// Batch records the end of a resolve batch.
func (r *ResolverRecorder) Batch(elapsed time.Duration, links int, stoppedEarly bool) {
	if r == nil {
		return
	}
	r.batchDuration.Observe(elapsed.Seconds())
	r.batchLinks.Observe(float64(links))
	if stoppedEarly {
		r.earlyStops.Inc()
	}
}
