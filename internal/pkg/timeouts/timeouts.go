// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package timeouts holds the deadlines used when talking to the cache-lookup provider.
package timeouts

import "time"

const (
	// DefaultLookupTimeout bounds a single cache lookup, retries included.
	DefaultLookupTimeout = 15 * time.Second
	// MinResolveTimeout is the floor for a whole resolve batch.
	MinResolveTimeout = 20 * time.Second
	// MaxResolveTimeout caps a whole resolve batch regardless of its size.
	MaxResolveTimeout = 2 * time.Minute
	// ResolveSlack is added once per batch for scheduling overhead.
	ResolveSlack = 2 * time.Second
)

// LookupTimeout returns d, or DefaultLookupTimeout when d is not positive.
func LookupTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultLookupTimeout
	}
	return d
}

// AdaptiveResolveTimeout sizes a batch deadline from the number of candidates
// and the worker count: one lookup timeout per wave of workers, plus slack,
// clamped to [MinResolveTimeout, MaxResolveTimeout].
func AdaptiveResolveTimeout(candidates, workers int, lookup time.Duration) time.Duration {
	if candidates <= 0 {
		return MinResolveTimeout
	}
	if workers <= 0 {
		workers = 1
	}
	lookup = LookupTimeout(lookup)

	waves := (candidates + workers - 1) / workers
	timeout := time.Duration(waves)*lookup + ResolveSlack

	if timeout < MinResolveTimeout {
		return MinResolveTimeout
	}
	if timeout > MaxResolveTimeout {
		return MaxResolveTimeout
	}
	return timeout
}
