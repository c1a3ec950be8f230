// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package resolver turns candidate releases into playable stream links by
// asking a cache lookup provider about many candidates at once.
package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/autobrr/streamrank/internal/metrics"
	"github.com/autobrr/streamrank/internal/pkg/timeouts"
	"github.com/autobrr/streamrank/pkg/debrid/premiumize"
	"github.com/autobrr/streamrank/pkg/redact"
	"github.com/autobrr/streamrank/pkg/releases"
	"github.com/autobrr/streamrank/pkg/streams"
)

const (
	DefaultWorkers    = 3
	DefaultMaxResults = 5
)

// Lookup asks the provider which files of src are cached. An empty list or
// premiumize.ErrNotCached both mean the source is not cached.
type Lookup interface {
	DirectDL(ctx context.Context, src string) ([]streams.CachedFile, error)
}

// Recorder receives per-candidate outcomes and batch timings.
type Recorder interface {
	Outcome(outcome string)
	Batch(elapsed time.Duration, links int, stoppedEarly bool)
}

// Config tunes a Service. Zero values fall back to the defaults.
type Config struct {
	Workers       int
	MaxResults    int
	LookupTimeout time.Duration
}

// Service resolves releases into stream links.
type Service struct {
	lookup        Lookup
	recorder      Recorder
	workers       int
	maxResults    int
	lookupTimeout time.Duration

	// collapses identical info hashes looked up by concurrent batches
	inflight singleflight.Group
}

// NewService creates a resolver bound to lookup. recorder may be nil.
func NewService(lookup Lookup, cfg Config, recorder Recorder) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &Service{
		lookup:        lookup,
		recorder:      recorder,
		workers:       cfg.Workers,
		maxResults:    cfg.MaxResults,
		lookupTimeout: timeouts.LookupTimeout(cfg.LookupTimeout),
	}
}

// Workers returns the concurrency limit of a batch.
func (s *Service) Workers() int { return s.workers }

// MaxResults returns the default number of links per batch.
func (s *Service) MaxResults() int { return s.maxResults }

type candidate struct {
	title    string
	magnet   string
	infoHash string
}

type candidateResult struct {
	candidate candidate
	link      streams.StreamLink
	found     bool
}

// Resolve looks up every release concurrently and returns up to maxResults
// distinct stream links in the order lookups complete. It stops submitting
// work and cancels in-flight lookups as soon as the quota is reached, and
// returns without waiting for them. Failed candidates are logged and skipped;
// Resolve never fails as a whole.
func (s *Service) Resolve(ctx context.Context, rels []releases.Release, seasonEpisode []int, maxResults int) []streams.StreamLink {
	if maxResults <= 0 {
		maxResults = s.maxResults
	}
	links := make([]streams.StreamLink, 0, min(maxResults, len(rels)))
	if len(rels) == 0 || s.lookup == nil {
		return links
	}

	start := time.Now()
	stoppedEarly := false
	defer func() {
		s.recorder.Batch(time.Since(start), len(links), stoppedEarly)
	}()

	candidates := s.candidates(rels)
	if len(candidates) == 0 {
		return links
	}

	batchTimeout := timeouts.AdaptiveResolveTimeout(len(candidates), s.workers, s.lookupTimeout)
	batchCtx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	// buffered so workers finishing after the collector returned never block
	results := make(chan candidateResult, len(candidates))
	stopped := make(chan struct{})

	go s.submit(batchCtx, candidates, seasonEpisode, results, stopped)

	seen := make(map[string]struct{}, maxResults)
	defer close(stopped)

	for {
		select {
		case res, ok := <-results:
			if !ok {
				log.Debug().
					Int("candidates", len(candidates)).
					Int("links", len(links)).
					Dur("elapsed", time.Since(start)).
					Msg("Resolve batch exhausted candidates")
				return links
			}
			if !res.found {
				continue
			}
			if _, dup := seen[res.link.URL]; dup {
				s.recorder.Outcome(metrics.OutcomeDuplicate)
				continue
			}

			seen[res.link.URL] = struct{}{}
			links = append(links, res.link)
			s.recorder.Outcome(metrics.OutcomeHit)

			if len(links) >= maxResults {
				stoppedEarly = true
				cancel()
				log.Debug().
					Int("links", len(links)).
					Dur("elapsed", time.Since(start)).
					Msg("Resolve batch reached requested links")
				return links
			}
		case <-batchCtx.Done():
			log.Warn().
				Err(batchCtx.Err()).
				Int("candidates", len(candidates)).
				Int("links", len(links)).
				Dur("timeout", batchTimeout).
				Msg("Resolve batch ended before all candidates completed")
			return links
		}
	}
}

// candidates derives the lookup source of every release, skipping releases
// without one and releases repeating an info hash already in the batch.
func (s *Service) candidates(rels []releases.Release) []candidate {
	out := make([]candidate, 0, len(rels))
	hashes := make(map[string]struct{}, len(rels))

	for _, rel := range rels {
		magnet, infoHash, err := rel.Source()
		if err != nil {
			log.Info().
				Err(err).
				Str("title", rel.Title).
				Msg("Skipping release without usable source")
			s.recorder.Outcome(metrics.OutcomeNoSource)
			continue
		}
		if _, dup := hashes[infoHash]; dup {
			s.recorder.Outcome(metrics.OutcomeDuplicate)
			continue
		}
		hashes[infoHash] = struct{}{}

		out = append(out, candidate{title: rel.Title, magnet: magnet, infoHash: infoHash})
	}

	return out
}

func (s *Service) submit(ctx context.Context, candidates []candidate, seasonEpisode []int, results chan<- candidateResult, stopped <-chan struct{}) {
	var g errgroup.Group
	g.SetLimit(s.workers)

	for _, c := range candidates {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res := s.resolveCandidate(ctx, c, seasonEpisode)

			select {
			case <-stopped:
				if res.found {
					s.recorder.Outcome(metrics.OutcomeDiscarded)
				}
				return nil
			default:
			}

			results <- res
			return nil
		})
	}

	_ = g.Wait()
	close(results)
}

func (s *Service) resolveCandidate(ctx context.Context, c candidate, seasonEpisode []int) candidateResult {
	res := candidateResult{candidate: c}
	if ctx.Err() != nil {
		s.recorder.Outcome(metrics.OutcomeDiscarded)
		return res
	}

	files, err := s.lookupFiles(ctx, c)
	switch {
	case err == nil && len(files) > 0:
	case err == nil || errors.Is(err, premiumize.ErrNotCached):
		log.Debug().
			Str("info_hash", c.infoHash).
			Str("title", c.title).
			Msg("Release is not cached")
		s.recorder.Outcome(metrics.OutcomeMiss)
		return res
	case ctx.Err() != nil:
		s.recorder.Outcome(metrics.OutcomeDiscarded)
		return res
	default:
		log.Warn().
			Err(redact.URLError(err)).
			Str("info_hash", c.infoHash).
			Str("title", c.title).
			Msg("Cache lookup failed")
		s.recorder.Outcome(metrics.OutcomeLookupError)
		return res
	}

	link, ok := streams.SelectFile(files, seasonEpisode)
	if !ok {
		s.recorder.Outcome(metrics.OutcomeNoFile)
		return res
	}

	log.Info().
		Str("info_hash", c.infoHash).
		Str("name", link.Name).
		Int64("size", link.Size).
		Msg("Found cached stream")

	res.link = link
	res.found = true
	return res
}

// lookupFiles calls the provider with a per-lookup deadline. Concurrent
// lookups of the same info hash share one request; a shared result that
// failed only because another caller went away is retried on our own context.
func (s *Service) lookupFiles(ctx context.Context, c candidate) ([]streams.CachedFile, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	v, err, shared := s.inflight.Do(c.infoHash, func() (any, error) {
		return s.lookup.DirectDL(lookupCtx, c.magnet)
	})
	if err != nil && shared && lookupCtx.Err() == nil && isContextError(err) {
		return s.lookup.DirectDL(lookupCtx, c.magnet)
	}
	if err != nil {
		return nil, err
	}

	files, _ := v.([]streams.CachedFile)
	return files, nil
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

type nopRecorder struct{}

func (nopRecorder) Outcome(string) {}

func (nopRecorder) Batch(time.Duration, int, bool) {}
