// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/autobrr/streamrank/pkg/ranking"
	"github.com/autobrr/streamrank/pkg/releases"
	"github.com/autobrr/streamrank/pkg/streams"
)

// StreamResolver turns candidate releases into stream links.
type StreamResolver interface {
	Resolve(ctx context.Context, rels []releases.Release, seasonEpisode []int, maxResults int) []streams.StreamLink
}

type ResolveHandler struct {
	parser   *releases.Parser
	resolver StreamResolver
}

// NewResolveHandler creates the resolve handler. A nil resolver answers 503.
func NewResolveHandler(parser *releases.Parser, resolver StreamResolver) *ResolveHandler {
	return &ResolveHandler{parser: parser, resolver: resolver}
}

func (h *ResolveHandler) Routes(r chi.Router) {
	r.Post("/resolve", h.Resolve)
}

// ResolveRequest is the body of /api/resolve. Query is optional; when it has a
// title the releases are ranked first and rejected ones are dropped.
type ResolveRequest struct {
	RankRequest
	SeasonEpisode []int `json:"seasonEpisode"`
	MaxResults    int   `json:"maxResults"`
}

type ResolveResponse struct {
	Streams    []streams.StreamLink `json:"streams"`
	Candidates int                  `json:"candidates"`
}

func (h *ResolveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if h.resolver == nil {
		RespondError(w, http.StatusServiceUnavailable, "Resolving is not configured")
		return
	}

	var req ResolveRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.MaxResults < 0 {
		RespondError(w, http.StatusBadRequest, "maxResults must not be negative")
		return
	}

	rels, err := decodeReleases(req.Releases, h.parser)
	if err != nil {
		RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rels, ok := applyFilter(w, req.Filter, rels)
	if !ok {
		return
	}

	if strings.TrimSpace(req.Query.Title) != "" {
		rels = ranking.Releases(ranking.Rank(rels, req.Query))
	}

	seasonEpisode := req.SeasonEpisode
	if len(seasonEpisode) == 0 {
		seasonEpisode = seasonEpisodeOf(req.Query)
	}

	links := h.resolver.Resolve(r.Context(), rels, seasonEpisode, req.MaxResults)
	if links == nil {
		links = []streams.StreamLink{}
	}

	log.Debug().
		Str("title", req.Query.Title).
		Ints("season_episode", seasonEpisode).
		Int("candidates", len(rels)).
		Int("streams", len(links)).
		Msg("Resolved streams")

	RespondJSON(w, http.StatusOK, ResolveResponse{Streams: links, Candidates: len(rels)})
}

// seasonEpisodeOf derives the file selection request from the query.
func seasonEpisodeOf(q ranking.Query) []int {
	switch {
	case q.Season > 0 && q.Episode > 0:
		return []int{q.Season, q.Episode}
	case q.Season > 0:
		return []int{q.Season}
	default:
		return nil
	}
}
