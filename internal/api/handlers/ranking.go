// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/autobrr/streamrank/pkg/ranking"
	"github.com/autobrr/streamrank/pkg/releases"
)

type RankingHandler struct {
	parser *releases.Parser
}

func NewRankingHandler(parser *releases.Parser) *RankingHandler {
	return &RankingHandler{parser: parser}
}

func (h *RankingHandler) Routes(r chi.Router) {
	r.Post("/score", h.Score)
	r.Post("/rank", h.Rank)
}

// RankRequest is the body of /api/score and /api/rank.
type RankRequest struct {
	Query    ranking.Query     `json:"query"`
	Releases []json.RawMessage `json:"releases"`
	// Filter is an optional boolean expression over release fields, applied before ranking.
	Filter string `json:"filter,omitempty"`
}

type ScoreResult struct {
	Release      releases.Release     `json:"release"`
	Score        int                  `json:"score"`
	Accepted     bool                 `json:"accepted"`
	Reason       ranking.RejectReason `json:"reason,omitempty"`
	Tier         ranking.Tier         `json:"tier"`
	Resolution   string               `json:"resolution"`
	NameDistance *int                 `json:"nameDistance,omitempty"`
}

type ScoreResponse struct {
	Results []ScoreResult `json:"results"`
}

type RankResponse struct {
	Results []ranking.Ranked `json:"results"`
	Total   int              `json:"total"`
}

// Score evaluates every release against the query, in input order.
func (h *RankingHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	rels, ok := h.decode(w, req)
	if !ok {
		return
	}

	results := make([]ScoreResult, 0, len(rels))
	for _, rel := range rels {
		res := ranking.Evaluate(rel, req.Query)
		item := ScoreResult{
			Release:  rel,
			Score:    res.Value(),
			Accepted: res.Accepted,
			Reason:   res.Reason,
			Tier:     res.Tier,
		}
		if res.Accepted {
			item.Resolution = ranking.DecodeResolution(res.Score)
		}
		if res.Reason == ranking.ReasonName {
			d := ranking.NameDistance(rel.Title, req.Query.Title)
			item.NameDistance = &d
		}
		results = append(results, item)
	}

	RespondJSON(w, http.StatusOK, ScoreResponse{Results: results})
}

// Rank returns accepted releases best first.
func (h *RankingHandler) Rank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	rels, ok := h.decode(w, req)
	if !ok {
		return
	}

	rels, ok = applyFilter(w, req.Filter, rels)
	if !ok {
		return
	}

	ranked := ranking.Rank(rels, req.Query)

	log.Debug().
		Str("title", req.Query.Title).
		Int("candidates", len(rels)).
		Int("accepted", len(ranked)).
		Msg("Ranked releases")

	RespondJSON(w, http.StatusOK, RankResponse{Results: ranked, Total: len(rels)})
}

func (h *RankingHandler) decode(w http.ResponseWriter, req RankRequest) ([]releases.Release, bool) {
	if strings.TrimSpace(req.Query.Title) == "" {
		RespondError(w, http.StatusBadRequest, "query.title is required")
		return nil, false
	}

	rels, err := decodeReleases(req.Releases, h.parser)
	if err != nil {
		RespondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return rels, true
}

func applyFilter(w http.ResponseWriter, source string, rels []releases.Release) ([]releases.Release, bool) {
	filter, err := ranking.CompileFilter(source)
	if err != nil {
		RespondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	kept, err := filter.Apply(rels)
	if err != nil {
		RespondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return kept, true
}
