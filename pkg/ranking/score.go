// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package ranking scores releases against a requested title, year, season and
// episode.
//
// A score packs several criteria into disjoint bit fields of one integer, most
// significant first, so sorting by the integer alone ranks releases by season
// coverage, then resolution, then audio channels, then year match:
//
//	bits 20-22  season/episode tier (0-3)
//	bits 14-15  resolution          (0-3)
//	bits  8-9   audio channels      (0-2)
//	bit   6     year match          (0-1)
//
// Rejected releases score Rejected.
package ranking

import (
	"strings"

	"github.com/autobrr/streamrank/pkg/releases"
)

// Rejected is the score of a release that fails the name or season/episode gate.
const Rejected = -1000

const (
	SeasonMatchBitPos = 20
	ResolutionBitPos  = 14
	AudioBitPos       = 8
	YearMatchBitPos   = 6

	seasonMatchBits = 3
	resolutionBits  = 2
	audioBits       = 2
	yearMatchBits   = 1
)

// ResolutionUnknown is what DecodeResolution returns for unmapped values.
const ResolutionUnknown = "Unknown"

type resolutionScore struct {
	label string
	score int
}

// resolutionTable is ordered; DecodeResolution returns the first label for a value.
var resolutionTable = []resolutionScore{
	{"720p", 1},
	{"1080p", 2},
	{"2160p", 3},
	{"4K", 3},
}

// Query is what the user asked for. Season and Episode are zero when not requested.
type Query struct {
	Title   string `json:"title"`
	Year    int    `json:"year"`
	Season  int    `json:"season,omitempty"`
	Episode int    `json:"episode,omitempty"`
}

// RejectReason explains why Evaluate rejected a release.
type RejectReason string

const (
	ReasonNone          RejectReason = ""
	ReasonName          RejectReason = "name_mismatch"
	ReasonSeasonEpisode RejectReason = "season_episode_mismatch"
)

// Result is the tagged outcome of scoring one release.
type Result struct {
	Accepted bool         `json:"accepted"`
	Reason   RejectReason `json:"reason,omitempty"`
	Tier     Tier         `json:"tier"`
	Score    int          `json:"score"`
}

// Value returns the composite score, or Rejected when the release was not accepted.
func (r Result) Value() int {
	if !r.Accepted {
		return Rejected
	}
	return r.Score
}

// Score ranks a release against the query. Higher is better; Rejected means the
// title or the season/episode coverage does not fit.
func Score(r releases.Release, q Query) int {
	return Evaluate(r, q).Value()
}

// Evaluate is Score with the reject cause kept.
func Evaluate(r releases.Release, q Query) Result {
	if !MatchesName(r.Title, q.Title) {
		return Result{Reason: ReasonName, Tier: TierMismatch, Score: Rejected}
	}

	tier := SeriesTier(r, q.Season, q.Episode)
	if tier < 0 {
		return Result{Reason: ReasonSeasonEpisode, Tier: tier, Score: Rejected}
	}

	return Result{
		Accepted: true,
		Tier:     tier,
		Score:    compose(int(tier), ResolutionScore(r.Resolution), AudioScore(r.Audio), yearMatch(r.Year, q.Year)),
	}
}

func compose(tier, resolution, audio, year int) int {
	return tier<<SeasonMatchBitPos |
		resolution<<ResolutionBitPos |
		audio<<AudioBitPos |
		year<<YearMatchBitPos
}

// ResolutionScore maps a resolution label to its 2 bit score; unknown labels score 0.
func ResolutionScore(resolution string) int {
	for _, entry := range resolutionTable {
		if entry.label == resolution {
			return entry.score
		}
	}
	return 0
}

// DecodeResolution recovers the resolution label from a composed score.
func DecodeResolution(score int) string {
	mask := ((1 << resolutionBits) - 1) << ResolutionBitPos
	value := (score & mask) >> ResolutionBitPos
	for _, entry := range resolutionTable {
		if entry.score == value {
			return entry.label
		}
	}
	return ResolutionUnknown
}

// AudioScore is 2 for 7.1 audio, 1 for 5.1 and 0 otherwise.
func AudioScore(audio string) int {
	switch {
	case strings.Contains(audio, "7.1"):
		return 2
	case strings.Contains(audio, "5.1"):
		return 1
	default:
		return 0
	}
}

func yearMatch(releaseYear, queryYear int) int {
	if releaseYear != 0 && releaseYear == queryYear {
		return 1
	}
	return 0
}
