// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package ranking

import (
	"slices"

	"github.com/autobrr/streamrank/pkg/releases"
)

// Ranked is an accepted release with its score.
type Ranked struct {
	Release    releases.Release `json:"release"`
	Score      int              `json:"score"`
	Tier       Tier             `json:"tier"`
	Resolution string           `json:"resolution"`
}

// Rank scores every release, drops rejected ones and orders the rest best first.
// Releases with equal scores keep their input order.
func Rank(rs []releases.Release, q Query) []Ranked {
	ranked := make([]Ranked, 0, len(rs))
	for _, r := range rs {
		res := Evaluate(r, q)
		if !res.Accepted {
			continue
		}
		ranked = append(ranked, Ranked{
			Release:    r,
			Score:      res.Score,
			Tier:       res.Tier,
			Resolution: DecodeResolution(res.Score),
		})
	}

	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return b.Score - a.Score
	})
	return ranked
}

// Releases unwraps ranked results.
func Releases(ranked []Ranked) []releases.Release {
	out := make([]releases.Release, len(ranked))
	for i, r := range ranked {
		out[i] = r.Release
	}
	return out
}

// Band is an inclusive score interval.
type Band struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether score falls inside the band.
func (b Band) Contains(score int) bool {
	return score >= b.Min && score <= b.Max
}

// MaxScoreFor is the best score a release of the given resolution can reach:
// a whole-series pack with 7.1 audio and a matching year.
func MaxScoreFor(resolution string) int {
	return compose(int(TierWholeSeries), ResolutionScore(resolution), 2, 1)
}

// LowestScoreFor is the lowest accepted score for the given resolution: no
// season/episode information, no surround audio and no year match.
func LowestScoreFor(resolution string) int {
	return compose(int(TierNone), ResolutionScore(resolution), 0, 0)
}

// ScoreRange is the band of accepted scores for the given resolution.
func ScoreRange(resolution string) Band {
	return Band{Min: LowestScoreFor(resolution), Max: MaxScoreFor(resolution)}
}
