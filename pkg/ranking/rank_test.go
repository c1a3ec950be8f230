// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/streamrank/pkg/releases"
)

func TestRank(t *testing.T) {
	t.Parallel()

	in := []releases.Release{
		releases.Release{Title: "Friends", Season: releases.IntList{5}, Episode: releases.IntList{10}, Resolution: "720p"}.Normalize(),
		releases.Release{Title: "Friends", Season: releases.IntList{4}, Resolution: "2160p"}.Normalize(),
		releases.Release{Title: "Friends", Season: seasons(1, 10), Resolution: "1080p"}.Normalize(),
		releases.Release{Title: "Seinfeld", Season: releases.IntList{5}}.Normalize(),
		releases.Release{Title: "Friends", Season: releases.IntList{5}, Resolution: "1080p"}.Normalize(),
		releases.Release{Title: "Friends", Season: releases.IntList{5}, Resolution: "1080p", RawTitle: "second"}.Normalize(),
	}

	ranked := Rank(in, Query{Title: "Friends", Year: 1994, Season: 5, Episode: 10})
	require.Len(t, ranked, 4)

	assert.Equal(t, TierWholeSeries, ranked[0].Tier)
	assert.Equal(t, "1080p", ranked[0].Resolution)
	assert.Equal(t, TierWholeSeason, ranked[1].Tier)
	assert.Empty(t, ranked[1].Release.RawTitle, "equal scores keep input order")
	assert.Equal(t, "second", ranked[2].Release.RawTitle)
	assert.Equal(t, TierEpisode, ranked[3].Tier)
	assert.Equal(t, "720p", ranked[3].Resolution)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}

	assert.Len(t, Releases(ranked), 4)
}

func TestRank_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Rank(nil, Query{Title: "Friends"}))
}

func TestScoreRange(t *testing.T) {
	t.Parallel()

	band := ScoreRange("1080p")
	assert.Equal(t, 2<<ResolutionBitPos, band.Min)
	assert.Equal(t, 3<<SeasonMatchBitPos|2<<ResolutionBitPos|2<<AudioBitPos|1<<YearMatchBitPos, band.Max)

	assert.Equal(t, MaxScoreFor("1080p"), Score(friendsPack(), Query{Title: "Friends", Year: 1994, Season: 5, Episode: 10}))

	movie := releases.Release{Title: "Oppenheimer", Resolution: "1080p"}.Normalize()
	lowest := Score(movie, Query{Title: "Oppenheimer", Year: 2022, Season: 1, Episode: 1})
	assert.Equal(t, LowestScoreFor("1080p"), lowest)
	assert.True(t, band.Contains(lowest))
	assert.False(t, band.Contains(band.Max+1))
	assert.False(t, band.Contains(Rejected))
}

func TestSeriesTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		season  releases.IntList
		episode releases.IntList
		qs, qe  int
		want    Tier
	}{
		{"movie query", releases.IntList{1}, releases.IntList{1}, 0, 0, TierNone},
		{"season mismatch", releases.IntList{2}, nil, 1, 1, TierMismatch},
		{"episode mismatch", releases.IntList{1}, releases.IntList{2}, 1, 1, TierMismatch},
		{"episode mismatch without season info", nil, releases.IntList{2}, 1, 1, TierMismatch},
		{"no info", nil, nil, 1, 1, TierNone},
		{"whole series", releases.IntList{1, 2, 3}, nil, 2, 4, TierWholeSeries},
		{"whole series with matching episode", releases.IntList{1, 2}, releases.IntList{4}, 2, 4, TierWholeSeries},
		{"whole season", releases.IntList{2}, nil, 2, 4, TierWholeSeason},
		{"single episode", releases.IntList{2}, releases.IntList{4}, 2, 4, TierEpisode},
		{"episode only info that matches", nil, releases.IntList{4}, 2, 4, TierMismatch},
		{"season only query against pack", releases.IntList{1, 2}, nil, 2, 0, TierWholeSeries},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := releases.Release{Title: "Show", Season: tt.season, Episode: tt.episode}.Normalize()
			assert.Equal(t, tt.want, SeriesTier(r, tt.qs, tt.qe))
			assert.Equal(t, tt.want > TierNone, IsSeasonEpisode(r, tt.qs, tt.qe))
		})
	}
}
