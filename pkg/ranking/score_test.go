// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/streamrank/pkg/releases"
)

func seasons(from, to int) releases.IntList {
	out := releases.IntList{}
	for n := from; n <= to; n++ {
		out = append(out, n)
	}
	return out
}

func friendsPack() releases.Release {
	return releases.Release{
		Title:      "Friends",
		Season:     seasons(1, 10),
		Episode:    releases.IntList{10},
		Resolution: "1080p",
		Audio:      "7.1",
		Year:       1994,
	}.Normalize()
}

func TestScore_FriendsPack(t *testing.T) {
	t.Parallel()

	r := friendsPack()

	got := Score(r, Query{Title: "Friends", Year: 1994, Season: 5, Episode: 10})
	want := 3<<SeasonMatchBitPos | 2<<ResolutionBitPos | 2<<AudioBitPos | 1<<YearMatchBitPos
	assert.Equal(t, want, got)

	mismatch := Score(r, Query{Title: "Friends", Year: 1994, Season: 5, Episode: 99})
	assert.Equal(t, Rejected, mismatch)
	assert.Greater(t, got, mismatch)
}

func TestScore_NameGate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		releaseTitle string
		queryTitle   string
		match        bool
	}{
		{"exact", "Friends", "Friends", true},
		{"case insensitive", "FRIENDS", "friends", true},
		{"punctuation becomes wildcard", "Mr Robot", "Mr. Robot", true},
		{"dots between words", "Mr.Robot", "Mr Robot", true},
		{"wildcard needs at least one separator", "MrRobot", "Mr Robot", false},
		{"whole string only", "Friends Reunion", "Friends", false},
		{"prefix is not enough", "Best Friends", "Friends", false},
		{"accented letters are not folded", "Amelie", "Amélie", false},
		{"accented letters match case insensitively", "AMÉLIE", "Amélie", true},
		{"regex metacharacters in words are literal", "Friends", "Fr.ends", false},
		{"different title", "Seinfeld", "Friends", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.match, MatchesName(tt.releaseTitle, tt.queryTitle))

			r := releases.Release{Title: tt.releaseTitle, Resolution: "1080p"}.Normalize()
			score := Score(r, Query{Title: tt.queryTitle})
			if tt.match {
				assert.GreaterOrEqual(t, score, 0)
			} else {
				assert.Equal(t, Rejected, score)
			}
		})
	}
}

func TestScore_SeasonEpisodeMismatchRejectsEvenWithExactTitle(t *testing.T) {
	t.Parallel()

	r := releases.Release{
		Title:      "Breaking Bad",
		Season:     releases.IntList{2},
		Episode:    releases.IntList{5},
		Resolution: "2160p",
		Audio:      "DDP 7.1",
		Year:       2008,
	}.Normalize()

	queries := []Query{
		{Title: "Breaking Bad", Season: 3, Episode: 5},
		{Title: "Breaking Bad", Season: 2, Episode: 6},
		{Title: "Breaking Bad", Season: 1, Episode: 1},
	}
	for _, q := range queries {
		assert.Equal(t, Rejected, Score(r, q), "query %+v", q)

		res := Evaluate(r, q)
		assert.False(t, res.Accepted)
		assert.Equal(t, ReasonSeasonEpisode, res.Reason)
	}
}

func TestEvaluate_Reasons(t *testing.T) {
	t.Parallel()

	r := friendsPack()

	res := Evaluate(r, Query{Title: "Seinfeld", Season: 5, Episode: 10})
	assert.False(t, res.Accepted)
	assert.Equal(t, ReasonName, res.Reason)
	assert.Equal(t, Rejected, res.Value())

	res = Evaluate(r, Query{Title: "Friends", Year: 1994, Season: 5, Episode: 10})
	require.True(t, res.Accepted)
	assert.Equal(t, ReasonNone, res.Reason)
	assert.Equal(t, TierWholeSeries, res.Tier)
	assert.Equal(t, res.Score, res.Value())
}

func TestScore_ResolutionMonotonic(t *testing.T) {
	t.Parallel()

	base := releases.Release{Title: "Oppenheimer", Audio: "5.1", Year: 2023}.Normalize()
	uhd := base
	uhd.Resolution = "2160p"
	hd := base
	hd.Resolution = "720p"

	q := Query{Title: "Oppenheimer", Year: 2023}
	assert.Greater(t, Score(uhd, q), Score(hd, q))
}

func TestScore_FieldPriority(t *testing.T) {
	t.Parallel()

	q := Query{Title: "Show", Year: 2020, Season: 1, Episode: 2}

	// a season pack at 720p without extras beats a single episode with every extra
	pack := releases.Release{Title: "Show", Season: releases.IntList{1}, Resolution: "720p"}.Normalize()
	episode := releases.Release{
		Title:      "Show",
		Season:     releases.IntList{1},
		Episode:    releases.IntList{2},
		Resolution: "2160p",
		Audio:      "7.1",
		Year:       2020,
	}.Normalize()
	assert.Greater(t, Score(pack, q), Score(episode, q))

	// resolution beats audio and year
	hiRes := releases.Release{Title: "Show", Resolution: "1080p"}.Normalize()
	loRes := releases.Release{Title: "Show", Resolution: "720p", Audio: "7.1", Year: 2020}.Normalize()
	assert.Greater(t, Score(hiRes, q), Score(loRes, q))

	// audio beats year
	surround := releases.Release{Title: "Show", Audio: "5.1"}.Normalize()
	dated := releases.Release{Title: "Show", Year: 2020}.Normalize()
	assert.Greater(t, Score(surround, q), Score(dated, q))
}

func TestFieldsDoNotOverlap(t *testing.T) {
	t.Parallel()

	fields := []struct {
		pos, width, max int
	}{
		{SeasonMatchBitPos, seasonMatchBits, int(TierWholeSeries)},
		{ResolutionBitPos, resolutionBits, 3},
		{AudioBitPos, audioBits, 2},
		{YearMatchBitPos, yearMatchBits, 1},
	}

	for i, f := range fields {
		assert.Less(t, f.max, 1<<f.width, "field %d max must fit its width", i)
		if i > 0 {
			higher := fields[i-1]
			assert.LessOrEqual(t, f.pos+f.width, higher.pos, "field %d must sit below field %d", i, i-1)
		}
	}
}

func TestAudioScore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, AudioScore("TrueHD Atmos 7.1"))
	assert.Equal(t, 2, AudioScore("7.1 5.1"))
	assert.Equal(t, 1, AudioScore("DDP 5.1"))
	assert.Equal(t, 0, AudioScore("AAC 2.0"))
	assert.Equal(t, 0, AudioScore(""))
}

func TestYearBit(t *testing.T) {
	t.Parallel()

	q := Query{Title: "Dune", Year: 2021}
	withYear := releases.Release{Title: "Dune", Year: 2021}.Normalize()
	wrongYear := releases.Release{Title: "Dune", Year: 1984}.Normalize()
	noYear := releases.Release{Title: "Dune"}.Normalize()

	assert.Equal(t, 1<<YearMatchBitPos, Score(withYear, q))
	assert.Equal(t, 0, Score(wrongYear, q))
	assert.Equal(t, 0, Score(noYear, Query{Title: "Dune"}))
}

func TestDecodeResolution(t *testing.T) {
	t.Parallel()

	for _, entry := range resolutionTable {
		t.Run(entry.label, func(t *testing.T) {
			t.Parallel()

			r := releases.Release{Title: "Show", Resolution: entry.label, Audio: "7.1", Year: 2020}.Normalize()
			score := Score(r, Query{Title: "Show", Year: 2020})
			decoded := DecodeResolution(score)

			assert.Equal(t, ResolutionScore(entry.label), ResolutionScore(decoded))
			if entry.label != "4K" {
				assert.Equal(t, entry.label, decoded)
			}
		})
	}

	assert.Equal(t, ResolutionUnknown, DecodeResolution(0))
	assert.Equal(t, ResolutionUnknown, DecodeResolution(Score(releases.Release{Title: "Show", Resolution: "480p"}.Normalize(), Query{Title: "Show"})))
}
