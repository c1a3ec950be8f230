// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package ranking

import "github.com/autobrr/streamrank/pkg/releases"

// Tier classifies how well a release's season/episode coverage fits a request.
type Tier int

const (
	TierMismatch    Tier = -10
	TierNone        Tier = 0
	TierEpisode     Tier = 1
	TierWholeSeason Tier = 2
	TierWholeSeries Tier = 3
)

func (t Tier) String() string {
	switch t {
	case TierMismatch:
		return "mismatch"
	case TierNone:
		return "none"
	case TierEpisode:
		return "episode"
	case TierWholeSeason:
		return "season"
	case TierWholeSeries:
		return "series"
	default:
		return "unknown"
	}
}

// SeriesTier rates the release's season/episode coverage. The first matching rule wins:
//
//	no season or episode requested          -> none (movie)
//	release seasons exclude the season      -> mismatch
//	release episodes exclude the episode    -> mismatch
//	release has no season/episode info      -> none
//	several seasons including the season    -> series
//	the season, no episode info             -> season
//	the season and the episode              -> episode
//	anything else                           -> mismatch
func SeriesTier(r releases.Release, season, episode int) Tier {
	if season == 0 && episode == 0 {
		return TierNone
	}
	if len(r.Season) > 0 && !r.HasSeason(season) {
		return TierMismatch
	}
	if len(r.Episode) > 0 && !r.HasEpisode(episode) {
		return TierMismatch
	}
	if len(r.Season) == 0 && len(r.Episode) == 0 {
		return TierNone
	}
	if len(r.Season) > 1 && r.HasSeason(season) {
		return TierWholeSeries
	}
	if r.HasSeason(season) && len(r.Episode) == 0 {
		return TierWholeSeason
	}
	if r.HasSeason(season) && r.HasEpisode(episode) {
		return TierEpisode
	}
	return TierMismatch
}

// IsSeasonEpisode reports whether the release positively covers the requested season/episode.
func IsSeasonEpisode(r releases.Release, season, episode int) bool {
	return SeriesTier(r, season, episode) > TierNone
}
