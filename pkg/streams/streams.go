// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package streams picks the playable file out of a cached transfer.
package streams

import (
	"cmp"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// CachedFile is one file inside a transfer the cache-lookup service holds.
type CachedFile struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
	Link string `json:"link"`
}

// Name is the last segment of the file path.
func (f CachedFile) Name() string {
	if i := strings.LastIndex(f.Path, "/"); i >= 0 {
		return f.Path[i+1:]
	}
	return f.Path
}

// StreamLink is a resolved, playable URL.
type StreamLink struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

func linkFor(f CachedFile) StreamLink {
	return StreamLink{Name: f.Name(), Size: f.Size, URL: f.Link}
}

// SelectFile picks the file to stream from a cached transfer.
//
// seasonEpisode is empty for movies, [season] for a season, or [season, episode].
// Without a request, or when the transfer holds a single file, the largest file
// wins. Otherwise the largest file whose name matches the request wins, and no
// match means no link.
func SelectFile(files []CachedFile, seasonEpisode []int) (StreamLink, bool) {
	if len(files) == 0 {
		return StreamLink{}, false
	}

	sorted := slices.Clone(files)
	slices.SortStableFunc(sorted, func(a, b CachedFile) int {
		return cmp.Compare(b.Size, a.Size)
	})

	if len(sorted) == 1 || len(seasonEpisode) == 0 {
		return linkFor(sorted[0]), true
	}

	for _, f := range sorted {
		name := strings.ToLower(f.Name())
		if MatchSeasonEpisode(seasonEpisode, name) {
			log.Info().
				Str("path", name).
				Ints("season_episode", seasonEpisode).
				Msg("Path matches season and episode")
			return linkFor(f), true
		}
	}

	log.Info().
		Ints("season_episode", seasonEpisode).
		Int("files", len(sorted)).
		Msg("No file found for season and episode")
	return StreamLink{}, false
}
