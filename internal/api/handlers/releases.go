// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/autobrr/streamrank/pkg/releases"
)

// maxReleasesPerRequest bounds the candidates of a single request.
const maxReleasesPerRequest = 500

// releaseName is the shorthand form of a release: a raw release name plus an
// optional source, parsed server side.
type releaseName struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	InfoHash string `json:"infoHash"`
	Magnet   string `json:"magnet"`
}

// decodeReleases accepts each element either as a structured release or as
// {"name": "..."}; names are parsed with parser.
func decodeReleases(raw []json.RawMessage, parser *releases.Parser) ([]releases.Release, error) {
	if len(raw) > maxReleasesPerRequest {
		return nil, fmt.Errorf("too many releases: %d (max %d)", len(raw), maxReleasesPerRequest)
	}

	out := make([]releases.Release, 0, len(raw))
	for i, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			return nil, fmt.Errorf("release %d: expected an object", i)
		}

		var short releaseName
		if err := json.Unmarshal(item, &short); err != nil {
			return nil, fmt.Errorf("release %d: %w", i, err)
		}

		if short.Title == "" && strings.TrimSpace(short.Name) != "" {
			r := parser.Parse(short.Name)
			r.InfoHash = strings.TrimSpace(short.InfoHash)
			r.MagnetURI = strings.TrimSpace(short.Magnet)
			out = append(out, r)
			continue
		}

		var r releases.Release
		if err := json.Unmarshal(item, &r); err != nil {
			return nil, fmt.Errorf("release %d: %w", i, err)
		}
		out = append(out, r)
	}

	return out, nil
}
