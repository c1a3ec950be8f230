// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package releases

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anacrolix/torrent/metainfo"

	"github.com/autobrr/streamrank/pkg/hashutil"
)

// ErrNoSource is returned when a release has neither a usable magnet link nor an info hash.
var ErrNoSource = errors.New("release has no magnet link or info hash")

// Source returns the magnet link to submit for this release together with its
// normalized info hash. The magnet link wins when it parses; otherwise one is
// built from InfoHash.
func (r Release) Source() (magnet string, infoHash string, err error) {
	if uri := strings.TrimSpace(r.MagnetURI); uri != "" {
		m, perr := metainfo.ParseMagnetUri(uri)
		if perr == nil {
			return uri, hashutil.Normalize(m.InfoHash.HexString()), nil
		}
		if strings.TrimSpace(r.InfoHash) == "" {
			return "", "", fmt.Errorf("invalid magnet link: %w", perr)
		}
	}

	if h := strings.TrimSpace(r.InfoHash); h != "" {
		m, perr := metainfo.ParseMagnetUri("magnet:?xt=urn:btih:" + h)
		if perr != nil {
			return "", "", fmt.Errorf("invalid info hash %q: %w", h, perr)
		}
		if r.Title != "" {
			m.DisplayName = r.Title
		}
		return m.String(), hashutil.Normalize(m.InfoHash.HexString()), nil
	}

	return "", "", ErrNoSource
}

// InfoHashFromMagnet extracts the hex info hash from a magnet link.
func InfoHashFromMagnet(uri string) (string, error) {
	m, err := metainfo.ParseMagnetUri(strings.TrimSpace(uri))
	if err != nil {
		return "", err
	}
	return hashutil.Normalize(m.InfoHash.HexString()), nil
}

// DisplayName returns the dn parameter of a magnet link, if any.
func DisplayName(uri string) string {
	m, err := metainfo.ParseMagnetUri(strings.TrimSpace(uri))
	if err != nil {
		return ""
	}
	return m.DisplayName
}
