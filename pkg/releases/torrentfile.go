// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package releases

import (
	"fmt"

	"github.com/anacrolix/torrent/metainfo"

	"github.com/autobrr/streamrank/pkg/hashutil"
)

// FromTorrentFile parses the release named in a .torrent file and keys it by
// the file's v1 info hash.
func FromTorrentFile(parser *Parser, path string) (Release, error) {
	mi, err := metainfo.LoadFromFile(path)
	if err != nil {
		return Release{}, fmt.Errorf("load torrent %s: %w", path, err)
	}

	info, err := mi.UnmarshalInfo()
	if err != nil {
		return Release{}, fmt.Errorf("decode torrent info %s: %w", path, err)
	}

	r := parser.Parse(info.Name)
	r.InfoHash = hashutil.Normalize(mi.HashInfoBytes().HexString())
	return r, nil
}
