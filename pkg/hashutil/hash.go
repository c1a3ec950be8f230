// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package hashutil normalizes torrent info hashes so the same content is keyed
// identically whether it came from a magnet link or a release record.
package hashutil

import (
	"encoding/hex"

	"github.com/autobrr/streamrank/pkg/stringutils"
)

// Normalize canonicalizes a torrent hash by trimming whitespace and converting to lowercase.
// Returns an empty string if the input is blank.
func Normalize(hash string) string {
	return stringutils.InternNormalized(hash)
}

// IsV1Hex reports whether hash is a 40 character hex encoded SHA-1 info hash.
func IsV1Hex(hash string) bool {
	h := Normalize(hash)
	if len(h) != 40 {
		return false
	}
	_, err := hex.DecodeString(h)
	return err == nil
}

// NormalizeAll normalizes a slice of hashes to lowercase, removing empty entries and duplicates.
// Preserves the order of first occurrence.
func NormalizeAll(hashes []string) []string {
	if len(hashes) == 0 {
		return nil
	}

	result := make([]string, 0, len(hashes))
	seen := make(map[string]struct{}, len(hashes))

	for _, hash := range hashes {
		normalized := Normalize(hash)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}

	return result
}
