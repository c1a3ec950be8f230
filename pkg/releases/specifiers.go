// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package releases

import (
	"slices"
	"strings"
)

// codecAliases folds the spellings release groups use for the same video codec.
var codecAliases = map[string]string{
	"X264":  "AVC",
	"H.264": "AVC",
	"H264":  "AVC",
	"AVC":   "AVC",
	"X265":  "HEVC",
	"H.265": "HEVC",
	"H265":  "HEVC",
	"HEVC":  "HEVC",
}

// CanonicalCodec returns the canonical codec name, or the uppercased input when unknown.
func CanonicalCodec(codec string) string {
	upper := strings.ToUpper(strings.TrimSpace(codec))
	if canonical, ok := codecAliases[upper]; ok {
		return canonical
	}
	return upper
}

// JoinCodecs canonicalizes, deduplicates and sorts codecs into one display string.
func JoinCodecs(codecs []string) string {
	if len(codecs) == 0 {
		return ""
	}
	out := make([]string, 0, len(codecs))
	for _, codec := range codecs {
		c := CanonicalCodec(codec)
		if c == "" || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	slices.Sort(out)
	return strings.Join(out, " ")
}

var sourceAliases = map[string]string{
	"WEB-DL": "WEBDL",
	"WEBDL":  "WEBDL",
	"WEBRIP": "WEBRIP",
	"WEB":    "WEB",
}

// CanonicalSource folds WEB-DL/WEBDL spellings; other sources are uppercased.
func CanonicalSource(source string) string {
	upper := strings.ToUpper(strings.TrimSpace(source))
	if canonical, ok := sourceAliases[upper]; ok {
		return canonical
	}
	return upper
}
