// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package stringutils provides string interning and cached normalization helpers
// used for info hashes and title matching.
package stringutils

import (
	"strings"
	"unique"
)

// InternNormalized interns a trimmed and lowercased version of the string.
// This is the canonical form for info hashes and other case-insensitive keys.
func InternNormalized(s string) string {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return ""
	}
	return unique.Make(normalized).Value()
}
