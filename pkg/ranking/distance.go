// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package ranking

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/autobrr/streamrank/pkg/stringutils"
)

// NameDistance is the edit distance between two titles after folding case,
// diacritics and separators. It explains name rejections; it never affects scores.
func NameDistance(releaseTitle, queryTitle string) int {
	return fuzzy.LevenshteinDistance(foldTitle(releaseTitle), foldTitle(queryTitle))
}

func foldTitle(title string) string {
	words := reNonWord.Split(strings.ToLower(stringutils.NormalizeUnicode(title)), -1)
	return strings.TrimSpace(strings.Join(words, " "))
}
