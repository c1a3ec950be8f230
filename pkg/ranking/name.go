// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package ranking

import (
	"regexp"
	"strings"
	"time"

	"github.com/autobrr/streamrank/pkg/stringutils"
)

const nonWordClass = `[^\p{L}\p{N}_]+`

var reNonWord = regexp.MustCompile(nonWordClass)

// namePatterns caches compiled title patterns; one query is matched against
// every candidate release.
var namePatterns = stringutils.NewNormalizer(10*time.Minute, compileNamePattern)

// MatchesName reports whether releaseTitle is the query title, ignoring case
// and the punctuation or spacing between words. Accented letters are word
// characters and must match as written.
func MatchesName(releaseTitle, queryTitle string) bool {
	return namePatterns.Normalize(queryTitle).MatchString(releaseTitle)
}

func compileNamePattern(queryTitle string) *regexp.Regexp {
	words := reNonWord.Split(queryTitle, -1)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)^` + strings.Join(words, nonWordClass) + `$`)
}
