// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package stringutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// unicodeNormalizer caches NormalizeUnicode results; titles are matched against
// the same query many times per ranking call.
var unicodeNormalizer = NewNormalizer(defaultNormalizerTTL, normalizeUnicodeInner)

var letterReplacer = strings.NewReplacer(
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O",
	"ß", "ss",
	"ð", "d", "Ð", "D",
	"þ", "th", "Þ", "TH",
)

func normalizeUnicodeInner(s string) string {
	// NFKD leaves these as distinct letters
	s = letterReplacer.Replace(s)

	// transform.Chain is not safe for concurrent use, build one per call
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// NormalizeUnicode removes diacritics and decomposes ligatures with caching.
// Examples:
//   - "Shōgun" → "Shogun"
//   - "Amélie" → "Amelie"
//   - "Björk" → "Bjork"
//   - "ﬁ" → "fi"
func NormalizeUnicode(s string) string {
	if s == "" {
		return ""
	}
	return unicodeNormalizer.Normalize(s)
}
