// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package releases

import (
	"regexp"
	"strconv"
)

// rls reports a single Series/Episode number, so pack notation such as
// "S01-S10" or "S02E01-E03" is expanded here.
var (
	reSeasonRange     = regexp.MustCompile(`(?i)\bS(\d{1,2})\s?-\s?S?(\d{1,2})\b`)
	reSeasonWordRange = regexp.MustCompile(`(?i)\bSeasons?[\s.]?(\d{1,2})\s?(?:-|to)\s?(\d{1,2})\b`)
	reEpisodeRange    = regexp.MustCompile(`(?i)E(\d{1,3})\s?-\s?E?(\d{1,3})\b`)
)

const maxRangeSpan = 100

func seasonRange(name string) IntList {
	for _, re := range []*regexp.Regexp{reSeasonRange, reSeasonWordRange} {
		if list := expandRange(re, name); len(list) > 0 {
			return list
		}
	}
	return nil
}

func episodeRange(name string) IntList {
	return expandRange(reEpisodeRange, name)
}

func expandRange(re *regexp.Regexp, name string) IntList {
	m := re.FindStringSubmatch(name)
	if m == nil {
		return nil
	}

	from, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	to, err := strconv.Atoi(m[2])
	if err != nil {
		return nil
	}
	if from <= 0 || to <= from || to-from > maxRangeSpan {
		return nil
	}

	out := make(IntList, 0, to-from+1)
	for n := from; n <= to; n++ {
		out = append(out, n)
	}
	return out
}
