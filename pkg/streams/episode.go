// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package streams

import (
	"regexp"
	"strconv"
	"strings"
)

// Matches must start after a non-alphanumeric character and end before a
// non-digit, so "e05" never matches inside "e050" and "x264" is not "1x264".
var (
	// s01e05, s1e5, s01.e05, s01 e05, s01_e05
	reSxxExx = regexp.MustCompile(`s(\d{1,3})[\s._-]?e(\d{1,4})`)
	// 1x05
	reNxNN = regexp.MustCompile(`(\d{1,2})x(\d{1,4})`)
	// s01, season 1, season.01
	reSeason = regexp.MustCompile(`(?:s|season[\s._-]?)(\d{1,3})`)
)

// MatchSeasonEpisode reports whether a file name carries the requested season
// and, when given, episode. seasonEpisode is [season] or [season, episode];
// anything after the episode is ignored.
func MatchSeasonEpisode(seasonEpisode []int, name string) bool {
	if len(seasonEpisode) == 0 {
		return false
	}
	name = strings.ToLower(name)
	season := seasonEpisode[0]

	if len(seasonEpisode) == 1 || seasonEpisode[1] <= 0 {
		return anyMatch(reSeason, name, func(n []int) bool {
			return n[0] == season
		})
	}

	episode := seasonEpisode[1]
	match := func(n []int) bool {
		return n[0] == season && n[1] == episode
	}
	return anyMatch(reSxxExx, name, match) || anyMatch(reNxNN, name, match)
}

func anyMatch(re *regexp.Regexp, name string, match func([]int) bool) bool {
	for _, loc := range re.FindAllStringSubmatchIndex(name, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && isAlnum(name[start-1]) {
			continue
		}
		if end < len(name) && isDigit(name[end]) {
			continue
		}

		numbers := make([]int, 0, len(loc)/2-1)
		for i := 2; i+1 < len(loc); i += 2 {
			n, err := strconv.Atoi(name[loc[i]:loc[i+1]])
			if err != nil {
				n = -1
			}
			numbers = append(numbers, n)
		}
		if match(numbers) {
			return true
		}
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z')
}
