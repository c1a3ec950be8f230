// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package releases

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Release describes one candidate release with the metadata extracted from its name.
// Only Title, Season, Episode, Resolution, Audio and Year take part in ranking; the
// remaining fields are carried through for display.
type Release struct {
	Title      string     `json:"title"`
	InfoHash   string     `json:"infoHash,omitempty"`
	MagnetURI  string     `json:"magnet,omitempty"`
	Season     IntList    `json:"season"`
	Episode    IntList    `json:"episode"`
	Resolution string     `json:"resolution,omitempty"`
	Quality    string     `json:"quality,omitempty"`
	Codec      string     `json:"codec,omitempty"`
	Audio      string     `json:"audio,omitempty"`
	Filetype   string     `json:"filetype,omitempty"`
	Encoder    string     `json:"encoder,omitempty"`
	Language   StringList `json:"language"`
	Subtitles  StringList `json:"subtitles"`
	BitDepth   int        `json:"bitDepth,omitempty"`
	HDR        bool       `json:"hdr,omitempty"`
	Year       int        `json:"year,omitempty"`
	RawTitle   string     `json:"rawTitle,omitempty"`
}

// HasSeason reports whether season is one of the seasons the release covers.
func (r Release) HasSeason(season int) bool {
	return slices.Contains(r.Season, season)
}

// HasEpisode reports whether episode is one of the episodes the release covers.
func (r Release) HasEpisode(episode int) bool {
	return slices.Contains(r.Episode, episode)
}

// IntList is a list of ints that decodes from a bare number, a numeric string,
// null or an array. It never marshals as null.
type IntList []int

// IntsOf builds an IntList from a scalar, a slice or nothing. Zero and negative
// scalars mean "not present", matching how the title parser reports absence.
func IntsOf(values ...int) IntList {
	out := make(IntList, 0, len(values))
	for _, v := range values {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}

func (l *IntList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = IntList{}
		return nil
	}

	switch data[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		out := make(IntList, 0, len(raw))
		for _, item := range raw {
			n, err := decodeInt(item)
			if err != nil {
				return err
			}
			out = append(out, n)
		}
		*l = out
		return nil
	default:
		n, err := decodeInt(data)
		if err != nil {
			return err
		}
		*l = IntList{n}
		return nil
	}
}

func (l IntList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int(l))
}

func decodeInt(data []byte) (int, error) {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return 0, fmt.Errorf("expected number, got %s", string(data))
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("expected number, got %q", s)
	}
	return n, nil
}

// StringList is a list of strings that decodes from a bare string, null or an array.
type StringList []string

// StringsOf builds a StringList, dropping blank entries.
func StringsOf(values ...string) StringList {
	out := make(StringList, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = StringList{}
		return nil
	}

	if data[0] == '[' {
		var values []string
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
		if values == nil {
			values = []string{}
		}
		*l = values
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = StringList{s}
	return nil
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Normalize fills nil list fields so a Release built by hand behaves the same as
// one decoded from JSON or produced by the Parser.
func (r Release) Normalize() Release {
	if r.Season == nil {
		r.Season = IntList{}
	}
	if r.Episode == nil {
		r.Episode = IntList{}
	}
	if r.Language == nil {
		r.Language = StringList{}
	}
	if r.Subtitles == nil {
		r.Subtitles = StringList{}
	}
	return r
}

func (r *Release) UnmarshalJSON(data []byte) error {
	type plain Release
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Release(p).Normalize()
	return nil
}
