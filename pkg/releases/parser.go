// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package releases

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/autobrr/autobrr/pkg/ttlcache"
	"github.com/moistari/rls"
)

const defaultParserTTL = 5 * time.Minute

var reBitDepth = regexp.MustCompile(`(?i)\b(8|10|12)[\s.-]?bits?\b`)

// Parser turns raw release names into Releases using rls, with caching.
type Parser struct {
	cache *ttlcache.Cache[string, Release]
}

// NewParser creates a parser whose results expire after ttl.
func NewParser(ttl time.Duration) *Parser {
	return &Parser{
		cache: ttlcache.New(ttlcache.Options[string, Release]{}.SetDefaultTTL(ttl)),
	}
}

// NewDefaultParser creates a parser with a 5 minute cache.
func NewDefaultParser() *Parser {
	return NewParser(defaultParserTTL)
}

// Parse parses a release name. A nil parser parses without caching.
func (p *Parser) Parse(name string) Release {
	name = strings.TrimSpace(name)
	if name == "" {
		return Release{}.Normalize()
	}
	if p == nil || p.cache == nil {
		return FromName(name)
	}

	if cached, found := p.cache.Get(name); found {
		return cached
	}

	release := FromName(name)
	p.cache.Set(name, release, ttlcache.DefaultTTL)
	return release
}

// Clear removes a cached entry.
func (p *Parser) Clear(name string) {
	if p == nil || p.cache == nil {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	p.cache.Delete(name)
}

// FromName parses a release name without caching.
func FromName(name string) Release {
	return FromRLS(name, rls.ParseString(name))
}

// FromRLS maps an rls result onto a Release, coercing the scalar season and
// episode numbers into lists and expanding pack ranges found in the raw name.
func FromRLS(name string, r rls.Release) Release {
	season := seasonRange(name)
	if len(season) == 0 {
		season = IntsOf(r.Series)
	}
	episode := episodeRange(name)
	if len(episode) == 0 {
		episode = IntsOf(r.Episode)
	}

	audio := strings.Join(append(append([]string{}, r.Audio...), r.Channels), " ")

	filetype := r.Container
	if filetype == "" {
		filetype = r.Ext
	}

	return Release{
		Title:      r.Title,
		Season:     season,
		Episode:    episode,
		Resolution: r.Resolution,
		Quality:    CanonicalSource(r.Source),
		Codec:      JoinCodecs(r.Codec),
		Audio:      strings.TrimSpace(audio),
		Filetype:   filetype,
		Encoder:    r.Group,
		Language:   StringsOf(r.Language...),
		Subtitles:  StringList{},
		BitDepth:   bitDepth(name),
		HDR:        len(r.HDR) > 0,
		Year:       r.Year,
		RawTitle:   name,
	}
}

func bitDepth(name string) int {
	m := reBitDepth.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
