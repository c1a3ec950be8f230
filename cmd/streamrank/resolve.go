// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/autobrr/streamrank/internal/config"
	"github.com/autobrr/streamrank/pkg/ranking"
	"github.com/autobrr/streamrank/pkg/releases"
	"github.com/autobrr/streamrank/pkg/streams"
)

func RunResolveCommand(configPath *string) *cobra.Command {
	var (
		query      ranking.Query
		maxResults int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <magnet, info hash or .torrent file>...",
		Short: "Look up cached stream links for magnets, info hashes or torrent files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := config.New(*configPath)
			if err != nil {
				return err
			}
			cfg := appConfig.Current()

			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				Level(config.ParseLogLevel(cfg.LogLevel)).
				With().Timestamp().Logger()

			svc := newResolverService(cfg, nil)
			if svc == nil {
				return errors.New("premiumizeApiKey is not configured")
			}

			rels, err := releasesFromArgs(releases.NewDefaultParser(), args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(query.Title) != "" {
				rels = rankNamed(rels, query)
			}

			var seasonEpisode []int
			switch {
			case query.Season > 0 && query.Episode > 0:
				seasonEpisode = []int{query.Season, query.Episode}
			case query.Season > 0:
				seasonEpisode = []int{query.Season}
			}

			links := svc.Resolve(cmd.Context(), rels, seasonEpisode, maxResults)
			if links == nil {
				links = []streams.StreamLink{}
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), links)
			}
			if len(links) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cached streams found")
				return nil
			}

			rows := make([][]string, 0, len(links))
			for _, link := range links {
				rows = append(rows, []string{link.Name, humanize.Bytes(uint64(max(link.Size, 0))), link.URL})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"File", "Size", "URL"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&query.Title, "title", "", "Rank sources against this title before resolving")
	cmd.Flags().IntVar(&query.Year, "year", 0, "Release year")
	cmd.Flags().IntVar(&query.Season, "season", 0, "Season number")
	cmd.Flags().IntVar(&query.Episode, "episode", 0, "Episode number")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "Stream links to return (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}

// rankNamed ranks releases that carry a title and appends the untitled ones,
// bare info hashes and magnets without dn, unranked in input order.
func rankNamed(rels []releases.Release, query ranking.Query) []releases.Release {
	named := make([]releases.Release, 0, len(rels))
	var untitled []releases.Release
	for _, rel := range rels {
		if strings.TrimSpace(rel.Title) == "" {
			untitled = append(untitled, rel)
			continue
		}
		named = append(named, rel)
	}

	ranked := ranking.Releases(ranking.Rank(named, query))
	if rejected := len(named) - len(ranked); rejected > 0 {
		log.Info().
			Int("rejected", rejected).
			Str("title", query.Title).
			Msg("Skipping releases that do not match the requested title or episode")
	}
	if len(untitled) > 0 {
		log.Info().
			Int("releases", len(untitled)).
			Msg("Resolving releases without a name unranked")
	}

	return append(ranked, untitled...)
}

// releasesFromArgs turns magnets into parsed releases named after their dn
// parameter and reads .torrent files. Anything else is taken as an info hash.
func releasesFromArgs(parser *releases.Parser, args []string) ([]releases.Release, error) {
	out := make([]releases.Release, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		switch {
		case arg == "":
			continue
		case strings.HasPrefix(strings.ToLower(arg), "magnet:"):
			rel := parser.Parse(releases.DisplayName(arg))
			rel.MagnetURI = arg
			out = append(out, rel)
		case strings.EqualFold(filepath.Ext(arg), ".torrent"):
			rel, err := releases.FromTorrentFile(parser, arg)
			if err != nil {
				return nil, err
			}
			out = append(out, rel)
		default:
			out = append(out, releases.Release{InfoHash: arg}.Normalize())
		}
	}
	return out, nil
}
