// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/autobrr/streamrank/pkg/ranking"
	"github.com/autobrr/streamrank/pkg/releases"
)

type scoredRelease struct {
	Name       string               `json:"name"`
	Score      int                  `json:"score"`
	Accepted   bool                 `json:"accepted"`
	Reason     ranking.RejectReason `json:"reason,omitempty"`
	Tier       string               `json:"tier"`
	Resolution string               `json:"resolution,omitempty"`
}

func RunScoreCommand() *cobra.Command {
	var (
		query      ranking.Query
		filter     string
		onlyRanked bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "score [release name...]",
		Short: "Score release names against a title",
		Long:  "Score release names against a title. Names are read from stdin, one per line, when none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(query.Title) == "" {
				return errors.New("--title is required")
			}

			names := args
			if len(names) == 0 {
				var err error
				if names, err = readLines(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			compiled, err := ranking.CompileFilter(filter)
			if err != nil {
				return err
			}

			parser := releases.NewDefaultParser()
			results := make([]scoredRelease, 0, len(names))
			for _, name := range names {
				rel := parser.Parse(name)

				ok, err := compiled.Match(rel)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}

				res := ranking.Evaluate(rel, query)
				if onlyRanked && !res.Accepted {
					continue
				}

				item := scoredRelease{
					Name:     name,
					Score:    res.Value(),
					Accepted: res.Accepted,
					Reason:   res.Reason,
					Tier:     res.Tier.String(),
				}
				if res.Accepted {
					item.Resolution = ranking.DecodeResolution(res.Score)
				}
				results = append(results, item)
			}

			if onlyRanked {
				slices.SortStableFunc(results, func(a, b scoredRelease) int {
					return b.Score - a.Score
				})
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{strconv.Itoa(r.Score), r.Tier, r.Resolution, string(r.Reason), r.Name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Score", "Tier", "Resolution", "Reason", "Release"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&query.Title, "title", "", "Title to match")
	cmd.Flags().IntVar(&query.Year, "year", 0, "Release year")
	cmd.Flags().IntVar(&query.Season, "season", 0, "Season number")
	cmd.Flags().IntVar(&query.Episode, "episode", 0, "Episode number")
	cmd.Flags().StringVar(&filter, "filter", "", `Filter expression, e.g. 'Resolution == "2160p" && HDR'`)
	cmd.Flags().BoolVar(&onlyRanked, "rank", false, "Drop rejected releases and sort best first")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return lines, nil
}
