// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autobrr/streamrank/internal/buildinfo"
	"github.com/autobrr/streamrank/pkg/version"
)

func RunVersionCommand() *cobra.Command {
	var (
		asJSON bool
		check  bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				data, err := buildinfo.JSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			} else {
				fmt.Fprint(cmd.OutOrStdout(), buildinfo.String())
			}

			if !check {
				return nil
			}

			checker := version.NewChecker("autobrr", "streamrank", buildinfo.UserAgent)
			newer, release, err := checker.CheckNewVersion(cmd.Context(), buildinfo.Version)
			if err != nil {
				return fmt.Errorf("could not check for updates: %w", err)
			}

			switch {
			case release == nil:
				fmt.Fprintln(cmd.OutOrStdout(), "Development build, skipping update check")
			case newer:
				fmt.Fprintf(cmd.OutOrStdout(), "New release available: %s %s\n", release.TagName, release.HTMLURL)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), "streamrank is up to date")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	cmd.Flags().BoolVar(&check, "check", false, "Check GitHub for a newer release")
	return cmd
}
