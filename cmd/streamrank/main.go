// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/autobrr/streamrank/internal/buildinfo"
)

func main() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// NewRootCommand assembles the CLI. --config is shared by every subcommand.
func NewRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "streamrank",
		Short:        "Rank torrent releases and resolve cached stream links",
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml or the directory holding it")

	root.AddCommand(
		RunServeCommand(&configPath),
		RunScoreCommand(),
		RunResolveCommand(&configPath),
		RunVersionCommand(),
		RunConfigCommand(&configPath),
	)

	return root
}
