// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/autobrr/streamrank/internal/config"
)

func RunConfigCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Config file operations",
	}

	cmd.AddCommand(runConfigInitCommand(configPath), runConfigShowCommand(configPath))
	return cmd
}

func runConfigInitCommand(configPath *string) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented default config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.ResolvePath(*configPath)
			if err != nil {
				return err
			}
			if err := config.WriteDefaultConfig(path, host, port); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host written to the file")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port written to the file")
	return cmd
}

func runConfigShowCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective config with secrets redacted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			appConfig, err := config.New(*configPath)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(appConfig.Current().Redacted())
			if err != nil {
				return err
			}

			source := appConfig.Path()
			if !appConfig.FileLoaded() {
				source += " (not found, defaults)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", source, data)
			return nil
		},
	}
}
