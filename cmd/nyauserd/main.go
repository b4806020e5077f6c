// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nyauser/nyauser/internal/buildinfo"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:     "nyauserd",
		Short:   "nyauser is an automated, profile-driven torrent puller",
		Version: buildinfo.Version,
	}

	defaultConfigDir, err := os.UserConfigDir()
	if err != nil {
		defaultConfigDir = "."
	} else {
		defaultConfigDir = filepath.Join(defaultConfigDir, "nyauser")
	}

	cmd.PersistentFlags().StringVar(&configDir, "config-dir", defaultConfigDir, "Directory holding nyauser.toml and nyauser.db")

	cmd.AddCommand(
		newRunCommand(&configDir),
		newSearchCommand(&configDir),
		newScanCommand(&configDir),
		newWipeNonexistantCommand(&configDir),
		newVersionCommand(),
		newProfileCommand(&configDir),
		newSeriesCommand(&configDir),
		newPullCommand(&configDir),
	)

	return cmd
}

func newVersionCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				data, err := buildinfo.JSON()
				if err != nil {
					return err
				}
				cmd.Println(string(data))
				return nil
			}
			cmd.Println(buildinfo.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print build information as JSON")
	return cmd
}
