// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"github.com/spf13/cobra"

	"github.com/nyauser/nyauser/internal/engine"
)

// newSearchCommand runs exactly one RunIter round and exits, for cron-style
// invocation or manual triggering outside the daemon's own scheduler.
func newSearchCommand(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "search",
		Short: "Run a single search round for new releases",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(*configDir)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.engine.RunIter(cmd.Context())
		},
	}
}

// newScanCommand runs exactly one ScanCompleted round and exits.
func newScanCommand(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run a single completion-check round",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(*configDir)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.engine.ScanCompleted(cmd.Context())
		},
	}
}

// newWipeNonexistantCommand forgets every Finished pull whose relocated
// files are gone from disk, so a future search round can redownload them.
func newWipeNonexistantCommand(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "wipe-nonexistant",
		Short: "Forget knowledge of pulls whose relocated files no longer exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openStoreApp(*configDir)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := engine.WipeNonexistantStore(a.store)
			if err != nil {
				return err
			}
			cmd.Printf("Wiped %d pull(s).\n", n)
			return nil
		},
	}
}
