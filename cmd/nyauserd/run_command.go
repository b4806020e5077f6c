// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nyauser/nyauser/internal/config"
)

// newRunCommand starts the long-running daemon: the engine's scheduler
// loop plus a config watch that reopens the logger on a level change.
func newRunCommand(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the search/scan scheduler until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(*configDir)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			config.Watch(configPath(*configDir), func(cfg *config.Config) {
				a.logger = config.NewLogger(cfg)
				a.logger.Info().Msg("config reloaded")
			})

			a.logger.Info().
				Dur("searchInterval", a.cfg.Search.SearchInterval).
				Dur("completionCheckInterval", a.cfg.Search.CompletionCheckInterval).
				Msg("nyauser starting")

			a.engine.Start(ctx)
			a.logger.Info().Msg("nyauser stopped")
			return nil
		},
	}
}
