// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nyauser/nyauser/internal/domain"
	"github.com/nyauser/nyauser/internal/models"
)

func newPullCommand(configDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Inspect and manage tracked pulls",
	}
	cmd.AddCommand(
		newPullListCommand(configDir),
		newPullDeleteCommand(configDir),
	)
	return cmd
}

func newPullListCommand(configDir *string) *cobra.Command {
	var (
		profile       string
		titleContains string
		titleIs       string
		seasonIs      int32
		episodeIs     string
		state         string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked pulls, optionally filtered",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openStoreApp(*configDir)
			if err != nil {
				return err
			}
			defer a.Close()

			pulls, err := models.ListAllPulls(a.store)
			if err != nil {
				return err
			}

			filter := domain.PullEntryFilter{}
			if profile != "" {
				filter.Profile = &profile
			}
			if titleContains != "" {
				filter.TitleContains = &titleContains
			}
			if titleIs != "" {
				filter.TitleIs = &titleIs
			}
			if seasonIs >= 0 {
				season := uint32(seasonIs)
				filter.SeasonIs = &season
			}
			if episodeIs != "" {
				episode := domain.ParseEpisode(episodeIs)
				filter.EpisodeIs = &episode
			}
			if state != "" {
				s := domain.PullState(state)
				filter.State = &s
			}

			for _, pull := range pulls {
				if !filter.Matches(pull) {
					continue
				}
				cmd.Printf("%s\t%s\t%s\n", pull.Key(), pull.State, pull.Result.Parsed.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Filter by profile name")
	cmd.Flags().StringVar(&titleContains, "title-contains", "", "Filter by title substring")
	cmd.Flags().StringVar(&titleIs, "title-is", "", "Filter by exact title")
	cmd.Flags().Int32Var(&seasonIs, "season-is", -1, "Filter by season number")
	cmd.Flags().StringVar(&episodeIs, "episode-is", "", "Filter by episode (numeric or special name)")
	cmd.Flags().StringVar(&state, "state", "", "Filter by state (Downloading or Finished)")

	return cmd
}

func newPullDeleteCommand(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Forget a tracked pull by its key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openStoreApp(*configDir)
			if err != nil {
				return err
			}
			defer a.Close()

			pulls, err := models.ListAllPulls(a.store)
			if err != nil {
				return err
			}

			for _, pull := range pulls {
				if pull.Key() == args[0] {
					if err := models.DeletePull(a.store, pull); err != nil {
						return err
					}
					cmd.Printf("Pull %q deleted.\n", args[0])
					return nil
				}
			}
			return fmt.Errorf("pull %q not found", args[0])
		},
	}
}
