// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nyauser/nyauser/internal/domain"
	"github.com/nyauser/nyauser/internal/models"
)

func newSeriesCommand(configDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Manage tracked series",
	}
	cmd.AddCommand(
		newSeriesListCommand(configDir),
		newSeriesGetCommand(configDir),
		newSeriesSetCommand(configDir),
		newSeriesDeleteCommand(configDir),
	)
	return cmd
}

func newSeriesListCommand(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked series",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openStoreApp(*configDir)
			if err != nil {
				return err
			}
			defer a.Close()

			series, err := models.ListSeries(a.store)
			if err != nil {
				return err
			}
			for _, s := range series {
				cmd.Printf("%s\tprofile=%s\n", s.Name, s.Profile)
			}
			return nil
		},
	}
}

// newSeriesGetCommand prints a series' SeriesStatus: its tracked pulls
// bucketed by season then episode, the same view SeriesStatus builds for
// the out-of-scope API.
func newSeriesGetCommand(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show a series' season/episode pull status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openStoreApp(*configDir)
			if err != nil {
				return err
			}
			defer a.Close()

			series, ok, err := models.GetSeries(a.store, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("series %q not found", args[0])
			}

			status, err := models.SeriesStatus(a.store, series)
			if err != nil {
				return err
			}

			for season, bucket := range status.Seasons {
				cmd.Printf("Season %d:\n", season)
				for episode, ep := range bucket.Episodes {
					cmd.Printf("  E%s\t%s\n", episode.String(), ep.State)
				}
			}
			return nil
		},
	}
}

func newSeriesSetCommand(configDir *string) *cobra.Command {
	var (
		profile        string
		maxDaysOld     uint64
		relocate       string
		relocateSeason bool
	)

	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Create or update a tracked series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if profile == "" {
				return errors.New("--profile is required")
			}

			a, err := openStoreApp(*configDir)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, ok, err := models.GetProfile(a.store, profile); err != nil {
				return err
			} else if !ok {
				return fmt.Errorf("profile %q does not exist", profile)
			}

			series := domain.Series{
				Name:           args[0],
				Profile:        profile,
				RelocateSeason: relocateSeason,
			}
			if maxDaysOld > 0 {
				series.MaxDaysOld = &maxDaysOld
			}
			if relocate != "" {
				series.Relocate = &relocate
			}

			if err := models.SaveSeries(a.store, series); err != nil {
				return err
			}
			cmd.Printf("Series %q saved.\n", series.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Profile this series uses to parse releases")
	cmd.Flags().Uint64Var(&maxDaysOld, "max-days-old", 0, "Override the global freshness cutoff, in days")
	cmd.Flags().StringVar(&relocate, "relocate", "", "Series-specific relocate directory")
	cmd.Flags().BoolVar(&relocateSeason, "relocate-season", false, "Append a \"Season N\" subdirectory under relocate")

	return cmd
}

func newSeriesDeleteCommand(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a tracked series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openStoreApp(*configDir)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := models.DeleteSeries(a.store, args[0]); err != nil {
				return err
			}
			cmd.Printf("Series %q deleted.\n", args[0])
			return nil
		},
	}
}
