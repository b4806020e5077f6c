// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/nyauser/nyauser/internal/domain"
	"github.com/nyauser/nyauser/internal/models"
)

func newProfileCommand(configDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage parsing profiles",
	}
	cmd.AddCommand(
		newProfileListCommand(configDir),
		newProfileSetCommand(configDir),
		newProfileDeleteCommand(configDir),
	)
	return cmd
}

func newProfileListCommand(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openStoreApp(*configDir)
			if err != nil {
				return err
			}
			defer a.Close()

			profiles, err := models.ListProfiles(a.store)
			if err != nil {
				return err
			}
			for _, p := range profiles {
				cmd.Printf("%s\tregex=%q\n", p.Name, p.ParseRegex)
			}
			return nil
		},
	}
}

func newProfileSetCommand(configDir *string) *cobra.Command {
	var (
		searchPrefix string
		parseRegex   string
		relocate     string
	)

	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Create or update a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if parseRegex == "" {
				return errors.New("--parse-regex is required")
			}

			a, err := openStoreApp(*configDir)
			if err != nil {
				return err
			}
			defer a.Close()

			profile := domain.Profile{Name: args[0], ParseRegex: parseRegex}
			if searchPrefix != "" {
				profile.SearchPrefix = &searchPrefix
			}
			if relocate != "" {
				profile.Relocate = &relocate
			}

			if err := models.SaveProfile(a.store, profile); err != nil {
				return err
			}
			cmd.Printf("Profile %q saved.\n", profile.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&searchPrefix, "search-prefix", "", "Prepended to every query for series on this profile")
	cmd.Flags().StringVar(&parseRegex, "parse-regex", "", "Named-capture regex used to parse release titles")
	cmd.Flags().StringVar(&relocate, "relocate", "", "Default relocate base for series on this profile")

	return cmd
}

func newProfileDeleteCommand(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openStoreApp(*configDir)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := models.DeleteProfile(a.store, args[0]); err != nil {
				return err
			}
			cmd.Printf("Profile %q deleted.\n", args[0])
			return nil
		},
	}
}
