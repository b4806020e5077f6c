// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyauser/nyauser/internal/domain"
	"github.com/nyauser/nyauser/internal/models"
)

// seedFooSeriesForCLI writes a profile, a series and one Downloading pull
// for it directly through models, bypassing the engine entirely -- the
// CLI's data-only commands must work against state no search round ever
// produced (e.g. pulls created by another process).
func seedFooSeriesForCLI(t *testing.T, a *storeApp) string {
	t.Helper()

	profile := domain.Profile{Name: "sp", ParseRegex: `^(?P<title>.+)$`}
	require.NoError(t, models.SaveProfile(a.store, profile))

	series := domain.Series{Name: "Foo", Profile: "sp"}
	require.NoError(t, models.SaveSeries(a.store, series))

	pull := domain.PullEntry{
		Result: domain.ParsedSearchResult{
			Result: domain.SearchResult{Title: "Foo S01E01"},
			Parsed: domain.StandardEpisode{
				Title:   "Foo",
				Season:  1,
				Episode: domain.EpisodeStandard(1),
			},
			Profile: "sp",
		},
		TorrentHash: "abc123",
		State:       domain.PullStateDownloading,
	}
	require.NoError(t, models.SavePull(a.store, pull))
	require.NoError(t, a.store.Flush())

	return pull.Key()
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	// A nil slice would make cobra fall back to the test binary's os.Args.
	cmd.SetArgs(append([]string{}, args...))
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestProfileSetListDelete(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	output := runCommand(t, newProfileSetCommand(&configDir), "sp", "--parse-regex", `^(?P<title>.+)$`)
	assert.Contains(t, output, `Profile "sp" saved.`)

	output = runCommand(t, newProfileListCommand(&configDir))
	assert.Contains(t, output, "sp")

	output = runCommand(t, newProfileDeleteCommand(&configDir), "sp")
	assert.Contains(t, output, `Profile "sp" deleted.`)

	output = runCommand(t, newProfileListCommand(&configDir))
	assert.NotContains(t, output, "sp")
}

func TestSeriesSetRequiresExistingProfile(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	_, err := runSeriesSetExpectingError(t, &configDir, "Foo", "--profile", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `profile "missing" does not exist`)
}

func runSeriesSetExpectingError(t *testing.T, configDir *string, args ...string) (string, error) {
	t.Helper()
	cmd := newSeriesSetCommand(configDir)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestSeriesSetListGetDelete(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	runCommand(t, newProfileSetCommand(&configDir), "sp", "--parse-regex", `^(?P<title>.+)$`)

	output := runCommand(t, newSeriesSetCommand(&configDir), "Foo", "--profile", "sp", "--relocate-season")
	assert.Contains(t, output, `Series "Foo" saved.`)

	output = runCommand(t, newSeriesListCommand(&configDir))
	assert.Contains(t, output, "Foo")
	assert.Contains(t, output, "profile=sp")

	output = runCommand(t, newSeriesGetCommand(&configDir), "Foo")
	assert.Empty(t, output) // no pulls tracked yet

	output = runCommand(t, newSeriesDeleteCommand(&configDir), "Foo")
	assert.Contains(t, output, `Series "Foo" deleted.`)
}

func TestPullListFiltersByState(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	a, err := openStoreApp(configDir)
	require.NoError(t, err)

	seedFooSeriesForCLI(t, a)
	require.NoError(t, a.Close())

	output := runCommand(t, newPullListCommand(&configDir), "--state", "Downloading")
	assert.Contains(t, output, "Foo")

	output = runCommand(t, newPullListCommand(&configDir), "--state", "Finished")
	assert.NotContains(t, output, "Foo")
}

func TestPullDeleteByKey(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	a, err := openStoreApp(configDir)
	require.NoError(t, err)

	key := seedFooSeriesForCLI(t, a)
	require.NoError(t, a.Close())

	output := runCommand(t, newPullDeleteCommand(&configDir), key)
	assert.Contains(t, output, "deleted")

	output = runCommand(t, newPullListCommand(&configDir))
	assert.NotContains(t, output, "Foo")
}
