// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package engine

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyauser/nyauser/internal/domain"
	"github.com/nyauser/nyauser/internal/enginetest"
	"github.com/nyauser/nyauser/internal/models"
	"github.com/nyauser/nyauser/internal/sink"
	"github.com/nyauser/nyauser/internal/store"
)

func newTestEngine(t *testing.T, src *enginetest.FakeSource, snk *enginetest.FakeSink) *Engine {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "nyauser.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	config := domain.SearchConfig{MaxDaysOld: 7, MinSeeders: 1}
	return New(st, src, snk, config)
}

const subsPleaseRegex = `^\[SubsPlease\] (?P<title>.+) - (?P<episode>\d+) \(1080p\) \[(?P<checksum>[0-9A-Fa-f]{8})\]\.mkv$`

func seedFooSeries(t *testing.T, e *Engine, relocate *string, relocateSeason bool) {
	t.Helper()
	require.NoError(t, models.SaveProfile(e.store, domain.Profile{
		Name:       "sp",
		ParseRegex: subsPleaseRegex,
	}))
	require.NoError(t, models.SaveSeries(e.store, domain.Series{
		Name:           "Foo",
		Profile:        "sp",
		Relocate:       relocate,
		RelocateSeason: relocateSeason,
	}))
}

// S1: fresh pull.
func TestRunIterFreshPull(t *testing.T) {
	t.Parallel()

	src := &enginetest.FakeSource{Results: []domain.SearchResult{{
		Title:   "[SubsPlease] Foo - 03 (1080p) [ABCDEF12].mkv",
		Date:    time.Now(),
		Seeders: 5,
	}}}
	snk := enginetest.NewFakeSink()
	e := newTestEngine(t, src, snk)
	seedFooSeries(t, e, nil, true)

	require.NoError(t, e.RunIter(context.Background()))

	pulls, err := models.ListPullEntrySeries(e.store, "Foo")
	require.NoError(t, err)
	require.Len(t, pulls, 1)

	pull := pulls[0]
	assert.Equal(t, "Foo_S01E3", pull.Key())
	assert.Equal(t, domain.PullStateDownloading, pull.State)
	require.NotNil(t, pull.TorrentID)

	ok, err := e.store.Has("downloading-" + strconv.FormatInt(*pull.TorrentID, 10))
	require.NoError(t, err)
	assert.True(t, ok)
}

// S2: dedup -- running run_iter twice with the same source results must
// not push a second time.
func TestRunIterDedup(t *testing.T) {
	t.Parallel()

	src := &enginetest.FakeSource{Results: []domain.SearchResult{{
		Title:   "[SubsPlease] Foo - 03 (1080p) [ABCDEF12].mkv",
		Date:    time.Now(),
		Seeders: 5,
	}}}
	snk := enginetest.NewFakeSink()
	e := newTestEngine(t, src, snk)
	seedFooSeries(t, e, nil, true)

	require.NoError(t, e.RunIter(context.Background()))
	require.NoError(t, e.RunIter(context.Background()))

	pulls, err := models.ListPullEntrySeries(e.store, "Foo")
	require.NoError(t, err)
	assert.Len(t, pulls, 1)
	assert.Equal(t, 1, snk.PushCalls)
}

func TestRunIterDropsOldAndLowSeederResults(t *testing.T) {
	t.Parallel()

	src := &enginetest.FakeSource{Results: []domain.SearchResult{
		{Title: "[SubsPlease] Foo - 01 (1080p) [ABCDEF12].mkv", Date: time.Now().Add(-30 * 24 * time.Hour), Seeders: 5},
		{Title: "[SubsPlease] Foo - 02 (1080p) [ABCDEF12].mkv", Date: time.Now(), Seeders: 0},
	}}
	snk := enginetest.NewFakeSink()
	e := newTestEngine(t, src, snk)
	seedFooSeries(t, e, nil, true)

	require.NoError(t, e.RunIter(context.Background()))

	pulls, err := models.ListPullEntrySeries(e.store, "Foo")
	require.NoError(t, err)
	assert.Empty(t, pulls)
}

func TestRunIterUnparseableTitleIsDropped(t *testing.T) {
	t.Parallel()

	src := &enginetest.FakeSource{Results: []domain.SearchResult{{
		Title:   "totally unrelated release.mkv",
		Date:    time.Now(),
		Seeders: 5,
	}}}
	snk := enginetest.NewFakeSink()
	e := newTestEngine(t, src, snk)
	seedFooSeries(t, e, nil, true)

	require.NoError(t, e.RunIter(context.Background()))

	pulls, err := models.ListPullEntrySeries(e.store, "Foo")
	require.NoError(t, err)
	assert.Empty(t, pulls)
}

func TestRunIterMissingProfileSkipsSeriesWithoutError(t *testing.T) {
	t.Parallel()

	src := &enginetest.FakeSource{}
	snk := enginetest.NewFakeSink()
	e := newTestEngine(t, src, snk)
	require.NoError(t, models.SaveSeries(e.store, domain.Series{Name: "Foo", Profile: "missing"}))

	require.NoError(t, e.RunIter(context.Background()))
	assert.Equal(t, 0, src.Calls)
}

// S3: completion with relocate.
func TestScanCompletedRelocates(t *testing.T) {
	t.Parallel()

	downloadDir := t.TempDir()
	mediaDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(downloadDir, "foo_e03.mkv"), []byte("data"), 0o644))

	relocate := mediaDir
	src := &enginetest.FakeSource{}
	snk := enginetest.NewFakeSink()
	e := newTestEngine(t, src, snk)
	seedFooSeries(t, e, &relocate, true)

	id := int64(1)
	pull := domain.PullEntry{
		Result: domain.ParsedSearchResult{
			Result:         domain.SearchResult{Title: "foo"},
			Parsed:         domain.StandardEpisode{Title: "Foo", Season: 1, Episode: domain.EpisodeStandard(3)},
			Profile:        "sp",
			Relocate:       &relocate,
			RelocateSeason: true,
		},
		TorrentID:   &id,
		TorrentHash: "H1",
		State:       domain.PullStateDownloading,
	}
	require.NoError(t, models.SavePull(e.store, pull))
	// The sink still knows torrent 1 under the pull's hash, so the Clean
	// pass at the start of ScanCompleted keeps the pull.
	snk.CheckOverride[1] = &sink.TorrentInfo{ID: 1, Hash: "H1", Status: sink.TorrentStatusFinished}

	snk.FinishedTorrents = []sink.FinishedTorrent{{
		ID:          1,
		DownloadDir: downloadDir,
		Files:       []string{"foo_e03.mkv"},
	}}

	require.NoError(t, e.ScanCompleted(context.Background()))

	_, err := os.Stat(filepath.Join(downloadDir, "foo_e03.mkv"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(mediaDir, "Season 1", "foo_e03.mkv"))
	assert.NoError(t, err)

	_, ok, err := models.GetPullByTorrentID(e.store, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	gotPull, ok, err := store.GetSerde[domain.PullEntry](e.store, "torrent", pull.Key())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.PullStateFinished, gotPull.State)
	assert.Nil(t, gotPull.TorrentID)
	assert.Equal(t, []string{"foo_e03.mkv"}, gotPull.Files)
	assert.Contains(t, snk.Deleted, int64(1))
}

// S4: path patch rewrite.
func TestScanCompletedAppliesPathPatch(t *testing.T) {
	t.Parallel()

	hostBase := t.TempDir()
	hostDir := filepath.Join(hostBase, "abc")
	require.NoError(t, os.MkdirAll(hostDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(hostDir, "foo_e03.mkv"), []byte("data"), 0o644))

	mediaDir := t.TempDir()
	relocate := mediaDir

	src := &enginetest.FakeSource{}
	snk := enginetest.NewFakeSink()
	e := newTestEngine(t, src, snk)
	e.config.PathPatch = []domain.PathPatch{{From: "/containerpath", To: hostBase}}
	seedFooSeries(t, e, &relocate, true)

	id := int64(9)
	pull := domain.PullEntry{
		Result: domain.ParsedSearchResult{
			Result:         domain.SearchResult{Title: "foo"},
			Parsed:         domain.StandardEpisode{Title: "Foo", Season: 1, Episode: domain.EpisodeStandard(3)},
			Profile:        "sp",
			Relocate:       &relocate,
			RelocateSeason: true,
		},
		TorrentID:   &id,
		TorrentHash: "H1",
		State:       domain.PullStateDownloading,
	}
	require.NoError(t, models.SavePull(e.store, pull))
	snk.CheckOverride[9] = &sink.TorrentInfo{ID: 9, Hash: "H1", Status: sink.TorrentStatusFinished}

	snk.FinishedTorrents = []sink.FinishedTorrent{{
		ID:          9,
		DownloadDir: "/containerpath/abc",
		Files:       []string{"foo_e03.mkv"},
	}}

	require.NoError(t, e.ScanCompleted(context.Background()))

	_, err := os.Stat(filepath.Join(mediaDir, "Season 1", "foo_e03.mkv"))
	assert.NoError(t, err)
}

// S5: stale torrent on sink.
func TestCleanDropsPullWhenSinkForgetsID(t *testing.T) {
	t.Parallel()

	src := &enginetest.FakeSource{}
	snk := enginetest.NewFakeSink()
	e := newTestEngine(t, src, snk)

	id := int64(7)
	pull := domain.PullEntry{
		Result: domain.ParsedSearchResult{
			Parsed:  domain.StandardEpisode{Title: "Foo", Season: 1, Episode: domain.EpisodeStandard(3)},
			Profile: "sp",
		},
		TorrentID:   &id,
		TorrentHash: "H1",
		State:       domain.PullStateDownloading,
	}
	require.NoError(t, models.SavePull(e.store, pull))
	// Check returns nil, nil: sink no longer knows this id.

	require.NoError(t, e.Clean(context.Background()))

	ok, err := e.store.Has("downloading-7")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = models.PullExists(e.store, pull.Key())
	require.NoError(t, err)
	assert.False(t, ok)
}

// S6: hash drift.
func TestCleanDropsPullOnHashMismatch(t *testing.T) {
	t.Parallel()

	src := &enginetest.FakeSource{}
	snk := enginetest.NewFakeSink()
	e := newTestEngine(t, src, snk)

	id := int64(7)
	pull := domain.PullEntry{
		Result: domain.ParsedSearchResult{
			Parsed:  domain.StandardEpisode{Title: "Foo", Season: 1, Episode: domain.EpisodeStandard(3)},
			Profile: "sp",
		},
		TorrentID:   &id,
		TorrentHash: "H1",
		State:       domain.PullStateDownloading,
	}
	require.NoError(t, models.SavePull(e.store, pull))
	snk.CheckOverride[7] = &sink.TorrentInfo{ID: 7, Hash: "H2", Status: sink.TorrentStatusInProgress}

	require.NoError(t, e.Clean(context.Background()))

	ok, err := models.PullExists(e.store, pull.Key())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCleanIdempotentOnMatchingHash(t *testing.T) {
	t.Parallel()

	src := &enginetest.FakeSource{}
	snk := enginetest.NewFakeSink()
	e := newTestEngine(t, src, snk)

	id := int64(7)
	pull := domain.PullEntry{
		Result: domain.ParsedSearchResult{
			Parsed:  domain.StandardEpisode{Title: "Foo", Season: 1, Episode: domain.EpisodeStandard(3)},
			Profile: "sp",
		},
		TorrentID:   &id,
		TorrentHash: "H1",
		State:       domain.PullStateDownloading,
	}
	require.NoError(t, models.SavePull(e.store, pull))
	snk.CheckOverride[7] = &sink.TorrentInfo{ID: 7, Hash: "H1", Status: sink.TorrentStatusInProgress}

	require.NoError(t, e.Clean(context.Background()))
	require.NoError(t, e.Clean(context.Background()))

	ok, err := models.PullExists(e.store, pull.Key())
	require.NoError(t, err)
	assert.True(t, ok)
}

// S7: wipe_nonexistant.
func TestWipeNonexistantDeletesWhenFilesGone(t *testing.T) {
	t.Parallel()

	mediaDir := t.TempDir()
	relocate := filepath.Join(mediaDir, "Season 1")
	require.NoError(t, os.MkdirAll(relocate, 0o755))

	src := &enginetest.FakeSource{}
	snk := enginetest.NewFakeSink()
	e := newTestEngine(t, src, snk)
	require.NoError(t, models.SaveSeries(e.store, domain.Series{Name: "Foo", Profile: "sp"}))

	base := mediaDir
	pull := domain.PullEntry{
		Result: domain.ParsedSearchResult{
			Parsed:         domain.StandardEpisode{Title: "Foo", Season: 1, Episode: domain.EpisodeStandard(3)},
			Profile:        "sp",
			Relocate:       &base,
			RelocateSeason: true,
		},
		State: domain.PullStateFinished,
		Files: []string{"a.mkv", "b.mkv"},
	}
	require.NoError(t, models.SavePull(e.store, pull))

	wiped, err := e.WipeNonexistant()
	require.NoError(t, err)
	assert.Equal(t, 1, wiped)

	ok, err := models.PullExists(e.store, pull.Key())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWipeNonexistantKeepsPullWhenFileExists(t *testing.T) {
	t.Parallel()

	mediaDir := t.TempDir()
	relocate := filepath.Join(mediaDir, "Season 1")
	require.NoError(t, os.MkdirAll(relocate, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(relocate, "a.mkv"), []byte("x"), 0o644))

	src := &enginetest.FakeSource{}
	snk := enginetest.NewFakeSink()
	e := newTestEngine(t, src, snk)
	require.NoError(t, models.SaveSeries(e.store, domain.Series{Name: "Foo", Profile: "sp"}))

	base := mediaDir
	pull := domain.PullEntry{
		Result: domain.ParsedSearchResult{
			Parsed:         domain.StandardEpisode{Title: "Foo", Season: 1, Episode: domain.EpisodeStandard(3)},
			Profile:        "sp",
			Relocate:       &base,
			RelocateSeason: true,
		},
		State: domain.PullStateFinished,
		Files: []string{"a.mkv", "b.mkv"},
	}
	require.NoError(t, models.SavePull(e.store, pull))

	wiped, err := e.WipeNonexistant()
	require.NoError(t, err)
	assert.Equal(t, 0, wiped)

	ok, err := models.PullExists(e.store, pull.Key())
	require.NoError(t, err)
	assert.True(t, ok)
}

// S7b: wipe_nonexistant must reach a Finished pull even after its Series
// has been deleted -- it scans every pull in the store, not just pulls
// reachable from a live Series record.
func TestWipeNonexistantDeletesPullWithNoSeries(t *testing.T) {
	t.Parallel()

	mediaDir := t.TempDir()
	relocate := filepath.Join(mediaDir, "Season 1")
	require.NoError(t, os.MkdirAll(relocate, 0o755))

	src := &enginetest.FakeSource{}
	snk := enginetest.NewFakeSink()
	e := newTestEngine(t, src, snk)

	base := mediaDir
	pull := domain.PullEntry{
		Result: domain.ParsedSearchResult{
			Parsed:         domain.StandardEpisode{Title: "Foo", Season: 1, Episode: domain.EpisodeStandard(3)},
			Profile:        "sp",
			Relocate:       &base,
			RelocateSeason: true,
		},
		State: domain.PullStateFinished,
		Files: []string{"a.mkv", "b.mkv"},
	}
	require.NoError(t, models.SavePull(e.store, pull))

	_, ok, err := models.GetSeries(e.store, "Foo")
	require.NoError(t, err)
	require.False(t, ok)

	wiped, err := e.WipeNonexistant()
	require.NoError(t, err)
	assert.Equal(t, 1, wiped)

	ok, err = models.PullExists(e.store, pull.Key())
	require.NoError(t, err)
	assert.False(t, ok)
}
