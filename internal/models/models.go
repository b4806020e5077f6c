// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package models owns every invariant over the store's flat key
// namespace: the torrent-<pullkey>/downloading-<id> dual index, and
// plain CRUD for profiles and series. Callers outside this package must
// never write those prefixes directly -- SavePull, DeletePull and
// ClearTorrentID are the only sanctioned chokepoints (see DESIGN.md).
package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nyauser/nyauser/internal/domain"
	"github.com/nyauser/nyauser/internal/store"
)

const (
	profilePrefix     = "profile"
	seriesPrefix      = "series"
	torrentPrefix     = "torrent"
	downloadingPrefix = "downloading"
)

// DanglingKeyError reports a downloading-<id> index entry whose target
// torrent-<pullkey> record is missing. It is fatal to the clean pass that
// discovers it: the round aborts rather than silently repairing state it
// cannot account for.
type DanglingKeyError struct {
	TorrentID int64
	PullKey   string
}

func (e *DanglingKeyError) Error() string {
	return fmt.Sprintf("dangling key: downloading-%d points at missing torrent-%s", e.TorrentID, e.PullKey)
}

// SavePull writes torrent-<key>, and, when pull.TorrentID is set, the
// secondary downloading-<id> index entry. The two writes are sequential
// and best-effort; a partial failure is repaired by a later clean pass.
func SavePull(s *store.Store, pull domain.PullEntry) error {
	key := pull.Key()

	if err := store.PutSerde(s, torrentPrefix, key, pull); err != nil {
		return fmt.Errorf("save pull %q: %w", key, err)
	}

	if pull.TorrentID != nil {
		idKey := downloadingKey(*pull.TorrentID)
		if err := s.Put(idKey, []byte(key)); err != nil {
			return fmt.Errorf("save pull %q: index %s: %w", key, idKey, err)
		}
	}

	return nil
}

// DeletePull removes pull's secondary index entry (if any) before its
// primary record, so a crash between the two writes never leaves a
// downloading-<id> entry pointing at a gone torrent-<key>.
func DeletePull(s *store.Store, pull domain.PullEntry) error {
	key := pull.Key()

	if pull.TorrentID != nil {
		if err := s.Delete(downloadingKey(*pull.TorrentID)); err != nil {
			return fmt.Errorf("delete pull %q: index: %w", key, err)
		}
	}

	if err := s.Delete(torrentPrefix + "-" + key); err != nil {
		return fmt.Errorf("delete pull %q: %w", key, err)
	}

	return nil
}

// ClearTorrentID is the only sanctioned Downloading -> Finished
// transition primitive: it drops pull's torrent id, deletes the
// corresponding secondary-index entry, and persists the result.
func ClearTorrentID(s *store.Store, pull *domain.PullEntry) error {
	if pull.TorrentID == nil {
		return SavePull(s, *pull)
	}

	id := *pull.TorrentID
	pull.TorrentID = nil

	if err := s.Delete(downloadingKey(id)); err != nil {
		return fmt.Errorf("clear torrent id for %q: %w", pull.Key(), err)
	}

	return SavePull(s, *pull)
}

// ListPullEntryDownloading scans every downloading-<id> index entry and
// resolves it to its torrent-<pullkey> record. A missing target is a
// DanglingKeyError, fatal to the caller.
func ListPullEntryDownloading(s *store.Store) ([]domain.PullEntry, error) {
	entries, err := s.ScanPrefix(downloadingPrefix + "-")
	if err != nil {
		return nil, fmt.Errorf("list downloading pulls: %w", err)
	}

	out := make([]domain.PullEntry, 0, len(entries))
	for _, e := range entries {
		pullKey := string(e.Value)
		torrentID, err := parseDownloadingID(e.Key)
		if err != nil {
			return nil, fmt.Errorf("list downloading pulls: %w", err)
		}

		pull, ok, err := store.GetSerde[domain.PullEntry](s, torrentPrefix, pullKey)
		if err != nil {
			return nil, fmt.Errorf("list downloading pulls: %w", err)
		}
		if !ok {
			return nil, &DanglingKeyError{TorrentID: torrentID, PullKey: pullKey}
		}

		out = append(out, pull)
	}

	return out, nil
}

// PullExists reports whether a torrent-<key> record is already present,
// the dedup check run_iter uses before pushing a new candidate.
func PullExists(s *store.Store, key string) (bool, error) {
	return s.Has(torrentPrefix + "-" + key)
}

// GetPullByTorrentID resolves a pull via the downloading-<id> secondary
// index, returning ok=false if the index entry or its target is absent --
// the scan_completed lookup contract, which treats a miss as "already
// handled" rather than an error.
func GetPullByTorrentID(s *store.Store, torrentID int64) (domain.PullEntry, bool, error) {
	raw, ok, err := s.Get(downloadingKey(torrentID))
	if err != nil {
		return domain.PullEntry{}, false, fmt.Errorf("get pull by torrent id %d: %w", torrentID, err)
	}
	if !ok {
		return domain.PullEntry{}, false, nil
	}

	pull, ok, err := store.GetSerde[domain.PullEntry](s, torrentPrefix, string(raw))
	if err != nil {
		return domain.PullEntry{}, false, fmt.Errorf("get pull by torrent id %d: %w", torrentID, err)
	}
	return pull, ok, nil
}

// ListPullEntrySeries returns every pull belonging to series name, via the
// torrent-<name>_S prefix scan.
func ListPullEntrySeries(s *store.Store, name string) ([]domain.PullEntry, error) {
	pulls, err := store.ListSerde[domain.PullEntry](s, torrentPrefix+"-"+name+"_S")
	if err != nil {
		return nil, fmt.Errorf("list pulls for series %q: %w", name, err)
	}
	return pulls, nil
}

// ListAllPulls returns every pull record in the store, in key order. Used
// by read-only tooling (the CLI's "pull list") that needs to filter across
// every series rather than one at a time.
func ListAllPulls(s *store.Store) ([]domain.PullEntry, error) {
	pulls, err := store.ListSerde[domain.PullEntry](s, torrentPrefix+"-")
	if err != nil {
		return nil, fmt.Errorf("list all pulls: %w", err)
	}
	return pulls, nil
}

// SeriesStatus buckets series' pulls into seasons, then episodes.
func SeriesStatus(s *store.Store, series domain.Series) (domain.SeriesStatus, error) {
	pulls, err := ListPullEntrySeries(s, series.Name)
	if err != nil {
		return domain.SeriesStatus{}, err
	}

	status := domain.SeriesStatus{
		Series:  series,
		Seasons: map[uint32]domain.SeasonStatus{},
	}

	for _, pull := range pulls {
		season := pull.Result.Parsed.Season
		bucket, ok := status.Seasons[season]
		if !ok {
			bucket = domain.SeasonStatus{Episodes: map[domain.Episode]domain.EpisodeStatus{}}
		}
		bucket.Episodes[pull.Result.Parsed.Episode] = domain.EpisodeStatus{
			State:  pull.State,
			Source: pull.Result,
		}
		status.Seasons[season] = bucket
	}

	return status, nil
}

// SaveProfile writes a Profile record.
func SaveProfile(s *store.Store, profile domain.Profile) error {
	return store.PutSerde(s, profilePrefix, profile.Name, profile)
}

// GetProfile reads a Profile record, returning ok=false if absent.
func GetProfile(s *store.Store, name string) (domain.Profile, bool, error) {
	return store.GetSerde[domain.Profile](s, profilePrefix, name)
}

// DeleteProfile removes a Profile record.
func DeleteProfile(s *store.Store, name string) error {
	return s.Delete(profilePrefix + "-" + name)
}

// ListProfiles returns every Profile record.
func ListProfiles(s *store.Store) ([]domain.Profile, error) {
	return store.ListSerde[domain.Profile](s, profilePrefix+"-")
}

// SaveSeries writes a Series record.
func SaveSeries(s *store.Store, series domain.Series) error {
	return store.PutSerde(s, seriesPrefix, series.Name, series)
}

// GetSeries reads a Series record, returning ok=false if absent.
func GetSeries(s *store.Store, name string) (domain.Series, bool, error) {
	return store.GetSerde[domain.Series](s, seriesPrefix, name)
}

// DeleteSeries removes a Series record.
func DeleteSeries(s *store.Store, name string) error {
	return s.Delete(seriesPrefix + "-" + name)
}

// ListSeries returns every Series record, in Store key order.
func ListSeries(s *store.Store) ([]domain.Series, error) {
	return store.ListSerde[domain.Series](s, seriesPrefix+"-")
}

func downloadingKey(id int64) string {
	return downloadingPrefix + "-" + strconv.FormatInt(id, 10)
}

func parseDownloadingID(key string) (int64, error) {
	raw := strings.TrimPrefix(key, downloadingPrefix+"-")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed downloading key %q: %w", key, err)
	}
	return id, nil
}
