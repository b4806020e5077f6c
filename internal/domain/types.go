// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package domain holds the wire-stable entities shared by the store,
// parser, models and engine packages: profiles, series, parsed releases,
// pull entries and their state machine.
package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Profile describes how one provider's filenames are parsed and where its
// series are filed by default.
type Profile struct {
	Name string `json:"name"`
	// SearchPrefix is prepended to every query for series using this profile.
	SearchPrefix *string `json:"search_prefix,omitempty"`
	// ParseRegex has named captures {title, season, episode, checksum, ...extras}.
	ParseRegex string `json:"parse_regex"`
	// Relocate is the default base path series on this profile are filed under.
	Relocate *string `json:"relocate,omitempty"`
}

// Series is one show being tracked.
type Series struct {
	Name    string `json:"name"`
	Profile string `json:"profile"`
	// MaxDaysOld overrides SearchConfig.MaxDaysOld for this series.
	MaxDaysOld *uint64 `json:"max_days_old,omitempty"`
	// Relocate overrides Profile.Relocate/<series-name> when set.
	Relocate *string `json:"relocate,omitempty"`
	// RelocateSeason appends "Season N" to the relocate path when true.
	RelocateSeason bool `json:"relocate_season"`
}

// StandardEpisode is the parsed identification of one release.
type StandardEpisode struct {
	Title    string            `json:"title"`
	Season   uint32            `json:"season"`
	Episode  Episode           `json:"episode"`
	Checksum uint32            `json:"checksum"`
	Ext      map[string]string `json:"ext"`
}

// SearchResult is one raw hit from a Source.
type SearchResult struct {
	Title       string    `json:"title"`
	TorrentLink string    `json:"torrent_link"`
	ViewLink    string    `json:"view_link"`
	Date        time.Time `json:"date"`
	Seeders     uint64    `json:"seeders"`
	Leechers    uint64    `json:"leechers"`
	Downloads   uint64    `json:"downloads"`
	Size        uint64    `json:"size"`
}

// ParsedSearchResult is a SearchResult plus its StandardEpisode and resolved
// routing (profile name, relocate base, relocate-season flag).
type ParsedSearchResult struct {
	Result         SearchResult    `json:"result"`
	Parsed         StandardEpisode `json:"parsed"`
	Profile        string          `json:"profile"`
	Relocate       *string         `json:"relocate,omitempty"`
	RelocateSeason bool            `json:"relocate_season"`
}

// Key derives the canonical pull key: "<title>_S<season:02>E<episode>".
func (p ParsedSearchResult) Key() string {
	return fmt.Sprintf("%s_S%02dE%s", p.Parsed.Title, p.Parsed.Season, p.Parsed.Episode.String())
}

// RelocateDir resolves the directory a finished download should land in, or
// nil if this candidate has no relocate base at all.
func (p ParsedSearchResult) RelocateDir() *string {
	if p.Relocate == nil {
		return nil
	}
	dir := *p.Relocate
	if p.RelocateSeason {
		dir = filepath.Join(dir, fmt.Sprintf("Season %d", p.Parsed.Season))
	}
	return &dir
}

// PullState is a PullEntry's position in the Downloading -> Finished state
// machine. Serializes as a plain string, wire-stable.
type PullState string

const (
	PullStateDownloading PullState = "Downloading"
	PullStateFinished    PullState = "Finished"
)

// PullEntry is one tracked acquisition. Its identity is Key(), derived
// purely from Result and stable across saves.
type PullEntry struct {
	Result      ParsedSearchResult `json:"result"`
	TorrentID   *int64             `json:"torrent_id,omitempty"`
	TorrentHash string             `json:"torrent_hash"`
	State       PullState          `json:"state"`
	Files       []string           `json:"files"`
}

// Key returns the entry's stable identity, the pull key of its result.
func (p *PullEntry) Key() string {
	return p.Result.Key()
}

// SeasonStatus buckets a series' pulls for one season by episode.
type SeasonStatus struct {
	Episodes map[Episode]EpisodeStatus `json:"episodes"`
}

// EpisodeStatus is the state and originating candidate for one episode slot.
type EpisodeStatus struct {
	State  PullState          `json:"state"`
	Source ParsedSearchResult `json:"source"`
}

// SeriesStatus is a Series plus its pulls bucketed by season then episode.
type SeriesStatus struct {
	Series  Series                  `json:"-"`
	Seasons map[uint32]SeasonStatus `json:"seasons"`
}

// PullEntryFilter is a pure in-memory predicate over pull entries, used by
// read-only queries (e.g. the out-of-scope API) that need to narrow a list
// without a new store enumeration primitive.
type PullEntryFilter struct {
	Profile       *string
	TitleContains *string
	TitleIs       *string
	SeasonIs      *uint32
	EpisodeIs     *Episode
	State         *PullState
}

// Matches reports whether pull satisfies every set field of the filter.
func (f PullEntryFilter) Matches(pull PullEntry) bool {
	if f.Profile != nil && pull.Result.Profile != *f.Profile {
		return false
	}
	if f.TitleContains != nil && !strings.Contains(pull.Result.Parsed.Title, *f.TitleContains) {
		return false
	}
	if f.TitleIs != nil && pull.Result.Parsed.Title != *f.TitleIs {
		return false
	}
	if f.SeasonIs != nil && pull.Result.Parsed.Season != *f.SeasonIs {
		return false
	}
	if f.EpisodeIs != nil && pull.Result.Parsed.Episode.Compare(*f.EpisodeIs) != 0 {
		return false
	}
	if f.State != nil && pull.State != *f.State {
		return false
	}
	return true
}
