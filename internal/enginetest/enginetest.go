// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package enginetest provides in-memory Source and Sink fakes for driving
// internal/engine's tests without a real indexer or torrent client.
package enginetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/nyauser/nyauser/internal/domain"
	"github.com/nyauser/nyauser/internal/sink"
)

// FakeSource returns a fixed, caller-configured result set regardless of
// query, and counts how many times Search was invoked.
type FakeSource struct {
	mu      sync.Mutex
	Results []domain.SearchResult
	Err     error
	Calls   int
	Queries []string
}

func (f *FakeSource) Search(_ context.Context, query string) ([]domain.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls++
	f.Queries = append(f.Queries, query)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Results, nil
}

// FakeSink is an in-memory torrent client: Push assigns sequential ids
// unless PushErr/Duplicate are set to force a specific outcome
// for the next call.
type FakeSink struct {
	mu sync.Mutex

	nextID int64
	byID   map[int64]*sink.TorrentInfo
	hashes map[int64]string

	// PushErr, when set, is returned by the next Push call instead of success.
	PushErr error
	// Duplicate, when true, makes the next Push report a sink-side duplicate.
	Duplicate bool

	// CheckOverride, keyed by id, forces Check's result for that id.
	CheckOverride map[int64]*sink.TorrentInfo
	CheckErr      error

	FinishedTorrents []sink.FinishedTorrent
	FinishedErr      error

	Deleted []int64
	DeleteErr error

	PushCalls int
}

func NewFakeSink() *FakeSink {
	return &FakeSink{
		byID:          map[int64]*sink.TorrentInfo{},
		hashes:        map[int64]string{},
		CheckOverride: map[int64]*sink.TorrentInfo{},
	}
}

func (f *FakeSink) Push(_ context.Context, torrentURL string) (*sink.TorrentInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.PushCalls++

	if f.PushErr != nil {
		err := f.PushErr
		f.PushErr = nil
		return nil, err
	}
	if f.Duplicate {
		f.Duplicate = false
		return nil, nil
	}

	f.nextID++
	id := f.nextID
	hash := fmt.Sprintf("hash-%d-%s", id, torrentURL)
	info := &sink.TorrentInfo{ID: id, Hash: hash, Status: sink.TorrentStatusInProgress}
	f.byID[id] = info
	f.hashes[id] = hash
	return info, nil
}

func (f *FakeSink) Check(_ context.Context, id int64) (*sink.TorrentInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.CheckErr != nil {
		return nil, f.CheckErr
	}
	if override, ok := f.CheckOverride[id]; ok {
		return override, nil
	}
	info, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return info, nil
}

func (f *FakeSink) Finished(_ context.Context) ([]sink.FinishedTorrent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FinishedErr != nil {
		return nil, f.FinishedErr
	}
	return f.FinishedTorrents, nil
}

func (f *FakeSink) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.Deleted = append(f.Deleted, id)
	delete(f.byID, id)
	return nil
}
