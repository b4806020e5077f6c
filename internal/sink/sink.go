// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package sink declares the Sink capability the search engine pushes
// acquisitions to and polls for completion, plus a name-keyed registry
// concrete torrent-client backends register into at startup. No concrete
// BitTorrent or client-RPC wire protocol lives here -- that is left to a
// deployment's own init code, matching the spec's explicit non-goal.
package sink

import (
	"context"
	"fmt"
	"sync"
)

// TorrentStatus is a Sink-reported lifecycle state for one torrent.
type TorrentStatus string

const (
	TorrentStatusInProgress TorrentStatus = "InProgress"
	TorrentStatusFinished   TorrentStatus = "Finished"
)

// TorrentInfo is what a Sink knows about one torrent it manages.
type TorrentInfo struct {
	ID     int64
	Hash   string
	Status TorrentStatus
}

// FinishedTorrent is one completed download as reported by Sink.Finished.
type FinishedTorrent struct {
	ID          int64
	DownloadDir string
	Files       []string
}

// Sink is the capability the engine pushes acquisitions through and polls
// for completion. Push returning (nil, nil) means the sink recognizes
// torrentURL as a duplicate already present on its side.
type Sink interface {
	Push(ctx context.Context, torrentURL string) (*TorrentInfo, error)
	Check(ctx context.Context, id int64) (*TorrentInfo, error)
	Finished(ctx context.Context) ([]FinishedTorrent, error)
	Delete(ctx context.Context, id int64) error
}

// Factory builds a Sink from its provider-specific configuration blob.
type Factory func(config map[string]any) (Sink, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register adds a named Sink factory to the process-wide registry.
// Providers call this from an init function; registering the same name
// twice is a programmer error and panics.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("sink: Register called twice for %q", name))
	}
	factories[name] = factory
}

// Build instantiates the named Sink with config.
func Build(name string, config map[string]any) (Sink, error) {
	mu.RLock()
	factory, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("sink: no provider registered under name %q", name)
	}
	return factory(config)
}

// Registered reports every currently-registered provider name.
func Registered() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}
