// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package source declares the Source capability the search engine queries
// for candidate releases, plus a name-keyed registry concrete providers
// register themselves into at startup. No concrete indexer protocol (RSS,
// Torznab, or otherwise) lives here or anywhere in this module -- wiring a
// real provider is left to a deployment's own init code, matching the
// spec's explicit non-goal.
package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/nyauser/nyauser/internal/domain"
)

// Source is a pure, concurrency-safe query capability: given a query
// string it returns an ordered sequence of hits. Individual call failure
// is non-fatal to the engine.
type Source interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// Factory builds a Source from its provider-specific configuration blob.
// The blob's shape is owned by the concrete provider, not by this package.
type Factory func(config map[string]any) (Source, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register adds a named Source factory to the process-wide registry.
// Providers call this from an init function; registering the same name
// twice is a programmer error and panics, matching the standard library's
// own driver-registration idiom (database/sql, image).
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("source: Register called twice for %q", name))
	}
	factories[name] = factory
}

// Build instantiates the named Source with config. It returns an error
// (not a panic) since the name is operator-supplied configuration, not a
// programming mistake.
func Build(name string, config map[string]any) (Source, error) {
	mu.RLock()
	factory, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("source: no provider registered under name %q", name)
	}
	return factory(config)
}

// Registered reports every currently-registered provider name, for
// diagnostics and config validation.
func Registered() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}
