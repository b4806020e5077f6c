// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/nyauser/nyauser/internal/config"
	"github.com/nyauser/nyauser/internal/engine"
	"github.com/nyauser/nyauser/internal/sink"
	"github.com/nyauser/nyauser/internal/source"
	"github.com/nyauser/nyauser/internal/store"
)

// Concrete Source/Sink implementations (RSS/Torznab indexers, BitTorrent
// clients, ...) are deployment-supplied: they register themselves with
// source.Register/sink.Register from their own package's init(), imported
// for side effect by whatever main package wires them in. This daemon
// ships no built-in provider, so source.Build/sink.Build fail fast with
// "no provider registered under name ..." until an operator's build links
// one in.

// storeApp bundles everything a data-only subcommand needs (profile/series/
// pull CRUD, wipe-nonexistant): the decoded config, a leveled logger and
// the open store. It never touches the Source/Sink registries, so these
// commands work in a build that links no concrete provider at all.
type storeApp struct {
	cfg    *config.Config
	logger zerolog.Logger
	store  *store.Store
}

// app additionally wires the engine against the configured Source/Sink
// pair, for the subcommands that actually run a round: run/search/scan.
type app struct {
	storeApp
	engine *engine.Engine
}

func configPath(configDir string) string {
	return filepath.Join(configDir, "nyauser.toml")
}

// openStoreApp loads nyauser.toml from configDir (writing a default one
// on first run) and opens the bbolt store at its configured path.
func openStoreApp(configDir string) (*storeApp, error) {
	path := configPath(configDir)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeDefaultConfig(configDir, path); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := config.NewLogger(cfg)

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open store %q: %w", cfg.DatabasePath, err)
	}

	return &storeApp{cfg: cfg, logger: logger, store: st}, nil
}

func (a *storeApp) Close() error {
	return a.store.Close()
}

// openApp is openStoreApp plus the engine, built against whatever
// Source/Sink the config names. Only run/search/scan need this: a
// process that never registered a concrete provider fails here, not on
// the data-only commands.
func openApp(configDir string) (*app, error) {
	sa, err := openStoreApp(configDir)
	if err != nil {
		return nil, err
	}

	src, err := source.Build(sa.cfg.Search.Source, sa.cfg.SourceConfig)
	if err != nil {
		_ = sa.Close()
		return nil, fmt.Errorf("build source %q: %w", sa.cfg.Search.Source, err)
	}

	snk, err := sink.Build(sa.cfg.Search.Sink, sa.cfg.SinkConfig)
	if err != nil {
		_ = sa.Close()
		return nil, fmt.Errorf("build sink %q: %w", sa.cfg.Search.Sink, err)
	}

	eng := engine.New(sa.store, src, snk, sa.cfg.Search)

	return &app{storeApp: *sa, engine: eng}, nil
}

func writeDefaultConfig(configDir, path string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigTOML), 0o644)
}

const defaultConfigTOML = `# nyauser.toml - Auto-generated on first run

# Log level
# Default: "INFO"
# Options: "ERROR", "WARN", "INFO", "DEBUG", "TRACE"
logLevel = "INFO"

# Log file path
# If not defined, logs to stderr
#logPath = "log/nyauser.log"

# Log rotation
#logMaxSize = 50
#logMaxBackups = 3

# Path to the bbolt database file
# Default: <config-dir>/nyauser.db
#databasePath = "nyauser.db"

[search]
# How often an unnotified search round runs.
searchInterval = "15m"
# How often an unnotified completion-check round runs.
completionCheckInterval = "5m"
# Default freshness cutoff applied to search results, in days.
maxDaysOld = 14
# Minimum seeder count a candidate must have.
minSeeders = 1
# Registered Source implementation to search with.
source = ""
# Registered Sink implementation to push torrents to.
sink = ""
# Global fallback relocate base, used when neither a series nor its
# profile sets one.
#relocate = "/media"

[sourceConfig]

[sinkConfig]
`
