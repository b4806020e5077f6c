// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package config loads nyauser's TOML configuration file with viper and
// watches it for changes with fsnotify, the way the teacher's own
// bootstrap layer does for its application config.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/nyauser/nyauser/internal/domain"
)

// Config is nyauser's process-wide configuration: ambient concerns
// (storage path, logging) plus the engine's SearchConfig and the
// provider-specific blobs passed to source.Build / sink.Build.
type Config struct {
	DatabasePath  string `mapstructure:"databasePath"`
	LogLevel      string `mapstructure:"logLevel"`
	LogPath       string `mapstructure:"logPath"`
	LogMaxSize    int    `mapstructure:"logMaxSize"`
	LogMaxBackups int    `mapstructure:"logMaxBackups"`

	Search domain.SearchConfig `mapstructure:"search"`

	SourceConfig map[string]any `mapstructure:"sourceConfig"`
	SinkConfig   map[string]any `mapstructure:"sinkConfig"`
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("databasePath", filepath.Join(configDir, "nyauser.db"))
	v.SetDefault("logLevel", "INFO")
	v.SetDefault("logMaxSize", 50)
	v.SetDefault("logMaxBackups", 3)
	v.SetDefault("search.maxDaysOld", 14)
	v.SetDefault("search.minSeeders", 1)
	v.SetDefault("search.searchInterval", 15*time.Minute)
	v.SetDefault("search.completionCheckInterval", 5*time.Minute)
}

// Load reads and unmarshals the TOML file at path, applying nyauser's
// defaults for anything the file omits.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix("NYAUSER")
	v.AutomaticEnv()

	setDefaults(v, filepath.Dir(path))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config %q: %w", path, err)
	}

	return &cfg, nil
}

// Watch reloads the config file on change and invokes onChange with the
// freshly decoded Config. Decode errors are logged, not propagated: a
// malformed edit should not crash a running daemon, it should just be
// ignored until corrected.
func Watch(path string, onChange func(*Config)) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix("NYAUSER")
	v.AutomaticEnv()
	setDefaults(v, filepath.Dir(path))

	if err := v.ReadInConfig(); err != nil {
		log.Error().Err(err).Str("path", path).Msg("config: initial read failed, watch not started")
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			log.Error().Err(err).Str("path", e.Name).Msg("config: reload failed, keeping previous config")
			return
		}
		log.Info().Str("path", e.Name).Msg("config: reloaded")
		onChange(&cfg)
	})
	v.WatchConfig()
}
