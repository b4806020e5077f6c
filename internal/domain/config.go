// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

import "time"

// SearchConfig is the engine's explicit, caller-constructed configuration.
// There is no global config singleton in the core: callers (bootstrap code
// in cmd/nyauserd) build one of these from whatever config source they like
// and pass it into engine.New.
type SearchConfig struct {
	// MaxDaysOld is the default freshness cutoff; a Series may override it
	// with its own MaxDaysOld, and the effective cutoff is the max of the two.
	MaxDaysOld uint64 `mapstructure:"maxDaysOld"`
	// MinSeeders is the minimum seeder count a candidate must have.
	MinSeeders uint64 `mapstructure:"minSeeders"`
	// SearchInterval is how often a search round runs absent a notification.
	SearchInterval time.Duration `mapstructure:"searchInterval"`
	// CompletionCheckInterval is how often a completion round runs absent a notification.
	CompletionCheckInterval time.Duration `mapstructure:"completionCheckInterval"`
	// Source names the registered Source implementation to use.
	Source string `mapstructure:"source"`
	// Sink names the registered Sink implementation to use.
	Sink string `mapstructure:"sink"`
	// PathPatch rewrites a sink-reported download_dir prefix before relocating
	// files; order matters, first matching prefix wins.
	PathPatch []PathPatch `mapstructure:"pathPatch"`
	// Relocate is the global default relocate base, used when neither the
	// series nor its profile set one.
	Relocate *string `mapstructure:"relocate"`
}

// PathPatch is one (from, to) prefix rewrite rule.
type PathPatch struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}
