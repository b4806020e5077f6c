// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package buildinfo holds version metadata stamped in at release build
// time via -ldflags, and the derived user agent string sources use when
// talking to trackers/indexers.
package buildinfo

import (
	"encoding/json"
	"fmt"
	"runtime"
)

// Version, Commit and Date are overwritten at release build time via:
//
//	-ldflags "-X github.com/nyauser/nyauser/internal/buildinfo.Version=... \
//	          -X github.com/nyauser/nyauser/internal/buildinfo.Commit=... \
//	          -X github.com/nyauser/nyauser/internal/buildinfo.Date=..."
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// UserAgent is sent by source/sink providers that make outbound HTTP
// requests. Set once in init() since Version/Commit/Date are fixed for
// the lifetime of the process.
var UserAgent string

func init() {
	UserAgent = fmt.Sprintf("nyauser/%s (%s; %s)", Version, runtime.GOOS, runtime.GOARCH)
}

// String renders build metadata as human-readable lines, used by the
// "version" CLI command.
func String() string {
	return fmt.Sprintf("Version: %s\nCommit: %s\nBuild date: %s", Version, Commit, Date)
}

// JSON renders build metadata for the "version --json" flag.
func JSON() ([]byte, error) {
	return json.Marshal(struct {
		Version string `json:"version"`
		Commit  string `json:"commit"`
		Date    string `json:"date"`
	}{
		Version: Version,
		Commit:  Commit,
		Date:    Date,
	})
}
