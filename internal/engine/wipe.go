// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nyauser/nyauser/internal/domain"
	"github.com/nyauser/nyauser/internal/models"
	"github.com/nyauser/nyauser/internal/store"
)

// WipeNonexistant is a one-shot, manually-invoked GC sweep: it deletes
// every Finished pull whose relocated files are entirely gone from disk,
// so content the user deleted can be cleanly re-acquired. Pulls with no
// relocate_dir are never touched by this sweep. It only touches the
// store, so callers that have no Source/Sink wired (the CLI's data-only
// commands) can run it via WipeNonexistantStore directly.
func (e *Engine) WipeNonexistant() (int, error) {
	return WipeNonexistantStore(e.store)
}

// WipeNonexistantStore is the free-function form of WipeNonexistant, for
// callers that only have a *store.Store and no full Engine (no
// Source/Sink need be wired to run this sweep).
func WipeNonexistantStore(s *store.Store) (int, error) {
	pulls, err := models.ListAllPulls(s)
	if err != nil {
		return 0, fmt.Errorf("wipe_nonexistant: list pulls: %w", err)
	}

	wiped := 0
	for _, pull := range pulls {
		if pull.State != domain.PullStateFinished {
			continue
		}

		relocateDir := pull.Result.RelocateDir()
		if relocateDir == nil {
			continue
		}

		if !gone(*relocateDir, pull.Files) {
			continue
		}

		if err := models.DeletePull(s, pull); err != nil {
			return wiped, fmt.Errorf("wipe_nonexistant: delete pull %q: %w", pull.Key(), err)
		}
		wiped++
	}

	return wiped, nil
}

// gone reports whether relocateDir (and every file PullEntry recorded
// under it) is absent from disk.
func gone(relocateDir string, files []string) bool {
	if len(files) == 0 {
		_, err := os.Stat(relocateDir)
		return os.IsNotExist(err)
	}

	for _, file := range files {
		if _, err := os.Stat(filepath.Join(relocateDir, file)); err == nil {
			return false
		}
	}
	return true
}
