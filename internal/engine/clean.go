// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/nyauser/nyauser/internal/models"
)

// Clean reconciles the local durable log against the sink's live view,
// recovering from sink-side deletions, id reuse, and hash mismatches. It
// never transitions a pull to Finished; only ScanCompleted does that.
//
// A dangling downloading-<id> key (pointing at a missing torrent-<key>
// record) is an invariant violation: it aborts the round rather than
// silently repairing state Clean cannot account for.
func (e *Engine) Clean(ctx context.Context) error {
	pulls, err := models.ListPullEntryDownloading(e.store)
	if err != nil {
		var dangling *models.DanglingKeyError
		if errors.As(err, &dangling) {
			return fmt.Errorf("clean: %w", err)
		}
		return fmt.Errorf("clean: list downloading pulls: %w", err)
	}

	for _, pull := range pulls {
		if pull.TorrentID == nil {
			e.logger.Warn().Str("pull", pull.Key()).Msg("clean: downloading pull has no torrent id")
			continue
		}

		info, err := e.sink.Check(ctx, *pull.TorrentID)
		if err != nil {
			e.logger.Warn().Err(err).Str("pull", pull.Key()).Msg("clean: sink check failed")
			continue
		}

		switch {
		case info == nil:
			e.logger.Info().Str("pull", pull.Key()).Msg("clean: sink no longer knows torrent, dropping pull")
			if err := models.DeletePull(e.store, pull); err != nil {
				return fmt.Errorf("clean: delete pull %q: %w", pull.Key(), err)
			}
		case info.Hash != pull.TorrentHash:
			e.logger.Info().Str("pull", pull.Key()).Msg("clean: sink id reused for a different torrent, dropping pull")
			if err := models.DeletePull(e.store, pull); err != nil {
				return fmt.Errorf("clean: delete pull %q: %w", pull.Key(), err)
			}
		default:
			// matching hash: in progress or finished at the sink, not clean's concern.
		}
	}

	return nil
}
