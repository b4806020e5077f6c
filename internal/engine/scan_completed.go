// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nyauser/nyauser/internal/domain"
	"github.com/nyauser/nyauser/internal/models"
	"github.com/nyauser/nyauser/internal/sink"
)

// ScanCompleted is the completion round: it reconciles via Clean, lists
// the sink's finished torrents, relocates their files (applying any
// configured path patch), transitions each matching pull to Finished, and
// asks the sink to forget the torrent.
func (e *Engine) ScanCompleted(ctx context.Context) error {
	if err := e.Clean(ctx); err != nil {
		return fmt.Errorf("scan_completed: %w", err)
	}

	finished, err := e.sink.Finished(ctx)
	if err != nil {
		return fmt.Errorf("scan_completed: list finished torrents: %w", err)
	}

	for _, torrent := range finished {
		e.completeTorrent(ctx, torrent)
	}

	return nil
}

func (e *Engine) completeTorrent(ctx context.Context, torrent sink.FinishedTorrent) {
	logger := e.logger.With().Int64("torrent_id", torrent.ID).Logger()

	pull, ok, err := models.GetPullByTorrentID(e.store, torrent.ID)
	if err != nil {
		logger.Error().Err(err).Msg("scan_completed: pull lookup failed")
		return
	}
	if !ok {
		// Already handled: a prior round (or Clean) removed this pull. The
		// API's delete-only contract means the engine must tolerate a pull
		// vanishing under it.
		return
	}

	if relocateDir := pull.Result.RelocateDir(); relocateDir != nil {
		sourceDir := applyPathPatch(torrent.DownloadDir, e.config.PathPatch)
		for _, file := range torrent.Files {
			if err := relocateFile(sourceDir, *relocateDir, file); err != nil {
				logger.Warn().Err(err).Str("file", file).Msg("scan_completed: relocate failed")
			}
			pull.Files = append(pull.Files, file)
		}
	} else {
		pull.Files = append(pull.Files, torrent.Files...)
	}

	pull.State = domain.PullStateFinished

	if err := models.ClearTorrentID(e.store, &pull); err != nil {
		logger.Error().Err(err).Msg("scan_completed: clear torrent id failed")
		return
	}

	if err := e.sink.Delete(ctx, torrent.ID); err != nil {
		logger.Warn().Err(err).Msg("scan_completed: sink delete failed")
	}
}

// applyPathPatch rewrites downloadDir's prefix using the first matching
// rule in patches, in order; if none matches, downloadDir is returned
// unchanged.
func applyPathPatch(downloadDir string, patches []domain.PathPatch) string {
	for _, p := range patches {
		if strings.HasPrefix(downloadDir, p.From) {
			return p.To + strings.TrimPrefix(downloadDir, p.From)
		}
	}
	return downloadDir
}

// relocateFile moves <sourceDir>/<file> to <relocateDir>/<file>, creating
// parent directories as needed. A missing source file is not an error:
// the sink may have already reported it, or the file may have been moved
// by a prior, interrupted round.
func relocateFile(sourceDir, relocateDir, file string) error {
	src := filepath.Join(sourceDir, file)
	dst := filepath.Join(relocateDir, file)

	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create relocate dir: %w", err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("rename %q to %q: %w", src, dst, err)
	}
	return nil
}
