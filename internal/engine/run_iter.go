// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog"

	"github.com/nyauser/nyauser/internal/domain"
	"github.com/nyauser/nyauser/internal/models"
	"github.com/nyauser/nyauser/internal/parser"
)

// searchAttempts bounds the retries a single series' Source.Search call
// gets against transient provider errors (timeouts, rate limits) before
// run_iter gives up on that series for this round.
const searchAttempts = 3

// RunIter is one search round: it reconciles state via Clean, then for
// every tracked Series queries the configured Source, filters and parses
// hits, and pushes undeduplicated candidates to the Sink.
func (e *Engine) RunIter(ctx context.Context) error {
	if err := e.Clean(ctx); err != nil {
		return fmt.Errorf("run_iter: %w", err)
	}

	seriesList, err := models.ListSeries(e.store)
	if err != nil {
		return fmt.Errorf("run_iter: list series: %w", err)
	}

	for _, series := range seriesList {
		e.searchSeries(ctx, series)
	}

	return nil
}

func (e *Engine) searchSeries(ctx context.Context, series domain.Series) {
	logger := e.logger.With().Str("series", series.Name).Logger()

	profile, ok, err := models.GetProfile(e.store, series.Profile)
	if err != nil {
		logger.Error().Err(err).Msg("run_iter: profile lookup failed, skipping series")
		return
	}
	if !ok {
		logger.Error().Str("profile", series.Profile).Msg("run_iter: referenced profile missing, skipping series")
		return
	}

	re, err := parser.CompileRegex(profile.ParseRegex)
	if err != nil {
		logger.Error().Err(err).Msg("run_iter: profile has invalid parse_regex, skipping series")
		return
	}

	maxDaysOld := e.config.MaxDaysOld
	if series.MaxDaysOld != nil && *series.MaxDaysOld > maxDaysOld {
		maxDaysOld = *series.MaxDaysOld
	}

	query := series.Name
	if profile.SearchPrefix != nil && *profile.SearchPrefix != "" {
		query = *profile.SearchPrefix + " " + series.Name
	}

	var results []domain.SearchResult
	err = retry.Do(
		func() error {
			var searchErr error
			results, searchErr = e.source.Search(ctx, query)
			return searchErr
		},
		retry.Attempts(searchAttempts),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		logger.Warn().Err(err).Msg("run_iter: source search failed, skipping series")
		return
	}

	cutoff := time.Duration(maxDaysOld) * 24 * time.Hour
	now := time.Now()

	for _, result := range results {
		if now.Sub(result.Date) > cutoff {
			continue
		}
		if result.Seeders < e.config.MinSeeders {
			continue
		}

		parsed, ok := parser.ParseName(re, result.Title)
		if !ok {
			logger.Warn().Str("title", result.Title).Msg("run_iter: title did not match profile regex, dropping")
			continue
		}

		candidate := domain.ParsedSearchResult{
			Result:         result,
			Parsed:         parsed,
			Profile:        profile.Name,
			Relocate:       resolveRelocate(series, profile, e.config.Relocate),
			RelocateSeason: series.RelocateSeason,
		}

		e.pushCandidate(ctx, logger, candidate)
	}
}

// pushCandidate dedups candidate against the store and, if new, pushes it
// to the Sink and persists the resulting PullEntry.
func (e *Engine) pushCandidate(ctx context.Context, logger zerolog.Logger, candidate domain.ParsedSearchResult) {
	key := candidate.Key()
	log := logger.With().Str("pull", key).Logger()

	exists, err := e.pullExists(key)
	if err != nil {
		log.Error().Err(err).Msg("run_iter: dedup check failed, skipping candidate")
		return
	}
	if exists {
		return
	}

	info, err := e.sink.Push(ctx, candidate.Result.TorrentLink)
	if err != nil {
		log.Warn().Err(err).Msg("run_iter: sink push failed")
		return
	}
	if info == nil {
		log.Warn().Msg("run_iter: sink reports duplicate, skipping")
		return
	}

	pull := domain.PullEntry{
		Result:      candidate,
		TorrentID:   &info.ID,
		TorrentHash: info.Hash,
		State:       domain.PullStateDownloading,
		Files:       []string{},
	}

	if err := models.SavePull(e.store, pull); err != nil {
		log.Error().Err(err).Msg("run_iter: save pull failed")
		return
	}
	if err := e.store.Flush(); err != nil {
		log.Error().Err(err).Msg("run_iter: store flush failed")
	}
}

func (e *Engine) pullExists(key string) (bool, error) {
	return models.PullExists(e.store, key)
}
