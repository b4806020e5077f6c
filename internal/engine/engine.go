// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package engine is the search engine: a single cooperative loop that
// periodically searches configured series for new releases, pushes them
// to a Sink, reconciles local state against the Sink's live view, and
// relocates finished downloads. At most one round runs at a time.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nyauser/nyauser/internal/domain"
	"github.com/nyauser/nyauser/internal/sink"
	"github.com/nyauser/nyauser/internal/source"
	"github.com/nyauser/nyauser/internal/store"
)

// Engine holds everything a round needs: the durable store, the
// collaborators it drives, and the config governing cadence and routing.
// It carries no hidden globals -- every dependency is constructed and
// injected by the caller (cmd/nyauserd).
type Engine struct {
	store  *store.Store
	source source.Source
	sink   sink.Sink
	config domain.SearchConfig
	logger zerolog.Logger

	searchNotify chan struct{}
	scanNotify   chan struct{}

	mu sync.Mutex // serializes rounds; see Start
}

// New builds an Engine. None of the arguments may be nil.
func New(st *store.Store, src source.Source, snk sink.Sink, config domain.SearchConfig) *Engine {
	return &Engine{
		store:        st,
		source:       src,
		sink:         snk,
		config:       config,
		logger:       log.With().Str("component", "engine").Logger(),
		searchNotify: make(chan struct{}, 1),
		scanNotify:   make(chan struct{}, 1),
	}
}

// NotifySearch requests a search round as soon as possible. It is a
// single-shot, non-blocking wakeup: if one is already pending it coalesces.
func (e *Engine) NotifySearch() {
	select {
	case e.searchNotify <- struct{}{}:
	default:
	}
}

// NotifyScan requests a completion-scan round as soon as possible, with
// the same single-shot, coalescing semantics as NotifySearch.
func (e *Engine) NotifyScan() {
	select {
	case e.scanNotify <- struct{}{}:
	default:
	}
}

// Start runs the scheduler loop until ctx is done. It multiplexes two
// interval timers and the two notification channels; at most one round
// (RunIter or ScanCompleted) executes at a time, since the loop only
// begins waiting on the next event once the current round returns.
func (e *Engine) Start(ctx context.Context) {
	searchInterval := e.config.SearchInterval
	if searchInterval <= 0 {
		searchInterval = time.Hour
	}
	scanInterval := e.config.CompletionCheckInterval
	if scanInterval <= 0 {
		scanInterval = time.Hour
	}

	searchTicker := time.NewTicker(searchInterval)
	defer searchTicker.Stop()
	scanTicker := time.NewTicker(scanInterval)
	defer scanTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-searchTicker.C:
			e.runRound(ctx, "interval", e.RunIter)
		case <-scanTicker.C:
			e.runRound(ctx, "interval", e.ScanCompleted)
		case <-e.searchNotify:
			e.runRound(ctx, "notify", e.RunIter)
		case <-e.scanNotify:
			e.runRound(ctx, "notify", e.ScanCompleted)
		}
	}
}

func (e *Engine) runRound(ctx context.Context, trigger string, round func(context.Context) error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	roundID := uuid.New().String()
	logger := e.logger.With().Str("round_id", roundID).Str("trigger", trigger).Logger()
	ctx = logger.WithContext(ctx)

	logger.Debug().Msg("round starting")
	if err := round(ctx); err != nil {
		logger.Error().Err(err).Msg("round aborted")
	}
}
