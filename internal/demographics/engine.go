// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package demographics

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/venuescope/internal/geo"
)

// Engine wires the full pipeline behind one object constructed once
// per process. Construction validates everything; after NewEngine
// succeeds, ranking cannot fail except on an invalid profile.
type Engine struct {
	cfg    Config
	index  *geo.Index
	cache  *Cache
	scorer *Scorer
	ranker *Ranker
	logger zerolog.Logger
}

// NewEngine validates cfg and tables and assembles the pipeline over the
// given zone index and source client.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(cfg Config, tables PreferenceTables, index *geo.Index, client SourceClient, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("demographics: invalid config: %w", err)
	}
	if index == nil {
		return nil, fmt.Errorf("demographics: engine requires a geo index")
	}

	fuser, err := NewFuser(cfg.EnabledSources(), logger)
	if err != nil {
		return nil, err
	}
	fetcher, err := NewFetcher(client, cfg, logger)
	if err != nil {
		return nil, err
	}
	scorer, err := NewScorer(cfg, tables)
	if err != nil {
		return nil, err
	}
	cache, err := NewCache(fetcher, fuser, NewAdjuster(cfg), index, cfg, logger)
	if err != nil {
		return nil, err
	}
	ranker, err := NewRanker(index, cache, scorer, cfg, logger)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("sources", len(cfg.EnabledSources())).
		Dur("cache_ttl", cfg.CacheTTL).
		Dur("update_interval", cfg.UpdateInterval).
		Int("max_concurrent", cfg.MaxConcurrent).
		Msg("demographics engine initialized")

	return &Engine{
		cfg:    cfg.Clone(),
		index:  index,
		cache:  cache,
		scorer: scorer,
		ranker: ranker,
		logger: logger,
	}, nil
}

// Rank delegates to the ranker.
func (e *Engine) Rank(ctx context.Context, venues []Venue, profile Profile, rctx RankContext) ([]ScoredVenue, error) {
	return e.ranker.Rank(ctx, venues, profile, rctx)
}

// Cache exposes the demographics cache for maintenance services.
func (e *Engine) Cache() *Cache {
	return e.cache
}

// Index exposes the coverage index.
func (e *Engine) Index() *geo.Index {
	return e.index
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg.Clone()
}
