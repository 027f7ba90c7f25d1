// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package demographics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/venuescope/internal/geo"
	"github.com/tomtom215/venuescope/internal/metrics"
)

// Ranker orchestrates per-venue scoring across a candidate set and produces
// a deterministically ordered ranked list.
//
// Ranking never fails because one venue's enhancement path failed: such a
// venue is included with the non-enhanced category score. The only error
// Rank returns is an invalid profile.
type Ranker struct {
	index  *geo.Index
	cache  *Cache
	scorer *Scorer

	maxConcurrent       int
	confidenceThreshold float64

	clock  func() time.Time
	logger zerolog.Logger
}

// NewRanker builds a Ranker over its collaborators.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRanker(index *geo.Index, cache *Cache, scorer *Scorer, cfg Config, logger zerolog.Logger) (*Ranker, error) {
	if index == nil || cache == nil || scorer == nil {
		return nil, errors.New("demographics: ranker requires index, cache, and scorer")
	}
	if cfg.MaxConcurrent < 1 {
		return nil, fmt.Errorf("demographics: max_concurrent must be at least 1, got %d", cfg.MaxConcurrent)
	}

	return &Ranker{
		index:               index,
		cache:               cache,
		scorer:              scorer,
		maxConcurrent:       cfg.MaxConcurrent,
		confidenceThreshold: cfg.ConfidenceThreshold,
		clock:               time.Now,
		logger:              logger.With().Str("component", "ranker").Logger(),
	}, nil
}

// Rank scores every unique venue concurrently and returns them sorted
// non-increasing by blended score, input order preserved on ties.
// Idempotent for identical inputs under a frozen evaluation time.
func (r *Ranker) Rank(ctx context.Context, venues []Venue, profile Profile, rctx RankContext) ([]ScoredVenue, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	if rctx.Now.IsZero() {
		rctx.Now = r.clock()
	}

	unique := dedupeVenues(venues)
	metrics.RankVenues.Observe(float64(len(unique)))

	results := make([]ScoredVenue, len(unique))
	sem := make(chan struct{}, r.maxConcurrent)
	var wg sync.WaitGroup

	for i, venue := range unique {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, venue Venue) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = r.scoreOne(ctx, venue, profile, rctx)
		}(i, venue)
	}
	wg.Wait()

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	metrics.RankDuration.Observe(time.Since(start).Seconds())
	return results, nil
}

// scoreOne scores a single venue, falling back to the category-only path on
// any enhancement failure.
func (r *Ranker) scoreOne(ctx context.Context, venue Venue, profile Profile, rctx RankContext) (out ScoredVenue) {
	rawCategory := r.scorer.CategoryScore(venue, profile)

	out = ScoredVenue{
		Venue:         venue,
		Score:         r.scorer.NormalizeCategory(rawCategory),
		CategoryScore: rawCategory,
		Enhanced:      false,
	}
	if rctx.Origin != nil && rctx.Origin.Valid() && venue.Point.Valid() {
		d := geo.Haversine(*rctx.Origin, venue.Point)
		out.DistanceKm = &d
	}

	// Enhancement failure is isolated per venue: the category-only result
	// above survives any panic below.
	defer func() {
		if rec := recover(); rec != nil {
			metrics.RankDegraded.Inc()
			r.logger.Error().
				Interface("panic", rec).
				Str("venue", venue.Key()).
				Msg("enhancement failed, using category-only score")
			out.Enhanced = false
			out.Zone = ""
			out.Confidence = 0
			out.Compatibility = 0
			out.Demographics = nil
			out.LowConfidence = false
			out.Score = r.scorer.NormalizeCategory(rawCategory)
		}
	}()

	if !r.index.Contains(venue.Point) {
		return out
	}

	est := r.cache.Get(ctx, venue, AdjustContext{
		Now:     rctx.Now,
		Weather: rctx.Weather,
		Events:  rctx.Events,
	})

	compatibility := r.scorer.CompatibilityScore(profile, est)
	out.Score = r.scorer.Blend(compatibility, rawCategory)
	out.Compatibility = compatibility
	out.Confidence = est.Confidence
	out.Enhanced = true
	out.LowConfidence = est.Confidence < r.confidenceThreshold
	out.Zone = est.Zone
	out.Demographics = &est
	return out
}

// dedupeVenues drops later duplicates of the same venue key, preserving
// first-occurrence order.
func dedupeVenues(venues []Venue) []Venue {
	seen := make(map[string]struct{}, len(venues))
	out := make([]Venue, 0, len(venues))
	for _, v := range venues {
		key := v.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
