// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/venuescope/internal/demographics"
)

// Refreshable exposes the cache operations the refresher needs.
type Refreshable interface {
	CachedVenues() []demographics.Venue
	Refresh(ctx context.Context, venue demographics.Venue)
}

// RefresherService re-fetches demographics for recently seen venues
// each update interval, so interactive requests keep hitting warm
// cache entries. Fetches are paced by a rate limiter to avoid bursts
// against the upstream sources.
type RefresherService struct {
	cache    Refreshable
	interval time.Duration
	limiter  *rate.Limiter
	logger   zerolog.Logger
}

// NewRefresherService creates a refresher. perSecond and burst shape
// the pacing limiter.
func NewRefresherService(cache Refreshable, interval time.Duration, perSecond float64, burst int, logger zerolog.Logger) *RefresherService {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if perSecond <= 0 {
		perSecond = 2
	}
	if burst < 1 {
		burst = 1
	}
	return &RefresherService{
		cache:    cache,
		interval: interval,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:   logger.With().Str("service", "cache-refresher").Logger(),
	}
}

// Serve implements suture.Service.
func (s *RefresherService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.refreshAll(ctx)
		}
	}
}

func (s *RefresherService) refreshAll(ctx context.Context) {
	venues := s.cache.CachedVenues()
	if len(venues) == 0 {
		return
	}
	start := time.Now()
	for _, v := range venues {
		if err := s.limiter.Wait(ctx); err != nil {
			return
		}
		s.cache.Refresh(ctx, v)
	}
	s.logger.Debug().
		Int("venues", len(venues)).
		Dur("duration", time.Since(start)).
		Msg("refreshed cached venues")
}

// String implements fmt.Stringer for supervisor log messages.
func (s *RefresherService) String() string {
	return "cache-refresher"
}
