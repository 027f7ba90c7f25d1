// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweepable removes expired entries and reports how many were dropped.
type Sweepable interface {
	Sweep() int
}

// SweeperService periodically evicts expired demographic estimates
// from the cache.
type SweeperService struct {
	cache    Sweepable
	interval time.Duration
	logger   zerolog.Logger
}

// NewSweeperService creates a sweeper that runs every interval.
func NewSweeperService(cache Sweepable, interval time.Duration, logger zerolog.Logger) *SweeperService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SweeperService{
		cache:    cache,
		interval: interval,
		logger:   logger.With().Str("service", "cache-sweeper").Logger(),
	}
}

// Serve implements suture.Service.
func (s *SweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			removed := s.cache.Sweep()
			if removed > 0 {
				s.logger.Debug().Int("removed", removed).Msg("swept expired cache entries")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor log messages.
func (s *SweeperService) String() string {
	return "cache-sweeper"
}
