// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package demographics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/venuescope/internal/geo"
	"github.com/tomtom215/venuescope/internal/metrics"
)

// Cache is the time-bucketed demographics cache. Keys are a function of
// (venue key, time bucket), so concurrent requests within one bucket share
// one entry and, via single-flight, one underlying fetch.
//
// Get never returns an error: an all-sources failure yields the fallback
// estimate, detectable through its confidence and source label.
type Cache struct {
	fetcher  *Fetcher
	fuser    *Fuser
	adjuster *Adjuster
	zones    *geo.Index

	ttl    time.Duration
	bucket time.Duration

	// clock is swappable in tests; the core never reads the wall clock
	// elsewhere.
	clock func() time.Time

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]cacheEntry

	hits   atomic.Uint64
	misses atomic.Uint64

	logger zerolog.Logger
}

type cacheEntry struct {
	estimate Estimate
	venue    Venue
	storedAt time.Time
}

// CacheStats is a point-in-time snapshot of cache behavior.
type CacheStats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// HitRate returns hits over total lookups, zero when idle.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// NewCache builds the cache over its collaborators.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCache(fetcher *Fetcher, fuser *Fuser, adjuster *Adjuster, zones *geo.Index, cfg Config, logger zerolog.Logger) (*Cache, error) {
	if fetcher == nil || fuser == nil || adjuster == nil {
		return nil, errors.New("demographics: cache requires fetcher, fuser, and adjuster")
	}
	if cfg.CacheTTL <= 0 || cfg.UpdateInterval <= 0 {
		return nil, fmt.Errorf("demographics: cache requires positive ttl and update interval, got %v and %v", cfg.CacheTTL, cfg.UpdateInterval)
	}

	return &Cache{
		fetcher:  fetcher,
		fuser:    fuser,
		adjuster: adjuster,
		zones:    zones,
		ttl:      cfg.CacheTTL,
		bucket:   cfg.UpdateInterval,
		clock:    time.Now,
		entries:  make(map[string]cacheEntry),
		logger:   logger.With().Str("component", "cache").Logger(),
	}, nil
}

// key derives the cache key for a venue at a point in time.
func (c *Cache) key(venue Venue, now time.Time) string {
	return fmt.Sprintf("venue:%s:%d", venue.Key(), now.UnixNano()/int64(c.bucket))
}

// bucketStart floors now to its bucket boundary; stored as ObservedAt so an
// estimate is reproducible from its key.
func (c *Cache) bucketStart(now time.Time) time.Time {
	return time.Unix(0, (now.UnixNano()/int64(c.bucket))*int64(c.bucket)).UTC()
}

// Get returns the estimate for a venue, fetching and fusing on miss.
// Concurrent callers for the same key share a single underlying fetch.
func (c *Cache) Get(ctx context.Context, venue Venue, actx AdjustContext) Estimate {
	now := actx.Now
	if now.IsZero() {
		now = c.clock()
		actx.Now = now
	}
	key := c.key(venue, now)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.clock().Sub(entry.storedAt) < c.ttl {
		c.hits.Add(1)
		metrics.CacheHits.Inc()
		return entry.estimate
	}

	c.misses.Add(1)
	metrics.CacheMisses.Inc()

	v, _, shared := c.group.Do(key, func() (interface{}, error) {
		est := c.compute(ctx, venue, actx)
		c.store(key, venue, est)
		return est, nil
	})
	if shared {
		metrics.SharedFetches.Inc()
	}
	return v.(Estimate)
}

// Refresh recomputes and stores the entry for a venue's current bucket,
// bypassing the freshness check. Used by background refresh.
func (c *Cache) Refresh(ctx context.Context, venue Venue) {
	now := c.clock()
	actx := AdjustContext{Now: now, Categories: venue.Categories, Point: venue.Point}
	key := c.key(venue, now)

	_, _, _ = c.group.Do(key, func() (interface{}, error) {
		est := c.compute(ctx, venue, actx)
		c.store(key, venue, est)
		return est, nil
	})
}

// compute runs the fetch, fuse, adjust pipeline for one venue.
func (c *Cache) compute(ctx context.Context, venue Venue, actx AdjustContext) Estimate {
	actx.Categories = venue.Categories
	actx.Point = venue.Point

	estimates := c.fetcher.FetchAll(ctx, venue)
	est := c.fuser.Fuse(estimates)
	est = c.adjuster.Apply(est, actx)

	if est.Zone == "" && c.zones != nil {
		est.Zone = c.zones.NearestZone(venue.Point)
	}
	est.ObservedAt = c.bucketStart(actx.Now)

	c.logger.Debug().
		Str("venue", venue.Key()).
		Int("sources", est.SourceCount).
		Float64("confidence", est.Confidence).
		Msg("computed demographic estimate")
	return est
}

func (c *Cache) store(key string, venue Venue, est Estimate) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{estimate: est, venue: venue, storedAt: c.clock()}
	size := len(c.entries)
	c.mu.Unlock()
	metrics.CacheSize.Set(float64(size))
}

// Sweep removes all expired entries and returns how many were dropped.
// Runs on its own timer in production; never blocks Get beyond map mutation.
func (c *Cache) Sweep() int {
	now := c.clock()

	c.mu.Lock()
	removed := 0
	for key, entry := range c.entries {
		if now.Sub(entry.storedAt) >= c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	if removed > 0 {
		metrics.CacheEvictions.Add(float64(removed))
		c.logger.Debug().Int("removed", removed).Int("remaining", size).Msg("cache sweep")
	}
	metrics.CacheSize.Set(float64(size))
	return removed
}

// CachedVenues returns the distinct venues currently cached, for background
// refresh. Newer entries shadow older buckets of the same venue.
func (c *Cache) CachedVenues() []Venue {
	c.mu.RLock()
	defer c.mu.RUnlock()

	byKey := make(map[string]Venue, len(c.entries))
	for _, entry := range c.entries {
		byKey[entry.venue.Key()] = entry.venue
	}
	out := make([]Venue, 0, len(byKey))
	for _, v := range byKey {
		out = append(out, v)
	}
	return out
}

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	entries := len(c.entries)
	c.mu.RUnlock()

	return CacheStats{
		Entries: entries,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
