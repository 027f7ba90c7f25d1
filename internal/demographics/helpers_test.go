// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package demographics

import (
	"context"
	"io"
	"math"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/venuescope/internal/geo"
	"github.com/tomtom215/venuescope/internal/logging"
)

func testLogger() zerolog.Logger {
	return logging.NewTestLogger(io.Discard)
}

func testIndex(t *testing.T) *geo.Index {
	t.Helper()
	idx, err := geo.NewIndex(geo.ManhattanBounds(), geo.ManhattanZones())
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	return idx
}

func testProfile() Profile {
	return Profile{
		AgeBand:   Band21to25,
		Gender:    GenderFemale,
		Lifestyle: LifestyleStudent,
	}
}

// midtownVenue is inside the default coverage area.
func midtownVenue(id string, categories ...string) Venue {
	return Venue{
		ID:         id,
		Name:       id,
		Categories: categories,
		Point:      geo.Point{Lat: 40.7549, Lon: -73.9840},
	}
}

func uniformAge() Distribution {
	return Distribution{
		Bucket16to25: 0.2, Bucket26to35: 0.2, Bucket36to45: 0.2,
		Bucket46to55: 0.2, Bucket56Plus: 0.2,
	}
}

func evenGender() Distribution {
	return Distribution{GenderKeyMale: 0.48, GenderKeyFemale: 0.48, GenderKeyOther: 0.04}
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func assertValidDistribution(t *testing.T, name string, d Distribution) {
	t.Helper()
	if !d.Valid() {
		t.Errorf("%s distribution invalid: sum=%f contents=%v", name, d.Sum(), d)
	}
}

// mockSourceClient is a deterministic SourceClient with an atomic call
// counter and an optional gate to hold fetches open.
type mockSourceClient struct {
	calls atomic.Int64

	// estimate returned per call; nil estimate means return err.
	estimate *Estimate
	err      error

	// gate, when non-nil, blocks each fetch until closed.
	gate chan struct{}
}

func (m *mockSourceClient) FetchEstimate(ctx context.Context, sourceID string, venue Venue) (*Estimate, error) {
	m.calls.Add(1)
	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	est := *m.estimate
	est.Source = sourceID
	return &est, nil
}

func fixedEstimate() *Estimate {
	return &Estimate{
		AgeDistribution:    uniformAge(),
		GenderDistribution: evenGender(),
		Confidence:         0.8,
	}
}

// singleSourceConfig keeps fusion trivial for cache and ranker tests.
func singleSourceConfig() Config {
	cfg := DefaultConfig()
	cfg.Sources = []SourceConfig{{ID: SourceSafeGraph, Weight: 1.0, Enabled: true}}
	return cfg
}

func newTestCache(t *testing.T, cfg Config, client SourceClient) *Cache {
	t.Helper()
	logger := testLogger()

	fuser, err := NewFuser(cfg.EnabledSources(), logger)
	if err != nil {
		t.Fatalf("NewFuser: %v", err)
	}
	fetcher, err := NewFetcher(client, cfg, logger)
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	cache, err := NewCache(fetcher, fuser, NewAdjuster(cfg), testIndex(t), cfg, logger)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	return cache
}

func newTestRanker(t *testing.T, cfg Config, client SourceClient) *Ranker {
	t.Helper()
	cache := newTestCache(t, cfg, client)
	scorer, err := NewScorer(cfg, DefaultPreferenceTables())
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	ranker, err := NewRanker(testIndex(t), cache, scorer, cfg, testLogger())
	if err != nil {
		t.Fatalf("NewRanker: %v", err)
	}
	return ranker
}
