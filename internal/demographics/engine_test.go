// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package demographics

import (
	"context"
	"testing"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	idx := testIndex(t)
	engine, err := NewEngine(DefaultConfig(), DefaultPreferenceTables(), idx, NewSimulatedClient(idx), testLogger())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func TestNewEngineConstructionErrors(t *testing.T) {
	idx := testIndex(t)
	client := NewSimulatedClient(idx)

	bad := DefaultConfig()
	bad.Sources = nil
	if _, err := NewEngine(bad, DefaultPreferenceTables(), idx, client, testLogger()); err == nil {
		t.Error("invalid config should fail construction")
	}

	if _, err := NewEngine(DefaultConfig(), PreferenceTables{}, idx, client, testLogger()); err == nil {
		t.Error("invalid tables should fail construction")
	}

	if _, err := NewEngine(DefaultConfig(), DefaultPreferenceTables(), nil, client, testLogger()); err == nil {
		t.Error("nil index should fail construction")
	}

	if _, err := NewEngine(DefaultConfig(), DefaultPreferenceTables(), idx, nil, testLogger()); err == nil {
		t.Error("nil client should fail construction")
	}
}

func TestEngineEndToEndRank(t *testing.T) {
	engine := newTestEngine(t)

	venues := []Venue{
		midtownVenue("club", "entertainment.nightclub"),
		midtownVenue("museum", "entertainment.museum"),
		midtownVenue("cafe", "catering.cafe"),
	}

	got, err := engine.Rank(context.Background(), venues, testProfile(), fixedRankContext())
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	for _, r := range got {
		if !r.Enhanced {
			t.Errorf("venue %q should be enhanced", r.Venue.ID)
		}
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("venue %q score %f out of [0,1]", r.Venue.ID, r.Score)
		}
		if r.Demographics == nil {
			t.Errorf("venue %q missing demographic breakdown", r.Venue.ID)
			continue
		}
		assertValidDistribution(t, r.Venue.ID+" age", r.Demographics.AgeDistribution)
		if r.Demographics.SourceCount != 5 {
			t.Errorf("venue %q fused from %d sources, want 5", r.Venue.ID, r.Demographics.SourceCount)
		}
	}

	// Deterministic simulation: a second identical request ranks identically.
	again, err := engine.Rank(context.Background(), venues, testProfile(), fixedRankContext())
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	for i := range got {
		if got[i].Venue.ID != again[i].Venue.ID || got[i].Score != again[i].Score {
			t.Errorf("rank %d differs across identical requests", i)
		}
	}
}

func TestEngineAccessors(t *testing.T) {
	engine := newTestEngine(t)

	if engine.Cache() == nil || engine.Index() == nil {
		t.Fatal("accessors must expose collaborators")
	}

	cfg := engine.Config()
	cfg.Sources[0].Weight = 99
	if engine.Config().Sources[0].Weight == 99 {
		t.Error("Config must return an isolated copy")
	}
}
