// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package demographics

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSimulatedClientDeterministic(t *testing.T) {
	client := NewSimulatedClient(testIndex(t))
	venue := midtownVenue("v1", "catering.cafe")

	first, err := client.FetchEstimate(context.Background(), SourceSafeGraph, venue)
	if err != nil {
		t.Fatalf("FetchEstimate: %v", err)
	}
	second, err := client.FetchEstimate(context.Background(), SourceSafeGraph, venue)
	if err != nil {
		t.Fatalf("FetchEstimate: %v", err)
	}

	for _, bucket := range AgeBuckets {
		if first.AgeDistribution[bucket] != second.AgeDistribution[bucket] {
			t.Errorf("bucket %s differs across identical calls", bucket)
		}
	}
	assertValidDistribution(t, "age", first.AgeDistribution)
	assertValidDistribution(t, "gender", first.GenderDistribution)
	if first.Zone != "Midtown" {
		t.Errorf("zone = %q, want Midtown", first.Zone)
	}
}

func TestSimulatedClientVariesBySourceAndVenue(t *testing.T) {
	client := NewSimulatedClient(testIndex(t))
	venue := midtownVenue("v1", "catering.cafe")
	other := midtownVenue("v2", "catering.cafe")

	a, _ := client.FetchEstimate(context.Background(), SourceSafeGraph, venue)
	b, _ := client.FetchEstimate(context.Background(), SourceInstagram, venue)
	c, _ := client.FetchEstimate(context.Background(), SourceSafeGraph, other)

	if a.Confidence == b.Confidence {
		t.Error("sources should carry distinct confidences")
	}
	samePerVenue := true
	for _, bucket := range AgeBuckets {
		if a.AgeDistribution[bucket] != c.AgeDistribution[bucket] {
			samePerVenue = false
		}
	}
	if samePerVenue {
		t.Error("different venues should produce different estimates")
	}
}

func TestSimulatedClientUnknownSource(t *testing.T) {
	client := NewSimulatedClient(testIndex(t))
	if _, err := client.FetchEstimate(context.Background(), "telepathy", midtownVenue("v1")); err == nil {
		t.Error("unknown source should error")
	}
}

func TestSimulatedClientSkewsByCategory(t *testing.T) {
	client := NewSimulatedClient(testIndex(t))

	club, _ := client.FetchEstimate(context.Background(), SourceCensus, midtownVenue("v1", "entertainment.nightclub"))
	museum, _ := client.FetchEstimate(context.Background(), SourceCensus, midtownVenue("v1", "entertainment.museum"))

	if club.AgeDistribution[Bucket16to25] <= museum.AgeDistribution[Bucket16to25] {
		t.Error("nightclub estimate should skew younger than museum estimate")
	}
}

func TestFetcherCollectsAllSources(t *testing.T) {
	client := &mockSourceClient{estimate: fixedEstimate()}
	fetcher, err := NewFetcher(client, DefaultConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	got := fetcher.FetchAll(context.Background(), midtownVenue("v1", "catering.cafe"))
	if len(got) != 5 {
		t.Fatalf("estimates = %d, want 5", len(got))
	}
	// Results come back in configured source order.
	if got[0].SourceID != SourceSafeGraph || got[4].SourceID != SourceCensus {
		t.Errorf("order = %q ... %q, want safegraph ... census", got[0].SourceID, got[4].SourceID)
	}
}

func TestFetcherTreatsErrorsAsAbsence(t *testing.T) {
	client := &mockSourceClient{err: errors.New("boom")}
	fetcher, err := NewFetcher(client, DefaultConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	got := fetcher.FetchAll(context.Background(), midtownVenue("v1"))
	if len(got) != 0 {
		t.Errorf("estimates = %d, want 0 (failures are absence)", len(got))
	}
}

func TestFetcherBoundedWait(t *testing.T) {
	cfg := singleSourceConfig()
	cfg.FetchTimeout = 20 * time.Millisecond

	client := &mockSourceClient{estimate: fixedEstimate(), gate: make(chan struct{})}
	defer close(client.gate)

	fetcher, err := NewFetcher(client, cfg, testLogger())
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	start := time.Now()
	got := fetcher.FetchAll(context.Background(), midtownVenue("v1"))
	elapsed := time.Since(start)

	if len(got) != 0 {
		t.Errorf("estimates = %d, want 0 (late source treated as absent)", len(got))
	}
	if elapsed > 2*time.Second {
		t.Errorf("FetchAll took %v, bounded wait not enforced", elapsed)
	}
}

func TestFetcherRequiresClientAndSources(t *testing.T) {
	if _, err := NewFetcher(nil, DefaultConfig(), testLogger()); err == nil {
		t.Error("nil client should fail")
	}

	cfg := DefaultConfig()
	for i := range cfg.Sources {
		cfg.Sources[i].Enabled = false
	}
	if _, err := NewFetcher(&mockSourceClient{}, cfg, testLogger()); err == nil {
		t.Error("no enabled sources should fail")
	}
}
