// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/venuescope/internal/demographics"
)

type mockRefreshable struct {
	mu        sync.Mutex
	venues    []demographics.Venue
	refreshed []string
}

func (m *mockRefreshable) CachedVenues() []demographics.Venue {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]demographics.Venue(nil), m.venues...)
}

func (m *mockRefreshable) Refresh(_ context.Context, venue demographics.Venue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshed = append(m.refreshed, venue.Key())
}

func (m *mockRefreshable) refreshCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.refreshed)
}

func TestRefresherServiceRefreshesAllVenues(t *testing.T) {
	cache := &mockRefreshable{venues: []demographics.Venue{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B"},
		{ID: "c", Name: "C"},
	}}
	svc := NewRefresherService(cache, 10*time.Millisecond, 1000, 10, zerolog.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for cache.refreshCount() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d refreshes before deadline", cache.refreshCount())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestRefresherServiceEmptyCacheNoRefreshes(t *testing.T) {
	cache := &mockRefreshable{}
	svc := NewRefresherService(cache, 10*time.Millisecond, 1000, 10, zerolog.New(io.Discard))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_ = svc.Serve(ctx)

	if got := cache.refreshCount(); got != 0 {
		t.Errorf("refreshes = %d, want 0", got)
	}
}

func TestRefresherServiceStopsMidSweep(t *testing.T) {
	venues := make([]demographics.Venue, 50)
	for i := range venues {
		venues[i] = demographics.Venue{ID: string(rune('a' + i))}
	}
	cache := &mockRefreshable{venues: venues}
	// One permit per second: the limiter blocks after the initial burst,
	// so cancellation must interrupt the pass.
	svc := NewRefresherService(cache, 10*time.Millisecond, 1, 1, zerolog.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
	if got := cache.refreshCount(); got >= len(venues) {
		t.Errorf("refreshes = %d, expected pass to be interrupted", got)
	}
}
