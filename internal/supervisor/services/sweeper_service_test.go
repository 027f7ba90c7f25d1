// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package services

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type mockSweepable struct {
	sweeps  atomic.Int64
	removed int
}

func (m *mockSweepable) Sweep() int {
	m.sweeps.Add(1)
	return m.removed
}

func TestSweeperServiceRunsPeriodically(t *testing.T) {
	cache := &mockSweepable{removed: 3}
	svc := NewSweeperService(cache, 10*time.Millisecond, zerolog.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for cache.sweeps.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("only %d sweeps before deadline", cache.sweeps.Load())
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

func TestSweeperServiceStopsImmediately(t *testing.T) {
	cache := &mockSweepable{}
	svc := NewSweeperService(cache, time.Hour, zerolog.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve returned %v, want context.Canceled", err)
	}
	if got := cache.sweeps.Load(); got != 0 {
		t.Errorf("sweeps = %d, want 0", got)
	}
}
