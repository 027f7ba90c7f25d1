// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

// Package metrics exposes Prometheus instrumentation for the scoring
// pipeline: cache efficiency, per-source fetch health, fusion fallbacks,
// ranking latency, and the HTTP surface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Demographics cache metrics.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "demographics_cache_hits_total",
			Help: "Total number of demographics cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "demographics_cache_misses_total",
			Help: "Total number of demographics cache misses",
		},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "demographics_cache_evictions_total",
			Help: "Total number of expired demographics cache entries removed",
		},
	)

	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "demographics_cache_entries",
			Help: "Current number of cached demographic estimates",
		},
	)

	SharedFetches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "demographics_shared_fetches_total",
			Help: "Cache fetches coalesced onto an in-flight fetch for the same key",
		},
	)

	// Source fetch metrics.
	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_fetch_duration_seconds",
			Help:    "Duration of per-source demographic estimate fetches",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	SourceFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_fetch_errors_total",
			Help: "Total number of failed per-source fetches",
		},
		[]string{"source", "reason"}, // reason: "error", "timeout", "breaker_open"
	)

	FusionFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fusion_fallbacks_total",
			Help: "Fusions that produced the fallback distribution because no source responded",
		},
	)

	// Ranking metrics.
	RankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rank_batch_duration_seconds",
			Help:    "Duration of venue batch ranking",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	RankVenues = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rank_batch_venues",
			Help:    "Venues per ranking batch after de-duplication",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		},
	)

	RankDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rank_degraded_venues_total",
			Help: "Venues scored without demographic enhancement due to a per-venue failure",
		},
	)

	// HTTP surface metrics.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// RecordSourceFetch records one per-source fetch outcome.
func RecordSourceFetch(source string, duration time.Duration, reason string) {
	SourceFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
	if reason != "" {
		SourceFetchErrors.WithLabelValues(source, reason).Inc()
	}
}

// RecordAPIRequest records one HTTP request outcome.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
