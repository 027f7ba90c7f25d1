// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package demographics

import (
	"fmt"
	"math"
	"time"
)

// Source IDs for the built-in estimate sources.
const (
	SourceSafeGraph  = "safegraph"
	SourceFoursquare = "foursquare"
	SourceInstagram  = "instagram"
	SourceGoogle     = "google"
	SourceCensus     = "census"
)

// SourceConfig describes one estimate source and its fusion weight.
type SourceConfig struct {
	ID      string  `json:"id" koanf:"id"`
	Weight  float64 `json:"weight" koanf:"weight"`
	Enabled bool    `json:"enabled" koanf:"enabled"`
}

// Config holds all tunables for the demographics engine. Construct with
// DefaultConfig and override; Validate before use. Invalid configuration is
// a construction-time error, never a runtime one.
type Config struct {
	// Sources in fusion-weight order. Weights are relative; they are
	// renormalized over whichever subset responds.
	Sources []SourceConfig `json:"sources" koanf:"sources"`

	// UpdateInterval is the cache key time-bucket width.
	UpdateInterval time.Duration `json:"update_interval" koanf:"update_interval"`

	// CacheTTL is how long a cached estimate stays fresh.
	CacheTTL time.Duration `json:"cache_ttl" koanf:"cache_ttl"`

	// SweepInterval is how often expired cache entries are removed.
	SweepInterval time.Duration `json:"sweep_interval" koanf:"sweep_interval"`

	// FetchTimeout bounds the join on concurrent per-source fetches.
	// Sources that miss the deadline are treated as absent.
	FetchTimeout time.Duration `json:"fetch_timeout" koanf:"fetch_timeout"`

	// MaxConcurrent bounds in-flight per-venue scoring during a rank.
	MaxConcurrent int `json:"max_concurrent" koanf:"max_concurrent"`

	// ConfidenceThreshold marks estimates below it as low confidence in
	// ranked results.
	ConfidenceThreshold float64 `json:"confidence_threshold" koanf:"confidence_threshold"`

	// AgeWeight, GenderWeight, LifestyleWeight are the compatibility
	// component weights.
	AgeWeight       float64 `json:"age_weight" koanf:"age_weight"`
	GenderWeight    float64 `json:"gender_weight" koanf:"gender_weight"`
	LifestyleWeight float64 `json:"lifestyle_weight" koanf:"lifestyle_weight"`

	// RealtimeBlend and StaticBlend combine compatibility with the
	// normalized category score for enhanced venues.
	RealtimeBlend float64 `json:"realtime_blend" koanf:"realtime_blend"`
	StaticBlend   float64 `json:"static_blend" koanf:"static_blend"`

	// CategoryReferenceMax is the category score treated as 1.0 after
	// normalization.
	CategoryReferenceMax float64 `json:"category_reference_max" koanf:"category_reference_max"`

	// EventRadiusKm is how close an event must be to influence a venue.
	EventRadiusKm float64 `json:"event_radius_km" koanf:"event_radius_km"`

	// EventBlend is the mixing factor toward an event's attendee profile.
	EventBlend float64 `json:"event_blend" koanf:"event_blend"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Sources: []SourceConfig{
			{ID: SourceSafeGraph, Weight: 0.35, Enabled: true},
			{ID: SourceFoursquare, Weight: 0.25, Enabled: true},
			{ID: SourceInstagram, Weight: 0.20, Enabled: true},
			{ID: SourceGoogle, Weight: 0.15, Enabled: true},
			{ID: SourceCensus, Weight: 0.05, Enabled: true},
		},
		UpdateInterval:       15 * time.Minute,
		CacheTTL:             30 * time.Minute,
		SweepInterval:        time.Hour,
		FetchTimeout:         10 * time.Second,
		MaxConcurrent:        10,
		ConfidenceThreshold:  0.6,
		AgeWeight:            0.4,
		GenderWeight:         0.2,
		LifestyleWeight:      0.3,
		RealtimeBlend:        0.7,
		StaticBlend:          0.3,
		CategoryReferenceMax: 10.0,
		EventRadiusKm:        1.0,
		EventBlend:           0.25,
	}
}

// Validate checks the configuration for construction-time errors.
func (c Config) Validate() error {
	enabled := 0
	seen := make(map[string]struct{}, len(c.Sources))
	for i, s := range c.Sources {
		if s.ID == "" {
			return fmt.Errorf("demographics: source %d has empty id", i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("demographics: duplicate source id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
		if s.Weight <= 0 || math.IsNaN(s.Weight) || math.IsInf(s.Weight, 0) {
			return fmt.Errorf("demographics: source %q weight must be positive, got %f", s.ID, s.Weight)
		}
		if s.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("demographics: at least one source must be enabled")
	}

	if c.UpdateInterval <= 0 {
		return fmt.Errorf("demographics: update_interval must be positive, got %v", c.UpdateInterval)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("demographics: cache_ttl must be positive, got %v", c.CacheTTL)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("demographics: sweep_interval must be positive, got %v", c.SweepInterval)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("demographics: fetch_timeout must be positive, got %v", c.FetchTimeout)
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("demographics: max_concurrent must be at least 1, got %d", c.MaxConcurrent)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("demographics: confidence_threshold must be in [0,1], got %f", c.ConfidenceThreshold)
	}

	for name, w := range map[string]float64{
		"age_weight":       c.AgeWeight,
		"gender_weight":    c.GenderWeight,
		"lifestyle_weight": c.LifestyleWeight,
		"realtime_blend":   c.RealtimeBlend,
		"static_blend":     c.StaticBlend,
	} {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("demographics: %s must be non-negative and finite, got %f", name, w)
		}
	}
	if c.RealtimeBlend+c.StaticBlend <= 0 {
		return fmt.Errorf("demographics: blend weights must not both be zero")
	}
	if c.CategoryReferenceMax <= 0 {
		return fmt.Errorf("demographics: category_reference_max must be positive, got %f", c.CategoryReferenceMax)
	}
	if c.EventRadiusKm < 0 {
		return fmt.Errorf("demographics: event_radius_km must be non-negative, got %f", c.EventRadiusKm)
	}
	if c.EventBlend < 0 || c.EventBlend > 1 {
		return fmt.Errorf("demographics: event_blend must be in [0,1], got %f", c.EventBlend)
	}

	return nil
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	out := c
	out.Sources = make([]SourceConfig, len(c.Sources))
	copy(out.Sources, c.Sources)
	return out
}

// EnabledSources returns the enabled sources in configured order.
func (c Config) EnabledSources() []SourceConfig {
	out := make([]SourceConfig, 0, len(c.Sources))
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}
