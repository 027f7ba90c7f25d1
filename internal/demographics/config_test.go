// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package demographics

import (
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig must validate: %v", err)
	}
}

func TestDefaultSourceWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, s := range DefaultConfig().Sources {
		sum += s.Weight
	}
	if !approxEqual(sum, 1.0, 1e-9) {
		t.Errorf("default source weights sum to %f, want 1", sum)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no sources", func(c *Config) { c.Sources = nil }},
		{"all disabled", func(c *Config) {
			for i := range c.Sources {
				c.Sources[i].Enabled = false
			}
		}},
		{"zero weight", func(c *Config) { c.Sources[0].Weight = 0 }},
		{"negative weight", func(c *Config) { c.Sources[0].Weight = -0.5 }},
		{"duplicate id", func(c *Config) { c.Sources[1].ID = c.Sources[0].ID }},
		{"empty id", func(c *Config) { c.Sources[0].ID = "" }},
		{"zero update interval", func(c *Config) { c.UpdateInterval = 0 }},
		{"zero cache ttl", func(c *Config) { c.CacheTTL = 0 }},
		{"negative sweep interval", func(c *Config) { c.SweepInterval = -time.Minute }},
		{"zero fetch timeout", func(c *Config) { c.FetchTimeout = 0 }},
		{"zero max concurrent", func(c *Config) { c.MaxConcurrent = 0 }},
		{"confidence threshold above one", func(c *Config) { c.ConfidenceThreshold = 1.5 }},
		{"negative age weight", func(c *Config) { c.AgeWeight = -0.1 }},
		{"zero blends", func(c *Config) { c.RealtimeBlend, c.StaticBlend = 0, 0 }},
		{"zero reference max", func(c *Config) { c.CategoryReferenceMax = 0 }},
		{"event blend above one", func(c *Config) { c.EventBlend = 1.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigCloneIsolated(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Sources[0].Weight = 99

	if cfg.Sources[0].Weight == 99 {
		t.Error("Clone must not share the sources slice")
	}
}

func TestEnabledSources(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sources[2].Enabled = false

	enabled := cfg.EnabledSources()
	if len(enabled) != 4 {
		t.Fatalf("enabled = %d, want 4", len(enabled))
	}
	for _, s := range enabled {
		if s.ID == cfg.Sources[2].ID {
			t.Errorf("disabled source %q present", s.ID)
		}
	}
}

func TestDefaultPreferenceTablesValid(t *testing.T) {
	if err := DefaultPreferenceTables().Validate(); err != nil {
		t.Errorf("default tables must validate: %v", err)
	}
}

func TestPreferenceTablesValidateMissingEntries(t *testing.T) {
	tables := DefaultPreferenceTables()
	delete(tables.Age, Band31to35)
	if err := tables.Validate(); err == nil {
		t.Error("missing age band entry should fail")
	}

	tables = DefaultPreferenceTables()
	tables.Lifestyle[LifestyleStudent] = LifestylePrefs{Preferred: nil, BudgetFactor: 0}
	if err := tables.Validate(); err == nil {
		t.Error("zero budget factor should fail")
	}
}
