// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

// Package config loads and validates application configuration.
//
// Configuration is layered: built-in defaults, then an optional YAML
// file, then VENUESCOPE_-prefixed environment variables. Later layers
// override earlier ones.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/venuescope/internal/demographics"
	"github.com/tomtom215/venuescope/internal/geo"
)

// DefaultConfigPaths are the locations searched for a config file when
// CONFIG_PATH is not set, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/venuescope/config.yaml",
	"/etc/venuescope/config.yml",
}

// ConfigPathEnvVar overrides the config file search path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig        `koanf:"server"`
	Logging LoggingConfig       `koanf:"logging"`
	Engine  demographics.Config `koanf:"engine"`
	Geo     GeoConfig           `koanf:"geo"`
	Refresh RefreshConfig       `koanf:"refresh"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=1s"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimit       int           `koanf:"rate_limit" validate:"min=0"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"min=1s"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes" validate:"min=1024"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// GeoConfig defines the service area and its zones. When Zones is
// empty the built-in Manhattan zone set is used.
type GeoConfig struct {
	Bounds BoundsConfig `koanf:"bounds"`
	Zones  []ZoneConfig `koanf:"zones"`
}

// BoundsConfig is the geographic bounding box of the service area.
type BoundsConfig struct {
	North float64 `koanf:"north"`
	South float64 `koanf:"south"`
	East  float64 `koanf:"east"`
	West  float64 `koanf:"west"`
}

// ZoneConfig is a named zone centroid inside the service area.
type ZoneConfig struct {
	Name string  `koanf:"name" validate:"required"`
	Lat  float64 `koanf:"lat"`
	Lon  float64 `koanf:"lon"`
}

// RefreshConfig controls the background cache refresher.
type RefreshConfig struct {
	Enabled       bool    `koanf:"enabled"`
	RatePerSecond float64 `koanf:"rate_per_second" validate:"gt=0"`
	Burst         int     `koanf:"burst" validate:"min=1"`
}

// defaultConfig returns the built-in defaults. Every field a YAML file
// or environment variable may set has a sensible value here.
func defaultConfig() *Config {
	bounds := geo.ManhattanBounds()
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimit:       100,
			RateLimitWindow: time.Minute,
			MaxBodyBytes:    1 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Engine: demographics.DefaultConfig(),
		Geo: GeoConfig{
			Bounds: BoundsConfig{
				North: bounds.North,
				South: bounds.South,
				East:  bounds.East,
				West:  bounds.West,
			},
		},
		Refresh: RefreshConfig{
			Enabled:       true,
			RatePerSecond: 2,
			Burst:         5,
		},
	}
}

// Index builds the zone index described by the geo section. An empty
// zone list falls back to the built-in Manhattan zones.
func (g GeoConfig) Index() (*geo.Index, error) {
	bounds := geo.BoundingBox{
		North: g.Bounds.North,
		South: g.Bounds.South,
		East:  g.Bounds.East,
		West:  g.Bounds.West,
	}
	zones := make([]geo.Zone, 0, len(g.Zones))
	for _, z := range g.Zones {
		zones = append(zones, geo.Zone{
			Name:     z.Name,
			Centroid: geo.Point{Lat: z.Lat, Lon: z.Lon},
		})
	}
	if len(zones) == 0 {
		zones = geo.ManhattanZones()
	}
	return geo.NewIndex(bounds, zones)
}

// Validate checks the full configuration, including the engine tunables
// and the geo section.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	if _, err := c.Geo.Index(); err != nil {
		return fmt.Errorf("geo config: %w", err)
	}
	return nil
}
