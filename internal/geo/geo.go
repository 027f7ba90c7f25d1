// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

// Package geo provides the coverage-area index used to decide whether a venue
// qualifies for demographic enhancement and which named zone it belongs to.
//
// The index is immutable after construction and safe for concurrent use.
package geo

import (
	"fmt"
	"math"
)

// UnknownZone is returned by NearestZone when no zone can be resolved.
const UnknownZone = "Unknown"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether both coordinates are finite and within range.
func (p Point) Valid() bool {
	return isFinite(p.Lat) && isFinite(p.Lon) &&
		p.Lat >= -90 && p.Lat <= 90 &&
		p.Lon >= -180 && p.Lon <= 180
}

// BoundingBox is an axis-aligned coverage rectangle.
type BoundingBox struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Zone is a named sub-area with a representative centroid.
type Zone struct {
	Name     string `json:"name"`
	Centroid Point  `json:"centroid"`
}

// Index answers containment and nearest-zone queries for a coverage area.
type Index struct {
	bounds BoundingBox
	zones  []Zone
}

// NewIndex builds an Index from a bounding box and an ordered zone list.
// Zone order is significant: NearestZone breaks exact distance ties in favor
// of the earlier zone.
func NewIndex(bounds BoundingBox, zones []Zone) (*Index, error) {
	if !isFinite(bounds.North) || !isFinite(bounds.South) ||
		!isFinite(bounds.East) || !isFinite(bounds.West) {
		return nil, fmt.Errorf("geo: bounds must be finite: %+v", bounds)
	}
	if bounds.North <= bounds.South {
		return nil, fmt.Errorf("geo: north (%f) must exceed south (%f)", bounds.North, bounds.South)
	}
	if bounds.East <= bounds.West {
		return nil, fmt.Errorf("geo: east (%f) must exceed west (%f)", bounds.East, bounds.West)
	}

	seen := make(map[string]struct{}, len(zones))
	for i, z := range zones {
		if z.Name == "" {
			return nil, fmt.Errorf("geo: zone %d has empty name", i)
		}
		if !z.Centroid.Valid() {
			return nil, fmt.Errorf("geo: zone %q has invalid centroid %+v", z.Name, z.Centroid)
		}
		if _, dup := seen[z.Name]; dup {
			return nil, fmt.Errorf("geo: duplicate zone name %q", z.Name)
		}
		seen[z.Name] = struct{}{}
	}

	idx := &Index{bounds: bounds, zones: make([]Zone, len(zones))}
	copy(idx.zones, zones)
	return idx, nil
}

// Contains reports whether p lies inside the coverage rectangle.
// Invalid coordinates (NaN, Inf, out of range) are never contained.
func (idx *Index) Contains(p Point) bool {
	if !p.Valid() {
		return false
	}
	return p.Lat >= idx.bounds.South && p.Lat <= idx.bounds.North &&
		p.Lon >= idx.bounds.West && p.Lon <= idx.bounds.East
}

// NearestZone returns the name of the zone whose centroid is closest to p by
// haversine distance. Ties go to the earlier zone in construction order.
// Returns UnknownZone when the zone set is empty or p is invalid.
func (idx *Index) NearestZone(p Point) string {
	if len(idx.zones) == 0 || !p.Valid() {
		return UnknownZone
	}

	best := 0
	bestDist := Haversine(p, idx.zones[0].Centroid)
	for i := 1; i < len(idx.zones); i++ {
		if d := Haversine(p, idx.zones[i].Centroid); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return idx.zones[best].Name
}

// Bounds returns the coverage rectangle.
func (idx *Index) Bounds() BoundingBox {
	return idx.bounds
}

// Zones returns a copy of the zone list in construction order.
func (idx *Index) Zones() []Zone {
	out := make([]Zone, len(idx.zones))
	copy(out, idx.zones)
	return out
}

// Haversine returns the great-circle distance between a and b in kilometers.
func Haversine(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*sinLon*sinLon

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
