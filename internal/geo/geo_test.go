// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package geo

import (
	"math"
	"testing"
)

func TestNewIndexValidation(t *testing.T) {
	tests := []struct {
		name    string
		bounds  BoundingBox
		zones   []Zone
		wantErr bool
	}{
		{
			name:   "valid",
			bounds: ManhattanBounds(),
			zones:  ManhattanZones(),
		},
		{
			name:   "valid empty zones",
			bounds: ManhattanBounds(),
			zones:  nil,
		},
		{
			name:    "inverted latitude",
			bounds:  BoundingBox{North: 40.0, South: 41.0, East: -73.0, West: -74.0},
			wantErr: true,
		},
		{
			name:    "inverted longitude",
			bounds:  BoundingBox{North: 41.0, South: 40.0, East: -74.0, West: -73.0},
			wantErr: true,
		},
		{
			name:    "NaN bounds",
			bounds:  BoundingBox{North: math.NaN(), South: 40.0, East: -73.0, West: -74.0},
			wantErr: true,
		},
		{
			name:    "empty zone name",
			bounds:  ManhattanBounds(),
			zones:   []Zone{{Name: "", Centroid: Point{Lat: 40.7, Lon: -74.0}}},
			wantErr: true,
		},
		{
			name:   "duplicate zone name",
			bounds: ManhattanBounds(),
			zones: []Zone{
				{Name: "SoHo", Centroid: Point{Lat: 40.72, Lon: -74.0}},
				{Name: "SoHo", Centroid: Point{Lat: 40.73, Lon: -74.0}},
			},
			wantErr: true,
		},
		{
			name:    "invalid centroid",
			bounds:  ManhattanBounds(),
			zones:   []Zone{{Name: "Nowhere", Centroid: Point{Lat: math.Inf(1), Lon: 0}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIndex(tt.bounds, tt.zones)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewIndex() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestContains(t *testing.T) {
	idx := DefaultIndex()

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"midtown", Point{Lat: 40.7549, Lon: -73.9840}, true},
		{"north boundary inclusive", Point{Lat: 40.882214, Lon: -73.97}, true},
		{"south boundary inclusive", Point{Lat: 40.680258, Lon: -73.97}, true},
		{"brooklyn", Point{Lat: 40.6782, Lon: -73.9442}, false},
		{"london", Point{Lat: 51.5074, Lon: -0.1278}, false},
		{"NaN latitude", Point{Lat: math.NaN(), Lon: -73.98}, false},
		{"NaN longitude", Point{Lat: 40.75, Lon: math.NaN()}, false},
		{"infinite latitude", Point{Lat: math.Inf(1), Lon: -73.98}, false},
		{"out of range latitude", Point{Lat: 95.0, Lon: -73.98}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := idx.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestNearestZone(t *testing.T) {
	idx := DefaultIndex()

	tests := []struct {
		name string
		p    Point
		want string
	}{
		{"at midtown centroid", Point{Lat: 40.7549, Lon: -73.9840}, "Midtown"},
		{"near harlem", Point{Lat: 40.8100, Lon: -73.9470}, "Harlem"},
		{"near financial district", Point{Lat: 40.7050, Lon: -74.0100}, "Financial District"},
		{"NaN point", Point{Lat: math.NaN(), Lon: -73.98}, UnknownZone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := idx.NearestZone(tt.p); got != tt.want {
				t.Errorf("NearestZone(%+v) = %q, want %q", tt.p, got, tt.want)
			}
		})
	}
}

func TestNearestZoneEmptySet(t *testing.T) {
	idx, err := NewIndex(ManhattanBounds(), nil)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if got := idx.NearestZone(Point{Lat: 40.75, Lon: -73.98}); got != UnknownZone {
		t.Errorf("NearestZone with empty zone set = %q, want %q", got, UnknownZone)
	}
}

func TestNearestZoneTieBreaksByOrder(t *testing.T) {
	// Two zones equidistant from the query point: the first declared wins.
	zones := []Zone{
		{Name: "West", Centroid: Point{Lat: 40.75, Lon: -74.00}},
		{Name: "East", Centroid: Point{Lat: 40.75, Lon: -73.94}},
	}
	idx, err := NewIndex(ManhattanBounds(), zones)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	mid := Point{Lat: 40.75, Lon: -73.97}
	if got := idx.NearestZone(mid); got != "West" {
		t.Errorf("NearestZone tie = %q, want first-declared %q", got, "West")
	}
}

func TestHaversine(t *testing.T) {
	// Financial District to Washington Heights is roughly 17 km.
	a := Point{Lat: 40.7074, Lon: -74.0113}
	b := Point{Lat: 40.8518, Lon: -73.9365}
	d := Haversine(a, b)
	if d < 15.0 || d > 19.0 {
		t.Errorf("Haversine = %f km, want roughly 17", d)
	}

	if d := Haversine(a, a); d != 0 {
		t.Errorf("Haversine of identical points = %f, want 0", d)
	}

	if Haversine(a, b) != Haversine(b, a) {
		t.Error("Haversine should be symmetric")
	}
}

func TestZonesReturnsCopy(t *testing.T) {
	idx := DefaultIndex()
	zones := idx.Zones()
	zones[0].Name = "mutated"

	if idx.Zones()[0].Name == "mutated" {
		t.Error("Zones() must return a copy, not the internal slice")
	}
}
