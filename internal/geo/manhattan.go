// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package geo

// ManhattanBounds is the default coverage rectangle.
func ManhattanBounds() BoundingBox {
	return BoundingBox{
		North: 40.882214,
		South: 40.680258,
		East:  -73.907000,
		West:  -74.047285,
	}
}

// ManhattanZones returns the default zone set, ordered south to north.
// Order matters for nearest-zone tie-breaking.
func ManhattanZones() []Zone {
	return []Zone{
		{Name: "Financial District", Centroid: Point{Lat: 40.7074, Lon: -74.0113}},
		{Name: "SoHo", Centroid: Point{Lat: 40.7230, Lon: -74.0030}},
		{Name: "Greenwich Village", Centroid: Point{Lat: 40.7335, Lon: -74.0027}},
		{Name: "East Village", Centroid: Point{Lat: 40.7281, Lon: -73.9837}},
		{Name: "Chelsea", Centroid: Point{Lat: 40.7465, Lon: -74.0014}},
		{Name: "Midtown", Centroid: Point{Lat: 40.7549, Lon: -73.9840}},
		{Name: "Upper East Side", Centroid: Point{Lat: 40.7736, Lon: -73.9566}},
		{Name: "Upper West Side", Centroid: Point{Lat: 40.7870, Lon: -73.9754}},
		{Name: "Harlem", Centroid: Point{Lat: 40.8116, Lon: -73.9465}},
		{Name: "Washington Heights", Centroid: Point{Lat: 40.8518, Lon: -73.9365}},
	}
}

// DefaultIndex builds the index for the default coverage area.
func DefaultIndex() *Index {
	idx, err := NewIndex(ManhattanBounds(), ManhattanZones())
	if err != nil {
		// Static data validated by tests; unreachable at runtime.
		panic(err)
	}
	return idx
}
