// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package demographics

import (
	"math"
	"testing"
)

func TestDistributionNormalized(t *testing.T) {
	d := Distribution{"a": 2, "b": 6}
	n := d.Normalized()

	if !approxEqual(n["a"], 0.25, 1e-9) || !approxEqual(n["b"], 0.75, 1e-9) {
		t.Errorf("Normalized = %v, want {a:0.25 b:0.75}", n)
	}
	if d["a"] != 2 {
		t.Error("Normalized must not mutate the receiver")
	}

	zero := Distribution{"a": 0}
	if got := zero.Normalized(); got["a"] != 0 {
		t.Errorf("zero-mass distribution should pass through, got %v", got)
	}
}

func TestDistributionValid(t *testing.T) {
	if !(uniformAge()).Valid() {
		t.Error("uniform distribution should be valid")
	}
	if (Distribution{"a": 0.5}).Valid() {
		t.Error("under-unit mass should be invalid")
	}
	if (Distribution{"a": 1.5, "b": -0.5}).Valid() {
		t.Error("negative mass should be invalid")
	}
	if (Distribution{"a": math.NaN(), "b": 1}).Valid() {
		t.Error("NaN mass should be invalid")
	}
}

func TestAgeBandBuckets(t *testing.T) {
	tests := []struct {
		band AgeBand
		want string
	}{
		{Band16to20, Bucket16to25},
		{Band21to25, Bucket16to25},
		{Band26to30, Bucket26to35},
		{Band31to35, Bucket26to35},
		{Band36to40, Bucket36to45},
		{Band41to45, Bucket36to45},
		{Band46to50, Bucket46to55},
		{Band51to55, Bucket46to55},
		{Band56to60, Bucket56Plus},
		{Band61Plus, Bucket56Plus},
	}
	for _, tt := range tests {
		got, ok := tt.band.Bucket()
		if !ok || got != tt.want {
			t.Errorf("Bucket(%q) = %q, %v; want %q", tt.band, got, ok, tt.want)
		}
	}
	if _, ok := AgeBand("12-15").Bucket(); ok {
		t.Error("unknown band must not map")
	}
}

func TestVenueKeyFallsBackToName(t *testing.T) {
	if got := (Venue{ID: "abc", Name: "Cafe"}).Key(); got != "abc" {
		t.Errorf("Key = %q, want abc", got)
	}
	if got := (Venue{Name: "Cafe"}).Key(); got != "Cafe" {
		t.Errorf("Key = %q, want Cafe", got)
	}
}

func TestProfileValidate(t *testing.T) {
	valid := Profile{
		AgeBand:        Band26to30,
		Gender:         GenderNonBinary,
		Lifestyle:      LifestyleEntrepreneur,
		PreferenceMode: PreferDiverse,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid profile rejected: %v", err)
	}

	tests := []struct {
		name    string
		profile Profile
	}{
		{"bad band", Profile{AgeBand: "0-99", Gender: GenderMale, Lifestyle: LifestyleStudent}},
		{"bad gender", Profile{AgeBand: Band21to25, Gender: "unknown", Lifestyle: LifestyleStudent}},
		{"bad lifestyle", Profile{AgeBand: Band21to25, Gender: GenderMale, Lifestyle: "astronaut"}},
		{"bad mode", Profile{AgeBand: Band21to25, Gender: GenderMale, Lifestyle: LifestyleStudent, PreferenceMode: "psychic"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.profile.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
