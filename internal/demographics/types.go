// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

// Package demographics implements the scoring core: multi-source estimate
// fusion, contextual adjustment, cached retrieval, compatibility scoring,
// and batch venue ranking.
//
// The core is deterministic: no randomness, no wall-clock reads. Time enters
// only through RankContext and the cache's injected clock, so identical
// inputs under a frozen clock produce identical output.
package demographics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tomtom215/venuescope/internal/geo"
)

// Canonical age distribution buckets, in display order.
const (
	Bucket16to25 = "16-25"
	Bucket26to35 = "26-35"
	Bucket36to45 = "36-45"
	Bucket46to55 = "46-55"
	Bucket56Plus = "56+"
)

// AgeBuckets lists the canonical age buckets in order.
var AgeBuckets = []string{Bucket16to25, Bucket26to35, Bucket36to45, Bucket46to55, Bucket56Plus}

// Gender distribution keys.
const (
	GenderKeyMale   = "male"
	GenderKeyFemale = "female"
	GenderKeyOther  = "other"
)

// GenderKeys lists the gender distribution keys in order.
var GenderKeys = []string{GenderKeyMale, GenderKeyFemale, GenderKeyOther}

// distributionTolerance is the allowed deviation from 1.0 for a normalized
// distribution's mass.
const distributionTolerance = 1e-6

// Distribution maps bucket names to probability mass.
type Distribution map[string]float64

// Clone returns a deep copy.
func (d Distribution) Clone() Distribution {
	out := make(Distribution, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Sum returns the total mass. Keys are summed in sorted order so the
// floating-point result is identical across calls regardless of map
// iteration order, preserving the package's determinism guarantee.
func (d Distribution) Sum() float64 {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var s float64
	for _, k := range keys {
		s += d[k]
	}
	return s
}

// Normalized returns a copy scaled to unit mass. A distribution with zero or
// non-finite mass is returned unchanged; callers guard against that case.
func (d Distribution) Normalized() Distribution {
	s := d.Sum()
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return d.Clone()
	}
	out := make(Distribution, len(d))
	for k, v := range d {
		out[k] = v / s
	}
	return out
}

// Valid reports whether all masses are finite, non-negative, and sum to 1
// within tolerance.
func (d Distribution) Valid() bool {
	for _, v := range d {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return math.Abs(d.Sum()-1.0) <= distributionTolerance
}

// Estimate is a demographic estimate for a venue at a point in time.
type Estimate struct {
	AgeDistribution    Distribution `json:"age_distribution"`
	GenderDistribution Distribution `json:"gender_distribution"`

	// Confidence in [0,1]. Scales compatibility contributions.
	Confidence float64 `json:"confidence"`

	// Source labels the origin: a source ID, "fused", or "fallback".
	Source string `json:"source"`

	// SourceCount is how many sources contributed to a fused estimate.
	SourceCount int `json:"source_count"`

	// PrimarySource is the highest-weight contributing source, if any.
	PrimarySource string `json:"primary_source,omitempty"`

	// Zone is the named coverage zone the venue resolved to.
	Zone string `json:"zone,omitempty"`

	// ObservedAt is the time bucket the estimate was computed for.
	ObservedAt time.Time `json:"observed_at"`
}

// SourceEstimate pairs a source ID with the estimate it produced.
type SourceEstimate struct {
	SourceID string
	Estimate Estimate
}

// AgeBand is a user profile age band, finer-grained than the distribution
// buckets.
type AgeBand string

// User profile age bands.
const (
	Band16to20 AgeBand = "16-20"
	Band21to25 AgeBand = "21-25"
	Band26to30 AgeBand = "26-30"
	Band31to35 AgeBand = "31-35"
	Band36to40 AgeBand = "36-40"
	Band41to45 AgeBand = "41-45"
	Band46to50 AgeBand = "46-50"
	Band51to55 AgeBand = "51-55"
	Band56to60 AgeBand = "56-60"
	Band61Plus AgeBand = "61+"
)

// bandToBucket maps profile age bands onto the canonical distribution buckets.
var bandToBucket = map[AgeBand]string{
	Band16to20: Bucket16to25,
	Band21to25: Bucket16to25,
	Band26to30: Bucket26to35,
	Band31to35: Bucket26to35,
	Band36to40: Bucket36to45,
	Band41to45: Bucket36to45,
	Band46to50: Bucket46to55,
	Band51to55: Bucket46to55,
	Band56to60: Bucket56Plus,
	Band61Plus: Bucket56Plus,
}

// Bucket returns the distribution bucket the band falls into.
func (b AgeBand) Bucket() (string, bool) {
	bucket, ok := bandToBucket[b]
	return bucket, ok
}

// Valid reports whether the band is a known value.
func (b AgeBand) Valid() bool {
	_, ok := bandToBucket[b]
	return ok
}

// Gender is a user profile gender identity.
type Gender string

// User profile genders.
const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderNonBinary      Gender = "non-binary"
	GenderPreferNotToSay Gender = "prefer-not-to-say"
)

// Valid reports whether the gender is a known value.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNonBinary, GenderPreferNotToSay:
		return true
	}
	return false
}

// distributionKey maps a profile gender onto the gender distribution key it
// reads. prefer-not-to-say reads no key and contributes neutrally.
func (g Gender) distributionKey() (string, bool) {
	switch g {
	case GenderMale:
		return GenderKeyMale, true
	case GenderFemale:
		return GenderKeyFemale, true
	case GenderNonBinary:
		return GenderKeyOther, true
	}
	return "", false
}

// Lifestyle is a user profile lifestyle segment.
type Lifestyle string

// User profile lifestyles.
const (
	LifestyleStudent      Lifestyle = "student"
	LifestyleProfessional Lifestyle = "professional"
	LifestyleFamily       Lifestyle = "family"
	LifestyleRetiree      Lifestyle = "retiree"
	LifestyleEntrepreneur Lifestyle = "entrepreneur"
)

// Valid reports whether the lifestyle is a known value.
func (l Lifestyle) Valid() bool {
	switch l {
	case LifestyleStudent, LifestyleProfessional, LifestyleFamily,
		LifestyleRetiree, LifestyleEntrepreneur:
		return true
	}
	return false
}

// PreferenceMode is the crowd preference modifier applied to category
// scoring.
type PreferenceMode string

// Preference modes. Empty is treated as PreferSimilar (no modifier).
const (
	PreferSimilar     PreferenceMode = "similar"
	PreferYounger     PreferenceMode = "younger"
	PreferOlder       PreferenceMode = "older"
	PreferDiverse     PreferenceMode = "diverse"
	PreferMixedGender PreferenceMode = "mixed-gender"
	PreferSameGender  PreferenceMode = "same-gender"
)

// Valid reports whether the mode is known or unset.
func (p PreferenceMode) Valid() bool {
	switch p {
	case "", PreferSimilar, PreferYounger, PreferOlder, PreferDiverse,
		PreferMixedGender, PreferSameGender:
		return true
	}
	return false
}

// Profile describes the user venues are ranked for. Immutable per request.
type Profile struct {
	AgeBand        AgeBand        `json:"age_band"`
	Gender         Gender         `json:"gender"`
	Lifestyle      Lifestyle      `json:"lifestyle"`
	PreferenceMode PreferenceMode `json:"preference_mode,omitempty"`

	// Interests are free-form tags; venues can be pre-filtered by them
	// before ranking.
	Interests []string `json:"interests,omitempty"`
}

// Validate checks all profile fields against their known value sets.
func (p Profile) Validate() error {
	if !p.AgeBand.Valid() {
		return fmt.Errorf("demographics: unknown age band %q", p.AgeBand)
	}
	if !p.Gender.Valid() {
		return fmt.Errorf("demographics: unknown gender %q", p.Gender)
	}
	if !p.Lifestyle.Valid() {
		return fmt.Errorf("demographics: unknown lifestyle %q", p.Lifestyle)
	}
	if !p.PreferenceMode.Valid() {
		return fmt.Errorf("demographics: unknown preference mode %q", p.PreferenceMode)
	}
	return nil
}

// Venue is a candidate location to score. Read-only within the core;
// missing categories are treated as an empty sequence.
type Venue struct {
	ID         string    `json:"id,omitempty"`
	Name       string    `json:"name"`
	Categories []string  `json:"categories"`
	Point      geo.Point `json:"point"`

	// Attributes carries free-form upstream metadata; the core never reads
	// it but preserves it through ranking.
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Key returns the de-duplication and cache identity: the stable ID when
// present, otherwise the name.
func (v Venue) Key() string {
	if v.ID != "" {
		return v.ID
	}
	return v.Name
}

// Weather is optional ambient weather context for a ranking request.
type Weather struct {
	// Conditions is a lowercase label such as "clear", "rain", "clouds".
	Conditions string `json:"conditions"`

	TemperatureC float64 `json:"temperature_c"`
}

// Event is an optional nearby happening that skews venue demographics.
type Event struct {
	Name  string    `json:"name"`
	Point geo.Point `json:"point"`

	// AgeProfile is the expected attendee age distribution. Events without
	// one do not influence adjustment.
	AgeProfile Distribution `json:"age_profile,omitempty"`
}

// RankContext carries the ambient context a ranking request is evaluated
// under. The zero value means "now, no origin, no weather, no events".
type RankContext struct {
	// Now is the evaluation time. Zero means the ranker's clock.
	Now time.Time `json:"now,omitempty"`

	// Origin, when set, adds distance annotations to results.
	Origin *geo.Point `json:"origin,omitempty"`

	Weather *Weather `json:"weather,omitempty"`
	Events  []Event  `json:"events,omitempty"`
}

// ScoredVenue is one ranked result.
type ScoredVenue struct {
	Venue Venue  `json:"venue"`
	Zone  string `json:"zone,omitempty"`

	// Score is the blended ranking score in [0,1].
	Score float64 `json:"score"`

	// CategoryScore is the raw static preference-table score (unnormalized).
	CategoryScore float64 `json:"category_score"`

	// Compatibility is the demographic compatibility in [0,1]; zero when not
	// enhanced.
	Compatibility float64 `json:"compatibility"`

	// Confidence is the confidence of the estimate used; zero when not
	// enhanced.
	Confidence float64 `json:"confidence"`

	// Enhanced reports whether demographic enhancement was applied.
	Enhanced bool `json:"enhanced"`

	// LowConfidence flags enhanced results whose estimate confidence fell
	// below the configured threshold.
	LowConfidence bool `json:"low_confidence,omitempty"`

	// DistanceKm is set when the request supplied an origin.
	DistanceKm *float64 `json:"distance_km,omitempty"`

	// Demographics is the estimate the score was computed from, when enhanced.
	Demographics *Estimate `json:"demographics,omitempty"`
}
