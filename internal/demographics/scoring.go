// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package demographics

import (
	"fmt"
	"strings"
)

// Scorer computes category-preference and demographic-compatibility scores
// and blends them. All methods are pure and total: any well-formed venue and
// profile produce a score.
type Scorer struct {
	tables PreferenceTables

	ageWeight       float64
	genderWeight    float64
	lifestyleWeight float64
	realtimeBlend   float64
	staticBlend     float64
	referenceMax    float64
}

// NewScorer validates the preference tables and builds a Scorer.
func NewScorer(cfg Config, tables PreferenceTables) (*Scorer, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	if cfg.AgeWeight+cfg.GenderWeight+cfg.LifestyleWeight <= 0 {
		return nil, fmt.Errorf("demographics: compatibility weights must not all be zero")
	}
	if cfg.CategoryReferenceMax <= 0 {
		return nil, fmt.Errorf("demographics: category_reference_max must be positive, got %f", cfg.CategoryReferenceMax)
	}

	return &Scorer{
		tables:          tables,
		ageWeight:       cfg.AgeWeight,
		genderWeight:    cfg.GenderWeight,
		lifestyleWeight: cfg.LifestyleWeight,
		realtimeBlend:   cfg.RealtimeBlend,
		staticBlend:     cfg.StaticBlend,
		referenceMax:    cfg.CategoryReferenceMax,
	}, nil
}

// CategoryScore scores a venue against the static preference tables.
//
// Per category: age-band primary +3, secondary +1; gender preferred +2,
// neutral +0.5; lifestyle preferred +2. The lifestyle subtotal is scaled by
// the lifestyle's budget factor, then the preference-mode multiplier applies
// to the whole. Never negative.
func (s *Scorer) CategoryScore(venue Venue, profile Profile) float64 {
	var ageSub, genderSub, lifestyleSub float64

	agePrefs, hasAge := s.tables.Age[profile.AgeBand]
	genderPrefs, hasGender := s.tables.Gender[profile.Gender]
	lifestylePrefs, hasLifestyle := s.tables.Lifestyle[profile.Lifestyle]

	for _, cat := range venue.Categories {
		if hasAge {
			switch {
			case matchesAny(cat, agePrefs.Primary):
				ageSub += 3
			case matchesAny(cat, agePrefs.Secondary):
				ageSub += 1
			}
		}
		if hasGender {
			switch {
			case matchesAny(cat, genderPrefs.Preferred):
				genderSub += 2
			case matchesAny(cat, genderPrefs.Neutral):
				genderSub += 0.5
			}
		}
		if hasLifestyle && matchesAny(cat, lifestylePrefs.Preferred) {
			lifestyleSub += 2
		}
	}

	if hasLifestyle {
		lifestyleSub *= lifestylePrefs.BudgetFactor
	}

	total := (ageSub + genderSub + lifestyleSub) * s.preferenceModifier(profile.PreferenceMode, venue.Categories)
	if total < 0 {
		return 0
	}
	return total
}

// preferenceModifier returns the preference-mode multiplier for a venue's
// categories.
func (s *Scorer) preferenceModifier(mode PreferenceMode, categories []string) float64 {
	switch mode {
	case PreferYounger:
		if anyCategoryContains(categories, s.tables.YoungerCategories...) {
			return 1.3
		}
	case PreferOlder:
		if anyCategoryContains(categories, s.tables.OlderCategories...) {
			return 1.3
		}
	case PreferDiverse:
		if anyCategoryContains(categories, s.tables.DiverseCategories...) {
			return 1.2
		}
	case PreferMixedGender:
		if anyCategoryContains(categories, s.tables.MixedGenderCategories...) {
			return 1.2
		}
	case PreferSameGender, PreferSimilar, "":
		// No category signal distinguishes these; neutral multiplier.
	}
	return 1.0
}

// CompatibilityScore scores a profile against a fused estimate in [0,1].
//
// Weighted sum of the fused age mass at the profile's bucket, the fused
// gender mass at the profile's gender (0.5 neutral when the user declines to
// state), and the age mass over the lifestyle's affine buckets. The sum is
// scaled by the estimate's confidence.
func (s *Scorer) CompatibilityScore(profile Profile, est Estimate) float64 {
	var ageComp float64
	if bucket, ok := profile.AgeBand.Bucket(); ok {
		ageComp = est.AgeDistribution[bucket]
	}

	genderComp := 0.5
	if key, ok := profile.Gender.distributionKey(); ok {
		genderComp = est.GenderDistribution[key]
	}

	var lifestyleComp float64
	for _, bucket := range lifestyleAffinity[profile.Lifestyle] {
		lifestyleComp += est.AgeDistribution[bucket]
	}

	score := s.ageWeight*ageComp + s.genderWeight*genderComp + s.lifestyleWeight*lifestyleComp
	return clamp01(score * est.Confidence)
}

// NormalizeCategory maps a raw category score to [0,1] against the
// configured reference maximum.
func (s *Scorer) NormalizeCategory(raw float64) float64 {
	return clamp01(raw / s.referenceMax)
}

// Blend combines compatibility with the normalized category score for an
// enhanced venue.
func (s *Scorer) Blend(compatibility, rawCategory float64) float64 {
	return clamp01(s.realtimeBlend*compatibility + s.staticBlend*s.NormalizeCategory(rawCategory))
}

// matchesAny reports whether the category tag contains any preference
// prefix. Substring containment, so "catering.bar.pub" matches "catering.bar".
func matchesAny(category string, prefs []string) bool {
	for _, pref := range prefs {
		if strings.Contains(category, pref) {
			return true
		}
	}
	return false
}
