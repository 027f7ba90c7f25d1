// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package demographics

import "fmt"

// AgeCategoryPrefs lists category prefixes an age band gravitates toward.
// Primary matches score higher than secondary.
type AgeCategoryPrefs struct {
	Primary   []string `json:"primary" koanf:"primary"`
	Secondary []string `json:"secondary" koanf:"secondary"`
}

// GenderCategoryPrefs lists preferred and neutral category prefixes.
type GenderCategoryPrefs struct {
	Preferred []string `json:"preferred" koanf:"preferred"`
	Neutral   []string `json:"neutral" koanf:"neutral"`
}

// LifestylePrefs lists preferred category prefixes and the budget factor
// that scales the lifestyle contribution.
type LifestylePrefs struct {
	Preferred    []string `json:"preferred" koanf:"preferred"`
	BudgetFactor float64  `json:"budget_factor" koanf:"budget_factor"`
}

// PreferenceTables is the static category-preference data the scorer runs
// on. Supplied once at construction; never re-read per request.
type PreferenceTables struct {
	Age       map[AgeBand]AgeCategoryPrefs   `json:"age"`
	Gender    map[Gender]GenderCategoryPrefs `json:"gender"`
	Lifestyle map[Lifestyle]LifestylePrefs   `json:"lifestyle"`

	// Preference-mode category triggers. A venue matching any listed
	// substring gets that mode's multiplier.
	YoungerCategories     []string `json:"younger_categories"`
	OlderCategories       []string `json:"older_categories"`
	DiverseCategories     []string `json:"diverse_categories"`
	MixedGenderCategories []string `json:"mixed_gender_categories"`
}

// Validate checks the tables for construction-time errors: every known
// band, gender, and lifestyle needs an entry, and budget factors must be
// positive.
func (t PreferenceTables) Validate() error {
	for band := range bandToBucket {
		if _, ok := t.Age[band]; !ok {
			return fmt.Errorf("demographics: missing age preference entry for band %q", band)
		}
	}
	for _, g := range []Gender{GenderMale, GenderFemale, GenderNonBinary, GenderPreferNotToSay} {
		if _, ok := t.Gender[g]; !ok {
			return fmt.Errorf("demographics: missing gender preference entry for %q", g)
		}
	}
	for _, l := range []Lifestyle{LifestyleStudent, LifestyleProfessional, LifestyleFamily, LifestyleRetiree, LifestyleEntrepreneur} {
		p, ok := t.Lifestyle[l]
		if !ok {
			return fmt.Errorf("demographics: missing lifestyle preference entry for %q", l)
		}
		if p.BudgetFactor <= 0 {
			return fmt.Errorf("demographics: lifestyle %q budget factor must be positive, got %f", l, p.BudgetFactor)
		}
	}
	return nil
}

// DefaultPreferenceTables returns the built-in Manhattan preference data.
func DefaultPreferenceTables() PreferenceTables {
	return PreferenceTables{
		Age: map[AgeBand]AgeCategoryPrefs{
			Band16to20: {
				Primary:   []string{"catering.fast_food", "entertainment.cinema", "commercial.shopping_mall", "sport.fitness"},
				Secondary: []string{"catering.cafe", "leisure.park", "activity.community_centre"},
			},
			Band21to25: {
				Primary:   []string{"entertainment.nightclub", "catering.bar", "catering.cafe", "sport.fitness"},
				Secondary: []string{"entertainment.cinema", "catering.restaurant", "commercial.shopping_mall"},
			},
			Band26to30: {
				Primary:   []string{"catering.restaurant", "catering.bar", "sport.fitness", "office.coworking"},
				Secondary: []string{"entertainment.culture", "catering.cafe", "commercial.electronics"},
			},
			Band31to35: {
				Primary:   []string{"catering.restaurant", "leisure.spa", "sport.tennis", "commercial.books"},
				Secondary: []string{"entertainment.museum", "leisure.park", "catering.cafe"},
			},
			Band36to40: {
				Primary:   []string{"catering.restaurant", "leisure.park", "sport.tennis", "education.library"},
				Secondary: []string{"entertainment.theatre", "leisure.spa", "commercial.books"},
			},
			Band41to45: {
				Primary:   []string{"leisure.park", "catering.restaurant", "sport.fitness", "entertainment.culture"},
				Secondary: []string{"education.library", "leisure.spa", "commercial.books"},
			},
			Band46to50: {
				Primary:   []string{"leisure.park", "entertainment.culture", "education.library", "leisure.spa"},
				Secondary: []string{"catering.restaurant", "commercial.books", "tourism.sights"},
			},
			Band51to55: {
				Primary:   []string{"leisure.park", "entertainment.museum", "education.library", "tourism.sights"},
				Secondary: []string{"leisure.spa", "commercial.books", "catering.restaurant"},
			},
			Band56to60: {
				Primary:   []string{"leisure.park", "entertainment.museum", "education.library", "tourism.sights"},
				Secondary: []string{"leisure.spa", "commercial.books", "entertainment.culture"},
			},
			Band61Plus: {
				Primary:   []string{"leisure.park", "education.library", "entertainment.museum", "tourism.sights"},
				Secondary: []string{"leisure.spa", "commercial.books", "entertainment.culture"},
			},
		},
		Gender: map[Gender]GenderCategoryPrefs{
			GenderMale: {
				Preferred: []string{"sport.fitness", "sport.football", "catering.bar", "catering.pub"},
				Neutral:   []string{"catering.restaurant", "entertainment.cinema", "leisure.park"},
			},
			GenderFemale: {
				Preferred: []string{"leisure.spa", "commercial.clothing", "catering.cafe", "commercial.shopping_mall"},
				Neutral:   []string{"catering.restaurant", "entertainment.cinema", "leisure.park"},
			},
			GenderNonBinary: {
				Preferred: []string{"activity.community_centre", "catering.cafe", "education.library", "office.coworking"},
				Neutral:   []string{"catering.restaurant", "entertainment.cinema", "leisure.park"},
			},
			GenderPreferNotToSay: {
				Preferred: nil,
				Neutral:   []string{"catering.restaurant", "entertainment.cinema", "leisure.park"},
			},
		},
		Lifestyle: map[Lifestyle]LifestylePrefs{
			LifestyleStudent: {
				Preferred:    []string{"catering.fast_food", "catering.cafe", "education.library", "office.coworking"},
				BudgetFactor: 0.7,
			},
			LifestyleProfessional: {
				Preferred:    []string{"catering.restaurant", "catering.bar", "sport.fitness", "office.coworking"},
				BudgetFactor: 1.2,
			},
			LifestyleFamily: {
				Preferred:    []string{"leisure.park", "catering.restaurant", "commercial.shopping_mall", "entertainment.cinema"},
				BudgetFactor: 1.0,
			},
			LifestyleRetiree: {
				Preferred:    []string{"leisure.park", "education.library", "entertainment.museum", "leisure.spa"},
				BudgetFactor: 0.9,
			},
			LifestyleEntrepreneur: {
				Preferred:    []string{"office.coworking", "catering.cafe", "catering.restaurant", "activity.community_centre"},
				BudgetFactor: 1.1,
			},
		},
		YoungerCategories:     []string{"nightclub", "fast_food", "fitness"},
		OlderCategories:       []string{"museum", "library", "park"},
		DiverseCategories:     []string{"restaurant", "cinema", "park"},
		MixedGenderCategories: []string{"restaurant", "cinema", "community"},
	}
}

// lifestyleAffinity maps each lifestyle to the age buckets whose mass counts
// toward lifestyle compatibility.
var lifestyleAffinity = map[Lifestyle][]string{
	LifestyleStudent:      {Bucket16to25},
	LifestyleProfessional: {Bucket26to35, Bucket36to45},
	LifestyleFamily:       {Bucket36to45, Bucket46to55},
	LifestyleRetiree:      {Bucket46to55, Bucket56Plus},
	LifestyleEntrepreneur: {Bucket16to25, Bucket26to35},
}
