// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package demographics

import (
	"strings"
	"time"

	"github.com/tomtom215/venuescope/internal/geo"
)

// AdjustContext is the ambient context an estimate is adjusted under.
type AdjustContext struct {
	Now        time.Time
	Categories []string
	Point      geo.Point
	Weather    *Weather
	Events     []Event
}

// Adjuster reshapes a base age distribution for time of day, day of week,
// weather, and nearby events. Apply is pure; the input estimate is not
// mutated.
type Adjuster struct {
	eventRadiusKm float64
	eventBlend    float64
}

// NewAdjuster builds an Adjuster from engine configuration.
func NewAdjuster(cfg Config) *Adjuster {
	return &Adjuster{
		eventRadiusKm: cfg.EventRadiusKm,
		eventBlend:    cfg.EventBlend,
	}
}

// Adverse-weather damping applies uniformly: attendance drops but the crowd
// mix is unchanged, so no bucket gains share after renormalization.
const adverseWeatherFactor = 0.6

// Apply returns a copy of est with the age distribution reweighted for the
// given context and renormalized. The gender distribution and confidence
// pass through unchanged.
func (a *Adjuster) Apply(est Estimate, actx AdjustContext) Estimate {
	age := est.AgeDistribution.Clone()

	a.applyTimeRules(age, actx)
	a.applyWeatherRule(age, actx)
	age = a.applyEventRule(age, actx)

	out := est
	out.AgeDistribution = age.Normalized()
	return out
}

// applyTimeRules multiplies matching buckets per category-keyed hour rules.
func (a *Adjuster) applyTimeRules(age Distribution, actx AdjustContext) {
	hour := actx.Now.Hour()
	weekend := actx.Now.Weekday() == time.Saturday || actx.Now.Weekday() == time.Sunday

	if anyCategoryContains(actx.Categories, "bar", "nightclub") && (hour >= 22 || hour <= 2) {
		age[Bucket16to25] *= 1.3
		age[Bucket26to35] *= 1.2
		age[Bucket36to45] *= 0.7
		age[Bucket46to55] *= 0.7
		age[Bucket56Plus] *= 0.7
	}

	if anyCategoryContains(actx.Categories, "cafe") && hour >= 7 && hour <= 10 {
		age[Bucket26to35] *= 1.2
		age[Bucket36to45] *= 1.1
	}

	mealHour := (hour >= 12 && hour <= 14) || (hour >= 18 && hour <= 21)
	if anyCategoryContains(actx.Categories, "restaurant") && mealHour {
		if weekend {
			age[Bucket36to45] *= 1.3
			age[Bucket46to55] *= 1.1
		} else {
			age[Bucket26to35] *= 1.2
		}
	}
}

// applyWeatherRule adjusts outdoor venues only. Indoor venues pass through.
func (a *Adjuster) applyWeatherRule(age Distribution, actx AdjustContext) {
	if actx.Weather == nil {
		return
	}
	if !anyCategoryContains(actx.Categories, "park", "beach", "outdoor") {
		return
	}

	conditions := strings.ToLower(actx.Weather.Conditions)
	adverse := strings.Contains(conditions, "rain") ||
		strings.Contains(conditions, "snow") ||
		strings.Contains(conditions, "storm") ||
		actx.Weather.TemperatureC < 10
	favorable := (conditions == "clear" || conditions == "sunny") &&
		actx.Weather.TemperatureC > 20

	switch {
	case adverse:
		for k := range age {
			age[k] *= adverseWeatherFactor
		}
	case favorable:
		age[Bucket16to25] *= 1.3
		age[Bucket26to35] *= 1.15
	}
}

// applyEventRule nudges the distribution toward the nearest in-radius
// event's attendee profile. Events without a profile are no-ops.
func (a *Adjuster) applyEventRule(age Distribution, actx AdjustContext) Distribution {
	if len(actx.Events) == 0 || !actx.Point.Valid() {
		return age
	}

	var nearest *Event
	var nearestDist float64
	for i := range actx.Events {
		ev := &actx.Events[i]
		if len(ev.AgeProfile) == 0 || !ev.Point.Valid() {
			continue
		}
		d := geo.Haversine(actx.Point, ev.Point)
		if d > a.eventRadiusKm {
			continue
		}
		if nearest == nil || d < nearestDist {
			nearest = ev
			nearestDist = d
		}
	}
	if nearest == nil {
		return age
	}

	profile := nearest.AgeProfile.Normalized()
	base := age.Normalized()
	out := make(Distribution, len(base))
	for k, v := range base {
		out[k] = (1 - a.eventBlend) * v
	}
	for k, v := range profile {
		out[k] += a.eventBlend * v
	}
	return out
}

// anyCategoryContains reports whether any category tag contains any of the
// given substrings. Matching is substring containment, so "catering.bar.pub"
// matches "bar".
func anyCategoryContains(categories []string, substrings ...string) bool {
	for _, cat := range categories {
		for _, sub := range substrings {
			if strings.Contains(cat, sub) {
				return true
			}
		}
	}
	return false
}
