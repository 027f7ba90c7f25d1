// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package demographics

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/venuescope/internal/metrics"
)

// FallbackSource labels estimates produced without any source data.
const FallbackSource = "fallback"

// FusedSource labels estimates fused from more than one source.
const FusedSource = "fused"

// FallbackEstimate returns the documented floor estimate used when no source
// responds. Downstream scoring always operates on a well-formed distribution.
func FallbackEstimate() Estimate {
	return Estimate{
		AgeDistribution: Distribution{
			Bucket16to25: 0.20,
			Bucket26to35: 0.30,
			Bucket36to45: 0.25,
			Bucket46to55: 0.15,
			Bucket56Plus: 0.10,
		},
		GenderDistribution: Distribution{
			GenderKeyMale:   0.48,
			GenderKeyFemale: 0.48,
			GenderKeyOther:  0.04,
		},
		Confidence: 0.3,
		Source:     FallbackSource,
	}
}

// Fuser combines per-source demographic estimates into one using static
// reliability weights. Pure: no hidden state, no randomness.
type Fuser struct {
	// sources in configured order; order decides primary-source ties.
	sources []SourceConfig
	weights map[string]float64
	total   float64
	logger  zerolog.Logger
}

// NewFuser builds a Fuser over the given source set.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewFuser(sources []SourceConfig, logger zerolog.Logger) (*Fuser, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("demographics: fuser requires at least one source")
	}

	f := &Fuser{
		sources: make([]SourceConfig, len(sources)),
		weights: make(map[string]float64, len(sources)),
		logger:  logger.With().Str("component", "fusion").Logger(),
	}
	copy(f.sources, sources)

	for _, s := range sources {
		if s.Weight <= 0 {
			return nil, fmt.Errorf("demographics: source %q weight must be positive, got %f", s.ID, s.Weight)
		}
		if _, dup := f.weights[s.ID]; dup {
			return nil, fmt.Errorf("demographics: duplicate source id %q", s.ID)
		}
		f.weights[s.ID] = s.Weight
		f.total += s.Weight
	}

	return f, nil
}

// Fuse combines zero or more source estimates into one.
//
// Weights of the present subset are renormalized proportionally. Fused
// confidence is the weight-averaged source confidence scaled by coverage
// (present weight over total configured weight), so losing sources can only
// lower it. An empty set yields FallbackEstimate exactly.
func (f *Fuser) Fuse(estimates []SourceEstimate) Estimate {
	present := make([]SourceEstimate, 0, len(estimates))
	seen := make(map[string]struct{}, len(estimates))
	var presentWeight float64

	for _, se := range estimates {
		w, known := f.weights[se.SourceID]
		if !known {
			f.logger.Warn().Str("source", se.SourceID).Msg("ignoring estimate from unconfigured source")
			continue
		}
		if _, dup := seen[se.SourceID]; dup {
			continue
		}
		seen[se.SourceID] = struct{}{}
		present = append(present, se)
		presentWeight += w
	}

	if len(present) == 0 || presentWeight <= 0 {
		metrics.FusionFallbacks.Inc()
		return FallbackEstimate()
	}

	age := make(Distribution, len(AgeBuckets))
	gender := make(Distribution, len(GenderKeys))
	var confidence float64

	for _, se := range present {
		w := f.weights[se.SourceID] / presentWeight
		for k, v := range se.Estimate.AgeDistribution {
			age[k] += w * v
		}
		for k, v := range se.Estimate.GenderDistribution {
			gender[k] += w * v
		}
		confidence += w * se.Estimate.Confidence
	}

	coverage := presentWeight / f.total
	confidence = clamp01(confidence * coverage)

	out := Estimate{
		AgeDistribution:    age.Normalized(),
		GenderDistribution: gender.Normalized(),
		Confidence:         confidence,
		Source:             FusedSource,
		SourceCount:        len(present),
		PrimarySource:      f.primarySource(seen),
	}
	if len(present) == 1 {
		out.Source = present[0].SourceID
	}
	return out
}

// primarySource returns the highest-weight present source, configured order
// breaking ties.
func (f *Fuser) primarySource(present map[string]struct{}) string {
	var best string
	var bestWeight float64
	for _, s := range f.sources {
		if _, ok := present[s.ID]; !ok {
			continue
		}
		if s.Weight > bestWeight {
			best = s.ID
			bestWeight = s.Weight
		}
	}
	return best
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
