// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package geo

import "math"

// maxTowerRangeKm bounds the distance computation: towers farther than
// this are irrelevant to local density and excluding them keeps global
// sparsity from collapsing the normalization.
const maxTowerRangeKm = 100.0

// neutralRemoteness is returned when the reference set offers no evidence
// in range: neither remote nor covered.
const neutralRemoteness = 0.5

// densityRadiiKm are the radii of the multi-scale density bins.
var densityRadiiKm = [4]float64{0.5, 1, 5, 15}

// densityCeilings are the per-radius calibration ceilings: log10 of an
// assumed maximally dense tower count for each radius. A bin at or above
// its ceiling normalizes to full coverage.
var densityCeilings = [4]float64{
	math.Log10(26),   // 0.5 km
	math.Log10(63),   // 1 km
	math.Log10(727),  // 5 km
	math.Log10(2487), // 15 km
}

// densityWeights blend the per-radius remoteness fractions. The middle
// radii carry the most signal; the innermost and outermost act as tie
// breakers for very dense and very sparse areas.
var densityWeights = [4]float64{0.2, 0.3, 0.3, 0.2}

// RemotenessScorer computes the inverse infrastructure density around a
// coordinate against a fixed cell-tower reference set. The set is loaded
// once and never mutated, so one scorer serves concurrent calls.
type RemotenessScorer struct {
	towers []Point
}

// NewRemotenessScorer creates a scorer over a tower reference set. An
// empty set is allowed; every score then defaults to neutral.
func NewRemotenessScorer(towers []Point) *RemotenessScorer {
	return &RemotenessScorer{towers: towers}
}

// TowerCount returns the size of the loaded reference set.
func (s *RemotenessScorer) TowerCount() int {
	return len(s.towers)
}

// Score returns the remoteness of a coordinate in [0,1]; higher means more
// remote. With no reference towers within range the result is exactly the
// neutral default 0.5.
//
// For each radius r the scorer counts towers within r km (inclusive), log
// transforms count+1, normalizes against the radius ceiling, and inverts
// so that sparse coverage scores high. The per-radius fractions are then
// blended and rounded to 3 decimals.
func (s *RemotenessScorer) Score(lat, lon float64) float64 {
	var counts [4]int
	inRange := 0
	for _, tower := range s.towers {
		d := Haversine(lat, lon, tower.Lat, tower.Lon)
		if d >= maxTowerRangeKm {
			continue
		}
		inRange++
		for i, r := range densityRadiiKm {
			if d <= r {
				counts[i]++
			}
		}
	}

	if inRange == 0 {
		return neutralRemoteness
	}

	score := 0.0
	for i := range densityRadiiKm {
		logDensity := math.Log10(float64(counts[i] + 1))
		normalized := math.Min(logDensity/densityCeilings[i], 1)
		score += densityWeights[i] * (1 - normalized)
	}

	return roundTo3(score)
}

// roundTo3 rounds to 3 decimal places.
func roundTo3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
