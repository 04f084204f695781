// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

// Package safety blends remoteness, accessibility, environmental hazard and
// geofence signals into a single 0-100 location safety score. The
// accessibility and hazard components come from injected providers with
// documented neutral fallbacks, so scoring never fails because an external
// lookup did.
package safety

import "context"

// RiskLabel classifies a final safety score.
type RiskLabel string

const (
	LabelLow  RiskLabel = "low"
	LabelMed  RiskLabel = "med"
	LabelHigh RiskLabel = "high"
)

// Result is the detailed breakdown of one safety scoring call. Component
// scores are in [0,1]; FinalScore is in [0,100] with higher = safer.
type Result struct {
	Remoteness          float64   `json:"remoteness_score"`
	Accessibility       float64   `json:"accessibility_score"`
	EnvironmentalHazard float64   `json:"environmental_hazard_score"`
	Geofence            float64   `json:"geofence_score"`
	FinalScore          float64   `json:"final_safety_score"`
	RiskLevel           RiskLabel `json:"risk_level"`
}

// AccessibilityProvider supplies the normalized distance-to-amenities
// component: 0 means essential services are immediately at hand, 1 means
// everything relevant is at or beyond the distance cap.
type AccessibilityProvider interface {
	AccessibilityScore(ctx context.Context, lat, lon float64) (float64, error)
}

// HazardProvider supplies the normalized environmental hazard component:
// 0 for clear conditions, approaching 1 for severe weather.
type HazardProvider interface {
	HazardScore(ctx context.Context, lat, lon float64) (float64, error)
}

// Neutral fallbacks, substituted whenever a provider is unreachable, times
// out, or returns garbage. Lookup failures are absorbed here and never
// surface as request failures.
const (
	// NeutralHazard assumes mild baseline conditions.
	NeutralHazard = 0.1

	// NeutralAccessibility assumes every amenity at the distance cap,
	// matching a provider that found nothing within range.
	NeutralAccessibility = 1.0
)

// NeutralAccessibilityProvider always returns the neutral accessibility
// value. Used when no amenity endpoint is configured, and in tests.
type NeutralAccessibilityProvider struct{}

// AccessibilityScore implements AccessibilityProvider.
func (NeutralAccessibilityProvider) AccessibilityScore(context.Context, float64, float64) (float64, error) {
	return NeutralAccessibility, nil
}

// NeutralHazardProvider always returns the neutral hazard value.
type NeutralHazardProvider struct{}

// HazardScore implements HazardProvider.
func (NeutralHazardProvider) HazardScore(context.Context, float64, float64) (float64, error) {
	return NeutralHazard, nil
}
