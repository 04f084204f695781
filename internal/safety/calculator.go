// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package safety

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pathguard/pathguard/internal/logging"
	"github.com/pathguard/pathguard/internal/metrics"
)

// RemotenessScorer is the local density-scoring dependency, satisfied by
// *geo.RemotenessScorer.
type RemotenessScorer interface {
	Score(lat, lon float64) float64
}

// Component weights. Geofence dominates: a known restricted or flagged
// zone is the strongest single safety signal we have.
const (
	weightRemoteness    = 0.2
	weightAccessibility = 0.2
	weightEnvironment   = 0.2
	weightGeofence      = 0.4
)

// Risk label cut points on the final 0-100 score.
const (
	labelLowFloor = 80
	labelMedFloor = 40
)

// defaultLookupTimeout bounds the external provider calls per scoring
// request. The core computation itself never blocks on I/O.
const defaultLookupTimeout = 10 * time.Second

// Calculator produces composite safety scores. Remoteness is computed
// locally against the loaded tower set; accessibility and hazard come from
// the injected providers. All state is read-only after construction.
type Calculator struct {
	remoteness    RemotenessScorer
	accessibility AccessibilityProvider
	hazard        HazardProvider
	lookupTimeout time.Duration
}

// NewCalculator wires a calculator. Nil providers degrade to the neutral
// implementations.
func NewCalculator(remoteness RemotenessScorer, accessibility AccessibilityProvider, hazard HazardProvider, lookupTimeout time.Duration) *Calculator {
	if accessibility == nil {
		accessibility = NeutralAccessibilityProvider{}
	}
	if hazard == nil {
		hazard = NeutralHazardProvider{}
	}
	if lookupTimeout <= 0 {
		lookupTimeout = defaultLookupTimeout
	}
	return &Calculator{
		remoteness:    remoteness,
		accessibility: accessibility,
		hazard:        hazard,
		lookupTimeout: lookupTimeout,
	}
}

// Score computes the safety breakdown for a coordinate. The two provider
// lookups run in parallel under a shared timeout; a failed or slow lookup
// is replaced by its neutral default and the scoring call still succeeds.
func (c *Calculator) Score(ctx context.Context, lat, lon float64, isGeofenced bool) Result {
	remotenessScore := c.remoteness.Score(lat, lon)

	accessibilityScore := NeutralAccessibility
	hazardScore := NeutralHazard

	lookupCtx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()

	// Collect both lookups; errors are absorbed per component, so the
	// group itself never fails.
	g, gctx := errgroup.WithContext(lookupCtx)
	g.Go(func() error {
		score, err := c.accessibility.AccessibilityScore(gctx, lat, lon)
		if err != nil {
			metrics.SafetyLookupFailures.WithLabelValues("accessibility").Inc()
			logging.Warn().Err(err).Msg("accessibility lookup failed, using neutral default")
			return nil
		}
		accessibilityScore = clamp01(score)
		return nil
	})
	g.Go(func() error {
		score, err := c.hazard.HazardScore(gctx, lat, lon)
		if err != nil {
			metrics.SafetyLookupFailures.WithLabelValues("hazard").Inc()
			logging.Warn().Err(err).Msg("hazard lookup failed, using neutral default")
			return nil
		}
		hazardScore = clamp01(score)
		return nil
	})
	_ = g.Wait()

	geofenceScore := 0.0
	if isGeofenced {
		geofenceScore = 1.0
	}

	weighted := roundTo2(
		weightRemoteness*remotenessScore +
			weightAccessibility*accessibilityScore +
			weightEnvironment*hazardScore +
			weightGeofence*geofenceScore)

	finalScore := (1 - weighted) * 100

	return Result{
		Remoteness:          remotenessScore,
		Accessibility:       accessibilityScore,
		EnvironmentalHazard: hazardScore,
		Geofence:            geofenceScore,
		FinalScore:          finalScore,
		RiskLevel:           labelFor(finalScore),
	}
}

// labelFor maps a final safety score to its risk label.
func labelFor(score float64) RiskLabel {
	switch {
	case score >= labelLowFloor:
		return LabelLow
	case score >= labelMedFloor:
		return LabelMed
	default:
		return LabelHigh
	}
}

// clamp01 restricts a provider value to [0,1]; providers are trusted to be
// normalized but a misbehaving one must not push the blend out of range.
func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

// roundTo2 rounds to 2 decimal places.
func roundTo2(f float64) float64 {
	return math.Round(f*100) / 100
}

// roundTo3 rounds to 3 decimal places.
func roundTo3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
