// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package anomaly

// Tiering maps a continuous decision-function score to a risk level via two
// cut points, evaluated in descending severity order. Both cuts are
// negative; lower scores are more anomalous, so the mapping is monotonic:
// a lower score never yields a less severe tier.
type Tiering struct {
	// High is the cut below which a score is RiskHigh.
	High float64

	// Medium is the cut below which a score is RiskMedium.
	// Must satisfy High <= Medium.
	Medium float64
}

// Tier returns the risk level for a score.
func (t Tiering) Tier(score float64) RiskLevel {
	switch {
	case score < t.High:
		return RiskHigh
	case score < t.Medium:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Calibrated thresholds and tier cuts per use case. Drop-off events are
// rarer and more costly to miss, so its anomaly threshold sits looser than
// the inactivity one.
var (
	// DropoffThreshold converts a drop-off score to a boolean verdict.
	DropoffThreshold = -0.15

	// InactivityThreshold converts an inactivity score to a boolean verdict.
	InactivityThreshold = -0.10

	// DropoffTiering holds the drop-off severity cuts.
	DropoffTiering = Tiering{High: -0.30, Medium: -0.15}

	// InactivityTiering holds the inactivity severity cuts.
	InactivityTiering = Tiering{High: -0.20, Medium: -0.10}
)
