// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package anomaly

import (
	"fmt"
	"math"
)

// FeatureVector maps semantic feature names to numeric values. It is the
// intermediate form between a raw telemetry record and the dense vector the
// model consumes; ordering is imposed later by Schema.Align, so iteration
// order here never matters.
type FeatureVector map[string]float64

// riskIndicatorPrefix is the naming convention for the one-hot area risk
// indicator columns, fixed at training time.
const riskIndicatorPrefix = "risk_"

// riskColumn returns the indicator column name for an area risk category.
func riskColumn(risk AreaRisk) string {
	return riskIndicatorPrefix + string(risk)
}

// hoursPerDay and activityPeakHour parameterize the cyclical hour encoding.
// The phase shift rotates the cycle so that its peak lands on 07:00, the
// modeled start of the daily activity curve.
const (
	hoursPerDay      = 24
	activityPeakHour = 7
)

// cyclicalHour encodes an hour of day as phase-shifted sine/cosine pair.
// At hour == activityPeakHour the pair is (0, 1).
func cyclicalHour(hour int) (sin, cos float64) {
	angle := (float64(hour)/hoursPerDay)*2*math.Pi - (float64(activityPeakHour)/hoursPerDay)*2*math.Pi
	return math.Sin(angle), math.Cos(angle)
}

// VectorizeDropoff expands a drop-off record into named features. The area
// risk category is one-hot expanded with a single indicator column for the
// category present on this record; alignment against the fitted schema
// supplies the remaining indicator columns as zeros.
//
// The GPS accuracy length contract (exactly GPSAccuracyReadings samples) is
// enforced at the API boundary; a violation reaching this far is a caller
// bug, reported as an error rather than silently mis-shaping the vector.
func VectorizeDropoff(rec DropoffRecord) (FeatureVector, error) {
	if len(rec.GPSAccuracy) != GPSAccuracyReadings {
		return nil, fmt.Errorf("gps_accuracy must have exactly %d readings, got %d",
			GPSAccuracyReadings, len(rec.GPSAccuracy))
	}

	vec := FeatureVector{
		"network_connectivity_state":      float64(rec.NetworkConnectivityState),
		"acc_vs_loc":                      float64(rec.AccVsLoc),
		"time_since_last_successful_ping": rec.TimeSinceLastSuccessfulPing,
	}
	for i, acc := range rec.GPSAccuracy {
		vec[fmt.Sprintf("gps_accuracy_%d", i+1)] = acc
	}
	vec[riskColumn(rec.AreaRisk)] = 1

	return vec, nil
}

// VectorizeInactivity expands an inactivity record into named features.
// The raw hour never appears in the vector; it is replaced by the cyclical
// hour_sin/hour_cos pair.
func VectorizeInactivity(rec InactivityRecord) FeatureVector {
	sin, cos := cyclicalHour(rec.Hour)

	vec := FeatureVector{
		"hour_sin":                        sin,
		"hour_cos":                        cos,
		"motion_state":                    float64(rec.MotionState),
		"displacement_m":                  rec.DisplacementM,
		"time_since_last_interaction_min": rec.TimeSinceLastInteractionMin,
		"missed_ping_count":               float64(rec.MissedPingCount),
		"battery_level_percent":           rec.BatteryLevelPercent,
		"is_expected_active":              float64(rec.IsExpectedActive),
	}
	vec[riskColumn(rec.AreaRisk)] = 1

	return vec
}
