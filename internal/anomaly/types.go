// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package anomaly

import "errors"

// ErrModelNotLoaded is returned when scoring is attempted before the model
// artifact for the use case has been loaded. It is fatal to the request but
// recoverable at process level by completing the load step.
var ErrModelNotLoaded = errors.New("anomaly model not loaded")

// AreaRisk is the coarse external classification of a geographic zone's
// inherent risk, supplied by the mobile application with each record.
type AreaRisk string

const (
	AreaRiskLow  AreaRisk = "low"
	AreaRiskMed  AreaRisk = "med"
	AreaRiskHigh AreaRisk = "high"
)

// RiskLevel is the severity tier assigned to a continuous anomaly score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// UseCase identifies which of the two independently calibrated detectors
// produced a verdict.
type UseCase string

const (
	UseCaseDropoff    UseCase = "dropoff"
	UseCaseInactivity UseCase = "inactivity"
)

// GPSAccuracyReadings is the number of GPS accuracy samples expected per
// drop-off record. The mobile app collects one reading per 3-minute slice of
// its 15-minute reporting window.
const GPSAccuracyReadings = 5

// DropoffRecord is one telemetry report evaluated for unexpected signal
// drop-off. Immutable once received; consumed once per scoring call.
type DropoffRecord struct {
	// NetworkConnectivityState is 1 when the device currently has network
	// connectivity, 0 otherwise.
	NetworkConnectivityState int

	// AccVsLoc is the accelerometer/location consistency flag: 1 when the
	// accelerometer trace agrees with observed location change.
	AccVsLoc int

	// TimeSinceLastSuccessfulPing is minutes since the server last heard
	// from the device.
	TimeSinceLastSuccessfulPing float64

	// GPSAccuracy holds exactly GPSAccuracyReadings accuracy samples in
	// meters. Length is validated at the API boundary before scoring.
	GPSAccuracy []float64

	// AreaRisk is the zone risk tier at the device's last known position.
	AreaRisk AreaRisk
}

// InactivityRecord is one telemetry report evaluated for prolonged
// inactivity relative to the time-of-day baseline.
type InactivityRecord struct {
	// Hour is the local hour of day, 0-23. It never enters the feature
	// vector directly; see cyclicalHour.
	Hour int

	// MotionState is 1 when the device detected motion in the window.
	MotionState int

	// DisplacementM is meters moved during the reporting window.
	DisplacementM float64

	// TimeSinceLastInteractionMin is minutes since the user last touched
	// the app.
	TimeSinceLastInteractionMin float64

	// MissedPingCount is the number of scheduled pings the device skipped.
	MissedPingCount int

	// AreaRisk is the zone risk tier at the device's last known position.
	AreaRisk AreaRisk

	// BatteryLevelPercent is the device battery level, 0-100.
	BatteryLevelPercent float64

	// IsExpectedActive is 1 when the itinerary says the user should be
	// active at this hour.
	IsExpectedActive int
}

// Verdict is the outcome of scoring a single telemetry record. Derived per
// request, never persisted as source of truth.
type Verdict struct {
	// Score is the raw decision-function output. More negative means more
	// anomalous.
	Score float64 `json:"anomaly_score"`

	// IsAnomaly is true when Score fell below the use case's calibrated
	// threshold.
	IsAnomaly bool `json:"is_anomaly"`

	// RiskLevel is the severity tier for Score.
	RiskLevel RiskLevel `json:"risk_level"`
}
