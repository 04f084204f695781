// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package api

import "time"

// APIResponse is the standardized response wrapper used by all endpoints.
//
// Status field values:
//   - "success": request completed, see Data
//   - "error": request failed, see Error
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
}

// APIError carries structured error details.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// DropoffScoreRequest is the request body for drop-off anomaly scoring.
// GPSAccuracy carries one reading per 3-minute slice of the device's
// 15-minute reporting window.
type DropoffScoreRequest struct {
	NetworkConnectivityState    *int      `json:"network_connectivity_state" validate:"required,gte=0,lte=1"`
	AccVsLoc                    *int      `json:"acc_vs_loc" validate:"required,gte=0,lte=1"`
	TimeSinceLastSuccessfulPing *float64  `json:"time_since_last_successful_ping" validate:"required,gte=0"`
	GPSAccuracy                 []float64 `json:"gps_accuracy" validate:"required,len=5,dive,gte=0"`
	AreaRisk                    string    `json:"area_risk" validate:"required,oneof=low med high"`
}

// InactivityScoreRequest is the request body for inactivity anomaly scoring.
type InactivityScoreRequest struct {
	Hour                        *int     `json:"hour" validate:"required,gte=0,lte=23"`
	MotionState                 *int     `json:"motion_state" validate:"required,gte=0,lte=1"`
	DisplacementM               *float64 `json:"displacement_m" validate:"required,gte=0"`
	TimeSinceLastInteractionMin *float64 `json:"time_since_last_interaction_min" validate:"required,gte=0"`
	MissedPingCount             *int     `json:"missed_ping_count" validate:"required,gte=0"`
	AreaRisk                    string   `json:"area_risk" validate:"required,oneof=low med high"`
	BatteryLevelPercent         *float64 `json:"battery_level_percent" validate:"required,gte=0,lte=100"`
	IsExpectedActive            *int     `json:"is_expected_active" validate:"required,gte=0,lte=1"`
}

// SafetyScoreRequest is the request body for composite safety scoring.
type SafetyScoreRequest struct {
	Lat         *float64 `json:"lat" validate:"required,latitude"`
	Lon         *float64 `json:"lon" validate:"required,longitude"`
	IsGeofenced bool     `json:"is_geofenced"`
}

// HealthResponse reports process liveness and model availability.
type HealthResponse struct {
	Status          string  `json:"status"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
	DropoffModel    bool    `json:"dropoff_model_loaded"`
	InactivityModel bool    `json:"inactivity_model_loaded"`
	TowerCount      int     `json:"tower_count"`
}
