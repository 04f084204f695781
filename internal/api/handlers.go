// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

// Package api provides the HTTP surface of the scoring service: anomaly
// scoring for the two telemetry use cases, composite safety scoring, the
// operator alert feed, and health.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pathguard/pathguard/internal/anomaly"
	"github.com/pathguard/pathguard/internal/logging"
	"github.com/pathguard/pathguard/internal/metrics"
	"github.com/pathguard/pathguard/internal/safety"
	"github.com/pathguard/pathguard/internal/store"
)

// storeWriteTimeout bounds the write-behind verdict persistence. The
// scoring response has already been computed when the write starts.
const storeWriteTimeout = 5 * time.Second

// Handler holds the wired scoring services behind the HTTP endpoints.
type Handler struct {
	scoring    *anomaly.ScoringService
	safety     *safety.Calculator
	verdicts   *store.Store // nil disables persistence and the alert feed
	towerCount int
	startTime  time.Time
}

// NewHandler constructs the API handler. verdicts may be nil; scoring then
// runs without persistence and the alert feed returns empty.
func NewHandler(scoring *anomaly.ScoringService, calc *safety.Calculator, verdicts *store.Store, towerCount int) *Handler {
	return &Handler{
		scoring:    scoring,
		safety:     calc,
		verdicts:   verdicts,
		towerCount: towerCount,
		startTime:  time.Now(),
	}
}

// ScoreDropoff handles POST /api/v1/anomaly/dropoff.
func (h *Handler) ScoreDropoff(w http.ResponseWriter, r *http.Request) {
	var req DropoffScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	rec := anomaly.DropoffRecord{
		NetworkConnectivityState:    *req.NetworkConnectivityState,
		AccVsLoc:                    *req.AccVsLoc,
		TimeSinceLastSuccessfulPing: *req.TimeSinceLastSuccessfulPing,
		GPSAccuracy:                 req.GPSAccuracy,
		AreaRisk:                    anomaly.AreaRisk(req.AreaRisk),
	}

	start := time.Now()
	verdict, err := h.scoring.ScoreDropoff(rec)
	if err != nil {
		h.respondScoringError(w, anomaly.UseCaseDropoff, err)
		return
	}
	h.recordVerdict(anomaly.UseCaseDropoff, verdict, time.Since(start))

	respondSuccess(w, http.StatusOK, verdict)
}

// ScoreInactivity handles POST /api/v1/anomaly/inactivity.
func (h *Handler) ScoreInactivity(w http.ResponseWriter, r *http.Request) {
	var req InactivityScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	rec := anomaly.InactivityRecord{
		Hour:                        *req.Hour,
		MotionState:                 *req.MotionState,
		DisplacementM:               *req.DisplacementM,
		TimeSinceLastInteractionMin: *req.TimeSinceLastInteractionMin,
		MissedPingCount:             *req.MissedPingCount,
		AreaRisk:                    anomaly.AreaRisk(req.AreaRisk),
		BatteryLevelPercent:         *req.BatteryLevelPercent,
		IsExpectedActive:            *req.IsExpectedActive,
	}

	start := time.Now()
	verdict, err := h.scoring.ScoreInactivity(rec)
	if err != nil {
		h.respondScoringError(w, anomaly.UseCaseInactivity, err)
		return
	}
	h.recordVerdict(anomaly.UseCaseInactivity, verdict, time.Since(start))

	respondSuccess(w, http.StatusOK, verdict)
}

// SafetyScore handles POST /api/v1/safety/score.
func (h *Handler) SafetyScore(w http.ResponseWriter, r *http.Request) {
	var req SafetyScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	start := time.Now()
	result := h.safety.Score(r.Context(), *req.Lat, *req.Lon, req.IsGeofenced)
	metrics.SafetyScoringDuration.Observe(time.Since(start).Seconds())
	metrics.SafetyScoresTotal.WithLabelValues(string(result.RiskLevel)).Inc()

	if h.verdicts != nil {
		rec := store.SafetyRecord{
			Lat:           *req.Lat,
			Lon:           *req.Lon,
			Remoteness:    result.Remoteness,
			Accessibility: result.Accessibility,
			EnvHazard:     result.EnvironmentalHazard,
			Geofence:      result.Geofence,
			FinalScore:    result.FinalScore,
			RiskLevel:     string(result.RiskLevel),
		}
		go h.persistSafetyScore(rec)
	}

	respondSuccess(w, http.StatusOK, result)
}

// RecentAlerts handles GET /api/v1/alerts/recent.
func (h *Handler) RecentAlerts(w http.ResponseWriter, r *http.Request) {
	limit := getIntParam(r, "limit", 50)

	if h.verdicts == nil {
		respondSuccess(w, http.StatusOK, []store.VerdictRecord{})
		return
	}

	alerts, err := h.verdicts.RecentAnomalies(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to read alerts", err)
		return
	}
	if alerts == nil {
		alerts = []store.VerdictRecord{}
	}
	respondSuccess(w, http.StatusOK, alerts)
}

// AlertSummary handles GET /api/v1/alerts/summary. Returns verdict totals
// keyed by "use_case:risk_level".
func (h *Handler) AlertSummary(w http.ResponseWriter, r *http.Request) {
	if h.verdicts == nil {
		respondSuccess(w, http.StatusOK, map[string]int64{})
		return
	}

	counts, err := h.verdicts.VerdictCounts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to read alert summary", err)
		return
	}
	respondSuccess(w, http.StatusOK, counts)
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, HealthResponse{
		Status:          "ok",
		UptimeSeconds:   time.Since(h.startTime).Seconds(),
		DropoffModel:    h.scoring.DropoffLoaded(),
		InactivityModel: h.scoring.InactivityLoaded(),
		TowerCount:      h.towerCount,
	})
}

// respondScoringError maps scoring failures to HTTP statuses. Internal
// details stay in the log; clients get stable codes.
func (h *Handler) respondScoringError(w http.ResponseWriter, useCase anomaly.UseCase, err error) {
	if errors.Is(err, anomaly.ErrModelNotLoaded) {
		respondError(w, http.StatusServiceUnavailable, "MODEL_NOT_LOADED",
			"Anomaly model for this use case is not loaded", nil)
		return
	}
	logging.Error().Err(err).Str("use_case", string(useCase)).Msg("scoring failed")
	respondError(w, http.StatusInternalServerError, "SCORING_FAILED",
		"Failed to score record", nil)
}

// recordVerdict updates metrics and persists the verdict without blocking
// the response path.
func (h *Handler) recordVerdict(useCase anomaly.UseCase, v anomaly.Verdict, elapsed time.Duration) {
	metrics.ScoringDuration.WithLabelValues(string(useCase)).Observe(elapsed.Seconds())
	metrics.VerdictsTotal.WithLabelValues(string(useCase), string(v.RiskLevel)).Inc()
	if v.IsAnomaly {
		metrics.AnomaliesTotal.WithLabelValues(string(useCase)).Inc()
	}

	if h.verdicts == nil {
		return
	}
	rec := store.VerdictRecord{
		UseCase:   string(useCase),
		Score:     v.Score,
		IsAnomaly: v.IsAnomaly,
		RiskLevel: string(v.RiskLevel),
	}
	go h.persistVerdict(rec)
}

func (h *Handler) persistVerdict(rec store.VerdictRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), storeWriteTimeout)
	defer cancel()
	if err := h.verdicts.RecordVerdict(ctx, rec); err != nil {
		metrics.StoreWriteErrors.WithLabelValues("verdict").Inc()
		logging.Warn().Err(err).Msg("verdict write dropped")
	}
}

func (h *Handler) persistSafetyScore(rec store.SafetyRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), storeWriteTimeout)
	defer cancel()
	if err := h.verdicts.RecordSafetyScore(ctx, rec); err != nil {
		metrics.StoreWriteErrors.WithLabelValues("safety").Inc()
		logging.Warn().Err(err).Msg("safety score write dropped")
	}
}
