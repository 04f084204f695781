// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

// Package metrics provides Prometheus instrumentation for the scoring
// service: anomaly pipeline latency and verdict mix, safety scoring and
// external provider health, API throughput, and store write errors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Anomaly scoring metrics
	ScoringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "anomaly_scoring_duration_seconds",
			Help:    "Duration of anomaly scoring calls in seconds",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		},
		[]string{"use_case"},
	)

	VerdictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anomaly_verdicts_total",
			Help: "Total anomaly verdicts by use case and risk level",
		},
		[]string{"use_case", "risk_level"},
	)

	AnomaliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anomaly_positive_verdicts_total",
			Help: "Total verdicts where the anomaly threshold was crossed",
		},
		[]string{"use_case"},
	)

	// Safety scoring metrics
	SafetyScoringDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "safety_scoring_duration_seconds",
			Help:    "Duration of composite safety scoring calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SafetyScoresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safety_scores_total",
			Help: "Total safety scores by risk label",
		},
		[]string{"risk_level"},
	)

	SafetyLookupFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safety_lookup_failures_total",
			Help: "External provider lookups replaced by the neutral default",
		},
		[]string{"provider"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "safety_provider_request_duration_seconds",
			Help:    "Duration of external provider HTTP requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)

	BreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safety_provider_breaker_transitions_total",
			Help: "Circuit breaker state transitions per provider",
		},
		[]string{"provider", "to_state"},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Store metrics
	StoreWriteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_write_errors_total",
			Help: "Verdict store writes that failed and were dropped",
		},
		[]string{"kind"},
	)
)
