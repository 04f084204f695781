// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

// Package anomaly implements the telemetry anomaly-scoring pipeline:
// feature vectorization with schema alignment against a frozen training-time
// column set, standardization with the fitted scaler, isolation-forest
// decision-function scoring, and score-to-risk-tier mapping.
//
// Two independently calibrated use cases share the pipeline machinery:
// unexpected signal drop-off and prolonged inactivity. Each ships its own
// model artifact, threshold, and tier cuts.
//
// Every scoring call is a pure, synchronous computation over immutable
// inputs plus read-only loaded artifacts; a ScoringService may be shared
// across concurrent requests without locking once construction completes.
package anomaly
