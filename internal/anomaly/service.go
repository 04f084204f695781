// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package anomaly

import "fmt"

// Pipeline is the scoring chain for one use case: vector alignment against
// the fitted schema, standardization, decision-function scoring, threshold
// verdict, and tiering. All referenced state is read-only after
// construction, so a single Pipeline serves concurrent requests without
// locking.
type Pipeline struct {
	schema    Schema
	scaler    *Scaler
	model     Model
	threshold float64
	tiering   Tiering
}

// NewPipeline assembles a scoring pipeline from its parts. Intended for
// wiring loaded artifacts, and for tests that substitute a stub Model.
func NewPipeline(schema Schema, scaler *Scaler, model Model, threshold float64, tiering Tiering) *Pipeline {
	return &Pipeline{
		schema:    schema,
		scaler:    scaler,
		model:     model,
		threshold: threshold,
		tiering:   tiering,
	}
}

// score runs the shared tail of both use cases.
func (p *Pipeline) score(vec FeatureVector) (Verdict, error) {
	aligned := p.schema.Align(vec)
	scaled, err := p.scaler.Transform(aligned)
	if err != nil {
		return Verdict{}, fmt.Errorf("scale vector: %w", err)
	}

	score := p.model.Score(scaled)
	return Verdict{
		Score:     score,
		IsAnomaly: score < p.threshold,
		RiskLevel: p.tiering.Tier(score),
	}, nil
}

// ScoringService owns the loaded pipelines for both use cases. It is
// constructed once at process start after artifact loading completes and is
// then shared read-only across all request handlers; there is no reload
// path while serving.
type ScoringService struct {
	dropoff    *Pipeline
	inactivity *Pipeline
}

// NewScoringService builds a service from loaded artifacts. Either artifact
// may be nil, in which case scoring calls for that use case fail with
// ErrModelNotLoaded.
func NewScoringService(dropoff, inactivity *Artifact) *ScoringService {
	s := &ScoringService{}
	if dropoff != nil {
		s.dropoff = NewPipeline(dropoff.Columns, dropoff.Scaler, dropoff.Forest,
			DropoffThreshold, DropoffTiering)
	}
	if inactivity != nil {
		s.inactivity = NewPipeline(inactivity.Columns, inactivity.Scaler, inactivity.Forest,
			InactivityThreshold, InactivityTiering)
	}
	return s
}

// NewScoringServiceFromPipelines wires pre-built pipelines. Used by tests.
func NewScoringServiceFromPipelines(dropoff, inactivity *Pipeline) *ScoringService {
	return &ScoringService{dropoff: dropoff, inactivity: inactivity}
}

// DropoffLoaded reports whether the drop-off pipeline is available.
func (s *ScoringService) DropoffLoaded() bool { return s.dropoff != nil }

// InactivityLoaded reports whether the inactivity pipeline is available.
func (s *ScoringService) InactivityLoaded() bool { return s.inactivity != nil }

// ScoreDropoff scores one drop-off record.
func (s *ScoringService) ScoreDropoff(rec DropoffRecord) (Verdict, error) {
	if s.dropoff == nil {
		return Verdict{}, ErrModelNotLoaded
	}
	vec, err := VectorizeDropoff(rec)
	if err != nil {
		return Verdict{}, err
	}
	return s.dropoff.score(vec)
}

// ScoreInactivity scores one inactivity record.
func (s *ScoringService) ScoreInactivity(rec InactivityRecord) (Verdict, error) {
	if s.inactivity == nil {
		return Verdict{}, ErrModelNotLoaded
	}
	return s.inactivity.score(VectorizeInactivity(rec))
}
