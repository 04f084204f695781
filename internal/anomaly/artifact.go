// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package anomaly

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// Artifact is the serialized output of the training stage for one use
// case: the frozen column schema, the fitted standardization parameters,
// and the exported isolation forest. The three parts are shipped together
// because they are only valid as a unit — the scaler and forest are
// meaningless against any other column order.
type Artifact struct {
	UseCase UseCase          `json:"use_case"`
	Columns Schema           `json:"columns"`
	Scaler  *Scaler          `json:"scaler"`
	Forest  *IsolationForest `json:"forest"`
}

// Validate cross-checks the artifact parts against each other.
func (a *Artifact) Validate() error {
	if err := a.Columns.Validate(); err != nil {
		return fmt.Errorf("columns: %w", err)
	}
	if a.Scaler == nil {
		return fmt.Errorf("artifact has no scaler")
	}
	if err := a.Scaler.Validate(len(a.Columns)); err != nil {
		return fmt.Errorf("scaler: %w", err)
	}
	if a.Forest == nil {
		return fmt.Errorf("artifact has no forest")
	}
	if err := a.Forest.Validate(len(a.Columns)); err != nil {
		return fmt.Errorf("forest: %w", err)
	}
	return nil
}

// LoadArtifact reads and validates a model artifact from disk. A missing or
// malformed artifact is a load-time failure; the process must not begin
// serving scoring requests for the use case without a successful load.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", path, err)
	}
	if err := artifact.Validate(); err != nil {
		return nil, fmt.Errorf("invalid artifact %s: %w", path, err)
	}

	return &artifact, nil
}
