// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package anomaly

import (
	"fmt"
	"math"
)

// Scaler holds the per-column standardization parameters fitted at training
// time. Mean and Scale are parallel to the schema's column order; applying
// the scaler to a vector of any other length or order is a contract
// violation.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Validate checks that the scaler is internally consistent and matches the
// given column count.
func (s *Scaler) Validate(columns int) error {
	if len(s.Mean) != columns {
		return fmt.Errorf("scaler mean has %d entries, schema has %d columns", len(s.Mean), columns)
	}
	if len(s.Scale) != columns {
		return fmt.Errorf("scaler scale has %d entries, schema has %d columns", len(s.Scale), columns)
	}
	for i, sc := range s.Scale {
		if sc == 0 || math.IsNaN(sc) || math.IsInf(sc, 0) {
			return fmt.Errorf("scaler scale[%d] is %v", i, sc)
		}
	}
	return nil
}

// Transform standardizes an aligned vector in place-order: (x - mean) / scale
// per column. The input is not mutated.
func (s *Scaler) Transform(aligned []float64) ([]float64, error) {
	if len(aligned) != len(s.Mean) {
		return nil, fmt.Errorf("vector has %d columns, scaler expects %d", len(aligned), len(s.Mean))
	}
	scaled := make([]float64, len(aligned))
	for i, v := range aligned {
		scaled[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return scaled, nil
}
