// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package anomaly

import "fmt"

// Schema is the ordered column list frozen at training time. Every
// inference-time feature vector must be re-expressed against exactly this
// order before it can be compared to the fitted scaler and model. The order
// is fixed for the lifetime of a deployed model.
type Schema []string

// Align produces a dense vector of length len(s) from a feature mapping:
// value[i] is vec[s[i]] when present, else 0.
//
// The zero fill is a deliberate contract, not a fallback:
//   - a category unseen at training time has no column, so its indicator
//     simply vanishes and all risk columns stay 0 (the record is treated as
//     the baseline category, never rejected);
//   - a category seen at training time but absent from this record keeps
//     its column at 0.
//
// Alignment is deterministic: the output depends only on s and the mapping
// contents, never on map iteration order.
func (s Schema) Align(vec FeatureVector) []float64 {
	aligned := make([]float64, len(s))
	for i, col := range s {
		aligned[i] = vec[col] // missing keys yield the zero value
	}
	return aligned
}

// Validate checks structural sanity of a loaded schema: non-empty and free
// of duplicate columns. Duplicates would make alignment ambiguous.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("schema has no columns")
	}
	seen := make(map[string]struct{}, len(s))
	for _, col := range s {
		if col == "" {
			return fmt.Errorf("schema contains an empty column name")
		}
		if _, dup := seen[col]; dup {
			return fmt.Errorf("schema contains duplicate column %q", col)
		}
		seen[col] = struct{}{}
	}
	return nil
}
