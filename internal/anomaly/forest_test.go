// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package anomaly

import (
	"math"
	"testing"
)

func TestAveragePathLength(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{256, 2*(math.Log(255)+eulerMascheroni) - 2*255.0/256.0},
	}

	for _, tt := range tests {
		if got := averagePathLength(tt.n); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("averagePathLength(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

// stumpForest builds a forest of identical single-split trees: feature 0
// <= 0 goes to a leaf holding one sample, > 0 goes to a leaf holding many.
func stumpForest(trees int) *IsolationForest {
	tree := []TreeNode{
		{Feature: 0, Threshold: 0, Left: 1, Right: 2},
		{Feature: leafMarker, NNodeSamples: 1},
		{Feature: leafMarker, NNodeSamples: 255},
	}
	forest := &IsolationForest{NSamples: 256, Offset: -0.5}
	for i := 0; i < trees; i++ {
		forest.Trees = append(forest.Trees, tree)
	}
	return forest
}

func TestIsolationForestScore(t *testing.T) {
	forest := stumpForest(10)

	// Left leaf: depth 1, leaf correction c(1)=0 → path length 1.
	wantLeft := -math.Pow(2, -1.0/averagePathLength(256)) + 0.5
	if got := forest.Score([]float64{-1}); math.Abs(got-wantLeft) > 1e-12 {
		t.Errorf("Score(left) = %v, want %v", got, wantLeft)
	}

	// Right leaf: depth 1 plus c(255) correction → much deeper path.
	wantDepth := 1 + averagePathLength(255)
	wantRight := -math.Pow(2, -wantDepth/averagePathLength(256)) + 0.5
	if got := forest.Score([]float64{1}); math.Abs(got-wantRight) > 1e-12 {
		t.Errorf("Score(right) = %v, want %v", got, wantRight)
	}

	// Shallow isolation must score more negative than deep isolation.
	if forest.Score([]float64{-1}) >= forest.Score([]float64{1}) {
		t.Error("shallowly isolated point should score more negative")
	}
}

func TestIsolationForestScoreIsDeterministic(t *testing.T) {
	forest := stumpForest(25)
	v := []float64{-0.3}
	first := forest.Score(v)
	for i := 0; i < 5; i++ {
		if got := forest.Score(v); got != first {
			t.Fatalf("Score() = %v on repeat, first was %v", got, first)
		}
	}
}

func TestIsolationForestValidate(t *testing.T) {
	valid := stumpForest(2)
	if err := valid.Validate(1); err != nil {
		t.Errorf("Validate() on valid forest = %v", err)
	}

	tests := []struct {
		name   string
		forest *IsolationForest
	}{
		{"no trees", &IsolationForest{NSamples: 256}},
		{"n_samples too small", &IsolationForest{NSamples: 1, Trees: [][]TreeNode{{{Feature: leafMarker, NNodeSamples: 1}}}}},
		{
			"feature out of range",
			&IsolationForest{NSamples: 256, Trees: [][]TreeNode{{
				{Feature: 5, Threshold: 0, Left: 1, Right: 2},
				{Feature: leafMarker, NNodeSamples: 1},
				{Feature: leafMarker, NNodeSamples: 1},
			}}},
		},
		{
			"child index behind parent",
			&IsolationForest{NSamples: 256, Trees: [][]TreeNode{{
				{Feature: 0, Threshold: 0, Left: 0, Right: 1},
				{Feature: leafMarker, NNodeSamples: 1},
			}}},
		},
		{
			"leaf without samples",
			&IsolationForest{NSamples: 256, Trees: [][]TreeNode{{
				{Feature: leafMarker, NNodeSamples: 0},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.forest.Validate(1); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
