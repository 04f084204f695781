// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package anomaly

import (
	"fmt"
	"math"
)

// Model is the decision-function interface the scorer depends on. The sign
// convention is calibrated project-wide: more negative = more anomalous.
type Model interface {
	// Score returns the continuous abnormality score for an aligned,
	// scaled vector.
	Score(vector []float64) float64
}

// TreeNode is one node of an isolation tree in flat array form.
// Feature == leafMarker marks a leaf; Left/Right are indices into the same
// node slice.
type TreeNode struct {
	Feature      int     `json:"feature"`
	Threshold    float64 `json:"threshold"`
	Left         int     `json:"left"`
	Right        int     `json:"right"`
	NNodeSamples int     `json:"n_node_samples"`
}

// leafMarker is the Feature value identifying leaf nodes in the exported
// artifact.
const leafMarker = -1

// IsolationForest evaluates the decision function of a fitted isolation
// forest from its exported trees. Fitting happens offline in the training
// stage; this type only replays the fitted structure.
//
// The decision function mirrors the training library's convention:
//
//	depth(x)  = mean over trees of (edges walked + c(leaf samples))
//	score(x)  = -2^(-depth(x) / c(n_samples))
//	decision  = score(x) - offset
//
// where c(k) is the average path length of an unsuccessful BST search in a
// tree of k samples. Shallower isolation depth yields a more negative
// decision value.
type IsolationForest struct {
	Trees    [][]TreeNode `json:"trees"`
	NSamples int          `json:"n_samples"`
	Offset   float64      `json:"offset"`
}

// eulerMascheroni is the Euler-Mascheroni constant used in the average
// path length correction.
const eulerMascheroni = 0.5772156649015329

// averagePathLength is c(n): the expected path length of an unsuccessful
// search in a binary search tree built over n samples.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	default:
		f := float64(n)
		return 2*(math.Log(f-1)+eulerMascheroni) - 2*(f-1)/f
	}
}

// pathLength walks one tree and returns the isolation depth of the vector,
// including the subtree-size correction at the reached leaf.
func pathLength(tree []TreeNode, vector []float64) float64 {
	depth := 0.0
	idx := 0
	for {
		node := tree[idx]
		if node.Feature == leafMarker {
			return depth + averagePathLength(node.NNodeSamples)
		}
		if vector[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
		depth++
	}
}

// Score implements Model.
func (f *IsolationForest) Score(vector []float64) float64 {
	sum := 0.0
	for _, tree := range f.Trees {
		sum += pathLength(tree, vector)
	}
	meanDepth := sum / float64(len(f.Trees))

	anomalyScore := math.Pow(2, -meanDepth/averagePathLength(f.NSamples))
	return -anomalyScore - f.Offset
}

// Validate checks structural sanity of the exported forest: every non-leaf
// node must reference in-range children and an in-range feature index for
// the given column count, and leaves must carry a sample count.
func (f *IsolationForest) Validate(columns int) error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	if f.NSamples < 2 {
		return fmt.Errorf("forest n_samples is %d, need at least 2", f.NSamples)
	}
	for ti, tree := range f.Trees {
		if len(tree) == 0 {
			return fmt.Errorf("tree %d is empty", ti)
		}
		for ni, node := range tree {
			if node.Feature == leafMarker {
				if node.NNodeSamples < 1 {
					return fmt.Errorf("tree %d node %d: leaf with %d samples", ti, ni, node.NNodeSamples)
				}
				continue
			}
			if node.Feature < 0 || node.Feature >= columns {
				return fmt.Errorf("tree %d node %d: feature %d out of range [0,%d)", ti, ni, node.Feature, columns)
			}
			if node.Left <= ni || node.Left >= len(tree) || node.Right <= ni || node.Right >= len(tree) {
				return fmt.Errorf("tree %d node %d: child index out of range", ti, ni)
			}
		}
	}
	return nil
}
