// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package geo

import (
	"math"
	"testing"
)

func TestHaversineKnownDistances(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		tolerance              float64
	}{
		{
			name: "NYC to London",
			lat1: 40.7128, lon1: -74.0060,
			lat2: 51.5074, lon2: -0.1278,
			wantKm:    5570,
			tolerance: 20,
		},
		{
			name: "Delhi to Agra",
			lat1: 28.6139, lon1: 77.2090,
			lat2: 27.1767, lon2: 78.0081,
			wantKm:    180,
			tolerance: 5,
		},
		{
			name: "one degree of latitude",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			wantKm:    111.19,
			tolerance: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("Haversine() = %v km, want %v ± %v", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestHaversineIdenticalPoints(t *testing.T) {
	if d := Haversine(28.6139, 77.2090, 28.6139, 77.2090); d != 0 {
		t.Errorf("distance between identical points = %v, want 0", d)
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := Point{Lat: 12.9716, Lon: 77.5946}
	b := Point{Lat: 13.0827, Lon: 80.2707}

	if d1, d2 := a.Distance(b), b.Distance(a); d1 != d2 {
		t.Errorf("distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestHaversineTriangleInequality(t *testing.T) {
	// Approximate triangle inequality over small distances.
	a := Point{Lat: 28.60, Lon: 77.20}
	b := Point{Lat: 28.65, Lon: 77.25}
	c := Point{Lat: 28.70, Lon: 77.21}

	direct := a.Distance(c)
	viaB := a.Distance(b) + b.Distance(c)
	if direct > viaB+1e-9 {
		t.Errorf("triangle inequality violated: direct %v > via %v", direct, viaB)
	}
}
