// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package geo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTowerFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "towers.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTowerSet(t *testing.T) {
	path := writeTowerFile(t, "lat,long\n28.6139,77.2090\n28.7041,77.1025\n")

	points, err := LoadTowerSet(path)
	if err != nil {
		t.Fatalf("LoadTowerSet() error = %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("loaded %d points, want 2", len(points))
	}
	if points[0] != (Point{Lat: 28.6139, Lon: 77.2090}) {
		t.Errorf("first point = %+v", points[0])
	}
}

func TestLoadTowerSetDeduplicates(t *testing.T) {
	path := writeTowerFile(t, "lat,long\n28.6139,77.2090\n28.6139,77.2090\n28.7041,77.1025\n")

	points, err := LoadTowerSet(path)
	if err != nil {
		t.Fatalf("LoadTowerSet() error = %v", err)
	}
	if len(points) != 2 {
		t.Errorf("loaded %d points after dedup, want 2", len(points))
	}
}

func TestLoadTowerSetHeaderVariants(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"lat/long", "lat,long"},
		{"latitude/longitude", "latitude,longitude"},
		{"lat/lon", "lat,lon"},
		{"extra columns", "id,lat,radio,long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := strings.Split(tt.header, ",")
			row := make([]string, len(cols))
			for i, c := range cols {
				switch strings.ToLower(c) {
				case "lat", "latitude":
					row[i] = "28.6139"
				case "long", "lon", "longitude":
					row[i] = "77.2090"
				default:
					row[i] = "x"
				}
			}
			path := writeTowerFile(t, tt.header+"\n"+strings.Join(row, ",")+"\n")

			points, err := LoadTowerSet(path)
			if err != nil {
				t.Fatalf("LoadTowerSet() error = %v", err)
			}
			if len(points) != 1 {
				t.Errorf("loaded %d points, want 1", len(points))
			}
		})
	}
}

func TestLoadTowerSetErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing columns", "id,name\n1,a\n"},
		{"bad latitude", "lat,long\nnope,77.2\n"},
		{"bad longitude", "lat,long\n28.6,nope\n"},
		{"latitude out of range", "lat,long\n91.0,77.2\n"},
		{"longitude out of range", "lat,long\n28.6,181.0\n"},
		{"empty file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTowerFile(t, tt.content)
			if _, err := LoadTowerSet(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadTowerSetMissingFile(t *testing.T) {
	if _, err := LoadTowerSet(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
