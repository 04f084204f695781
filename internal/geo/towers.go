// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package geo

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadTowerSet reads the cell-tower reference coordinates from a CSV file
// with a header row naming a latitude column ("lat" or "latitude") and a
// longitude column ("long", "lon" or "longitude"). Exact duplicate
// coordinates are dropped so they cannot inflate density counts.
//
// The set is loaded once at startup and shared read-only across all
// scoring calls.
func LoadTowerSet(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tower set %s: %w", path, err)
	}
	defer f.Close()

	points, err := readTowerCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse tower set %s: %w", path, err)
	}
	return points, nil
}

func readTowerCSV(r io.Reader) ([]Point, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	latIdx, lonIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "lat", "latitude":
			latIdx = i
		case "long", "lon", "longitude":
			lonIdx = i
		}
	}
	if latIdx < 0 || lonIdx < 0 {
		return nil, fmt.Errorf("header %v lacks lat/long columns", header)
	}

	var points []Point
	seen := make(map[Point]struct{})
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(record[latIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad latitude %q", line, record[latIdx])
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(record[lonIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad longitude %q", line, record[lonIdx])
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return nil, fmt.Errorf("line %d: coordinate (%v, %v) out of range", line, lat, lon)
		}

		p := Point{Lat: lat, Lon: lon}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		points = append(points, p)
	}

	return points, nil
}
