// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "verdicts.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return s
}

func TestMigrateIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestRecordAndQueryVerdicts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	verdicts := []VerdictRecord{
		{UseCase: "dropoff", Score: 0.08, IsAnomaly: false, RiskLevel: "LOW", CreatedAt: base},
		{UseCase: "dropoff", Score: -0.35, IsAnomaly: true, RiskLevel: "HIGH", CreatedAt: base.Add(time.Minute)},
		{UseCase: "inactivity", Score: -0.12, IsAnomaly: true, RiskLevel: "MEDIUM", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, v := range verdicts {
		if err := s.RecordVerdict(ctx, v); err != nil {
			t.Fatalf("RecordVerdict(%+v): %v", v, err)
		}
	}

	recent, err := s.RecentAnomalies(ctx, 10)
	if err != nil {
		t.Fatalf("RecentAnomalies: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("RecentAnomalies returned %d records, want 2", len(recent))
	}
	// Newest first.
	if recent[0].UseCase != "inactivity" || recent[0].RiskLevel != "MEDIUM" {
		t.Errorf("recent[0] = %+v, want inactivity MEDIUM", recent[0])
	}
	if recent[1].UseCase != "dropoff" || recent[1].RiskLevel != "HIGH" {
		t.Errorf("recent[1] = %+v, want dropoff HIGH", recent[1])
	}
	for _, rec := range recent {
		if !rec.IsAnomaly {
			t.Errorf("non-anomaly record %+v in alert feed", rec)
		}
	}
}

func TestRecentAnomaliesLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := VerdictRecord{
			UseCase:   "dropoff",
			Score:     -0.4,
			IsAnomaly: true,
			RiskLevel: "HIGH",
			CreatedAt: time.Date(2026, 3, 10, 12, i, 0, 0, time.UTC),
		}
		if err := s.RecordVerdict(ctx, rec); err != nil {
			t.Fatalf("RecordVerdict: %v", err)
		}
	}

	recent, err := s.RecentAnomalies(ctx, 3)
	if err != nil {
		t.Fatalf("RecentAnomalies: %v", err)
	}
	if len(recent) != 3 {
		t.Errorf("got %d records, want 3", len(recent))
	}

	// Out-of-range limits fall back to the default cap.
	recent, err = s.RecentAnomalies(ctx, -1)
	if err != nil {
		t.Fatalf("RecentAnomalies(-1): %v", err)
	}
	if len(recent) != 5 {
		t.Errorf("got %d records with default limit, want 5", len(recent))
	}
}

func TestRecordSafetyScore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := SafetyRecord{
		Lat:           27.1751,
		Lon:           78.0421,
		Remoteness:    0.412,
		Accessibility: 0.236,
		EnvHazard:     0.1,
		Geofence:      1.0,
		FinalScore:    45.0,
		RiskLevel:     "medium",
	}
	if err := s.RecordSafetyScore(ctx, rec); err != nil {
		t.Fatalf("RecordSafetyScore: %v", err)
	}

	var n int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM safety_scores`)
	if err := row.Scan(&n); err != nil {
		t.Fatalf("count safety_scores: %v", err)
	}
	if n != 1 {
		t.Errorf("safety_scores has %d rows, want 1", n)
	}
}

func TestVerdictCounts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	records := []VerdictRecord{
		{UseCase: "dropoff", Score: -0.35, IsAnomaly: true, RiskLevel: "HIGH"},
		{UseCase: "dropoff", Score: -0.32, IsAnomaly: true, RiskLevel: "HIGH"},
		{UseCase: "inactivity", Score: 0.05, IsAnomaly: false, RiskLevel: "LOW"},
	}
	for _, rec := range records {
		if err := s.RecordVerdict(ctx, rec); err != nil {
			t.Fatalf("RecordVerdict: %v", err)
		}
	}

	counts, err := s.VerdictCounts(ctx)
	if err != nil {
		t.Fatalf("VerdictCounts: %v", err)
	}
	if counts["dropoff:HIGH"] != 2 {
		t.Errorf("dropoff:HIGH = %d, want 2", counts["dropoff:HIGH"])
	}
	if counts["inactivity:LOW"] != 1 {
		t.Errorf("inactivity:LOW = %d, want 1", counts["inactivity:LOW"])
	}
}
