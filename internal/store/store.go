// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

// Package store persists scored verdicts and safety scores to SQLite for
// the operator alert feed. Writes happen after the scoring response is
// computed; a failed insert is logged and counted, never propagated into
// the request.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

// Store wraps the verdict database. Safe for concurrent use; database/sql
// manages the connection pool.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the verdict database at path. Use
// ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open verdict store %s: %w", path, err)
	}
	// SQLite tolerates one writer; serialize access instead of surfacing
	// SQLITE_BUSY to callers.
	db.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS anomaly_verdicts (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	use_case    TEXT    NOT NULL,
	score       REAL    NOT NULL,
	is_anomaly  INTEGER NOT NULL,
	risk_level  TEXT    NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_verdicts_anomaly_created
	ON anomaly_verdicts (is_anomaly, created_at DESC);

CREATE TABLE IF NOT EXISTS safety_scores (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	lat          REAL NOT NULL,
	lon          REAL NOT NULL,
	remoteness   REAL NOT NULL,
	accessibility REAL NOT NULL,
	env_hazard   REAL NOT NULL,
	geofence     REAL NOT NULL,
	final_score  REAL NOT NULL,
	risk_level   TEXT NOT NULL,
	created_at   TIMESTAMP NOT NULL
);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate verdict store: %w", err)
	}
	return nil
}

// VerdictRecord is one persisted anomaly verdict.
type VerdictRecord struct {
	ID        int64     `json:"id"`
	UseCase   string    `json:"use_case"`
	Score     float64   `json:"anomaly_score"`
	IsAnomaly bool      `json:"is_anomaly"`
	RiskLevel string    `json:"risk_level"`
	CreatedAt time.Time `json:"created_at"`
}

// SafetyRecord is one persisted safety score.
type SafetyRecord struct {
	ID            int64     `json:"id"`
	Lat           float64   `json:"lat"`
	Lon           float64   `json:"lon"`
	Remoteness    float64   `json:"remoteness_score"`
	Accessibility float64   `json:"accessibility_score"`
	EnvHazard     float64   `json:"environmental_hazard_score"`
	Geofence      float64   `json:"geofence_score"`
	FinalScore    float64   `json:"final_safety_score"`
	RiskLevel     string    `json:"risk_level"`
	CreatedAt     time.Time `json:"created_at"`
}

// RecordVerdict inserts one anomaly verdict.
func (s *Store) RecordVerdict(ctx context.Context, rec VerdictRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO anomaly_verdicts (use_case, score, is_anomaly, risk_level, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.UseCase, rec.Score, rec.IsAnomaly, rec.RiskLevel, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("record verdict: %w", err)
	}
	return nil
}

// RecordSafetyScore inserts one safety score.
func (s *Store) RecordSafetyScore(ctx context.Context, rec SafetyRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO safety_scores
		 (lat, lon, remoteness, accessibility, env_hazard, geofence, final_score, risk_level, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Lat, rec.Lon, rec.Remoteness, rec.Accessibility, rec.EnvHazard,
		rec.Geofence, rec.FinalScore, rec.RiskLevel, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("record safety score: %w", err)
	}
	return nil
}

// RecentAnomalies returns the newest verdicts that crossed the anomaly
// threshold, newest first.
func (s *Store) RecentAnomalies(ctx context.Context, limit int) ([]VerdictRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, use_case, score, is_anomaly, risk_level, created_at
		 FROM anomaly_verdicts
		 WHERE is_anomaly = 1
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent anomalies: %w", err)
	}
	defer rows.Close()

	var out []VerdictRecord
	for rows.Next() {
		var rec VerdictRecord
		if err := rows.Scan(&rec.ID, &rec.UseCase, &rec.Score, &rec.IsAnomaly,
			&rec.RiskLevel, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan verdict: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// VerdictCounts returns verdict totals grouped by use case and risk level.
func (s *Store) VerdictCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT use_case || ':' || risk_level, COUNT(*)
		 FROM anomaly_verdicts GROUP BY use_case, risk_level`)
	if err != nil {
		return nil, fmt.Errorf("query verdict counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[key] = n
	}
	return counts, rows.Err()
}
