// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

// Package main is the entry point for the Pathguard server.
//
// Pathguard scores tourist telemetry for anomalies (signal drop-off and
// prolonged inactivity) using exported isolation forest models, and
// computes composite geospatial safety scores from cell tower density,
// emergency service accessibility (Overpass), and weather hazard (met.no).
//
// # Startup order
//
//  1. Configuration: Koanf v2 layered load (defaults, config.yaml, env)
//  2. Logging: zerolog global logger per config
//  3. Verdict store: SQLite, migrated on start
//  4. Model artifacts: one JSON artifact per use case; a missing artifact
//     disables that use case (its endpoint returns 503) instead of
//     failing startup
//  5. Tower dataset: CSV of reference cell towers for remoteness scoring
//  6. Providers: Overpass and met.no clients behind circuit breakers
//  7. HTTP server under suture supervision
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the listener stops
// accepting connections, in-flight requests drain within the configured
// timeout, then the store closes.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pathguard/pathguard/internal/anomaly"
	"github.com/pathguard/pathguard/internal/api"
	"github.com/pathguard/pathguard/internal/config"
	"github.com/pathguard/pathguard/internal/geo"
	"github.com/pathguard/pathguard/internal/logging"
	"github.com/pathguard/pathguard/internal/safety"
	"github.com/pathguard/pathguard/internal/store"
	"github.com/pathguard/pathguard/internal/supervisor"
	"github.com/pathguard/pathguard/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().Str("addr", cfg.Server.Addr()).Msg("starting pathguard")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Verdict store. Scoring works without it, but configuration names a
	// path, so a failure here is a deployment error worth failing on.
	verdicts, err := store.Open(cfg.Database.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("failed to open verdict store")
	}
	defer verdicts.Close()
	if err := verdicts.Migrate(ctx); err != nil {
		logging.Fatal().Err(err).Msg("failed to migrate verdict store")
	}

	// Model artifacts load independently; a missing artifact disables its
	// use case rather than the whole service.
	dropoffArt := loadArtifact(cfg.Models.DropoffPath, "dropoff")
	inactivityArt := loadArtifact(cfg.Models.InactivityPath, "inactivity")
	scoring := anomaly.NewScoringService(dropoffArt, inactivityArt)

	// Tower dataset for remoteness. Empty or unreadable datasets degrade
	// to the neutral remoteness score.
	var towers []geo.Point
	if cfg.Geo.TowersPath != "" {
		towers, err = geo.LoadTowerSet(cfg.Geo.TowersPath)
		if err != nil {
			logging.Warn().Err(err).Str("path", cfg.Geo.TowersPath).
				Msg("tower dataset unavailable, remoteness degrades to neutral")
		}
	}
	remoteness := geo.NewRemotenessScorer(towers)
	logging.Info().Int("towers", remoteness.TowerCount()).Msg("tower dataset loaded")

	overpass := safety.NewOverpassClient(cfg.Providers.OverpassURL,
		cfg.Providers.RequestTimeout, cfg.Providers.RequestsPerSecond)
	metno := safety.NewMetNoClient(cfg.Providers.MetNoURL, cfg.Providers.RequestTimeout)
	calc := safety.NewCalculator(remoteness, overpass, metno, cfg.Providers.LookupTimeout)

	handler := api.NewHandler(scoring, calc, verdicts, remoteness.TowerCount())
	router := api.NewRouter(handler, api.RouterConfig{
		RateLimitReqs:   cfg.Server.RateLimitReqs,
		RateLimitWindow: cfg.Server.RateLimitWindow,
		CORSOrigins:     cfg.Server.CORSOrigins,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().
		Bool("dropoff_model", scoring.DropoffLoaded()).
		Bool("inactivity_model", scoring.InactivityLoaded()).
		Msg("pathguard ready")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("supervisor tree exited")
		os.Exit(1)
	}
	logging.Info().Msg("pathguard stopped")
}

// loadArtifact loads one model artifact, returning nil when the path is
// empty or loading fails.
func loadArtifact(path, useCase string) *anomaly.Artifact {
	if path == "" {
		logging.Warn().Str("use_case", useCase).Msg("no model artifact configured")
		return nil
	}
	art, err := anomaly.LoadArtifact(path)
	if err != nil {
		logging.Warn().Err(err).Str("use_case", useCase).Str("path", path).
			Msg("model artifact unavailable, use case disabled")
		return nil
	}
	logging.Info().Str("use_case", useCase).Int("features", len(art.Columns)).
		Msg("model artifact loaded")
	return art
}
