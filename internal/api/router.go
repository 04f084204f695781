// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pathguard/pathguard/internal/middleware"
)

// RouterConfig holds the knobs the router needs from application config.
// A RateLimitReqs of zero disables rate limiting.
type RouterConfig struct {
	RateLimitReqs   int
	RateLimitWindow time.Duration
	CORSOrigins     []string
}

// Router wires handlers and middleware into the HTTP routing tree.
type Router struct {
	handler *Handler
	cfg     RouterConfig
}

// NewRouter constructs the router for the given handler.
func NewRouter(handler *Handler, cfg RouterConfig) *Router {
	return &Router{handler: handler, cfg: cfg}
}

// Setup configures all HTTP routes using the Chi router.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health and metrics stay outside the scoring rate limit so monitoring
	// keeps working under load.
	r.Get("/api/v1/health", router.handler.Health)
	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	// Scoring and alert endpoints.
	r.Route("/api/v1", func(r chi.Router) {
		if router.cfg.RateLimitReqs > 0 {
			r.Use(httprate.Limit(
				router.cfg.RateLimitReqs,
				router.cfg.RateLimitWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
			))
		}
		r.Use(middleware.PrometheusMetrics)

		r.Post("/anomaly/dropoff", router.handler.ScoreDropoff)
		r.Post("/anomaly/inactivity", router.handler.ScoreInactivity)
		r.Post("/safety/score", router.handler.SafetyScore)
		r.Get("/alerts/recent", router.handler.RecentAlerts)
		r.Get("/alerts/summary", router.handler.AlertSummary)
	})

	return r
}
