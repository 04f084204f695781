// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

// Package config holds all application configuration loaded from defaults,
// an optional YAML config file, and environment variables, in that order of
// precedence (env highest).
//
// Configuration Categories:
//
//  1. Models: paths to the exported anomaly model artifacts, one per use case
//  2. Geo: cell tower reference dataset for remoteness scoring
//  3. Providers: Overpass and met.no lookup endpoints, timeouts, rate limits
//  4. Database: SQLite verdict store
//  5. Server: HTTP listen address, timeouts, rate limiting, CORS
//  6. Logging: level and output format
//
// Config is immutable after Load() and safe for concurrent read access.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Models    ModelsConfig    `koanf:"models"`
	Geo       GeoConfig       `koanf:"geo"`
	Providers ProvidersConfig `koanf:"providers"`
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ModelsConfig points to the exported isolation forest artifacts.
// An empty path disables that use case; its endpoint returns 503.
type ModelsConfig struct {
	DropoffPath    string `koanf:"dropoff_path"`
	InactivityPath string `koanf:"inactivity_path"`
}

// GeoConfig holds the reference datasets for geospatial scoring.
type GeoConfig struct {
	// TowersPath is a CSV of cell tower coordinates (lat,lon columns).
	// Empty path means no towers loaded; remoteness falls back to neutral.
	TowersPath string `koanf:"towers_path"`
}

// ProvidersConfig holds external lookup provider settings.
type ProvidersConfig struct {
	OverpassURL       string        `koanf:"overpass_url"`
	MetNoURL          string        `koanf:"metno_url"`
	LookupTimeout     time.Duration `koanf:"lookup_timeout"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
}

// DatabaseConfig holds SQLite verdict store settings.
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid values. It does not verify
// that referenced files exist; loaders surface those errors with context.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}
	if c.Server.RateLimitReqs < 0 {
		return fmt.Errorf("server.rate_limit_reqs must not be negative, got %d", c.Server.RateLimitReqs)
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("logging.level must be one of trace|debug|info|warn|error|fatal, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if c.Providers.LookupTimeout <= 0 {
		return fmt.Errorf("providers.lookup_timeout must be positive, got %s", c.Providers.LookupTimeout)
	}
	if c.Providers.RequestTimeout <= 0 {
		return fmt.Errorf("providers.request_timeout must be positive, got %s", c.Providers.RequestTimeout)
	}
	if c.Providers.RequestsPerSecond <= 0 {
		return fmt.Errorf("providers.requests_per_second must be positive, got %g", c.Providers.RequestsPerSecond)
	}
	if c.Providers.OverpassURL == "" {
		return fmt.Errorf("providers.overpass_url must not be empty")
	}
	if c.Providers.MetNoURL == "" {
		return fmt.Errorf("providers.metno_url must not be empty")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}

	return nil
}
