// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/pathguard/config.yaml",
	"/etc/pathguard/config.yml",
}

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "PATHGUARD_CONFIG"

// envPrefix namespaces all Pathguard environment variables.
const envPrefix = "PATHGUARD_"

// defaultConfig returns a Config with all defaults applied. Defaults are
// loaded first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Models: ModelsConfig{
			DropoffPath:    "models/dropoff.json",
			InactivityPath: "models/inactivity.json",
		},
		Geo: GeoConfig{
			TowersPath: "data/towers.csv",
		},
		Providers: ProvidersConfig{
			OverpassURL:       "https://overpass-api.de/api/interpreter",
			MetNoURL:          "https://api.met.no/weatherapi/locationforecast/2.0/compact",
			LookupTimeout:     10 * time.Second,
			RequestTimeout:    30 * time.Second,
			RequestsPerSecond: 1.0, // public Overpass instances throttle aggressively
		},
		Database: DatabaseConfig{
			Path: "data/verdicts.db",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8642,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: 1 * time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values
//  2. Config File: optional YAML file (if found)
//  3. Environment Variables: PATHGUARD_* overrides (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables
	// PATHGUARD_SERVER_PORT -> server.port
	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the first file found, or empty string if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths are parsed as comma-separated
// slices when they arrive via environment variables.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars come in as strings; YAML values are already
// slices and are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc maps PATHGUARD_* environment variable names to koanf
// config paths. Unknown variables are skipped so unrelated environment
// does not pollute the config.
//
// Examples:
//   - PATHGUARD_SERVER_PORT -> server.port
//   - PATHGUARD_MODEL_DROPOFF_PATH -> models.dropoff_path
//   - PATHGUARD_OVERPASS_URL -> providers.overpass_url
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	envMappings := map[string]string{
		// Model artifacts
		"model_dropoff_path":    "models.dropoff_path",
		"model_inactivity_path": "models.inactivity_path",

		// Geo datasets
		"towers_path": "geo.towers_path",

		// Lookup providers
		"overpass_url":        "providers.overpass_url",
		"metno_url":           "providers.metno_url",
		"lookup_timeout":      "providers.lookup_timeout",
		"request_timeout":     "providers.request_timeout",
		"requests_per_second": "providers.requests_per_second",

		// Database
		"db_path": "database.path",

		// Server
		"server_host":       "server.host",
		"server_port":       "server.port",
		"server_timeout":    "server.timeout",
		"shutdown_timeout":  "server.shutdown_timeout",
		"rate_limit_reqs":   "server.rate_limit_reqs",
		"rate_limit_window": "server.rate_limit_window",
		"cors_origins":      "server.cors_origins",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	return ""
}
