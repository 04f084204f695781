// Pathguard - Tourist Safety Telemetry Scoring Service
// Copyright 2026 Arjun M. (pathguard)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathguard/pathguard

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:8642" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8642", cfg.Server.Addr())
	}
}

func TestLoadDefaults(t *testing.T) {
	// Run from an empty directory so no stray config.yaml is picked up.
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8642 {
		t.Errorf("Server.Port = %d, want 8642", cfg.Server.Port)
	}
	if cfg.Providers.LookupTimeout != 10*time.Second {
		t.Errorf("Providers.LookupTimeout = %s, want 10s", cfg.Providers.LookupTimeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := `
server:
  port: 9100
models:
  dropoff_path: /opt/models/dropoff.json
providers:
  requests_per_second: 0.5
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Models.DropoffPath != "/opt/models/dropoff.json" {
		t.Errorf("Models.DropoffPath = %q", cfg.Models.DropoffPath)
	}
	if cfg.Providers.RequestsPerSecond != 0.5 {
		t.Errorf("Providers.RequestsPerSecond = %g, want 0.5", cfg.Providers.RequestsPerSecond)
	}
	// Unset values keep defaults.
	if cfg.Database.Path != "data/verdicts.db" {
		t.Errorf("Database.Path = %q, want default", cfg.Database.Path)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := "server:\n  port: 9100\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PATHGUARD_SERVER_PORT", "9200")
	t.Setenv("PATHGUARD_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9200 {
		t.Errorf("Server.Port = %d, want env override 9200", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestEnvCORSOriginsSlice(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PATHGUARD_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Server.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Server.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Server.CORSOrigins[i], want[i])
		}
	}
}

func TestUnknownEnvIgnored(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PATHGUARD_NOT_A_SETTING", "whatever")

	if _, err := Load(); err != nil {
		t.Fatalf("Load with unknown env var: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"zero lookup timeout", func(c *Config) { c.Providers.LookupTimeout = 0 }},
		{"zero rate", func(c *Config) { c.Providers.RequestsPerSecond = 0 }},
		{"empty overpass url", func(c *Config) { c.Providers.OverpassURL = "" }},
		{"empty db path", func(c *Config) { c.Database.Path = "" }},
		{"negative rate limit", func(c *Config) { c.Server.RateLimitReqs = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestFindConfigFileEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	custom := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(custom, []byte("server:\n  port: 9300\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, custom)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9300 {
		t.Errorf("Server.Port = %d, want 9300 from %s", cfg.Server.Port, custom)
	}
}
