// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8342 {
		t.Errorf("default port = %d, want 8342", cfg.Server.Port)
	}
	if cfg.Recommend.Count != 5 {
		t.Errorf("default recommend count = %d, want 5", cfg.Recommend.Count)
	}
	if cfg.TMDB.PosterSize != "w342" {
		t.Errorf("default poster size = %q, want w342", cfg.TMDB.PosterSize)
	}
	if cfg.TMDB.Timeout != 5*time.Second {
		t.Errorf("default tmdb timeout = %s, want 5s", cfg.TMDB.Timeout)
	}
	if !cfg.Trailer.Enabled {
		t.Error("trailer resolution should be enabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("RECOMMEND_COUNT", "3")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.TMDB.APIKey != "test-key" {
		t.Errorf("api key = %q, want test-key", cfg.TMDB.APIKey)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Recommend.Count != 3 {
		t.Errorf("recommend count = %d, want 3", cfg.Recommend.Count)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("cors origins = %v, want two trimmed entries", cfg.Server.CORSOrigins)
	}
}

func TestLoadRejectsMissingAPIKey(t *testing.T) {
	// required tag on tmdb.api_key, no env override
	if _, err := Load(); err == nil {
		t.Fatal("expected validation failure without TMDB_API_KEY")
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("SERVER_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation failure for out-of-range port")
	}
}

func TestEnvTransformDropsUnknownVars(t *testing.T) {
	if got := envTransformFunc("PATH"); got != "" {
		t.Errorf("unknown env var mapped to %q, want empty", got)
	}
	if got := envTransformFunc("TMDB_API_KEY"); got != "tmdb.api_key" {
		t.Errorf("TMDB_API_KEY mapped to %q", got)
	}
}
