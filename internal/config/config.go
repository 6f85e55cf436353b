// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

// Package config provides centralized configuration management for Marquee.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.TMDB.APIKey, cfg.Data.CatalogPath, etc. are now populated
//
// Config is immutable after Load() and safe for concurrent read access.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds all application configuration loaded from environment
// variables and config files.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Data      DataConfig      `koanf:"data"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Trailer   TrailerConfig   `koanf:"trailer"`
	Recommend RecommendConfig `koanf:"recommend"`
	Cache     CacheConfig     `koanf:"cache"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - SERVER_HOST: Bind address (default: 0.0.0.0)
//   - SERVER_PORT: Listen port (default: 8342)
//   - SERVER_TIMEOUT: Request timeout (default: 30s)
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins lists allowed CORS origins. Empty disables cross-origin access.
	CORSOrigins []string `koanf:"cors_origins"`

	// Rate limiting for the inbound API (go-chi/httprate).
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// DataConfig holds paths to the pre-built catalog and similarity artifacts.
// Both are loaded once at startup and are read-only for the process lifetime.
//
// Environment Variables:
//   - CATALOG_PATH: Catalog table (CSV or Parquet, loaded via DuckDB)
//   - SIMILARITY_PATH: Similarity matrix file (binary, see store package)
type DataConfig struct {
	CatalogPath    string `koanf:"catalog_path" validate:"required"`
	SimilarityPath string `koanf:"similarity_path" validate:"required"`
}

// TMDBConfig holds settings for The Movie Database metadata client.
//
// Environment Variables:
//   - TMDB_API_KEY: API key (required)
//   - TMDB_POSTER_SIZE: Image size token (default: w342)
//   - TMDB_TIMEOUT: Per-call timeout (default: 5s)
type TMDBConfig struct {
	BaseURL      string        `koanf:"base_url" validate:"required"`
	ImageBaseURL string        `koanf:"image_base_url" validate:"required"`
	APIKey       string        `koanf:"api_key" validate:"required"`
	PosterSize   string        `koanf:"poster_size"`
	Language     string        `koanf:"language"`
	Timeout      time.Duration `koanf:"timeout"`

	// Outbound rate limiting (golang.org/x/time/rate).
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`
}

// TrailerConfig holds settings for the best-effort trailer resolver.
//
// Environment Variables:
//   - TRAILER_ENABLED: Enable trailer resolution (default: true)
//   - TRAILER_TIMEOUT: Per-call timeout (default: 5s)
type TrailerConfig struct {
	Enabled   bool          `koanf:"enabled"`
	SearchURL string        `koanf:"search_url" validate:"required"`
	Timeout   time.Duration `koanf:"timeout"`
}

// RecommendConfig holds recommendation service settings.
//
// Environment Variables:
//   - RECOMMEND_COUNT: Number of recommendations per request (default: 5)
type RecommendConfig struct {
	// Count is the fixed number of recommendations returned per request.
	Count int `koanf:"count" validate:"min=1"`

	// MaxConcurrency caps the enrichment fan-out per batch.
	MaxConcurrency int `koanf:"max_concurrency" validate:"min=1"`
}

// CacheConfig holds settings for process-lifetime metadata memoization.
// Capacity 0 means "size to the catalog" (decided at startup).
type CacheConfig struct {
	Capacity int           `koanf:"capacity" validate:"min=0"`
	TTL      time.Duration `koanf:"ttl"`
}

// LoggingConfig holds log output settings.
//
// Environment Variables:
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks cross-field constraints the struct tags cannot express.
// Tag validation is handled by the validation package during Load.
func (c *Config) Validate() error {
	if _, err := url.Parse(c.TMDB.BaseURL); err != nil {
		return fmt.Errorf("invalid tmdb.base_url: %w", err)
	}
	if _, err := url.Parse(c.Trailer.SearchURL); err != nil {
		return fmt.Errorf("invalid trailer.search_url: %w", err)
	}
	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("tmdb.timeout must be positive, got %s", c.TMDB.Timeout)
	}
	if c.Trailer.Timeout <= 0 {
		return fmt.Errorf("trailer.timeout must be positive, got %s", c.Trailer.Timeout)
	}
	if c.TMDB.RateLimitRPS <= 0 {
		return fmt.Errorf("tmdb.rate_limit_rps must be positive, got %f", c.TMDB.RateLimitRPS)
	}
	return nil
}

// Addr returns the host:port bind address for the HTTP server.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
