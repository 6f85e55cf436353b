// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

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

	"github.com/kweaver87/marquee/internal/validation"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/marquee/config.yaml",
	"/etc/marquee/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8342,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Data: DataConfig{
			CatalogPath:    "/data/catalog.csv",
			SimilarityPath: "/data/similarity.mat",
		},
		TMDB: TMDBConfig{
			BaseURL:        "https://api.themoviedb.org/3",
			ImageBaseURL:   "https://image.tmdb.org/t/p",
			APIKey:         "",
			PosterSize:     "w342",
			Language:       "en-US",
			Timeout:        5 * time.Second,
			RateLimitRPS:   40, // TMDB's documented limit is ~50 req/s
			RateLimitBurst: 10,
		},
		Trailer: TrailerConfig{
			Enabled:   true,
			SearchURL: "https://www.youtube.com/results",
			Timeout:   5 * time.Second,
		},
		Recommend: RecommendConfig{
			Count:          5,
			MaxConcurrency: 8,
		},
		Cache: CacheConfig{
			Capacity: 0, // 0 = sized to the catalog at startup
			TTL:      0, // 0 = no expiry (process-lifetime memoization)
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// CORS origins may arrive as a comma-separated string from the environment
	if err := processSliceField(k, "server.cors_origins"); err != nil {
		return nil, fmt.Errorf("failed to process cors origins: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validation.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
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

// processSliceField converts a comma-separated string value to a slice.
// Env vars come in as strings, but the config expects a slice.
func processSliceField(k *koanf.Koanf, path string) error {
	val := k.Get(path)
	strVal, ok := val.(string)
	if !ok || strVal == "" {
		return nil
	}

	parts := strings.Split(strVal, ",")
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			trimmed = append(trimmed, p)
		}
	}
	return k.Set(path, trimmed)
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unknown variables are dropped so unrelated environment noise cannot
// overwrite config keys.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server
		"server_host":         "server.host",
		"server_port":         "server.port",
		"server_timeout":      "server.timeout",
		"shutdown_timeout":    "server.shutdown_timeout",
		"cors_origins":        "server.cors_origins",
		"rate_limit_reqs":     "server.rate_limit_reqs",
		"rate_limit_window":   "server.rate_limit_window",
		"rate_limit_disabled": "server.rate_limit_disabled",

		// Data artifacts
		"catalog_path":    "data.catalog_path",
		"similarity_path": "data.similarity_path",

		// TMDB metadata client
		"tmdb_api_key":          "tmdb.api_key",
		"tmdb_base_url":         "tmdb.base_url",
		"tmdb_image_base_url":   "tmdb.image_base_url",
		"tmdb_poster_size":      "tmdb.poster_size",
		"tmdb_language":         "tmdb.language",
		"tmdb_timeout":          "tmdb.timeout",
		"tmdb_rate_limit_rps":   "tmdb.rate_limit_rps",
		"tmdb_rate_limit_burst": "tmdb.rate_limit_burst",

		// Trailer resolver
		"trailer_enabled":    "trailer.enabled",
		"trailer_search_url": "trailer.search_url",
		"trailer_timeout":    "trailer.timeout",

		// Recommendation service
		"recommend_count":           "recommend.count",
		"recommend_max_concurrency": "recommend.max_concurrency",

		// Metadata cache
		"cache_capacity": "cache.capacity",
		"cache_ttl":      "cache.ttl",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return "" // drop unmapped variables
}
