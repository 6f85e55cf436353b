// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

// Package main is the entry point for the Marquee server.
//
// Marquee is a self-hosted movie recommendation service. It loads a movie
// catalog and a precomputed similarity matrix at startup, then serves ranked
// look-alike recommendations over a REST API, enriching results with poster
// art and metadata from TMDB and trailer links from YouTube.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from config files and environment variables (Koanf v2)
//  2. Data: Load the catalog (CSV/Parquet via DuckDB) and the similarity matrix,
//     cross-validating their dimensions
//  3. TMDB client: Circuit-breaker-protected metadata fetches with fallback records
//  4. Trailer resolver: Best-effort YouTube trailer lookups
//  5. Recommendation service: Catalog + matrix + enrichment composition
//  6. HTTP Server: REST API under /api/v1 plus Prometheus /metrics
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (see README)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// Required settings:
//   - CATALOG_PATH: catalog file (.csv or .parquet)
//   - SIMILARITY_PATH: similarity matrix file
//   - TMDB_API_KEY: TMDB API key for metadata enrichment
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (shutdown timeout)
//
// # Example Usage
//
//	export CATALOG_PATH=/data/movies.csv
//	export SIMILARITY_PATH=/data/similarity.mat
//	export TMDB_API_KEY=your-tmdb-key
//	./marquee
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kweaver87/marquee/internal/api"
	"github.com/kweaver87/marquee/internal/config"
	"github.com/kweaver87/marquee/internal/enrich"
	"github.com/kweaver87/marquee/internal/logging"
	"github.com/kweaver87/marquee/internal/metrics"
	"github.com/kweaver87/marquee/internal/recommend"
	"github.com/kweaver87/marquee/internal/store"
	"github.com/kweaver87/marquee/internal/supervisor"
	"github.com/kweaver87/marquee/internal/supervisor/services"
	"github.com/kweaver87/marquee/internal/tmdb"
	"github.com/kweaver87/marquee/internal/trailer"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

// minCacheCapacity floors the metadata cache when the catalog is tiny.
const minCacheCapacity = 1024

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Str("version", version).Msg("Starting Marquee")
	logging.Info().
		Str("catalog_path", cfg.Data.CatalogPath).
		Str("similarity_path", cfg.Data.SimilarityPath).
		Int("recommend_count", cfg.Recommend.Count).
		Msg("Configuration loaded")

	// Load catalog and similarity matrix; a dimension mismatch between the
	// two is fatal here rather than a latent runtime panic.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cat, matrix, err := store.Load(ctx, cfg.Data.CatalogPath, cfg.Data.SimilarityPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load recommendation data")
	}
	metrics.CatalogSize.Set(float64(cat.Len()))
	logging.Info().Int("movies", cat.Len()).Msg("Catalog and similarity matrix loaded")

	// TMDB client with circuit breaker for fault tolerance. Failed lookups
	// degrade to fallback records, so recommendations keep rendering when
	// TMDB is down.
	provider := tmdb.NewResilientClient(tmdb.NewClient(&cfg.TMDB))

	cacheCapacity := cfg.Cache.Capacity
	if cacheCapacity <= 0 {
		cacheCapacity = cat.Len()
		if cacheCapacity < minCacheCapacity {
			cacheCapacity = minCacheCapacity
		}
	}
	enricher := enrich.New(provider, cfg.Recommend.MaxConcurrency, cacheCapacity, cfg.Cache.TTL)

	var trailers recommend.TrailerResolver
	if cfg.Trailer.Enabled {
		trailers = trailer.NewResolver(&cfg.Trailer)
	} else {
		logging.Info().Msg("Trailer resolution disabled")
	}

	service, err := recommend.NewService(cat, matrix, enricher, trailers, cfg.Recommend.Count)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation service")
	}

	router := api.NewRouter(service, &cfg.Server, version)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	// Supervisor tree bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
