// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

// Package enrich decorates recommendation results with movie metadata.
//
// Batch operations fan out concurrently with a bounded worker count, preserve
// input order in their results, and memoize lookups in a bounded LRU cache.
// A failed lookup degrades that single slot to the fallback record; it never
// fails the batch.
package enrich

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/kweaver87/marquee/internal/cache"
	"github.com/kweaver87/marquee/internal/logging"
	"github.com/kweaver87/marquee/internal/metrics"
	"github.com/kweaver87/marquee/internal/tmdb"
)

// Enricher fetches metadata for batches of movie IDs.
//
// Thread Safety: Safe for concurrent use.
type Enricher struct {
	provider       tmdb.Provider
	details        *cache.LRU
	posters        *cache.LRU
	maxConcurrency int
}

// New creates an Enricher backed by the given metadata provider.
// maxConcurrency bounds the number of in-flight lookups per batch.
// cacheCapacity and cacheTTL size the memoization caches; a TTL of zero
// keeps entries for the process lifetime.
func New(provider tmdb.Provider, maxConcurrency, cacheCapacity int, cacheTTL time.Duration) *Enricher {
	return &Enricher{
		provider:       provider,
		details:        cache.NewLRU(cacheCapacity, cacheTTL),
		posters:        cache.NewLRU(cacheCapacity, cacheTTL),
		maxConcurrency: maxConcurrency,
	}
}

// Details fetches metadata for each movie ID, preserving input order.
// The returned slice always has len(movieIDs) non-nil entries; slots whose
// lookup failed hold the fallback record.
func (e *Enricher) Details(ctx context.Context, movieIDs []int64) []*tmdb.Details {
	results := make([]*tmdb.Details, len(movieIDs))

	e.forEach(ctx, movieIDs, func(ctx context.Context, i int, id int64) {
		results[i] = e.detailsFor(ctx, id)
	})

	return results
}

// Posters fetches poster URLs for each movie ID, preserving input order.
// Slots whose lookup failed hold the placeholder poster URL.
func (e *Enricher) Posters(ctx context.Context, movieIDs []int64) []string {
	results := make([]string, len(movieIDs))

	e.forEach(ctx, movieIDs, func(ctx context.Context, i int, id int64) {
		results[i] = e.posterFor(ctx, id)
	})

	return results
}

// forEach runs fn for every movie ID with bounded concurrency and blocks
// until all slots are filled.
func (e *Enricher) forEach(ctx context.Context, movieIDs []int64, fn func(ctx context.Context, i int, id int64)) {
	var wg sync.WaitGroup
	sem := make(chan struct{}, e.maxConcurrency)

	for i := range movieIDs {
		wg.Add(1)
		sem <- struct{}{} // Acquire semaphore

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }() // Release semaphore

			fn(ctx, idx, movieIDs[idx])
		}(i)
	}

	wg.Wait()
}

// DetailsFor fetches metadata for a single movie ID through the cache.
func (e *Enricher) DetailsFor(ctx context.Context, movieID int64) *tmdb.Details {
	return e.detailsFor(ctx, movieID)
}

func (e *Enricher) detailsFor(ctx context.Context, movieID int64) *tmdb.Details {
	key := cacheKey(movieID)

	if cached, ok := e.details.Get(key); ok {
		metrics.RecordCacheHit("details")
		if d, ok := cached.(*tmdb.Details); ok {
			return d
		}
	}
	metrics.RecordCacheMiss("details")

	d := e.provider.Details(ctx, movieID)
	if d == nil {
		// Providers never return nil, but a broken mock should not panic the batch.
		logging.Error().Int64("movie_id", movieID).Msg("Metadata provider returned nil details")
		return tmdb.FallbackDetails(movieID)
	}

	e.details.Set(key, d)
	metrics.CacheSize.WithLabelValues("details").Set(float64(e.details.Len()))
	return d
}

func (e *Enricher) posterFor(ctx context.Context, movieID int64) string {
	key := cacheKey(movieID)

	if cached, ok := e.posters.Get(key); ok {
		metrics.RecordCacheHit("posters")
		if url, ok := cached.(string); ok {
			return url
		}
	}
	metrics.RecordCacheMiss("posters")

	url := e.provider.PosterURL(ctx, movieID)
	if url == "" {
		url = tmdb.PlaceholderPoster
	}

	e.posters.Set(key, url)
	metrics.CacheSize.WithLabelValues("posters").Set(float64(e.posters.Len()))
	return url
}

// CacheStats reports hit/miss counters for both memoization caches.
func (e *Enricher) CacheStats() (details, posters cache.Stats) {
	return e.details.GetStats(), e.posters.GetStats()
}

func cacheKey(movieID int64) string {
	return strconv.FormatInt(movieID, 10)
}
