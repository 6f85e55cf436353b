// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

// Package recommend composes the catalog, similarity matrix, and metadata
// enrichment into the recommendation operations the API serves.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kweaver87/marquee/internal/catalog"
	"github.com/kweaver87/marquee/internal/enrich"
	"github.com/kweaver87/marquee/internal/logging"
	"github.com/kweaver87/marquee/internal/metrics"
	"github.com/kweaver87/marquee/internal/similarity"
	"github.com/kweaver87/marquee/internal/tmdb"
)

// ErrUnknownMovie indicates the requested title is not in the catalog.
var ErrUnknownMovie = errors.New("unknown movie title")

// TrailerResolver finds a trailer watch URL for a title. Implemented by the
// trailer package; lookups are best-effort and report found/not-found only.
type TrailerResolver interface {
	Resolve(ctx context.Context, title string) (string, bool)
}

// Recommendation is a single ranked result.
type Recommendation struct {
	MovieID   int     `json:"movie_id"`
	Title     string  `json:"title"`
	Score     float64 `json:"score"`
	Rating    string  `json:"rating"`
	PosterURL string  `json:"poster_url"`
}

// Response is a full recommendation answer for one query title.
type Response struct {
	Query      string           `json:"query"`
	TrailerURL string           `json:"trailer_url,omitempty"`
	Results    []Recommendation `json:"results"`
}

// MovieDetails couples a catalog entry with its enriched metadata and, when
// trailer resolution is enabled and succeeds, a trailer watch URL.
type MovieDetails struct {
	Item       catalog.Item  `json:"item"`
	Details    *tmdb.Details `json:"details"`
	TrailerURL string        `json:"trailer_url,omitempty"`
}

// Service answers recommendation queries over a loaded catalog and
// similarity matrix.
//
// Thread Safety: Safe for concurrent use; all composed state is immutable
// or internally synchronized.
type Service struct {
	catalog  *catalog.Catalog
	matrix   *similarity.Matrix
	enricher *enrich.Enricher
	trailers TrailerResolver
	count    int
}

// NewService validates that the configured result count is servable for the
// catalog size and returns a ready service. trailers may be nil to disable
// trailer resolution.
func NewService(cat *catalog.Catalog, matrix *similarity.Matrix, enricher *enrich.Enricher, trailers TrailerResolver, count int) (*Service, error) {
	if count <= 0 {
		return nil, fmt.Errorf("recommendation count must be positive, got %d", count)
	}
	if count >= cat.Len() {
		return nil, fmt.Errorf("recommendation count %d must be smaller than catalog size %d", count, cat.Len())
	}

	return &Service{
		catalog:  cat,
		matrix:   matrix,
		enricher: enricher,
		trailers: trailers,
		count:    count,
	}, nil
}

// Titles returns every recommendable title in catalog order.
func (s *Service) Titles() []string {
	return s.catalog.Titles()
}

// Count returns the configured number of results per query.
func (s *Service) Count() int {
	return s.count
}

// Recommend returns the top results for the given title, best match first,
// with ratings and poster URLs attached. The query title itself never appears
// in the results. Returns ErrUnknownMovie for titles outside the catalog.
func (s *Service) Recommend(ctx context.Context, title string) (*Response, error) {
	start := time.Now()

	idx, err := s.catalog.IndexByTitle(title)
	if err != nil {
		metrics.RecordRecommendation("unknown_title", time.Since(start))
		return nil, fmt.Errorf("%w: %q", ErrUnknownMovie, title)
	}

	neighbors, err := s.matrix.TopK(idx, s.count)
	if err != nil {
		metrics.RecordRecommendation("error", time.Since(start))
		return nil, fmt.Errorf("similarity lookup for %q: %w", title, err)
	}

	items := make([]catalog.Item, len(neighbors))
	movieIDs := make([]int64, len(neighbors))
	for i, n := range neighbors {
		item, err := s.catalog.At(n.Index)
		if err != nil {
			metrics.RecordRecommendation("error", time.Since(start))
			return nil, fmt.Errorf("catalog lookup for neighbor %d: %w", n.Index, err)
		}
		items[i] = item
		movieIDs[i] = int64(item.ID)
	}

	details := s.enricher.Details(ctx, movieIDs)

	results := make([]Recommendation, len(neighbors))
	for i, n := range neighbors {
		results[i] = Recommendation{
			MovieID:   items[i].ID,
			Title:     items[i].Title,
			Score:     n.Score,
			Rating:    details[i].Rating,
			PosterURL: details[i].PosterURL,
		}
	}

	resp := &Response{
		Query:   title,
		Results: results,
	}

	if s.trailers != nil {
		if url, ok := s.trailers.Resolve(ctx, title); ok {
			resp.TrailerURL = url
		}
	}

	logging.Debug().Str("title", title).Int("results", len(results)).Dur("elapsed", time.Since(start)).Msg("Recommendation served")
	metrics.RecordRecommendation("success", time.Since(start))

	return resp, nil
}

// DetailsByID returns the catalog entry and enriched metadata for a movie ID.
// Returns ErrUnknownMovie for IDs outside the catalog.
func (s *Service) DetailsByID(ctx context.Context, movieID int) (*MovieDetails, error) {
	idx, err := s.catalog.IndexByID(movieID)
	if err != nil {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownMovie, movieID)
	}

	item, err := s.catalog.At(idx)
	if err != nil {
		return nil, err
	}

	md := &MovieDetails{
		Item:    item,
		Details: s.enricher.DetailsFor(ctx, int64(item.ID)),
	}
	if s.trailers != nil {
		if url, ok := s.trailers.Resolve(ctx, item.Title); ok {
			md.TrailerURL = url
		}
	}

	return md, nil
}

// Trailer resolves the trailer URL for a catalog title.
// Returns ErrUnknownMovie for titles outside the catalog; a found=false
// result with nil error means the title is valid but no trailer turned up.
func (s *Service) Trailer(ctx context.Context, title string) (string, bool, error) {
	if _, err := s.catalog.IndexByTitle(title); err != nil {
		return "", false, fmt.Errorf("%w: %q", ErrUnknownMovie, title)
	}
	if s.trailers == nil {
		return "", false, nil
	}

	url, ok := s.trailers.Resolve(ctx, title)
	return url, ok, nil
}
