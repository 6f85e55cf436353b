// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

/*
client.go - Core TMDB API Client

This file provides the core Client struct and HTTP communication layer for
The Movie Database (TMDB) REST API.

Client Features:
  - HTTP client with configurable timeout
  - API key authentication via query parameter
  - Client-side rate limiting (token bucket via golang.org/x/time/rate)
  - JSON response parsing with typed response structs
  - Context support for cancellation and timeouts

Fallback Policy:
The raw client methods return errors; the resilient wrapper in breaker.go
substitutes a well-known fallback record so metadata lookups never fail the
caller. See FallbackDetails for the sentinel values.

Related Files:
  - breaker.go: Circuit breaker wrapper with fallback substitution
*/

//nolint:staticcheck // File documentation, not package doc
package tmdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/kweaver87/marquee/internal/config"
)

// maxErrorBodySize limits the maximum amount of response body read for error reporting
const maxErrorBodySize = 16 * 1024 // 16KB

// Fallback sentinel values served when TMDB is unreachable, slow, or returns
// malformed data. Callers can rely on these exact strings being present in
// place of live metadata.
const (
	FallbackTitle    = "No Title"
	FallbackOverview = "No description available."
	FallbackField    = "N/A"

	// PlaceholderPoster is served when no poster is available for a movie
	// or the poster lookup failed entirely.
	PlaceholderPoster = "https://via.placeholder.com/342x513?text=No+Image"
)

// Details holds the metadata subset Marquee surfaces for a movie.
// Fields are never empty: failed lookups carry the fallback sentinels.
type Details struct {
	MovieID     int64    `json:"movie_id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	ReleaseDate string   `json:"release_date"`
	Rating      string   `json:"rating"`
	Genres      []string `json:"genres,omitempty"`
	PosterURL   string   `json:"poster_url"`
}

// FallbackDetails returns the sentinel record served when a TMDB lookup fails.
func FallbackDetails(movieID int64) *Details {
	return &Details{
		MovieID:     movieID,
		Title:       FallbackTitle,
		Overview:    FallbackOverview,
		ReleaseDate: FallbackField,
		Rating:      FallbackField,
		PosterURL:   PlaceholderPoster,
	}
}

// movieResponse mirrors the TMDB /movie/{id} response fields Marquee consumes.
type movieResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	PosterPath  string  `json:"poster_path"`
	Genres      []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

// Client handles communication with the TMDB HTTP API.
//
// The client applies a token-bucket rate limiter before every request so that
// concurrent enrichment fan-out cannot exceed TMDB's documented request budget.
//
// Thread Safety: Safe for concurrent use. Each request creates its own HTTP request.
type Client struct {
	baseURL      string
	imageBaseURL string
	posterSize   string
	apiKey       string
	language     string
	client       *http.Client
	limiter      *rate.Limiter
}

// NewClient creates a TMDB API client from the provided configuration.
func NewClient(cfg *config.TMDBConfig) *Client {
	return &Client{
		baseURL:      cfg.BaseURL,
		imageBaseURL: cfg.ImageBaseURL,
		posterSize:   cfg.PosterSize,
		apiKey:       cfg.APIKey,
		language:     cfg.Language,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	}
}

// readBodyForError reads the response body for error reporting (max 16KB)
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	return body
}

// fetchMovie retrieves the raw TMDB record for a movie ID.
// Returns an error on transport failure, non-200 status, or malformed JSON.
func (c *Client) fetchMovie(ctx context.Context, movieID int64) (*movieResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s/movie/%d?api_key=%s&language=%s", c.baseURL, movieID, c.apiKey, c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("TMDB returned status %d for movie %d: %s", resp.StatusCode, movieID, string(body))
	}

	var movie movieResponse
	if err := json.NewDecoder(resp.Body).Decode(&movie); err != nil {
		return nil, fmt.Errorf("failed to decode TMDB response for movie %d: %w", movieID, err)
	}

	return &movie, nil
}

// MovieDetails retrieves metadata for a movie ID.
// Unlike the resilient wrapper, this method surfaces errors to the caller.
func (c *Client) MovieDetails(ctx context.Context, movieID int64) (*Details, error) {
	movie, err := c.fetchMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	return c.toDetails(movieID, movie), nil
}

// toDetails maps a raw TMDB record to the Marquee metadata shape,
// filling individual missing fields with fallback sentinels.
func (c *Client) toDetails(movieID int64, movie *movieResponse) *Details {
	d := &Details{
		MovieID:     movieID,
		Title:       movie.Title,
		Overview:    movie.Overview,
		ReleaseDate: movie.ReleaseDate,
		PosterURL:   c.posterURL(movie.PosterPath),
	}

	if d.Title == "" {
		d.Title = FallbackTitle
	}
	if d.Overview == "" {
		d.Overview = FallbackOverview
	}
	if d.ReleaseDate == "" {
		d.ReleaseDate = FallbackField
	}

	if movie.VoteAverage > 0 {
		d.Rating = strconv.FormatFloat(movie.VoteAverage, 'f', 1, 64)
	} else {
		d.Rating = FallbackField
	}

	for _, g := range movie.Genres {
		if g.Name != "" {
			d.Genres = append(d.Genres, g.Name)
		}
	}

	return d
}

// posterURL builds the full poster image URL for a TMDB poster path.
// Empty paths map to the placeholder image.
func (c *Client) posterURL(posterPath string) string {
	if posterPath == "" {
		return PlaceholderPoster
	}
	return c.imageBaseURL + "/" + c.posterSize + posterPath
}
