// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/kweaver87/marquee/internal/catalog"
	"github.com/kweaver87/marquee/internal/config"
	"github.com/kweaver87/marquee/internal/enrich"
	"github.com/kweaver87/marquee/internal/models"
	"github.com/kweaver87/marquee/internal/recommend"
	"github.com/kweaver87/marquee/internal/similarity"
	"github.com/kweaver87/marquee/internal/tmdb"
)

// stubProvider serves deterministic metadata without network access.
type stubProvider struct{}

func (stubProvider) Details(_ context.Context, movieID int64) *tmdb.Details {
	return &tmdb.Details{
		MovieID:   movieID,
		Title:     fmt.Sprintf("Movie %d", movieID),
		Overview:  "An overview.",
		Rating:    "7.0",
		PosterURL: fmt.Sprintf("https://image.tmdb.org/t/p/w342/p%d.jpg", movieID),
	}
}

func (stubProvider) PosterURL(_ context.Context, movieID int64) string {
	return fmt.Sprintf("https://image.tmdb.org/t/p/w342/p%d.jpg", movieID)
}

// stubTrailers resolves trailers only for titles in the map.
type stubTrailers struct {
	urls map[string]string
}

func (s *stubTrailers) Resolve(_ context.Context, title string) (string, bool) {
	url, ok := s.urls[title]
	return url, ok
}

// newTestServer builds a router over a six-movie catalog.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cat := catalog.New([]catalog.Item{
		{ID: 100, Title: "Alpha"},
		{ID: 101, Title: "Bravo"},
		{ID: 102, Title: "Charlie"},
		{ID: 103, Title: "Delta"},
		{ID: 104, Title: "Echo"},
		{ID: 105, Title: "Foxtrot"},
	})

	m, err := similarity.New(6, []float64{
		1.0, 0.9, 0.2, 0.9, 0.5, 0.1,
		0.9, 1.0, 0.3, 0.4, 0.6, 0.2,
		0.2, 0.3, 1.0, 0.1, 0.4, 0.7,
		0.9, 0.4, 0.1, 1.0, 0.3, 0.5,
		0.5, 0.6, 0.4, 0.3, 1.0, 0.8,
		0.1, 0.2, 0.7, 0.5, 0.8, 1.0,
	})
	if err != nil {
		t.Fatalf("similarity.New: %v", err)
	}

	enricher := enrich.New(stubProvider{}, 4, 16, 0)
	trailers := &stubTrailers{urls: map[string]string{"Alpha": "https://www.youtube.com/watch?v=abc123"}}

	svc, err := recommend.NewService(cat, m, enricher, trailers, 2)
	if err != nil {
		t.Fatalf("recommend.NewService: %v", err)
	}

	router := NewRouter(svc, &config.ServerConfig{
		RateLimitReqs:   1000,
		RateLimitWindow: time.Minute,
	}, "test")

	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv
}

// getJSON performs a GET and decodes the standard response envelope.
func getJSON(t *testing.T, url string) (int, *models.APIResponse) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	var envelope models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response from %s: %v", url, err)
	}
	return resp.StatusCode, &envelope
}

// decodeData re-marshals the Data field into a typed struct.
func decodeData(t *testing.T, envelope *models.APIResponse, out interface{}) {
	t.Helper()

	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
}

func TestMoviesEndpoint(t *testing.T) {
	srv := newTestServer(t)

	status, envelope := getJSON(t, srv.URL+"/api/v1/movies")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if envelope.Status != "success" {
		t.Fatalf("envelope status = %q, want success", envelope.Status)
	}

	var list models.MovieList
	decodeData(t, envelope, &list)

	if list.Total != 6 || len(list.Titles) != 6 {
		t.Errorf("Total = %d, len(Titles) = %d, want 6 and 6", list.Total, len(list.Titles))
	}
	if list.Titles[0] != "Alpha" {
		t.Errorf("Titles[0] = %q, want Alpha (catalog order)", list.Titles[0])
	}
}

func TestRecommendEndpoint(t *testing.T) {
	srv := newTestServer(t)

	status, envelope := getJSON(t, srv.URL+"/api/v1/recommend?title=Alpha")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	var resp recommend.Response
	decodeData(t, envelope, &resp)

	if len(resp.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(resp.Results))
	}
	if resp.Results[0].Title != "Bravo" || resp.Results[1].Title != "Delta" {
		t.Errorf("results = [%q, %q], want [Bravo, Delta]", resp.Results[0].Title, resp.Results[1].Title)
	}
	if resp.Results[0].PosterURL == "" {
		t.Error("Results[0].PosterURL is empty, want enriched poster")
	}
	if resp.TrailerURL != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("TrailerURL = %q, want stub URL", resp.TrailerURL)
	}
}

func TestRecommendUnknownTitle(t *testing.T) {
	srv := newTestServer(t)

	status, envelope := getJSON(t, srv.URL+"/api/v1/recommend?title=Zulu")
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if envelope.Error == nil || envelope.Error.Code != "UNKNOWN_MOVIE" {
		t.Errorf("error = %+v, want UNKNOWN_MOVIE", envelope.Error)
	}
}

func TestRecommendMissingTitle(t *testing.T) {
	srv := newTestServer(t)

	status, envelope := getJSON(t, srv.URL+"/api/v1/recommend")
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if envelope.Error == nil || envelope.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error = %+v, want VALIDATION_ERROR", envelope.Error)
	}
}

func TestMovieByIDEndpoint(t *testing.T) {
	srv := newTestServer(t)

	status, envelope := getJSON(t, srv.URL+"/api/v1/movies/102")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	var details recommend.MovieDetails
	decodeData(t, envelope, &details)

	if details.Item.Title != "Charlie" {
		t.Errorf("Item.Title = %q, want Charlie", details.Item.Title)
	}
	if details.Details == nil || details.Details.Title != "Movie 102" {
		t.Errorf("Details = %+v, want Movie 102", details.Details)
	}
}

func TestMovieByIDErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{name: "unknown id", path: "/api/v1/movies/999", wantStatus: http.StatusNotFound, wantCode: "UNKNOWN_MOVIE"},
		{name: "non-numeric id", path: "/api/v1/movies/abc", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, envelope := getJSON(t, srv.URL+tt.path)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if envelope.Error == nil || envelope.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", envelope.Error, tt.wantCode)
			}
		})
	}
}

func TestTrailerEndpoint(t *testing.T) {
	srv := newTestServer(t)

	status, envelope := getJSON(t, srv.URL+"/api/v1/trailer?title=Alpha")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	var result models.TrailerResult
	decodeData(t, envelope, &result)

	if !result.Found || result.TrailerURL == "" {
		t.Errorf("result = %+v, want found trailer", result)
	}

	// Valid title without a trailer reports found=false, not an error.
	status, envelope = getJSON(t, srv.URL+"/api/v1/trailer?title=Bravo")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	decodeData(t, envelope, &result)
	if result.Found {
		t.Errorf("result = %+v, want found=false", result)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	status, envelope := getJSON(t, srv.URL+"/api/v1/health")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	var health models.HealthStatus
	decodeData(t, envelope, &health)

	if health.Status != "ok" {
		t.Errorf("Status = %q, want ok", health.Status)
	}
	if health.CatalogMovies != 6 {
		t.Errorf("CatalogMovies = %d, want 6", health.CatalogMovies)
	}
}

func TestHealthProbes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		path string
	}{
		{name: "liveness", path: "/api/v1/health/live"},
		{name: "readiness", path: "/api/v1/health/ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, envelope := getJSON(t, srv.URL+tt.path)
			if status != http.StatusOK {
				t.Fatalf("status = %d, want 200", status)
			}
			if envelope.Status == "" {
				t.Error("missing envelope status")
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestResponseETagStable(t *testing.T) {
	srv := newTestServer(t)

	first, err := http.Get(srv.URL + "/api/v1/movies")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	_ = first.Body.Close()

	if first.Header.Get("ETag") == "" {
		t.Error("missing ETag header")
	}
}
