// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kweaver87/marquee/internal/models"
	"github.com/kweaver87/marquee/internal/recommend"
	"github.com/kweaver87/marquee/internal/validation"
)

// maxTitleLength bounds the accepted query title to keep lookups and logs sane.
const maxTitleLength = 512

// Handler serves the recommendation API endpoints.
type Handler struct {
	service *recommend.Service
	version string
	started time.Time
}

// NewHandler creates an API handler over the recommendation service.
func NewHandler(service *recommend.Service, version string) *Handler {
	return &Handler{
		service: service,
		version: version,
		started: time.Now(),
	}
}

// titleRequest carries the validated query title for title-keyed endpoints.
type titleRequest struct {
	Title string `validate:"required,max=512"`
}

// parseTitle extracts and validates the title query parameter.
// Writes the error response and returns false when invalid.
func (h *Handler) parseTitle(w http.ResponseWriter, r *http.Request) (string, bool) {
	req := titleRequest{Title: r.URL.Query().Get("title")}

	if err := validation.ValidateStruct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "title query parameter is required and must be at most "+strconv.Itoa(maxTitleLength)+" characters", err)
		return "", false
	}

	return req.Title, true
}

// Movies returns every recommendable title in catalog order.
// GET /api/v1/movies
func (h *Handler) Movies(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()

	titles := h.service.Titles()
	respondSuccess(w, &models.MovieList{
		Total:  len(titles),
		Titles: titles,
	}, time.Since(start))
}

// Recommend returns the top matches for a catalog title, best match first.
// GET /api/v1/recommend?title=...
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	title, ok := h.parseTitle(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Recommend(r.Context(), title)
	if err != nil {
		if errors.Is(err, recommend.ErrUnknownMovie) {
			respondError(w, http.StatusNotFound, "UNKNOWN_MOVIE", "Title not found in catalog", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Recommendation lookup failed", err)
		return
	}

	respondSuccess(w, resp, time.Since(start))
}

// MovieByID returns the catalog entry and enriched metadata for a movie ID.
// GET /api/v1/movies/{id}
func (h *Handler) MovieByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Movie ID must be an integer", err)
		return
	}

	details, err := h.service.DetailsByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, recommend.ErrUnknownMovie) {
			respondError(w, http.StatusNotFound, "UNKNOWN_MOVIE", "Movie ID not found in catalog", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Details lookup failed", err)
		return
	}

	respondSuccess(w, details, time.Since(start))
}

// Trailer resolves the trailer watch URL for a catalog title.
// GET /api/v1/trailer?title=...
func (h *Handler) Trailer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	title, ok := h.parseTitle(w, r)
	if !ok {
		return
	}

	url, found, err := h.service.Trailer(r.Context(), title)
	if err != nil {
		if errors.Is(err, recommend.ErrUnknownMovie) {
			respondError(w, http.StatusNotFound, "UNKNOWN_MOVIE", "Title not found in catalog", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Trailer lookup failed", err)
		return
	}

	respondSuccess(w, &models.TrailerResult{
		Title:      title,
		TrailerURL: url,
		Found:      found,
	}, time.Since(start))
}

// HealthLive reports process liveness regardless of dependencies.
// GET /api/v1/health/live
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]any{
			"alive":  true,
			"uptime": time.Since(h.started).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady reports readiness to serve traffic. The catalog and matrix are
// loaded before the server starts, so readiness reduces to a non-empty catalog.
// GET /api/v1/health/ready
func (h *Handler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	ready := h.service != nil && len(h.service.Titles()) > 0

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]any{
			"catalog_loaded": ready,
			"uptime":         time.Since(h.started).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// Health reports service liveness and the loaded catalog size.
// GET /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: &models.HealthStatus{
			Status:        "ok",
			Version:       h.version,
			CatalogMovies: len(h.service.Titles()),
			UptimeSeconds: int64(time.Since(h.started).Seconds()),
			Timestamp:     time.Now(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
