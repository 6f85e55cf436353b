// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

// Package models defines the shared API response types.
package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses, with metadata
// for observability and caching information.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"query": "Avatar", "results": [...]},
//	  "metadata": {
//	    "timestamp": "2026-08-30T12:00:00Z",
//	    "query_time_ms": 45
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "UNKNOWN_MOVIE",
//	    "message": "Title not found in catalog"
//	  },
//	  "metadata": {"timestamp": "2026-08-30T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability and performance tracking.
//
// Fields:
//   - Timestamp: Server time when response was generated (RFC3339 format)
//   - QueryTimeMS: Lookup execution time in milliseconds (0 if served from cache)
//   - Cached: Whether the response was served from cache (omitted if false)
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - UNKNOWN_MOVIE: Title or ID not present in the catalog
//   - NOT_FOUND: Resource doesn't exist
//   - INTERNAL_ERROR: Unexpected server failure
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus reports service liveness plus the data the instance serves.
type HealthStatus struct {
	Status        string    `json:"status"`
	Version       string    `json:"version"`
	CatalogMovies int       `json:"catalog_movies"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Timestamp     time.Time `json:"timestamp"`
}

// MovieList is the payload for the catalog titles endpoint.
type MovieList struct {
	Total  int      `json:"total"`
	Titles []string `json:"titles"`
}

// TrailerResult is the payload for the trailer lookup endpoint.
type TrailerResult struct {
	Title      string `json:"title"`
	TrailerURL string `json:"trailer_url,omitempty"`
	Found      bool   `json:"found"`
}
