// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

// Package trailer resolves YouTube trailer URLs for movie titles.
//
// Resolution scrapes the YouTube results page for the first embedded video ID
// rather than using the Data API, so no additional API key is required. The
// lookup is strictly best-effort: failures and missing matches report not-found
// and never propagate errors to recommendation responses.
package trailer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"

	"github.com/kweaver87/marquee/internal/config"
	"github.com/kweaver87/marquee/internal/logging"
	"github.com/kweaver87/marquee/internal/metrics"
)

// maxResultsBodySize bounds how much of the results page is read when
// searching for a video ID. The first match appears well within this window.
const maxResultsBodySize = 512 * 1024 // 512KB

// videoIDPattern matches the first embedded video ID on a YouTube results page.
var videoIDPattern = regexp.MustCompile(`"videoId":"(.*?)"`)

// Resolver finds trailer watch URLs for movie titles.
//
// Thread Safety: Safe for concurrent use.
type Resolver struct {
	searchURL string
	enabled   bool
	client    *http.Client
}

// NewResolver creates a trailer resolver from the provided configuration.
func NewResolver(cfg *config.TrailerConfig) *Resolver {
	return &Resolver{
		searchURL: cfg.SearchURL,
		enabled:   cfg.Enabled,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Resolve returns the YouTube watch URL for a movie's trailer.
// The second return value reports whether a trailer was found. Lookups when
// the resolver is disabled, network failures, and pages without a video ID
// all report false.
func (r *Resolver) Resolve(ctx context.Context, title string) (string, bool) {
	if !r.enabled {
		return "", false
	}

	query := url.QueryEscape(title + " official trailer")
	reqURL := fmt.Sprintf("%s?search_query=%s", r.searchURL, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		metrics.TrailerLookupsTotal.WithLabelValues("error").Inc()
		return "", false
	}

	resp, err := r.client.Do(req)
	if err != nil {
		logging.Debug().Err(err).Str("title", title).Msg("Trailer search request failed")
		metrics.TrailerLookupsTotal.WithLabelValues("error").Inc()
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Debug().Int("status", resp.StatusCode).Str("title", title).Msg("Trailer search returned non-OK status")
		metrics.TrailerLookupsTotal.WithLabelValues("error").Inc()
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResultsBodySize))
	if err != nil {
		metrics.TrailerLookupsTotal.WithLabelValues("error").Inc()
		return "", false
	}

	match := videoIDPattern.FindSubmatch(body)
	if match == nil || len(match[1]) == 0 {
		metrics.TrailerLookupsTotal.WithLabelValues("not_found").Inc()
		return "", false
	}

	metrics.TrailerLookupsTotal.WithLabelValues("found").Inc()
	return "https://www.youtube.com/watch?v=" + string(match[1]), true
}
