// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/kweaver87/marquee/internal/logging"
	"github.com/kweaver87/marquee/internal/metrics"
)

// Provider fetches movie metadata with a never-fail contract: every lookup
// yields a usable record, substituting fallback sentinels when live data is
// unavailable. Implemented by ResilientClient for production and by mocks in
// tests.
type Provider interface {
	Details(ctx context.Context, movieID int64) *Details
	PosterURL(ctx context.Context, movieID int64) string
}

// ResilientClient wraps Client with circuit breaker protection.
// Circuit breaker pattern prevents hammering TMDB when it is unavailable or slow.
//
// DETERMINISM NOTE: The circuit breaker uses real time (via sony/gobreaker) for its
// interval and timeout calculations. This is intentional for production resilience:
// - The timing determines when to recover from failures, not data integrity
// - For unit tests, test the wrapped client directly or mock the Provider interface
type ResilientClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[any]
	name   string
}

// NewResilientClient creates a TMDB client with circuit breaker protection.
// Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 30 second timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewResilientClient(client *Client) *ResilientClient {
	cbName := "tmdb-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		// Opens when failure rate >= 60% with minimum 10 requests
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &ResilientClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// execute wraps a TMDB call with circuit breaker protection
func (rc *ResilientClient) execute(fn func() (any, error)) (any, error) {
	result, err := rc.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(rc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(rc.name, "failure").Inc()

			counts := rc.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(rc.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(rc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(rc.name).Set(0)

	return result, nil
}

// castResult safely type-casts the circuit breaker result with error checking
func castResult[T any](result any, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Details retrieves metadata for a movie with circuit breaker protection.
// On any failure, including an open circuit, the fallback record is returned
// so recommendation responses always render.
func (rc *ResilientClient) Details(ctx context.Context, movieID int64) *Details {
	start := time.Now()

	details, err := castResult[Details](rc.execute(func() (any, error) {
		return rc.client.MovieDetails(ctx, movieID)
	}))
	if err != nil {
		logging.Debug().Err(err).Int64("movie_id", movieID).Msg("TMDB details lookup failed, serving fallback")
		metrics.RecordTMDBFetch("details", "fallback", time.Since(start))
		return FallbackDetails(movieID)
	}

	metrics.RecordTMDBFetch("details", "success", time.Since(start))
	return details
}

// PosterURL retrieves the poster image URL for a movie with circuit breaker
// protection. Failures yield the placeholder poster.
func (rc *ResilientClient) PosterURL(ctx context.Context, movieID int64) string {
	start := time.Now()

	details, err := castResult[Details](rc.execute(func() (any, error) {
		return rc.client.MovieDetails(ctx, movieID)
	}))
	if err != nil {
		logging.Debug().Err(err).Int64("movie_id", movieID).Msg("TMDB poster lookup failed, serving placeholder")
		metrics.RecordTMDBFetch("poster", "fallback", time.Since(start))
		return PlaceholderPoster
	}

	metrics.RecordTMDBFetch("poster", "success", time.Since(start))
	return details.PosterURL
}
