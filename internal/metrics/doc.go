// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package instruments the recommendation service using the Prometheus client
library, exposing metrics for monitoring performance, fallback usage, and
outbound dependency health.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - Recommendation lookup outcomes and duration
  - TMDB metadata fetches, including how often the fallback record was served
  - Trailer URL lookup outcomes
  - Metadata cache hit/miss rates
  - Circuit breaker state transitions for outbound HTTP calls

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8342/metrics

All metrics are registered at package initialization via promauto; recording
helpers are safe for concurrent use.
*/
package metrics
