// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kweaver87/marquee/internal/config"
	"github.com/kweaver87/marquee/internal/recommend"
)

// Router wires handlers and middleware into the HTTP surface.
type Router struct {
	handler    *Handler
	middleware *Middleware
}

// NewRouter creates a router for the recommendation service.
func NewRouter(service *recommend.Service, cfg *config.ServerConfig, version string) *Router {
	mwConfig := DefaultMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.CORSOrigins
	mwConfig.RateLimitRequests = cfg.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.RateLimitDisabled

	return &Router{
		handler:    NewHandler(service, version),
		middleware: NewMiddleware(mwConfig),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(RequestLogging())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())

		r.Route("/health", func(r chi.Router) {
			r.Get("/", router.handler.Health)
			r.Get("/live", router.handler.HealthLive)
			r.Get("/ready", router.handler.HealthReady)
		})
		r.Get("/movies", router.handler.Movies)
		r.Get("/movies/{id}", router.handler.MovieByID)
		r.Get("/recommend", router.handler.Recommend)
		r.Get("/trailer", router.handler.Trailer)
	})

	// Prometheus metrics, outside the API rate limit so scrapes never starve
	r.Handle("/metrics", promhttp.Handler())

	return r
}
