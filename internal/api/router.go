// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/sacavia/internal/middleware"
	"github.com/tomtom215/sacavia/internal/models"
)

// Router wires handlers and middleware.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	auth          *middleware.Authenticator
	logger        zerolog.Logger
	slowRequest   time.Duration
}

// NewRouter creates a router. auth may be nil, in which case the feed is
// anonymous and the personalized endpoint answers 401.
//
//nolint:gocritic // hugeParam: zerolog.Logger is passed by value by convention
func NewRouter(handler *Handler, mw *ChiMiddleware, auth *middleware.Authenticator, logger zerolog.Logger) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		auth:          auth,
		logger:        logger,
		slowRequest:   time.Second,
	}
}

// SetupChi builds the HTTP handler.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(router.logger, router.slowRequest))
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.Live)
	})

	r.Route("/api/v1/feed", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)

		if router.auth != nil {
			r.With(router.auth.Optional).Get("/", router.handler.Feed)
			r.With(router.auth.Required).Get("/personalized", router.handler.Personalized)
			return
		}
		r.Get("/", router.handler.Feed)
		r.Get("/personalized", unauthorized)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, &models.APIError{Code: "NOT_FOUND", Message: "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, &models.APIError{Code: "METHOD_NOT_ALLOWED", Message: "Method not allowed"})
	})

	return r
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	middleware.WriteError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication is not configured")
}
