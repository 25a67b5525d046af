// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

// Package middleware provides the HTTP middleware used by the API router:
// request IDs, access logging, Prometheus instrumentation, gzip
// compression and JWT authentication.
//
// All middleware has the chi signature func(http.Handler) http.Handler.
// The router applies them in this order:
//
//	r.Use(middleware.RequestID)
//	r.Use(middleware.AccessLog(logger, time.Second))
//	r.Use(middleware.PrometheusMetrics)
//	r.Use(middleware.Compression)
//
// Authentication is applied per route group with Authenticator.Optional or
// Authenticator.Required.
package middleware
