// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

// Package api serves the feed over HTTP with chi.
//
// Routes:
//
//	GET /api/v1/health               liveness and store status
//	GET /api/v1/health/live          process liveness only
//	GET /api/v1/feed                 mixed discovery feed, optional JWT
//	GET /api/v1/feed/personalized    followed-users feed, JWT required
//	GET /metrics                     Prometheus
//
// Every JSON response uses the models.APIResponse envelope.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/sacavia/internal/feed"
)

// FeedService is the part of the feed engine the handlers use.
type FeedService interface {
	Run(ctx context.Context, req *feed.Request) feed.Result
	Personalized(ctx context.Context, req *feed.PersonalizedRequest) []feed.ScoredPost
	PersonalizedPageSize(requested int) int
}

// Pinger reports document store reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HandlerConfig holds handler dependencies.
type HandlerConfig struct {
	Feed  FeedService
	Store Pinger

	// StoreBackend names the store in health output.
	StoreBackend string

	// BreakerState reports the store circuit breaker state. Optional.
	BreakerState func() string

	Version string
	Logger  zerolog.Logger

	// HealthTimeout bounds the store ping.
	HealthTimeout time.Duration
}

// Handler implements the HTTP endpoints.
type Handler struct {
	feed          FeedService
	store         Pinger
	storeBackend  string
	breakerState  func() string
	version       string
	logger        zerolog.Logger
	healthTimeout time.Duration
	startTime     time.Time
}

// NewHandler validates dependencies and returns a Handler.
//
//nolint:gocritic // hugeParam: HandlerConfig is built once at startup
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.Feed == nil {
		return nil, errors.New("api: feed service is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("api: store is required")
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = 2 * time.Second
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return &Handler{
		feed:          cfg.Feed,
		store:         cfg.Store,
		storeBackend:  cfg.StoreBackend,
		breakerState:  cfg.BreakerState,
		version:       cfg.Version,
		logger:        cfg.Logger.With().Str("component", "api").Logger(),
		healthTimeout: cfg.HealthTimeout,
		startTime:     time.Now(),
	}, nil
}
