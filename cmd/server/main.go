// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

// Package main is the entry point for the Sacavia feed server.
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, config.yaml, then environment (Koanf v2)
//  2. Document store: BadgerDB or MongoDB, behind a circuit breaker
//  3. Pool cache: in-process LRU or Redis
//  4. Feed engine
//  5. Authentication: HS256 JWT when JWT_SECRET is set
//  6. HTTP server and maintenance services under a suture tree
//
// Example:
//
//	export STORE_BACKEND=badger
//	export BADGER_PATH=/var/lib/sacavia
//	export JWT_SECRET=$(openssl rand -base64 48)
//	./sacavia
//
// SIGINT and SIGTERM cancel the tree; the HTTP server drains for
// SHUTDOWN_TIMEOUT before the store is closed.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/tomtom215/sacavia/internal/api"
	"github.com/tomtom215/sacavia/internal/config"
	"github.com/tomtom215/sacavia/internal/feed"
	"github.com/tomtom215/sacavia/internal/logging"
	"github.com/tomtom215/sacavia/internal/middleware"
	"github.com/tomtom215/sacavia/internal/supervisor"
	"github.com/tomtom215/sacavia/internal/supervisor/services"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LoggingOptions())
	logger := logging.Logger()

	logging.Info().
		Str("version", version).
		Str("store", cfg.Store.Backend).
		Bool("cache", cfg.Cache.Enabled).
		Bool("auth", cfg.AuthEnabled()).
		Msg("Starting Sacavia feed server")
	if cfg.HasWildcardCORS() {
		logging.Warn().Msg("CORS allows any origin")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tree := supervisor.NewTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	st, closeStore, err := initStore(ctx, cfg, tree, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open document store")
	}
	defer closeStore()

	opts, closeCache, err := initPoolCache(ctx, cfg, tree, logger)
	if err != nil {
		closeStore()
		logging.Fatal().Err(err).Msg("Failed to initialize pool cache")
	}
	defer closeCache()

	engine, err := feed.NewEngine(cfg.FeedConfig(), st, logger, opts...)
	if err != nil {
		closeStore()
		logging.Fatal().Err(err).Msg("Failed to create feed engine")
	}

	var auth *middleware.Authenticator
	if cfg.AuthEnabled() {
		auth, err = middleware.NewAuthenticator(cfg.Security.JWTSecret, cfg.Security.JWTIssuer, logger)
		if err != nil {
			closeStore()
			logging.Fatal().Err(err).Msg("Failed to create authenticator")
		}
	} else {
		logging.Warn().Msg("JWT_SECRET not set: personalized feed disabled, discovery feed is anonymous")
	}

	handler, err := api.NewHandler(api.HandlerConfig{
		Feed:         engine,
		Store:        st,
		StoreBackend: cfg.Store.Backend,
		BreakerState: st.State,
		Version:      version,
		Logger:       logger,
	})
	if err != nil {
		closeStore()
		logging.Fatal().Err(err).Msg("Failed to create API handler")
	}

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Security.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled

	router := api.NewRouter(handler, api.NewChiMiddleware(mwConfig), auth, logger)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       4 * cfg.Server.Timeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	logging.Info().Msg("Sacavia stopped")
}
