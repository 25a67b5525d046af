// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/sacavia/internal/cache"
	"github.com/tomtom215/sacavia/internal/config"
	"github.com/tomtom215/sacavia/internal/feed"
	"github.com/tomtom215/sacavia/internal/logging"
	"github.com/tomtom215/sacavia/internal/store"
	"github.com/tomtom215/sacavia/internal/store/badgerstore"
	"github.com/tomtom215/sacavia/internal/store/mongostore"
	"github.com/tomtom215/sacavia/internal/store/resilient"
	"github.com/tomtom215/sacavia/internal/supervisor"
	"github.com/tomtom215/sacavia/internal/supervisor/services"
)

// initStore opens the configured backend and wraps it in the circuit
// breaker. Badger value-log GC is registered on the storage layer.
//
//nolint:gocritic // hugeParam: zerolog.Logger is passed by value by convention
func initStore(ctx context.Context, cfg *config.Config, tree *supervisor.Tree, logger zerolog.Logger) (*resilient.Store, func(), error) {
	var inner store.Store
	switch cfg.Store.Backend {
	case config.StoreBadger:
		bs, err := badgerstore.Open(cfg.Store.Badger, logger)
		if err != nil {
			return nil, nil, err
		}
		if !cfg.Store.Badger.InMemory {
			tree.AddStorageService(services.NewBadgerGCService(bs, bs.GCInterval(), logger))
		}
		inner = bs
	case config.StoreMongo:
		ms, err := mongostore.Connect(ctx, cfg.Store.Mongo, logger)
		if err != nil {
			return nil, nil, err
		}
		inner = ms
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	st := resilient.Wrap(inner, cfg.Breaker, logger)
	closeFn := func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing document store")
		}
	}
	return st, closeFn, nil
}

// initPoolCache returns the engine options for the configured pool cache.
//
//nolint:gocritic // hugeParam: zerolog.Logger is passed by value by convention
func initPoolCache(ctx context.Context, cfg *config.Config, tree *supervisor.Tree, logger zerolog.Logger) ([]feed.Option, func(), error) {
	noop := func() {}
	if !cfg.Cache.Enabled {
		return nil, noop, nil
	}

	switch cfg.Cache.Backend {
	case cache.BackendRedis:
		pool, err := cache.NewRedisPool(ctx, cfg.Cache.Redis, cfg.Cache.TTL, logger)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() {
			if err := pool.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing Redis pool cache")
			}
		}
		return []feed.Option{feed.WithPoolCache(pool)}, closeFn, nil
	default:
		pool := cache.NewMemoryPool(cfg.Cache.Capacity, cfg.Cache.TTL)
		tree.AddStorageService(services.NewCacheJanitorService(pool, cfg.Cache.SweepInterval, logger))
		return []feed.Option{feed.WithPoolCache(pool)}, noop, nil
	}
}
