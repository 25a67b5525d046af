// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/sacavia/internal/cache"
	"github.com/tomtom215/sacavia/internal/metrics"
)

// Task is one pass of a periodic job.
type Task func(ctx context.Context) error

// PeriodicService runs a Task on a fixed interval. Task errors are logged and
// do not stop the service.
type PeriodicService struct {
	name     string
	interval time.Duration
	task     Task
	logger   zerolog.Logger
}

// NewPeriodicService creates a service named name. A non-positive interval
// means one minute.
//
//nolint:gocritic // hugeParam: zerolog.Logger is passed by value by convention
func NewPeriodicService(name string, interval time.Duration, task Task, logger zerolog.Logger) *PeriodicService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PeriodicService{
		name:     name,
		interval: interval,
		task:     task,
		logger:   logger.With().Str("component", name).Logger(),
	}
}

// Serve implements suture.Service.
func (p *PeriodicService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := p.task(ctx); err != nil {
				p.logger.Warn().Err(err).Msg("periodic task failed")
				continue
			}
			p.logger.Debug().Dur("duration", time.Since(start)).Msg("periodic task done")
		}
	}
}

// String implements fmt.Stringer.
func (p *PeriodicService) String() string {
	return p.name
}

// GarbageCollector is satisfied by the Badger store.
type GarbageCollector interface {
	RunGC() error
}

// NewBadgerGCService runs value-log GC every interval and records each pass.
//
//nolint:gocritic // hugeParam: zerolog.Logger is passed by value by convention
func NewBadgerGCService(gc GarbageCollector, interval time.Duration, logger zerolog.Logger) *PeriodicService {
	return NewPeriodicService("badger-gc", interval, func(context.Context) error {
		err := gc.RunGC()
		metrics.RecordBadgerGC(err)
		return err
	}, logger)
}

// NewCacheJanitorService drops expired pools from the in-process pool cache.
//
//nolint:gocritic // hugeParam: zerolog.Logger is passed by value by convention
func NewCacheJanitorService(pool *cache.MemoryPool, interval time.Duration, logger zerolog.Logger) *PeriodicService {
	log := logger.With().Str("component", "cache-janitor").Logger()
	return NewPeriodicService("cache-janitor", interval, func(ctx context.Context) error {
		if n := pool.Sweep(ctx); n > 0 {
			log.Debug().Int("removed", n).Msg("expired feed pools dropped")
		}
		return nil
	}, logger)
}
