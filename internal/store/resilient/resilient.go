// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

// Package resilient decorates a store.Store with a circuit breaker and
// Prometheus instrumentation.
//
// When the backend keeps failing the breaker opens and calls fail fast with
// ErrUnavailable; the feed fetchers then degrade to empty lists instead of
// each waiting out a slow backend.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/sacavia/internal/metrics"
	"github.com/tomtom215/sacavia/internal/store"
)

// ErrUnavailable is returned while the breaker is open or saturated.
var ErrUnavailable = errors.New("document store unavailable")

// Config tunes the breaker.
type Config struct {
	Enabled bool `json:"enabled" koanf:"enabled"`

	// Name labels metrics and logs.
	Name string `json:"name" koanf:"name"`

	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32 `json:"max_requests" koanf:"max_requests"`

	// Interval resets the closed-state counts.
	Interval time.Duration `json:"interval" koanf:"interval"`

	// Timeout is how long the breaker stays open before half-open.
	Timeout time.Duration `json:"timeout" koanf:"timeout"`

	// MinRequests is the sample size required before tripping.
	MinRequests uint32 `json:"min_requests" koanf:"min_requests"`

	// FailureRatio trips the breaker when reached.
	FailureRatio float64 `json:"failure_ratio" koanf:"failure_ratio"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		Name:         "document-store",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.FailureRatio <= 0 || c.FailureRatio > 1 {
		return fmt.Errorf("breaker.failure_ratio must be in (0, 1], got %v", c.FailureRatio)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("breaker.timeout must be > 0, got %v", c.Timeout)
	}
	if c.MaxRequests == 0 {
		return errors.New("breaker.max_requests must be > 0")
	}
	return nil
}

// Store wraps another store.
type Store struct {
	inner  store.Store
	cb     *gobreaker.CircuitBreaker[struct{}]
	name   string
	logger zerolog.Logger
}

// Wrap returns inner guarded by a breaker. With Enabled false only
// instrumentation is applied.
//
//nolint:gocritic // hugeParam: logger passed by value, matching zerolog convention
func Wrap(inner store.Store, cfg Config, logger zerolog.Logger) *Store {
	if cfg.Name == "" {
		cfg.Name = "document-store"
	}
	s := &Store{
		inner:  inner,
		name:   cfg.Name,
		logger: logger.With().Str("component", "store_breaker").Logger(),
	}
	if !cfg.Enabled {
		return s
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	s.cb = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.FailureRatio {
				s.logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio).
					Msg("opening circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Info().Str("from", from.String()).Str("to", to.String()).Msg("circuit state transition")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String(), stateValue(to))
		},
		// Misses and caller cancellations say nothing about backend health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, store.ErrNotFound) ||
				errors.Is(err, store.ErrInvalidQuery) ||
				errors.Is(err, context.Canceled)
		},
	})
	return s
}

func stateValue(st gobreaker.State) float64 {
	switch st {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// State reports the breaker state, or "disabled".
func (s *Store) State() string {
	if s.cb == nil {
		return "disabled"
	}
	return s.cb.State().String()
}

func (s *Store) guard(op, collection string, fn func() error) error {
	start := time.Now()

	var err error
	if s.cb == nil {
		err = fn()
	} else {
		_, err = s.cb.Execute(func() (struct{}, error) {
			return struct{}{}, fn()
		})
	}

	switch {
	case err == nil, errors.Is(err, store.ErrNotFound):
		metrics.RecordStoreQuery(op, collection, time.Since(start), nil)
		if s.cb != nil {
			metrics.RecordCircuitBreakerRequest(s.name, "success")
		}
		return err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordCircuitBreakerRequest(s.name, "rejected")
		return fmt.Errorf("%s %s: %w: %w", op, collection, ErrUnavailable, err)
	default:
		metrics.RecordStoreQuery(op, collection, time.Since(start), err)
		if s.cb != nil {
			metrics.RecordCircuitBreakerRequest(s.name, "failure")
		}
		return err
	}
}

// Find implements store.Store.
func (s *Store) Find(ctx context.Context, collection string, q store.Query, out any) error {
	return s.guard("find", collection, func() error {
		return s.inner.Find(ctx, collection, q, out)
	})
}

// FindByID implements store.Store.
func (s *Store) FindByID(ctx context.Context, collection, id string, out any) error {
	return s.guard("find_by_id", collection, func() error {
		return s.inner.FindByID(ctx, collection, id, out)
	})
}

// Put implements store.Store.
func (s *Store) Put(ctx context.Context, collection, id string, doc any) error {
	return s.guard("put", collection, func() error {
		return s.inner.Put(ctx, collection, id, doc)
	})
}

// Ping bypasses the breaker so health checks see the real backend state.
func (s *Store) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close implements store.Store.
func (s *Store) Close() error {
	return s.inner.Close()
}

// Unwrap returns the decorated store.
func (s *Store) Unwrap() store.Store {
	return s.inner
}

var _ store.Store = (*Store)(nil)
