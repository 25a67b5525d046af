// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tomtom215/sacavia/internal/feed"
)

// BackendRedis names the shared Redis pool cache.
const BackendRedis = "redis"

// RedisConfig configures the Redis pool cache.
type RedisConfig struct {
	Addr         string        `koanf:"addr"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// Validate checks the configuration for errors.
func (c *RedisConfig) Validate() error {
	if c.Addr == "" {
		return errors.New("cache.redis.addr is required for the redis backend")
	}
	if c.DB < 0 {
		return fmt.Errorf("cache.redis.db must be non-negative, got %d", c.DB)
	}
	return nil
}

// RedisPool is a feed.PoolCache shared between replicas. Pools are stored
// as JSON with the cache TTL. Redis failures are logged and reported as
// misses so the feed falls back to fetching.
type RedisPool struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisPool connects to Redis and verifies the connection with PING.
//
//nolint:gocritic // hugeParam: zerolog.Logger is passed by value by convention
func NewRedisPool(ctx context.Context, cfg RedisConfig, ttl time.Duration, logger zerolog.Logger) (*RedisPool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 2 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 2 * time.Second
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}

	return newRedisPool(client, ttl, logger), nil
}

//nolint:gocritic // hugeParam: zerolog.Logger is passed by value by convention
func newRedisPool(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisPool {
	return &RedisPool{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "pool-cache").Str("backend", BackendRedis).Logger(),
	}
}

// Get implements feed.PoolCache.
func (p *RedisPool) Get(ctx context.Context, key string) ([]feed.Item, bool) {
	data, err := p.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		p.logger.Warn().Err(err).Str("key", key).Msg("Pool cache read failed")
		return nil, false
	}

	var items []feed.Item
	if err := json.Unmarshal(data, &items); err != nil {
		p.logger.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cached pool")
		_ = p.client.Del(ctx, key).Err()
		return nil, false
	}
	return items, true
}

// Set implements feed.PoolCache.
func (p *RedisPool) Set(ctx context.Context, key string, items []feed.Item) {
	data, err := json.Marshal(items)
	if err != nil {
		p.logger.Warn().Err(err).Str("key", key).Msg("Failed to encode pool")
		return
	}
	if err := p.client.Set(ctx, key, data, p.ttl).Err(); err != nil {
		p.logger.Warn().Err(err).Str("key", key).Msg("Pool cache write failed")
	}
}

// Name implements feed.PoolCache.
func (p *RedisPool) Name() string { return BackendRedis }

// Ping checks connectivity.
func (p *RedisPool) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the client.
func (p *RedisPool) Close() error {
	return p.client.Close()
}

var _ feed.PoolCache = (*RedisPool)(nil)
