// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package cache

import (
	"context"
	"time"

	"github.com/tomtom215/sacavia/internal/feed"
	"github.com/tomtom215/sacavia/internal/metrics"
)

// BackendMemory names the in-process pool cache.
const BackendMemory = "memory"

// MemoryPool is a feed.PoolCache backed by an LRU. Cached pools are shared
// between requests and must be treated as read-only.
type MemoryPool struct {
	lru *LRU[[]feed.Item]
}

// NewMemoryPool creates a pool cache for at most capacity pools.
func NewMemoryPool(capacity int, ttl time.Duration) *MemoryPool {
	return &MemoryPool{lru: NewLRU[[]feed.Item](capacity, ttl)}
}

// Get implements feed.PoolCache.
func (p *MemoryPool) Get(_ context.Context, key string) ([]feed.Item, bool) {
	return p.lru.Get(key)
}

// Set implements feed.PoolCache.
func (p *MemoryPool) Set(_ context.Context, key string, items []feed.Item) {
	p.lru.Add(key, items)
	metrics.PoolCacheEntries.WithLabelValues(BackendMemory).Set(float64(p.lru.Len()))
}

// Name implements feed.PoolCache.
func (p *MemoryPool) Name() string { return BackendMemory }

// Len returns the number of cached pools.
func (p *MemoryPool) Len() int { return p.lru.Len() }

// Sweep drops expired pools. It is run periodically by the cache janitor.
func (p *MemoryPool) Sweep(context.Context) int {
	removed := p.lru.CleanupExpired()
	metrics.PoolCacheEntries.WithLabelValues(BackendMemory).Set(float64(p.lru.Len()))
	return removed
}

var _ feed.PoolCache = (*MemoryPool)(nil)
