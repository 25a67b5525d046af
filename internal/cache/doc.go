// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

/*
Package cache provides candidate-pool caches for the feed engine.

A feed request fetches a candidate pool sized independently of the page, so
consecutive pages of the same feed can reuse one pool. Two feed.PoolCache
implementations are available:

  - MemoryPool: a per-process LRU with TTL (LRU[V]). Expired pools are
    removed lazily on Get and by the supervisor's janitor via Sweep.
  - RedisPool: a pool shared between replicas, stored as JSON with the
    cache TTL. Redis errors degrade to cache misses.

Cached pools are shared and must not be mutated; feed.Assemble copies before
sorting.

# Configuration

	cache:
	  enabled: true
	  backend: memory   # or redis
	  ttl: 30s
	  capacity: 1024
	  redis:
	    addr: localhost:6379
*/
package cache
