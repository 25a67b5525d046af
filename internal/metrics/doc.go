// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

/*
Package metrics exposes Prometheus collectors for the feed service.

Collectors are registered on the default registry through promauto and are
scraped from /metrics. Covered areas:

  - feed generation latency and page size
  - per-kind fetcher latency, errors and item counts
  - document store latency and errors
  - circuit breaker state and transitions
  - candidate pool cache hit rate
  - HTTP request latency and throughput

Callers use the Record* helpers rather than touching collectors directly:

	start := time.Now()
	items, err := fetcher.Fetch(ctx, req, limit)
	metrics.RecordFetch(string(kind), time.Since(start), len(items), err)
*/
package metrics
