// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package feed

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/sacavia/internal/metrics"
	"github.com/tomtom215/sacavia/internal/store"
)

// ErrNilStore is returned by NewEngine when no document store is given.
var ErrNilStore = errors.New("feed: document store is nil")

// Option configures an Engine.
type Option func(*Engine)

// WithFetchers replaces the store-backed fetchers.
func WithFetchers(fetchers ...Fetcher) Option {
	return func(e *Engine) {
		e.fetchers = fetchers
	}
}

// WithClock sets the time source used for priorities, scores and the
// time-of-day default.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithPoolCache stores candidate pools between page requests. It is ignored
// when the cache is disabled in the configuration.
func WithPoolCache(c PoolCache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// Engine generates ranked feeds. It holds no per-request state and is safe
// for concurrent use.
type Engine struct {
	cfg      *Config
	src      *source
	logger   zerolog.Logger
	fetchers []Fetcher
	cache    PoolCache
	now      func() time.Time
}

// NewEngine validates cfg and wires the default fetchers over st.
//
//nolint:gocritic // hugeParam: zerolog.Logger is passed by value by convention
func NewEngine(cfg *Config, st store.Store, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if st == nil {
		return nil, ErrNilStore
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid feed config: %w", err)
	}

	e := &Engine{
		cfg:    cfg.Clone(),
		logger: logger.With().Str("component", "feed").Logger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.cfg.Cache.Enabled {
		e.cache = nil
	}

	e.src = &source{store: st, cfg: e.cfg, logger: e.logger, now: e.now}
	if e.fetchers == nil {
		e.fetchers = DefaultFetchers(st, e.cfg, e.logger, e.now)
	}

	return e, nil
}

// Generate returns one page of the mixed feed. It never fails: any error or
// panic yields an empty page.
func (e *Engine) Generate(ctx context.Context, req *Request) []Item {
	return e.Run(ctx, req).Items
}

// Run is Generate with bookkeeping about how the page was produced.
func (e *Engine) Run(ctx context.Context, req *Request) (res Result) {
	start := time.Now()
	r := e.normalize(req)
	logger := e.logger.With().Str("request_id", r.RequestID).Logger()

	defer func() {
		if p := recover(); p != nil {
			logger.Error().Interface("panic", p).Msg("Feed generation panicked")
			metrics.RecordFeedFailure(string(r.FeedType))
			res = Result{Items: []Item{}, Page: r.Page, Limit: r.Limit, SortBy: r.SortBy, FeedType: r.FeedType}
		}
	}()

	now := e.now()
	mix := ComputeMix(e.cfg.Mix, r.TimeOfDay, r.Interests, r.Weather)

	// Pages past MaxPage are empty rather than a repeat of the last page.
	if r.Page > e.cfg.Limits.MaxPage {
		logger.Debug().Int("page", r.Page).Int("max_page", e.cfg.Limits.MaxPage).Msg("Page beyond limit")
		return Result{Items: []Item{}, Mix: mix, Page: r.Page, Limit: r.Limit, SortBy: r.SortBy, FeedType: r.FeedType}
	}

	pool, cached := e.pool(ctx, r, mix)
	items, matched := assemble(pool, r, now)

	metrics.RecordFeedGeneration(string(r.FeedType), string(r.SortBy), time.Since(start), len(items))
	logger.Debug().
		Str("feed_type", string(r.FeedType)).
		Str("sort", string(r.SortBy)).
		Int("page", r.Page).
		Int("limit", r.Limit).
		Int("candidates", len(pool)).
		Int("items", len(items)).
		Bool("cached", cached).
		Dur("duration", time.Since(start)).
		Msg("Feed generated")

	return Result{
		Items:      items,
		Candidates: len(pool),
		Matched:    matched,
		HasMore:    r.Page < e.cfg.Limits.MaxPage && r.Page*r.Limit < matched,
		Cached:     cached,
		Mix:        mix,
		Page:       r.Page,
		Limit:      r.Limit,
		SortBy:     r.SortBy,
		FeedType:   r.FeedType,
	}
}

// normalize copies req and fills defaults. The caller's request is not
// modified.
func (e *Engine) normalize(req *Request) *Request {
	r := &Request{}
	if req != nil {
		*r = *req
	}

	lim := e.cfg.Limits
	if r.Page < 1 {
		r.Page = 1
	}
	switch {
	case r.Limit < 1:
		r.Limit = lim.DefaultLimit
	case r.Limit > lim.MaxLimit:
		r.Limit = lim.MaxLimit
	}

	switch r.SortBy {
	case SortRecent, SortPopular, SortRecommended:
	default:
		r.SortBy = SortRecommended
	}
	switch r.FeedType {
	case FeedDiscover, FeedFollowing, FeedTrending:
	default:
		r.FeedType = FeedDiscover
	}
	switch r.TimeOfDay {
	case Morning, Afternoon, Evening, Night:
	default:
		r.TimeOfDay = TimeOfDayFor(e.now())
	}

	if r.Location != nil && !r.Location.Valid() {
		r.Location = nil
	}
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
	return r
}

// pool returns the candidate pool for r, from the cache when possible.
func (e *Engine) pool(ctx context.Context, r *Request, mix MixConfig) ([]Item, bool) {
	var key string
	if e.cache != nil {
		key = poolKey(r)
		if items, ok := e.cache.Get(ctx, key); ok {
			metrics.RecordPoolCache(e.cache.Name(), true)
			return items, true
		}
		metrics.RecordPoolCache(e.cache.Name(), false)
	}

	items, failures := e.fetchAll(ctx, r, mix)

	// Partial pools are not cached.
	if e.cache != nil && failures == 0 {
		e.cache.Set(ctx, key, items)
	}
	return items, false
}

// fetchAll runs every fetcher with a non-zero quota concurrently and
// concatenates their results in fetcher order.
func (e *Engine) fetchAll(ctx context.Context, r *Request, mix MixConfig) ([]Item, int) {
	results := make([][]Item, len(e.fetchers))
	failed := make([]bool, len(e.fetchers))

	var wg sync.WaitGroup
	for i, f := range e.fetchers {
		quota := mix.Quota(f.Kind(), e.cfg.Pool.Size)
		if quota == 0 {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], failed[i] = e.runFetcher(ctx, f, r, quota)
		}()
	}
	wg.Wait()

	total, failures := 0, 0
	for i := range results {
		total += len(results[i])
		if failed[i] {
			failures++
		}
	}
	pool := make([]Item, 0, total)
	for _, items := range results {
		pool = append(pool, items...)
	}
	return pool, failures
}

// runFetcher isolates one fetcher: errors, timeouts and panics all become an
// empty result.
func (e *Engine) runFetcher(ctx context.Context, f Fetcher, r *Request, quota int) (items []Item, failed bool) {
	kind := string(f.Kind())
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			e.logger.Warn().
				Str("request_id", r.RequestID).
				Str("kind", kind).
				Interface("panic", p).
				Msg("Fetcher panicked")
			metrics.RecordFetch(kind, time.Since(start), 0, fmt.Errorf("panic: %v", p))
			items, failed = nil, true
		}
	}()

	fctx, cancel := context.WithTimeout(ctx, e.cfg.Pool.FetchTimeout)
	defer cancel()

	items, err := f.Fetch(fctx, r, quota)
	metrics.RecordFetch(kind, time.Since(start), len(items), err)
	if err != nil {
		e.logger.Warn().
			Err(err).
			Str("request_id", r.RequestID).
			Str("kind", kind).
			Msg("Fetcher failed, continuing without it")
		return nil, true
	}

	if len(items) > quota {
		items = items[:quota]
	}
	for i := range items {
		items[i].Priority = clampPriority(items[i].Priority)
	}
	return items, false
}

// poolKey hashes the request fields that shape the candidate pool. Paging,
// sorting and type filters are applied after the pool and are left out.
func poolKey(r *Request) string {
	h := fnv.New64a()
	write := func(s string) {
		_, _ = h.Write([]byte(s))
		_, _ = h.Write([]byte{0})
	}

	write(r.UserID)
	write(string(r.FeedType))
	write(string(r.TimeOfDay))
	write(r.Weather)
	if r.Location != nil {
		write(strconv.FormatFloat(r.Location.Latitude, 'f', 4, 64))
		write(strconv.FormatFloat(r.Location.Longitude, 'f', 4, 64))
	}
	for _, list := range [][]string{r.Interests, r.SocialCircle} {
		sorted := append([]string(nil), list...)
		sort.Strings(sorted)
		for _, s := range sorted {
			write(s)
		}
		write("|")
	}

	return "feed:pool:" + strconv.FormatUint(h.Sum64(), 16)
}
