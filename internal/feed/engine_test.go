// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/sacavia/internal/models"
	"github.com/tomtom215/sacavia/internal/store"
)

type countingFetcher struct {
	Fetcher
	calls atomic.Int32
}

func (c *countingFetcher) Fetch(ctx context.Context, req *Request, limit int) ([]Item, error) {
	c.calls.Add(1)
	return c.Fetcher.Fetch(ctx, req, limit)
}

type mapCache struct {
	mu    sync.Mutex
	items map[string][]Item
}

func (m *mapCache) Get(_ context.Context, key string) ([]Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, ok := m.items[key]
	return items, ok
}

func (m *mapCache) Set(_ context.Context, key string, items []Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = make(map[string][]Item)
	}
	m.items[key] = items
}

func (m *mapCache) Name() string { return "map" }

func TestNewEngine(t *testing.T) {
	t.Parallel()

	if _, err := NewEngine(nil, nil, zerolog.Nop()); !errors.Is(err, ErrNilStore) {
		t.Errorf("NewEngine(nil store) error = %v, want ErrNilStore", err)
	}

	bad := DefaultConfig()
	bad.Mix.Posts = 0
	if _, err := NewEngine(bad, store.NewMemory(), zerolog.Nop()); err == nil {
		t.Error("NewEngine(invalid mix) error = nil, want error")
	}

	e, err := NewEngine(nil, store.NewMemory(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine(defaults) error = %v", err)
	}
	if len(e.fetchers) != len(AllKinds) {
		t.Errorf("default fetchers = %d, want %d", len(e.fetchers), len(AllKinds))
	}
}

func TestGenerate_AllFetchersFail(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, failingStore{})
	got := e.Generate(context.Background(), &Request{UserID: "u1"})
	if got == nil {
		t.Fatal("Generate() = nil, want empty non-nil slice")
	}
	if len(got) != 0 {
		t.Errorf("Generate() len = %d, want 0", len(got))
	}
}

func TestGenerate_FetcherPanicIsIsolated(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, store.NewMemory(), WithFetchers(
		&staticFetcher{kind: KindPeopleSuggestion, panic: true},
		&staticFetcher{kind: KindPlaceRecommendation, err: errors.New("boom")},
		&staticFetcher{kind: KindPost, items: []Item{postItemAt("a", time.Hour, 1)}},
	))

	got := e.Generate(context.Background(), nil)
	if len(got) != 1 || got[0].ID != "post:a" {
		t.Errorf("Generate() = %v, want [post:a]", ids(got))
	}
}

func TestGenerate_NilRequestUsesDefaults(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seedStore(t))
	res := e.Run(context.Background(), nil)
	if len(res.Items) == 0 {
		t.Fatal("Run(nil) returned no items")
	}
	if len(res.Items) > DefaultConfig().Limits.DefaultLimit {
		t.Errorf("Run(nil) len = %d, exceeds default limit", len(res.Items))
	}
	if err := res.Mix.Validate(); err != nil {
		t.Errorf("Run(nil) mix invalid: %v", err)
	}
}

func TestGenerate_PriorityInRange(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seedStore(t), WithFetchers(
		&staticFetcher{kind: KindPost, items: []Item{{ID: "post:x", Type: KindPost, Priority: 250, Post: &PostPayload{}}}},
		&staticFetcher{kind: KindChallengeCard, items: []Item{{ID: "challenge_card:y", Type: KindChallengeCard, Priority: -3}}},
	))
	for _, it := range e.Generate(context.Background(), &Request{Limit: 100, SortBy: SortRecent}) {
		if it.Priority < 0 || it.Priority > 100 {
			t.Errorf("item %s priority %v out of [0, 100]", it.ID, it.Priority)
		}
	}

	seeded := newTestEngine(t, seedStore(t))
	items := seeded.Generate(context.Background(), &Request{Limit: 100, Interests: []string{"food"}})
	if len(items) == 0 {
		t.Fatal("Generate() returned no items from seeded store")
	}
	for _, it := range items {
		if it.Priority < 0 || it.Priority > 100 {
			t.Errorf("item %s priority %v out of [0, 100]", it.ID, it.Priority)
		}
	}
}

func TestGenerate_IncludeTypes(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seedStore(t))
	got := e.Generate(context.Background(), &Request{Limit: 100, IncludeTypes: []Kind{KindPost}})
	if len(got) == 0 {
		t.Fatal("Generate() returned no posts")
	}
	for _, it := range got {
		if it.Type != KindPost {
			t.Errorf("item %s has type %s, want post", it.ID, it.Type)
		}
	}
}

func TestGenerate_UniqueIDs(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seedStore(t))
	seen := map[string]bool{}
	for _, it := range e.Generate(context.Background(), &Request{Limit: 100}) {
		if seen[it.ID] {
			t.Errorf("duplicate id %s", it.ID)
		}
		seen[it.ID] = true
	}
}

func TestGenerate_PageTwoContinuesPageOne(t *testing.T) {
	t.Parallel()

	var posts, places []Item
	for i := 0; i < 40; i++ {
		posts = append(posts, postItemAt(fmt.Sprintf("p%02d", i), time.Duration(i%9)*time.Hour, i%4))
	}
	for i := 0; i < 15; i++ {
		places = append(places, kindItemAt(KindPlaceRecommendation, fmt.Sprintf("l%02d", i), time.Duration(i%5)*time.Hour))
	}

	e := newTestEngine(t, store.NewMemory(), WithFetchers(
		&staticFetcher{kind: KindPost, items: posts},
		&staticFetcher{kind: KindPlaceRecommendation, items: places},
	))

	for _, mode := range []SortMode{SortRecent, SortPopular, SortRecommended} {
		all := e.Generate(context.Background(), &Request{Page: 1, Limit: 100, SortBy: mode})
		page2 := e.Generate(context.Background(), &Request{Page: 2, Limit: 10, SortBy: mode})

		if len(all) < 20 {
			t.Fatalf("%s: page 1 has %d items, want at least 20", mode, len(all))
		}
		if fmt.Sprint(ids(page2)) != fmt.Sprint(ids(all[10:20])) {
			t.Errorf("%s: page 2 = %v, want %v", mode, ids(page2), ids(all[10:20]))
		}
	}
}

func TestGenerate_PagesPastMaxPageAreEmpty(t *testing.T) {
	t.Parallel()

	var posts []Item
	for i := 0; i < 80; i++ {
		posts = append(posts, postItemAt(fmt.Sprintf("p%02d", i), time.Duration(i)*time.Minute, 0))
	}
	e := newTestEngine(t, store.NewMemory(), WithFetchers(&staticFetcher{kind: KindPost, items: posts}))
	maxPage := DefaultConfig().Limits.MaxPage

	last := e.Run(context.Background(), &Request{Page: maxPage, Limit: 1, SortBy: SortRecent})
	if fmt.Sprint(ids(last.Items)) != fmt.Sprintf("[post:p%02d]", maxPage-1) {
		t.Errorf("page %d = %v, want [post:p%02d]", maxPage, ids(last.Items), maxPage-1)
	}
	if last.HasMore {
		t.Errorf("page %d HasMore = true, want false at the page limit", maxPage)
	}

	prev := e.Run(context.Background(), &Request{Page: maxPage - 1, Limit: 1, SortBy: SortRecent})
	if !prev.HasMore {
		t.Errorf("page %d HasMore = false, want true", maxPage-1)
	}

	for _, page := range []int{maxPage + 1, 999} {
		res := e.Run(context.Background(), &Request{Page: page, Limit: 1, SortBy: SortRecent})
		if res.Items == nil || len(res.Items) != 0 {
			t.Errorf("page %d = %v, want empty non-nil", page, ids(res.Items))
		}
		if res.Page != page || res.HasMore {
			t.Errorf("page %d: Page = %d HasMore = %v, want %d/false", page, res.Page, res.HasMore, page)
		}
	}
}

func TestGenerate_HasMoreCountsFilteredItems(t *testing.T) {
	t.Parallel()

	var posts []Item
	for i := 0; i < 40; i++ {
		posts = append(posts, postItemAt(fmt.Sprintf("p%02d", i), time.Duration(i)*time.Minute, 0))
	}
	challenges := []Item{
		kindItemAt(KindChallengeCard, "c1", time.Hour),
		kindItemAt(KindChallengeCard, "c2", 2*time.Hour),
	}
	e := newTestEngine(t, store.NewMemory(), WithFetchers(
		&staticFetcher{kind: KindPost, items: posts},
		&staticFetcher{kind: KindChallengeCard, items: challenges},
	))

	tests := []struct {
		page        int
		wantItems   int
		wantHasMore bool
	}{
		{1, 1, true},
		{2, 1, false},
		{3, 0, false},
	}
	for _, tt := range tests {
		res := e.Run(context.Background(), &Request{
			Page: tt.page, Limit: 1, SortBy: SortRecent, IncludeTypes: []Kind{KindChallengeCard},
		})
		if len(res.Items) != tt.wantItems || res.HasMore != tt.wantHasMore {
			t.Errorf("page %d: items = %d HasMore = %v, want %d/%v", tt.page, len(res.Items), res.HasMore, tt.wantItems, tt.wantHasMore)
		}
		if res.Matched != 2 {
			t.Errorf("page %d: Matched = %d, want 2", tt.page, res.Matched)
		}
		if res.Candidates <= res.Matched {
			t.Errorf("page %d: Candidates = %d, want more than Matched", tt.page, res.Candidates)
		}
	}
}

func TestGenerate_RecentIsNonIncreasing(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seedStore(t))
	got := e.Generate(context.Background(), &Request{Limit: 100, SortBy: SortRecent})
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.After(got[i-1].CreatedAt) {
			t.Errorf("item %s newer than preceding %s", got[i].ID, got[i-1].ID)
		}
	}
}

func TestGenerate_RecommendedPrefersFreshEngagedPost(t *testing.T) {
	t.Parallel()

	st := store.NewMemory()
	mustPut(t, st, models.CollectionPosts, "fresh", post("fresh", "u1", time.Hour, 10, 2))
	mustPut(t, st, models.CollectionPosts, "stale", post("stale", "u1", 10*24*time.Hour, 0, 0))

	e := newTestEngine(t, st)
	got := e.Generate(context.Background(), &Request{SortBy: SortRecommended, IncludeTypes: []Kind{KindPost}})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].SourceID != "fresh" {
		t.Errorf("order = %v, want fresh first", ids(got))
	}
}

func TestGenerate_RecommendedPrefersInterestTag(t *testing.T) {
	t.Parallel()

	st := store.NewMemory()
	tagged := post("tagged", "u1", 5*time.Hour, 3, 1, "food")
	plain := post("plain", "u1", 5*time.Hour, 3, 1)
	mustPut(t, st, models.CollectionPosts, tagged.ID, tagged)
	mustPut(t, st, models.CollectionPosts, plain.ID, plain)

	e := newTestEngine(t, st)
	got := e.Generate(context.Background(), &Request{
		SortBy:       SortRecommended,
		Interests:    []string{"food"},
		IncludeTypes: []Kind{KindPost},
	})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// "plain" sorts before "tagged" by id, so only the score can put tagged first.
	if got[0].SourceID != "tagged" {
		t.Errorf("order = %v, want tagged first", ids(got))
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("tagged score %v should exceed plain score %v", got[0].Score, got[1].Score)
	}
}

func TestGenerate_PoolCache(t *testing.T) {
	t.Parallel()

	posts := make([]Item, 0, 30)
	for i := 0; i < 30; i++ {
		posts = append(posts, postItemAt(fmt.Sprintf("p%02d", i), time.Duration(i)*time.Minute, 0))
	}
	counter := &countingFetcher{Fetcher: &staticFetcher{kind: KindPost, items: posts}}

	cfg := DefaultConfig()
	e, err := NewEngine(cfg, store.NewMemory(), zerolog.Nop(),
		WithClock(fixedClock),
		WithFetchers(counter),
		WithPoolCache(&mapCache{}),
	)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	first := e.Run(context.Background(), &Request{UserID: "u1", Page: 1, Limit: 10, SortBy: SortRecent})
	second := e.Run(context.Background(), &Request{UserID: "u1", Page: 2, Limit: 10, SortBy: SortRecent})

	if first.Cached {
		t.Error("first page reported cached")
	}
	if !second.Cached {
		t.Error("second page not served from cache")
	}
	if n := counter.calls.Load(); n != 1 {
		t.Errorf("fetcher calls = %d, want 1", n)
	}
	if second.Items[0].ID != "post:p10" {
		t.Errorf("second page starts at %s, want post:p10", second.Items[0].ID)
	}

	// A different user gets a different pool.
	e.Run(context.Background(), &Request{UserID: "u2"})
	if n := counter.calls.Load(); n != 2 {
		t.Errorf("fetcher calls after new user = %d, want 2", n)
	}
}

func TestGenerate_FailedPoolNotCached(t *testing.T) {
	t.Parallel()

	cache := &mapCache{}
	e, err := NewEngine(DefaultConfig(), store.NewMemory(), zerolog.Nop(),
		WithClock(fixedClock),
		WithFetchers(&staticFetcher{kind: KindPost, err: errors.New("down")}),
		WithPoolCache(cache),
	)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	e.Generate(context.Background(), &Request{})
	if len(cache.items) != 0 {
		t.Errorf("cache entries = %d, want 0", len(cache.items))
	}
}

func TestGenerate_DoesNotModifyRequest(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seedStore(t))
	req := &Request{}
	e.Generate(context.Background(), req)
	if req.Page != 0 || req.Limit != 0 || req.SortBy != "" || req.RequestID != "" {
		t.Errorf("request modified: %+v", req)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, store.NewMemory())
	r := e.normalize(&Request{Page: 9999, Limit: 9999, SortBy: "weird", FeedType: "other"})

	lim := DefaultConfig().Limits
	if r.Page != 9999 || r.Limit != lim.MaxLimit {
		t.Errorf("page/limit = %d/%d, want 9999/%d", r.Page, r.Limit, lim.MaxLimit)
	}
	if r := e.normalize(&Request{Page: -3}); r.Page != 1 {
		t.Errorf("page = %d, want 1", r.Page)
	}
	if r.SortBy != SortRecommended || r.FeedType != FeedDiscover {
		t.Errorf("sort/feed = %s/%s, want recommended/discover", r.SortBy, r.FeedType)
	}
	if r.TimeOfDay != Afternoon {
		t.Errorf("time of day = %s, want afternoon", r.TimeOfDay)
	}
	if r.RequestID == "" {
		t.Error("request id not generated")
	}
}

func TestPoolKey(t *testing.T) {
	t.Parallel()

	a := poolKey(&Request{UserID: "u1", Interests: []string{"food", "art"}, Page: 1})
	b := poolKey(&Request{UserID: "u1", Interests: []string{"art", "food"}, Page: 3, SortBy: SortRecent})
	if a != b {
		t.Errorf("pool keys differ for equivalent pools: %s vs %s", a, b)
	}

	c := poolKey(&Request{UserID: "u1", Interests: []string{"food"}})
	if a == c {
		t.Error("pool keys equal for different interests")
	}
}
