// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/sacavia/internal/geo"
	"github.com/tomtom215/sacavia/internal/models"
	"github.com/tomtom215/sacavia/internal/store"
)

// testNow is a Wednesday afternoon in ISO week 24.
var testNow = time.Date(2026, 6, 10, 14, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// staticFetcher returns a fixed list of items, or an error.
type staticFetcher struct {
	kind  Kind
	items []Item
	err   error
	panic bool
}

func (f *staticFetcher) Kind() Kind { return f.kind }

func (f *staticFetcher) Fetch(_ context.Context, _ *Request, limit int) ([]Item, error) {
	if f.panic {
		panic("fetcher exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]Item, len(f.items))
	copy(out, f.items)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// failingStore fails every operation.
type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Find(context.Context, string, store.Query, any) error { return errStoreDown }
func (failingStore) FindByID(context.Context, string, string, any) error  { return errStoreDown }
func (failingStore) Put(context.Context, string, string, any) error       { return errStoreDown }
func (failingStore) Ping(context.Context) error                           { return errStoreDown }
func (failingStore) Close() error                                         { return nil }

func newTestEngine(t *testing.T, st store.Store, opts ...Option) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	e, err := NewEngine(cfg, st, zerolog.Nop(), opts...)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func mustPut(t *testing.T, st store.Store, collection, id string, doc any) {
	t.Helper()
	if err := st.Put(context.Background(), collection, id, doc); err != nil {
		t.Fatalf("Put(%s, %s) error = %v", collection, id, err)
	}
}

func post(id, authorID string, age time.Duration, likes, comments int, tags ...string) models.Post {
	return models.Post{
		ID:           id,
		Author:       authorID,
		Content:      "content of " + id,
		Type:         models.PostTypePost,
		Status:       models.StatusPublished,
		Tags:         tags,
		LikeCount:    likes,
		CommentCount: comments,
		CreatedAt:    testNow.Add(-age),
		UpdatedAt:    testNow.Add(-age),
	}
}

func user(id, name string, following ...string) models.User {
	return models.User{
		ID:        id,
		Name:      name,
		Following: following,
		CreatedAt: testNow.Add(-30 * 24 * time.Hour),
	}
}

// seedStore fills a memory store with a little of every collection.
func seedStore(t *testing.T) *store.Memory {
	t.Helper()
	st := store.NewMemory()

	paris := &geo.Point{Latitude: 48.8566, Longitude: 2.3522}
	lyon := &geo.Point{Latitude: 45.7640, Longitude: 4.8357}

	mustPut(t, st, models.CollectionUsers, "u1", user("u1", "Ada", "u2", "u3"))
	mustPut(t, st, models.CollectionUsers, "u2", user("u2", "Grace"))
	mustPut(t, st, models.CollectionUsers, "u3", user("u3", "Linus"))
	mustPut(t, st, models.CollectionUsers, "u4", user("u4", "Ken"))

	for i, p := range []models.Post{
		post("p1", "u2", time.Hour, 10, 2, "food"),
		post("p2", "u3", 2*time.Hour, 0, 0),
		post("p3", "u4", 5*24*time.Hour, 40, 10, "art"),
		post("p4", "ghost", 3*time.Hour, 1, 1),
	} {
		if i == 0 {
			p.Location = "l1"
		}
		mustPut(t, st, models.CollectionPosts, p.ID, p)
	}

	blog := post("b1", "u2", 4*time.Hour, 0, 0)
	blog.Type = models.PostTypeBlog
	blog.Content = `{"root":{"children":[{"children":[{"text":"A long walk"},{"text":"by the river."}]}]}}`
	mustPut(t, st, models.CollectionPosts, blog.ID, blog)

	draft := post("d1", "u2", time.Hour, 0, 0)
	draft.Status = models.StatusDraft
	mustPut(t, st, models.CollectionPosts, draft.ID, draft)

	mustPut(t, st, models.CollectionLocations, "l1", models.Location{
		ID: "l1", Name: "Cafe de Flore", Status: models.StatusPublished, Coordinates: paris,
		CreatedAt: testNow.Add(-48 * time.Hour),
	})
	mustPut(t, st, models.CollectionLocations, "l2", models.Location{
		ID: "l2", Name: "Bouchon", Status: models.StatusPublished, Coordinates: lyon,
		CreatedAt: testNow.Add(-time.Hour),
	})

	mustPut(t, st, models.CollectionWeeklyFeatures, "w1", models.WeeklyFeature{
		ID: "w1", Title: "Old", Theme: "street-art", WeekNumber: 30, IsActive: true,
		CreatedAt: testNow.Add(-24 * time.Hour),
	})
	mustPut(t, st, models.CollectionWeeklyFeatures, "w2", models.WeeklyFeature{
		ID: "w2", Title: "This week", Theme: ThemeFor(testNow), WeekNumber: 10, IsActive: true,
		CreatedAt: testNow.Add(-24 * time.Hour),
	})

	mustPut(t, st, models.CollectionGuides, "g1", models.Guide{
		ID: "g1", Title: "Paris in a day", Author: "u2", PrimaryLocation: "l1",
		Status: models.StatusPublished, CreatedAt: testNow.Add(-10 * time.Hour),
	})

	mustPut(t, st, models.CollectionChallenges, "c1", models.Challenge{
		ID: "c1", Title: "Visit 5 cafes", Status: models.StatusActive,
		ExpiresAt: testNow.Add(24 * time.Hour), CreatedAt: testNow.Add(-time.Hour),
	})
	mustPut(t, st, models.CollectionChallenges, "c2", models.Challenge{
		ID: "c2", Title: "Expired", Status: models.StatusActive,
		ExpiresAt: testNow.Add(-time.Hour), CreatedAt: testNow.Add(-2 * time.Hour),
	})

	return st
}
