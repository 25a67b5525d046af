// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/tomtom215/sacavia/internal/geo"
	"github.com/tomtom215/sacavia/internal/models"
	"github.com/tomtom215/sacavia/internal/store"
)

func scoredIDs(posts []ScoredPost) []string {
	out := make([]string, len(posts))
	for i := range posts {
		out[i] = posts[i].Item.SourceID
	}
	return out
}

func TestPersonalized_Empty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		st   store.Store
		req  *PersonalizedRequest
	}{
		{"nil request", store.NewMemory(), nil},
		{"no user id", store.NewMemory(), &PersonalizedRequest{}},
		{"unknown user", seedStore(t), &PersonalizedRequest{UserID: "nobody"}},
		{"no followees", seedStore(t), &PersonalizedRequest{UserID: "u4"}},
		{"store down", failingStore{}, &PersonalizedRequest{UserID: "u1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newTestEngine(t, tt.st)
			got := e.Personalized(context.Background(), tt.req)
			if got == nil {
				t.Fatal("Personalized() = nil, want empty non-nil slice")
			}
			if len(got) != 0 {
				t.Errorf("Personalized() = %v, want empty", scoredIDs(got))
			}
		})
	}
}

func TestPersonalized_OrderedByScore(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seedStore(t))
	got := e.Personalized(context.Background(), &PersonalizedRequest{UserID: "u1", PageSize: 10})

	// Published posts by u2 and u3 only; drafts and strangers are excluded.
	if fmt.Sprint(scoredIDs(got)) != "[p1 p2 b1]" {
		t.Fatalf("Personalized() = %v, want [p1 p2 b1]", scoredIDs(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("score %v at %d exceeds previous %v", got[i].Score, i, got[i-1].Score)
		}
	}
	if got[0].Item.Post.Author.Name != "Grace" {
		t.Errorf("author = %q, want Grace", got[0].Item.Post.Author.Name)
	}
}

func TestPersonalized_Pagination(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seedStore(t))

	got := e.Personalized(context.Background(), &PersonalizedRequest{UserID: "u1", Offset: 1, PageSize: 1})
	if fmt.Sprint(scoredIDs(got)) != "[p2]" {
		t.Errorf("offset 1 = %v, want [p2]", scoredIDs(got))
	}

	got = e.Personalized(context.Background(), &PersonalizedRequest{UserID: "u1", Offset: 50})
	if got == nil || len(got) != 0 {
		t.Errorf("offset past end = %v, want empty", scoredIDs(got))
	}
}

func TestPersonalizedPageSize(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, store.NewMemory())
	tests := []struct {
		requested int
		want      int
	}{
		{-1, 10},
		{0, 10},
		{1, 1},
		{50, 50},
		{51, 50},
		{100, 50},
	}
	for _, tt := range tests {
		if got := e.PersonalizedPageSize(tt.requested); got != tt.want {
			t.Errorf("PersonalizedPageSize(%d) = %d, want %d", tt.requested, got, tt.want)
		}
	}
}

func TestPersonalized_LocationTerm(t *testing.T) {
	t.Parallel()

	st := store.NewMemory()
	here := &geo.Point{Latitude: 48.8566, Longitude: 2.3522}
	far := &geo.Point{Latitude: -33.8688, Longitude: 151.2093}

	mustPut(t, st, models.CollectionUsers, "me", user("me", "Me", "friend"))
	mustPut(t, st, models.CollectionUsers, "friend", user("friend", "Friend"))
	mustPut(t, st, models.CollectionLocations, "near", models.Location{
		ID: "near", Name: "Near", Coordinates: here, Status: models.StatusPublished, CreatedAt: testNow,
	})
	mustPut(t, st, models.CollectionLocations, "far", models.Location{
		ID: "far", Name: "Far", Coordinates: far, Status: models.StatusPublished, CreatedAt: testNow,
	})

	a := post("a", "friend", 2*time.Hour, 0, 0)
	a.Location = "far"
	b := post("b", "friend", 2*time.Hour, 0, 0)
	b.Location = "near"
	mustPut(t, st, models.CollectionPosts, "a", a)
	mustPut(t, st, models.CollectionPosts, "b", b)

	e := newTestEngine(t, st)
	got := e.Personalized(context.Background(), &PersonalizedRequest{UserID: "me", Location: here})
	if fmt.Sprint(scoredIDs(got)) != "[b a]" {
		t.Fatalf("Personalized() = %v, want nearby post first", scoredIDs(got))
	}
	if got[0].Breakdown.Location <= got[1].Breakdown.Location {
		t.Errorf("location terms = %v, %v", got[0].Breakdown.Location, got[1].Breakdown.Location)
	}

	// Without any location the two posts tie and fall back to id order.
	got = e.Personalized(context.Background(), &PersonalizedRequest{UserID: "me"})
	if fmt.Sprint(scoredIDs(got)) != "[a b]" {
		t.Errorf("Personalized() without location = %v, want [a b]", scoredIDs(got))
	}
}
