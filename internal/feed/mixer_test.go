// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package feed

import (
	"fmt"
	"testing"
	"time"
)

func postItemAt(id string, age time.Duration, likes int) Item {
	return Item{
		ID:        itemID(KindPost, id),
		SourceID:  id,
		Type:      KindPost,
		CreatedAt: testNow.Add(-age),
		Priority:  50,
		Post:      &PostPayload{LikeCount: likes},
	}
}

func kindItemAt(k Kind, id string, age time.Duration) Item {
	it := Item{
		ID:        itemID(k, id),
		SourceID:  id,
		Type:      k,
		CreatedAt: testNow.Add(-age),
		Priority:  60,
	}
	switch k {
	case KindPlaceRecommendation:
		it.Place = &PlacePayload{Name: id}
	case KindPeopleSuggestion:
		it.Person = &PersonPayload{User: AuthorSummary{ID: id}}
	}
	return it
}

func mixedPool() []Item {
	return []Item{
		postItemAt("a", 3*time.Hour, 5),
		kindItemAt(KindPlaceRecommendation, "b", time.Hour),
		postItemAt("c", time.Hour, 50),
		kindItemAt(KindPeopleSuggestion, "d", 2*time.Hour),
		postItemAt("e", 5*time.Hour, 0),
	}
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].ID
	}
	return out
}

func TestAssemble_RecentIsNonIncreasing(t *testing.T) {
	t.Parallel()

	got := Assemble(mixedPool(), &Request{Page: 1, Limit: 10, SortBy: SortRecent}, testNow)
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.After(got[i-1].CreatedAt) {
			t.Errorf("item %d (%s) is newer than item %d (%s)", i, got[i].ID, i-1, got[i-1].ID)
		}
	}
	// b and c share createdAt; id breaks the tie.
	if got[0].ID != "place_recommendation:b" || got[1].ID != "post:c" {
		t.Errorf("order = %v", ids(got))
	}
}

func TestAssemble_Popular(t *testing.T) {
	t.Parallel()

	got := Assemble(mixedPool(), &Request{Page: 1, Limit: 10, SortBy: SortPopular}, testNow)
	want := []string{"post:c", "post:a", "place_recommendation:b", "people_suggestion:d", "post:e"}
	if fmt.Sprint(ids(got)) != fmt.Sprint(want) {
		t.Errorf("order = %v, want %v", ids(got), want)
	}
}

func TestAssemble_Filters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		include []Kind
		exclude []Kind
		want    int
		only    Kind
	}{
		{"include posts", []Kind{KindPost}, nil, 3, KindPost},
		{"exclude posts", nil, []Kind{KindPost}, 2, ""},
		{"include and exclude same", []Kind{KindPost}, []Kind{KindPost}, 0, ""},
		{"no filters", nil, nil, 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := &Request{Page: 1, Limit: 10, SortBy: SortRecommended, IncludeTypes: tt.include, ExcludeTypes: tt.exclude}
			got := Assemble(mixedPool(), req, testNow)
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			for _, it := range got {
				if tt.only != "" && it.Type != tt.only {
					t.Errorf("item %s has type %s, want only %s", it.ID, it.Type, tt.only)
				}
				for _, ex := range tt.exclude {
					if it.Type == ex {
						t.Errorf("excluded type %s present", ex)
					}
				}
			}
		})
	}
}

func TestAssemble_DedupesByID(t *testing.T) {
	t.Parallel()

	pool := append(mixedPool(), postItemAt("a", time.Minute, 999))
	got := Assemble(pool, &Request{Page: 1, Limit: 10, SortBy: SortRecent}, testNow)

	seen := map[string]bool{}
	for _, it := range got {
		if seen[it.ID] {
			t.Errorf("duplicate id %s", it.ID)
		}
		seen[it.ID] = true
	}
	if len(got) != 5 {
		t.Errorf("len = %d, want 5", len(got))
	}
}

func TestAssemble_DoesNotModifyPool(t *testing.T) {
	t.Parallel()

	pool := mixedPool()
	before := ids(pool)
	_ = Assemble(pool, &Request{Page: 1, Limit: 2, SortBy: SortRecommended}, testNow)

	if fmt.Sprint(ids(pool)) != fmt.Sprint(before) {
		t.Errorf("pool reordered: %v, was %v", ids(pool), before)
	}
	for _, it := range pool {
		if it.Score != 0 {
			t.Errorf("pool item %s scored in place", it.ID)
		}
	}
}

func TestAssemble_Pagination(t *testing.T) {
	t.Parallel()

	pool := make([]Item, 0, 35)
	for i := 0; i < 35; i++ {
		// Several items share a timestamp to exercise the id tie-break.
		pool = append(pool, postItemAt(fmt.Sprintf("p%02d", i), time.Duration(i/3)*time.Hour, i%7))
	}

	for _, mode := range []SortMode{SortRecent, SortPopular, SortRecommended} {
		all := Assemble(pool, &Request{Page: 1, Limit: 100, SortBy: mode}, testNow)
		page2 := Assemble(pool, &Request{Page: 2, Limit: 10, SortBy: mode}, testNow)

		want := ids(all[10:20])
		if fmt.Sprint(ids(page2)) != fmt.Sprint(want) {
			t.Errorf("%s: page 2 = %v, want %v", mode, ids(page2), want)
		}
	}
}

func TestPaginate_OutOfRange(t *testing.T) {
	t.Parallel()

	items := mixedPool()
	tests := []struct {
		page, limit, want int
	}{
		{1, 2, 2},
		{3, 2, 1},
		{4, 2, 0},
		{0, 2, 0},
		{1, 0, 0},
	}
	for _, tt := range tests {
		got := paginate(items, tt.page, tt.limit)
		if got == nil {
			t.Errorf("paginate(%d, %d) = nil, want non-nil", tt.page, tt.limit)
		}
		if len(got) != tt.want {
			t.Errorf("paginate(%d, %d) len = %d, want %d", tt.page, tt.limit, len(got), tt.want)
		}
	}
}
