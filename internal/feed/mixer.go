// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package feed

import (
	"sort"
	"time"
)

// Assemble runs the mixer pipeline over a candidate pool: filter by type,
// drop duplicate ids, sort, then cut the requested page. The pool is not
// modified. req must already be normalized.
func Assemble(pool []Item, req *Request, now time.Time) []Item {
	page, _ := assemble(pool, req, now)
	return page
}

// assemble is Assemble that also reports how many items passed filtering.
func assemble(pool []Item, req *Request, now time.Time) (page []Item, matched int) {
	items := filterKinds(pool, req.IncludeTypes, req.ExcludeTypes)
	items = dedupe(items)

	sortItems(items, req, now)

	return paginate(items, req.Page, req.Limit), len(items)
}

// filterKinds copies the items whose type passes the include and exclude
// sets. An empty include set admits every kind.
func filterKinds(pool []Item, include, exclude []Kind) []Item {
	inc := kindSet(include)
	exc := kindSet(exclude)

	out := make([]Item, 0, len(pool))
	for i := range pool {
		k := pool[i].Type
		if len(inc) > 0 && !inc[k] {
			continue
		}
		if exc[k] {
			continue
		}
		out = append(out, pool[i])
	}
	return out
}

func kindSet(kinds []Kind) map[Kind]bool {
	if len(kinds) == 0 {
		return nil
	}
	set := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

// dedupe keeps the first occurrence of each id.
func dedupe(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for i := range items {
		if _, ok := seen[items[i].ID]; ok {
			continue
		}
		seen[items[i].ID] = struct{}{}
		out = append(out, items[i])
	}
	return out
}

// sortItems orders items in place. Ties always fall back to createdAt
// descending then id ascending, so the order is total and every page of
// the same pool is cut from one sequence.
func sortItems(items []Item, req *Request, now time.Time) {
	switch req.SortBy {
	case SortPopular:
		sort.SliceStable(items, func(i, j int) bool {
			ei, ej := items[i].Engagement(), items[j].Engagement()
			if ei != ej {
				return ei > ej
			}
			return newerFirst(&items[i], &items[j])
		})

	case SortRecommended:
		for i := range items {
			items[i].Score = RecommendationScore(&items[i], req.Interests, req.Location, now)
		}
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Score != items[j].Score {
				return items[i].Score > items[j].Score
			}
			return newerFirst(&items[i], &items[j])
		})

	default:
		sort.SliceStable(items, func(i, j int) bool {
			return newerFirst(&items[i], &items[j])
		})
	}
}

func newerFirst(a, b *Item) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

// paginate returns items [(page-1)*limit, page*limit). Out of range pages
// yield an empty, non-nil slice.
func paginate(items []Item, page, limit int) []Item {
	start := (page - 1) * limit
	if page < 1 || limit < 1 || start >= len(items) {
		return []Item{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
