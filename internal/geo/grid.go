// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package geo

import (
	"math"
	"sort"
	"sync"
)

// kmPerDegree approximates one degree of latitude.
const kmPerDegree = 111.0

// Grid buckets points into square cells so radius queries only inspect the
// cells that overlap the search circle.
//
//   - Insert: O(1)
//   - Nearby: O(k) where k = entries in the inspected cells
type Grid struct {
	mu       sync.RWMutex
	cellSize float64 // degrees
	cells    map[cellKey][]*Entry
	entries  map[string]*Entry
}

type cellKey struct {
	X, Y int
}

// Entry is one indexed point. Data carries the caller's payload.
type Entry struct {
	ID    string
	Point Point
	Data  any

	// DistanceKm is filled in by Nearby.
	DistanceKm float64

	cell cellKey
}

// NewGrid creates a grid with cells of roughly cellSizeKm on each side.
func NewGrid(cellSizeKm float64) *Grid {
	if cellSizeKm <= 0 {
		cellSizeKm = 25
	}
	return &Grid{
		cellSize: cellSizeKm / kmPerDegree,
		cells:    make(map[cellKey][]*Entry),
		entries:  make(map[string]*Entry),
	}
}

func (g *Grid) keyFor(p Point) cellKey {
	lon := p.Longitude
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return cellKey{
		X: int(math.Floor(lon / g.cellSize)),
		Y: int(math.Floor(p.Latitude / g.cellSize)),
	}
}

// Insert adds or replaces the entry with the given id.
func (g *Grid) Insert(id string, p Point, data any) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if old, ok := g.entries[id]; ok {
		g.unlink(old)
	}

	e := &Entry{ID: id, Point: p, Data: data, cell: g.keyFor(p)}
	g.cells[e.cell] = append(g.cells[e.cell], e)
	g.entries[id] = e
}

// Remove deletes an entry. It reports whether the id was present.
func (g *Grid) Remove(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[id]
	if !ok {
		return false
	}
	g.unlink(e)
	delete(g.entries, id)
	return true
}

// unlink removes e from its cell. Caller holds the lock.
func (g *Grid) unlink(e *Entry) {
	bucket := g.cells[e.cell]
	for i, cur := range bucket {
		if cur.ID == e.ID {
			bucket[i] = bucket[len(bucket)-1]
			bucket = bucket[:len(bucket)-1]
			break
		}
	}
	if len(bucket) == 0 {
		delete(g.cells, e.cell)
		return
	}
	g.cells[e.cell] = bucket
}

// Nearby returns copies of every entry within radiusKm of center, closest first.
// Entries at equal distance are ordered by ID.
func (g *Grid) Nearby(center Point, radiusKm float64) []Entry {
	g.mu.RLock()
	defer g.mu.RUnlock()

	span := int(math.Ceil(radiusKm/kmPerDegree/g.cellSize)) + 1
	origin := g.keyFor(center)

	var out []Entry
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			for _, e := range g.cells[cellKey{X: origin.X + dx, Y: origin.Y + dy}] {
				d := Haversine(center, e.Point)
				if d > radiusKm {
					continue
				}
				hit := *e
				hit.DistanceKm = d
				out = append(out, hit)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of indexed entries.
func (g *Grid) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}
