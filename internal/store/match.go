// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package store

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Select evaluates q against JSON-encoded documents and decodes the matching
// ones into out. It backs the embedded stores, which keep documents as JSON
// and have no query planner of their own. docs should already be in a
// deterministic order (for example by key) so ties in Sort stay stable.
func Select(q Query, docs [][]byte, out any) error {
	if err := q.Validate(); err != nil {
		return err
	}
	if err := checkSliceTarget(out); err != nil {
		return err
	}

	type candidate struct {
		raw    []byte
		fields map[string]any
	}

	matched := make([]candidate, 0, len(docs))
	for _, raw := range docs {
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return fmt.Errorf("decode document: %w", err)
		}
		if Matches(fields, q.Where) {
			matched = append(matched, candidate{raw: raw, fields: fields})
		}
	}

	if field, desc := q.SortField(); field != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			a, _ := lookup(matched[i].fields, field)
			b, _ := lookup(matched[j].fields, field)
			c := compareValues(a, b)
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, m := range matched {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(m.raw)
	}
	buf.WriteByte(']')

	if err := json.Unmarshal(buf.Bytes(), out); err != nil {
		return fmt.Errorf("decode results: %w", err)
	}
	return nil
}

// Matches reports whether a decoded document satisfies every condition.
func Matches(doc map[string]any, where []Condition) bool {
	for _, c := range where {
		if !matchOne(doc, c) {
			return false
		}
	}
	return true
}

func matchOne(doc map[string]any, c Condition) bool {
	v, present := lookup(doc, c.Field)

	switch c.Op {
	case OpEq:
		return present && anyEqual(v, c.Value)
	case OpNe:
		return !present || !anyEqual(v, c.Value)
	case OpIn:
		return present && anyIn(v, c.Value.([]string))
	case OpNotIn:
		return !present || !anyIn(v, c.Value.([]string))
	case OpGt:
		return present && compareValues(v, c.Value) > 0
	case OpLt:
		return present && compareValues(v, c.Value) < 0
	case OpExists:
		return present == c.Value.(bool)
	}
	return false
}

// lookup resolves a dotted path. A null value counts as absent.
func lookup(doc map[string]any, path string) (any, bool) {
	var cur any = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}

func anyEqual(v, want any) bool {
	if arr, ok := v.([]any); ok {
		for _, el := range arr {
			if compareValues(el, want) == 0 {
				return true
			}
		}
		return false
	}
	return compareValues(v, want) == 0
}

func anyIn(v any, set []string) bool {
	for _, s := range set {
		if anyEqual(v, s) {
			return true
		}
	}
	return false
}

// compareValues orders two scalar values. nil sorts first. Strings that both
// parse as RFC3339 timestamps compare chronologically.
func compareValues(a, b any) int {
	a, b = normalize(a), normalize(b)

	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if ta, tb, ok := asTimes(a, b); ok {
		return ta.Compare(tb)
	}

	switch x := a.(type) {
	case float64:
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	}
	return v
}

func asTimes(a, b any) (time.Time, time.Time, bool) {
	ta, okA := asTime(a)
	if !okA {
		return time.Time{}, time.Time{}, false
	}
	tb, okB := asTime(b)
	if !okB {
		return time.Time{}, time.Time{}, false
	}
	return ta, tb, true
}

func asTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		if len(x) < len("2006-01-02T15:04:05Z") {
			return time.Time{}, false
		}
		t, err := time.Parse(time.RFC3339Nano, x)
		return t, err == nil
	}
	return time.Time{}, false
}

func checkSliceTarget(out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("%w: output must be a non-nil pointer to a slice, got %T", ErrInvalidQuery, out)
	}
	return nil
}
