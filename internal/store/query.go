// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package store

import (
	"fmt"
	"strings"
)

// Operator is a condition comparison.
type Operator string

// Supported operators. Array-valued document fields match eq and in when any
// element matches, following document-database semantics.
const (
	OpEq     Operator = "eq"
	OpNe     Operator = "ne"
	OpIn     Operator = "in"
	OpNotIn  Operator = "nin"
	OpGt     Operator = "gt"
	OpLt     Operator = "lt"
	OpExists Operator = "exists"
)

// Condition restricts one field. Field may be a dotted path.
type Condition struct {
	Field string
	Op    Operator
	Value any
}

// Query selects documents. All conditions must hold.
type Query struct {
	Where []Condition

	// Sort is a field name, prefixed with "-" for descending. Empty keeps
	// the backend's natural order.
	Sort string

	// Limit caps the result count. Zero means unlimited.
	Limit int
}

// Eq matches field == v.
func Eq(field string, v any) Condition { return Condition{Field: field, Op: OpEq, Value: v} }

// Ne matches field != v, including documents without the field.
func Ne(field string, v any) Condition { return Condition{Field: field, Op: OpNe, Value: v} }

// In matches field ∈ values.
func In(field string, values []string) Condition {
	return Condition{Field: field, Op: OpIn, Value: values}
}

// NotIn matches field ∉ values.
func NotIn(field string, values []string) Condition {
	return Condition{Field: field, Op: OpNotIn, Value: values}
}

// Gt matches field > v.
func Gt(field string, v any) Condition { return Condition{Field: field, Op: OpGt, Value: v} }

// Lt matches field < v.
func Lt(field string, v any) Condition { return Condition{Field: field, Op: OpLt, Value: v} }

// Exists matches documents that have (or lack) field.
func Exists(field string, present bool) Condition {
	return Condition{Field: field, Op: OpExists, Value: present}
}

// SortField splits Sort into the field name and direction.
func (q Query) SortField() (field string, desc bool) {
	if strings.HasPrefix(q.Sort, "-") {
		return q.Sort[1:], true
	}
	return q.Sort, false
}

// Validate checks operators and value shapes.
func (q Query) Validate() error {
	if q.Limit < 0 {
		return fmt.Errorf("%w: negative limit %d", ErrInvalidQuery, q.Limit)
	}
	for _, c := range q.Where {
		if c.Field == "" {
			return fmt.Errorf("%w: empty field", ErrInvalidQuery)
		}
		switch c.Op {
		case OpEq, OpNe, OpGt, OpLt:
		case OpIn, OpNotIn:
			if _, ok := c.Value.([]string); !ok {
				return fmt.Errorf("%w: %s on %q needs []string, got %T", ErrInvalidQuery, c.Op, c.Field, c.Value)
			}
		case OpExists:
			if _, ok := c.Value.(bool); !ok {
				return fmt.Errorf("%w: exists on %q needs bool, got %T", ErrInvalidQuery, c.Field, c.Value)
			}
		default:
			return fmt.Errorf("%w: unknown operator %q", ErrInvalidQuery, c.Op)
		}
	}
	return nil
}
