// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package validation

import (
	"strings"
	"testing"
)

type feedQuery struct {
	Page      int      `validate:"gte=1,lte=50"`
	Limit     int      `validate:"gte=1,lte=100"`
	Sort      string   `validate:"omitempty,oneof=recent popular recommended"`
	Lat       float64  `validate:"latitude"`
	Lon       float64  `validate:"longitude"`
	UserID    string   `validate:"omitempty,docid"`
	Interests []string `validate:"max=3,dive,interest"`
	Circle    []string `validate:"dive,docid"`
}

func validQuery() feedQuery {
	return feedQuery{
		Page:      1,
		Limit:     20,
		Sort:      "recent",
		Lat:       48.85,
		Lon:       2.35,
		UserID:    "u_1-a",
		Interests: []string{"food", "Street Art"},
		Circle:    []string{"u2", "u3"},
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	t.Parallel()

	if v1, v2 := GetValidator(), GetValidator(); v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one non-nil instance")
	}
}

func TestValidateStructValid(t *testing.T) {
	t.Parallel()

	q := validQuery()
	if err := ValidateStruct(&q); err != nil {
		t.Errorf("ValidateStruct() = %v, want nil", err)
	}

	q.UserID = ""
	q.Sort = ""
	q.Interests = nil
	if err := ValidateStruct(&q); err != nil {
		t.Errorf("ValidateStruct() with optional fields empty = %v, want nil", err)
	}
}

func TestValidateStructInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*feedQuery)
		wantTag string
		wantMsg string
	}{
		{"page too low", func(q *feedQuery) { q.Page = 0 }, "gte", "Page must be greater than or equal to 1"},
		{"limit too high", func(q *feedQuery) { q.Limit = 101 }, "lte", "Limit must be less than or equal to 100"},
		{"unknown sort", func(q *feedQuery) { q.Sort = "random" }, "oneof", "Sort must be one of: recent popular recommended"},
		{"bad latitude", func(q *feedQuery) { q.Lat = 91 }, "latitude", "Lat must be a valid latitude (-90 to 90)"},
		{"bad longitude", func(q *feedQuery) { q.Lon = -181 }, "longitude", "Lon must be a valid longitude (-180 to 180)"},
		{"bad user id", func(q *feedQuery) { q.UserID = "u 1" }, "docid", "UserID must be 1-64 letters"},
		{"long user id", func(q *feedQuery) { q.UserID = strings.Repeat("a", 65) }, "docid", "UserID must be 1-64 letters"},
		{"too many interests", func(q *feedQuery) { q.Interests = []string{"a", "b", "c", "d"} }, "max", "Interests must be at most 3"},
		{"blank interest", func(q *feedQuery) { q.Interests = []string{" "} }, "interest", "Interests[0] must be 1-64 printable"},
		{"interest with comma", func(q *feedQuery) { q.Interests = []string{"food,art"} }, "interest", "without commas"},
		{"control char interest", func(q *feedQuery) { q.Interests = []string{"fo\x00od"} }, "interest", "printable"},
		{"bad circle id", func(q *feedQuery) { q.Circle = []string{"ok", "n/a"} }, "docid", "Circle[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q := validQuery()
			tt.mutate(&q)
			verr := ValidateStruct(&q)
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
			if !strings.Contains(errs[0].Error(), tt.wantMsg) {
				t.Errorf("Error() = %q, want it to contain %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIErrorSingle(t *testing.T) {
	t.Parallel()

	q := validQuery()
	q.Limit = 0
	apiErr := ValidateStruct(&q).ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details["field"] != "Limit" {
		t.Errorf("Details[field] = %v, want Limit", apiErr.Details["field"])
	}
	if apiErr.Details["value"] != 0 {
		t.Errorf("Details[value] = %v, want 0", apiErr.Details["value"])
	}
}

func TestToAPIErrorMultiple(t *testing.T) {
	t.Parallel()

	q := validQuery()
	q.Page = 0
	q.Lat = 100
	apiErr := ValidateStruct(&q).ToAPIError()

	fields, ok := apiErr.Details["fields"].([]map[string]any)
	if !ok || len(fields) != 2 {
		t.Fatalf("Details[fields] = %v, want 2 entries", apiErr.Details["fields"])
	}
	if !strings.Contains(apiErr.Message, "Page:") || !strings.Contains(apiErr.Message, "Lat:") {
		t.Errorf("Message = %q, want both fields named", apiErr.Message)
	}
}

func TestEmptyRequestValidationError(t *testing.T) {
	t.Parallel()

	var verr RequestValidationError
	if verr.Error() != "validation failed" {
		t.Errorf("Error() = %q, want validation failed", verr.Error())
	}
	if got := verr.ToAPIError(); got.Code != "VALIDATION_ERROR" || got.Details != nil {
		t.Errorf("ToAPIError() = %+v", got)
	}
}

func TestStringMinMaxMessages(t *testing.T) {
	t.Parallel()

	type named struct {
		Name string `validate:"min=2,max=4"`
	}
	tests := []struct {
		in   string
		want string
	}{
		{"a", "Name must be at least 2 characters"},
		{"abcde", "Name must be at most 4 characters"},
	}
	for _, tt := range tests {
		verr := ValidateStruct(&named{Name: tt.in})
		if verr == nil {
			t.Fatalf("ValidateStruct(%q) = nil", tt.in)
		}
		if got := verr.Error(); got != tt.want {
			t.Errorf("ValidateStruct(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCoordinatePairMessage(t *testing.T) {
	t.Parallel()

	type point struct {
		Lat *float64 `validate:"omitempty,latitude"`
		Lon *float64 `validate:"required_with=Lat,omitempty,longitude"`
	}
	lat := 10.0
	verr := ValidateStruct(&point{Lat: &lat})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	if got, want := verr.Error(), "Lon is required when Lat is set"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestUntranslatedTagMessage(t *testing.T) {
	t.Parallel()

	type code struct {
		Value string `validate:"alpha"`
	}
	verr := ValidateStruct(&code{Value: "a1"})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	if got, want := verr.Error(), "Value failed alpha validation"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
