// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package feed

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestExtractText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  hello \n world ", "hello world"},
		{"rich text", `{"root":{"children":[{"type":"paragraph","children":[{"text":"Hello"},{"text":"there"}]},{"children":[{"text":"friend"}]}]}}`, "Hello there friend"},
		{"broken json", `{"root": [`, `{"root": [`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExtractText(tt.in); got != tt.want {
				t.Errorf("ExtractText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestThemeFor(t *testing.T) {
	t.Parallel()

	// Same ISO week, same theme.
	mon := time.Date(2026, 6, 8, 9, 0, 0, 0, time.UTC)
	sun := time.Date(2026, 6, 14, 22, 0, 0, 0, time.UTC)
	if ThemeFor(mon) != ThemeFor(sun) {
		t.Errorf("ThemeFor differs within a week: %s vs %s", ThemeFor(mon), ThemeFor(sun))
	}

	next := mon.AddDate(0, 0, 7)
	if ThemeFor(mon) == ThemeFor(next) {
		t.Errorf("ThemeFor did not rotate: %s", ThemeFor(next))
	}
}

func TestTimeOfDayFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hour int
		want TimeOfDay
	}{
		{4, Night},
		{5, Morning},
		{11, Morning},
		{12, Afternoon},
		{17, Evening},
		{20, Evening},
		{21, Night},
		{0, Night},
	}
	for _, tt := range tests {
		at := time.Date(2026, 1, 1, tt.hour, 30, 0, 0, time.UTC)
		if got := TimeOfDayFor(at); got != tt.want {
			t.Errorf("TimeOfDayFor(%02d:30) = %s, want %s", tt.hour, got, tt.want)
		}
	}
}

func TestExcerpt(t *testing.T) {
	t.Parallel()

	short := "short text"
	if got := excerpt(short, 280); got != short {
		t.Errorf("excerpt(short) = %q", got)
	}

	long := strings.Repeat("word ", 100)
	got := excerpt(long, 50)
	if utf8.RuneCountInString(got) > 51 {
		t.Errorf("excerpt too long: %d runes", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("excerpt(long) = %q, want ellipsis", got)
	}
}

func TestMatchesInterest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		term, interest string
		want           bool
	}{
		{"Food", "food", true},
		{"streetfood", "food", true},
		{"art", "Arts & Crafts", true},
		{"music", "food", false},
		{"", "food", false},
	}
	for _, tt := range tests {
		if got := matchesInterest(tt.term, tt.interest); got != tt.want {
			t.Errorf("matchesInterest(%q, %q) = %v, want %v", tt.term, tt.interest, got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, k := range AllKinds {
		got, err := ParseKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %q, %v", k, got, err)
		}
	}
	if _, err := ParseKind("story"); err == nil {
		t.Error("ParseKind(story) error = nil, want error")
	}
}
