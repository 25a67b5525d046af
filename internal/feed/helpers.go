// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package feed

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

// matchesInterest is a case-insensitive substring match in either direction,
// so "food" matches "street food" and "foodie".
func matchesInterest(term, interest string) bool {
	t := strings.ToLower(strings.TrimSpace(term))
	i := strings.ToLower(strings.TrimSpace(interest))
	if t == "" || i == "" {
		return false
	}
	return strings.Contains(t, i) || strings.Contains(i, t)
}

// anyMatchesInterest reports whether any term matches any interest.
func anyMatchesInterest(terms, interests []string) bool {
	for _, t := range terms {
		for _, in := range interests {
			if matchesInterest(t, in) {
				return true
			}
		}
	}
	return false
}

// countMatching returns how many terms match at least one interest.
func countMatching(terms, interests []string) int {
	n := 0
	for _, t := range terms {
		for _, in := range interests {
			if matchesInterest(t, in) {
				n++
				break
			}
		}
	}
	return n
}

// TimeOfDayFor buckets the hour of t.
func TimeOfDayFor(t time.Time) TimeOfDay {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return Morning
	case h >= 12 && h < 17:
		return Afternoon
	case h >= 17 && h < 21:
		return Evening
	default:
		return Night
	}
}

// Themes rotate weekly.
var Themes = []string{
	"hidden_gems",
	"food_and_drink",
	"outdoor_adventures",
	"arts_and_culture",
	"nightlife",
	"wellness",
	"local_history",
	"family_fun",
}

// ThemeFor selects the weekly theme for the ISO week containing t.
func ThemeFor(t time.Time) string {
	_, week := t.ISOWeek()
	return Themes[week%len(Themes)]
}

// ExtractText flattens rich-text content to plain text. Content that is not a
// rich-text JSON document is returned with whitespace collapsed.
func ExtractText(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return collapseSpace(trimmed)
	}

	var doc any
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return collapseSpace(trimmed)
	}

	var parts []string
	collectText(doc, &parts)
	return collapseSpace(strings.Join(parts, " "))
}

func collectText(node any, parts *[]string) {
	switch n := node.(type) {
	case map[string]any:
		if text, ok := n["text"].(string); ok {
			*parts = append(*parts, text)
		}
		if root, ok := n["root"]; ok {
			collectText(root, parts)
		}
		if children, ok := n["children"]; ok {
			collectText(children, parts)
		}
	case []any:
		for _, child := range n {
			collectText(child, parts)
		}
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// excerpt truncates s to at most n runes, cutting at a word boundary and
// appending an ellipsis when shortened.
func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " .,;:") + "…"
}

// readingMinutes estimates reading time at 200 words per minute.
func readingMinutes(text string) int {
	words := len(strings.Fields(text))
	minutes := (words + 199) / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
