// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package feed

import (
	"math"
	"testing"
	"time"
)

func TestPostPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		likes      int
		comments   int
		categories []string
		interests  []string
		age        time.Duration
		want       float64
	}{
		{"base only", 0, 0, nil, nil, 30 * 24 * time.Hour, 50},
		{"likes bonus", 55, 0, nil, nil, 30 * 24 * time.Hour, 55.5},
		{"likes capped", 1000, 0, nil, nil, 30 * 24 * time.Hour, 70},
		{"comments capped", 0, 500, nil, nil, 30 * 24 * time.Hour, 65},
		{"interest match", 0, 0, []string{"Street Food"}, []string{"food"}, 30 * 24 * time.Hour, 60},
		{"interest miss", 0, 0, []string{"museums"}, []string{"food"}, 30 * 24 * time.Hour, 50},
		{"fresh", 0, 0, nil, nil, time.Hour, 65},
		{"recent", 0, 0, nil, nil, 48 * time.Hour, 60},
		{"exactly 72h is not recent", 0, 0, nil, nil, 72 * time.Hour, 50},
		{"clamped", 1000, 1000, []string{"food"}, []string{"food"}, time.Minute, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := PostPriority(tt.likes, tt.comments, tt.categories, tt.interests, testNow.Add(-tt.age), testNow)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PostPriority() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPostPriority_AlwaysInRange(t *testing.T) {
	t.Parallel()

	for likes := 0; likes <= 2000; likes += 97 {
		for comments := 0; comments <= 500; comments += 31 {
			for _, age := range []time.Duration{-time.Hour, 0, 23 * time.Hour, 71 * time.Hour, 400 * time.Hour} {
				p := PostPriority(likes, comments, []string{"food"}, []string{"food"}, testNow.Add(-age), testNow)
				if p < 0 || p > 100 {
					t.Fatalf("PostPriority(%d, %d, age %v) = %v, out of [0, 100]", likes, comments, age, p)
				}
			}
		}
	}
}

func TestClampPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want float64
	}{
		{-5, 0},
		{42, 42},
		{150, 100},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := clampPriority(tt.in); got != tt.want {
			t.Errorf("clampPriority(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
