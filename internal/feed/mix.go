// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package feed

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// MixConfig is the percentage of the candidate pool given to each kind.
// A valid mix sums to exactly 100.
type MixConfig struct {
	Posts          int `json:"posts" koanf:"posts"`
	People         int `json:"people" koanf:"people"`
	Places         int `json:"places" koanf:"places"`
	Guides         int `json:"guides" koanf:"guides"`
	WeeklyFeatures int `json:"weekly_features" koanf:"weekly_features"`
	MiniBlogs      int `json:"mini_blogs" koanf:"mini_blogs"`
	Challenges     int `json:"challenges" koanf:"challenges"`
}

// DefaultMix is the baseline split.
func DefaultMix() MixConfig {
	return MixConfig{
		Posts:          40,
		People:         10,
		Places:         20,
		Guides:         8,
		WeeklyFeatures: 7,
		MiniBlogs:      10,
		Challenges:     5,
	}
}

func (m *MixConfig) slot(k Kind) *int {
	switch k {
	case KindPost:
		return &m.Posts
	case KindPeopleSuggestion:
		return &m.People
	case KindPlaceRecommendation:
		return &m.Places
	case KindGuideSpotlight:
		return &m.Guides
	case KindWeeklyFeature:
		return &m.WeeklyFeatures
	case KindMiniBlogCard:
		return &m.MiniBlogs
	case KindChallengeCard:
		return &m.Challenges
	}
	return nil
}

// Share returns the percentage for kind k.
func (m MixConfig) Share(k Kind) int {
	if p := m.slot(k); p != nil {
		return *p
	}
	return 0
}

// Total returns the sum of all shares.
func (m MixConfig) Total() int {
	total := 0
	for _, k := range AllKinds {
		total += m.Share(k)
	}
	return total
}

// Validate checks that shares are non-negative and sum to 100.
func (m MixConfig) Validate() error {
	for _, k := range AllKinds {
		if m.Share(k) < 0 {
			return fmt.Errorf("%s share must be non-negative, got %d", k, m.Share(k))
		}
	}
	if total := m.Total(); total != 100 {
		return fmt.Errorf("shares must sum to 100, got %d", total)
	}
	return nil
}

// Quota is the number of candidates to request for kind k from a pool of
// poolSize. A zero share yields zero.
func (m MixConfig) Quota(k Kind, poolSize int) int {
	share := m.Share(k)
	if share <= 0 || poolSize <= 0 {
		return 0
	}
	return int(math.Ceil(float64(poolSize) * float64(share) / 100))
}

func (m *MixConfig) adjust(k Kind, delta int) {
	if p := m.slot(k); p != nil {
		*p += delta
		if *p < 0 {
			*p = 0
		}
	}
}

// normalize rescales the shares to sum to 100 using largest remainders.
// Ties in the remainder go to the earlier kind in AllKinds.
func (m *MixConfig) normalize() {
	total := m.Total()
	if total == 100 {
		return
	}
	if total == 0 {
		*m = DefaultMix()
		return
	}

	type part struct {
		idx  int
		kind Kind
		rem  float64
	}
	parts := make([]part, len(AllKinds))
	assigned := 0
	for i, k := range AllKinds {
		exact := float64(m.Share(k)) * 100 / float64(total)
		floor := int(math.Floor(exact))
		*m.slot(k) = floor
		assigned += floor
		parts[i] = part{idx: i, kind: k, rem: exact - float64(floor)}
	}

	sort.SliceStable(parts, func(i, j int) bool {
		return parts[i].rem > parts[j].rem
	})
	for i := 0; assigned < 100; i++ {
		*m.slot(parts[i%len(parts)].kind)++
		assigned++
	}
}

// weatherBad and weatherGood group free-form weather descriptions.
var (
	weatherBad  = []string{"rain", "storm", "snow", "sleet", "hail", "drizzle", "thunder"}
	weatherGood = []string{"sun", "clear", "warm", "fair"}
)

// placeInterests are interests that favour places and guides over posts.
var placeInterests = []string{
	"food", "coffee", "restaurant", "bar", "nightlife", "travel", "outdoor",
	"hiking", "nature", "museum", "art", "shopping", "beach", "park",
}

// ComputeMix adjusts base for the request's time of day, interests and
// weather, then renormalizes to 100.
//
//nolint:gocritic // hugeParam: base passed by value so callers keep their copy
func ComputeMix(base MixConfig, tod TimeOfDay, interests []string, weather string) MixConfig {
	m := base

	switch tod {
	case Morning:
		m.adjust(KindPost, 5)
		m.adjust(KindWeeklyFeature, 5)
		m.adjust(KindPeopleSuggestion, -5)
		m.adjust(KindChallengeCard, -5)
	case Afternoon:
		m.adjust(KindPlaceRecommendation, 10)
		m.adjust(KindPost, -5)
		m.adjust(KindMiniBlogCard, -5)
	case Evening:
		m.adjust(KindPost, 10)
		m.adjust(KindPeopleSuggestion, 5)
		m.adjust(KindPlaceRecommendation, -5)
		m.adjust(KindGuideSpotlight, -5)
		m.adjust(KindChallengeCard, -5)
	case Night:
		m.adjust(KindPost, 10)
		m.adjust(KindMiniBlogCard, 5)
		m.adjust(KindPlaceRecommendation, -10)
		m.adjust(KindChallengeCard, -5)
	}

	if containsAny(interests, placeInterests) {
		m.adjust(KindPlaceRecommendation, 5)
		m.adjust(KindGuideSpotlight, 5)
		m.adjust(KindPost, -10)
	}

	w := strings.ToLower(weather)
	switch {
	case w == "":
	case containsAnySubstring(w, weatherBad):
		m.adjust(KindPlaceRecommendation, -10)
		m.adjust(KindMiniBlogCard, 5)
		m.adjust(KindPost, 5)
	case containsAnySubstring(w, weatherGood):
		m.adjust(KindPlaceRecommendation, 5)
		m.adjust(KindMiniBlogCard, -5)
	}

	m.normalize()
	return m
}

func containsAny(interests, vocabulary []string) bool {
	for _, in := range interests {
		for _, v := range vocabulary {
			if matchesInterest(v, in) {
				return true
			}
		}
	}
	return false
}

func containsAnySubstring(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
