// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package feed

import (
	"math"
	"time"

	"github.com/tomtom215/sacavia/internal/geo"
)

// RecommendationScore is the composite used by the recommended sort:
//
//	priority + recency + engagement + 5*interestMatch + proximity
//
// The result is not bounded by 100.
func RecommendationScore(it *Item, interests []string, loc *geo.Point, now time.Time) float64 {
	return it.Priority +
		RecencyScore(it.CreatedAt, now) +
		EngagementScore(it) +
		InterestMatch(it, interests)*interestMultiplier +
		ProximityScore(loc, it.Coordinates())
}

// RecencyScore is max(0, 10 - days/7).
func RecencyScore(createdAt, now time.Time) float64 {
	days := now.Sub(createdAt).Hours() / 24
	return math.Max(0, maxRecencyScore-days/recencyWeeksPerPt)
}

// EngagementScore is log10(1 + likes + 2*comments + 3*shares) for posts.
func EngagementScore(it *Item) float64 {
	if it.Type != KindPost || it.Post == nil {
		return 0
	}
	weighted := it.Post.LikeCount + 2*it.Post.CommentCount + 3*it.Post.ShareCount
	if weighted < 0 {
		return 0
	}
	return math.Log10(1 + float64(weighted))
}

// InterestMatch is the fraction of a post's tags that match an interest.
// Categories are not consulted; untagged posts score zero.
func InterestMatch(it *Item, interests []string) float64 {
	if it.Post == nil || len(interests) == 0 || len(it.Post.Tags) == 0 {
		return 0
	}
	return float64(countMatching(it.Post.Tags, interests)) / float64(len(it.Post.Tags))
}

// ProximityScore is max(0, 5 - km/10) within 50km and zero otherwise or when
// either position is unknown.
func ProximityScore(user, item *geo.Point) float64 {
	km, ok := geo.DistanceKm(user, item)
	if !ok || km > proximityRadiusKm {
		return 0
	}
	return math.Max(0, maxProximityScore-km/proximityKmPerPt)
}

// Personalized-feed weights.
const (
	personalizedRecencyWeight    = 0.5
	personalizedEngagementWeight = 0.3
	personalizedLocationWeight   = 0.2
)

// PersonalizedScore combines the followed-users feed terms:
//
//	0.5 * 1/(1 + 0.1*ageHours) + 0.3 * x/(1+x) + 0.2 * 1/(1 + 0.1*km)
//
// where x is likes+comments. The location term is zero without both positions.
func PersonalizedScore(likes, comments int, createdAt, now time.Time, user, post *geo.Point) (float64, ScoreBreakdown) {
	ageHours := math.Max(0, now.Sub(createdAt).Hours())
	b := ScoreBreakdown{
		Recency: 1 / (1 + 0.1*ageHours),
	}

	if x := float64(likes + comments); x > 0 {
		b.Engagement = x / (1 + x)
	}

	if km, ok := geo.DistanceKm(user, post); ok {
		b.Location = 1 / (1 + 0.1*km)
	}

	score := personalizedRecencyWeight*b.Recency +
		personalizedEngagementWeight*b.Engagement +
		personalizedLocationWeight*b.Location
	return score, b
}
