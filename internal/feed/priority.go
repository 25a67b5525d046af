// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package feed

import (
	"math"
	"time"
)

// Fixed priorities for kinds that are not scored from engagement.
const (
	PriorityPeople        = 60
	PriorityPlace         = 70
	PriorityWeeklyFeature = 90
	PriorityGuide         = 75
	PriorityMiniBlog      = 55
	PriorityChallenge     = 80
)

const (
	postBasePriority   = 50
	maxLikeBonus       = 20
	maxCommentBonus    = 15
	interestBonus      = 10
	freshBonus         = 15 // < 24h
	recentBonus        = 10 // < 72h
	priorityCeiling    = 100
	priorityFloor      = 0
	freshWindow        = 24 * time.Hour
	recentWindow       = 72 * time.Hour
	likesPerPoint      = 10.0
	commentsPerPoint   = 5.0
	recencyWeeksPerPt  = 7.0
	maxRecencyScore    = 10.0
	interestMultiplier = 5.0
	proximityRadiusKm  = 50.0
	maxProximityScore  = 5.0
	proximityKmPerPt   = 10.0
)

// PostPriority scores a post at fetch time:
//
//	50 + min(likes/10, 20) + min(comments/5, 15)
//	   + 10 if a category matches an interest
//	   + 15 if younger than 24h, else 10 if younger than 72h
//
// clamped to [0, 100].
func PostPriority(likes, comments int, categories, interests []string, createdAt, now time.Time) float64 {
	p := float64(postBasePriority)
	p += math.Min(float64(likes)/likesPerPoint, maxLikeBonus)
	p += math.Min(float64(comments)/commentsPerPoint, maxCommentBonus)

	if anyMatchesInterest(categories, interests) {
		p += interestBonus
	}

	switch age := now.Sub(createdAt); {
	case age < freshWindow:
		p += freshBonus
	case age < recentWindow:
		p += recentBonus
	}

	return clampPriority(p)
}

func clampPriority(p float64) float64 {
	if math.IsNaN(p) {
		return priorityFloor
	}
	return math.Max(priorityFloor, math.Min(priorityCeiling, p))
}
