// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package models

import (
	"time"

	"github.com/tomtom215/sacavia/internal/geo"
)

// Collection names in the document store.
const (
	CollectionPosts          = "posts"
	CollectionUsers          = "users"
	CollectionLocations      = "locations"
	CollectionWeeklyFeatures = "weekly-features"
	CollectionGuides         = "guides"
	CollectionChallenges     = "challenges"
)

// Collections lists every collection the service reads.
var Collections = []string{
	CollectionPosts,
	CollectionUsers,
	CollectionLocations,
	CollectionWeeklyFeatures,
	CollectionGuides,
	CollectionChallenges,
}

// Document status values.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusClosed    = "closed"
)

// Post types.
const (
	PostTypePost           = "post"
	PostTypeReview         = "review"
	PostTypeRecommendation = "recommendation"
	PostTypeBlog           = "blog"
)

// User is a member profile. Following holds the ids of followed users.
type User struct {
	ID           string     `json:"id" bson:"_id" validate:"required"`
	Name         string     `json:"name" bson:"name"`
	Username     string     `json:"username,omitempty" bson:"username,omitempty"`
	Email        string     `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	ProfileImage string     `json:"profileImage,omitempty" bson:"profileImage,omitempty"`
	Bio          string     `json:"bio,omitempty" bson:"bio,omitempty"`
	Interests    []string   `json:"interests,omitempty" bson:"interests,omitempty"`
	Following    []string   `json:"following,omitempty" bson:"following,omitempty"`
	Followers    []string   `json:"followers,omitempty" bson:"followers,omitempty"`
	Location     *geo.Point `json:"location,omitempty" bson:"location,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt" validate:"required"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Post is user-authored content. Author and Location are document ids.
// Content is either plain text or serialized rich text.
type Post struct {
	ID           string    `json:"id" bson:"_id" validate:"required"`
	Author       string    `json:"author" bson:"author"`
	Title        string    `json:"title,omitempty" bson:"title,omitempty"`
	Content      string    `json:"content" bson:"content"`
	Type         string    `json:"type" bson:"type" validate:"omitempty,oneof=post review recommendation blog"`
	Status       string    `json:"status" bson:"status"`
	Categories   []string  `json:"categories,omitempty" bson:"categories,omitempty"`
	Tags         []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	Image        string    `json:"image,omitempty" bson:"image,omitempty"`
	Video        string    `json:"video,omitempty" bson:"video,omitempty"`
	Location     string    `json:"location,omitempty" bson:"location,omitempty"`
	Rating       float64   `json:"rating,omitempty" bson:"rating,omitempty" validate:"gte=0,lte=5"`
	LikeCount    int       `json:"likeCount" bson:"likeCount" validate:"gte=0"`
	CommentCount int       `json:"commentCount" bson:"commentCount" validate:"gte=0"`
	ShareCount   int       `json:"shareCount" bson:"shareCount" validate:"gte=0"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt" validate:"required"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Location is a place that can be recommended.
type Location struct {
	ID            string     `json:"id" bson:"_id" validate:"required"`
	Name          string     `json:"name" bson:"name" validate:"required"`
	Slug          string     `json:"slug,omitempty" bson:"slug,omitempty"`
	Description   string     `json:"description,omitempty" bson:"description,omitempty"`
	Categories    []string   `json:"categories,omitempty" bson:"categories,omitempty"`
	Address       string     `json:"address,omitempty" bson:"address,omitempty"`
	City          string     `json:"city,omitempty" bson:"city,omitempty"`
	Coordinates   *geo.Point `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	FeaturedImage string     `json:"featuredImage,omitempty" bson:"featuredImage,omitempty"`
	AverageRating float64    `json:"averageRating,omitempty" bson:"averageRating,omitempty" validate:"gte=0,lte=5"`
	ReviewCount   int        `json:"reviewCount,omitempty" bson:"reviewCount,omitempty" validate:"gte=0"`
	Status        string     `json:"status" bson:"status"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt" validate:"required"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// WeeklyFeature is an editorial theme for one ISO week.
type WeeklyFeature struct {
	ID                string    `json:"id" bson:"_id" validate:"required"`
	Title             string    `json:"title" bson:"title" validate:"required"`
	Description       string    `json:"description,omitempty" bson:"description,omitempty"`
	Theme             string    `json:"theme" bson:"theme"`
	WeekNumber        int       `json:"weekNumber" bson:"weekNumber" validate:"gte=0,lte=53"`
	Year              int       `json:"year,omitempty" bson:"year,omitempty"`
	IsActive          bool      `json:"isActive" bson:"isActive"`
	FeaturedLocations []string  `json:"featuredLocations,omitempty" bson:"featuredLocations,omitempty"`
	CreatedAt         time.Time `json:"createdAt" bson:"createdAt" validate:"required"`
	UpdatedAt         time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Guide is a paid or free local guide written by a creator.
type Guide struct {
	ID              string    `json:"id" bson:"_id" validate:"required"`
	Title           string    `json:"title" bson:"title" validate:"required"`
	Summary         string    `json:"summary,omitempty" bson:"summary,omitempty"`
	Author          string    `json:"author" bson:"author"`
	PrimaryLocation string    `json:"primaryLocation,omitempty" bson:"primaryLocation,omitempty"`
	Price           float64   `json:"price" bson:"price" validate:"gte=0"`
	Rating          float64   `json:"rating,omitempty" bson:"rating,omitempty" validate:"gte=0,lte=5"`
	Status          string    `json:"status" bson:"status"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt" validate:"required"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Challenge is a time-boxed community activity.
type Challenge struct {
	ID               string    `json:"id" bson:"_id" validate:"required"`
	Title            string    `json:"title" bson:"title" validate:"required"`
	Description      string    `json:"description,omitempty" bson:"description,omitempty"`
	RewardPoints     int       `json:"rewardPoints" bson:"rewardPoints" validate:"gte=0"`
	ParticipantCount int       `json:"participantCount" bson:"participantCount" validate:"gte=0"`
	Status           string    `json:"status" bson:"status"`
	ExpiresAt        time.Time `json:"expiresAt" bson:"expiresAt"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt" validate:"required"`
	UpdatedAt        time.Time `json:"updatedAt" bson:"updatedAt"`
}
