// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

// Package seed generates a fake but internally consistent social graph for
// local development and load testing.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog"

	"github.com/tomtom215/sacavia/internal/geo"
	"github.com/tomtom215/sacavia/internal/models"
	"github.com/tomtom215/sacavia/internal/store"
	"github.com/tomtom215/sacavia/internal/validation"
)

// Counts sizes a generated dataset.
type Counts struct {
	Users      int `validate:"min=1,max=100000"`
	Posts      int `validate:"min=0,max=1000000"`
	Locations  int `validate:"min=0,max=100000"`
	Guides     int `validate:"min=0,max=10000"`
	Challenges int `validate:"min=0,max=10000"`

	// FollowsPerUser caps how many users each user follows.
	FollowsPerUser int `validate:"min=0,max=1000"`
}

// DefaultCounts is a dataset small enough to seed in a second.
func DefaultCounts() Counts {
	return Counts{Users: 50, Posts: 500, Locations: 80, Guides: 10, Challenges: 5, FollowsPerUser: 12}
}

// Dataset is one generated graph.
type Dataset struct {
	Users          []models.User
	Posts          []models.Post
	Locations      []models.Location
	WeeklyFeatures []models.WeeklyFeature
	Guides         []models.Guide
	Challenges     []models.Challenge
}

var (
	interests = []string{"food", "coffee", "hiking", "art", "music", "nightlife", "history", "beaches", "markets", "architecture"}
	themes    = []string{"hidden-gems", "food", "outdoors", "culture", "nightlife", "local-favorites"}
	postTypes = []string{models.PostTypePost, models.PostTypePost, models.PostTypeReview, models.PostTypeRecommendation, models.PostTypeBlog}
)

// Generator produces datasets. The same seed and clock give the same data.
type Generator struct {
	faker  *gofakeit.Faker
	now    time.Time
	center geo.Point
}

// NewGenerator returns a generator clustered around center.
func NewGenerator(seed int64, now time.Time, center geo.Point) *Generator {
	return &Generator{faker: gofakeit.New(seed), now: now, center: center}
}

// Generate builds a dataset of the given size.
func (g *Generator) Generate(c Counts) (*Dataset, error) {
	if verr := validation.ValidateStruct(&c); verr != nil {
		return nil, fmt.Errorf("seed counts: %w", verr)
	}

	ds := &Dataset{}
	for i := 0; i < c.Users; i++ {
		ds.Users = append(ds.Users, g.user(i))
	}
	for i := range ds.Users {
		ds.Users[i].Following = g.follows(i, len(ds.Users), c.FollowsPerUser)
	}
	for i := 0; i < c.Locations; i++ {
		ds.Locations = append(ds.Locations, g.location(i))
	}
	for i := 0; i < c.Posts; i++ {
		ds.Posts = append(ds.Posts, g.post(i, ds))
	}
	ds.WeeklyFeatures = g.weeklyFeatures(ds.Locations)
	for i := 0; i < c.Guides; i++ {
		ds.Guides = append(ds.Guides, g.guide(i, ds))
	}
	for i := 0; i < c.Challenges; i++ {
		ds.Challenges = append(ds.Challenges, g.challenge(i))
	}
	return ds, nil
}

func (g *Generator) pastTime(maxAge time.Duration) time.Time {
	return g.faker.DateRange(g.now.Add(-maxAge), g.now)
}

func (g *Generator) point(spreadDeg float64) *geo.Point {
	return &geo.Point{
		Latitude:  g.center.Latitude + g.faker.Float64Range(-spreadDeg, spreadDeg),
		Longitude: g.center.Longitude + g.faker.Float64Range(-spreadDeg, spreadDeg),
	}
}

func (g *Generator) pick(n int, from []string) []string {
	out := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for len(out) < n && len(seen) < len(from) {
		s := g.faker.RandomString(from)
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func (g *Generator) user(i int) models.User {
	created := g.pastTime(365 * 24 * time.Hour)
	return models.User{
		ID:           fmt.Sprintf("user-%04d", i),
		Name:         g.faker.Name(),
		Username:     g.faker.Username(),
		Email:        g.faker.Email(),
		ProfileImage: g.faker.ImageURL(256, 256),
		Bio:          g.faker.Sentence(12),
		Interests:    g.pick(g.faker.Number(1, 4), interests),
		Location:     g.point(0.5),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func (g *Generator) follows(self, users, limit int) []string {
	if users < 2 || limit == 0 {
		return []string{}
	}
	n := g.faker.Number(0, min(limit, users-1))
	out := make([]string, 0, n)
	seen := map[int]bool{self: true}
	for len(out) < n {
		j := g.faker.Number(0, users-1)
		if seen[j] {
			continue
		}
		seen[j] = true
		out = append(out, fmt.Sprintf("user-%04d", j))
	}
	return out
}

func (g *Generator) location(i int) models.Location {
	created := g.pastTime(2 * 365 * 24 * time.Hour)
	status := models.StatusPublished
	if g.faker.Number(1, 10) == 1 {
		status = models.StatusDraft
	}
	name := g.faker.Company()
	return models.Location{
		ID:            fmt.Sprintf("loc-%04d", i),
		Name:          name,
		Slug:          fmt.Sprintf("loc-%04d", i),
		Description:   g.faker.Sentence(20),
		Categories:    g.pick(g.faker.Number(1, 3), interests),
		Address:       g.faker.Street(),
		City:          g.faker.City(),
		Coordinates:   g.point(0.3),
		FeaturedImage: g.faker.ImageURL(800, 600),
		AverageRating: float64(g.faker.Number(20, 50)) / 10,
		ReviewCount:   g.faker.Number(0, 400),
		Status:        status,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func (g *Generator) post(i int, ds *Dataset) models.Post {
	created := g.pastTime(30 * 24 * time.Hour)
	typ := g.faker.RandomString(postTypes)
	p := models.Post{
		ID:           fmt.Sprintf("post-%05d", i),
		Author:       ds.Users[g.faker.Number(0, len(ds.Users)-1)].ID,
		Content:      g.faker.Paragraph(1, 4, 14, " "),
		Type:         typ,
		Status:       models.StatusPublished,
		Categories:   g.pick(g.faker.Number(0, 2), interests),
		Tags:         g.pick(g.faker.Number(0, 3), interests),
		LikeCount:    g.faker.Number(0, 300),
		CommentCount: g.faker.Number(0, 60),
		ShareCount:   g.faker.Number(0, 25),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	if g.faker.Number(1, 3) > 1 {
		p.Image = g.faker.ImageURL(1080, 1080)
	}
	if len(ds.Locations) > 0 && g.faker.Bool() {
		p.Location = ds.Locations[g.faker.Number(0, len(ds.Locations)-1)].ID
	}
	switch typ {
	case models.PostTypeReview:
		p.Rating = float64(g.faker.Number(1, 5))
	case models.PostTypeBlog:
		p.Title = g.faker.Sentence(6)
		p.Content = g.faker.Paragraph(4, 6, 18, "\n\n")
	}
	return p
}

// weeklyFeatures creates one active feature for this ISO week and a few
// past ones.
func (g *Generator) weeklyFeatures(locs []models.Location) []models.WeeklyFeature {
	year, week := g.now.ISOWeek()
	out := make([]models.WeeklyFeature, 0, 4)
	for back := 0; back < 4; back++ {
		wk := week - back
		if wk < 1 {
			wk += 52
		}
		featured := make([]string, 0, 3)
		for j := 0; j < 3 && j < len(locs); j++ {
			featured = append(featured, locs[g.faker.Number(0, len(locs)-1)].ID)
		}
		created := g.now.Add(-time.Duration(back) * 7 * 24 * time.Hour)
		out = append(out, models.WeeklyFeature{
			ID:                fmt.Sprintf("week-%d-%02d", year, wk),
			Title:             g.faker.Sentence(4),
			Description:       g.faker.Sentence(16),
			Theme:             g.faker.RandomString(themes),
			WeekNumber:        wk,
			Year:              year,
			IsActive:          back == 0,
			FeaturedLocations: featured,
			CreatedAt:         created,
			UpdatedAt:         created,
		})
	}
	return out
}

func (g *Generator) guide(i int, ds *Dataset) models.Guide {
	created := g.pastTime(180 * 24 * time.Hour)
	guide := models.Guide{
		ID:        fmt.Sprintf("guide-%04d", i),
		Title:     g.faker.Sentence(5),
		Summary:   g.faker.Sentence(18),
		Author:    ds.Users[g.faker.Number(0, len(ds.Users)-1)].ID,
		Price:     float64(g.faker.Number(0, 30)),
		Rating:    float64(g.faker.Number(30, 50)) / 10,
		Status:    models.StatusPublished,
		CreatedAt: created,
		UpdatedAt: created,
	}
	if len(ds.Locations) > 0 {
		guide.PrimaryLocation = ds.Locations[g.faker.Number(0, len(ds.Locations)-1)].ID
	}
	return guide
}

func (g *Generator) challenge(i int) models.Challenge {
	created := g.pastTime(14 * 24 * time.Hour)
	return models.Challenge{
		ID:               fmt.Sprintf("challenge-%03d", i),
		Title:            g.faker.Sentence(4),
		Description:      g.faker.Sentence(14),
		RewardPoints:     g.faker.Number(10, 500),
		ParticipantCount: g.faker.Number(0, 2000),
		Status:           models.StatusActive,
		ExpiresAt:        g.now.Add(time.Duration(g.faker.Number(1, 21)) * 24 * time.Hour),
		CreatedAt:        created,
		UpdatedAt:        created,
	}
}

// Write stores every document of ds and returns how many were written.
//
//nolint:gocritic // hugeParam: zerolog.Logger is passed by value by convention
func Write(ctx context.Context, st store.Store, ds *Dataset, logger zerolog.Logger) (int, error) {
	written := 0
	put := func(collection, id string, doc any) error {
		if err := st.Put(ctx, collection, id, doc); err != nil {
			return fmt.Errorf("put %s/%s: %w", collection, id, err)
		}
		written++
		return nil
	}

	for i := range ds.Users {
		if err := put(models.CollectionUsers, ds.Users[i].ID, &ds.Users[i]); err != nil {
			return written, err
		}
	}
	for i := range ds.Locations {
		if err := put(models.CollectionLocations, ds.Locations[i].ID, &ds.Locations[i]); err != nil {
			return written, err
		}
	}
	for i := range ds.Posts {
		if err := put(models.CollectionPosts, ds.Posts[i].ID, &ds.Posts[i]); err != nil {
			return written, err
		}
	}
	for i := range ds.WeeklyFeatures {
		if err := put(models.CollectionWeeklyFeatures, ds.WeeklyFeatures[i].ID, &ds.WeeklyFeatures[i]); err != nil {
			return written, err
		}
	}
	for i := range ds.Guides {
		if err := put(models.CollectionGuides, ds.Guides[i].ID, &ds.Guides[i]); err != nil {
			return written, err
		}
	}
	for i := range ds.Challenges {
		if err := put(models.CollectionChallenges, ds.Challenges[i].ID, &ds.Challenges[i]); err != nil {
			return written, err
		}
	}

	logger.Info().
		Int("users", len(ds.Users)).
		Int("posts", len(ds.Posts)).
		Int("locations", len(ds.Locations)).
		Int("documents", written).
		Msg("Seed data written")
	return written, nil
}
