// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package feed

import (
	"context"
	"sort"

	"github.com/tomtom215/sacavia/internal/geo"
	"github.com/tomtom215/sacavia/internal/models"
	"github.com/tomtom215/sacavia/internal/store"
)

type peopleFetcher struct{ *source }

func (f *peopleFetcher) Kind() Kind { return KindPeopleSuggestion }

// Fetch suggests users the requester does not already follow.
func (f *peopleFetcher) Fetch(ctx context.Context, req *Request, limit int) ([]Item, error) {
	exclude := uniqueNonEmpty(append([]string{req.UserID}, req.SocialCircle...))

	var where []store.Condition
	if len(exclude) > 0 {
		where = append(where, store.NotIn("id", exclude))
	}

	users, err := load[models.User](ctx, f.source, models.CollectionUsers, store.Query{
		Where: where,
		Sort:  "-createdAt",
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(users))
	for i := range users {
		u := &users[i]
		person := &PersonPayload{
			User:            summarize(u),
			Bio:             u.Bio,
			Interests:       nonNil(u.Interests),
			FollowerCount:   len(u.Followers),
			MutualInterests: countMatching(u.Interests, req.Interests),
			Location:        u.Location,
		}
		if km, ok := geo.DistanceKm(req.Location, u.Location); ok {
			person.DistanceKm = &km
		}

		items = append(items, Item{
			ID:        itemID(KindPeopleSuggestion, u.ID),
			SourceID:  u.ID,
			Type:      KindPeopleSuggestion,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
			Priority:  PriorityPeople,
			Person:    person,
		})
	}
	return items, nil
}

type placeFetcher struct{ *source }

func (f *placeFetcher) Kind() Kind { return KindPlaceRecommendation }

// Fetch lists published places. With a request location, places inside the
// configured radius come first, nearest first, followed by the rest in
// recency order.
func (f *placeFetcher) Fetch(ctx context.Context, req *Request, limit int) ([]Item, error) {
	queryLimit := limit
	if req.Location != nil {
		queryLimit = limit * f.cfg.Places.Overfetch
	}

	locs, err := load[models.Location](ctx, f.source, models.CollectionLocations, store.Query{
		Where: []store.Condition{store.Eq("status", models.StatusPublished)},
		Sort:  "-createdAt",
		Limit: queryLimit,
	})
	if err != nil {
		return nil, err
	}

	order := make([]int, 0, len(locs))
	distances := make(map[int]float64)

	if req.Location != nil {
		grid := geo.NewGrid(f.cfg.Places.CellSizeKm)
		index := make(map[string]int, len(locs))
		for i := range locs {
			if locs[i].Coordinates == nil {
				continue
			}
			index[locs[i].ID] = i
			grid.Insert(locs[i].ID, *locs[i].Coordinates, nil)
		}

		near := make(map[int]bool)
		for _, e := range grid.Nearby(*req.Location, f.cfg.Places.RadiusKm) {
			i := index[e.ID]
			near[i] = true
			distances[i] = e.DistanceKm
			order = append(order, i)
		}
		for i := range locs {
			if !near[i] {
				order = append(order, i)
			}
		}
	} else {
		for i := range locs {
			order = append(order, i)
		}
	}

	if len(order) > limit {
		order = order[:limit]
	}

	items := make([]Item, 0, len(order))
	for _, i := range order {
		l := &locs[i]
		place := &PlacePayload{
			Name:          l.Name,
			Slug:          l.Slug,
			Description:   l.Description,
			Categories:    nonNil(l.Categories),
			City:          l.City,
			Image:         l.FeaturedImage,
			AverageRating: l.AverageRating,
			ReviewCount:   l.ReviewCount,
			Coordinates:   l.Coordinates,
		}
		if km, ok := distances[i]; ok {
			place.DistanceKm = &km
		} else if km, ok := geo.DistanceKm(req.Location, l.Coordinates); ok {
			place.DistanceKm = &km
		}

		items = append(items, Item{
			ID:        itemID(KindPlaceRecommendation, l.ID),
			SourceID:  l.ID,
			Type:      KindPlaceRecommendation,
			CreatedAt: l.CreatedAt,
			UpdatedAt: l.UpdatedAt,
			Priority:  PriorityPlace,
			Place:     place,
		})
	}
	return items, nil
}

type weeklyFeatureFetcher struct{ *source }

func (f *weeklyFeatureFetcher) Kind() Kind { return KindWeeklyFeature }

// Fetch lists active weekly features, those on this week's theme or week
// number first.
func (f *weeklyFeatureFetcher) Fetch(ctx context.Context, _ *Request, limit int) ([]Item, error) {
	features, err := load[models.WeeklyFeature](ctx, f.source, models.CollectionWeeklyFeatures, store.Query{
		Where: []store.Condition{store.Eq("isActive", true)},
		Sort:  "-weekNumber",
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	now := f.now()
	theme := ThemeFor(now)
	_, week := now.ISOWeek()

	items := make([]Item, 0, len(features))
	for i := range features {
		w := &features[i]
		items = append(items, Item{
			ID:        itemID(KindWeeklyFeature, w.ID),
			SourceID:  w.ID,
			Type:      KindWeeklyFeature,
			CreatedAt: w.CreatedAt,
			UpdatedAt: w.UpdatedAt,
			Priority:  PriorityWeeklyFeature,
			WeeklyFeature: &WeeklyFeaturePayload{
				Title:             w.Title,
				Description:       w.Description,
				Theme:             w.Theme,
				WeekNumber:        w.WeekNumber,
				CurrentTheme:      w.Theme == theme || w.WeekNumber == week,
				FeaturedLocations: nonNil(w.FeaturedLocations),
			},
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].WeeklyFeature.CurrentTheme && !items[j].WeeklyFeature.CurrentTheme
	})
	return items, nil
}

type guideFetcher struct{ *source }

func (f *guideFetcher) Kind() Kind { return KindGuideSpotlight }

func (f *guideFetcher) Fetch(ctx context.Context, _ *Request, limit int) ([]Item, error) {
	guides, err := load[models.Guide](ctx, f.source, models.CollectionGuides, store.Query{
		Where: []store.Condition{store.Eq("status", models.StatusPublished)},
		Sort:  "-createdAt",
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	authorIDs := make([]string, 0, len(guides))
	locationIDs := make([]string, 0, len(guides))
	for i := range guides {
		authorIDs = append(authorIDs, guides[i].Author)
		locationIDs = append(locationIDs, guides[i].PrimaryLocation)
	}
	authors := f.resolveAuthors(ctx, authorIDs)
	places := f.resolveLocations(ctx, locationIDs)

	items := make([]Item, 0, len(guides))
	for i := range guides {
		g := &guides[i]
		items = append(items, Item{
			ID:        itemID(KindGuideSpotlight, g.ID),
			SourceID:  g.ID,
			Type:      KindGuideSpotlight,
			CreatedAt: g.CreatedAt,
			UpdatedAt: g.UpdatedAt,
			Priority:  PriorityGuide,
			Guide: &GuidePayload{
				Title:        g.Title,
				Summary:      g.Summary,
				Author:       author(authors, g.Author),
				LocationName: places[g.PrimaryLocation].Name,
				Price:        g.Price,
				Rating:       g.Rating,
			},
		})
	}
	return items, nil
}

type challengeFetcher struct{ *source }

func (f *challengeFetcher) Kind() Kind { return KindChallengeCard }

func (f *challengeFetcher) Fetch(ctx context.Context, _ *Request, limit int) ([]Item, error) {
	challenges, err := load[models.Challenge](ctx, f.source, models.CollectionChallenges, store.Query{
		Where: []store.Condition{
			store.Eq("status", models.StatusActive),
			store.Gt("expiresAt", f.now()),
		},
		Sort:  "-createdAt",
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(challenges))
	for i := range challenges {
		c := &challenges[i]
		items = append(items, Item{
			ID:        itemID(KindChallengeCard, c.ID),
			SourceID:  c.ID,
			Type:      KindChallengeCard,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
			Priority:  PriorityChallenge,
			Challenge: &ChallengePayload{
				Title:            c.Title,
				Description:      c.Description,
				RewardPoints:     c.RewardPoints,
				ParticipantCount: c.ParticipantCount,
				ExpiresAt:        c.ExpiresAt,
			},
		})
	}
	return items, nil
}
