// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package feed

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/tomtom215/sacavia/internal/metrics"
	"github.com/tomtom215/sacavia/internal/models"
	"github.com/tomtom215/sacavia/internal/store"
)

const personalizedFeed = "personalized"

// Personalized ranks recent published posts from the users req.UserID
// follows. A missing user, an empty follow list, no posts or a store error
// all return an empty, non-nil slice.
func (e *Engine) Personalized(ctx context.Context, req *PersonalizedRequest) (out []ScoredPost) {
	start := time.Now()
	if req == nil || req.UserID == "" {
		return []ScoredPost{}
	}
	logger := e.logger.With().Str("user_id", req.UserID).Logger()

	defer func() {
		if p := recover(); p != nil {
			logger.Error().Interface("panic", p).Msg("Personalized feed panicked")
			metrics.RecordFeedFailure(personalizedFeed)
			out = []ScoredPost{}
		}
	}()

	var user models.User
	if err := e.src.store.FindByID(ctx, models.CollectionUsers, req.UserID, &user); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Debug().Msg("Personalized feed requested for unknown user")
		} else {
			logger.Warn().Err(err).Msg("Failed to load user for personalized feed")
			metrics.RecordFeedFailure(personalizedFeed)
		}
		return []ScoredPost{}
	}

	following := uniqueNonEmpty(user.Following)
	if len(following) == 0 {
		return []ScoredPost{}
	}

	posts, err := load[models.Post](ctx, e.src, models.CollectionPosts, store.Query{
		Where: []store.Condition{
			store.Eq("status", models.StatusPublished),
			store.In("author", following),
		},
		Sort:  "-createdAt",
		Limit: e.cfg.Personalized.MaxPosts,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load followed posts")
		metrics.RecordFeedFailure(personalizedFeed)
		return []ScoredPost{}
	}

	authorIDs, locationIDs := postRefs(posts)
	authors := e.src.resolveAuthors(ctx, authorIDs)
	places := e.src.resolveLocations(ctx, locationIDs)

	userLoc := req.Location
	if userLoc == nil || !userLoc.Valid() {
		userLoc = user.Location
	}

	now := e.now()
	scored := make([]ScoredPost, 0, len(posts))
	for i := range posts {
		item := postItem(&posts[i], authors, places, user.Interests, now)
		score, breakdown := PersonalizedScore(
			posts[i].LikeCount, posts[i].CommentCount,
			posts[i].CreatedAt, now,
			userLoc, item.Coordinates(),
		)
		item.Score = score
		scored = append(scored, ScoredPost{Item: item, Score: score, Breakdown: breakdown})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return newerFirst(&scored[i].Item, &scored[j].Item)
	})

	page := e.slicePersonalized(scored, req.Offset, req.PageSize)
	metrics.RecordFeedGeneration(personalizedFeed, "score", time.Since(start), len(page))
	return page
}

// PersonalizedPageSize is the page size Personalized uses for a requested
// size: the default when unset, capped at the configured maximum.
func (e *Engine) PersonalizedPageSize(requested int) int {
	cfg := e.cfg.Personalized
	switch {
	case requested < 1:
		return cfg.DefaultPageSize
	case requested > cfg.MaxPageSize:
		return cfg.MaxPageSize
	}
	return requested
}

// slicePersonalized returns scored[offset : offset+pageSize] with the page
// size clamped by PersonalizedPageSize.
func (e *Engine) slicePersonalized(scored []ScoredPost, offset, pageSize int) []ScoredPost {
	pageSize = e.PersonalizedPageSize(pageSize)
	if offset < 0 {
		offset = 0
	}
	if offset >= len(scored) {
		return []ScoredPost{}
	}
	end := offset + pageSize
	if end > len(scored) {
		end = len(scored)
	}
	return scored[offset:end]
}
