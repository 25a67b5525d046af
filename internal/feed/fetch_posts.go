// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package feed

import (
	"context"
	"time"

	"github.com/tomtom215/sacavia/internal/models"
	"github.com/tomtom215/sacavia/internal/store"
)

const miniBlogExcerptLen = 280

type postFetcher struct{ *source }

func (f *postFetcher) Kind() Kind { return KindPost }

func (f *postFetcher) Fetch(ctx context.Context, req *Request, limit int) ([]Item, error) {
	where := []store.Condition{
		store.Eq("status", models.StatusPublished),
		store.Ne("type", models.PostTypeBlog),
	}

	switch req.FeedType {
	case FeedFollowing:
		if len(req.SocialCircle) == 0 {
			return []Item{}, nil
		}
		where = append(where, store.In("author", req.SocialCircle))
	case FeedTrending:
		where = append(where, store.Gt("createdAt", f.now().Add(-f.cfg.Pool.TrendingWindow)))
	}

	posts, err := load[models.Post](ctx, f.source, models.CollectionPosts, store.Query{
		Where: where,
		Sort:  "-createdAt",
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	authorIDs, locationIDs := postRefs(posts)
	authors := f.resolveAuthors(ctx, authorIDs)
	places := f.resolveLocations(ctx, locationIDs)

	now := f.now()
	items := make([]Item, 0, len(posts))
	for i := range posts {
		items = append(items, postItem(&posts[i], authors, places, req.Interests, now))
	}
	return items, nil
}

// postItem maps a post document to a feed item with its priority set.
func postItem(p *models.Post, authors map[string]AuthorSummary, places map[string]PlaceRef, interests []string, now time.Time) Item {
	payload := &PostPayload{
		Author:       author(authors, p.Author),
		Title:        p.Title,
		Content:      ExtractText(p.Content),
		PostType:     p.Type,
		Categories:   nonNil(p.Categories),
		Tags:         nonNil(p.Tags),
		Image:        p.Image,
		Video:        p.Video,
		Rating:       p.Rating,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		ShareCount:   p.ShareCount,
	}
	if payload.PostType == "" {
		payload.PostType = models.PostTypePost
	}
	if ref, ok := places[p.Location]; ok {
		payload.Location = &ref
	}

	return Item{
		ID:        itemID(KindPost, p.ID),
		SourceID:  p.ID,
		Type:      KindPost,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Priority:  PostPriority(p.LikeCount, p.CommentCount, p.Categories, interests, p.CreatedAt, now),
		Post:      payload,
	}
}

// postRefs collects the author and location ids referenced by posts.
func postRefs(posts []models.Post) (authorIDs, locationIDs []string) {
	authorIDs = make([]string, 0, len(posts))
	locationIDs = make([]string, 0, len(posts))
	for i := range posts {
		authorIDs = append(authorIDs, posts[i].Author)
		locationIDs = append(locationIDs, posts[i].Location)
	}
	return authorIDs, locationIDs
}

type miniBlogFetcher struct{ *source }

func (f *miniBlogFetcher) Kind() Kind { return KindMiniBlogCard }

func (f *miniBlogFetcher) Fetch(ctx context.Context, req *Request, limit int) ([]Item, error) {
	where := []store.Condition{
		store.Eq("status", models.StatusPublished),
		store.Eq("type", models.PostTypeBlog),
	}
	if req.FeedType == FeedFollowing {
		if len(req.SocialCircle) == 0 {
			return []Item{}, nil
		}
		where = append(where, store.In("author", req.SocialCircle))
	}

	posts, err := load[models.Post](ctx, f.source, models.CollectionPosts, store.Query{
		Where: where,
		Sort:  "-createdAt",
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	authorIDs := make([]string, 0, len(posts))
	for i := range posts {
		authorIDs = append(authorIDs, posts[i].Author)
	}
	authors := f.resolveAuthors(ctx, authorIDs)

	items := make([]Item, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		text := ExtractText(p.Content)
		title := p.Title
		if title == "" {
			title = excerpt(text, 60)
		}

		items = append(items, Item{
			ID:        itemID(KindMiniBlogCard, p.ID),
			SourceID:  p.ID,
			Type:      KindMiniBlogCard,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
			Priority:  PriorityMiniBlog,
			MiniBlog: &MiniBlogPayload{
				Title:          title,
				Excerpt:        excerpt(text, miniBlogExcerptLen),
				Author:         author(authors, p.Author),
				Image:          p.Image,
				ReadingMinutes: readingMinutes(text),
			},
		})
	}
	return items, nil
}
