// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package api

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/tomtom215/sacavia/internal/feed"
	"github.com/tomtom215/sacavia/internal/geo"
	"github.com/tomtom215/sacavia/internal/logging"
	"github.com/tomtom215/sacavia/internal/models"
)

// feedQuery is the validated form of GET /api/v1/feed.
type feedQuery struct {
	Page         int      `validate:"gte=0,lte=1000"`
	Limit        int      `validate:"gte=0,lte=100"`
	Sort         string   `validate:"omitempty,oneof=recent popular recommended"`
	FeedType     string   `validate:"omitempty,oneof=discover following trending"`
	TimeOfDay    string   `validate:"omitempty,oneof=morning afternoon evening night"`
	Weather      string   `validate:"omitempty,max=32"`
	Lat          *float64 `validate:"omitempty,latitude"`
	Lon          *float64 `validate:"required_with=Lat,omitempty,longitude"`
	Interests    []string `validate:"max=20,dive,interest"`
	SocialCircle []string `validate:"max=500,dive,docid"`
	Include      []string `validate:"max=7,dive,oneof=post people_suggestion place_recommendation guide_spotlight weekly_feature mini_blog_card challenge_card"`
	Exclude      []string `validate:"max=7,dive,oneof=post people_suggestion place_recommendation guide_spotlight weekly_feature mini_blog_card challenge_card"`
}

func parseFeedQuery(q url.Values) (*feedQuery, error) {
	fq := &feedQuery{
		Sort:         q.Get("sort"),
		FeedType:     q.Get("feed_type"),
		TimeOfDay:    q.Get("time_of_day"),
		Weather:      q.Get("weather"),
		Interests:    listParam(q, "interests"),
		SocialCircle: listParam(q, "social_circle"),
		Include:      listParam(q, "include"),
		Exclude:      listParam(q, "exclude"),
	}
	var err error
	if fq.Page, err = intParam(q, "page", 0); err != nil {
		return nil, err
	}
	if fq.Limit, err = intParam(q, "limit", 0); err != nil {
		return nil, err
	}
	if fq.Lat, err = floatParam(q, "lat"); err != nil {
		return nil, err
	}
	if fq.Lon, err = floatParam(q, "lon"); err != nil {
		return nil, err
	}
	return fq, nil
}

func (fq *feedQuery) location() *geo.Point {
	if fq.Lat == nil || fq.Lon == nil {
		return nil
	}
	return &geo.Point{Latitude: *fq.Lat, Longitude: *fq.Lon}
}

func toKinds(names []string) []feed.Kind {
	if len(names) == 0 {
		return nil
	}
	out := make([]feed.Kind, 0, len(names))
	for _, n := range names {
		if k, err := feed.ParseKind(n); err == nil {
			out = append(out, k)
		}
	}
	return out
}

// Feed serves one page of the mixed feed. The user id comes from the bearer
// token when one was presented.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	fq, err := parseFeedQuery(r.URL.Query())
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	if apiErr := validateRequest(fq); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	start := time.Now()
	res := h.feed.Run(r.Context(), &feed.Request{
		UserID:       logging.UserIDFromContext(r.Context()),
		Page:         fq.Page,
		Limit:        fq.Limit,
		FeedType:     feed.FeedType(fq.FeedType),
		SortBy:       feed.SortMode(fq.Sort),
		Location:     fq.location(),
		Weather:      fq.Weather,
		TimeOfDay:    feed.TimeOfDay(fq.TimeOfDay),
		Interests:    fq.Interests,
		SocialCircle: fq.SocialCircle,
		IncludeTypes: toKinds(fq.Include),
		ExcludeTypes: toKinds(fq.Exclude),
		RequestID:    logging.RequestIDFromContext(r.Context()),
	})

	items := res.Items
	if items == nil {
		items = []feed.Item{}
	}
	respondSuccess(w, r, models.FeedPage{
		Items:   items,
		Page:    res.Page,
		Limit:   res.Limit,
		Count:   len(items),
		SortBy:  string(res.SortBy),
		HasMore: res.HasMore,
	}, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Cached:      res.Cached,
	})
}

// personalizedQuery is the validated form of GET /api/v1/feed/personalized.
type personalizedQuery struct {
	UserID   string   `validate:"required,docid"`
	Offset   int      `validate:"gte=0,lte=10000"`
	PageSize int      `validate:"gte=0,lte=100"`
	Lat      *float64 `validate:"omitempty,latitude"`
	Lon      *float64 `validate:"required_with=Lat,omitempty,longitude"`
}

// Personalized serves the followed-users feed of the authenticated user.
func (h *Handler) Personalized(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pq := &personalizedQuery{UserID: logging.UserIDFromContext(r.Context())}

	var err error
	if pq.Offset, err = intParam(q, "offset", 0); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if pq.PageSize, err = intParam(q, "page_size", 0); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if pq.Lat, err = floatParam(q, "lat"); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if pq.Lon, err = floatParam(q, "lon"); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if apiErr := validateRequest(pq); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	var loc *geo.Point
	if pq.Lat != nil && pq.Lon != nil {
		loc = &geo.Point{Latitude: *pq.Lat, Longitude: *pq.Lon}
	}

	start := time.Now()
	posts := h.feed.Personalized(r.Context(), &feed.PersonalizedRequest{
		UserID:   pq.UserID,
		Offset:   pq.Offset,
		PageSize: pq.PageSize,
		Location: loc,
	})
	if posts == nil {
		posts = []feed.ScoredPost{}
	}

	respondSuccess(w, r, models.PersonalizedPage{
		Items:    posts,
		Offset:   pq.Offset,
		PageSize: h.feed.PersonalizedPageSize(pq.PageSize),
		Count:    len(posts),
	}, models.Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var pe *paramError
	if errors.As(err, &pe) {
		respondError(w, r, http.StatusBadRequest, pe.apiError())
		return
	}
	respondError(w, r, http.StatusBadRequest, &models.APIError{Code: codeValidation, Message: err.Error()})
}
