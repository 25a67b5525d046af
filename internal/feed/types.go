// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/sacavia/internal/geo"
)

// Kind tags the variant carried by an Item.
type Kind string

// Feed item kinds.
const (
	KindPost                Kind = "post"
	KindPeopleSuggestion    Kind = "people_suggestion"
	KindPlaceRecommendation Kind = "place_recommendation"
	KindGuideSpotlight      Kind = "guide_spotlight"
	KindWeeklyFeature       Kind = "weekly_feature"
	KindMiniBlogCard        Kind = "mini_blog_card"
	KindChallengeCard       Kind = "challenge_card"
)

// AllKinds lists every kind in fetch order.
var AllKinds = []Kind{
	KindPost,
	KindPeopleSuggestion,
	KindPlaceRecommendation,
	KindGuideSpotlight,
	KindWeeklyFeature,
	KindMiniBlogCard,
	KindChallengeCard,
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown feed item kind %q", s)
}

// SortMode selects the mixer ordering.
type SortMode string

// Sort modes.
const (
	SortRecent      SortMode = "recent"
	SortPopular     SortMode = "popular"
	SortRecommended SortMode = "recommended"
)

// FeedType scopes which content is eligible.
type FeedType string

// Feed types.
const (
	// FeedDiscover mixes content from everyone.
	FeedDiscover FeedType = "discover"

	// FeedFollowing limits posts and mini blogs to the social circle.
	FeedFollowing FeedType = "following"

	// FeedTrending limits posts to the trending window.
	FeedTrending FeedType = "trending"
)

// TimeOfDay buckets the local hour for mix adjustments.
type TimeOfDay string

// Time-of-day buckets.
const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// Item is one unit of ranked content. Exactly one payload pointer is set and
// it matches Type.
type Item struct {
	// ID is unique within a generated page: the kind plus the source id.
	ID string `json:"id"`

	// SourceID is the id of the backing document.
	SourceID string `json:"sourceId"`

	Type      Kind      `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Priority is the fetch-time heuristic, always within [0, 100].
	Priority float64 `json:"priority"`

	// Score is the recommendation score, set by the recommended sort.
	Score float64 `json:"score,omitempty"`

	Post          *PostPayload          `json:"post,omitempty"`
	Person        *PersonPayload        `json:"person,omitempty"`
	Place         *PlacePayload         `json:"place,omitempty"`
	Guide         *GuidePayload         `json:"guide,omitempty"`
	WeeklyFeature *WeeklyFeaturePayload `json:"weeklyFeature,omitempty"`
	MiniBlog      *MiniBlogPayload      `json:"miniBlog,omitempty"`
	Challenge     *ChallengePayload     `json:"challenge,omitempty"`
}

// itemID builds the page-unique identifier for a document of kind k.
func itemID(k Kind, sourceID string) string {
	return string(k) + ":" + sourceID
}

// Coordinates returns the item's position, if it has one.
func (it *Item) Coordinates() *geo.Point {
	switch {
	case it.Post != nil && it.Post.Location != nil:
		return it.Post.Location.Coordinates
	case it.Place != nil:
		return it.Place.Coordinates
	case it.Person != nil:
		return it.Person.Location
	}
	return nil
}

// Engagement is the like+comment+share total for posts and zero otherwise.
func (it *Item) Engagement() int {
	if it.Post == nil {
		return 0
	}
	return it.Post.LikeCount + it.Post.CommentCount + it.Post.ShareCount
}

// AuthorSummary is the denormalized author shown on content cards.
type AuthorSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// PlaceRef is a location referenced from another document.
type PlaceRef struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Coordinates *geo.Point `json:"coordinates,omitempty"`
}

// PostPayload is carried by KindPost items.
type PostPayload struct {
	Author       AuthorSummary `json:"author"`
	Title        string        `json:"title,omitempty"`
	Content      string        `json:"content"`
	PostType     string        `json:"postType"`
	Categories   []string      `json:"categories"`
	Tags         []string      `json:"tags"`
	Image        string        `json:"image,omitempty"`
	Video        string        `json:"video,omitempty"`
	Location     *PlaceRef     `json:"location,omitempty"`
	Rating       float64       `json:"rating,omitempty"`
	LikeCount    int           `json:"likeCount"`
	CommentCount int           `json:"commentCount"`
	ShareCount   int           `json:"shareCount"`
}

// PersonPayload is carried by KindPeopleSuggestion items.
type PersonPayload struct {
	User            AuthorSummary `json:"user"`
	Bio             string        `json:"bio,omitempty"`
	Interests       []string      `json:"interests"`
	FollowerCount   int           `json:"followerCount"`
	MutualInterests int           `json:"mutualInterests"`
	Location        *geo.Point    `json:"location,omitempty"`
	DistanceKm      *float64      `json:"distanceKm,omitempty"`
}

// PlacePayload is carried by KindPlaceRecommendation items.
type PlacePayload struct {
	Name          string     `json:"name"`
	Slug          string     `json:"slug,omitempty"`
	Description   string     `json:"description,omitempty"`
	Categories    []string   `json:"categories"`
	City          string     `json:"city,omitempty"`
	Image         string     `json:"image,omitempty"`
	AverageRating float64    `json:"averageRating"`
	ReviewCount   int        `json:"reviewCount"`
	Coordinates   *geo.Point `json:"coordinates,omitempty"`
	DistanceKm    *float64   `json:"distanceKm,omitempty"`
}

// GuidePayload is carried by KindGuideSpotlight items.
type GuidePayload struct {
	Title        string        `json:"title"`
	Summary      string        `json:"summary,omitempty"`
	Author       AuthorSummary `json:"author"`
	LocationName string        `json:"locationName,omitempty"`
	Price        float64       `json:"price"`
	Rating       float64       `json:"rating"`
}

// WeeklyFeaturePayload is carried by KindWeeklyFeature items.
type WeeklyFeaturePayload struct {
	Title             string   `json:"title"`
	Description       string   `json:"description,omitempty"`
	Theme             string   `json:"theme"`
	WeekNumber        int      `json:"weekNumber"`
	CurrentTheme      bool     `json:"currentTheme"`
	FeaturedLocations []string `json:"featuredLocations"`
}

// MiniBlogPayload is carried by KindMiniBlogCard items.
type MiniBlogPayload struct {
	Title          string        `json:"title"`
	Excerpt        string        `json:"excerpt"`
	Author         AuthorSummary `json:"author"`
	Image          string        `json:"image,omitempty"`
	ReadingMinutes int           `json:"readingMinutes"`
}

// ChallengePayload is carried by KindChallengeCard items.
type ChallengePayload struct {
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	RewardPoints     int       `json:"rewardPoints"`
	ParticipantCount int       `json:"participantCount"`
	ExpiresAt        time.Time `json:"expiresAt"`
}

// Request are the inputs to Generate. Zero values select defaults.
type Request struct {
	UserID       string
	Page         int
	Limit        int
	FeedType     FeedType
	SortBy       SortMode
	Location     *geo.Point
	Weather      string
	TimeOfDay    TimeOfDay
	Interests    []string
	SocialCircle []string
	IncludeTypes []Kind
	ExcludeTypes []Kind

	// RequestID correlates logs. Generated when empty.
	RequestID string
}

// Result is a generated page plus bookkeeping for callers that want it.
type Result struct {
	Items []Item

	// Candidates is the pool size before filtering and paging.
	Candidates int

	// Matched counts the pool items left after type filtering and
	// deduplication, before paging.
	Matched int

	// HasMore is set when a later page within MaxPage holds more items.
	HasMore bool

	// Cached is set when the pool came from the pool cache.
	Cached bool

	// Mix is the percentage split used to size the pool.
	Mix MixConfig

	// Page, Limit, SortBy and FeedType are the values after defaults and
	// clamping were applied. Page is never clamped down.
	Page     int
	Limit    int
	SortBy   SortMode
	FeedType FeedType
}

// PersonalizedRequest are the inputs to Personalized.
type PersonalizedRequest struct {
	UserID   string
	Offset   int
	PageSize int

	// Location overrides the stored user location when set.
	Location *geo.Point
}

// ScoredPost is one ranked entry of the personalized feed.
type ScoredPost struct {
	Item      Item           `json:"item"`
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// ScoreBreakdown holds the unweighted personalized-score terms.
type ScoreBreakdown struct {
	Recency    float64 `json:"recency"`
	Engagement float64 `json:"engagement"`
	Location   float64 `json:"location"`
}

// Fetcher produces the candidates of one kind. Implementations return items
// sorted by recency with Priority already set.
type Fetcher interface {
	Kind() Kind
	Fetch(ctx context.Context, req *Request, limit int) ([]Item, error)
}

// PoolCache stores candidate pools between page requests.
type PoolCache interface {
	Get(ctx context.Context, key string) ([]Item, bool)
	Set(ctx context.Context, key string, items []Item)
	Name() string
}
