// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package feed

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Config contains all configuration for the feed engine.
type Config struct {
	// Mix is the baseline percentage split before time-of-day, interest and
	// weather adjustments. It must sum to 100.
	Mix MixConfig `json:"mix" koanf:"mix"`

	// Pool sizes the candidate pool.
	Pool PoolConfig `json:"pool" koanf:"pool"`

	// Limits bounds request parameters.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Places tunes proximity ordering of place recommendations.
	Places PlacesConfig `json:"places" koanf:"places"`

	// Personalized tunes the followed-users feed.
	Personalized PersonalizedConfig `json:"personalized" koanf:"personalized"`

	// Cache tunes the candidate pool cache.
	Cache CacheConfig `json:"cache" koanf:"cache"`
}

// PoolConfig sizes the candidate pool.
type PoolConfig struct {
	// Size is the total number of candidates requested across fetchers.
	// It is independent of page and limit so every page of a feed is cut
	// from the same ordering.
	Size int `json:"size" koanf:"size"`

	// FetchTimeout bounds each fetcher run.
	FetchTimeout time.Duration `json:"fetch_timeout" koanf:"fetch_timeout"`

	// TrendingWindow is how far back the trending feed looks for posts.
	TrendingWindow time.Duration `json:"trending_window" koanf:"trending_window"`
}

// LimitsConfig bounds request parameters.
type LimitsConfig struct {
	DefaultLimit int `json:"default_limit" koanf:"default_limit"`
	MaxLimit     int `json:"max_limit" koanf:"max_limit"`
	MaxPage      int `json:"max_page" koanf:"max_page"`
}

// PlacesConfig tunes place recommendations.
type PlacesConfig struct {
	// RadiusKm is the nearby radius. Places inside it are listed first.
	RadiusKm float64 `json:"radius_km" koanf:"radius_km"`

	// CellSizeKm is the spatial grid cell size.
	CellSizeKm float64 `json:"cell_size_km" koanf:"cell_size_km"`

	// Overfetch multiplies the quota when a location is known, so the
	// nearby pass has enough candidates to choose from.
	Overfetch int `json:"overfetch" koanf:"overfetch"`
}

// PersonalizedConfig tunes the followed-users feed.
type PersonalizedConfig struct {
	// MaxPosts caps the posts loaded from followees.
	MaxPosts int `json:"max_posts" koanf:"max_posts"`

	DefaultPageSize int `json:"default_page_size" koanf:"default_page_size"`
	MaxPageSize     int `json:"max_page_size" koanf:"max_page_size"`
}

// CacheConfig tunes the pool cache. The cache itself is injected.
type CacheConfig struct {
	Enabled bool          `json:"enabled" koanf:"enabled"`
	TTL     time.Duration `json:"ttl" koanf:"ttl"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mix: DefaultMix(),
		Pool: PoolConfig{
			Size:           200,
			FetchTimeout:   5 * time.Second,
			TrendingWindow: 72 * time.Hour,
		},
		Limits: LimitsConfig{
			DefaultLimit: 20,
			MaxLimit:     100,
			MaxPage:      50,
		},
		Places: PlacesConfig{
			RadiusKm:   50,
			CellSizeKm: 10,
			Overfetch:  4,
		},
		Personalized: PersonalizedConfig{
			MaxPosts:        100,
			DefaultPageSize: 10,
			MaxPageSize:     50,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     30 * time.Second,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Mix.Validate(); err != nil {
		return fmt.Errorf("mix: %w", err)
	}

	if c.Pool.Size < 1 {
		return fmt.Errorf("pool.size must be positive, got %d", c.Pool.Size)
	}
	if c.Pool.FetchTimeout <= 0 {
		return fmt.Errorf("pool.fetch_timeout must be positive, got %v", c.Pool.FetchTimeout)
	}
	if c.Pool.TrendingWindow <= 0 {
		return fmt.Errorf("pool.trending_window must be positive, got %v", c.Pool.TrendingWindow)
	}

	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be >= limits.default_limit, got %d < %d", c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Limits.MaxPage < 1 {
		return fmt.Errorf("limits.max_page must be positive, got %d", c.Limits.MaxPage)
	}

	if c.Places.RadiusKm < 0 {
		return fmt.Errorf("places.radius_km must be non-negative, got %f", c.Places.RadiusKm)
	}
	if c.Places.Overfetch < 1 {
		return fmt.Errorf("places.overfetch must be positive, got %d", c.Places.Overfetch)
	}

	if c.Personalized.MaxPosts < 1 {
		return fmt.Errorf("personalized.max_posts must be positive, got %d", c.Personalized.MaxPosts)
	}
	if c.Personalized.DefaultPageSize < 1 {
		return fmt.Errorf("personalized.default_page_size must be positive, got %d", c.Personalized.DefaultPageSize)
	}
	if c.Personalized.MaxPageSize < c.Personalized.DefaultPageSize {
		return fmt.Errorf("personalized.max_page_size must be >= personalized.default_page_size, got %d < %d",
			c.Personalized.MaxPageSize, c.Personalized.DefaultPageSize)
	}

	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when cache is enabled, got %v", c.Cache.TTL)
	}

	return nil
}

// Clone returns a deep copy. All nested structs are value types.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// MarshalJSON renders durations as strings for the config endpoint and logs.
func (c *Config) MarshalJSON() ([]byte, error) {
	type alias Config
	return json.Marshal(&struct {
		*alias
		FetchTimeout   string `json:"pool_fetch_timeout"`
		TrendingWindow string `json:"pool_trending_window"`
		CacheTTL       string `json:"cache_ttl"`
	}{
		alias:          (*alias)(c),
		FetchTimeout:   c.Pool.FetchTimeout.String(),
		TrendingWindow: c.Pool.TrendingWindow.String(),
		CacheTTL:       c.Cache.TTL.String(),
	})
}
