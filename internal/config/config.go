// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

// Package config loads application configuration with koanf.
//
// Values are layered, later layers winning:
//
//  1. Defaults from defaultConfig
//  2. The first YAML file found at CONFIG_PATH or DefaultConfigPaths
//  3. Environment variables listed in envMappings
//
// Example config.yaml:
//
//	server:
//	  port: 8080
//	store:
//	  backend: mongo
//	  mongo:
//	    uri: mongodb://localhost:27017
//	    database: sacavia
//	cache:
//	  backend: redis
//	  redis:
//	    addr: localhost:6379
//	feed:
//	  mix:
//	    posts: 50
//	    people: 10
//	    places: 15
//	    guides: 8
//	    weekly_features: 7
//	    mini_blogs: 5
//	    challenges: 5
package config

import (
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/sacavia/internal/cache"
	"github.com/tomtom215/sacavia/internal/feed"
	"github.com/tomtom215/sacavia/internal/logging"
	"github.com/tomtom215/sacavia/internal/store/badgerstore"
	"github.com/tomtom215/sacavia/internal/store/mongostore"
	"github.com/tomtom215/sacavia/internal/store/resilient"
)

// Store backends.
const (
	StoreBadger = "badger"
	StoreMongo  = "mongo"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig     `koanf:"server"`
	Logging  LoggingConfig    `koanf:"logging"`
	Store    StoreConfig      `koanf:"store"`
	Breaker  resilient.Config `koanf:"breaker"`
	Cache    CacheConfig      `koanf:"cache"`
	Feed     feed.Config      `koanf:"feed"`
	Security SecurityConfig   `koanf:"security"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig mirrors logging.Config without the output writer.
type LoggingConfig struct {
	Level     string `koanf:"level"`
	Format    string `koanf:"format"`
	Caller    bool   `koanf:"caller"`
	Timestamp bool   `koanf:"timestamp"`
}

// StoreConfig selects and configures the document store.
type StoreConfig struct {
	Backend string             `koanf:"backend"`
	Badger  badgerstore.Config `koanf:"badger"`
	Mongo   mongostore.Config  `koanf:"mongo"`
}

// CacheConfig configures the candidate pool cache.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	Backend string        `koanf:"backend"`
	TTL     time.Duration `koanf:"ttl"`

	// Capacity bounds the memory backend.
	Capacity int `koanf:"capacity"`

	// SweepInterval is how often expired memory entries are dropped.
	SweepInterval time.Duration `koanf:"sweep_interval"`

	Redis cache.RedisConfig `koanf:"redis"`
}

// SecurityConfig configures authentication, CORS and rate limiting.
type SecurityConfig struct {
	// JWTSecret verifies HS256 bearer tokens. When empty, the personalized
	// endpoint is disabled and the discovery feed is anonymous.
	JWTSecret string `koanf:"jwt_secret"`

	// JWTIssuer, when set, must match the iss claim.
	JWTIssuer string `koanf:"jwt_issuer"`

	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingOptions converts the logging section for logging.Init.
func (c *Config) LoggingOptions() logging.Config {
	out := logging.DefaultConfig()
	out.Level = c.Logging.Level
	out.Format = c.Logging.Format
	out.Caller = c.Logging.Caller
	out.Timestamp = c.Logging.Timestamp
	return out
}

// FeedConfig returns the feed engine configuration with the cache section
// applied.
func (c *Config) FeedConfig() *feed.Config {
	out := c.Feed.Clone()
	out.Cache = feed.CacheConfig{Enabled: c.Cache.Enabled, TTL: c.Cache.TTL}
	return out
}

// Addr returns the listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
