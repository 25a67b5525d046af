// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/sacavia/internal/cache"
	"github.com/tomtom215/sacavia/internal/feed"
	"github.com/tomtom215/sacavia/internal/store/badgerstore"
	"github.com/tomtom215/sacavia/internal/store/mongostore"
	"github.com/tomtom215/sacavia/internal/store/resilient"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/sacavia/config.yaml",
	"/etc/sacavia/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "json",
			Timestamp: true,
		},
		Store: StoreConfig{
			Backend: StoreBadger,
			Badger: badgerstore.Config{
				Path:           "/data/sacavia",
				GCInterval:     10 * time.Minute,
				GCDiscardRatio: 0.5,
			},
			Mongo: mongostore.Config{
				URI:      "mongodb://127.0.0.1:27017",
				Database: "sacavia",
				Timeout:  10 * time.Second,
			},
		},
		Breaker: resilient.DefaultConfig(),
		Cache: CacheConfig{
			Enabled:       true,
			Backend:       "memory",
			TTL:           30 * time.Second,
			Capacity:      1024,
			SweepInterval: time.Minute,
			Redis: cache.RedisConfig{
				Addr:         "127.0.0.1:6379",
				DialTimeout:  5 * time.Second,
				ReadTimeout:  time.Second,
				WriteTimeout: time.Second,
			},
		},
		Feed: *feed.DefaultConfig(),
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
	}
}

// Load builds the configuration from defaults, the optional config file
// and the environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Paths whose env values are comma-separated lists.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	"log_level":     "logging.level",
	"log_format":    "logging.format",
	"log_caller":    "logging.caller",
	"log_timestamp": "logging.timestamp",

	"store_backend":           "store.backend",
	"badger_path":             "store.badger.path",
	"badger_in_memory":        "store.badger.in_memory",
	"badger_sync_writes":      "store.badger.sync_writes",
	"badger_gc_interval":      "store.badger.gc_interval",
	"badger_gc_discard_ratio": "store.badger.gc_discard_ratio",
	"mongo_uri":               "store.mongo.uri",
	"mongo_database":          "store.mongo.database",
	"mongo_timeout":           "store.mongo.timeout",

	"breaker_enabled":       "breaker.enabled",
	"breaker_timeout":       "breaker.timeout",
	"breaker_failure_ratio": "breaker.failure_ratio",
	"breaker_min_requests":  "breaker.min_requests",

	"cache_enabled":        "cache.enabled",
	"cache_backend":        "cache.backend",
	"cache_ttl":            "cache.ttl",
	"cache_capacity":       "cache.capacity",
	"cache_sweep_interval": "cache.sweep_interval",
	"redis_addr":           "cache.redis.addr",
	"redis_password":       "cache.redis.password",
	"redis_db":             "cache.redis.db",

	"feed_pool_size":       "feed.pool.size",
	"feed_fetch_timeout":   "feed.pool.fetch_timeout",
	"feed_trending_window": "feed.pool.trending_window",
	"feed_default_limit":   "feed.limits.default_limit",
	"feed_max_limit":       "feed.limits.max_limit",
	"feed_max_page":        "feed.limits.max_page",
	"feed_place_radius_km": "feed.places.radius_km",
	"feed_personal_max":    "feed.personalized.max_posts",

	"jwt_secret":          "security.jwt_secret",
	"jwt_issuer":          "security.jwt_issuer",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc maps known environment variables to config paths.
// Unknown variables map to "" and are skipped.
//
//   - HTTP_PORT -> server.port
//   - MONGO_URI -> store.mongo.uri
//   - FEED_POOL_SIZE -> feed.pool.size
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
