// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/sacavia/internal/cache"
	"github.com/tomtom215/sacavia/internal/logging"
)

const minJWTSecretLength = 32

// Validate checks the whole configuration and returns the first error.
func (c *Config) Validate() error {
	validators := []struct {
		name string
		fn   func() error
	}{
		{"server", c.validateServer},
		{"logging", c.validateLogging},
		{"store", c.validateStore},
		{"breaker", c.Breaker.Validate},
		{"cache", c.validateCache},
		{"feed", c.FeedConfig().Validate},
		{"security", c.validateSecurity},
	}
	for _, v := range validators {
		if err := v.fn(); err != nil {
			return fmt.Errorf("%s: %w", v.name, err)
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	}
	return fmt.Errorf("format must be json or console, got %q", c.Logging.Format)
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case StoreBadger:
		return c.Store.Badger.Validate()
	case StoreMongo:
		return c.Store.Mongo.Validate()
	}
	return fmt.Errorf("backend must be %s or %s, got %q", StoreBadger, StoreMongo, c.Store.Backend)
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	switch c.Cache.Backend {
	case cache.BackendMemory:
		if c.Cache.Capacity < 1 {
			return fmt.Errorf("capacity must be positive, got %d", c.Cache.Capacity)
		}
		if c.Cache.SweepInterval <= 0 {
			return fmt.Errorf("sweep_interval must be positive, got %v", c.Cache.SweepInterval)
		}
		return nil
	case cache.BackendRedis:
		return c.Cache.Redis.Validate()
	}
	return fmt.Errorf("backend must be %s or %s, got %q", cache.BackendMemory, cache.BackendRedis, c.Cache.Backend)
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret != "" && len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("jwt_secret must be at least %d characters", minJWTSecretLength)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("rate_limit_requests must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("rate_limit_window must be positive, got %v", c.Security.RateLimitWindow)
		}
	}
	if len(c.Security.CORSOrigins) == 0 {
		return errors.New("cors_origins must not be empty")
	}
	return nil
}

// AuthEnabled reports whether bearer tokens can be verified.
func (c *Config) AuthEnabled() bool {
	return c.Security.JWTSecret != ""
}

// HasWildcardCORS reports whether any origin is allowed.
func (c *Config) HasWildcardCORS() bool {
	for _, o := range c.Security.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}
