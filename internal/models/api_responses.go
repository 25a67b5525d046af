// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package models

import (
	"time"
)

// APIResponse is the envelope returned by every HTTP endpoint.
//
// Status is "success" with Data populated, or "error" with Error populated.
//
//	{
//	  "status": "success",
//	  "data": {"items": [...], "page": 1, "limit": 20},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 12}
//	}
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata carries response timing. Cached is set when the candidate pool
// came from the pool cache rather than a fresh fetch.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError describes a failed request.
//
// Codes in use:
//   - VALIDATION_ERROR: invalid query parameters
//   - UNAUTHORIZED: missing or invalid bearer token
//   - RATE_LIMITED: too many requests
//   - INTERNAL_ERROR: unexpected failure
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// FeedPage is the data payload of GET /api/v1/feed.
type FeedPage struct {
	Items   any    `json:"items"`
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
	Count   int    `json:"count"`
	SortBy  string `json:"sort_by"`
	HasMore bool   `json:"has_more"`
}

// PersonalizedPage is the data payload of GET /api/v1/feed/personalized.
type PersonalizedPage struct {
	Items    any `json:"items"`
	Offset   int `json:"offset"`
	PageSize int `json:"page_size"`
	Count    int `json:"count"`
}

// HealthStatus is the data payload of GET /api/v1/health.
type HealthStatus struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	StoreBackend string `json:"store_backend"`
	StoreOK      bool   `json:"store_ok"`
	Breaker      string `json:"breaker,omitempty"`
	Uptime       string `json:"uptime"`
}
