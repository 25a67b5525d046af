// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/sacavia/internal/models"
)

// Health reports store reachability. The status is "degraded" with HTTP 503
// when the store cannot be pinged; the feed still answers in that state, with
// empty lists.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.healthTimeout)
	defer cancel()

	storeErr := h.store.Ping(ctx)
	health := models.HealthStatus{
		Status:       "healthy",
		Version:      h.version,
		StoreBackend: h.storeBackend,
		StoreOK:      storeErr == nil,
		Uptime:       time.Since(h.startTime).Truncate(time.Second).String(),
	}
	if h.breakerState != nil {
		health.Breaker = h.breakerState()
	}

	status := http.StatusOK
	if storeErr != nil {
		health.Status = "degraded"
		status = http.StatusServiceUnavailable
		h.logger.Warn().Err(storeErr).Msg("Health check: store unreachable")
	}

	respondJSON(w, r, status, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}

// Live answers as long as the process serves HTTP.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, map[string]string{"status": "alive"}, models.Metadata{})
}
