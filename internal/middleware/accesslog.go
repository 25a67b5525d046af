// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/sacavia/internal/logging"
)

// AccessLog logs one event per request. Requests slower than slow are logged
// at warn, server errors at error, everything else at info. The logger is
// also stored in the request context for logging.Ctx.
//
//nolint:gocritic // hugeParam: zerolog.Logger is passed by value by convention
func AccessLog(logger zerolog.Logger, slow time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			ctx := logging.ContextWithLogger(r.Context(), logger)
			r = r.WithContext(ctx)

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			l := logging.Ctx(r.Context())
			var event *zerolog.Event
			switch {
			case rec.statusCode >= http.StatusInternalServerError:
				event = l.Error()
			case slow > 0 && elapsed > slow:
				event = l.Warn().Dur("threshold", slow)
			default:
				event = l.Info()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.statusCode).
				Int("bytes", rec.bytes).
				Dur("duration", elapsed).
				Msg("HTTP request")
		})
	}
}
