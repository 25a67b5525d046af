// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package feed

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/sacavia/internal/metrics"
	"github.com/tomtom215/sacavia/internal/models"
	"github.com/tomtom215/sacavia/internal/store"
	"github.com/tomtom215/sacavia/internal/validation"
)

// unknownUser is the display name used when an author cannot be resolved.
const unknownUser = "Unknown User"

// source bundles what every store-backed fetcher needs.
type source struct {
	store  store.Store
	cfg    *Config
	logger zerolog.Logger
	now    func() time.Time
}

// DefaultFetchers returns the store-backed fetcher for every kind.
//
//nolint:gocritic // hugeParam: zerolog.Logger is passed by value by convention
func DefaultFetchers(st store.Store, cfg *Config, logger zerolog.Logger, now func() time.Time) []Fetcher {
	src := &source{store: st, cfg: cfg, logger: logger, now: now}
	return []Fetcher{
		&postFetcher{src},
		&peopleFetcher{src},
		&placeFetcher{src},
		&guideFetcher{src},
		&weeklyFeatureFetcher{src},
		&miniBlogFetcher{src},
		&challengeFetcher{src},
	}
}

// load runs q against collection and keeps the documents that pass
// validation. Rejected documents are logged and counted, never returned.
func load[T any](ctx context.Context, src *source, collection string, q store.Query) ([]T, error) {
	var docs []T
	if err := src.store.Find(ctx, collection, q, &docs); err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}

	kept := docs[:0]
	for i := range docs {
		if verr := validation.ValidateStruct(&docs[i]); verr != nil {
			metrics.RecordRejectedDocument(collection)
			src.logger.Debug().
				Str("collection", collection).
				Str("reason", verr.Error()).
				Msg("Skipping invalid document")
			continue
		}
		kept = append(kept, docs[i])
	}
	return kept, nil
}

// resolveAuthors loads the users behind ids in one query. Lookup failures
// leave the map short and callers fall back to unknownUser.
func (s *source) resolveAuthors(ctx context.Context, ids []string) map[string]AuthorSummary {
	out := make(map[string]AuthorSummary, len(ids))
	ids = uniqueNonEmpty(ids)
	if len(ids) == 0 {
		return out
	}

	users, err := load[models.User](ctx, s, models.CollectionUsers, store.Query{
		Where: []store.Condition{store.In("id", ids)},
	})
	if err != nil {
		s.logger.Debug().Err(err).Int("authors", len(ids)).Msg("Author lookup failed")
		return out
	}
	for i := range users {
		out[users[i].ID] = summarize(&users[i])
	}
	return out
}

// author returns the summary for id, or the unknown-user placeholder.
func author(authors map[string]AuthorSummary, id string) AuthorSummary {
	if a, ok := authors[id]; ok {
		return a
	}
	return AuthorSummary{ID: id, Name: unknownUser}
}

func summarize(u *models.User) AuthorSummary {
	name := u.Name
	if name == "" {
		name = u.Username
	}
	if name == "" {
		name = unknownUser
	}
	return AuthorSummary{
		ID:           u.ID,
		Name:         name,
		Username:     u.Username,
		ProfileImage: u.ProfileImage,
	}
}

// resolveLocations loads the locations behind ids in one query.
func (s *source) resolveLocations(ctx context.Context, ids []string) map[string]PlaceRef {
	out := make(map[string]PlaceRef, len(ids))
	ids = uniqueNonEmpty(ids)
	if len(ids) == 0 {
		return out
	}

	locs, err := load[models.Location](ctx, s, models.CollectionLocations, store.Query{
		Where: []store.Condition{store.In("id", ids)},
	})
	if err != nil {
		s.logger.Debug().Err(err).Int("locations", len(ids)).Msg("Location lookup failed")
		return out
	}
	for i := range locs {
		out[locs[i].ID] = PlaceRef{
			ID:          locs[i].ID,
			Name:        locs[i].Name,
			Coordinates: locs[i].Coordinates,
		}
	}
	return out
}

func uniqueNonEmpty(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
