// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

// Package store defines the document-store contract the feed reads through.
//
// Implementations live in sub-packages (badgerstore, mongostore) and are
// injected into the feed engine; nothing in the ranking path holds a global
// client. Documents are addressed by collection name and string id, and
// decoded straight into caller-supplied typed slices:
//
//	var posts []models.Post
//	err := st.Find(ctx, models.CollectionPosts, store.Query{
//	    Where: []store.Condition{store.Eq("status", models.StatusPublished)},
//	    Sort:  "-createdAt",
//	    Limit: 50,
//	}, &posts)
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by FindByID when no document has the id.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidQuery is returned for malformed queries or output targets.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("store closed")
)

// Store is a read-mostly document store.
type Store interface {
	// Find decodes every document of collection matching q into out, which
	// must be a pointer to a slice.
	Find(ctx context.Context, collection string, q Query, out any) error

	// FindByID decodes one document into out, or returns ErrNotFound.
	FindByID(ctx context.Context, collection, id string, out any) error

	// Put inserts or replaces a document.
	Put(ctx context.Context, collection, id string, doc any) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}
