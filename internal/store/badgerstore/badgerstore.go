// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

// Package badgerstore implements store.Store on an embedded BadgerDB.
//
// Documents are stored as JSON under "doc:<collection>:<id>". Find scans the
// collection prefix and evaluates the query in process with store.Select, so
// this backend suits single-node deployments and local development with
// datasets that fit a full collection scan.
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/sacavia/internal/store"
)

const keyPrefix = "doc:"

// Config controls how the database is opened.
type Config struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string `json:"path" koanf:"path"`

	// InMemory keeps all data in RAM.
	InMemory bool `json:"in_memory" koanf:"in_memory"`

	// SyncWrites fsyncs every write.
	SyncWrites bool `json:"sync_writes" koanf:"sync_writes"`

	// GCInterval is how often RunGC should be driven by the supervisor.
	GCInterval time.Duration `json:"gc_interval" koanf:"gc_interval"`

	// GCDiscardRatio is passed to RunValueLogGC.
	GCDiscardRatio float64 `json:"gc_discard_ratio" koanf:"gc_discard_ratio"`
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !c.InMemory && c.Path == "" {
		return errors.New("badger path is required unless in_memory is set")
	}
	if c.GCDiscardRatio < 0 || c.GCDiscardRatio >= 1 {
		return fmt.Errorf("badger gc_discard_ratio must be in [0, 1), got %v", c.GCDiscardRatio)
	}
	return nil
}

// Store is a BadgerDB-backed document store.
type Store struct {
	db     *badger.DB
	cfg    Config
	logger zerolog.Logger
}

// Open opens (or creates) the database described by cfg.
//
//nolint:gocritic // hugeParam: logger passed by value, matching zerolog convention
func Open(cfg Config, logger zerolog.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid badger config: %w", err)
	}
	if cfg.GCDiscardRatio == 0 {
		cfg.GCDiscardRatio = 0.5
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logger = logger.With().Str("component", "badgerstore").Logger()
	logger.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("sync_writes", cfg.SyncWrites).
		Msg("document store opened")

	return &Store{db: db, cfg: cfg, logger: logger}, nil
}

func docKey(collection, id string) []byte {
	return []byte(keyPrefix + collection + ":" + id)
}

func collectionPrefix(collection string) []byte {
	return []byte(keyPrefix + collection + ":")
}

// Find implements store.Store.
func (s *Store) Find(ctx context.Context, collection string, q store.Query, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var raws [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := collectionPrefix(collection)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			raws = append(raws, val)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", collection, err)
	}

	if err := store.Select(q, raws, out); err != nil {
		return fmt.Errorf("query %s: %w", collection, err)
	}
	return nil
}

// FindByID implements store.Store.
func (s *Store) FindByID(ctx context.Context, collection, id string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(docKey(collection, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%s/%s: %w", collection, id, store.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get %s/%s: %w", collection, id, err)
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, out); err != nil {
				return fmt.Errorf("decode %s/%s: %w", collection, id, err)
			}
			return nil
		})
	})
}

// Put implements store.Store.
func (s *Store) Put(ctx context.Context, collection, id string, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(docKey(collection, id), data); err != nil {
			return fmt.Errorf("set %s/%s: %w", collection, id, err)
		}
		return nil
	})
}

// Count returns the number of documents in a collection.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := collectionPrefix(collection)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return ctx.Err()
	})
	return count, err
}

// Ping implements store.Store.
func (s *Store) Ping(context.Context) error {
	if s.db.IsClosed() {
		return store.ErrClosed
	}
	return nil
}

// RunGC reclaims value-log space. badger.ErrNoRewrite means there was
// nothing to collect and is not reported.
func (s *Store) RunGC() error {
	if s.cfg.InMemory {
		return nil
	}
	err := s.db.RunValueLogGC(s.cfg.GCDiscardRatio)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		return fmt.Errorf("value log gc: %w", err)
	}
	return nil
}

// GCInterval returns the configured GC cadence.
func (s *Store) GCInterval() time.Duration {
	return s.cfg.GCInterval
}

// Close implements store.Store.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	s.logger.Info().Msg("document store closed")
	return nil
}

var _ store.Store = (*Store)(nil)
