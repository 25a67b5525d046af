// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

// Package mongostore implements store.Store on MongoDB.
//
// Queries are translated to native filters so that sorting and limits run on
// the server. The logical "id" field maps to "_id".
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tomtom215/sacavia/internal/store"
)

// Config holds connection settings.
type Config struct {
	URI      string        `json:"uri" koanf:"uri"`
	Database string        `json:"database" koanf:"database"`
	Timeout  time.Duration `json:"timeout" koanf:"timeout"`
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.URI == "" {
		return errors.New("mongo uri is required")
	}
	if c.Database == "" {
		return errors.New("mongo database is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("mongo timeout must be >= 0, got %v", c.Timeout)
	}
	return nil
}

// Store is a MongoDB-backed document store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	cfg    Config
	logger zerolog.Logger
}

// Connect dials MongoDB and verifies the connection with a ping.
//
//nolint:gocritic // hugeParam: logger passed by value, matching zerolog convention
func Connect(ctx context.Context, cfg Config, logger zerolog.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mongo config: %w", err)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI).SetTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	logger = logger.With().Str("component", "mongostore").Logger()
	logger.Info().Str("database", cfg.Database).Msg("document store connected")

	return &Store{
		client: client,
		db:     client.Database(cfg.Database),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Find implements store.Store.
func (s *Store) Find(ctx context.Context, collection string, q store.Query, out any) error {
	if err := q.Validate(); err != nil {
		return err
	}

	opts := options.Find()
	if field, desc := q.SortField(); field != "" {
		dir := 1
		if desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: fieldName(field), Value: dir}, {Key: "_id", Value: 1}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.db.Collection(collection).Find(ctx, Filter(q.Where), opts)
	if err != nil {
		return fmt.Errorf("find %s: %w", collection, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

// FindByID implements store.Store.
func (s *Store) FindByID(ctx context.Context, collection, id string, out any) error {
	err := s.db.Collection(collection).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s/%s: %w", collection, id, store.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("find %s/%s: %w", collection, id, err)
	}
	return nil
}

// Put implements store.Store.
func (s *Store) Put(ctx context.Context, collection, id string, doc any) error {
	_, err := s.db.Collection(collection).ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", collection, id, err)
	}
	return nil
}

// Ping implements store.Store.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	return nil
}

// Close implements store.Store.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	s.logger.Info().Msg("document store disconnected")
	return nil
}

// Filter translates conditions into a MongoDB filter document.
func Filter(where []store.Condition) bson.D {
	if len(where) == 0 {
		return bson.D{}
	}

	clauses := make(bson.A, 0, len(where))
	for _, c := range where {
		clauses = append(clauses, clause(c))
	}
	if len(clauses) == 1 {
		return clauses[0].(bson.D)
	}
	return bson.D{{Key: "$and", Value: clauses}}
}

func clause(c store.Condition) bson.D {
	field := fieldName(c.Field)

	switch c.Op {
	case store.OpEq:
		return bson.D{{Key: field, Value: c.Value}}
	case store.OpNe:
		return bson.D{{Key: field, Value: bson.D{{Key: "$ne", Value: c.Value}}}}
	case store.OpIn:
		return bson.D{{Key: field, Value: bson.D{{Key: "$in", Value: c.Value}}}}
	case store.OpNotIn:
		return bson.D{{Key: field, Value: bson.D{{Key: "$nin", Value: c.Value}}}}
	case store.OpGt:
		return bson.D{{Key: field, Value: bson.D{{Key: "$gt", Value: c.Value}}}}
	case store.OpLt:
		return bson.D{{Key: field, Value: bson.D{{Key: "$lt", Value: c.Value}}}}
	case store.OpExists:
		present, _ := c.Value.(bool)
		if present {
			// Absent and null are equivalent for the embedded stores.
			return bson.D{{Key: field, Value: bson.D{{Key: "$exists", Value: true}, {Key: "$ne", Value: nil}}}}
		}
		return bson.D{{Key: field, Value: nil}}
	}
	return bson.D{}
}

func fieldName(f string) string {
	if f == "id" {
		return "_id"
	}
	return f
}

var _ store.Store = (*Store)(nil)
