// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/sacavia/internal/config"
	"github.com/tomtom215/sacavia/internal/geo"
	"github.com/tomtom215/sacavia/internal/logging"
	"github.com/tomtom215/sacavia/internal/seed"
	"github.com/tomtom215/sacavia/internal/store"
	"github.com/tomtom215/sacavia/internal/store/badgerstore"
	"github.com/tomtom215/sacavia/internal/store/mongostore"
)

func newDataCmd() *cobra.Command {
	counts := seed.DefaultCounts()
	var (
		seedValue int64
		lat, lon  float64
	)

	cmd := &cobra.Command{
		Use:   "data",
		Short: "Generate users, posts, places, guides and challenges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Init(cfg.LoggingOptions())
			logger := logging.Logger()

			center := geo.Point{Latitude: lat, Longitude: lon}
			if !center.Valid() {
				return fmt.Errorf("center %v,%v is not a valid coordinate", lat, lon)
			}
			if seedValue == 0 {
				seedValue = time.Now().UnixNano()
			}

			ds, err := seed.NewGenerator(seedValue, time.Now().UTC(), center).Generate(counts)
			if err != nil {
				return err
			}

			st, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := st.Close(); cerr != nil {
					logger.Error().Err(cerr).Msg("Error closing document store")
				}
			}()

			n, err := seed.Write(cmd.Context(), st, ds, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d documents (seed %d)\n", n, seedValue)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&counts.Users, "users", counts.Users, "Number of users")
	f.IntVar(&counts.Posts, "posts", counts.Posts, "Number of posts")
	f.IntVar(&counts.Locations, "locations", counts.Locations, "Number of locations")
	f.IntVar(&counts.Guides, "guides", counts.Guides, "Number of guides")
	f.IntVar(&counts.Challenges, "challenges", counts.Challenges, "Number of challenges")
	f.IntVar(&counts.FollowsPerUser, "follows", counts.FollowsPerUser, "Maximum users each user follows")
	f.Int64Var(&seedValue, "seed", 0, "Random seed; 0 picks one from the clock")
	f.Float64Var(&lat, "lat", 38.7223, "Latitude the generated places cluster around")
	f.Float64Var(&lon, "lon", -9.1393, "Longitude the generated places cluster around")
	return cmd
}

// openStore opens the configured backend directly. The circuit breaker is
// left out: a seeding run should fail on the first error.
func openStore(cmd *cobra.Command, cfg *config.Config) (store.Store, error) {
	logger := logging.WithComponent("seed")
	switch cfg.Store.Backend {
	case config.StoreBadger:
		return badgerstore.Open(cfg.Store.Badger, logger)
	case config.StoreMongo:
		return mongostore.Connect(cmd.Context(), cfg.Store.Mongo, logger)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
