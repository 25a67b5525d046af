// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

// Command sacavia-seed fills a development store with fake documents and
// mints bearer tokens for the seeded users.
//
//	sacavia-seed data --users 200 --posts 5000
//	sacavia-seed token user-0001
//
// Store and JWT settings come from the same config file and environment as
// the server.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/sacavia/internal/logging"
)

func main() {
	root := &cobra.Command{
		Use:           "sacavia-seed",
		Short:         "Seed a Sacavia document store with fake data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newDataCmd(), newTokenCmd())

	if err := root.Execute(); err != nil {
		logging.Error().Err(err).Msg("sacavia-seed failed")
		os.Exit(1)
	}
}
