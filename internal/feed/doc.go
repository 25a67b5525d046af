// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

// Package feed ranks and mixes social-discovery content into one paginated
// feed.
//
// A feed is built in four steps:
//
//  1. ComputeMix adjusts the baseline percentage split per kind for the time
//     of day, the user's interests and the weather.
//  2. One Fetcher per kind runs concurrently and returns up to its quota of
//     the candidate pool, each item with a fetch-time priority in [0, 100].
//     A failing fetcher contributes nothing; it never fails the feed.
//  3. Assemble filters the pool by type, removes duplicate ids and sorts it
//     by the requested mode (recent, popular or recommended).
//  4. The page [(page-1)*limit, page*limit) is cut from the sorted pool.
//
// The pool size is configuration and does not depend on the page, so page 2
// of a feed is exactly the continuation of page 1.
//
// Engine.Personalized is a separate, simpler ranking of posts from followed
// users using a weighted recency, engagement and proximity score.
//
// All distances use geo.Haversine.
package feed
