// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package ratings holds the raw rating observations and the item catalog.
//
// A Store is built once from a Dataset and never changes afterwards. It
// resolves duplicate (user, item) observations with a DuplicatePolicy,
// drops ratings for items that are not in the catalog, and joins optional
// external ratings onto items by URL.
//
// # Genres
//
// Items carry the 19 MovieLens genre flags as a GenreSet bitset:
//
//	set, err := ratings.ParseGenreSet([]string{"Comedy", "Romance"})
//	if item.Genres.ContainsAll(set) { ... }
//
// # Sources
//
// A Source produces a Dataset. Implementations live in the movielens,
// database and redisstore packages.
package ratings
