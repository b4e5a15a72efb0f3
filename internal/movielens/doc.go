// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package movielens reads the MovieLens 100K files into a ratings.Dataset.

# Inputs

  - u.data: tab-separated user id, item id, rating, unix timestamp (required)
  - u.item: '|'-separated, Latin-1 encoded, 24 fields: id, title, release
    date, video release date, IMDb URL and 19 genre flags (required)
  - imdb_ratings.csv: comma-separated with a header naming IMDb_URL and
    imdb_rating columns (optional)

Malformed lines in any input are skipped and counted. A missing or unreadable
required file fails the load; a missing or unreadable optional file is
logged, counted in reelmatch_loader_recoveries_total and treated as empty.

# Usage

	src := movielens.NewFileSource(movielens.Paths{
	    Ratings:  "data/u.data",
	    Items:    "data/u.item",
	    External: "data/imdb_ratings.csv",
	}, logger)
	ds, err := src.Load(ctx)
*/
package movielens
