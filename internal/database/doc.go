// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package database stores rating datasets in DuckDB.

An import replaces the stored dataset in a single transaction and appends a
row to the imports table. DB implements ratings.Source, so a snapshot can be
built straight from the database:

	db, err := database.Open(ctx, &cfg.Database, logger)
	if err != nil {
	    return err
	}
	defer db.Close()

	summary, err := db.ImportDataset(ctx, ds, "movielens")
	engine.SetSource(db)

Ratings are stored exactly as imported, duplicates included, together with
their input position. Duplicate resolution is left to snapshot construction,
so the configured policy applies no matter which source is used.

Pass ":memory:" as the path for an in-process database, as the tests do.
*/
package database
