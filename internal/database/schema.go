// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package database

import (
	"context"
	"fmt"
	"time"
)

// Table names, also used as metric labels.
const (
	tableItems    = "items"
	tableRatings  = "ratings"
	tableExternal = "external_ratings"
	tableImports  = "imports"
)

// createTables creates the dataset tables.
//
// ratings keeps every observation, duplicates included, with its input
// position in seq so duplicate resolution sees the original order.
func (db *DB) createTables(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			release_date TEXT NOT NULL DEFAULT '',
			video_release_date TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			url TEXT NOT NULL DEFAULT '',
			genres BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			seq BIGINT NOT NULL,
			user_id INTEGER NOT NULL,
			item_id INTEGER NOT NULL,
			rating DOUBLE NOT NULL,
			ts BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS external_ratings (
			url TEXT PRIMARY KEY,
			rating DOUBLE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS imports (
			id UUID PRIMARY KEY,
			source TEXT NOT NULL,
			imported_at TIMESTAMP NOT NULL,
			ratings BIGINT NOT NULL,
			items BIGINT NOT NULL,
			external_ratings BIGINT NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}
