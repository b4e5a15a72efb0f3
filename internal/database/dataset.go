// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/ratings"
)

// SourceName is reported by DB.Name.
const SourceName = "duckdb"

// ImportSummary describes one dataset import.
type ImportSummary struct {
	ID              uuid.UUID `json:"id"`
	Source          string    `json:"source"`
	ImportedAt      time.Time `json:"imported_at"`
	Ratings         int       `json:"ratings"`
	Items           int       `json:"items"`
	ExternalRatings int       `json:"external_ratings"`
	// ItemConflicts counts catalog rows dropped for reusing an item id.
	ItemConflicts int `json:"item_conflicts"`
}

// ImportDataset replaces the stored dataset with ds in one transaction.
// Ratings are stored as given; duplicate resolution happens when a snapshot
// is built. Repeated item ids and external URLs keep their first row.
func (db *DB) ImportDataset(ctx context.Context, ds *ratings.Dataset, source string) (summary ImportSummary, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("import", tableRatings, time.Since(start), err)
	}()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				db.logger.Error().Err(rbErr).AnErr("original_error", err).Msg("transaction rollback failed")
			}
		}
	}()

	for _, table := range []string{tableRatings, tableItems, tableExternal} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return summary, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	inserted, err := db.insertItems(ctx, tx, ds.Items)
	if err != nil {
		return summary, err
	}
	summary.Items = inserted
	summary.ItemConflicts = len(ds.Items) - inserted

	if err = db.insertRatings(ctx, tx, ds.Ratings); err != nil {
		return summary, err
	}
	summary.Ratings = len(ds.Ratings)

	if summary.ExternalRatings, err = db.insertExternal(ctx, tx, ds.ExternalRatings); err != nil {
		return summary, err
	}

	summary.ID = uuid.New()
	summary.Source = source
	summary.ImportedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO imports (id, source, imported_at, ratings, items, external_ratings) VALUES (?, ?, ?, ?, ?, ?)`,
		summary.ID.String(), summary.Source, summary.ImportedAt, summary.Ratings, summary.Items, summary.ExternalRatings)
	if err != nil {
		return summary, fmt.Errorf("failed to record import: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return summary, fmt.Errorf("failed to commit import: %w", err)
	}

	db.logger.Info().
		Str("import_id", summary.ID.String()).
		Str("source", source).
		Int("ratings", summary.Ratings).
		Int("items", summary.Items).
		Int("external_ratings", summary.ExternalRatings).
		Int("item_conflicts", summary.ItemConflicts).
		Dur("duration", time.Since(start)).
		Msg("imported dataset")

	return summary, nil
}

func (db *DB) insertItems(ctx context.Context, tx *sql.Tx, items []ratings.Item) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO items
		(id, title, release_date, video_release_date, year, url, genres)
		VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer closeWithLog(stmt, db.logger, "prepared statement")

	inserted := 0
	for i := range items {
		it := &items[i]
		result, err := stmt.ExecContext(ctx,
			it.ID, it.Title, it.ReleaseDate, it.VideoReleaseDate, it.Year, it.URL, int64(it.Genres))
		if err != nil {
			return 0, fmt.Errorf("failed to insert item %d: %w", it.ID, err)
		}
		if n, err := result.RowsAffected(); err == nil && n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

func (db *DB) insertRatings(ctx context.Context, tx *sql.Tx, rs []ratings.Rating) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO ratings (seq, user_id, item_id, rating, ts) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare rating insert: %w", err)
	}
	defer closeWithLog(stmt, db.logger, "prepared statement")

	for i, r := range rs {
		if _, err := stmt.ExecContext(ctx, i, r.UserID, r.ItemID, r.Value, r.Timestamp); err != nil {
			return fmt.Errorf("failed to insert rating %d: %w", i, err)
		}
	}
	return nil
}

func (db *DB) insertExternal(ctx context.Context, tx *sql.Tx, ext []ratings.ExternalRating) (int, error) {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO external_ratings (url, rating) VALUES (?, ?) ON CONFLICT DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare external rating insert: %w", err)
	}
	defer closeWithLog(stmt, db.logger, "prepared statement")

	inserted := 0
	for _, e := range ext {
		result, err := stmt.ExecContext(ctx, e.URL, e.Rating)
		if err != nil {
			return 0, fmt.Errorf("failed to insert external rating %s: %w", e.URL, err)
		}
		if n, err := result.RowsAffected(); err == nil && n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

// Name returns the source name. DB implements ratings.Source.
func (db *DB) Name() string {
	return SourceName
}

// Load reads the stored dataset. It returns ErrNoImport when nothing was imported.
func (db *DB) Load(ctx context.Context) (*ratings.Dataset, error) {
	if _, err := db.LastImport(ctx); err != nil {
		return nil, err
	}

	items, err := db.loadItems(ctx)
	if err != nil {
		return nil, err
	}
	rs, err := db.loadRatings(ctx)
	if err != nil {
		return nil, err
	}
	ext, err := db.loadExternal(ctx)
	if err != nil {
		return nil, err
	}

	return &ratings.Dataset{Ratings: rs, Items: items, ExternalRatings: ext}, nil
}

func (db *DB) loadItems(ctx context.Context) (out []ratings.Item, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", tableItems, time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, release_date, video_release_date, year, url, genres FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer closeWithLog(rows, db.logger, "rows")

	for rows.Next() {
		var (
			it     ratings.Item
			genres int64
		)
		if err := rows.Scan(&it.ID, &it.Title, &it.ReleaseDate, &it.VideoReleaseDate, &it.Year, &it.URL, &genres); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.Genres = ratings.GenreSet(genres)
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return out, nil
}

func (db *DB) loadRatings(ctx context.Context) (out []ratings.Rating, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", tableRatings, time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id, item_id, rating, ts FROM ratings ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer closeWithLog(rows, db.logger, "rows")

	for rows.Next() {
		var r ratings.Rating
		if err := rows.Scan(&r.UserID, &r.ItemID, &r.Value, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return out, nil
}

func (db *DB) loadExternal(ctx context.Context) (out []ratings.ExternalRating, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", tableExternal, time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx, `SELECT url, rating FROM external_ratings ORDER BY url`)
	if err != nil {
		return nil, fmt.Errorf("query external ratings: %w", err)
	}
	defer closeWithLog(rows, db.logger, "rows")

	out = []ratings.ExternalRating{}
	for rows.Next() {
		var e ratings.ExternalRating
		if err := rows.Scan(&e.URL, &e.Rating); err != nil {
			return nil, fmt.Errorf("scan external rating: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate external ratings: %w", err)
	}
	return out, nil
}

// LastImport returns the most recent import.
func (db *DB) LastImport(ctx context.Context) (summary ImportSummary, err error) {
	start := time.Now()
	defer func() {
		recorded := err
		if errors.Is(err, ErrNoImport) {
			recorded = nil
		}
		metrics.RecordDBQuery("select", tableImports, time.Since(start), recorded)
	}()

	var id string
	row := db.conn.QueryRowContext(ctx,
		`SELECT CAST(id AS TEXT), source, imported_at, ratings, items, external_ratings
		FROM imports ORDER BY imported_at DESC LIMIT 1`)
	err = row.Scan(&id, &summary.Source, &summary.ImportedAt, &summary.Ratings, &summary.Items, &summary.ExternalRatings)
	if errors.Is(err, sql.ErrNoRows) {
		return ImportSummary{}, ErrNoImport
	}
	if err != nil {
		return ImportSummary{}, fmt.Errorf("query last import: %w", err)
	}

	if summary.ID, err = uuid.Parse(id); err != nil {
		return ImportSummary{}, fmt.Errorf("parse import id: %w", err)
	}
	return summary, nil
}
