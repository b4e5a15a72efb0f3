// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/config"
)

// MemoryPath opens an in-process database that disappears on Close.
const MemoryPath = ":memory:"

// DB wraps the DuckDB connection that stores imported datasets.
type DB struct {
	conn   *sql.DB
	cfg    config.DatabaseConfig
	logger zerolog.Logger
}

// Open opens (creating if needed) the database and initializes the schema.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(ctx context.Context, cfg *config.DatabaseConfig, logger zerolog.Logger) (*DB, error) {
	if cfg.Path != MemoryPath {
		// Ensure parent directory exists for the database file
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	conn, err := sql.Open("duckdb", connString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:   conn,
		cfg:    *cfg,
		logger: logger.With().Str("path", cfg.Path).Logger(),
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.createTables(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, nil
}

// connString builds the DuckDB DSN with tuning options.
func connString(cfg *config.DatabaseConfig) string {
	path := cfg.Path
	if path == MemoryPath {
		path = ""
	}

	params := url.Values{}
	if cfg.Threads > 0 {
		params.Set("threads", fmt.Sprint(cfg.Threads))
	}
	if cfg.MaxMemory != "" {
		params.Set("max_memory", cfg.MaxMemory)
	}
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}

// Conn returns the underlying connection pool.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping checks if the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Close checkpoints and closes the database.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if db.cfg.Path != MemoryPath {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
			db.logger.Warn().Err(err).Msg("failed to checkpoint database before close")
		}
		cancel()
	}
	return db.conn.Close()
}
