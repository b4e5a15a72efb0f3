// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/database"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/movielens"
	"github.com/tomtom215/reelmatch/internal/ratings"
	"github.com/tomtom215/reelmatch/internal/redisstore"
)

// defaultImportTarget imports into the configured store, DuckDB otherwise.
func defaultImportTarget(cfg *config.Config) string {
	if cfg.Data.Source == config.SourceRedis {
		return config.SourceRedis
	}
	return config.SourceDuckDB
}

// runImport reads the MovieLens files and writes them to DuckDB or Redis.
// Ratings are stored raw; duplicate handling happens at snapshot build.
func runImport(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "import")
	to := fs.String("to", defaultImportTarget(c.cfg), "destination: duckdb or redis")
	ratingsPath := fs.String("ratings", c.cfg.Data.RatingsPath, "MovieLens ratings file (u.data)")
	itemsPath := fs.String("items", c.cfg.Data.ItemsPath, "MovieLens items file (u.item)")
	externalPath := fs.String("external", c.cfg.Data.ExternalPath, "external ratings CSV (optional)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *to != config.SourceDuckDB && *to != config.SourceRedis {
		return usagef("-to must be duckdb or redis, got %q", *to)
	}
	if *ratingsPath == "" || *itemsPath == "" {
		return usagef("-ratings and -items are required")
	}

	src := movielens.NewFileSource(movielens.Paths{
		Ratings:  *ratingsPath,
		Items:    *itemsPath,
		External: *externalPath,
	}, logging.WithComponent("movielens"))

	ds, err := src.Load(ctx)
	if err != nil {
		return err
	}

	if *to == config.SourceRedis {
		return importRedis(ctx, c, ds, src.Name())
	}
	return importDuckDB(ctx, c, ds, src.Name())
}

func importDuckDB(ctx context.Context, c *cli, ds *ratings.Dataset, source string) error {
	db, err := database.Open(ctx, &c.cfg.Database, logging.WithComponent("database"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			c.logger.Warn().Err(cerr).Msg("failed to close database")
		}
	}()

	summary, err := db.ImportDataset(ctx, ds, source)
	if err != nil {
		return err
	}

	if summary.ItemConflicts > 0 {
		c.logger.Warn().Int("conflicts", summary.ItemConflicts).Msg("repeated item ids kept their first row")
	}
	return c.render.Message("Imported %d ratings, %d items and %d external ratings into %s (import %s)",
		summary.Ratings, summary.Items, summary.ExternalRatings, c.cfg.Database.Path, summary.ID)
}

func importRedis(ctx context.Context, c *cli, ds *ratings.Dataset, source string) error {
	client, err := redisstore.NewClient(ctx, &c.cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			c.logger.Warn().Err(cerr).Msg("failed to close redis client")
		}
	}()

	manifest, err := redisstore.New(client, c.cfg.Redis.KeyPrefix, logging.WithComponent("redisstore")).Publish(ctx, ds, source)
	if err != nil {
		return err
	}
	return c.render.Message("Published %d ratings, %d items and %d external ratings to redis as version %s (%d chunks)",
		manifest.Ratings, manifest.Items, manifest.ExternalRatings, manifest.Version, manifest.Chunks)
}
