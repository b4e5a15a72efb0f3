// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package redisstore shares a rating dataset through Redis.
//
// One process publishes a dataset and any number of recommender instances
// load it as their ratings.Source. Each publish writes a complete new
// version under its own keys and then moves a single pointer, so readers
// never observe a half-written dataset:
//
//	<prefix>:current                      string, version id
//	<prefix>:dataset:<version>:meta       hash, manifest fields
//	<prefix>:dataset:<version>:items      hash, item id -> item JSON
//	<prefix>:dataset:<version>:ratings    list, JSON chunks of ratings in input order
//	<prefix>:dataset:<version>:external   hash, url -> rating
//
// Rating order is preserved because duplicate resolution depends on it.
// The previous version is unlinked after the pointer moves; a reader that
// raced the swap retries against the new version.
//
// # Usage
//
//	client, err := redisstore.NewClient(ctx, &cfg.Redis)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	store := redisstore.New(client, cfg.Redis.KeyPrefix, logger)
//	manifest, err := store.Publish(ctx, dataset, "file")
package redisstore
