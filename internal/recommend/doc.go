// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package recommend implements the user-based collaborative filtering engine.
//
// # Architecture
//
// A Source (MovieLens files, DuckDB or Redis) yields a ratings.Dataset. The
// Engine turns it into an immutable Snapshot:
//
//   - ratings.Store: deduplicated ratings plus the item catalog
//   - algorithms.UserItemMatrix: dense user x item matrix, zero-filled
//   - algorithms.SimilarityMatrix: cosine similarity between users
//   - algorithms.Predictor, Ranker and GenreAggregator over those
//
// Queries read the current snapshot through an atomic pointer. Rebuild
// constructs a replacement off to the side and swaps it in only when it is
// complete; a failed rebuild keeps the previous snapshot serving.
//
// # Queries
//
//   - Recommend: unrated items ranked by predicted rating
//   - RecommendByGenre: items having every selected genre, by mean rating
//   - Predict: one predicted rating
//   - SeenItems: a user's own ratings
//
// Scores are ranked at full precision and rounded to Config.Precision for
// display. Ties break on title, then item id, so results are deterministic.
//
// # Filters
//
// Recommend and RecommendByGenre accept an optional CEL expression over item
// attributes (see ItemFilter):
//
//	year >= 1990 && "Comedy" in genres && ratings >= 20
//
// Compiled expressions are kept in a per-engine LRU keyed by the expression
// text.
//
// # Errors
//
// Caller mistakes (unknown user, empty or unknown genres, N out of range,
// a bad filter) wrap ErrInvalidRequest; test with IsValidation. Missing data
// is not an error: an empty response or a false "ok" is returned instead.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	engine.SetSource(movielens.NewFileSource(paths, logger))
//	if err := engine.Rebuild(ctx); err != nil {
//	    return err
//	}
//	resp, err := engine.Recommend(ctx, recommend.RecommendRequest{UserID: 42, N: 10})
package recommend
