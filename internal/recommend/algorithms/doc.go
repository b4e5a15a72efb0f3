// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package algorithms implements the collaborative filtering pipeline and the
// genre aggregator that the recommendation engine composes into a snapshot.
//
// # Pipeline
//
//	ratings.Store -> BuildMatrix -> ComputeSimilarity -> Predictor -> Ranker
//	ratings.Store -> GenreAggregator
//
// The user-item matrix is dense with an explicit observed mask. Missing cells
// read as zero for similarity only; presence is always checked through the
// mask, never by comparing values with zero.
//
// Similarity is cosine over zero-filled rows. Zero filling is a known
// approximation: two sparse users look more alike than their overlap
// warrants. The Gram matrix X·Xᵀ is computed with gonum and normalized in
// parallel row blocks.
//
// # Determinism
//
// Matrix rows are users by ascending id and columns are items by ascending
// id. The similarity matrix shares the row order. Ranked output breaks score
// ties by title, then item id, so identical snapshots always give identical
// results.
//
// # Thread Safety
//
// Every type here is immutable after construction and safe for concurrent
// readers.
package algorithms
