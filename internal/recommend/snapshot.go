// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/ratings"
	"github.com/tomtom215/reelmatch/internal/recommend/algorithms"
)

// Build stages, reported in BuildError and metrics.
const (
	StageLoad       = "load"
	StageStore      = "store"
	StageSimilarity = "similarity"
)

// BuildError records which stage of a snapshot build failed.
type BuildError struct {
	Stage string
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Snapshot is an immutable, fully built recommendation state: the rating
// store, its matrix, the user similarity matrix and the query components
// over them. It is safe for concurrent use.
type Snapshot struct {
	id            string
	source        string
	builtAt       time.Time
	buildDuration time.Duration

	store      *ratings.Store
	matrix     *algorithms.UserItemMatrix
	similarity *algorithms.SimilarityMatrix

	predictor *algorithms.Predictor
	ranker    *algorithms.Ranker
	genres    *algorithms.GenreAggregator
}

// BuildSnapshot runs the full pipeline over a dataset.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func BuildSnapshot(ctx context.Context, ds *ratings.Dataset, source string, cfg *Config, logger zerolog.Logger) (*Snapshot, error) {
	start := time.Now()

	store, err := ratings.NewStore(ds, cfg.Build.Duplicates)
	if err != nil {
		return nil, &BuildError{Stage: StageStore, Err: err}
	}

	stats := store.Stats()
	if stats.Duplicates > 0 || stats.OrphanRatings > 0 || stats.InvalidRatings > 0 || stats.DuplicateItems > 0 {
		logger.Warn().
			Int("duplicates", stats.Duplicates).
			Str("policy", string(cfg.Build.Duplicates)).
			Int("orphan_ratings", stats.OrphanRatings).
			Int("invalid_ratings", stats.InvalidRatings).
			Int("duplicate_items", stats.DuplicateItems).
			Msg("dropped or merged input ratings")
	}
	if dups := store.DuplicateTitles(); len(dups) > 0 {
		logger.Info().
			Int("titles", len(dups)).
			Msg("catalog has titles shared by several items; results are keyed by item id")
	}

	matrix := algorithms.BuildMatrix(store)
	users, items := matrix.Dims()

	estimate := algorithms.EstimateSimilarityBytes(users)
	if cfg.Similarity.WarnUsers > 0 && users > cfg.Similarity.WarnUsers {
		metrics.RecordComplexityWarning(estimate)
		logger.Warn().
			Int("users", users).
			Int("warn_users", cfg.Similarity.WarnUsers).
			Int64("similarity_bytes", estimate).
			Msg("user similarity is quadratic in the number of users")
	}

	similarity, err := algorithms.ComputeSimilarity(ctx, matrix, cfg.similarityConfig())
	if err != nil {
		return nil, &BuildError{Stage: StageSimilarity, Err: err}
	}

	predictor := algorithms.NewPredictor(matrix, similarity)
	s := &Snapshot{
		id:         uuid.New().String(),
		source:     source,
		builtAt:    time.Now(),
		store:      store,
		matrix:     matrix,
		similarity: similarity,
		predictor:  predictor,
		ranker:     algorithms.NewRanker(store, matrix, predictor),
		genres:     algorithms.NewGenreAggregator(store),
	}
	s.buildDuration = time.Since(start)

	logger.Info().
		Str("snapshot_id", s.id).
		Int("users", users).
		Int("items", items).
		Int("ratings", matrix.Observations()).
		Float64("density", matrix.Density()).
		Int64("duration_ms", s.buildDuration.Milliseconds()).
		Msg("built snapshot")

	return s, nil
}

// ID returns the unique snapshot identifier.
func (s *Snapshot) ID() string {
	return s.id
}

// Source returns the name of the source the snapshot was loaded from.
func (s *Snapshot) Source() string {
	return s.source
}

// BuiltAt returns when the snapshot finished building.
func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}

// BuildDuration returns how long the build took.
func (s *Snapshot) BuildDuration() time.Duration {
	return s.buildDuration
}

// Store returns the rating store.
func (s *Snapshot) Store() *ratings.Store {
	return s.store
}

// Matrix returns the user-item matrix.
func (s *Snapshot) Matrix() *algorithms.UserItemMatrix {
	return s.matrix
}

// Similarity returns the user similarity matrix.
func (s *Snapshot) Similarity() *algorithms.SimilarityMatrix {
	return s.similarity
}
