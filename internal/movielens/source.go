// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package movielens

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/ratings"
)

// SourceName is reported by FileSource.Name.
const SourceName = "file"

// Input names used in logs and metrics.
const (
	InputRatings  = "ratings"
	InputItems    = "items"
	InputExternal = "external"
)

// Paths locates the MovieLens files. An empty External path disables
// external ratings.
type Paths struct {
	Ratings  string
	Items    string
	External string
}

// FileSource loads a dataset from MovieLens files on disk.
// It implements ratings.Source.
type FileSource struct {
	paths  Paths
	logger zerolog.Logger
}

// NewFileSource creates a file source.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFileSource(paths Paths, logger zerolog.Logger) *FileSource {
	return &FileSource{
		paths:  paths,
		logger: logger,
	}
}

// Name returns the source name.
func (s *FileSource) Name() string {
	return SourceName
}

// Load reads the three inputs concurrently. Ratings and items are required;
// external ratings are recovered to an empty list on any failure.
func (s *FileSource) Load(ctx context.Context) (*ratings.Dataset, error) {
	start := time.Now()
	ds := &ratings.Dataset{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		out, stats, err := readFile(gctx, s.paths.Ratings, ParseRatings)
		if err != nil {
			return fmt.Errorf("load %s: %w", InputRatings, err)
		}
		s.recordSkipped(InputRatings, s.paths.Ratings, stats)
		ds.Ratings = out
		return nil
	})

	g.Go(func() error {
		out, stats, err := readFile(gctx, s.paths.Items, ParseItems)
		if err != nil {
			return fmt.Errorf("load %s: %w", InputItems, err)
		}
		s.recordSkipped(InputItems, s.paths.Items, stats)
		ds.Items = out
		return nil
	})

	g.Go(func() error {
		ds.ExternalRatings = s.loadExternal(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("ratings", len(ds.Ratings)).
		Int("items", len(ds.Items)).
		Int("external_ratings", len(ds.ExternalRatings)).
		Dur("duration", time.Since(start)).
		Msg("loaded MovieLens files")

	return ds, nil
}

// loadExternal never fails: a missing or malformed file yields an empty list.
func (s *FileSource) loadExternal(ctx context.Context) []ratings.ExternalRating {
	if s.paths.External == "" {
		return []ratings.ExternalRating{}
	}

	out, stats, err := readFile(ctx, s.paths.External, ParseExternalRatings)
	if err != nil {
		if ctx.Err() == nil {
			metrics.RecordLoaderRecovery(SourceName, InputExternal)
			s.logger.Warn().
				Err(err).
				Str("path", s.paths.External).
				Msg("external ratings unavailable, continuing without them")
		}
		return []ratings.ExternalRating{}
	}
	s.recordSkipped(InputExternal, s.paths.External, stats)
	if out == nil {
		out = []ratings.ExternalRating{}
	}
	return out
}

func (s *FileSource) recordSkipped(input, path string, stats ParseStats) {
	if stats.Skipped == 0 {
		return
	}
	metrics.RecordSkippedRecords(input, stats.Skipped)
	s.logger.Warn().
		Str("input", input).
		Str("path", path).
		Int("skipped", stats.Skipped).
		Int("records", stats.Records).
		Msg("skipped malformed records")
}

func readFile[T any](ctx context.Context, path string, parse func(context.Context, io.Reader) (T, ParseStats, error)) (T, ParseStats, error) {
	var zero T
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return zero, ParseStats{}, err
	}
	defer func() { _ = f.Close() }()

	return parse(ctx, f)
}
