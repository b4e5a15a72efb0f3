// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"
	"runtime"
	"time"

	"github.com/tomtom215/reelmatch/internal/ratings"
	"github.com/tomtom215/reelmatch/internal/recommend/algorithms"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Limits contains result size limits.
	Limits LimitsConfig `json:"limits"`

	// Similarity contains parameters for the user similarity computation.
	Similarity SimilarityConfig `json:"similarity"`

	// Build contains snapshot build parameters.
	Build BuildConfig `json:"build"`

	// Precision is the number of decimals scores are rounded to in responses.
	// Ranking always uses full precision.
	// Default: 2.
	Precision int `json:"precision"`
}

// LimitsConfig contains result size limits.
type LimitsConfig struct {
	// DefaultN is used when a request asks for 0 results.
	// Default: 5.
	DefaultN int `json:"default_n"`

	// MaxN is the largest N a request may ask for.
	// Default: 100.
	MaxN int `json:"max_n"`

	// MaxFilterLength bounds the length of a filter expression.
	// Default: 1024.
	MaxFilterLength int `json:"max_filter_length"`
}

// SimilarityConfig contains parameters for the similarity computation.
type SimilarityConfig struct {
	// Workers is the number of goroutines normalizing similarity rows.
	// Default: runtime.NumCPU().
	Workers int `json:"workers"`

	// RowBlock is the number of rows per worker task.
	// Default: 64.
	RowBlock int `json:"row_block"`

	// WarnUsers logs a complexity warning when a snapshot has more users.
	// The similarity matrix grows with the square of the user count.
	// Default: 10000.
	WarnUsers int `json:"warn_users"`

	// MaxUsers fails the build when a snapshot has more users. Zero disables it.
	// Default: 0.
	MaxUsers int `json:"max_users"`
}

// BuildConfig contains snapshot build parameters.
type BuildConfig struct {
	// Duplicates decides how repeated (user, item) ratings are resolved.
	// Default: "last".
	Duplicates ratings.DuplicatePolicy `json:"duplicates"`

	// Timeout is the maximum time allowed for loading and building a snapshot.
	// Default: 5m.
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			DefaultN:        5,
			MaxN:            100,
			MaxFilterLength: 1024,
		},
		Similarity: SimilarityConfig{
			Workers:   runtime.NumCPU(),
			RowBlock:  64,
			WarnUsers: 10000,
			MaxUsers:  0,
		},
		Build: BuildConfig{
			Duplicates: ratings.DuplicateKeepLast,
			Timeout:    5 * time.Minute,
		},
		Precision: 2,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Limits.DefaultN < 1 {
		return fmt.Errorf("limits.default_n must be positive, got %d", c.Limits.DefaultN)
	}
	if c.Limits.MaxN < c.Limits.DefaultN {
		return fmt.Errorf("limits.max_n must be >= limits.default_n, got %d < %d", c.Limits.MaxN, c.Limits.DefaultN)
	}
	if c.Limits.MaxFilterLength < 1 {
		return fmt.Errorf("limits.max_filter_length must be positive, got %d", c.Limits.MaxFilterLength)
	}

	if c.Similarity.Workers < 1 {
		return fmt.Errorf("similarity.workers must be positive, got %d", c.Similarity.Workers)
	}
	if c.Similarity.RowBlock < 1 {
		return fmt.Errorf("similarity.row_block must be positive, got %d", c.Similarity.RowBlock)
	}
	if c.Similarity.WarnUsers < 0 {
		return fmt.Errorf("similarity.warn_users must be non-negative, got %d", c.Similarity.WarnUsers)
	}
	if c.Similarity.MaxUsers < 0 {
		return fmt.Errorf("similarity.max_users must be non-negative, got %d", c.Similarity.MaxUsers)
	}

	if _, err := ratings.ParseDuplicatePolicy(string(c.Build.Duplicates)); err != nil {
		return fmt.Errorf("build.duplicates: %w", err)
	}
	if c.Build.Timeout <= 0 {
		return fmt.Errorf("build.timeout must be positive, got %v", c.Build.Timeout)
	}

	if c.Precision < 0 || c.Precision > 10 {
		return fmt.Errorf("precision must be in [0, 10], got %d", c.Precision)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs hold value types only.
	clone := *c
	return &clone
}

// similarityConfig converts to the algorithms package configuration.
func (c *Config) similarityConfig() algorithms.SimilarityConfig {
	return algorithms.SimilarityConfig{
		Workers:  c.Similarity.Workers,
		RowBlock: c.Similarity.RowBlock,
		MaxUsers: c.Similarity.MaxUsers,
	}
}
