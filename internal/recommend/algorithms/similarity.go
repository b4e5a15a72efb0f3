// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package algorithms

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// ErrCapacityExceeded is returned when the user count is above SimilarityConfig.MaxUsers.
var ErrCapacityExceeded = errors.New("similarity capacity exceeded")

// SimilarityConfig contains parameters for the similarity computation.
type SimilarityConfig struct {
	// Workers is the number of goroutines normalizing row blocks.
	// Zero means runtime.NumCPU().
	Workers int

	// RowBlock is the number of rows handed to a worker at a time.
	RowBlock int

	// MaxUsers rejects snapshots with more users. Zero disables the limit.
	MaxUsers int
}

// DefaultSimilarityConfig returns default similarity configuration.
func DefaultSimilarityConfig() SimilarityConfig {
	return SimilarityConfig{
		Workers:  runtime.NumCPU(),
		RowBlock: 64,
		MaxUsers: 0,
	}
}

// EstimateSimilarityBytes returns the memory held by a similarity matrix for n users.
func EstimateSimilarityBytes(users int) int64 {
	return int64(users) * int64(users) * 8
}

// SimilarityMatrix is the symmetric user x user cosine similarity matrix.
// Its row order is the row order of the UserItemMatrix it was built from.
type SimilarityMatrix struct {
	users     []int
	userIndex map[int]int
	sim       *mat.SymDense // nil when there are no users
}

// ComputeSimilarity computes cosine similarity between every pair of user rows.
//
// Missing cells count as zero. A user whose row is all zero has similarity 0
// to everyone, including themselves; every other user has self-similarity 1.
func ComputeSimilarity(ctx context.Context, m *UserItemMatrix, cfg SimilarityConfig) (*SimilarityMatrix, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.RowBlock <= 0 {
		cfg.RowBlock = 64
	}

	users, items := m.Dims()
	if cfg.MaxUsers > 0 && users > cfg.MaxUsers {
		return nil, fmt.Errorf("%w: %d users, limit %d", ErrCapacityExceeded, users, cfg.MaxUsers)
	}

	s := &SimilarityMatrix{
		users:     m.users,
		userIndex: m.userIndex,
	}
	if users == 0 {
		return s, nil
	}

	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	// Gram matrix: g(u, v) = dot(row u, row v).
	g := mat.NewSymDense(users, nil)
	if items > 0 {
		g.SymOuterK(1, m.Dense())
	}

	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	norms := make([]float64, users)
	for u := range norms {
		norms[u] = math.Sqrt(g.At(u, u))
	}

	// Each worker owns the upper-triangle entries of its rows, so writes
	// never overlap and reads only touch norms and owned entries.
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(cfg.Workers)

	for start := 0; start < users; start += cfg.RowBlock {
		end := min(start+cfg.RowBlock, users)
		grp.Go(func() error {
			if ContextCancelled(gctx) {
				return gctx.Err()
			}
			for u := start; u < end; u++ {
				for v := u + 1; v < users; v++ {
					g.SetSym(u, v, cosine(g.At(u, v), norms[u], norms[v]))
				}
				if norms[u] > 0 {
					g.SetSym(u, u, 1)
				} else {
					g.SetSym(u, u, 0)
				}
			}
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, fmt.Errorf("normalize similarity: %w", err)
	}

	s.sim = g
	return s, nil
}

// cosine turns a dot product into a cosine, 0 when either norm is 0.
func cosine(dot, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	v := dot / (normA * normB)
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}

// Size returns the number of users on each axis.
func (s *SimilarityMatrix) Size() int {
	return len(s.users)
}

// Users returns the user ids in row order.
func (s *SimilarityMatrix) Users() []int {
	return s.users
}

// At returns the similarity between two rows.
func (s *SimilarityMatrix) At(i, j int) float64 {
	return s.sim.At(i, j)
}

// Between returns the similarity between two users by id.
func (s *SimilarityMatrix) Between(userA, userB int) (float64, bool) {
	i, okA := s.userIndex[userA]
	j, okB := s.userIndex[userB]
	if !okA || !okB {
		return 0, false
	}
	return s.sim.At(i, j), true
}

// Row returns a copy of one row of the matrix.
func (s *SimilarityMatrix) Row(i int) []float64 {
	out := make([]float64, len(s.users))
	for j := range out {
		out[j] = s.sim.At(i, j)
	}
	return out
}
