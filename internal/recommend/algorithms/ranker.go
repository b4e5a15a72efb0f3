// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package algorithms

import (
	"github.com/tomtom215/reelmatch/internal/ratings"
)

// Ranker produces top-N recommendations from predicted ratings.
type Ranker struct {
	store     *ratings.Store
	matrix    *UserItemMatrix
	predictor *Predictor
}

// NewRanker creates a ranker.
func NewRanker(store *ratings.Store, m *UserItemMatrix, p *Predictor) *Ranker {
	return &Ranker{store: store, matrix: m, predictor: p}
}

// Recommend ranks every item the user has not rated by predicted rating.
//
// Items without a prediction are skipped. An unknown user, a user who has
// rated everything, or a user whose candidates all lack predictions gets an
// empty result.
func (r *Ranker) Recommend(userID int, opts RankOptions) RankResult {
	result := RankResult{Items: []ScoredItem{}}

	row, ok := r.matrix.UserIndex(userID)
	if !ok {
		return result
	}

	_, items := r.matrix.Dims()
	scored := make([]ScoredItem, 0, items-len(r.matrix.Rated(row)))

	for col := 0; col < items; col++ {
		if r.matrix.Observed(row, col) {
			continue
		}
		result.Candidates++

		pred, ok := r.predictor.predictAt(row, col)
		if !ok {
			result.Skipped++
			continue
		}

		item, _ := r.store.Item(r.matrix.ItemAt(col))
		if !opts.keep(item) {
			result.Filtered++
			continue
		}
		scored = append(scored, ScoredItem{Item: item, Score: pred.Score})
	}

	sortScored(scored)
	result.Items = topN(scored, opts.N)
	return result
}

// Seen returns the items a user rated, scored by the user's own rating.
// The order is rating descending, then title, then item id.
func (r *Ranker) Seen(userID int) []ScoredItem {
	row, ok := r.matrix.UserIndex(userID)
	if !ok {
		return []ScoredItem{}
	}

	cols := r.matrix.Rated(row)
	out := make([]ScoredItem, 0, len(cols))
	for _, col := range cols {
		rating, _ := r.matrix.Rating(row, col)
		item, _ := r.store.Item(r.matrix.ItemAt(col))
		out = append(out, ScoredItem{Item: item, Score: rating})
	}

	sortScored(out)
	return out
}
