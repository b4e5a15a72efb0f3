// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package algorithms

import (
	"errors"

	"github.com/tomtom215/reelmatch/internal/ratings"
)

// ErrNoGenres is returned when a genre query selects no genres.
var ErrNoGenres = errors.New("no genres selected")

// GenreAggregator ranks items that carry every selected genre by their mean
// observed rating. It reads the rating store directly and ignores the matrix.
type GenreAggregator struct {
	store *ratings.Store
}

// NewGenreAggregator creates a genre aggregator.
func NewGenreAggregator(store *ratings.Store) *GenreAggregator {
	return &GenreAggregator{store: store}
}

// RecommendByGenre returns the best-rated items having all genres in the set.
// Matching items nobody rated are skipped.
func (a *GenreAggregator) RecommendByGenre(genres ratings.GenreSet, opts RankOptions) (RankResult, error) {
	if genres.IsEmpty() {
		return RankResult{}, ErrNoGenres
	}

	result := RankResult{Items: []ScoredItem{}}
	catalog := a.store.Items()
	scored := make([]ScoredItem, 0)

	for i := range catalog {
		item := &catalog[i]
		if !item.Genres.ContainsAll(genres) {
			continue
		}
		result.Candidates++

		mean, ok := a.store.AverageRating(item.ID)
		if !ok {
			result.Skipped++
			continue
		}
		if !opts.keep(item) {
			result.Filtered++
			continue
		}
		scored = append(scored, ScoredItem{Item: item, Score: mean})
	}

	sortScored(scored)
	result.Items = topN(scored, opts.N)
	return result, nil
}
