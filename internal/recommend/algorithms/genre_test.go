// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package algorithms

import (
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/reelmatch/internal/ratings"
)

func TestGenreAggregator_RecommendByGenre(t *testing.T) {
	agg := NewGenreAggregator(fixtureStore(t))

	tests := []struct {
		name           string
		genres         ratings.GenreSet
		opts           RankOptions
		wantIDs        []int
		wantScores     []float64
		wantCandidates int
		wantSkipped    int
		wantFiltered   int
	}{
		{
			name:           "single genre skips unrated items",
			genres:         ratings.NewGenreSet(ratings.GenreComedy),
			opts:           RankOptions{N: 5},
			wantIDs:        []int{1, 2},
			wantScores:     []float64{10.0 / 3.0, 2.5},
			wantCandidates: 3,
			wantSkipped:    1,
		},
		{
			name:           "all selected genres must match",
			genres:         ratings.NewGenreSet(ratings.GenreComedy, ratings.GenreRomance),
			opts:           RankOptions{N: 5},
			wantIDs:        []int{2},
			wantScores:     []float64{2.5},
			wantCandidates: 1,
		},
		{
			name:    "no matching items",
			genres:  ratings.NewGenreSet(ratings.GenreWar),
			opts:    RankOptions{N: 5},
			wantIDs: []int{},
		},
		{
			name:           "truncated to n",
			genres:         ratings.NewGenreSet(ratings.GenreComedy),
			opts:           RankOptions{N: 1},
			wantIDs:        []int{1},
			wantScores:     []float64{10.0 / 3.0},
			wantCandidates: 3,
			wantSkipped:    1,
		},
		{
			name:           "filter",
			genres:         ratings.NewGenreSet(ratings.GenreComedy),
			opts:           RankOptions{N: 5, Filter: func(it *ratings.Item) bool { return it.ID != 1 }},
			wantIDs:        []int{2},
			wantScores:     []float64{2.5},
			wantCandidates: 3,
			wantSkipped:    1,
			wantFiltered:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := agg.RecommendByGenre(tt.genres, tt.opts)
			if err != nil {
				t.Fatalf("RecommendByGenre() error = %v", err)
			}

			if ids := itemIDs(got.Items); !equalIDs(ids, tt.wantIDs) {
				t.Errorf("RecommendByGenre(%s) ids = %v, want %v", tt.genres, ids, tt.wantIDs)
			}
			for i, want := range tt.wantScores {
				if i < len(got.Items) && math.Abs(got.Items[i].Score-want) > 1e-12 {
					t.Errorf("Items[%d].Score = %v, want %v", i, got.Items[i].Score, want)
				}
			}
			if got.Candidates != tt.wantCandidates {
				t.Errorf("Candidates = %d, want %d", got.Candidates, tt.wantCandidates)
			}
			if got.Skipped != tt.wantSkipped {
				t.Errorf("Skipped = %d, want %d", got.Skipped, tt.wantSkipped)
			}
			if got.Filtered != tt.wantFiltered {
				t.Errorf("Filtered = %d, want %d", got.Filtered, tt.wantFiltered)
			}
		})
	}
}

func TestGenreAggregator_EmptySelection(t *testing.T) {
	agg := NewGenreAggregator(fixtureStore(t))

	_, err := agg.RecommendByGenre(ratings.GenreSet(0), RankOptions{N: 5})
	if !errors.Is(err, ErrNoGenres) {
		t.Errorf("RecommendByGenre(empty) error = %v, want ErrNoGenres", err)
	}
}

func TestGenreAggregator_TieBreak(t *testing.T) {
	items := []ratings.Item{
		{ID: 1, Title: "Zulu", Genres: ratings.NewGenreSet(ratings.GenreComedy)},
		{ID: 2, Title: "Echo", Genres: ratings.NewGenreSet(ratings.GenreComedy)},
		{ID: 3, Title: "Alpha", Genres: ratings.NewGenreSet(ratings.GenreComedy)},
		{ID: 4, Title: "Echo", Genres: ratings.NewGenreSet(ratings.GenreComedy)},
		{ID: 5, Title: "Omega", Genres: ratings.NewGenreSet(ratings.GenreComedy)},
	}
	// Items 1 to 4 share a mean of 4 from different rating mixes.
	rs := []ratings.Rating{
		{UserID: 1, ItemID: 1, Value: 4},
		{UserID: 1, ItemID: 2, Value: 3},
		{UserID: 2, ItemID: 2, Value: 5},
		{UserID: 1, ItemID: 3, Value: 4},
		{UserID: 2, ItemID: 3, Value: 4},
		{UserID: 2, ItemID: 4, Value: 4},
		{UserID: 1, ItemID: 5, Value: 5},
	}
	agg := NewGenreAggregator(newTestStore(t, items, rs))

	got, err := agg.RecommendByGenre(ratings.NewGenreSet(ratings.GenreComedy), RankOptions{N: 10})
	if err != nil {
		t.Fatalf("RecommendByGenre() error = %v", err)
	}

	// Equal means order by title, then by id.
	want := []int{5, 3, 2, 4, 1}
	if ids := itemIDs(got.Items); !equalIDs(ids, want) {
		t.Errorf("RecommendByGenre() ids = %v, want %v", ids, want)
	}
	for _, item := range got.Items[1:] {
		if item.Score != 4 {
			t.Errorf("item %d score = %v, want 4", item.Item.ID, item.Score)
		}
	}
}
