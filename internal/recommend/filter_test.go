// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"errors"
	"testing"

	"github.com/tomtom215/reelmatch/internal/ratings"
)

func filterStore(t *testing.T) *ratings.Store {
	t.Helper()
	imdb := 8.1
	store, err := ratings.NewStore(&ratings.Dataset{
		Items: []ratings.Item{
			{ID: 1, Title: "Toy Story (1995)", Year: 1995, URL: "u1", Genres: ratings.NewGenreSet(ratings.GenreAnimation, ratings.GenreComedy)},
			{ID: 2, Title: "Heat (1995)", Year: 1995, Genres: ratings.NewGenreSet(ratings.GenreCrime)},
			{ID: 3, Title: "Metropolis", Genres: ratings.NewGenreSet(ratings.GenreSciFi)},
		},
		Ratings: []ratings.Rating{
			{UserID: 1, ItemID: 1, Value: 5},
			{UserID: 2, ItemID: 1, Value: 4},
			{UserID: 1, ItemID: 2, Value: 2},
		},
		ExternalRatings: []ratings.ExternalRating{{URL: "u1", Rating: imdb}},
	}, ratings.DuplicateKeepLast)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func TestCompileFilter_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{name: "empty", expr: "   "},
		{name: "syntax", expr: "year >="},
		{name: "unknown variable", expr: "director == 'Lasseter'"},
		{name: "not bool", expr: "year + 1"},
		{name: "type mismatch", expr: "title > 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileFilter(tt.expr)
			if !errors.Is(err, ErrInvalidFilter) {
				t.Errorf("CompileFilter(%q) error = %v, want ErrInvalidFilter", tt.expr, err)
			}
		})
	}
}

func TestItemFilter_Match(t *testing.T) {
	store := filterStore(t)

	tests := []struct {
		name string
		expr string
		want []int
	}{
		{name: "year", expr: "year == 1995", want: []int{1, 2}},
		{name: "genre membership", expr: `"Comedy" in genres`, want: []int{1}},
		{name: "rating aggregates", expr: "rated && avg_rating >= 4.5 && ratings == 2", want: []int{1}},
		{name: "unrated", expr: "!rated", want: []int{3}},
		{name: "external rating", expr: "has_external && external_rating > 8.0", want: []int{1}},
		{name: "title functions", expr: `title.startsWith("Metro") || title.contains("Heat")`, want: []int{2, 3}},
		{name: "id", expr: "id != 1", want: []int{2, 3}},
		{name: "year unknown is zero", expr: "year == 0", want: []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := CompileFilter(tt.expr)
			if err != nil {
				t.Fatalf("CompileFilter(%q) error = %v", tt.expr, err)
			}
			if f.String() != tt.expr {
				t.Errorf("String() = %q, want %q", f.String(), tt.expr)
			}

			var got []int
			items := store.Items()
			for i := range items {
				ok, err := f.Match(&items[i], store)
				if err != nil {
					t.Fatalf("Match(%d) error = %v", items[i].ID, err)
				}
				if ok {
					got = append(got, items[i].ID)
				}
			}

			if len(got) != len(tt.want) {
				t.Fatalf("matched %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("matched %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}
