// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package ratings

import (
	"errors"
	"math"
	"testing"
)

func testItems() []Item {
	return []Item{
		{ID: 3, Title: "Gamma", URL: "http://imdb/gamma", Genres: NewGenreSet(GenreDrama)},
		{ID: 1, Title: "Alpha", URL: "http://imdb/alpha", Genres: NewGenreSet(GenreComedy)},
		{ID: 2, Title: "Beta", Genres: NewGenreSet(GenreComedy, GenreRomance)},
	}
}

func TestNewStore_Basics(t *testing.T) {
	ds := &Dataset{
		Items: testItems(),
		Ratings: []Rating{
			{UserID: 20, ItemID: 1, Value: 4, Timestamp: 1},
			{UserID: 10, ItemID: 2, Value: 5, Timestamp: 1},
			{UserID: 10, ItemID: 1, Value: 3, Timestamp: 1},
			{UserID: 10, ItemID: 99, Value: 1, Timestamp: 1},
			{UserID: 30, ItemID: 3, Value: math.NaN(), Timestamp: 1},
		},
		ExternalRatings: []ExternalRating{
			{URL: "http://imdb/alpha", Rating: 7.5},
			{URL: "http://imdb/missing", Rating: 6.0},
		},
	}

	store, err := NewStore(ds, DuplicateKeepLast)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	stats := store.Stats()
	if stats.InputRatings != 5 {
		t.Errorf("InputRatings = %d, want 5", stats.InputRatings)
	}
	if stats.Ratings != 3 {
		t.Errorf("Ratings = %d, want 3", stats.Ratings)
	}
	if stats.OrphanRatings != 1 {
		t.Errorf("OrphanRatings = %d, want 1", stats.OrphanRatings)
	}
	if stats.InvalidRatings != 1 {
		t.Errorf("InvalidRatings = %d, want 1", stats.InvalidRatings)
	}
	if stats.ExternalMatched != 1 {
		t.Errorf("ExternalMatched = %d, want 1", stats.ExternalMatched)
	}

	users := store.Users()
	if len(users) != 2 || users[0] != 10 || users[1] != 20 {
		t.Errorf("Users() = %v, want [10 20]", users)
	}
	if store.HasUser(30) {
		t.Error("HasUser(30) = true, want false (only an invalid rating)")
	}

	items := store.Items()
	for i, want := range []int{1, 2, 3} {
		if items[i].ID != want {
			t.Errorf("Items()[%d].ID = %d, want %d", i, items[i].ID, want)
		}
	}

	alpha, ok := store.Item(1)
	if !ok {
		t.Fatal("Item(1) not found")
	}
	if !alpha.HasExternalRating() || *alpha.ExternalRating != 7.5 {
		t.Errorf("Item(1).ExternalRating = %v, want 7.5", alpha.ExternalRating)
	}
	gamma, _ := store.Item(3)
	if gamma.HasExternalRating() {
		t.Error("Item(3).HasExternalRating() = true, want false")
	}
	if ds.Items[1].ExternalRating != nil {
		t.Error("NewStore() mutated the input dataset")
	}

	avg, ok := store.AverageRating(1)
	if !ok || avg != 3.5 {
		t.Errorf("AverageRating(1) = %v, %v, want 3.5, true", avg, ok)
	}
	if _, ok := store.AverageRating(3); ok {
		t.Error("AverageRating(3) ok = true, want false for unrated item")
	}
	if got := store.RatingCount(1); got != 2 {
		t.Errorf("RatingCount(1) = %d, want 2", got)
	}

	ur := store.UserRatings(10)
	if len(ur) != 2 || ur[0].ItemID != 1 || ur[1].ItemID != 2 {
		t.Errorf("UserRatings(10) = %+v, want items [1 2]", ur)
	}
}

func TestNewStore_DuplicatePolicies(t *testing.T) {
	ratings := []Rating{
		{UserID: 1, ItemID: 1, Value: 2, Timestamp: 200},
		{UserID: 1, ItemID: 1, Value: 4, Timestamp: 100},
		{UserID: 1, ItemID: 1, Value: 5, Timestamp: 200},
	}

	tests := []struct {
		name    string
		policy  DuplicatePolicy
		want    float64
		wantErr error
	}{
		{name: "last keeps newest, later input on tie", policy: DuplicateKeepLast, want: 5},
		{name: "first keeps oldest", policy: DuplicateKeepFirst, want: 4},
		{name: "mean averages", policy: DuplicateMean, want: 11.0 / 3.0},
		{name: "empty policy defaults to last", policy: "", want: 5},
		{name: "reject fails", policy: DuplicateReject, wantErr: ErrDuplicateRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(&Dataset{Items: testItems(), Ratings: ratings}, tt.policy)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewStore() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewStore() error = %v", err)
			}

			got := store.UserRatings(1)
			if len(got) != 1 {
				t.Fatalf("UserRatings(1) len = %d, want 1", len(got))
			}
			if math.Abs(got[0].Value-tt.want) > 1e-9 {
				t.Errorf("rating = %v, want %v", got[0].Value, tt.want)
			}
			if store.Stats().Duplicates != 2 {
				t.Errorf("Duplicates = %d, want 2", store.Stats().Duplicates)
			}
		})
	}
}

func TestNewStore_DuplicateTitlesAndItems(t *testing.T) {
	ds := &Dataset{
		Items: []Item{
			{ID: 1, Title: "Chasing Amy"},
			{ID: 2, Title: "Chasing Amy"},
			{ID: 1, Title: "Shadow copy"},
			{ID: 3, Title: "Other"},
		},
	}

	store, err := NewStore(ds, DuplicateKeepLast)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	if store.Stats().DuplicateItems != 1 {
		t.Errorf("DuplicateItems = %d, want 1", store.Stats().DuplicateItems)
	}
	item, _ := store.Item(1)
	if item.Title != "Chasing Amy" {
		t.Errorf("Item(1).Title = %q, want first occurrence", item.Title)
	}

	dups := store.DuplicateTitles()
	ids := dups["Chasing Amy"]
	if len(dups) != 1 || len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("DuplicateTitles() = %v", dups)
	}
}

func TestNewStore_Empty(t *testing.T) {
	store, err := NewStore(nil, DuplicateKeepLast)
	if err != nil {
		t.Fatalf("NewStore(nil) error = %v", err)
	}
	if len(store.Users()) != 0 || len(store.Items()) != 0 || len(store.Ratings()) != 0 {
		t.Error("empty store should have no users, items or ratings")
	}
}

func TestParseDuplicatePolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    DuplicatePolicy
		wantErr bool
	}{
		{"", DuplicateKeepLast, false},
		{"last", DuplicateKeepLast, false},
		{"FIRST", DuplicateKeepFirst, false},
		{" mean ", DuplicateMean, false},
		{"reject", DuplicateReject, false},
		{"newest", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuplicatePolicy(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDuplicatePolicy(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDuplicatePolicy(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
