// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package movielens

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/reelmatch/internal/ratings"
)

const sampleRatings = "196\t242\t3\t881250949\n" +
	"186\t302\t3\t891717742\n" +
	"22\tabc\t1\t878887116\n" +
	"244\t51\t2\n" +
	"166\t346\t1\t886397596\n"

// itemLine builds a u.item line with the given genre flags set.
func itemLine(id, title, date, url string, genres ...ratings.Genre) string {
	flags := make([]string, ratings.NumGenres)
	for i := range flags {
		flags[i] = "0"
	}
	for _, g := range genres {
		flags[g] = "1"
	}
	return strings.Join(append([]string{id, title, date, "", url}, flags...), "|") + "\n"
}

func TestParseRatings(t *testing.T) {
	got, stats, err := ParseRatings(context.Background(), strings.NewReader(sampleRatings))
	if err != nil {
		t.Fatalf("ParseRatings() error = %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("ParseRatings() returned %d ratings, want 3", len(got))
	}
	if stats.Records != 5 || stats.Skipped != 2 {
		t.Errorf("stats = %+v, want 5 records, 2 skipped", stats)
	}

	want := ratings.Rating{UserID: 196, ItemID: 242, Value: 3, Timestamp: 881250949}
	if got[0] != want {
		t.Errorf("first rating = %+v, want %+v", got[0], want)
	}
}

func TestParseRatings_Cancelled(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < ctxCheckEvery+1; i++ {
		buf.WriteString("1\t1\t5\t1\n")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := ParseRatings(ctx, &buf); !errors.Is(err, context.Canceled) {
		t.Errorf("ParseRatings() error = %v, want context.Canceled", err)
	}
}

func TestParseItems(t *testing.T) {
	input := itemLine("1", "Toy Story (1995)", "01-Jan-1995", "http://us.imdb.com/M/title-exact?Toy%20Story%20(1995)",
		ratings.GenreAnimation, ratings.GenreChildrens, ratings.GenreComedy) +
		itemLine("267", "unknown", "", "") +
		itemLine("1300", "Metropolis (1926)", "", "", ratings.GenreSciFi) +
		"2|GoldenEye (1995)|01-Jan-1995\n" +
		itemLine("x", "Broken", "", "")
	// "\xe9" is the Latin-1 byte for an e-acute.
	input += itemLine("3", "Belle \xe9poque (1992)", "", "", ratings.GenreComedy)

	got, stats, err := ParseItems(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseItems() error = %v", err)
	}
	if stats.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", stats.Skipped)
	}
	if len(got) != 4 {
		t.Fatalf("ParseItems() returned %d items, want 4", len(got))
	}

	toy := got[0]
	if toy.ID != 1 || toy.Title != "Toy Story (1995)" || toy.Year != 1995 {
		t.Errorf("item 1 = %+v", toy)
	}
	wantGenres := []string{"Animation", "Children's", "Comedy"}
	if names := toy.Genres.Names(); strings.Join(names, ",") != strings.Join(wantGenres, ",") {
		t.Errorf("item 1 genres = %v, want %v", names, wantGenres)
	}

	if got[1].Year != 0 || got[1].Genres.Len() != 0 {
		t.Errorf("item 267 = %+v, want no year and no genres", got[1])
	}
	if got[2].Year != 1926 {
		t.Errorf("item 1300 year = %d, want 1926 from title", got[2].Year)
	}
	if got[3].Title != "Belle époque (1992)" {
		t.Errorf("item 3 title = %q, want Latin-1 decoded", got[3].Title)
	}
}

func TestParseExternalRatings(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        []ratings.ExternalRating
		wantSkipped int
		wantErr     error
	}{
		{
			name:  "header order does not matter",
			input: "imdb_rating,title,IMDb_URL\n8.3,Toy Story,http://imdb/1\n7.2,GoldenEye,http://imdb/2\n",
			want: []ratings.ExternalRating{
				{URL: "http://imdb/1", Rating: 8.3},
				{URL: "http://imdb/2", Rating: 7.2},
			},
		},
		{
			name:        "bad rows skipped",
			input:       "IMDb_URL,imdb_rating\nhttp://imdb/1,n/a\n,6.0\nhttp://imdb/3,6.5\nhttp://imdb/4\n",
			want:        []ratings.ExternalRating{{URL: "http://imdb/3", Rating: 6.5}},
			wantSkipped: 3,
		},
		{
			name:    "missing column",
			input:   "url,rating\nhttp://imdb/1,8\n",
			wantErr: ErrNoHeader,
		},
		{
			name:    "empty file",
			input:   "",
			wantErr: ErrNoHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stats, err := ParseExternalRatings(context.Background(), strings.NewReader(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseExternalRatings() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseExternalRatings() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseExternalRatings() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("row %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
			if stats.Skipped != tt.wantSkipped {
				t.Errorf("Skipped = %d, want %d", stats.Skipped, tt.wantSkipped)
			}
		})
	}
}

func TestReleaseYear(t *testing.T) {
	tests := []struct {
		date  string
		title string
		want  int
	}{
		{"01-Jan-1995", "Toy Story (1995)", 1995},
		{"16-Jan-1996", "no suffix", 1996},
		{"", "Heat (1995)", 1995},
		{"garbage", "Heat (1995) ", 1995},
		{"", "unknown", 0},
	}

	for _, tt := range tests {
		if got := releaseYear(tt.date, tt.title); got != tt.want {
			t.Errorf("releaseYear(%q, %q) = %d, want %d", tt.date, tt.title, got, tt.want)
		}
	}
}
