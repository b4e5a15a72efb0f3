// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package redisstore

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/ratings"
)

func TestKeyspace(t *testing.T) {
	tests := []struct {
		prefix      string
		wantCurrent string
		wantItems   string
	}{
		{"reelmatch", "reelmatch:current", "reelmatch:dataset:v1:items"},
		{"", "reelmatch:current", "reelmatch:dataset:v1:items"},
		{" app:ml: ", "app:ml:current", "app:ml:dataset:v1:items"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			k := newKeyspace(tt.prefix)
			if got := k.current(); got != tt.wantCurrent {
				t.Errorf("current() = %q, want %q", got, tt.wantCurrent)
			}
			if got := k.part("v1", partItems); got != tt.wantItems {
				t.Errorf("part() = %q, want %q", got, tt.wantItems)
			}
			if got := len(k.version("v1")); got != 4 {
				t.Errorf("version() len = %d, want 4", got)
			}
		})
	}
}

func TestChunkRatings(t *testing.T) {
	rs := make([]ratings.Rating, 7)
	for i := range rs {
		rs[i] = ratings.Rating{UserID: i, ItemID: 1, Value: 3}
	}

	tests := []struct {
		name  string
		size  int
		sizes []int
	}{
		{"exact", 7, []int{7}},
		{"remainder", 3, []int{3, 3, 1}},
		{"one each", 1, []int{1, 1, 1, 1, 1, 1, 1}},
		{"default", 0, []int{7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := chunkRatings(rs, tt.size)
			got := make([]int, len(chunks))
			next := 0
			for i, c := range chunks {
				got[i] = len(c)
				for _, r := range c {
					if r.UserID != next {
						t.Fatalf("chunk %d out of order: user %d, want %d", i, r.UserID, next)
					}
					next++
				}
			}
			if !reflect.DeepEqual(got, tt.sizes) {
				t.Errorf("chunk sizes = %v, want %v", got, tt.sizes)
			}
		})
	}

	if got := chunkRatings(nil, 10); len(got) != 0 {
		t.Errorf("chunkRatings(nil) = %v, want empty", got)
	}
}

func TestManifestFields(t *testing.T) {
	want := Manifest{
		Version:         "v1",
		Source:          "file",
		PublishedAt:     time.Date(2026, 3, 1, 12, 0, 0, 500, time.UTC),
		Ratings:         100000,
		Items:           1682,
		ExternalRatings: 1500,
		Chunks:          20,
	}

	raw := make(map[string]string)
	for k, v := range want.fields() {
		raw[k] = fmt.Sprint(v)
	}

	got, err := parseManifest(raw)
	if err != nil {
		t.Fatalf("parseManifest() error = %v", err)
	}
	if !got.PublishedAt.Equal(want.PublishedAt) {
		t.Errorf("PublishedAt = %v, want %v", got.PublishedAt, want.PublishedAt)
	}
	got.PublishedAt = want.PublishedAt
	if got != want {
		t.Errorf("parseManifest() = %+v, want %+v", got, want)
	}
}

func TestParseManifest_Errors(t *testing.T) {
	valid := map[string]string{
		fieldVersion:     "v1",
		fieldPublishedAt: "2026-03-01T12:00:00Z",
		fieldRatings:     "1",
		fieldItems:       "1",
		fieldExternal:    "0",
		fieldChunks:      "1",
	}

	tests := []struct {
		name   string
		field  string
		value  string
		remove bool
	}{
		{name: "missing version", field: fieldVersion, remove: true},
		{name: "bad time", field: fieldPublishedAt, value: "yesterday"},
		{name: "bad count", field: fieldRatings, value: "many"},
		{name: "missing chunks", field: fieldChunks, remove: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := make(map[string]string, len(valid))
			for k, v := range valid {
				fields[k] = v
			}
			if tt.remove {
				delete(fields, tt.field)
			} else {
				fields[tt.field] = tt.value
			}
			if _, err := parseManifest(fields); err == nil {
				t.Error("parseManifest() error = nil, want error")
			}
		})
	}
}

func TestItemCodec(t *testing.T) {
	ext := 8.3
	items := []ratings.Item{
		{ID: 2, Title: "GoldenEye (1995)", Year: 1995, URL: "http://imdb/2",
			Genres: ratings.NewGenreSet(ratings.GenreAction, ratings.GenreThriller)},
		{ID: 1, Title: "Toy Story (1995)", ReleaseDate: "01-Jan-1995", Year: 1995,
			Genres: ratings.NewGenreSet(ratings.GenreAnimation), ExternalRating: &ext},
		{ID: 2, Title: "Shadow Copy"},
	}

	encoded, err := encodeItems(items)
	if err != nil {
		t.Fatalf("encodeItems() error = %v", err)
	}
	if len(encoded) != 2 {
		t.Fatalf("encodeItems() len = %d, want 2 (first row per id)", len(encoded))
	}

	fields := make(map[string]string, len(encoded))
	for k, v := range encoded {
		fields[k] = string(v.([]byte))
	}

	decoded, err := decodeItems(fields)
	if err != nil {
		t.Fatalf("decodeItems() error = %v", err)
	}
	if decoded[0].ID != 1 || decoded[1].ID != 2 {
		t.Fatalf("decodeItems() ids = %d, %d, want 1, 2", decoded[0].ID, decoded[1].ID)
	}
	if decoded[1].Title != "GoldenEye (1995)" {
		t.Errorf("item 2 title = %q, want first occurrence", decoded[1].Title)
	}
	if decoded[1].Genres != items[0].Genres {
		t.Errorf("item 2 genres = %v, want %v", decoded[1].Genres, items[0].Genres)
	}
	if decoded[0].ExternalRating == nil || *decoded[0].ExternalRating != ext {
		t.Errorf("item 1 external rating = %v, want %v", decoded[0].ExternalRating, ext)
	}

	fields["3"] = fields["1"]
	if _, err := decodeItems(fields); err == nil {
		t.Error("decodeItems() with mismatched key error = nil, want error")
	}
}

func TestExternalCodec(t *testing.T) {
	encoded := encodeExternal([]ratings.ExternalRating{
		{URL: "http://imdb/b", Rating: 1.0},
		{URL: "", Rating: 9.0},
		{URL: "http://imdb/a", Rating: 7.25},
		{URL: "http://imdb/b", Rating: 8.3},
	})
	if len(encoded) != 2 {
		t.Fatalf("encodeExternal() len = %d, want 2", len(encoded))
	}

	fields := make(map[string]string, len(encoded))
	for k, v := range encoded {
		fields[k] = v.(string)
	}
	got, err := decodeExternal(fields)
	if err != nil {
		t.Fatalf("decodeExternal() error = %v", err)
	}
	want := []ratings.ExternalRating{
		{URL: "http://imdb/a", Rating: 7.25},
		{URL: "http://imdb/b", Rating: 8.3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decodeExternal() = %v, want %v", got, want)
	}

	if _, err := decodeExternal(map[string]string{"u": "n/a"}); err == nil {
		t.Error("decodeExternal() with bad value error = nil, want error")
	}
}

func TestDecodeRatings(t *testing.T) {
	chunks := []string{
		`[{"user_id":1,"item_id":2,"rating":4,"timestamp":10}]`,
		`[{"user_id":1,"item_id":2,"rating":5,"timestamp":10},{"user_id":3,"item_id":1,"rating":1,"timestamp":5}]`,
	}
	got, err := decodeRatings(chunks, 3)
	if err != nil {
		t.Fatalf("decodeRatings() error = %v", err)
	}
	if len(got) != 3 || got[0].Value != 4 || got[1].Value != 5 || got[2].UserID != 3 {
		t.Errorf("decodeRatings() = %+v", got)
	}

	if _, err := decodeRatings([]string{"{"}, 0); err == nil {
		t.Error("decodeRatings() with bad chunk error = nil, want error")
	}
}

func TestBatchFields(t *testing.T) {
	fields := make(map[string]any, 25)
	for i := range 25 {
		fields[fmt.Sprint(i)] = i
	}

	batches := batchFields(fields, 10)
	if len(batches) != 3 {
		t.Fatalf("batchFields() batches = %d, want 3", len(batches))
	}
	seen := make(map[string]bool)
	for _, b := range batches {
		if len(b) > 10 {
			t.Errorf("batch size = %d, want <= 10", len(b))
		}
		for k := range b {
			seen[k] = true
		}
	}
	if len(seen) != 25 {
		t.Errorf("fields covered = %d, want 25", len(seen))
	}

	if got := batchFields(nil, 10); got != nil {
		t.Errorf("batchFields(nil) = %v, want nil", got)
	}
}

func TestStore_Name(t *testing.T) {
	s := New(nil, "", zerolog.Nop())
	if s.Name() != SourceName {
		t.Errorf("Name() = %q, want %q", s.Name(), SourceName)
	}
	if s.keys.prefix != DefaultKeyPrefix {
		t.Errorf("prefix = %q, want %q", s.keys.prefix, DefaultKeyPrefix)
	}
}
