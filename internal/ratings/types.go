// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package ratings

import "context"

// Rating is a single observed (user, item) rating.
type Rating struct {
	UserID int `json:"user_id"`
	ItemID int `json:"item_id"`

	// Value is the bounded score, 1-5 for MovieLens.
	Value float64 `json:"rating"`

	// Timestamp is seconds since the Unix epoch. It only orders duplicates.
	Timestamp int64 `json:"timestamp"`
}

// Item holds catalog metadata for a movie.
type Item struct {
	ID               int      `json:"id"`
	Title            string   `json:"title"`
	ReleaseDate      string   `json:"release_date,omitempty"`
	VideoReleaseDate string   `json:"video_release_date,omitempty"`
	Year             int      `json:"year,omitempty"`
	URL              string   `json:"url,omitempty"`
	Genres           GenreSet `json:"genres"`

	// ExternalRating is the optional rating from an outside source such as IMDb.
	// Nil means unknown.
	ExternalRating *float64 `json:"external_rating,omitempty"`
}

// HasExternalRating reports whether an external rating is known.
func (i *Item) HasExternalRating() bool {
	return i.ExternalRating != nil
}

// ExternalRating is an outside rating keyed by the item URL.
type ExternalRating struct {
	URL    string  `json:"url"`
	Rating float64 `json:"rating"`
}

// Dataset is the raw input to a Store, as produced by a Source.
type Dataset struct {
	Ratings         []Rating
	Items           []Item
	ExternalRatings []ExternalRating
}

// Source loads a complete Dataset from a backing medium.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// Load reads the full dataset.
	Load(ctx context.Context) (*Dataset, error)
}

// StaticSource serves a dataset that is already in memory.
type StaticSource struct {
	Label string
	Data  *Dataset
}

// Name returns the source label, "static" when empty.
func (s StaticSource) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}

// Load returns the dataset. It only fails when ctx is done.
func (s StaticSource) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Data == nil {
		return &Dataset{}, nil
	}
	return s.Data, nil
}
