// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"time"

	"github.com/tomtom215/reelmatch/internal/ratings"
)

// Query kinds, used in response metadata, logs and metrics.
const (
	KindRecommend = "recommend"
	KindGenre     = "genre"
	KindPredict   = "predict"
	KindSeen      = "seen"
)

// RecommendRequest asks for items a user has not rated, ranked by predicted rating.
type RecommendRequest struct {
	// UserID is the user to recommend for. It must have at least one rating.
	UserID int `json:"user_id"`

	// N is the number of results. Zero means the configured default.
	N int `json:"n" validate:"gte=0"`

	// Where is an optional filter expression over item attributes,
	// e.g. `year >= 1990 && "Comedy" in genres`.
	Where string `json:"where,omitempty"`

	// RequestID is used for tracing. Generated if empty.
	RequestID string `json:"request_id,omitempty"`
}

// GenreRequest asks for the best-rated items carrying every selected genre.
type GenreRequest struct {
	// Genres are genre names, matched case-insensitively. At least one is required.
	Genres []string `json:"genres" validate:"dive,genre"`

	// N is the number of results. Zero means the configured default.
	N int `json:"n" validate:"gte=0"`

	// Where is an optional filter expression over item attributes.
	Where string `json:"where,omitempty"`

	// RequestID is used for tracing. Generated if empty.
	RequestID string `json:"request_id,omitempty"`
}

// Recommendation is one ranked item with display augmentation.
type Recommendation struct {
	// Rank is the 1-based position in the response.
	Rank int `json:"rank"`

	ItemID int    `json:"item_id"`
	Title  string `json:"title"`
	Year   int    `json:"year,omitempty"`

	// Score is the ranking score rounded to the configured precision: a
	// predicted rating for Recommend, the mean rating for RecommendByGenre.
	Score float64 `json:"score"`

	// AverageRating is the rounded mean observed rating. Nil when nobody rated the item.
	AverageRating *float64 `json:"average_rating"`

	// RatingCount is the number of users who rated the item.
	RatingCount int `json:"rating_count"`

	// ExternalRating is the joined external rating, if any.
	ExternalRating *float64 `json:"external_rating"`

	URL    string   `json:"url,omitempty"`
	Genres []string `json:"genres"`
}

// SeenItem is an item a user rated, with that user's rating.
type SeenItem struct {
	ItemID int     `json:"item_id"`
	Title  string  `json:"title"`
	Year   int     `json:"year,omitempty"`
	Rating float64 `json:"rating"`

	AverageRating  *float64 `json:"average_rating"`
	RatingCount    int      `json:"rating_count"`
	ExternalRating *float64 `json:"external_rating"`

	URL    string   `json:"url,omitempty"`
	Genres []string `json:"genres"`
}

// Response is a ranked recommendation list.
type Response struct {
	// Items is the ordered list of recommended items. Never nil.
	Items []Recommendation `json:"items"`

	// Metadata contains bookkeeping and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains bookkeeping and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// Kind is KindRecommend or KindGenre.
	Kind string `json:"kind"`

	// UserID is set for KindRecommend.
	UserID int `json:"user_id,omitempty"`

	// Genres is the canonical genre selection for KindGenre.
	Genres []string `json:"genres,omitempty"`

	// N is the effective result limit after defaults.
	N int `json:"n"`

	// Candidates is the number of items considered.
	Candidates int `json:"candidates"`

	// Skipped counts candidates without a prediction or without ratings.
	Skipped int `json:"skipped"`

	// Filtered counts scored candidates removed by the filter expression.
	Filtered int `json:"filtered"`

	// SnapshotID identifies the snapshot that answered the query.
	SnapshotID string `json:"snapshot_id"`

	// SnapshotBuiltAt is when that snapshot was built.
	SnapshotBuiltAt time.Time `json:"snapshot_built_at"`

	// LatencyMS is the query latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// Prediction is a predicted rating for one (user, item) pair.
type Prediction struct {
	UserID int    `json:"user_id"`
	ItemID int    `json:"item_id"`
	Title  string `json:"title"`

	// Score is rounded to the configured precision.
	Score float64 `json:"score"`

	// RawScore is the full-precision weighted average.
	RawScore float64 `json:"raw_score"`

	// Neighbors is how many other users rated the item.
	Neighbors int `json:"neighbors"`

	// WeightSum is the sum of their similarities to the user.
	WeightSum float64 `json:"weight_sum"`
}

// Status describes the current snapshot and the build history.
type Status struct {
	// Ready is true once a snapshot has been built.
	Ready bool `json:"ready"`

	// IsBuilding indicates whether a rebuild is currently in progress.
	IsBuilding bool `json:"is_building"`

	SnapshotID string    `json:"snapshot_id,omitempty"`
	Source     string    `json:"source,omitempty"`
	BuiltAt    time.Time `json:"built_at,omitempty"`

	// BuildDurationMS is how long the current snapshot took to build.
	BuildDurationMS int64 `json:"build_duration_ms"`

	Users   int     `json:"users"`
	Items   int     `json:"items"`
	Ratings int     `json:"ratings"`
	Density float64 `json:"density"`

	// SimilarityBytes estimates the memory held by the similarity matrix.
	SimilarityBytes int64 `json:"similarity_bytes"`

	// Store holds the ingestion statistics of the current snapshot.
	Store ratings.Stats `json:"store"`

	// DuplicateTitles is the number of titles shared by more than one item.
	DuplicateTitles int `json:"duplicate_titles"`

	// Builds and Failures count rebuild attempts since the engine started.
	Builds   int64 `json:"builds"`
	Failures int64 `json:"failures"`

	// LastError is the error of the most recent failed rebuild, if it was
	// not followed by a successful one.
	LastError string `json:"last_error,omitempty"`

	// LastAttemptAt is when the most recent rebuild started.
	LastAttemptAt time.Time `json:"last_attempt_at,omitempty"`
}
