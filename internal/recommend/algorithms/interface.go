// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package algorithms

import (
	"context"
	"math"
	"sort"

	"github.com/tomtom215/reelmatch/internal/ratings"
)

// ScoredItem pairs a catalog item with its ranking score.
type ScoredItem struct {
	Item  *ratings.Item
	Score float64
}

// RankOptions controls how many results a ranking returns and which items
// are eligible.
type RankOptions struct {
	// N is the maximum number of results. Non-positive N returns nothing.
	N int

	// Filter, when set, drops items for which it returns false.
	Filter func(item *ratings.Item) bool
}

func (o RankOptions) keep(item *ratings.Item) bool {
	return o.Filter == nil || o.Filter(item)
}

// RankResult is a ranked list plus the bookkeeping behind it.
type RankResult struct {
	Items []ScoredItem

	// Candidates is how many items were considered before scoring.
	Candidates int

	// Skipped counts candidates without a score (no prediction, or no ratings).
	Skipped int

	// Filtered counts scored candidates removed by RankOptions.Filter.
	Filtered int
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, precision int) float64 {
	if precision < 0 {
		return v
	}
	p := math.Pow(10, float64(precision))
	return math.Round(v*p) / p
}

// sortScored orders by score descending, then title, then item id.
func sortScored(items []ScoredItem) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Item.Title != b.Item.Title {
			return a.Item.Title < b.Item.Title
		}
		return a.Item.ID < b.Item.ID
	})
}

// topN truncates a sorted slice to n entries.
func topN(items []ScoredItem, n int) []ScoredItem {
	if n <= 0 {
		return []ScoredItem{}
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
