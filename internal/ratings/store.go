// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package ratings

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// ErrDuplicateRating is returned by NewStore under DuplicateReject.
var ErrDuplicateRating = errors.New("duplicate rating")

// DuplicatePolicy decides which observation survives when a (user, item)
// pair is rated more than once.
type DuplicatePolicy string

const (
	// DuplicateKeepLast keeps the newest observation. Equal timestamps
	// resolve to the later one in input order.
	DuplicateKeepLast DuplicatePolicy = "last"

	// DuplicateKeepFirst keeps the oldest observation. Equal timestamps
	// resolve to the earlier one in input order.
	DuplicateKeepFirst DuplicatePolicy = "first"

	// DuplicateMean averages all observations of the pair.
	DuplicateMean DuplicatePolicy = "mean"

	// DuplicateReject fails store construction on the first duplicate.
	DuplicateReject DuplicatePolicy = "reject"
)

// ParseDuplicatePolicy validates a policy name. Empty means DuplicateKeepLast.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DuplicateKeepLast, nil
	case DuplicateKeepLast, DuplicateKeepFirst, DuplicateMean, DuplicateReject:
		return p, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q (want last, first, mean or reject)", s)
	}
}

// Stats summarizes what NewStore kept and dropped.
type Stats struct {
	InputRatings    int `json:"input_ratings"`
	Ratings         int `json:"ratings"`
	Users           int `json:"users"`
	Items           int `json:"items"`
	RatedItems      int `json:"rated_items"`
	Duplicates      int `json:"duplicates"`
	OrphanRatings   int `json:"orphan_ratings"`
	InvalidRatings  int `json:"invalid_ratings"`
	DuplicateItems  int `json:"duplicate_items"`
	ExternalMatched int `json:"external_matched"`
}

// Store is the immutable Rating Store: deduplicated observations plus the
// item catalog. All accessors are safe for concurrent use and return data
// that callers must treat as read-only.
type Store struct {
	ratings   []Rating // sorted by user, then item
	items     []Item   // sorted by id
	itemIndex map[int]int
	users     []int
	byUser    map[int][]Rating
	byItem    map[int][]float64

	duplicateTitles map[string][]int
	stats           Stats
}

// NewStore builds a Store from a dataset.
//
// Ratings that reference items missing from the catalog are dropped, as are
// non-finite values. External ratings are joined onto items by URL; the last
// external row for a URL wins. The dataset itself is not modified.
func NewStore(ds *Dataset, policy DuplicatePolicy) (*Store, error) {
	if ds == nil {
		ds = &Dataset{}
	}
	if policy == "" {
		policy = DuplicateKeepLast
	}
	if _, err := ParseDuplicatePolicy(string(policy)); err != nil {
		return nil, err
	}

	s := &Store{
		itemIndex:       make(map[int]int, len(ds.Items)),
		byUser:          make(map[int][]Rating),
		byItem:          make(map[int][]float64),
		duplicateTitles: make(map[string][]int),
	}
	s.stats.InputRatings = len(ds.Ratings)

	s.buildCatalog(ds)

	deduped, err := s.dedupe(ds.Ratings, policy)
	if err != nil {
		return nil, err
	}
	s.index(deduped)

	return s, nil
}

// buildCatalog copies the items, joins external ratings and records title collisions.
func (s *Store) buildCatalog(ds *Dataset) {
	external := make(map[string]float64, len(ds.ExternalRatings))
	for _, ext := range ds.ExternalRatings {
		if ext.URL == "" || math.IsNaN(ext.Rating) || math.IsInf(ext.Rating, 0) {
			continue
		}
		external[ext.URL] = ext.Rating
	}

	items := make([]Item, 0, len(ds.Items))
	seen := make(map[int]struct{}, len(ds.Items))
	for _, it := range ds.Items {
		if _, dup := seen[it.ID]; dup {
			s.stats.DuplicateItems++
			continue
		}
		seen[it.ID] = struct{}{}

		if v, ok := external[it.URL]; ok && it.URL != "" {
			rating := v
			it.ExternalRating = &rating
			s.stats.ExternalMatched++
		}
		items = append(items, it)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	titles := make(map[string][]int, len(items))
	for i := range items {
		s.itemIndex[items[i].ID] = i
		titles[items[i].Title] = append(titles[items[i].Title], items[i].ID)
	}
	for title, ids := range titles {
		if len(ids) > 1 {
			s.duplicateTitles[title] = ids
		}
	}

	s.items = items
	s.stats.Items = len(items)
}

type pairKey struct {
	user int
	item int
}

type pairAgg struct {
	rating Rating
	sum    float64
	count  int
}

// dedupe applies the duplicate policy and drops orphan or invalid ratings.
func (s *Store) dedupe(in []Rating, policy DuplicatePolicy) ([]Rating, error) {
	aggs := make([]pairAgg, 0, len(in))
	index := make(map[pairKey]int, len(in))

	for _, r := range in {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			s.stats.InvalidRatings++
			continue
		}
		if _, ok := s.itemIndex[r.ItemID]; !ok {
			s.stats.OrphanRatings++
			continue
		}

		key := pairKey{user: r.UserID, item: r.ItemID}
		pos, dup := index[key]
		if !dup {
			index[key] = len(aggs)
			aggs = append(aggs, pairAgg{rating: r, sum: r.Value, count: 1})
			continue
		}

		s.stats.Duplicates++
		agg := &aggs[pos]
		switch policy {
		case DuplicateReject:
			return nil, fmt.Errorf("%w: user %d item %d", ErrDuplicateRating, r.UserID, r.ItemID)
		case DuplicateKeepFirst:
			if r.Timestamp < agg.rating.Timestamp {
				agg.rating = r
			}
		case DuplicateMean:
			agg.sum += r.Value
			agg.count++
			if r.Timestamp > agg.rating.Timestamp {
				agg.rating.Timestamp = r.Timestamp
			}
		default:
			if r.Timestamp >= agg.rating.Timestamp {
				agg.rating = r
			}
		}
	}

	out := make([]Rating, len(aggs))
	for i, agg := range aggs {
		out[i] = agg.rating
		if policy == DuplicateMean {
			out[i].Value = agg.sum / float64(agg.count)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out, nil
}

// index builds per-user and per-item views over the sorted ratings.
func (s *Store) index(sorted []Rating) {
	s.ratings = sorted

	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i == len(sorted) || sorted[i].UserID != sorted[start].UserID {
			uid := sorted[start].UserID
			s.users = append(s.users, uid)
			s.byUser[uid] = sorted[start:i:i]
			start = i
		}
	}

	for _, r := range sorted {
		s.byItem[r.ItemID] = append(s.byItem[r.ItemID], r.Value)
	}

	s.stats.Ratings = len(sorted)
	s.stats.Users = len(s.users)
	s.stats.RatedItems = len(s.byItem)
}

// Ratings returns all kept observations sorted by user, then item.
func (s *Store) Ratings() []Rating {
	return s.ratings
}

// Items returns the catalog sorted by id.
func (s *Store) Items() []Item {
	return s.items
}

// Item looks up an item by id.
func (s *Store) Item(id int) (*Item, bool) {
	i, ok := s.itemIndex[id]
	if !ok {
		return nil, false
	}
	return &s.items[i], true
}

// Users returns the ids of every user with at least one kept rating, ascending.
func (s *Store) Users() []int {
	return s.users
}

// HasUser reports whether the user has at least one kept rating.
func (s *Store) HasUser(id int) bool {
	_, ok := s.byUser[id]
	return ok
}

// UserRatings returns the user's observations sorted by item id.
func (s *Store) UserRatings(id int) []Rating {
	return s.byUser[id]
}

// ItemRatings returns every observed value for the item.
func (s *Store) ItemRatings(id int) []float64 {
	return s.byItem[id]
}

// RatingCount returns how many users rated the item.
func (s *Store) RatingCount(id int) int {
	return len(s.byItem[id])
}

// AverageRating returns the mean observed rating of the item.
// It reports false when nobody rated the item.
func (s *Store) AverageRating(id int) (float64, bool) {
	values := s.byItem[id]
	if len(values) == 0 {
		return 0, false
	}
	return stat.Mean(values, nil), true
}

// DuplicateTitles maps each title shared by more than one item to those item ids.
func (s *Store) DuplicateTitles() map[string][]int {
	return s.duplicateTitles
}

// Stats returns construction statistics.
func (s *Store) Stats() Stats {
	return s.stats
}
