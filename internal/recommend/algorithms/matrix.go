// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package algorithms

import (
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/reelmatch/internal/ratings"
)

// UserItemMatrix is the dense user x item rating matrix.
//
// Rows are users with at least one rating, ascending by id. Columns are all
// catalog items, ascending by id, so never-rated items have an all-missing
// column. A cell is present only when its observed flag is set.
type UserItemMatrix struct {
	users     []int
	items     []int
	userIndex map[int]int
	itemIndex map[int]int

	// values is zero-filled; nil when either dimension is zero.
	values   *mat.Dense
	observed []bool

	// raters lists, per column, the rows with an observation.
	raters [][]int
	// rated lists, per row, the columns with an observation.
	rated [][]int

	observations int
}

// BuildMatrix projects a store into a UserItemMatrix.
func BuildMatrix(store *ratings.Store) *UserItemMatrix {
	users := store.Users()
	catalog := store.Items()

	m := &UserItemMatrix{
		users:     users,
		items:     make([]int, len(catalog)),
		userIndex: make(map[int]int, len(users)),
		itemIndex: make(map[int]int, len(catalog)),
		observed:  make([]bool, len(users)*len(catalog)),
		raters:    make([][]int, len(catalog)),
		rated:     make([][]int, len(users)),
	}

	for row, uid := range users {
		m.userIndex[uid] = row
	}
	for col := range catalog {
		m.items[col] = catalog[col].ID
		m.itemIndex[catalog[col].ID] = col
	}

	if len(users) > 0 && len(catalog) > 0 {
		m.values = mat.NewDense(len(users), len(catalog), nil)
	}

	// Store ratings are sorted by user then item, so rated[row] and
	// raters[col] come out ascending.
	for _, r := range store.Ratings() {
		row, okU := m.userIndex[r.UserID]
		col, okI := m.itemIndex[r.ItemID]
		if !okU || !okI {
			continue
		}
		m.values.Set(row, col, r.Value)
		m.observed[row*len(catalog)+col] = true
		m.rated[row] = append(m.rated[row], col)
		m.raters[col] = append(m.raters[col], row)
		m.observations++
	}

	return m
}

// Dims returns the number of users (rows) and items (columns).
func (m *UserItemMatrix) Dims() (users, items int) {
	return len(m.users), len(m.items)
}

// Users returns the row user ids in row order.
func (m *UserItemMatrix) Users() []int {
	return m.users
}

// Items returns the column item ids in column order.
func (m *UserItemMatrix) Items() []int {
	return m.items
}

// UserIndex returns the row of a user.
func (m *UserItemMatrix) UserIndex(userID int) (int, bool) {
	row, ok := m.userIndex[userID]
	return row, ok
}

// ItemIndex returns the column of an item.
func (m *UserItemMatrix) ItemIndex(itemID int) (int, bool) {
	col, ok := m.itemIndex[itemID]
	return col, ok
}

// UserAt returns the user id of a row.
func (m *UserItemMatrix) UserAt(row int) int {
	return m.users[row]
}

// ItemAt returns the item id of a column.
func (m *UserItemMatrix) ItemAt(col int) int {
	return m.items[col]
}

// Observed reports whether the cell holds a rating.
func (m *UserItemMatrix) Observed(row, col int) bool {
	return m.observed[row*len(m.items)+col]
}

// Rating returns the cell value and whether it was observed.
func (m *UserItemMatrix) Rating(row, col int) (float64, bool) {
	if !m.Observed(row, col) {
		return 0, false
	}
	return m.values.At(row, col), true
}

// RatingFor looks up a cell by user and item id.
func (m *UserItemMatrix) RatingFor(userID, itemID int) (float64, bool) {
	row, okU := m.userIndex[userID]
	col, okI := m.itemIndex[itemID]
	if !okU || !okI {
		return 0, false
	}
	return m.Rating(row, col)
}

// Raters returns the rows that rated a column, ascending.
func (m *UserItemMatrix) Raters(col int) []int {
	return m.raters[col]
}

// Rated returns the columns a row rated, ascending.
func (m *UserItemMatrix) Rated(row int) []int {
	return m.rated[row]
}

// Dense returns the zero-filled values, or nil for an empty matrix.
// Callers must not modify it.
func (m *UserItemMatrix) Dense() *mat.Dense {
	return m.values
}

// Observations returns the number of present cells.
func (m *UserItemMatrix) Observations() int {
	return m.observations
}

// Density returns the fraction of present cells.
func (m *UserItemMatrix) Density() float64 {
	cells := len(m.users) * len(m.items)
	if cells == 0 {
		return 0
	}
	return float64(m.observations) / float64(cells)
}
