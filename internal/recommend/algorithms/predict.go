// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package algorithms

import "math"

// Prediction is a predicted rating for a (user, item) pair.
type Prediction struct {
	UserID int
	ItemID int

	// Score is the full-precision weighted average.
	Score float64

	// Neighbors is the number of other users who rated the item.
	Neighbors int

	// WeightSum is the sum of their similarities to the target user.
	WeightSum float64
}

// Rounded returns the score rounded for presentation.
func (p Prediction) Rounded(precision int) float64 {
	return Round(p.Score, precision)
}

// Predictor estimates ratings from similar users.
//
// For a target user u and item i:
//
//	score(u, i) = Σ sim(u, v)·r(v, i) / Σ sim(u, v)
//
// over every user v != u who rated i.
type Predictor struct {
	matrix     *UserItemMatrix
	similarity *SimilarityMatrix
}

// NewPredictor creates a predictor over a matrix and its similarity matrix.
func NewPredictor(m *UserItemMatrix, s *SimilarityMatrix) *Predictor {
	return &Predictor{matrix: m, similarity: s}
}

// Predict returns the predicted rating of an item for a user.
//
// It reports false, without error, when the item or user is not in the
// matrix, when no other user rated the item, or when the similarity weights
// sum to zero.
func (p *Predictor) Predict(userID, itemID int) (Prediction, bool) {
	row, ok := p.matrix.UserIndex(userID)
	if !ok {
		return Prediction{}, false
	}
	col, ok := p.matrix.ItemIndex(itemID)
	if !ok {
		return Prediction{}, false
	}
	return p.predictAt(row, col)
}

func (p *Predictor) predictAt(row, col int) (Prediction, bool) {
	var num, den float64
	neighbors := 0

	for _, other := range p.matrix.Raters(col) {
		if other == row {
			continue
		}
		rating, _ := p.matrix.Rating(other, col)
		sim := p.similarity.At(row, other)
		num += sim * rating
		den += sim
		neighbors++
	}

	if neighbors == 0 || den == 0 {
		return Prediction{}, false
	}

	score := num / den
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return Prediction{}, false
	}

	return Prediction{
		UserID:    p.matrix.UserAt(row),
		ItemID:    p.matrix.ItemAt(col),
		Score:     score,
		Neighbors: neighbors,
		WeightSum: den,
	}, true
}
