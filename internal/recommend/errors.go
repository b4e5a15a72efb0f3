// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"errors"
	"fmt"

	"github.com/tomtom215/reelmatch/internal/ratings"
	"github.com/tomtom215/reelmatch/internal/recommend/algorithms"
)

var (
	// ErrInvalidRequest wraps every error caused by the caller's input.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnknownUser is returned for a user with no ratings in the current snapshot.
	ErrUnknownUser = errors.New("unknown user")

	// ErrNoGenres is returned when a genre request selects nothing.
	ErrNoGenres = algorithms.ErrNoGenres

	// ErrUnknownGenre is returned for a genre name outside the enumeration.
	ErrUnknownGenre = ratings.ErrUnknownGenre

	// ErrInvalidFilter is returned when a filter expression does not compile.
	ErrInvalidFilter = errors.New("invalid filter expression")

	// ErrNoSnapshot is returned by queries before the first successful build.
	ErrNoSnapshot = errors.New("no snapshot built yet")

	// ErrNoSource is returned by Rebuild when no data source was set.
	ErrNoSource = errors.New("data source not set")

	// ErrCapacityExceeded is returned when the user count is above the configured limit.
	ErrCapacityExceeded = algorithms.ErrCapacityExceeded
)

// IsValidation reports whether err was caused by invalid caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}

// invalid marks err as a validation failure.
func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
}
