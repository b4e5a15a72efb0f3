// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps a thread-safe singleton validator, registers the recommender's
// custom tags, and converts validator failures into a RequestValidationError
// with one human-readable message per field.
//
// # Custom Tags
//
//   - genre: a selectable MovieLens genre name ("Film-Noir", "sci-fi", ...).
//     The "unknown" genre is rejected.
//   - duplicatepolicy: last, first, mean or reject. Empty is allowed.
//
// # Quick Start
//
//	type GenreRequest struct {
//	    Genres []string `validate:"min=1,dive,genre"`
//	    N      int      `validate:"gte=0"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    for _, fe := range verr.Errors() {
//	        fmt.Println(fe.Field(), fe.Tag(), fe.Error())
//	    }
//	}
//
// # Thread Safety
//
// GetValidator and ValidateStruct are safe for concurrent use. The underlying
// validator caches struct metadata after the first validation of each type.
package validation
