// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package display turns engine results into terminal tables or JSON.
//
// It owns every presentation concern: the "User <id>" directory used to
// name users, rating formatting (two decimals, N/A for unknown external
// ratings) and the two Renderer implementations.
//
//	r, err := display.NewRenderer(display.FormatTable, os.Stdout)
//	if err != nil {
//	    return err
//	}
//	return r.Recommendations(resp, users)
package display
