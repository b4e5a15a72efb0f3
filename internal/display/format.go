// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package display

import (
	"strconv"
	"strings"
)

// NotAvailable is shown for unknown ratings.
const NotAvailable = "N/A"

// FormatRating prints a rating with two decimals.
func FormatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatOptional prints a rating or NotAvailable when it is nil.
func FormatOptional(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return FormatRating(*v)
}

// FormatTitle appends the year when the title does not already end with it.
func FormatTitle(title string, year int) string {
	if year == 0 {
		return title
	}
	suffix := "(" + strconv.Itoa(year) + ")"
	if strings.HasSuffix(strings.TrimSpace(title), suffix) {
		return title
	}
	return title + " " + suffix
}

func formatURL(url string) string {
	if url == "" {
		return "-"
	}
	return url
}
