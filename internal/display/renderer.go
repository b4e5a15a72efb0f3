// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// Output formats accepted by NewRenderer.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Renderer writes engine results to an output stream.
type Renderer interface {
	// Recommendations renders a Recommend or RecommendByGenre response.
	Recommendations(resp *recommend.Response) error

	// Seen renders the items a user rated.
	Seen(userID int, items []recommend.SeenItem) error

	// Prediction renders a single prediction. found is false when no
	// prediction exists for the pair.
	Prediction(userID, itemID int, p recommend.Prediction, found bool) error

	// Users renders the user directory.
	Users(dir *UserDirectory) error

	// Genres renders the selectable genre names.
	Genres(genres []string) error

	// Status renders engine status.
	Status(s recommend.Status) error

	// Message renders an informational line.
	Message(format string, args ...any) error
}

// NewRenderer returns the renderer for format, FormatTable when empty.
func NewRenderer(format string, w io.Writer) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatTable:
		return NewTableRenderer(w), nil
	case FormatJSON:
		return NewJSONRenderer(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want %s or %s)", format, FormatTable, FormatJSON)
	}
}
