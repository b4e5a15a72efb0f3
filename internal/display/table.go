// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// TableRenderer writes lipgloss tables. Colors follow the capabilities of
// the output, so a pipe or buffer gets plain text.
type TableRenderer struct {
	out io.Writer

	header lipgloss.Style
	cell   lipgloss.Style
	number lipgloss.Style
	border lipgloss.Style
	title  lipgloss.Style
	info   lipgloss.Style
	muted  lipgloss.Style
}

// NewTableRenderer creates a TableRenderer writing to w.
func NewTableRenderer(w io.Writer) *TableRenderer {
	r := lipgloss.NewRenderer(w)
	return &TableRenderer{
		out:    w,
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Padding(0, 1),
		cell:   r.NewStyle().Padding(0, 1),
		number: r.NewStyle().Padding(0, 1).Align(lipgloss.Right),
		border: r.NewStyle().Foreground(lipgloss.Color("#6C6C6C")),
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#6EC4F4")),
		info:   r.NewStyle().Foreground(lipgloss.Color("#6EF4A1")),
		muted:  r.NewStyle().Faint(true),
	}
}

// newTable builds a table whose listed columns are right-aligned.
func (r *TableRenderer) newTable(numeric map[int]bool, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.border).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return r.header
			case numeric[col]:
				return r.number
			default:
				return r.cell
			}
		})
}

func (r *TableRenderer) write(title string, body fmt.Stringer, footer string) error {
	var b strings.Builder
	if title != "" {
		b.WriteString(r.title.Render(title))
		b.WriteByte('\n')
	}
	b.WriteString(body.String())
	b.WriteByte('\n')
	if footer != "" {
		b.WriteString(r.muted.Render(footer))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(r.out, b.String())
	return err
}

// Recommendations implements Renderer.
func (r *TableRenderer) Recommendations(resp *recommend.Response) error {
	title := recommendationTitle(resp)
	if len(resp.Items) == 0 {
		return r.Message("%s: no recommendations", title)
	}

	t := r.newTable(map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true},
		"#", "Title", "Score", "Avg", "Ratings", "IMDb", "Genres", "Link")
	for _, item := range resp.Items {
		t.Row(
			strconv.Itoa(item.Rank),
			FormatTitle(item.Title, item.Year),
			FormatRating(item.Score),
			FormatOptional(item.AverageRating),
			strconv.Itoa(item.RatingCount),
			FormatOptional(item.ExternalRating),
			strings.Join(item.Genres, ", "),
			formatURL(item.URL),
		)
	}

	m := resp.Metadata
	footer := fmt.Sprintf("%d candidates, %d skipped, %d filtered | snapshot %s | %dms",
		m.Candidates, m.Skipped, m.Filtered, shortID(m.SnapshotID), m.LatencyMS)
	return r.write(title, t, footer)
}

func recommendationTitle(resp *recommend.Response) string {
	if resp.Metadata.Kind == recommend.KindGenre {
		return "Top " + strconv.Itoa(resp.Metadata.N) + " in " + strings.Join(resp.Metadata.Genres, " + ")
	}
	return "Top " + strconv.Itoa(resp.Metadata.N) + " for " + UserName(resp.Metadata.UserID)
}

// Seen implements Renderer.
func (r *TableRenderer) Seen(userID int, items []recommend.SeenItem) error {
	title := "Rated by " + UserName(userID)
	if len(items) == 0 {
		return r.Message("%s: nothing rated", title)
	}

	t := r.newTable(map[int]bool{1: true, 2: true, 3: true, 4: true},
		"Title", "Rating", "Avg", "Ratings", "IMDb", "Genres", "Link")
	for _, item := range items {
		t.Row(
			FormatTitle(item.Title, item.Year),
			FormatRating(item.Rating),
			FormatOptional(item.AverageRating),
			strconv.Itoa(item.RatingCount),
			FormatOptional(item.ExternalRating),
			strings.Join(item.Genres, ", "),
			formatURL(item.URL),
		)
	}
	return r.write(title, t, fmt.Sprintf("%d items", len(items)))
}

// Prediction implements Renderer.
func (r *TableRenderer) Prediction(userID, itemID int, p recommend.Prediction, found bool) error {
	if !found {
		return r.Message("No prediction for %s on item %d: no similar user rated it", UserName(userID), itemID)
	}
	t := r.newTable(map[int]bool{1: true, 2: true, 3: true},
		"Title", "Predicted", "Neighbors", "Weight")
	t.Row(
		p.Title,
		FormatRating(p.Score),
		strconv.Itoa(p.Neighbors),
		strconv.FormatFloat(p.WeightSum, 'f', 4, 64),
	)
	return r.write("Prediction for "+UserName(userID), t, "")
}

// Users implements Renderer.
func (r *TableRenderer) Users(dir *UserDirectory) error {
	t := r.newTable(map[int]bool{0: true}, "ID", "Name")
	for _, id := range dir.IDs() {
		name, _ := dir.Name(id)
		t.Row(strconv.Itoa(id), name)
	}
	return r.write("Users", t, fmt.Sprintf("%d users", dir.Len()))
}

// Genres implements Renderer.
func (r *TableRenderer) Genres(genres []string) error {
	t := r.newTable(map[int]bool{0: true}, "#", "Genre")
	for i, g := range genres {
		t.Row(strconv.Itoa(i+1), g)
	}
	return r.write("Genres", t, "")
}

// Status implements Renderer.
func (r *TableRenderer) Status(s recommend.Status) error {
	t := r.newTable(nil, "Field", "Value")
	t.Row("ready", strconv.FormatBool(s.Ready))
	t.Row("building", strconv.FormatBool(s.IsBuilding))
	if s.Ready {
		t.Row("snapshot", s.SnapshotID)
		t.Row("source", s.Source)
		t.Row("built at", s.BuiltAt.Format(time.RFC3339))
		t.Row("build time", (time.Duration(s.BuildDurationMS) * time.Millisecond).String())
		t.Row("users", strconv.Itoa(s.Users))
		t.Row("items", strconv.Itoa(s.Items))
		t.Row("ratings", strconv.Itoa(s.Ratings))
		t.Row("density", strconv.FormatFloat(s.Density*100, 'f', 2, 64)+"%")
		t.Row("similarity", formatBytes(s.SimilarityBytes))
		t.Row("duplicates", strconv.Itoa(s.Store.Duplicates))
		t.Row("orphans", strconv.Itoa(s.Store.OrphanRatings))
		t.Row("duplicate titles", strconv.Itoa(s.DuplicateTitles))
	}
	t.Row("builds", strconv.FormatInt(s.Builds, 10))
	t.Row("failures", strconv.FormatInt(s.Failures, 10))
	if s.LastError != "" {
		t.Row("last error", s.LastError)
	}
	return r.write("Status", t, "")
}

// Message implements Renderer.
func (r *TableRenderer) Message(format string, args ...any) error {
	_, err := fmt.Fprintln(r.out, r.info.Render(fmt.Sprintf(format, args...)))
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatInt(n, 10) + " B"
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
