// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package movielens

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/ratings"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func fixturePaths(t *testing.T) Paths {
	t.Helper()
	dir := t.TempDir()
	return Paths{
		Ratings: writeFile(t, dir, "u.data", "1\t1\t5\t100\n1\t2\t3\t100\n2\t1\t4\t100\n"),
		Items: writeFile(t, dir, "u.item",
			itemLine("1", "Toy Story (1995)", "01-Jan-1995", "http://imdb/1", ratings.GenreComedy)+
				itemLine("2", "GoldenEye (1995)", "01-Jan-1995", "http://imdb/2", ratings.GenreAction)),
		External: writeFile(t, dir, "imdb_ratings.csv", "IMDb_URL,imdb_rating\nhttp://imdb/1,8.3\n"),
	}
}

func TestFileSource_Load(t *testing.T) {
	src := NewFileSource(fixturePaths(t), zerolog.Nop())
	if src.Name() != "file" {
		t.Errorf("Name() = %q, want file", src.Name())
	}

	ds, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(ds.Ratings) != 3 || len(ds.Items) != 2 || len(ds.ExternalRatings) != 1 {
		t.Errorf("Load() = %d ratings, %d items, %d external, want 3, 2, 1",
			len(ds.Ratings), len(ds.Items), len(ds.ExternalRatings))
	}

	var _ ratings.Source = src
}

func TestFileSource_ExternalRecovered(t *testing.T) {
	tests := []struct {
		name     string
		external func(t *testing.T, dir string) string
		recovery bool
	}{
		{
			name:     "missing file",
			external: func(_ *testing.T, dir string) string { return filepath.Join(dir, "absent.csv") },
			recovery: true,
		},
		{
			name: "wrong header",
			external: func(t *testing.T, dir string) string {
				return writeFile(t, dir, "bad.csv", "url,score\nhttp://imdb/1,8\n")
			},
			recovery: true,
		},
		{
			name:     "disabled",
			external: func(_ *testing.T, _ string) string { return "" },
			recovery: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := fixturePaths(t)
			paths.External = tt.external(t, t.TempDir())

			var buf bytes.Buffer
			src := NewFileSource(paths, zerolog.New(&buf))

			before := testutil.ToFloat64(metrics.LoaderRecoveries.WithLabelValues(SourceName, InputExternal))
			ds, err := src.Load(context.Background())
			if err != nil {
				t.Fatalf("Load() error = %v, want recovery", err)
			}
			after := testutil.ToFloat64(metrics.LoaderRecoveries.WithLabelValues(SourceName, InputExternal))

			if ds.ExternalRatings == nil || len(ds.ExternalRatings) != 0 {
				t.Errorf("ExternalRatings = %v, want empty list", ds.ExternalRatings)
			}
			if len(ds.Ratings) != 3 {
				t.Errorf("Ratings len = %d, want 3", len(ds.Ratings))
			}

			gotRecovery := after-before == 1
			if gotRecovery != tt.recovery {
				t.Errorf("recovery recorded = %v, want %v", gotRecovery, tt.recovery)
			}
			if tt.recovery && !strings.Contains(buf.String(), "external ratings unavailable") {
				t.Errorf("expected a warning log, got %q", buf.String())
			}
		})
	}
}

func TestFileSource_RequiredInputs(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Paths)
		want   string
	}{
		{name: "missing ratings", modify: func(p *Paths) { p.Ratings = "/non/existent/u.data" }, want: "load ratings"},
		{name: "missing items", modify: func(p *Paths) { p.Items = "/non/existent/u.item" }, want: "load items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := fixturePaths(t)
			tt.modify(&paths)

			_, err := NewFileSource(paths, zerolog.Nop()).Load(context.Background())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestFileSource_SkippedRecordsMetric(t *testing.T) {
	paths := fixturePaths(t)
	paths.Ratings = writeFile(t, t.TempDir(), "u.data", "1\t1\t5\t100\nbroken line\n2\t1\tx\t100\n")

	before := testutil.ToFloat64(metrics.LoaderRecordsSkipped.WithLabelValues(InputRatings))
	if _, err := NewFileSource(paths, zerolog.Nop()).Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	after := testutil.ToFloat64(metrics.LoaderRecordsSkipped.WithLabelValues(InputRatings))

	if after-before != 2 {
		t.Errorf("skipped records delta = %v, want 2", after-before)
	}
}
