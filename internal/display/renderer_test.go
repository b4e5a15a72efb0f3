// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

func ptr(v float64) *float64 {
	return &v
}

func testResponse() *recommend.Response {
	return &recommend.Response{
		Items: []recommend.Recommendation{
			{Rank: 1, ItemID: 3, Title: "Gamma", Year: 1995, Score: 4.67, AverageRating: ptr(4.5),
				RatingCount: 2, ExternalRating: ptr(7.9), URL: "http://imdb/gamma", Genres: []string{"Drama"}},
			{Rank: 2, ItemID: 4, Title: "Delta", Score: 3.5, RatingCount: 1, Genres: []string{"Comedy", "Romance"}},
		},
		Metadata: recommend.ResponseMetadata{
			RequestID:  "req-1",
			Kind:       recommend.KindRecommend,
			UserID:     1,
			N:          5,
			Candidates: 3,
			Skipped:    1,
			SnapshotID: "0123456789abcdef",
			Timestamp:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"", false},
		{"table", false},
		{"JSON", false},
		{"yaml", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			_, err := NewRenderer(tt.format, &bytes.Buffer{})
			if (err != nil) != tt.wantErr {
				t.Errorf("NewRenderer(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestTableRenderer_Recommendations(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableRenderer(&buf).Recommendations(testResponse()); err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Top 5 for User 1",
		"Gamma (1995)",
		"4.67",
		"4.50",
		"7.90",
		"http://imdb/gamma",
		"Comedy, Romance",
		NotAvailable,
		"snapshot 01234567",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTableRenderer_EmptyResults(t *testing.T) {
	var buf bytes.Buffer
	r := NewTableRenderer(&buf)

	resp := &recommend.Response{Metadata: recommend.ResponseMetadata{
		Kind: recommend.KindGenre, N: 5, Genres: []string{"Comedy", "Western"},
	}}
	if err := r.Recommendations(resp); err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}
	if err := r.Seen(9, nil); err != nil {
		t.Fatalf("Seen() error = %v", err)
	}
	if err := r.Prediction(1, 4, recommend.Prediction{}, false); err != nil {
		t.Fatalf("Prediction() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Top 5 in Comedy + Western: no recommendations",
		"Rated by User 9: nothing rated",
		"No prediction for User 1 on item 4",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTableRenderer_Listings(t *testing.T) {
	var buf bytes.Buffer
	r := NewTableRenderer(&buf)

	if err := r.Users(NewUserDirectory([]int{1, 2})); err != nil {
		t.Fatalf("Users() error = %v", err)
	}
	if err := r.Genres([]string{"Action", "Western"}); err != nil {
		t.Fatalf("Genres() error = %v", err)
	}
	if err := r.Status(recommend.Status{Ready: true, SnapshotID: "snap", Users: 943, Density: 0.063, SimilarityBytes: 7114192, Builds: 1}); err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if err := r.Prediction(1, 3, recommend.Prediction{Title: "Gamma", Score: 4.67, Neighbors: 2, WeightSum: 1.5}, true); err != nil {
		t.Fatalf("Prediction() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"User 2", "2 users", "Western", "943", "6.30%", "6.8 MiB", "Gamma", "1.5000"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)

	if err := r.Recommendations(testResponse()); err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}

	var resp recommend.Response
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(resp.Items) != 2 || resp.Items[0].Title != "Gamma" {
		t.Errorf("decoded items = %+v", resp.Items)
	}
	if resp.Items[1].ExternalRating != nil {
		t.Errorf("missing external rating decoded as %v, want nil", *resp.Items[1].ExternalRating)
	}
	if !strings.Contains(buf.String(), `"external_rating": null`) {
		t.Errorf("missing external rating not encoded as null:\n%s", buf.String())
	}
}

func TestJSONRenderer_Documents(t *testing.T) {
	tests := []struct {
		name   string
		render func(Renderer) error
		want   string
	}{
		{"seen empty", func(r Renderer) error { return r.Seen(4, nil) }, `"items": []`},
		{"seen user", func(r Renderer) error { return r.Seen(4, nil) }, `"user": "User 4"`},
		{"prediction missing", func(r Renderer) error {
			return r.Prediction(1, 2, recommend.Prediction{}, false)
		}, `"found": false`},
		{"users", func(r Renderer) error { return r.Users(NewUserDirectory([]int{5})) }, `"name": "User 5"`},
		{"genres", func(r Renderer) error { return r.Genres(nil) }, `"genres": []`},
		{"message", func(r Renderer) error { return r.Message("imported %d", 3) }, `"message": "imported 3"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.render(NewJSONRenderer(&buf)); err != nil {
				t.Fatalf("render error = %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %s, want it to contain %s", buf.String(), tt.want)
			}
			if !json.Valid(buf.Bytes()) {
				t.Errorf("output is not valid JSON: %s", buf.String())
			}
		})
	}
}
