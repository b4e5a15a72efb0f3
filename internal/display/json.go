// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package display

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// JSONRenderer writes one indented JSON document per call.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &JSONRenderer{enc: enc}
}

// Recommendations implements Renderer.
func (r *JSONRenderer) Recommendations(resp *recommend.Response) error {
	return r.enc.Encode(resp)
}

type seenDocument struct {
	UserID int                  `json:"user_id"`
	User   string               `json:"user"`
	Items  []recommend.SeenItem `json:"items"`
}

// Seen implements Renderer.
func (r *JSONRenderer) Seen(userID int, items []recommend.SeenItem) error {
	if items == nil {
		items = []recommend.SeenItem{}
	}
	return r.enc.Encode(seenDocument{UserID: userID, User: UserName(userID), Items: items})
}

type predictionDocument struct {
	UserID     int                   `json:"user_id"`
	ItemID     int                   `json:"item_id"`
	Found      bool                  `json:"found"`
	Prediction *recommend.Prediction `json:"prediction,omitempty"`
}

// Prediction implements Renderer.
func (r *JSONRenderer) Prediction(userID, itemID int, p recommend.Prediction, found bool) error {
	doc := predictionDocument{UserID: userID, ItemID: itemID, Found: found}
	if found {
		doc.Prediction = &p
	}
	return r.enc.Encode(doc)
}

type userEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Users implements Renderer.
func (r *JSONRenderer) Users(dir *UserDirectory) error {
	users := make([]userEntry, 0, dir.Len())
	for _, id := range dir.IDs() {
		name, _ := dir.Name(id)
		users = append(users, userEntry{ID: id, Name: name})
	}
	return r.enc.Encode(map[string]any{"users": users})
}

// Genres implements Renderer.
func (r *JSONRenderer) Genres(genres []string) error {
	if genres == nil {
		genres = []string{}
	}
	return r.enc.Encode(map[string]any{"genres": genres})
}

// Status implements Renderer.
func (r *JSONRenderer) Status(s recommend.Status) error {
	return r.enc.Encode(s)
}

// Message implements Renderer.
func (r *JSONRenderer) Message(format string, args ...any) error {
	return r.enc.Encode(map[string]string{"message": fmt.Sprintf(format, args...)})
}
