// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package redisstore

import (
	"fmt"
	"strconv"
	"time"
)

// Manifest describes one published dataset version.
type Manifest struct {
	Version         string    `json:"version"`
	Source          string    `json:"source"`
	PublishedAt     time.Time `json:"published_at"`
	Ratings         int       `json:"ratings"`
	Items           int       `json:"items"`
	ExternalRatings int       `json:"external_ratings"`
	Chunks          int       `json:"chunks"`
}

const (
	fieldVersion     = "version"
	fieldSource      = "source"
	fieldPublishedAt = "published_at"
	fieldRatings     = "ratings"
	fieldItems       = "items"
	fieldExternal    = "external_ratings"
	fieldChunks      = "chunks"
)

// fields flattens the manifest into hash fields.
func (m Manifest) fields() map[string]any {
	return map[string]any{
		fieldVersion:     m.Version,
		fieldSource:      m.Source,
		fieldPublishedAt: m.PublishedAt.UTC().Format(time.RFC3339Nano),
		fieldRatings:     m.Ratings,
		fieldItems:       m.Items,
		fieldExternal:    m.ExternalRatings,
		fieldChunks:      m.Chunks,
	}
}

// parseManifest rebuilds a manifest from HGETALL output.
func parseManifest(fields map[string]string) (Manifest, error) {
	m := Manifest{
		Version: fields[fieldVersion],
		Source:  fields[fieldSource],
	}
	if m.Version == "" {
		return m, fmt.Errorf("manifest missing %s", fieldVersion)
	}

	published, err := time.Parse(time.RFC3339Nano, fields[fieldPublishedAt])
	if err != nil {
		return m, fmt.Errorf("manifest %s: %w", fieldPublishedAt, err)
	}
	m.PublishedAt = published

	for name, dst := range map[string]*int{
		fieldRatings:  &m.Ratings,
		fieldItems:    &m.Items,
		fieldExternal: &m.ExternalRatings,
		fieldChunks:   &m.Chunks,
	} {
		n, err := strconv.Atoi(fields[name])
		if err != nil {
			return m, fmt.Errorf("manifest %s: %w", name, err)
		}
		*dst = n
	}
	return m, nil
}
