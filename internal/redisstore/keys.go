// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package redisstore

import (
	"strings"

	"github.com/tomtom215/reelmatch/internal/ratings"
)

// DefaultKeyPrefix is used when New is given an empty prefix.
const DefaultKeyPrefix = "reelmatch"

const (
	partMeta     = "meta"
	partItems    = "items"
	partRatings  = "ratings"
	partExternal = "external"
)

// keyspace builds every key the store touches.
type keyspace struct {
	prefix string
}

func newKeyspace(prefix string) keyspace {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return keyspace{prefix: prefix}
}

func (k keyspace) current() string {
	return k.prefix + ":current"
}

func (k keyspace) part(version, part string) string {
	return k.prefix + ":dataset:" + version + ":" + part
}

// version lists all keys of one dataset version.
func (k keyspace) version(version string) []string {
	return []string{
		k.part(version, partMeta),
		k.part(version, partItems),
		k.part(version, partRatings),
		k.part(version, partExternal),
	}
}

// chunkRatings splits rs into consecutive slices of at most size ratings.
func chunkRatings(rs []ratings.Rating, size int) [][]ratings.Rating {
	if size <= 0 {
		size = defaultChunkSize
	}
	chunks := make([][]ratings.Rating, 0, (len(rs)+size-1)/size)
	for start := 0; start < len(rs); start += size {
		end := min(start+size, len(rs))
		chunks = append(chunks, rs[start:end:end])
	}
	return chunks
}
