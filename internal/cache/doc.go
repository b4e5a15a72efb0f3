// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package cache provides a thread-safe, generic LRU cache with optional TTL.

The recommendation engine keeps compiled filter expressions in an LRU keyed by
the expression text, so repeated -where clauses skip CEL parsing and type
checking.

# Usage Example

	filters := cache.NewLRU[string, *recommend.ItemFilter](256, 0)

	if f, ok := filters.Get(expr); ok {
	    return f, nil
	}
	f, err := recommend.CompileFilter(expr)
	if err != nil {
	    return nil, err
	}
	evicted := filters.Add(expr, f)

# Expiry

A zero TTL keeps entries until they are evicted for capacity. With a TTL,
expired entries are dropped lazily by Get and Contains, or in bulk by
CleanupExpired.

# Thread Safety

All methods are safe for concurrent use. Stored values are shared between
callers and must be safe for concurrent use themselves.
*/
package cache
