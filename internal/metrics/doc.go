// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package metrics provides Prometheus metrics for the recommender.

All collectors are registered with the default registry through promauto and
are exposed by the metrics server at /metrics:

	curl http://localhost:9464/metrics

# Available Metrics

Snapshot Metrics:
  - reelmatch_snapshot_build_duration_seconds: Build time (histogram)
    Labels: source
  - reelmatch_snapshot_build_failures_total: Failed builds (counter)
    Labels: source, stage (load, store, similarity)
  - reelmatch_snapshot_swaps_total: Snapshots made current (counter)
  - reelmatch_snapshot_users, reelmatch_snapshot_items, reelmatch_snapshot_ratings (gauges)
  - reelmatch_snapshot_density_ratio: Observed fraction of the matrix (gauge)
  - reelmatch_similarity_matrix_bytes: Estimated similarity matrix size (gauge)
  - reelmatch_similarity_complexity_warnings_total (counter)

Query Metrics:
  - reelmatch_query_duration_seconds: Query latency (histogram)
    Labels: kind (recommend, genre, predict, seen)
  - reelmatch_queries_total: Queries by outcome (counter)
    Labels: kind, outcome (ok, empty, invalid, error)
  - reelmatch_predictions_skipped_total: Candidates without a score (counter)
    Labels: kind

HTTP Metrics:
  - api_requests_total: Requests (counter)
    Labels: method, endpoint (route pattern), status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)

Cache Metrics:
  - cache_hits_total, cache_misses_total, cache_evictions_total (counters)
    Labels: cache_type (filter)

Loader and Storage Metrics:
  - reelmatch_loader_recoveries_total: Optional inputs replaced by defaults (counter)
    Labels: source, input
  - reelmatch_loader_records_skipped_total: Malformed records dropped (counter)
    Labels: input
  - duckdb_query_duration_seconds, duckdb_query_errors_total
  - redis_operation_duration_seconds, redis_operation_errors_total

# Usage

	start := time.Now()
	resp, err := engine.Recommend(ctx, req)
	metrics.RecordQuery("recommend", metrics.OutcomeOK, time.Since(start), resp.Metadata.Skipped)

# Thread Safety

All Record* functions are safe for concurrent use.
*/
package metrics
