// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Snapshot Metrics
	SnapshotBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_snapshot_build_duration_seconds",
			Help:    "Duration of snapshot builds (load, matrix, similarity) in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"source"},
	)

	SnapshotBuildFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_snapshot_build_failures_total",
			Help: "Total number of failed snapshot builds",
		},
		[]string{"source", "stage"}, // stage: "load", "store", "similarity"
	)

	SnapshotSwaps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmatch_snapshot_swaps_total",
			Help: "Total number of snapshots made current",
		},
	)

	SnapshotUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_snapshot_users",
			Help: "Number of users (matrix rows) in the current snapshot",
		},
	)

	SnapshotItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_snapshot_items",
			Help: "Number of catalog items (matrix columns) in the current snapshot",
		},
	)

	SnapshotRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_snapshot_ratings",
			Help: "Number of observed ratings in the current snapshot",
		},
	)

	SnapshotDensity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_snapshot_density_ratio",
			Help: "Fraction of matrix cells holding a rating",
		},
	)

	SimilarityBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_similarity_matrix_bytes",
			Help: "Estimated memory held by the user similarity matrix",
		},
	)

	ComplexityWarnings = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmatch_similarity_complexity_warnings_total",
			Help: "Total number of builds whose user count exceeded the warning threshold",
		},
	)
)

var (
	// Query Metrics
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_query_duration_seconds",
			Help:    "Duration of engine queries in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"kind"}, // kind: "recommend", "genre", "predict", "seen"
	)

	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_queries_total",
			Help: "Total number of engine queries",
		},
		[]string{"kind", "outcome"}, // outcome: "ok", "empty", "invalid", "error"
	)

	PredictionsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_predictions_skipped_total",
			Help: "Total number of candidates dropped for lack of a prediction or rating",
		},
		[]string{"kind"},
	)
)

var (
	// Loader Metrics
	LoaderRecoveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_loader_recoveries_total",
			Help: "Total number of optional inputs replaced by an empty default after a load failure",
		},
		[]string{"source", "input"},
	)

	LoaderRecordsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_loader_records_skipped_total",
			Help: "Total number of malformed input records skipped",
		},
		[]string{"input"},
	)

	// HTTP Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "filter"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions",
		},
		[]string{"cache_type"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Redis Metrics
	RedisOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Duration of Redis operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	RedisOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operation_errors_total",
			Help: "Total number of failed Redis operations",
		},
		[]string{"operation"},
	)
)

// Query outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// RecordSnapshotBuild records a finished snapshot build and, on success,
// the dimensions of the new snapshot.
func RecordSnapshotBuild(source string, duration time.Duration, users, items, ratings int, density float64) {
	SnapshotBuildDuration.WithLabelValues(source).Observe(duration.Seconds())
	SnapshotSwaps.Inc()
	SnapshotUsers.Set(float64(users))
	SnapshotItems.Set(float64(items))
	SnapshotRatings.Set(float64(ratings))
	SnapshotDensity.Set(density)
}

// RecordSnapshotFailure records a build that failed at the given stage.
func RecordSnapshotFailure(source, stage string) {
	SnapshotBuildFailures.WithLabelValues(source, stage).Inc()
}

// RecordComplexityWarning records a build above the user warning threshold.
func RecordComplexityWarning(estimatedBytes int64) {
	ComplexityWarnings.Inc()
	SimilarityBytes.Set(float64(estimatedBytes))
}

// RecordQuery records an engine query.
func RecordQuery(kind, outcome string, duration time.Duration, skipped int) {
	QueryDuration.WithLabelValues(kind).Observe(duration.Seconds())
	QueriesTotal.WithLabelValues(kind, outcome).Inc()
	if skipped > 0 {
		PredictionsSkipped.WithLabelValues(kind).Add(float64(skipped))
	}
}

// RecordLoaderRecovery records an optional input that failed to load.
func RecordLoaderRecovery(source, input string) {
	LoaderRecoveries.WithLabelValues(source, input).Inc()
}

// RecordSkippedRecords records malformed records dropped while parsing an input.
func RecordSkippedRecords(input string, n int) {
	if n > 0 {
		LoaderRecordsSkipped.WithLabelValues(input).Add(float64(n))
	}
}

// RecordDBQuery records DuckDB query execution time and errors.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordRedisOperation records a Redis round trip.
func RecordRedisOperation(operation string, duration time.Duration, err error) {
	RedisOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		RedisOperationErrors.WithLabelValues(operation).Inc()
	}
}

// RecordAPIRequest records one HTTP request. endpoint is the route pattern,
// not the raw path, to keep label cardinality bounded.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordCacheEviction records entries dropped for capacity or expiry.
func RecordCacheEviction(cacheType string, n int) {
	if n > 0 {
		CacheEvictions.WithLabelValues(cacheType).Add(float64(n))
	}
}
