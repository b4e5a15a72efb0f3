// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package config provides centralized configuration management for Reelmatch.

# Configuration Sources

Configuration is layered with Koanf v2, later layers overriding earlier ones:
  - Built-in defaults (defaultConfig)
  - An optional YAML file: CONFIG_PATH, then reelmatch.yaml, then /etc/reelmatch/config.yaml
  - Mapped environment variables

# Environment Variables

Data:
  - REELMATCH_DATA_SOURCE: file, duckdb or redis (default: file)
  - REELMATCH_RATINGS_PATH: MovieLens u.data (default: data/u.data)
  - REELMATCH_ITEMS_PATH: MovieLens u.item (default: data/u.item)
  - REELMATCH_EXTERNAL_RATINGS_PATH: imdb_ratings.csv, empty disables (default: data/imdb_ratings.csv)
  - REELMATCH_DUPLICATES: last, first, mean or reject (default: last)

DuckDB:
  - DUCKDB_PATH (default: reelmatch.duckdb)
  - DUCKDB_MAX_MEMORY (default: 1GB)
  - DUCKDB_THREADS (default: 0, DuckDB decides)

Redis:
  - REDIS_ADDRS: comma-separated host:port list (default: localhost:6379)
  - REDIS_PASSWORD, REDIS_DB, REDIS_KEY_PREFIX (default: reelmatch), REDIS_DIAL_TIMEOUT

Engine:
  - RECOMMEND_DEFAULT_N (default: 5), RECOMMEND_MAX_N (default: 100)
  - RECOMMEND_PRECISION: decimals in responses (default: 2)
  - RECOMMEND_WORKERS, RECOMMEND_ROW_BLOCK: similarity parallelism
  - RECOMMEND_WARN_USERS (default: 10000), RECOMMEND_MAX_USERS (default: 0, unlimited)
  - RECOMMEND_BUILD_TIMEOUT (default: 5m)

Reload and observability:
  - RELOAD_INTERVAL (default: 0, disabled), RELOAD_ON_STARTUP (default: true)
  - METRICS_ENABLED (default: false), METRICS_ADDR (default: 127.0.0.1:9464)
  - LOG_LEVEL (default: info), LOG_FORMAT (default: console), LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    return fmt.Errorf("load config: %w", err)
	}

Validation runs inside Load; section validators only check the sections the
selected data source needs.
*/
package config
