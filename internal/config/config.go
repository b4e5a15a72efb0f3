// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"time"
)

// Data source names for DataConfig.Source.
const (
	SourceFile   = "file"
	SourceDuckDB = "duckdb"
	SourceRedis  = "redis"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Configuration Categories:
//
//  1. Data: where ratings come from (MovieLens files, DuckDB or Redis)
//  2. Engine: recommendation limits, similarity workers, build timeout
//  3. Reload: periodic snapshot rebuilds
//  4. Observability: metrics endpoint and logging
//
// Config is immutable after Load and safe for concurrent read access.
type Config struct {
	Data     DataConfig     `koanf:"data"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Engine   EngineConfig   `koanf:"engine"`
	Reload   ReloadConfig   `koanf:"reload"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DataConfig selects and locates the rating data.
//
// Environment Variables:
//   - REELMATCH_DATA_SOURCE: file, duckdb or redis (default: file)
//   - REELMATCH_RATINGS_PATH: MovieLens u.data (default: data/u.data)
//   - REELMATCH_ITEMS_PATH: MovieLens u.item (default: data/u.item)
//   - REELMATCH_EXTERNAL_RATINGS_PATH: optional imdb_ratings.csv, empty disables
//   - REELMATCH_DUPLICATES: last, first, mean or reject (default: last)
type DataConfig struct {
	Source       string `koanf:"source"`
	RatingsPath  string `koanf:"ratings_path"`
	ItemsPath    string `koanf:"items_path"`
	ExternalPath string `koanf:"external_path"`
	Duplicates   string `koanf:"duplicates"`
}

// DatabaseConfig holds DuckDB settings for the duckdb source and imports.
type DatabaseConfig struct {
	Path      string `koanf:"path"`       // ":memory:" for an in-process database
	MaxMemory string `koanf:"max_memory"` // DuckDB memory_limit, e.g. "1GB"
	Threads   int    `koanf:"threads"`    // 0 = DuckDB default
}

// RedisConfig holds settings for the redis source and publishing.
type RedisConfig struct {
	Addrs       []string      `koanf:"addrs"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db"`
	KeyPrefix   string        `koanf:"key_prefix"`
	DialTimeout time.Duration `koanf:"dial_timeout"`
}

// EngineConfig holds recommendation engine settings.
type EngineConfig struct {
	DefaultN        int           `koanf:"default_n"`
	MaxN            int           `koanf:"max_n"`
	MaxFilterLength int           `koanf:"max_filter_length"`
	Precision       int           `koanf:"precision"`
	Workers         int           `koanf:"workers"` // 0 = runtime.NumCPU()
	RowBlock        int           `koanf:"row_block"`
	WarnUsers       int           `koanf:"warn_users"`
	MaxUsers        int           `koanf:"max_users"` // 0 = unlimited
	BuildTimeout    time.Duration `koanf:"build_timeout"`
}

// ReloadConfig controls periodic snapshot rebuilds.
type ReloadConfig struct {
	// Interval between rebuilds. Zero disables periodic reloads.
	Interval time.Duration `koanf:"interval"`

	// OnStartup builds the first snapshot before serving.
	OnStartup bool `koanf:"on_startup"`
}

// MetricsConfig controls the Prometheus and health endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: console
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}
