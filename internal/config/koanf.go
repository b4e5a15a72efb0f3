// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"reelmatch.yaml",
	"reelmatch.yml",
	"/etc/reelmatch/config.yaml",
	"/etc/reelmatch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Source:       SourceFile,
			RatingsPath:  "data/u.data",
			ItemsPath:    "data/u.item",
			ExternalPath: "data/imdb_ratings.csv",
			Duplicates:   "last",
		},
		Database: DatabaseConfig{
			Path:      "reelmatch.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Redis: RedisConfig{
			Addrs:       []string{"localhost:6379"},
			DB:          0,
			KeyPrefix:   "reelmatch",
			DialTimeout: 5 * time.Second,
		},
		Engine: EngineConfig{
			DefaultN:        5,
			MaxN:            100,
			MaxFilterLength: 1024,
			Precision:       2,
			Workers:         0,
			RowBlock:        64,
			WarnUsers:       10000,
			MaxUsers:        0,
			BuildTimeout:    5 * time.Minute,
		},
		Reload: ReloadConfig{
			Interval:  0, // Disabled by default - the CLI builds once
			OnStartup: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9464",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// REELMATCH_RATINGS_PATH -> data.ratings_path
	// LOG_LEVEL -> logging.level
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"redis.addrs",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Data mappings
	"reelmatch_data_source":           "data.source",
	"reelmatch_ratings_path":          "data.ratings_path",
	"reelmatch_items_path":            "data.items_path",
	"reelmatch_external_ratings_path": "data.external_path",
	"reelmatch_duplicates":            "data.duplicates",

	// Database mappings
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Redis mappings
	"redis_addrs":        "redis.addrs",
	"redis_password":     "redis.password",
	"redis_db":           "redis.db",
	"redis_key_prefix":   "redis.key_prefix",
	"redis_dial_timeout": "redis.dial_timeout",

	// Engine mappings
	"recommend_default_n":         "engine.default_n",
	"recommend_max_n":             "engine.max_n",
	"recommend_max_filter_length": "engine.max_filter_length",
	"recommend_precision":         "engine.precision",
	"recommend_workers":           "engine.workers",
	"recommend_row_block":         "engine.row_block",
	"recommend_warn_users":        "engine.warn_users",
	"recommend_max_users":         "engine.max_users",
	"recommend_build_timeout":     "engine.build_timeout",

	// Reload mappings
	"reload_interval":   "reload.interval",
	"reload_on_startup": "reload.on_startup",

	// Metrics mappings
	"metrics_enabled": "metrics.enabled",
	"metrics_addr":    "metrics.addr",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - REELMATCH_RATINGS_PATH -> data.ratings_path
//   - DUCKDB_PATH -> database.path
//   - REDIS_ADDRS -> redis.addrs
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated environment variables never
	// reach the config.
	return ""
}
