// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"fmt"
	"net"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/ratings"
)

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateData(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateRedis(); err != nil {
		return err
	}

	if err := c.validateEngine(); err != nil {
		return err
	}

	if err := c.validateReload(); err != nil {
		return err
	}

	if err := c.validateMetrics(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateData validates the data source selection
func (c *Config) validateData() error {
	switch c.Data.Source {
	case SourceFile:
		if c.Data.RatingsPath == "" {
			return fmt.Errorf("REELMATCH_RATINGS_PATH is required when REELMATCH_DATA_SOURCE=file")
		}
		if c.Data.ItemsPath == "" {
			return fmt.Errorf("REELMATCH_ITEMS_PATH is required when REELMATCH_DATA_SOURCE=file")
		}
	case SourceDuckDB, SourceRedis:
	default:
		return fmt.Errorf("REELMATCH_DATA_SOURCE must be one of: file, duckdb, redis")
	}

	if _, err := ratings.ParseDuplicatePolicy(c.Data.Duplicates); err != nil {
		return fmt.Errorf("REELMATCH_DUPLICATES is invalid: %w", err)
	}
	return nil
}

// validateDatabase validates DuckDB configuration (only if used as the source)
func (c *Config) validateDatabase() error {
	if c.Data.Source != SourceDuckDB {
		return nil
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required when REELMATCH_DATA_SOURCE=duckdb")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative")
	}
	return nil
}

// validateRedis validates Redis configuration (only if used as the source)
func (c *Config) validateRedis() error {
	if c.Data.Source != SourceRedis {
		return nil
	}
	if len(c.Redis.Addrs) == 0 {
		return fmt.Errorf("REDIS_ADDRS is required when REELMATCH_DATA_SOURCE=redis")
	}
	for _, addr := range c.Redis.Addrs {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return fmt.Errorf("REDIS_ADDRS entry %q is invalid: %w", addr, err)
		}
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("REDIS_DB must be non-negative")
	}
	if c.Redis.KeyPrefix == "" {
		return fmt.Errorf("REDIS_KEY_PREFIX must not be empty")
	}
	return nil
}

// validateEngine validates recommendation engine limits
func (c *Config) validateEngine() error {
	e := c.Engine
	if e.DefaultN < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_N must be positive")
	}
	if e.MaxN < e.DefaultN {
		return fmt.Errorf("RECOMMEND_MAX_N must be at least RECOMMEND_DEFAULT_N")
	}
	if e.MaxFilterLength < 1 {
		return fmt.Errorf("RECOMMEND_MAX_FILTER_LENGTH must be positive")
	}
	if e.Precision < 0 || e.Precision > 10 {
		return fmt.Errorf("RECOMMEND_PRECISION must be between 0 and 10")
	}
	if e.Workers < 0 || e.RowBlock < 1 {
		return fmt.Errorf("RECOMMEND_WORKERS must be non-negative and RECOMMEND_ROW_BLOCK positive")
	}
	if e.WarnUsers < 0 || e.MaxUsers < 0 {
		return fmt.Errorf("RECOMMEND_WARN_USERS and RECOMMEND_MAX_USERS must be non-negative")
	}
	if e.BuildTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_BUILD_TIMEOUT must be positive")
	}
	return nil
}

// validateReload validates the reload interval
func (c *Config) validateReload() error {
	if c.Reload.Interval < 0 {
		return fmt.Errorf("RELOAD_INTERVAL must be non-negative")
	}
	return nil
}

// validateMetrics validates the metrics listener (only if enabled)
func (c *Config) validateMetrics() error {
	if !c.Metrics.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Metrics.Addr); err != nil {
		return fmt.Errorf("METRICS_ADDR is invalid: %w", err)
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
