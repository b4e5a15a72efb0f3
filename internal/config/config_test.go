// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"strings"
	"testing"
)

func TestValidate_Defaults(t *testing.T) {
	if err := defaultConfig().Validate(); err != nil {
		t.Fatalf("defaultConfig().Validate() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown source",
			modify:  func(c *Config) { c.Data.Source = "s3" },
			wantErr: "REELMATCH_DATA_SOURCE",
		},
		{
			name:    "file source without ratings",
			modify:  func(c *Config) { c.Data.RatingsPath = "" },
			wantErr: "REELMATCH_RATINGS_PATH",
		},
		{
			name:    "file source without items",
			modify:  func(c *Config) { c.Data.ItemsPath = "" },
			wantErr: "REELMATCH_ITEMS_PATH",
		},
		{
			name:   "external ratings are optional",
			modify: func(c *Config) { c.Data.ExternalPath = "" },
		},
		{
			name:    "duplicate policy",
			modify:  func(c *Config) { c.Data.Duplicates = "newest" },
			wantErr: "REELMATCH_DUPLICATES",
		},
		{
			name: "duckdb without path",
			modify: func(c *Config) {
				c.Data.Source = SourceDuckDB
				c.Database.Path = ""
			},
			wantErr: "DUCKDB_PATH",
		},
		{
			name: "database ignored for file source",
			modify: func(c *Config) {
				c.Database.Path = ""
			},
		},
		{
			name: "redis without addresses",
			modify: func(c *Config) {
				c.Data.Source = SourceRedis
				c.Redis.Addrs = nil
			},
			wantErr: "REDIS_ADDRS",
		},
		{
			name: "redis address without port",
			modify: func(c *Config) {
				c.Data.Source = SourceRedis
				c.Redis.Addrs = []string{"localhost"}
			},
			wantErr: "REDIS_ADDRS",
		},
		{
			name: "redis negative db",
			modify: func(c *Config) {
				c.Data.Source = SourceRedis
				c.Redis.DB = -1
			},
			wantErr: "REDIS_DB",
		},
		{
			name:    "default n",
			modify:  func(c *Config) { c.Engine.DefaultN = 0 },
			wantErr: "RECOMMEND_DEFAULT_N",
		},
		{
			name:    "max n below default",
			modify:  func(c *Config) { c.Engine.MaxN = 2 },
			wantErr: "RECOMMEND_MAX_N",
		},
		{
			name:    "precision",
			modify:  func(c *Config) { c.Engine.Precision = 11 },
			wantErr: "RECOMMEND_PRECISION",
		},
		{
			name:    "build timeout",
			modify:  func(c *Config) { c.Engine.BuildTimeout = 0 },
			wantErr: "RECOMMEND_BUILD_TIMEOUT",
		},
		{
			name:    "negative reload interval",
			modify:  func(c *Config) { c.Reload.Interval = -1 },
			wantErr: "RELOAD_INTERVAL",
		},
		{
			name: "metrics address",
			modify: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.Addr = "9464"
			},
			wantErr: "METRICS_ADDR",
		},
		{
			name:    "log level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "log format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
