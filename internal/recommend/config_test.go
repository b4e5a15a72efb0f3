// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.Limits.DefaultN != 5 {
		t.Errorf("Limits.DefaultN = %d, want 5", cfg.Limits.DefaultN)
	}
	if cfg.Precision != 2 {
		t.Errorf("Precision = %d, want 2", cfg.Precision)
	}
	if cfg.Build.Duplicates != "last" {
		t.Errorf("Build.Duplicates = %q, want last", cfg.Build.Duplicates)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "zero default n", modify: func(c *Config) { c.Limits.DefaultN = 0 }, wantErr: "limits.default_n"},
		{name: "max below default", modify: func(c *Config) { c.Limits.MaxN = 3 }, wantErr: "limits.max_n"},
		{name: "filter length", modify: func(c *Config) { c.Limits.MaxFilterLength = 0 }, wantErr: "limits.max_filter_length"},
		{name: "workers", modify: func(c *Config) { c.Similarity.Workers = 0 }, wantErr: "similarity.workers"},
		{name: "row block", modify: func(c *Config) { c.Similarity.RowBlock = -1 }, wantErr: "similarity.row_block"},
		{name: "warn users", modify: func(c *Config) { c.Similarity.WarnUsers = -1 }, wantErr: "similarity.warn_users"},
		{name: "max users", modify: func(c *Config) { c.Similarity.MaxUsers = -1 }, wantErr: "similarity.max_users"},
		{name: "duplicates", modify: func(c *Config) { c.Build.Duplicates = "newest" }, wantErr: "build.duplicates"},
		{name: "timeout", modify: func(c *Config) { c.Build.Timeout = 0 }, wantErr: "build.timeout"},
		{name: "precision", modify: func(c *Config) { c.Precision = -1 }, wantErr: "precision"},
		{name: "valid custom", modify: func(c *Config) { c.Limits.MaxN = 5; c.Build.Timeout = time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()

	clone.Limits.DefaultN = 10
	clone.Build.Duplicates = "mean"

	if cfg.Limits.DefaultN != 5 || cfg.Build.Duplicates != "last" {
		t.Error("Clone() shares state with the original")
	}
}
