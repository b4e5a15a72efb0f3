// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

//go:build integration

package testinfra

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

// SkipIfNoDocker skips the test when testcontainers cannot reach a healthy
// container provider, so machines without Docker skip instead of failing.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// StartRedis skips without Docker, starts a Redis container and registers
// its teardown with t. The container log is written to the test output when
// the test failed.
func StartRedis(t *testing.T, opts ...RedisOption) *RedisContainer {
	t.Helper()
	SkipIfNoDocker(t)

	ctx := context.Background()
	container, err := NewRedisContainer(ctx, opts...)
	if err != nil {
		t.Fatalf("NewRedisContainer() error = %v", err)
	}

	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if t.Failed() {
			if logs, err := container.Logs(cleanupCtx); err == nil {
				t.Logf("redis container log:\n%s", logs)
			}
		}
		if err := container.Terminate(cleanupCtx); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})
	return container
}
