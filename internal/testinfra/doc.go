// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package testinfra provides container helpers for integration tests.
//
// Everything here is built with the integration tag and drives Docker
// through testcontainers-go. StartRedis calls SkipIfNoDocker first so that
// a plain `go test -tags integration ./...` on a machine without Docker
// skips instead of failing.
//
// # Redis Container
//
// RedisContainer backs the redisstore integration tests. StartRedis
// terminates the container when the test ends and dumps its log on failure:
//
//	func TestPublishAndLoad(t *testing.T) {
//	    redis := testinfra.StartRedis(t)
//
//	    client, err := redisstore.NewClient(ctx, &config.RedisConfig{
//	        Addrs: []string{redis.Addr},
//	    })
//	    // ...
//	}
//
// # Network Requirements
//
// The first run pulls redis:7-alpine. Later runs use the cached image.
package testinfra
