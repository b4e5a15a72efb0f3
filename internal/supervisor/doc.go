// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package supervisor runs the long-lived parts of `reelmatch serve` under
suture v4.

# Overview

	RootSupervisor ("reelmatch")
	├── DataSupervisor ("data-layer")
	│   └── ReloadService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (if METRICS_ENABLED)

A listener failure in the api layer restarts only the HTTP server. The
reload service swallows rebuild errors itself, so it only stops with the
tree.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logging.WithComponent("supervisor")), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}

	reload := services.NewReloadService(engine, services.ReloadServiceConfig{
	    OnStartup: cfg.Reload.OnStartup,
	    Interval:  cfg.Reload.Interval,
	    Timeout:   cfg.Engine.BuildTimeout,
	}, logger)
	tree.AddDataService(reload)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Configuration

TreeConfig controls restart behavior. Zero fields take suture's defaults:
  - FailureThreshold: 5 failures
  - FailureDecay: 30 seconds
  - FailureBackoff: 15 seconds
  - ShutdownTimeout: 10 seconds

# Logging

Supervisor events (service start, terminate, panic, backoff) go through
sutureslog into the slog adapter in internal/logging, which writes them
with zerolog alongside everything else.

# What Is NOT Supervised

The DuckDB handle and the Redis client are owned by main. The snapshot
itself is not a service: the engine swaps it atomically and queries never
wait on the reload loop.
*/
package supervisor
