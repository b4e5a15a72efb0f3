// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package api provides the operational HTTP surface of a long-running reelmatch
process: Prometheus metrics, liveness and readiness checks, and the engine
status document.

Routes:

	GET /metrics             Prometheus exposition
	GET /healthz/live        200 while the process is up
	GET /healthz/ready       200 once a snapshot is serving, 503 before
	GET /api/v1/status       engine status (snapshot, dimensions, build history)

Recommendations themselves are not served over HTTP.

Every request gets an X-Request-ID, which is also attached to the logging
context so handler logs carry request_id and correlation_id.

Usage:

	h := api.NewHandler(engine, logger)
	server := &http.Server{Addr: cfg.Metrics.Addr, Handler: api.NewRouter(h)}
*/
package api
