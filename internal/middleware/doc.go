// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package middleware provides the chi middleware shared by the HTTP surface.

Key Components:

  - RequestID: keeps or generates X-Request-ID and puts it on the logging context
  - RequestLogging: one zerolog line per request
  - PrometheusMetrics: request count, latency and in-flight gauge

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(middleware.RequestLogging(logger))
	    r.Get("/status", h.Status)
	})

Metric Labels:

PrometheusMetrics labels requests by chi route pattern ("/api/v1/status"),
never by raw URL path, so label cardinality stays fixed by the route table.
Requests that match no route are labeled "unmatched".

Thread Safety:

All middleware is stateless apart from the Prometheus collectors, which are
safe for concurrent use.

See Also:

  - internal/api: handlers wrapped by this middleware
  - internal/metrics: Prometheus metrics definitions
  - internal/logging: request and correlation id context helpers
*/
package middleware
