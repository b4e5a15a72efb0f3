// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package logging provides zerolog-based structured logging for Reelmatch.
//
// A global logger is configured once at startup with Init. Components take a
// zerolog.Logger in their constructors; the caller tags it with a
// "component" field through WithComponent. HTTP requests carry a
// request-scoped logger and their request ID through context.Context.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "console", Timestamp: true})
//
//	engine, err := recommend.NewEngine(cfg, logging.WithComponent("recommend"))
//
//	ctx = logging.ContextWithRequestID(ctx, logging.GenerateRequestID())
//	logging.Ctx(ctx).Info().Int("user_id", 42).Msg("recommend")
//
// # Configuration
//
// Environment Variables (read by internal/config):
//   - LOG_LEVEL: trace, debug, info, warn, error, disabled (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
//
// # slog Bridge
//
// NewSlogLogger wraps a zerolog.Logger in a *slog.Logger so that libraries
// which log through log/slog (the suture supervisor via sutureslog) share the
// output. Grouped attributes become dotted keys:
//
//	hook := (&sutureslog.Handler{Logger: logging.NewSlogLogger(logger)}).MustHook()
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send(), and prefer structured
// fields over Msgf.
package logging
