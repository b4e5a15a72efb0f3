// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Rebuilder reloads the dataset and swaps in a new snapshot.
// Satisfied by *recommend.Engine.
type Rebuilder interface {
	Rebuild(ctx context.Context) error
}

// ReloadServiceConfig holds configuration for the reload service.
type ReloadServiceConfig struct {
	// OnStartup rebuilds as soon as the service starts.
	OnStartup bool

	// Interval between scheduled rebuilds. Zero disables the schedule;
	// Trigger still works.
	Interval time.Duration

	// Timeout bounds a single rebuild. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// ReloadService keeps the engine's snapshot fresh.
//
// A failed rebuild is logged and the previous snapshot keeps serving, so
// Serve only returns when its context ends.
type ReloadService struct {
	engine  Rebuilder
	config  ReloadServiceConfig
	trigger chan chan<- error
	logger  zerolog.Logger
	name    string
}

// NewReloadService creates a reload service for engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReloadService(engine Rebuilder, cfg ReloadServiceConfig, logger zerolog.Logger) *ReloadService {
	return &ReloadService{
		engine:  engine,
		config:  cfg,
		trigger: make(chan chan<- error, 1),
		logger:  logger.With().Str("service", "reload").Logger(),
		name:    "reload-service",
	}
}

// Trigger requests a rebuild without waiting for it. Requests made while
// one is already pending collapse into it.
func (s *ReloadService) Trigger() {
	select {
	case s.trigger <- nil:
	default:
	}
}

// Reload requests a rebuild from the running service and waits for its
// result. It fails with ctx's error if Serve does not pick the request up
// and finish it before ctx ends.
func (s *ReloadService) Reload(ctx context.Context) error {
	done := make(chan error, 1)
	select {
	case s.trigger <- done:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Serve implements suture.Service.
func (s *ReloadService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("on_startup", s.config.OnStartup).
		Dur("interval", s.config.Interval).
		Msg("reload service starting")

	if s.config.OnStartup {
		s.rebuild(ctx, "startup")
	}

	var tick <-chan time.Time
	if s.config.Interval > 0 {
		ticker := time.NewTicker(s.config.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("reload service shutting down")
			return ctx.Err()
		case <-tick:
			s.rebuild(ctx, "schedule")
		case done := <-s.trigger:
			err := s.rebuild(ctx, "trigger")
			if done != nil {
				done <- err
			}
		}
	}
}

func (s *ReloadService) rebuild(ctx context.Context, reason string) error {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := s.engine.Rebuild(ctx); err != nil {
		s.logger.Warn().Err(err).Str("reason", reason).Msg("rebuild failed, previous snapshot kept")
		return err
	}
	s.logger.Debug().
		Str("reason", reason).
		Dur("duration", time.Since(start)).
		Msg("rebuild complete")
	return nil
}

// String implements fmt.Stringer; suture uses it in events.
func (s *ReloadService) String() string {
	return s.name
}
