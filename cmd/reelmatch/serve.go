// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/reelmatch/internal/api"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/supervisor"
	"github.com/tomtom215/reelmatch/internal/supervisor/services"
)

const (
	httpShutdownTimeout = 10 * time.Second
	httpTimeout         = 30 * time.Second
)

// buildTree wires the reload service and, when enabled, the metrics server.
func buildTree(c *cli, reloadOnStartup bool) (*supervisor.SupervisorTree, *services.ReloadService, error) {
	supervisorLogger := logging.WithComponent("supervisor")
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(supervisorLogger), supervisor.DefaultTreeConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create supervisor tree: %w", err)
	}

	reload := services.NewReloadService(c.engine, services.ReloadServiceConfig{
		OnStartup: reloadOnStartup,
		Interval:  c.cfg.Reload.Interval,
	}, supervisorLogger)
	tree.AddDataService(reload)

	if c.cfg.Metrics.Enabled {
		server := &http.Server{
			Addr:              c.cfg.Metrics.Addr,
			Handler:           api.NewRouter(api.NewHandler(c.engine, logging.WithComponent("api"))),
			ReadHeaderTimeout: httpTimeout,
			WriteTimeout:      httpTimeout,
			IdleTimeout:       60 * time.Second,
		}
		tree.AddAPIService(services.NewHTTPServerService(server, httpShutdownTimeout, supervisorLogger))
		c.logger.Info().Str("addr", server.Addr).Msg("metrics endpoint enabled")
	}

	return tree, reload, nil
}

// forwardReloads turns SIGHUP into reload requests until ctx ends.
func forwardReloads(ctx context.Context, hup <-chan os.Signal, reload *services.ReloadService) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			reload.Trigger()
		}
	}
}

// runServe keeps the snapshot fresh and serves the operational endpoints
// until SIGINT or SIGTERM. SIGHUP forces a rebuild.
func runServe(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "serve")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if err := c.attachSource(ctx); err != nil {
		return err
	}
	tree, reload, err := buildTree(c, c.cfg.Reload.OnStartup)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go forwardReloads(ctx, hup, reload)

	c.logger.Info().
		Str("source", c.cfg.Data.Source).
		Dur("reload_interval", c.cfg.Reload.Interval).
		Bool("metrics", c.cfg.Metrics.Enabled).
		Msg("starting supervisor tree")

	err = tree.Serve(ctx)
	reportUnstopped(c, tree)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	c.logger.Info().Msg("stopped gracefully")
	return nil
}

func reportUnstopped(c *cli, tree *supervisor.SupervisorTree) {
	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		c.logger.Warn().Str("service", svc.Name).Msg("service failed to stop")
	}
}
