// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/database"
	"github.com/tomtom215/reelmatch/internal/display"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/movielens"
	"github.com/tomtom215/reelmatch/internal/ratings"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/redisstore"
	"github.com/tomtom215/reelmatch/internal/supervisor/services"
)

// Process exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// usageError marks a command line mistake.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	var ue *usageError
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.As(err, &ue), recommend.IsValidation(err), errors.Is(err, display.ErrUnknownUserName):
		return exitUsage
	default:
		return exitFailure
	}
}

// sourceOpener opens the configured data source. The returned closer may be nil.
type sourceOpener func(ctx context.Context) (ratings.Source, func() error, error)

// cli carries everything a command needs.
type cli struct {
	cfg    *config.Config
	engine *recommend.Engine
	render display.Renderer
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	logger zerolog.Logger

	open        sourceOpener
	sourceReady bool
	reload      *services.ReloadService
	closers     []func() error
}

// newCLI builds the engine and renderer. The data source is opened lazily by
// prepare so that commands like import never touch it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newCLI(cfg *config.Config, format string, in io.Reader, out, errOut io.Writer, logger zerolog.Logger) (*cli, error) {
	render, err := display.NewRenderer(format, out)
	if err != nil {
		return nil, &usageError{err: err}
	}

	engineCfg, err := engineConfig(cfg)
	if err != nil {
		return nil, err
	}
	engine, err := recommend.NewEngine(engineCfg, logging.WithComponent("recommend"))
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	return &cli{
		cfg:    cfg,
		engine: engine,
		render: render,
		in:     in,
		out:    out,
		errOut: errOut,
		logger: logger,
		open: func(ctx context.Context) (ratings.Source, func() error, error) {
			return openSource(ctx, cfg)
		},
	}, nil
}

// prepare opens the data source on first use and builds a snapshot if there
// is none yet.
func (c *cli) prepare(ctx context.Context) error {
	if err := c.attachSource(ctx); err != nil {
		return err
	}
	if _, err := c.engine.Snapshot(); err == nil {
		return nil
	}
	return c.engine.Rebuild(ctx)
}

// attachSource opens the data source once and hands it to the engine.
func (c *cli) attachSource(ctx context.Context) error {
	if c.sourceReady {
		return nil
	}
	src, closer, err := c.open(ctx)
	if err != nil {
		return err
	}
	if closer != nil {
		c.closers = append(c.closers, closer)
	}
	c.engine.SetSource(src)
	c.sourceReady = true
	return nil
}

// directory lists the users of the current snapshot.
func (c *cli) directory() *display.UserDirectory {
	return display.NewUserDirectory(c.engine.Users())
}

// resolveUser turns "12" or "User 12" into a user id.
func (c *cli) resolveUser(input string) (int, error) {
	if input == "" {
		return 0, usagef("a user is required")
	}
	return c.directory().Resolve(input)
}

// Close releases the data source in reverse order of opening.
func (c *cli) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.logger.Warn().Err(err).Msg("failed to close data source")
		}
	}
	c.closers = nil
}

// engineConfig converts the loaded configuration to the engine's.
func engineConfig(cfg *config.Config) (*recommend.Config, error) {
	policy, err := ratings.ParseDuplicatePolicy(cfg.Data.Duplicates)
	if err != nil {
		return nil, err
	}

	e := cfg.Engine
	rc := recommend.DefaultConfig()
	rc.Limits.DefaultN = e.DefaultN
	rc.Limits.MaxN = e.MaxN
	rc.Limits.MaxFilterLength = e.MaxFilterLength
	rc.Similarity.Workers = e.Workers
	if rc.Similarity.Workers == 0 {
		rc.Similarity.Workers = runtime.NumCPU()
	}
	rc.Similarity.RowBlock = e.RowBlock
	rc.Similarity.WarnUsers = e.WarnUsers
	rc.Similarity.MaxUsers = e.MaxUsers
	rc.Build.Duplicates = policy
	rc.Build.Timeout = e.BuildTimeout
	rc.Precision = e.Precision
	return rc, nil
}

// fileSource reads the MovieLens files named in the configuration.
func fileSource(cfg *config.Config) *movielens.FileSource {
	return movielens.NewFileSource(movielens.Paths{
		Ratings:  cfg.Data.RatingsPath,
		Items:    cfg.Data.ItemsPath,
		External: cfg.Data.ExternalPath,
	}, logging.WithComponent("movielens"))
}

// openSource opens the source selected by REELMATCH_DATA_SOURCE.
func openSource(ctx context.Context, cfg *config.Config) (ratings.Source, func() error, error) {
	switch cfg.Data.Source {
	case config.SourceFile:
		return fileSource(cfg), nil, nil

	case config.SourceDuckDB:
		db, err := database.Open(ctx, &cfg.Database, logging.WithComponent("database"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		return db, db.Close, nil

	case config.SourceRedis:
		client, err := redisstore.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.New(client, cfg.Redis.KeyPrefix, logging.WithComponent("redisstore")), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}

// loadConfig reads an explicit config file, or searches the default paths.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// initLogging routes logs to stderr so stdout only carries command output.
func initLogging(cfg *config.Config, stderr io.Writer) zerolog.Logger {
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    stderr,
	})
	return logging.WithComponent("cli")
}

// run parses the global flags, dispatches one command and returns the exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("reelmatch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML config file")
	format := fs.String("format", display.FormatTable, "output format: table or json")
	fs.Usage = func() { printUsage(fs.Output(), fs) }

	if err := fs.Parse(args); err != nil {
		return exitCode(&usageError{err: err})
	}
	if fs.NArg() == 0 {
		printUsage(stderr, fs)
		return exitUsage
	}

	name := fs.Arg(0)
	if name == "help" {
		printUsage(stdout, fs)
		return exitOK
	}
	cmd, ok := lookupCommand(name)
	if !ok {
		fmt.Fprintf(stderr, "reelmatch: unknown command %q\n", name)
		printUsage(stderr, fs)
		return exitUsage
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "reelmatch: %v\n", err)
		return exitFailure
	}
	logger := initLogging(cfg, stderr)

	c, err := newCLI(cfg, *format, stdin, stdout, stderr, logger)
	if err != nil {
		fmt.Fprintf(stderr, "reelmatch: %v\n", err)
		return exitCode(err)
	}
	defer c.Close()

	err = cmd.run(ctx, c, fs.Args()[1:])
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintf(stderr, "reelmatch %s: %v\n", name, err)
	}
	return exitCode(err)
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: reelmatch [global flags] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands() {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global flags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
