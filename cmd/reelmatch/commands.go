// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"context"
	"errors"
	"flag"
	"strings"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// command is one reelmatch subcommand.
type command struct {
	name    string
	summary string
	run     func(ctx context.Context, c *cli, args []string) error
}

func commands() []command {
	return []command{
		{name: "recommend", summary: "top predicted movies for a user", run: runRecommend},
		{name: "genre", summary: "best-rated movies carrying every given genre", run: runGenre},
		{name: "seen", summary: "movies a user rated", run: runSeen},
		{name: "predict", summary: "predicted rating of one movie for a user", run: runPredict},
		{name: "users", summary: "users with ratings", run: runUsers},
		{name: "genres", summary: "selectable genres", run: runGenres},
		{name: "status", summary: "snapshot and build statistics", run: runStatus},
		{name: "import", summary: "copy MovieLens files into DuckDB or Redis", run: runImport},
		{name: "serve", summary: "rebuild on a schedule and expose /metrics", run: runServe},
		{name: "shell", summary: "interactive session", run: runShell},
	}
}

func lookupCommand(name string) (command, bool) {
	for _, cmd := range commands() {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

func newFlagSet(c *cli, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

// parseFlags marks parse failures as usage errors. -h stays flag.ErrHelp.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return &usageError{err: err}
	}
	return nil
}

// userArg returns -user, or the positional arguments joined so that
// "recommend User 12" works without quoting.
func userArg(flagValue string, fs *flag.FlagSet) string {
	if flagValue != "" {
		return flagValue
	}
	return strings.Join(fs.Args(), " ")
}

func runRecommend(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "recommend")
	user := fs.String("user", "", `user id or name, e.g. 12 or "User 12"`)
	n := fs.Int("n", 0, "number of results (0 = configured default)")
	where := fs.String("where", "", `filter expression, e.g. 'year >= 1990 && "Comedy" in genres'`)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if err := c.prepare(ctx); err != nil {
		return err
	}
	userID, err := c.resolveUser(userArg(*user, fs))
	if err != nil {
		return err
	}

	resp, err := c.engine.Recommend(ctx, recommend.RecommendRequest{
		UserID: userID,
		N:      *n,
		Where:  *where,
	})
	if err != nil {
		return err
	}
	return c.render.Recommendations(resp)
}

// splitGenres accepts "Comedy Romance", "Comedy,Romance" or a mix.
func splitGenres(args []string) []string {
	var out []string
	for _, arg := range args {
		for _, g := range strings.Split(arg, ",") {
			if g = strings.TrimSpace(g); g != "" {
				out = append(out, g)
			}
		}
	}
	return out
}

func runGenre(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "genre")
	genres := fs.String("genres", "", "comma-separated genres; positional arguments are added")
	n := fs.Int("n", 0, "number of results (0 = configured default)")
	where := fs.String("where", "", "filter expression over item attributes")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if err := c.prepare(ctx); err != nil {
		return err
	}

	selection := splitGenres(append([]string{*genres}, fs.Args()...))
	resp, err := c.engine.RecommendByGenre(ctx, recommend.GenreRequest{
		Genres: selection,
		N:      *n,
		Where:  *where,
	})
	if err != nil {
		return err
	}
	return c.render.Recommendations(resp)
}

func runSeen(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "seen")
	user := fs.String("user", "", `user id or name, e.g. 12 or "User 12"`)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if err := c.prepare(ctx); err != nil {
		return err
	}
	userID, err := c.resolveUser(userArg(*user, fs))
	if err != nil {
		return err
	}

	items, err := c.engine.SeenItems(ctx, userID)
	if err != nil {
		return err
	}
	return c.render.Seen(userID, items)
}

func runPredict(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "predict")
	user := fs.String("user", "", `user id or name, e.g. 12 or "User 12"`)
	item := fs.Int("item", 0, "item id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *item <= 0 {
		return usagef("-item is required")
	}

	if err := c.prepare(ctx); err != nil {
		return err
	}
	userID, err := c.resolveUser(userArg(*user, fs))
	if err != nil {
		return err
	}

	p, found, err := c.engine.Predict(ctx, userID, *item)
	if err != nil {
		return err
	}
	return c.render.Prediction(userID, *item, p, found)
}

func runUsers(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "users")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := c.prepare(ctx); err != nil {
		return err
	}
	return c.render.Users(c.directory())
}

func runGenres(_ context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "genres")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	return c.render.Genres(c.engine.Genres())
}

// runStatus prints the status even when the build fails, then reports the failure.
func runStatus(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "status")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	buildErr := c.prepare(ctx)
	if err := c.render.Status(c.engine.Status()); err != nil {
		return err
	}
	return buildErr
}

// runReload asks the shell's reload service for a rebuild and waits for it.
func runReload(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "reload")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if c.reload == nil {
		return errors.New("reload is only available in the shell")
	}
	if err := c.reload.Reload(ctx); err != nil {
		return err
	}
	status := c.engine.Status()
	return c.render.Message("Rebuilt snapshot %s from %s: %d users, %d items, %d ratings",
		status.SnapshotID, status.Source, status.Users, status.Items, status.Ratings)
}
