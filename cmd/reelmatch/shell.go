// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"unicode"
)

const shellPrompt = "reelmatch> "

func shellCommands() []command {
	return []command{
		{name: "recommend", summary: "recommend [-n N] [-where EXPR] <user>", run: runRecommend},
		{name: "genre", summary: "genre [-n N] [-where EXPR] <genre>...", run: runGenre},
		{name: "seen", summary: "seen <user>", run: runSeen},
		{name: "predict", summary: "predict -item ID <user>", run: runPredict},
		{name: "users", summary: "users", run: runUsers},
		{name: "genres", summary: "genres", run: runGenres},
		{name: "status", summary: "status", run: runStatus},
		{name: "reload", summary: "reload", run: runReload},
	}
}

// runShell builds the first snapshot, then answers commands read line by
// line from stdin. The reload service and metrics server run alongside.
func runShell(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "shell")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := c.prepare(ctx); err != nil {
		return err
	}

	tree, reload, err := buildTree(c, false)
	if err != nil {
		return err
	}
	c.reload = reload
	treeCtx, cancel := context.WithCancel(ctx)
	errCh := tree.ServeBackground(treeCtx)
	defer func() {
		cancel()
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Warn().Err(err).Msg("supervisor shutdown error")
		}
		reportUnstopped(c, tree)
	}()

	return repl(ctx, c)
}

// repl reads commands until quit, end of input or ctx cancellation.
// Command errors are printed and the session continues.
func repl(ctx context.Context, c *cli) error {
	status := c.engine.Status()
	fmt.Fprintf(c.out, "Reelmatch: %d users, %d items. Type \"help\" for commands.\n", status.Users, status.Items)

	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, shellPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}

		fields, err := splitArgs(scanner.Text())
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
			continue
		}
		if len(fields) == 0 {
			continue
		}

		switch name := fields[0]; name {
		case "quit", "exit":
			return nil
		case "help":
			printShellHelp(c)
		default:
			cmd, ok := lookupShellCommand(name)
			if !ok {
				fmt.Fprintf(c.out, "unknown command %q, type \"help\" for commands\n", name)
				continue
			}
			if err := cmd.run(ctx, c, fields[1:]); err != nil && !errors.Is(err, flag.ErrHelp) {
				fmt.Fprintf(c.out, "error: %v\n", err)
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func lookupShellCommand(name string) (command, bool) {
	for _, cmd := range shellCommands() {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

func printShellHelp(c *cli) {
	fmt.Fprintln(c.out, "Commands:")
	for _, cmd := range shellCommands() {
		fmt.Fprintf(c.out, "  %s\n", cmd.summary)
	}
	fmt.Fprintln(c.out, "  quit")
	fmt.Fprintln(c.out, `Users are "12" or "User 12". Quote filter expressions: -where 'year < 1980'`)
}

// splitArgs splits a command line on whitespace. Single or double quotes
// group words; the other quote character is literal inside them.
func splitArgs(line string) ([]string, error) {
	var (
		args  []string
		cur   strings.Builder
		inArg bool
		quote rune
	)

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case unicode.IsSpace(r):
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
