// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{line: "", want: nil},
		{line: "  users  ", want: []string{"users"}},
		{line: "recommend User 12", want: []string{"recommend", "User", "12"}},
		{line: `recommend -where 'year < 1980' 12`, want: []string{"recommend", "-where", "year < 1980", "12"}},
		{line: `recommend -where '"Comedy" in genres' 1`, want: []string{"recommend", "-where", `"Comedy" in genres`, "1"}},
		{line: `seen "User 3"`, want: []string{"seen", "User 3"}},
		{line: `genre ""`, want: []string{"genre", ""}},
		{line: `recommend -where 'year`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := splitArgs(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("splitArgs(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
			if fmt.Sprintf("%q", got) != fmt.Sprintf("%q", tt.want) {
				t.Errorf("splitArgs(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestRun_Shell(t *testing.T) {
	setupEnv(t)

	input := strings.Join([]string{
		"help",
		"",
		"users",
		"recommend -n 1 User 1",
		`genre -where 'year == 1995' Comedy`,
		"recommend 99",
		"rate 1 5",
		"seen 'User 3",
		"reload",
		"quit",
		"users",
	}, "\n")

	got := runCLI(t, input, "-format", "json", "shell")
	if got.code != exitOK {
		t.Fatalf("shell = %d, stderr: %s", got.code, got.stderr)
	}

	for _, want := range []string{
		"Reelmatch: 3 users, 4 items",
		shellPrompt,
		"predict -item ID <user>",
		`"name": "User 3"`,
		`"item_id": 3`,
		`"Comedy"`,
		"error: unknown user",
		`unknown command "rate"`,
		"error: unterminated ' quote",
		"Rebuilt snapshot",
	} {
		if !strings.Contains(got.stdout, want) {
			t.Errorf("shell output missing %q:\n%s", want, got.stdout)
		}
	}

	// Commands after quit are not run, so the user list appears once.
	if n := strings.Count(got.stdout, `"name": "User 1"`); n != 1 {
		t.Errorf("user list printed %d times, want 1", n)
	}
}

func TestRun_ShellEndOfInput(t *testing.T) {
	setupEnv(t)

	got := runCLI(t, "genres", "shell")
	if got.code != exitOK {
		t.Fatalf("shell = %d, stderr: %s", got.code, got.stderr)
	}
	if !strings.Contains(got.stdout, "Film-Noir") {
		t.Errorf("stdout = %q, want the genre list", got.stdout)
	}
}

func TestRun_ShellNeedsData(t *testing.T) {
	dir := setupEnv(t)
	t.Setenv("REELMATCH_RATINGS_PATH", dir+"/absent.data")

	got := runCLI(t, "users\n", "shell")
	if got.code != exitFailure {
		t.Errorf("shell = %d, want %d", got.code, exitFailure)
	}
	if strings.Contains(got.stdout, shellPrompt) {
		t.Error("shell prompted without a snapshot")
	}
}

func TestRunReload_RequiresReloadService(t *testing.T) {
	c := &cli{errOut: io.Discard}

	err := runReload(context.Background(), c, nil)
	if err == nil || !strings.Contains(err.Error(), "only available in the shell") {
		t.Errorf("runReload() error = %v, want shell-only error", err)
	}
}
