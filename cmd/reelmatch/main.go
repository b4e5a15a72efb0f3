// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package main is the entry point for the reelmatch command.

Reelmatch recommends movies from a history of explicit user ratings. It
predicts how a user would rate the movies they have not seen with user-based
collaborative filtering (cosine similarity over zero-filled rating rows) and
ranks the best predictions. It can also list the best-rated movies that carry
every genre in a selection.

# Commands

	reelmatch [global flags] <command> [flags]

	recommend -user <id> [-n N] [-where EXPR]   top predictions for a user
	genre [-n N] [-where EXPR] <genre>...       best-rated movies in all genres
	seen -user <id>                             movies a user rated
	predict -user <id> -item <id>               one predicted rating
	users                                       users with ratings
	genres                                      selectable genres
	status                                      snapshot statistics
	import [-to duckdb|redis]                   copy MovieLens files into a store
	serve                                       periodic rebuilds and /metrics
	shell                                       interactive session

Users can be given as "12" or "User 12". Global flags:

	-config PATH    YAML config file (default: REELMATCH_CONFIG or ./config.yaml)
	-format FORMAT  table or json (default: table)

# Data Sources

Every command except import reads ratings from the configured source:

	REELMATCH_DATA_SOURCE=file     MovieLens u.data, u.item and imdb_ratings.csv
	REELMATCH_DATA_SOURCE=duckdb   a DuckDB file written by "reelmatch import -to duckdb"
	REELMATCH_DATA_SOURCE=redis    a dataset published by "reelmatch import -to redis"

# Supervision

The serve and shell commands run a Suture v4 tree:

	RootSupervisor ("reelmatch")
	├── DataSupervisor ("data-layer")
	│   └── Reload service (startup and periodic rebuilds, SIGHUP)
	└── APISupervisor ("api-layer")
	    └── HTTP server (/metrics, /healthz/live, /healthz/ready, /api/v1/status)

The API layer only starts when METRICS_ENABLED=true.

# Exit Codes

	0  success
	1  runtime failure (data source, build, store)
	2  invalid usage or invalid request (unknown user, bad genre, bad filter)
*/
package main

import (
	"context"
	"os"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
