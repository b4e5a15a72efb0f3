// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/tomtom215/reelmatch/internal/ratings"
)

// Filter variables. Every variable is always bound, so expressions never
// fail on a missing key:
//
//	id              int
//	title           string
//	year            int           (0 when the release date is unknown)
//	genres          list(string)
//	rated           bool          (at least one observed rating)
//	avg_rating      double        (0 when unrated)
//	ratings         int
//	has_external    bool
//	external_rating double        (0 when absent)
var (
	filterEnv     *cel.Env
	filterEnvErr  error
	filterEnvOnce sync.Once
)

func getFilterEnv() (*cel.Env, error) {
	filterEnvOnce.Do(func() {
		filterEnv, filterEnvErr = cel.NewEnv(
			cel.Variable("id", cel.IntType),
			cel.Variable("title", cel.StringType),
			cel.Variable("year", cel.IntType),
			cel.Variable("genres", cel.ListType(cel.StringType)),
			cel.Variable("rated", cel.BoolType),
			cel.Variable("avg_rating", cel.DoubleType),
			cel.Variable("ratings", cel.IntType),
			cel.Variable("has_external", cel.BoolType),
			cel.Variable("external_rating", cel.DoubleType),
		)
	})
	return filterEnv, filterEnvErr
}

// ItemFilter is a compiled boolean expression over item attributes.
// It is safe for concurrent use.
type ItemFilter struct {
	expr string
	prg  cel.Program
}

// CompileFilter parses and type-checks a filter expression.
// The expression must evaluate to a bool.
func CompileFilter(expr string) (*ItemFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidFilter)
	}

	env, err := getFilterEnv()
	if err != nil {
		return nil, fmt.Errorf("create filter environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: expression must return bool, got %s", ErrInvalidFilter, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	return &ItemFilter{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (f *ItemFilter) String() string {
	return f.expr
}

// Match evaluates the filter for an item. Rating aggregates come from store.
func (f *ItemFilter) Match(item *ratings.Item, store *ratings.Store) (bool, error) {
	out, _, err := f.prg.Eval(filterInput(item, store))
	if err != nil {
		return false, fmt.Errorf("evaluate filter for item %d: %w", item.ID, err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter returned %T, want bool", out.Value())
	}
	return result, nil
}

func filterInput(item *ratings.Item, store *ratings.Store) map[string]any {
	avg, rated := store.AverageRating(item.ID)

	external := 0.0
	if item.HasExternalRating() {
		external = *item.ExternalRating
	}

	return map[string]any{
		"id":              int64(item.ID),
		"title":           item.Title,
		"year":            int64(item.Year),
		"genres":          item.Genres.Names(),
		"rated":           rated,
		"avg_rating":      avg,
		"ratings":         int64(store.RatingCount(item.ID)),
		"has_external":    item.HasExternalRating(),
		"external_rating": external,
	}
}
