// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/cache"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/ratings"
	"github.com/tomtom215/reelmatch/internal/recommend/algorithms"
	"github.com/tomtom215/reelmatch/internal/validation"
)

const (
	filterCacheSize = 256
	filterCacheName = "filter"
)

// Engine owns the current Snapshot and answers queries against it.
// It is safe for concurrent use.
//
// Queries read the snapshot through an atomic pointer and never block on a
// rebuild. Rebuilds are serialized and swap the new snapshot in only after
// it is complete, so a failed rebuild leaves the previous snapshot serving.
type Engine struct {
	config *Config
	logger zerolog.Logger

	snapshot atomic.Pointer[Snapshot]

	// Compiled -where expressions keyed by their text
	filters *cache.LRU[string, *ItemFilter]

	sourceMu sync.RWMutex
	source   ratings.Source

	// Build state
	buildMu       sync.Mutex
	building      atomic.Bool
	builds        atomic.Int64
	failures      atomic.Int64
	statusMu      sync.RWMutex
	lastError     string
	lastAttemptAt time.Time
}

// NewEngine creates a new recommendation engine with no snapshot.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:  cfg.Clone(),
		logger:  logger,
		filters: cache.NewLRU[string, *ItemFilter](filterCacheSize, 0),
	}, nil
}

// SetSource sets the source used by Rebuild.
func (e *Engine) SetSource(src ratings.Source) {
	e.sourceMu.Lock()
	defer e.sourceMu.Unlock()
	e.source = src
}

// Rebuild loads the configured source and swaps in a new snapshot.
func (e *Engine) Rebuild(ctx context.Context) error {
	e.sourceMu.RLock()
	src := e.source
	e.sourceMu.RUnlock()

	if src == nil {
		return ErrNoSource
	}
	return e.RebuildFrom(ctx, src)
}

// RebuildFrom loads src and swaps in a new snapshot built from it.
// Concurrent rebuilds wait for each other. On failure the current snapshot
// is kept.
func (e *Engine) RebuildFrom(ctx context.Context, src ratings.Source) error {
	if src == nil {
		return ErrNoSource
	}

	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	e.building.Store(true)
	defer e.building.Store(false)

	e.builds.Add(1)
	start := time.Now()
	e.statusMu.Lock()
	e.lastAttemptAt = start
	e.statusMu.Unlock()

	name := src.Name()
	logger := e.logger.With().Str("source", name).Logger()
	logger.Info().Msg("starting snapshot build")

	buildCtx, cancel := context.WithTimeout(ctx, e.config.Build.Timeout)
	defer cancel()

	ds, err := src.Load(buildCtx)
	if err != nil {
		return e.buildFailed(logger, name, &BuildError{Stage: StageLoad, Err: err})
	}

	snap, err := BuildSnapshot(buildCtx, ds, name, e.config, logger)
	if err != nil {
		return e.buildFailed(logger, name, err)
	}

	e.snapshot.Store(snap)

	e.statusMu.Lock()
	e.lastError = ""
	e.statusMu.Unlock()

	users, items := snap.matrix.Dims()
	metrics.RecordSnapshotBuild(name, time.Since(start), users, items, snap.matrix.Observations(), snap.matrix.Density())

	return nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) buildFailed(logger zerolog.Logger, source string, err error) error {
	e.failures.Add(1)

	stage := StageLoad
	var buildErr *BuildError
	if errors.As(err, &buildErr) {
		stage = buildErr.Stage
	}
	metrics.RecordSnapshotFailure(source, stage)

	e.statusMu.Lock()
	e.lastError = err.Error()
	e.statusMu.Unlock()

	event := logger.Error().Err(err).Str("stage", stage)
	if current := e.snapshot.Load(); current != nil {
		event = event.Str("serving_snapshot", current.id)
	}
	event.Msg("snapshot build failed")

	return fmt.Errorf("rebuild from %s: %w", source, err)
}

// Snapshot returns the current snapshot.
func (e *Engine) Snapshot() (*Snapshot, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Recommend returns the top-N unrated items for a user by predicted rating.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req RecommendRequest) (*Response, error) {
	start := time.Now()

	resp, skipped, err := e.recommend(ctx, &req)
	e.recordQuery(KindRecommend, resp, err, start, skipped)
	return resp, err
}

func (e *Engine) recommend(ctx context.Context, req *RecommendRequest) (*Response, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	snap, err := e.Snapshot()
	if err != nil {
		return nil, 0, err
	}

	req.RequestID = e.requestID(ctx, req.RequestID)
	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Int("user_id", req.UserID).
		Logger()

	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, 0, invalid(verr)
	}
	n, err := e.resolveN(req.N)
	if err != nil {
		return nil, 0, err
	}
	if !snap.store.HasUser(req.UserID) {
		return nil, 0, invalid(fmt.Errorf("%w: %d", ErrUnknownUser, req.UserID))
	}
	filter, err := e.compileFilter(req.Where)
	if err != nil {
		return nil, 0, err
	}

	result := snap.ranker.Recommend(req.UserID, algorithms.RankOptions{
		N:      n,
		Filter: e.itemFilter(filter, snap, logger),
	})

	resp := e.buildResponse(snap, result, ResponseMetadata{
		RequestID: req.RequestID,
		Kind:      KindRecommend,
		UserID:    req.UserID,
		N:         n,
	})

	logger.Debug().
		Int("candidates", result.Candidates).
		Int("skipped", result.Skipped).
		Int("returned", len(resp.Items)).
		Msg("recommendation complete")

	return resp, result.Skipped, nil
}

// RecommendByGenre returns the top-N items carrying every selected genre,
// ranked by mean observed rating.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) RecommendByGenre(ctx context.Context, req GenreRequest) (*Response, error) {
	start := time.Now()

	resp, skipped, err := e.recommendByGenre(ctx, &req)
	e.recordQuery(KindGenre, resp, err, start, skipped)
	return resp, err
}

func (e *Engine) recommendByGenre(ctx context.Context, req *GenreRequest) (*Response, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	snap, err := e.Snapshot()
	if err != nil {
		return nil, 0, err
	}

	req.RequestID = e.requestID(ctx, req.RequestID)
	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Strs("genres", req.Genres).
		Logger()

	if len(req.Genres) == 0 {
		return nil, 0, invalid(ErrNoGenres)
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, 0, invalid(verr)
	}
	genres, err := ratings.ParseGenreSet(req.Genres)
	if err != nil {
		return nil, 0, invalid(err)
	}
	n, err := e.resolveN(req.N)
	if err != nil {
		return nil, 0, err
	}
	filter, err := e.compileFilter(req.Where)
	if err != nil {
		return nil, 0, err
	}

	result, err := snap.genres.RecommendByGenre(genres, algorithms.RankOptions{
		N:      n,
		Filter: e.itemFilter(filter, snap, logger),
	})
	if err != nil {
		return nil, 0, invalid(err)
	}

	resp := e.buildResponse(snap, result, ResponseMetadata{
		RequestID: req.RequestID,
		Kind:      KindGenre,
		Genres:    genres.Names(),
		N:         n,
	})

	logger.Debug().
		Int("candidates", result.Candidates).
		Int("returned", len(resp.Items)).
		Msg("genre recommendation complete")

	return resp, result.Skipped, nil
}

// Predict returns the predicted rating of an item for a user.
//
// The bool is false, with a nil error, when the item is not in the catalog,
// nobody else rated it, or the similarity weights sum to zero.
func (e *Engine) Predict(ctx context.Context, userID, itemID int) (Prediction, bool, error) {
	start := time.Now()

	pred, ok, err := e.predict(ctx, userID, itemID)

	outcome := metrics.OutcomeOK
	switch {
	case err != nil:
		outcome = errorOutcome(err)
	case !ok:
		outcome = metrics.OutcomeEmpty
	}
	metrics.RecordQuery(KindPredict, outcome, time.Since(start), 0)

	return pred, ok, err
}

func (e *Engine) predict(ctx context.Context, userID, itemID int) (Prediction, bool, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, false, err
	}
	snap, err := e.Snapshot()
	if err != nil {
		return Prediction{}, false, err
	}
	if !snap.store.HasUser(userID) {
		return Prediction{}, false, invalid(fmt.Errorf("%w: %d", ErrUnknownUser, userID))
	}

	raw, ok := snap.predictor.Predict(userID, itemID)
	if !ok {
		return Prediction{}, false, nil
	}

	item, _ := snap.store.Item(itemID)
	return Prediction{
		UserID:    userID,
		ItemID:    itemID,
		Title:     item.Title,
		Score:     raw.Rounded(e.config.Precision),
		RawScore:  raw.Score,
		Neighbors: raw.Neighbors,
		WeightSum: raw.WeightSum,
	}, true, nil
}

// SeenItems lists the items a user rated, by the user's rating descending.
func (e *Engine) SeenItems(ctx context.Context, userID int) ([]SeenItem, error) {
	start := time.Now()

	items, err := e.seenItems(ctx, userID)

	outcome := metrics.OutcomeOK
	switch {
	case err != nil:
		outcome = errorOutcome(err)
	case len(items) == 0:
		outcome = metrics.OutcomeEmpty
	}
	metrics.RecordQuery(KindSeen, outcome, time.Since(start), 0)

	return items, err
}

func (e *Engine) seenItems(ctx context.Context, userID int) ([]SeenItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	if !snap.store.HasUser(userID) {
		return nil, invalid(fmt.Errorf("%w: %d", ErrUnknownUser, userID))
	}

	scored := snap.ranker.Seen(userID)
	out := make([]SeenItem, len(scored))
	for i, s := range scored {
		out[i] = SeenItem{
			ItemID:         s.Item.ID,
			Title:          s.Item.Title,
			Year:           s.Item.Year,
			Rating:         s.Score,
			AverageRating:  e.averageRating(snap, s.Item.ID),
			RatingCount:    snap.store.RatingCount(s.Item.ID),
			ExternalRating: s.Item.ExternalRating,
			URL:            s.Item.URL,
			Genres:         s.Item.Genres.Names(),
		}
	}
	return out, nil
}

// Users returns the ids of users with ratings in the current snapshot.
func (e *Engine) Users() []int {
	snap := e.snapshot.Load()
	if snap == nil {
		return []int{}
	}
	return snap.store.Users()
}

// Genres returns the selectable genre names in catalog order.
func (e *Engine) Genres() []string {
	selectable := ratings.SelectableGenres()
	out := make([]string, len(selectable))
	for i, g := range selectable {
		out[i] = g.String()
	}
	return out
}

// Status returns the current snapshot and build status.
func (e *Engine) Status() Status {
	e.statusMu.RLock()
	status := Status{
		IsBuilding:    e.building.Load(),
		Builds:        e.builds.Load(),
		Failures:      e.failures.Load(),
		LastError:     e.lastError,
		LastAttemptAt: e.lastAttemptAt,
	}
	e.statusMu.RUnlock()

	snap := e.snapshot.Load()
	if snap == nil {
		return status
	}

	users, items := snap.matrix.Dims()
	status.Ready = true
	status.SnapshotID = snap.id
	status.Source = snap.source
	status.BuiltAt = snap.builtAt
	status.BuildDurationMS = snap.buildDuration.Milliseconds()
	status.Users = users
	status.Items = items
	status.Ratings = snap.matrix.Observations()
	status.Density = snap.matrix.Density()
	status.SimilarityBytes = algorithms.EstimateSimilarityBytes(users)
	status.Store = snap.store.Stats()
	status.DuplicateTitles = len(snap.store.DuplicateTitles())
	return status
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// resolveN applies the default and the upper bound.
func (e *Engine) resolveN(n int) (int, error) {
	if n == 0 {
		return e.config.Limits.DefaultN, nil
	}
	if n < 0 || n > e.config.Limits.MaxN {
		return 0, invalid(fmt.Errorf("n must be in [0, %d], got %d", e.config.Limits.MaxN, n))
	}
	return n, nil
}

// compileFilter returns nil for an empty expression.
func (e *Engine) compileFilter(expr string) (*ItemFilter, error) {
	if expr == "" {
		return nil, nil
	}
	if len(expr) > e.config.Limits.MaxFilterLength {
		return nil, invalid(fmt.Errorf("%w: longer than %d characters", ErrInvalidFilter, e.config.Limits.MaxFilterLength))
	}
	if f, ok := e.filters.Get(expr); ok {
		metrics.RecordCacheLookup(filterCacheName, true)
		return f, nil
	}
	metrics.RecordCacheLookup(filterCacheName, false)

	f, err := CompileFilter(expr)
	if err != nil {
		return nil, invalid(err)
	}
	metrics.RecordCacheEviction(filterCacheName, e.filters.Add(expr, f))
	return f, nil
}

// itemFilter adapts a compiled filter to the ranker. Items whose evaluation
// fails are dropped.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) itemFilter(f *ItemFilter, snap *Snapshot, logger zerolog.Logger) func(*ratings.Item) bool {
	if f == nil {
		return nil
	}
	return func(item *ratings.Item) bool {
		ok, err := f.Match(item, snap.store)
		if err != nil {
			logger.Debug().Err(err).Str("filter", f.String()).Msg("filter evaluation failed")
			return false
		}
		return ok
	}
}

// buildResponse converts a ranking into a response with display augmentation.
//
//nolint:gocritic // hugeParam: meta passed by value for immutability
func (e *Engine) buildResponse(snap *Snapshot, result algorithms.RankResult, meta ResponseMetadata) *Response {
	items := make([]Recommendation, len(result.Items))
	for i, s := range result.Items {
		items[i] = Recommendation{
			Rank:           i + 1,
			ItemID:         s.Item.ID,
			Title:          s.Item.Title,
			Year:           s.Item.Year,
			Score:          algorithms.Round(s.Score, e.config.Precision),
			AverageRating:  e.averageRating(snap, s.Item.ID),
			RatingCount:    snap.store.RatingCount(s.Item.ID),
			ExternalRating: s.Item.ExternalRating,
			URL:            s.Item.URL,
			Genres:         s.Item.Genres.Names(),
		}
	}

	meta.Candidates = result.Candidates
	meta.Skipped = result.Skipped
	meta.Filtered = result.Filtered
	meta.SnapshotID = snap.id
	meta.SnapshotBuiltAt = snap.builtAt
	meta.Timestamp = time.Now()

	return &Response{Items: items, Metadata: meta}
}

func (e *Engine) averageRating(snap *Snapshot, itemID int) *float64 {
	avg, ok := snap.store.AverageRating(itemID)
	if !ok {
		return nil
	}
	rounded := algorithms.Round(avg, e.config.Precision)
	return &rounded
}

// requestID prefers an explicit id, then the id carried by ctx.
func (e *Engine) requestID(ctx context.Context, id string) string {
	if id != "" {
		return id
	}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		return id
	}
	return logging.GenerateRequestID()
}

func (e *Engine) recordQuery(kind string, resp *Response, err error, start time.Time, skipped int) {
	elapsed := time.Since(start)

	outcome := metrics.OutcomeOK
	switch {
	case err != nil:
		outcome = errorOutcome(err)
	case len(resp.Items) == 0:
		outcome = metrics.OutcomeEmpty
	}
	if resp != nil {
		resp.Metadata.LatencyMS = elapsed.Milliseconds()
	}

	metrics.RecordQuery(kind, outcome, elapsed, skipped)
}

func errorOutcome(err error) string {
	if IsValidation(err) {
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeError
}
