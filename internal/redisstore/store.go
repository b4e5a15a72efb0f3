// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/ratings"
)

// SourceName is reported by Store.Name.
const SourceName = "redis"

const (
	defaultChunkSize = 5000
	itemBatchSize    = 1000
	maxLoadAttempts  = 3
	cleanupTimeout   = 5 * time.Second
)

var (
	// ErrNotPublished is returned when no dataset version has been published.
	ErrNotPublished = errors.New("no dataset published")

	// errVersionGone means the version being read was replaced mid-read.
	errVersionGone = errors.New("dataset version no longer available")
)

// NewClient connects to the configured Redis deployment and pings it.
// Several addresses select a cluster client.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (redis.UniversalClient, error) {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:       cfg.Addrs,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	pingCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}

	start := time.Now()
	err := client.Ping(pingCtx).Err()
	metrics.RecordRedisOperation("ping", time.Since(start), err)
	if err != nil {
		closeQuietly(client)
		return nil, fmt.Errorf("failed to ping redis %v: %w", cfg.Addrs, err)
	}
	return client, nil
}

// Store publishes datasets to Redis and loads them back as a ratings.Source.
// It does not own the client.
type Store struct {
	client    redis.UniversalClient
	keys      keyspace
	chunkSize int
	logger    zerolog.Logger
}

// New creates a Store over client. An empty prefix uses DefaultKeyPrefix.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(client redis.UniversalClient, prefix string, logger zerolog.Logger) *Store {
	return &Store{
		client:    client,
		keys:      newKeyspace(prefix),
		chunkSize: defaultChunkSize,
		logger:    logger,
	}
}

// Name implements ratings.Source.
func (s *Store) Name() string {
	return SourceName
}

// Current returns the published version id.
func (s *Store) Current(ctx context.Context) (version string, err error) {
	start := time.Now()
	defer func() {
		recordErr := err
		if errors.Is(err, ErrNotPublished) {
			recordErr = nil
		}
		metrics.RecordRedisOperation("current", time.Since(start), recordErr)
	}()

	version, err = s.client.Get(ctx, s.keys.current()).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotPublished
	}
	if err != nil {
		return "", fmt.Errorf("failed to read current version: %w", err)
	}
	return version, nil
}

// Manifest returns the manifest of the published version.
func (s *Store) Manifest(ctx context.Context) (Manifest, error) {
	version, err := s.Current(ctx)
	if err != nil {
		return Manifest{}, err
	}
	fields, err := s.client.HGetAll(ctx, s.keys.part(version, partMeta)).Result()
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	if len(fields) == 0 {
		return Manifest{}, fmt.Errorf("version %s: %w", version, errVersionGone)
	}
	return parseManifest(fields)
}

// Publish writes ds as a new version and makes it current. Ratings keep
// their input order. Repeated item ids keep their first row; repeated
// external URLs keep their last.
func (s *Store) Publish(ctx context.Context, ds *ratings.Dataset, source string) (manifest Manifest, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordRedisOperation("publish", time.Since(start), err)
	}()

	if ds == nil {
		ds = &ratings.Dataset{}
	}

	manifest = Manifest{
		Version:     uuid.NewString(),
		Source:      source,
		PublishedAt: time.Now().UTC(),
		Ratings:     len(ds.Ratings),
	}

	pipe := s.client.Pipeline()

	itemFields, err := encodeItems(ds.Items)
	if err != nil {
		return manifest, err
	}
	manifest.Items = len(itemFields)
	for _, batch := range batchFields(itemFields, itemBatchSize) {
		pipe.HSet(ctx, s.keys.part(manifest.Version, partItems), batch)
	}

	chunks := chunkRatings(ds.Ratings, s.chunkSize)
	manifest.Chunks = len(chunks)
	for _, chunk := range chunks {
		data, err := json.Marshal(chunk)
		if err != nil {
			return manifest, fmt.Errorf("failed to encode ratings: %w", err)
		}
		pipe.RPush(ctx, s.keys.part(manifest.Version, partRatings), data)
	}

	external := encodeExternal(ds.ExternalRatings)
	manifest.ExternalRatings = len(external)
	for _, batch := range batchFields(external, itemBatchSize) {
		pipe.HSet(ctx, s.keys.part(manifest.Version, partExternal), batch)
	}

	pipe.HSet(ctx, s.keys.part(manifest.Version, partMeta), manifest.fields())

	if _, err = pipe.Exec(ctx); err != nil {
		s.discard(ctx, manifest.Version)
		return manifest, fmt.Errorf("failed to write dataset: %w", err)
	}

	previous, err := s.client.SetArgs(ctx, s.keys.current(), manifest.Version, redis.SetArgs{Get: true}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		s.discard(ctx, manifest.Version)
		return manifest, fmt.Errorf("failed to switch current version: %w", err)
	}
	err = nil

	if previous != "" && previous != manifest.Version {
		s.discard(ctx, previous)
	}

	s.logger.Info().
		Str("version", manifest.Version).
		Str("source", source).
		Int("ratings", manifest.Ratings).
		Int("items", manifest.Items).
		Int("external_ratings", manifest.ExternalRatings).
		Int("chunks", manifest.Chunks).
		Str("previous", previous).
		Dur("duration", time.Since(start)).
		Msg("dataset published")

	return manifest, nil
}

// Load implements ratings.Source by reading the current version.
func (s *Store) Load(ctx context.Context) (ds *ratings.Dataset, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordRedisOperation("load", time.Since(start), err)
	}()

	for attempt := 1; attempt <= maxLoadAttempts; attempt++ {
		ds, err = s.loadCurrent(ctx)
		if !errors.Is(err, errVersionGone) {
			return ds, err
		}
		s.logger.Debug().Err(err).Int("attempt", attempt).Msg("dataset replaced during load, retrying")
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", maxLoadAttempts, err)
}

func (s *Store) loadCurrent(ctx context.Context) (*ratings.Dataset, error) {
	version, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	pipe := s.client.Pipeline()
	metaCmd := pipe.HGetAll(ctx, s.keys.part(version, partMeta))
	itemsCmd := pipe.HGetAll(ctx, s.keys.part(version, partItems))
	ratingsCmd := pipe.LRange(ctx, s.keys.part(version, partRatings), 0, -1)
	externalCmd := pipe.HGetAll(ctx, s.keys.part(version, partExternal))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read version %s: %w", version, err)
	}

	if len(metaCmd.Val()) == 0 {
		return nil, fmt.Errorf("version %s: %w", version, errVersionGone)
	}
	manifest, err := parseManifest(metaCmd.Val())
	if err != nil {
		return nil, fmt.Errorf("version %s: %w", version, err)
	}

	ds := &ratings.Dataset{}
	if ds.Items, err = decodeItems(itemsCmd.Val()); err != nil {
		return nil, fmt.Errorf("version %s: %w", version, err)
	}
	if ds.Ratings, err = decodeRatings(ratingsCmd.Val(), manifest.Ratings); err != nil {
		return nil, fmt.Errorf("version %s: %w", version, err)
	}
	if ds.ExternalRatings, err = decodeExternal(externalCmd.Val()); err != nil {
		return nil, fmt.Errorf("version %s: %w", version, err)
	}

	if len(ds.Items) != manifest.Items ||
		len(ds.Ratings) != manifest.Ratings ||
		len(ratingsCmd.Val()) != manifest.Chunks ||
		len(ds.ExternalRatings) != manifest.ExternalRatings {
		return nil, fmt.Errorf("version %s incomplete: %w", version, errVersionGone)
	}

	s.logger.Debug().
		Str("version", version).
		Int("ratings", len(ds.Ratings)).
		Int("items", len(ds.Items)).
		Msg("dataset loaded")

	return ds, nil
}

// discard unlinks every key of a version. Failures are logged only.
func (s *Store) discard(ctx context.Context, version string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	// One command per key keeps cluster deployments free of CROSSSLOT errors.
	pipe := s.client.Pipeline()
	for _, key := range s.keys.version(version) {
		pipe.Unlink(ctx, key)
	}
	start := time.Now()
	_, err := pipe.Exec(ctx)
	metrics.RecordRedisOperation("unlink", time.Since(start), err)
	if err != nil {
		s.logger.Warn().Err(err).Str("version", version).Msg("failed to remove dataset version")
	}
}

// encodeItems maps item ids to JSON, keeping the first row per id.
func encodeItems(items []ratings.Item) (map[string]any, error) {
	out := make(map[string]any, len(items))
	for i := range items {
		key := strconv.Itoa(items[i].ID)
		if _, dup := out[key]; dup {
			continue
		}
		data, err := json.Marshal(&items[i])
		if err != nil {
			return nil, fmt.Errorf("failed to encode item %d: %w", items[i].ID, err)
		}
		out[key] = data
	}
	return out, nil
}

func encodeExternal(rows []ratings.ExternalRating) map[string]any {
	out := make(map[string]any, len(rows))
	for _, row := range rows {
		if row.URL == "" {
			continue
		}
		out[row.URL] = strconv.FormatFloat(row.Rating, 'g', -1, 64)
	}
	return out
}

// batchFields splits a field map so no single HSET carries more than size fields.
func batchFields(fields map[string]any, size int) []map[string]any {
	if len(fields) == 0 {
		return nil
	}
	var batches []map[string]any
	batch := make(map[string]any, min(size, len(fields)))
	for k, v := range fields {
		if len(batch) == size {
			batches = append(batches, batch)
			batch = make(map[string]any, size)
		}
		batch[k] = v
	}
	return append(batches, batch)
}

func decodeItems(fields map[string]string) ([]ratings.Item, error) {
	items := make([]ratings.Item, 0, len(fields))
	for key, raw := range fields {
		var item ratings.Item
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("failed to decode item %s: %w", key, err)
		}
		if strconv.Itoa(item.ID) != key {
			return nil, fmt.Errorf("item field %s holds item %d", key, item.ID)
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func decodeRatings(chunks []string, expected int) ([]ratings.Rating, error) {
	out := make([]ratings.Rating, 0, expected)
	for i, raw := range chunks {
		var chunk []ratings.Rating
		if err := json.Unmarshal([]byte(raw), &chunk); err != nil {
			return nil, fmt.Errorf("failed to decode ratings chunk %d: %w", i, err)
		}
		out = append(out, chunk...)
	}
	return out, nil
}

func decodeExternal(fields map[string]string) ([]ratings.ExternalRating, error) {
	out := make([]ratings.ExternalRating, 0, len(fields))
	for url, raw := range fields {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("external rating for %s: %w", url, err)
		}
		out = append(out, ratings.ExternalRating{URL: url, Rating: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out, nil
}

func closeQuietly(client redis.UniversalClient) {
	_ = client.Close() //nolint:errcheck // best effort on a failed connect
}
