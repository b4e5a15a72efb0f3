// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package logging

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"
)

// zerologHandler routes log/slog records into a zerolog.Logger. Attributes
// inside groups are flattened to dotted keys ("event.service").
type zerologHandler struct {
	logger zerolog.Logger
	prefix string
}

// NewSlogLogger returns a *slog.Logger that writes through logger. The
// supervisor tree uses it to hand suture events to zerolog:
//
//	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), cfg)
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSlogLogger(logger zerolog.Logger) *slog.Logger {
	return slog.New(&zerologHandler{logger: logger})
}

func (h *zerologHandler) Enabled(_ context.Context, level slog.Level) bool {
	zl := zerologLevel(level)
	return zl >= h.logger.GetLevel() && zl >= zerolog.GlobalLevel()
}

//nolint:gocritic // slog.Record is passed by value per slog.Handler interface
func (h *zerologHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make(map[string]any, record.NumAttrs())
	record.Attrs(func(attr slog.Attr) bool {
		flatten(fields, h.prefix, attr)
		return true
	})

	event := h.logger.WithLevel(zerologLevel(record.Level))
	if len(fields) > 0 {
		event = event.Fields(fields)
	}
	event.Msg(record.Message)
	return nil
}

func (h *zerologHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	fields := make(map[string]any, len(attrs))
	for _, attr := range attrs {
		flatten(fields, h.prefix, attr)
	}
	return &zerologHandler{
		logger: h.logger.With().Fields(fields).Logger(),
		prefix: h.prefix,
	}
}

func (h *zerologHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &zerologHandler{logger: h.logger, prefix: h.prefix + name + "."}
}

// flatten writes attr into fields, descending into groups. Empty attributes
// are dropped and inline groups (empty key) keep the current prefix.
func flatten(fields map[string]any, prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	if attr.Value.Kind() == slog.KindGroup {
		next := prefix
		if attr.Key != "" {
			next = prefix + attr.Key + "."
		}
		for _, child := range attr.Value.Group() {
			flatten(fields, next, child)
		}
		return
	}

	switch attr.Value.Kind() {
	case slog.KindString:
		fields[prefix+attr.Key] = attr.Value.String()
	case slog.KindInt64:
		fields[prefix+attr.Key] = attr.Value.Int64()
	case slog.KindUint64:
		fields[prefix+attr.Key] = attr.Value.Uint64()
	case slog.KindFloat64:
		fields[prefix+attr.Key] = attr.Value.Float64()
	case slog.KindBool:
		fields[prefix+attr.Key] = attr.Value.Bool()
	case slog.KindDuration:
		fields[prefix+attr.Key] = attr.Value.Duration()
	case slog.KindTime:
		fields[prefix+attr.Key] = attr.Value.Time()
	default:
		fields[prefix+attr.Key] = attr.Value.Any()
	}
}

// zerologLevel maps slog levels onto zerolog's, rounding custom levels down
// to the nearest named one.
func zerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level >= slog.LevelError:
		return zerolog.ErrorLevel
	case level >= slog.LevelWarn:
		return zerolog.WarnLevel
	case level >= slog.LevelInfo:
		return zerolog.InfoLevel
	case level >= slog.LevelDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}
