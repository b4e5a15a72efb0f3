// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package movielens

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/tomtom215/reelmatch/internal/ratings"
)

const (
	ratingFields = 4
	itemFields   = 5 + ratings.NumGenres

	// ctxCheckEvery is how many records are parsed between context checks.
	ctxCheckEvery = 4096

	releaseDateLayout = "02-Jan-2006"
)

// ErrNoHeader is returned when an external ratings file lacks the required columns.
var ErrNoHeader = errors.New("missing IMDb_URL or imdb_rating column")

// ParseStats counts what a parser read and dropped.
type ParseStats struct {
	Records int
	Skipped int
}

var titleYear = regexp.MustCompile(`\((\d{4})\)\s*$`)

// ParseRatings reads u.data records.
func ParseRatings(ctx context.Context, r io.Reader) ([]ratings.Rating, ParseStats, error) {
	reader := newReader(r, '\t')

	var (
		out   []ratings.Rating
		stats ParseStats
	)
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if isRecordError(err) {
				stats.Skipped++
				continue
			}
			return nil, stats, fmt.Errorf("read ratings: %w", err)
		}

		stats.Records++
		if stats.Records%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}

		rating, ok := parseRating(rec)
		if !ok {
			stats.Skipped++
			continue
		}
		out = append(out, rating)
	}
	return out, stats, nil
}

func parseRating(rec []string) (ratings.Rating, bool) {
	if len(rec) < ratingFields {
		return ratings.Rating{}, false
	}
	user, err1 := strconv.Atoi(strings.TrimSpace(rec[0]))
	item, err2 := strconv.Atoi(strings.TrimSpace(rec[1]))
	value, err3 := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
	ts, err4 := strconv.ParseInt(strings.TrimSpace(rec[3]), 10, 64)
	if err := errors.Join(err1, err2, err3, err4); err != nil {
		return ratings.Rating{}, false
	}
	return ratings.Rating{UserID: user, ItemID: item, Value: value, Timestamp: ts}, true
}

// ParseItems reads u.item records. The input is decoded from Latin-1.
func ParseItems(ctx context.Context, r io.Reader) ([]ratings.Item, ParseStats, error) {
	reader := newReader(charmap.ISO8859_1.NewDecoder().Reader(r), '|')

	var (
		out   []ratings.Item
		stats ParseStats
	)
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if isRecordError(err) {
				stats.Skipped++
				continue
			}
			return nil, stats, fmt.Errorf("read items: %w", err)
		}

		stats.Records++
		if stats.Records%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}

		item, ok := parseItem(rec)
		if !ok {
			stats.Skipped++
			continue
		}
		out = append(out, item)
	}
	return out, stats, nil
}

func parseItem(rec []string) (ratings.Item, bool) {
	if len(rec) < itemFields {
		return ratings.Item{}, false
	}
	id, err := strconv.Atoi(strings.TrimSpace(rec[0]))
	if err != nil {
		return ratings.Item{}, false
	}

	item := ratings.Item{
		ID:               id,
		Title:            strings.TrimSpace(rec[1]),
		ReleaseDate:      strings.TrimSpace(rec[2]),
		VideoReleaseDate: strings.TrimSpace(rec[3]),
		URL:              strings.TrimSpace(rec[4]),
	}
	item.Year = releaseYear(item.ReleaseDate, item.Title)

	for g := 0; g < ratings.NumGenres; g++ {
		switch strings.TrimSpace(rec[5+g]) {
		case "1":
			item.Genres = item.Genres.Add(ratings.Genre(g))
		case "0", "":
		default:
			return ratings.Item{}, false
		}
	}
	return item, true
}

// releaseYear prefers the release date and falls back to a "(1995)" title suffix.
func releaseYear(date, title string) int {
	if t, err := time.Parse(releaseDateLayout, date); err == nil {
		return t.Year()
	}
	if m := titleYear.FindStringSubmatch(title); m != nil {
		year, _ := strconv.Atoi(m[1])
		return year
	}
	return 0
}

// ParseExternalRatings reads an IMDb ratings CSV. Rows without a URL or
// with an unparseable rating are skipped.
func ParseExternalRatings(ctx context.Context, r io.Reader) ([]ratings.ExternalRating, ParseStats, error) {
	reader := newReader(r, ',')

	var stats ParseStats
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, ErrNoHeader
		}
		return nil, stats, fmt.Errorf("read external ratings header: %w", err)
	}

	urlCol, ratingCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "imdb_url":
			urlCol = i
		case "imdb_rating":
			ratingCol = i
		}
	}
	if urlCol < 0 || ratingCol < 0 {
		return nil, stats, ErrNoHeader
	}

	var out []ratings.ExternalRating
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if isRecordError(err) {
				stats.Skipped++
				continue
			}
			return nil, stats, fmt.Errorf("read external ratings: %w", err)
		}

		stats.Records++
		if stats.Records%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}

		if urlCol >= len(rec) || ratingCol >= len(rec) {
			stats.Skipped++
			continue
		}
		url := strings.TrimSpace(rec[urlCol])
		value, err := strconv.ParseFloat(strings.TrimSpace(rec[ratingCol]), 64)
		if url == "" || err != nil {
			stats.Skipped++
			continue
		}
		out = append(out, ratings.ExternalRating{URL: url, Rating: value})
	}
	return out, stats, nil
}

func newReader(r io.Reader, sep rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true
	return reader
}

// isRecordError reports whether err concerns one record rather than the stream.
func isRecordError(err error) bool {
	var parseErr *csv.ParseError
	return errors.As(err, &parseErr)
}
