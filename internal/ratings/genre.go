// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package ratings

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/goccy/go-json"
)

// ErrUnknownGenre is returned when a genre name is not part of the enumeration.
var ErrUnknownGenre = errors.New("unknown genre")

// Genre is one of the fixed MovieLens genre flags, in item-file column order.
type Genre uint8

const (
	GenreUnknown Genre = iota
	GenreAction
	GenreAdventure
	GenreAnimation
	GenreChildrens
	GenreComedy
	GenreCrime
	GenreDocumentary
	GenreDrama
	GenreFantasy
	GenreFilmNoir
	GenreHorror
	GenreMusical
	GenreMystery
	GenreRomance
	GenreSciFi
	GenreThriller
	GenreWar
	GenreWestern

	// NumGenres is the number of genre flags carried by every item.
	NumGenres = int(GenreWestern) + 1
)

var genreNames = [NumGenres]string{
	"unknown",
	"Action",
	"Adventure",
	"Animation",
	"Children's",
	"Comedy",
	"Crime",
	"Documentary",
	"Drama",
	"Fantasy",
	"Film-Noir",
	"Horror",
	"Musical",
	"Mystery",
	"Romance",
	"Sci-Fi",
	"Thriller",
	"War",
	"Western",
}

// String returns the MovieLens display name of the genre.
func (g Genre) String() string {
	if int(g) < NumGenres {
		return genreNames[g]
	}
	return fmt.Sprintf("Genre(%d)", uint8(g))
}

// AllGenres returns every genre in column order.
func AllGenres() []Genre {
	out := make([]Genre, NumGenres)
	for i := range out {
		out[i] = Genre(i)
	}
	return out
}

// SelectableGenres returns the genres offered to users for genre queries.
// The "unknown" placeholder flag is left out.
func SelectableGenres() []Genre {
	return AllGenres()[1:]
}

// ParseGenre resolves a genre name case-insensitively.
// "Childrens", "Film Noir" and "SciFi" style spellings are accepted as well.
func ParseGenre(name string) (Genre, error) {
	key := normalizeGenreName(name)
	for i, n := range genreNames {
		if normalizeGenreName(n) == key {
			return Genre(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGenre, name)
}

func normalizeGenreName(name string) string {
	r := strings.NewReplacer("'", "", "-", "", " ", "", "_", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(name)))
}

// GenreSet is a bitset of genres.
type GenreSet uint32

// NewGenreSet returns a set holding the given genres.
func NewGenreSet(genres ...Genre) GenreSet {
	var s GenreSet
	for _, g := range genres {
		s = s.Add(g)
	}
	return s
}

// ParseGenreSet resolves a list of genre names into a set.
func ParseGenreSet(names []string) (GenreSet, error) {
	var s GenreSet
	for _, name := range names {
		g, err := ParseGenre(name)
		if err != nil {
			return 0, err
		}
		s = s.Add(g)
	}
	return s, nil
}

// Add returns the set with g included.
func (s GenreSet) Add(g Genre) GenreSet {
	return s | 1<<g
}

// Has reports whether g is in the set.
func (s GenreSet) Has(g Genre) bool {
	return s&(1<<g) != 0
}

// ContainsAll reports whether every genre of other is also in s.
func (s GenreSet) ContainsAll(other GenreSet) bool {
	return s&other == other
}

// IsEmpty reports whether the set has no genres.
func (s GenreSet) IsEmpty() bool {
	return s == 0
}

// Len returns the number of genres in the set.
func (s GenreSet) Len() int {
	return bits.OnesCount32(uint32(s))
}

// Genres returns the members in column order.
func (s GenreSet) Genres() []Genre {
	out := make([]Genre, 0, s.Len())
	for i := 0; i < NumGenres; i++ {
		if s.Has(Genre(i)) {
			out = append(out, Genre(i))
		}
	}
	return out
}

// Names returns the display names of the members in column order.
func (s GenreSet) Names() []string {
	genres := s.Genres()
	out := make([]string, len(genres))
	for i, g := range genres {
		out[i] = g.String()
	}
	return out
}

// String joins the member names with "|".
func (s GenreSet) String() string {
	return strings.Join(s.Names(), "|")
}

// MarshalJSON encodes the set as a list of genre names.
func (s GenreSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// UnmarshalJSON decodes a list of genre names.
func (s *GenreSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("decode genres: %w", err)
	}
	set, err := ParseGenreSet(names)
	if err != nil {
		return err
	}
	*s = set
	return nil
}
