// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package display

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownUserName is returned by UserDirectory.Resolve for names outside the directory.
var ErrUnknownUserName = errors.New("unknown user")

const userNamePrefix = "User "

// UserDirectory maps user ids to display names and back.
type UserDirectory struct {
	ids   []int
	names map[int]string
	byKey map[string]int
}

// NewUserDirectory names every id "User <id>". ids are kept in the given order.
func NewUserDirectory(ids []int) *UserDirectory {
	d := &UserDirectory{
		ids:   make([]int, 0, len(ids)),
		names: make(map[int]string, len(ids)),
		byKey: make(map[string]int, len(ids)),
	}
	for _, id := range ids {
		if _, dup := d.names[id]; dup {
			continue
		}
		name := UserName(id)
		d.ids = append(d.ids, id)
		d.names[id] = name
		d.byKey[strings.ToLower(name)] = id
	}
	return d
}

// UserName formats a user id for display.
func UserName(id int) string {
	return userNamePrefix + strconv.Itoa(id)
}

// Len returns the number of users.
func (d *UserDirectory) Len() int {
	return len(d.ids)
}

// IDs returns the user ids in directory order.
func (d *UserDirectory) IDs() []int {
	return d.ids
}

// Name returns the display name of id, or false when id is not listed.
func (d *UserDirectory) Name(id int) (string, bool) {
	name, ok := d.names[id]
	return name, ok
}

// Names returns every display name in directory order.
func (d *UserDirectory) Names() []string {
	out := make([]string, len(d.ids))
	for i, id := range d.ids {
		out[i] = d.names[id]
	}
	return out
}

// Resolve accepts a display name ("User 12", case-insensitive) or a bare id
// ("12") and returns the user id.
func (d *UserDirectory) Resolve(input string) (int, error) {
	key := strings.ToLower(strings.Join(strings.Fields(input), " "))
	if id, ok := d.byKey[key]; ok {
		return id, nil
	}
	if id, err := strconv.Atoi(key); err == nil {
		if _, ok := d.names[id]; ok {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownUserName, input)
}
