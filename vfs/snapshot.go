/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
package vfs

import (
	"sort"
	"unicode/utf8"
)

// Position is a 1-based line and column. Columns count runes.
type Position struct {
	Line   int
	Column int
}

// Snapshot is an immutable view of one file's text.
type Snapshot struct {
	text       string
	lineStarts []int
}

// NewSnapshot builds a snapshot and its line index.
func NewSnapshot(text string) *Snapshot {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Snapshot{text: text, lineStarts: starts}
}

// Text returns the full text.
func (s *Snapshot) Text() string {
	return s.text
}

// Len returns the text length in bytes.
func (s *Snapshot) Len() int {
	return len(s.text)
}

// Position converts a byte offset to a line and column. Offsets outside the
// text are clamped to its bounds.
func (s *Snapshot) Position(offset int) Position {
	offset = max(0, min(offset, len(s.text)))
	line := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > offset
	}) - 1
	start := s.lineStarts[line]
	return Position{
		Line:   line + 1,
		Column: utf8.RuneCountInString(s.text[start:offset]) + 1,
	}
}
