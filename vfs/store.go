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

// Package vfs holds the virtual file set the analysis engine reads from.
// Files arrive from the coordinating process with opaque version tokens;
// nothing here touches the disk.
package vfs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
)

// Version is an opaque token compared only for equality.
type Version string

// UnmarshalJSON accepts both string and numeric versions.
func (v *Version) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Version(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("version must be a string or number: %w", err)
	}
	*v = Version(n.String())
	return nil
}

// EncodeMsgpack writes the version as a string.
func (v Version) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(string(v))
}

// DecodeMsgpack accepts both string and integer versions.
func (v *Version) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeInterface()
	if err != nil {
		return err
	}
	switch x := raw.(type) {
	case string:
		*v = Version(x)
	case int8:
		*v = Version(strconv.FormatInt(int64(x), 10))
	case int16:
		*v = Version(strconv.FormatInt(int64(x), 10))
	case int32:
		*v = Version(strconv.FormatInt(int64(x), 10))
	case int64:
		*v = Version(strconv.FormatInt(x, 10))
	case uint8:
		*v = Version(strconv.FormatUint(uint64(x), 10))
	case uint16:
		*v = Version(strconv.FormatUint(uint64(x), 10))
	case uint32:
		*v = Version(strconv.FormatUint(uint64(x), 10))
	case uint64:
		*v = Version(strconv.FormatUint(x, 10))
	case float64:
		*v = Version(strconv.FormatFloat(x, 'f', -1, 64))
	default:
		return fmt.Errorf("version must be a string or number, got %T", raw)
	}
	return nil
}

// File is one entry of a compile payload.
type File struct {
	Text    string  `json:"text" msgpack:"text"`
	Version Version `json:"version" msgpack:"version"`
}

type entry struct {
	version  Version
	snapshot *Snapshot
}

// Store is the current file set. It is owned by the worker's control loop
// and only read by the engine, so it carries no lock.
type Store struct {
	files map[string]entry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{files: make(map[string]entry)}
}

// Replace swaps in a new file set. Paths missing from files are forgotten.
// Snapshots of files whose version and text did not change are kept, so an
// engine holding one still sees the identical value.
func (s *Store) Replace(files map[string]File) {
	next := make(map[string]entry, len(files))
	for path, f := range files {
		if prev, ok := s.files[path]; ok && prev.version == f.Version && prev.snapshot.Text() == f.Text {
			next[path] = prev
			continue
		}
		next[path] = entry{version: f.Version, snapshot: NewSnapshot(f.Text)}
	}
	s.files = next
}

// ListFiles returns every known path, sorted.
func (s *Store) ListFiles() []string {
	paths := make([]string, 0, len(s.files))
	for path := range s.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Version returns the version of path.
func (s *Store) Version(path string) (Version, bool) {
	e, ok := s.files[path]
	return e.version, ok
}

// Snapshot returns the text snapshot of path.
func (s *Store) Snapshot(path string) (*Snapshot, bool) {
	e, ok := s.files[path]
	if !ok {
		return nil, false
	}
	return e.snapshot, true
}

// Len returns the number of files.
func (s *Store) Len() int {
	return len(s.files)
}
