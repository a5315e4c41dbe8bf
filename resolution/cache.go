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

// Package resolution holds module resolution results computed by the
// coordinating process. Lookups never fall back to probing the filesystem:
// a key that is missing, or present with a null result, is unresolved.
package resolution

// Separator joins the containing file and the specifier in cache keys.
const Separator = "::"

// Module is a resolved import.
type Module struct {
	ResolvedFileName        string `json:"resolvedFileName" msgpack:"resolvedFileName"`
	Extension               string `json:"extension,omitempty" msgpack:"extension,omitempty"`
	IsExternalLibraryImport bool   `json:"isExternalLibraryImport,omitempty" msgpack:"isExternalLibraryImport,omitempty"`
}

// Key builds the cache key for specifier imported from containingFile.
func Key(containingFile, specifier string) string {
	return containingFile + Separator + specifier
}

// Cache is the resolution table for the current compile.
type Cache struct {
	entries map[string]*Module
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Module)}
}

// Replace swaps in a new resolution table.
func (c *Cache) Replace(entries map[string]*Module) {
	next := make(map[string]*Module, len(entries))
	for k, m := range entries {
		next[k] = m
	}
	c.entries = next
}

// Resolve looks up specifier relative to containingFile.
func (c *Cache) Resolve(containingFile, specifier string) (*Module, bool) {
	m := c.entries[Key(containingFile, specifier)]
	if m == nil || m.ResolvedFileName == "" {
		return nil, false
	}
	return m, true
}

// Len returns the number of entries, unresolved ones included.
func (c *Cache) Len() int {
	return len(c.entries)
}
