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
// Package mapfs provides an in-memory filesystem implementation for testing.
package mapfs

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"testing/fstest"
	"time"
)

// MapFileSystem implements fs.FileSystem over an in-memory fstest.MapFS.
type MapFileSystem struct {
	mu      sync.RWMutex
	mapFS   fstest.MapFS
	wd      string
	modTime time.Time
}

// New creates a new in-memory filesystem rooted at "/".
func New() *MapFileSystem {
	return &MapFileSystem{
		mapFS:   make(fstest.MapFS),
		wd:      "/",
		modTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// AddFile adds a file to the in-memory filesystem.
func (mfs *MapFileSystem) AddFile(name string, content string, mode fs.FileMode) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	mfs.mapFS[cleanPath(name)] = &fstest.MapFile{
		Data:    []byte(content),
		Mode:    mode,
		ModTime: mfs.modTime,
	}
}

// RemoveFile deletes a file. Missing files are ignored.
func (mfs *MapFileSystem) RemoveFile(name string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	delete(mfs.mapFS, cleanPath(name))
}

// SetWorkingDir sets the directory reported by Getwd.
func (mfs *MapFileSystem) SetWorkingDir(dir string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.wd = dir
}

// ReadFile implements fs.FileSystem.
func (mfs *MapFileSystem) ReadFile(name string) ([]byte, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	return fs.ReadFile(mfs.mapFS, cleanPath(name))
}

// Stat implements fs.FileSystem.
func (mfs *MapFileSystem) Stat(name string) (fs.FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	return fs.Stat(mfs.mapFS, cleanPath(name))
}

// Exists implements fs.FileSystem. Directories exist when any file lives below them.
func (mfs *MapFileSystem) Exists(name string) bool {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	name = cleanPath(name)
	if _, exists := mfs.mapFS[name]; exists {
		return true
	}

	prefix := name + "/"
	for filePath := range mfs.mapFS {
		if strings.HasPrefix(filePath, prefix) {
			return true
		}
	}
	return false
}

// Getwd implements fs.FileSystem.
func (mfs *MapFileSystem) Getwd() (string, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	return mfs.wd, nil
}

// Paths returns every file path, sorted, in absolute form.
func (mfs *MapFileSystem) Paths() []string {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	paths := make([]string, 0, len(mfs.mapFS))
	for p := range mfs.mapFS {
		paths = append(paths, "/"+p)
	}
	sort.Strings(paths)
	return paths
}

// cleanPath maps absolute paths onto the unrooted keys fstest.MapFS expects.
func cleanPath(p string) string {
	cleaned := path.Clean(p)
	if !path.IsAbs(cleaned) {
		cleaned = "/" + cleaned
	}
	if cleaned == "/" {
		return "."
	}
	return strings.TrimPrefix(cleaned, "/")
}
