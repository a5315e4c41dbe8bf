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

// Package testutil loads fixtures from the repository's testdata directory.
package testutil

import (
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/tsworker/internal/mapfs"
)

var updateGolden = flag.Bool("update", false, "update golden files with actual output")

// candidates lists where testdata/<rel> may live relative to the package
// under test.
func candidates(rel string) []string {
	return []string{
		filepath.Join("testdata", rel),
		filepath.Join("..", "testdata", rel),
		filepath.Join("..", "..", "testdata", rel),
	}
}

func locate(t *testing.T, rel string) string {
	t.Helper()
	for _, p := range candidates(rel) {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	t.Fatalf("fixture %s not found", rel)
	return ""
}

// NewFixtureFS loads testdata/<fixtureDir> into an in-memory filesystem
// rooted at rootPath, e.g. NewFixtureFS(t, "lib", "/lib").
func NewFixtureFS(t *testing.T, fixtureDir string, rootPath string) *mapfs.MapFileSystem {
	t.Helper()
	dir := locate(t, fixtureDir)
	mfs := mapfs.New()
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		mfs.AddFile(filepath.ToSlash(filepath.Join(rootPath, rel)), string(content), 0644)
		return nil
	})
	if err != nil {
		t.Fatalf("loading fixtures from %s: %v", fixtureDir, err)
	}
	if len(mfs.Paths()) == 0 {
		t.Fatalf("fixture directory %s is empty", fixtureDir)
	}
	return mfs
}

// LoadFixtureFile returns the content of testdata/<fixturePath>.
func LoadFixtureFile(t *testing.T, fixturePath string) []byte {
	t.Helper()
	content, err := os.ReadFile(locate(t, fixturePath))
	if err != nil {
		t.Fatalf("reading fixture %s: %v", fixturePath, err)
	}
	return content
}

// LoadGoldenFile returns the expected output stored in testdata, or nil when
// running with -update.
func LoadGoldenFile(t *testing.T, goldenPath string) []byte {
	t.Helper()
	if *updateGolden {
		return nil
	}
	return LoadFixtureFile(t, goldenPath)
}

// UpdateGoldenFile overwrites a golden file when running with -update.
func UpdateGoldenFile(t *testing.T, goldenPath string, actual []byte) {
	t.Helper()
	if !*updateGolden {
		return
	}
	target := candidates(goldenPath)[0]
	for _, p := range candidates(goldenPath) {
		if _, err := os.Stat(filepath.Dir(p)); err == nil {
			target = p
			break
		}
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatalf("creating directory for %s: %v", goldenPath, err)
	}
	if err := os.WriteFile(target, actual, 0644); err != nil {
		t.Fatalf("writing golden file %s: %v", goldenPath, err)
	}
	t.Logf("updated golden file %s", target)
}
