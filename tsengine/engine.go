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

// Package tsengine is an analysis engine built on tree-sitter's TypeScript
// and TSX grammars. It checks syntax, module resolution, duplicate
// block-scoped declarations and primitive literal assignments, and reparses
// only files whose version changed since the previous program.
package tsengine

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"bennypowers.dev/tsworker/engine"
	"bennypowers.dev/tsworker/fs"
)

// Name is the compiler name this engine registers under.
const Name = "typescript"

// DefaultCacheSize bounds the number of parsed files a session keeps.
const DefaultCacheSize = 4096

var _ engine.Engine = (*Engine)(nil)

// Engine creates tree-sitter analysis sessions.
type Engine struct {
	fs        fs.FileSystem
	cacheSize int
}

// New creates an Engine that looks up default libraries on fsys.
func New(fsys fs.FileSystem) *Engine {
	return &Engine{fs: fsys, cacheSize: DefaultCacheSize}
}

// WithCacheSize returns an Engine whose sessions keep at most n parsed files.
// Values below one select DefaultCacheSize.
func (e *Engine) WithCacheSize(n int) *Engine {
	if n < 1 {
		n = DefaultCacheSize
	}
	return &Engine{fs: e.fs, cacheSize: n}
}

func (e *Engine) Name() string {
	return Name
}

// NewSession creates a session reading from host.
func (e *Engine) NewSession(host engine.Host) (engine.Session, error) {
	qm, err := GetQueryManager()
	if err != nil {
		return nil, err
	}
	files, err := lru.New[string, *sourceFile](e.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating parse cache: %w", err)
	}
	return &Session{engine: e, host: host, queries: qm, files: files}, nil
}

var _ engine.Session = (*Session)(nil)

// Session keeps parsed files across programs, keyed by path and checked
// against the host's script version.
type Session struct {
	engine  *Engine
	host    engine.Host
	queries *QueryManager
	files   *lru.Cache[string, *sourceFile]
}

// Program builds a program over the host's current files.
func (s *Session) Program(_ context.Context) (engine.Program, error) {
	options := s.host.CompilationSettings()
	allowJs := options.Bool("allowJs") || options.Bool("checkJs")

	names := s.host.ScriptFileNames()
	p := &Program{
		options: options,
		files:   make(map[string]*sourceFile, len(names)),
	}

	for _, name := range names {
		kind, ok := classify(name, allowJs)
		if !ok {
			continue
		}
		version := s.host.ScriptVersion(name)
		if cached, ok := s.files.Get(name); ok && cached.version == version {
			p.add(cached)
			continue
		}
		snapshot, ok := s.host.ScriptSnapshot(name)
		if !ok {
			continue
		}
		sf, err := parseSourceFile(s.queries, name, version, kind, []byte(snapshot.Text()))
		if err != nil {
			return nil, err
		}
		s.files.Add(name, sf)
		p.add(sf)
		p.reparsed = append(p.reparsed, name)
	}

	for _, key := range s.files.Keys() {
		if _, live := p.files[key]; !live {
			s.files.Remove(key)
		}
	}

	p.resolve(s.host)
	p.checkDefaultLib(s.host, s.engine.fs)

	s.host.Log(fmt.Sprintf("program: %d files, %d reparsed", len(p.order), len(p.reparsed)))
	return p, nil
}
