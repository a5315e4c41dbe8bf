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
package tsengine

import (
	"embed"
	"fmt"
	"path"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsTypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

//go:embed queries/*.scm
var queryFiles embed.FS

// grammar selects the tree-sitter language a file is parsed with.
type grammar int

const (
	grammarTypeScript grammar = iota
	grammarTSX
)

func (g grammar) String() string {
	if g == grammarTSX {
		return "tsx"
	}
	return "typescript"
}

// Languages holds pre-initialized tree-sitter language grammars.
var languages = map[grammar]*ts.Language{
	grammarTypeScript: ts.NewLanguage(tsTypescript.LanguageTypescript()),
	grammarTSX:        ts.NewLanguage(tsTypescript.LanguageTSX()),
}

// Parser pools for reuse.
var parserPools = map[grammar]*sync.Pool{
	grammarTypeScript: newParserPool(grammarTypeScript),
	grammarTSX:        newParserPool(grammarTSX),
}

func newParserPool(g grammar) *sync.Pool {
	return &sync.Pool{
		New: func() any {
			parser := ts.NewParser()
			if err := parser.SetLanguage(languages[g]); err != nil {
				panic("failed to set " + g.String() + " language: " + err.Error())
			}
			return parser
		},
	}
}

func getParser(g grammar) *ts.Parser {
	return parserPools[g].Get().(*ts.Parser)
}

func putParser(g grammar, p *ts.Parser) {
	p.Reset()
	parserPools[g].Put(p)
}

// queryNames lists the embedded queries compiled for every grammar.
var queryNames = []string{"imports", "declarations", "annotations"}

// QueryManager holds compiled queries per grammar.
type QueryManager struct {
	mu      sync.Mutex
	closed  bool
	queries map[grammar]map[string]*ts.Query
}

// NewQueryManager compiles the named queries for both grammars.
func NewQueryManager(names []string) (*QueryManager, error) {
	qm := &QueryManager{queries: make(map[grammar]map[string]*ts.Query)}
	for g := range languages {
		qm.queries[g] = make(map[string]*ts.Query)
		for _, name := range names {
			if err := qm.loadQuery(g, name); err != nil {
				qm.Close()
				return nil, err
			}
		}
	}
	return qm, nil
}

func (qm *QueryManager) loadQuery(g grammar, name string) error {
	queryPath := path.Join("queries", name+".scm")
	data, err := queryFiles.ReadFile(queryPath)
	if err != nil {
		return fmt.Errorf("failed to read query %s: %w", queryPath, err)
	}
	query, qerr := ts.NewQuery(languages[g], string(data))
	if qerr != nil {
		return fmt.Errorf("failed to parse query %s for %s: %w", name, g, qerr)
	}
	qm.queries[g][name] = query
	return nil
}

// Close releases all query resources. Safe to call multiple times.
func (qm *QueryManager) Close() {
	qm.mu.Lock()
	if qm.closed {
		qm.mu.Unlock()
		return
	}
	qm.closed = true
	queries := qm.queries
	qm.queries = nil
	qm.mu.Unlock()

	for _, byName := range queries {
		for _, q := range byName {
			q.Close()
		}
	}
}

// Query returns a compiled query.
func (qm *QueryManager) Query(g grammar, name string) (*ts.Query, error) {
	q, ok := qm.queries[g][name]
	if !ok {
		return nil, fmt.Errorf("query not found: %s/%s", g, name)
	}
	return q, nil
}

// Matches runs a query and calls fn with the captures of each match keyed
// by capture name.
func (qm *QueryManager) Matches(g grammar, name string, root *ts.Node, content []byte, fn func(captures map[string]ts.Node)) error {
	query, err := qm.Query(g, name)
	if err != nil {
		return err
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	captureNames := query.CaptureNames()
	matches := cursor.Matches(query, root, content)
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		captures := make(map[string]ts.Node, len(match.Captures))
		for _, capture := range match.Captures {
			captures[captureNames[capture.Index]] = capture.Node
		}
		fn(captures)
	}
	return nil
}

// Global query manager singleton
var (
	globalQM     *QueryManager
	globalQMOnce sync.Once
	globalQMErr  error
)

// GetQueryManager returns the global query manager instance.
func GetQueryManager() (*QueryManager, error) {
	globalQMOnce.Do(func() {
		globalQM, globalQMErr = NewQueryManager(queryNames)
	})
	return globalQM, globalQMErr
}
