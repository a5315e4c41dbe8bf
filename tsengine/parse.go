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
	"fmt"
	"sort"
	"strings"

	"fortio.org/safecast"
	ts "github.com/tree-sitter/go-tree-sitter"

	"bennypowers.dev/tsworker/engine"
)

// Diagnostic codes reported by this engine.
const (
	codeIdentifierExpected   = 1003
	codeTokenExpected        = 1005
	codeExpressionExpected   = 1109
	codeDeclarationExpected  = 1128
	codeDuplicateIdentifier  = 2300
	codeCannotFindModule     = 2307
	codeNotAssignable        = 2322
	codeRedeclareBlockScoped = 2451
	codeFileNotFound         = 6053
)

// sourceKind classifies a file by extension.
type sourceKind struct {
	grammar     grammar
	declaration bool
	javascript  bool
}

// classify returns the kind of a file, or false for files the engine does
// not check (unknown extensions, and JavaScript without allowJs).
func classify(path string, allowJs bool) (sourceKind, bool) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".d.ts"), strings.HasSuffix(lower, ".d.mts"), strings.HasSuffix(lower, ".d.cts"):
		return sourceKind{grammar: grammarTypeScript, declaration: true}, true
	case strings.HasSuffix(lower, ".ts"), strings.HasSuffix(lower, ".mts"), strings.HasSuffix(lower, ".cts"):
		return sourceKind{grammar: grammarTypeScript}, true
	case strings.HasSuffix(lower, ".tsx"):
		return sourceKind{grammar: grammarTSX}, true
	case strings.HasSuffix(lower, ".js"), strings.HasSuffix(lower, ".jsx"),
		strings.HasSuffix(lower, ".mjs"), strings.HasSuffix(lower, ".cjs"):
		return sourceKind{grammar: grammarTSX, javascript: true}, allowJs
	}
	return sourceKind{}, false
}

// importRef is one module specifier occurrence.
type importRef struct {
	specifier string
	start     int
	length    int
}

// sourceFile holds what the engine keeps of a parsed file. Trees are
// released right after extraction; only these facts are cached.
type sourceFile struct {
	path     string
	version  string
	kind     sourceKind
	imports  []importRef
	syntax   []engine.Diagnostic
	semantic []engine.Diagnostic
}

// specifiers returns the distinct specifiers in first-occurrence order.
func (f *sourceFile) specifiers() []string {
	seen := make(map[string]struct{}, len(f.imports))
	var out []string
	for _, imp := range f.imports {
		if _, ok := seen[imp.specifier]; ok {
			continue
		}
		seen[imp.specifier] = struct{}{}
		out = append(out, imp.specifier)
	}
	return out
}

// parseSourceFile parses content and extracts imports and diagnostics.
func parseSourceFile(qm *QueryManager, path, version string, kind sourceKind, content []byte) (*sourceFile, error) {
	parser := getParser(kind.grammar)
	defer putParser(kind.grammar, parser)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s", path)
	}
	defer tree.Close()

	root := tree.RootNode()
	sf := &sourceFile{
		path:    path,
		version: version,
		kind:    kind,
		syntax:  syntaxDiagnostics(root, path),
	}

	if err := qm.Matches(kind.grammar, "imports", root, content, func(c map[string]ts.Node) {
		node, ok := c["import.source"]
		if !ok {
			return
		}
		text := node.Utf8Text(content)
		if len(text) < 2 {
			return
		}
		start, length := span(&node)
		sf.imports = append(sf.imports, importRef{
			specifier: text[1 : len(text)-1],
			start:     start,
			length:    length,
		})
	}); err != nil {
		return nil, err
	}

	declarations, err := duplicateDeclarations(qm, kind.grammar, root, content, path)
	if err != nil {
		return nil, err
	}
	assignments, err := literalAssignments(qm, kind.grammar, root, content, path)
	if err != nil {
		return nil, err
	}
	sf.semantic = append(declarations, assignments...)
	return sf, nil
}

// syntaxDiagnostics reports missing tokens and error nodes. Error subtrees
// are not descended into, so one malformed region yields one diagnostic.
func syntaxDiagnostics(root *ts.Node, path string) []engine.Diagnostic {
	if !root.HasError() {
		return nil
	}

	var diags []engine.Diagnostic
	cursor := root.Walk()
	defer cursor.Close()

	for {
		node := cursor.Node()
		descend := false
		switch {
		case node.IsMissing():
			diags = append(diags, missingNode(node, path))
		case node.IsError():
			start, length := span(node)
			diags = append(diags, engine.Diagnostic{
				File:    path,
				Start:   start,
				Length:  length,
				Code:    codeDeclarationExpected,
				Message: "Declaration or statement expected.",
			})
		default:
			descend = node.HasError()
		}

		if descend && cursor.GotoFirstChild() {
			continue
		}
		for !cursor.GotoNextSibling() {
			if !cursor.GotoParent() {
				return diags
			}
		}
	}
}

func missingNode(node *ts.Node, path string) engine.Diagnostic {
	start, _ := span(node)
	d := engine.Diagnostic{File: path, Start: start}
	kind := node.Kind()
	switch {
	case !node.IsNamed():
		d.Code = codeTokenExpected
		d.Message = fmt.Sprintf("'%s' expected.", kind)
	case strings.HasSuffix(kind, "identifier"):
		d.Code = codeIdentifierExpected
		d.Message = "Identifier expected."
	default:
		d.Code = codeExpressionExpected
		d.Message = "Expression expected."
	}
	return d
}

// duplicateDeclarations reports top-level let, const and class names
// declared more than once in the same file.
func duplicateDeclarations(qm *QueryManager, g grammar, root *ts.Node, content []byte, path string) ([]engine.Diagnostic, error) {
	type decl struct {
		start, length int
		variable      bool
	}
	byName := make(map[string][]decl)
	var order []string

	err := qm.Matches(g, "declarations", root, content, func(c map[string]ts.Node) {
		for capture, node := range c {
			name := node.Utf8Text(content)
			start, length := span(&node)
			if _, seen := byName[name]; !seen {
				order = append(order, name)
			}
			byName[name] = append(byName[name], decl{
				start:    start,
				length:   length,
				variable: capture == "decl.variable",
			})
		}
	})
	if err != nil {
		return nil, err
	}

	var diags []engine.Diagnostic
	for _, name := range order {
		decls := byName[name]
		if len(decls) < 2 {
			continue
		}
		code, message := codeDuplicateIdentifier, fmt.Sprintf("Duplicate identifier '%s'.", name)
		for _, d := range decls {
			if d.variable {
				code, message = codeRedeclareBlockScoped, fmt.Sprintf("Cannot redeclare block-scoped variable '%s'.", name)
				break
			}
		}
		for _, d := range decls {
			diags = append(diags, engine.Diagnostic{File: path, Start: d.start, Length: d.length, Code: code, Message: message})
		}
	}
	return diags, nil
}

// literalTypes maps literal node kinds to the primitive type they widen to.
var literalTypes = map[string]string{
	"number":          "number",
	"string":          "string",
	"template_string": "string",
	"true":            "boolean",
	"false":           "boolean",
}

// literalAssignments reports variables whose primitive annotation
// disagrees with their literal initializer.
func literalAssignments(qm *QueryManager, g grammar, root *ts.Node, content []byte, path string) ([]engine.Diagnostic, error) {
	var diags []engine.Diagnostic
	err := qm.Matches(g, "annotations", root, content, func(c map[string]ts.Node) {
		name, okName := c["assign.name"]
		typ, okType := c["assign.type"]
		value, okValue := c["assign.value"]
		if !okName || !okType || !okValue {
			return
		}
		declared := typ.Utf8Text(content)
		if declared != "number" && declared != "string" && declared != "boolean" {
			return
		}
		actual, ok := literalTypes[value.Kind()]
		if !ok || actual == declared {
			return
		}
		start, length := span(&name)
		diags = append(diags, engine.Diagnostic{
			File:    path,
			Start:   start,
			Length:  length,
			Code:    codeNotAssignable,
			Message: fmt.Sprintf("Type '%s' is not assignable to type '%s'.", actual, declared),
		})
	})
	return diags, err
}

// span returns a node's byte offset and length as ints.
func span(node *ts.Node) (start, length int) {
	start, err := safecast.Conv[int](node.StartByte())
	if err != nil {
		return 0, 0
	}
	end, err := safecast.Conv[int](node.EndByte())
	if err != nil || end < start {
		return start, 0
	}
	return start, end - start
}

// sortDiagnostics orders global diagnostics first, then by file and offset.
func sortDiagnostics(diags []engine.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Code < b.Code
	})
}
