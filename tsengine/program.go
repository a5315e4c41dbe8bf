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
	"context"
	"fmt"
	"slices"

	"bennypowers.dev/tsworker/compiler"
	"bennypowers.dev/tsworker/engine"
	"bennypowers.dev/tsworker/fs"
)

var _ engine.Program = (*Program)(nil)

// Program is one checked set of file versions.
type Program struct {
	options    compiler.Options
	order      []string
	files      map[string]*sourceFile
	reparsed   []string
	resolution []engine.Diagnostic
	global     []engine.Diagnostic
}

func (p *Program) add(sf *sourceFile) {
	p.order = append(p.order, sf.path)
	p.files[sf.path] = sf
}

// SourceFiles lists the files the program checked.
func (p *Program) SourceFiles() []string {
	return slices.Clone(p.order)
}

// Reparsed lists the files parsed for this program rather than reused.
func (p *Program) Reparsed() []string {
	return slices.Clone(p.reparsed)
}

// resolve asks the host once per file for its distinct specifiers.
func (p *Program) resolve(host engine.Host) {
	for _, name := range p.order {
		sf := p.files[name]
		if sf.kind.javascript && !p.options.Bool("checkJs") {
			continue
		}
		specifiers := sf.specifiers()
		if len(specifiers) == 0 {
			continue
		}
		resolved := host.ResolveModuleNames(specifiers, name)
		unresolved := make(map[string]bool, len(specifiers))
		for i, specifier := range specifiers {
			if i >= len(resolved) || resolved[i] == nil {
				unresolved[specifier] = true
			}
		}
		for _, imp := range sf.imports {
			if !unresolved[imp.specifier] {
				continue
			}
			p.resolution = append(p.resolution, engine.Diagnostic{
				File:    name,
				Start:   imp.start,
				Length:  imp.length,
				Code:    codeCannotFindModule,
				Message: fmt.Sprintf("Cannot find module '%s' or its corresponding type declarations.", imp.specifier),
			})
		}
	}
}

// checkDefaultLib reports a default library missing from disk.
func (p *Program) checkDefaultLib(host engine.Host, fsys fs.FileSystem) {
	if p.options.Bool("noLib") {
		return
	}
	lib := host.DefaultLibFileName(p.options)
	if lib == "" || fsys.Exists(lib) {
		return
	}
	p.global = append(p.global, engine.Diagnostic{
		Code:    codeFileNotFound,
		Message: fmt.Sprintf("File '%s' not found.", lib),
	})
}

// PreEmitDiagnostics returns global, syntactic, semantic and resolution
// diagnostics, globals first and the rest ordered by file and offset.
func (p *Program) PreEmitDiagnostics(_ context.Context) ([]engine.Diagnostic, error) {
	skipLibCheck := p.options.Bool("skipLibCheck")
	checkJs := p.options.Bool("checkJs")

	diags := slices.Clone(p.global)
	for _, name := range p.order {
		sf := p.files[name]
		diags = append(diags, sf.syntax...)
		switch {
		case sf.kind.declaration && skipLibCheck:
		case sf.kind.javascript && !checkJs:
		default:
			diags = append(diags, sf.semantic...)
		}
	}
	diags = append(diags, p.resolution...)
	sortDiagnostics(diags)
	return diags, nil
}
