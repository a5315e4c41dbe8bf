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

// Package engine describes the contract between the worker and an analysis
// engine: the environment an engine session reads from (Host), and the
// session and program the worker drives.
package engine

import (
	"context"
	"fmt"
)

//go:generate go run go.uber.org/mock/mockgen -source=engine.go -destination=mocks/mock_engine.go -package=mocks

// Engine creates analysis sessions. Implementations are registered by name
// and selected by the compilerName of an init message.
type Engine interface {
	Name() string
	NewSession(host Host) (Session, error)
}

// Session is a long-lived analysis instance bound to one Host. Each call to
// Program reflects the host's current files; the session decides what it can
// reuse from earlier programs by comparing script versions.
type Session interface {
	Program(ctx context.Context) (Program, error)
}

// Program is the semantic snapshot of one set of file versions.
type Program interface {
	SourceFiles() []string
	PreEmitDiagnostics(ctx context.Context) ([]Diagnostic, error)
}

// Diagnostic is one issue reported by an engine. Start and Length are byte
// offsets into File's text. File is empty for global diagnostics.
type Diagnostic struct {
	File    string
	Start   int
	Length  int
	Code    int
	Message string
}

// HasFile reports whether the diagnostic is attached to a file.
func (d Diagnostic) HasFile() bool {
	return d.File != ""
}

// CodeString renders the code the way compilers print it, e.g. "TS2307".
func (d Diagnostic) CodeString() string {
	if d.Code == 0 {
		return ""
	}
	return fmt.Sprintf("TS%d", d.Code)
}
