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
package engine

import (
	"bennypowers.dev/tsworker/compiler"
	"bennypowers.dev/tsworker/resolution"
	"bennypowers.dev/tsworker/vfs"
)

// Host is the environment a session reads from. Except for Log, every
// method is a pure function of the worker's current state.
type Host interface {
	// ScriptFileNames lists every file in the current file set.
	ScriptFileNames() []string

	// ScriptVersion returns the version token of a listed file.
	ScriptVersion(path string) string

	// ScriptSnapshot returns the text of a listed file. Unknown paths
	// report ok == false.
	ScriptSnapshot(path string) (snapshot *vfs.Snapshot, ok bool)

	CurrentDirectory() string

	// ScriptIsOpen reports whether a file is live in an editor.
	ScriptIsOpen(path string) bool

	CompilationSettings() compiler.Options

	// ResolveModuleNames resolves specifiers imported from containingFile.
	// The result has exactly one slot per specifier, in order; nil slots
	// are unresolved.
	ResolveModuleNames(specifiers []string, containingFile string) []*resolution.Module

	// DefaultLibFileName returns the declaration library for options.
	DefaultLibFileName(options compiler.Options) string

	Log(msg string)
}
