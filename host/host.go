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

// Package host adapts the worker's file store and resolution table to the
// environment an analysis engine session expects.
package host

import (
	"log/slog"

	"bennypowers.dev/tsworker/compiler"
	"bennypowers.dev/tsworker/engine"
	"bennypowers.dev/tsworker/fs"
	"bennypowers.dev/tsworker/resolution"
	"bennypowers.dev/tsworker/vfs"
)

var _ engine.Host = (*Host)(nil)

// Host implements engine.Host over the worker state. It keeps references,
// not copies: replacing the store or cache contents is visible to the
// engine on its next read.
type Host struct {
	files       *vfs.Store
	resolutions *resolution.Cache
	options     compiler.Options
	info        compiler.Info
	fs          fs.FileSystem
	logger      *slog.Logger
}

// New creates a Host. It performs no validation.
func New(files *vfs.Store, resolutions *resolution.Cache, options compiler.Options, info compiler.Info) *Host {
	return &Host{
		files:       files,
		resolutions: resolutions,
		options:     options,
		info:        info,
		fs:          fs.NewOSFileSystem(),
		logger:      slog.Default(),
	}
}

// WithFileSystem returns a Host that reports the working directory of fsys.
func (h *Host) WithFileSystem(fsys fs.FileSystem) *Host {
	c := *h
	c.fs = fsys
	return &c
}

// WithLogger returns a Host that forwards engine log text to logger.
func (h *Host) WithLogger(logger *slog.Logger) *Host {
	c := *h
	c.logger = logger
	return &c
}

func (h *Host) ScriptFileNames() []string {
	return h.files.ListFiles()
}

// ScriptVersion returns "" for unknown paths; engines only ask about listed files.
func (h *Host) ScriptVersion(path string) string {
	v, _ := h.files.Version(path)
	return string(v)
}

func (h *Host) ScriptSnapshot(path string) (*vfs.Snapshot, bool) {
	return h.files.Snapshot(path)
}

func (h *Host) CurrentDirectory() string {
	wd, err := h.fs.Getwd()
	if err != nil {
		h.logger.Warn("cannot determine working directory", "error", err)
		return ""
	}
	return wd
}

// ScriptIsOpen is always true: every file the coordinator sends is live.
func (h *Host) ScriptIsOpen(string) bool {
	return true
}

func (h *Host) CompilationSettings() compiler.Options {
	return h.options
}

func (h *Host) ResolveModuleNames(specifiers []string, containingFile string) []*resolution.Module {
	resolved := make([]*resolution.Module, len(specifiers))
	for i, specifier := range specifiers {
		if m, ok := h.resolutions.Resolve(containingFile, specifier); ok {
			resolved[i] = m
		}
	}
	return resolved
}

func (h *Host) DefaultLibFileName(options compiler.Options) string {
	target, err := options.Target()
	if err != nil {
		target = compiler.DefaultTarget
	}
	return h.info.DefaultLib(target)
}

func (h *Host) Log(msg string) {
	h.logger.Debug(msg, "source", "engine")
}
