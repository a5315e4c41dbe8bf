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
	"sort"

	"go.trai.ch/zerr"
)

// ErrUnknownEngine is returned when no engine is registered under a name.
var ErrUnknownEngine = zerr.New("unknown analysis engine")

// Registry maps compiler names to engines.
type Registry struct {
	engines map[string]Engine
}

// NewRegistry creates a registry holding engines under their names.
func NewRegistry(engines ...Engine) *Registry {
	r := &Registry{engines: make(map[string]Engine, len(engines))}
	for _, e := range engines {
		r.Register(e)
	}
	return r
}

// Register adds e, replacing any engine of the same name.
func (r *Registry) Register(e Engine) {
	r.engines[e.Name()] = e
}

// Lookup returns the engine registered under name.
func (r *Registry) Lookup(name string) (Engine, error) {
	e, ok := r.engines[name]
	if !ok {
		return nil, zerr.With(ErrUnknownEngine, "compilerName", name)
	}
	return e, nil
}

// Names lists registered engine names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
