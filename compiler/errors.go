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
package compiler

import "go.trai.ch/zerr"

var (
	// ErrMissingOptions is returned when init carries no compiler options object.
	ErrMissingOptions = zerr.New("missing compiler options")

	// ErrInvalidTarget is returned for a target that is neither a known name nor a number.
	ErrInvalidTarget = zerr.New("invalid script target")

	// ErrMissingCompilerName is returned when init does not name an engine.
	ErrMissingCompilerName = zerr.New("missing compiler name")

	// ErrMissingLibFile is returned when a default library path is empty.
	ErrMissingLibFile = zerr.New("missing default library file name")
)
