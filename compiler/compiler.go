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

// Package compiler holds the compilation settings and engine information a
// worker receives on init.
package compiler

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// ScriptTarget is the language version a program is checked against.
// Values follow the numeric encoding of compiler option files.
type ScriptTarget int

const (
	ES3    ScriptTarget = 0
	ES5    ScriptTarget = 1
	ES2015 ScriptTarget = 2
	ES2016 ScriptTarget = 3
	ES2017 ScriptTarget = 4
	ES2018 ScriptTarget = 5
	ES2019 ScriptTarget = 6
	ES2020 ScriptTarget = 7
	ES2021 ScriptTarget = 8
	ES2022 ScriptTarget = 9
	ES2023 ScriptTarget = 10
	ES2024 ScriptTarget = 11
	ESNext ScriptTarget = 99

	// DefaultTarget applies when the options carry no target.
	DefaultTarget = ES5
)

var targetNames = map[string]ScriptTarget{
	"es3":    ES3,
	"es5":    ES5,
	"es6":    ES2015,
	"es2015": ES2015,
	"es2016": ES2016,
	"es2017": ES2017,
	"es2018": ES2018,
	"es2019": ES2019,
	"es2020": ES2020,
	"es2021": ES2021,
	"es2022": ES2022,
	"es2023": ES2023,
	"es2024": ES2024,
	"esnext": ESNext,
	"latest": ESNext,
}

// ParseTarget parses a target name ("ES6", "es2020", "ESNext") or its numeric form.
func ParseTarget(s string) (ScriptTarget, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if t, ok := targetNames[key]; ok {
		return t, nil
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 0 {
		return ScriptTarget(n), nil
	}
	return 0, zerr.With(ErrInvalidTarget, "target", s)
}

// AtLeast reports whether t is the same as or newer than other.
func (t ScriptTarget) AtLeast(other ScriptTarget) bool {
	return t >= other
}

func (t ScriptTarget) String() string {
	switch t {
	case ES3:
		return "ES3"
	case ES5:
		return "ES5"
	case ES2015:
		return "ES2015"
	case ESNext:
		return "ESNext"
	}
	if t > ES2015 && t <= ES2024 {
		return fmt.Sprintf("ES%d", 2015+int(t-ES2015))
	}
	return fmt.Sprintf("ScriptTarget(%d)", int(t))
}

// Options is the opaque compilation settings object. Only the keys the
// worker and its engines understand are given typed accessors; everything
// else is carried through untouched.
type Options map[string]any

// Target returns the configured script target, DefaultTarget when unset.
func (o Options) Target() (ScriptTarget, error) {
	raw, ok := o["target"]
	if !ok || raw == nil {
		return DefaultTarget, nil
	}
	switch v := raw.(type) {
	case string:
		return ParseTarget(v)
	case float64:
		if v != math.Trunc(v) || v < 0 || v > math.MaxInt32 {
			return 0, zerr.With(ErrInvalidTarget, "target", v)
		}
		return ScriptTarget(int(v)), nil
	case float32:
		return Options{"target": float64(v)}.Target()
	case int:
		return nonNegative(int64(v))
	case int8:
		return nonNegative(int64(v))
	case int16:
		return nonNegative(int64(v))
	case int32:
		return nonNegative(int64(v))
	case int64:
		return nonNegative(v)
	case uint8:
		return ScriptTarget(v), nil
	case uint16:
		return ScriptTarget(v), nil
	case uint32:
		return ScriptTarget(v), nil
	case uint64:
		if v > math.MaxInt32 {
			return 0, zerr.With(ErrInvalidTarget, "target", v)
		}
		return ScriptTarget(v), nil
	}
	return 0, zerr.With(ErrInvalidTarget, "target", fmt.Sprintf("%v", raw))
}

func nonNegative(v int64) (ScriptTarget, error) {
	if v < 0 || v > math.MaxInt32 {
		return 0, zerr.With(ErrInvalidTarget, "target", v)
	}
	return ScriptTarget(v), nil
}

// Bool returns a boolean flag; absent or non-boolean values are false.
func (o Options) Bool(name string) bool {
	v, ok := o[name].(bool)
	return ok && v
}

// Validate checks the keys with typed accessors.
func (o Options) Validate() error {
	if o == nil {
		return ErrMissingOptions
	}
	if _, err := o.Target(); err != nil {
		return err
	}
	return nil
}

// LibFile points at a built-in declaration library.
type LibFile struct {
	FileName string `json:"fileName" msgpack:"fileName"`
}

// Info identifies the analysis engine and its default libraries.
type Info struct {
	CompilerName string  `json:"compilerName" msgpack:"compilerName"`
	Lib5         LibFile `json:"lib5" msgpack:"lib5"`
	Lib6         LibFile `json:"lib6" msgpack:"lib6"`
}

// Validate reports missing engine information.
func (i Info) Validate() error {
	if i.CompilerName == "" {
		return ErrMissingCompilerName
	}
	if i.Lib5.FileName == "" {
		return zerr.With(ErrMissingLibFile, "lib", "lib5")
	}
	if i.Lib6.FileName == "" {
		return zerr.With(ErrMissingLibFile, "lib", "lib6")
	}
	return nil
}

// DefaultLib selects the declaration library for a target: the ES2015 library
// for ES2015 and newer, the ES5 library otherwise.
func (i Info) DefaultLib(target ScriptTarget) string {
	if target.AtLeast(ES2015) {
		return i.Lib6.FileName
	}
	return i.Lib5.FileName
}
