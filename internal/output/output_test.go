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
package output_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bennypowers.dev/tsworker/checker"
	"bennypowers.dev/tsworker/engine"
	"bennypowers.dev/tsworker/internal/output"
	"bennypowers.dev/tsworker/testutil"
	"bennypowers.dev/tsworker/vfs"
)

var reported = []checker.Diagnostic{
	{
		Diagnostic: engine.Diagnostic{File: "/src/a.ts", Start: 4, Length: 1, Code: 2322, Message: "Type 'string' is not assignable to type 'number'."},
		Location:   &vfs.Position{Line: 3, Column: 7},
	},
	{
		Diagnostic: engine.Diagnostic{Code: 6053, Message: "File '/lib/lib.d.ts' not found."},
	},
	{
		Diagnostic: engine.Diagnostic{File: "/lib/lib.es6.d.ts", Start: 12, Code: 1005, Message: "';' expected."},
	},
}

func TestConsoleDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	output.NewConsole(&buf, true).Diagnostics(reported)

	expected := testutil.LoadGoldenFile(t, "output/diagnostics.golden")
	testutil.UpdateGoldenFile(t, "output/diagnostics.golden", buf.Bytes())
	if expected != nil {
		assert.Equal(t, string(expected), buf.String())
	}
}

func TestConsoleSuccess(t *testing.T) {
	var buf bytes.Buffer
	output.NewConsole(&buf, true).Success(1234 * time.Millisecond)
	assert.Equal(t, "Type check completed in 1.23s\n", buf.String())
}

func TestFormatDiagnostic(t *testing.T) {
	assert.Equal(t,
		"/src/a.ts(3,7): error TS2322: Type 'string' is not assignable to type 'number'.",
		output.FormatDiagnostic(reported[0]))
	assert.Equal(t,
		"error TS6053: File '/lib/lib.d.ts' not found.",
		output.FormatDiagnostic(reported[1]))
	assert.Equal(t,
		"/lib/lib.es6.d.ts: error TS1005: ';' expected.",
		output.FormatDiagnostic(reported[2]))
}
