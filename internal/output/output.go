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

// Package output renders recheck outcomes for humans.
package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"

	"bennypowers.dev/tsworker/checker"
)

// Console writes diagnostics and success summaries to a writer, normally
// stderr. It implements checker.Reporter.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	failure *color.Color
	code    *color.Color
	success *color.Color
}

// NewConsole creates a console reporter. Colors follow the terminal
// detection of the color package unless noColor is set.
func NewConsole(w io.Writer, noColor bool) *Console {
	c := &Console{
		w:       w,
		failure: color.New(color.FgRed, color.Bold),
		code:    color.New(color.FgHiBlack),
		success: color.New(color.FgGreen),
	}
	if noColor {
		c.failure.DisableColor()
		c.code.DisableColor()
		c.success.DisableColor()
	}
	return c
}

// Diagnostics prints one line per diagnostic.
func (c *Console) Diagnostics(diags []checker.Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range diags {
		fmt.Fprintf(c.w, "%s%s %s: %s\n",
			location(d), c.failure.Sprint("error"), c.code.Sprint(d.CodeString()), d.Message)
	}
}

// Success prints the completion summary.
func (c *Console) Success(elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, c.success.Sprintf("Type check completed in %.2fs", elapsed.Seconds()))
}

// FormatDiagnostic renders a diagnostic without color, e.g.
// "/src/a.ts(3,7): error TS2322: Type 'string' is not assignable to type 'number'."
// Files outside the store print without a position.
func FormatDiagnostic(d checker.Diagnostic) string {
	return fmt.Sprintf("%serror %s: %s", location(d), d.CodeString(), d.Message)
}

func location(d checker.Diagnostic) string {
	if d.Location == nil {
		if d.HasFile() {
			return d.File + ": "
		}
		return ""
	}
	return fmt.Sprintf("%s(%d,%d): ", d.File, d.Location.Line, d.Location.Column)
}
