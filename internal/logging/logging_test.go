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
package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)

	logger.Info("recheck finished", "files", 3, "path", "/src/a file.ts", "took", 1500*time.Millisecond)

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "[INFO]  "), line)
	assert.Contains(t, line, "recheck finished | files=3 path=\"/src/a file.ts\" took=1.5s")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestCompactHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Debug("hidden")
	logger.Error("shown", "error", errors.New("boom"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[ERROR] ")
	assert.Contains(t, buf.String(), `error="boom"`)
}

func TestCompactHandlerWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelDebug).With("cycle", "abc").WithGroup("engine")

	logger.Debug("parsed", "files", 2)

	assert.Contains(t, buf.String(), "[DEBUG] ")
	assert.Contains(t, buf.String(), "parsed | cycle=abc engine.files=2")
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
