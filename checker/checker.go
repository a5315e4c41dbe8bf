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

// Package checker runs recheck cycles: it swaps in the latest files and
// resolutions, asks the engine session for a program, and reports what the
// program's diagnostics say.
package checker

import (
	"context"
	"log/slog"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/zerr"

	"bennypowers.dev/tsworker/engine"
	"bennypowers.dev/tsworker/resolution"
	"bennypowers.dev/tsworker/vfs"
)

const tracerName = "bennypowers.dev/tsworker/checker"

// ErrInvalidIgnorePattern is returned by WithIgnore for malformed globs.
var ErrInvalidIgnorePattern = zerr.New("invalid ignore pattern")

// Notifier receives the progress notifications that bracket each cycle.
type Notifier interface {
	Progress(ctx context.Context, inProgress bool) error
}

// Reporter presents the outcome of a cycle.
type Reporter interface {
	Diagnostics(diags []Diagnostic)
	Success(elapsed time.Duration)
}

// Diagnostic is an engine diagnostic with its location resolved against the
// file store. Location is nil when the diagnostic has no file or its file is
// not part of the store.
type Diagnostic struct {
	engine.Diagnostic
	Location *vfs.Position
}

// Result is the outcome of one cycle.
type Result struct {
	Cycle       string
	Files       int
	Diagnostics []Diagnostic
	Elapsed     time.Duration
}

// OK reports whether the cycle produced no diagnostics.
func (r *Result) OK() bool {
	return len(r.Diagnostics) == 0
}

// Checker drives recheck cycles against one long-lived session. It is not
// safe for concurrent use; cycles are expected to run one at a time.
type Checker struct {
	files       *vfs.Store
	resolutions *resolution.Cache
	session     engine.Session
	notifier    Notifier
	reporter    Reporter
	logger      *slog.Logger
	ignore      []string
	tracer      trace.Tracer
	lastProgram engine.Program
}

// New creates a checker over the store and cache the session's host reads.
func New(files *vfs.Store, resolutions *resolution.Cache, session engine.Session, notifier Notifier) *Checker {
	return &Checker{
		files:       files,
		resolutions: resolutions,
		session:     session,
		notifier:    notifier,
		reporter:    discard{},
		logger:      slog.Default(),
		tracer:      otel.Tracer(tracerName),
	}
}

// WithReporter sets where cycle outcomes are reported.
func (c *Checker) WithReporter(r Reporter) *Checker {
	c.reporter = r
	return c
}

// WithLogger sets the logger.
func (c *Checker) WithLogger(logger *slog.Logger) *Checker {
	c.logger = logger
	return c
}

// WithIgnore drops diagnostics whose file matches any of the doublestar
// patterns.
func (c *Checker) WithIgnore(patterns []string) (*Checker, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, zerr.With(ErrInvalidIgnorePattern, "pattern", p)
		}
	}
	c.ignore = append([]string(nil), patterns...)
	return c, nil
}

// LastProgram returns the program built by the most recent cycle, or nil.
func (c *Checker) LastProgram() engine.Program {
	return c.lastProgram
}

// Check runs one cycle. The two progress notifications are always sent
// around the diagnostic pass, including when the engine fails; the engine
// error is returned after the closing notification.
func (c *Checker) Check(
	ctx context.Context,
	files map[string]vfs.File,
	resolutions map[string]*resolution.Module,
) (*Result, error) {
	cycle := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "recheck", trace.WithAttributes(
		attribute.String("cycle", cycle),
		attribute.Int("files", len(files)),
	))
	defer span.End()

	start := time.Now()
	c.files.Replace(files)
	c.resolutions.Replace(resolutions)

	if err := c.notifier.Progress(ctx, true); err != nil {
		return nil, fail(span, zerr.Wrap(err, "failed to send progress"))
	}

	diags, err := c.collect(ctx)
	result := &Result{
		Cycle:       cycle,
		Files:       c.files.Len(),
		Diagnostics: diags,
		Elapsed:     time.Since(start),
	}
	if err == nil {
		if result.OK() {
			c.reporter.Success(result.Elapsed)
		} else {
			c.reporter.Diagnostics(result.Diagnostics)
		}
	}

	if perr := c.notifier.Progress(ctx, false); perr != nil && err == nil {
		err = zerr.Wrap(perr, "failed to send progress")
	}
	if err != nil {
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.Int("diagnostics", len(diags)))
	c.logger.Info("recheck finished",
		"cycle", cycle,
		"files", result.Files,
		"diagnostics", len(diags),
		"elapsed", result.Elapsed.Round(time.Millisecond),
	)
	return result, nil
}

func (c *Checker) collect(ctx context.Context) ([]Diagnostic, error) {
	program, err := c.session.Program(ctx)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to build program")
	}
	c.lastProgram = program

	if r, ok := program.(interface{ Reparsed() []string }); ok {
		c.logger.Debug("program updated", "sources", len(program.SourceFiles()), "reparsed", len(r.Reparsed()))
	}

	raw, err := program.PreEmitDiagnostics(ctx)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to collect diagnostics")
	}

	diags := make([]Diagnostic, 0, len(raw))
	for _, d := range raw {
		if c.ignored(d.File) {
			continue
		}
		diags = append(diags, c.locate(d))
	}
	return diags, nil
}

func (c *Checker) locate(d engine.Diagnostic) Diagnostic {
	out := Diagnostic{Diagnostic: d}
	if !d.HasFile() {
		return out
	}
	snap, ok := c.files.Snapshot(d.File)
	if !ok {
		return out
	}
	pos := snap.Position(d.Start)
	out.Location = &pos
	return out
}

func (c *Checker) ignored(path string) bool {
	if path == "" {
		return false
	}
	for _, p := range c.ignore {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

type discard struct{}

func (discard) Diagnostics([]Diagnostic) {}
func (discard) Success(time.Duration) {}
