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
package checker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"bennypowers.dev/tsworker/checker"
	"bennypowers.dev/tsworker/compiler"
	"bennypowers.dev/tsworker/engine"
	"bennypowers.dev/tsworker/engine/mocks"
	"bennypowers.dev/tsworker/host"
	"bennypowers.dev/tsworker/resolution"
	"bennypowers.dev/tsworker/testutil"
	"bennypowers.dev/tsworker/tsengine"
	"bennypowers.dev/tsworker/vfs"
)

// events records notifications and reports in the order they happen.
type events struct {
	log         []string
	progress    []bool
	diagnostics [][]checker.Diagnostic
	successes   int
	progressErr error
}

func (e *events) Progress(_ context.Context, inProgress bool) error {
	e.progress = append(e.progress, inProgress)
	if inProgress {
		e.log = append(e.log, "progress:true")
	} else {
		e.log = append(e.log, "progress:false")
	}
	return e.progressErr
}

func (e *events) Diagnostics(diags []checker.Diagnostic) {
	e.log = append(e.log, "diagnostics")
	e.diagnostics = append(e.diagnostics, diags)
}

func (e *events) Success(time.Duration) {
	e.log = append(e.log, "success")
	e.successes++
}

func newMockChecker(t *testing.T, ev *events) (*checker.Checker, *mocks.MockSession, *vfs.Store) {
	t.Helper()
	ctrl := gomock.NewController(t)
	session := mocks.NewMockSession(ctrl)
	store := vfs.NewStore()
	c := checker.New(store, resolution.NewCache(), session, ev).WithReporter(ev)
	return c, session, store
}

func TestCheckProgressBracketsProgram(t *testing.T) {
	ev := &events{}
	c, session, _ := newMockChecker(t, ev)
	program := mocks.NewMockProgram(gomock.NewController(t))

	session.EXPECT().Program(gomock.Any()).DoAndReturn(func(context.Context) (engine.Program, error) {
		ev.log = append(ev.log, "program")
		return program, nil
	})
	program.EXPECT().PreEmitDiagnostics(gomock.Any()).Return(nil, nil)

	result, err := c.Check(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.True(t, result.OK())
	assert.Equal(t, 0, result.Files)
	assert.NotEmpty(t, result.Cycle)
	assert.Equal(t, []bool{true, false}, ev.progress)
	assert.Equal(t, []string{"progress:true", "program", "success", "progress:false"}, ev.log)
	assert.Same(t, program, c.LastProgram())
}

func TestCheckLocatesDiagnostics(t *testing.T) {
	ev := &events{}
	c, session, _ := newMockChecker(t, ev)
	program := mocks.NewMockProgram(gomock.NewController(t))

	text := "let a = 1;\nlet b: number = 'x';\n"
	session.EXPECT().Program(gomock.Any()).Return(program, nil)
	program.EXPECT().PreEmitDiagnostics(gomock.Any()).Return([]engine.Diagnostic{
		{File: "/src/a.ts", Start: 15, Length: 1, Code: 2322, Message: "Type 'string' is not assignable to type 'number'."},
		{Code: 6053, Message: "File '/lib/lib.d.ts' not found."},
		{File: "/lib/lib.d.ts", Start: 3, Code: 1005, Message: "';' expected."},
	}, nil)

	result, err := c.Check(context.Background(), map[string]vfs.File{
		"/src/a.ts": {Text: text, Version: "1"},
	}, nil)
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 3)

	located := result.Diagnostics[0]
	require.NotNil(t, located.Location)
	assert.Equal(t, vfs.Position{Line: 2, Column: 5}, *located.Location)
	assert.Nil(t, result.Diagnostics[1].Location)
	assert.Nil(t, result.Diagnostics[2].Location)

	assert.Equal(t, []string{"progress:true", "diagnostics", "progress:false"}, ev.log)
	assert.Equal(t, result.Diagnostics, ev.diagnostics[0])
}

func TestCheckEngineFailureStillClosesProgress(t *testing.T) {
	ev := &events{}
	c, session, _ := newMockChecker(t, ev)

	session.EXPECT().Program(gomock.Any()).Return(nil, errors.New("engine crashed"))

	result, err := c.Check(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, []string{"progress:true", "progress:false"}, ev.log)
	assert.Nil(t, c.LastProgram())
}

func TestCheckDiagnosticsFailure(t *testing.T) {
	ev := &events{}
	c, session, _ := newMockChecker(t, ev)
	program := mocks.NewMockProgram(gomock.NewController(t))

	session.EXPECT().Program(gomock.Any()).Return(program, nil)
	program.EXPECT().PreEmitDiagnostics(gomock.Any()).Return(nil, errors.New("checker exploded"))

	_, err := c.Check(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Equal(t, []bool{true, false}, ev.progress)
	assert.Zero(t, ev.successes)
	assert.Empty(t, ev.diagnostics)
}

func TestCheckProgressFailure(t *testing.T) {
	ev := &events{progressErr: errors.New("pipe closed")}
	c, _, _ := newMockChecker(t, ev)

	_, err := c.Check(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Equal(t, []bool{true}, ev.progress)
}

func TestCheckReplacesStore(t *testing.T) {
	ev := &events{}
	c, session, store := newMockChecker(t, ev)
	program := mocks.NewMockProgram(gomock.NewController(t))

	session.EXPECT().Program(gomock.Any()).Return(program, nil).Times(2)
	program.EXPECT().PreEmitDiagnostics(gomock.Any()).Return(nil, nil).Times(2)

	_, err := c.Check(context.Background(), map[string]vfs.File{
		"/a.ts": {Text: "a", Version: "1"},
		"/b.ts": {Text: "b", Version: "1"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a.ts", "/b.ts"}, store.ListFiles())

	_, err = c.Check(context.Background(), map[string]vfs.File{
		"/b.ts": {Text: "b", Version: "2"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/b.ts"}, store.ListFiles())
	v, ok := store.Version("/b.ts")
	require.True(t, ok)
	assert.Equal(t, vfs.Version("2"), v)
}

func TestWithIgnore(t *testing.T) {
	ev := &events{}
	c, session, _ := newMockChecker(t, ev)
	program := mocks.NewMockProgram(gomock.NewController(t))

	c, err := c.WithIgnore([]string{"/vendor/**"})
	require.NoError(t, err)

	session.EXPECT().Program(gomock.Any()).Return(program, nil)
	program.EXPECT().PreEmitDiagnostics(gomock.Any()).Return([]engine.Diagnostic{
		{File: "/vendor/pkg/index.ts", Code: 2307, Message: "Cannot find module 'x' or its corresponding type declarations."},
		{File: "/src/a.ts", Code: 2307, Message: "Cannot find module 'y' or its corresponding type declarations."},
	}, nil)

	result, err := c.Check(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "/src/a.ts", result.Diagnostics[0].File)
}

func TestWithIgnoreInvalidPattern(t *testing.T) {
	c := checker.New(vfs.NewStore(), resolution.NewCache(), nil, &events{})
	_, err := c.WithIgnore([]string{"src/[a"})
	assert.ErrorContains(t, err, "invalid ignore pattern")
}

// typescriptChecker wires a checker to the tree-sitter engine over the
// fixture default libraries.
func typescriptChecker(t *testing.T, ev *events) *checker.Checker {
	t.Helper()
	mfs := testutil.NewFixtureFS(t, "lib", "/lib")
	files := vfs.NewStore()
	resolutions := resolution.NewCache()
	info := compiler.Info{
		CompilerName: tsengine.Name,
		Lib5:         compiler.LibFile{FileName: "/lib/lib.d.ts"},
		Lib6:         compiler.LibFile{FileName: "/lib/lib.es6.d.ts"},
	}
	h := host.New(files, resolutions, compiler.Options{"target": "ES5"}, info).WithFileSystem(mfs)
	session, err := tsengine.New(mfs).NewSession(h)
	require.NoError(t, err)
	return checker.New(files, resolutions, session, ev).WithReporter(ev)
}

func TestCheckTypeErrorThenFix(t *testing.T) {
	ev := &events{}
	c := typescriptChecker(t, ev)
	ctx := context.Background()

	result, err := c.Check(ctx, map[string]vfs.File{
		"/src/a.ts": {Text: "let n: number = \"x\";\n", Version: "1"},
	}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, result.Diagnostics)

	d := result.Diagnostics[0]
	assert.Equal(t, "/src/a.ts", d.File)
	assert.Equal(t, 2322, d.Code)
	require.NotNil(t, d.Location)
	assert.GreaterOrEqual(t, d.Location.Line, 1)
	assert.GreaterOrEqual(t, d.Location.Column, 1)

	result, err = c.Check(ctx, map[string]vfs.File{
		"/src/a.ts": {Text: "let n: number = 1;\n", Version: "2"},
	}, nil)
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, 1, ev.successes)
	assert.Equal(t, []bool{true, false, true, false}, ev.progress)
}

func TestCheckEmptyFiles(t *testing.T) {
	ev := &events{}
	c := typescriptChecker(t, ev)

	result, err := c.Check(context.Background(), map[string]vfs.File{}, map[string]*resolution.Module{})
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, 0, result.Files)
	assert.Equal(t, 1, ev.successes)
}

func TestCheckIsRepeatable(t *testing.T) {
	ev := &events{}
	c := typescriptChecker(t, ev)
	ctx := context.Background()

	files := map[string]vfs.File{
		"/src/a.ts": {Text: "import { b } from './b';\nlet x: string = 1;\n", Version: "1"},
		"/src/b.ts": {Text: "export const b = 1;\n", Version: "1"},
	}
	resolutions := map[string]*resolution.Module{
		resolution.Key("/src/a.ts", "./b"): {ResolvedFileName: "/src/b.ts", Extension: ".ts"},
	}

	first, err := c.Check(ctx, files, resolutions)
	require.NoError(t, err)
	second, err := c.Check(ctx, files, resolutions)
	require.NoError(t, err)

	assert.NotEqual(t, first.Cycle, second.Cycle)
	assert.Equal(t, first.Diagnostics, second.Diagnostics)
	require.Len(t, first.Diagnostics, 1)
	assert.Equal(t, 2322, first.Diagnostics[0].Code)
}
