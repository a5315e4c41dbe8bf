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
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"bennypowers.dev/tsworker/protocol"
)

func TestMain(m *testing.M) {
	// Build the binary before running tests
	wd := mustGetwd()
	cmd := exec.Command("go", "build", "-o", "tsworker_test", ".")
	cmd.Dir = wd
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("failed to build test binary: " + err.Error() + "\n" + string(out))
	}
	code := m.Run()
	_ = os.Remove(filepath.Join(wd, "tsworker_test"))
	os.Exit(code)
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return wd
}

func runCLI(t *testing.T, stdin io.Reader, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	binary := filepath.Join(mustGetwd(), "tsworker_test")
	cmd := exec.Command(binary, args...)
	cmd.Stdin = stdin

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("Failed to run CLI: %v", err)
		}
	}

	return stdout, stderr, exitCode
}

// frames encodes envelopes the way a parent process writes them.
func frames(t *testing.T, envelopes ...string) io.Reader {
	t.Helper()
	var buf bytes.Buffer
	for _, e := range envelopes {
		fmt.Fprintf(&buf, "Content-Length: %d\r\n\r\n%s", len(e), e)
	}
	return &buf
}

func readAll(t *testing.T, stdout string) []protocol.Message {
	t.Helper()
	conn := protocol.NewConn(strings.NewReader(stdout), io.Discard, protocol.JSON)
	var msgs []protocol.Message
	for {
		msg, err := conn.Read()
		if errors.Is(err, io.EOF) {
			return msgs
		}
		if err != nil {
			t.Fatalf("reading worker output: %v\nstdout: %q", err, stdout)
		}
		msgs = append(msgs, msg)
	}
}

const initEnvelope = `{"messageType":"init","payload":{"compilerOptions":{"target":"ES2015"},` +
	`"compilerInfo":{"compilerName":"typescript","lib5":{"fileName":"testdata/lib/lib.d.ts"},` +
	`"lib6":{"fileName":"testdata/lib/lib.es6.d.ts"}}}}`

func TestVersion(t *testing.T) {
	stdout, stderr, code := runCLI(t, nil, "version")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if !strings.HasPrefix(stdout, "tsworker ") {
		t.Errorf("Expected version line, got %q", stdout)
	}
	if !strings.Contains(stdout, "typescript") {
		t.Errorf("Expected registered engine in %q", stdout)
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, stderr, code := runCLI(t, nil, "version", "--format", "json")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	var info map[string]any
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nstdout: %s", err, stdout)
	}
	if _, ok := info["version"]; !ok {
		t.Error("Expected version key")
	}
	if _, ok := info["engines"]; !ok {
		t.Error("Expected engines key")
	}
}

func TestCheckClean(t *testing.T) {
	session := filepath.Join("testdata", "sessions", "clean.json")
	stdout, stderr, code := runCLI(t, nil, "check", session, "--no-color")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstdout: %s\nstderr: %s", code, stdout, stderr)
	}
	if !strings.Contains(stdout, "Type check completed in ") {
		t.Errorf("Expected success summary, got %q", stdout)
	}
}

func TestCheckErrors(t *testing.T) {
	session := filepath.Join("testdata", "sessions", "errors.json")
	stdout, stderr, code := runCLI(t, nil, "check", session, "--no-color")
	if code != 1 {
		t.Fatalf("Expected exit code 1, got %d\nstdout: %s\nstderr: %s", code, stdout, stderr)
	}
	for _, want := range []string{
		"/src/a.ts(1,5): error TS2322: Type 'string' is not assignable to type 'number'.",
		"error TS2307: Cannot find module './missing' or its corresponding type declarations.",
		"Type check completed in ",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Expected %q in output:\n%s", want, stdout)
		}
	}
	if !strings.Contains(stderr, "1 of 2 rechecks reported diagnostics") {
		t.Errorf("Expected failure summary in stderr, got %q", stderr)
	}
}

func TestCheckIgnore(t *testing.T) {
	session := filepath.Join("testdata", "sessions", "errors.json")
	stdout, stderr, code := runCLI(t, nil, "check", session, "--no-color", "--ignore", "/src/**")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstdout: %s\nstderr: %s", code, stdout, stderr)
	}
	if strings.Contains(stdout, "error TS") {
		t.Errorf("Expected ignored diagnostics, got %q", stdout)
	}
}

func TestCheckCompileBeforeInit(t *testing.T) {
	session := filepath.Join("testdata", "sessions", "uninitialized.json")
	_, stderr, code := runCLI(t, nil, "check", session)
	if code != 1 {
		t.Fatalf("Expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr, "compile received before init") {
		t.Errorf("Expected protocol violation, got %q", stderr)
	}
}

func TestServe(t *testing.T) {
	compile := `{"messageType":"compile","payload":{"files":{"/src/a.ts":{"text":"export const a = 1;\n","version":1}},"resolutionCache":{}}}`
	stdout, stderr, code := runCLI(t, frames(t, initEnvelope, compile, compile), "serve", "--no-color")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}

	msgs := readAll(t, stdout)
	var progress []bool
	for _, m := range msgs {
		p, ok := m.(*protocol.Progress)
		if !ok {
			t.Fatalf("Unexpected message %T", m)
		}
		progress = append(progress, p.InProgress)
	}
	if fmt.Sprint(progress) != "[true false true false]" {
		t.Errorf("Expected two bracketed cycles, got %v", progress)
	}
	if !strings.Contains(stderr, "Type check completed in ") {
		t.Errorf("Expected success summary on stderr, got %q", stderr)
	}
}

func TestServeProtocolViolation(t *testing.T) {
	compile := `{"messageType":"compile","payload":{"files":{},"resolutionCache":{}}}`
	stdout, _, code := runCLI(t, frames(t, compile), "serve")
	if code == 0 {
		t.Fatal("Expected non-zero exit code")
	}

	msgs := readAll(t, stdout)
	if len(msgs) != 1 {
		t.Fatalf("Expected one message, got %d", len(msgs))
	}
	fatal, ok := msgs[0].(*protocol.Error)
	if !ok || !fatal.Fatal {
		t.Fatalf("Expected fatal error message, got %#v", msgs[0])
	}
}

func TestServeMsgpack(t *testing.T) {
	var buf bytes.Buffer
	conn := protocol.NewConn(strings.NewReader(""), &buf, protocol.Msgpack)
	init, err := protocol.Decode(protocol.JSON, []byte(initEnvelope))
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.Write(init); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runCLI(t, &buf, "serve", "--codec", "msgpack")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if stdout != "" {
		t.Errorf("Expected no output for init alone, got %q", stdout)
	}
}
