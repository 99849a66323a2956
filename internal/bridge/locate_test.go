package bridge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// fakeRunner returns canned results keyed by command prefix and records
// every command it was asked to run.
type fakeRunner struct {
	results map[string]Result
	calls   []string
}

func (f *fakeRunner) Run(_ context.Context, command string) Result {
	f.calls = append(f.calls, command)
	if res, ok := f.results[command]; ok {
		return res
	}
	return Result{Stderr: fmt.Sprintf("no canned result for %q", command), ExitCode: 1}
}

type memLog struct {
	lines []string
}

func (l *memLog) Logf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestLocate_WhichSucceeds(t *testing.T) {
	run := &fakeRunner{results: map[string]Result{
		"which adb": {Stdout: "/usr/bin/adb\n", ExitCode: 0},
	}}
	path, err := Locate(context.Background(), run, "adb", []string{"/nonexistent/adb"}, &memLog{})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if path != "/usr/bin/adb" {
		t.Errorf("path: got %q, want trimmed which output", path)
	}
	if len(run.calls) != 1 {
		t.Errorf("fallback paths should not be probed when which succeeds; calls: %v", run.calls)
	}
}

func TestLocate_WhichEmptyOutput_FallsBack(t *testing.T) {
	dir := t.TempDir()
	adbPath := filepath.Join(dir, "adb")
	if err := os.WriteFile(adbPath, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	run := &fakeRunner{results: map[string]Result{
		"which adb": {Stdout: "  \n", ExitCode: 0},
	}}
	path, err := Locate(context.Background(), run, "adb", []string{filepath.Join(dir, "missing"), adbPath}, &memLog{})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if path != adbPath {
		t.Errorf("path: got %q, want %q", path, adbPath)
	}
}

func TestLocate_SkipsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "adb-empty")
	if err := os.WriteFile(empty, nil, 0o755); err != nil {
		t.Fatal(err)
	}
	full := filepath.Join(dir, "adb")
	if err := os.WriteFile(full, []byte("x"), 0o755); err != nil {
		t.Fatal(err)
	}

	run := &fakeRunner{results: map[string]Result{
		"which adb": {ExitCode: 1},
	}}
	path, err := Locate(context.Background(), run, "adb", []string{empty, full}, &memLog{})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if path != full {
		t.Errorf("zero-size file should be skipped; got %q", path)
	}
}

func TestLocate_NotFound(t *testing.T) {
	run := &fakeRunner{results: map[string]Result{
		"which adb": {ExitCode: 1},
	}}
	_, err := Locate(context.Background(), run, "adb", []string{"/nonexistent/adb"}, &memLog{})
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
}
