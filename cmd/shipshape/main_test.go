package main

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func withVersionInfo(t *testing.T, version string, commit string, buildDate string) {
	t.Helper()
	origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
	Version, Commit, BuildDate = version, commit, buildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
	})
}

func TestVersionString(t *testing.T) {
	withVersionInfo(t, "1.2.3", "abc1234", "2026-08-25")
	got := versionString()
	if !strings.Contains(got, "1.2.3") || !strings.Contains(got, "abc1234") || !strings.Contains(got, "2026-08-25") {
		t.Fatalf("unexpected version string %q", got)
	}
}

func TestVersionStringDev(t *testing.T) {
	withVersionInfo(t, "dev", "unknown", "unknown")
	if got := versionString(); got != "dev" {
		t.Fatalf("expected bare version, got %q", got)
	}
}

func TestRunMainSuccess(t *testing.T) {
	origExecute := executeFunc
	t.Cleanup(func() { executeFunc = origExecute })
	executeFunc = func([]string, io.Writer, io.Writer) error { return nil }

	exitCode := -1
	runMain([]string{"shipshape"}, io.Discard, io.Discard, func(code int) { exitCode = code })
	if exitCode != -1 {
		t.Fatalf("exit must not be called on success, got %d", exitCode)
	}
}

func TestRunMainErrorExitsOne(t *testing.T) {
	origExecute := executeFunc
	t.Cleanup(func() { executeFunc = origExecute })
	executeFunc = func([]string, io.Writer, io.Writer) error { return errors.New("boom") }

	var stderr bytes.Buffer
	exitCode := -1
	runMain([]string{"shipshape"}, io.Discard, &stderr, func(code int) { exitCode = code })
	if exitCode != 1 {
		t.Fatalf("expected exit 1, got %d", exitCode)
	}
	if !strings.Contains(stderr.String(), "boom") {
		t.Fatalf("expected error on stderr, got %q", stderr.String())
	}
}

func TestRunMainSilentExit(t *testing.T) {
	origExecute := executeFunc
	t.Cleanup(func() { executeFunc = origExecute })
	executeFunc = func([]string, io.Writer, io.Writer) error { return &SilentExitError{Code: 3} }

	var stderr bytes.Buffer
	exitCode := -1
	runMain([]string{"shipshape"}, io.Discard, &stderr, func(code int) { exitCode = code })
	if exitCode != 3 {
		t.Fatalf("expected exit 3, got %d", exitCode)
	}
	if stderr.Len() != 0 {
		t.Fatalf("silent exit must not write to stderr, got %q", stderr.String())
	}
}

func TestExecuteVersionFlag(t *testing.T) {
	withVersionInfo(t, "9.9.9", "unknown", "unknown")
	var stdout bytes.Buffer
	if err := execute([]string{"shipshape", "--version"}, &stdout, io.Discard); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(stdout.String()) != "9.9.9" {
		t.Fatalf("unexpected version output %q", stdout.String())
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	if err := execute([]string{"shipshape", "bogus"}, io.Discard, io.Discard); err == nil {
		t.Fatal("expected error for unknown command")
	}
}
