package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harborworks/shipshape/internal/preflight"
	"github.com/harborworks/shipshape/internal/testutil"
)

func stubPreflight(t *testing.T, passed bool) {
	t.Helper()
	orig := preflightRunFunc
	preflightRunFunc = func(string) ([]preflight.Result, bool) {
		if passed {
			return nil, true
		}
		return []preflight.Result{{Status: preflight.StatusFail, CheckName: "privilege", Message: "must run as root"}}, false
	}
	t.Cleanup(func() { preflightRunFunc = orig })
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runApply(t *testing.T, configPath string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	err := execute([]string{"shipshape", "apply", "--config", configPath}, &stdout, &stdout)
	return stdout.String(), err
}

func TestApplyCurrentPackageIsNoOp(t *testing.T) {
	stubPreflight(t, true)
	binDir := t.TempDir()
	testutil.WriteStubWithOutput(t, binDir, "dpkg-query", "installed 3.0.5-7")
	testutil.WriteStubWithOutput(t, binDir, "apt-cache", "Candidate: 3.0.5-7")
	t.Setenv("PATH", binDir)

	configPath := writeConfig(t, "[packages.htop]\nenabled = true\n")
	out, err := runApply(t, configPath)
	if err != nil {
		t.Fatalf("apply: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Current") || !strings.Contains(out, "htop") {
		t.Fatalf("expected htop reported current, got %q", out)
	}
	if !strings.Contains(out, "0 installed, 0 updated, 1 current, 0 skipped, 0 failed") {
		t.Fatalf("unexpected summary counts in %q", out)
	}
}

func TestApplyInstallFailureExitsNonZero(t *testing.T) {
	stubPreflight(t, true)
	binDir := t.TempDir()
	testutil.WriteStubWithExit(t, binDir, "dpkg-query", 1)
	testutil.WriteStubWithOutput(t, binDir, "apt-cache", "Candidate: 1.0")
	testutil.WriteStubWithExit(t, binDir, "apt-get", 100)
	t.Setenv("PATH", binDir)

	configPath := writeConfig(t, "[packages.htop]\nenabled = true\n")
	out, err := runApply(t, configPath)
	if !errors.Is(err, ErrApplyCompletedWithFailure) {
		t.Fatalf("expected failure error, got %v", err)
	}
	if !strings.Contains(out, "Failed") {
		t.Fatalf("expected failed entry in output, got %q", out)
	}
}

func TestApplyDisabledPackageSkipped(t *testing.T) {
	stubPreflight(t, true)
	binDir := t.TempDir()
	// No package-manager calls expected for a disabled package; an empty
	// PATH would make any call fail loudly.
	t.Setenv("PATH", binDir)

	configPath := writeConfig(t, "[packages.htop]\nenabled = false\n")
	out, err := runApply(t, configPath)
	if err != nil {
		t.Fatalf("apply: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Skipped") {
		t.Fatalf("expected skipped entry, got %q", out)
	}
}

func TestApplyPreflightFailureStopsRun(t *testing.T) {
	stubPreflight(t, false)
	configPath := writeConfig(t, "[packages.htop]\nenabled = true\n")

	out, err := runApply(t, configPath)
	if err == nil {
		t.Fatal("expected preflight failure error")
	}
	if !strings.Contains(out, "must run as root") {
		t.Fatalf("expected preflight message, got %q", out)
	}
	if strings.Contains(out, "Run summary") {
		t.Fatal("nothing must reconcile after a failed preflight")
	}
}

func TestApplyInvalidConfig(t *testing.T) {
	stubPreflight(t, true)
	configPath := writeConfig(t, "[packages.htop]\nbogus_key = true\nenabled = true\n")

	_, err := runApply(t, configPath)
	if err == nil {
		t.Fatal("expected validation error for unknown key")
	}
}

func TestApplyDiscoveryFailureOnlyWarns(t *testing.T) {
	stubPreflight(t, true)
	binDir := t.TempDir()
	testutil.WriteStubWithOutput(t, binDir, "dpkg-query", "installed 1.0")
	testutil.WriteStubWithOutput(t, binDir, "apt-cache", "Candidate: 1.0")
	testutil.WriteStubWithExit(t, binDir, "showmount", 1)
	t.Setenv("PATH", binDir)

	configPath := writeConfig(t, "[packages.htop]\nenabled = true\n\n[mounts]\nserver = \"nas.local\"\n")
	out, err := runApply(t, configPath)
	if err != nil {
		t.Fatalf("a discovery failure must not fail the run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "export discovery against nas.local failed") {
		t.Fatalf("expected discovery warning, got %q", out)
	}
}

func TestApplyWritesRunRecord(t *testing.T) {
	stubPreflight(t, true)
	binDir := t.TempDir()
	testutil.WriteStubWithOutput(t, binDir, "dpkg-query", "installed 1.0")
	testutil.WriteStubWithOutput(t, binDir, "apt-cache", "Candidate: 1.0")
	t.Setenv("PATH", binDir)

	configPath := writeConfig(t, "[packages.htop]\nenabled = true\n")
	if _, err := runApply(t, configPath); err != nil {
		t.Fatalf("apply: %v", err)
	}

	record, err := os.ReadFile(filepath.Join(filepath.Dir(configPath), "runs.log"))
	if err != nil {
		t.Fatalf("expected run record next to the config: %v", err)
	}
	if !strings.Contains(string(record), "1 current") {
		t.Fatalf("unexpected run record %q", record)
	}
	if !strings.Contains(string(record), "  current htop") {
		t.Fatalf("run record must carry the item line, got %q", record)
	}
}
