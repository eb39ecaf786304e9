package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harborworks/shipshape/internal/ledger"
)

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	w := NewWriter(filepath.Join(t.TempDir(), "state", "runs.log"))
	w.nowFunc = func() time.Time { return time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC) }
	return w
}

func TestRecordCreatesFileAndDirectory(t *testing.T) {
	w := newTestWriter(t)
	var led ledger.Ledger
	led.Add(ledger.Result{Item: "htop", Category: ledger.Installed})
	led.Add(ledger.Result{Item: "git", Category: ledger.Updated, Detail: "2.39 → 2.43"})
	led.Add(ledger.Result{Item: "zsh", Category: ledger.Current})

	if err := w.Record(&led); err != nil {
		t.Fatalf("record: %v", err)
	}
	data, err := os.ReadFile(w.Path)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected counts line plus three item lines, got %d: %q", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "2026-08-25T10:30:00Z ") {
		t.Fatalf("expected timestamped counts line, got %q", lines[0])
	}
	if !strings.Contains(lines[0], "1 installed, 1 updated, 1 current, 0 skipped, 0 failed") {
		t.Fatalf("unexpected counts in %q", lines[0])
	}
	want := []string{"  installed htop", "  updated git (2.39 → 2.43)", "  current zsh"}
	for i, item := range want {
		if lines[i+1] != item {
			t.Fatalf("item line %d: expected %q, got %q", i+1, item, lines[i+1])
		}
	}
}

func TestRecordAppends(t *testing.T) {
	w := newTestWriter(t)
	var led ledger.Ledger

	if err := w.Record(&led); err != nil {
		t.Fatalf("first record: %v", err)
	}
	led.Add(ledger.Result{Item: "zsh", Category: ledger.Failed})
	if err := w.Record(&led); err != nil {
		t.Fatalf("second record: %v", err)
	}

	data, err := os.ReadFile(w.Path)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected two blocks totalling three lines, got %d: %q", len(lines), data)
	}
	if !strings.Contains(lines[0], "0 failed") {
		t.Fatalf("first block must record the empty run, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "1 failed") {
		t.Fatalf("second block must reflect the failure, got %q", lines[1])
	}
	if lines[2] != "  failed zsh" {
		t.Fatalf("second block must carry the item line, got %q", lines[2])
	}
}

func TestRecordUnwritablePath(t *testing.T) {
	w := NewWriter(filepath.Join(string([]byte{0}), "runs.log"))
	var led ledger.Ledger
	if err := w.Record(&led); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
