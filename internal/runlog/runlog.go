// Package runlog appends one timestamped block per reconciliation run to a
// persistent record file.
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harborworks/shipshape/internal/ledger"
	"github.com/harborworks/shipshape/internal/messages"
)

// Writer appends run records. The file is created on first use and only ever
// appended to.
type Writer struct {
	Path    string
	nowFunc func() time.Time
}

// NewWriter returns a Writer for the given record path.
func NewWriter(path string) *Writer {
	return &Writer{Path: path, nowFunc: time.Now}
}

// Record appends one block summarizing the run's ledger: a timestamped
// counts line followed by one line per reconciled item. Failures to record
// are returned but never affect the run's own outcome.
func (w *Writer) Record(led *ledger.Ledger) error {
	if err := os.MkdirAll(filepath.Dir(w.Path), 0o755); err != nil {
		return fmt.Errorf(messages.RunlogOpenErrFmt, w.Path, err)
	}
	file, err := os.OpenFile(w.Path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf(messages.RunlogOpenErrFmt, w.Path, err)
	}
	defer func() { _ = file.Close() }()

	if _, err := file.WriteString(w.block(led)); err != nil {
		return fmt.Errorf(messages.RunlogWriteErrFmt, w.Path, err)
	}
	return nil
}

// block renders the record: an RFC 3339 timestamp plus per-category counts on
// the first line, then one indented line per item in category order.
func (w *Writer) block(led *ledger.Ledger) string {
	var b strings.Builder
	installed, updated, current, skipped, failed := led.Counts()
	b.WriteString(fmt.Sprintf("%s %s",
		w.nowFunc().Format(time.RFC3339),
		fmt.Sprintf(messages.SummaryCountsFmt, installed, updated, current, skipped, failed)))
	for _, group := range [][]ledger.Result{
		led.Installed(), led.Updated(), led.Current(), led.Skipped(), led.Failed(),
	} {
		for _, result := range group {
			line := fmt.Sprintf(messages.RunlogItemFmt, result.Category, result.Item)
			if result.Detail != "" {
				line += fmt.Sprintf(messages.RunlogItemDetailFmt, result.Detail)
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
