package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/harborworks/shipshape/internal/ledger"
	"github.com/harborworks/shipshape/internal/messages"
)

// categoryLabel renders the colored label for a ledger category.
func categoryLabel(category ledger.Category) string {
	switch category {
	case ledger.Installed:
		return color.GreenString(messages.SummaryInstalledLabel)
	case ledger.Updated:
		return color.CyanString(messages.SummaryUpdatedLabel)
	case ledger.Current:
		return color.GreenString(messages.SummaryCurrentLabel)
	case ledger.Skipped:
		return color.YellowString(messages.SummarySkippedLabel)
	case ledger.Failed:
		return color.RedString(messages.SummaryFailedLabel)
	default:
		return category.String()
	}
}

// printResult renders one per-item outcome line.
func printResult(out io.Writer, result ledger.Result) {
	line := fmt.Sprintf(messages.SummaryItemFmt, categoryLabel(result.Category), result.Item)
	if result.Detail != "" {
		line += fmt.Sprintf(messages.SummaryDetailFmt, result.Detail)
	}
	_, _ = fmt.Fprintln(out, line)
}

// printSummary renders the categorized run summary followed by the counts line.
func printSummary(out io.Writer, led *ledger.Ledger) {
	if led.Total() == 0 {
		return
	}
	_, _ = fmt.Fprintln(out, messages.SummaryHeader)
	for _, group := range [][]ledger.Result{
		led.Installed(), led.Updated(), led.Current(), led.Skipped(), led.Failed(),
	} {
		for _, result := range group {
			printResult(out, result)
		}
	}
	installed, updated, current, skipped, failed := led.Counts()
	_, _ = fmt.Fprintf(out, messages.SummaryCountsFmt, installed, updated, current, skipped, failed)
}
