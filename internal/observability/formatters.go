// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/days-to-hire/internal/batch"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines on a rune boundary
		if runes := []rune(line); len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRunSummary outputs the totals of a statistics run and, when groups
// were skipped, the failed combinations per job.
func (p *Printer) PrintRunSummary(summary *batch.Summary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:           %s\n", summary.RunID))
	sb.WriteString(fmt.Sprintf("Min postings:  %d\n", summary.MinPostings))
	sb.WriteString(fmt.Sprintf("Jobs:          %d\n", summary.JobIDs))
	sb.WriteString(fmt.Sprintf("Countries:     %d\n", summary.Countries))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Saved:         %d\n", summary.Saved))
	sb.WriteString(fmt.Sprintf("Not saved:     %d", summary.Failed))

	p.printBox("DAYS TO HIRE STATISTICS", sb.String())

	if summary.Failed == 0 {
		return
	}

	sb.Reset()
	jobIDs := summary.FailedJobIDs()
	count := min(len(jobIDs), maxItemsToShow)
	for i := 0; i < count; i++ {
		labels := summary.FailedGroups[jobIDs[i]]
		sb.WriteString(fmt.Sprintf("  • %s: %s\n", jobIDs[i], strings.Join(labels, ", ")))
	}
	if len(jobIDs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more jobs\n", len(jobIDs)-maxItemsToShow))
	}

	p.printBox("FAILED COMBINATIONS", strings.TrimSuffix(sb.String(), "\n"))
}
