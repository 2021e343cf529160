package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/days-to-hire/internal/batch"
)

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	runID := uuid.New()
	p.PrintRunSummary(&batch.Summary{
		RunID:       runID,
		MinPostings: 5,
		JobIDs:      2,
		Countries:   3,
		Saved:       3,
		Failed:      3,
		FailedGroups: map[string][]string{
			"job1": {"GB"},
			"job2": {"global", "US"},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "DAYS TO HIRE STATISTICS")
	assert.Contains(t, output, runID.String())
	assert.Contains(t, output, "Saved:         3")
	assert.Contains(t, output, "FAILED COMBINATIONS")
	assert.Contains(t, output, "job1: GB")
	assert.Contains(t, output, "job2: global, US")
}

func TestPrintRunSummary_NoFailures(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunSummary(&batch.Summary{Saved: 4, FailedGroups: map[string][]string{}})
	output := buf.String()

	assert.Contains(t, output, "Saved:         4")
	assert.NotContains(t, output, "FAILED COMBINATIONS")
}

func TestPrintRunSummary_ManyFailedJobs(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	failed := make(map[string][]string)
	for i := 0; i < maxItemsToShow+2; i++ {
		failed[fmt.Sprintf("job%02d", i)] = []string{"global"}
	}
	p.PrintRunSummary(&batch.Summary{Failed: len(failed), FailedGroups: failed})

	assert.Contains(t, buf.String(), "... and 2 more jobs")
}

func TestPrintRunSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunSummary(nil)

	assert.Empty(t, buf.String())
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunSummary(&batch.Summary{
		Failed: 1,
		FailedGroups: map[string][]string{
			strings.Repeat("very-long-standard-job-identifier-", 3): {"global"},
		},
	})
	output := buf.String()

	// Should contain box characters
	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.Contains(t, output, "...")
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
}

func TestPrintBox_TruncatesOnRuneBoundary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunSummary(&batch.Summary{
		Failed: 1,
		FailedGroups: map[string][]string{
			strings.Repeat("développeur-logiciel-", 4): {"global"},
		},
	})
	output := buf.String()

	assert.True(t, utf8.ValidString(output))
	assert.Contains(t, output, "...")
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
}
