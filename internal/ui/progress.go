package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

const (
	repositoryStartedTemplateConstant   = "[%d/%d] %s\n"
	repositorySucceededTemplateConstant = "[%d/%d] %s: reports written\n"
	repositoryFailedTemplateConstant    = "[%d/%d] %s: %v\n"
	inventoryFinishedTemplateConstant   = "%d succeeded, %d failed\n"
	summaryReportTemplateConstant       = "%s\n"
)

// ProgressReporter prints one line per repository lifecycle step to a console writer.
type ProgressReporter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewProgressReporter creates a reporter writing to the provided writer. A nil writer discards output.
func NewProgressReporter(writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{writer: writer}
}

// RepositoryStarted announces the repository about to be processed.
func (reporter *ProgressReporter) RepositoryStarted(position int, total int, repositoryID string) {
	reporter.write(repositoryStartedTemplateConstant, position, total, repositoryID)
}

// RepositorySucceeded announces a repository whose reports were written.
func (reporter *ProgressReporter) RepositorySucceeded(position int, total int, repositoryID string) {
	reporter.write(repositorySucceededTemplateConstant, position, total, repositoryID)
}

// RepositoryFailed announces a repository that could not be processed.
func (reporter *ProgressReporter) RepositoryFailed(position int, total int, repositoryID string, failure error) {
	reporter.write(repositoryFailedTemplateConstant, position, total, repositoryID, failure)
}

// SummaryReported prints the combined line count report.
func (reporter *ProgressReporter) SummaryReported(reportText string) {
	trimmedReport := strings.TrimRight(reportText, "\n")
	if len(strings.TrimSpace(trimmedReport)) == 0 {
		return
	}
	reporter.write(summaryReportTemplateConstant, trimmedReport)
}

// InventoryFinished prints the final tally.
func (reporter *ProgressReporter) InventoryFinished(succeeded int, failed int) {
	reporter.write(inventoryFinishedTemplateConstant, succeeded, failed)
}

func (reporter *ProgressReporter) write(template string, arguments ...any) {
	if reporter == nil {
		return
	}
	reporter.mutex.Lock()
	defer reporter.mutex.Unlock()
	_, _ = fmt.Fprintf(reporter.writer, template, arguments...)
}
