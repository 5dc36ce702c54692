package inventory

import (
	"context"

	"github.com/temirov/clocscan/internal/execshell"
)

const (
	clocReportFileArgumentPrefixConstant = "--report-file="
	clocByFileArgumentConstant           = "--by-file"
	clocSumReportArgumentConstant        = "--sum-report"
)

// ClocExecutor runs cloc commands.
type ClocExecutor interface {
	ExecuteCloc(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ReportCounter writes cloc reports.
type ReportCounter interface {
	Count(executionContext context.Context, targetDirectory string, reportPath string, byFile bool) error
	Summarize(executionContext context.Context, reportPaths []string) (string, error)
}

// LineCounter drives cloc through a ClocExecutor.
type LineCounter struct {
	executor ClocExecutor
}

// NewLineCounter constructs a LineCounter.
func NewLineCounter(executor ClocExecutor) *LineCounter {
	return &LineCounter{executor: executor}
}

// Count writes the aggregate report for targetDirectory, or the per-file report when byFile is set.
func (counter *LineCounter) Count(executionContext context.Context, targetDirectory string, reportPath string, byFile bool) error {
	arguments := []string{clocReportFileArgumentPrefixConstant + reportPath}
	if byFile {
		arguments = append(arguments, clocByFileArgumentConstant)
	}
	arguments = append(arguments, targetDirectory)

	_, countError := counter.executor.ExecuteCloc(executionContext, execshell.CommandDetails{Arguments: arguments})
	return countError
}

// Summarize combines aggregate reports with cloc --sum-report and returns the combined report text.
// cloc prints the sum to standard output; given --report-file it would instead write <file>.lang
// and <file>.file, so no report file is passed.
func (counter *LineCounter) Summarize(executionContext context.Context, reportPaths []string) (string, error) {
	arguments := make([]string, 0, len(reportPaths)+1)
	arguments = append(arguments, clocSumReportArgumentConstant)
	arguments = append(arguments, reportPaths...)

	result, summarizeError := counter.executor.ExecuteCloc(executionContext, execshell.CommandDetails{Arguments: arguments})
	if summarizeError != nil {
		return "", summarizeError
	}
	return result.StandardOutput, nil
}
