package inventory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/clocscan/internal/discovery"
)

const (
	aggregateReportSuffixConstant   = ".txt"
	byFileReportSuffixConstant      = "-by-file.txt"
	summaryReportFileNameConstant   = "summary.txt"
	summaryReportIdentifierConstant = "summary"
	outputDirectoryModeConstant     = 0o755
	summaryReportFileModeConstant   = 0o644
)

const (
	// DefaultOutputDirectory receives the cloc reports.
	DefaultOutputDirectory = "output"
	// DefaultWorkDirectory receives the temporary clones.
	DefaultWorkDirectory = "."
)

const (
	outputDirectoryErrorTemplate       = "create output directory %s: %w"
	commandsFileErrorTemplate          = "write commands file %s: %w"
	invalidRepositoryNameTemplate      = "repository name %q cannot be used as a clone directory"
	clonePathExistsTemplate            = "clone directory %s already exists"
	repositoryFailedMessageConstant    = "repository inventory failed"
	repositoryCompletedMessageConstant = "repository inventory completed"
	batchHaltedMessageConstant         = "halting inventory after first failure"
	cloneRemovalFailedMessageConstant  = "unable to remove clone directory"
	summaryFailedMessageConstant       = "unable to write summary report"
	inventoryCompletedMessageConstant  = "inventory completed"
	logFieldRepositoryIDConstant       = "repository_id"
	logFieldReportPathConstant         = "report"
	logFieldByFileReportPathConstant   = "by_file_report"
	logFieldClonePathConstant          = "clone_path"
	logFieldSucceededCountConstant     = "succeeded"
	logFieldFailedCountConstant        = "failed"
	logFieldSummaryReportPathConstant  = "summary_report"
	logFieldCommandsFilePathConstant   = "commands_file"
)

// ProgressReporter receives per-repository progress.
type ProgressReporter interface {
	RepositoryStarted(position int, total int, repositoryID string)
	RepositorySucceeded(position int, total int, repositoryID string)
	RepositoryFailed(position int, total int, repositoryID string, failure error)
	SummaryReported(reportText string)
	InventoryFinished(succeeded int, failed int)
}

// Options configures a Runner.
type Options struct {
	OutputDirectory  string
	WorkDirectory    string
	CommandsFilePath string
	ContinueOnError  bool
}

// Dependencies are the collaborators of a Runner.
type Dependencies struct {
	Cloner   Cloner
	Counter  ReportCounter
	Recorder *CommandRecorder
	Progress ProgressReporter
	Logger   *zap.Logger
}

// ReportPaths lists the two reports produced for one repository.
type ReportPaths struct {
	RepositoryID    string
	AggregateReport string
	ByFileReport    string
}

// Summary is the outcome of a run.
type Summary struct {
	Succeeded     []string
	Failed        []FailedRepository
	Reports       []ReportPaths
	Commands      []string
	SummaryReport string
	SummaryText   string
}

// Runner processes repository records sequentially.
type Runner struct {
	cloner   Cloner
	counter  ReportCounter
	recorder *CommandRecorder
	progress ProgressReporter
	logger   *zap.Logger
	options  Options
}

// NewRunner validates dependencies and applies option defaults.
func NewRunner(dependencies Dependencies, options Options) (*Runner, error) {
	if dependencies.Cloner == nil {
		return nil, ErrClonerNotConfigured
	}
	if dependencies.Counter == nil {
		return nil, ErrCounterNotConfigured
	}
	if dependencies.Recorder == nil {
		return nil, ErrRecorderNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	progress := dependencies.Progress
	if progress == nil {
		progress = noopProgressReporter{}
	}

	if len(strings.TrimSpace(options.OutputDirectory)) == 0 {
		options.OutputDirectory = DefaultOutputDirectory
	}
	if len(strings.TrimSpace(options.WorkDirectory)) == 0 {
		options.WorkDirectory = DefaultWorkDirectory
	}
	if len(strings.TrimSpace(options.CommandsFilePath)) == 0 {
		options.CommandsFilePath = DefaultCommandsFileName
	}

	return &Runner{
		cloner:   dependencies.Cloner,
		counter:  dependencies.Counter,
		recorder: dependencies.Recorder,
		progress: progress,
		logger:   logger,
		options:  options,
	}, nil
}

// Run processes every record in order. By default the first failure halts the batch and is
// returned as is. With ContinueOnError failures are collected and reported as a
// PartialFailureError. The summary report and the commands file are written in both cases.
func (runner *Runner) Run(executionContext context.Context, records []discovery.RepositoryRecord) (Summary, error) {
	summary := Summary{}
	if mkdirError := os.MkdirAll(runner.options.OutputDirectory, outputDirectoryModeConstant); mkdirError != nil {
		return summary, fmt.Errorf(outputDirectoryErrorTemplate, runner.options.OutputDirectory, mkdirError)
	}

	var haltError error
	total := len(records)
	for recordIndex, record := range records {
		position := recordIndex + 1
		runner.progress.RepositoryStarted(position, total, record.ID)

		reportPaths, processError := runner.Process(executionContext, record)
		if processError != nil {
			summary.Failed = append(summary.Failed, FailedRepository{RepositoryID: record.ID, Reason: processError.Error()})
			runner.progress.RepositoryFailed(position, total, record.ID, processError)
			runner.logger.Warn(repositoryFailedMessageConstant, zap.String(logFieldRepositoryIDConstant, record.ID), zap.Error(processError))
			if !runner.options.ContinueOnError {
				runner.logger.Warn(batchHaltedMessageConstant, zap.String(logFieldRepositoryIDConstant, record.ID))
				haltError = processError
				break
			}
			continue
		}

		summary.Succeeded = append(summary.Succeeded, record.ID)
		summary.Reports = append(summary.Reports, reportPaths)
		runner.progress.RepositorySucceeded(position, total, record.ID)
	}

	summaryError := runner.writeSummaryReport(executionContext, &summary)
	summary.Commands = runner.recorder.Commands()
	commandsError := runner.recorder.WriteFile(runner.options.CommandsFilePath)
	runner.progress.InventoryFinished(len(summary.Succeeded), len(summary.Failed))

	runner.logger.Info(
		inventoryCompletedMessageConstant,
		zap.Int(logFieldSucceededCountConstant, len(summary.Succeeded)),
		zap.Int(logFieldFailedCountConstant, len(summary.Failed)),
		zap.String(logFieldSummaryReportPathConstant, summary.SummaryReport),
		zap.String(logFieldCommandsFilePathConstant, runner.options.CommandsFilePath),
	)

	switch {
	case haltError != nil:
		return summary, haltError
	case commandsError != nil:
		return summary, fmt.Errorf(commandsFileErrorTemplate, runner.options.CommandsFilePath, commandsError)
	case summaryError != nil:
		return summary, summaryError
	case len(summary.Failed) > 0:
		return summary, PartialFailureError{Failed: summary.Failed, Attempted: total}
	default:
		return summary, nil
	}
}

// Process clones one repository, writes its aggregate and per-file reports, and removes the clone.
func (runner *Runner) Process(executionContext context.Context, record discovery.RepositoryRecord) (ReportPaths, error) {
	repositoryName := strings.TrimSpace(record.RepositoryName)
	if len(repositoryName) == 0 || repositoryName == "." || repositoryName == ".." || strings.ContainsAny(repositoryName, `/\`) {
		return ReportPaths{}, CloneError{RepositoryID: record.ID, ExitCode: GenericFailureExitCode, Cause: fmt.Errorf(invalidRepositoryNameTemplate, record.RepositoryName)}
	}

	clonePath := filepath.Join(runner.options.WorkDirectory, repositoryName)
	if _, statError := os.Lstat(clonePath); statError == nil {
		return ReportPaths{}, CloneError{RepositoryID: record.ID, ExitCode: GenericFailureExitCode, Cause: fmt.Errorf(clonePathExistsTemplate, clonePath)}
	}
	defer runner.removeClone(clonePath)

	if cloneError := runner.cloner.Clone(executionContext, record, clonePath); cloneError != nil {
		return ReportPaths{}, CloneError{RepositoryID: record.ID, ExitCode: subprocessExitCode(cloneError), Cause: cloneError}
	}

	reportPaths := ReportPaths{
		RepositoryID:    record.ID,
		AggregateReport: filepath.Join(runner.options.OutputDirectory, record.ID+aggregateReportSuffixConstant),
		ByFileReport:    filepath.Join(runner.options.OutputDirectory, record.ID+byFileReportSuffixConstant),
	}

	if countError := runner.counter.Count(executionContext, clonePath, reportPaths.AggregateReport, false); countError != nil {
		return ReportPaths{}, CountError{RepositoryID: record.ID, ReportPath: reportPaths.AggregateReport, ExitCode: subprocessExitCode(countError), Cause: countError}
	}
	if countError := runner.counter.Count(executionContext, clonePath, reportPaths.ByFileReport, true); countError != nil {
		return ReportPaths{}, CountError{RepositoryID: record.ID, ReportPath: reportPaths.ByFileReport, ExitCode: subprocessExitCode(countError), Cause: countError}
	}

	runner.logger.Debug(
		repositoryCompletedMessageConstant,
		zap.String(logFieldRepositoryIDConstant, record.ID),
		zap.String(logFieldReportPathConstant, reportPaths.AggregateReport),
		zap.String(logFieldByFileReportPathConstant, reportPaths.ByFileReport),
	)
	return reportPaths, nil
}

func (runner *Runner) writeSummaryReport(executionContext context.Context, summary *Summary) error {
	if len(summary.Reports) == 0 {
		return nil
	}

	aggregateReports := make([]string, 0, len(summary.Reports))
	for _, reportPaths := range summary.Reports {
		aggregateReports = append(aggregateReports, reportPaths.AggregateReport)
	}

	summaryPath := filepath.Join(runner.options.OutputDirectory, summaryReportFileNameConstant)
	summaryText, summarizeError := runner.counter.Summarize(executionContext, aggregateReports)
	if summarizeError != nil {
		runner.logger.Warn(summaryFailedMessageConstant, zap.String(logFieldReportPathConstant, summaryPath), zap.Error(summarizeError))
		return CountError{RepositoryID: summaryReportIdentifierConstant, ReportPath: summaryPath, ExitCode: subprocessExitCode(summarizeError), Cause: summarizeError}
	}
	if writeError := os.WriteFile(summaryPath, []byte(summaryText), summaryReportFileModeConstant); writeError != nil {
		runner.logger.Warn(summaryFailedMessageConstant, zap.String(logFieldReportPathConstant, summaryPath), zap.Error(writeError))
		return CountError{RepositoryID: summaryReportIdentifierConstant, ReportPath: summaryPath, ExitCode: GenericFailureExitCode, Cause: writeError}
	}

	summary.SummaryReport = summaryPath
	summary.SummaryText = summaryText
	runner.progress.SummaryReported(summaryText)
	return nil
}

func (runner *Runner) removeClone(clonePath string) {
	if removalError := removeDirectory(clonePath); removalError != nil && !errors.Is(removalError, os.ErrNotExist) {
		runner.logger.Warn(cloneRemovalFailedMessageConstant, zap.String(logFieldClonePathConstant, clonePath), zap.Error(removalError))
	}
}

type noopProgressReporter struct{}

func (noopProgressReporter) RepositoryStarted(int, int, string) {}

func (noopProgressReporter) RepositorySucceeded(int, int, string) {}

func (noopProgressReporter) RepositoryFailed(int, int, string, error) {}

func (noopProgressReporter) SummaryReported(string) {}

func (noopProgressReporter) InventoryFinished(int, int) {}
