package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/clocscan/internal/execshell"
)

const (
	cloneErrorTemplateConstant          = "clone %s failed: %v"
	countErrorTemplateConstant          = "count %s into %s failed: %v"
	partialFailureErrorTemplateConstant = "%d of %d repositories failed: %s"
	failedRepositoryTemplateConstant    = "%s (%s)"
	failedRepositorySeparatorConstant   = ", "
	// GenericFailureExitCode is reported for failures that carry no subprocess exit code.
	GenericFailureExitCode = 1
)

var (
	// ErrClonerNotConfigured indicates the runner was constructed without a cloner.
	ErrClonerNotConfigured = errors.New("inventory cloner not configured")
	// ErrCounterNotConfigured indicates the runner was constructed without a line counter.
	ErrCounterNotConfigured = errors.New("inventory line counter not configured")
	// ErrRecorderNotConfigured indicates the runner was constructed without a command recorder.
	ErrRecorderNotConfigured = errors.New("inventory command recorder not configured")
)

// CloneError reports a repository that could not be cloned.
type CloneError struct {
	RepositoryID string
	ExitCode     int
	Cause        error
}

// Error describes the failed clone.
func (cloneError CloneError) Error() string {
	return fmt.Sprintf(cloneErrorTemplateConstant, cloneError.RepositoryID, cloneError.Cause)
}

// Unwrap exposes the underlying failure.
func (cloneError CloneError) Unwrap() error {
	return cloneError.Cause
}

// ProcessExitCode exposes the exit code of the failed clone.
func (cloneError CloneError) ProcessExitCode() int {
	return cloneError.ExitCode
}

// CountError reports a cloc invocation that did not produce its report.
type CountError struct {
	RepositoryID string
	ReportPath   string
	ExitCode     int
	Cause        error
}

// Error describes the failed count.
func (countError CountError) Error() string {
	return fmt.Sprintf(countErrorTemplateConstant, countError.RepositoryID, countError.ReportPath, countError.Cause)
}

// Unwrap exposes the underlying failure.
func (countError CountError) Unwrap() error {
	return countError.Cause
}

// ProcessExitCode exposes the exit code of the failed cloc run.
func (countError CountError) ProcessExitCode() int {
	return countError.ExitCode
}

// FailedRepository pairs a repository identifier with the reason it failed.
type FailedRepository struct {
	RepositoryID string
	Reason       string
}

// PartialFailureError reports a continue-mode run in which some repositories failed.
type PartialFailureError struct {
	Failed    []FailedRepository
	Attempted int
}

// Error lists the failed repositories.
func (partialError PartialFailureError) Error() string {
	descriptions := make([]string, 0, len(partialError.Failed))
	for _, failed := range partialError.Failed {
		descriptions = append(descriptions, fmt.Sprintf(failedRepositoryTemplateConstant, failed.RepositoryID, failed.Reason))
	}
	return fmt.Sprintf(partialFailureErrorTemplateConstant, len(partialError.Failed), partialError.Attempted, strings.Join(descriptions, failedRepositorySeparatorConstant))
}

// subprocessExitCode returns the exit code carried by a failed command, or GenericFailureExitCode.
func subprocessExitCode(failure error) int {
	var failedCommand execshell.CommandFailedError
	if errors.As(failure, &failedCommand) {
		return failedCommand.ExitCode()
	}
	return GenericFailureExitCode
}
