package cli

import (
	"errors"

	"github.com/temirov/clocscan/internal/discovery"
)

const (
	// DiscoveryFailureExitCode is returned when repositories could not be listed.
	DiscoveryFailureExitCode = -1
	// GenericFailureExitCode is returned for every other failure.
	GenericFailureExitCode = 1
)

// ExitCodeError carries the process exit code for a failed execution.
type ExitCodeError struct {
	Code  int
	Cause error
}

// Error returns the message of the underlying failure.
func (exitError ExitCodeError) Error() string {
	if exitError.Cause == nil {
		return ""
	}
	return exitError.Cause.Error()
}

// Unwrap exposes the underlying failure.
func (exitError ExitCodeError) Unwrap() error {
	return exitError.Cause
}

// ExitCode returns the process exit code for executionError: zero for nil, the carried code
// for an ExitCodeError, and GenericFailureExitCode otherwise.
func ExitCode(executionError error) int {
	if executionError == nil {
		return 0
	}
	var exitError ExitCodeError
	if errors.As(executionError, &exitError) {
		return exitError.Code
	}
	return GenericFailureExitCode
}

type processExitCoder interface {
	ProcessExitCode() int
}

// exitCodeForError maps discovery failures to DiscoveryFailureExitCode, a halting clone or count
// failure to the exit code of the failed subprocess, and everything else to GenericFailureExitCode.
func exitCodeForError(executionError error) int {
	var discoveryError discovery.DiscoveryError
	var pageLimitError discovery.PageLimitExceededError
	var manifestError discovery.ManifestError
	var collisionError discovery.IdentifierCollisionError
	switch {
	case errors.As(executionError, &discoveryError),
		errors.As(executionError, &pageLimitError),
		errors.As(executionError, &manifestError),
		errors.As(executionError, &collisionError):
		return DiscoveryFailureExitCode
	}

	var exitCoder processExitCoder
	if errors.As(executionError, &exitCoder) {
		return exitCoder.ProcessExitCode()
	}
	return GenericFailureExitCode
}
