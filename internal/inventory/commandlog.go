package inventory

import (
	"os"
	"strings"
	"sync"

	"github.com/temirov/clocscan/internal/execshell"
)

const (
	commandsFileModeConstant      = 0o644
	commandLineTerminatorConstant = "\n"
	// DefaultCommandsFileName is the audit log written after every run.
	DefaultCommandsFileName = "commands.txt"
)

// CommandRecorder keeps the redacted command line of every command started, in order.
type CommandRecorder struct {
	mutex    sync.Mutex
	commands []string
}

// NewCommandRecorder constructs an empty recorder.
func NewCommandRecorder() *CommandRecorder {
	return &CommandRecorder{}
}

// CommandStarted implements execshell.CommandEventObserver.
func (recorder *CommandRecorder) CommandStarted(command execshell.ShellCommand) {
	recorder.Record(command)
}

// CommandCompleted implements execshell.CommandEventObserver.
func (recorder *CommandRecorder) CommandCompleted(execshell.ShellCommand, execshell.ExecutionResult) {}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (recorder *CommandRecorder) CommandExecutionFailed(execshell.ShellCommand, error) {}

// Record appends the redacted command line of command.
func (recorder *CommandRecorder) Record(command execshell.ShellCommand) {
	if recorder == nil {
		return
	}
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	recorder.commands = append(recorder.commands, execshell.FormatCommandLine(command))
}

// Commands returns a copy of the recorded command lines.
func (recorder *CommandRecorder) Commands() []string {
	if recorder == nil {
		return nil
	}
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	return append([]string(nil), recorder.commands...)
}

// WriteFile writes one command line per line to commandsFilePath.
func (recorder *CommandRecorder) WriteFile(commandsFilePath string) error {
	var builder strings.Builder
	for _, commandLine := range recorder.Commands() {
		builder.WriteString(commandLine)
		builder.WriteString(commandLineTerminatorConstant)
	}
	return os.WriteFile(commandsFilePath, []byte(builder.String()), commandsFileModeConstant)
}
