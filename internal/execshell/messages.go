package execshell

import (
	"fmt"
	"path/filepath"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
)

const (
	gitCloneSubcommandNameConstant = "clone"
	clocReportFileFlagPrefix       = "--report-file="
	clocByFileFlagConstant         = "--by-file"
	clocSumReportFlagConstant      = "--sum-report"
	clocExecutableBaseNameConstant = "cloc"
)

const (
	gitCloneStartTemplateConstant              = "Cloning %s into %s"
	gitCloneSuccessTemplateConstant            = "Cloned %s into %s"
	gitCloneFailureTemplateConstant            = "Failed to clone %s into %s (exit code %d%s)"
	gitCloneExecutionFailureTemplateConstant   = "Unable to clone %s into %s: %s"
	clocCountStartTemplateConstant             = "Counting lines in %s into %s"
	clocCountSuccessTemplateConstant           = "Counted lines in %s into %s"
	clocCountFailureTemplateConstant           = "Failed to count lines in %s into %s (exit code %d%s)"
	clocCountExecutionFailureTemplateConstant  = "Unable to count lines in %s into %s: %s"
	clocByFileStartTemplateConstant            = "Counting lines per file in %s into %s"
	clocByFileSuccessTemplateConstant          = "Counted lines per file in %s into %s"
	clocByFileFailureTemplateConstant          = "Failed to count lines per file in %s into %s (exit code %d%s)"
	clocByFileExecutionFailureTemplateConstant = "Unable to count lines per file in %s into %s: %s"
	clocSumStartTemplateConstant               = "Summarizing %d reports into %s"
	clocSumSuccessTemplateConstant             = "Summarized %d reports into %s"
	clocSumFailureTemplateConstant             = "Failed to summarize %d reports into %s (exit code %d%s)"
	clocSumExecutionFailureTemplateConstant    = "Unable to summarize %d reports into %s: %s"
	clocStandardOutputLabelConstant            = "standard output"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch {
	case command.Name == CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case isClocCommand(command):
		return formatter.describeClocMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 || strings.TrimSpace(arguments[0]) != gitCloneSubcommandNameConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	positionalArguments := positionalArguments(arguments[1:])
	source := RedactCredentials(formatter.ensureValue(argumentAtIndex(positionalArguments, 0)))
	destination := argumentAtIndex(positionalArguments, 1)
	if len(strings.TrimSpace(destination)) == 0 {
		destination = formatter.describeWorkingDirectory(command)
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCloneStartTemplateConstant, source, destination)
	case messageStageSuccess:
		return fmt.Sprintf(gitCloneSuccessTemplateConstant, source, destination)
	case messageStageFailure:
		return fmt.Sprintf(gitCloneFailureTemplateConstant, source, destination, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitCloneExecutionFailureTemplateConstant, source, destination, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) describeClocMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	reportPath := findReportFile(arguments)
	if len(reportPath) == 0 {
		reportPath = clocStandardOutputLabelConstant
	}

	if containsArgument(arguments, clocSumReportFlagConstant) {
		reportCount := len(positionalArguments(arguments))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(clocSumStartTemplateConstant, reportCount, reportPath)
		case messageStageSuccess:
			return fmt.Sprintf(clocSumSuccessTemplateConstant, reportCount, reportPath)
		case messageStageFailure:
			return fmt.Sprintf(clocSumFailureTemplateConstant, reportCount, reportPath, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(clocSumExecutionFailureTemplateConstant, reportCount, reportPath, formatter.describeFailure(failure))
		default:
			return emptyStringConstant
		}
	}

	target := formatter.ensureValue(argumentAtIndex(positionalArguments(arguments), 0))
	if containsArgument(arguments, clocByFileFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(clocByFileStartTemplateConstant, target, reportPath)
		case messageStageSuccess:
			return fmt.Sprintf(clocByFileSuccessTemplateConstant, target, reportPath)
		case messageStageFailure:
			return fmt.Sprintf(clocByFileFailureTemplateConstant, target, reportPath, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(clocByFileExecutionFailureTemplateConstant, target, reportPath, formatter.describeFailure(failure))
		default:
			return emptyStringConstant
		}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(clocCountStartTemplateConstant, target, reportPath)
	case messageStageSuccess:
		return fmt.Sprintf(clocCountSuccessTemplateConstant, target, reportPath)
	case messageStageFailure:
		return fmt.Sprintf(clocCountFailureTemplateConstant, target, reportPath, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(clocCountExecutionFailureTemplateConstant, target, reportPath, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := FormatCommandLine(command) + formatter.formatWorkingDirectorySuffix(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, RedactCredentials(trimmedStandardError))
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return "current directory"
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return RedactCredentials(failure.Error())
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func isClocCommand(command ShellCommand) bool {
	if command.Name == CommandCloc {
		return true
	}
	baseName := strings.ToLower(filepath.Base(strings.TrimSpace(string(command.Name))))
	baseName = strings.TrimSuffix(strings.TrimSuffix(baseName, ".exe"), ".pl")
	return baseName == clocExecutableBaseNameConstant
}

func findReportFile(arguments []string) string {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if strings.HasPrefix(trimmed, clocReportFileFlagPrefix) {
			return strings.TrimPrefix(trimmed, clocReportFileFlagPrefix)
		}
	}
	return emptyStringConstant
}

func positionalArguments(arguments []string) []string {
	positional := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		positional = append(positional, trimmed)
	}
	return positional
}

func argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
