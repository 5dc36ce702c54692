package tests

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	integrationBinaryNameConstant   = "clocscan"
	integrationBuildTimeout         = 2 * time.Minute
	integrationCommandTimeout       = 30 * time.Second
	integrationGitStubNameConstant  = "git"
	integrationClocStubNameConstant = "cloc"
	integrationGitStubScript        = "#!/bin/sh\nfor destination; do :; done\ncase \"$3\" in *svc-b*) if [ -n \"$CLOCSCAN_STUB_FAIL_CLONE\" ]; then echo \"fatal: repository not found\" >&2; exit 128; fi;; esac\nmkdir -p \"$destination/.git\"\nprintf 'package main\\n' > \"$destination/main.go\"\n"
	integrationClocStubScript       = "#!/bin/sh\nsum=\nreport=\nfor argument; do case \"$argument\" in --sum-report) sum=1;; --report-file=*) report=\"${argument#--report-file=}\";; esac; done\nif [ -n \"$sum\" ]; then\n  if [ -n \"$report\" ]; then printf 'SUM\\n' > \"$report.lang\"; printf 'SUM\\n' > \"$report.file\"; else echo \"SUM: $(($# - 1)) reports combined\"; fi\n  exit 0\nfi\nprintf 'report\\n' > \"$report\"\n"
)

type integrationResult struct {
	output   string
	exitCode int
}

func buildIntegrationBinary(testInstance *testing.T) string {
	testInstance.Helper()

	currentWorkingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)
	repositoryRootDirectory := filepath.Dir(currentWorkingDirectory)

	binaryPath := filepath.Join(testInstance.TempDir(), integrationBinaryNameConstant)
	executionContext, cancel := context.WithTimeout(context.Background(), integrationBuildTimeout)
	defer cancel()

	command := exec.CommandContext(executionContext, "go", "build", "-o", binaryPath, ".")
	command.Dir = repositoryRootDirectory
	command.Env = os.Environ()
	outputBytes, buildError := command.CombinedOutput()
	requireNoError(testInstance, buildError, string(outputBytes))
	return binaryPath
}

func writeToolStubs(testInstance *testing.T) string {
	testInstance.Helper()

	stubDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(stubDirectory, integrationGitStubNameConstant), []byte(integrationGitStubScript), 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(stubDirectory, integrationClocStubNameConstant), []byte(integrationClocStubScript), 0o755))
	return stubDirectory + string(os.PathListSeparator) + os.Getenv("PATH")
}

func runIntegrationCommand(testInstance *testing.T, binaryPath string, workingDirectory string, pathVariable string, extraEnvironment []string, arguments []string) integrationResult {
	testInstance.Helper()

	executionContext, cancel := context.WithTimeout(context.Background(), integrationCommandTimeout)
	defer cancel()

	command := exec.CommandContext(executionContext, binaryPath, arguments...)
	command.Dir = workingDirectory
	environment := append([]string{}, os.Environ()...)
	if len(pathVariable) > 0 {
		environment = append(environment, "PATH="+pathVariable)
	}
	command.Env = append(environment, extraEnvironment...)

	outputBytes, runError := command.CombinedOutput()
	result := integrationResult{output: string(outputBytes)}
	if runError != nil {
		var exitError *exec.ExitError
		if !errors.As(runError, &exitError) {
			requireNoError(testInstance, runError, result.output)
		}
		result.exitCode = exitError.ExitCode()
	}
	return result
}

func filterStructuredOutput(rawOutput string) string {
	lines := strings.Split(rawOutput, "\n")
	var filtered []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, "{") {
			continue
		}
		filtered = append(filtered, line)
	}
	if len(filtered) == 0 {
		return ""
	}
	return strings.Join(filtered, "\n") + "\n"
}

func requireNoError(testInstance *testing.T, err error, output string) {
	testInstance.Helper()
	if err != nil {
		testInstance.Fatalf("command failed: %v\n%s", err, output)
	}
}
