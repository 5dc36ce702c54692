package inventory

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"go.uber.org/zap"

	"github.com/temirov/clocscan/internal/discovery"
	"github.com/temirov/clocscan/internal/execshell"
)

const (
	gitCloneSubcommandConstant         = "clone"
	gitShallowDepthArgumentConstant    = "--depth=1"
	gitSingleBranchArgumentConstant    = "--single-branch"
	gitShallowDepthConstant            = 1
	gitConfigCountVariableConstant     = "GIT_CONFIG_COUNT"
	gitConfigKeyVariableConstant       = "GIT_CONFIG_KEY_0"
	gitConfigValueVariableConstant     = "GIT_CONFIG_VALUE_0"
	gitTerminalPromptVariableConstant  = "GIT_TERMINAL_PROMPT"
	gitExtraHeaderKeyConstant          = "http.extraHeader"
	gitBasicAuthorizationTemplate      = "Authorization: Basic %s"
	gitSingleConfigEntryConstant       = "1"
	gitTerminalPromptDisabledConstant  = "0"
	unsupportedBackendTemplate         = "unsupported clone backend %q"
	unsupportedTransportTemplate       = "unsupported credential transport %q"
	libraryCloneStartedMessageConstant = "cloning repository in process"
	logFieldDestinationConstant        = "destination"
	libraryCloneFailedTemplate         = "%s: %s"
)

// CloneBackend selects how repositories are cloned.
type CloneBackend string

// Supported clone backends.
const (
	CloneBackendCLI     CloneBackend = "cli"
	CloneBackendLibrary CloneBackend = "library"
)

// CredentialTransport selects how the git executable receives the access token.
type CredentialTransport string

// Supported credential transports.
const (
	CredentialTransportEnvironment CredentialTransport = "environment"
	CredentialTransportURL         CredentialTransport = "url"
)

// ParseCloneBackend resolves a backend name case-insensitively; blank selects the cli backend.
func ParseCloneBackend(rawBackend string) (CloneBackend, error) {
	switch CloneBackend(strings.ToLower(strings.TrimSpace(rawBackend))) {
	case CloneBackendCLI, "":
		return CloneBackendCLI, nil
	case CloneBackendLibrary:
		return CloneBackendLibrary, nil
	default:
		return "", fmt.Errorf(unsupportedBackendTemplate, rawBackend)
	}
}

// ParseCredentialTransport resolves a transport name case-insensitively; blank selects the environment transport.
func ParseCredentialTransport(rawTransport string) (CredentialTransport, error) {
	switch CredentialTransport(strings.ToLower(strings.TrimSpace(rawTransport))) {
	case CredentialTransportEnvironment, "":
		return CredentialTransportEnvironment, nil
	case CredentialTransportURL:
		return CredentialTransportURL, nil
	default:
		return "", fmt.Errorf(unsupportedTransportTemplate, rawTransport)
	}
}

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Cloner produces a shallow, single-branch checkout of a repository at destination.
type Cloner interface {
	Clone(executionContext context.Context, record discovery.RepositoryRecord, destination string) error
}

// GitCommandCloner clones with the git executable.
type GitCommandCloner struct {
	executor  GitExecutor
	transport CredentialTransport
}

// NewGitCommandCloner constructs a cloner around executor.
func NewGitCommandCloner(executor GitExecutor, transport CredentialTransport) *GitCommandCloner {
	return &GitCommandCloner{executor: executor, transport: transport}
}

// Clone runs git clone --depth=1 <url> --single-branch <destination>. With the environment
// transport the token is removed from the URL and handed to git as an extra HTTP header
// through GIT_CONFIG_* variables, keeping it out of the process arguments.
func (cloner *GitCommandCloner) Clone(executionContext context.Context, record discovery.RepositoryRecord, destination string) error {
	cloneURL := record.CloneURL
	environment := map[string]string{gitTerminalPromptVariableConstant: gitTerminalPromptDisabledConstant}

	if cloner.transport != CredentialTransportURL {
		plainURL, credentials := discovery.StripCredentials(record.CloneURL)
		if !credentials.Empty() {
			cloneURL = plainURL
			encodedCredentials := base64.StdEncoding.EncodeToString([]byte(credentials.Username + ":" + credentials.Password))
			environment[gitConfigCountVariableConstant] = gitSingleConfigEntryConstant
			environment[gitConfigKeyVariableConstant] = gitExtraHeaderKeyConstant
			environment[gitConfigValueVariableConstant] = fmt.Sprintf(gitBasicAuthorizationTemplate, encodedCredentials)
		}
	}

	_, cloneError := cloner.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            buildCloneArguments(cloneURL, destination),
		EnvironmentVariables: environment,
	})
	return cloneError
}

// LibraryCloner clones in process with go-git.
type LibraryCloner struct {
	recorder *CommandRecorder
	logger   *zap.Logger
}

// NewLibraryCloner constructs an in-process cloner. The equivalent git command is recorded for the audit log.
func NewLibraryCloner(recorder *CommandRecorder, logger *zap.Logger) *LibraryCloner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibraryCloner{recorder: recorder, logger: logger}
}

// Clone fetches a depth-one, single-branch copy of the remote default branch.
func (cloner *LibraryCloner) Clone(executionContext context.Context, record discovery.RepositoryRecord, destination string) error {
	equivalentCommand := execshell.ShellCommand{
		Name:    execshell.CommandGit,
		Details: execshell.CommandDetails{Arguments: buildCloneArguments(record.CloneURL, destination)},
	}
	cloner.recorder.Record(equivalentCommand)
	cloner.logger.Info(
		libraryCloneStartedMessageConstant,
		zap.String(logFieldRepositoryIDConstant, record.ID),
		zap.String(logFieldDestinationConstant, destination),
	)

	plainURL, credentials := discovery.StripCredentials(record.CloneURL)
	cloneOptions := &git.CloneOptions{
		URL:          plainURL,
		Depth:        gitShallowDepthConstant,
		SingleBranch: true,
	}
	if !credentials.Empty() {
		cloneOptions.Auth = &githttp.BasicAuth{Username: credentials.Username, Password: credentials.Password}
	}

	if _, cloneError := git.PlainCloneContext(executionContext, destination, false, cloneOptions); cloneError != nil {
		return fmt.Errorf(libraryCloneFailedTemplate, execshell.FormatCommandLine(equivalentCommand), execshell.RedactCredentials(cloneError.Error()))
	}
	return nil
}

func buildCloneArguments(cloneURL string, destination string) []string {
	return []string{gitCloneSubcommandConstant, gitShallowDepthArgumentConstant, cloneURL, gitSingleBranchArgumentConstant, destination}
}
