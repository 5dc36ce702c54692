package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/clocscan/internal/discovery"
	"github.com/temirov/clocscan/internal/execshell"
	"github.com/temirov/clocscan/internal/ui"
	"github.com/temirov/clocscan/internal/utils"
	"github.com/temirov/clocscan/internal/utils/flags"
	pathutils "github.com/temirov/clocscan/internal/utils/path"
)

const (
	commandUseConstant                    = "inventory"
	commandShortDescriptionConstant       = "Clone every repository of an organization and count its lines of code"
	commandLongDescriptionConstant        = "inventory discovers repositories, clones each one shallowly, writes aggregate and per-file cloc reports, removes the clone, and finishes with a summary report and a commands log."
	commandDiscoveryErrorTemplateConstant = "repository discovery failed: %w"
	unexpectedArgumentsMessageConstant    = "inventory does not accept positional arguments"
)

const (
	// FlagClocPathName overrides the cloc executable.
	FlagClocPathName = "clocPath"
	// FlagOutputDirectoryName sets the report directory.
	FlagOutputDirectoryName = "output-dir"
	// FlagCommandsFileName sets the commands log path.
	FlagCommandsFileName = "commands-file"
	// FlagWorkDirectoryName sets the directory receiving temporary clones.
	FlagWorkDirectoryName = "work-dir"
	// FlagContinueOnErrorName keeps processing after a failing repository.
	FlagContinueOnErrorName = "continue-on-error"
	// FlagCloneBackendName selects the clone backend.
	FlagCloneBackendName = "clone-backend"
	// FlagCredentialTransportName selects how git receives the token.
	FlagCredentialTransportName = "credential-transport"
)

const (
	flagClocPathDescriptionConstant            = "Path to the cloc executable"
	flagOutputDirectoryDescriptionConstant     = "Directory receiving cloc reports"
	flagCommandsFileDescriptionConstant        = "File receiving the executed commands, credentials redacted"
	flagWorkDirectoryDescriptionConstant       = "Directory receiving temporary clones"
	flagContinueOnErrorDescriptionConstant     = "Keep processing after a failing repository and exit 1 when any failed"
	flagCloneBackendDescriptionConstant        = "Clone with the git executable or in process"
	flagCredentialTransportDescriptionConstant = "Pass the token to git through environment configuration or inside the clone URL"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the persisted inventory configuration.
type ConfigurationProvider func() CommandConfiguration

// DiscoveryConfigurationProvider supplies the persisted discovery configuration.
type DiscoveryConfigurationProvider func() discovery.CommandConfiguration

// CommandBuilder assembles the inventory command.
type CommandBuilder struct {
	LoggerProvider                 LoggerProvider
	HumanReadableLoggingProvider   func() bool
	ConfigurationProvider          ConfigurationProvider
	DiscoveryConfigurationProvider DiscoveryConfigurationProvider
	CommandRunner                  execshell.CommandRunner
	PathResolver                   *pathutils.PathResolver
}

type commandOptions struct {
	discoveryOptions    discovery.RequestOptions
	runnerOptions       Options
	clocPath            string
	cloneBackend        CloneBackend
	credentialTransport CredentialTransport
}

// Build constructs the inventory command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.Run,
	}

	discovery.BindRequestFlags(command.Flags())
	defaults := DefaultCommandConfiguration()
	command.Flags().String(FlagClocPathName, defaults.ClocPath, flagClocPathDescriptionConstant)
	command.Flags().String(FlagOutputDirectoryName, defaults.OutputDirectory, flagOutputDirectoryDescriptionConstant)
	command.Flags().String(FlagCommandsFileName, defaults.CommandsFile, flagCommandsFileDescriptionConstant)
	command.Flags().String(FlagWorkDirectoryName, defaults.WorkDirectory, flagWorkDirectoryDescriptionConstant)
	command.Flags().Bool(FlagContinueOnErrorName, defaults.ContinueOnError, flagContinueOnErrorDescriptionConstant)
	flags.AddChoiceFlag(
		command.Flags(),
		nil,
		FlagCloneBackendName,
		defaults.CloneBackend,
		[]string{string(CloneBackendCLI), string(CloneBackendLibrary)},
		flagCloneBackendDescriptionConstant,
	)
	flags.AddChoiceFlag(
		command.Flags(),
		nil,
		FlagCredentialTransportName,
		defaults.CredentialTransport,
		[]string{string(CredentialTransportEnvironment), string(CredentialTransportURL)},
		flagCredentialTransportDescriptionConstant,
	)

	return command, nil
}

// Run discovers repositories and inventories them. It is exported so the root command can share it.
func (builder *CommandBuilder) Run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	discoveryService := discovery.NewService(logger, discovery.WithHTTPClient(discovery.NewHTTPClient(options.discoveryOptions.RequestTimeout)))
	records, discoverError := discoveryService.Discover(command.Context(), options.discoveryOptions.Request)
	if discoverError != nil {
		return fmt.Errorf(commandDiscoveryErrorTemplateConstant, discoverError)
	}

	recorder := NewCommandRecorder()
	shellExecutor, executorError := builder.buildExecutor(logger, recorder, options.clocPath)
	if executorError != nil {
		return executorError
	}

	var cloner Cloner = NewGitCommandCloner(shellExecutor, options.credentialTransport)
	if options.cloneBackend == CloneBackendLibrary {
		cloner = NewLibraryCloner(recorder, logger)
	}

	runner, runnerError := NewRunner(Dependencies{
		Cloner:   cloner,
		Counter:  NewLineCounter(shellExecutor),
		Recorder: recorder,
		Progress: ui.NewProgressReporter(utils.NewFlushingWriter(command.OutOrStdout())),
		Logger:   logger,
	}, options.runnerOptions)
	if runnerError != nil {
		return runnerError
	}

	_, runError := runner.Run(command.Context(), records)
	return runError
}

func (builder *CommandBuilder) buildExecutor(logger *zap.Logger, recorder *CommandRecorder, clocPath string) (*execshell.ShellExecutor, error) {
	commandRunner := builder.CommandRunner
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunner()
	}

	var consoleObserver execshell.CommandEventObserver
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		consoleObserver = ui.NewConsoleCommandEventLogger(logger)
	}

	return execshell.NewShellExecutor(
		logger,
		commandRunner,
		execshell.WithCommandEventObserver(execshell.CombineCommandEventObservers(recorder, consoleObserver)),
		execshell.WithClocExecutable(clocPath),
	)
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (commandOptions, error) {
	discoveryConfiguration := discovery.DefaultCommandConfiguration()
	if builder.DiscoveryConfigurationProvider != nil {
		discoveryConfiguration = builder.DiscoveryConfigurationProvider()
	}
	discoveryOptions, discoveryError := discovery.ResolveRequestOptions(command, discoveryConfiguration, builder.PathResolver)
	if discoveryError != nil {
		return commandOptions{}, discoveryError
	}

	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	flagSet := command.Flags()
	if flagSet.Changed(FlagClocPathName) {
		configuration.ClocPath, _ = flagSet.GetString(FlagClocPathName)
	}
	if flagSet.Changed(FlagOutputDirectoryName) {
		configuration.OutputDirectory, _ = flagSet.GetString(FlagOutputDirectoryName)
	}
	if flagSet.Changed(FlagCommandsFileName) {
		configuration.CommandsFile, _ = flagSet.GetString(FlagCommandsFileName)
	}
	if flagSet.Changed(FlagWorkDirectoryName) {
		configuration.WorkDirectory, _ = flagSet.GetString(FlagWorkDirectoryName)
	}
	if flagSet.Changed(FlagContinueOnErrorName) {
		configuration.ContinueOnError, _ = flagSet.GetBool(FlagContinueOnErrorName)
	}
	if flagSet.Changed(FlagCloneBackendName) {
		configuration.CloneBackend, _ = flagSet.GetString(FlagCloneBackendName)
	}
	if flagSet.Changed(FlagCredentialTransportName) {
		configuration.CredentialTransport, _ = flagSet.GetString(FlagCredentialTransportName)
	}
	configuration = configuration.sanitize()

	cloneBackend, backendError := ParseCloneBackend(configuration.CloneBackend)
	if backendError != nil {
		return commandOptions{}, backendError
	}
	credentialTransport, transportError := ParseCredentialTransport(configuration.CredentialTransport)
	if transportError != nil {
		return commandOptions{}, transportError
	}

	clocPath := configuration.ClocPath
	if strings.ContainsAny(clocPath, `/\`) {
		clocPath = builder.PathResolver.Resolve(clocPath, "")
	}

	return commandOptions{
		discoveryOptions: discoveryOptions,
		runnerOptions: Options{
			OutputDirectory:  builder.PathResolver.Resolve(configuration.OutputDirectory, DefaultOutputDirectory),
			WorkDirectory:    builder.PathResolver.Resolve(configuration.WorkDirectory, DefaultWorkDirectory),
			CommandsFilePath: builder.PathResolver.Resolve(configuration.CommandsFile, DefaultCommandsFileName),
			ContinueOnError:  configuration.ContinueOnError,
		},
		clocPath:            clocPath,
		cloneBackend:        cloneBackend,
		credentialTransport: credentialTransport,
	}, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}
