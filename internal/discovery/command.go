package discovery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/clocscan/internal/utils/flags"
	pathutils "github.com/temirov/clocscan/internal/utils/path"
)

const (
	commandUseConstant                    = "discover"
	commandShortDescriptionConstant       = "List repositories of an organization without cloning them"
	commandLongDescriptionConstant        = "discover queries the hosting provider API and writes the repository records as a manifest that the Local provider can read back."
	commandExecutionErrorTemplateConstant = "repository discovery failed: %w"
	unexpectedArgumentsMessageConstant    = "discover does not accept positional arguments"
	flagOutputNameConstant                = "output"
	flagOutputDescriptionConstant         = "Write the manifest to this file instead of standard output"
	flagFormatNameConstant                = "format"
	flagFormatDescriptionConstant         = "Manifest serialization"
	manifestWrittenMessageConstant        = "manifest written"
	logFieldManifestPathConstant          = "manifest_path"
	logFieldRecordCountConstant           = "records"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the persisted discovery configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the discover command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	PathResolver          *pathutils.PathResolver
}

type commandOptions struct {
	requestOptions RequestOptions
	outputPath     string
	format         ManifestFormat
}

// Build constructs the discover command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	BindRequestFlags(command.Flags())
	command.Flags().String(flagOutputNameConstant, "", flagOutputDescriptionConstant)
	flags.AddChoiceFlag(
		command.Flags(),
		nil,
		flagFormatNameConstant,
		string(ManifestFormatYAML),
		[]string{string(ManifestFormatYAML), string(ManifestFormatJSON)},
		flagFormatDescriptionConstant,
	)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	service := NewService(logger, WithHTTPClient(NewHTTPClient(options.requestOptions.RequestTimeout)))

	records, discoverError := service.Discover(command.Context(), options.requestOptions.Request)
	if discoverError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, discoverError)
	}

	if len(options.outputPath) == 0 {
		return WriteManifest(command.OutOrStdout(), records, options.format)
	}

	if writeError := WriteManifestFile(options.outputPath, records, options.format); writeError != nil {
		return writeError
	}
	logger.Info(
		manifestWrittenMessageConstant,
		zap.String(logFieldManifestPathConstant, options.outputPath),
		zap.Int(logFieldRecordCountConstant, len(records)),
	)
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (commandOptions, error) {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	requestOptions, requestError := ResolveRequestOptions(command, configuration, builder.PathResolver)
	if requestError != nil {
		return commandOptions{}, requestError
	}

	formatValue := configuration.OutputFormat
	if command.Flags().Changed(flagFormatNameConstant) {
		formatValue, _ = command.Flags().GetString(flagFormatNameConstant)
	}
	format, formatError := ParseManifestFormat(formatValue)
	if formatError != nil {
		return commandOptions{}, formatError
	}

	outputValue, _ := command.Flags().GetString(flagOutputNameConstant)
	outputPath := strings.TrimSpace(outputValue)
	if len(outputPath) > 0 {
		outputPath = builder.PathResolver.Resolve(outputPath, "")
	}

	return commandOptions{
		requestOptions: requestOptions,
		outputPath:     outputPath,
		format:         format,
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
