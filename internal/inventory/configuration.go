package inventory

import (
	"strings"

	"github.com/temirov/clocscan/internal/execshell"
)

const (
	configurationClocPathKeyConstant            = "cloc_path"
	configurationOutputDirectoryKeyConstant     = "output_dir"
	configurationWorkDirectoryKeyConstant       = "work_dir"
	configurationCommandsFileKeyConstant        = "commands_file"
	configurationContinueOnErrorKeyConstant     = "continue_on_error"
	configurationCloneBackendKeyConstant        = "clone_backend"
	configurationCredentialTransportKeyConstant = "credential_transport"
	configurationKeySeparatorConstant           = "."
)

// CommandConfiguration captures persistent inventory settings.
type CommandConfiguration struct {
	ClocPath            string `mapstructure:"cloc_path"`
	OutputDirectory     string `mapstructure:"output_dir"`
	WorkDirectory       string `mapstructure:"work_dir"`
	CommandsFile        string `mapstructure:"commands_file"`
	ContinueOnError     bool   `mapstructure:"continue_on_error"`
	CloneBackend        string `mapstructure:"clone_backend"`
	CredentialTransport string `mapstructure:"credential_transport"`
}

// DefaultCommandConfiguration returns baseline inventory settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ClocPath:            string(execshell.CommandCloc),
		OutputDirectory:     DefaultOutputDirectory,
		WorkDirectory:       DefaultWorkDirectory,
		CommandsFile:        DefaultCommandsFileName,
		ContinueOnError:     false,
		CloneBackend:        string(CloneBackendCLI),
		CredentialTransport: string(CredentialTransportEnvironment),
	}
}

// DefaultConfigurationValues returns viper defaults for every inventory key under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefixedKey(prefix, configurationClocPathKeyConstant):            defaults.ClocPath,
		prefixedKey(prefix, configurationOutputDirectoryKeyConstant):     defaults.OutputDirectory,
		prefixedKey(prefix, configurationWorkDirectoryKeyConstant):       defaults.WorkDirectory,
		prefixedKey(prefix, configurationCommandsFileKeyConstant):        defaults.CommandsFile,
		prefixedKey(prefix, configurationContinueOnErrorKeyConstant):     defaults.ContinueOnError,
		prefixedKey(prefix, configurationCloneBackendKeyConstant):        defaults.CloneBackend,
		prefixedKey(prefix, configurationCredentialTransportKeyConstant): defaults.CredentialTransport,
	}
}

func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration
	sanitized.ClocPath = valueOrDefault(configuration.ClocPath, defaults.ClocPath)
	sanitized.OutputDirectory = valueOrDefault(configuration.OutputDirectory, defaults.OutputDirectory)
	sanitized.WorkDirectory = valueOrDefault(configuration.WorkDirectory, defaults.WorkDirectory)
	sanitized.CommandsFile = valueOrDefault(configuration.CommandsFile, defaults.CommandsFile)
	sanitized.CloneBackend = valueOrDefault(configuration.CloneBackend, defaults.CloneBackend)
	sanitized.CredentialTransport = valueOrDefault(configuration.CredentialTransport, defaults.CredentialTransport)
	return sanitized
}

func valueOrDefault(value string, defaultValue string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return defaultValue
	}
	return trimmedValue
}

func prefixedKey(prefix string, key string) string {
	trimmedPrefix := strings.TrimSpace(prefix)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + configurationKeySeparatorConstant + key
}
