package utils

import "context"

type commandContextKey string

const (
	configurationFilePathContextKeyConstant = commandContextKey("configurationFilePath")
	environmentFilesContextKeyConstant      = commandContextKey("environmentFiles")
)

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath attaches the resolved configuration file path to the provided context.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath extracts the configuration file path from the provided context.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, available := executionContext.Value(configurationFilePathContextKeyConstant).(string)
	return configurationFilePath, available
}

// WithEnvironmentFiles attaches the list of imported environment files to the provided context.
func (accessor CommandContextAccessor) WithEnvironmentFiles(parentContext context.Context, environmentFiles []string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, environmentFilesContextKeyConstant, append([]string(nil), environmentFiles...))
}

// EnvironmentFiles extracts the imported environment files from the provided context.
func (accessor CommandContextAccessor) EnvironmentFiles(executionContext context.Context) []string {
	if executionContext == nil {
		return nil
	}
	environmentFiles, _ := executionContext.Value(environmentFilesContextKeyConstant).([]string)
	return environmentFiles
}
