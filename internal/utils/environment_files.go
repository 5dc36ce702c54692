package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// DefaultEnvironmentFileName is loaded from the working directory when present.
	DefaultEnvironmentFileName               = ".env"
	environmentFileLoadErrorTemplateConstant = "failed to load environment file %s: %w"
)

// EnvironmentFileLoader imports KEY=VALUE files into the process environment.
// Variables already present in the environment are never overwritten.
type EnvironmentFileLoader struct {
	fileExists func(path string) bool
}

// NewEnvironmentFileLoader constructs an EnvironmentFileLoader backed by the operating system.
func NewEnvironmentFileLoader() *EnvironmentFileLoader {
	return &EnvironmentFileLoader{fileExists: regularFileExists}
}

// Load imports the explicitly requested files, failing when one cannot be read. When no files are
// requested, the default .env file is imported if it exists. The returned slice lists the loaded files.
func (loader *EnvironmentFileLoader) Load(requestedPaths []string) ([]string, error) {
	explicitPaths := make([]string, 0, len(requestedPaths))
	for _, requestedPath := range requestedPaths {
		trimmedPath := strings.TrimSpace(requestedPath)
		if len(trimmedPath) > 0 {
			explicitPaths = append(explicitPaths, trimmedPath)
		}
	}

	if len(explicitPaths) == 0 {
		existenceCheck := regularFileExists
		if loader != nil && loader.fileExists != nil {
			existenceCheck = loader.fileExists
		}
		if !existenceCheck(DefaultEnvironmentFileName) {
			return nil, nil
		}
		explicitPaths = append(explicitPaths, DefaultEnvironmentFileName)
	}

	for _, environmentFilePath := range explicitPaths {
		if loadError := godotenv.Load(environmentFilePath); loadError != nil {
			return nil, fmt.Errorf(environmentFileLoadErrorTemplateConstant, environmentFilePath, loadError)
		}
	}

	return explicitPaths, nil
}

func regularFileExists(path string) bool {
	fileInfo, statError := os.Stat(path)
	if statError != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
