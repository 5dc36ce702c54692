package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/clocscan/internal/utils"
)

const (
	testEnvironmentPrefixConstant                     = "TESTCLOCSCAN"
	testOrganizationKeyConstant                       = "discovery.organization"
	testIncludeKeyConstant                            = "discovery.include"
	testRequestTimeoutKeyConstant                     = "discovery.request_timeout"
	testOrganizationEnvironmentVariableConstant       = "TESTCLOCSCAN_DISCOVERY_ORGANIZATION"
	testIncludeEnvironmentVariableConstant            = "TESTCLOCSCAN_DISCOVERY_INCLUDE"
	testRequestTimeoutEnvironmentVariableConstant     = "TESTCLOCSCAN_DISCOVERY_REQUEST_TIMEOUT"
	testEmbeddedOrganizationConstant                  = "embedded-org"
	testFileOrganizationConstant                      = "file-org"
	testEnvironmentOrganizationConstant               = "env-org"
	testConfigFileNameConstant                        = "config.yaml"
	testConfigContentTemplateConstant                 = "discovery:\n  organization: %s\n"
	testConfigurationNameConstant                     = "config"
	testConfigurationTypeConstant                     = "yaml"
	configurationLoaderSubtestNameTemplateConstant    = "%d_%s"
	testUserConfigurationDirectoryNameConstant        = ".clocscan"
	testXDGConfigHomeDirectoryNameConstant            = "config"
	testCaseEmbeddedMessageConstant                   = "embedded configuration merges"
	testCaseFileMessageConstant                       = "config file overrides embedded"
	testCaseEnvironmentMessageConstant                = "environment overrides file"
	testCaseSearchPathWorkingDirectoryMessageConstant = "searches working directory"
	testCaseSearchPathHomeDirectoryMessageConstant    = "searches home configuration directory"
)

type configurationFixture struct {
	Discovery discoveryFixture `mapstructure:"discovery"`
}

type discoveryFixture struct {
	Organization   string        `mapstructure:"organization"`
	Include        []string      `mapstructure:"include"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

func fixtureDefaults() map[string]any {
	return map[string]any{
		testOrganizationKeyConstant:   "",
		testIncludeKeyConstant:        []string{},
		testRequestTimeoutKeyConstant: "60s",
	}
}

func TestConfigurationLoaderLoadConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name                    string
		fileOrganization        string
		environmentOrganization string
		expectedOrganization    string
	}{
		{
			name:                 testCaseEmbeddedMessageConstant,
			expectedOrganization: testEmbeddedOrganizationConstant,
		},
		{
			name:                 testCaseFileMessageConstant,
			fileOrganization:     testFileOrganizationConstant,
			expectedOrganization: testFileOrganizationConstant,
		},
		{
			name:                    testCaseEnvironmentMessageConstant,
			fileOrganization:        testFileOrganizationConstant,
			environmentOrganization: testEnvironmentOrganizationConstant,
			expectedOrganization:    testEnvironmentOrganizationConstant,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(configurationLoaderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			tempDirectory := testInstance.TempDir()
			configurationFilePath := ""
			if len(testCase.fileOrganization) > 0 {
				configurationFilePath = filepath.Join(tempDirectory, testConfigFileNameConstant)
				configurationContent := fmt.Sprintf(testConfigContentTemplateConstant, testCase.fileOrganization)
				require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(configurationContent), 0o600))
			}

			if len(testCase.environmentOrganization) > 0 {
				testInstance.Setenv(testOrganizationEnvironmentVariableConstant, testCase.environmentOrganization)
			}

			configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{tempDirectory})
			configurationLoader.SetEmbeddedConfiguration([]byte(fmt.Sprintf(testConfigContentTemplateConstant, testEmbeddedOrganizationConstant)), testConfigurationTypeConstant)

			loadedConfiguration := configurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration(configurationFilePath, fixtureDefaults(), &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedOrganization, loadedConfiguration.Discovery.Organization)

			if len(configurationFilePath) > 0 {
				require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
			} else {
				require.Empty(testInstance, metadata.ConfigFileUsed)
			}
		})
	}
}

func TestConfigurationLoaderDecodesEnvironmentSlicesAndDurations(testInstance *testing.T) {
	testInstance.Setenv(testIncludeEnvironmentVariableConstant, "svc-*,lib-*")
	testInstance.Setenv(testRequestTimeoutEnvironmentVariableConstant, "15s")

	configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{testInstance.TempDir()})

	loadedConfiguration := configurationFixture{}
	_, loadError := configurationLoader.LoadConfiguration("", fixtureDefaults(), &loadedConfiguration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, []string{"svc-*", "lib-*"}, loadedConfiguration.Discovery.Include)
	require.Equal(testInstance, 15*time.Second, loadedConfiguration.Discovery.RequestTimeout)
}

func TestConfigurationLoaderRejectsMissingExplicitFile(testInstance *testing.T) {
	configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)

	loadedConfiguration := configurationFixture{}
	_, loadError := configurationLoader.LoadConfiguration(filepath.Join(testInstance.TempDir(), "absent.yaml"), fixtureDefaults(), &loadedConfiguration)
	require.Error(testInstance, loadError)
}

func TestConfigurationLoaderSearchPaths(testInstance *testing.T) {
	testCases := []struct {
		name                         string
		configurationDirectorySelect func(workingDirectoryPath string, userConfigurationDirectoryPath string) string
	}{
		{
			name: testCaseSearchPathWorkingDirectoryMessageConstant,
			configurationDirectorySelect: func(workingDirectoryPath string, userConfigurationDirectoryPath string) string {
				return workingDirectoryPath
			},
		},
		{
			name: testCaseSearchPathHomeDirectoryMessageConstant,
			configurationDirectorySelect: func(workingDirectoryPath string, userConfigurationDirectoryPath string) string {
				return userConfigurationDirectoryPath
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(configurationLoaderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			workingDirectoryPath := testInstance.TempDir()
			homeDirectoryPath := testInstance.TempDir()
			xdgConfigHomeDirectoryPath := filepath.Join(homeDirectoryPath, testXDGConfigHomeDirectoryNameConstant)

			testInstance.Setenv("HOME", homeDirectoryPath)
			testInstance.Setenv("XDG_CONFIG_HOME", xdgConfigHomeDirectoryPath)

			userConfigurationBaseDirectoryPath, userConfigurationDirectoryError := os.UserConfigDir()
			require.NoError(testInstance, userConfigurationDirectoryError)

			userConfigurationDirectoryPath := filepath.Join(userConfigurationBaseDirectoryPath, testUserConfigurationDirectoryNameConstant)
			require.NoError(testInstance, os.MkdirAll(userConfigurationDirectoryPath, 0o755))

			selectedConfigurationDirectoryPath := testCase.configurationDirectorySelect(workingDirectoryPath, userConfigurationDirectoryPath)
			configurationFilePath := filepath.Join(selectedConfigurationDirectoryPath, testConfigFileNameConstant)
			configurationContent := fmt.Sprintf(testConfigContentTemplateConstant, testFileOrganizationConstant)
			require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(configurationContent), 0o600))

			configurationLoader := utils.NewConfigurationLoader(
				testConfigurationNameConstant,
				testConfigurationTypeConstant,
				testEnvironmentPrefixConstant,
				[]string{workingDirectoryPath, userConfigurationDirectoryPath},
			)

			loadedConfiguration := configurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration("", fixtureDefaults(), &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testFileOrganizationConstant, loadedConfiguration.Discovery.Organization)
			require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
		})
	}
}
