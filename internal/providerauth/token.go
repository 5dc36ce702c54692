// Package providerauth resolves hosting provider access tokens from the environment.
package providerauth

import (
	"os"
	"strings"
)

// Environment variable names consulted when no access token is configured.
const (
	EnvGitHubCLIToken       = "GH_TOKEN"
	EnvGitHubToken          = "GITHUB_TOKEN"
	EnvGitHubAPIToken       = "GITHUB_API_TOKEN"
	EnvGitLabToken          = "GITLAB_TOKEN"
	EnvGitLabPrivateToken   = "GITLAB_PRIVATE_TOKEN"
	EnvAzureDevOpsPAT       = "AZURE_DEVOPS_EXT_PAT"
	EnvAzureDevOpsToken     = "AZURE_DEVOPS_TOKEN"
	EnvBitbucketAccessToken = "BITBUCKET_ACCESS_TOKEN"
	EnvBitbucketToken       = "BITBUCKET_TOKEN"
)

// Platform names accepted by ResolveToken, compared case-insensitively.
const (
	PlatformGitHub      = "github"
	PlatformGitLab      = "gitlab"
	PlatformAzureDevOps = "azuredevops"
	PlatformBitbucket   = "bitbucket"
)

var tokenPreference = map[string][]string{
	PlatformGitHub:      {EnvGitHubCLIToken, EnvGitHubToken, EnvGitHubAPIToken},
	PlatformGitLab:      {EnvGitLabToken, EnvGitLabPrivateToken},
	PlatformAzureDevOps: {EnvAzureDevOpsPAT, EnvAzureDevOpsToken},
	PlatformBitbucket:   {EnvBitbucketAccessToken, EnvBitbucketToken},
}

// EnvironmentVariables lists the variables consulted for platform in preference order.
func EnvironmentVariables(platform string) []string {
	preference := tokenPreference[strings.ToLower(strings.TrimSpace(platform))]
	return append([]string(nil), preference...)
}

// ResolveToken returns the first non-empty token for platform observed in the provided
// environment map or, failing that, the process environment.
func ResolveToken(platform string, environment map[string]string) (string, bool) {
	preference := tokenPreference[strings.ToLower(strings.TrimSpace(platform))]
	for _, key := range preference {
		if value, ok := lookup(environment, key); ok {
			return value, true
		}
	}
	for _, key := range preference {
		if value, ok := os.LookupEnv(key); ok {
			value = strings.TrimSpace(value)
			if len(value) > 0 {
				return value, true
			}
		}
	}
	return "", false
}

func lookup(environment map[string]string, key string) (string, bool) {
	if environment == nil {
		return "", false
	}
	value, exists := environment[key]
	if !exists {
		return "", false
	}
	value = strings.TrimSpace(value)
	if len(value) == 0 {
		return "", false
	}
	return value, true
}
