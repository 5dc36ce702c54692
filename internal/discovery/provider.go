package discovery

import "strings"

// Provider identifies a repository hosting service.
type Provider string

// Supported providers.
const (
	ProviderGitHub      Provider = "GitHub"
	ProviderAzureDevOps Provider = "AzureDevOps"
	ProviderGitLab      Provider = "GitLab"
	ProviderBitbucket   Provider = "Bitbucket"
	ProviderLocal       Provider = "Local"
)

var providerAliases = map[string]Provider{
	"github":       ProviderGitHub,
	"azuredevops":  ProviderAzureDevOps,
	"azure":        ProviderAzureDevOps,
	"azure-devops": ProviderAzureDevOps,
	"gitlab":       ProviderGitLab,
	"bitbucket":    ProviderBitbucket,
	"local":        ProviderLocal,
	"manifest":     ProviderLocal,
}

// ParseProvider resolves a provider name case-insensitively.
func ParseProvider(rawProvider string) (Provider, error) {
	normalizedProvider := strings.ToLower(strings.TrimSpace(rawProvider))
	provider, known := providerAliases[normalizedProvider]
	if !known {
		return "", UnsupportedProviderError{Value: rawProvider}
	}
	return provider, nil
}

// SupportedProviders lists the canonical provider names.
func SupportedProviders() []string {
	return []string{
		string(ProviderGitHub),
		string(ProviderAzureDevOps),
		string(ProviderBitbucket),
		string(ProviderGitLab),
		string(ProviderLocal),
	}
}

// RequiresCredentials reports whether the provider needs an organization and access token.
func (provider Provider) RequiresCredentials() bool {
	return provider != ProviderLocal
}
