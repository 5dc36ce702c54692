package discovery

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/temirov/clocscan/internal/providerauth"
	pathutils "github.com/temirov/clocscan/internal/utils/path"
)

const (
	// FlagOrganizationName selects the organization, group, or workspace.
	FlagOrganizationName = "organization"
	// FlagAccessTokenName supplies the provider access token.
	FlagAccessTokenName = "access_token"
	// FlagProviderName selects the hosting provider.
	FlagProviderName = "devops"
	// FlagUseHTTPName switches API requests and scheme-less clone URLs to plain HTTP.
	FlagUseHTTPName = "use_http"
	// FlagBaseURLOverrideName replaces the provider API host.
	FlagBaseURLOverrideName = "devops_base_url_override"
	// FlagManifestName points the Local provider at a manifest file.
	FlagManifestName = "manifest"
	// FlagIncludeName keeps repositories whose names match a pattern.
	FlagIncludeName = "include"
	// FlagExcludeName drops repositories whose names match a pattern.
	FlagExcludeName = "exclude"
	// FlagMaxPagesName bounds pagination.
	FlagMaxPagesName = "max-pages"
	// FlagRequestTimeoutName bounds each API request.
	FlagRequestTimeoutName = "request-timeout"

	flagOrganizationUsageConstant    = "Organization, group, or workspace to inventory"
	flagAccessTokenUsageConstant     = "Access token for the provider API and clones"
	flagProviderUsageTemplate        = "Hosting provider (%s)"
	flagUseHTTPUsageConstant         = "Use http instead of https"
	flagBaseURLOverrideUsageConstant = "API host replacing the provider default, for self-hosted instances"
	flagManifestUsageConstant        = "Manifest file read by the Local provider"
	flagIncludeUsageConstant         = "Glob pattern of repository names to keep (repeatable)"
	flagExcludeUsageConstant         = "Glob pattern of repository names to skip (repeatable)"
	flagMaxPagesUsageConstant        = "Maximum number of API pages to request"
	flagRequestTimeoutUsageConstant  = "Timeout for each API request"
	providerListSeparatorConstant    = "|"
)

// RequestOptions is a resolved discovery request plus its transport settings.
type RequestOptions struct {
	Request        Request
	RequestTimeout time.Duration
}

// BindRequestFlags registers the discovery flags on flagSet.
func BindRequestFlags(flagSet *pflag.FlagSet) {
	if flagSet == nil {
		return
	}
	flagSet.String(FlagOrganizationName, "", flagOrganizationUsageConstant)
	flagSet.String(FlagAccessTokenName, "", flagAccessTokenUsageConstant)
	flagSet.String(FlagProviderName, "", formatProviderUsage())
	flagSet.Bool(FlagUseHTTPName, false, flagUseHTTPUsageConstant)
	flagSet.String(FlagBaseURLOverrideName, "", flagBaseURLOverrideUsageConstant)
	flagSet.String(FlagManifestName, "", flagManifestUsageConstant)
	flagSet.StringSlice(FlagIncludeName, nil, flagIncludeUsageConstant)
	flagSet.StringSlice(FlagExcludeName, nil, flagExcludeUsageConstant)
	flagSet.Int(FlagMaxPagesName, DefaultMaxPages, flagMaxPagesUsageConstant)
	flagSet.Duration(FlagRequestTimeoutName, DefaultRequestTimeout, flagRequestTimeoutUsageConstant)
}

// ResolveRequestOptions overlays changed flags on configuration and validates the provider. An
// empty access token falls back to the provider's conventional environment variables.
func ResolveRequestOptions(command *cobra.Command, configuration CommandConfiguration, pathResolver *pathutils.PathResolver) (RequestOptions, error) {
	resolved := configuration
	if command != nil {
		flagSet := command.Flags()
		if flagSet.Changed(FlagOrganizationName) {
			resolved.Organization, _ = flagSet.GetString(FlagOrganizationName)
		}
		if flagSet.Changed(FlagAccessTokenName) {
			resolved.AccessToken, _ = flagSet.GetString(FlagAccessTokenName)
		}
		if flagSet.Changed(FlagProviderName) {
			resolved.Provider, _ = flagSet.GetString(FlagProviderName)
		}
		if flagSet.Changed(FlagUseHTTPName) {
			resolved.UseHTTP, _ = flagSet.GetBool(FlagUseHTTPName)
		}
		if flagSet.Changed(FlagBaseURLOverrideName) {
			resolved.BaseURLOverride, _ = flagSet.GetString(FlagBaseURLOverrideName)
		}
		if flagSet.Changed(FlagManifestName) {
			resolved.ManifestPath, _ = flagSet.GetString(FlagManifestName)
		}
		if flagSet.Changed(FlagIncludeName) {
			resolved.Include, _ = flagSet.GetStringSlice(FlagIncludeName)
		}
		if flagSet.Changed(FlagExcludeName) {
			resolved.Exclude, _ = flagSet.GetStringSlice(FlagExcludeName)
		}
		if flagSet.Changed(FlagMaxPagesName) {
			resolved.MaxPages, _ = flagSet.GetInt(FlagMaxPagesName)
		}
		if flagSet.Changed(FlagRequestTimeoutName) {
			resolved.RequestTimeout, _ = flagSet.GetDuration(FlagRequestTimeoutName)
		}
	}
	resolved = resolved.sanitize()

	provider, providerError := ParseProvider(resolved.Provider)
	if providerError != nil {
		return RequestOptions{}, providerError
	}

	if len(resolved.AccessToken) == 0 && provider != ProviderLocal {
		if environmentToken, found := providerauth.ResolveToken(string(provider), nil); found {
			resolved.AccessToken = environmentToken
		}
	}

	manifestPath := resolved.ManifestPath
	if len(manifestPath) > 0 {
		manifestPath = pathResolver.Resolve(manifestPath, "")
	}

	return RequestOptions{
		Request: Request{
			Provider:        provider,
			Organization:    resolved.Organization,
			AccessToken:     resolved.AccessToken,
			BaseURLOverride: resolved.BaseURLOverride,
			UseHTTP:         resolved.UseHTTP,
			MaxPages:        resolved.MaxPages,
			Include:         resolved.Include,
			Exclude:         resolved.Exclude,
			ManifestPath:    manifestPath,
		},
		RequestTimeout: resolved.RequestTimeout,
	}, nil
}

func formatProviderUsage() string {
	return strings.Replace(flagProviderUsageTemplate, "%s", strings.Join(SupportedProviders(), providerListSeparatorConstant), 1)
}
