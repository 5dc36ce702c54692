package discovery

import (
	"strings"
	"time"
)

const (
	configurationProviderKeyConstant        = "devops"
	configurationOrganizationKeyConstant    = "organization"
	configurationAccessTokenKeyConstant     = "access_token"
	configurationBaseURLOverrideKeyConstant = "base_url_override"
	configurationUseHTTPKeyConstant         = "use_http"
	configurationMaxPagesKeyConstant        = "max_pages"
	configurationRequestTimeoutKeyConstant  = "request_timeout"
	configurationIncludeKeyConstant         = "include"
	configurationExcludeKeyConstant         = "exclude"
	configurationManifestPathKeyConstant    = "manifest_path"
	configurationOutputFormatKeyConstant    = "output_format"
	configurationKeySeparatorConstant       = "."
)

// CommandConfiguration captures persistent discovery settings.
type CommandConfiguration struct {
	Provider        string        `mapstructure:"devops"`
	Organization    string        `mapstructure:"organization"`
	AccessToken     string        `mapstructure:"access_token"`
	BaseURLOverride string        `mapstructure:"base_url_override"`
	UseHTTP         bool          `mapstructure:"use_http"`
	MaxPages        int           `mapstructure:"max_pages"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	Include         []string      `mapstructure:"include"`
	Exclude         []string      `mapstructure:"exclude"`
	ManifestPath    string        `mapstructure:"manifest_path"`
	OutputFormat    string        `mapstructure:"output_format"`
}

// DefaultCommandConfiguration returns baseline discovery settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		MaxPages:       DefaultMaxPages,
		RequestTimeout: DefaultRequestTimeout,
		OutputFormat:   string(ManifestFormatYAML),
	}
}

// DefaultConfigurationValues returns viper defaults for every discovery key under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefixedKey(prefix, configurationProviderKeyConstant):        defaults.Provider,
		prefixedKey(prefix, configurationOrganizationKeyConstant):    defaults.Organization,
		prefixedKey(prefix, configurationAccessTokenKeyConstant):     defaults.AccessToken,
		prefixedKey(prefix, configurationBaseURLOverrideKeyConstant): defaults.BaseURLOverride,
		prefixedKey(prefix, configurationUseHTTPKeyConstant):         defaults.UseHTTP,
		prefixedKey(prefix, configurationMaxPagesKeyConstant):        defaults.MaxPages,
		prefixedKey(prefix, configurationRequestTimeoutKeyConstant):  defaults.RequestTimeout.String(),
		prefixedKey(prefix, configurationIncludeKeyConstant):         []string{},
		prefixedKey(prefix, configurationExcludeKeyConstant):         []string{},
		prefixedKey(prefix, configurationManifestPathKeyConstant):    defaults.ManifestPath,
		prefixedKey(prefix, configurationOutputFormatKeyConstant):    defaults.OutputFormat,
	}
}

func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Provider = strings.TrimSpace(configuration.Provider)
	sanitized.Organization = strings.TrimSpace(configuration.Organization)
	sanitized.AccessToken = strings.TrimSpace(configuration.AccessToken)
	sanitized.BaseURLOverride = strings.TrimSpace(configuration.BaseURLOverride)
	sanitized.ManifestPath = strings.TrimSpace(configuration.ManifestPath)
	sanitized.Include = sanitizeValues(configuration.Include)
	sanitized.Exclude = sanitizeValues(configuration.Exclude)
	if sanitized.MaxPages <= 0 {
		sanitized.MaxPages = DefaultMaxPages
	}
	if sanitized.RequestTimeout <= 0 {
		sanitized.RequestTimeout = DefaultRequestTimeout
	}
	return sanitized
}

func sanitizeValues(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}

func prefixedKey(prefix string, key string) string {
	trimmedPrefix := strings.TrimSpace(prefix)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + configurationKeySeparatorConstant + key
}
