package discovery

import (
	"fmt"
	"strings"
)

const (
	discoveryErrorTemplateConstant           = "%s discovery request %s failed with status %d: %s"
	discoveryTransportErrorTemplateConstant  = "%s discovery request %s failed: %s"
	pageLimitExceededErrorTemplateConstant   = "%s discovery exceeded the limit of %d pages"
	unsupportedProviderErrorTemplateConstant = "unsupported provider %q (expected one of %s)"
	missingValueErrorTemplateConstant        = "%s is required for provider %s"
	manifestErrorTemplateConstant            = "manifest %s: %v"
	invalidPatternErrorTemplateConstant      = "invalid repository pattern %q"
	identifierCollisionErrorTemplateConstant = "%s repositories %s and %s share the identifier %q"
	supportedProvidersSeparatorConstant      = ", "
)

// DiscoveryError reports a provider API request that did not succeed.
// StatusCode is zero when no HTTP response was received.
type DiscoveryError struct {
	Provider   Provider
	URL        string
	StatusCode int
	Reason     string
	Cause      error
}

// Error describes the failed request.
func (discoveryError DiscoveryError) Error() string {
	if discoveryError.StatusCode == 0 {
		return fmt.Sprintf(discoveryTransportErrorTemplateConstant, discoveryError.Provider, discoveryError.URL, discoveryError.Reason)
	}
	return fmt.Sprintf(discoveryErrorTemplateConstant, discoveryError.Provider, discoveryError.URL, discoveryError.StatusCode, discoveryError.Reason)
}

// Unwrap exposes the transport failure, if any.
func (discoveryError DiscoveryError) Unwrap() error {
	return discoveryError.Cause
}

// PageLimitExceededError reports a provider that kept returning further pages past the configured bound.
type PageLimitExceededError struct {
	Provider Provider
	MaxPages int
}

// Error describes the exceeded bound.
func (limitError PageLimitExceededError) Error() string {
	return fmt.Sprintf(pageLimitExceededErrorTemplateConstant, limitError.Provider, limitError.MaxPages)
}

// UnsupportedProviderError reports an unknown provider name.
type UnsupportedProviderError struct {
	Value string
}

// Error lists the accepted provider names.
func (providerError UnsupportedProviderError) Error() string {
	return fmt.Sprintf(unsupportedProviderErrorTemplateConstant, providerError.Value, strings.Join(SupportedProviders(), supportedProvidersSeparatorConstant))
}

// MissingValueError reports a required request field left blank.
type MissingValueError struct {
	Field    string
	Provider Provider
}

// Error names the missing field.
func (missingError MissingValueError) Error() string {
	return fmt.Sprintf(missingValueErrorTemplateConstant, missingError.Field, missingError.Provider)
}

// ManifestError reports a manifest that could not be read, decoded, or written.
type ManifestError struct {
	Path  string
	Cause error
}

// Error describes the manifest failure.
func (manifestError ManifestError) Error() string {
	return fmt.Sprintf(manifestErrorTemplateConstant, manifestError.Path, manifestError.Cause)
}

// Unwrap exposes the underlying failure.
func (manifestError ManifestError) Unwrap() error {
	return manifestError.Cause
}

// InvalidPatternError reports an include or exclude glob that cannot be parsed.
type InvalidPatternError struct {
	Pattern string
}

// Error names the pattern.
func (patternError InvalidPatternError) Error() string {
	return fmt.Sprintf(invalidPatternErrorTemplateConstant, patternError.Pattern)
}

// IdentifierCollisionError reports two distinct repositories that derive the same identifier.
// Locations are clone URLs without credentials.
type IdentifierCollisionError struct {
	Provider       Provider
	RepositoryID   string
	FirstLocation  string
	SecondLocation string
}

// Error names both repositories.
func (collisionError IdentifierCollisionError) Error() string {
	return fmt.Sprintf(identifierCollisionErrorTemplateConstant, collisionError.Provider, collisionError.FirstLocation, collisionError.SecondLocation, collisionError.RepositoryID)
}
