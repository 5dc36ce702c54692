package discovery

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultMaxPages bounds the pagination loop of every provider.
	DefaultMaxPages                    = 1000
	organizationFieldNameConstant      = "organization"
	accessTokenFieldNameConstant       = "access token"
	manifestPathFieldNameConstant      = "manifest path"
	pageCollectedMessageConstant       = "discovery page collected"
	duplicateRepositoryMessageConstant = "dropping repository listed more than once"
	discoveryCompletedMessageConstant  = "repository discovery completed"
	logFieldProviderConstant           = "provider"
	logFieldOrganizationConstant       = "organization"
	logFieldPageNumberConstant         = "page"
	logFieldPageRecordCountConstant    = "page_records"
	logFieldRepositoryIDConstant       = "repository_id"
	logFieldRepositoryNameConstant     = "repository_name"
	logFieldDiscoveredCountConstant    = "discovered"
	logFieldSelectedCountConstant      = "selected"
	logFieldHasMorePagesConstant       = "has_more"
)

// Request describes one discovery run.
type Request struct {
	Provider        Provider
	Organization    string
	AccessToken     string
	BaseURLOverride string
	UseHTTP         bool
	MaxPages        int
	Include         []string
	Exclude         []string
	ManifestPath    string
}

// discoveredPage is one page of normalized records. An empty NextCursor ends pagination.
type discoveredPage struct {
	Records    []RepositoryRecord
	NextCursor string
}

// pageLister is implemented once per provider.
type pageLister interface {
	// ListPage fetches the page addressed by cursor; the empty cursor addresses the first page.
	ListPage(executionContext context.Context, cursor string) (discoveredPage, error)
	// AuthScheme is the userinfo label injected in front of the access token in clone URLs.
	AuthScheme() string
}

type listerSettings struct {
	endpoint     apiEndpoint
	organization string
	accessToken  string
	httpClient   *http.Client
	logger       *zap.Logger
}

type listerFactory func(settings listerSettings) (pageLister, error)

type providerDefinition struct {
	defaultHost string
	newLister   listerFactory
}

// Service discovers repositories through provider-specific listers sharing one pagination loop.
type Service struct {
	logger      *zap.Logger
	httpClient  *http.Client
	definitions map[Provider]providerDefinition
}

// ServiceOption customizes a Service.
type ServiceOption func(service *Service)

// WithHTTPClient replaces the HTTP client used for provider requests.
func WithHTTPClient(httpClient *http.Client) ServiceOption {
	return func(service *Service) {
		if httpClient != nil {
			service.httpClient = httpClient
		}
	}
}

// NewService constructs a discovery service. A nil logger disables logging.
func NewService(logger *zap.Logger, options ...ServiceOption) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	service := &Service{
		logger:     logger,
		httpClient: NewHTTPClient(DefaultRequestTimeout),
		definitions: map[Provider]providerDefinition{
			ProviderGitHub:      {defaultHost: gitHubDefaultHostConstant, newLister: newGitHubLister},
			ProviderAzureDevOps: {defaultHost: azureDevOpsDefaultHostConstant, newLister: newAzureDevOpsLister},
			ProviderGitLab:      {defaultHost: gitLabDefaultHostConstant, newLister: newGitLabLister},
			ProviderBitbucket:   {defaultHost: bitbucketDefaultHostConstant, newLister: newBitbucketLister},
		},
	}
	for _, option := range options {
		if option != nil {
			option(service)
		}
	}
	return service
}

// Discover lists the repositories described by request. Any failed page aborts the run without partial results.
func (service *Service) Discover(executionContext context.Context, request Request) ([]RepositoryRecord, error) {
	filter, filterError := NewRepositoryFilter(request.Include, request.Exclude)
	if filterError != nil {
		return nil, filterError
	}

	records, collectError := service.collectRecords(executionContext, request)
	if collectError != nil {
		return nil, collectError
	}

	selectedRecords, duplicateError := service.dropRepeatedRecords(request.Provider, filter.Apply(records))
	if duplicateError != nil {
		return nil, duplicateError
	}

	service.logger.Info(
		discoveryCompletedMessageConstant,
		zap.String(logFieldProviderConstant, string(request.Provider)),
		zap.String(logFieldOrganizationConstant, request.Organization),
		zap.Int(logFieldDiscoveredCountConstant, len(records)),
		zap.Int(logFieldSelectedCountConstant, len(selectedRecords)),
	)

	return selectedRecords, nil
}

func (service *Service) collectRecords(executionContext context.Context, request Request) ([]RepositoryRecord, error) {
	if request.Provider == ProviderLocal {
		manifestPath := strings.TrimSpace(request.ManifestPath)
		if len(manifestPath) == 0 {
			return nil, MissingValueError{Field: manifestPathFieldNameConstant, Provider: request.Provider}
		}
		return ReadManifestFile(manifestPath)
	}

	definition, known := service.definitions[request.Provider]
	if !known {
		return nil, UnsupportedProviderError{Value: string(request.Provider)}
	}

	organization := strings.TrimSpace(request.Organization)
	if len(organization) == 0 {
		return nil, MissingValueError{Field: organizationFieldNameConstant, Provider: request.Provider}
	}
	accessToken := strings.TrimSpace(request.AccessToken)
	if len(accessToken) == 0 {
		return nil, MissingValueError{Field: accessTokenFieldNameConstant, Provider: request.Provider}
	}

	settings := listerSettings{
		endpoint:     resolveEndpoint(request.BaseURLOverride, definition.defaultHost, request.UseHTTP),
		organization: organization,
		accessToken:  accessToken,
		httpClient:   service.httpClient,
		logger:       service.logger,
	}
	lister, listerError := definition.newLister(settings)
	if listerError != nil {
		return nil, listerError
	}

	return service.collectPages(executionContext, request.Provider, lister, accessToken, settings.endpoint.scheme, request.MaxPages)
}

// collectPages walks pages until a page reports no further cursor, injecting credentials into every clone URL.
func (service *Service) collectPages(executionContext context.Context, provider Provider, lister pageLister, accessToken string, defaultScheme string, maxPages int) ([]RepositoryRecord, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	records := make([]RepositoryRecord, 0)
	cursor := ""
	for pageNumber := 1; ; pageNumber++ {
		if pageNumber > maxPages {
			return nil, PageLimitExceededError{Provider: provider, MaxPages: maxPages}
		}

		page, pageError := lister.ListPage(executionContext, cursor)
		if pageError != nil {
			return nil, pageError
		}

		for _, record := range page.Records {
			record.CloneURL = InjectCredentials(record.CloneURL, lister.AuthScheme(), accessToken, defaultScheme)
			records = append(records, record)
		}

		service.logger.Debug(
			pageCollectedMessageConstant,
			zap.String(logFieldProviderConstant, string(provider)),
			zap.Int(logFieldPageNumberConstant, pageNumber),
			zap.Int(logFieldPageRecordCountConstant, len(page.Records)),
			zap.Bool(logFieldHasMorePagesConstant, len(page.NextCursor) > 0),
		)

		if len(page.NextCursor) == 0 {
			return records, nil
		}
		cursor = page.NextCursor
	}
}

// dropRepeatedRecords removes a repository listed twice, for example when it moved between pages.
// Distinct repositories whose identifiers collide would overwrite each other's reports and fail
// with an IdentifierCollisionError.
func (service *Service) dropRepeatedRecords(provider Provider, records []RepositoryRecord) ([]RepositoryRecord, error) {
	seenRecords := make(map[string]RepositoryRecord, len(records))
	uniqueRecords := make([]RepositoryRecord, 0, len(records))
	for _, record := range records {
		seenRecord, seen := seenRecords[record.ID]
		if !seen {
			seenRecords[record.ID] = record
			uniqueRecords = append(uniqueRecords, record)
			continue
		}
		if HostAndPath(seenRecord.CloneURL) != HostAndPath(record.CloneURL) {
			return nil, IdentifierCollisionError{
				Provider:       provider,
				RepositoryID:   record.ID,
				FirstLocation:  HostAndPath(seenRecord.CloneURL),
				SecondLocation: HostAndPath(record.CloneURL),
			}
		}
		service.logger.Warn(
			duplicateRepositoryMessageConstant,
			zap.String(logFieldProviderConstant, string(provider)),
			zap.String(logFieldRepositoryIDConstant, record.ID),
			zap.String(logFieldRepositoryNameConstant, record.RepositoryName),
		)
	}
	return uniqueRecords, nil
}

type apiEndpoint struct {
	scheme string
	host   string
}

// resolveEndpoint picks the API host, letting an override replace it entirely. A scheme included in the
// override is discarded in favour of the useHTTP choice.
func resolveEndpoint(baseURLOverride string, defaultHost string, useHTTP bool) apiEndpoint {
	scheme := SchemeHTTPS
	if useHTTP {
		scheme = SchemeHTTP
	}

	host := strings.TrimSpace(baseURLOverride)
	if len(host) == 0 {
		host = defaultHost
	}
	_, host = splitScheme(host)
	host = strings.TrimRight(host, pathSeparatorConstant)

	return apiEndpoint{scheme: scheme, host: host}
}

func (endpoint apiEndpoint) baseURL() string {
	return endpoint.scheme + schemeSeparatorConstant + endpoint.host
}
