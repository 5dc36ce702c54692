package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/go-github/v60/github"
)

const (
	gitHubDefaultHostConstant        = "api.github.com"
	gitHubAuthSchemeConstant         = "oauth2"
	gitHubPageSizeConstant           = 100
	gitHubRequestURLTemplateConstant = "%s/orgs/%s/repos?per_page=%d&page=%d"
	gitHubInvalidCursorTemplate      = "invalid page cursor %q"
)

type gitHubLister struct {
	client       *github.Client
	baseURL      string
	organization string
}

func newGitHubLister(settings listerSettings) (pageLister, error) {
	baseURL, parseError := url.Parse(settings.endpoint.baseURL() + pathSeparatorConstant)
	if parseError != nil {
		return nil, DiscoveryError{Provider: ProviderGitHub, URL: settings.endpoint.baseURL(), Reason: parseError.Error(), Cause: parseError}
	}

	client := github.NewClient(settings.httpClient).WithAuthToken(settings.accessToken)
	client.BaseURL = baseURL

	return &gitHubLister{client: client, baseURL: settings.endpoint.baseURL(), organization: settings.organization}, nil
}

func (lister *gitHubLister) AuthScheme() string {
	return gitHubAuthSchemeConstant
}

// ListPage requests one page of organization repositories; the next cursor comes from the Link header.
func (lister *gitHubLister) ListPage(executionContext context.Context, cursor string) (discoveredPage, error) {
	pageNumber := 1
	if len(cursor) > 0 {
		parsedPage, parseError := strconv.Atoi(cursor)
		if parseError != nil {
			return discoveredPage{}, fmt.Errorf(gitHubInvalidCursorTemplate, cursor)
		}
		pageNumber = parsedPage
	}

	requestURL := fmt.Sprintf(gitHubRequestURLTemplateConstant, lister.baseURL, url.PathEscape(lister.organization), gitHubPageSizeConstant, pageNumber)
	listOptions := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: gitHubPageSizeConstant, Page: pageNumber},
	}

	repositories, response, listError := lister.client.Repositories.ListByOrg(executionContext, lister.organization, listOptions)
	if listError != nil {
		return discoveredPage{}, translateGitHubError(requestURL, response, listError)
	}

	records := make([]RepositoryRecord, 0, len(repositories))
	for _, repository := range repositories {
		if repository == nil {
			continue
		}
		records = append(records, NewRepositoryRecord(lister.organization, "", repository.GetName(), repository.GetDefaultBranch(), repository.GetCloneURL()))
	}

	page := discoveredPage{Records: records}
	if response != nil && response.NextPage > 0 {
		page.NextCursor = strconv.Itoa(response.NextPage)
	}
	return page, nil
}

func translateGitHubError(requestURL string, response *github.Response, listError error) error {
	var errorResponse *github.ErrorResponse
	if errors.As(listError, &errorResponse) && errorResponse.Response != nil {
		return DiscoveryError{
			Provider:   ProviderGitHub,
			URL:        requestURL,
			StatusCode: errorResponse.Response.StatusCode,
			Reason:     errorResponse.Message,
			Cause:      listError,
		}
	}
	if response != nil && response.Response != nil {
		return DiscoveryError{
			Provider:   ProviderGitHub,
			URL:        requestURL,
			StatusCode: response.StatusCode,
			Reason:     response.Status,
			Cause:      listError,
		}
	}
	return DiscoveryError{Provider: ProviderGitHub, URL: requestURL, Reason: listError.Error(), Cause: listError}
}
