package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

const (
	gitLabDefaultHostConstant        = "gitlab.com"
	gitLabAuthSchemeConstant         = "oauth2"
	gitLabPageSizeConstant           = 100
	gitLabFirstPageConstant          = 1
	gitLabRequestURLTemplateConstant = "%s/api/v4/groups/%s/projects?per_page=%d&page=%d"
)

type gitLabLister struct {
	client       *gitlab.Client
	baseURL      string
	organization string
}

func newGitLabLister(settings listerSettings) (pageLister, error) {
	client, clientError := gitlab.NewClient(
		settings.accessToken,
		gitlab.WithBaseURL(settings.endpoint.baseURL()),
		gitlab.WithHTTPClient(settings.httpClient),
		gitlab.WithCustomRetryMax(0),
	)
	if clientError != nil {
		return nil, DiscoveryError{Provider: ProviderGitLab, URL: settings.endpoint.baseURL(), Reason: clientError.Error(), Cause: clientError}
	}
	return &gitLabLister{client: client, baseURL: settings.endpoint.baseURL(), organization: settings.organization}, nil
}

func (lister *gitLabLister) AuthScheme() string {
	return gitLabAuthSchemeConstant
}

// ListPage requests the first page of group projects only; further pages are never requested.
func (lister *gitLabLister) ListPage(executionContext context.Context, _ string) (discoveredPage, error) {
	requestURL := fmt.Sprintf(gitLabRequestURLTemplateConstant, lister.baseURL, url.PathEscape(lister.organization), gitLabPageSizeConstant, gitLabFirstPageConstant)
	listOptions := &gitlab.ListGroupProjectsOptions{
		ListOptions: gitlab.ListOptions{PerPage: gitLabPageSizeConstant, Page: gitLabFirstPageConstant},
	}

	projects, response, listError := lister.client.Groups.ListGroupProjects(lister.organization, listOptions, gitlab.WithContext(executionContext))
	if listError != nil {
		return discoveredPage{}, translateGitLabError(requestURL, response, listError)
	}

	records := make([]RepositoryRecord, 0, len(projects))
	for _, project := range projects {
		if project == nil {
			continue
		}
		records = append(records, NewRepositoryRecord(lister.organization, "", project.Path, project.DefaultBranch, project.HTTPURLToRepo))
	}

	return discoveredPage{Records: records}, nil
}

func translateGitLabError(requestURL string, response *gitlab.Response, listError error) error {
	var errorResponse *gitlab.ErrorResponse
	if errors.As(listError, &errorResponse) && errorResponse.Response != nil {
		return DiscoveryError{
			Provider:   ProviderGitLab,
			URL:        requestURL,
			StatusCode: errorResponse.Response.StatusCode,
			Reason:     errorResponse.Message,
			Cause:      listError,
		}
	}
	if response != nil && response.Response != nil {
		return DiscoveryError{
			Provider:   ProviderGitLab,
			URL:        requestURL,
			StatusCode: response.StatusCode,
			Reason:     response.Status,
			Cause:      listError,
		}
	}
	return DiscoveryError{Provider: ProviderGitLab, URL: requestURL, Reason: listError.Error(), Cause: listError}
}
