package discovery

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const (
	azureDevOpsDefaultHostConstant        = "dev.azure.com"
	azureDevOpsAuthSchemeConstant         = "oauth2"
	azureDevOpsAPIVersionConstant         = "7.1"
	azureDevOpsRequestURLTemplateConstant = "%s/%s/_apis/git/repositories?api-version=%s"
	azureDevOpsContinuationQueryConstant  = "&continuationToken="
	azureDevOpsContinuationHeaderConstant = "x-ms-continuationtoken"
	azureDevOpsRepositorySegmentConstant  = "/_git/"
)

type azureDevOpsRepositoryList struct {
	Value             []azureDevOpsRepository `json:"value"`
	Count             int                     `json:"count"`
	ContinuationToken string                  `json:"continuationToken"`
}

type azureDevOpsRepository struct {
	Name          string             `json:"name"`
	WebURL        string             `json:"webUrl"`
	DefaultBranch string             `json:"defaultBranch"`
	Project       azureDevOpsProject `json:"project"`
}

type azureDevOpsProject struct {
	Name string `json:"name"`
}

type azureDevOpsLister struct {
	settings listerSettings
}

func newAzureDevOpsLister(settings listerSettings) (pageLister, error) {
	return &azureDevOpsLister{settings: settings}, nil
}

func (lister *azureDevOpsLister) AuthScheme() string {
	return azureDevOpsAuthSchemeConstant
}

// ListPage lists repositories across every project of the organization. The continuation token
// is read from the body and, when absent there, from the x-ms-continuationtoken header.
func (lister *azureDevOpsLister) ListPage(executionContext context.Context, cursor string) (discoveredPage, error) {
	requestURL := fmt.Sprintf(azureDevOpsRequestURLTemplateConstant, lister.settings.endpoint.baseURL(), url.PathEscape(lister.settings.organization), azureDevOpsAPIVersionConstant)
	if len(cursor) > 0 {
		requestURL += azureDevOpsContinuationQueryConstant + url.QueryEscape(cursor)
	}

	var repositoryList azureDevOpsRepositoryList
	responseHeader, fetchError := fetchJSON(executionContext, lister.settings.httpClient, ProviderAzureDevOps, requestURL, basicAuthorizer("", lister.settings.accessToken), &repositoryList)
	if fetchError != nil {
		return discoveredPage{}, fetchError
	}

	records := make([]RepositoryRecord, 0, len(repositoryList.Value))
	for _, repository := range repositoryList.Value {
		repositoryName := azureDevOpsRepositoryName(repository)
		records = append(records, NewRepositoryRecord(lister.settings.organization, repository.Project.Name, repositoryName, repository.DefaultBranch, repository.WebURL))
	}

	nextCursor := strings.TrimSpace(repositoryList.ContinuationToken)
	if len(nextCursor) == 0 && responseHeader != nil {
		nextCursor = strings.TrimSpace(responseHeader.Get(azureDevOpsContinuationHeaderConstant))
	}

	return discoveredPage{Records: records, NextCursor: nextCursor}, nil
}

// azureDevOpsRepositoryName takes the segment after /_git/ in the web URL, which carries the
// exact repository name including spaces, and falls back to the API name.
func azureDevOpsRepositoryName(repository azureDevOpsRepository) string {
	_, encodedName, found := strings.Cut(repository.WebURL, azureDevOpsRepositorySegmentConstant)
	if !found || len(encodedName) == 0 {
		return repository.Name
	}
	decodedName, unescapeError := url.PathUnescape(encodedName)
	if unescapeError != nil {
		return encodedName
	}
	return decodedName
}
