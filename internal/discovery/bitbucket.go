package discovery

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const (
	bitbucketDefaultHostConstant        = "api.bitbucket.org"
	bitbucketAuthSchemeConstant         = "x-token-auth"
	bitbucketAPIVersionConstant         = "2.0"
	bitbucketPageSizeConstant           = 100
	bitbucketFirstPageConstant          = 1
	bitbucketRequestURLTemplateConstant = "%s/%s/repositories/%s?pagelen=%d&page=%d"
	bitbucketHTTPSCloneLinkNameConstant = "https"
	bitbucketMissingCloneLinkMessage    = "skipping repository without an https clone link"
)

type bitbucketRepositoryList struct {
	Values []bitbucketRepository `json:"values"`
	Next   string                `json:"next"`
}

type bitbucketRepository struct {
	Slug       string              `json:"slug"`
	MainBranch *bitbucketBranch    `json:"mainbranch"`
	Project    *bitbucketProject   `json:"project"`
	Links      bitbucketLinkGroups `json:"links"`
}

type bitbucketBranch struct {
	Name string `json:"name"`
}

type bitbucketProject struct {
	Name string `json:"name"`
}

type bitbucketLinkGroups struct {
	Clone []bitbucketCloneLink `json:"clone"`
}

type bitbucketCloneLink struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

type bitbucketLister struct {
	settings listerSettings
}

func newBitbucketLister(settings listerSettings) (pageLister, error) {
	return &bitbucketLister{settings: settings}, nil
}

func (lister *bitbucketLister) AuthScheme() string {
	return bitbucketAuthSchemeConstant
}

// ListPage requests the first page of workspace repositories only; the next link is ignored.
func (lister *bitbucketLister) ListPage(executionContext context.Context, _ string) (discoveredPage, error) {
	requestURL := fmt.Sprintf(
		bitbucketRequestURLTemplateConstant,
		lister.settings.endpoint.baseURL(),
		bitbucketAPIVersionConstant,
		url.PathEscape(lister.settings.organization),
		bitbucketPageSizeConstant,
		bitbucketFirstPageConstant,
	)

	var repositoryList bitbucketRepositoryList
	if _, fetchError := fetchJSON(executionContext, lister.settings.httpClient, ProviderBitbucket, requestURL, bearerAuthorizer(lister.settings.accessToken), &repositoryList); fetchError != nil {
		return discoveredPage{}, fetchError
	}

	records := make([]RepositoryRecord, 0, len(repositoryList.Values))
	for _, repository := range repositoryList.Values {
		cloneURL, found := bitbucketHTTPSCloneURL(repository.Links.Clone)
		if !found {
			lister.settings.logger.Warn(bitbucketMissingCloneLinkMessage, zap.String(logFieldRepositoryNameConstant, repository.Slug))
			continue
		}

		defaultBranch := ""
		if repository.MainBranch != nil {
			defaultBranch = repository.MainBranch.Name
		}
		projectName := ""
		if repository.Project != nil {
			projectName = repository.Project.Name
		}

		records = append(records, NewRepositoryRecord(lister.settings.organization, projectName, repository.Slug, defaultBranch, cloneURL))
	}

	return discoveredPage{Records: records}, nil
}

// bitbucketHTTPSCloneURL returns the host and path of the https clone link. The scheme and the
// username Bitbucket embeds are dropped so credential injection applies the configured scheme.
func bitbucketHTTPSCloneURL(cloneLinks []bitbucketCloneLink) (string, bool) {
	for _, cloneLink := range cloneLinks {
		if cloneLink.Name != bitbucketHTTPSCloneLinkNameConstant {
			continue
		}
		hostAndPath := strings.TrimSpace(HostAndPath(cloneLink.Href))
		return hostAndPath, len(hostAndPath) > 0
	}
	return "", false
}
