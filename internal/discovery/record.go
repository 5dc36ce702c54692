package discovery

import "strings"

const (
	repositoryIDSeparatorConstant = "-"
	forwardSlashConstant          = "/"
	backslashConstant             = `\`
)

var repositoryIDReplacer = strings.NewReplacer(forwardSlashConstant, repositoryIDSeparatorConstant, backslashConstant, repositoryIDSeparatorConstant)

// RepositoryRecord is the provider-neutral description of a repository to inventory.
type RepositoryRecord struct {
	ID               string `yaml:"id" json:"id"`
	RepositoryName   string `yaml:"repository_name" json:"repository_name"`
	OrganizationName string `yaml:"organization_name" json:"organization_name"`
	ProjectName      string `yaml:"project_name" json:"project_name"`
	DefaultBranch    string `yaml:"default_branch" json:"default_branch"`
	CloneURL         string `yaml:"clone_url" json:"clone_url"`
}

// NewRepositoryRecord builds a record and derives its identifier.
func NewRepositoryRecord(organizationName string, projectName string, repositoryName string, defaultBranch string, cloneURL string) RepositoryRecord {
	return RepositoryRecord{
		ID:               BuildRepositoryID(organizationName, projectName, repositoryName),
		RepositoryName:   repositoryName,
		OrganizationName: organizationName,
		ProjectName:      projectName,
		DefaultBranch:    defaultBranch,
		CloneURL:         cloneURL,
	}
}

// BuildRepositoryID joins organization, optional project, and repository with dashes.
// Path separators are replaced so the identifier is usable as a file name stem.
func BuildRepositoryID(organizationName string, projectName string, repositoryName string) string {
	parts := make([]string, 0, 3)
	parts = append(parts, organizationName)
	if len(projectName) > 0 {
		parts = append(parts, projectName)
	}
	parts = append(parts, repositoryName)
	return repositoryIDReplacer.Replace(strings.Join(parts, repositoryIDSeparatorConstant))
}
