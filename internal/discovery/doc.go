// Package discovery lists the repositories of one organization on a hosting
// provider and normalizes them into RepositoryRecord values.
//
// GitHub and GitLab are queried through their client libraries, Azure DevOps
// and Bitbucket through their REST endpoints, and the Local provider reads a
// manifest previously written by the discover command. Every provider plugs
// into one pagination loop that injects credentials, bounds the page count,
// drops duplicate identifiers, and applies include/exclude patterns.
package discovery
