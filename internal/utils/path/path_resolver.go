package pathutils

import (
	"path/filepath"
	"strings"
)

// PathResolver normalizes user-supplied file system locations such as
// output directories, work directories, and manifest files.
type PathResolver struct {
	homeExpander *HomeExpander
}

// NewPathResolver constructs a PathResolver. A nil expander uses the operating system home directory.
func NewPathResolver(homeExpander *HomeExpander) *PathResolver {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	return &PathResolver{homeExpander: homeExpander}
}

// Resolve trims whitespace, expands a leading tilde, and cleans the path.
// Blank input resolves to the fallback value, which is processed the same way.
func (resolver *PathResolver) Resolve(candidatePath string, fallbackPath string) string {
	trimmedCandidate := strings.TrimSpace(candidatePath)
	if len(trimmedCandidate) == 0 {
		trimmedCandidate = strings.TrimSpace(fallbackPath)
	}
	if len(trimmedCandidate) == 0 {
		return ""
	}

	expander := NewHomeExpander()
	if resolver != nil && resolver.homeExpander != nil {
		expander = resolver.homeExpander
	}

	return filepath.Clean(expander.Expand(trimmedCandidate))
}

// ResolveAll resolves each non-blank candidate and drops blank ones.
func (resolver *PathResolver) ResolveAll(candidatePaths []string) []string {
	resolvedPaths := make([]string, 0, len(candidatePaths))
	for _, candidatePath := range candidatePaths {
		resolvedPath := resolver.Resolve(candidatePath, "")
		if len(resolvedPath) == 0 {
			continue
		}
		resolvedPaths = append(resolvedPaths, resolvedPath)
	}
	if len(resolvedPaths) == 0 {
		return nil
	}
	return resolvedPaths
}
