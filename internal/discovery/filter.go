package discovery

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// RepositoryFilter selects records by repository name using doublestar glob patterns.
type RepositoryFilter struct {
	includePatterns []string
	excludePatterns []string
}

// NewRepositoryFilter validates the patterns. Blank patterns are ignored.
func NewRepositoryFilter(includePatterns []string, excludePatterns []string) (RepositoryFilter, error) {
	sanitizedInclude, includeError := sanitizePatterns(includePatterns)
	if includeError != nil {
		return RepositoryFilter{}, includeError
	}
	sanitizedExclude, excludeError := sanitizePatterns(excludePatterns)
	if excludeError != nil {
		return RepositoryFilter{}, excludeError
	}
	return RepositoryFilter{includePatterns: sanitizedInclude, excludePatterns: sanitizedExclude}, nil
}

// Matches keeps a name that matches any include pattern (or there are none) and no exclude pattern.
func (filter RepositoryFilter) Matches(repositoryName string) bool {
	if len(filter.includePatterns) > 0 && !matchesAny(filter.includePatterns, repositoryName) {
		return false
	}
	return !matchesAny(filter.excludePatterns, repositoryName)
}

// Apply returns the records whose repository names match.
func (filter RepositoryFilter) Apply(records []RepositoryRecord) []RepositoryRecord {
	if len(filter.includePatterns) == 0 && len(filter.excludePatterns) == 0 {
		return records
	}
	selected := make([]RepositoryRecord, 0, len(records))
	for _, record := range records {
		if filter.Matches(record.RepositoryName) {
			selected = append(selected, record)
		}
	}
	return selected
}

func sanitizePatterns(patterns []string) ([]string, error) {
	sanitized := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if len(trimmedPattern) == 0 {
			continue
		}
		if !doublestar.ValidatePattern(trimmedPattern) {
			return nil, InvalidPatternError{Pattern: trimmedPattern}
		}
		sanitized = append(sanitized, trimmedPattern)
	}
	return sanitized, nil
}

func matchesAny(patterns []string, repositoryName string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, repositoryName); matched {
			return true
		}
	}
	return false
}
