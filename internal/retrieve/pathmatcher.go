package retrieve

import (
	"net/url"
	"path"
	"strings"
)

// Default path filters for a business-profile crawl: pages likely to carry
// contact or company information are included, content churn is excluded.
var (
	defaultIncludePatterns = []string{
		"/about/*", "/services/*", "/contact/*", "/team/*", "/products/*",
	}
	defaultExcludePatterns = []string{
		"/blog/*", "/news/*", "/careers/*", "/privacy/*", "/terms/*",
	}
)

// PathMatcher filters crawl URLs based on glob-style path patterns.
// Uses path.Match from stdlib plus a segmented match so "/blog/*" matches
// multi-level paths like "/blog/deep/path".
type PathMatcher struct {
	includes []string
	excludes []string
}

// NewPathMatcher creates a PathMatcher from include and exclude glob
// patterns. Empty slices fall back to the defaults.
func NewPathMatcher(includes, excludes []string) *PathMatcher {
	if len(includes) == 0 {
		includes = defaultIncludePatterns
	}
	if len(excludes) == 0 {
		excludes = defaultExcludePatterns
	}
	return &PathMatcher{includes: includes, excludes: excludes}
}

// Includes returns the include patterns for the managed API request.
func (m *PathMatcher) Includes() []string { return m.includes }

// Excludes returns the exclude patterns for the managed API request.
func (m *PathMatcher) Excludes() []string { return m.excludes }

// IsExcluded checks whether a URL matches any exclude pattern.
func (m *PathMatcher) IsExcluded(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	urlPath := strings.ToLower(u.Path)
	for _, pattern := range m.excludes {
		if matchSegmented(strings.ToLower(pattern), urlPath) {
			return true
		}
	}
	return false
}

// matchSegmented performs glob matching where a pattern like "/blog/*"
// matches both "/blog/post" and "/blog/deep/nested/path".
func matchSegmented(pattern, urlPath string) bool {
	if ok, _ := path.Match(pattern, urlPath); ok {
		return true
	}

	// For patterns ending in "/*", check the directory prefix so that
	// "/blog/*" matches "/blog/a/b/c".
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if urlPath == prefix || strings.HasPrefix(urlPath, prefix+"/") {
			return true
		}
	}

	return false
}
