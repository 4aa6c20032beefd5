package retrieve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathMatcher_Defaults(t *testing.T) {
	m := NewPathMatcher(nil, nil)

	assert.Contains(t, m.Includes(), "/about/*")
	assert.Contains(t, m.Excludes(), "/blog/*")
}

func TestPathMatcher_IsExcluded(t *testing.T) {
	m := NewPathMatcher(nil, nil)

	tests := []struct {
		url      string
		excluded bool
	}{
		{"https://acme.com/", false},
		{"https://acme.com/about", false},
		{"https://acme.com/services/plumbing", false},
		{"https://acme.com/blog/post-1", true},
		{"https://acme.com/blog/2024/deep/post", true},
		{"https://acme.com/news/latest", true},
		{"https://acme.com/careers/openings", true},
		{"https://acme.com/privacy/policy", true},
		{"https://acme.com/terms/of-service", true},
		{"https://acme.com/BLOG/post", true}, // case-insensitive
	}

	for _, tt := range tests {
		assert.Equal(t, tt.excluded, m.IsExcluded(tt.url), tt.url)
	}
}

func TestPathMatcher_CustomPatterns(t *testing.T) {
	m := NewPathMatcher([]string{"/docs/*"}, []string{"/internal/*"})

	assert.Equal(t, []string{"/docs/*"}, m.Includes())
	assert.True(t, m.IsExcluded("https://acme.com/internal/tools"))
	assert.False(t, m.IsExcluded("https://acme.com/blog/post")) // default no longer applies
}

func TestPathMatcher_UnparsableURLExcluded(t *testing.T) {
	m := NewPathMatcher(nil, nil)
	assert.True(t, m.IsExcluded("://not-a-url"))
}
