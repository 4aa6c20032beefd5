package retrieve

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/bizlens/bizlens/internal/model"
)

// fixturePage is the on-disk shape of a canned page.
type fixturePage struct {
	URL      string `yaml:"url"`
	Title    string `yaml:"title"`
	Markdown string `yaml:"markdown"`
	HTML     string `yaml:"html"`
}

// FixtureStrategy serves deterministic canned content so test suites never
// depend on network reachability. Never enabled in production.
type FixtureStrategy struct {
	path    string
	enabled bool
}

// NewFixtureStrategy creates the fixture strategy. path may point at a YAML
// file of pages; when empty a built-in generic fixture is synthesized from
// the requested URL.
func NewFixtureStrategy(path string, enabled bool) *FixtureStrategy {
	return &FixtureStrategy{path: path, enabled: enabled}
}

func (s *FixtureStrategy) Name() string    { return "fixture" }
func (s *FixtureStrategy) Available() bool { return s.enabled }

func (s *FixtureStrategy) Fetch(_ context.Context, req Request) (*Result, error) {
	if s.path == "" {
		return &Result{Pages: builtinFixture(req.URL), Source: s.Name()}, nil
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, eris.Wrap(err, "fixture strategy: read file")
	}

	var fixtures []fixturePage
	if err := yaml.Unmarshal(raw, &fixtures); err != nil {
		return nil, eris.Wrap(err, "fixture strategy: parse yaml")
	}

	pages := make([]Page, 0, len(fixtures))
	for _, f := range fixtures {
		cp := model.CrawledPage{
			URL:        f.URL,
			Title:      f.Title,
			Markdown:   f.Markdown,
			HTML:       f.HTML,
			StatusCode: 200,
		}
		if !cp.HasContent() {
			continue
		}
		pages = append(pages, Page{CrawledPage: cp})
	}
	if len(pages) == 0 {
		return nil, eris.Errorf("fixture strategy: no pages in %s", s.path)
	}

	return &Result{Pages: pages, Source: s.Name()}, nil
}

func builtinFixture(targetURL string) []Page {
	markdown := fmt.Sprintf(`# Example Business

Example Business is a fixture company used in tests. We provide Consulting,
Training and Support services to small businesses across the United States.

Contact us at info@example.com or call (555) 123-4567.
Our office: 100 Main Street, Springfield, IL 62701.

Source: %s
`, targetURL)

	return []Page{{
		CrawledPage: model.CrawledPage{
			URL:        targetURL,
			Title:      "Example Business",
			Markdown:   markdown,
			StatusCode: 200,
		},
	}}
}
