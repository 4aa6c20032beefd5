package retrieve

import (
	"context"
	"strings"
	"time"

	htmlmd "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rotisserie/eris"

	"github.com/bizlens/bizlens/internal/model"
)

// BrowserStrategy renders JavaScript-driven pages with a real browser via
// rod. Single-page only: it covers sites the managed API could not reach,
// not full traversal. Normally restricted to non-production environments.
type BrowserStrategy struct {
	browserURL string
	timeout    time.Duration
	enabled    bool
}

// NewBrowserStrategy creates the headless-browser strategy. browserURL may
// point at a remote DevTools endpoint; empty launches a local browser.
func NewBrowserStrategy(browserURL string, timeout time.Duration, enabled bool) *BrowserStrategy {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &BrowserStrategy{browserURL: browserURL, timeout: timeout, enabled: enabled}
}

func (s *BrowserStrategy) Name() string    { return "browser" }
func (s *BrowserStrategy) Available() bool { return s.enabled }

// Fetch renders the page, waits for load, and converts the final DOM to
// markdown for downstream extraction.
func (s *BrowserStrategy) Fetch(ctx context.Context, req Request) (*Result, error) {
	browser := rod.New().Context(ctx).Timeout(s.timeout)
	if s.browserURL != "" {
		browser = browser.ControlURL(s.browserURL)
	}

	if err := browser.Connect(); err != nil {
		return nil, eris.Wrap(err, "browser strategy: connect")
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{URL: req.URL})
	if err != nil {
		return nil, eris.Wrap(err, "browser strategy: open page")
	}
	defer func() { _ = page.Close() }()

	if err := page.WaitLoad(); err != nil {
		return nil, eris.Wrap(err, "browser strategy: wait load")
	}

	htmlStr, err := page.HTML()
	if err != nil {
		return nil, eris.Wrap(err, "browser strategy: read html")
	}

	converter := htmlmd.NewConverter(hostOf(req.URL), true, nil)
	markdown, err := converter.ConvertString(htmlStr)
	if err != nil {
		markdown = ""
	}

	return &Result{
		Pages: []Page{{
			CrawledPage: model.CrawledPage{
				URL:        req.URL,
				Title:      extractTitle([]byte(htmlStr)),
				Markdown:   markdown,
				HTML:       htmlStr,
				StatusCode: 200,
			},
		}},
		Source: s.Name(),
	}, nil
}

func hostOf(rawURL string) string {
	rest := rawURL
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
