package retrieve

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/temoto/robotstxt"
	"go.uber.org/zap"

	"github.com/bizlens/bizlens/internal/model"
)

// browserUserAgent is a realistic desktop UA. Plenty of sites serve an
// empty shell or a block page to obvious bot agents.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// DirectStrategy fetches static HTML via net/http. No rendering; last
// general-purpose resort before fixtures.
type DirectStrategy struct {
	client *http.Client
}

// NewDirectStrategy creates a DirectStrategy with a hard request timeout.
func NewDirectStrategy(timeout time.Duration) *DirectStrategy {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &DirectStrategy{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
	}
}

func (s *DirectStrategy) Name() string    { return "direct_http" }
func (s *DirectStrategy) Available() bool { return true }

// Fetch GETs the URL, checks robots.txt and block markers, and strips the
// HTML to plaintext for downstream extraction.
func (s *DirectStrategy) Fetch(ctx context.Context, req Request) (*Result, error) {
	if !s.robotsAllowed(ctx, req.URL) {
		return nil, eris.Errorf("direct_http: disallowed by robots.txt: %s", req.URL)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "direct_http: create request")
	}
	httpReq.Header.Set("User-Agent", browserUserAgent)
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "direct_http: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil, eris.Wrap(err, "direct_http: read body")
	}

	if blocked, blockType := DetectBlock(resp, body); blocked {
		return nil, eris.Errorf("direct_http: blocked (%s)", blockType)
	}

	if resp.StatusCode >= 400 {
		return nil, eris.Errorf("direct_http: status %d", resp.StatusCode)
	}

	html := string(body)
	return &Result{
		Pages: []Page{{
			CrawledPage: model.CrawledPage{
				URL:        req.URL,
				Title:      extractTitle(body),
				Markdown:   stripHTML(html),
				HTML:       html,
				StatusCode: resp.StatusCode,
			},
		}},
		Source: s.Name(),
	}, nil
}

// robotsAllowed checks the site's robots.txt for our agent. Unreachable or
// malformed robots files default to allowed.
func (s *DirectStrategy) robotsAllowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return true
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return true
	}
	defer func() { _ = resp.Body.Close() }()

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		return true
	}

	allowed := robots.TestAgent(u.Path, "bizlens")
	if !allowed {
		zap.L().Debug("direct_http: robots.txt disallows path",
			zap.String("url", rawURL),
		)
	}
	return allowed
}

var titleRe = regexp.MustCompile(`(?i)<title[^>]*>(.*?)</title>`)

// extractTitle pulls the <title> from HTML.
func extractTitle(body []byte) string {
	m := titleRe.FindSubmatch(body)
	if len(m) > 1 {
		return strings.TrimSpace(string(m[1]))
	}
	return ""
}

// stripHTML removes scripts/styles/nav/footer, strips tags, decodes entities,
// and collapses whitespace.
func stripHTML(html string) string {
	for _, tag := range []string{"script", "style", "nav", "footer"} {
		re := regexp.MustCompile(`(?is)<` + tag + `[^>]*>.*?</` + tag + `>`)
		html = re.ReplaceAllString(html, "")
	}

	tagRe := regexp.MustCompile(`<[^>]+>`)
	html = tagRe.ReplaceAllString(html, " ")

	r := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	html = r.Replace(html)

	spaceRe := regexp.MustCompile(`[ \t]+`)
	html = spaceRe.ReplaceAllString(html, " ")

	nlRe := regexp.MustCompile(`\n{3,}`)
	html = nlRe.ReplaceAllString(html, "\n\n")

	return strings.TrimSpace(html)
}
