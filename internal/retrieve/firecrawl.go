package retrieve

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bizlens/bizlens/internal/model"
	"github.com/bizlens/bizlens/pkg/firecrawl"
)

func crawledPageFromData(d firecrawl.PageData) model.CrawledPage {
	return model.CrawledPage{
		URL:        d.URL,
		Title:      d.Title,
		Markdown:   d.Markdown,
		HTML:       d.HTML,
		StatusCode: d.StatusCode,
	}
}

// Progress range forwarded while the managed API works through its job:
// retrieval owns 30–100% of the caller-visible bar, earlier phases the rest.
const (
	progressFloor = 30.0
	progressSpan  = 70.0
)

// businessSchema is the extraction schema sent with every managed crawl.
// Field names line up with what the validator expects back per page.
func businessSchema() map[string]firecrawl.SchemaField {
	return map[string]firecrawl.SchemaField{
		"business_name":  {Type: "string", Description: "Official name of the business"},
		"description":    {Type: "string", Description: "What the business does, in its own words"},
		"phone":          {Type: "string", Description: "Primary contact phone number"},
		"email":          {Type: "string", Description: "Primary contact email address"},
		"address":        {Type: "string", Description: "Full street address"},
		"city":           {Type: "string", Description: "City of the primary location"},
		"state":          {Type: "string", Description: "State or region of the primary location"},
		"country":        {Type: "string", Description: "Country of the primary location"},
		"postal_code":    {Type: "string", Description: "Postal or ZIP code"},
		"services":       {Type: "array", Description: "Services or products offered"},
		"industry":       {Type: "string", Description: "Industry or sector"},
		"founded":        {Type: "string", Description: "Year the business was founded"},
		"employee_count": {Type: "string", Description: "Number of employees, if stated"},
	}
}

// FirecrawlStrategy retrieves a bounded multi-page crawl with inline
// extraction from the managed API. Preferred strategy: one call covers the
// whole site section we care about.
type FirecrawlStrategy struct {
	client   firecrawl.Client
	limiter  *IntervalLimiter
	matcher  *PathMatcher
	maxDepth int
	maxPages int
	enabled  bool
	pollOpts []firecrawl.PollOption
}

// WithPollOptions overrides job-poll behavior (interval, attempt budget).
func (s *FirecrawlStrategy) WithPollOptions(opts ...firecrawl.PollOption) *FirecrawlStrategy {
	s.pollOpts = opts
	return s
}

// NewFirecrawlStrategy creates the managed-API strategy. The limiter is
// shared with any other component calling the same API.
func NewFirecrawlStrategy(client firecrawl.Client, limiter *IntervalLimiter, matcher *PathMatcher, maxDepth, maxPages int, enabled bool) *FirecrawlStrategy {
	return &FirecrawlStrategy{
		client:   client,
		limiter:  limiter,
		matcher:  matcher,
		maxDepth: maxDepth,
		maxPages: maxPages,
		enabled:  enabled,
	}
}

func (s *FirecrawlStrategy) Name() string    { return "firecrawl" }
func (s *FirecrawlStrategy) Available() bool { return s.enabled && s.client != nil }

// Fetch starts a managed crawl and, when the API answers with a job handle
// instead of inline data, polls it to completion while forwarding progress.
func (s *FirecrawlStrategy) Fetch(ctx context.Context, req Request) (*Result, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, eris.Wrap(err, "firecrawl strategy: rate limiter")
	}

	resp, err := s.client.Crawl(ctx, firecrawl.CrawlRequest{
		URL:          req.URL,
		MaxDepth:     s.maxDepth,
		Limit:        s.maxPages,
		IncludePaths: s.matcher.Includes(),
		ExcludePaths: s.matcher.Excludes(),
		ScrapeOptions: firecrawl.ScrapeOptions{
			Formats: []string{"markdown", "html"},
			Schema:  businessSchema(),
		},
	})
	if err != nil {
		return nil, err
	}

	data := resp.Data
	if resp.Async() {
		if req.OnProgress != nil {
			req.OnProgress(progressFloor, "crawl job started", resp.ID)
		}

		opts := append([]firecrawl.PollOption{
			firecrawl.WithProgress(func(completed, total int) {
				if req.OnProgress == nil || total <= 0 {
					return
				}
				pct := progressFloor + progressSpan*float64(completed)/float64(total)
				req.OnProgress(pct, "crawling site", resp.ID)
			}),
		}, s.pollOpts...)

		status, err := firecrawl.PollCrawl(ctx, s.client, resp.ID, opts...)
		if err != nil {
			return nil, err
		}
		data = status.Data
	}

	pages := make([]Page, 0, len(data))
	for _, d := range data {
		if s.matcher.IsExcluded(d.URL) {
			continue
		}
		pages = append(pages, Page{
			CrawledPage: crawledPageFromData(d),
			Extract:     d.Extract,
		})
	}

	zap.L().Debug("firecrawl strategy: crawl finished",
		zap.String("url", req.URL),
		zap.Int("pages", len(pages)),
	)

	return &Result{Pages: pages, Source: s.Name()}, nil
}
