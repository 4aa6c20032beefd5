package retrieve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizlens/bizlens/pkg/firecrawl"
)

// mockFirecrawl implements firecrawl.Client for testing.
type mockFirecrawl struct {
	crawlResp   *firecrawl.CrawlResponse
	crawlErr    error
	statusResps []*firecrawl.CrawlStatusResponse
	statusCalls int
	lastReq     firecrawl.CrawlRequest
}

func (m *mockFirecrawl) Crawl(_ context.Context, req firecrawl.CrawlRequest) (*firecrawl.CrawlResponse, error) {
	m.lastReq = req
	return m.crawlResp, m.crawlErr
}

func (m *mockFirecrawl) GetCrawlStatus(context.Context, string) (*firecrawl.CrawlStatusResponse, error) {
	i := m.statusCalls
	m.statusCalls++
	if i >= len(m.statusResps) {
		i = len(m.statusResps) - 1
	}
	return m.statusResps[i], nil
}

func (m *mockFirecrawl) Scrape(context.Context, firecrawl.ScrapeRequest) (*firecrawl.ScrapeResponse, error) {
	return nil, errors.New("not implemented")
}

func newTestFirecrawlStrategy(client firecrawl.Client) *FirecrawlStrategy {
	return NewFirecrawlStrategy(
		client,
		NewIntervalLimiter(time.Millisecond),
		NewPathMatcher(nil, nil),
		2, 10, true,
	).WithPollOptions(firecrawl.WithPollInterval(time.Millisecond))
}

func TestFirecrawlStrategy_InlineData(t *testing.T) {
	client := &mockFirecrawl{
		crawlResp: &firecrawl.CrawlResponse{
			Success: true,
			Data: []firecrawl.PageData{
				{URL: "https://acme.com", Markdown: "# Acme", StatusCode: 200,
					Extract: map[string]any{"business_name": "Acme Corp"}},
			},
		},
	}

	s := newTestFirecrawlStrategy(client)
	result, err := s.Fetch(context.Background(), Request{URL: "https://acme.com"})

	require.NoError(t, err)
	require.Len(t, result.Pages, 1)
	assert.Equal(t, "firecrawl", result.Source)
	assert.Equal(t, "Acme Corp", result.Pages[0].Extract["business_name"])
}

func TestFirecrawlStrategy_RequestShape(t *testing.T) {
	client := &mockFirecrawl{
		crawlResp: &firecrawl.CrawlResponse{Success: true, Data: []firecrawl.PageData{{URL: "https://acme.com"}}},
	}

	s := newTestFirecrawlStrategy(client)
	_, err := s.Fetch(context.Background(), Request{URL: "https://acme.com"})

	require.NoError(t, err)
	assert.Equal(t, 2, client.lastReq.MaxDepth)
	assert.Equal(t, 10, client.lastReq.Limit)
	assert.Contains(t, client.lastReq.IncludePaths, "/about/*")
	assert.Contains(t, client.lastReq.ExcludePaths, "/blog/*")
	assert.Contains(t, client.lastReq.ScrapeOptions.Schema, "business_name")
	assert.Contains(t, client.lastReq.ScrapeOptions.Schema, "employee_count")
}

func TestFirecrawlStrategy_AsyncJobProgress(t *testing.T) {
	client := &mockFirecrawl{
		crawlResp: &firecrawl.CrawlResponse{Success: true, ID: "job-9"},
		statusResps: []*firecrawl.CrawlStatusResponse{
			{Status: "scraping", Total: 10, Completed: 5},
			{Status: "completed", Total: 10, Completed: 10, Data: []firecrawl.PageData{
				{URL: "https://acme.com/about", Markdown: "about us"},
			}},
		},
	}

	var percents []float64
	var handles []string
	s := newTestFirecrawlStrategy(client)
	result, err := s.Fetch(context.Background(), Request{
		URL: "https://acme.com",
		OnProgress: func(percent float64, _, handle string) {
			percents = append(percents, percent)
			handles = append(handles, handle)
		},
	})

	require.NoError(t, err)
	require.Len(t, result.Pages, 1)

	// 30% on job start, then 30 + 70*(5/10) = 65% on the partial poll.
	require.Len(t, percents, 2)
	assert.InDelta(t, 30.0, percents[0], 0.001)
	assert.InDelta(t, 65.0, percents[1], 0.001)
	assert.Equal(t, "job-9", handles[0])
}

func TestFirecrawlStrategy_FiltersExcludedPages(t *testing.T) {
	client := &mockFirecrawl{
		crawlResp: &firecrawl.CrawlResponse{
			Success: true,
			Data: []firecrawl.PageData{
				{URL: "https://acme.com/about", Markdown: "about"},
				{URL: "https://acme.com/blog/post", Markdown: "post"},
			},
		},
	}

	s := newTestFirecrawlStrategy(client)
	result, err := s.Fetch(context.Background(), Request{URL: "https://acme.com"})

	require.NoError(t, err)
	require.Len(t, result.Pages, 1)
	assert.Equal(t, "https://acme.com/about", result.Pages[0].URL)
}

func TestFirecrawlStrategy_CrawlError(t *testing.T) {
	client := &mockFirecrawl{crawlErr: errors.New("api down")}

	s := newTestFirecrawlStrategy(client)
	_, err := s.Fetch(context.Background(), Request{URL: "https://acme.com"})

	assert.Error(t, err)
}

func TestFirecrawlStrategy_Availability(t *testing.T) {
	assert.False(t, NewFirecrawlStrategy(nil, nil, nil, 0, 0, true).Available())

	client := &mockFirecrawl{}
	assert.False(t, NewFirecrawlStrategy(client, nil, nil, 0, 0, false).Available())
	assert.True(t, NewFirecrawlStrategy(client, nil, nil, 0, 0, true).Available())
}
