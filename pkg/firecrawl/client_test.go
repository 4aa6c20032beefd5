package firecrawl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Crawl_Async(t *testing.T) {
	var gotReq CrawlRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/crawl", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(CrawlResponse{Success: true, ID: "job-123"})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.Crawl(context.Background(), CrawlRequest{
		URL:          "https://acme.com",
		MaxDepth:     2,
		Limit:        10,
		IncludePaths: []string{"about/*", "services/*"},
		ExcludePaths: []string{"blog/*"},
		ScrapeOptions: ScrapeOptions{
			Formats: []string{"markdown", "html"},
			Schema: map[string]SchemaField{
				"business_name": {Type: "string", Description: "Official business name"},
			},
		},
	})

	require.NoError(t, err)
	assert.True(t, resp.Async())
	assert.Equal(t, "job-123", resp.ID)
	assert.Equal(t, "https://acme.com", gotReq.URL)
	assert.Equal(t, []string{"blog/*"}, gotReq.ExcludePaths)
	assert.Contains(t, gotReq.ScrapeOptions.Schema, "business_name")
}

func TestClient_Crawl_InlineData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(CrawlResponse{
			Success: true,
			Data: []PageData{
				{URL: "https://acme.com", Markdown: "# Acme", Title: "Acme", StatusCode: 200},
			},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.Crawl(context.Background(), CrawlRequest{URL: "https://acme.com"})

	require.NoError(t, err)
	assert.False(t, resp.Async())
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "# Acme", resp.Data[0].Markdown)
}

func TestClient_GetCrawlStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/crawl/job-123", r.URL.Path)
		json.NewEncoder(w).Encode(CrawlStatusResponse{
			Status:    "scraping",
			Total:     10,
			Completed: 4,
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	status, err := client.GetCrawlStatus(context.Background(), "job-123")

	require.NoError(t, err)
	assert.Equal(t, "scraping", status.Status)
	assert.Equal(t, 4, status.Completed)
}

func TestClient_Scrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/scrape", r.URL.Path)
		json.NewEncoder(w).Encode(ScrapeResponse{
			Success: true,
			Data:    PageData{URL: "https://acme.com", Markdown: "content", StatusCode: 200},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.Scrape(context.Background(), ScrapeRequest{URL: "https://acme.com"})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "content", resp.Data.Markdown)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limit exceeded"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Crawl(context.Background(), CrawlRequest{URL: "https://acme.com"})

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.True(t, apiErr.IsRateLimited())
}

func TestClient_ExtractPayloadPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(CrawlResponse{
			Success: true,
			Data: []PageData{
				{
					URL: "https://acme.com/about",
					Extract: map[string]any{
						"business_name": "Acme Corp",
						"founded":       "1985",
					},
				},
			},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.Crawl(context.Background(), CrawlRequest{URL: "https://acme.com"})

	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Acme Corp", resp.Data[0].Extract["business_name"])
}
