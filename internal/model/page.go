package model

// CrawledPage represents a single page fetched during a crawl, in whatever
// shape the retrieval strategy produced it (rendered HTML, markdown, or both).
type CrawledPage struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	Markdown   string `json:"markdown"`
	HTML       string `json:"html,omitempty"`
	StatusCode int    `json:"status_code"`
}

// HasContent reports whether the page carries any usable body text.
func (p CrawledPage) HasContent() bool {
	return p.Markdown != "" || p.HTML != ""
}
