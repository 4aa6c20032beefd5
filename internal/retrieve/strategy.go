// Package retrieve implements the retrieval strategy chain: an ordered list
// of page-fetching mechanisms tried until one yields usable content.
package retrieve

import (
	"context"

	"github.com/bizlens/bizlens/internal/model"
)

// Page is a fetched page plus any fields the retrieval path extracted
// inline (the managed API returns schema-driven extraction with each page).
// Extract values are untrusted raw JSON until validated downstream.
type Page struct {
	model.CrawledPage
	Extract map[string]any
}

// Request describes one retrieval attempt for a site.
type Request struct {
	URL   string
	JobID string

	// OnProgress, when set, receives caller-visible progress updates from
	// long-running strategies. externalHandle carries the managed API's job
	// id when one exists.
	OnProgress func(percent float64, note, externalHandle string)
}

// Result holds the pages produced by whichever strategy succeeded.
type Result struct {
	Pages  []Page
	Source string
}

// Strategy fetches one site's pages. Available reports whether the strategy
// may run in the current environment; unavailable strategies are skipped
// without counting as failures.
type Strategy interface {
	Name() string
	Available() bool
	Fetch(ctx context.Context, req Request) (*Result, error)
}
