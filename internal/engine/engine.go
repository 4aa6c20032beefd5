// Package engine drives one crawl end to end: cache check, strategy chain,
// per-page extraction, model enrichment, aggregation, caching.
package engine

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bizlens/bizlens/internal/aggregate"
	"github.com/bizlens/bizlens/internal/extract"
	"github.com/bizlens/bizlens/internal/model"
	"github.com/bizlens/bizlens/internal/progress"
	"github.com/bizlens/bizlens/internal/retrieve"
)

// enrichConcurrency bounds parallel model calls within one crawl.
const enrichConcurrency = 3

// Retriever produces raw pages for a request. *retrieve.Chain satisfies it.
type Retriever interface {
	Fetch(ctx context.Context, req retrieve.Request) (*retrieve.Result, error)
}

// Enricher layers model-derived fields onto one page's extraction.
type Enricher interface {
	Enrich(ctx context.Context, page model.CrawledPage, px model.PageExtraction) (model.PageExtraction, error)
}

// Engine is constructed once per process and shared across crawls. The
// cache and the retriever's rate limiter are the only cross-crawl state.
type Engine struct {
	retriever Retriever
	enricher  Enricher // nil disables enrichment
	reporter  progress.Reporter
	cache     *ResultCache
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithEnricher enables the model enrichment pass.
func WithEnricher(e Enricher) Option {
	return func(eng *Engine) { eng.enricher = e }
}

// WithReporter sets the job-progress collaborator.
func WithReporter(r progress.Reporter) Option {
	return func(eng *Engine) { eng.reporter = r }
}

// WithCache replaces the default result cache.
func WithCache(c *ResultCache) Option {
	return func(eng *Engine) { eng.cache = c }
}

// WithNow sets the engine clock. Test hook.
func WithNow(fn func() time.Time) Option {
	return func(eng *Engine) { eng.now = fn }
}

// New creates an Engine around a retriever.
func New(retriever Retriever, opts ...Option) *Engine {
	eng := &Engine{
		retriever: retriever,
		reporter:  progress.NopReporter{},
		cache:     NewResultCache(DefaultCacheSize, DefaultCacheTTL),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// Cache exposes the result cache for stats endpoints.
func (e *Engine) Cache() *ResultCache { return e.cache }

// Crawl runs one crawl for rawURL. jobID, when non-empty, identifies the
// external job-tracking row that receives progress updates. The returned
// result always has Success set; failures are reported in-band, never as an
// error past this boundary.
func (e *Engine) Crawl(ctx context.Context, rawURL, jobID string) *model.CrawlResult {
	crawlID := uuid.NewString()
	log := zap.L().With(
		zap.String("crawl_id", crawlID),
		zap.String("url", rawURL),
		zap.String("job_id", jobID),
	)

	if err := validateURL(rawURL); err != nil {
		log.Warn("engine: rejected crawl request", zap.Error(err))
		return e.failed(rawURL, err.Error())
	}

	if cached := e.cache.Get(rawURL); cached != nil {
		log.Info("engine: cache hit")
		e.report(ctx, jobID, 100, "served from cache", "")
		return cached
	}

	e.report(ctx, jobID, 10, "starting crawl", "")

	result, err := e.retriever.Fetch(ctx, retrieve.Request{
		URL:   rawURL,
		JobID: jobID,
		OnProgress: func(percent float64, note, externalHandle string) {
			e.report(ctx, jobID, percent, note, externalHandle)
		},
	})
	if err != nil {
		log.Warn("engine: all retrieval strategies failed", zap.Error(err))
		e.report(ctx, jobID, 100, "crawl failed", "")
		return e.failed(rawURL, "failed to retrieve meaningful content")
	}

	extractions := e.extractPages(ctx, log, result.Pages)
	profile := aggregate.Merge(extractions, result.Source)

	out := &model.CrawlResult{
		Success:   true,
		URL:       rawURL,
		Profile:   profile,
		Source:    result.Source,
		Pages:     len(result.Pages),
		CrawledAt: e.now().UTC(),
	}
	e.cache.Put(rawURL, out)
	e.report(ctx, jobID, 100, "crawl completed", "")
	log.Info("engine: crawl completed",
		zap.String("source", result.Source),
		zap.Int("pages", out.Pages),
	)
	return out
}

// extractPages runs heuristic extraction per page, merges in any managed
// pre-extracted fields, then layers model enrichment with bounded
// concurrency. Enrichment failures keep the heuristic extraction.
func (e *Engine) extractPages(ctx context.Context, log *zap.Logger, pages []retrieve.Page) []model.PageExtraction {
	extractions := make([]model.PageExtraction, len(pages))
	for i, page := range pages {
		px := extract.Page(page.CrawledPage)
		if len(page.Extract) > 0 {
			px = mergeExtractions(extract.FromManaged(page.URL, page.Extract), px)
		}
		extractions[i] = px
	}

	if e.enricher == nil {
		return extractions
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i := range pages {
		g.Go(func() error {
			enriched, err := e.enricher.Enrich(gctx, pages[i].CrawledPage, extractions[i])
			if err != nil {
				log.Debug("engine: enrichment skipped for page",
					zap.String("page_url", pages[i].URL),
					zap.Error(err),
				)
				return nil // enrichment never fails a crawl
			}
			extractions[i] = enriched
			return nil
		})
	}
	_ = g.Wait() // goroutines always return nil
	return extractions
}

// mergeExtractions overlays src's gaps with fallback's values. src fields
// win when present; lists and link maps union with src entries first.
func mergeExtractions(src, fallback model.PageExtraction) model.PageExtraction {
	fillStr := func(dst **string, v *string) {
		if *dst == nil {
			*dst = v
		}
	}
	fillStr(&src.Name, fallback.Name)
	fillStr(&src.Description, fallback.Description)
	fillStr(&src.Industry, fallback.Industry)
	fillStr(&src.Founded, fallback.Founded)
	fillStr(&src.EmployeeCount, fallback.EmployeeCount)
	fillStr(&src.ImageURL, fallback.ImageURL)

	if src.Contact.Completeness() < fallback.Contact.Completeness() {
		src.Contact = fallback.Contact
	}
	if src.Location.Completeness() < fallback.Location.Completeness() {
		src.Location = fallback.Location
	}

	src.Services = unionStrings(src.Services, fallback.Services)
	src.Products = unionStrings(src.Products, fallback.Products)
	src.Categories = unionStrings(src.Categories, fallback.Categories)
	src.Certifications = unionStrings(src.Certifications, fallback.Certifications)

	for platform, link := range fallback.Social {
		if src.Social == nil {
			src.Social = model.SocialLinks{}
		}
		if _, ok := src.Social[platform]; !ok {
			src.Social[platform] = link
		}
	}
	if src.Enrichment == nil {
		src.Enrichment = fallback.Enrichment
	}
	return src
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a))
	for _, s := range a {
		seen[s] = struct{}{}
	}
	for _, s := range b {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		a = append(a, s)
	}
	return a
}

// report forwards a progress update, logging and swallowing any reporter
// error so it can never abort a crawl.
func (e *Engine) report(ctx context.Context, jobID string, percent float64, note, externalHandle string) {
	if jobID == "" {
		return
	}
	if err := e.reporter.Update(ctx, jobID, progress.Clamp(percent), note, externalHandle); err != nil {
		zap.L().Warn("engine: progress update failed",
			zap.String("job_id", jobID),
			zap.Error(err),
		)
	}
}

// failed builds a terminal failure result. Failures are never cached so a
// fresh request retries from scratch.
func (e *Engine) failed(rawURL, msg string) *model.CrawlResult {
	return &model.CrawlResult{
		Success:   false,
		URL:       rawURL,
		Error:     msg,
		CrawledAt: e.now().UTC(),
	}
}

// validateURL enforces absolute http/https URLs before any network work.
func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return eris.Errorf("engine: invalid URL %q: must be absolute http or https", rawURL)
	}
	return nil
}
