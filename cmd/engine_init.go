package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/bizlens/bizlens/internal/engine"
	"github.com/bizlens/bizlens/internal/enrich"
	"github.com/bizlens/bizlens/internal/progress"
	"github.com/bizlens/bizlens/internal/retrieve"
	"github.com/bizlens/bizlens/pkg/anthropic"
	"github.com/bizlens/bizlens/pkg/firecrawl"
)

// runtimeEnv bundles the engine with the resources it owns.
type runtimeEnv struct {
	Engine  *engine.Engine
	closers []func()
}

// Close releases owned resources in reverse order.
func (e *runtimeEnv) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// initEngine wires the full crawl stack from config: the strategy chain in
// priority order, the enrichment pass when credentials exist, and the
// progress reporter.
func initEngine(ctx context.Context) (*runtimeEnv, error) {
	env := &runtimeEnv{}

	matcher := retrieve.NewPathMatcher(cfg.Crawl.IncludePaths, cfg.Crawl.ExcludePaths)
	limiter := retrieve.NewIntervalLimiter(cfg.Crawl.RateInterval())

	fcEnabled := cfg.Firecrawl.Key != "" && !cfg.Crawl.ForceBrowser
	fcClient := firecrawl.NewClient(cfg.Firecrawl.Key, firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL))
	fcStrategy := retrieve.NewFirecrawlStrategy(
		fcClient, limiter, matcher,
		cfg.Firecrawl.MaxDepth, cfg.Firecrawl.MaxPages,
		fcEnabled,
	).WithPollOptions(
		firecrawl.WithPollInterval(cfg.Crawl.PollInterval()),
		firecrawl.WithMaxAttempts(cfg.Crawl.PollMaxAttempts),
	)
	if !fcEnabled {
		zap.L().Info("managed crawl API disabled",
			zap.Bool("has_key", cfg.Firecrawl.Key != ""),
			zap.Bool("force_browser", cfg.Crawl.ForceBrowser),
		)
	}

	browserEnabled := cfg.Crawl.ForceBrowser || !cfg.IsProd()
	chain := retrieve.NewChain(
		fcStrategy,
		retrieve.NewBrowserStrategy(cfg.Crawl.BrowserURL, 0, browserEnabled),
		retrieve.NewDirectStrategy(cfg.Crawl.DirectTimeout()),
		retrieve.NewFixtureStrategy(cfg.Crawl.FixturePath, cfg.Crawl.UseFixtures || cfg.IsTest()),
	)

	opts := []engine.Option{
		engine.WithCache(engine.NewResultCache(cfg.Cache.MaxEntries, cfg.Cache.TTL())),
	}

	if cfg.Anthropic.Key != "" {
		opts = append(opts, engine.WithEnricher(enrich.New(
			anthropic.NewClient(cfg.Anthropic.Key),
			cfg.Anthropic.Model,
			cfg.Anthropic.Timeout(),
		)))
	} else {
		zap.L().Info("enrichment disabled: no model provider key")
	}

	if cfg.Progress.DatabaseURL != "" {
		reporter, err := progress.NewPostgres(ctx, cfg.Progress.DatabaseURL)
		if err != nil {
			return nil, err
		}
		env.closers = append(env.closers, reporter.Close)
		opts = append(opts, engine.WithReporter(reporter))
	} else {
		opts = append(opts, engine.WithReporter(progress.LogReporter{}))
	}

	env.Engine = engine.New(chain, opts...)
	return env, nil
}
