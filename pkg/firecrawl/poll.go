package firecrawl

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const (
	defaultPollInterval = 3 * time.Second
	defaultMaxAttempts  = 20
)

// Sentinel errors for the two distinct poll outcomes: a job the API itself
// reported as failed, versus a job that never finished within the attempt
// budget. Callers distinguish them with errors.Is.
var (
	ErrJobFailed   = eris.New("firecrawl: job failed")
	ErrPollTimeout = eris.New("firecrawl: poll attempts exhausted")
)

// ProgressFunc receives partial completion counts on each poll. total may be
// zero while the crawl is still discovering pages.
type ProgressFunc func(completed, total int)

// PollOption configures polling behavior.
type PollOption func(*pollConfig)

type pollConfig struct {
	interval    time.Duration
	maxAttempts int
	onProgress  ProgressFunc
}

func defaultPollConfig() pollConfig {
	return pollConfig{
		interval:    defaultPollInterval,
		maxAttempts: defaultMaxAttempts,
	}
}

// WithPollInterval overrides the fixed poll interval.
func WithPollInterval(d time.Duration) PollOption {
	return func(c *pollConfig) {
		c.interval = d
	}
}

// WithMaxAttempts overrides the poll attempt budget.
func WithMaxAttempts(n int) PollOption {
	return func(c *pollConfig) {
		c.maxAttempts = n
	}
}

// WithProgress registers a callback invoked with partial completion counts.
func WithProgress(fn ProgressFunc) PollOption {
	return func(c *pollConfig) {
		c.onProgress = fn
	}
}

// PollCrawl polls GetCrawlStatus on a fixed interval until the crawl
// completes, the API reports failure, or the attempt budget runs out.
// A transient status-call error consumes an attempt but does not abort the
// loop, so a flaky network mid-crawl still gets the remaining budget.
func PollCrawl(ctx context.Context, client Client, id string, opts ...PollOption) (*CrawlStatusResponse, error) {
	cfg := defaultPollConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var lastErr error
	for attempt := 0; attempt < cfg.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, eris.Wrap(ctx.Err(), fmt.Sprintf("firecrawl: poll crawl %s", id))
			case <-time.After(cfg.interval):
			}
		}

		status, err := client.GetCrawlStatus(ctx, id)
		if err != nil {
			zap.L().Debug("firecrawl: transient poll error",
				zap.String("job_id", id),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			lastErr = err
			continue
		}

		switch status.Status {
		case "completed":
			return status, nil
		case "failed", "cancelled":
			return nil, eris.Wrap(ErrJobFailed, fmt.Sprintf("crawl %s reported %s", id, status.Status))
		}

		if cfg.onProgress != nil {
			cfg.onProgress(status.Completed, status.Total)
		}
	}

	if lastErr != nil {
		return nil, eris.Wrap(ErrPollTimeout, fmt.Sprintf("crawl %s: last error: %v", id, lastErr))
	}
	return nil, eris.Wrap(ErrPollTimeout, fmt.Sprintf("crawl %s still incomplete after %d attempts", id, cfg.maxAttempts))
}
