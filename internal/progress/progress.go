// Package progress reports crawl progress to an external job tracker.
// Reporting is strictly fire-and-forget: a reporter error is logged by the
// caller and never aborts a crawl.
package progress

import (
	"context"

	"go.uber.org/zap"
)

// Reporter receives progress updates for a tracked crawl job. percent is
// 0-100; note and externalHandle are optional annotations (externalHandle
// carries the managed crawl API's job id when one exists).
type Reporter interface {
	Update(ctx context.Context, jobID string, percent float64, note, externalHandle string) error
}

// NopReporter discards all updates. Used when the caller supplied no job id.
type NopReporter struct{}

func (NopReporter) Update(context.Context, string, float64, string, string) error { return nil }

// LogReporter writes updates to the process log only.
type LogReporter struct{}

func (LogReporter) Update(_ context.Context, jobID string, percent float64, note, externalHandle string) error {
	zap.L().Info("crawl progress",
		zap.String("job_id", jobID),
		zap.Float64("percent", percent),
		zap.String("note", note),
		zap.String("external_handle", externalHandle),
	)
	return nil
}

// Clamp bounds a percentage to [0, 100].
func Clamp(percent float64) float64 {
	switch {
	case percent < 0:
		return 0
	case percent > 100:
		return 100
	}
	return percent
}
