package retrieve

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Chain tries retrieval strategies in priority order, returning the first
// usable result. Individual strategy failures are logged and swallowed so
// the chain can continue; only full exhaustion surfaces an error.
type Chain struct {
	strategies []Strategy
}

// NewChain creates a Chain. Strategies are tried in the order given.
func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// Fetch runs the chain for one request. Pages failing the content-quality
// gate are dropped; a strategy whose every page is unusable counts as a
// failure and the next strategy is tried.
func (c *Chain) Fetch(ctx context.Context, req Request) (*Result, error) {
	for _, s := range c.strategies {
		if !s.Available() {
			continue
		}

		result, err := s.Fetch(ctx, req)
		if err != nil {
			zap.L().Warn("retrieve: strategy failed, trying next",
				zap.String("strategy", s.Name()),
				zap.String("url", req.URL),
				zap.Error(err),
			)
			continue
		}
		if result == nil {
			continue
		}

		usable := result.Pages[:0:0]
		for _, p := range result.Pages {
			if IsUsable(p.Markdown) || IsUsable(p.HTML) {
				usable = append(usable, p)
			}
		}
		if len(usable) == 0 {
			zap.L().Warn("retrieve: strategy returned no usable content",
				zap.String("strategy", s.Name()),
				zap.String("url", req.URL),
				zap.Int("pages", len(result.Pages)),
			)
			continue
		}

		zap.L().Info("retrieve: strategy succeeded",
			zap.String("strategy", s.Name()),
			zap.String("url", req.URL),
			zap.Int("pages", len(usable)),
		)
		result.Pages = usable
		return result, nil
	}

	return nil, eris.Errorf("retrieve: failed to retrieve meaningful content for %s", req.URL)
}
