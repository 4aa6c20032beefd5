// Package enrich layers model-derived fields on top of heuristic
// extraction. Enrichment is strictly best-effort: any provider failure or
// unparsable output leaves the page's heuristic fields untouched.
package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bizlens/bizlens/internal/extract"
	"github.com/bizlens/bizlens/internal/model"
	"github.com/bizlens/bizlens/pkg/anthropic"
)

const (
	// maxPromptChars bounds how much page text goes into one prompt.
	maxPromptChars = 4000

	defaultTimeout = 30 * time.Second
)

const systemPrompt = `You extract business facts from website text.
Return ONLY a JSON object. Include a field only when the page explicitly
states it; use null for anything uncertain. Never guess.`

// Enricher invokes the model provider for one page at a time.
type Enricher struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
	now     func() time.Time
}

// New creates an Enricher. model is the provider model identifier stamped
// onto every enrichment it produces.
func New(client anthropic.Client, model string, timeout time.Duration) *Enricher {
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Enricher{
		client:  client,
		model:   model,
		timeout: timeout,
		now:     time.Now,
	}
}

// WithNow sets a fixed clock for testing.
func (e *Enricher) WithNow(fn func() time.Time) *Enricher {
	e.now = fn
	return e
}

// Enrich builds a bounded prompt from the page's cleaned text plus the
// fields already extracted, invokes the model, and merges validated output
// into a copy of the extraction. On any failure the original extraction is
// returned unchanged along with the error; callers log and move on.
func (e *Enricher) Enrich(ctx context.Context, page model.CrawledPage, px model.PageExtraction) (model.PageExtraction, error) {
	if e.client == nil {
		return px, eris.New("enrich: no model client configured")
	}

	text := extract.CleanText(page)
	if text == "" {
		return px, eris.Errorf("enrich: no text to analyze for %s", page.URL)
	}
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: 1024,
		System:    systemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildPrompt(text, px)},
		},
	})
	if err != nil {
		return px, eris.Wrap(err, "enrich: model invocation")
	}
	resp.Usage.LogCost(e.model, "enrichment")

	payload, ok := ExtractJSON(resp.Text())
	if !ok {
		zap.L().Debug("enrich: no parsable JSON in model output",
			zap.String("url", page.URL),
		)
		return px, eris.Errorf("enrich: unparsable model output for %s", page.URL)
	}

	enriched := applyPayload(px, payload)
	if enriched.Enrichment != nil {
		enriched.Enrichment.Model = e.model
		enriched.Enrichment.ProcessedAt = e.now().UTC()
	}
	return enriched, nil
}

// buildPrompt assembles the single-turn user message: known fields first so
// the model fills gaps instead of repeating them, then the page text.
func buildPrompt(text string, px model.PageExtraction) string {
	var b strings.Builder

	b.WriteString("Known fields already extracted from this page:\n")
	writeKnown(&b, "name", px.Name)
	writeKnown(&b, "description", px.Description)
	writeKnown(&b, "phone", px.Contact.Phone)
	writeKnown(&b, "email", px.Contact.Email)
	writeKnown(&b, "industry", px.Industry)
	if len(px.Services) > 0 {
		fmt.Fprintf(&b, "- services: %s\n", strings.Join(px.Services, ", "))
	}

	b.WriteString(`
Extract the following from the page text, as JSON with exactly these keys:
{
  "industry": string or null,
  "founded": string or null (YYYY or YYYY-MM-DD),
  "employee_count": string or null (number, range like "10-50", or "100+"),
  "products": [string],
  "services": [string],
  "certifications": [string],
  "city": string or null,
  "state": string or null,
  "country": string or null,
  "postal_code": string or null,
  "enrichment": {
    "extracted_entities": [string],
    "business_category": string or null,
    "service_offerings": [string],
    "target_audience": string or null,
    "differentiators": [string],
    "confidence": number between 0 and 1
  }
}

Page text:
`)
	b.WriteString(text)
	return b.String()
}

func writeKnown(b *strings.Builder, label string, v *string) {
	if v != nil {
		fmt.Fprintf(b, "- %s: %s\n", label, *v)
	}
}
