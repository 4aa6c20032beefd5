package enrich

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/bizlens/bizlens/internal/model"
)

var (
	// employeeCountRe accepts a bare number, a range, or an open-ended
	// count like "100+". Anything else ("abc", "lots") is dropped.
	employeeCountRe = regexp.MustCompile(`^\d{1,7}(\s*[-–]\s*\d{1,7})?\+?$`)

	// foundedRe accepts a year or a full date. Prose like "circa 1990"
	// is dropped rather than repaired.
	foundedRe = regexp.MustCompile(`^\d{4}(-\d{2}-\d{2})?$`)
)

// ExtractJSON pulls a JSON object out of model output. Fenced code blocks
// are unwrapped first; failing that, the first balanced top-level object is
// parsed. Returns false when no object can be decoded.
func ExtractJSON(text string) (map[string]any, bool) {
	text = strings.TrimSpace(text)

	if stripped, ok := stripFences(text); ok {
		if m := decodeObject(stripped); m != nil {
			return m, true
		}
	}
	if m := decodeObject(text); m != nil {
		return m, true
	}
	if candidate := firstBalancedObject(text); candidate != "" {
		if m := decodeObject(candidate); m != nil {
			return m, true
		}
	}
	return nil, false
}

func decodeObject(s string) map[string]any {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}

func stripFences(text string) (string, bool) {
	if !strings.HasPrefix(text, "```") {
		return "", false
	}
	body := strings.TrimPrefix(text, "```")
	if idx := strings.Index(body, "\n"); idx >= 0 {
		body = body[idx+1:] // drop the language tag line
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body), true
}

// firstBalancedObject scans for the first '{' and returns the substring up
// to its matching '}'. String literals and escapes are honored so braces
// inside values do not throw off the depth count.
func firstBalancedObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}
	return ""
}

// applyPayload merges a validated model payload into the extraction.
// Heuristic fields win: the model only fills gaps, and malformed values
// are dropped rather than carried through.
func applyPayload(px model.PageExtraction, payload map[string]any) model.PageExtraction {
	fillString(&px.Industry, payload, "industry", nil)
	fillString(&px.Founded, payload, "founded", foundedRe)
	fillString(&px.EmployeeCount, payload, "employee_count", employeeCountRe)

	px.Services = appendUnique(px.Services, stringList(payload, "services"))
	px.Products = appendUnique(px.Products, stringList(payload, "products"))
	px.Certifications = appendUnique(px.Certifications, stringList(payload, "certifications"))

	loc := px.Location
	if loc == nil {
		loc = &model.Location{}
	}
	fillString(&loc.City, payload, "city", nil)
	fillString(&loc.State, payload, "state", nil)
	fillString(&loc.Country, payload, "country", nil)
	fillString(&loc.PostalCode, payload, "postal_code", nil)
	if loc.Completeness() > 0 {
		px.Location = loc
	}

	if raw, ok := payload["enrichment"].(map[string]any); ok {
		px.Enrichment = buildEnrichment(raw)
	}
	return px
}

func buildEnrichment(raw map[string]any) *model.Enrichment {
	e := &model.Enrichment{
		Entities:        stringList(raw, "extracted_entities"),
		Offerings:       stringList(raw, "service_offerings"),
		Differentiators: stringList(raw, "differentiators"),
		Confidence:      0.5,
	}
	if s, ok := cleanString(raw["business_category"]); ok {
		e.Category = &s
	}
	if s, ok := cleanString(raw["target_audience"]); ok {
		e.TargetAudience = &s
	}
	if f, ok := raw["confidence"].(float64); ok && f >= 0 && f <= 1 {
		e.Confidence = f
	}
	return e
}

// fillString sets dst from payload[key] when dst is still nil, the value is
// a non-blank string, and it matches the pattern if one is given.
func fillString(dst **string, payload map[string]any, key string, pattern *regexp.Regexp) {
	if *dst != nil {
		return
	}
	s, ok := cleanString(payload[key])
	if !ok {
		return
	}
	if pattern != nil && !pattern.MatchString(s) {
		return
	}
	*dst = &s
}

func cleanString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return "", false
	}
	return s, true
}

func stringList(payload map[string]any, key string) []string {
	raw, ok := payload[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, v := range raw {
		if s, ok := cleanString(v); ok {
			out = append(out, s)
		}
	}
	return out
}

func appendUnique(existing, extra []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		seen[strings.ToLower(s)] = struct{}{}
	}
	for _, s := range extra {
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		existing = append(existing, s)
	}
	return existing
}
