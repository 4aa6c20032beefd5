// Package extract pulls fielded business data out of a single page using
// structured metadata first and page heuristics second. Model enrichment is
// layered on separately; nothing here calls the network.
package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/bizlens/bizlens/internal/model"
)

// socialDomains maps URL substrings to platform keys.
var socialDomains = map[string]string{
	"facebook.com":  "facebook",
	"instagram.com": "instagram",
	"linkedin.com":  "linkedin",
	"twitter.com":   "twitter",
	"x.com":         "twitter",
	"youtube.com":   "youtube",
	"tiktok.com":    "tiktok",
	"pinterest.com": "pinterest",
	"yelp.com":      "yelp",
}

// categoryVocabulary is the fixed keyword set matched against page text to
// derive coarse category tags. Ordered so output is deterministic.
var categoryVocabulary = []struct {
	name     string
	keywords []string
}{
	{"restaurant", []string{"restaurant", "menu", "dining", "cuisine", "catering"}},
	{"plumbing", []string{"plumbing", "plumber", "pipes", "drain"}},
	{"legal", []string{"law firm", "attorney", "lawyer", "legal services"}},
	{"medical", []string{"clinic", "medical", "physician", "dental", "healthcare"}},
	{"retail", []string{"shop", "store", "retail", "boutique"}},
	{"software", []string{"software", "saas", "platform", "app development"}},
	{"construction", []string{"construction", "contractor", "remodeling", "renovation"}},
	{"salon", []string{"salon", "barber", "spa", "stylist"}},
	{"automotive", []string{"auto repair", "car dealership", "mechanic", "tires"}},
	{"finance", []string{"accounting", "bookkeeping", "financial", "tax preparation"}},
	{"real_estate", []string{"real estate", "realtor", "property management", "homes for sale"}},
	{"fitness", []string{"gym", "fitness", "yoga", "personal training"}},
}

const (
	minServiceLen = 5
	maxServiceLen = 100
	maxServices   = 10
)

// Page extracts business fields from one crawled page: JSON-LD blocks take
// priority, heuristics fill whatever is still empty. The page's URL may
// contribute a last-resort location signal that never overrides one found
// in the content.
func Page(page model.CrawledPage) model.PageExtraction {
	px := model.PageExtraction{URL: page.URL}

	if page.HTML != "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
		if err != nil {
			zap.L().Debug("extract: html parse failed, falling back to markdown heuristics",
				zap.String("url", page.URL),
				zap.Error(err),
			)
		} else {
			applyJSONLD(doc, &px)
			applyHeuristics(doc, page, &px)
		}
	}

	if px.Name == nil && page.Title != "" {
		px.Name = model.Ptr(cleanTitle(page.Title))
	}

	text := page.Markdown
	if text == "" && page.HTML != "" {
		text = page.HTML
	}
	if len(px.Categories) == 0 {
		px.Categories = matchCategories(text)
	}

	if px.Location == nil {
		px.Location = LocationFromURL(page.URL)
	}

	return px
}

// applyHeuristics fills fields JSON-LD left empty from the page structure.
func applyHeuristics(doc *goquery.Document, page model.CrawledPage, px *model.PageExtraction) {
	base, _ := url.Parse(page.URL)

	if px.Name == nil {
		if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
			px.Name = model.Ptr(h1)
		}
	}

	if px.Description == nil {
		px.Description = findDescription(doc)
	}

	if px.Contact.Phone == nil || px.Contact.Email == nil {
		applyContactLinks(doc, px)
	}

	if len(px.Social) == 0 {
		px.Social = findSocialLinks(doc)
	}

	if px.ImageURL == nil {
		px.ImageURL = findImage(doc, base)
	}

	if len(px.Services) == 0 {
		px.Services = findServices(doc)
	}
}

// findDescription prefers meta description, then og:description, then the
// first substantial paragraph.
func findDescription(doc *goquery.Document) *string {
	if v := strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", "")); v != "" {
		return model.Ptr(v)
	}
	if v := strings.TrimSpace(doc.Find(`meta[property="og:description"]`).AttrOr("content", "")); v != "" {
		return model.Ptr(v)
	}

	var found *string
	doc.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if len(text) >= 50 {
			found = model.Ptr(text)
			return false
		}
		return true
	})
	return found
}

// applyContactLinks reads tel:/mailto: anchors.
func applyContactLinks(doc *goquery.Document, px *model.PageExtraction) {
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href := sel.AttrOr("href", "")
		switch {
		case px.Contact.Phone == nil && strings.HasPrefix(href, "tel:"):
			if v := strings.TrimSpace(strings.TrimPrefix(href, "tel:")); v != "" {
				px.Contact.Phone = model.Ptr(v)
			}
		case px.Contact.Email == nil && strings.HasPrefix(href, "mailto:"):
			v := strings.TrimPrefix(href, "mailto:")
			if i := strings.IndexByte(v, '?'); i >= 0 {
				v = v[:i]
			}
			if v = strings.TrimSpace(v); v != "" {
				px.Contact.Email = model.Ptr(v)
			}
		}
		return px.Contact.Phone == nil || px.Contact.Email == nil
	})
}

// findSocialLinks collects the first link per known social platform.
func findSocialLinks(doc *goquery.Document) model.SocialLinks {
	links := model.SocialLinks{}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := sel.AttrOr("href", "")
		lower := strings.ToLower(href)
		for domain, platform := range socialDomains {
			if strings.Contains(lower, domain) {
				if _, ok := links[platform]; !ok {
					links[platform] = href
				}
				return
			}
		}
	})
	if len(links) == 0 {
		return nil
	}
	return links
}

// findImage prefers og:image, resolved against the page base URL, then the
// first img tag.
func findImage(doc *goquery.Document, base *url.URL) *string {
	candidate := doc.Find(`meta[property="og:image"]`).AttrOr("content", "")
	if candidate == "" {
		candidate = doc.Find("img[src]").First().AttrOr("src", "")
	}
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return nil
	}

	if base != nil {
		if u, err := url.Parse(candidate); err == nil {
			candidate = base.ResolveReference(u).String()
		}
	}
	return model.Ptr(candidate)
}

// findServices pulls short list-item text as service names.
func findServices(doc *goquery.Document) []string {
	var services []string
	seen := map[string]bool{}

	doc.Find("li").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if len(text) < minServiceLen || len(text) > maxServiceLen {
			return true
		}
		// Multi-line items are layout containers, not service names.
		if strings.ContainsAny(text, "\n\t") {
			return true
		}
		if !seen[text] {
			seen[text] = true
			services = append(services, text)
		}
		return len(services) < maxServices
	})

	return services
}

// matchCategories scans text for the fixed category vocabulary.
func matchCategories(text string) []string {
	lower := strings.ToLower(text)
	var cats []string
	for _, entry := range categoryVocabulary {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				cats = append(cats, entry.name)
				break
			}
		}
	}
	return cats
}

// cleanTitle strips common "Name | tagline" suffixes from a page title.
func cleanTitle(title string) string {
	for _, sep := range []string{" | ", " — ", " - ", " :: "} {
		if i := strings.Index(title, sep); i > 0 {
			return strings.TrimSpace(title[:i])
		}
	}
	return strings.TrimSpace(title)
}
