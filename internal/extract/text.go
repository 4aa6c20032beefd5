package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/bizlens/bizlens/internal/model"
)

// chromeSelectors are page regions stripped before building model prompts.
var chromeSelectors = []string{"script", "style", "noscript", "nav", "header", "footer", "aside", "form"}

// mainSelectors are tried in order to find the main content region.
var mainSelectors = []string{"main", "article", "#content", ".content", "#main"}

var (
	spaceRe   = regexp.MustCompile(`[ \t]+`)
	newlineRe = regexp.MustCompile(`\n{3,}`)
)

// CleanText produces the plain text handed to the enrichment model: chrome
// stripped, main region preferred, whitespace collapsed, diacritics folded
// to ASCII. Falls back to the page's markdown when no HTML is available.
func CleanText(page model.CrawledPage) string {
	var text string

	if page.HTML != "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
		if err == nil {
			doc.Find(strings.Join(chromeSelectors, ", ")).Remove()

			for _, sel := range mainSelectors {
				if region := doc.Find(sel).First(); region.Length() > 0 {
					text = region.Text()
					break
				}
			}
			if text == "" {
				text = doc.Find("body").Text()
			}
			if text == "" {
				text = doc.Text()
			}
		}
	}

	if strings.TrimSpace(text) == "" {
		text = page.Markdown
	}

	return normalizeText(text)
}

// normalizeText collapses whitespace and folds accented characters to their
// ASCII base form.
func normalizeText(text string) string {
	// NFKD decomposition, then drop combining marks: "café" -> "cafe".
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, text); err == nil {
		text = folded
	}

	text = spaceRe.ReplaceAllString(text, " ")
	text = newlineRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
