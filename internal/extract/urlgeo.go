package extract

import (
	"net/url"
	"strings"

	"github.com/bizlens/bizlens/internal/model"
)

// countryTLDs maps country-code TLDs to country names. Only a signal of
// last resort; page-derived location always wins.
var countryTLDs = map[string]string{
	"uk": "United Kingdom",
	"ca": "Canada",
	"au": "Australia",
	"de": "Germany",
	"fr": "France",
	"es": "Spain",
	"it": "Italy",
	"nl": "Netherlands",
	"jp": "Japan",
	"in": "India",
	"br": "Brazil",
	"mx": "Mexico",
	"nz": "New Zealand",
	"ie": "Ireland",
	"us": "US",
}

// usStateTokens maps state abbreviations and names appearing as hostname
// tokens to their canonical abbreviation.
var usStateTokens = map[string]string{
	"texas": "TX", "tx": "TX",
	"california": "CA",
	"florida":    "FL",
	"newyork":    "NY", "ny": "NY",
	"illinois": "IL",
	"ohio":     "OH",
	"georgia":  "GA",
	"arizona":  "AZ",
	"colorado": "CO",
	"oregon":   "OR",
	"nevada":   "NV",
}

// majorCityHosts maps well-known city tokens to city/state pairs.
var majorCityHosts = map[string][2]string{
	"nyc":          {"New York", "NY"},
	"newyork":      {"New York", "NY"},
	"losangeles":   {"Los Angeles", "CA"},
	"la":           {"Los Angeles", "CA"},
	"chicago":      {"Chicago", "IL"},
	"houston":      {"Houston", "TX"},
	"dallas":       {"Dallas", "TX"},
	"austin":       {"Austin", "TX"},
	"phoenix":      {"Phoenix", "AZ"},
	"miami":        {"Miami", "FL"},
	"atlanta":      {"Atlanta", "GA"},
	"seattle":      {"Seattle", "WA"},
	"denver":       {"Denver", "CO"},
	"boston":       {"Boston", "MA"},
	"sanfrancisco": {"San Francisco", "CA"},
	"sf":           {"San Francisco", "CA"},
	"portland":     {"Portland", "OR"},
	"vegas":        {"Las Vegas", "NV"},
	"lasvegas":     {"Las Vegas", "NV"},
}

// LocationFromURL infers a coarse location from the URL itself: the country
// TLD, then city/state tokens in the hostname. Returns nil when nothing
// matches.
func LocationFromURL(rawURL string) *model.Location {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return nil
	}
	host := strings.ToLower(u.Hostname())

	loc := &model.Location{}

	labels := strings.Split(host, ".")
	if len(labels) >= 2 {
		if country, ok := countryTLDs[labels[len(labels)-1]]; ok {
			loc.Country = model.Ptr(country)
		}
	}

	// Hostname tokens: split labels on hyphens too ("dallas-plumbing").
	var tokens []string
	for _, label := range labels {
		tokens = append(tokens, strings.Split(label, "-")...)
	}

	for _, tok := range tokens {
		if city, ok := majorCityHosts[tok]; ok {
			loc.City = model.Ptr(city[0])
			loc.State = model.Ptr(city[1])
			break
		}
	}
	if loc.State == nil {
		for _, tok := range tokens {
			if st, ok := usStateTokens[tok]; ok {
				loc.State = model.Ptr(st)
				break
			}
		}
	}

	if loc.Completeness() == 0 {
		return nil
	}
	return loc
}
