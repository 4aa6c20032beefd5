package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bizlens/bizlens/internal/model"
)

// organizationTypes are the schema.org @type values we treat as a business
// entity. LocalBusiness subtypes (Restaurant, Dentist, ...) are matched by
// suffix below.
var organizationTypes = map[string]bool{
	"Organization":  true,
	"LocalBusiness": true,
	"Corporation":   true,
	"Store":         true,
}

// applyJSONLD parses embedded structured-metadata blocks and maps canonical
// fields onto the extraction. Malformed blocks are skipped silently; sites
// routinely ship broken JSON-LD.
func applyJSONLD(doc *goquery.Document, px *model.PageExtraction) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var payload any
		if err := json.Unmarshal([]byte(sel.Text()), &payload); err != nil {
			return
		}
		walkJSONLD(payload, px)
	})
}

// walkJSONLD descends arrays and @graph containers looking for a business
// node.
func walkJSONLD(node any, px *model.PageExtraction) {
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			walkJSONLD(item, px)
		}
	case map[string]any:
		if graph, ok := v["@graph"]; ok {
			walkJSONLD(graph, px)
		}
		if isBusinessNode(v) {
			mapBusinessNode(v, px)
		}
	}
}

func isBusinessNode(node map[string]any) bool {
	switch t := node["@type"].(type) {
	case string:
		return matchesBusinessType(t)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && matchesBusinessType(s) {
				return true
			}
		}
	}
	return false
}

func matchesBusinessType(t string) bool {
	if organizationTypes[t] {
		return true
	}
	return strings.HasSuffix(t, "Business")
}

// mapBusinessNode fills extraction fields from a schema.org business node.
// Existing values are kept: the first block to supply a field wins.
func mapBusinessNode(node map[string]any, px *model.PageExtraction) {
	setString(&px.Name, node, "name")
	setString(&px.Description, node, "description")
	setString(&px.Contact.Phone, node, "telephone")
	setString(&px.Contact.Email, node, "email")
	setString(&px.ImageURL, node, "image")
	setString(&px.Founded, node, "foundingDate")

	if px.EmployeeCount == nil {
		switch emp := node["numberOfEmployees"].(type) {
		case string:
			px.EmployeeCount = model.Ptr(emp)
		case float64:
			px.EmployeeCount = model.Ptr(formatFloat(emp))
		case map[string]any:
			setString(&px.EmployeeCount, emp, "value")
		}
	}

	if addr, ok := node["address"].(map[string]any); ok {
		loc := px.Location
		if loc == nil {
			loc = &model.Location{}
		}
		setString(&loc.City, addr, "addressLocality")
		setString(&loc.State, addr, "addressRegion")
		setString(&loc.PostalCode, addr, "postalCode")
		switch country := addr["addressCountry"].(type) {
		case string:
			if loc.Country == nil && country != "" {
				loc.Country = model.Ptr(country)
			}
		case map[string]any:
			setString(&loc.Country, country, "name")
		}
		if px.Contact.Address == nil {
			if street, ok := addr["streetAddress"].(string); ok && street != "" {
				px.Contact.Address = model.Ptr(street)
			}
		}
		if loc.Completeness() > 0 {
			px.Location = loc
		}
	}

	if geo, ok := node["geo"].(map[string]any); ok {
		loc := px.Location
		if loc == nil {
			loc = &model.Location{}
		}
		if loc.Latitude == nil {
			if lat, ok := geo["latitude"].(float64); ok {
				loc.Latitude = model.Ptr(lat)
			}
		}
		if loc.Longitude == nil {
			if lng, ok := geo["longitude"].(float64); ok {
				loc.Longitude = model.Ptr(lng)
			}
		}
		if loc.Completeness() > 0 {
			px.Location = loc
		}
	}

	if sameAs, ok := node["sameAs"].([]any); ok {
		links := px.Social
		if links == nil {
			links = model.SocialLinks{}
		}
		for _, item := range sameAs {
			href, ok := item.(string)
			if !ok {
				continue
			}
			lower := strings.ToLower(href)
			for domain, platform := range socialDomains {
				if strings.Contains(lower, domain) {
					if _, exists := links[platform]; !exists {
						links[platform] = href
					}
					break
				}
			}
		}
		if len(links) > 0 {
			px.Social = links
		}
	}
}

// setString fills dst from node[key] when dst is nil and the value is a
// non-empty string.
func setString(dst **string, node map[string]any, key string) {
	if *dst != nil {
		return
	}
	if v, ok := node[key].(string); ok {
		if v = strings.TrimSpace(v); v != "" {
			*dst = model.Ptr(v)
		}
	}
}

// formatFloat renders a JSON number the way it appeared on the wire
// (integral values without a trailing ".0").
func formatFloat(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}
