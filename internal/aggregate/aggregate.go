// Package aggregate merges per-page extractions into one business profile.
// Pages are applied in crawl order; fields only become more complete, never
// regress to empty.
package aggregate

import (
	"fmt"
	"time"

	"github.com/bizlens/bizlens/internal/model"
)

const maxServices = 10

// trust maps a retrieval path to the confidence stamped onto a synthetic
// enrichment when no model output is available. The managed crawl path
// carries pre-extracted structured fields, so it ranks above the
// heuristic-only paths.
var trust = map[string]float64{
	"firecrawl": 0.8,
	"browser":   0.5,
	"direct":    0.5,
	"fixture":   0.3,
}

// State is the mutable accumulator for one crawl.
type State struct {
	profile model.BusinessProfile

	contactScore int
	haveLocation bool
	serviceSeen  map[string]struct{}
	productSeen  map[string]struct{}
	certSeen     map[string]struct{}
	categorySeen map[string]struct{}
}

// New returns an empty accumulator.
func New() *State {
	return &State{
		serviceSeen:  make(map[string]struct{}),
		productSeen:  make(map[string]struct{}),
		certSeen:     make(map[string]struct{}),
		categorySeen: make(map[string]struct{}),
	}
}

// Merge folds every page in crawl order and finalizes. source is the name
// of the retrieval strategy that produced the pages.
func Merge(pages []model.PageExtraction, source string) *model.BusinessProfile {
	s := New()
	for _, px := range pages {
		s.Apply(px)
	}
	return s.Finalize(source)
}

// Apply folds one page's extraction into the accumulator.
func (s *State) Apply(px model.PageExtraction) {
	p := &s.profile

	// First non-empty name wins; the main page is applied first.
	if p.Name == nil {
		p.Name = px.Name
	}

	// Longest description wins regardless of page order.
	if px.Description != nil {
		if p.Description == nil || len(*px.Description) > len(*p.Description) {
			p.Description = px.Description
		}
	}

	// The contact triple is winner-take-all by completeness so a phone
	// from one page never gets stitched to an address from another.
	// Ties keep the earlier page.
	if score := px.Contact.Completeness(); score > s.contactScore {
		p.Contact = px.Contact
		s.contactScore = score
	}

	s.mergeLocation(px.Location)

	for _, svc := range px.Services {
		if len(p.Services) >= maxServices {
			break
		}
		if _, dup := s.serviceSeen[svc]; dup {
			continue
		}
		s.serviceSeen[svc] = struct{}{}
		p.Services = append(p.Services, svc)
	}
	p.Products = appendSeen(p.Products, px.Products, s.productSeen)
	p.Certifications = appendSeen(p.Certifications, px.Certifications, s.certSeen)
	p.Categories = appendSeen(p.Categories, px.Categories, s.categorySeen)

	// Social links shallow-merge; the first value seen for a platform
	// sticks.
	for platform, url := range px.Social {
		if p.Social == nil {
			p.Social = model.SocialLinks{}
		}
		if _, taken := p.Social[platform]; !taken {
			p.Social[platform] = url
		}
	}

	// Business details merge independently of the contact/description
	// winners.
	if p.Industry == nil {
		p.Industry = px.Industry
	}
	if p.Founded == nil {
		p.Founded = px.Founded
	}
	if p.EmployeeCount == nil {
		p.EmployeeCount = px.EmployeeCount
	}
	if p.ImageURL == nil {
		p.ImageURL = px.ImageURL
	}

	// Keep the most confident model enrichment; earlier pages win ties.
	if px.Enrichment != nil {
		if p.Enrichment == nil || px.Enrichment.Confidence > p.Enrichment.Confidence {
			p.Enrichment = px.Enrichment
		}
	}
}

// mergeLocation establishes the location from the first page that supplies
// any sub-field, then lets later pages fill only sub-fields still empty.
func (s *State) mergeLocation(loc *model.Location) {
	if loc.Completeness() == 0 {
		return
	}
	if !s.haveLocation {
		cp := *loc
		s.profile.Location = &cp
		s.haveLocation = true
		return
	}
	dst := s.profile.Location
	if dst.City == nil {
		dst.City = loc.City
	}
	if dst.State == nil {
		dst.State = loc.State
	}
	if dst.Country == nil {
		dst.Country = loc.Country
	}
	if dst.PostalCode == nil {
		dst.PostalCode = loc.PostalCode
	}
	if dst.Latitude == nil {
		dst.Latitude = loc.Latitude
	}
	if dst.Longitude == nil {
		dst.Longitude = loc.Longitude
	}
}

// Finalize applies end-of-crawl defaults and returns the merged profile.
// The country default is deliberately deferred to here so a later page's
// real country can still fill the gap during merge.
func (s *State) Finalize(source string) *model.BusinessProfile {
	p := s.profile

	if p.Location != nil && p.Location.Country == nil {
		p.Location.Country = model.Ptr("US")
	}

	if p.Enrichment == nil {
		p.Enrichment = syntheticEnrichment(&p, source)
	}
	return &p
}

// syntheticEnrichment summarizes heuristic-only data when no model output
// survived, stamped with the retrieval path and its trust level.
func syntheticEnrichment(p *model.BusinessProfile, source string) *model.Enrichment {
	conf, ok := trust[source]
	if !ok {
		conf = 0.5
	}
	e := &model.Enrichment{
		Offerings:   append([]string(nil), p.Services...),
		Confidence:  conf,
		Model:       fmt.Sprintf("heuristic:%s", source),
		ProcessedAt: time.Now().UTC(),
	}
	if len(p.Categories) > 0 {
		e.Category = model.Ptr(p.Categories[0])
	}
	if p.Name != nil {
		e.Entities = []string{*p.Name}
	}
	return e
}

func appendSeen(dst, src []string, seen map[string]struct{}) []string {
	for _, s := range src {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}
