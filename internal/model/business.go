package model

import "time"

// Location holds address sub-fields for a business. All fields are optional;
// a nil pointer means the sub-field has not been found yet.
type Location struct {
	City       *string  `json:"city,omitempty"`
	State      *string  `json:"state,omitempty"`
	Country    *string  `json:"country,omitempty"`
	PostalCode *string  `json:"postal_code,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// Completeness counts populated sub-fields, used when deciding whether a
// later page's location should replace an earlier one.
func (l *Location) Completeness() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, p := range []*string{l.City, l.State, l.Country, l.PostalCode} {
		if p != nil {
			n++
		}
	}
	if l.Latitude != nil {
		n++
	}
	if l.Longitude != nil {
		n++
	}
	return n
}

// Contact is the phone/email/address triple. During aggregation the triple
// is kept together: the most complete page wins outright rather than
// stitching fields from different pages.
type Contact struct {
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
}

// Completeness counts non-nil members of the triple.
func (c Contact) Completeness() int {
	n := 0
	for _, p := range []*string{c.Phone, c.Email, c.Address} {
		if p != nil {
			n++
		}
	}
	return n
}

// SocialLinks maps a platform name (e.g. "facebook", "linkedin") to a
// profile URL.
type SocialLinks map[string]string

// Enrichment holds model-derived fields layered on top of heuristic
// extraction, plus provenance (which model produced it, when).
type Enrichment struct {
	Entities        []string  `json:"extracted_entities,omitempty"`
	Category        *string   `json:"business_category,omitempty"`
	Offerings       []string  `json:"service_offerings,omitempty"`
	TargetAudience  *string   `json:"target_audience,omitempty"`
	Differentiators []string  `json:"differentiators,omitempty"`
	Confidence      float64   `json:"confidence"`
	Model           string    `json:"model"`
	ProcessedAt     time.Time `json:"processed_at"`
}

// PageExtraction holds the partial business fields pulled from one page,
// from structured metadata, heuristics, and model enrichment combined.
// Absence (nil) means "not found on this page", which is distinct from an
// explicit empty value.
type PageExtraction struct {
	URL            string      `json:"url"`
	Name           *string     `json:"name,omitempty"`
	Description    *string     `json:"description,omitempty"`
	Contact        Contact     `json:"contact"`
	Location       *Location   `json:"location,omitempty"`
	Services       []string    `json:"services,omitempty"`
	Products       []string    `json:"products,omitempty"`
	Social         SocialLinks `json:"social_links,omitempty"`
	Industry       *string     `json:"industry,omitempty"`
	Founded        *string     `json:"founded,omitempty"`
	EmployeeCount  *string     `json:"employee_count,omitempty"`
	ImageURL       *string     `json:"image_url,omitempty"`
	Categories     []string    `json:"categories,omitempty"`
	Certifications []string    `json:"certifications,omitempty"`
	Enrichment     *Enrichment `json:"enrichment,omitempty"`
}

// BusinessProfile is the merged record produced by aggregating every
// PageExtraction from one crawl.
type BusinessProfile struct {
	Name           *string     `json:"name,omitempty"`
	Description    *string     `json:"description,omitempty"`
	Contact        Contact     `json:"contact"`
	Location       *Location   `json:"location,omitempty"`
	Services       []string    `json:"services,omitempty"`
	Products       []string    `json:"products,omitempty"`
	Social         SocialLinks `json:"social_links,omitempty"`
	Industry       *string     `json:"industry,omitempty"`
	Founded        *string     `json:"founded,omitempty"`
	EmployeeCount  *string     `json:"employee_count,omitempty"`
	ImageURL       *string     `json:"image_url,omitempty"`
	Categories     []string    `json:"categories,omitempty"`
	Certifications []string    `json:"certifications,omitempty"`
	Enrichment     *Enrichment `json:"enrichment,omitempty"`
}

// CrawlResult is the terminal output of one crawl. Immutable once produced;
// cached by source URL on success.
type CrawlResult struct {
	Success   bool             `json:"success"`
	URL       string           `json:"url"`
	Profile   *BusinessProfile `json:"profile,omitempty"`
	Source    string           `json:"source,omitempty"` // retrieval path that produced the pages
	Pages     int              `json:"pages"`
	CrawledAt time.Time        `json:"crawled_at"`
	Error     string           `json:"error,omitempty"`
}

// Ptr returns a pointer to v. Convenience for building optional fields.
func Ptr[T any](v T) *T { return &v }
