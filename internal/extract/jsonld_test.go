package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizlens/bizlens/internal/model"
)

func extractFromHTML(t *testing.T, html string) model.PageExtraction {
	t.Helper()
	return Page(model.CrawledPage{URL: "https://acme.example.org", HTML: html})
}

func TestJSONLD_LocalBusiness(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "LocalBusiness",
  "name": "Acme Plumbing",
  "description": "Full-service plumbing company.",
  "telephone": "+1-555-123-4567",
  "email": "office@acme.example.org",
  "foundingDate": "1985",
  "numberOfEmployees": 42,
  "image": "https://acme.example.org/logo.png",
  "address": {
    "@type": "PostalAddress",
    "streetAddress": "100 Main Street",
    "addressLocality": "Springfield",
    "addressRegion": "IL",
    "postalCode": "62701",
    "addressCountry": "US"
  },
  "geo": {"@type": "GeoCoordinates", "latitude": 39.78, "longitude": -89.65},
  "sameAs": ["https://www.facebook.com/acme", "https://www.youtube.com/@acme"]
}
</script></head><body></body></html>`

	px := extractFromHTML(t, html)

	require.NotNil(t, px.Name)
	assert.Equal(t, "Acme Plumbing", *px.Name)
	assert.Equal(t, "Full-service plumbing company.", *px.Description)
	assert.Equal(t, "+1-555-123-4567", *px.Contact.Phone)
	assert.Equal(t, "office@acme.example.org", *px.Contact.Email)
	assert.Equal(t, "100 Main Street", *px.Contact.Address)
	assert.Equal(t, "1985", *px.Founded)
	assert.Equal(t, "42", *px.EmployeeCount)

	require.NotNil(t, px.Location)
	assert.Equal(t, "Springfield", *px.Location.City)
	assert.Equal(t, "IL", *px.Location.State)
	assert.Equal(t, "62701", *px.Location.PostalCode)
	assert.Equal(t, "US", *px.Location.Country)
	assert.InDelta(t, 39.78, *px.Location.Latitude, 0.001)
	assert.InDelta(t, -89.65, *px.Location.Longitude, 0.001)

	assert.Equal(t, "https://www.facebook.com/acme", px.Social["facebook"])
	assert.Equal(t, "https://www.youtube.com/@acme", px.Social["youtube"])
}

func TestJSONLD_GraphContainer(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
{"@graph":[
  {"@type":"WebSite","name":"ignored"},
  {"@type":"Organization","name":"Acme Corp","telephone":"555-0000"}
]}
</script></head><body></body></html>`

	px := extractFromHTML(t, html)

	require.NotNil(t, px.Name)
	assert.Equal(t, "Acme Corp", *px.Name)
	assert.Equal(t, "555-0000", *px.Contact.Phone)
}

func TestJSONLD_BusinessSubtypeSuffix(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
{"@type":"HomeAndConstructionBusiness","name":"Acme Builders"}
</script></head><body></body></html>`

	px := extractFromHTML(t, html)

	require.NotNil(t, px.Name)
	assert.Equal(t, "Acme Builders", *px.Name)
}

func TestJSONLD_MalformedBlockSkipped(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">{not json at all</script>
<script type="application/ld+json">{"@type":"Organization","name":"Acme"}</script>
</head><body></body></html>`

	px := extractFromHTML(t, html)

	require.NotNil(t, px.Name)
	assert.Equal(t, "Acme", *px.Name)
}

func TestJSONLD_TypeArray(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
{"@type":["Thing","LocalBusiness"],"name":"Acme"}
</script></head><body></body></html>`

	px := extractFromHTML(t, html)

	require.NotNil(t, px.Name)
	assert.Equal(t, "Acme", *px.Name)
}

func TestJSONLD_FirstBlockWins(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">{"@type":"Organization","name":"First Name"}</script>
<script type="application/ld+json">{"@type":"Organization","name":"Second Name"}</script>
</head><body></body></html>`

	px := extractFromHTML(t, html)

	require.NotNil(t, px.Name)
	assert.Equal(t, "First Name", *px.Name)
}
