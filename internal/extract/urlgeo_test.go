package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationFromURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		city    string
		state   string
		country string
	}{
		{"country tld", "https://acme.co.uk", "", "", "United Kingdom"},
		{"city token", "https://www.chicago-dental.com", "Chicago", "IL", ""},
		{"city in label", "https://miami.acmelaw.com", "Miami", "FL", ""},
		{"state token", "https://texas-movers.com", "", "TX", ""},
		{"city and tld", "https://sf-bakery.ca", "San Francisco", "CA", "Canada"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := LocationFromURL(tt.url)
			require.NotNil(t, loc)
			if tt.city != "" {
				require.NotNil(t, loc.City)
				assert.Equal(t, tt.city, *loc.City)
			}
			if tt.state != "" {
				require.NotNil(t, loc.State)
				assert.Equal(t, tt.state, *loc.State)
			}
			if tt.country != "" {
				require.NotNil(t, loc.Country)
				assert.Equal(t, tt.country, *loc.Country)
			}
		})
	}
}

func TestLocationFromURL_NoSignal(t *testing.T) {
	assert.Nil(t, LocationFromURL("https://example.com"))
	assert.Nil(t, LocationFromURL("not a url"))
}
