package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromManaged_MapsFields(t *testing.T) {
	px := FromManaged("https://acme.com/about", map[string]any{
		"business_name":  "Acme Corp",
		"description":    "Industrial supplies.",
		"phone":          "555-1234",
		"email":          "sales@acme.com",
		"address":        "1 Industrial Way",
		"city":           "Springfield",
		"state":          "IL",
		"country":        "US",
		"postal_code":    "62701",
		"services":       []any{"Bolts", "Nuts", "Anvils"},
		"industry":       "Manufacturing",
		"founded":        "1952",
		"employee_count": "50-100",
	})

	assert.Equal(t, "https://acme.com/about", px.URL)
	assert.Equal(t, "Acme Corp", *px.Name)
	assert.Equal(t, "555-1234", *px.Contact.Phone)
	assert.Equal(t, "1 Industrial Way", *px.Contact.Address)
	require.NotNil(t, px.Location)
	assert.Equal(t, "Springfield", *px.Location.City)
	assert.Equal(t, []string{"Bolts", "Nuts", "Anvils"}, px.Services)
	assert.Equal(t, "Manufacturing", *px.Industry)
	assert.Equal(t, "50-100", *px.EmployeeCount)
}

func TestFromManaged_RejectsWrongTypes(t *testing.T) {
	px := FromManaged("https://acme.com", map[string]any{
		"business_name": 42,                        // not a string
		"phone":         map[string]any{"n": "x"},  // not a string
		"services":      "not a list",              // not a list
		"founded":       []any{"1952"},             // not a string
		"email":         "   ",                     // blank
	})

	assert.Nil(t, px.Name)
	assert.Nil(t, px.Contact.Phone)
	assert.Nil(t, px.Contact.Email)
	assert.Nil(t, px.Services)
	assert.Nil(t, px.Founded)
	assert.Nil(t, px.Location)
}

func TestFromManaged_MixedServiceList(t *testing.T) {
	px := FromManaged("https://acme.com", map[string]any{
		"services": []any{"Bolts", 7, "", "Nuts"},
	})

	assert.Equal(t, []string{"Bolts", "Nuts"}, px.Services)
}

func TestFromManaged_Empty(t *testing.T) {
	px := FromManaged("https://acme.com", nil)
	assert.Equal(t, "https://acme.com", px.URL)
	assert.Nil(t, px.Name)
}
