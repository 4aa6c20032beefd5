package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_Bare(t *testing.T) {
	m, ok := ExtractJSON(`{"industry": "Plumbing"}`)
	require.True(t, ok)
	assert.Equal(t, "Plumbing", m["industry"])
}

func TestExtractJSON_Fenced(t *testing.T) {
	m, ok := ExtractJSON("```json\n{\"industry\": \"Legal\"}\n```")
	require.True(t, ok)
	assert.Equal(t, "Legal", m["industry"])
}

func TestExtractJSON_FencedNoLanguageTag(t *testing.T) {
	m, ok := ExtractJSON("```\n{\"founded\": \"1999\"}\n```")
	require.True(t, ok)
	assert.Equal(t, "1999", m["founded"])
}

func TestExtractJSON_EmbeddedInProse(t *testing.T) {
	m, ok := ExtractJSON(`Here is what I found:

{"industry": "Retail", "note": "has {braces} inside"}

Let me know if you need more.`)
	require.True(t, ok)
	assert.Equal(t, "Retail", m["industry"])
	assert.Equal(t, "has {braces} inside", m["note"])
}

func TestExtractJSON_NestedObjects(t *testing.T) {
	m, ok := ExtractJSON(`preamble {"enrichment": {"confidence": 0.8}} trailer`)
	require.True(t, ok)
	inner, ok := m["enrichment"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0.8, inner["confidence"])
}

func TestExtractJSON_EscapedQuotes(t *testing.T) {
	m, ok := ExtractJSON(`{"name": "Joe's \"Best\" Pizza"}`)
	require.True(t, ok)
	assert.Equal(t, `Joe's "Best" Pizza`, m["name"])
}

func TestExtractJSON_NoObject(t *testing.T) {
	_, ok := ExtractJSON("no json here at all")
	assert.False(t, ok)

	_, ok = ExtractJSON("unbalanced { forever")
	assert.False(t, ok)

	_, ok = ExtractJSON("")
	assert.False(t, ok)
}

func TestEmployeeCountPattern(t *testing.T) {
	valid := []string{"5", "42", "10-50", "10 - 50", "100+", "1000"}
	for _, s := range valid {
		assert.True(t, employeeCountRe.MatchString(s), s)
	}

	invalid := []string{"abc", "about 50", "fifty", "50 employees", "-10", ""}
	for _, s := range invalid {
		assert.False(t, employeeCountRe.MatchString(s), s)
	}
}

func TestFoundedPattern(t *testing.T) {
	valid := []string{"1952", "2020", "1999-06-15"}
	for _, s := range valid {
		assert.True(t, foundedRe.MatchString(s), s)
	}

	invalid := []string{"circa 1990", "early 2000s", "99", "1999-06", "June 1999"}
	for _, s := range invalid {
		assert.False(t, foundedRe.MatchString(s), s)
	}
}

func TestAppendUnique(t *testing.T) {
	got := appendUnique([]string{"Drain Cleaning"}, []string{"drain cleaning", "Repiping"})
	assert.Equal(t, []string{"Drain Cleaning", "Repiping"}, got)
}
