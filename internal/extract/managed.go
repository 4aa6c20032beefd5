package extract

import (
	"strings"

	"github.com/bizlens/bizlens/internal/model"
)

// FromManaged converts the managed API's inline extraction payload into a
// PageExtraction. Values are untrusted JSON: anything that fails a type
// check is dropped rather than coerced.
func FromManaged(pageURL string, fields map[string]any) model.PageExtraction {
	px := model.PageExtraction{URL: pageURL}
	if len(fields) == 0 {
		return px
	}

	px.Name = stringField(fields, "business_name")
	px.Description = stringField(fields, "description")
	px.Contact.Phone = stringField(fields, "phone")
	px.Contact.Email = stringField(fields, "email")
	px.Contact.Address = stringField(fields, "address")
	px.Industry = stringField(fields, "industry")
	px.Founded = stringField(fields, "founded")
	px.EmployeeCount = stringField(fields, "employee_count")
	px.Services = stringListField(fields, "services", maxServices)

	loc := &model.Location{
		City:       stringField(fields, "city"),
		State:      stringField(fields, "state"),
		Country:    stringField(fields, "country"),
		PostalCode: stringField(fields, "postal_code"),
	}
	if loc.Completeness() > 0 {
		px.Location = loc
	}

	return px
}

func stringField(fields map[string]any, key string) *string {
	v, ok := fields[key].(string)
	if !ok {
		return nil
	}
	if v = strings.TrimSpace(v); v == "" {
		return nil
	}
	return model.Ptr(v)
}

func stringListField(fields map[string]any, key string, limit int) []string {
	raw, ok := fields[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}
