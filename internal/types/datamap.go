package types

import (
	"strconv"
	"strings"
)

// DataMap is a flattened, read-only view of a ProfileData computed once per
// fill invocation. Adapters look values up by well-known key instead of
// re-deriving them per field.
type DataMap map[string]string

// BuildDataMap flattens the profile into lookup keys. Derived keys (full_name,
// location) are computed here so every adapter renders them identically.
func BuildDataMap(p *ProfileData) DataMap {
	m := DataMap{
		"first_name":      p.FirstName,
		"last_name":       p.LastName,
		"full_name":       p.FullName(),
		"email":           p.Email,
		"phone":           p.Phone,
		"linkedin":        p.LinkedIn,
		"website":         p.Website,
		"github":          p.GitHub,
		"current_company": p.CurrentCompany,
		"current_title":   p.CurrentTitle,
		"city":            p.City,
		"state":           p.State,
		"country":         p.Country,
		"location":        joinLocation(p.City, p.State),
		"salary":          p.Salary,
		"available_date":  p.AvailableDate,
		"cover_letter":    p.CoverLetter,
		"additional_info": p.AdditionalInfo,
	}
	if p.YearsExperience != nil {
		m["years_experience"] = strconv.Itoa(*p.YearsExperience)
	}
	if len(p.Experience) > 0 {
		m["recent_company"] = p.Experience[0].Company
		m["recent_title"] = p.Experience[0].Title
	}
	if len(p.Education) > 0 {
		m["school"] = p.Education[0].School
		m["degree"] = p.Education[0].Degree
	}
	return m
}

// Get returns the value for key, or "" when absent or empty.
func (m DataMap) Get(key string) string {
	return m[key]
}

// Links returns the professional link values in fill order, skipping empties.
func (m DataMap) Links() []string {
	var links []string
	for _, key := range []string{"linkedin", "website", "github"} {
		if v := m[key]; v != "" {
			links = append(links, v)
		}
	}
	return links
}

func joinLocation(city, state string) string {
	parts := make([]string, 0, 2)
	if city != "" {
		parts = append(parts, city)
	}
	if state != "" {
		parts = append(parts, state)
	}
	return strings.Join(parts, ", ")
}
