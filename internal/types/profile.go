// Package types provides type definitions for structured data used throughout the form-filling engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ProfileData is the user profile supplied by the surrounding application for
// one fill invocation. The engine treats it as read-only; the caller owns it.
type ProfileData struct {
	// Identity
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty"`

	// Professional links
	LinkedIn string `json:"linkedIn,omitempty" validate:"omitempty,url"`
	Website  string `json:"website,omitempty" validate:"omitempty,url"`
	GitHub   string `json:"github,omitempty" validate:"omitempty,url"`

	// Current role
	CurrentCompany string `json:"currentCompany,omitempty"`
	CurrentTitle   string `json:"currentTitle,omitempty"`

	// Location
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`

	// Preferences. YearsExperience is a pointer so an explicit zero (an
	// entry-level answer) is distinguishable from "not provided".
	YearsExperience     *int   `json:"yearsExperience,omitempty" validate:"omitempty,gte=0"`
	Salary              string `json:"salary,omitempty"`
	WorkAuthorization   bool   `json:"workAuthorization,omitempty"`
	RequiresSponsorship bool   `json:"requiresSponsorship,omitempty"`
	OpenToRemote        bool   `json:"openToRemote,omitempty"`
	WillingToRelocate   bool   `json:"willingToRelocate,omitempty"`
	AvailableDate       string `json:"availableDate,omitempty"`

	// Free text
	CoverLetter    string `json:"coverLetter,omitempty"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`

	// Ordered keyword->answer fallbacks for free-text questions.
	AnswerTemplates AnswerTemplates `json:"answerTemplates,omitempty"`

	// Resume payload. Nil when the caller supplies no resume.
	Resume *ResumeFile `json:"resume,omitempty"`

	// Most-recent-first history records.
	Experience []Experience `json:"experience,omitempty"`
	Education  []Education  `json:"education,omitempty"`
}

// ResumeFile carries the resume either as raw bytes plus a file name (for
// upload inputs) or as plain text (for paste-style textareas).
type ResumeFile struct {
	FileName string `json:"fileName,omitempty"`
	Data     []byte `json:"data,omitempty"`
	Text     string `json:"text,omitempty"`
}

// Experience is a single role record, most recent first in ProfileData.Experience.
type Experience struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Current     bool   `json:"current,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education is a single school record, most recent first in ProfileData.Education.
type Education struct {
	School    string `json:"school"`
	Degree    string `json:"degree,omitempty"`
	Field     string `json:"field,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// AnswerTemplate pairs a lowercase keyword with the canned answer to use when
// the keyword appears in a question label.
type AnswerTemplate struct {
	Keyword string `json:"keyword"`
	Answer  string `json:"answer"`
}

// AnswerTemplates preserves declaration order; matching is first-hit-wins, so
// the order carries meaning and is never re-sorted.
type AnswerTemplates []AnswerTemplate

// FullName joins first and last name with a single space, tolerating either
// part being empty.
func (p *ProfileData) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// HasResumeBytes reports whether a raw resume payload suitable for a file
// upload is present.
func (p *ProfileData) HasResumeBytes() bool {
	return p.Resume != nil && len(p.Resume.Data) > 0 && p.Resume.FileName != ""
}

var profileValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks structural constraints on the profile (required identity,
// well-formed email and link URLs). It does not consult any document.
func (p *ProfileData) Validate() error {
	return profileValidator.Struct(p)
}

// ParseProfile decodes a profile from JSON and validates it.
func ParseProfile(data []byte) (*ProfileData, error) {
	var p ProfileData
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &ProfileError{Message: "failed to parse profile JSON", Cause: err}
	}
	if err := p.Validate(); err != nil {
		return nil, &ProfileError{Message: "profile failed validation", Cause: err}
	}
	return &p, nil
}
