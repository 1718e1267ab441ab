// Package classify maps question label text to a semantic category via
// ordered keyword groups. The branch order is a correctness contract: more
// specific categories are tested before generic ones (sponsorship before work
// authorization, remote/relocation before plain location), and the free-text
// template scan runs only after every fixed category has missed.
package classify

import (
	"strings"

	"github.com/hirehand/formfill/internal/types"
)

// Category is the semantic classification of one question label. The
// enumeration is closed; unmatched labels are Unclassified.
type Category int

const (
	// Unclassified is the result for labels no keyword group matched.
	Unclassified Category = iota
	// YearsExperience asks for total years of professional experience.
	YearsExperience
	// Salary asks for compensation expectations.
	Salary
	// Location asks where the applicant is located.
	Location
	// StartDate asks for availability or notice period.
	StartDate
	// WorkAuthorization asks whether the applicant may legally work.
	WorkAuthorization
	// Sponsorship asks whether visa sponsorship will be required.
	Sponsorship
	// RemoteWork asks about remote/hybrid preferences.
	RemoteWork
	// Relocation asks about willingness to move.
	Relocation
	// HearAboutUs asks for the referral source.
	HearAboutUs
	// Consent covers privacy/terms acknowledgements.
	Consent
	// CoverLetterText asks for cover-letter style free text.
	CoverLetterText
	// TemplateMatch means an answer template keyword matched the label.
	TemplateMatch
)

var categoryNames = map[Category]string{
	Unclassified:      "unclassified",
	YearsExperience:   "years_experience",
	Salary:            "salary",
	Location:          "location",
	StartDate:         "start_date",
	WorkAuthorization: "work_authorization",
	Sponsorship:       "sponsorship",
	RemoteWork:        "remote_work",
	Relocation:        "relocation",
	HearAboutUs:       "hear_about_us",
	Consent:           "consent",
	CoverLetterText:   "cover_letter",
	TemplateMatch:     "template_match",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unclassified"
}

// Boolean reports whether the category's answer is a yes/no.
func (c Category) Boolean() bool {
	switch c {
	case WorkAuthorization, Sponsorship, RemoteWork, Relocation, Consent:
		return true
	default:
		return false
	}
}

// keywordGroup pairs a category with the lowercase substrings that select it.
type keywordGroup struct {
	category Category
	keywords []string
}

// classifierGroups is tested in declared order; the first keyword hit wins.
// Reordering entries changes classification on overlapping labels, so the
// order itself is part of the contract.
var classifierGroups = []keywordGroup{
	{Sponsorship, []string{"sponsorship", "sponsor", "require a visa", "visa status"}},
	{WorkAuthorization, []string{"authorized to work", "work authorization", "legally authorized", "eligible to work", "right to work", "legally able to work"}},
	{YearsExperience, []string{"years of experience", "years experience", "how many years", "years of relevant", "years of professional"}},
	{Salary, []string{"salary", "compensation", "expected pay", "pay expectation", "pay range"}},
	{RemoteWork, []string{"remote", "work from home", "hybrid", "on-site", "onsite"}},
	{Relocation, []string{"relocat", "willing to move"}},
	{StartDate, []string{"start date", "available to start", "when can you start", "availability", "notice period", "earliest date"}},
	{Location, []string{"current location", "where are you located", "where do you live", "city and state", "location"}},
	{HearAboutUs, []string{"hear about", "how did you find", "referral source", "who referred"}},
	{Consent, []string{"consent", "i agree", "agree to", "privacy policy", "terms", "acknowledge"}},
	{CoverLetterText, []string{"cover letter", "why are you interested", "why do you want", "tell us about yourself", "anything else"}},
}

// Classify normalizes labelText (lower-case, trimmed) and returns the first
// matching category, or Unclassified. It never consults answer templates;
// see FindAnswerTemplate for the free-text fallback.
func Classify(labelText string) Category {
	label := strings.ToLower(strings.TrimSpace(labelText))
	if label == "" {
		return Unclassified
	}
	for _, group := range classifierGroups {
		for _, keyword := range group.keywords {
			if strings.Contains(label, keyword) {
				return group.category
			}
		}
	}
	return Unclassified
}

// FindAnswerTemplate scans templates in insertion order and returns the
// answer of the first template whose keyword is a substring of labelText.
// No scoring, first match wins.
func FindAnswerTemplate(labelText string, templates types.AnswerTemplates) (string, bool) {
	label := strings.ToLower(strings.TrimSpace(labelText))
	if label == "" {
		return "", false
	}
	for _, t := range templates {
		keyword := strings.ToLower(strings.TrimSpace(t.Keyword))
		if keyword == "" {
			continue
		}
		if strings.Contains(label, keyword) {
			return t.Answer, true
		}
	}
	return "", false
}
