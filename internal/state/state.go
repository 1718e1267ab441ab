// Package state determines which logical section or step of a multi-page
// application form is currently visible. Detection is heuristic and never
// fatal: an unrecognized page reports an explicit unknown value and the
// caller falls back to best-effort filling.
package state

import (
	"regexp"
	"strings"

	"github.com/hirehand/formfill/internal/dom"
)

// WorkdaySection is the logical page of a Workday application flow.
type WorkdaySection int

const (
	// SectionUnknown means no header or URL heuristic recognized the page.
	SectionUnknown WorkdaySection = iota
	// SectionPersonal is the "My Information" / legal name page.
	SectionPersonal
	// SectionContact is the address and phone page.
	SectionContact
	// SectionExperience is the work history page.
	SectionExperience
	// SectionEducation is the education history page.
	SectionEducation
	// SectionResume is the resume upload / autofill page.
	SectionResume
	// SectionQuestions is the application questionnaire page.
	SectionQuestions
	// SectionReview is the final review page.
	SectionReview
)

var sectionNames = map[WorkdaySection]string{
	SectionUnknown:    "unknown",
	SectionPersonal:   "personal",
	SectionContact:    "contact",
	SectionExperience: "experience",
	SectionEducation:  "education",
	SectionResume:     "resume",
	SectionQuestions:  "questions",
	SectionReview:     "review",
}

func (s WorkdaySection) String() string {
	return sectionNames[s]
}

// sectionKeywords is tested in declared order per header; specific sections
// come before broad ones (questions before personal, since questionnaire
// headers often mention the applicant too).
var sectionKeywords = []struct {
	section  WorkdaySection
	keywords []string
}{
	{SectionReview, []string{"review", "summary of your application"}},
	{SectionQuestions, []string{"application questions", "questionnaire", "additional questions", "voluntary disclosures"}},
	{SectionResume, []string{"resume", "cv", "autofill with resume", "attachments", "upload"}},
	{SectionEducation, []string{"education"}},
	{SectionExperience, []string{"work experience", "my experience", "employment history"}},
	{SectionContact, []string{"contact information", "address", "phone"}},
	{SectionPersonal, []string{"my information", "personal information", "legal name", "about you"}},
}

// sectionURLHints maps URL path substrings to sections; used only when no
// header matched.
var sectionURLHints = []struct {
	section WorkdaySection
	hint    string
}{
	{SectionReview, "review"},
	{SectionQuestions, "question"},
	{SectionResume, "autofillwithresume"},
	{SectionResume, "resume"},
	{SectionEducation, "education"},
	{SectionExperience, "myexperience"},
	{SectionContact, "contactinformation"},
	{SectionPersonal, "myinformation"},
}

// workdayHeaderSelector covers the automation header Workday renders per
// page plus generic heading fallbacks.
const workdayHeaderSelector = `[data-automation-id="pageHeader"], [data-automation-id="progressBarActiveSection"], h1, h2, h3`

// DetectWorkdaySection classifies the visible Workday page by scanning header
// text against per-section keyword sets, falling back to URL substrings.
// SectionUnknown is a valid answer, not an error.
func DetectWorkdaySection(page dom.Page) WorkdaySection {
	headers, err := page.QueryAll(workdayHeaderSelector)
	if err == nil {
		for _, header := range headers {
			if visible, err := header.Visible(); err != nil || !visible {
				continue
			}
			text, err := header.Text()
			if err != nil {
				continue
			}
			if section, ok := matchSection(text); ok {
				return section
			}
		}
	}

	url := strings.ToLower(page.URL())
	for _, hint := range sectionURLHints {
		if strings.Contains(url, hint.hint) {
			return hint.section
		}
	}

	return SectionUnknown
}

func matchSection(headerText string) (WorkdaySection, bool) {
	text := strings.ToLower(strings.TrimSpace(headerText))
	if text == "" {
		return SectionUnknown, false
	}
	for _, entry := range sectionKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				return entry.section, true
			}
		}
	}
	return SectionUnknown, false
}

// Progress is a position within a multi-step flow. Zero values mean the
// indicator was absent or unparseable, which is not an error.
type Progress struct {
	Step  int
	Total int
}

var progressPattern = regexp.MustCompile(`(\d+)\s*(?:of|/)\s*(\d+)`)

// ParseProgress reads an "N of M" (or "N/M") pattern out of a progress
// indicator's text. Returns false when no pattern is present; callers keep
// their step counters at defaults in that case.
func ParseProgress(text string) (Progress, bool) {
	m := progressPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return Progress{}, false
	}
	step := atoiSafe(m[1])
	total := atoiSafe(m[2])
	if step <= 0 || total <= 0 || step > total {
		return Progress{}, false
	}
	return Progress{Step: step, Total: total}, true
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
