package platform

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hirehand/formfill/internal/dom"
	"github.com/hirehand/formfill/internal/locator"
	"github.com/hirehand/formfill/internal/types"
)

// leverDefaults reflects Lever's single-page form: it renders synchronously,
// so the bounds are short.
var leverDefaults = Config{
	LoadTimeout:    5 * time.Second,
	PollInterval:   250 * time.Millisecond,
	OverlayTimeout: 5 * time.Second,
	DropdownSettle: 300 * time.Millisecond,
}

// Lever field descriptors. Lever posting forms use stable name attributes, so
// the fallback chains are short.
var (
	leverFullName = locator.Descriptor{Name: "full_name", Patterns: []string{
		`input[name="name"]`,
		`input[id="name"]`,
	}}
	leverEmail = locator.Descriptor{Name: "email", Patterns: []string{
		`input[name="email"]`,
		`input[type="email"]`,
	}}
	leverPhone = locator.Descriptor{Name: "phone", Patterns: []string{
		`input[name="phone"]`,
		`input[type="tel"]`,
	}}
	leverCompany = locator.Descriptor{Name: "current_company", Patterns: []string{
		`input[name="org"]`,
	}}
	leverLocation = locator.Descriptor{Name: "location", Patterns: []string{
		`input[name="location"]`,
		`input[id="location-input"]`,
	}}
	leverLinks = locator.Descriptor{Name: "links", Patterns: []string{
		`input[name^="urls["]`,
		`input[name^="urls%5B"]`,
	}}
	leverAddLink = locator.Descriptor{Name: "add_link", Patterns: []string{
		`button[data-qa="add-url"]`,
		`a.template-btn-add-url`,
	}}
	leverComments = locator.Descriptor{Name: "additional_information", Patterns: []string{
		`textarea[name="comments"]`,
		`textarea[id="additional-information"]`,
	}}
	leverResume = locator.Descriptor{Name: "resume", Patterns: []string{
		`input[name="resume"]`,
		`#resume-upload-input`,
		`input[type="file"]`,
	}}
	leverQuestions = locator.Descriptor{Name: "custom_questions", Patterns: []string{
		`.application-question`,
		`li.application-question`,
	}}
)

// Lever fills jobs.lever.co posting forms. The whole application is a single
// page, so Fill is one pass with no section or step detection.
type Lever struct {
	page      dom.Page
	cfg       Config
	log       *zap.Logger
	processed map[string]bool
}

// NewLever builds the Lever adapter for the page.
func NewLever(page dom.Page, cfg Config, log *zap.Logger) *Lever {
	if log == nil {
		log = zap.NewNop()
	}
	return &Lever{
		page:      page,
		cfg:       cfg.withDefaults(leverDefaults),
		log:       log.With(zap.String("platform", "lever")),
		processed: map[string]bool{},
	}
}

func (a *Lever) Name() string { return "lever" }

// Fill runs the fixed Lever sequence: identity fields, professional links,
// resume upload, free-text comments, then the custom question list.
func (a *Lever) Fill(profile *types.ProfileData) *types.FillResult {
	result := types.NewFillResult(a.Name(), uuid.NewString())
	defer guard(result, a.log)()

	s := newSession(a.page, a.cfg, profile, result, a.processed, a.log)

	s.fillIdentityField(leverFullName, s.data.Get("full_name"), "text")
	s.fillIdentityField(leverEmail, s.data.Get("email"), "email")
	s.fillIdentityField(leverPhone, s.data.Get("phone"), "tel")
	s.fillIdentityField(leverCompany, s.data.Get("current_company"), "text")
	s.fillIdentityField(leverLocation, s.data.Get("location"), "text")

	s.fillLinkRows(leverLinks, leverAddLink, s.data.Links())

	s.uploadResume(leverResume)

	if extra := additionalText(profile); extra != "" {
		s.fillIdentityField(leverComments, extra, "textarea")
	}

	s.processQuestions(questionSpec{
		containers: leverQuestions,
		labelSel:   `.application-label, label`,
	})

	return result
}

// additionalText prefers the cover letter for Lever's free-form comments box,
// falling back to the additional-info blurb.
func additionalText(profile *types.ProfileData) string {
	if profile.CoverLetter != "" {
		return profile.CoverLetter
	}
	return profile.AdditionalInfo
}

// ExtractJobDetails reads the posting header. The company is not rendered on
// the page itself, so it is recovered from the jobs.lever.co/<company>/ URL
// path.
func (a *Lever) ExtractJobDetails() (*types.JobDetails, error) {
	details := &types.JobDetails{URL: a.page.URL()}

	details.Title = firstText(a.page,
		`.posting-headline h2`,
		`.posting-header h2`,
		`h2`,
	)
	details.Location = firstText(a.page,
		`.posting-categories .location`,
		`.posting-category.location`,
		`.sort-by-time.posting-category`,
	)
	details.JobType = firstText(a.page,
		`.posting-categories .commitment`,
		`.posting-category.commitment`,
	)
	details.Description = firstText(a.page,
		`div[data-qa="job-description"]`,
		`.posting-page .section-wrapper`,
	)
	details.Company = leverCompanyFromURL(a.page.URL())

	return details, nil
}

func leverCompanyFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return ""
	}
	return parts[0]
}

// firstText returns the trimmed text of the first selector that resolves to a
// non-empty element; extraction helpers never mutate the document.
func firstText(page dom.Page, selectors ...string) string {
	for _, sel := range selectors {
		el, err := page.Query(sel)
		if err != nil || el == nil {
			continue
		}
		text, err := el.Text()
		if err != nil {
			continue
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
