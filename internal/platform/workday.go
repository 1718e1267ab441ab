package platform

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hirehand/formfill/internal/dom"
	"github.com/hirehand/formfill/internal/locator"
	"github.com/hirehand/formfill/internal/state"
	"github.com/hirehand/formfill/internal/types"
	"github.com/hirehand/formfill/internal/wait"
)

// workdayDefaults: Workday pages re-render server state behind a spinner, so
// waits are the longest of the three platforms.
var workdayDefaults = Config{
	LoadTimeout:    10 * time.Second,
	PollInterval:   500 * time.Millisecond,
	OverlayTimeout: 20 * time.Second,
	DropdownSettle: 500 * time.Millisecond,
	ParseSettle:    time.Second,
}

// Workday descriptors lean on data-automation-id, the only attribute family
// stable across tenant themes.
var (
	workdaySpinner = locator.Descriptor{Name: "loading_overlay", Patterns: []string{
		`[data-automation-id="loadingSpinner"]`,
		`[data-automation-id="wd-LoadingPanel"]`,
		`.wd-spinner`,
	}}
	workdayFirstName = locator.Descriptor{Name: "first_name", Patterns: []string{
		`input[data-automation-id="legalNameSection_firstName"]`,
		`input[name*="firstName"]`,
		`input[id*="firstName"]`,
	}}
	workdayLastName = locator.Descriptor{Name: "last_name", Patterns: []string{
		`input[data-automation-id="legalNameSection_lastName"]`,
		`input[name*="lastName"]`,
		`input[id*="lastName"]`,
	}}
	workdayEmail = locator.Descriptor{Name: "email", Patterns: []string{
		`input[data-automation-id="email"]`,
		`input[type="email"]`,
	}}
	workdayPhone = locator.Descriptor{Name: "phone", Patterns: []string{
		`input[data-automation-id="phone-number"]`,
		`input[type="tel"]`,
	}}
	workdayCity = locator.Descriptor{Name: "city", Patterns: []string{
		`input[data-automation-id="addressSection_city"]`,
		`input[name*="city"]`,
	}}
	workdayCompany = locator.Descriptor{Name: "recent_company", Patterns: []string{
		`input[data-automation-id="company"]`,
	}}
	workdayTitle = locator.Descriptor{Name: "recent_title", Patterns: []string{
		`input[data-automation-id="jobTitle"]`,
	}}
	workdaySchool = locator.Descriptor{Name: "school", Patterns: []string{
		`input[data-automation-id="school"]`,
	}}
	workdayImport = locator.Descriptor{Name: "resume_import", Patterns: []string{
		`button[data-automation-id="autofillWithResume"]`,
		`[data-automation-id="useMyLastApplication"]`,
	}}
	workdayResumeInput = locator.Descriptor{Name: "resume", Patterns: []string{
		`input[data-automation-id="file-upload-input-ref"]`,
		`input[type="file"]`,
	}}
	workdayQuestions = locator.Descriptor{Name: "form_fields", Patterns: []string{
		`div[data-automation-id^="formField-"]`,
	}}
)

// Workday fills one section of a myworkdayjobs.com application per Fill call.
// Which section is on screen is detected from headers and URL hints; an
// unrecognized page gets a best-effort pass over every section's fields.
type Workday struct {
	page      dom.Page
	cfg       Config
	log       *zap.Logger
	processed map[string]bool
}

// NewWorkday builds the Workday adapter for the page.
func NewWorkday(page dom.Page, cfg Config, log *zap.Logger) *Workday {
	if log == nil {
		log = zap.NewNop()
	}
	return &Workday{
		page:      page,
		cfg:       cfg.withDefaults(workdayDefaults),
		log:       log.With(zap.String("platform", "workday")),
		processed: map[string]bool{},
	}
}

func (a *Workday) Name() string { return "workday" }

// Fill waits out the loading overlay, detects the visible section and runs
// its fill routine. SectionUnknown runs every routine; misses are silent, so
// the worst case is a no-op.
func (a *Workday) Fill(profile *types.ProfileData) *types.FillResult {
	result := types.NewFillResult(a.Name(), uuid.NewString())
	defer guard(result, a.log)()

	s := newSession(a.page, a.cfg, profile, result, a.processed, a.log)

	a.awaitOverlayGone(s)

	section := state.DetectWorkdaySection(a.page)
	a.log.Info("detected section", zap.Stringer("section", section))

	switch section {
	case state.SectionPersonal:
		a.fillPersonal(s)
	case state.SectionContact:
		a.fillContact(s)
	case state.SectionResume:
		a.fillResume(s)
	case state.SectionExperience:
		a.fillExperience(s)
	case state.SectionEducation:
		a.fillEducation(s)
	case state.SectionQuestions:
		a.fillQuestions(s)
	case state.SectionReview:
		// Nothing to write on the review page.
	default:
		// Unrecognized page: try everything, locator misses skip silently.
		a.fillPersonal(s)
		a.fillContact(s)
		a.fillResume(s)
		a.fillExperience(s)
		a.fillEducation(s)
		a.fillQuestions(s)
	}

	return result
}

func (a *Workday) awaitOverlayGone(s *session) {
	poller := wait.ForTimeout(a.cfg.LoadTimeout, a.cfg.PollInterval, a.log)
	cleared := poller.UntilGone("loading overlay", func() bool {
		return locator.Visible(s.loc.Resolve(workdaySpinner)) != nil
	})
	if !cleared {
		s.result.AddError(types.ErrorTimeout, workdaySpinner.Name,
			"loading overlay still visible after the load bound; proceeding")
	}
}

func (a *Workday) fillPersonal(s *session) {
	s.fillIdentityField(workdayFirstName, s.data.Get("first_name"), "text")
	s.fillIdentityField(workdayLastName, s.data.Get("last_name"), "text")
}

func (a *Workday) fillContact(s *session) {
	s.fillIdentityField(workdayEmail, s.data.Get("email"), "email")
	s.fillIdentityField(workdayPhone, s.data.Get("phone"), "tel")
	s.fillIdentityField(workdayCity, s.data.Get("city"), "text")
}

// fillResume records the import affordance without acting on it, uploads the
// resume bytes, then rides the parse overlay to a terminal state before the
// caller moves on. Autofill imports overwrite manually entered data, so the
// engine never triggers them.
func (a *Workday) fillResume(s *session) {
	s.noteAffordance(workdayImport,
		"resume import affordance found, not acted on")

	if !s.uploadResume(workdayResumeInput) {
		return
	}

	machine := wait.NewResumeParseMachine(
		func() bool { return locator.Visible(s.loc.Resolve(workdaySpinner)) != nil },
		wait.ForTimeout(a.cfg.LoadTimeout, a.cfg.PollInterval, a.log),
		wait.ForTimeout(a.cfg.OverlayTimeout, a.cfg.PollInterval, a.log),
		a.cfg.ParseSettle,
		a.log,
	)
	machine.MarkUploaded()
	final := machine.AwaitParsed()
	a.log.Info("resume parse finished", zap.Stringer("state", final))
}

func (a *Workday) fillExperience(s *session) {
	s.fillIdentityField(workdayCompany, s.data.Get("recent_company"), "text")
	s.fillIdentityField(workdayTitle, s.data.Get("recent_title"), "text")
}

func (a *Workday) fillEducation(s *session) {
	s.fillIdentityField(workdaySchool, s.data.Get("school"), "text")
}

func (a *Workday) fillQuestions(s *session) {
	s.processQuestions(questionSpec{
		containers: workdayQuestions,
		labelSel:   `label, legend`,
		dropdown: dropdownSpec{
			triggerSel: `button[aria-haspopup="listbox"]`,
			options:    `[data-automation-id="menuItem"], li[role="option"], ul[role="listbox"] li`,
		},
	})
}

// ExtractJobDetails reads the posting header block. The tenant name is not on
// the page, so the company falls back to the myworkdayjobs.com subdomain.
func (a *Workday) ExtractJobDetails() (*types.JobDetails, error) {
	details := &types.JobDetails{URL: a.page.URL()}

	details.Title = firstText(a.page,
		`[data-automation-id="jobPostingHeader"]`,
		`h1`,
	)
	details.Location = firstText(a.page,
		`[data-automation-id="locations"] dd`,
		`[data-automation-id="location"]`,
	)
	details.PostedDate = firstText(a.page,
		`[data-automation-id="postedOn"] dd`,
	)
	details.JobType = firstText(a.page,
		`[data-automation-id="time"] dd`,
	)
	details.Description = firstText(a.page,
		`[data-automation-id="jobPostingDescription"]`,
	)
	details.Company = workdayCompanyFromURL(a.page.URL())

	return details, nil
}

func workdayCompanyFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	// company.wd5.myworkdayjobs.com
	if i := strings.Index(host, "."); i > 0 && strings.Contains(host, "myworkdayjobs") {
		return host[:i]
	}
	return ""
}
