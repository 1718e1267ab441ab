package platform

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hirehand/formfill/internal/dom"
	"github.com/hirehand/formfill/internal/locator"
	"github.com/hirehand/formfill/internal/state"
	"github.com/hirehand/formfill/internal/types"
)

// linkedinDefaults: the Easy Apply modal hydrates client-side, so the load
// bound is generous.
var linkedinDefaults = Config{
	LoadTimeout:    15 * time.Second,
	PollInterval:   500 * time.Millisecond,
	OverlayTimeout: 10 * time.Second,
	DropdownSettle: 400 * time.Millisecond,
}

var (
	linkedinModal = locator.Descriptor{Name: "easy_apply_modal", Patterns: []string{
		`.jobs-easy-apply-modal`,
		`div[data-test-modal]`,
		`.jobs-easy-apply-content`,
	}}
	linkedinProgress = locator.Descriptor{Name: "progress_indicator", Patterns: []string{
		`.jobs-easy-apply-content progress`,
		`.artdeco-completeness-meter-linear__progress-element`,
		`span[class*="jobs-easy-apply"][class*="progress"]`,
	}}
	linkedinEmailSelect = locator.Descriptor{Name: "email", Patterns: []string{
		`select[id*="email-address"]`,
		`select[id*="email"]`,
	}}
	linkedinEmailInput = locator.Descriptor{Name: "email", Patterns: []string{
		`input[id*="email-address"]`,
		`input[id*="email"][type="text"]`,
		`input[type="email"]`,
	}}
	linkedinPhoneCountry = locator.Descriptor{Name: "phone_country", Patterns: []string{
		`select[id*="phoneNumber-country"]`,
		`select[id*="country"]`,
	}}
	linkedinPhone = locator.Descriptor{Name: "phone", Patterns: []string{
		`input[id*="phoneNumber-nationalNumber"]`,
		`input[id*="phoneNumber"]`,
		`input[type="tel"]`,
	}}
	linkedinResumeCard = locator.Descriptor{Name: "existing_resume", Patterns: []string{
		`.jobs-resume-picker__resume-btn--selected`,
		`.jobs-resume-picker__resume-btn`,
		`label[class*="jobs-document-upload"] input[type="radio"]`,
	}}
	linkedinResumeInput = locator.Descriptor{Name: "resume", Patterns: []string{
		`input[id*="jobsDocumentCardUpload"][type="file"]`,
		`input[name="file"][type="file"]`,
		`input[type="file"]`,
	}}
	linkedinQuestions = locator.Descriptor{Name: "question_groupings", Patterns: []string{
		`.jobs-easy-apply-form-section__grouping`,
		`.fb-dash-form-element`,
		`div[data-test-form-element]`,
	}}
)

// LinkedIn fills the Easy Apply modal. The modal is a multi-step wizard; Fill
// handles the currently visible step only, and the caller advances steps and
// calls Fill again. Progress tracking reads the wizard's "N of M" indicator
// when present.
type LinkedIn struct {
	page      dom.Page
	cfg       Config
	log       *zap.Logger
	processed map[string]bool
}

// NewLinkedIn builds the LinkedIn adapter for the page.
func NewLinkedIn(page dom.Page, cfg Config, log *zap.Logger) *LinkedIn {
	if log == nil {
		log = zap.NewNop()
	}
	return &LinkedIn{
		page:      page,
		cfg:       cfg.withDefaults(linkedinDefaults),
		log:       log.With(zap.String("platform", "linkedin")),
		processed: map[string]bool{},
	}
}

func (a *LinkedIn) Name() string { return "linkedin" }

// Fill waits for the modal to hydrate, reads progress, then fills the contact
// step fields, the resume step, and the generic question groupings. Every
// locator that misses is a silent skip; the visible step determines which
// descriptors actually resolve.
func (a *LinkedIn) Fill(profile *types.ProfileData) *types.FillResult {
	result := types.NewFillResult(a.Name(), uuid.NewString())
	defer guard(result, a.log)()

	s := newSession(a.page, a.cfg, profile, result, a.processed, a.log)

	modal := s.loc.WaitFor(linkedinModal, a.cfg.LoadTimeout, a.cfg.PollInterval)
	if modal == nil {
		result.AddError(types.ErrorTimeout, linkedinModal.Name,
			"easy apply modal did not appear within the load bound; proceeding against the page")
	}

	if progress, ok := a.Progress(); ok {
		a.log.Info("easy apply step",
			zap.Int("step", progress.Step),
			zap.Int("total", progress.Total))
	}

	// Contact step. Email is usually a select over verified addresses; a
	// plain input is the fallback.
	s.fillSelectField(linkedinEmailSelect, s.data.Get("email"))
	if !result.Filled("email") {
		s.fillIdentityField(linkedinEmailInput, s.data.Get("email"), "email")
	}
	s.fillSelectField(linkedinPhoneCountry, s.data.Get("country"))
	s.fillIdentityField(linkedinPhone, s.data.Get("phone"), "tel")

	a.fillResumeStep(s)

	s.processQuestions(questionSpec{
		containers: linkedinQuestions,
		labelSel:   `label, legend, .fb-dash-form-element__label`,
		dropdown: dropdownSpec{
			triggerSel: `input[role="combobox"]`,
			search:     `input[role="combobox"][aria-expanded="true"]`,
			options:    `.basic-typeahead__selectable, .basic-typeahead__triggered-content li`,
		},
	})

	return result
}

// fillResumeStep prefers an already-uploaded resume card over a fresh upload:
// selecting an existing document is cheaper and skips re-parsing.
func (a *LinkedIn) fillResumeStep(s *session) {
	if card := locator.Visible(s.loc.Resolve(linkedinResumeCard)); card != nil {
		if !s.markProcessed(card) {
			return
		}
		if err := card.Click(); err != nil {
			s.result.AddError(types.ErrorFillWrite, linkedinResumeCard.Name, err.Error())
			return
		}
		s.result.AddField(linkedinResumeCard.Name, "resume_card", "")
		return
	}
	s.uploadResume(linkedinResumeInput)
}

// Progress reads the wizard's step indicator. Returns false when the
// indicator is absent or unparseable; callers keep zero defaults.
func (a *LinkedIn) Progress() (state.Progress, bool) {
	loc := locator.New(a.page, a.log)
	el := loc.Resolve(linkedinProgress)
	if el == nil {
		return state.Progress{}, false
	}
	if v, err := el.Attr("aria-valuetext"); err == nil {
		if p, ok := state.ParseProgress(v); ok {
			return p, true
		}
	}
	text, err := el.Text()
	if err != nil {
		return state.Progress{}, false
	}
	return state.ParseProgress(text)
}

// ExtractJobDetails reads the unified top card on the job view behind the
// modal.
func (a *LinkedIn) ExtractJobDetails() (*types.JobDetails, error) {
	details := &types.JobDetails{URL: a.page.URL()}

	details.Title = firstText(a.page,
		`.job-details-jobs-unified-top-card__job-title`,
		`.jobs-unified-top-card__job-title`,
		`h1`,
	)
	details.Company = firstText(a.page,
		`.job-details-jobs-unified-top-card__company-name a`,
		`.job-details-jobs-unified-top-card__company-name`,
		`.jobs-unified-top-card__company-name`,
	)
	details.Location = firstText(a.page,
		`.job-details-jobs-unified-top-card__primary-description-container .tvm__text`,
		`.jobs-unified-top-card__bullet`,
	)
	details.Description = firstText(a.page,
		`#job-details`,
		`.jobs-description__content`,
	)
	details.PostedDate = firstText(a.page,
		`.jobs-unified-top-card__posted-date`,
		`span[class*="posted-time-ago"]`,
	)

	return details, nil
}
