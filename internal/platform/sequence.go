package platform

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hirehand/formfill/internal/classify"
	"github.com/hirehand/formfill/internal/dom"
	"github.com/hirehand/formfill/internal/fill"
	"github.com/hirehand/formfill/internal/locator"
	"github.com/hirehand/formfill/internal/logger"
	"github.com/hirehand/formfill/internal/types"
)

// maxRecordedLabel bounds question labels stored in FillResult entries.
const maxRecordedLabel = 60

// session carries the per-invocation state of one Fill call. The processed
// side table is shared by reference from the adapter so markers survive for
// the whole document lifetime, not just one pass.
type session struct {
	page      dom.Page
	loc       *locator.Locator
	filler    *fill.Filler
	profile   *types.ProfileData
	data      types.DataMap
	result    *types.FillResult
	processed map[string]bool
	cfg       Config
	log       *zap.Logger
}

func newSession(page dom.Page, cfg Config, profile *types.ProfileData, result *types.FillResult, processed map[string]bool, log *zap.Logger) *session {
	return &session{
		page:      page,
		loc:       locator.New(page, log),
		filler:    fill.New(page, log),
		profile:   profile,
		data:      types.BuildDataMap(profile),
		result:    result,
		processed: processed,
		cfg:       cfg,
		log:       log,
	}
}

// guard catches an unexpected top-level failure and converts it into a
// general error on the result; Fill never panics out of the engine.
func guard(result *types.FillResult, log *zap.Logger) func() {
	return func() {
		if r := recover(); r != nil {
			log.Error("fill aborted by unexpected failure", zap.Any("panic", r))
			result.Fail(fmt.Sprintf("unexpected failure: %v", r))
		}
	}
}

// markProcessed claims a container for this document lifetime. Returns false
// when another pass already claimed it; the marker is set once and never
// cleared.
func (s *session) markProcessed(el dom.Element) bool {
	h := el.Handle()
	if s.processed[h] {
		return false
	}
	s.processed[h] = true
	return true
}

// fillIdentityField resolves the descriptor and writes the value only when
// the field is empty. Already-correct and user-edited values are never
// clobbered; a locator miss is a silent skip.
func (s *session) fillIdentityField(d locator.Descriptor, value, fieldType string) {
	if value == "" {
		return
	}
	el := s.loc.Resolve(d)
	if el == nil {
		return
	}
	wrote, err := s.filler.FillTextIfEmpty(el, value)
	if err != nil {
		s.result.AddError(types.ErrorFillWrite, d.Name, err.Error())
		return
	}
	if wrote {
		s.result.AddField(d.Name, fieldType, value)
	}
}

// fillSelectField resolves the descriptor to a native select and fills it
// unless it already holds a value.
func (s *session) fillSelectField(d locator.Descriptor, value string) {
	if value == "" {
		return
	}
	el := s.loc.Resolve(d)
	if el == nil {
		return
	}
	if current, err := el.Value(); err == nil && strings.TrimSpace(current) != "" {
		return
	}
	matched, err := s.filler.FillSelect(el, value)
	if err != nil {
		s.result.AddError(types.ErrorFillWrite, d.Name, err.Error())
		return
	}
	if matched {
		s.result.AddField(d.Name, "select", value)
	}
}

// fillLinkRows fills existing empty link inputs first, then drives an "add
// link" control to create rows for the remaining values. A missing add
// control stops the sequence gracefully.
func (s *session) fillLinkRows(inputs, addControl locator.Descriptor, values []string) {
	if len(values) == 0 {
		return
	}

	pending := s.pendingLinks(inputs, values)
	idx := 0
	for _, el := range s.loc.ResolveAll(inputs) {
		if idx >= len(pending) {
			return
		}
		if wrote := s.writeLink(el, inputs.Name, pending[idx]); wrote {
			idx++
		}
	}

	for idx < len(pending) {
		button := s.loc.Resolve(addControl)
		if button == nil {
			s.log.Debug("no add-link control; remaining links skipped",
				zap.Int("remaining", len(pending)-idx))
			return
		}
		if err := button.Click(); err != nil {
			s.result.AddError(types.ErrorFillWrite, addControl.Name, err.Error())
			return
		}
		row := s.lastEmptyLink(inputs)
		if row == nil {
			// The control did not produce a new row; stop rather than loop.
			return
		}
		if wrote := s.writeLink(row, inputs.Name, pending[idx]); !wrote {
			return
		}
		idx++
	}
}

// pendingLinks drops values some input already holds.
func (s *session) pendingLinks(inputs locator.Descriptor, values []string) []string {
	existing := map[string]bool{}
	for _, el := range s.loc.ResolveAll(inputs) {
		if v, err := el.Value(); err == nil && strings.TrimSpace(v) != "" {
			existing[strings.TrimSpace(v)] = true
		}
	}
	var pending []string
	for _, v := range values {
		if !existing[v] {
			pending = append(pending, v)
		}
	}
	return pending
}

func (s *session) lastEmptyLink(inputs locator.Descriptor) dom.Element {
	var last dom.Element
	for _, el := range s.loc.ResolveAll(inputs) {
		if v, err := el.Value(); err == nil && strings.TrimSpace(v) == "" {
			last = el
		}
	}
	return last
}

func (s *session) writeLink(el dom.Element, name, value string) bool {
	wrote, err := s.filler.FillTextIfEmpty(el, value)
	if err != nil {
		s.result.AddError(types.ErrorFillWrite, name, err.Error())
		return false
	}
	if wrote {
		s.result.AddField(name, "url", value)
	}
	return wrote
}

// uploadResume attempts a raw upload when resume bytes were supplied. Upload
// mechanism failures are recorded as the soft upload outcome; a manual upload
// remains possible.
func (s *session) uploadResume(d locator.Descriptor) bool {
	if !s.profile.HasResumeBytes() {
		return false
	}
	input := s.loc.Resolve(d)
	if input == nil {
		return false
	}
	if !s.markProcessed(input) {
		return false
	}
	if err := s.filler.UploadFile(input, s.profile.Resume.Data, s.profile.Resume.FileName); err != nil {
		var upErr *dom.UploadMechanismError
		if errors.As(err, &upErr) {
			s.result.AddError(types.ErrorUpload, d.Name, err.Error())
		} else {
			s.result.AddError(types.ErrorFillWrite, d.Name, err.Error())
		}
		return false
	}
	s.result.AddField(d.Name, "file", s.profile.Resume.FileName)
	return true
}

// noteAffordance records an "affordance found, not acted on" outcome for
// controls requiring human judgment, such as OAuth-gated resume imports. The
// engine never auto-triggers external authentication flows.
func (s *session) noteAffordance(d locator.Descriptor, message string) bool {
	el := s.loc.Resolve(d)
	if el == nil {
		return false
	}
	if !s.markProcessed(el) {
		return false
	}
	s.result.AddError(types.ErrorUpload, d.Name, message)
	s.log.Info("affordance found, not acted on", zap.String("field", d.Name))
	return true
}

// questionSpec tells the generic question pass where one platform keeps its
// label and controls inside a container, and how its custom dropdowns render.
type questionSpec struct {
	containers locator.Descriptor
	labelSel   string
	dropdown   dropdownSpec
}

type dropdownSpec struct {
	triggerSel string
	search     string
	options    string
}

// processQuestions iterates every question container exactly once, skipping
// already-processed containers, classifying by label text, and dispatching to
// the matching fill strategy. Per-field failures are recorded and never block
// subsequent containers.
func (s *session) processQuestions(spec questionSpec) {
	for _, container := range s.loc.ResolveAll(spec.containers) {
		if !s.markProcessed(container) {
			continue
		}
		label := s.containerLabel(container, spec.labelSel)
		if label == "" {
			continue
		}
		s.answerQuestion(container, label, spec)
	}
}

func (s *session) containerLabel(container dom.Element, labelSel string) string {
	label, err := container.Query(labelSel)
	if err != nil || label == nil {
		return ""
	}
	text, err := label.Text()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// answerQuestion derives the answer for the container's classification and
// writes it through the control kind found inside the container. Questions
// with no derivable answer are skipped silently.
func (s *session) answerQuestion(container dom.Element, label string, spec questionSpec) {
	answer, boolAnswer, category, ok := s.deriveAnswer(classify.Classify(label), label)
	if !ok {
		s.log.Debug("no answer for question", zap.String("label", recordedLabel(label)), zap.Stringer("category", category))
		return
	}
	s.log.Debug("answering question", zap.String("label", recordedLabel(label)), zap.Stringer("category", category))

	name := recordedLabel(label)
	isBool := category.Boolean()

	// The control kind drives the strategy: native select, radio group,
	// checkbox, custom dropdown trigger, then plain text inputs.
	if sel, err := container.Query("select"); err == nil && sel != nil {
		value := answer
		if isBool {
			value = yesNo(boolAnswer)
		}
		if current, err := sel.Value(); err == nil && strings.TrimSpace(current) != "" {
			return
		}
		matched, err := s.filler.FillSelect(sel, value)
		s.recordQuestion(name, "select", value, matched, err)
		return
	}

	if radios, err := container.QueryAll(`input[type="radio"]`); err == nil && len(radios) > 0 {
		if !isBool {
			return
		}
		selected, err := s.filler.SelectBooleanChoice(radios, boolAnswer)
		s.recordQuestion(name, "radio", yesNo(boolAnswer), selected, err)
		return
	}

	if category == classify.Consent {
		if box, err := container.Query(`input[type="checkbox"]`); err == nil && box != nil {
			clicked, err := s.filler.SetCheckbox(box, boolAnswer)
			s.recordQuestion(name, "checkbox", yesNo(boolAnswer), clicked, err)
			return
		}
	}

	if spec.dropdown.triggerSel != "" {
		if trigger, err := container.Query(spec.dropdown.triggerSel); err == nil && trigger != nil {
			value := answer
			if isBool {
				value = yesNo(boolAnswer)
			}
			matched, err := s.filler.FillCustomDropdown(trigger, fill.DropdownSpec{
				SearchSelector: spec.dropdown.search,
				OptionSelector: spec.dropdown.options,
				Settle:         s.cfg.DropdownSettle,
			}, value)
			s.recordQuestion(name, "dropdown", value, matched, err)
			return
		}
	}

	if ta, err := container.Query("textarea"); err == nil && ta != nil {
		value := answer
		if isBool {
			value = yesNo(boolAnswer)
		}
		wrote, err := s.filler.FillTextIfEmpty(ta, value)
		s.recordQuestion(name, "textarea", value, wrote, err)
		return
	}

	if input, err := container.Query(`input[type="text"], input[type="number"], input[type="tel"], input[type="email"], input[type="url"], input:not([type])`); err == nil && input != nil {
		value := answer
		if isBool {
			value = yesNo(boolAnswer)
		}
		wrote, err := s.filler.FillTextIfEmpty(input, value)
		s.recordQuestion(name, "text", value, wrote, err)
		return
	}
}

func (s *session) recordQuestion(name, fieldType, value string, wrote bool, err error) {
	if err != nil {
		s.result.AddError(types.ErrorFillWrite, name, err.Error())
		return
	}
	if wrote {
		s.result.AddField(name, fieldType, value)
	}
}

// deriveAnswer maps a classification to the profile value answering it. The
// returned category is the effective one: TemplateMatch when an answer
// template supplied the value. The template scan runs only for HearAboutUs
// and Unclassified labels, after every fixed category missed.
func (s *session) deriveAnswer(category classify.Category, label string) (answer string, boolAnswer bool, effective classify.Category, ok bool) {
	switch category {
	case classify.YearsExperience:
		v := s.data.Get("years_experience")
		return v, false, category, v != ""
	case classify.Salary:
		v := s.data.Get("salary")
		return v, false, category, v != ""
	case classify.Location:
		v := s.data.Get("location")
		return v, false, category, v != ""
	case classify.StartDate:
		v := s.data.Get("available_date")
		return v, false, category, v != ""
	case classify.WorkAuthorization:
		return "", s.profile.WorkAuthorization, category, true
	case classify.Sponsorship:
		return "", s.profile.RequiresSponsorship, category, true
	case classify.RemoteWork:
		return "", s.profile.OpenToRemote, category, true
	case classify.Relocation:
		return "", s.profile.WillingToRelocate, category, true
	case classify.Consent:
		// Consent boxes are acknowledged; anything stronger needs a template.
		return "", true, category, true
	case classify.CoverLetterText:
		v := s.profile.CoverLetter
		return v, false, category, v != ""
	case classify.HearAboutUs:
		if answer, found := classify.FindAnswerTemplate(label, s.profile.AnswerTemplates); found {
			return answer, false, classify.TemplateMatch, true
		}
		return "", false, category, false
	default:
		if answer, found := classify.FindAnswerTemplate(label, s.profile.AnswerTemplates); found {
			return answer, false, classify.TemplateMatch, true
		}
		return "", false, category, false
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// recordedLabel normalizes whitespace and bounds the label used as a result
// field name.
func recordedLabel(label string) string {
	return logger.TruncateForLog(strings.Join(strings.Fields(label), " "), maxRecordedLabel)
}
