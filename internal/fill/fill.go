// Package fill writes values into resolved form elements. Every strategy is
// single-attempt: a failure is reported to the caller for recording and never
// retried, and no strategy touches more than the elements it was handed.
package fill

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hirehand/formfill/internal/dom"
)

// Filler executes write strategies against one page.
type Filler struct {
	page  dom.Page
	log   *zap.Logger
	sleep func(time.Duration)
}

// New builds a filler for the page. A nil logger is replaced with a no-op
// logger.
func New(page dom.Page, log *zap.Logger) *Filler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Filler{page: page, log: log, sleep: time.Sleep}
}

// FillText assigns the value and lets the element dispatch input, change and
// blur notifications so the host framework re-renders and validates.
func (f *Filler) FillText(el dom.Element, value string) error {
	if err := el.SetValue(value); err != nil {
		return &WriteError{Message: "text assignment failed", Cause: err}
	}
	return nil
}

// FillTextIfEmpty writes only when the element is empty. An element that
// already holds the desired value is already correct; one holding anything
// else is user-edited data and is never clobbered. Returns whether a write
// happened.
func (f *Filler) FillTextIfEmpty(el dom.Element, value string) (bool, error) {
	current, err := el.Value()
	if err != nil {
		return false, &WriteError{Message: "cannot read current value", Cause: err}
	}
	if strings.TrimSpace(current) != "" {
		return false, nil
	}
	if err := f.FillText(el, value); err != nil {
		return false, err
	}
	return true, nil
}

// FillSelect matches value against a native select's options in three tiers,
// first success wins: exact case-insensitive match on option value or display
// text, then bidirectional substring match, then a numeric-range parse of the
// option text. Within a tier the first satisfying option in document order is
// taken; that ordering dependency is intentional and preserved.
func (f *Filler) FillSelect(el dom.Element, value string) (bool, error) {
	opts, err := el.Options()
	if err != nil {
		return false, &WriteError{Message: "cannot read select options", Cause: err}
	}
	if len(opts) == 0 || strings.TrimSpace(value) == "" {
		return false, nil
	}

	want := strings.ToLower(strings.TrimSpace(value))

	// Tier 1: exact match on value or text.
	for _, opt := range opts {
		if strings.EqualFold(strings.TrimSpace(opt.Value), strings.TrimSpace(value)) ||
			strings.EqualFold(strings.TrimSpace(opt.Text), strings.TrimSpace(value)) {
			return true, f.selectOption(el, opt)
		}
	}

	// Tier 2: bidirectional substring.
	for _, opt := range opts {
		if isPlaceholderOption(opt) {
			continue
		}
		text := strings.ToLower(strings.TrimSpace(opt.Text))
		if text == "" {
			continue
		}
		if strings.Contains(text, want) || strings.Contains(want, text) {
			return true, f.selectOption(el, opt)
		}
	}

	// Tier 3: numeric range containment, e.g. target 4 inside "3-5 years".
	if target, ok := parseNumber(value); ok {
		for _, opt := range opts {
			if lo, hi, ok := parseRange(opt.Text); ok && target >= lo && target <= hi {
				return true, f.selectOption(el, opt)
			}
		}
	}

	return false, nil
}

func (f *Filler) selectOption(el dom.Element, opt dom.SelectOpt) error {
	if err := el.SelectOption(opt.Value); err != nil {
		return &WriteError{Message: fmt.Sprintf("cannot select option %q", opt.Value), Cause: err}
	}
	return nil
}

func isPlaceholderOption(opt dom.SelectOpt) bool {
	if strings.TrimSpace(opt.Value) != "" {
		return false
	}
	text := strings.ToLower(opt.Text)
	return text == "" || strings.Contains(text, "select") || strings.Contains(text, "choose")
}

// DropdownSpec configures FillCustomDropdown for one platform's widget.
type DropdownSpec struct {
	// SearchSelector locates an optional type-ahead box rendered after the
	// widget opens. Page-scoped.
	SearchSelector string
	// OptionSelector locates the rendered options. Page-scoped, because most
	// widgets portal their option list outside the trigger's subtree.
	OptionSelector string
	// Settle is the fixed delay between opening/typing and scanning options.
	Settle time.Duration
}

// FillCustomDropdown opens a non-native dropdown widget, optionally types
// into its search box, waits the settle delay, and clicks the first rendered
// option matching value by bidirectional case-insensitive substring. When no
// option matches, the widget is closed again and (false, nil) is returned:
// an explicit no-op, not an error.
func (f *Filler) FillCustomDropdown(trigger dom.Element, spec DropdownSpec, value string) (bool, error) {
	if strings.TrimSpace(value) == "" {
		return false, nil
	}
	if err := trigger.Click(); err != nil {
		return false, &WriteError{Message: "cannot open dropdown", Cause: err}
	}

	if spec.SearchSelector != "" {
		if search, err := f.page.Query(spec.SearchSelector); err == nil && search != nil {
			if err := search.SetValue(value); err != nil {
				f.log.Debug("dropdown search box rejected input", zap.Error(err))
			}
		}
	}

	f.sleep(spec.Settle)

	options, err := f.page.QueryAll(spec.OptionSelector)
	if err != nil {
		return false, &WriteError{Message: "cannot scan dropdown options", Cause: err}
	}

	want := strings.ToLower(strings.TrimSpace(value))
	for _, opt := range options {
		text, err := opt.Text()
		if err != nil {
			continue
		}
		have := strings.ToLower(strings.TrimSpace(text))
		if have == "" {
			continue
		}
		if strings.Contains(have, want) || strings.Contains(want, have) {
			if err := opt.Click(); err != nil {
				return false, &WriteError{Message: "option click failed", Cause: err}
			}
			return true, nil
		}
	}

	// Nothing matched: close the widget without selecting anything.
	_ = trigger.Click()
	return false, nil
}

var (
	yesVocabulary = []string{"yes", "true", "1"}
	noVocabulary  = []string{"no", "false", "0"}
)

// SelectBooleanChoice activates the first radio whose polarity, derived from
// its value attribute or associated label, matches desired. A group with no
// classifiable radio is left untouched and (false, nil) is returned.
func (f *Filler) SelectBooleanChoice(radios []dom.Element, desired bool) (bool, error) {
	for _, radio := range radios {
		polarity, ok := f.radioPolarity(radio)
		if !ok || polarity != desired {
			continue
		}
		if err := radio.Click(); err != nil {
			return false, &WriteError{Message: "radio activation failed", Cause: err}
		}
		return true, nil
	}
	return false, nil
}

// radioPolarity derives yes/no from the value attribute, then the aria-label,
// then the label element associated via the radio's id.
func (f *Filler) radioPolarity(radio dom.Element) (bool, bool) {
	if v, err := radio.Attr("value"); err == nil {
		if polarity, ok := classifyPolarity(v); ok {
			return polarity, true
		}
	}
	if v, err := radio.Attr("aria-label"); err == nil {
		if polarity, ok := classifyPolarity(v); ok {
			return polarity, true
		}
	}
	if id, err := radio.Attr("id"); err == nil && id != "" {
		if label, err := f.page.Query(fmt.Sprintf(`label[for=%q]`, id)); err == nil && label != nil {
			if text, err := label.Text(); err == nil {
				if polarity, ok := classifyPolarity(text); ok {
					return polarity, true
				}
			}
		}
	}
	return false, false
}

func classifyPolarity(s string) (bool, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, yes := range yesVocabulary {
		if norm == yes {
			return true, true
		}
	}
	for _, no := range noVocabulary {
		if norm == no {
			return false, true
		}
	}
	return false, false
}

// SetCheckbox clicks the checkbox when its checked state differs from
// desired. Returns whether a click happened.
func (f *Filler) SetCheckbox(el dom.Element, desired bool) (bool, error) {
	current, err := el.Checked()
	if err != nil {
		return false, &WriteError{Message: "cannot read checkbox state", Cause: err}
	}
	if current == desired {
		return false, nil
	}
	if err := el.Click(); err != nil {
		return false, &WriteError{Message: "checkbox click failed", Cause: err}
	}
	return true, nil
}

// UploadFile attaches the bytes to a file input through the host's
// file-transfer mechanism and fires the change/input notifications. The
// returned error, when non-nil, is a dom.UploadMechanismError: the mechanism
// was unavailable, and a manual upload remains possible.
func (f *Filler) UploadFile(input dom.Element, data []byte, fileName string) error {
	return input.SetFiles(fileName, data)
}
