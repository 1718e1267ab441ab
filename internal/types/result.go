package types

// ErrorType labels a recorded per-field or top-level failure inside a
// FillResult. The taxonomy is closed; callers switch on these values.
type ErrorType string

const (
	// ErrorLocatorMiss means no candidate pattern matched. Usually the field
	// is silently skipped; the type exists for the rare cases a miss is worth
	// surfacing (e.g. a required resume input).
	ErrorLocatorMiss ErrorType = "locator_miss"
	// ErrorFillWrite means a value assignment or event dispatch failed.
	ErrorFillWrite ErrorType = "fill_write"
	// ErrorUpload means the file-transfer mechanism was unavailable or threw.
	// A manual upload remains possible, so this is a soft outcome.
	ErrorUpload ErrorType = "upload"
	// ErrorTimeout means a bounded poll exhausted its budget and execution
	// proceeded with best-effort data.
	ErrorTimeout ErrorType = "timeout_warning"
	// ErrorGeneral means an unexpected top-level failure was caught at the
	// outermost boundary of a fill.
	ErrorGeneral ErrorType = "general"
)

// FilledField records one field that was actually written during a fill.
// Fields that were already correct or left untouched never appear here.
type FilledField struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// FillError records one non-fatal failure encountered during a fill.
type FillError struct {
	Type    ErrorType `json:"type"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}

// FillResult is the single output of one fill invocation. It accumulates
// monotonically while the fill runs and is returned, never thrown: per-field
// failures land in Errors without aborting sibling fields.
type FillResult struct {
	RunID        string        `json:"runId"`
	Platform     string        `json:"platform"`
	Success      bool          `json:"success"`
	FilledFields []FilledField `json:"filledFields"`
	Errors       []FillError   `json:"errors"`
}

// NewFillResult returns an empty result for the given platform and run ID.
// Success starts true; only a general failure flips it.
func NewFillResult(platform, runID string) *FillResult {
	return &FillResult{
		RunID:        runID,
		Platform:     platform,
		Success:      true,
		FilledFields: []FilledField{},
		Errors:       []FillError{},
	}
}

// AddField records a field write. Call only after the write succeeded.
func (r *FillResult) AddField(name, fieldType, value string) {
	r.FilledFields = append(r.FilledFields, FilledField{Name: name, Type: fieldType, Value: value})
}

// AddError records a non-fatal failure without affecting Success.
func (r *FillResult) AddError(t ErrorType, field, message string) {
	r.Errors = append(r.Errors, FillError{Type: t, Field: field, Message: message})
}

// Fail records a general failure and marks the result unsuccessful. Fields
// accumulated before the failure are kept.
func (r *FillResult) Fail(message string) {
	r.Success = false
	r.Errors = append(r.Errors, FillError{Type: ErrorGeneral, Message: message})
}

// Filled reports whether a field with the given name was written.
func (r *FillResult) Filled(name string) bool {
	for _, f := range r.FilledFields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// JobDetails is the read-only job posting summary extracted from a platform
// page. Extraction never mutates the document.
type JobDetails struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	PostedDate  string `json:"postedDate,omitempty"`
	JobType     string `json:"jobType,omitempty"`
	URL         string `json:"url,omitempty"`
}
