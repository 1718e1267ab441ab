package dom

import "fmt"

// UploadMechanismError represents a failure of the host's file-transfer
// mechanism. A manual upload by the user remains possible.
type UploadMechanismError struct {
	Message string
	Cause   error
}

func (e *UploadMechanismError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upload error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("upload error: %s", e.Message)
}

func (e *UploadMechanismError) Unwrap() error {
	return e.Cause
}

// SelectorError represents a selector the document host rejected as
// malformed. Locators catch and skip these.
type SelectorError struct {
	Selector string
	Cause    error
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("malformed selector %q: %v", e.Selector, e.Cause)
}

func (e *SelectorError) Unwrap() error {
	return e.Cause
}
