package fill

import "fmt"

// WriteError represents a failed assignment or notification dispatch. It is
// caught per field by the orchestration and recorded, never propagated as an
// abort.
type WriteError struct {
	Message string
	Cause   error
}

func (e *WriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fill write error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("fill write error: %s", e.Message)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}
