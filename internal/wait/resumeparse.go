package wait

import (
	"time"

	"go.uber.org/zap"
)

// ParseState is the progress of a platform's post-upload resume parsing
// overlay.
type ParseState int

const (
	// ParseNotStarted means no upload has happened yet.
	ParseNotStarted ParseState = iota
	// ParseUploaded means the upload succeeded and the overlay is awaited.
	ParseUploaded
	// ParsingVisible means the parsing overlay is on screen.
	ParsingVisible
	// ParsingCleared means the overlay left and the settle delay elapsed;
	// dependent fields can be trusted.
	ParsingCleared
	// ParseSkipped is terminal: the overlay never appeared within the bounded
	// poll, so dependent fields are filled best-effort.
	ParseSkipped
)

func (s ParseState) String() string {
	switch s {
	case ParseNotStarted:
		return "not_started"
	case ParseUploaded:
		return "uploaded"
	case ParsingVisible:
		return "parsing_visible"
	case ParsingCleared:
		return "parsing_cleared"
	case ParseSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// ResumeParseMachine tracks a platform's resume-parsing overlay after an
// upload. overlayVisible is probed under bounded polls; the machine never
// waits past its budgets.
type ResumeParseMachine struct {
	state          ParseState
	overlayVisible func() bool
	appearPoll     *Poller
	clearPoll      *Poller
	settle         time.Duration
	log            *zap.Logger
}

// NewResumeParseMachine builds the machine in ParseNotStarted.
func NewResumeParseMachine(overlayVisible func() bool, appearPoll, clearPoll *Poller, settle time.Duration, log *zap.Logger) *ResumeParseMachine {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResumeParseMachine{
		state:          ParseNotStarted,
		overlayVisible: overlayVisible,
		appearPoll:     appearPoll,
		clearPoll:      clearPoll,
		settle:         settle,
		log:            log,
	}
}

// State returns the current state.
func (m *ResumeParseMachine) State() ParseState { return m.state }

// MarkUploaded transitions NotStarted -> Uploaded after a successful upload.
func (m *ResumeParseMachine) MarkUploaded() {
	if m.state == ParseNotStarted {
		m.state = ParseUploaded
	}
}

// AwaitParsed drives the machine to a terminal state: ParsingCleared when the
// overlay appeared and left (plus settle delay), ParseSkipped when it never
// appeared within the bounded poll. Calling before MarkUploaded returns the
// current state unchanged.
func (m *ResumeParseMachine) AwaitParsed() ParseState {
	if m.state != ParseUploaded {
		return m.state
	}

	if !m.appearPoll.Until("resume parsing overlay", m.overlayVisible) {
		m.state = ParseSkipped
		m.log.Debug("parsing overlay never appeared; skipping parse wait")
		return m.state
	}
	m.state = ParsingVisible

	m.clearPoll.UntilGone("resume parsing overlay to clear", m.overlayVisible)
	m.clearPoll.Settle(m.settle)
	m.state = ParsingCleared
	m.log.Debug("resume parsing cleared")
	return m.state
}
