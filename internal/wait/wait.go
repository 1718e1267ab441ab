// Package wait provides the bounded poll/retry primitive the engine uses for
// asynchronously rendered content. A poll always runs to its own ceiling and
// never blocks the fill indefinitely: exhausting the budget is logged and the
// caller proceeds with best-effort data.
package wait

import (
	"time"

	"go.uber.org/zap"
)

// Poller repeats a condition at a fixed interval up to a hard attempt
// ceiling. Sleeps are cooperative suspensions; the host document keeps
// rendering between attempts.
type Poller struct {
	Interval    time.Duration
	MaxAttempts int

	log *zap.Logger
	// sleep is swappable in tests.
	sleep func(time.Duration)
}

// NewPoller builds a poller with the given bounds. A nil logger is replaced
// with a no-op logger.
func NewPoller(interval time.Duration, maxAttempts int, log *zap.Logger) *Poller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{Interval: interval, MaxAttempts: maxAttempts, log: log, sleep: time.Sleep}
}

// ForTimeout derives a poller whose attempt ceiling approximates the given
// total timeout at the given interval.
func ForTimeout(timeout, interval time.Duration, log *zap.Logger) *Poller {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	attempts := int(timeout / interval)
	if attempts < 1 {
		attempts = 1
	}
	return NewPoller(interval, attempts, log)
}

// Until polls cond until it returns true or the attempt budget is spent.
// Returns false on timeout; the name only labels the timeout warning.
func (p *Poller) Until(name string, cond func() bool) bool {
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if cond() {
			return true
		}
		if attempt < p.MaxAttempts-1 {
			p.sleep(p.Interval)
		}
	}
	p.log.Warn("bounded poll exhausted, proceeding anyway",
		zap.String("waiting_for", name),
		zap.Int("attempts", p.MaxAttempts),
		zap.Duration("interval", p.Interval))
	return false
}

// UntilGone polls until cond returns false. Same bounds and timeout
// semantics as Until.
func (p *Poller) UntilGone(name string, cond func() bool) bool {
	return p.Until(name, func() bool { return !cond() })
}

// Settle sleeps for the fixed delay platforms need between a widget state
// change and the point its dependent content can be trusted.
func (p *Poller) Settle(d time.Duration) {
	if d > 0 {
		p.sleep(d)
	}
}
