// Package locator resolves ordered candidate-pattern lists against a live
// document. Candidate order is a contract: structural, platform-specific
// patterns come first and generic attribute fallbacks last, so resolution
// stops at the most specific match.
package locator

import (
	"time"

	"go.uber.org/zap"

	"github.com/hirehand/formfill/internal/dom"
	"github.com/hirehand/formfill/internal/wait"
)

// Descriptor is the immutable fallback strategy for one logical field: an
// ordered list of selector patterns tried in declared order. Descriptors are
// defined statically per platform and never mutated at runtime.
type Descriptor struct {
	Name     string
	Patterns []string
}

// Locator resolves descriptors against one page.
type Locator struct {
	page dom.Page
	log  *zap.Logger
}

// New builds a locator for the page. A nil logger is replaced with a no-op
// logger.
func New(page dom.Page, log *zap.Logger) *Locator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Locator{page: page, log: log}
}

// Resolve tries each pattern in declared order and returns the first match,
// or nil when nothing matched. A malformed pattern is logged and skipped;
// it never aborts the rest of the candidate list.
func (l *Locator) Resolve(d Descriptor) dom.Element {
	for _, pattern := range d.Patterns {
		el, err := l.page.Query(pattern)
		if err != nil {
			l.log.Debug("skipping malformed pattern",
				zap.String("field", d.Name),
				zap.String("pattern", pattern),
				zap.Error(err))
			continue
		}
		if el != nil {
			return el
		}
	}
	return nil
}

// ResolveAll returns every match of the first pattern that matches anything,
// preserving document order. Later patterns are not merged in; the candidate
// list is a fallback chain, not a union.
func (l *Locator) ResolveAll(d Descriptor) []dom.Element {
	for _, pattern := range d.Patterns {
		els, err := l.page.QueryAll(pattern)
		if err != nil {
			l.log.Debug("skipping malformed pattern",
				zap.String("field", d.Name),
				zap.String("pattern", pattern),
				zap.Error(err))
			continue
		}
		if len(els) > 0 {
			return els
		}
	}
	return nil
}

// WaitFor repeats Resolve on a fixed interval until a match or the timeout.
// Returns nil on timeout; a timeout is a warning, never an error, and the
// caller proceeds without the element.
func (l *Locator) WaitFor(d Descriptor, timeout, pollInterval time.Duration) dom.Element {
	var found dom.Element
	poller := wait.ForTimeout(timeout, pollInterval, l.log)
	poller.Until(d.Name, func() bool {
		found = l.Resolve(d)
		return found != nil
	})
	return found
}

// Visible narrows an element to nil unless it is currently rendered.
func Visible(el dom.Element) dom.Element {
	if el == nil {
		return nil
	}
	if ok, err := el.Visible(); err != nil || !ok {
		return nil
	}
	return el
}
