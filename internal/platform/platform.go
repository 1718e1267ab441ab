// Package platform orchestrates locator, classifier, filler and state
// detection into a deterministic fill sequence per ATS platform. Adapters are
// the only components with platform-specific knowledge; everything below them
// is generic.
package platform

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hirehand/formfill/internal/dom"
	"github.com/hirehand/formfill/internal/types"
)

// Adapter fills one platform's application form.
//
// Fill is not safe to invoke concurrently on the same document: the processed
// side table is the only mutual-exclusion mechanism and it only prevents
// re-processing after a pass completed. Callers must serialize Fill per
// document.
type Adapter interface {
	// Name identifies the platform ("lever", "linkedin", "workday").
	Name() string
	// Fill executes the platform's fixed fill sequence and always returns a
	// well-formed result; it never panics out of the engine.
	Fill(profile *types.ProfileData) *types.FillResult
	// ExtractJobDetails reads the job posting summary without mutating the
	// document.
	ExtractJobDetails() (*types.JobDetails, error)
}

// Config tunes the bounded waits of an adapter. Zero fields take the
// platform's own defaults; waiting is an optimization, never a correctness
// gate, so every bound is a ceiling the fill proceeds past.
type Config struct {
	// LoadTimeout bounds the initial hydration/loading wait.
	LoadTimeout time.Duration
	// PollInterval is the fixed interval between poll attempts.
	PollInterval time.Duration
	// OverlayTimeout bounds waiting for a parsing overlay to appear or clear.
	OverlayTimeout time.Duration
	// DropdownSettle is the fixed delay between opening a custom dropdown and
	// scanning its rendered options.
	DropdownSettle time.Duration
	// ParseSettle is the delay after a parsing overlay clears before
	// dependent fields are trusted.
	ParseSettle time.Duration
}

func (c Config) withDefaults(d Config) Config {
	if c.LoadTimeout == 0 {
		c.LoadTimeout = d.LoadTimeout
	}
	if c.PollInterval == 0 {
		c.PollInterval = d.PollInterval
	}
	if c.OverlayTimeout == 0 {
		c.OverlayTimeout = d.OverlayTimeout
	}
	if c.DropdownSettle == 0 {
		c.DropdownSettle = d.DropdownSettle
	}
	if c.ParseSettle == 0 {
		c.ParseSettle = d.ParseSettle
	}
	return c
}

// UnsupportedPlatformError reports a page URL no adapter recognizes.
type UnsupportedPlatformError struct {
	URL string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("no adapter for %s", e.URL)
}

// Detect picks the adapter for the page by its hostname conventions.
func Detect(page dom.Page, cfg Config, log *zap.Logger) (Adapter, error) {
	host := hostnameOf(page.URL())
	switch {
	case strings.Contains(host, "lever.co"):
		return NewLever(page, cfg, log), nil
	case strings.Contains(host, "linkedin.com"):
		return NewLinkedIn(page, cfg, log), nil
	case strings.Contains(host, "myworkdayjobs.com") || strings.Contains(host, "workday"):
		return NewWorkday(page, cfg, log), nil
	default:
		return nil, &UnsupportedPlatformError{URL: page.URL()}
	}
}

func hostnameOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}
	return strings.ToLower(u.Hostname())
}
