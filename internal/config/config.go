// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Profile string `json:"profile,omitempty"` // Path to profile JSON file
	Page    string `json:"page,omitempty"`    // Path to a saved HTML page (dry-run input)

	// Target
	JobURL   string `json:"job_url,omitempty"`  // Application page URL
	Platform string `json:"platform,omitempty"` // Force a platform instead of detecting from the URL

	// Behavior
	Headless bool `json:"headless,omitempty"` // Run the browser headless
	DryRun   bool `json:"dry_run,omitempty"`  // Fill a saved page in memory instead of a live browser
	Verbose  bool `json:"verbose,omitempty"`  // Print the boxed fill report
	Debug    bool `json:"debug,omitempty"`    // Log per-selector resolution detail
	LogJSON  bool `json:"log_json,omitempty"` // Emit JSON logs instead of console encoding

	// Wait bounds, in milliseconds. Zero keeps the platform default.
	LoadTimeoutMS    int `json:"load_timeout_ms,omitempty"`
	PollIntervalMS   int `json:"poll_interval_ms,omitempty"`
	OverlayTimeoutMS int `json:"overlay_timeout_ms,omitempty"`
	DropdownSettleMS int `json:"dropdown_settle_ms,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.JobURL != "" && c.Page != "" {
		return fmt.Errorf("config error: 'job_url' and 'page' are mutually exclusive")
	}

	if c.LoadTimeoutMS < 0 || c.PollIntervalMS < 0 || c.OverlayTimeoutMS < 0 || c.DropdownSettleMS < 0 {
		return fmt.Errorf("config error: wait bounds must be non-negative")
	}

	if c.Profile != "" {
		if _, err := os.Stat(c.Profile); os.IsNotExist(err) {
			return fmt.Errorf("config error: profile file not found: %s", c.Profile)
		}
	}

	if c.Page != "" {
		if _, err := os.Stat(c.Page); os.IsNotExist(err) {
			return fmt.Errorf("config error: page file not found: %s", c.Page)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Profile == "" {
		result.Profile = defaults.Profile
	}
	if result.Page == "" {
		result.Page = defaults.Page
	}
	if result.JobURL == "" {
		result.JobURL = defaults.JobURL
	}
	if result.Platform == "" {
		result.Platform = defaults.Platform
	}

	// Int fields: use default if zero
	if result.LoadTimeoutMS == 0 {
		result.LoadTimeoutMS = defaults.LoadTimeoutMS
	}
	if result.PollIntervalMS == 0 {
		result.PollIntervalMS = defaults.PollIntervalMS
	}
	if result.OverlayTimeoutMS == 0 {
		result.OverlayTimeoutMS = defaults.OverlayTimeoutMS
	}
	if result.DropdownSettleMS == 0 {
		result.DropdownSettleMS = defaults.DropdownSettleMS
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LoadTimeout converts the millisecond override into a duration, zero when unset.
func (c *Config) LoadTimeout() time.Duration { return time.Duration(c.LoadTimeoutMS) * time.Millisecond }

// PollInterval converts the millisecond override into a duration, zero when unset.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// OverlayTimeout converts the millisecond override into a duration, zero when unset.
func (c *Config) OverlayTimeout() time.Duration {
	return time.Duration(c.OverlayTimeoutMS) * time.Millisecond
}

// DropdownSettle converts the millisecond override into a duration, zero when unset.
func (c *Config) DropdownSettle() time.Duration {
	return time.Duration(c.DropdownSettleMS) * time.Millisecond
}
