// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dhurleystratton/ocp-executive-discovery/internal/fetch"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via
// CLI flags.
type Config struct {
	// Input
	Organization string `json:"organization,omitempty"` // Organization legal name
	DBAName      string `json:"dba_name,omitempty"`     // "Doing business as" name, if different
	Domain       string `json:"domain,omitempty"`       // Known domain, skips search and validation
	Input        string `json:"input,omitempty"`        // Path to CSV of organizations for batch runs

	// Crawl behavior
	CacheDir       string  `json:"cache_dir,omitempty"`       // Page cache root directory
	TimeoutSeconds int     `json:"timeout_seconds,omitempty"` // Per-request timeout
	DelaySeconds   float64 `json:"delay_seconds,omitempty"`   // Minimum delay between requests to one domain
	UserAgent      string  `json:"user_agent,omitempty"`      // User-Agent header for crawl requests
	UseBrowser     bool    `json:"use_browser,omitempty"`     // Use headless browser for thin SPA pages

	// Pipeline behavior
	Workers      int    `json:"workers,omitempty"`       // Concurrent organizations in batch runs
	VerifyEmails bool   `json:"verify_emails,omitempty"` // Verify generated email patterns via DNS
	SMTPFrom     string `json:"smtp_from,omitempty"`     // Sender address for SMTP-level verification
	Verbose      bool   `json:"verbose,omitempty"`       // Print detailed progress information
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
	// Validate mutually exclusive fields
	if c.Organization != "" && c.Input != "" {
		return fmt.Errorf("config error: 'organization' and 'input' are mutually exclusive")
	}

	// Validate numeric ranges
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}
	if c.DelaySeconds < 0 {
		return fmt.Errorf("config error: 'delay_seconds' must be non-negative")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative")
	}

	// Validate file paths exist (if specified)
	if c.Input != "" {
		if _, err := os.Stat(c.Input); os.IsNotExist(err) {
			return fmt.Errorf("config error: input file not found: %s", c.Input)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Organization == "" {
		result.Organization = defaults.Organization
	}
	if result.DBAName == "" {
		result.DBAName = defaults.DBAName
	}
	if result.Domain == "" {
		result.Domain = defaults.Domain
	}
	if result.Input == "" {
		result.Input = defaults.Input
	}
	if result.CacheDir == "" {
		result.CacheDir = defaults.CacheDir
	}
	if result.UserAgent == "" {
		result.UserAgent = defaults.UserAgent
	}
	if result.SMTPFrom == "" {
		result.SMTPFrom = defaults.SMTPFrom
	}

	// Int fields: use default if zero
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}

	// Float fields
	if result.DelaySeconds == 0 {
		result.DelaySeconds = defaults.DelaySeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// FetchOptions maps the crawl-behavior fields onto fetch options. Zero-valued
// fields keep the fetch defaults.
func (c *Config) FetchOptions() *fetch.Options {
	opts := fetch.DefaultOptions()
	if c.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	if c.DelaySeconds > 0 {
		opts.Delay = time.Duration(c.DelaySeconds * float64(time.Second))
	}
	if c.UserAgent != "" {
		opts.UserAgent = c.UserAgent
	}
	return opts
}
