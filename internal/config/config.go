// Package config provides centralized configuration for the transliteration
// suite. It loads configuration from CLI flags and environment variables,
// validates it, and provides sensible defaults.
//
// Every wait in the suite is bounded by one of the timeouts configured here;
// there is no unbounded block anywhere.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public transliteration site the suite drives.
	DefaultBaseURL = "https://www.easysinhalaunicode.com"

	// DefaultInputName is the accessible name of the text-entry textbox.
	DefaultInputName = "Singlish input"

	// DefaultOutputSelector is the CSS signature of the output region.
	DefaultOutputSelector = "div.translit-output"
)

// Config holds all suite configuration.
type Config struct {
	// Site under test
	BaseURL        string
	InputName      string // accessible name of the entry textbox
	OutputSelector string // CSS selector for the output region

	// Per-phase timeouts
	PageLoadTimeout time.Duration // navigation + locator visibility
	ClearSettle     time.Duration // pause after clearing the input
	SettleTimeout   time.Duration // settlement poll upper bound
	PollInterval    time.Duration // settlement poll step
	Pacing          time.Duration // delay between scenarios
	KeyDelay        time.Duration // inter-key delay for incremental typing

	// Browser
	Headed bool // run with a visible browser window

	// Mock flag (CLI runner only): drive a local stand-in site instead of BaseURL.
	Mock bool
}

// ValidationError represents a configuration validation error with multiple issues.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// ParseFlags parses CLI flags and returns them. Call before Load.
func ParseFlags() (mock, headed bool, baseURL string) {
	flag.BoolVar(&mock, "mock", false, "Drive a local mock transliteration site instead of the real one")
	flag.BoolVar(&headed, "headed", false, "Run the browser with a visible window")
	flag.StringVar(&baseURL, "base-url", "", "Site under test (overrides SINGLISH_E2E_BASE_URL)")
	flag.Parse()
	return mock, headed, baseURL
}

// Load loads configuration from environment variables and CLI flag values.
// The baseURL flag overrides the SINGLISH_E2E_BASE_URL env var if non-empty.
func Load(mock, headed bool, baseURL string) (*Config, error) {
	cfg := &Config{}

	cfg.Mock = mock
	cfg.Headed = headed

	cfg.BaseURL = getEnvOrDefault("SINGLISH_E2E_BASE_URL", DefaultBaseURL)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.InputName = getEnvOrDefault("SINGLISH_E2E_INPUT_NAME", DefaultInputName)
	cfg.OutputSelector = getEnvOrDefault("SINGLISH_E2E_OUTPUT_SELECTOR", DefaultOutputSelector)

	cfg.PageLoadTimeout = parseDurationOrDefault("SINGLISH_E2E_PAGE_LOAD_TIMEOUT", 15*time.Second)
	cfg.ClearSettle = parseDurationOrDefault("SINGLISH_E2E_CLEAR_SETTLE", 300*time.Millisecond)
	cfg.SettleTimeout = parseDurationOrDefault("SINGLISH_E2E_SETTLE_TIMEOUT", 10*time.Second)
	cfg.PollInterval = parseDurationOrDefault("SINGLISH_E2E_POLL_INTERVAL", 100*time.Millisecond)
	cfg.Pacing = parseDurationOrDefault("SINGLISH_E2E_PACING", 500*time.Millisecond)
	cfg.KeyDelay = parseDurationOrDefault("SINGLISH_E2E_KEY_DELAY", 80*time.Millisecond)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.BaseURL) == "" {
		errs = append(errs, "base URL is required (set SINGLISH_E2E_BASE_URL or --base-url)")
	} else if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		errs = append(errs, fmt.Sprintf("base URL %q must start with http:// or https://", c.BaseURL))
	}
	if strings.TrimSpace(c.InputName) == "" {
		errs = append(errs, "input accessible name is required (SINGLISH_E2E_INPUT_NAME)")
	}
	if strings.TrimSpace(c.OutputSelector) == "" {
		errs = append(errs, "output CSS selector is required (SINGLISH_E2E_OUTPUT_SELECTOR)")
	}

	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"SINGLISH_E2E_PAGE_LOAD_TIMEOUT", c.PageLoadTimeout},
		{"SINGLISH_E2E_CLEAR_SETTLE", c.ClearSettle},
		{"SINGLISH_E2E_SETTLE_TIMEOUT", c.SettleTimeout},
		{"SINGLISH_E2E_POLL_INTERVAL", c.PollInterval},
		{"SINGLISH_E2E_KEY_DELAY", c.KeyDelay},
	} {
		if d.value <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be positive", d.name))
		}
	}
	if c.Pacing < 0 {
		errs = append(errs, "SINGLISH_E2E_PACING must not be negative")
	}
	if c.PollInterval > 0 && c.SettleTimeout > 0 && c.PollInterval >= c.SettleTimeout {
		errs = append(errs, "SINGLISH_E2E_POLL_INTERVAL must be smaller than SINGLISH_E2E_SETTLE_TIMEOUT")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// PrintStartupSummary prints a human-readable summary of the configuration to stderr.
func (c *Config) PrintStartupSummary() {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "singlish-e2e starting...")
	if c.Mock {
		fmt.Fprintln(os.Stderr, "  Site:    local mock (--mock)")
	} else {
		fmt.Fprintf(os.Stderr, "  Site:    %s\n", c.BaseURL)
	}
	fmt.Fprintf(os.Stderr, "  Input:   textbox %q\n", c.InputName)
	fmt.Fprintf(os.Stderr, "  Output:  %s\n", c.OutputSelector)
	fmt.Fprintf(os.Stderr, "  Settle:  poll every %s, up to %s\n", c.PollInterval, c.SettleTimeout)
	fmt.Fprintf(os.Stderr, "  Pacing:  %s between scenarios\n", c.Pacing)
	if c.Headed {
		fmt.Fprintln(os.Stderr, "  Browser: headed (--headed)")
	} else {
		fmt.Fprintln(os.Stderr, "  Browser: headless")
	}
	fmt.Fprintln(os.Stderr, "")
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// MustLoad loads configuration and panics if validation fails.
// Use this in main() to fail fast on bad config.
func MustLoad(mock, headed bool, baseURL string) *Config {
	cfg, err := Load(mock, headed, baseURL)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			panic(fmt.Sprintf("Configuration validation failed:\n  - %s", strings.Join(validationErr.Errors, "\n  - ")))
		}
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}
	return cfg
}

// ForTesting returns a config tuned for driving a local mock site from tests:
// short timeouts, no pacing, headless.
func ForTesting(baseURL string) *Config {
	return &Config{
		BaseURL:         baseURL,
		InputName:       DefaultInputName,
		OutputSelector:  DefaultOutputSelector,
		PageLoadTimeout: 10 * time.Second,
		ClearSettle:     150 * time.Millisecond,
		SettleTimeout:   5 * time.Second,
		PollInterval:    50 * time.Millisecond,
		Pacing:          50 * time.Millisecond,
		KeyDelay:        20 * time.Millisecond,
	}
}
