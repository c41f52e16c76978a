package remote

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultProgram is the academic program whose timetable is generated.
const DefaultProgram = "FYUP"

// Config defines how to reach the timetable service.
type Config struct {
	BaseURL        string `json:"base_url"`
	Program        string `json:"program"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8000"
	}
	if c.Program == "" {
		c.Program = DefaultProgram
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be http or https, got %q", c.BaseURL)
	}
	if c.Program == "" {
		return fmt.Errorf("program is required")
	}
	return nil
}

// Timeout returns the per-request timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MockConfig configures the local mock timetable service.
type MockConfig struct {
	Address string `json:"address"`
	// Seed is an optional JSON or YAML file with faculty and timetables.
	// The built-in sample is used when empty.
	Seed string `json:"seed"`
	// Fail lists pipeline steps that always answer with an error.
	Fail []string `json:"fail"`
}

// SetDefaults applies sane defaults.
func (c *MockConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8000"
	}
}
