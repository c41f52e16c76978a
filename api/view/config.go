package view

import (
	"fmt"

	"github.com/kilianp07/timetable/core/model"
)

// Config configures the served page.
type Config struct {
	Address  string   `json:"address"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Slots    []string `json:"slots"`
	// RefreshSeconds is the page reload interval while a run is in progress.
	RefreshSeconds int `json:"refresh_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.Title == "" {
		c.Title = "AI Timetable Generator"
	}
	if c.Subtitle == "" {
		c.Subtitle = "Teacher-wise Provisional Allotment"
	}
	if len(c.Slots) == 0 {
		c.Slots = append([]string(nil), model.DefaultSlots...)
	}
	if c.RefreshSeconds <= 0 {
		c.RefreshSeconds = 2
	}
}

// Validate rejects an empty or duplicated slot axis.
func (c Config) Validate() error {
	if len(c.Slots) == 0 {
		return fmt.Errorf("at least one slot is required")
	}
	seen := make(map[string]bool, len(c.Slots))
	for _, s := range c.Slots {
		if s == "" {
			return fmt.Errorf("empty slot label")
		}
		if seen[s] {
			return fmt.Errorf("duplicate slot %q", s)
		}
		seen[s] = true
	}
	return nil
}
