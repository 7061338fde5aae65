package sim

import (
	"fmt"
	"time"
)

// Config holds the simulation parameters.
type Config struct {
	// ComplianceSeconds is the maximum travel + idle time before a job is
	// counted non-compliant. It is also the isochrone travel budget.
	ComplianceSeconds int `json:"compliance_seconds"`
	// ShiftStart is the daily roster refresh time of day, formatted HH:MM.
	ShiftStart string `json:"shift_start"`
	// DistanceCap bounds straight-line candidate distance during matching.
	DistanceCap float64 `json:"distance_cap"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ComplianceSeconds == 0 {
		c.ComplianceSeconds = 1800
	}
	if c.ShiftStart == "" {
		c.ShiftStart = "07:00"
	}
	if c.DistanceCap == 0 {
		c.DistanceCap = 200.0
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.ComplianceSeconds <= 0 {
		return fmt.Errorf("compliance_seconds must be positive")
	}
	if _, err := c.shiftStart(); err != nil {
		return err
	}
	if c.DistanceCap <= 0 {
		return fmt.Errorf("distance_cap must be positive")
	}
	return nil
}

// shiftStart parses ShiftStart into an offset from midnight.
func (c Config) shiftStart() (time.Duration, error) {
	t, err := time.Parse("15:04", c.ShiftStart)
	if err != nil {
		return 0, fmt.Errorf("invalid shift_start %q: %w", c.ShiftStart, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
