package model

import (
	"fmt"
	"time"

	"github.com/fieldops/dispatchsim/core/geo"
)

// Unit represents a field technician resource able to service one job at a
// time. Availability is expressed by membership in the simulator's available
// and busy pools, never stored on the unit itself.
type Unit struct {
	ID       string
	Location geo.Coordinate
	District string

	// DutyDate is the calendar day the unit is rostered on.
	DutyDate time.Time

	// Finish is the time the unit becomes available again after an
	// assignment, including the return leg. Zero while idle.
	Finish time.Time

	// JobsToday collects the jobs the unit completed in the current
	// simulated day.
	JobsToday []*Job
}

// Validate checks that the unit configuration is sound.
func (u *Unit) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("unit id is required")
	}
	if u.Location.Lat < -90 || u.Location.Lat > 90 {
		return fmt.Errorf("unit %s latitude out of range", u.ID)
	}
	if u.Location.Lon < -180 || u.Location.Lon > 180 {
		return fmt.Errorf("unit %s longitude out of range", u.ID)
	}
	return nil
}

// Busy reports whether the unit currently has a committed finish time.
func (u *Unit) Busy() bool { return !u.Finish.IsZero() }
