package sim

import (
	"time"

	"github.com/fieldops/dispatchsim/core/model"
)

// AssignmentEvent is published when a job is matched to a unit.
type AssignmentEvent struct {
	JobID         string
	UnitID        string
	District      string
	Priority      int
	InIsochrone   bool
	TravelSeconds int
	IdleSeconds   int64
	Compliant     bool
	Time          time.Time
}

// CompletionEvent is published when a job finishes and its record is created.
type CompletionEvent struct {
	Record model.CompletedJobRecord
	Time   time.Time
}

// RosterEvent is published on each daily roster refresh.
type RosterEvent struct {
	Date  time.Time
	Units int
}
