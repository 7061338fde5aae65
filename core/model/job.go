package model

import (
	"fmt"
	"time"

	"github.com/fieldops/dispatchsim/core/geo"
)

// Job represents a single field service request. Category and activity codes
// are carried through untouched; only the scheduler-relevant fields are
// interpreted.
type Job struct {
	ID                  string
	Type                string
	Description         string
	IssueCode           string
	IssueDescription    string
	ActivityType        string
	ActivityDescription string

	Created         time.Time
	Priority        int // lower is more urgent
	DurationMinutes int

	// Address fields, consumed only by the geocoding collaborator.
	Suburb    string
	Street    string
	HouseNum1 string
	HouseNum2 string
	Postcode  string
	District  string

	// Derived during simulation.
	IdleSeconds   int64
	TravelSeconds int
	Compliant     bool
	End           time.Time // zero until the job is assigned
	Assigned      *Unit

	// Seq is the ingestion order, used to break priority ties.
	Seq int
}

// Address renders the job's street address for geocoding.
func (j *Job) Address() string {
	return fmt.Sprintf("%s %s, %s, NSW %s", j.HouseNum1, j.Street, j.Suburb, j.Postcode)
}

// Assign binds the job to a unit and fixes its travel time and end timestamp.
// The end timestamp is creation + work duration + travel + accumulated idle
// time. Assign may be called at most once per job.
func (j *Job) Assign(u *Unit, travelSeconds int) error {
	if j.Assigned != nil {
		return fmt.Errorf("job %s already assigned to unit %s", j.ID, j.Assigned.ID)
	}
	j.Assigned = u
	j.TravelSeconds = travelSeconds
	j.End = j.Created.
		Add(time.Duration(j.DurationMinutes) * time.Minute).
		Add(time.Duration(travelSeconds) * time.Second).
		Add(time.Duration(j.IdleSeconds) * time.Second)
	return nil
}

// Validate checks that the job can take part in a simulation.
func (j *Job) Validate() error {
	if j.ID == "" {
		return fmt.Errorf("job id is required")
	}
	if j.Created.IsZero() {
		return fmt.Errorf("job %s has no creation time", j.ID)
	}
	if j.DurationMinutes < 0 {
		return fmt.Errorf("job %s has negative duration", j.ID)
	}
	return nil
}

// Location is a convenience alias for the geocoded job position.
type Location = geo.Coordinate
