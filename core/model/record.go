package model

import (
	"time"

	"github.com/google/uuid"
)

// CompletedJobRecord is an immutable snapshot pairing a finished job with the
// unit that serviced it. Exactly one record is created per completed job.
type CompletedJobRecord struct {
	ID          uuid.UUID
	Job         *Job
	Unit        *Unit
	CompletedAt time.Time
}

// NewCompletedJobRecord snapshots the given job and unit at completion time.
func NewCompletedJobRecord(j *Job, u *Unit, at time.Time) CompletedJobRecord {
	return CompletedJobRecord{ID: uuid.New(), Job: j, Unit: u, CompletedAt: at}
}
