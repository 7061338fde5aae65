// Package logging persists assignment decisions for later analysis. Two
// backends are provided: an append-only JSONL file and a SQLite database.
package logging

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LogRecord captures one assignment decision and its outcome.
type LogRecord struct {
	ID            uuid.UUID `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	JobID         string    `json:"job_id"`
	UnitID        string    `json:"unit_id"`
	District      string    `json:"district"`
	Priority      int       `json:"priority"`
	InIsochrone   bool      `json:"in_isochrone"`
	TravelSeconds int       `json:"travel_seconds"`
	IdleSeconds   int64     `json:"idle_seconds"`
	Compliant     bool      `json:"compliant"`
}

// LogQuery defines filters for retrieving records. Zero-valued fields match
// everything.
type LogQuery struct {
	Start    time.Time
	End      time.Time
	UnitID   string
	District string
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}
