package logging

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fieldops/dispatchsim/core/logger"
	"github.com/fieldops/dispatchsim/core/sim"
	"github.com/fieldops/dispatchsim/internal/eventbus"
)

// Open builds the log store selected by backend ("jsonl" or "sqlite").
func Open(backend, path string) (LogStore, error) {
	switch backend {
	case "jsonl":
		return NewJSONLStore(path)
	case "sqlite":
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown log store backend %q", backend)
	}
}

// StartCollector subscribes to the event bus and appends every assignment to
// the store. It stops when the context is canceled.
func StartCollector(ctx context.Context, bus eventbus.EventBus, store LogStore, log logger.Logger) {
	if bus == nil || store == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				e, ok := ev.(sim.AssignmentEvent)
				if !ok {
					continue
				}
				rec := LogRecord{
					ID:            uuid.New(),
					Timestamp:     e.Time,
					JobID:         e.JobID,
					UnitID:        e.UnitID,
					District:      e.District,
					Priority:      e.Priority,
					InIsochrone:   e.InIsochrone,
					TravelSeconds: e.TravelSeconds,
					IdleSeconds:   e.IdleSeconds,
					Compliant:     e.Compliant,
				}
				if err := store.Append(ctx, rec); err != nil && log != nil {
					log.Errorf("append assignment log: %v", err)
				}
			}
		}
	}()
}
