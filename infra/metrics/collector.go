package metrics

import (
	"context"

	coremetrics "github.com/fieldops/dispatchsim/core/metrics"
	"github.com/fieldops/dispatchsim/core/sim"
	"github.com/fieldops/dispatchsim/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// simulation events. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
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
				switch e := ev.(type) {
				case sim.AssignmentEvent:
					_ = sink.RecordAssignment(coremetrics.AssignmentRecord{
						JobID:         e.JobID,
						UnitID:        e.UnitID,
						District:      e.District,
						InIsochrone:   e.InIsochrone,
						Compliant:     e.Compliant,
						TravelSeconds: e.TravelSeconds,
						IdleSeconds:   e.IdleSeconds,
						Time:          e.Time,
					})
				case sim.CompletionEvent:
					if cr, ok := sink.(coremetrics.CompletionRecorder); ok {
						_ = cr.RecordCompletion(coremetrics.CompletionRecord{
							RecordID:      e.Record.ID.String(),
							JobID:         e.Record.Job.ID,
							UnitID:        e.Record.Unit.ID,
							TravelSeconds: e.Record.Job.TravelSeconds,
							Time:          e.Time,
						})
					}
				case sim.RosterEvent:
					if rr, ok := sink.(coremetrics.RosterRecorder); ok {
						_ = rr.RecordRosterSize(e.Units)
					}
				}
			}
		}
	}()
}
