package dispatch

import (
	"fmt"
	"time"

	"github.com/fieldops/dispatchsim/core/model"
)

// Pools tracks unit availability. Every rostered unit is in exactly one of
// the available or busy pools at any tick.
type Pools struct {
	available []*model.Unit
	busy      []*model.Unit
}

// NewPools creates empty pools.
func NewPools() *Pools { return &Pools{} }

// SetRoster replaces the available pool with the given units. Busy units are
// untouched; they rejoin the available pool when their finish time passes.
func (p *Pools) SetRoster(units []*model.Unit) {
	p.available = append(p.available[:0:0], units...)
}

// Available returns the free units. The slice is shared; callers must not
// mutate it.
func (p *Pools) Available() []*model.Unit { return p.available }

// AvailableCount returns the number of free units.
func (p *Pools) AvailableCount() int { return len(p.available) }

// BusyCount returns the number of units currently committed to a job.
func (p *Pools) BusyCount() int { return len(p.busy) }

// MarkBusy moves a unit from the available to the busy pool. The unit's
// finish time must already be set.
func (p *Pools) MarkBusy(u *model.Unit) error {
	if u.Finish.IsZero() {
		return fmt.Errorf("unit %s has no finish time", u.ID)
	}
	for i, a := range p.available {
		if a == u {
			p.available = append(p.available[:i], p.available[i+1:]...)
			p.busy = append(p.busy, u)
			return nil
		}
	}
	return fmt.Errorf("unit %s is not in the available pool", u.ID)
}

// ReleaseFinished returns to the available pool every busy unit whose finish
// time equals now, clearing its finish time. Released units are collected
// during the scan and moved afterwards.
func (p *Pools) ReleaseFinished(now time.Time) []*model.Unit {
	var done []*model.Unit
	for _, u := range p.busy {
		if u.Finish.Equal(now) {
			done = append(done, u)
		}
	}
	for _, u := range done {
		u.Finish = time.Time{}
		for i, b := range p.busy {
			if b == u {
				p.busy = append(p.busy[:i], p.busy[i+1:]...)
				break
			}
		}
		p.available = append(p.available, u)
	}
	return done
}
