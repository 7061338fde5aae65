// Package roster resolves which units are on duty for a given calendar day.
package roster

import (
	"time"

	"github.com/fieldops/dispatchsim/core/model"
)

// Roster supplies the units on duty for a calendar date.
type Roster interface {
	OnDuty(date time.Time) []*model.Unit
}

// Memory is a Roster backed by the ingested unit pool. Units with a zero duty
// date are treated as rostered every day.
type Memory struct {
	units []*model.Unit
}

// NewMemory creates a Memory roster over the given units.
func NewMemory(units []*model.Unit) *Memory {
	return &Memory{units: units}
}

// OnDuty returns the units rostered on the given date.
func (m *Memory) OnDuty(date time.Time) []*model.Unit {
	y, mo, d := date.Date()
	var out []*model.Unit
	for _, u := range m.units {
		if u.DutyDate.IsZero() {
			out = append(out, u)
			continue
		}
		uy, umo, ud := u.DutyDate.Date()
		if uy == y && umo == mo && ud == d {
			out = append(out, u)
		}
	}
	return out
}

// All returns every unit known to the roster, regardless of duty date.
func (m *Memory) All() []*model.Unit { return m.units }
