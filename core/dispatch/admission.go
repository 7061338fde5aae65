package dispatch

import (
	"time"

	"github.com/fieldops/dispatchsim/core/logger"
	"github.com/fieldops/dispatchsim/core/model"
)

// Admission moves jobs from the backlog pool into the active queue as they
// come due. Jobs arriving while no unit is free wait in a FIFO idle backlog;
// at most one idle job is promoted into the active queue per tick, which
// throttles the burst released when units free up again.
type Admission struct {
	pool  []*model.Job
	idle  []*model.Job
	queue *JobQueue
	log   logger.Logger
}

// NewAdmission creates an admission controller over the given backlog pool.
// The pool slice is owned by the controller after the call.
func NewAdmission(pool []*model.Job, queue *JobQueue, log logger.Logger) *Admission {
	return &Admission{pool: pool, queue: queue, log: log}
}

// PoolLen returns the number of jobs still waiting in the backlog pool.
func (a *Admission) PoolLen() int { return len(a.pool) }

// IdleLen returns the number of jobs parked in the idle backlog.
func (a *Admission) IdleLen() int { return len(a.idle) }

// Tick processes admissions for the current second. availableUnits is the
// number of free units sampled at the start of the tick. It returns the job
// promoted from the idle backlog this tick, if any.
func (a *Admission) Tick(now time.Time, availableUnits int) *model.Job {
	var promoted *model.Job
	if availableUnits > 0 && len(a.idle) > 0 {
		promoted = a.idle[0]
		a.idle = a.idle[1:]
		promoted.IdleSeconds = int64(now.Sub(promoted.Created) / time.Second)
		a.queue.Push(promoted)
		a.log.Infof("job %s promoted from idle backlog after %ds", promoted.ID, promoted.IdleSeconds)
	}

	// Collect due jobs first, then apply moves, so the pool is not
	// mutated mid-scan.
	var due []*model.Job
	for _, j := range a.pool {
		if !j.Created.After(now) {
			due = append(due, j)
		}
	}
	for _, j := range due {
		switch {
		case availableUnits == 0:
			a.removeFromPool(j)
			a.idle = append(a.idle, j)
			a.log.Infof("job %s arrived with no free units, parked in idle backlog", j.ID)
		case promoted != nil || len(a.idle) > 0:
			// An idle job took this tick's admission slot; the new
			// arrival stays pooled and is reconsidered next tick.
		default:
			a.removeFromPool(j)
			a.queue.Push(j)
		}
	}
	return promoted
}

// IdleJobs returns the jobs still parked in the idle backlog, in FIFO order.
func (a *Admission) IdleJobs() []*model.Job {
	out := make([]*model.Job, len(a.idle))
	copy(out, a.idle)
	return out
}

func (a *Admission) removeFromPool(j *model.Job) {
	for i, p := range a.pool {
		if p == j {
			a.pool = append(a.pool[:i], a.pool[i+1:]...)
			return
		}
	}
}
