package dispatch

import (
	"testing"
	"time"

	"github.com/fieldops/dispatchsim/infra/logger"

	"github.com/fieldops/dispatchsim/core/model"
)

var t0 = time.Date(2023, 5, 1, 7, 0, 0, 0, time.UTC)

func poolJob(id string, created time.Time) *model.Job {
	return &model.Job{ID: id, Created: created, DurationMinutes: 30}
}

func TestAdmission_DirectEntryWhenUnitsFree(t *testing.T) {
	q := NewJobQueue()
	a := NewAdmission([]*model.Job{poolJob("j1", t0)}, q, logger.NopLogger{})

	a.Tick(t0, 2)
	if q.Len() != 1 || a.PoolLen() != 0 || a.IdleLen() != 0 {
		t.Fatalf("expected direct admission, queue=%d pool=%d idle=%d", q.Len(), a.PoolLen(), a.IdleLen())
	}
	if q.Peek().IdleSeconds != 0 {
		t.Fatalf("directly admitted job must have zero idle time")
	}
}

func TestAdmission_ParkedWhenNoUnits(t *testing.T) {
	q := NewJobQueue()
	a := NewAdmission([]*model.Job{poolJob("j1", t0)}, q, logger.NopLogger{})

	a.Tick(t0, 0)
	if q.Len() != 0 || a.IdleLen() != 1 || a.PoolLen() != 0 {
		t.Fatalf("expected job parked in idle backlog, queue=%d idle=%d pool=%d", q.Len(), a.IdleLen(), a.PoolLen())
	}
}

func TestAdmission_SinglePromotionPerTick(t *testing.T) {
	q := NewJobQueue()
	pool := []*model.Job{
		poolJob("j1", t0),
		poolJob("j2", t0),
		poolJob("j3", t0.Add(10 * time.Second)),
	}
	a := NewAdmission(pool, q, logger.NopLogger{})

	// Both early jobs arrive while no unit is free.
	a.Tick(t0, 0)
	if a.IdleLen() != 2 {
		t.Fatalf("expected 2 idle jobs, got %d", a.IdleLen())
	}

	// Units free up: exactly one idle job may enter the queue per tick,
	// and the fresh arrival must keep waiting in the pool.
	promoted := a.Tick(t0.Add(10*time.Second), 3)
	if promoted == nil || promoted.ID != "j1" {
		t.Fatalf("expected j1 promoted first, got %+v", promoted)
	}
	if q.Len() != 1 || a.IdleLen() != 1 || a.PoolLen() != 1 {
		t.Fatalf("after first promotion: queue=%d idle=%d pool=%d", q.Len(), a.IdleLen(), a.PoolLen())
	}
	if promoted.IdleSeconds != 10 {
		t.Fatalf("promoted idle time = %d, want 10", promoted.IdleSeconds)
	}

	promoted = a.Tick(t0.Add(11*time.Second), 3)
	if promoted == nil || promoted.ID != "j2" {
		t.Fatalf("expected j2 promoted second, got %+v", promoted)
	}
	if promoted.IdleSeconds != 11 {
		t.Fatalf("j2 idle time = %d, want 11", promoted.IdleSeconds)
	}

	// Idle backlog drained; the deferred arrival finally enters directly.
	if p := a.Tick(t0.Add(12*time.Second), 3); p != nil {
		t.Fatalf("no promotion expected, got %v", p.ID)
	}
	if q.Len() != 3 || a.PoolLen() != 0 {
		t.Fatalf("expected all jobs admitted, queue=%d pool=%d", q.Len(), a.PoolLen())
	}
}

func TestAdmission_FutureJobsStayPooled(t *testing.T) {
	q := NewJobQueue()
	a := NewAdmission([]*model.Job{poolJob("later", t0.Add(time.Hour))}, q, logger.NopLogger{})

	a.Tick(t0, 1)
	if a.PoolLen() != 1 || q.Len() != 0 {
		t.Fatalf("job before its creation time must stay pooled")
	}
}
