package roster

import (
	"testing"
	"time"

	"github.com/fieldops/dispatchsim/core/model"
)

func TestMemory_OnDutyFiltersByDate(t *testing.T) {
	day1 := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	r := NewMemory([]*model.Unit{
		{ID: "a", DutyDate: day1},
		{ID: "b", DutyDate: day2},
		{ID: "always"},
	})

	got := r.OnDuty(day1)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "always" {
		t.Fatalf("unexpected day1 roster: %+v", got)
	}
	got = r.OnDuty(day2)
	if len(got) != 2 || got[0].ID != "b" {
		t.Fatalf("unexpected day2 roster: %+v", got)
	}
}

func TestMemory_OnDutyIgnoresTimeOfDay(t *testing.T) {
	day := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	r := NewMemory([]*model.Unit{{ID: "a", DutyDate: day}})
	if got := r.OnDuty(day.Add(7 * time.Hour)); len(got) != 1 {
		t.Fatalf("expected duty match at any time of day, got %+v", got)
	}
}
