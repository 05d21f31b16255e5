package entity

import (
	"testing"
	"time"
)

func TestOperatesOn(t *testing.T) {
	sched := &Schedule{
		TotalSeats: 40,
		IsActive:   true,
		DaysOfWeek: []time.Weekday{time.Monday, time.Friday},
	}

	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	if !sched.OperatesOn(monday) {
		t.Errorf("expected schedule to operate on %s", monday.Weekday())
	}

	tuesday := monday.AddDate(0, 0, 1)
	if sched.OperatesOn(tuesday) {
		t.Errorf("expected schedule not to operate on %s", tuesday.Weekday())
	}

	sched.IsActive = false
	if sched.OperatesOn(monday) {
		t.Error("inactive schedule must not operate on any date")
	}
}

func TestSeatLabels(t *testing.T) {
	labels := SeatLabels(6)
	want := []string{"A1", "A2", "A3", "A4", "B1", "B2"}
	if len(labels) != len(want) {
		t.Fatalf("expected %d labels, got %d", len(want), len(labels))
	}
	for i, l := range want {
		if labels[i] != l {
			t.Errorf("label[%d]: expected %s, got %s", i, l, labels[i])
		}
	}

	if got := len(SeatLabels(0)); got != 0 {
		t.Errorf("expected no labels for zero seats, got %d", got)
	}
	if got := len(SeatLabels(MaxSeatsPerBus + 10)); got != MaxSeatsPerBus {
		t.Errorf("expected labels capped at %d, got %d", MaxSeatsPerBus, got)
	}
}

func TestWeekdaysFromInts(t *testing.T) {
	days, err := WeekdaysFromInts([]int16{1, 5, 5, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []time.Weekday{time.Monday, time.Friday, time.Sunday}
	if len(days) != len(want) {
		t.Fatalf("expected %d days (deduplicated), got %d", len(want), len(days))
	}
	for i, d := range want {
		if days[i] != d {
			t.Errorf("day[%d]: expected %s, got %s", i, d, days[i])
		}
	}

	if _, err := WeekdaysFromInts([]int16{7}); err == nil {
		t.Error("expected error for out-of-range weekday")
	}
	if _, err := WeekdaysFromInts([]int16{-1}); err == nil {
		t.Error("expected error for negative weekday")
	}
}

func TestWeekdaysRoundTrip(t *testing.T) {
	in := []time.Weekday{time.Sunday, time.Wednesday, time.Saturday}
	out, err := WeekdaysFromInts(WeekdaysToInts(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d days, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("day[%d]: expected %s, got %s", i, in[i], out[i])
		}
	}
}
