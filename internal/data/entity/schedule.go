package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Buses seat 4 across: A1..A4, B1..B4, and so on.
const seatsPerRow = 4

// MaxSeatsPerBus caps total_seats so seat labels stay within rows A..Z.
const MaxSeatsPerBus = 26 * seatsPerRow

type Schedule struct {
	Base
	RouteID       uuid.UUID      `db:"route_id"`
	BusCode       string         `db:"bus_code"`
	DepartureTime time.Time      `db:"departure_time"`
	ArrivalTime   time.Time      `db:"arrival_time"`
	TotalSeats    int            `db:"total_seats"`
	Price         float64        `db:"price"`
	IsActive      bool           `db:"is_active"`
	DaysOfWeek    []time.Weekday `db:"days_of_week"`
}

// OperatesOn reports whether the schedule runs on the given travel date.
func (s *Schedule) OperatesOn(date time.Time) bool {
	if !s.IsActive {
		return false
	}
	for _, day := range s.DaysOfWeek {
		if day == date.Weekday() {
			return true
		}
	}
	return false
}

// SeatPlan returns the full ordered set of seat labels for this bus.
func (s *Schedule) SeatPlan() []string {
	return SeatLabels(s.TotalSeats)
}

// SeatLabels generates seat labels A1..A4, B1..B4, ... for a bus of the
// given capacity.
func SeatLabels(total int) []string {
	if total < 0 {
		total = 0
	}
	if total > MaxSeatsPerBus {
		total = MaxSeatsPerBus
	}
	labels := make([]string, 0, total)
	for i := 0; i < total; i++ {
		labels = append(labels, fmt.Sprintf("%c%d", rune('A'+i/seatsPerRow), i%seatsPerRow+1))
	}
	return labels
}

// WeekdaysFromInts converts the days_of_week column (int2[], 0=Sunday)
// into typed weekdays. Parsing happens exactly once, at scan time;
// downstream code only ever sees []time.Weekday.
func WeekdaysFromInts(days []int16) ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, len(days))
	seen := make(map[int16]bool, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("invalid weekday value %d", d)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, time.Weekday(d))
	}
	return out, nil
}

// WeekdaysToInts is the inverse of WeekdaysFromInts, used on insert.
func WeekdaysToInts(days []time.Weekday) []int16 {
	out := make([]int16, 0, len(days))
	for _, d := range days {
		out = append(out, int16(d))
	}
	return out
}
