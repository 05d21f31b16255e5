package entity

import (
	"time"

	"github.com/google/uuid"
)

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusHeld      SeatStatus = "held"
	SeatStatusBooked    SeatStatus = "booked"
)

// Seat is one bookable unit, keyed by (schedule, travel date, seat
// number). A booked seat references exactly one booking; an available
// seat references none.
type Seat struct {
	Base
	ScheduleID uuid.UUID  `db:"schedule_id"`
	TravelDate time.Time  `db:"travel_date"`
	SeatNumber string     `db:"seat_number"` // A1, A2, B1, etc.
	Status     SeatStatus `db:"status"`
	BookingID  *uuid.UUID `db:"booking_id"`
}
