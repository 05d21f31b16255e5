package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Passenger is stored inside bookings.passengers as JSONB.
type Passenger struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	SeatNumber string `json:"seat_number"`
}

type Booking struct {
	Base
	BookingCode string        `db:"booking_code"`
	UserID      uuid.UUID     `db:"user_id"`
	ScheduleID  uuid.UUID     `db:"schedule_id"`
	TravelDate  time.Time     `db:"travel_date"`
	SeatNumbers []string      `db:"seat_numbers"`
	Passengers  []Passenger   `db:"passengers"`
	TotalAmount float64       `db:"total_amount"`
	Status      BookingStatus `db:"status"`
}
