// Package events defines booking lifecycle messages published to the
// broker for downstream consumers (notifications, inbox, analytics).
package events

const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent carries enough information for consumers to notify the
// user without querying the primary database.
type BookingEvent struct {
	Event       string   `json:"event"`
	BookingID   string   `json:"booking_id"`
	BookingCode string   `json:"booking_code"`
	UserID      string   `json:"user_id"`
	ScheduleID  string   `json:"schedule_id"`
	TravelDate  string   `json:"travel_date"`
	SeatNumbers []string `json:"seat_numbers"`
	TotalAmount float64  `json:"total_amount"`
	OccurredAt  string   `json:"occurred_at"`
}
