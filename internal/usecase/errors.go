package usecase

import (
	"errors"
	"fmt"
)

// Reservation error taxonomy. Handlers map these to HTTP statuses;
// anything else surfacing from a service is a persistence failure and
// must leave no partial state behind (the transaction already rolled
// back by the time the error propagates).
var (
	ErrRouteNotFound     = errors.New("route not found")
	ErrScheduleNotFound  = errors.New("schedule not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrScheduleInactive  = errors.New("schedule is not bookable for the requested date")
	ErrCapacityExceeded  = errors.New("requested seats exceed schedule capacity")
	ErrInvalidTransition = errors.New("state transition not permitted")
	ErrSeatsBusy         = errors.New("seats are locked by another reservation, please retry")
)

// SeatUnavailableError reports the first requested seat that is no
// longer available. Recoverable: the caller should re-fetch
// availability and retry with a different selection.
type SeatUnavailableError struct {
	SeatNumber string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat %s is no longer available", e.SeatNumber)
}
