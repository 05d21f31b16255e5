package adaptor

import (
	"bus-ticketing/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	Route    *RouteHandler
	Schedule *ScheduleHandler
	Booking  *BookingHandler
	Payment  *PaymentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		Route:    NewRouteHandler(service.Route, log),
		Schedule: NewScheduleHandler(service.Schedule, service.Reservation, log),
		Booking:  NewBookingHandler(service.Booking, service.Reservation, log),
		Payment:  NewPaymentHandler(service.Payment, log),
	}
}
