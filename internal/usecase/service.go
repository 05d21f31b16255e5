package usecase

import (
	"bus-ticketing/internal/data/repository"
	"bus-ticketing/internal/events"
	"bus-ticketing/pkg/database"
	"bus-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth        AuthService
	Route       RouteService
	Schedule    ScheduleService
	Reservation ReservationService
	Booking     BookingService
	Payment     PaymentService
}

func NewService(db database.PgxIface, repo *repository.Repository, pub events.Publisher, config *utils.Config, log *zap.Logger) *Service {
	reservation := NewReservationService(db, repo, pub, config, log)

	return &Service{
		Auth:        NewAuthService(repo, config, log),
		Route:       NewRouteService(repo, log),
		Schedule:    NewScheduleService(repo, log),
		Reservation: reservation,
		Booking:     NewBookingService(repo, log),
		Payment:     NewPaymentService(repo, reservation, log),
	}
}
