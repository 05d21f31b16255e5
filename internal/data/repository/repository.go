package repository

import (
	"bus-ticketing/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	User     UserRepository
	Session  SessionRepository
	Route    RouteRepository
	Schedule ScheduleRepository
	Seat     SeatRepository
	Booking  BookingRepository
	Payment  PaymentRepository

	log *zap.Logger
}

func NewRepository(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(db, log),
		Session:  NewSessionRepository(db, log),
		Route:    NewRouteRepository(db, log),
		Schedule: NewScheduleRepository(db, log),
		Seat:     NewSeatRepository(db, log),
		Booking:  NewBookingRepository(db, log),
		Payment:  NewPaymentRepository(db, log),
		log:      log,
	}
}

// WithTx returns a Repository whose members all run against the given
// transaction. Seat and booking mutations of one reservation must go
// through the same tx-bound instance.
func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return NewRepository(tx, r.log)
}
