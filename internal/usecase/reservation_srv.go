package usecase

import (
	"context"
	"fmt"
	"time"

	"bus-ticketing/internal/data/entity"
	"bus-ticketing/internal/data/repository"
	"bus-ticketing/internal/dto/request"
	"bus-ticketing/internal/dto/response"
	"bus-ticketing/internal/events"
	"bus-ticketing/pkg/database"
	"bus-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReservationService owns the seat reservation and booking lifecycle
// state machine. Every seat/booking mutation of one operation runs in
// a single transaction; on any failure the transaction rolls back and
// no partial state is visible.
type ReservationService interface {
	Reserve(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)

	// OnPaymentVerified confirms a pending booking. Idempotent: a
	// retried callback on an already-confirmed booking is a no-op.
	OnPaymentVerified(ctx context.Context, bookingID string) error

	// OnPaymentRejected cancels a pending booking and releases its
	// seats. Idempotent on already-cancelled bookings.
	OnPaymentRejected(ctx context.Context, bookingID string) error

	// Cancel is the explicit user/admin cancellation. Unlike the
	// payment callbacks it is strict: cancelling a booking that is not
	// pending fails with ErrInvalidTransition.
	Cancel(ctx context.Context, bookingID string, actorID string, isAdmin bool) error

	GetAvailability(ctx context.Context, scheduleID string, travelDate string) (*response.AvailabilityResponse, error)

	// GetSeatMap returns every materialized seat with its state and
	// owning booking, for admin inspection.
	GetSeatMap(ctx context.Context, scheduleID string, travelDate string) ([]response.SeatResponse, error)
}

type reservationService struct {
	db     database.PgxIface
	repo   *repository.Repository
	events events.Publisher
	config *utils.Config
	log    *zap.Logger
}

func NewReservationService(db database.PgxIface, repo *repository.Repository, pub events.Publisher, config *utils.Config, log *zap.Logger) ReservationService {
	return &reservationService{
		db:     db,
		repo:   repo,
		events: pub,
		config: config,
		log:    log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) Reserve(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reserve validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	scheduleID, err := uuid.Parse(req.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule ID format %s: %w", req.ScheduleID, err)
	}

	travelDate, err := time.Parse("2006-01-02", req.TravelDate)
	if err != nil {
		return nil, fmt.Errorf("invalid travel date %s: %w", req.TravelDate, err)
	}

	if err := validateSeatSelection(req.SeatNumbers, req.Passengers); err != nil {
		return nil, err
	}

	schedule, err := s.repo.Schedule.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}
	if !schedule.OperatesOn(travelDate) {
		return nil, ErrScheduleInactive
	}
	if len(req.SeatNumbers) > schedule.TotalSeats {
		return nil, ErrCapacityExceeded
	}

	code, err := s.uniqueBookingCode(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingCode: code,
		UserID:      userUUID,
		ScheduleID:  scheduleID,
		TravelDate:  travelDate,
		SeatNumbers: req.SeatNumbers,
		Passengers:  passengersFromRequest(req.Passengers),
		TotalAmount: schedule.Price * float64(len(req.SeatNumbers)),
		Status:      entity.BookingStatusPending,
	}

	// Everything below is one transaction: hold seats, create the
	// booking, stamp the seats booked. Either all of it lands or none.
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin reservation: %w", err)
	}
	defer tx.Rollback(ctx)

	// Bound waiting on contended seat rows so racing callers fail fast
	// with a retryable error instead of queueing indefinitely.
	lockTimeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.config.Database.LockTimeoutMS)
	if _, err := tx.Exec(ctx, lockTimeout); err != nil {
		return nil, fmt.Errorf("set lock timeout: %w", err)
	}

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Seat.EnsureForDate(ctx, scheduleID, travelDate, schedule.SeatPlan()); err != nil {
		return nil, err
	}

	held, err := txRepo.Seat.HoldAvailable(ctx, scheduleID, travelDate, req.SeatNumbers)
	if err != nil {
		if repository.IsLockTimeout(err) {
			return nil, ErrSeatsBusy
		}
		return nil, err
	}
	if len(held) != len(req.SeatNumbers) {
		missing := firstMissing(req.SeatNumbers, held)
		s.log.Info("Seat no longer available",
			zap.String("schedule_id", req.ScheduleID),
			zap.String("travel_date", req.TravelDate),
			zap.String("seat_number", missing),
		)
		return nil, &SeatUnavailableError{SeatNumber: missing}
	}

	if err := txRepo.Booking.Create(ctx, booking); err != nil {
		return nil, err
	}

	if err := txRepo.Seat.CommitBooking(ctx, scheduleID, travelDate, req.SeatNumbers, booking.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit reservation: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_code", booking.BookingCode),
		zap.String("user_id", userID),
		zap.Int("seat_count", len(req.SeatNumbers)),
		zap.Float64("total_amount", booking.TotalAmount),
	)

	s.publish(ctx, events.EventBookingCreated, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *reservationService) OnPaymentVerified(ctx context.Context, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if booking == nil {
		return ErrBookingNotFound
	}

	switch booking.Status {
	case entity.BookingStatusConfirmed:
		// Payment callbacks may be retried
		s.log.Info("Booking already confirmed, ignoring duplicate verification",
			zap.String("booking_id", bookingID))
		return nil
	case entity.BookingStatusCancelled:
		return ErrInvalidTransition
	}

	rows, err := s.repo.Booking.UpdateStatusFrom(ctx, id, entity.BookingStatusPending, entity.BookingStatusConfirmed)
	if err != nil {
		return err
	}
	if rows == 0 {
		// Lost a race with another transition; re-read to decide.
		current, err := s.repo.Booking.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if current != nil && current.Status == entity.BookingStatusConfirmed {
			return nil
		}
		return ErrInvalidTransition
	}

	s.log.Info("Booking confirmed",
		zap.String("booking_id", bookingID),
		zap.String("booking_code", booking.BookingCode),
	)

	booking.Status = entity.BookingStatusConfirmed
	s.publish(ctx, events.EventBookingConfirmed, booking)

	return nil
}

func (s *reservationService) OnPaymentRejected(ctx context.Context, bookingID string) error {
	return s.cancelPending(ctx, bookingID, true)
}

func (s *reservationService) Cancel(ctx context.Context, bookingID string, actorID string, isAdmin bool) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	if !isAdmin {
		booking, err := s.repo.Booking.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return ErrBookingNotFound
		}
		if booking.UserID.String() != actorID {
			return fmt.Errorf("unauthorized to cancel this booking")
		}
	}

	return s.cancelPending(ctx, bookingID, false)
}

// cancelPending moves a pending booking to cancelled and returns its
// seats to the pool, both inside one transaction. With idempotent=true
// an already-cancelled booking is a no-op (payment rejection callbacks
// may be retried); otherwise it is an invalid transition.
func (s *reservationService) cancelPending(ctx context.Context, bookingID string, idempotent bool) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if booking == nil {
		return ErrBookingNotFound
	}

	switch booking.Status {
	case entity.BookingStatusCancelled:
		if idempotent {
			s.log.Info("Booking already cancelled, ignoring duplicate rejection",
				zap.String("booking_id", bookingID))
			return nil
		}
		return ErrInvalidTransition
	case entity.BookingStatusConfirmed:
		// Cancelling a confirmed booking is a distinct operation
		// (refunds involved), not part of this state machine.
		return ErrInvalidTransition
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin cancellation: %w", err)
	}
	defer tx.Rollback(ctx)

	txRepo := s.repo.WithTx(tx)

	rows, err := txRepo.Booking.UpdateStatusFrom(ctx, id, entity.BookingStatusPending, entity.BookingStatusCancelled)
	if err != nil {
		return err
	}
	if rows == 0 {
		// Raced with another transition between the read above and now
		current, err := s.repo.Booking.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if current != nil && current.Status == entity.BookingStatusCancelled && idempotent {
			return nil
		}
		return ErrInvalidTransition
	}

	released, err := txRepo.Seat.ReleaseByBooking(ctx, id)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit cancellation: %w", err)
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("booking_code", booking.BookingCode),
		zap.Strings("released_seats", released),
	)

	booking.Status = entity.BookingStatusCancelled
	s.publish(ctx, events.EventBookingCancelled, booking)

	return nil
}

func (s *reservationService) GetAvailability(ctx context.Context, scheduleID string, travelDate string) (*response.AvailabilityResponse, error) {
	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule ID format %s: %w", scheduleID, err)
	}

	date, err := time.Parse("2006-01-02", travelDate)
	if err != nil {
		return nil, fmt.Errorf("invalid travel date %s: %w", travelDate, err)
	}

	schedule, err := s.repo.Schedule.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}
	if !schedule.OperatesOn(date) {
		return nil, ErrScheduleInactive
	}

	// Availability is derived: seat plan minus held/booked rows. Seat
	// rows that were never materialized for this date are, by
	// definition, available.
	unavailable, err := s.repo.Seat.ListUnavailable(ctx, id, date)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(unavailable))
	for _, num := range unavailable {
		taken[num] = true
	}

	plan := schedule.SeatPlan()
	available := make([]string, 0, len(plan))
	for _, num := range plan {
		if !taken[num] {
			available = append(available, num)
		}
	}

	return &response.AvailabilityResponse{
		ScheduleID:     scheduleID,
		TravelDate:     travelDate,
		TotalSeats:     schedule.TotalSeats,
		AvailableSeats: available,
		AvailableCount: len(available),
		Price:          schedule.Price,
	}, nil
}

func (s *reservationService) GetSeatMap(ctx context.Context, scheduleID string, travelDate string) ([]response.SeatResponse, error) {
	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule ID format %s: %w", scheduleID, err)
	}

	date, err := time.Parse("2006-01-02", travelDate)
	if err != nil {
		return nil, fmt.Errorf("invalid travel date %s: %w", travelDate, err)
	}

	schedule, err := s.repo.Schedule.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	seats, err := s.repo.Seat.FindBySchedule(ctx, id, date)
	if err != nil {
		return nil, err
	}

	items := make([]response.SeatResponse, len(seats))
	for i, seat := range seats {
		items[i] = response.SeatToResponse(seat)
	}

	return items, nil
}

// ==================== HELPERS ====================

// uniqueBookingCode generates a code and checks it against existing
// bookings. The random space makes collisions negligible; the check
// plus the unique index are belt and braces.
func (s *reservationService) uniqueBookingCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 3; attempt++ {
		code := utils.GenerateBookingCode(s.config.Booking.CodePrefix)
		existing, err := s.repo.Booking.FindByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
		s.log.Warn("Booking code collision, regenerating", zap.String("code", code))
	}
	return "", fmt.Errorf("generate booking code: exhausted attempts")
}

func validateSeatSelection(seatNumbers []string, passengers []request.PassengerRequest) error {
	if len(seatNumbers) != len(passengers) {
		return fmt.Errorf("validation failed: passenger count %d does not match seat count %d", len(passengers), len(seatNumbers))
	}

	seen := make(map[string]bool, len(seatNumbers))
	for _, num := range seatNumbers {
		if seen[num] {
			return fmt.Errorf("validation failed: duplicate seat number %s", num)
		}
		seen[num] = true
	}

	for _, p := range passengers {
		if !seen[p.SeatNumber] {
			return fmt.Errorf("validation failed: passenger seat %s is not in the selection", p.SeatNumber)
		}
	}

	return nil
}

func passengersFromRequest(reqs []request.PassengerRequest) []entity.Passenger {
	passengers := make([]entity.Passenger, len(reqs))
	for i, p := range reqs {
		passengers[i] = entity.Passenger{
			Name:       p.Name,
			Phone:      p.Phone,
			SeatNumber: p.SeatNumber,
		}
	}
	return passengers
}

func firstMissing(requested, held []string) string {
	got := make(map[string]bool, len(held))
	for _, num := range held {
		got[num] = true
	}
	for _, num := range requested {
		if !got[num] {
			return num
		}
	}
	return ""
}

func (s *reservationService) publish(ctx context.Context, eventName string, booking *entity.Booking) {
	event := events.BookingEvent{
		Event:       eventName,
		BookingID:   booking.ID.String(),
		BookingCode: booking.BookingCode,
		UserID:      booking.UserID.String(),
		ScheduleID:  booking.ScheduleID.String(),
		TravelDate:  booking.TravelDate.Format("2006-01-02"),
		SeatNumbers: booking.SeatNumbers,
		TotalAmount: booking.TotalAmount,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}

	// Best-effort: the booking is durable either way
	if err := s.events.PublishBookingEvent(ctx, event); err != nil {
		s.log.Warn("Failed to publish booking event",
			zap.Error(err),
			zap.String("event", eventName),
			zap.String("booking_code", booking.BookingCode),
		)
	}
}
