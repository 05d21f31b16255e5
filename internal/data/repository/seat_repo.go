package repository

import (
	"context"
	"fmt"
	"time"

	"bus-ticketing/internal/data/entity"
	"bus-ticketing/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeatRepository is the single source of truth for per-seat state.
//
// HoldAvailable and CommitBooking must run on a tx-bound repository
// (Repository.WithTx): the conditional updates take row locks, so two
// reservations racing for the same seat serialize on the database and
// the loser's update simply matches zero rows.
type SeatRepository interface {
	// EnsureForDate materializes one seat row per seat number for a
	// travel date. Idempotent; already-existing rows are untouched.
	EnsureForDate(ctx context.Context, scheduleID uuid.UUID, travelDate time.Time, seatNumbers []string) error

	// HoldAvailable transitions the requested seats from available to
	// held and returns the seat numbers actually claimed. Callers must
	// treat a shortfall as failure and roll back the transaction.
	HoldAvailable(ctx context.Context, scheduleID uuid.UUID, travelDate time.Time, seatNumbers []string) ([]string, error)

	// CommitBooking moves held seats to booked and stamps the booking
	// reference. The booking row must already exist in the same tx.
	CommitBooking(ctx context.Context, scheduleID uuid.UUID, travelDate time.Time, seatNumbers []string, bookingID uuid.UUID) error

	// Release returns seats to available and clears the booking
	// reference. Releasing an already-available seat is a no-op.
	Release(ctx context.Context, scheduleID uuid.UUID, travelDate time.Time, seatNumbers []string) error

	// ReleaseByBooking releases every seat owned by a booking and
	// returns the affected seat numbers. Idempotent.
	ReleaseByBooking(ctx context.Context, bookingID uuid.UUID) ([]string, error)

	// ListUnavailable returns seat numbers that are held or booked for
	// a schedule/date. Availability is derived as plan minus this set.
	ListUnavailable(ctx context.Context, scheduleID uuid.UUID, travelDate time.Time) ([]string, error)

	FindBySchedule(ctx context.Context, scheduleID uuid.UUID, travelDate time.Time) ([]*entity.Seat, error)
}

type seatRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSeatRepository(db database.Querier, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

func (r *seatRepository) EnsureForDate(ctx context.Context, scheduleID uuid.UUID, travelDate time.Time, seatNumbers []string) error {
	if len(seatNumbers) == 0 {
		return nil
	}

	// Batch insert, one row per seat number
	query := `INSERT INTO seats (id, schedule_id, travel_date, seat_number, status, created_at, updated_at) VALUES `
	args := []interface{}{}

	now := time.Now()
	for i, num := range seatNumbers {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			i*7+1, i*7+2, i*7+3, i*7+4, i*7+5, i*7+6, i*7+7)

		args = append(args,
			uuid.New(),
			scheduleID,
			travelDate,
			num,
			entity.SeatStatusAvailable,
			now,
			now,
		)
	}
	query += ` ON CONFLICT (schedule_id, travel_date, seat_number) DO NOTHING`

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to materialize seats",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
			zap.Time("travel_date", travelDate),
			zap.Int("count", len(seatNumbers)),
		)
		return fmt.Errorf("materialize seats: %w", err)
	}

	return nil
}

func (r *seatRepository) HoldAvailable(ctx context.Context, scheduleID uuid.UUID, travelDate time.Time, seatNumbers []string) ([]string, error) {
	if len(seatNumbers) == 0 {
		return nil, nil
	}

	// Conditional update: only rows still available are claimed. The
	// returned set tells the caller exactly which seats it now holds.
	query := `
		UPDATE seats
		SET status = $4, updated_at = NOW()
		WHERE schedule_id = $1 AND travel_date = $2 AND seat_number = ANY($3) AND status = $5
		RETURNING seat_number
	`

	rows, err := r.db.Query(ctx, query, scheduleID, travelDate, seatNumbers, entity.SeatStatusHeld, entity.SeatStatusAvailable)
	if err != nil {
		r.log.Error("Failed to hold seats",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
			zap.Strings("seat_numbers", seatNumbers),
		)
		return nil, fmt.Errorf("hold seats: %w", err)
	}
	defer rows.Close()

	var held []string
	for rows.Next() {
		var num string
		if err := rows.Scan(&num); err != nil {
			r.log.Error("Failed to scan held seat", zap.Error(err))
			return nil, fmt.Errorf("scan held seat: %w", err)
		}
		held = append(held, num)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("hold seats: %w", err)
	}

	return held, nil
}

func (r *seatRepository) CommitBooking(ctx context.Context, scheduleID uuid.UUID, travelDate time.Time, seatNumbers []string, bookingID uuid.UUID) error {
	if len(seatNumbers) == 0 {
		return nil
	}

	query := `
		UPDATE seats
		SET status = $5, booking_id = $4, updated_at = NOW()
		WHERE schedule_id = $1 AND travel_date = $2 AND seat_number = ANY($3) AND status = $6
	`

	result, err := r.db.Exec(ctx, query, scheduleID, travelDate, seatNumbers, bookingID, entity.SeatStatusBooked, entity.SeatStatusHeld)
	if err != nil {
		r.log.Error("Failed to commit booked seats",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.Strings("seat_numbers", seatNumbers),
		)
		return fmt.Errorf("commit booked seats: %w", err)
	}

	// Inside one transaction a shortfall here means the hold step was
	// skipped or the seat set diverged, both programming errors.
	if int(result.RowsAffected()) != len(seatNumbers) {
		return fmt.Errorf("commit booked seats: expected %d held seats, updated %d", len(seatNumbers), result.RowsAffected())
	}

	return nil
}

func (r *seatRepository) Release(ctx context.Context, scheduleID uuid.UUID, travelDate time.Time, seatNumbers []string) error {
	if len(seatNumbers) == 0 {
		return nil
	}

	query := `
		UPDATE seats
		SET status = $4, booking_id = NULL, updated_at = NOW()
		WHERE schedule_id = $1 AND travel_date = $2 AND seat_number = ANY($3) AND status <> $4
	`

	_, err := r.db.Exec(ctx, query, scheduleID, travelDate, seatNumbers, entity.SeatStatusAvailable)
	if err != nil {
		r.log.Error("Failed to release seats",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
			zap.Strings("seat_numbers", seatNumbers),
		)
		return fmt.Errorf("release seats: %w", err)
	}

	return nil
}

func (r *seatRepository) ReleaseByBooking(ctx context.Context, bookingID uuid.UUID) ([]string, error) {
	query := `
		UPDATE seats
		SET status = $2, booking_id = NULL, updated_at = NOW()
		WHERE booking_id = $1
		RETURNING seat_number
	`

	rows, err := r.db.Query(ctx, query, bookingID, entity.SeatStatusAvailable)
	if err != nil {
		r.log.Error("Failed to release seats by booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("release seats for booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var released []string
	for rows.Next() {
		var num string
		if err := rows.Scan(&num); err != nil {
			r.log.Error("Failed to scan released seat", zap.Error(err))
			return nil, fmt.Errorf("scan released seat: %w", err)
		}
		released = append(released, num)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("release seats for booking %s: %w", bookingID.String(), err)
	}

	return released, nil
}

func (r *seatRepository) ListUnavailable(ctx context.Context, scheduleID uuid.UUID, travelDate time.Time) ([]string, error) {
	query := `
		SELECT seat_number
		FROM seats
		WHERE schedule_id = $1 AND travel_date = $2 AND status <> $3
		ORDER BY seat_number
	`

	rows, err := r.db.Query(ctx, query, scheduleID, travelDate, entity.SeatStatusAvailable)
	if err != nil {
		r.log.Error("Failed to list unavailable seats",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
			zap.Time("travel_date", travelDate),
		)
		return nil, fmt.Errorf("list unavailable seats: %w", err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var num string
		if err := rows.Scan(&num); err != nil {
			r.log.Error("Failed to scan seat number", zap.Error(err))
			return nil, fmt.Errorf("scan seat number: %w", err)
		}
		numbers = append(numbers, num)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list unavailable seats: %w", err)
	}

	return numbers, nil
}

func (r *seatRepository) FindBySchedule(ctx context.Context, scheduleID uuid.UUID, travelDate time.Time) ([]*entity.Seat, error) {
	query := `
		SELECT id, schedule_id, travel_date, seat_number, status, booking_id, created_at, updated_at
		FROM seats
		WHERE schedule_id = $1 AND travel_date = $2
		ORDER BY seat_number
	`

	rows, err := r.db.Query(ctx, query, scheduleID, travelDate)
	if err != nil {
		r.log.Error("Failed to find seats by schedule",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
		return nil, fmt.Errorf("find seats by schedule %s: %w", scheduleID.String(), err)
	}
	defer rows.Close()

	var seats []*entity.Seat
	for rows.Next() {
		var seat entity.Seat
		err := rows.Scan(
			&seat.ID,
			&seat.ScheduleID,
			&seat.TravelDate,
			&seat.SeatNumber,
			&seat.Status,
			&seat.BookingID,
			&seat.CreatedAt,
			&seat.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan seat row", zap.Error(err))
			return nil, fmt.Errorf("scan seat row: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, nil
}
