package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"bus-ticketing/internal/data/entity"
	"bus-ticketing/internal/data/repository"
	"bus-ticketing/internal/dto/request"
	"bus-ticketing/internal/events"
	"bus-ticketing/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"go.uber.org/zap"
)

type capturingPublisher struct {
	published []events.BookingEvent
}

func (p *capturingPublisher) PublishBookingEvent(_ context.Context, event events.BookingEvent) error {
	p.published = append(p.published, event)
	return nil
}

func newReservationFixture(t *testing.T) (pgxmock.PgxPoolIface, ReservationService, *capturingPublisher) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	log := zap.NewNop()
	repo := repository.NewRepository(mock, log)
	config := &utils.Config{
		Database: utils.DatabaseConfig{LockTimeoutMS: 3000},
		Booking:  utils.BookingConfig{CodePrefix: "BTX"},
	}
	pub := &capturingPublisher{}

	return mock, NewReservationService(mock, repo, pub, config, log), pub
}

var scheduleTestColumns = []string{
	"id", "route_id", "bus_code", "departure_time", "arrival_time",
	"total_seats", "price", "is_active", "days_of_week", "created_at", "updated_at",
}

var bookingTestColumns = []string{
	"id", "booking_code", "user_id", "schedule_id", "travel_date",
	"seat_numbers", "passengers", "total_amount", "status", "created_at", "updated_at",
}

// 2026-09-07 is a Monday.
const testTravelDate = "2026-09-07"

func travelDate() time.Time {
	date, _ := time.Parse("2006-01-02", testTravelDate)
	return date
}

// anyArgs builds a WithArgs list for statements whose values are all
// generated inside the service (uuids, timestamps).
func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func scheduleRow(id uuid.UUID, totalSeats int, active bool, days []int16) *pgxmock.Rows {
	now := time.Now()
	dep := time.Date(0, 1, 1, 8, 0, 0, 0, time.UTC)
	arr := time.Date(0, 1, 1, 12, 30, 0, 0, time.UTC)
	return pgxmock.NewRows(scheduleTestColumns).
		AddRow(id, uuid.New(), "BUS-01", dep, arr, totalSeats, 150000.0, active, days, now, now)
}

func bookingRow(id, userID uuid.UUID, status entity.BookingStatus, seats []string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(bookingTestColumns).
		AddRow(id, "BTX-20260907-TESTCODE", userID, uuid.New(), travelDate(), seats, []byte(`[]`), 150000.0, status, now, now)
}

func reserveRequest(scheduleID uuid.UUID, seats ...string) *request.CreateBookingRequest {
	passengers := make([]request.PassengerRequest, len(seats))
	for i, s := range seats {
		passengers[i] = request.PassengerRequest{
			Name:       "Passenger " + s,
			Phone:      "0812345678",
			SeatNumber: s,
		}
	}
	return &request.CreateBookingRequest{
		ScheduleID:  scheduleID.String(),
		TravelDate:  testTravelDate,
		SeatNumbers: seats,
		Passengers:  passengers,
	}
}

func TestReserveSuccess(t *testing.T) {
	mock, service, pub := newReservationFixture(t)
	scheduleID := uuid.New()
	userID := uuid.New()
	seats := []string{"A1", "A2"}

	mock.ExpectQuery("FROM schedules WHERE id").
		WithArgs(scheduleID).
		WillReturnRows(scheduleRow(scheduleID, 8, true, []int16{1, 2, 3, 4, 5}))
	mock.ExpectQuery("FROM bookings WHERE booking_code").
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL lock_timeout").
		WillReturnResult(pgxmock.NewResult("SET", 0))
	// 8-seat plan, 7 columns per row
	mock.ExpectExec("INSERT INTO seats").
		WithArgs(anyArgs(56)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 8))
	mock.ExpectQuery("UPDATE seats").
		WithArgs(scheduleID, travelDate(), seats, entity.SeatStatusHeld, entity.SeatStatusAvailable).
		WillReturnRows(pgxmock.NewRows([]string{"seat_number"}).AddRow("A1").AddRow("A2"))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), userID, scheduleID, travelDate(),
			seats, pgxmock.AnyArg(), 300000.0, entity.BookingStatusPending,
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE seats").
		WithArgs(scheduleID, travelDate(), seats, pgxmock.AnyArg(), entity.SeatStatusBooked, entity.SeatStatusHeld).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectCommit()

	booking, err := service.Reserve(context.Background(), userID.String(), reserveRequest(scheduleID, "A1", "A2"))
	if err != nil {
		t.Fatalf("Reserve returned error: %v", err)
	}

	if booking.Status != entity.BookingStatusPending {
		t.Errorf("expected pending booking, got %s", booking.Status)
	}
	if booking.TotalAmount != 300000.0 {
		t.Errorf("expected total 300000, got %f", booking.TotalAmount)
	}
	if len(booking.SeatNumbers) != 2 {
		t.Errorf("expected 2 seats, got %d", len(booking.SeatNumbers))
	}
	if booking.BookingCode == "" {
		t.Error("expected a booking code")
	}

	if len(pub.published) != 1 || pub.published[0].Event != events.EventBookingCreated {
		t.Errorf("expected one booking.created event, got %+v", pub.published)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReserveSeatUnavailable(t *testing.T) {
	mock, service, pub := newReservationFixture(t)
	scheduleID := uuid.New()
	seats := []string{"A1", "A2"}

	mock.ExpectQuery("FROM schedules WHERE id").
		WithArgs(scheduleID).
		WillReturnRows(scheduleRow(scheduleID, 8, true, []int16{1}))
	mock.ExpectQuery("FROM bookings WHERE booking_code").
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL lock_timeout").
		WillReturnResult(pgxmock.NewResult("SET", 0))
	mock.ExpectExec("INSERT INTO seats").
		WithArgs(anyArgs(56)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	// A2 was taken by a concurrent reservation: only A1 comes back
	mock.ExpectQuery("UPDATE seats").
		WithArgs(scheduleID, travelDate(), seats, entity.SeatStatusHeld, entity.SeatStatusAvailable).
		WillReturnRows(pgxmock.NewRows([]string{"seat_number"}).AddRow("A1"))
	mock.ExpectRollback()

	_, err := service.Reserve(context.Background(), uuid.New().String(), reserveRequest(scheduleID, "A1", "A2"))

	var seatErr *SeatUnavailableError
	if !errors.As(err, &seatErr) {
		t.Fatalf("expected SeatUnavailableError, got %v", err)
	}
	if seatErr.SeatNumber != "A2" {
		t.Errorf("expected seat A2 reported, got %s", seatErr.SeatNumber)
	}

	if len(pub.published) != 0 {
		t.Errorf("no event should be published on failure, got %+v", pub.published)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReserveScheduleNotFound(t *testing.T) {
	mock, service, _ := newReservationFixture(t)
	scheduleID := uuid.New()

	mock.ExpectQuery("FROM schedules WHERE id").
		WithArgs(scheduleID).
		WillReturnError(pgx.ErrNoRows)

	_, err := service.Reserve(context.Background(), uuid.New().String(), reserveRequest(scheduleID, "A1"))
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
}

func TestReserveScheduleDoesNotOperateOnDate(t *testing.T) {
	mock, service, _ := newReservationFixture(t)
	scheduleID := uuid.New()

	// Weekend-only schedule, travel date is a Monday
	mock.ExpectQuery("FROM schedules WHERE id").
		WithArgs(scheduleID).
		WillReturnRows(scheduleRow(scheduleID, 8, true, []int16{0, 6}))

	_, err := service.Reserve(context.Background(), uuid.New().String(), reserveRequest(scheduleID, "A1"))
	if !errors.Is(err, ErrScheduleInactive) {
		t.Fatalf("expected ErrScheduleInactive, got %v", err)
	}
}

func TestReserveInactiveSchedule(t *testing.T) {
	mock, service, _ := newReservationFixture(t)
	scheduleID := uuid.New()

	mock.ExpectQuery("FROM schedules WHERE id").
		WithArgs(scheduleID).
		WillReturnRows(scheduleRow(scheduleID, 8, false, []int16{1}))

	_, err := service.Reserve(context.Background(), uuid.New().String(), reserveRequest(scheduleID, "A1"))
	if !errors.Is(err, ErrScheduleInactive) {
		t.Fatalf("expected ErrScheduleInactive, got %v", err)
	}
}

func TestReserveCapacityExceeded(t *testing.T) {
	mock, service, _ := newReservationFixture(t)
	scheduleID := uuid.New()

	mock.ExpectQuery("FROM schedules WHERE id").
		WithArgs(scheduleID).
		WillReturnRows(scheduleRow(scheduleID, 2, true, []int16{1}))

	_, err := service.Reserve(context.Background(), uuid.New().String(), reserveRequest(scheduleID, "A1", "A2", "A3"))
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestReserveDuplicateSeats(t *testing.T) {
	_, service, _ := newReservationFixture(t)

	req := reserveRequest(uuid.New(), "A1", "A1")
	_, err := service.Reserve(context.Background(), uuid.New().String(), req)
	if err == nil {
		t.Fatal("expected error for duplicate seat selection")
	}
}

func TestReservePassengerSeatMismatch(t *testing.T) {
	_, service, _ := newReservationFixture(t)

	req := reserveRequest(uuid.New(), "A1", "A2")
	req.Passengers[1].SeatNumber = "B4"

	_, err := service.Reserve(context.Background(), uuid.New().String(), req)
	if err == nil {
		t.Fatal("expected error for passenger seat outside selection")
	}
}

func TestOnPaymentVerifiedConfirmsPending(t *testing.T) {
	mock, service, pub := newReservationFixture(t)
	bookingID := uuid.New()

	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(bookingID).
		WillReturnRows(bookingRow(bookingID, uuid.New(), entity.BookingStatusPending, []string{"A1"}))
	mock.ExpectExec("UPDATE bookings").
		WithArgs(bookingID, entity.BookingStatusPending, entity.BookingStatusConfirmed).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := service.OnPaymentVerified(context.Background(), bookingID.String()); err != nil {
		t.Fatalf("OnPaymentVerified returned error: %v", err)
	}

	if len(pub.published) != 1 || pub.published[0].Event != events.EventBookingConfirmed {
		t.Errorf("expected one booking.confirmed event, got %+v", pub.published)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestOnPaymentVerifiedIdempotent(t *testing.T) {
	mock, service, pub := newReservationFixture(t)
	bookingID := uuid.New()

	// Already confirmed: nothing to update, no event
	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(bookingID).
		WillReturnRows(bookingRow(bookingID, uuid.New(), entity.BookingStatusConfirmed, []string{"A1"}))

	if err := service.OnPaymentVerified(context.Background(), bookingID.String()); err != nil {
		t.Fatalf("retried verification must be a no-op, got %v", err)
	}

	if len(pub.published) != 0 {
		t.Errorf("no event expected on idempotent retry, got %+v", pub.published)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestOnPaymentVerifiedRejectsCancelled(t *testing.T) {
	mock, service, _ := newReservationFixture(t)
	bookingID := uuid.New()

	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(bookingID).
		WillReturnRows(bookingRow(bookingID, uuid.New(), entity.BookingStatusCancelled, []string{"A1"}))

	err := service.OnPaymentVerified(context.Background(), bookingID.String())
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestOnPaymentRejectedReleasesSeats(t *testing.T) {
	mock, service, pub := newReservationFixture(t)
	bookingID := uuid.New()

	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(bookingID).
		WillReturnRows(bookingRow(bookingID, uuid.New(), entity.BookingStatusPending, []string{"A1", "A2"}))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings").
		WithArgs(bookingID, entity.BookingStatusPending, entity.BookingStatusCancelled).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("UPDATE seats").
		WithArgs(bookingID, entity.SeatStatusAvailable).
		WillReturnRows(pgxmock.NewRows([]string{"seat_number"}).AddRow("A1").AddRow("A2"))
	mock.ExpectCommit()

	if err := service.OnPaymentRejected(context.Background(), bookingID.String()); err != nil {
		t.Fatalf("OnPaymentRejected returned error: %v", err)
	}

	if len(pub.published) != 1 || pub.published[0].Event != events.EventBookingCancelled {
		t.Errorf("expected one booking.cancelled event, got %+v", pub.published)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestOnPaymentRejectedIdempotent(t *testing.T) {
	mock, service, _ := newReservationFixture(t)
	bookingID := uuid.New()

	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(bookingID).
		WillReturnRows(bookingRow(bookingID, uuid.New(), entity.BookingStatusCancelled, []string{"A1"}))

	if err := service.OnPaymentRejected(context.Background(), bookingID.String()); err != nil {
		t.Fatalf("retried rejection must be a no-op, got %v", err)
	}
}

func TestOnPaymentRejectedConfirmedBooking(t *testing.T) {
	mock, service, _ := newReservationFixture(t)
	bookingID := uuid.New()

	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(bookingID).
		WillReturnRows(bookingRow(bookingID, uuid.New(), entity.BookingStatusConfirmed, []string{"A1"}))

	err := service.OnPaymentRejected(context.Background(), bookingID.String())
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCancelByOwner(t *testing.T) {
	mock, service, _ := newReservationFixture(t)
	bookingID := uuid.New()
	userID := uuid.New()

	// Ownership check read, then the cancellation read
	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(bookingID).
		WillReturnRows(bookingRow(bookingID, userID, entity.BookingStatusPending, []string{"A1"}))
	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(bookingID).
		WillReturnRows(bookingRow(bookingID, userID, entity.BookingStatusPending, []string{"A1"}))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings").
		WithArgs(bookingID, entity.BookingStatusPending, entity.BookingStatusCancelled).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("UPDATE seats").
		WithArgs(bookingID, entity.SeatStatusAvailable).
		WillReturnRows(pgxmock.NewRows([]string{"seat_number"}).AddRow("A1"))
	mock.ExpectCommit()

	if err := service.Cancel(context.Background(), bookingID.String(), userID.String(), false); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCancelByNonOwner(t *testing.T) {
	mock, service, _ := newReservationFixture(t)
	bookingID := uuid.New()

	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(bookingID).
		WillReturnRows(bookingRow(bookingID, uuid.New(), entity.BookingStatusPending, []string{"A1"}))

	err := service.Cancel(context.Background(), bookingID.String(), uuid.New().String(), false)
	if err == nil {
		t.Fatal("expected error cancelling someone else's booking")
	}
}

func TestCancelConfirmedBookingIsStrict(t *testing.T) {
	mock, service, _ := newReservationFixture(t)
	bookingID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(bookingID).
		WillReturnRows(bookingRow(bookingID, userID, entity.BookingStatusConfirmed, []string{"A1"}))
	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(bookingID).
		WillReturnRows(bookingRow(bookingID, userID, entity.BookingStatusConfirmed, []string{"A1"}))

	err := service.Cancel(context.Background(), bookingID.String(), userID.String(), false)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCancelCancelledBookingIsStrict(t *testing.T) {
	mock, service, _ := newReservationFixture(t)
	bookingID := uuid.New()
	userID := uuid.New()

	// Explicit cancel is not idempotent, unlike the rejection callback
	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(bookingID).
		WillReturnRows(bookingRow(bookingID, userID, entity.BookingStatusCancelled, []string{"A1"}))
	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(bookingID).
		WillReturnRows(bookingRow(bookingID, userID, entity.BookingStatusCancelled, []string{"A1"}))

	err := service.Cancel(context.Background(), bookingID.String(), userID.String(), false)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestGetAvailabilityDerivesFromSeatPlan(t *testing.T) {
	mock, service, _ := newReservationFixture(t)
	scheduleID := uuid.New()

	mock.ExpectQuery("FROM schedules WHERE id").
		WithArgs(scheduleID).
		WillReturnRows(scheduleRow(scheduleID, 8, true, []int16{1}))
	mock.ExpectQuery("FROM seats").
		WithArgs(scheduleID, travelDate(), entity.SeatStatusAvailable).
		WillReturnRows(pgxmock.NewRows([]string{"seat_number"}).AddRow("A2").AddRow("B1"))

	availability, err := service.GetAvailability(context.Background(), scheduleID.String(), testTravelDate)
	if err != nil {
		t.Fatalf("GetAvailability returned error: %v", err)
	}

	if availability.AvailableCount != 6 {
		t.Errorf("expected 6 available seats, got %d", availability.AvailableCount)
	}

	for _, num := range availability.AvailableSeats {
		if num == "A2" || num == "B1" {
			t.Errorf("seat %s should not be available", num)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetAvailabilityBeforeMaterialization(t *testing.T) {
	mock, service, _ := newReservationFixture(t)
	scheduleID := uuid.New()

	// No seat rows exist yet: the full plan is available
	mock.ExpectQuery("FROM schedules WHERE id").
		WithArgs(scheduleID).
		WillReturnRows(scheduleRow(scheduleID, 8, true, []int16{1}))
	mock.ExpectQuery("FROM seats").
		WithArgs(scheduleID, travelDate(), entity.SeatStatusAvailable).
		WillReturnRows(pgxmock.NewRows([]string{"seat_number"}))

	availability, err := service.GetAvailability(context.Background(), scheduleID.String(), testTravelDate)
	if err != nil {
		t.Fatalf("GetAvailability returned error: %v", err)
	}

	if availability.AvailableCount != 8 {
		t.Errorf("expected full plan of 8 seats, got %d", availability.AvailableCount)
	}
}

func TestGetAvailabilityInactiveSchedule(t *testing.T) {
	mock, service, _ := newReservationFixture(t)
	scheduleID := uuid.New()

	mock.ExpectQuery("FROM schedules WHERE id").
		WithArgs(scheduleID).
		WillReturnRows(scheduleRow(scheduleID, 8, false, []int16{1}))

	_, err := service.GetAvailability(context.Background(), scheduleID.String(), testTravelDate)
	if !errors.Is(err, ErrScheduleInactive) {
		t.Fatalf("expected ErrScheduleInactive, got %v", err)
	}
}
