package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"bus-ticketing/internal/data/entity"
	"bus-ticketing/internal/data/repository"
	"bus-ticketing/internal/dto/request"
	"bus-ticketing/internal/dto/response"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"go.uber.org/zap"
)

type stubReservation struct {
	verified []string
	rejected []string
	err      error
}

func (s *stubReservation) Reserve(context.Context, string, *request.CreateBookingRequest) (*response.BookingResponse, error) {
	panic("not used")
}

func (s *stubReservation) OnPaymentVerified(_ context.Context, bookingID string) error {
	s.verified = append(s.verified, bookingID)
	return s.err
}

func (s *stubReservation) OnPaymentRejected(_ context.Context, bookingID string) error {
	s.rejected = append(s.rejected, bookingID)
	return s.err
}

func (s *stubReservation) Cancel(context.Context, string, string, bool) error {
	panic("not used")
}

func (s *stubReservation) GetAvailability(context.Context, string, string) (*response.AvailabilityResponse, error) {
	panic("not used")
}

func (s *stubReservation) GetSeatMap(context.Context, string, string) ([]response.SeatResponse, error) {
	panic("not used")
}

func newPaymentFixture(t *testing.T) (pgxmock.PgxPoolIface, PaymentService, *stubReservation) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	log := zap.NewNop()
	repo := repository.NewRepository(mock, log)
	reservation := &stubReservation{}

	return mock, NewPaymentService(repo, reservation, log), reservation
}

var paymentTestColumns = []string{
	"id", "booking_id", "amount", "status", "proof_ref",
	"verified_by", "verified_at", "created_at", "updated_at",
}

func paymentRow(id, bookingID uuid.UUID, status entity.PaymentStatus) *pgxmock.Rows {
	now := time.Now()
	proof := "TRX-001"
	return pgxmock.NewRows(paymentTestColumns).
		AddRow(id, bookingID, 150000.0, status, &proof, nil, nil, now, now)
}

func TestSubmitPayment(t *testing.T) {
	mock, service, _ := newPaymentFixture(t)
	bookingID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(bookingID).
		WillReturnRows(bookingRow(bookingID, userID, entity.BookingStatusPending, []string{"A1"}))
	mock.ExpectQuery("FROM payments WHERE booking_id").
		WithArgs(bookingID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec("INSERT INTO payments").
		WithArgs(pgxmock.AnyArg(), bookingID, 150000.0, entity.PaymentStatusPending,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	payment, err := service.Submit(context.Background(), userID.String(), &request.SubmitPaymentRequest{
		BookingID: bookingID.String(),
		Amount:    150000.0,
		ProofRef:  "TRX-001",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if payment.Status != entity.PaymentStatusPending {
		t.Errorf("expected pending payment, got %s", payment.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSubmitPaymentAmountMismatch(t *testing.T) {
	mock, service, _ := newPaymentFixture(t)
	bookingID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(bookingID).
		WillReturnRows(bookingRow(bookingID, userID, entity.BookingStatusPending, []string{"A1"}))

	_, err := service.Submit(context.Background(), userID.String(), &request.SubmitPaymentRequest{
		BookingID: bookingID.String(),
		Amount:    99999.0,
		ProofRef:  "TRX-001",
	})
	if err == nil {
		t.Fatal("expected error for mismatched amount")
	}
}

func TestSubmitPaymentOnNonPendingBooking(t *testing.T) {
	mock, service, _ := newPaymentFixture(t)
	bookingID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(bookingID).
		WillReturnRows(bookingRow(bookingID, userID, entity.BookingStatusCancelled, []string{"A1"}))

	_, err := service.Submit(context.Background(), userID.String(), &request.SubmitPaymentRequest{
		BookingID: bookingID.String(),
		Amount:    150000.0,
		ProofRef:  "TRX-001",
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestSubmitPaymentForOtherUsersBooking(t *testing.T) {
	mock, service, _ := newPaymentFixture(t)
	bookingID := uuid.New()

	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(bookingID).
		WillReturnRows(bookingRow(bookingID, uuid.New(), entity.BookingStatusPending, []string{"A1"}))

	_, err := service.Submit(context.Background(), uuid.New().String(), &request.SubmitPaymentRequest{
		BookingID: bookingID.String(),
		Amount:    150000.0,
		ProofRef:  "TRX-001",
	})
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestVerifyPaymentDrivesBooking(t *testing.T) {
	mock, service, reservation := newPaymentFixture(t)
	paymentID := uuid.New()
	bookingID := uuid.New()
	adminID := uuid.New()

	mock.ExpectQuery("FROM payments WHERE id").
		WithArgs(paymentID).
		WillReturnRows(paymentRow(paymentID, bookingID, entity.PaymentStatusPending))
	mock.ExpectExec("UPDATE payments").
		WithArgs(paymentID, entity.PaymentStatusVerified, adminID, entity.PaymentStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := service.Verify(context.Background(), paymentID.String(), adminID.String()); err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	if len(reservation.verified) != 1 || reservation.verified[0] != bookingID.String() {
		t.Errorf("expected booking %s confirmed, got %v", bookingID, reservation.verified)
	}
}

func TestVerifyPaymentRetryStillConverges(t *testing.T) {
	mock, service, reservation := newPaymentFixture(t)
	paymentID := uuid.New()
	bookingID := uuid.New()
	adminID := uuid.New()

	// Payment already verified: the guarded update matches nothing, but
	// the booking transition is still driven so a crash between the two
	// writes heals on retry.
	mock.ExpectQuery("FROM payments WHERE id").
		WithArgs(paymentID).
		WillReturnRows(paymentRow(paymentID, bookingID, entity.PaymentStatusVerified))
	mock.ExpectExec("UPDATE payments").
		WithArgs(paymentID, entity.PaymentStatusVerified, adminID, entity.PaymentStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := service.Verify(context.Background(), paymentID.String(), adminID.String()); err != nil {
		t.Fatalf("retried verify must converge, got %v", err)
	}

	if len(reservation.verified) != 1 {
		t.Errorf("expected booking transition driven on retry, got %v", reservation.verified)
	}
}

func TestVerifyRejectedPayment(t *testing.T) {
	mock, service, _ := newPaymentFixture(t)
	paymentID := uuid.New()
	adminID := uuid.New()

	mock.ExpectQuery("FROM payments WHERE id").
		WithArgs(paymentID).
		WillReturnRows(paymentRow(paymentID, uuid.New(), entity.PaymentStatusRejected))
	mock.ExpectExec("UPDATE payments").
		WithArgs(paymentID, entity.PaymentStatusVerified, adminID, entity.PaymentStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := service.Verify(context.Background(), paymentID.String(), adminID.String())
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestRejectPaymentDrivesBooking(t *testing.T) {
	mock, service, reservation := newPaymentFixture(t)
	paymentID := uuid.New()
	bookingID := uuid.New()
	adminID := uuid.New()

	mock.ExpectQuery("FROM payments WHERE id").
		WithArgs(paymentID).
		WillReturnRows(paymentRow(paymentID, bookingID, entity.PaymentStatusPending))
	mock.ExpectExec("UPDATE payments").
		WithArgs(paymentID, entity.PaymentStatusRejected, adminID, entity.PaymentStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := service.Reject(context.Background(), paymentID.String(), adminID.String()); err != nil {
		t.Fatalf("Reject returned error: %v", err)
	}

	if len(reservation.rejected) != 1 || reservation.rejected[0] != bookingID.String() {
		t.Errorf("expected booking %s cancelled, got %v", bookingID, reservation.rejected)
	}
}

func TestVerifyMissingPayment(t *testing.T) {
	mock, service, _ := newPaymentFixture(t)
	paymentID := uuid.New()

	mock.ExpectQuery("FROM payments WHERE id").
		WithArgs(paymentID).
		WillReturnError(pgx.ErrNoRows)

	err := service.Verify(context.Background(), paymentID.String(), uuid.New().String())
	if !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}
