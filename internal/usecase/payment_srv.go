package usecase

import (
	"context"
	"fmt"
	"time"

	"bus-ticketing/internal/data/entity"
	"bus-ticketing/internal/data/repository"
	"bus-ticketing/internal/dto/request"
	"bus-ticketing/internal/dto/response"
	"bus-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService interface {
	// Submit records a bank-transfer proof for a pending booking.
	Submit(ctx context.Context, userID string, req *request.SubmitPaymentRequest) (*response.PaymentResponse, error)

	// Verify and Reject are the admin review actions. Both drive the
	// booking state machine through the reservation service, so a
	// retried review converges instead of failing.
	Verify(ctx context.Context, paymentID string, adminID string) error
	Reject(ctx context.Context, paymentID string, adminID string) error

	ListPending(ctx context.Context, page *request.PaginatedRequest) ([]response.PaymentResponse, error)
}

type paymentService struct {
	repo        *repository.Repository
	reservation ReservationService
	log         *zap.Logger
}

func NewPaymentService(repo *repository.Repository, reservation ReservationService, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:        repo,
		reservation: reservation,
		log:         log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) Submit(ctx context.Context, userID string, req *request.SubmitPaymentRequest) (*response.PaymentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Submit payment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", req.BookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.UserID.String() != userID {
		return nil, ErrBookingNotFound
	}
	if booking.Status != entity.BookingStatusPending {
		return nil, ErrInvalidTransition
	}
	if req.Amount != booking.TotalAmount {
		return nil, fmt.Errorf("payment amount %.2f does not match booking total %.2f", req.Amount, booking.TotalAmount)
	}

	existing, err := s.repo.Payment.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("payment already submitted for booking %s", booking.BookingCode)
	}

	now := time.Now()
	payment := &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID: bookingID,
		Amount:    req.Amount,
		Status:    entity.PaymentStatusPending,
		ProofRef:  &req.ProofRef,
	}

	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("payment already submitted for booking %s", booking.BookingCode)
		}
		return nil, err
	}

	s.log.Info("Payment submitted",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_code", booking.BookingCode),
		zap.Float64("amount", payment.Amount),
	)

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

func (s *paymentService) Verify(ctx context.Context, paymentID string, adminID string) error {
	payment, admin, err := s.loadForReview(ctx, paymentID, adminID)
	if err != nil {
		return err
	}

	rows, err := s.repo.Payment.MarkReviewed(ctx, payment.ID, entity.PaymentStatusVerified, admin)
	if err != nil {
		return err
	}
	if rows == 0 {
		// Already reviewed. Verified means a retried verification:
		// still push the booking forward so a crash between the two
		// writes heals itself.
		if payment.Status != entity.PaymentStatusVerified {
			return ErrInvalidTransition
		}
	}

	if err := s.reservation.OnPaymentVerified(ctx, payment.BookingID.String()); err != nil {
		return err
	}

	s.log.Info("Payment verified",
		zap.String("payment_id", paymentID),
		zap.String("booking_id", payment.BookingID.String()),
		zap.String("verified_by", adminID),
	)

	return nil
}

func (s *paymentService) Reject(ctx context.Context, paymentID string, adminID string) error {
	payment, admin, err := s.loadForReview(ctx, paymentID, adminID)
	if err != nil {
		return err
	}

	rows, err := s.repo.Payment.MarkReviewed(ctx, payment.ID, entity.PaymentStatusRejected, admin)
	if err != nil {
		return err
	}
	if rows == 0 {
		if payment.Status != entity.PaymentStatusRejected {
			return ErrInvalidTransition
		}
	}

	if err := s.reservation.OnPaymentRejected(ctx, payment.BookingID.String()); err != nil {
		return err
	}

	s.log.Info("Payment rejected",
		zap.String("payment_id", paymentID),
		zap.String("booking_id", payment.BookingID.String()),
		zap.String("rejected_by", adminID),
	)

	return nil
}

func (s *paymentService) ListPending(ctx context.Context, page *request.PaginatedRequest) ([]response.PaymentResponse, error) {
	payments, err := s.repo.Payment.FindByStatus(ctx, entity.PaymentStatusPending, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}

	items := make([]response.PaymentResponse, len(payments))
	for i, payment := range payments {
		items[i] = response.PaymentToResponse(payment)
	}

	return items, nil
}

func (s *paymentService) loadForReview(ctx context.Context, paymentID string, adminID string) (*entity.Payment, uuid.UUID, error) {
	id, err := uuid.Parse(paymentID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("invalid payment ID format %s: %w", paymentID, err)
	}

	admin, err := uuid.Parse(adminID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("invalid admin ID format %s: %w", adminID, err)
	}

	payment, err := s.repo.Payment.FindByID(ctx, id)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if payment == nil {
		return nil, uuid.Nil, ErrPaymentNotFound
	}

	return payment, admin, nil
}
