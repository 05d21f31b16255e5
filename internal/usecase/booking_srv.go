package usecase

import (
	"context"
	"fmt"

	"bus-ticketing/internal/data/repository"
	"bus-ticketing/internal/dto/request"
	"bus-ticketing/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService is the read side of bookings. Mutations live on
// ReservationService.
type BookingService interface {
	GetByID(ctx context.Context, bookingID string, actorID string, isAdmin bool) (*response.BookingResponse, error)
	GetByCode(ctx context.Context, code string, actorID string, isAdmin bool) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type bookingService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewBookingService(repo *repository.Repository, log *zap.Logger) BookingService {
	return &bookingService{
		repo: repo,
		log:  log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) GetByID(ctx context.Context, bookingID string, actorID string, isAdmin bool) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	if !isAdmin && booking.UserID.String() != actorID {
		return nil, ErrBookingNotFound
	}

	resp := response.BookingToResponse(booking)
	s.attachPayment(ctx, &resp, booking.ID)
	return &resp, nil
}

func (s *bookingService) GetByCode(ctx context.Context, code string, actorID string, isAdmin bool) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	// Not-found rather than forbidden so codes cannot be probed
	if !isAdmin && booking.UserID.String() != actorID {
		return nil, ErrBookingNotFound
	}

	resp := response.BookingToResponse(booking)
	s.attachPayment(ctx, &resp, booking.ID)
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, id, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Booking.CountByUserID(ctx, id)
	if err != nil {
		return nil, err
	}

	items := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		items[i] = response.BookingToResponse(booking)
	}

	return response.NewPaginatedResponse(items, page.Page, page.Limit(), total), nil
}

func (s *bookingService) attachPayment(ctx context.Context, resp *response.BookingResponse, bookingID uuid.UUID) {
	payment, err := s.repo.Payment.FindByBookingID(ctx, bookingID)
	if err != nil {
		s.log.Warn("Failed to load payment for booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return
	}
	if payment != nil {
		p := response.PaymentToResponse(payment)
		resp.Payment = &p
	}
}
