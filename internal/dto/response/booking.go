package response

import (
	"time"

	"bus-ticketing/internal/data/entity"
)

type PassengerResponse struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	SeatNumber string `json:"seat_number"`
}

type BookingResponse struct {
	ID          string               `json:"id"`
	BookingCode string               `json:"booking_code"`
	UserID      string               `json:"user_id"`
	ScheduleID  string               `json:"schedule_id"`
	TravelDate  string               `json:"travel_date"`
	SeatNumbers []string             `json:"seat_numbers"`
	Passengers  []PassengerResponse  `json:"passengers"`
	TotalAmount float64              `json:"total_amount"`
	Status      entity.BookingStatus `json:"status"`
	Payment     *PaymentResponse     `json:"payment,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

type PaymentResponse struct {
	ID         string               `json:"id"`
	BookingID  string               `json:"booking_id"`
	Amount     float64              `json:"amount"`
	Status     entity.PaymentStatus `json:"status"`
	ProofRef   *string              `json:"proof_ref,omitempty"`
	VerifiedAt *time.Time           `json:"verified_at,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	passengers := make([]PassengerResponse, len(booking.Passengers))
	for i, p := range booking.Passengers {
		passengers[i] = PassengerResponse{
			Name:       p.Name,
			Phone:      p.Phone,
			SeatNumber: p.SeatNumber,
		}
	}

	return BookingResponse{
		ID:          booking.ID.String(),
		BookingCode: booking.BookingCode,
		UserID:      booking.UserID.String(),
		ScheduleID:  booking.ScheduleID.String(),
		TravelDate:  booking.TravelDate.Format("2006-01-02"),
		SeatNumbers: booking.SeatNumbers,
		Passengers:  passengers,
		TotalAmount: booking.TotalAmount,
		Status:      booking.Status,
		CreatedAt:   booking.CreatedAt,
	}
}

func PaymentToResponse(payment *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:         payment.ID.String(),
		BookingID:  payment.BookingID.String(),
		Amount:     payment.Amount,
		Status:     payment.Status,
		ProofRef:   payment.ProofRef,
		VerifiedAt: payment.VerifiedAt,
		CreatedAt:  payment.CreatedAt,
	}
}
