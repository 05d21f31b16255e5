package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusVerified PaymentStatus = "verified"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// Payment is the manual bank-transfer record reviewed by an admin.
// Its status transition is what drives the booking state machine.
type Payment struct {
	Base
	BookingID  uuid.UUID     `db:"booking_id"`
	Amount     float64       `db:"amount"`
	Status     PaymentStatus `db:"status"`
	ProofRef   *string       `db:"proof_ref"`
	VerifiedBy *uuid.UUID    `db:"verified_by"`
	VerifiedAt *time.Time    `db:"verified_at"`
}
