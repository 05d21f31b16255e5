package request

type SubmitPaymentRequest struct {
	BookingID string  `json:"booking_id" validate:"required,uuid4"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	ProofRef  string  `json:"proof_ref" validate:"required"`
}
