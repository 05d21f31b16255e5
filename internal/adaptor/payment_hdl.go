package adaptor

import (
	"encoding/json"
	"net/http"

	"bus-ticketing/internal/dto/request"
	"bus-ticketing/internal/usecase"
	"bus-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// SubmitPayment handles POST /api/payments (protected)
func (h *PaymentHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.SubmitPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	payment, err := h.service.Submit(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "submit payment")
		return
	}

	utils.ResponseCreated(w, "success", payment)
}

// ==================== ADMIN METHODS ====================

// ListPendingPayments handles GET /api/admin/payments/pending (admin only)
func (h *PaymentHandler) ListPendingPayments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	payments, err := h.service.ListPending(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list pending payments")
		return
	}

	utils.ResponseSuccess(w, "success", payments)
}

// VerifyPayment handles POST /api/admin/payments/{id}/verify (admin only)
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	paymentID := chi.URLParam(r, "id")
	if paymentID == "" {
		utils.ResponseBadRequest(w, "Payment ID is required", nil)
		return
	}

	if err := h.service.Verify(r.Context(), paymentID, adminID.String()); err != nil {
		handleServiceError(w, h.log, err, "verify payment")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// RejectPayment handles POST /api/admin/payments/{id}/reject (admin only)
func (h *PaymentHandler) RejectPayment(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	paymentID := chi.URLParam(r, "id")
	if paymentID == "" {
		utils.ResponseBadRequest(w, "Payment ID is required", nil)
		return
	}

	if err := h.service.Reject(r.Context(), paymentID, adminID.String()); err != nil {
		handleServiceError(w, h.log, err, "reject payment")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
