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

type ScheduleHandler struct {
	service     usecase.ScheduleService
	reservation usecase.ReservationService
	log         *zap.Logger
}

func NewScheduleHandler(service usecase.ScheduleService, reservation usecase.ReservationService, log *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service:     service,
		reservation: reservation,
		log:         log.With(zap.String("handler", "schedule")),
	}
}

// GetSchedules handles GET /api/schedules?route_id=&date= (public)
func (h *ScheduleHandler) GetSchedules(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	schedules, err := h.service.Search(r.Context(), query.Get("route_id"), query.Get("date"))
	if err != nil {
		handleServiceError(w, h.log, err, "get schedules")
		return
	}

	utils.ResponseSuccess(w, "success", schedules)
}

// GetScheduleByID handles GET /api/schedules/{id} (public)
func (h *ScheduleHandler) GetScheduleByID(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")
	if scheduleID == "" {
		utils.ResponseBadRequest(w, "Schedule ID is required", nil)
		return
	}

	schedule, err := h.service.GetByID(r.Context(), scheduleID)
	if err != nil {
		handleServiceError(w, h.log, err, "get schedule by ID")
		return
	}

	utils.ResponseSuccess(w, "success", schedule)
}

// GetAvailability handles GET /api/schedules/{id}/availability?date=YYYY-MM-DD (public)
func (h *ScheduleHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")
	if scheduleID == "" {
		utils.ResponseBadRequest(w, "Schedule ID is required", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		utils.ResponseBadRequest(w, "Query parameter 'date' is required (YYYY-MM-DD)", nil)
		return
	}

	availability, err := h.reservation.GetAvailability(r.Context(), scheduleID, date)
	if err != nil {
		handleServiceError(w, h.log, err, "get availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

// ==================== ADMIN METHODS ====================

// GetSeatMap handles GET /api/admin/schedules/{id}/seats?date=YYYY-MM-DD (admin only)
func (h *ScheduleHandler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")
	if scheduleID == "" {
		utils.ResponseBadRequest(w, "Schedule ID is required", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		utils.ResponseBadRequest(w, "Query parameter 'date' is required (YYYY-MM-DD)", nil)
		return
	}

	seats, err := h.reservation.GetSeatMap(r.Context(), scheduleID, date)
	if err != nil {
		handleServiceError(w, h.log, err, "get seat map")
		return
	}

	utils.ResponseSuccess(w, "success", seats)
}

// CreateSchedule handles POST /api/admin/schedules (admin only)
func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req request.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	schedule, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create schedule")
		return
	}

	utils.ResponseCreated(w, "success", schedule)
}

// UpdateSchedule handles PUT /api/admin/schedules/{id} (admin only)
func (h *ScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")
	if scheduleID == "" {
		utils.ResponseBadRequest(w, "Schedule ID is required", nil)
		return
	}

	var req request.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	schedule, err := h.service.Update(r.Context(), scheduleID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update schedule")
		return
	}

	utils.ResponseSuccess(w, "success", schedule)
}

// SetScheduleActive handles PUT /api/admin/schedules/{id}/active (admin only)
func (h *ScheduleHandler) SetScheduleActive(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")
	if scheduleID == "" {
		utils.ResponseBadRequest(w, "Schedule ID is required", nil)
		return
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.SetActive(r.Context(), scheduleID, req.Active); err != nil {
		handleServiceError(w, h.log, err, "set schedule active")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
