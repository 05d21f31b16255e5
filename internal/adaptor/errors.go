package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"bus-ticketing/internal/usecase"
	"bus-ticketing/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps service errors to HTTP responses. The
// reservation taxonomy gets precise statuses; anything unrecognized is
// a persistence failure and stays opaque to the client.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var seatErr *usecase.SeatUnavailableError

	switch {
	case errors.As(err, &seatErr):
		log.Info(operation+" failed - seat taken",
			zap.String("seat_number", seatErr.SeatNumber))
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrSeatsBusy):
		log.Info(operation + " failed - seats contended")
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrInvalidTransition):
		log.Warn(operation+" failed - invalid transition", zap.Error(err))
		utils.ResponseUnprocessable(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrScheduleInactive),
		errors.Is(err, usecase.ErrCapacityExceeded):
		log.Warn(operation+" failed", zap.Error(err))
		utils.ResponseUnprocessable(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrRouteNotFound),
		errors.Is(err, usecase.ErrScheduleNotFound),
		errors.Is(err, usecase.ErrBookingNotFound),
		errors.Is(err, usecase.ErrPaymentNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case strings.Contains(err.Error(), "validation failed"),
		strings.Contains(err.Error(), "invalid"),
		strings.Contains(err.Error(), "does not match"):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case strings.Contains(err.Error(), "already"):
		log.Warn(operation+" failed - duplicate", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	case strings.Contains(err.Error(), "unauthorized"):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
