package wire

import (
	"bus-ticketing/internal/adaptor"
	"bus-ticketing/internal/data/repository"
	"bus-ticketing/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSchedule(
	r chi.Router,
	scheduleHandler *adaptor.ScheduleHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/schedules", scheduleHandler.GetSchedules)
	r.Get("/api/schedules/{id}", scheduleHandler.GetScheduleByID)

	// Seat availability is public so customers can browse before login
	r.Get("/api/schedules/{id}/availability", scheduleHandler.GetAvailability)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/schedules", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		r.Post("/", scheduleHandler.CreateSchedule)
		r.Put("/{id}", scheduleHandler.UpdateSchedule)
		r.Put("/{id}/active", scheduleHandler.SetScheduleActive)
		r.Get("/{id}/seats", scheduleHandler.GetSeatMap)
	})
}
