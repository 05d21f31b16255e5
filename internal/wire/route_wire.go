package wire

import (
	"bus-ticketing/internal/adaptor"
	"bus-ticketing/internal/data/repository"
	"bus-ticketing/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireRoute(
	r chi.Router,
	routeHandler *adaptor.RouteHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/routes", routeHandler.GetRoutes)
	r.Get("/api/routes/{id}", routeHandler.GetRouteByID)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/routes", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		r.Post("/", routeHandler.CreateRoute)
		r.Put("/{id}", routeHandler.UpdateRoute)
		r.Delete("/{id}", routeHandler.DeactivateRoute)
	})
}
