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

type RouteService interface {
	Create(ctx context.Context, req *request.CreateRouteRequest) (*response.RouteResponse, error)
	GetByID(ctx context.Context, routeID string) (*response.RouteResponse, error)
	GetAll(ctx context.Context, activeOnly bool) ([]response.RouteResponse, error)
	Update(ctx context.Context, routeID string, req *request.UpdateRouteRequest) (*response.RouteResponse, error)
	Deactivate(ctx context.Context, routeID string) error
}

type routeService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewRouteService(repo *repository.Repository, log *zap.Logger) RouteService {
	return &routeService{
		repo: repo,
		log:  log.With(zap.String("service", "route")),
	}
}

func (s *routeService) Create(ctx context.Context, req *request.CreateRouteRequest) (*response.RouteResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create route validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	route := &entity.Route{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Origin:      req.Origin,
		Destination: req.Destination,
		DistanceKM:  req.DistanceKM,
		IsActive:    true,
	}

	if err := s.repo.Route.Create(ctx, route); err != nil {
		return nil, err
	}

	s.log.Info("Route created",
		zap.String("route_id", route.ID.String()),
		zap.String("origin", route.Origin),
		zap.String("destination", route.Destination),
	)

	resp := response.RouteToResponse(route)
	return &resp, nil
}

func (s *routeService) GetByID(ctx context.Context, routeID string) (*response.RouteResponse, error) {
	id, err := uuid.Parse(routeID)
	if err != nil {
		return nil, fmt.Errorf("invalid route ID format %s: %w", routeID, err)
	}

	route, err := s.repo.Route.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, ErrRouteNotFound
	}

	resp := response.RouteToResponse(route)
	return &resp, nil
}

func (s *routeService) GetAll(ctx context.Context, activeOnly bool) ([]response.RouteResponse, error) {
	routes, err := s.repo.Route.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	items := make([]response.RouteResponse, len(routes))
	for i, route := range routes {
		items[i] = response.RouteToResponse(route)
	}

	return items, nil
}

func (s *routeService) Update(ctx context.Context, routeID string, req *request.UpdateRouteRequest) (*response.RouteResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(routeID)
	if err != nil {
		return nil, fmt.Errorf("invalid route ID format %s: %w", routeID, err)
	}

	route, err := s.repo.Route.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, ErrRouteNotFound
	}

	route.Origin = req.Origin
	route.Destination = req.Destination
	route.DistanceKM = req.DistanceKM
	route.IsActive = req.IsActive
	route.UpdatedAt = time.Now()

	if err := s.repo.Route.Update(ctx, route); err != nil {
		return nil, err
	}

	s.log.Info("Route updated", zap.String("route_id", routeID))

	resp := response.RouteToResponse(route)
	return &resp, nil
}

func (s *routeService) Deactivate(ctx context.Context, routeID string) error {
	id, err := uuid.Parse(routeID)
	if err != nil {
		return fmt.Errorf("invalid route ID format %s: %w", routeID, err)
	}

	route, err := s.repo.Route.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if route == nil {
		return ErrRouteNotFound
	}

	if err := s.repo.Route.Deactivate(ctx, id); err != nil {
		return err
	}

	s.log.Info("Route deactivated", zap.String("route_id", routeID))
	return nil
}
