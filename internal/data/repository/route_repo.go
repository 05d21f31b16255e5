package repository

import (
	"context"
	"fmt"

	"bus-ticketing/internal/data/entity"
	"bus-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RouteRepository interface {
	Create(ctx context.Context, route *entity.Route) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Route, error)
	FindAll(ctx context.Context, activeOnly bool) ([]*entity.Route, error)
	Update(ctx context.Context, route *entity.Route) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type routeRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewRouteRepository(db database.Querier, log *zap.Logger) RouteRepository {
	return &routeRepository{
		db:  db,
		log: log.With(zap.String("repository", "route")),
	}
}

func (r *routeRepository) Create(ctx context.Context, route *entity.Route) error {
	query := `
		INSERT INTO routes (id, origin, destination, distance_km, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		route.ID,
		route.Origin,
		route.Destination,
		route.DistanceKM,
		route.IsActive,
		route.CreatedAt,
		route.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create route",
			zap.Error(err),
			zap.String("origin", route.Origin),
			zap.String("destination", route.Destination),
		)
		return fmt.Errorf("create route %s-%s: %w", route.Origin, route.Destination, err)
	}

	return nil
}

func (r *routeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Route, error) {
	query := `
		SELECT id, origin, destination, distance_km, is_active, created_at, updated_at
		FROM routes
		WHERE id = $1
	`

	var route entity.Route
	err := r.db.QueryRow(ctx, query, id).Scan(
		&route.ID,
		&route.Origin,
		&route.Destination,
		&route.DistanceKM,
		&route.IsActive,
		&route.CreatedAt,
		&route.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find route by ID",
			zap.Error(err),
			zap.String("route_id", id.String()),
		)
		return nil, fmt.Errorf("find route by ID %s: %w", id.String(), err)
	}

	return &route, nil
}

func (r *routeRepository) FindAll(ctx context.Context, activeOnly bool) ([]*entity.Route, error) {
	query := `
		SELECT id, origin, destination, distance_km, is_active, created_at, updated_at
		FROM routes
	`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY origin, destination`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find routes", zap.Error(err))
		return nil, fmt.Errorf("find routes: %w", err)
	}
	defer rows.Close()

	var routes []*entity.Route
	for rows.Next() {
		var route entity.Route
		err := rows.Scan(
			&route.ID,
			&route.Origin,
			&route.Destination,
			&route.DistanceKM,
			&route.IsActive,
			&route.CreatedAt,
			&route.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan route row", zap.Error(err))
			return nil, fmt.Errorf("scan route row: %w", err)
		}
		routes = append(routes, &route)
	}

	return routes, nil
}

func (r *routeRepository) Update(ctx context.Context, route *entity.Route) error {
	query := `
		UPDATE routes
		SET origin = $2, destination = $3, distance_km = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		route.ID,
		route.Origin,
		route.Destination,
		route.DistanceKM,
		route.IsActive,
	)

	if err != nil {
		r.log.Error("Failed to update route",
			zap.Error(err),
			zap.String("route_id", route.ID.String()),
		)
		return fmt.Errorf("update route %s: %w", route.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("route %s not found", route.ID.String())
	}

	return nil
}

func (r *routeRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE routes SET is_active = false, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to deactivate route",
			zap.Error(err),
			zap.String("route_id", id.String()),
		)
		return fmt.Errorf("deactivate route %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("route %s not found", id.String())
	}

	r.log.Info("Route deactivated", zap.String("route_id", id.String()))
	return nil
}
