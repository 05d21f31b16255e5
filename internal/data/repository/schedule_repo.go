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

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *entity.Schedule) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error)
	FindByRouteID(ctx context.Context, routeID uuid.UUID, activeOnly bool) ([]*entity.Schedule, error)
	FindAllActive(ctx context.Context) ([]*entity.Schedule, error)
	Update(ctx context.Context, schedule *entity.Schedule) error
	SetActive(ctx context.Context, scheduleID uuid.UUID, active bool) error
}

type scheduleRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewScheduleRepository(db database.Querier, log *zap.Logger) ScheduleRepository {
	return &scheduleRepository{
		db:  db,
		log: log.With(zap.String("repository", "schedule")),
	}
}

const scheduleColumns = `id, route_id, bus_code, departure_time, arrival_time, total_seats, price, is_active, days_of_week, created_at, updated_at`

// scanSchedule converts one row, parsing days_of_week exactly once so
// everything downstream works with typed weekdays.
func scanSchedule(row pgx.Row) (*entity.Schedule, error) {
	var schedule entity.Schedule
	var days []int16

	err := row.Scan(
		&schedule.ID,
		&schedule.RouteID,
		&schedule.BusCode,
		&schedule.DepartureTime,
		&schedule.ArrivalTime,
		&schedule.TotalSeats,
		&schedule.Price,
		&schedule.IsActive,
		&days,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	schedule.DaysOfWeek, err = entity.WeekdaysFromInts(days)
	if err != nil {
		return nil, fmt.Errorf("parse days_of_week: %w", err)
	}

	return &schedule, nil
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *entity.Schedule) error {
	query := `
		INSERT INTO schedules (id, route_id, bus_code, departure_time, arrival_time, total_seats, price, is_active, days_of_week, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		schedule.ID,
		schedule.RouteID,
		schedule.BusCode,
		schedule.DepartureTime,
		schedule.ArrivalTime,
		schedule.TotalSeats,
		schedule.Price,
		schedule.IsActive,
		entity.WeekdaysToInts(schedule.DaysOfWeek),
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create schedule",
			zap.Error(err),
			zap.String("route_id", schedule.RouteID.String()),
			zap.String("bus_code", schedule.BusCode),
		)
		return fmt.Errorf("create schedule: %w", err)
	}

	return nil
}

func (r *scheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`

	schedule, err := scanSchedule(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find schedule by ID",
			zap.Error(err),
			zap.String("schedule_id", id.String()),
		)
		return nil, fmt.Errorf("find schedule by ID %s: %w", id.String(), err)
	}

	return schedule, nil
}

func (r *scheduleRepository) FindByRouteID(ctx context.Context, routeID uuid.UUID, activeOnly bool) ([]*entity.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE route_id = $1`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY departure_time`

	rows, err := r.db.Query(ctx, query, routeID)
	if err != nil {
		r.log.Error("Failed to find schedules by route ID",
			zap.Error(err),
			zap.String("route_id", routeID.String()),
		)
		return nil, fmt.Errorf("find schedules by route ID %s: %w", routeID.String(), err)
	}
	defer rows.Close()

	var schedules []*entity.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			r.log.Error("Failed to scan schedule row", zap.Error(err))
			return nil, fmt.Errorf("scan schedule row: %w", err)
		}
		schedules = append(schedules, schedule)
	}

	return schedules, nil
}

func (r *scheduleRepository) FindAllActive(ctx context.Context) ([]*entity.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE is_active = true ORDER BY departure_time`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find active schedules", zap.Error(err))
		return nil, fmt.Errorf("find active schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*entity.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			r.log.Error("Failed to scan schedule row", zap.Error(err))
			return nil, fmt.Errorf("scan schedule row: %w", err)
		}
		schedules = append(schedules, schedule)
	}

	return schedules, nil
}

func (r *scheduleRepository) Update(ctx context.Context, schedule *entity.Schedule) error {
	query := `
		UPDATE schedules
		SET bus_code = $2, departure_time = $3, arrival_time = $4, total_seats = $5,
		    price = $6, is_active = $7, days_of_week = $8, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		schedule.ID,
		schedule.BusCode,
		schedule.DepartureTime,
		schedule.ArrivalTime,
		schedule.TotalSeats,
		schedule.Price,
		schedule.IsActive,
		entity.WeekdaysToInts(schedule.DaysOfWeek),
	)

	if err != nil {
		r.log.Error("Failed to update schedule",
			zap.Error(err),
			zap.String("schedule_id", schedule.ID.String()),
		)
		return fmt.Errorf("update schedule %s: %w", schedule.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("schedule %s not found", schedule.ID.String())
	}

	return nil
}

func (r *scheduleRepository) SetActive(ctx context.Context, scheduleID uuid.UUID, active bool) error {
	query := `UPDATE schedules SET is_active = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, scheduleID, active)
	if err != nil {
		r.log.Error("Failed to set schedule active flag",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
			zap.Bool("active", active),
		)
		return fmt.Errorf("set schedule %s active=%t: %w", scheduleID.String(), active, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("schedule %s not found", scheduleID.String())
	}

	return nil
}
