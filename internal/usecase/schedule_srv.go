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

type ScheduleService interface {
	Create(ctx context.Context, req *request.CreateScheduleRequest) (*response.ScheduleResponse, error)
	GetByID(ctx context.Context, scheduleID string) (*response.ScheduleResponse, error)
	// Search lists active schedules, optionally narrowed to a route
	// and to those operating on a travel date.
	Search(ctx context.Context, routeID string, travelDate string) ([]response.ScheduleResponse, error)
	Update(ctx context.Context, scheduleID string, req *request.UpdateScheduleRequest) (*response.ScheduleResponse, error)
	SetActive(ctx context.Context, scheduleID string, active bool) error
}

type scheduleService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewScheduleService(repo *repository.Repository, log *zap.Logger) ScheduleService {
	return &scheduleService{
		repo: repo,
		log:  log.With(zap.String("service", "schedule")),
	}
}

func (s *scheduleService) Create(ctx context.Context, req *request.CreateScheduleRequest) (*response.ScheduleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create schedule validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	routeID, err := uuid.Parse(req.RouteID)
	if err != nil {
		return nil, fmt.Errorf("invalid route ID format %s: %w", req.RouteID, err)
	}

	route, err := s.repo.Route.FindByID(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, ErrRouteNotFound
	}
	if !route.IsActive {
		return nil, fmt.Errorf("route %s is not active", req.RouteID)
	}

	departure, arrival, err := parseTimes(req.DepartureTime, req.ArrivalTime)
	if err != nil {
		return nil, err
	}

	days, err := weekdaysFromRequest(req.DaysOfWeek)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	schedule := &entity.Schedule{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RouteID:       routeID,
		BusCode:       req.BusCode,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		TotalSeats:    req.TotalSeats,
		Price:         req.Price,
		IsActive:      true,
		DaysOfWeek:    days,
	}

	if err := s.repo.Schedule.Create(ctx, schedule); err != nil {
		return nil, err
	}

	s.log.Info("Schedule created",
		zap.String("schedule_id", schedule.ID.String()),
		zap.String("route_id", req.RouteID),
		zap.String("bus_code", schedule.BusCode),
		zap.Int("total_seats", schedule.TotalSeats),
	)

	resp := response.ScheduleToResponse(schedule)
	return &resp, nil
}

func (s *scheduleService) GetByID(ctx context.Context, scheduleID string) (*response.ScheduleResponse, error) {
	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule ID format %s: %w", scheduleID, err)
	}

	schedule, err := s.repo.Schedule.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	resp := response.ScheduleToResponse(schedule)
	return &resp, nil
}

func (s *scheduleService) Search(ctx context.Context, routeID string, travelDate string) ([]response.ScheduleResponse, error) {
	var schedules []*entity.Schedule
	var err error

	if routeID != "" {
		id, parseErr := uuid.Parse(routeID)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid route ID format %s: %w", routeID, parseErr)
		}
		schedules, err = s.repo.Schedule.FindByRouteID(ctx, id, true)
	} else {
		schedules, err = s.repo.Schedule.FindAllActive(ctx)
	}
	if err != nil {
		return nil, err
	}

	if travelDate != "" {
		date, parseErr := time.Parse("2006-01-02", travelDate)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid travel date %s: %w", travelDate, parseErr)
		}

		operating := schedules[:0]
		for _, schedule := range schedules {
			if schedule.OperatesOn(date) {
				operating = append(operating, schedule)
			}
		}
		schedules = operating
	}

	return schedulesToResponses(schedules), nil
}

func (s *scheduleService) Update(ctx context.Context, scheduleID string, req *request.UpdateScheduleRequest) (*response.ScheduleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule ID format %s: %w", scheduleID, err)
	}

	schedule, err := s.repo.Schedule.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	departure, arrival, err := parseTimes(req.DepartureTime, req.ArrivalTime)
	if err != nil {
		return nil, err
	}

	days, err := weekdaysFromRequest(req.DaysOfWeek)
	if err != nil {
		return nil, err
	}

	schedule.BusCode = req.BusCode
	schedule.DepartureTime = departure
	schedule.ArrivalTime = arrival
	schedule.TotalSeats = req.TotalSeats
	schedule.Price = req.Price
	schedule.IsActive = req.IsActive
	schedule.DaysOfWeek = days
	schedule.UpdatedAt = time.Now()

	if err := s.repo.Schedule.Update(ctx, schedule); err != nil {
		return nil, err
	}

	s.log.Info("Schedule updated", zap.String("schedule_id", scheduleID))

	resp := response.ScheduleToResponse(schedule)
	return &resp, nil
}

func (s *scheduleService) SetActive(ctx context.Context, scheduleID string, active bool) error {
	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return fmt.Errorf("invalid schedule ID format %s: %w", scheduleID, err)
	}

	schedule, err := s.repo.Schedule.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if schedule == nil {
		return ErrScheduleNotFound
	}

	if err := s.repo.Schedule.SetActive(ctx, id, active); err != nil {
		return err
	}

	s.log.Info("Schedule active flag changed",
		zap.String("schedule_id", scheduleID),
		zap.Bool("active", active),
	)
	return nil
}

func parseTimes(departure, arrival string) (time.Time, time.Time, error) {
	dep, err := time.Parse("15:04", departure)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid departure time %s: %w", departure, err)
	}

	arr, err := time.Parse("15:04", arrival)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid arrival time %s: %w", arrival, err)
	}

	return dep, arr, nil
}

func weekdaysFromRequest(days []int) ([]time.Weekday, error) {
	ints := make([]int16, len(days))
	for i, d := range days {
		ints[i] = int16(d)
	}
	return entity.WeekdaysFromInts(ints)
}

func schedulesToResponses(schedules []*entity.Schedule) []response.ScheduleResponse {
	items := make([]response.ScheduleResponse, len(schedules))
	for i, schedule := range schedules {
		items[i] = response.ScheduleToResponse(schedule)
	}
	return items
}
