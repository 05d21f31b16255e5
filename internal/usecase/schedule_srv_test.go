package usecase

import (
	"context"
	"testing"
	"time"

	"bus-ticketing/internal/data/repository"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"go.uber.org/zap"
)

func scheduleRowTime(hour int) time.Time {
	return time.Date(0, 1, 1, hour, 0, 0, 0, time.UTC)
}

func scheduleRowNow() time.Time {
	return time.Now()
}

func newScheduleFixture(t *testing.T) (pgxmock.PgxPoolIface, ScheduleService) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	log := zap.NewNop()
	repo := repository.NewRepository(mock, log)

	return mock, NewScheduleService(repo, log)
}

func TestSearchFiltersByOperatingDate(t *testing.T) {
	mock, service := newScheduleFixture(t)

	// Two active schedules; only the weekday one operates on a Monday
	rows := scheduleRow(uuid.New(), 8, true, []int16{1, 2, 3, 4, 5})
	weekend := uuid.New()
	rows.AddRow(weekend, uuid.New(), "BUS-02",
		scheduleRowTime(9), scheduleRowTime(13), 8, 120000.0, true, []int16{0, 6},
		scheduleRowNow(), scheduleRowNow())

	mock.ExpectQuery("FROM schedules WHERE is_active").
		WillReturnRows(rows)

	schedules, err := service.Search(context.Background(), "", testTravelDate)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if len(schedules) != 1 {
		t.Fatalf("expected 1 schedule operating on a Monday, got %d", len(schedules))
	}
	if schedules[0].ID == weekend.String() {
		t.Error("weekend-only schedule should be filtered out")
	}
}

func TestSearchWithoutDateReturnsAllActive(t *testing.T) {
	mock, service := newScheduleFixture(t)

	mock.ExpectQuery("FROM schedules WHERE is_active").
		WillReturnRows(scheduleRow(uuid.New(), 8, true, []int16{0, 6}))

	schedules, err := service.Search(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if len(schedules) != 1 {
		t.Fatalf("expected 1 schedule, got %d", len(schedules))
	}
}

func TestSearchInvalidDate(t *testing.T) {
	mock, service := newScheduleFixture(t)

	mock.ExpectQuery("FROM schedules WHERE is_active").
		WillReturnRows(scheduleRow(uuid.New(), 8, true, []int16{1}))

	_, err := service.Search(context.Background(), "", "not-a-date")
	if err == nil {
		t.Fatal("expected error for malformed date")
	}
}
