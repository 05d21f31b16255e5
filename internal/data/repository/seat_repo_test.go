package repository

import (
	"context"
	"testing"
	"time"

	"bus-ticketing/internal/data/entity"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"go.uber.org/zap"
)

func newSeatRepoFixture(t *testing.T) (pgxmock.PgxPoolIface, SeatRepository) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	return mock, NewSeatRepository(mock, zap.NewNop())
}

func testDate(t *testing.T) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", "2026-09-07")
	if err != nil {
		t.Fatal(err)
	}
	return date
}

// anyArgs builds a WithArgs list for statements whose values are
// generated inside the repository (seat uuids, timestamps).
func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestEnsureForDateBatchInsert(t *testing.T) {
	mock, repo := newSeatRepoFixture(t)

	// 4 seats, 7 columns per row
	mock.ExpectExec("INSERT INTO seats").
		WithArgs(anyArgs(28)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 4))

	err := repo.EnsureForDate(context.Background(), uuid.New(), testDate(t), []string{"A1", "A2", "A3", "A4"})
	if err != nil {
		t.Fatalf("EnsureForDate returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestEnsureForDateEmptyPlanIsNoop(t *testing.T) {
	mock, repo := newSeatRepoFixture(t)

	if err := repo.EnsureForDate(context.Background(), uuid.New(), testDate(t), nil); err != nil {
		t.Fatalf("EnsureForDate returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no queries expected for empty plan: %v", err)
	}
}

func TestHoldAvailableReturnsClaimedSeats(t *testing.T) {
	mock, repo := newSeatRepoFixture(t)
	scheduleID := uuid.New()

	mock.ExpectQuery("UPDATE seats").
		WithArgs(scheduleID, testDate(t), []string{"A1", "A2"}, entity.SeatStatusHeld, entity.SeatStatusAvailable).
		WillReturnRows(pgxmock.NewRows([]string{"seat_number"}).AddRow("A1").AddRow("A2"))

	held, err := repo.HoldAvailable(context.Background(), scheduleID, testDate(t), []string{"A1", "A2"})
	if err != nil {
		t.Fatalf("HoldAvailable returned error: %v", err)
	}

	if len(held) != 2 {
		t.Fatalf("expected 2 held seats, got %d", len(held))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestHoldAvailablePartialClaim(t *testing.T) {
	mock, repo := newSeatRepoFixture(t)
	scheduleID := uuid.New()

	// One seat already held elsewhere: the conditional update skips it
	mock.ExpectQuery("UPDATE seats").
		WithArgs(scheduleID, testDate(t), []string{"A1", "A2"}, entity.SeatStatusHeld, entity.SeatStatusAvailable).
		WillReturnRows(pgxmock.NewRows([]string{"seat_number"}).AddRow("A1"))

	held, err := repo.HoldAvailable(context.Background(), scheduleID, testDate(t), []string{"A1", "A2"})
	if err != nil {
		t.Fatalf("HoldAvailable returned error: %v", err)
	}

	if len(held) != 1 || held[0] != "A1" {
		t.Fatalf("expected only A1 claimed, got %v", held)
	}
}

func TestCommitBookingChecksAffectedRows(t *testing.T) {
	mock, repo := newSeatRepoFixture(t)
	scheduleID := uuid.New()
	bookingID := uuid.New()

	mock.ExpectExec("UPDATE seats").
		WithArgs(scheduleID, testDate(t), []string{"A1", "A2"}, bookingID, entity.SeatStatusBooked, entity.SeatStatusHeld).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.CommitBooking(context.Background(), scheduleID, testDate(t), []string{"A1", "A2"}, bookingID)
	if err == nil {
		t.Fatal("expected error when fewer rows updated than seats requested")
	}
}

func TestCommitBookingSuccess(t *testing.T) {
	mock, repo := newSeatRepoFixture(t)
	scheduleID := uuid.New()
	bookingID := uuid.New()

	mock.ExpectExec("UPDATE seats").
		WithArgs(scheduleID, testDate(t), []string{"A1", "A2"}, bookingID, entity.SeatStatusBooked, entity.SeatStatusHeld).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	err := repo.CommitBooking(context.Background(), scheduleID, testDate(t), []string{"A1", "A2"}, bookingID)
	if err != nil {
		t.Fatalf("CommitBooking returned error: %v", err)
	}
}

func TestReleaseByBookingReturnsSeatNumbers(t *testing.T) {
	mock, repo := newSeatRepoFixture(t)
	bookingID := uuid.New()

	mock.ExpectQuery("UPDATE seats").
		WithArgs(bookingID, entity.SeatStatusAvailable).
		WillReturnRows(pgxmock.NewRows([]string{"seat_number"}).AddRow("A1").AddRow("A2"))

	released, err := repo.ReleaseByBooking(context.Background(), bookingID)
	if err != nil {
		t.Fatalf("ReleaseByBooking returned error: %v", err)
	}

	if len(released) != 2 {
		t.Fatalf("expected 2 released seats, got %d", len(released))
	}
}

func TestReleaseByBookingNoSeatsIsNoop(t *testing.T) {
	mock, repo := newSeatRepoFixture(t)
	bookingID := uuid.New()

	mock.ExpectQuery("UPDATE seats").
		WithArgs(bookingID, entity.SeatStatusAvailable).
		WillReturnRows(pgxmock.NewRows([]string{"seat_number"}))

	released, err := repo.ReleaseByBooking(context.Background(), bookingID)
	if err != nil {
		t.Fatalf("ReleaseByBooking returned error: %v", err)
	}

	if len(released) != 0 {
		t.Fatalf("expected no released seats, got %v", released)
	}
}

func TestListUnavailable(t *testing.T) {
	mock, repo := newSeatRepoFixture(t)
	scheduleID := uuid.New()

	mock.ExpectQuery("FROM seats").
		WithArgs(scheduleID, testDate(t), entity.SeatStatusAvailable).
		WillReturnRows(pgxmock.NewRows([]string{"seat_number"}).AddRow("A1").AddRow("B3"))

	numbers, err := repo.ListUnavailable(context.Background(), scheduleID, testDate(t))
	if err != nil {
		t.Fatalf("ListUnavailable returned error: %v", err)
	}

	if len(numbers) != 2 {
		t.Fatalf("expected 2 unavailable seats, got %d", len(numbers))
	}
}
