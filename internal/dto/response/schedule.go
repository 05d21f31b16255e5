package response

import (
	"bus-ticketing/internal/data/entity"
)

type ScheduleResponse struct {
	ID            string   `json:"id"`
	RouteID       string   `json:"route_id"`
	BusCode       string   `json:"bus_code"`
	DepartureTime string   `json:"departure_time"`
	ArrivalTime   string   `json:"arrival_time"`
	TotalSeats    int      `json:"total_seats"`
	Price         float64  `json:"price"`
	IsActive      bool     `json:"is_active"`
	DaysOfWeek    []string `json:"days_of_week"`
}

// AvailabilityResponse reports the derived seat availability for one
// schedule and travel date.
type AvailabilityResponse struct {
	ScheduleID     string   `json:"schedule_id"`
	TravelDate     string   `json:"travel_date"`
	TotalSeats     int      `json:"total_seats"`
	AvailableSeats []string `json:"available_seats"`
	AvailableCount int      `json:"available_count"`
	Price          float64  `json:"price"`
}

// SeatResponse is one row of the admin seat map.
type SeatResponse struct {
	SeatNumber string            `json:"seat_number"`
	Status     entity.SeatStatus `json:"status"`
	BookingID  *string           `json:"booking_id,omitempty"`
}

func SeatToResponse(seat *entity.Seat) SeatResponse {
	resp := SeatResponse{
		SeatNumber: seat.SeatNumber,
		Status:     seat.Status,
	}
	if seat.BookingID != nil {
		id := seat.BookingID.String()
		resp.BookingID = &id
	}
	return resp
}

func ScheduleToResponse(schedule *entity.Schedule) ScheduleResponse {
	days := make([]string, len(schedule.DaysOfWeek))
	for i, d := range schedule.DaysOfWeek {
		days[i] = d.String()
	}

	return ScheduleResponse{
		ID:            schedule.ID.String(),
		RouteID:       schedule.RouteID.String(),
		BusCode:       schedule.BusCode,
		DepartureTime: schedule.DepartureTime.Format("15:04"),
		ArrivalTime:   schedule.ArrivalTime.Format("15:04"),
		TotalSeats:    schedule.TotalSeats,
		Price:         schedule.Price,
		IsActive:      schedule.IsActive,
		DaysOfWeek:    days,
	}
}
