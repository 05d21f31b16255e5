package request

type CreateScheduleRequest struct {
	RouteID       string  `json:"route_id" validate:"required,uuid4"`
	BusCode       string  `json:"bus_code" validate:"required,min=2"`
	DepartureTime string  `json:"departure_time" validate:"required,datetime=15:04"`
	ArrivalTime   string  `json:"arrival_time" validate:"required,datetime=15:04"`
	TotalSeats    int     `json:"total_seats" validate:"required,min=1,max=104"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	DaysOfWeek    []int   `json:"days_of_week" validate:"required,min=1,max=7,dive,min=0,max=6"`
}

type UpdateScheduleRequest struct {
	BusCode       string  `json:"bus_code" validate:"required,min=2"`
	DepartureTime string  `json:"departure_time" validate:"required,datetime=15:04"`
	ArrivalTime   string  `json:"arrival_time" validate:"required,datetime=15:04"`
	TotalSeats    int     `json:"total_seats" validate:"required,min=1,max=104"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	DaysOfWeek    []int   `json:"days_of_week" validate:"required,min=1,max=7,dive,min=0,max=6"`
	IsActive      bool    `json:"is_active"`
}
