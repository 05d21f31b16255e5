package request

type PassengerRequest struct {
	Name       string `json:"name" validate:"required,min=2"`
	Phone      string `json:"phone" validate:"required,min=6,max=20"`
	SeatNumber string `json:"seat_number" validate:"required"`
}

type CreateBookingRequest struct {
	ScheduleID  string             `json:"schedule_id" validate:"required,uuid4"`
	TravelDate  string             `json:"travel_date" validate:"required,datetime=2006-01-02"`
	SeatNumbers []string           `json:"seat_numbers" validate:"required,min=1,dive,required"`
	Passengers  []PassengerRequest `json:"passengers" validate:"required,min=1,dive"`
}
