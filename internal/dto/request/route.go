package request

type CreateRouteRequest struct {
	Origin      string  `json:"origin" validate:"required,min=2"`
	Destination string  `json:"destination" validate:"required,min=2"`
	DistanceKM  float64 `json:"distance_km" validate:"required,gt=0"`
}

type UpdateRouteRequest struct {
	Origin      string  `json:"origin" validate:"required,min=2"`
	Destination string  `json:"destination" validate:"required,min=2"`
	DistanceKM  float64 `json:"distance_km" validate:"required,gt=0"`
	IsActive    bool    `json:"is_active"`
}
