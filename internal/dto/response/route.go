package response

import (
	"bus-ticketing/internal/data/entity"
)

type RouteResponse struct {
	ID          string  `json:"id"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	DistanceKM  float64 `json:"distance_km"`
	IsActive    bool    `json:"is_active"`
}

func RouteToResponse(route *entity.Route) RouteResponse {
	return RouteResponse{
		ID:          route.ID.String(),
		Origin:      route.Origin,
		Destination: route.Destination,
		DistanceKM:  route.DistanceKM,
		IsActive:    route.IsActive,
	}
}
