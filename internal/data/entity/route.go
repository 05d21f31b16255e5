package entity

type Route struct {
	Base
	Origin      string  `db:"origin"`
	Destination string  `db:"destination"`
	DistanceKM  float64 `db:"distance_km"`
	IsActive    bool    `db:"is_active"`
}
