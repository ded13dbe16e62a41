package models

import (
	"time"
)

// GeoPoint is a plain coordinate pair with an optional human-readable address.
type GeoPoint struct {
	Lat     float64 `json:"lat" bson:"lat" validate:"min=-90,max=90"`
	Lng     float64 `json:"lng" bson:"lng" validate:"min=-180,max=180"`
	Address string  `json:"address,omitempty" bson:"address,omitempty"`
}

// RoutePoint is a single sample of a transporter's travelled route.
type RoutePoint struct {
	Location  GeoPoint  `json:"location" bson:"location"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

func (p GeoPoint) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0 && p.Address == ""
}
