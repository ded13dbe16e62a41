package models

import (
	"time"
)

// RouteLoad is the projection of a booking handed to a transporter scanning
// for compatible loads. It deliberately carries only what the transporter
// needs to decide; never the full Booking.
type RouteLoad struct {
	BookingID   string             `json:"bookingId"`
	Locations   RouteLoadLocations `json:"locations"`
	Weight      float64            `json:"weight"`
	Requirements LoadRequirements  `json:"requirements"`
	PickUpDate  *time.Time         `json:"pickUpDate,omitempty"`
	ProductType string             `json:"productType"`
	Cost        *float64           `json:"cost,omitempty"`
}

type RouteLoadLocations struct {
	From GeoPoint `json:"from"`
	To   GeoPoint `json:"to"`
}

type LoadRequirements struct {
	Refrigeration   bool `json:"refrigeration"`
	HumidityControl bool `json:"humidityControl"`
}

// NewRouteLoad projects a booking down to its RouteLoad view.
func NewRouteLoad(b *Booking) *RouteLoad {
	return &RouteLoad{
		BookingID: b.RequestID,
		Locations: RouteLoadLocations{
			From: b.FromLocation,
			To:   b.ToLocation,
		},
		Weight: b.WeightKg,
		Requirements: LoadRequirements{
			Refrigeration:   b.NeedsRefrigeration,
			HumidityControl: b.HumidityControl,
		},
		PickUpDate:  b.PickUpDate,
		ProductType: b.ProductType,
		Cost:        b.Cost,
	}
}
