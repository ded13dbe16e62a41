package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FleetStatus is the derived operational classification of a transporter.
// Account health and document compliance dominate operational state.
type FleetStatus string

const (
	FleetStatusInactive     FleetStatus = "inactive"
	FleetStatusNonCompliant FleetStatus = "non-compliant"
	FleetStatusActive       FleetStatus = "active"
	FleetStatusAssigned     FleetStatus = "assigned"
	FleetStatusAvailable    FleetStatus = "available"
	FleetStatusIdle         FleetStatus = "idle"
)

func (s FleetStatus) Valid() bool {
	switch s {
	case FleetStatusInactive, FleetStatusNonCompliant, FleetStatusActive,
		FleetStatusAssigned, FleetStatusAvailable, FleetStatusIdle:
		return true
	}
	return false
}

// FleetMember is one classified transporter in a fleet status report.
type FleetMember struct {
	TransporterID primitive.ObjectID `json:"transporterId"`
	Name          string             `json:"name"`
	VehicleType   string             `json:"vehicleType"`
	Rating        float64            `json:"rating"`
	Status        FleetStatus        `json:"status"`
}

// FleetReport is the dashboard payload: the (optionally filtered) fleet list
// plus a tally over every classified transporter.
type FleetReport struct {
	Fleet   []FleetMember       `json:"fleet"`
	Summary map[FleetStatus]int `json:"summary"`
}
