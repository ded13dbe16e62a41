package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Transporter struct {
	ID                  primitive.ObjectID `json:"transporterId" bson:"_id,omitempty"`
	UserID              primitive.ObjectID `json:"userId" bson:"user_id" validate:"required"`
	Name                string             `json:"name" bson:"name"`
	Phone               string             `json:"phone" bson:"phone"`
	DeviceToken         string             `json:"-" bson:"device_token,omitempty"`
	VehicleType         string             `json:"vehicleType" bson:"vehicle_type" validate:"required"`
	VehicleCapacity     float64            `json:"vehicleCapacity" bson:"vehicle_capacity"` // kilograms
	RegistrationNumber  string             `json:"registrationNumber" bson:"registration_number"`
	Refrigerated        bool               `json:"refrigerated" bson:"refrigerated"`
	HumidityControl     bool               `json:"humidityControl" bson:"humidity_control"`
	CurrentRoute        []RoutePoint       `json:"currentRoute,omitempty" bson:"current_route,omitempty"`
	LastKnownLocation   *GeoPoint          `json:"lastKnownLocation,omitempty" bson:"last_known_location,omitempty"`
	AcceptingBooking    bool               `json:"acceptingBooking" bson:"accepting_booking"`
	AccountStatus       bool               `json:"accountStatus" bson:"account_status"`
	Suspended           bool               `json:"suspended" bson:"suspended"`
	Rating              float64            `json:"rating" bson:"rating" default:"0"`
	CompletedTrips      int64              `json:"completedTrips" bson:"completed_trips" default:"0"`
	InsuranceExpiry     *time.Time         `json:"insuranceExpiry,omitempty" bson:"insurance_expiry,omitempty"`
	DriverLicenseExpiry *time.Time         `json:"driverLicenseExpiry,omitempty" bson:"driver_license_expiry,omitempty"`
	IDExpiry            *time.Time         `json:"idExpiry,omitempty" bson:"id_expiry,omitempty"`
	CreatedAt           time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt           time.Time          `json:"updatedAt" bson:"updated_at"`
}

// RoutePosition is the point route compatibility is measured from: the last
// known location when present, otherwise the most recent route sample.
// The second return value is false when the transporter has no position at
// all.
func (t *Transporter) RoutePosition() (GeoPoint, bool) {
	if t.LastKnownLocation != nil && !t.LastKnownLocation.IsZero() {
		return *t.LastKnownLocation, true
	}
	if n := len(t.CurrentRoute); n > 0 {
		return t.CurrentRoute[n-1].Location, true
	}
	return GeoPoint{}, false
}

// DocumentsExpired reports whether any compliance document (insurance,
// driver license, id) expired before the given time. A missing expiry date
// is not treated as expired.
func (t *Transporter) DocumentsExpired(now time.Time) bool {
	for _, expiry := range []*time.Time{t.InsuranceExpiry, t.DriverLicenseExpiry, t.IDExpiry} {
		if expiry != nil && expiry.Before(now) {
			return true
		}
	}
	return false
}

// Snapshot captures the transporter fields a booking keeps after assignment.
func (t *Transporter) Snapshot(at time.Time) *AssignmentSnapshot {
	return &AssignmentSnapshot{
		Name:               t.Name,
		Phone:              t.Phone,
		RegistrationNumber: t.RegistrationNumber,
		VehicleType:        t.VehicleType,
		VehicleCapacity:    t.VehicleCapacity,
		AssignedAt:         at,
	}
}
