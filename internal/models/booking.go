package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingType string
type BookingMode string
type BookingStatus string
type UrgencyLevel string

const (
	BookingTypeAgri  BookingType = "Agri"
	BookingTypeCargo BookingType = "Cargo"

	BookingModeInstant   BookingMode = "instant"
	BookingModeScheduled BookingMode = "booking"

	BookingStatusPending    BookingStatus = "pending"
	BookingStatusAccepted   BookingStatus = "accepted"
	BookingStatusInProgress BookingStatus = "in-progress"
	BookingStatusPickedUp   BookingStatus = "picked-up"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"

	UrgencyLow    UrgencyLevel = "Low"
	UrgencyMedium UrgencyLevel = "Medium"
	UrgencyHigh   UrgencyLevel = "High"
)

// SpecialCargoVocabulary is the fixed set of special cargo handling classes.
// Entries are only valid on Cargo bookings.
var SpecialCargoVocabulary = []string{
	"fragile",
	"hazardous",
	"oversized",
	"liquid",
	"livestock",
	"machinery",
}

type Booking struct {
	ID                  primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	RequestID           string              `json:"requestId" bson:"request_id" validate:"required"`
	UserID              primitive.ObjectID  `json:"userId" bson:"user_id"`
	BookingType         BookingType         `json:"bookingType" bson:"booking_type" validate:"required"`
	BookingMode         BookingMode         `json:"bookingMode" bson:"booking_mode" validate:"required"`
	WeightKg            float64             `json:"weightKg" bson:"weight_kg"`
	ProductType         string              `json:"productType" bson:"product_type"`
	SpecialRequest      string              `json:"specialRequest,omitempty" bson:"special_request,omitempty"`
	Perishable          bool                `json:"perishable" bson:"perishable"`
	NeedsRefrigeration  bool                `json:"needsRefrigeration" bson:"needs_refrigeration"`
	HumidityControl     bool                `json:"humidityControl" bson:"humidity_control"`
	Insured             bool                `json:"insured" bson:"insured"`
	Value               float64             `json:"value,omitempty" bson:"value,omitempty"`
	UrgencyLevel        UrgencyLevel        `json:"urgencyLevel" bson:"urgency_level" default:"Low"`
	Priority            bool                `json:"priority" bson:"priority"`
	Recurrence          *RecurrencePlan     `json:"recurrence,omitempty" bson:"recurrence,omitempty"`
	FromLocation        GeoPoint            `json:"fromLocation" bson:"from_location" validate:"required"`
	ToLocation          GeoPoint            `json:"toLocation" bson:"to_location" validate:"required"`
	Status              BookingStatus       `json:"status" bson:"status" default:"pending"`
	PickUpDate          *time.Time          `json:"pickUpDate,omitempty" bson:"pick_up_date,omitempty"`
	SpecialCargo        []string            `json:"specialCargo,omitempty" bson:"special_cargo,omitempty"`
	ActualDistance      float64             `json:"actualDistance,omitempty" bson:"actual_distance,omitempty"`
	TransporterID       *primitive.ObjectID `json:"transporterId,omitempty" bson:"transporter_id,omitempty"`
	DriverID            *primitive.ObjectID `json:"driverId,omitempty" bson:"driver_id,omitempty"`
	Cost                *float64            `json:"cost,omitempty" bson:"cost,omitempty"`
	AssignedTransporter *AssignmentSnapshot `json:"assignedTransporter,omitempty" bson:"assigned_transporter,omitempty"`
	AcceptedAt          *time.Time          `json:"acceptedAt,omitempty" bson:"accepted_at,omitempty"`
	CompletedAt         *time.Time          `json:"completedAt,omitempty" bson:"completed_at,omitempty"`
	CancelledAt         *time.Time          `json:"cancelledAt,omitempty" bson:"cancelled_at,omitempty"`
	CreatedAt           time.Time           `json:"createdAt" bson:"created_at"`
	UpdatedAt           time.Time           `json:"updatedAt" bson:"updated_at"`
}

// AssignmentSnapshot freezes the transporter and vehicle fields that matter to
// a booking at the moment of assignment. Later edits to the transporter
// profile never rewrite booking history.
type AssignmentSnapshot struct {
	Name               string    `json:"name" bson:"name"`
	Phone              string    `json:"phone" bson:"phone"`
	RegistrationNumber string    `json:"registrationNumber" bson:"registration_number"`
	VehicleType        string    `json:"vehicleType" bson:"vehicle_type"`
	VehicleCapacity    float64   `json:"vehicleCapacity" bson:"vehicle_capacity"`
	AssignedAt         time.Time `json:"assignedAt" bson:"assigned_at"`
}

var statusRank = map[BookingStatus]int{
	BookingStatusPending:    0,
	BookingStatusAccepted:   1,
	BookingStatusInProgress: 2,
	BookingStatusPickedUp:   3,
	BookingStatusCompleted:  4,
}

// CanTransition reports whether a booking may move from one status to
// another. The lifecycle is monotonic: pending -> accepted -> in-progress ->
// picked-up -> completed, with cancellation allowed only from pending or
// accepted. It never regresses.
func CanTransition(from, to BookingStatus) bool {
	if to == BookingStatusCancelled {
		return from == BookingStatusPending || from == BookingStatusAccepted
	}
	if from == BookingStatusCancelled {
		return false
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank == fromRank+1
}

// IsTerminal reports whether the status ends the booking lifecycle.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// IsActive reports whether the booking currently occupies a transporter.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusAccepted || s == BookingStatusInProgress || s == BookingStatusPickedUp
}

// CompatibleVehicleTypes maps a booking type to the vehicle types allowed to
// carry it.
var CompatibleVehicleTypes = map[BookingType][]string{
	BookingTypeAgri:  {"truck", "pickup", "trailer"},
	BookingTypeCargo: {"truck", "trailer", "container"},
}

func VehicleTypeCompatible(bookingType BookingType, vehicleType string) bool {
	for _, vt := range CompatibleVehicleTypes[bookingType] {
		if vt == vehicleType {
			return true
		}
	}
	return false
}
