package validators

import (
	"fmt"
	"strings"
	"time"

	"freightlink/internal/models"
	"freightlink/internal/utils"
)

// BookingRequest is the inbound payload for POST /bookings. Field names are
// the wire contract shared with the recurrence job and admin tooling.
type BookingRequest struct {
	BookingType        string                  `json:"bookingType" validate:"required,booking_type"`
	BookingMode        string                  `json:"bookingMode" validate:"required,booking_mode"`
	WeightKg           float64                 `json:"weightKg" validate:"required,gt=0"`
	ProductType        string                  `json:"productType" validate:"required,max=100"`
	SpecialRequest     string                  `json:"specialRequest" validate:"omitempty,max=500"`
	Perishable         bool                    `json:"perishable"`
	NeedsRefrigeration bool                    `json:"needsRefrigeration"`
	HumidityControl    bool                    `json:"humidityControl"`
	Insured            bool                    `json:"insured"`
	Value              float64                 `json:"value" validate:"omitempty,gte=0"`
	UrgencyLevel       string                  `json:"urgencyLevel" validate:"urgency_level"`
	Priority           bool                    `json:"priority"`
	Recurrence         *RecurrenceRequest      `json:"recurrence" validate:"omitempty"`
	FromLocation       *LocationRequest        `json:"fromLocation" validate:"required"`
	ToLocation         *LocationRequest        `json:"toLocation" validate:"required"`
	PickUpDate         string                  `json:"pickUpDate" validate:"omitempty"`
	SpecialCargo       []string                `json:"specialCargo" validate:"omitempty,max=10"`
	Cost               *float64                `json:"cost" validate:"omitempty,gte=0"`
}

type LocationRequest struct {
	Lat     float64 `json:"lat" validate:"min=-90,max=90"`
	Lng     float64 `json:"lng" validate:"min=-180,max=180"`
	Address string  `json:"address" validate:"omitempty,max=255"`
}

type RecurrenceRequest struct {
	IsRecurring bool                     `json:"isRecurring"`
	Frequency   string                   `json:"frequency" validate:"recurrence_frequency"`
	TimeFrame   string                   `json:"timeFrame" validate:"omitempty,max=50"`
	Duration    *RecurrenceDurationInput `json:"duration"`
	StartDate   string                   `json:"startDate"`
	Interval    int                      `json:"interval" validate:"omitempty,min=1,max=52"`
}

type RecurrenceDurationInput struct {
	Count int    `json:"count" validate:"required,min=1"`
	Unit  string `json:"unit" validate:"required"`
}

// ValidateBookingRequest runs structural validation plus the cross-field
// rules tag-based validation cannot express.
func ValidateBookingRequest(req *BookingRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if req.WeightKg > utils.MaxBookingWeightKg {
		errors = append(errors, ValidationError{
			Field:   "weightKg",
			Tag:     "max",
			Value:   fmt.Sprintf("%v", req.WeightKg),
			Message: fmt.Sprintf("weightKg exceeds the %v kg limit", utils.MaxBookingWeightKg),
		})
	}

	// pickUpDate is required and must parse when the booking is scheduled.
	if req.BookingMode == string(models.BookingModeScheduled) {
		if req.PickUpDate == "" {
			errors = append(errors, ValidationError{
				Field:   "pickUpDate",
				Tag:     "required",
				Message: "pickUpDate is required for booking mode",
			})
		} else if _, err := utils.ParseFlexibleTime(req.PickUpDate); err != nil {
			errors = append(errors, ValidationError{
				Field:   "pickUpDate",
				Tag:     "parseable",
				Value:   req.PickUpDate,
				Message: "pickUpDate is not a parseable date",
			})
		}
	} else if req.PickUpDate != "" {
		if _, err := utils.ParseFlexibleTime(req.PickUpDate); err != nil {
			errors = append(errors, ValidationError{
				Field:   "pickUpDate",
				Tag:     "parseable",
				Value:   req.PickUpDate,
				Message: "pickUpDate is not a parseable date",
			})
		}
	}

	// specialCargo is only meaningful for Cargo bookings, restricted to the
	// fixed vocabulary. Any foreign entry rejects the whole request, naming
	// the offenders.
	if len(req.SpecialCargo) > 0 {
		if req.BookingType != string(models.BookingTypeCargo) {
			errors = append(errors, ValidationError{
				Field:   "specialCargo",
				Tag:     "cargo_only",
				Message: "specialCargo is only permitted for Cargo bookings",
			})
		} else if foreign := foreignCargoEntries(req.SpecialCargo); len(foreign) > 0 {
			errors = append(errors, ValidationError{
				Field:   "specialCargo",
				Tag:     "vocabulary",
				Value:   strings.Join(foreign, ","),
				Message: fmt.Sprintf("invalid special cargo entries: %s", strings.Join(foreign, ", ")),
			})
		}
	}

	if req.Recurrence != nil && req.Recurrence.IsRecurring {
		errors = append(errors, validateRecurrence(req.Recurrence)...)
	}

	return errors
}

func validateRecurrence(rec *RecurrenceRequest) ValidationErrors {
	var errors ValidationErrors

	if rec.Frequency == "" {
		errors = append(errors, ValidationError{
			Field:   "recurrence.frequency",
			Tag:     "required",
			Message: "frequency is required for recurring bookings",
		})
	}
	if rec.Duration == nil {
		errors = append(errors, ValidationError{
			Field:   "recurrence.duration",
			Tag:     "required",
			Message: "duration is required for recurring bookings",
		})
	}
	if rec.StartDate == "" {
		errors = append(errors, ValidationError{
			Field:   "recurrence.startDate",
			Tag:     "required",
			Message: "startDate is required for recurring bookings",
		})
	} else if _, err := utils.ParseFlexibleTime(rec.StartDate); err != nil {
		errors = append(errors, ValidationError{
			Field:   "recurrence.startDate",
			Tag:     "parseable",
			Value:   rec.StartDate,
			Message: "startDate is not a parseable date",
		})
	}

	return errors
}

func foreignCargoEntries(entries []string) []string {
	var foreign []string
	for _, entry := range entries {
		if !contains(models.SpecialCargoVocabulary, entry) {
			foreign = append(foreign, entry)
		}
	}
	return foreign
}

// ToBooking converts a validated request into a Booking in its initial
// pending state, applying defaults.
func (req *BookingRequest) ToBooking() *models.Booking {
	now := time.Now()

	booking := &models.Booking{
		RequestID:          utils.GenerateRequestID(models.BookingType(req.BookingType)),
		BookingType:        models.BookingType(req.BookingType),
		BookingMode:        models.BookingMode(req.BookingMode),
		WeightKg:           req.WeightKg,
		ProductType:        req.ProductType,
		SpecialRequest:     req.SpecialRequest,
		Perishable:         req.Perishable,
		NeedsRefrigeration: req.NeedsRefrigeration,
		HumidityControl:    req.HumidityControl,
		Insured:            req.Insured,
		Value:              req.Value,
		UrgencyLevel:       models.UrgencyLevel(req.UrgencyLevel),
		Priority:           req.Priority,
		FromLocation:       models.GeoPoint{Lat: req.FromLocation.Lat, Lng: req.FromLocation.Lng, Address: req.FromLocation.Address},
		ToLocation:         models.GeoPoint{Lat: req.ToLocation.Lat, Lng: req.ToLocation.Lng, Address: req.ToLocation.Address},
		Status:             models.BookingStatusPending,
		SpecialCargo:       req.SpecialCargo,
		Cost:               req.Cost,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if booking.UrgencyLevel == "" {
		booking.UrgencyLevel = models.UrgencyLow
	}

	if req.PickUpDate != "" {
		if pickUp, err := utils.ParseFlexibleTime(req.PickUpDate); err == nil {
			booking.PickUpDate = &pickUp
		}
	}

	if req.Recurrence != nil && req.Recurrence.IsRecurring {
		plan := &models.RecurrencePlan{
			IsRecurring: true,
			Frequency:   models.RecurrenceFrequency(req.Recurrence.Frequency),
			TimeFrame:   req.Recurrence.TimeFrame,
			Interval:    req.Recurrence.Interval,
		}
		if req.Recurrence.Duration != nil {
			plan.Duration = &models.RecurrenceDuration{
				Count: req.Recurrence.Duration.Count,
				Unit:  req.Recurrence.Duration.Unit,
			}
		}
		if start, err := utils.ParseFlexibleTime(req.Recurrence.StartDate); err == nil {
			plan.StartDate = &start
		}
		booking.Recurrence = plan
	}

	return booking
}
