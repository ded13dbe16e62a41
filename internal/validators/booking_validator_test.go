package validators

import (
	"strings"
	"testing"

	"freightlink/internal/models"
)

func validBookingRequest() *BookingRequest {
	return &BookingRequest{
		BookingType:  "Cargo",
		BookingMode:  "instant",
		WeightKg:     1200,
		ProductType:  "machinery parts",
		FromLocation: &LocationRequest{Lat: -1.2864, Lng: 36.8172, Address: "Nairobi"},
		ToLocation:   &LocationRequest{Lat: -4.0435, Lng: 39.6682, Address: "Mombasa"},
	}
}

func fieldErrors(errs ValidationErrors) map[string]string {
	out := map[string]string{}
	for _, err := range errs {
		out[err.Field] = err.Message
	}
	return out
}

func TestValidateBookingRequestAccepts(t *testing.T) {
	if errs := ValidateBookingRequest(validBookingRequest()); len(errs) > 0 {
		t.Errorf("ValidateBookingRequest() = %v, want no errors", errs)
	}
}

func TestValidateBookingRequestRequiredFields(t *testing.T) {
	req := &BookingRequest{}
	errs := ValidateBookingRequest(req)
	if len(errs) == 0 {
		t.Fatal("empty request passed validation")
	}
	fields := fieldErrors(errs)
	for _, field := range []string{"bookingtype", "bookingmode", "weightkg", "producttype", "fromlocation", "tolocation"} {
		if _, ok := fields[field]; !ok {
			t.Errorf("missing validation error for %s; got %v", field, fields)
		}
	}
}

func TestValidateBookingRequestEnums(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BookingRequest)
	}{
		{"bad booking type", func(r *BookingRequest) { r.BookingType = "Freight" }},
		{"bad booking mode", func(r *BookingRequest) { r.BookingMode = "scheduled" }},
		{"bad urgency level", func(r *BookingRequest) { r.UrgencyLevel = "Critical" }},
		{"negative weight", func(r *BookingRequest) { r.WeightKg = -5 }},
		{"weight above fleet limit", func(r *BookingRequest) { r.WeightKg = 40001 }},
		{"out of range latitude", func(r *BookingRequest) { r.FromLocation.Lat = 95 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBookingRequest()
			tt.mutate(req)
			if errs := ValidateBookingRequest(req); len(errs) == 0 {
				t.Error("invalid request passed validation")
			}
		})
	}
}

func TestValidateBookingRequestScheduledNeedsPickUpDate(t *testing.T) {
	req := validBookingRequest()
	req.BookingMode = "booking"

	errs := ValidateBookingRequest(req)
	if _, ok := fieldErrors(errs)["pickUpDate"]; !ok {
		t.Errorf("scheduled booking without pickUpDate passed validation: %v", errs)
	}

	req.PickUpDate = "not-a-date"
	errs = ValidateBookingRequest(req)
	if msg := fieldErrors(errs)["pickUpDate"]; !strings.Contains(msg, "parseable") {
		t.Errorf("unparseable pickUpDate error = %q", msg)
	}

	req.PickUpDate = "2026-09-15T08:00:00Z"
	if errs := ValidateBookingRequest(req); len(errs) > 0 {
		t.Errorf("valid scheduled booking rejected: %v", errs)
	}

	// Instant bookings never require a pickup date.
	instant := validBookingRequest()
	if errs := ValidateBookingRequest(instant); len(errs) > 0 {
		t.Errorf("instant booking without pickUpDate rejected: %v", errs)
	}
}

func TestValidateBookingRequestSpecialCargo(t *testing.T) {
	req := validBookingRequest()
	req.SpecialCargo = []string{"fragile", "hazardous"}
	if errs := ValidateBookingRequest(req); len(errs) > 0 {
		t.Errorf("valid special cargo rejected: %v", errs)
	}

	req.SpecialCargo = []string{"fragile", "radioactive", "cursed"}
	errs := ValidateBookingRequest(req)
	msg := fieldErrors(errs)["specialCargo"]
	if !strings.Contains(msg, "radioactive") || !strings.Contains(msg, "cursed") {
		t.Errorf("foreign entries not named in error: %q", msg)
	}
	if strings.Contains(msg, "fragile") {
		t.Errorf("valid entry named as foreign: %q", msg)
	}

	agri := validBookingRequest()
	agri.BookingType = "Agri"
	agri.SpecialCargo = []string{"fragile"}
	if _, ok := fieldErrors(ValidateBookingRequest(agri))["specialCargo"]; !ok {
		t.Error("specialCargo on an Agri booking passed validation")
	}
}

func TestValidateBookingRequestRecurrence(t *testing.T) {
	req := validBookingRequest()
	req.Recurrence = &RecurrenceRequest{IsRecurring: true}

	fields := fieldErrors(ValidateBookingRequest(req))
	for _, field := range []string{"recurrence.frequency", "recurrence.duration", "recurrence.startDate"} {
		if _, ok := fields[field]; !ok {
			t.Errorf("missing validation error for %s", field)
		}
	}

	req.Recurrence = &RecurrenceRequest{
		IsRecurring: true,
		Frequency:   "weekly",
		StartDate:   "2026-10-01",
		Duration:    &RecurrenceDurationInput{Count: 3, Unit: "months"},
	}
	if errs := ValidateBookingRequest(req); len(errs) > 0 {
		t.Errorf("valid recurrence rejected: %v", errs)
	}

	// A non-recurring plan is inert and skips the recurrence rules.
	req.Recurrence = &RecurrenceRequest{IsRecurring: false}
	if errs := ValidateBookingRequest(req); len(errs) > 0 {
		t.Errorf("non-recurring plan rejected: %v", errs)
	}
}

func TestToBookingDefaults(t *testing.T) {
	req := validBookingRequest()
	booking := req.ToBooking()

	if booking.Status != models.BookingStatusPending {
		t.Errorf("status = %s, want pending", booking.Status)
	}
	if booking.UrgencyLevel != models.UrgencyLow {
		t.Errorf("urgency = %s, want Low default", booking.UrgencyLevel)
	}
	if !strings.HasPrefix(booking.RequestID, "C") {
		t.Errorf("cargo request id = %q, want C prefix", booking.RequestID)
	}

	agri := validBookingRequest()
	agri.BookingType = "Agri"
	if id := agri.ToBooking().RequestID; !strings.HasPrefix(id, "A") {
		t.Errorf("agri request id = %q, want A prefix", id)
	}
}

func TestToBookingRequestIDsAreUnique(t *testing.T) {
	req := validBookingRequest()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := req.ToBooking().RequestID
		if seen[id] {
			t.Fatalf("duplicate request id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestToBookingCarriesRecurrence(t *testing.T) {
	req := validBookingRequest()
	req.BookingMode = "booking"
	req.PickUpDate = "2026-10-01T06:00:00Z"
	req.Recurrence = &RecurrenceRequest{
		IsRecurring: true,
		Frequency:   "monthly",
		StartDate:   "2026-10-01",
		Interval:    2,
		Duration:    &RecurrenceDurationInput{Count: 6, Unit: "months"},
	}

	booking := req.ToBooking()
	if booking.Recurrence == nil || !booking.Recurrence.IsRecurring {
		t.Fatal("recurrence plan dropped")
	}
	if booking.Recurrence.Frequency != models.FrequencyMonthly {
		t.Errorf("frequency = %s, want monthly", booking.Recurrence.Frequency)
	}
	if booking.Recurrence.Interval != 2 {
		t.Errorf("interval = %d, want 2", booking.Recurrence.Interval)
	}
	if booking.Recurrence.StartDate == nil {
		t.Error("start date not parsed")
	}
	if booking.PickUpDate == nil {
		t.Error("pick up date not parsed")
	}
}
