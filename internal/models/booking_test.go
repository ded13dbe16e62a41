package models

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		want     bool
	}{
		{BookingStatusPending, BookingStatusAccepted, true},
		{BookingStatusAccepted, BookingStatusInProgress, true},
		{BookingStatusInProgress, BookingStatusPickedUp, true},
		{BookingStatusPickedUp, BookingStatusCompleted, true},

		// No skipping steps.
		{BookingStatusPending, BookingStatusInProgress, false},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusAccepted, BookingStatusPickedUp, false},

		// No regressions.
		{BookingStatusAccepted, BookingStatusPending, false},
		{BookingStatusCompleted, BookingStatusPickedUp, false},

		// Cancellation only before the trip starts.
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusAccepted, BookingStatusCancelled, true},
		{BookingStatusInProgress, BookingStatusCancelled, false},
		{BookingStatusPickedUp, BookingStatusCancelled, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},

		// Terminal states stay terminal.
		{BookingStatusCancelled, BookingStatusAccepted, false},
		{BookingStatusCompleted, BookingStatusAccepted, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestVehicleTypeCompatible(t *testing.T) {
	if !VehicleTypeCompatible(BookingTypeAgri, "pickup") {
		t.Error("pickup should carry Agri loads")
	}
	if VehicleTypeCompatible(BookingTypeCargo, "pickup") {
		t.Error("pickup should not carry Cargo loads")
	}
	if !VehicleTypeCompatible(BookingTypeCargo, "container") {
		t.Error("container should carry Cargo loads")
	}
	if VehicleTypeCompatible(BookingTypeAgri, "container") {
		t.Error("container should not carry Agri loads")
	}
}

func TestRoutePosition(t *testing.T) {
	var transporter Transporter
	if _, ok := transporter.RoutePosition(); ok {
		t.Error("transporter with no data reported a position")
	}

	sample := RoutePoint{Location: GeoPoint{Lat: 1, Lng: 2}}
	transporter.CurrentRoute = []RoutePoint{{Location: GeoPoint{Lat: 9, Lng: 9}}, sample}
	pos, ok := transporter.RoutePosition()
	if !ok || pos != sample.Location {
		t.Errorf("RoutePosition() = %v, want most recent route sample %v", pos, sample.Location)
	}

	known := GeoPoint{Lat: 5, Lng: 6}
	transporter.LastKnownLocation = &known
	pos, ok = transporter.RoutePosition()
	if !ok || pos != known {
		t.Errorf("RoutePosition() = %v, want last known location %v", pos, known)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	transporter := Transporter{
		Name:               "Original Name",
		Phone:              "+254700000001",
		RegistrationNumber: "KDA 001A",
		VehicleType:        "truck",
		VehicleCapacity:    7000,
	}

	snapshot := transporter.Snapshot(time.Now())

	transporter.Name = "Renamed"
	transporter.VehicleCapacity = 100

	if snapshot.Name != "Original Name" || snapshot.VehicleCapacity != 7000 {
		t.Errorf("snapshot changed after transporter mutation: %+v", snapshot)
	}
}

func TestRecurrenceStep(t *testing.T) {
	tests := []struct {
		name       string
		plan       RecurrencePlan
		wantYears  int
		wantMonths int
		wantDays   int
	}{
		{"daily default interval", RecurrencePlan{Frequency: FrequencyDaily}, 0, 0, 1},
		{"weekly", RecurrencePlan{Frequency: FrequencyWeekly}, 0, 0, 7},
		{"monthly", RecurrencePlan{Frequency: FrequencyMonthly}, 0, 1, 0},
		{"every other week", RecurrencePlan{Frequency: FrequencyWeekly, Interval: 2}, 0, 0, 14},
		{"quarterly", RecurrencePlan{Frequency: FrequencyMonthly, Interval: 3}, 0, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			years, months, days := tt.plan.Step()
			if years != tt.wantYears || months != tt.wantMonths || days != tt.wantDays {
				t.Errorf("Step() = (%d, %d, %d), want (%d, %d, %d)",
					years, months, days, tt.wantYears, tt.wantMonths, tt.wantDays)
			}
		})
	}
}
