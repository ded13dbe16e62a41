package services

import (
	"context"
	"testing"
	"time"

	"freightlink/internal/models"
)

func newTestFleet(t *testing.T, bookings *mockBookingRepo, transporters *mockTransporterRepo) FleetStatusService {
	t.Helper()
	return NewFleetStatusService(bookings, transporters, testLogger(t))
}

func TestClassify(t *testing.T) {
	now := time.Now()
	expired := now.Add(-24 * time.Hour)
	accepted := &models.Booking{Status: models.BookingStatusAccepted}
	inProgress := &models.Booking{Status: models.BookingStatusInProgress}
	pickedUp := &models.Booking{Status: models.BookingStatusPickedUp}

	tests := []struct {
		name    string
		mutate  func(*models.Transporter)
		booking *models.Booking
		want    models.FleetStatus
	}{
		{
			name:   "suspended is inactive",
			mutate: func(tr *models.Transporter) { tr.Suspended = true },
			want:   models.FleetStatusInactive,
		},
		{
			name:   "disabled account is inactive",
			mutate: func(tr *models.Transporter) { tr.AccountStatus = false },
			want:   models.FleetStatusInactive,
		},
		{
			name: "inactive dominates an active trip",
			mutate: func(tr *models.Transporter) {
				tr.Suspended = true
			},
			booking: inProgress,
			want:    models.FleetStatusInactive,
		},
		{
			name:   "expired license is non-compliant",
			mutate: func(tr *models.Transporter) { tr.DriverLicenseExpiry = &expired },
			want:   models.FleetStatusNonCompliant,
		},
		{
			name:    "non-compliant dominates assignment",
			mutate:  func(tr *models.Transporter) { tr.IDExpiry = &expired },
			booking: accepted,
			want:    models.FleetStatusNonCompliant,
		},
		{
			name:    "in-progress trip is active",
			mutate:  func(tr *models.Transporter) {},
			booking: inProgress,
			want:    models.FleetStatusActive,
		},
		{
			name:    "picked-up trip is active",
			mutate:  func(tr *models.Transporter) {},
			booking: pickedUp,
			want:    models.FleetStatusActive,
		},
		{
			name:    "accepted but not started is assigned",
			mutate:  func(tr *models.Transporter) {},
			booking: accepted,
			want:    models.FleetStatusAssigned,
		},
		{
			name:   "accepting with no booking is available",
			mutate: func(tr *models.Transporter) {},
			want:   models.FleetStatusAvailable,
		},
		{
			name:   "not accepting with no booking is idle",
			mutate: func(tr *models.Transporter) { tr.AcceptingBooking = false },
			want:   models.FleetStatusIdle,
		},
	}

	svc := newTestFleet(t, newMockBookingRepo(), newMockTransporterRepo())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transporter := availableTransporter("t", nairobi, 5000)
			tt.mutate(transporter)
			if got := svc.Classify(transporter, tt.booking, now); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFleetOverview(t *testing.T) {
	bookings := newMockBookingRepo()
	transporters := newMockTransporterRepo()

	available := availableTransporter("available", nairobi, 5000)
	idle := availableTransporter("idle", nairobi, 5000)
	idle.AcceptingBooking = false
	suspended := availableTransporter("suspended", nairobi, 5000)
	suspended.Suspended = true
	busy := availableTransporter("busy", nairobi, 5000)
	for _, tr := range []*models.Transporter{available, idle, suspended, busy} {
		transporters.put(tr)
	}

	trip := pendingBooking("C-trip", 2000)
	trip.Status = models.BookingStatusInProgress
	trip.TransporterID = &busy.ID
	bookings.put(trip)

	svc := newTestFleet(t, bookings, transporters)

	report, err := svc.FleetOverview(context.Background(), "")
	if err != nil {
		t.Fatalf("FleetOverview() error = %v", err)
	}
	if len(report.Fleet) != 4 {
		t.Errorf("fleet size = %d, want 4", len(report.Fleet))
	}
	wantSummary := map[models.FleetStatus]int{
		models.FleetStatusAvailable: 1,
		models.FleetStatusIdle:      1,
		models.FleetStatusInactive:  1,
		models.FleetStatusActive:    1,
	}
	for status, count := range wantSummary {
		if report.Summary[status] != count {
			t.Errorf("summary[%s] = %d, want %d", status, report.Summary[status], count)
		}
	}

	// Filtering narrows the list but the summary still covers everyone.
	filtered, err := svc.FleetOverview(context.Background(), models.FleetStatusAvailable)
	if err != nil {
		t.Fatalf("FleetOverview(available) error = %v", err)
	}
	if len(filtered.Fleet) != 1 || filtered.Fleet[0].Name != "available" {
		t.Errorf("filtered fleet = %+v, want only the available transporter", filtered.Fleet)
	}
	if filtered.Summary[models.FleetStatusInactive] != 1 {
		t.Error("filtered summary dropped transporters outside the filter")
	}
}
