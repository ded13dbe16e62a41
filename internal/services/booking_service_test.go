package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"freightlink/internal/models"
	"freightlink/internal/utils"
	"freightlink/internal/validators"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestBookingService(t *testing.T, bookings *mockBookingRepo, transporters *mockTransporterRepo) BookingService {
	return newTestBookingServiceNotifying(t, bookings, transporters, noopNotifications{})
}

func newTestBookingServiceNotifying(t *testing.T, bookings *mockBookingRepo, transporters *mockTransporterRepo, notifications NotificationService) BookingService {
	t.Helper()
	log := testLogger(t)
	matching := NewMatchingService(bookings, transporters, notifications, log)
	recurrence := NewRecurrenceService(bookings, log)
	return NewBookingService(bookings, transporters, matching, recurrence, notifications, log)
}

func validRequest(mode string) *validators.BookingRequest {
	return &validators.BookingRequest{
		BookingType: "Cargo",
		BookingMode: mode,
		WeightKg:    2500,
		ProductType: "electronics",
		FromLocation: &validators.LocationRequest{
			Lat: nairobi.Lat, Lng: nairobi.Lng, Address: nairobi.Address,
		},
		ToLocation: &validators.LocationRequest{
			Lat: mombasa.Lat, Lng: mombasa.Lng, Address: mombasa.Address,
		},
		PickUpDate: time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	}
}

func TestCreateBookingValidationFailure(t *testing.T) {
	svc := newTestBookingService(t, newMockBookingRepo(), newMockTransporterRepo())

	req := validRequest("booking")
	req.WeightKg = 0

	_, err := svc.CreateBooking(context.Background(), primitive.NewObjectID(), req)
	var validationErrs validators.ValidationErrors
	if !errors.As(err, &validationErrs) {
		t.Fatalf("CreateBooking() error = %v, want ValidationErrors", err)
	}
}

func TestCreateScheduledBookingStaysPending(t *testing.T) {
	bookings := newMockBookingRepo()
	svc := newTestBookingService(t, bookings, newMockTransporterRepo())

	booking, err := svc.CreateBooking(context.Background(), primitive.NewObjectID(), validRequest("booking"))
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}
	if booking.Status != models.BookingStatusPending {
		t.Errorf("status = %s, want pending", booking.Status)
	}
	if booking.RequestID == "" {
		t.Error("no request id generated")
	}

	stored, err := bookings.GetByRequestID(context.Background(), booking.RequestID)
	if err != nil {
		t.Fatalf("booking not persisted: %v", err)
	}
	if stored.PickUpDate == nil {
		t.Error("pickUpDate not persisted for scheduled booking")
	}
}

func TestCreateInstantBookingMatchesImmediately(t *testing.T) {
	bookings := newMockBookingRepo()
	transporters := newMockTransporterRepo()
	transporters.put(availableTransporter("ready", thika, 5000))
	svc := newTestBookingService(t, bookings, transporters)

	req := validRequest("instant")
	req.PickUpDate = ""

	booking, err := svc.CreateBooking(context.Background(), primitive.NewObjectID(), req)
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}
	if booking.Status != models.BookingStatusAccepted {
		t.Errorf("status = %s, want accepted", booking.Status)
	}
	if booking.AssignedTransporter == nil {
		t.Error("no assignment snapshot on matched booking")
	}
}

func TestCreateInstantBookingToleratesNoMatch(t *testing.T) {
	bookings := newMockBookingRepo()
	svc := newTestBookingService(t, bookings, newMockTransporterRepo())

	req := validRequest("instant")
	req.PickUpDate = ""

	// An empty directory means no match, but creation still succeeds and
	// the booking stays pending.
	booking, err := svc.CreateBooking(context.Background(), primitive.NewObjectID(), req)
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}
	if booking.Status != models.BookingStatusPending {
		t.Errorf("status = %s, want pending", booking.Status)
	}
}

func TestCreateScheduledBookingAnnouncesLoad(t *testing.T) {
	bookings := newMockBookingRepo()
	transporters := newMockTransporterRepo()
	notifications := newRecordingNotifications()

	near := availableTransporter("near", thika, 5000)
	far := availableTransporter("far", mombasa, 5000)
	closed := availableTransporter("closed", thika, 5000)
	closed.AcceptingBooking = false
	for _, tr := range []*models.Transporter{near, far, closed} {
		transporters.put(tr)
	}

	svc := newTestBookingServiceNotifying(t, bookings, transporters, notifications)
	if _, err := svc.CreateBooking(context.Background(), primitive.NewObjectID(), validRequest("booking")); err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	// The announcement runs detached; wait for the nearby transporter's
	// notification to land.
	deadline := time.Now().Add(2 * time.Second)
	for notifications.newLoadCount("near") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("nearby transporter never notified of new load")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if notifications.newLoadCount("far") != 0 {
		t.Error("transporter beyond the nearby radius was notified")
	}
	if notifications.newLoadCount("closed") != 0 {
		t.Error("non-accepting transporter was notified")
	}
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	bookings := newMockBookingRepo()
	svc := newTestBookingService(t, bookings, newMockTransporterRepo())

	booking := pendingBooking("C-lifecycle", 2000)
	booking.Status = models.BookingStatusAccepted
	bookings.put(booking)

	updated, err := svc.UpdateStatus(context.Background(), booking.RequestID, models.BookingStatusInProgress)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if updated.Status != models.BookingStatusInProgress {
		t.Errorf("status = %s, want in-progress", updated.Status)
	}
}

func TestUpdateStatusRejectsSkips(t *testing.T) {
	bookings := newMockBookingRepo()
	svc := newTestBookingService(t, bookings, newMockTransporterRepo())

	booking := pendingBooking("C-skip", 2000)
	bookings.put(booking)

	// pending -> completed skips the whole lifecycle.
	_, err := svc.UpdateStatus(context.Background(), booking.RequestID, models.BookingStatusCompleted)
	if !errors.Is(err, utils.ErrConflict) {
		t.Errorf("UpdateStatus() error = %v, want ErrConflict", err)
	}
}

func TestUpdateStatusRejectsRegression(t *testing.T) {
	bookings := newMockBookingRepo()
	svc := newTestBookingService(t, bookings, newMockTransporterRepo())

	booking := pendingBooking("C-regress", 2000)
	booking.Status = models.BookingStatusPickedUp
	bookings.put(booking)

	_, err := svc.UpdateStatus(context.Background(), booking.RequestID, models.BookingStatusAccepted)
	if !errors.Is(err, utils.ErrConflict) {
		t.Errorf("UpdateStatus() error = %v, want ErrConflict", err)
	}
}

func TestUpdateStatusCancellation(t *testing.T) {
	bookings := newMockBookingRepo()
	svc := newTestBookingService(t, bookings, newMockTransporterRepo())

	cancellable := pendingBooking("C-cancel-ok", 2000)
	bookings.put(cancellable)
	if _, err := svc.UpdateStatus(context.Background(), cancellable.RequestID, models.BookingStatusCancelled); err != nil {
		t.Errorf("cancel pending: error = %v", err)
	}

	late := pendingBooking("C-cancel-late", 2000)
	late.Status = models.BookingStatusPickedUp
	bookings.put(late)
	if _, err := svc.UpdateStatus(context.Background(), late.RequestID, models.BookingStatusCancelled); !errors.Is(err, utils.ErrConflict) {
		t.Errorf("cancel picked-up: error = %v, want ErrConflict", err)
	}
}

func TestCreateRecurringBookingExpands(t *testing.T) {
	bookings := newMockBookingRepo()
	svc := newTestBookingService(t, bookings, newMockTransporterRepo())

	start := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	req := validRequest("booking")
	req.PickUpDate = start.Format(time.RFC3339)
	req.Recurrence = &validators.RecurrenceRequest{
		IsRecurring: true,
		Frequency:   "weekly",
		StartDate:   start.Format(time.RFC3339),
		Duration:    &validators.RecurrenceDurationInput{Count: 2, Unit: "weeks"},
	}

	booking, err := svc.CreateBooking(context.Background(), primitive.NewObjectID(), req)
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	// Expansion is asynchronous; poll briefly for the occurrences to land.
	deadline := time.Now().Add(2 * time.Second)
	for {
		stored, err := bookings.GetByRequestID(context.Background(), booking.RequestID)
		if err != nil {
			t.Fatalf("GetByRequestID() error = %v", err)
		}
		if stored.Recurrence != nil && len(stored.Recurrence.Occurrences) == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("occurrences = %d, want 2", len(stored.Recurrence.Occurrences))
		}
		time.Sleep(10 * time.Millisecond)
	}
}
