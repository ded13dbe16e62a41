package services

import (
	"context"
	"sync"
	"time"

	"freightlink/internal/models"
	"freightlink/internal/utils"
	"freightlink/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger(t interface{ Fatalf(string, ...interface{}) }) *logger.Logger {
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text", Output: "stderr"})
	if err != nil {
		t.Fatalf("failed to build test logger: %v", err)
	}
	return log
}

// mockBookingRepo is an in-memory BookingRepository with the same
// conditional-write semantics as the mongo implementation.
type mockBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking

	createErr error
	getErr    error
	listErr   error
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (m *mockBookingRepo) put(b *models.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	m.bookings[b.RequestID] = b
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if m.createErr != nil {
		return m.createErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	clone := *booking
	m.put(&clone)
	booking.ID = clone.ID
	return nil
}

func (m *mockBookingRepo) GetByRequestID(ctx context.Context, requestID string) (*models.Booking, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[requestID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	clone := *booking
	return &clone, nil
}

func (m *mockBookingRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, booking := range m.bookings {
		if booking.ID == id {
			if occurrences, ok := updates["recurrence.occurrences"].([]string); ok && booking.Recurrence != nil {
				booking.Recurrence.Occurrences = occurrences
			}
			if endDate, ok := updates["recurrence.end_date"].(time.Time); ok && booking.Recurrence != nil {
				end := endDate
				booking.Recurrence.EndDate = &end
			}
			return nil
		}
	}
	return utils.ErrNotFound
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, requestID string, from, to models.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[requestID]
	if !ok {
		return utils.ErrNotFound
	}
	if booking.Status != from {
		return utils.ErrConflict
	}
	booking.Status = to
	booking.UpdatedAt = time.Now()
	return nil
}

func (m *mockBookingRepo) AssignTransporter(ctx context.Context, requestID string, transporterID primitive.ObjectID, snapshot *models.AssignmentSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[requestID]
	if !ok {
		return utils.ErrNotFound
	}
	if booking.Status != models.BookingStatusPending {
		return utils.ErrConflict
	}
	now := time.Now()
	booking.Status = models.BookingStatusAccepted
	booking.TransporterID = &transporterID
	booking.AssignedTransporter = snapshot
	booking.AcceptedAt = &now
	booking.UpdatedAt = now
	return nil
}

func (m *mockBookingRepo) GetUnassigned(ctx context.Context) ([]*models.Booking, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Booking
	for _, booking := range m.bookings {
		if booking.Status == models.BookingStatusPending {
			clone := *booking
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockBookingRepo) GetActiveByTransporter(ctx context.Context, transporterID primitive.ObjectID) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, booking := range m.bookings {
		if booking.TransporterID != nil && *booking.TransporterID == transporterID && booking.Status.IsActive() {
			clone := *booking
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockBookingRepo) GetByStatus(ctx context.Context, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Booking
	for _, booking := range m.bookings {
		if booking.Status == status {
			clone := *booking
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockBookingRepo) GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Booking
	for _, booking := range m.bookings {
		if booking.UserID == userID {
			clone := *booking
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

// mockTransporterRepo is an in-memory TransporterRepository.
type mockTransporterRepo struct {
	mu           sync.Mutex
	transporters map[primitive.ObjectID]*models.Transporter

	listErr   error
	listDelay time.Duration
}

func newMockTransporterRepo() *mockTransporterRepo {
	return &mockTransporterRepo{transporters: make(map[primitive.ObjectID]*models.Transporter)}
}

func (m *mockTransporterRepo) put(t *models.Transporter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	m.transporters[t.ID] = t
}

func (m *mockTransporterRepo) Create(ctx context.Context, transporter *models.Transporter) error {
	m.put(transporter)
	return nil
}

func (m *mockTransporterRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Transporter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	transporter, ok := m.transporters[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	clone := *transporter
	return &clone, nil
}

func (m *mockTransporterRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Transporter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, transporter := range m.transporters {
		if transporter.UserID == userID {
			clone := *transporter
			return &clone, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (m *mockTransporterRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return nil
}

func (m *mockTransporterRepo) List(ctx context.Context) ([]*models.Transporter, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if m.listDelay > 0 {
		select {
		case <-time.After(m.listDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Transporter
	for _, transporter := range m.transporters {
		clone := *transporter
		out = append(out, &clone)
	}
	return out, nil
}

func (m *mockTransporterRepo) UpdateAvailability(ctx context.Context, id primitive.ObjectID, accepting bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	transporter, ok := m.transporters[id]
	if !ok {
		return utils.ErrNotFound
	}
	transporter.AcceptingBooking = accepting
	return nil
}

func (m *mockTransporterRepo) AppendRouteSample(ctx context.Context, id primitive.ObjectID, sample models.RoutePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	transporter, ok := m.transporters[id]
	if !ok {
		return utils.ErrNotFound
	}
	transporter.CurrentRoute = append(transporter.CurrentRoute, sample)
	transporter.LastKnownLocation = &sample.Location
	cutoff := sample.Timestamp.Add(-utils.RouteHistoryWindow)
	var kept []models.RoutePoint
	for _, point := range transporter.CurrentRoute {
		if !point.Timestamp.Before(cutoff) {
			kept = append(kept, point)
		}
	}
	transporter.CurrentRoute = kept
	return nil
}

// recordingNotifications counts NotifyNewLoad deliveries per transporter.
type recordingNotifications struct {
	mu       sync.Mutex
	newLoads map[string]int
}

func newRecordingNotifications() *recordingNotifications {
	return &recordingNotifications{newLoads: make(map[string]int)}
}

func (r *recordingNotifications) NotifyAssignment(*models.Booking, *models.Transporter) {}

func (r *recordingNotifications) NotifyStatusChange(*models.Booking, models.BookingStatus) {}

func (r *recordingNotifications) NotifyNewLoad(booking *models.Booking, transporter *models.Transporter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.newLoads[transporter.Name]++
}

func (r *recordingNotifications) newLoadCount(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newLoads[name]
}

// noopNotifications satisfies NotificationService without side effects.
type noopNotifications struct{}

func (noopNotifications) NotifyAssignment(*models.Booking, *models.Transporter) {}

func (noopNotifications) NotifyStatusChange(*models.Booking, models.BookingStatus) {}

func (noopNotifications) NotifyNewLoad(*models.Booking, *models.Transporter) {}
