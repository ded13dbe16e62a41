package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freightlink/internal/models"
	"freightlink/internal/repositories/interfaces"
	"freightlink/internal/utils"
	"freightlink/internal/validators"
	"freightlink/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingService owns the booking lifecycle: intake, lookup, and status
// transitions. Instant bookings are pushed straight into matching; scheduled
// and recurring bookings are stored pending and picked up later.
type BookingService interface {
	CreateBooking(ctx context.Context, userID primitive.ObjectID, req *validators.BookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, requestID string) (*models.Booking, error)
	AvailableBookings(ctx context.Context, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	UserBookings(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	UpdateStatus(ctx context.Context, requestID string, to models.BookingStatus) (*models.Booking, error)
}

type bookingService struct {
	bookingRepo     interfaces.BookingRepository
	transporterRepo interfaces.TransporterRepository
	matching        MatchingService
	recurrence      RecurrenceService
	notifications   NotificationService
	logger          *logger.Logger
}

func NewBookingService(
	bookingRepo interfaces.BookingRepository,
	transporterRepo interfaces.TransporterRepository,
	matching MatchingService,
	recurrence RecurrenceService,
	notifications NotificationService,
	logger *logger.Logger,
) BookingService {
	return &bookingService{
		bookingRepo:     bookingRepo,
		transporterRepo: transporterRepo,
		matching:        matching,
		recurrence:      recurrence,
		notifications:   notifications,
		logger:          logger,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID primitive.ObjectID, req *validators.BookingRequest) (*models.Booking, error) {
	if errs := validators.ValidateBookingRequest(req); len(errs) > 0 {
		return nil, errs
	}

	booking := req.ToBooking()
	booking.UserID = userID

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, utils.Downstream("booking create", err)
	}

	s.logger.LogBookingEvent(booking.RequestID, "created", map[string]interface{}{
		"booking_type": booking.BookingType,
		"booking_mode": booking.BookingMode,
		"weight_kg":    booking.WeightKg,
	})

	if booking.Recurrence != nil && booking.Recurrence.IsRecurring {
		// Expansion is detached from the request: the caller gets the base
		// booking back immediately and occurrences materialize behind it.
		expandCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		go func() {
			defer cancel()
			s.recurrence.ExpandAndStore(expandCtx, booking)
		}()
	}

	if booking.BookingMode == models.BookingModeInstant {
		matched, _, err := s.matching.Match(ctx, booking.RequestID)
		if err != nil {
			// No match and timeouts leave the booking pending; creation
			// already succeeded so the caller still gets the booking.
			if !errors.Is(err, utils.ErrNoMatch) && !errors.Is(err, utils.ErrMatchTimeout) {
				s.logger.WithError(err).WithBookingID(booking.RequestID).Error("instant match failed")
			}
			go s.announceLoad(booking)
			return booking, nil
		}
		return matched, nil
	}

	go s.announceLoad(booking)

	return booking, nil
}

// announceLoad tells eligible transporters near the pickup point that a new
// load is waiting. Runs detached after any create that leaves the booking
// pending; failures only log.
func (s *bookingService) announceLoad(booking *models.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), utils.DirectoryTimeout)
	defer cancel()

	transporters, err := s.transporterRepo.List(ctx)
	if err != nil {
		s.logger.WithError(err).WithBookingID(booking.RequestID).Warn("load announcement skipped")
		return
	}

	now := time.Now()
	for _, transporter := range transporters {
		if !eligible(booking, transporter, now) {
			continue
		}
		if pos, ok := transporter.RoutePosition(); ok && utils.DistanceKM(pos, booking.FromLocation) > utils.NearbyRadiusKM {
			continue
		}
		s.notifications.NotifyNewLoad(booking, transporter)
	}
}

func (s *bookingService) GetBooking(ctx context.Context, requestID string) (*models.Booking, error) {
	return s.bookingRepo.GetByRequestID(ctx, requestID)
}

func (s *bookingService) AvailableBookings(ctx context.Context, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return s.bookingRepo.GetByStatus(ctx, models.BookingStatusPending, params)
}

func (s *bookingService) UserBookings(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return s.bookingRepo.GetByUser(ctx, userID, params)
}

func (s *bookingService) UpdateStatus(ctx context.Context, requestID string, to models.BookingStatus) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	from := booking.Status
	if !models.CanTransition(from, to) {
		return nil, fmt.Errorf("cannot transition booking from %s to %s: %w", from, to, utils.ErrConflict)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, requestID, from, to); err != nil {
		return nil, err
	}

	now := time.Now()
	booking.Status = to
	booking.UpdatedAt = now

	// Lifecycle timestamps ride behind the conditional flip; a failure here
	// never undoes the transition.
	var stamp map[string]interface{}
	switch to {
	case models.BookingStatusCompleted:
		booking.CompletedAt = &now
		stamp = map[string]interface{}{"completed_at": now}
	case models.BookingStatusCancelled:
		booking.CancelledAt = &now
		stamp = map[string]interface{}{"cancelled_at": now}
	}
	if stamp != nil {
		if err := s.bookingRepo.Update(ctx, booking.ID, stamp); err != nil {
			s.logger.WithError(err).WithBookingID(requestID).Warn("failed to stamp lifecycle timestamp")
		}
	}

	s.notifications.NotifyStatusChange(booking, from)

	return booking, nil
}
