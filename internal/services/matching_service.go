package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"freightlink/internal/models"
	"freightlink/internal/repositories/interfaces"
	"freightlink/internal/utils"
	"freightlink/pkg/logger"
)

// MatchingService picks the best available transporter for a pending booking
// and assigns it atomically. Matching is bounded: the whole attempt runs
// under a hard timeout and a directory read that stalls surfaces as
// utils.ErrMatchTimeout rather than hanging the caller.
type MatchingService interface {
	Match(ctx context.Context, requestID string) (*models.Booking, *models.Transporter, error)
}

type matchingService struct {
	bookingRepo     interfaces.BookingRepository
	transporterRepo interfaces.TransporterRepository
	notifications   NotificationService
	logger          *logger.Logger
}

func NewMatchingService(
	bookingRepo interfaces.BookingRepository,
	transporterRepo interfaces.TransporterRepository,
	notifications NotificationService,
	logger *logger.Logger,
) MatchingService {
	return &matchingService{
		bookingRepo:     bookingRepo,
		transporterRepo: transporterRepo,
		notifications:   notifications,
		logger:          logger,
	}
}

// candidate pairs a transporter with its distance to the pickup point and
// its rank score. distance is +Inf when the transporter has no reported
// position.
type candidate struct {
	transporter *models.Transporter
	distanceKM  float64
	score       float64
}

func (s *matchingService) Match(ctx context.Context, requestID string) (*models.Booking, *models.Transporter, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.MatchTimeout)
	defer cancel()

	booking, err := s.bookingRepo.GetByRequestID(ctx, requestID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, nil, utils.ErrNotFound
		}
		return nil, nil, s.mapDeadline(ctx, utils.Downstream("booking lookup", err))
	}
	if booking.Status != models.BookingStatusPending {
		return nil, nil, utils.ErrConflict
	}

	dirCtx, dirCancel := context.WithTimeout(ctx, utils.DirectoryTimeout)
	defer dirCancel()

	transporters, err := s.transporterRepo.List(dirCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, utils.ErrMatchTimeout
		}
		return nil, nil, s.mapDeadline(ctx, utils.Downstream("transporter directory", err))
	}

	pool := s.eligiblePool(booking, transporters, time.Now())
	if len(pool) == 0 {
		s.logger.LogMatchEvent(requestID, "no_match", map[string]interface{}{
			"directory_size": len(transporters),
		})
		return nil, nil, utils.ErrNoMatch
	}

	// Scores normalize against the full eligible pool before the distance
	// pass narrows it, so dropping a distant max-holder cannot reshuffle
	// the survivors.
	scorePool(pool)
	pool = narrowByDistance(pool)
	sortCandidates(pool)

	best := pool[0]
	now := time.Now()
	snapshot := best.transporter.Snapshot(now)

	if err := s.bookingRepo.AssignTransporter(ctx, requestID, best.transporter.ID, snapshot); err != nil {
		switch {
		case errors.Is(err, utils.ErrConflict):
			return nil, nil, utils.ErrConflict
		case errors.Is(err, utils.ErrNotFound):
			return nil, nil, utils.ErrNotFound
		case errors.Is(err, context.DeadlineExceeded):
			return nil, nil, utils.ErrMatchTimeout
		default:
			return nil, nil, s.mapDeadline(ctx, utils.Downstream("assignment write", err))
		}
	}

	booking.Status = models.BookingStatusAccepted
	booking.TransporterID = &best.transporter.ID
	booking.AssignedTransporter = snapshot
	booking.AcceptedAt = &now
	booking.UpdatedAt = now

	s.logger.LogMatchEvent(requestID, "matched", map[string]interface{}{
		"transporter_id": best.transporter.ID.Hex(),
		"distance_km":    best.distanceKM,
		"pool_size":      len(pool),
	})

	s.notifications.NotifyAssignment(booking, best.transporter)

	return booking, best.transporter, nil
}

// eligible applies the hard requirements no score can compensate for.
func eligible(booking *models.Booking, t *models.Transporter, now time.Time) bool {
	if t.Suspended || !t.AccountStatus || !t.AcceptingBooking {
		return false
	}
	if t.DocumentsExpired(now) {
		return false
	}
	if t.VehicleCapacity < booking.WeightKg {
		return false
	}
	if booking.NeedsRefrigeration && !t.Refrigerated {
		return false
	}
	if booking.HumidityControl && !t.HumidityControl {
		return false
	}
	return models.VehicleTypeCompatible(booking.BookingType, t.VehicleType)
}

func (s *matchingService) eligiblePool(booking *models.Booking, transporters []*models.Transporter, now time.Time) []candidate {
	var pool []candidate
	for _, t := range transporters {
		if !eligible(booking, t, now) {
			continue
		}

		distance := math.Inf(1)
		if pos, ok := t.RoutePosition(); ok {
			distance = utils.DistanceKM(pos, booking.FromLocation)
		}
		pool = append(pool, candidate{transporter: t, distanceKM: distance})
	}
	return pool
}

// narrowByDistance keeps only nearby candidates, widening back to the full
// eligible pool when nobody is close. A distant transporter always beats no
// transporter.
func narrowByDistance(pool []candidate) []candidate {
	var nearby []candidate
	for _, c := range pool {
		if c.distanceKM <= utils.NearbyRadiusKM {
			nearby = append(nearby, c)
		}
	}
	if len(nearby) > 0 {
		return nearby
	}
	return pool
}

// scorePool assigns every candidate a weighted blend of rating and
// completed-trip experience, each normalized against the pool maximum.
func scorePool(pool []candidate) {
	var maxRating, maxTrips float64
	for _, c := range pool {
		if c.transporter.Rating > maxRating {
			maxRating = c.transporter.Rating
		}
		if trips := float64(c.transporter.CompletedTrips); trips > maxTrips {
			maxTrips = trips
		}
	}

	for i := range pool {
		var rating, experience float64
		if maxRating > 0 {
			rating = pool[i].transporter.Rating / maxRating
		}
		if maxTrips > 0 {
			experience = float64(pool[i].transporter.CompletedTrips) / maxTrips
		}
		pool[i].score = utils.RatingWeight*rating + utils.ExperienceWeight*experience
	}
}

// sortCandidates orders candidates best first by score. Distance breaks
// ties, nearer first.
func sortCandidates(pool []candidate) {
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].score != pool[j].score {
			return pool[i].score > pool[j].score
		}
		return pool[i].distanceKM < pool[j].distanceKM
	})
}

// mapDeadline folds a context deadline hit into the timeout sentinel so
// callers see one timeout error regardless of which step ran out of time.
func (s *matchingService) mapDeadline(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return utils.ErrMatchTimeout
	}
	return err
}
