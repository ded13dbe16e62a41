package services

import (
	"context"
	"fmt"
	"time"

	"freightlink/internal/models"
	"freightlink/internal/repositories/interfaces"
	"freightlink/internal/utils"
	"freightlink/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RouteScannerService finds unassigned bookings a transporter could pick up
// along its current route. Results are RouteLoad projections, never full
// bookings.
type RouteScannerService interface {
	FindCompatibleLoads(ctx context.Context, transporterID primitive.ObjectID) ([]*models.RouteLoad, error)
}

type routeScannerService struct {
	bookingRepo     interfaces.BookingRepository
	transporterRepo interfaces.TransporterRepository
	logger          *logger.Logger
}

func NewRouteScannerService(
	bookingRepo interfaces.BookingRepository,
	transporterRepo interfaces.TransporterRepository,
	logger *logger.Logger,
) RouteScannerService {
	return &routeScannerService{
		bookingRepo:     bookingRepo,
		transporterRepo: transporterRepo,
		logger:          logger,
	}
}

func (s *routeScannerService) FindCompatibleLoads(ctx context.Context, transporterID primitive.ObjectID) ([]*models.RouteLoad, error) {
	transporter, err := s.transporterRepo.GetByID(ctx, transporterID)
	if err != nil {
		return nil, err
	}
	if transporter.VehicleCapacity <= 0 {
		// A profile without capacity data cannot be matched against any load.
		return nil, fmt.Errorf("transporter %s has no vehicle capacity: %w", transporterID.Hex(), utils.ErrNotFound)
	}

	position, hasPosition := transporter.RoutePosition()

	bookings, err := s.bookingRepo.GetUnassigned(ctx)
	if err != nil {
		return nil, utils.Downstream("unassigned booking scan", err)
	}

	now := time.Now()
	horizon := now.Add(utils.ScheduleWindow)

	loads := []*models.RouteLoad{}
	for _, booking := range bookings {
		if !s.compatible(transporter, booking, position, hasPosition, now, horizon) {
			continue
		}
		loads = append(loads, models.NewRouteLoad(booking))
	}

	s.logger.WithTransporterID(transporterID).WithFields(map[string]interface{}{
		"scanned": len(bookings),
		"matched": len(loads),
	}).Debug("route scan completed")

	return loads, nil
}

func (s *routeScannerService) compatible(
	transporter *models.Transporter,
	booking *models.Booking,
	position models.GeoPoint,
	hasPosition bool,
	now, horizon time.Time,
) bool {
	// Route check: pickup must be near the transporter's position. With no
	// position reported the route check passes; the other gates still apply.
	if hasPosition && utils.DistanceKM(position, booking.FromLocation) > utils.NearbyRadiusKM {
		return false
	}
	if booking.WeightKg > transporter.VehicleCapacity {
		return false
	}
	if booking.NeedsRefrigeration && !transporter.Refrigerated {
		return false
	}
	if booking.HumidityControl && !transporter.HumidityControl {
		return false
	}
	// Schedule check: scheduled pickups must fall inside the next 24 hours.
	// Instant bookings have no pickup date and are always in window.
	if booking.PickUpDate != nil {
		if booking.PickUpDate.Before(now) || booking.PickUpDate.After(horizon) {
			return false
		}
	}
	return true
}
