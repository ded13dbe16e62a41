package services

import (
	"context"
	"time"

	"freightlink/internal/models"
	"freightlink/internal/repositories/interfaces"
	"freightlink/internal/utils"
	"freightlink/pkg/logger"
)

// FleetStatusService classifies every transporter into one operational
// status for the fleet dashboard.
type FleetStatusService interface {
	// Classify derives the status of one transporter. Rules apply in order
	// and the first that fires wins; account health and compliance dominate
	// operational state.
	Classify(transporter *models.Transporter, activeBooking *models.Booking, now time.Time) models.FleetStatus

	// FleetOverview classifies the whole fleet. The summary tallies every
	// transporter; the fleet list is filtered to the given status when one
	// is supplied.
	FleetOverview(ctx context.Context, filter models.FleetStatus) (*models.FleetReport, error)
}

type fleetStatusService struct {
	bookingRepo     interfaces.BookingRepository
	transporterRepo interfaces.TransporterRepository
	logger          *logger.Logger
}

func NewFleetStatusService(
	bookingRepo interfaces.BookingRepository,
	transporterRepo interfaces.TransporterRepository,
	logger *logger.Logger,
) FleetStatusService {
	return &fleetStatusService{
		bookingRepo:     bookingRepo,
		transporterRepo: transporterRepo,
		logger:          logger,
	}
}

func (s *fleetStatusService) Classify(transporter *models.Transporter, activeBooking *models.Booking, now time.Time) models.FleetStatus {
	switch {
	case transporter.Suspended || !transporter.AccountStatus:
		return models.FleetStatusInactive
	case transporter.DocumentsExpired(now):
		return models.FleetStatusNonCompliant
	case activeBooking != nil && (activeBooking.Status == models.BookingStatusInProgress || activeBooking.Status == models.BookingStatusPickedUp):
		return models.FleetStatusActive
	case activeBooking != nil:
		return models.FleetStatusAssigned
	case transporter.AcceptingBooking:
		return models.FleetStatusAvailable
	default:
		return models.FleetStatusIdle
	}
}

func (s *fleetStatusService) FleetOverview(ctx context.Context, filter models.FleetStatus) (*models.FleetReport, error) {
	transporters, err := s.transporterRepo.List(ctx)
	if err != nil {
		return nil, utils.Downstream("transporter directory", err)
	}

	now := time.Now()
	report := &models.FleetReport{
		Fleet:   []models.FleetMember{},
		Summary: map[models.FleetStatus]int{},
	}

	for _, transporter := range transporters {
		activeBooking, err := s.bookingRepo.GetActiveByTransporter(ctx, transporter.ID)
		if err != nil {
			return nil, utils.Downstream("active booking lookup", err)
		}

		status := s.Classify(transporter, activeBooking, now)
		report.Summary[status]++

		if filter != "" && status != filter {
			continue
		}
		report.Fleet = append(report.Fleet, models.FleetMember{
			TransporterID: transporter.ID,
			Name:          transporter.Name,
			VehicleType:   transporter.VehicleType,
			Rating:        transporter.Rating,
			Status:        status,
		})
	}

	return report, nil
}
