package services

import (
	"context"
	"time"

	"freightlink/internal/models"
	"freightlink/internal/repositories/interfaces"
	"freightlink/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransporterService covers transporter profile reads and the location feed
// that keeps route histories fresh.
type TransporterService interface {
	GetTransporter(ctx context.Context, id primitive.ObjectID) (*models.Transporter, error)
	// ReportLocation appends a location sample to the transporter's rolling
	// route history and refreshes its last known location.
	ReportLocation(ctx context.Context, id primitive.ObjectID, location models.GeoPoint) error
	SetAvailability(ctx context.Context, id primitive.ObjectID, accepting bool) error
}

type transporterService struct {
	transporterRepo interfaces.TransporterRepository
	logger          *logger.Logger
}

func NewTransporterService(transporterRepo interfaces.TransporterRepository, logger *logger.Logger) TransporterService {
	return &transporterService{
		transporterRepo: transporterRepo,
		logger:          logger,
	}
}

func (s *transporterService) GetTransporter(ctx context.Context, id primitive.ObjectID) (*models.Transporter, error) {
	return s.transporterRepo.GetByID(ctx, id)
}

func (s *transporterService) ReportLocation(ctx context.Context, id primitive.ObjectID, location models.GeoPoint) error {
	sample := models.RoutePoint{
		Location:  location,
		Timestamp: time.Now(),
	}
	if err := s.transporterRepo.AppendRouteSample(ctx, id, sample); err != nil {
		return err
	}

	s.logger.WithTransporterID(id).WithFields(map[string]interface{}{
		"lat": location.Lat,
		"lng": location.Lng,
	}).Debug("location sample recorded")

	return nil
}

func (s *transporterService) SetAvailability(ctx context.Context, id primitive.ObjectID, accepting bool) error {
	return s.transporterRepo.UpdateAvailability(ctx, id, accepting)
}
