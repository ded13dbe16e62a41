package interfaces

import (
	"context"

	"freightlink/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransporterRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, transporter *models.Transporter) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Transporter, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Transporter, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// Directory reads
	List(ctx context.Context) ([]*models.Transporter, error)

	// Availability and location
	UpdateAvailability(ctx context.Context, id primitive.ObjectID, accepting bool) error
	// AppendRouteSample appends one location sample, evicts samples older
	// than the rolling 48h window and refreshes lastKnownLocation, all in a
	// single document update.
	AppendRouteSample(ctx context.Context, id primitive.ObjectID, sample models.RoutePoint) error
}
