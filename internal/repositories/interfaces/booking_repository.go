package interfaces

import (
	"context"

	"freightlink/internal/models"
	"freightlink/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, booking *models.Booking) error
	GetByRequestID(ctx context.Context, requestID string) (*models.Booking, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// Lifecycle operations
	// UpdateStatus is a single conditional write keyed on the expected prior
	// status; it fails with utils.ErrConflict when the booking moved on.
	UpdateStatus(ctx context.Context, requestID string, from, to models.BookingStatus) error
	// AssignTransporter atomically assigns a transporter to a booking still
	// in pending status, capturing the assignment snapshot. A losing
	// concurrent caller gets utils.ErrConflict, never a silent overwrite.
	AssignTransporter(ctx context.Context, requestID string, transporterID primitive.ObjectID, snapshot *models.AssignmentSnapshot) error

	// Search and filtering
	GetUnassigned(ctx context.Context) ([]*models.Booking, error)
	GetActiveByTransporter(ctx context.Context, transporterID primitive.ObjectID) (*models.Booking, error)
	GetByStatus(ctx context.Context, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)
}
