package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freightlink/internal/models"
	"freightlink/internal/repositories/interfaces"
	"freightlink/internal/utils"
	"freightlink/pkg/cache"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type bookingRepository struct {
	collection *mongo.Collection
	cache      *cache.RedisCache
}

func NewBookingRepository(db *mongo.Database, cache *cache.RedisCache) interfaces.BookingRepository {
	return &bookingRepository{
		collection: db.Collection("bookings"),
		cache:      cache,
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	// Cache open bookings for quick access
	if booking.Status == models.BookingStatusPending || booking.Status.IsActive() {
		r.cacheBooking(ctx, booking)
	}

	return nil
}

func (r *bookingRepository) GetByRequestID(ctx context.Context, requestID string) (*models.Booking, error) {
	if booking := r.getBookingFromCache(ctx, requestID); booking != nil {
		return booking, nil
	}

	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"request_id": requestID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	if !booking.Status.IsTerminal() {
		r.cacheBooking(ctx, &booking)
	}

	return &booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.ErrNotFound
	}

	r.invalidateBookingCacheByID(ctx, id)

	return nil
}

// UpdateStatus performs the transition as one conditional write keyed on the
// expected prior status, so concurrent writers can never race a booking into
// an inconsistent state.
func (r *bookingRepository) UpdateStatus(ctx context.Context, requestID string, from, to models.BookingStatus) error {
	updates := bson.M{
		"status":     to,
		"updated_at": time.Now(),
	}
	switch to {
	case models.BookingStatusAccepted:
		updates["accepted_at"] = time.Now()
	case models.BookingStatusCompleted:
		updates["completed_at"] = time.Now()
	case models.BookingStatusCancelled:
		updates["cancelled_at"] = time.Now()
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"request_id": requestID, "status": from},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if result.MatchedCount == 0 {
		// Distinguish an unknown booking from a lost race.
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"request_id": requestID})
		if countErr != nil {
			return fmt.Errorf("failed to update booking status: %w", countErr)
		}
		if count == 0 {
			return utils.ErrNotFound
		}
		return utils.ErrConflict
	}

	r.invalidateBookingCache(ctx, requestID)

	return nil
}

// AssignTransporter is the single atomic conditional write of the assignment
// path: it only succeeds while the booking is still pending.
func (r *bookingRepository) AssignTransporter(ctx context.Context, requestID string, transporterID primitive.ObjectID, snapshot *models.AssignmentSnapshot) error {
	now := time.Now()
	updates := bson.M{
		"status":               models.BookingStatusAccepted,
		"transporter_id":       transporterID,
		"assigned_transporter": snapshot,
		"accepted_at":          now,
		"updated_at":           now,
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"request_id": requestID, "status": models.BookingStatusPending},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to assign transporter: %w", err)
	}

	if result.MatchedCount == 0 {
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"request_id": requestID})
		if countErr != nil {
			return fmt.Errorf("failed to assign transporter: %w", countErr)
		}
		if count == 0 {
			return utils.ErrNotFound
		}
		return utils.ErrConflict
	}

	r.invalidateBookingCache(ctx, requestID)

	return nil
}

func (r *bookingRepository) GetUnassigned(ctx context.Context) ([]*models.Booking, error) {
	filter := bson.M{
		"status":         models.BookingStatusPending,
		"transporter_id": nil,
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find unassigned bookings: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeBookings(ctx, cursor)
}

func (r *bookingRepository) GetActiveByTransporter(ctx context.Context, transporterID primitive.ObjectID) (*models.Booking, error) {
	filter := bson.M{
		"transporter_id": transporterID,
		"status": bson.M{"$in": []models.BookingStatus{
			models.BookingStatusAccepted,
			models.BookingStatusInProgress,
			models.BookingStatusPickedUp,
		}},
	}

	var booking models.Booking
	err := r.collection.FindOne(ctx, filter, options.FindOne().SetSort(bson.D{{Key: "accepted_at", Value: -1}})).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active booking: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) GetByStatus(ctx context.Context, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return r.findBookingsWithFilter(ctx, bson.M{"status": status}, params)
}

func (r *bookingRepository) GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return r.findBookingsWithFilter(ctx, bson.M{"user_id": userID}, params)
}

// Helper methods
func (r *bookingRepository) findBookingsWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings, err := decodeBookings(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func decodeBookings(ctx context.Context, cursor *mongo.Cursor) ([]*models.Booking, error) {
	var bookings []*models.Booking
	for cursor.Next(ctx) {
		var booking models.Booking
		if err := cursor.Decode(&booking); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}
	return bookings, nil
}

// Cache operations
func (r *bookingRepository) cacheBooking(ctx context.Context, booking *models.Booking) {
	if r.cache != nil {
		r.cache.Set(ctx, cache.BookingKey(booking.RequestID), booking, 15*time.Minute)
	}
}

func (r *bookingRepository) getBookingFromCache(ctx context.Context, requestID string) *models.Booking {
	if r.cache == nil {
		return nil
	}

	var booking models.Booking
	if err := r.cache.Get(ctx, cache.BookingKey(requestID), &booking); err != nil {
		return nil
	}

	return &booking
}

func (r *bookingRepository) invalidateBookingCache(ctx context.Context, requestID string) {
	if r.cache != nil {
		r.cache.Delete(ctx, cache.BookingKey(requestID))
	}
}

func (r *bookingRepository) invalidateBookingCacheByID(ctx context.Context, id primitive.ObjectID) {
	if r.cache == nil {
		return
	}

	var booking models.Booking
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking); err == nil {
		r.cache.Delete(ctx, cache.BookingKey(booking.RequestID))
	}
}
