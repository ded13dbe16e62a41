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

type transporterRepository struct {
	collection *mongo.Collection
	cache      *cache.RedisCache
}

func NewTransporterRepository(db *mongo.Database, cache *cache.RedisCache) interfaces.TransporterRepository {
	return &transporterRepository{
		collection: db.Collection("transporters"),
		cache:      cache,
	}
}

func (r *transporterRepository) Create(ctx context.Context, transporter *models.Transporter) error {
	if transporter.ID.IsZero() {
		transporter.ID = primitive.NewObjectID()
	}
	now := time.Now()
	transporter.CreatedAt = now
	transporter.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, transporter)
	if err != nil {
		return fmt.Errorf("failed to create transporter: %w", err)
	}

	return nil
}

func (r *transporterRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Transporter, error) {
	if transporter := r.getTransporterFromCache(ctx, id); transporter != nil {
		return transporter, nil
	}

	var transporter models.Transporter
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&transporter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transporter: %w", err)
	}

	r.cacheTransporter(ctx, &transporter)

	return &transporter, nil
}

func (r *transporterRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Transporter, error) {
	var transporter models.Transporter
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&transporter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transporter by user: %w", err)
	}

	return &transporter, nil
}

func (r *transporterRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update transporter: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.ErrNotFound
	}

	r.invalidateTransporterCache(ctx, id)

	return nil
}

// List returns the whole transporter pool. Matching scans it in memory; at
// fleet sizes where that hurts, this is the seam to swap in an indexed
// directory query (vehicle type + capacity range + geocell) without touching
// the filter logic above it.
func (r *transporterRepository) List(ctx context.Context) ([]*models.Transporter, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "rating", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list transporters: %w", err)
	}
	defer cursor.Close(ctx)

	var transporters []*models.Transporter
	for cursor.Next(ctx) {
		var transporter models.Transporter
		if err := cursor.Decode(&transporter); err != nil {
			return nil, fmt.Errorf("failed to decode transporter: %w", err)
		}
		transporters = append(transporters, &transporter)
	}

	return transporters, nil
}

func (r *transporterRepository) UpdateAvailability(ctx context.Context, id primitive.ObjectID, accepting bool) error {
	return r.Update(ctx, id, map[string]interface{}{
		"accepting_booking": accepting,
	})
}

// AppendRouteSample appends one sample and evicts everything older than the
// rolling 48h window in a single document update, so per-transporter location
// writes serialize on the document and there is no cross-transporter
// contention.
func (r *transporterRepository) AppendRouteSample(ctx context.Context, id primitive.ObjectID, sample models.RoutePoint) error {
	cutoff := sample.Timestamp.Add(-utils.RouteHistoryWindow)

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"current_route": sample},
			"$set": bson.M{
				"last_known_location": sample.Location,
				"updated_at":          time.Now(),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to append route sample: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.ErrNotFound
	}

	// Prune in a follow-up write; the window is generous enough that the
	// extra sample surviving between the two writes is harmless.
	_, err = r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$pull": bson.M{"current_route": bson.M{"timestamp": bson.M{"$lt": cutoff}}}},
	)
	if err != nil {
		return fmt.Errorf("failed to prune route history: %w", err)
	}

	r.invalidateTransporterCache(ctx, id)

	return nil
}

// Cache operations
func (r *transporterRepository) cacheTransporter(ctx context.Context, transporter *models.Transporter) {
	if r.cache != nil {
		r.cache.Set(ctx, cache.TransporterKey(transporter.ID.Hex()), transporter, 5*time.Minute)
	}
}

func (r *transporterRepository) getTransporterFromCache(ctx context.Context, id primitive.ObjectID) *models.Transporter {
	if r.cache == nil {
		return nil
	}

	var transporter models.Transporter
	if err := r.cache.Get(ctx, cache.TransporterKey(id.Hex()), &transporter); err != nil {
		return nil
	}

	return &transporter
}

func (r *transporterRepository) invalidateTransporterCache(ctx context.Context, id primitive.ObjectID) {
	if r.cache != nil {
		r.cache.Delete(ctx, cache.TransporterKey(id.Hex()))
	}
}
