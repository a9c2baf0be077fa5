package repository

import (
	"context"
	"errors"
	"fmt"
	inventoryerrors "skyfare/internal/inventory/errors"
	"skyfare/pkg/config"
	mongotx "skyfare/pkg/db/mongo"
	"skyfare/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	BookingCollectionName = "Bookings"
)

// ErrPNRConflict is returned by Create when a generated record locator
// collides with one already stored. The unique index on passenger PNRs is
// the authority; callers abort the surrounding transaction.
var ErrPNRConflict = errors.New("record locator already in use")

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByPNR(ctx context.Context, pnr string) (*model.Booking, error)
	FindByLeg(ctx context.Context, legID primitive.ObjectID) ([]*model.Booking, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(BookingCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.cfg.MongoWriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrPNRConflict
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.MongoReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", inventoryerrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, inventoryerrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByPNR(ctx context.Context, pnr string) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.MongoReadTimeout)
	defer cancel()

	filter := bson.M{"booking_legs.passengers.pnr": pnr}

	var booking model.Booking
	err := r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, inventoryerrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find booking by record locator: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByLeg(ctx context.Context, legID primitive.ObjectID) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.MongoReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"booking_legs.leg_id": legID})
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings by leg: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx, r.cfg.MongoWriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if result.DeletedCount == 0 {
		return inventoryerrors.ErrBookingNotFound
	}

	return nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
