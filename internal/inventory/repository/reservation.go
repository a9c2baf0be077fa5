package repository

import (
	"context"
	"errors"
	"fmt"
	inventoryerrors "skyfare/internal/inventory/errors"
	"skyfare/pkg/config"
	mongotx "skyfare/pkg/db/mongo"
	"skyfare/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	ReservationCollectionName = "Reservations"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	FindByLeg(ctx context.Context, legID primitive.ObjectID) ([]*model.Reservation, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		collection: db.Collection(ReservationCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := withTimeout(ctx, r.cfg.MongoWriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, reservation)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		reservation.ID = oid
	}
	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.MongoReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", inventoryerrors.ErrInvalidID, id)
	}

	var reservation model.Reservation
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, inventoryerrors.ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}

	return &reservation, nil
}

func (r *mongoReservationRepository) FindByLeg(ctx context.Context, legID primitive.ObjectID) ([]*model.Reservation, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.MongoReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"leg_id": legID})
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx, r.cfg.MongoWriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	if result.DeletedCount == 0 {
		return inventoryerrors.ErrReservationNotFound
	}

	return nil
}
