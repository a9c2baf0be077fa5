package repository

import (
	"context"
	"errors"
	"fmt"
	inventoryerrors "skyfare/internal/inventory/errors"
	"skyfare/pkg/config"
	"skyfare/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	LegCollectionName = "Legs"
)

// ErrLegExists is returned by Insert when another request materialized the
// same (route, week, year) leg first. Callers should re-read by key.
var ErrLegExists = errors.New("leg already exists for route, week and year")

type LegRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Leg, error)
	FindByKey(ctx context.Context, routeID primitive.ObjectID, week int, year int) (*model.Leg, error)
	FindBySequenceID(ctx context.Context, sequenceID int) (*model.Leg, error)
	Insert(ctx context.Context, leg *model.Leg) error
}

type mongoLegRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoLegRepository(cfg *config.Config) LegRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLegRepository{
		cfg:        cfg,
		collection: db.Collection(LegCollectionName),
	}
}

func (r *mongoLegRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Leg, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.MongoReadTimeout)
	defer cancel()

	var leg model.Leg
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&leg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, inventoryerrors.ErrLegNotFound
		}
		return nil, fmt.Errorf("failed to find leg: %w", err)
	}

	return &leg, nil
}

func (r *mongoLegRepository) FindByKey(ctx context.Context, routeID primitive.ObjectID, week int, year int) (*model.Leg, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.MongoReadTimeout)
	defer cancel()

	filter := bson.M{
		"route_id": routeID,
		"week":     week,
		"year":     year,
	}

	var leg model.Leg
	err := r.collection.FindOne(ctx, filter).Decode(&leg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, inventoryerrors.ErrLegNotFound
		}
		return nil, fmt.Errorf("failed to find leg by key: %w", err)
	}

	return &leg, nil
}

func (r *mongoLegRepository) FindBySequenceID(ctx context.Context, sequenceID int) (*model.Leg, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.MongoReadTimeout)
	defer cancel()

	var leg model.Leg
	err := r.collection.FindOne(ctx, bson.M{"sequence_id": sequenceID}).Decode(&leg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, inventoryerrors.ErrLegNotFound
		}
		return nil, fmt.Errorf("failed to find leg by sequence: %w", err)
	}

	return &leg, nil
}

func (r *mongoLegRepository) Insert(ctx context.Context, leg *model.Leg) error {
	ctx, cancel := withTimeout(ctx, r.cfg.MongoWriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, leg)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrLegExists
		}
		return fmt.Errorf("failed to insert leg: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		leg.ID = oid
	}
	return nil
}
