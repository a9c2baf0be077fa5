package repository

import (
	"context"
	"errors"
	"fmt"
	inventoryerrors "skyfare/internal/inventory/errors"
	"skyfare/pkg/config"
	"skyfare/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	RouteCollectionName = "Routes"
)

type RouteRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Route, error)
	FindBySearch(ctx context.Context, departureAirportID, arrivalAirportID primitive.ObjectID, weekday int) ([]*model.Route, error)
}

type mongoRouteRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRouteRepository(cfg *config.Config) RouteRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRouteRepository{
		cfg:        cfg,
		collection: db.Collection(RouteCollectionName),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// SessionContext cannot be wrapped without breaking transaction semantics, so
// it is returned unchanged with a no-op cancel.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRouteRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Route, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.MongoReadTimeout)
	defer cancel()

	var route model.Route
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&route)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, inventoryerrors.ErrRouteNotFound
		}
		return nil, fmt.Errorf("failed to find route: %w", err)
	}

	return &route, nil
}

func (r *mongoRouteRepository) FindBySearch(ctx context.Context, departureAirportID, arrivalAirportID primitive.ObjectID, weekday int) ([]*model.Route, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.MongoReadTimeout)
	defer cancel()

	filter := bson.M{
		"departure_airport_id": departureAirportID,
		"arrival_airport_id":   arrivalAirportID,
		"weekday":              weekday,
	}

	opts := options.Find().SetSort(bson.D{{Key: "departure_second_in_day", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find routes: %w", err)
	}
	defer cursor.Close(ctx)

	var routes []*model.Route
	if err = cursor.All(ctx, &routes); err != nil {
		return nil, fmt.Errorf("failed to decode routes: %w", err)
	}

	return routes, nil
}
