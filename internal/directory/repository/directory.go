package repository

import (
	"context"
	"errors"
	"fmt"
	"skyfare/pkg/config"
	"skyfare/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CarriersCollection = "Carriers"
	AirportsCollection = "Airports"
)

var ErrNotFound = errors.New("directory record not found")

// DirectoryRepository provides keyed reads over the immutable carrier and
// airport reference data.
type DirectoryRepository interface {
	FindCarrierByIATA(ctx context.Context, iata string) (*model.Carrier, error)
	FindCarrierByID(ctx context.Context, id primitive.ObjectID) (*model.Carrier, error)
	FindAirportByIATA(ctx context.Context, iata string) (*model.Airport, error)
	FindAirportByID(ctx context.Context, id primitive.ObjectID) (*model.Airport, error)
}

type mongoDirectoryRepository struct {
	cfg      *config.Config
	carriers *mongo.Collection
	airports *mongo.Collection
}

func NewMongoDirectoryRepository(cfg *config.Config) DirectoryRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDirectoryRepository{
		cfg:      cfg,
		carriers: db.Collection(CarriersCollection),
		airports: db.Collection(AirportsCollection),
	}
}

func (r *mongoDirectoryRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.cfg.MongoReadTimeout)
}

func (r *mongoDirectoryRepository) FindCarrierByIATA(ctx context.Context, iata string) (*model.Carrier, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var carrier model.Carrier
	err := r.carriers.FindOne(ctx, bson.M{"iata": iata}).Decode(&carrier)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find carrier: %w", err)
	}
	return &carrier, nil
}

func (r *mongoDirectoryRepository) FindCarrierByID(ctx context.Context, id primitive.ObjectID) (*model.Carrier, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var carrier model.Carrier
	err := r.carriers.FindOne(ctx, bson.M{"_id": id}).Decode(&carrier)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find carrier: %w", err)
	}
	return &carrier, nil
}

func (r *mongoDirectoryRepository) FindAirportByIATA(ctx context.Context, iata string) (*model.Airport, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var airport model.Airport
	err := r.airports.FindOne(ctx, bson.M{"iata": iata}).Decode(&airport)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find airport: %w", err)
	}
	return &airport, nil
}

func (r *mongoDirectoryRepository) FindAirportByID(ctx context.Context, id primitive.ObjectID) (*model.Airport, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var airport model.Airport
	err := r.airports.FindOne(ctx, bson.M{"_id": id}).Decode(&airport)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find airport: %w", err)
	}
	return &airport, nil
}

// InsertCarrier and InsertAirport exist for the fixture seeder; the service
// layer never writes reference data.
func InsertCarrier(ctx context.Context, db *mongo.Database, carrier *model.Carrier) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := db.Collection(CarriersCollection).InsertOne(ctx, carrier)
	if err != nil {
		return fmt.Errorf("failed to insert carrier %s: %w", carrier.IATA, err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		carrier.ID = oid
	}
	return nil
}

func InsertAirport(ctx context.Context, db *mongo.Database, airport *model.Airport) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := db.Collection(AirportsCollection).InsertOne(ctx, airport)
	if err != nil {
		return fmt.Errorf("failed to insert airport %s: %w", airport.IATA, err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		airport.ID = oid
	}
	return nil
}
