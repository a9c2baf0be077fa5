package repository

import (
	"context"
	"fmt"
	"skyfare/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CounterCollectionName = "Counters"

	// LegCounterName is the _id of the counter document backing leg
	// sequence allocation.
	LegCounterName = "Leg"
)

// CounterRepository hands out monotonically increasing sequence numbers that
// wrap back to 1 after the configured ceiling. Allocation is a single
// findOneAndUpdate, so concurrent callers never receive the same value.
type CounterRepository interface {
	Next(ctx context.Context, name string) (int, error)
}

type mongoCounterRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCounterRepository(cfg *config.Config) CounterRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCounterRepository{
		cfg:        cfg,
		collection: db.Collection(CounterCollectionName),
	}
}

func (r *mongoCounterRepository) Next(ctx context.Context, name string) (int, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.MongoWriteTimeout)
	defer cancel()

	// Pipeline update so increment and wrap happen in one atomic step:
	// seq 999 is followed by seq 1, never 1000 and never 0. $ifNull seeds
	// the sequence on first allocation (upsert inserts seq: null fields
	// resolved through the same expression, yielding 1).
	ceiling := r.cfg.LegSequenceCeiling
	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"seq": bson.M{
				"$add": bson.A{
					bson.M{"$mod": bson.A{bson.M{"$ifNull": bson.A{"$seq", 0}}, ceiling}},
					1,
				},
			},
		}}},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int `bson:"seq"`
	}
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": name}, update, opts).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to advance counter %q: %w", name, err)
	}

	return counter.Seq, nil
}
