package repository

import (
	"context"
	"skyfare/pkg/config"
	"skyfare/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// LegLockRepository provides operations for advisory per-leg locks
type LegLockRepository interface {
	Create(ctx context.Context, lock *model.LegLock) (*model.LegLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoLegLockRepository struct {
	collection *mongo.Collection
}

func NewLegLockRepository(cfg *config.Config) LegLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLegLockRepository{
		collection: db.Collection("Leg_locks"),
	}
}

// Returns duplicate key error if lock already exists
func (r *mongoLegLockRepository) Create(ctx context.Context, lock *model.LegLock) (*model.LegLock, error) {
	lock.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		return nil, err
	}

	return lock, nil
}

// Delete removes an advisory lock
func (r *mongoLegLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
