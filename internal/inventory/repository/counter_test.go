package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"skyfare/pkg/client"
	"skyfare/pkg/config"
	"skyfare/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// These tests run against a real Mongo instance because sequence allocation
// lives entirely in a findOneAndUpdate pipeline; there is no Go arithmetic to
// unit-test. Set TEST_MONGO_URI to run them.
func counterTestRepository(t *testing.T) (CounterRepository, *mongo.Collection) {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}
	t.Cleanup(func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	})

	cfg := &config.Config{
		MongoDatabaseName:  "skyfare_test",
		MongoWriteTimeout:  5 * time.Second,
		LegSequenceCeiling: 999,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "counter-test",
		}),
		Client: &client.Client{Mongo: mongoClient},
	}

	collection := mongoClient.Database(cfg.MongoDatabaseName).Collection(CounterCollectionName)
	return NewMongoCounterRepository(cfg), collection
}

func resetCounter(t *testing.T, collection *mongo.Collection, name string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := collection.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		t.Fatalf("failed to reset counter %q: %v", name, err)
	}
}

func seedCounter(t *testing.T, collection *mongo.Collection, name string, seq int) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := collection.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$set": bson.M{"seq": seq}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		t.Fatalf("failed to seed counter %q: %v", name, err)
	}
}

func TestNextFirstAllocationStartsAtOne(t *testing.T) {
	repo, collection := counterTestRepository(t)
	const name = "Leg_test_first"
	resetCounter(t, collection, name)
	t.Cleanup(func() { resetCounter(t, collection, name) })

	for want := 1; want <= 3; want++ {
		got, err := repo.Next(context.Background(), name)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if got != want {
			t.Errorf("Next() = %d, want %d", got, want)
		}
	}
}

func TestNextWrapsAtCeiling(t *testing.T) {
	repo, collection := counterTestRepository(t)
	const name = "Leg_test_wrap"
	seedCounter(t, collection, name, 998)
	t.Cleanup(func() { resetCounter(t, collection, name) })

	// 998 -> 999 -> 1 -> 2: the ceiling itself is handed out, then the
	// sequence restarts at 1, never 0 and never 1000.
	for _, want := range []int{999, 1, 2} {
		got, err := repo.Next(context.Background(), name)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if got != want {
			t.Errorf("Next() = %d, want %d", got, want)
		}
	}
}

func TestNextConcurrentAllocationsAreDistinct(t *testing.T) {
	repo, collection := counterTestRepository(t)
	const name = "Leg_test_concurrent"
	resetCounter(t, collection, name)
	t.Cleanup(func() { resetCounter(t, collection, name) })

	const callers = 20
	results := make(chan int, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := repo.Next(context.Background(), name)
			if err != nil {
				t.Errorf("Next() error = %v", err)
				return
			}
			results <- seq
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int]bool)
	for seq := range results {
		if seen[seq] {
			t.Errorf("sequence %d allocated twice", seq)
		}
		seen[seq] = true
	}
}
