package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"skyfare/internal/migrations/mongo/validators"
)

var (
	CarriersIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "iata", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	AirportsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "iata", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	RoutesIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "departure_airport_id", Value: 1},
			{Key: "arrival_airport_id", Value: 1},
			{Key: "weekday", Value: 1},
		}},
	}

	// Legs are unique per (route, week, year) and carry a collection-wide
	// unique sequence number; both constraints back the resolver's
	// materialize-once guarantee.
	LegsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "route_id", Value: 1},
				{Key: "week", Value: 1},
				{Key: "year", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "sequence_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	ReservationsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "leg_id", Value: 1}}},
	}

	// The unique PNR index is the collision authority for generated record
	// locators; a duplicate insert aborts the booking transaction.
	BookingsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "booking_legs.passengers.pnr", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "booking_legs.leg_id", Value: 1}}},
	}

	LegLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running Skyfare Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Carriers": {
			Indexes:   CarriersIndexes,
			Validator: validators.CarrierValidator,
		},
		"Airports": {
			Indexes:   AirportsIndexes,
			Validator: validators.AirportValidator,
		},
		"Routes": {
			Indexes:   RoutesIndexes,
			Validator: validators.RouteValidator,
		},
		"Legs": {
			Indexes:   LegsIndexes,
			Validator: validators.LegValidator,
		},
		"Reservations": {
			Indexes:   ReservationsIndexes,
			Validator: validators.ReservationValidator,
		},
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"Leg_locks": {
			Indexes: LegLocksIndexes,
		},
		"Counters": {},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if len(def.Indexes) == 0 {
			continue
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts = opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	if validator == nil {
		return nil
	}

	fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
