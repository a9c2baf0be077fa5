package main

import (
	"context"
	"fmt"
	"time"

	directoryrepo "skyfare/internal/directory/repository"
	"skyfare/internal/inventory/repository"
	"skyfare/pkg/config"
	"skyfare/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const JobName = "populate"

// Seeds the reference schedule used by local development and the demo
// scenarios: 10 carriers, 10 airports, 8 weekly routes, materialized legs
// for weeks 48-51 of 2020, and a handful of confirmed bookings.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	if err := seed(ctx, db); err != nil {
		cfg.Log.Fatal("Populate failed", "error", err)
	}
	fmt.Println("✅ Fixture data populated successfully.")
}

func seed(ctx context.Context, db *mongo.Database) error {
	carriers := []*model.Carrier{
		{IATA: "SK", Name: "Scandinavian Airlines"},
		{IATA: "FR", Name: "Ryanair"},
		{IATA: "AS", Name: "Alaska Airlines"},
		{IATA: "AA", Name: "American Airlines"},
		{IATA: "DA", Name: "Delta Airlines"},
		{IATA: "HA", Name: "Hawaii Airlines"},
		{IATA: "WN", Name: "Southwest Airlines"},
		{IATA: "NK", Name: "Spirit Airlines"},
		{IATA: "UA", Name: "United Airlines"},
		{IATA: "FX", Name: "FedEx Express"},
	}
	for _, c := range carriers {
		if err := directoryrepo.InsertCarrier(ctx, db, c); err != nil {
			return err
		}
	}

	airports := []*model.Airport{
		{IATA: "CPH", Name: "Copenhagen Airport", TimeZone: "Europe/Copenhagen"},
		{IATA: "LHR", Name: "London Heathrow Airport", TimeZone: "Europe/London"},
		{IATA: "AAL", Name: "Aalborg Airport", TimeZone: "Europe/Copenhagen"},
		{IATA: "AAR", Name: "Aarhus Airport", TimeZone: "Europe/Copenhagen"},
		{IATA: "BLL", Name: "Billund Airport", TimeZone: "Europe/Copenhagen"},
		{IATA: "RNN", Name: "Bornholm Airport", TimeZone: "Europe/Copenhagen"},
		{IATA: "RKE", Name: "Roskilde Airport", TimeZone: "Europe/Copenhagen"},
		{IATA: "EBJ", Name: "Esbjerg Airport", TimeZone: "Europe/Copenhagen"},
		{IATA: "KRP", Name: "Karup Airport", TimeZone: "Europe/Copenhagen"},
		{IATA: "BYR", Name: "Læsø Airport", TimeZone: "Europe/Copenhagen"},
	}
	for _, a := range airports {
		if err := directoryrepo.InsertAirport(ctx, db, a); err != nil {
			return err
		}
	}

	carrier := func(iata string) *model.Carrier {
		for _, c := range carriers {
			if c.IATA == iata {
				return c
			}
		}
		panic("unknown carrier " + iata)
	}
	airport := func(iata string) *model.Airport {
		for _, a := range airports {
			if a.IATA == iata {
				return a
			}
		}
		panic("unknown airport " + iata)
	}

	routes := []*model.Route{
		{CarrierID: carrier("SK").ID, DepartureAirportID: airport("CPH").ID, ArrivalAirportID: airport("LHR").ID, Weekday: 1, DepartureSecondInDay: 28800, DurationInSeconds: 5400, NumberOfSeats: 366, SeatPrice: 510},
		{CarrierID: carrier("FR").ID, DepartureAirportID: airport("AAL").ID, ArrivalAirportID: airport("AAR").ID, Weekday: 2, DepartureSecondInDay: 28700, DurationInSeconds: 5900, NumberOfSeats: 6, SeatPrice: 1000},
		{CarrierID: carrier("AS").ID, DepartureAirportID: airport("BLL").ID, ArrivalAirportID: airport("RNN").ID, Weekday: 1, DepartureSecondInDay: 14400, DurationInSeconds: 5400, NumberOfSeats: 500, SeatPrice: 69},
		{CarrierID: carrier("AA").ID, DepartureAirportID: airport("RKE").ID, ArrivalAirportID: airport("EBJ").ID, Weekday: 4, DepartureSecondInDay: 20700, DurationInSeconds: 4800, NumberOfSeats: 6, SeatPrice: 69},
		{CarrierID: carrier("DA").ID, DepartureAirportID: airport("RNN").ID, ArrivalAirportID: airport("LHR").ID, Weekday: 2, DepartureSecondInDay: 28340, DurationInSeconds: 8900, NumberOfSeats: 299, SeatPrice: 149},
		{CarrierID: carrier("HA").ID, DepartureAirportID: airport("BYR").ID, ArrivalAirportID: airport("CPH").ID, Weekday: 5, DepartureSecondInDay: 57600, DurationInSeconds: 21600, NumberOfSeats: 245, SeatPrice: 456},
		{CarrierID: carrier("WN").ID, DepartureAirportID: airport("RNN").ID, ArrivalAirportID: airport("KRP").ID, Weekday: 3, DepartureSecondInDay: 28390, DurationInSeconds: 10990, NumberOfSeats: 300, SeatPrice: 1000},
		{CarrierID: carrier("FX").ID, DepartureAirportID: airport("BLL").ID, ArrivalAirportID: airport("RKE").ID, Weekday: 5, DepartureSecondInDay: 35700, DurationInSeconds: 1500, NumberOfSeats: 150, SeatPrice: 899},
	}
	for _, r := range routes {
		if err := insertOne(ctx, db, repository.RouteCollectionName, r, &r.ID); err != nil {
			return err
		}
	}

	// Materialize every route for weeks 48-51 with sequential flight
	// numbers, then park the counter after the last one handed out.
	seq := 0
	legs := make(map[string]*model.Leg)
	for _, week := range []int{48, 49, 50, 51} {
		for i, r := range routes {
			seq++
			leg := &model.Leg{RouteID: r.ID, Week: week, Year: 2020, SequenceID: seq}
			if err := insertOne(ctx, db, repository.LegCollectionName, leg, &leg.ID); err != nil {
				return err
			}
			legs[fmt.Sprintf("%d/%d", i+1, week)] = leg
		}
	}

	counterFilter := bson.M{"_id": repository.LegCounterName}
	counterUpdate := bson.M{"$set": bson.M{"seq": seq}}
	if _, err := db.Collection(repository.CounterCollectionName).
		UpdateOne(ctx, counterFilter, counterUpdate, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to seed counter: %w", err)
	}

	person := func(first, last string) model.Person {
		return model.Person{FirstName: first, LastName: last}
	}
	leg1 := legs["1/48"]
	leg2 := legs["2/48"]
	leg3 := legs["3/48"]

	bookings := []*model.Booking{
		{
			BookingLegs: []model.BookingLeg{{LegID: leg1.ID, Passengers: []model.Passenger{
				{PNR: "B1BS34", Person: person("Per", "Nielsen")},
				{PNR: "X2BS32", Person: person("Adam", "Lassie")},
			}}},
			FrequentFlyerID:  "A12B34C",
			CreditCardNumber: "1234567891234567",
		},
		{
			BookingLegs: []model.BookingLeg{{LegID: leg1.ID, Passengers: []model.Passenger{
				{PNR: "R3BS45", Person: person("Kurt", "Wonnegut")},
				{PNR: "A4BS63", Person: person("Step", "Hansen")},
				{PNR: "H5BS72", Person: person("Martin", "Garrix")},
				{PNR: "J6BS64", Person: person("Poul", "Herning")},
			}}},
			FrequentFlyerID:  "B12B34C",
			CreditCardNumber: "2234567891234567",
		},
		{
			BookingLegs: []model.BookingLeg{{LegID: leg1.ID, Passengers: []model.Passenger{
				{PNR: "K7BS76", Person: person("Margrethe", "Pestager")},
				{PNR: "L8BS65", Person: person("Samuel", "Hackson")},
				{PNR: "M9BS83", Person: person("Rasmus", "Klumpen")},
			}}},
			FrequentFlyerID:  "C12B34C",
			CreditCardNumber: "3234567891234567",
		},
		{
			BookingLegs: []model.BookingLeg{{LegID: leg2.ID, Passengers: []model.Passenger{
				{PNR: "K7BS27", Person: person("Per", "Nielsen")},
				{PNR: "L8BS11", Person: person("Hans", "Nielsen")},
				{PNR: "M9FS52", Person: person("Nikolaj", "Nielsen")},
				{PNR: "N9HS81", Person: person("Stephan", "Nielsen")},
			}}},
			FrequentFlyerID:  "D13B35D",
			CreditCardNumber: "4234467895234567",
		},
		{
			BookingLegs: []model.BookingLeg{
				{LegID: leg2.ID, Passengers: []model.Passenger{
					{PNR: "O9JS99", Person: person("Ane", "Nielsen")},
					{PNR: "S9SS11", Person: person("Hanne", "Hansen")},
				}},
				{LegID: leg3.ID, Passengers: []model.Passenger{
					{PNR: "J9LS42", Person: person("Margrethe", "Olsen")},
					{PNR: "A9WS71", Person: person("Hannah", "Johnson")},
					{PNR: "B9LS76", Person: person("Johanne", "Olesen")},
				}},
			},
			FrequentFlyerID:  "E12D34D",
			CreditCardNumber: "4231267789123457",
		},
		{
			BookingLegs: []model.BookingLeg{{LegID: leg3.ID, Passengers: []model.Passenger{
				{PNR: "R9YS63", Person: person("Anni", "Bæk")},
				{PNR: "K9OS71", Person: person("Dorthe", "Hansen")},
			}}},
			FrequentFlyerID:  "F16U34E",
			CreditCardNumber: "2234867892234667",
		},
	}
	for _, b := range bookings {
		b.CreatedAt = time.Now().UTC()
		if err := insertOne(ctx, db, repository.BookingCollectionName, b, &b.ID); err != nil {
			return err
		}
	}

	return nil
}

func insertOne(ctx context.Context, db *mongo.Database, collection string, doc any, id *primitive.ObjectID) error {
	result, err := db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		*id = oid
	}
	return nil
}
