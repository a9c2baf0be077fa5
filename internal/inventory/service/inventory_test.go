package service

import (
	"context"
	"reflect"
	"regexp"
	"testing"
	"time"

	directoryrepo "skyfare/internal/directory/repository"
	inventoryerrors "skyfare/internal/inventory/errors"
	"skyfare/internal/inventory/repository"
	"skyfare/internal/inventory/validator"
	"skyfare/pkg/config"
	mongotx "skyfare/pkg/db/mongo"
	apperrors "skyfare/pkg/errors"
	"skyfare/pkg/logger"
	"skyfare/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var pnrFormat = regexp.MustCompile(`^[A-Z][A-Z0-9]{5}$`)

// Mock repositories for testing

type mockRouteRepository struct {
	findByIDFunc     func(ctx context.Context, id primitive.ObjectID) (*model.Route, error)
	findBySearchFunc func(ctx context.Context, departureAirportID, arrivalAirportID primitive.ObjectID, weekday int) ([]*model.Route, error)
}

func (m *mockRouteRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Route, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, inventoryerrors.ErrRouteNotFound
}

func (m *mockRouteRepository) FindBySearch(ctx context.Context, departureAirportID, arrivalAirportID primitive.ObjectID, weekday int) ([]*model.Route, error) {
	if m.findBySearchFunc != nil {
		return m.findBySearchFunc(ctx, departureAirportID, arrivalAirportID, weekday)
	}
	return []*model.Route{}, nil
}

type mockLegRepository struct {
	findByIDFunc         func(ctx context.Context, id primitive.ObjectID) (*model.Leg, error)
	findByKeyFunc        func(ctx context.Context, routeID primitive.ObjectID, week int, year int) (*model.Leg, error)
	findBySequenceIDFunc func(ctx context.Context, sequenceID int) (*model.Leg, error)
	insertFunc           func(ctx context.Context, leg *model.Leg) error
}

func (m *mockLegRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Leg, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, inventoryerrors.ErrLegNotFound
}

func (m *mockLegRepository) FindByKey(ctx context.Context, routeID primitive.ObjectID, week int, year int) (*model.Leg, error) {
	if m.findByKeyFunc != nil {
		return m.findByKeyFunc(ctx, routeID, week, year)
	}
	return nil, inventoryerrors.ErrLegNotFound
}

func (m *mockLegRepository) FindBySequenceID(ctx context.Context, sequenceID int) (*model.Leg, error) {
	if m.findBySequenceIDFunc != nil {
		return m.findBySequenceIDFunc(ctx, sequenceID)
	}
	return nil, inventoryerrors.ErrLegNotFound
}

func (m *mockLegRepository) Insert(ctx context.Context, leg *model.Leg) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, leg)
	}
	leg.ID = primitive.NewObjectID()
	return nil
}

type mockCounterRepository struct {
	nextFunc func(ctx context.Context, name string) (int, error)
}

func (m *mockCounterRepository) Next(ctx context.Context, name string) (int, error) {
	if m.nextFunc != nil {
		return m.nextFunc(ctx, name)
	}
	return 1, nil
}

type mockReservationRepository struct {
	createFunc    func(ctx context.Context, reservation *model.Reservation) error
	findByIDFunc  func(ctx context.Context, id string) (*model.Reservation, error)
	findByLegFunc func(ctx context.Context, legID primitive.ObjectID) ([]*model.Reservation, error)
	deleteFunc    func(ctx context.Context, id primitive.ObjectID) error
}

func (m *mockReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, reservation)
	}
	reservation.ID = primitive.NewObjectID()
	return nil
}

func (m *mockReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, inventoryerrors.ErrReservationNotFound
}

func (m *mockReservationRepository) FindByLeg(ctx context.Context, legID primitive.ObjectID) ([]*model.Reservation, error) {
	if m.findByLegFunc != nil {
		return m.findByLegFunc(ctx, legID)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockBookingRepository struct {
	createFunc    func(ctx context.Context, booking *model.Booking) error
	findByIDFunc  func(ctx context.Context, id string) (*model.Booking, error)
	findByPNRFunc func(ctx context.Context, pnr string) (*model.Booking, error)
	findByLegFunc func(ctx context.Context, legID primitive.ObjectID) ([]*model.Booking, error)
	deleteFunc    func(ctx context.Context, id primitive.ObjectID) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = primitive.NewObjectID()
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, inventoryerrors.ErrBookingNotFound
}

func (m *mockBookingRepository) FindByPNR(ctx context.Context, pnr string) (*model.Booking, error) {
	if m.findByPNRFunc != nil {
		return m.findByPNRFunc(ctx, pnr)
	}
	return nil, inventoryerrors.ErrBookingNotFound
}

func (m *mockBookingRepository) FindByLeg(ctx context.Context, legID primitive.ObjectID) ([]*model.Booking, error) {
	if m.findByLegFunc != nil {
		return m.findByLegFunc(ctx, legID)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLegLockRepository struct {
	createFunc func(ctx context.Context, lock *model.LegLock) (*model.LegLock, error)
	deleteFunc func(ctx context.Context, lockID string) error
}

func (m *mockLegLockRepository) Create(ctx context.Context, lock *model.LegLock) (*model.LegLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockLegLockRepository) Delete(ctx context.Context, lockID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, lockID)
	}
	return nil
}

type mockDirectoryRepository struct {
	carriers map[primitive.ObjectID]*model.Carrier
	airports map[primitive.ObjectID]*model.Airport
}

func (m *mockDirectoryRepository) FindCarrierByIATA(ctx context.Context, iata string) (*model.Carrier, error) {
	for _, c := range m.carriers {
		if c.IATA == iata {
			return c, nil
		}
	}
	return nil, directoryrepo.ErrNotFound
}

func (m *mockDirectoryRepository) FindCarrierByID(ctx context.Context, id primitive.ObjectID) (*model.Carrier, error) {
	if c, ok := m.carriers[id]; ok {
		return c, nil
	}
	return nil, directoryrepo.ErrNotFound
}

func (m *mockDirectoryRepository) FindAirportByIATA(ctx context.Context, iata string) (*model.Airport, error) {
	for _, a := range m.airports {
		if a.IATA == iata {
			return a, nil
		}
	}
	return nil, directoryrepo.ErrNotFound
}

func (m *mockDirectoryRepository) FindAirportByID(ctx context.Context, id primitive.ObjectID) (*model.Airport, error) {
	if a, ok := m.airports[id]; ok {
		return a, nil
	}
	return nil, directoryrepo.ErrNotFound
}

// Fixtures

type fixture struct {
	carrier *model.Carrier
	cph     *model.Airport
	lhr     *model.Airport
	route   *model.Route
	leg     *model.Leg

	routes       *mockRouteRepository
	legs         *mockLegRepository
	counters     *mockCounterRepository
	reservations *mockReservationRepository
	bookings     *mockBookingRepository
	locks        *mockLegLockRepository
	directory    *mockDirectoryRepository
}

func testConfig() *config.Config {
	return &config.Config{
		Log:                logger.New(logger.Config{Level: "error", Service: "test"}),
		LegSequenceCeiling: 999,
		ReservationLockTTL: 10 * time.Second,
		MaxSeatsPerHold:    9,
	}
}

// newFixture models the reference schedule: carrier SK flying CPH to LHR
// every Monday at 08:00 local, 90 minutes, 366 seats at 510 per seat,
// materialized as sequence 1 in week 48 of 2020.
func newFixture() *fixture {
	carrier := &model.Carrier{ID: primitive.NewObjectID(), IATA: "SK", Name: "Scandinavian Airlines"}
	cph := &model.Airport{ID: primitive.NewObjectID(), IATA: "CPH", Name: "Copenhagen Airport", TimeZone: "Europe/Copenhagen"}
	lhr := &model.Airport{ID: primitive.NewObjectID(), IATA: "LHR", Name: "London Heathrow Airport", TimeZone: "Europe/London"}

	route := &model.Route{
		ID:                   primitive.NewObjectID(),
		CarrierID:            carrier.ID,
		DepartureAirportID:   cph.ID,
		ArrivalAirportID:     lhr.ID,
		Weekday:              1,
		DepartureSecondInDay: 28800,
		DurationInSeconds:    5400,
		NumberOfSeats:        366,
		SeatPrice:            510,
	}
	leg := &model.Leg{
		ID:         primitive.NewObjectID(),
		RouteID:    route.ID,
		Week:       48,
		Year:       2020,
		SequenceID: 1,
	}

	f := &fixture{
		carrier:      carrier,
		cph:          cph,
		lhr:          lhr,
		route:        route,
		leg:          leg,
		counters:     &mockCounterRepository{},
		reservations: &mockReservationRepository{},
		bookings:     &mockBookingRepository{},
		locks:        &mockLegLockRepository{},
		directory: &mockDirectoryRepository{
			carriers: map[primitive.ObjectID]*model.Carrier{carrier.ID: carrier},
			airports: map[primitive.ObjectID]*model.Airport{cph.ID: cph, lhr.ID: lhr},
		},
	}
	f.routes = &mockRouteRepository{
		findByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*model.Route, error) {
			if id == route.ID {
				return route, nil
			}
			return nil, inventoryerrors.ErrRouteNotFound
		},
		findBySearchFunc: func(ctx context.Context, dep, arr primitive.ObjectID, weekday int) ([]*model.Route, error) {
			if dep == cph.ID && arr == lhr.ID && weekday == route.Weekday {
				return []*model.Route{route}, nil
			}
			return []*model.Route{}, nil
		},
	}
	f.legs = &mockLegRepository{
		findByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*model.Leg, error) {
			if id == leg.ID {
				return leg, nil
			}
			return nil, inventoryerrors.ErrLegNotFound
		},
		findByKeyFunc: func(ctx context.Context, routeID primitive.ObjectID, week, year int) (*model.Leg, error) {
			if routeID == route.ID && week == leg.Week && year == leg.Year {
				return leg, nil
			}
			return nil, inventoryerrors.ErrLegNotFound
		},
		findBySequenceIDFunc: func(ctx context.Context, sequenceID int) (*model.Leg, error) {
			if sequenceID == leg.SequenceID {
				return leg, nil
			}
			return nil, inventoryerrors.ErrLegNotFound
		},
	}
	return f
}

func (f *fixture) service() *inventoryService {
	cfg := testConfig()
	return &inventoryService{
		routes:       f.routes,
		legs:         f.legs,
		counters:     f.counters,
		reservations: f.reservations,
		bookings:     f.bookings,
		lockRepo:     f.locks,
		directory:    f.directory,
		validator:    validator.NewInventoryValidator(cfg.Log),
		cfg:          cfg,
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != code {
		t.Errorf("expected error code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
}

// Search

func TestSearchReferenceFlight(t *testing.T) {
	f := newFixture()
	svc := f.service()

	// Monday 2020-11-23 08:00 CET, ISO week 48.
	summaries, err := svc.Search(context.Background(), "CPH", "LHR", 1606114800000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 flight, got %d", len(summaries))
	}

	got := summaries[0]
	if got.FlightCode != "SK001" {
		t.Errorf("expected flight code SK001, got %s", got.FlightCode)
	}
	if got.DepartureDate != 1606114800000 {
		t.Errorf("expected departure 1606114800000, got %d", got.DepartureDate)
	}
	if got.ArrivalDate != 1606120200000 {
		t.Errorf("expected arrival 1606120200000, got %d", got.ArrivalDate)
	}
	if got.AvailableSeats != 366 {
		t.Errorf("expected 366 available seats, got %d", got.AvailableSeats)
	}
	if got.SeatPrice != 510 {
		t.Errorf("expected seat price 510, got %d", got.SeatPrice)
	}
	if got.Carrier.Name != "Scandinavian Airlines" {
		t.Errorf("unexpected carrier: %+v", got.Carrier)
	}
	if got.DepartureAirport.IATA != "CPH" || got.ArrivalAirport.IATA != "LHR" {
		t.Errorf("unexpected airports: %+v -> %+v", got.DepartureAirport, got.ArrivalAirport)
	}
}

func TestSearchMaterializesLegOnFirstAccess(t *testing.T) {
	f := newFixture()

	var inserted *model.Leg
	f.legs.findByKeyFunc = func(ctx context.Context, routeID primitive.ObjectID, week, year int) (*model.Leg, error) {
		if inserted != nil {
			return inserted, nil
		}
		return nil, inventoryerrors.ErrLegNotFound
	}
	f.legs.insertFunc = func(ctx context.Context, leg *model.Leg) error {
		leg.ID = primitive.NewObjectID()
		inserted = leg
		return nil
	}
	f.counters.nextFunc = func(ctx context.Context, name string) (int, error) {
		if name != repository.LegCounterName {
			t.Errorf("expected counter %q, got %q", repository.LegCounterName, name)
		}
		return 7, nil
	}

	svc := f.service()
	summaries, err := svc.Search(context.Background(), "CPH", "LHR", 1606114800000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 flight, got %d", len(summaries))
	}
	if summaries[0].FlightCode != "SK007" {
		t.Errorf("expected flight code SK007, got %s", summaries[0].FlightCode)
	}
	if inserted == nil || inserted.Week != 48 || inserted.Year != 2020 || inserted.SequenceID != 7 {
		t.Errorf("unexpected materialized leg: %+v", inserted)
	}
}

func TestSearchSurvivesLostInsertRace(t *testing.T) {
	f := newFixture()

	winner := &model.Leg{
		ID:         primitive.NewObjectID(),
		RouteID:    f.route.ID,
		Week:       48,
		Year:       2020,
		SequenceID: 3,
	}
	lookups := 0
	f.legs.findByKeyFunc = func(ctx context.Context, routeID primitive.ObjectID, week, year int) (*model.Leg, error) {
		lookups++
		if lookups == 1 {
			return nil, inventoryerrors.ErrLegNotFound
		}
		return winner, nil
	}
	f.legs.insertFunc = func(ctx context.Context, leg *model.Leg) error {
		return repository.ErrLegExists
	}

	svc := f.service()
	summaries, err := svc.Search(context.Background(), "CPH", "LHR", 1606114800000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 1 || summaries[0].FlightCode != "SK003" {
		t.Fatalf("expected the winner's leg SK003, got %+v", summaries)
	}
}

func TestSearchOmitsFullFlights(t *testing.T) {
	f := newFixture()
	f.reservations.findByLegFunc = func(ctx context.Context, legID primitive.ObjectID) ([]*model.Reservation, error) {
		held := make([]*model.Reservation, 0, 41)
		for i := 0; i < 41; i++ {
			held = append(held, &model.Reservation{ID: primitive.NewObjectID(), LegID: legID, AmountOfSeats: 9})
		}
		return held, nil // 369 held seats, over the 366 capacity
	}

	svc := f.service()
	summaries, err := svc.Search(context.Background(), "CPH", "LHR", 1606114800000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("expected no flights, got %d", len(summaries))
	}
}

func TestSearchUnknownAirport(t *testing.T) {
	f := newFixture()
	svc := f.service()

	_, err := svc.Search(context.Background(), "XXX", "LHR", 1606114800000)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestSearchInvalidInput(t *testing.T) {
	f := newFixture()
	svc := f.service()

	_, err := svc.Search(context.Background(), "CPHX", "LHR", 1606114800000)
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)

	_, err = svc.Search(context.Background(), "CPH", "LHR", 0)
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}

// Reserve

// reserveFixture shrinks the reference route to the 6-seat flight FR002
// with one existing hold of a single seat.
func reserveFixture() *fixture {
	f := newFixture()
	f.route.NumberOfSeats = 6
	f.route.SeatPrice = 69
	f.leg.SequenceID = 2
	f.reservations.findByLegFunc = func(ctx context.Context, legID primitive.ObjectID) ([]*model.Reservation, error) {
		return []*model.Reservation{
			{ID: primitive.NewObjectID(), LegID: legID, AmountOfSeats: 1},
		}, nil
	}
	return f
}

func TestReserveSuccess(t *testing.T) {
	f := reserveFixture()

	var created *model.Reservation
	f.reservations.createFunc = func(ctx context.Context, reservation *model.Reservation) error {
		reservation.ID = primitive.NewObjectID()
		created = reservation
		return nil
	}

	lockCreated, lockReleased := "", ""
	f.locks.createFunc = func(ctx context.Context, lock *model.LegLock) (*model.LegLock, error) {
		lockCreated = lock.ID
		return lock, nil
	}
	f.locks.deleteFunc = func(ctx context.Context, lockID string) error {
		lockReleased = lockID
		return nil
	}

	svc := f.service()
	summary, err := svc.Reserve(context.Background(), &model.ReserveRequest{FlightCode: "FR002", AmountOfSeats: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Price != 138 {
		t.Errorf("expected price 138, got %d", summary.Price)
	}
	if created == nil || created.AmountOfSeats != 2 || created.LegID != f.leg.ID {
		t.Errorf("unexpected reservation: %+v", created)
	}
	if summary.ID != created.ID.Hex() {
		t.Errorf("summary ID %s does not match reservation %s", summary.ID, created.ID.Hex())
	}
	if lockCreated == "" || lockCreated != lockReleased {
		t.Errorf("lock not acquired and released symmetrically: %q vs %q", lockCreated, lockReleased)
	}
}

func TestReserveInsufficientSeats(t *testing.T) {
	f := reserveFixture()
	f.reservations.findByLegFunc = func(ctx context.Context, legID primitive.ObjectID) ([]*model.Reservation, error) {
		return []*model.Reservation{
			{ID: primitive.NewObjectID(), LegID: legID, AmountOfSeats: 1},
			{ID: primitive.NewObjectID(), LegID: legID, AmountOfSeats: 2},
		}, nil
	}

	createCalled := false
	f.reservations.createFunc = func(ctx context.Context, reservation *model.Reservation) error {
		createCalled = true
		return nil
	}

	svc := f.service()
	_, err := svc.Reserve(context.Background(), &model.ReserveRequest{FlightCode: "FR002", AmountOfSeats: 4})
	assertAppErrorCode(t, err, apperrors.CodeReservation)
	if createCalled {
		t.Error("reservation must not be written when the availability check fails")
	}
}

func TestReserveExactRemainingSeats(t *testing.T) {
	f := reserveFixture()

	svc := f.service()
	summary, err := svc.Reserve(context.Background(), &model.ReserveRequest{FlightCode: "FR002", AmountOfSeats: 5})
	if err != nil {
		t.Fatalf("reserving exactly the remaining seats must succeed: %v", err)
	}
	if summary.Price != 345 {
		t.Errorf("expected price 345, got %d", summary.Price)
	}
}

func TestReserveUnknownFlight(t *testing.T) {
	f := reserveFixture()
	svc := f.service()

	_, err := svc.Reserve(context.Background(), &model.ReserveRequest{FlightCode: "FR999", AmountOfSeats: 1})
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestReserveInvalidRequest(t *testing.T) {
	f := reserveFixture()
	svc := f.service()

	tests := []struct {
		name string
		req  *model.ReserveRequest
	}{
		{"lowercase flight code", &model.ReserveRequest{FlightCode: "fr002", AmountOfSeats: 1}},
		{"short flight code", &model.ReserveRequest{FlightCode: "FR02", AmountOfSeats: 1}},
		{"zero seats", &model.ReserveRequest{FlightCode: "FR002", AmountOfSeats: 0}},
		{"too many seats", &model.ReserveRequest{FlightCode: "FR002", AmountOfSeats: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Reserve(context.Background(), tt.req)
			assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
		})
	}
}

func TestReserveLockConflict(t *testing.T) {
	f := reserveFixture()
	f.locks.createFunc = func(ctx context.Context, lock *model.LegLock) (*model.LegLock, error) {
		return nil, mongo.WriteException{
			WriteErrors: mongo.WriteErrors{{Code: 11000}},
		}
	}

	svc := f.service()
	_, err := svc.Reserve(context.Background(), &model.ReserveRequest{FlightCode: "FR002", AmountOfSeats: 1})
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

// CreateBooking

// bookingFixture adds a second route (an onward leg at seat price 69) and
// two live reservations: one seat on the reference flight, three on the
// onward one.
type bookingFixture struct {
	*fixture
	res1, res2 *model.Reservation
	legB       *model.Leg
	deleted    []primitive.ObjectID
	stored     *model.Booking
}

func newBookingFixture() *bookingFixture {
	f := newFixture()

	routeB := &model.Route{
		ID:                   primitive.NewObjectID(),
		CarrierID:            f.carrier.ID,
		DepartureAirportID:   f.lhr.ID,
		ArrivalAirportID:     f.cph.ID,
		Weekday:              2,
		DepartureSecondInDay: 36000,
		DurationInSeconds:    5400,
		NumberOfSeats:        180,
		SeatPrice:            69,
	}
	legB := &model.Leg{
		ID:         primitive.NewObjectID(),
		RouteID:    routeB.ID,
		Week:       48,
		Year:       2020,
		SequenceID: 2,
	}

	bf := &bookingFixture{
		fixture: f,
		res1:    &model.Reservation{ID: primitive.NewObjectID(), LegID: f.leg.ID, AmountOfSeats: 1},
		res2:    &model.Reservation{ID: primitive.NewObjectID(), LegID: legB.ID, AmountOfSeats: 3},
		legB:    legB,
	}

	routeA := f.route
	legA := f.leg
	f.routes.findByIDFunc = func(ctx context.Context, id primitive.ObjectID) (*model.Route, error) {
		switch id {
		case routeA.ID:
			return routeA, nil
		case routeB.ID:
			return routeB, nil
		}
		return nil, inventoryerrors.ErrRouteNotFound
	}
	f.legs.findByIDFunc = func(ctx context.Context, id primitive.ObjectID) (*model.Leg, error) {
		switch id {
		case legA.ID:
			return legA, nil
		case legB.ID:
			return legB, nil
		}
		return nil, inventoryerrors.ErrLegNotFound
	}
	f.reservations.findByIDFunc = func(ctx context.Context, id string) (*model.Reservation, error) {
		switch id {
		case bf.res1.ID.Hex():
			return bf.res1, nil
		case bf.res2.ID.Hex():
			return bf.res2, nil
		}
		return nil, inventoryerrors.ErrReservationNotFound
	}
	f.reservations.deleteFunc = func(ctx context.Context, id primitive.ObjectID) error {
		bf.deleted = append(bf.deleted, id)
		return nil
	}
	f.bookings.createFunc = func(ctx context.Context, booking *model.Booking) error {
		booking.ID = primitive.NewObjectID()
		bf.stored = booking
		return nil
	}
	return bf
}

func validBookingRequest(f *bookingFixture) *model.BookingRequest {
	return &model.BookingRequest{
		Reservations: []model.BookingReservationRef{
			{
				ID:         f.res1.ID.Hex(),
				Passengers: []model.Person{{FirstName: "Karen", LastName: "Nielsen"}},
			},
			{
				ID: f.res2.ID.Hex(),
				Passengers: []model.Person{
					{FirstName: "John", LastName: "Smith", Agency: "Nordic Travel"},
					{FirstName: "Jane", LastName: "Smith"},
					{FirstName: "Jim", LastName: "Smith"},
				},
			},
		},
		CreditCardNumber: "1234567890123456",
	}
}

func TestCreateBookingSuccess(t *testing.T) {
	f := newBookingFixture()
	svc := f.service()

	detail, err := svc.CreateBooking(context.Background(), validBookingRequest(f))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One passenger at 510 plus three at 69.
	if detail.Price != 717 {
		t.Errorf("expected price 717, got %d", detail.Price)
	}
	if len(detail.FlightBookings) != 2 {
		t.Fatalf("expected 2 flight bookings, got %d", len(detail.FlightBookings))
	}
	if detail.FlightBookings[0].FlightCode != "SK001" || detail.FlightBookings[1].FlightCode != "SK002" {
		t.Errorf("unexpected flight codes: %s, %s",
			detail.FlightBookings[0].FlightCode, detail.FlightBookings[1].FlightCode)
	}

	seen := map[string]bool{}
	for _, fb := range detail.FlightBookings {
		for _, p := range fb.Passengers {
			if !pnrFormat.MatchString(p.PNR) {
				t.Errorf("malformed PNR %q for %s %s", p.PNR, p.FirstName, p.LastName)
			}
			if seen[p.PNR] {
				t.Errorf("duplicate PNR %q within one booking", p.PNR)
			}
			seen[p.PNR] = true
		}
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 passengers with PNRs, got %d", len(seen))
	}

	if len(f.deleted) != 2 {
		t.Errorf("expected both reservations consumed, got %d deletions", len(f.deleted))
	}
	if f.stored == nil || len(f.stored.BookingLegs) != 2 {
		t.Fatalf("unexpected stored booking: %+v", f.stored)
	}
	if f.stored.CreditCardNumber != "1234567890123456" {
		t.Errorf("credit card number not persisted: %q", f.stored.CreditCardNumber)
	}
}

func TestCreateBookingPassengerCountMismatch(t *testing.T) {
	f := newBookingFixture()
	svc := f.service()

	req := validBookingRequest(f)
	req.Reservations[1].Passengers = req.Reservations[1].Passengers[:2] // holds 3 seats

	_, err := svc.CreateBooking(context.Background(), req)
	assertAppErrorCode(t, err, apperrors.CodeBooking)

	// All-or-nothing: the first entry validated fine, but nothing may stick.
	if f.stored != nil {
		t.Error("no booking may be created on mismatch")
	}
}

func TestCreateBookingMissingReservation(t *testing.T) {
	f := newBookingFixture()
	svc := f.service()

	req := validBookingRequest(f)
	req.Reservations[1].ID = primitive.NewObjectID().Hex()

	_, err := svc.CreateBooking(context.Background(), req)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
	if f.stored != nil {
		t.Error("no booking may be created when a reservation is missing")
	}
}

func TestCreateBookingInvalidRequest(t *testing.T) {
	f := newBookingFixture()
	svc := f.service()

	tests := []struct {
		name   string
		mutate func(req *model.BookingRequest)
	}{
		{"no reservations", func(req *model.BookingRequest) { req.Reservations = nil }},
		{"short card number", func(req *model.BookingRequest) { req.CreditCardNumber = "1234" }},
		{"non-numeric card", func(req *model.BookingRequest) { req.CreditCardNumber = "12345678901234ab" }},
		{"bad frequent flyer length", func(req *model.BookingRequest) { req.FrequentFlyerNumber = "12" }},
		{"bad reservation id", func(req *model.BookingRequest) { req.Reservations[0].ID = "not-an-oid" }},
		{"duplicate reservation ref", func(req *model.BookingRequest) { req.Reservations[1].ID = req.Reservations[0].ID }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBookingRequest(f)
			tt.mutate(req)
			_, err := svc.CreateBooking(context.Background(), req)
			assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
		})
	}
}

// Lookup and cancellation

func storedBooking(f *bookingFixture) *model.Booking {
	return &model.Booking{
		ID: primitive.NewObjectID(),
		BookingLegs: []model.BookingLeg{
			{
				LegID: f.leg.ID,
				Passengers: []model.Passenger{
					{PNR: "A1B2C3", Person: model.Person{FirstName: "Karen", LastName: "Nielsen"}},
				},
			},
			{
				LegID: f.legB.ID,
				Passengers: []model.Passenger{
					{PNR: "B2C3D4", Person: model.Person{FirstName: "John", LastName: "Smith"}},
					{PNR: "C3D4E5", Person: model.Person{FirstName: "Jane", LastName: "Smith"}},
					{PNR: "D4E5F6", Person: model.Person{FirstName: "Jim", LastName: "Smith"}},
				},
			},
		},
		CreditCardNumber: "1234567890123456",
		CreatedAt:        time.Now(),
	}
}

func TestGetBookingByIDAndByPNRAgree(t *testing.T) {
	f := newBookingFixture()
	booking := storedBooking(f)

	f.bookings.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		if id == booking.ID.Hex() {
			return booking, nil
		}
		return nil, inventoryerrors.ErrBookingNotFound
	}
	f.bookings.findByPNRFunc = func(ctx context.Context, pnr string) (*model.Booking, error) {
		for _, bl := range booking.BookingLegs {
			for _, p := range bl.Passengers {
				if p.PNR == pnr {
					return booking, nil
				}
			}
		}
		return nil, inventoryerrors.ErrBookingNotFound
	}

	svc := f.service()
	byID, err := svc.GetBookingByID(context.Background(), booking.ID.Hex())
	if err != nil {
		t.Fatalf("lookup by id failed: %v", err)
	}
	byPNR, err := svc.GetBookingByPNR(context.Background(), "C3D4E5")
	if err != nil {
		t.Fatalf("lookup by PNR failed: %v", err)
	}

	if !reflect.DeepEqual(byID, byPNR) {
		t.Errorf("lookups disagree:\nby id:  %+v\nby pnr: %+v", byID, byPNR)
	}
	if byID.Price != 717 {
		t.Errorf("expected price 717, got %d", byID.Price)
	}
}

func TestGetBookingErrors(t *testing.T) {
	f := newBookingFixture()
	svc := f.service()

	_, err := svc.GetBookingByID(context.Background(), "")
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)

	_, err = svc.GetBookingByID(context.Background(), primitive.NewObjectID().Hex())
	assertAppErrorCode(t, err, apperrors.CodeNotFound)

	_, err = svc.GetBookingByPNR(context.Background(), "1ABCDE")
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)

	_, err = svc.GetBookingByPNR(context.Background(), "A1B2C3")
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestCancelBooking(t *testing.T) {
	f := newBookingFixture()
	booking := storedBooking(f)

	f.bookings.findByPNRFunc = func(ctx context.Context, pnr string) (*model.Booking, error) {
		if pnr == "A1B2C3" {
			return booking, nil
		}
		return nil, inventoryerrors.ErrBookingNotFound
	}
	var deletedID primitive.ObjectID
	f.bookings.deleteFunc = func(ctx context.Context, id primitive.ObjectID) error {
		deletedID = id
		return nil
	}

	svc := f.service()
	if err := svc.CancelBooking(context.Background(), "A1B2C3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deletedID != booking.ID {
		t.Errorf("expected booking %s deleted, got %s", booking.ID.Hex(), deletedID.Hex())
	}

	err := svc.CancelBooking(context.Background(), "Z9Y8X7")
	assertAppErrorCode(t, err, apperrors.CodeNotFound)

	err = svc.CancelBooking(context.Background(), "bad")
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}
