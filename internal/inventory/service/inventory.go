package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	directoryrepo "skyfare/internal/directory/repository"
	inventoryerrors "skyfare/internal/inventory/errors"
	"skyfare/internal/inventory/repository"
	"skyfare/internal/inventory/validator"
	"skyfare/pkg/config"
	apperrors "skyfare/pkg/errors"
	"skyfare/pkg/model"
	"skyfare/pkg/pnr"
	"skyfare/pkg/sanitizer"
	"skyfare/pkg/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type InventoryService interface {
	Search(ctx context.Context, departureIATA, arrivalIATA string, departMillis int64) ([]*model.FlightSummary, error)
	Reserve(ctx context.Context, req *model.ReserveRequest) (*model.ReservationSummary, error)
	CreateBooking(ctx context.Context, req *model.BookingRequest) (*model.BookingDetail, error)
	GetBookingByID(ctx context.Context, id string) (*model.BookingDetail, error)
	GetBookingByPNR(ctx context.Context, pnrCode string) (*model.BookingDetail, error)
	CancelBooking(ctx context.Context, pnrCode string) error
}

type inventoryService struct {
	routes       repository.RouteRepository
	legs         repository.LegRepository
	counters     repository.CounterRepository
	reservations repository.ReservationRepository
	bookings     repository.BookingRepository
	lockRepo     repository.LegLockRepository
	directory    directoryrepo.DirectoryRepository
	validator    *validator.InventoryValidator
	publisher    EventPublisher
	cfg          *config.Config
}

func NewInventoryService(
	routes repository.RouteRepository,
	legs repository.LegRepository,
	counters repository.CounterRepository,
	reservations repository.ReservationRepository,
	bookings repository.BookingRepository,
	lockRepo repository.LegLockRepository,
	directory directoryrepo.DirectoryRepository,
	validator *validator.InventoryValidator,
	publisher EventPublisher,
	cfg *config.Config,
) InventoryService {
	return &inventoryService{
		routes:       routes,
		legs:         legs,
		counters:     counters,
		reservations: reservations,
		bookings:     bookings,
		lockRepo:     lockRepo,
		directory:    directory,
		validator:    validator,
		publisher:    publisher,
		cfg:          cfg,
	}
}

func (s *inventoryService) Search(ctx context.Context, departureIATA, arrivalIATA string, departMillis int64) ([]*model.FlightSummary, error) {
	if len(departureIATA) != 3 || len(arrivalIATA) != 3 {
		return nil, apperrors.InvalidInput("Airport IATA codes must be 3 characters")
	}
	if departMillis <= 0 {
		return nil, apperrors.InvalidInput("Departure date must be a positive epoch-millisecond timestamp")
	}

	departureAirport, err := s.findAirport(ctx, departureIATA)
	if err != nil {
		return nil, err
	}
	arrivalAirport, err := s.findAirport(ctx, arrivalIATA)
	if err != nil {
		return nil, err
	}

	departureLoc, err := time.LoadLocation(departureAirport.TimeZone)
	if err != nil {
		return nil, apperrors.Internal("Unknown departure airport time zone", err)
	}
	arrivalLoc, err := time.LoadLocation(arrivalAirport.TimeZone)
	if err != nil {
		return nil, apperrors.Internal("Unknown arrival airport time zone", err)
	}

	// Weekday and ISO week are taken in the departure airport's local time:
	// the same instant can fall on different weekdays in different zones.
	depart := time.UnixMilli(departMillis).In(departureLoc)
	weekday := int(depart.Weekday())
	year, week := depart.ISOWeek()

	routes, err := s.routes.FindBySearch(ctx, departureAirport.ID, arrivalAirport.ID, weekday)
	if err != nil {
		s.cfg.Log.Error("Failed to search routes",
			"departure", departureIATA,
			"arrival", arrivalIATA,
			"weekday", weekday,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to search flights", err)
	}

	summaries := make([]*model.FlightSummary, 0, len(routes))
	for _, route := range routes {
		leg, err := s.resolveLeg(ctx, route.ID, week, year)
		if err != nil {
			return nil, err
		}

		available, err := s.availableSeats(ctx, route, leg.ID)
		if err != nil {
			return nil, err
		}
		if available <= 0 {
			continue
		}

		carrier, err := s.findCarrierByID(ctx, route.CarrierID)
		if err != nil {
			return nil, err
		}

		departureAt, arrivalAt := schedule.Instants(
			leg.Year, leg.Week, route.Weekday,
			route.DepartureSecondInDay, route.DurationInSeconds,
			departureLoc, arrivalLoc,
		)

		summaries = append(summaries, &model.FlightSummary{
			Carrier:          carrier.Detail(),
			DepartureAirport: departureAirport.Detail(),
			ArrivalAirport:   arrivalAirport.Detail(),
			FlightCode:       leg.FlightCode(carrier.IATA),
			DepartureDate:    departureAt.UnixMilli(),
			ArrivalDate:      arrivalAt.UnixMilli(),
			AvailableSeats:   available,
			SeatPrice:        route.SeatPrice,
		})
	}

	s.cfg.Log.Debug("Flight search completed",
		"departure", departureIATA,
		"arrival", arrivalIATA,
		"week", week,
		"year", year,
		"results", len(summaries),
	)
	return summaries, nil
}

func (s *inventoryService) Reserve(ctx context.Context, req *model.ReserveRequest) (*model.ReservationSummary, error) {
	if err := s.validator.ValidateReserve(req); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return nil, apperrors.InvalidInputWithDetails("Invalid reservation request", map[string]any{"error": err.Error()})
	}
	if req.AmountOfSeats > s.cfg.MaxSeatsPerHold {
		return nil, apperrors.InvalidInput(fmt.Sprintf("A single hold is limited to %d seats", s.cfg.MaxSeatsPerHold))
	}

	// A reservation never materializes a leg: a flight code that was never
	// produced by a search cannot be reserved.
	leg, err := s.legFromFlightCode(ctx, req.FlightCode)
	if err != nil {
		return nil, err
	}

	route, err := s.findRoute(ctx, leg.RouteID)
	if err != nil {
		return nil, err
	}

	lockID, err := s.acquireLegLock(ctx, leg.ID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.lockRepo.Delete(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release leg lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	reservation := &model.Reservation{
		LegID:         leg.ID,
		AmountOfSeats: req.AmountOfSeats,
	}

	err = s.reservations.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		available, err := s.availableSeats(sessCtx, route, leg.ID)
		if err != nil {
			return err
		}
		if available-req.AmountOfSeats < 0 {
			return apperrors.Reservation(fmt.Sprintf(
				"Not enough seats on flight %s: %d requested, %d available",
				req.FlightCode, req.AmountOfSeats, available,
			))
		}

		if err := s.reservations.Create(sessCtx, reservation); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	price := route.SeatPrice * req.AmountOfSeats
	s.cfg.Log.Info("Reservation created",
		"id", reservation.ID.Hex(),
		"flight_code", req.FlightCode,
		"amount_of_seats", req.AmountOfSeats,
		"price", price,
	)

	s.publishEvent(ctx, EventReservationCreated, reservation.ID.Hex(), ReservationCreatedEvent{
		ReservationID: reservation.ID.Hex(),
		FlightCode:    req.FlightCode,
		AmountOfSeats: req.AmountOfSeats,
		Price:         price,
	})

	return &model.ReservationSummary{
		ID:    reservation.ID.Hex(),
		Price: price,
	}, nil
}

func (s *inventoryService) CreateBooking(ctx context.Context, req *model.BookingRequest) (*model.BookingDetail, error) {
	if err := s.validator.ValidateBooking(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.InvalidInputWithDetails("Invalid booking request", map[string]any{"error": err.Error()})
	}
	s.sanitizePassengers(req)

	booking := &model.Booking{
		CreditCardNumber: req.CreditCardNumber,
		FrequentFlyerID:  req.FrequentFlyerNumber,
	}

	err := s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// Entries are processed strictly in order; the first failure aborts
		// the whole transaction, so no reservation deletion outlives it.
		bookingLegs := make([]model.BookingLeg, 0, len(req.Reservations))
		for _, ref := range req.Reservations {
			reservation, err := s.reservations.FindByID(sessCtx, ref.ID)
			if err != nil {
				if errors.Is(err, inventoryerrors.ErrReservationNotFound) {
					return apperrors.NotFoundWithID("Reservation", ref.ID)
				}
				if errors.Is(err, inventoryerrors.ErrInvalidID) {
					return apperrors.InvalidInput("Invalid reservation ID format")
				}
				return apperrors.Internal("Failed to load reservation", err)
			}

			if len(ref.Passengers) != reservation.AmountOfSeats {
				return apperrors.Booking(fmt.Sprintf(
					"Reservation %s holds %d seats but %d passengers were supplied",
					ref.ID, reservation.AmountOfSeats, len(ref.Passengers),
				))
			}

			passengers := make([]model.Passenger, 0, len(ref.Passengers))
			for _, person := range ref.Passengers {
				passengers = append(passengers, model.Passenger{
					PNR:    pnr.Generate(),
					Person: person,
				})
			}

			if err := s.reservations.Delete(sessCtx, reservation.ID); err != nil {
				return apperrors.Internal("Failed to consume reservation", err)
			}

			bookingLegs = append(bookingLegs, model.BookingLeg{
				LegID:      reservation.LegID,
				Passengers: passengers,
			})
		}

		booking.BookingLegs = bookingLegs
		if err := s.bookings.Create(sessCtx, booking); err != nil {
			if errors.Is(err, repository.ErrPNRConflict) {
				return apperrors.Conflict("Record locator collision, please retry the booking")
			}
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return nil, err
	}

	detail, err := s.bookingDetail(ctx, booking)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", detail.ID,
		"legs", len(booking.BookingLegs),
		"price", detail.Price,
	)

	s.publishEvent(ctx, EventBookingCreated, detail.ID, BookingCreatedEvent{
		BookingID:  detail.ID,
		Price:      detail.Price,
		Passengers: countPassengers(booking),
		PNRs:       collectPNRs(booking),
	})

	return detail, nil
}

func (s *inventoryService) GetBookingByID(ctx context.Context, id string) (*model.BookingDetail, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, inventoryerrors.ErrBookingNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, inventoryerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return s.bookingDetail(ctx, booking)
}

func (s *inventoryService) GetBookingByPNR(ctx context.Context, pnrCode string) (*model.BookingDetail, error) {
	if !validator.IsPNR(pnrCode) {
		return nil, apperrors.InvalidInput("Invalid record locator format")
	}

	booking, err := s.bookings.FindByPNR(ctx, pnrCode)
	if err != nil {
		if errors.Is(err, inventoryerrors.ErrBookingNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", pnrCode)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return s.bookingDetail(ctx, booking)
}

func (s *inventoryService) CancelBooking(ctx context.Context, pnrCode string) error {
	if !validator.IsPNR(pnrCode) {
		return apperrors.InvalidInput("Invalid record locator format")
	}

	var bookingID string
	err := s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking, err := s.bookings.FindByPNR(sessCtx, pnrCode)
		if err != nil {
			if errors.Is(err, inventoryerrors.ErrBookingNotFound) {
				return apperrors.NotFoundWithID("Booking", pnrCode)
			}
			return apperrors.Internal("Failed to retrieve booking", err)
		}

		if err := s.bookings.Delete(sessCtx, booking.ID); err != nil {
			return apperrors.Internal("Failed to delete booking", err)
		}

		bookingID = booking.ID.Hex()
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Booking cancelled", "id", bookingID, "pnr", pnrCode)

	s.publishEvent(ctx, EventBookingCancelled, bookingID, BookingCancelledEvent{
		BookingID: bookingID,
		PNR:       pnrCode,
	})
	return nil
}

// --- Helpers ---

// resolveLeg returns the leg for (route, week, year), materializing it on
// first access. Losing the insert race to a concurrent request is fine: the
// winner's leg is re-read, and the sequence number allocated here goes
// unused (gaps in flight numbers are acceptable, duplicates are not).
func (s *inventoryService) resolveLeg(ctx context.Context, routeID primitive.ObjectID, week, year int) (*model.Leg, error) {
	leg, err := s.legs.FindByKey(ctx, routeID, week, year)
	if err == nil {
		return leg, nil
	}
	if !errors.Is(err, inventoryerrors.ErrLegNotFound) {
		return nil, apperrors.Internal("Failed to resolve flight", err)
	}

	seq, err := s.counters.Next(ctx, repository.LegCounterName)
	if err != nil {
		return nil, apperrors.Internal("Failed to allocate flight number", err)
	}

	leg = &model.Leg{
		RouteID:    routeID,
		Week:       week,
		Year:       year,
		SequenceID: seq,
	}
	err = s.legs.Insert(ctx, leg)
	if err == nil {
		return leg, nil
	}
	if errors.Is(err, repository.ErrLegExists) {
		leg, err = s.legs.FindByKey(ctx, routeID, week, year)
		if err != nil {
			return nil, apperrors.Internal("Failed to resolve flight", err)
		}
		return leg, nil
	}
	return nil, apperrors.Internal("Failed to materialize flight", err)
}

// availableSeats recomputes remaining capacity from the source records on
// every call: route capacity minus booked passengers minus held seats.
func (s *inventoryService) availableSeats(ctx context.Context, route *model.Route, legID primitive.ObjectID) (int, error) {
	bookings, err := s.bookings.FindByLeg(ctx, legID)
	if err != nil {
		return 0, apperrors.Internal("Failed to compute seat availability", err)
	}
	reservations, err := s.reservations.FindByLeg(ctx, legID)
	if err != nil {
		return 0, apperrors.Internal("Failed to compute seat availability", err)
	}

	booked := 0
	for _, booking := range bookings {
		for _, bl := range booking.BookingLegs {
			if bl.LegID == legID {
				booked += len(bl.Passengers)
			}
		}
	}

	held := 0
	for _, reservation := range reservations {
		held += reservation.AmountOfSeats
	}

	return route.NumberOfSeats - booked - held, nil
}

// legFromFlightCode decodes the 3-digit suffix and looks the leg up by its
// sequence number. The carrier prefix is display-only and not re-verified.
func (s *inventoryService) legFromFlightCode(ctx context.Context, flightCode string) (*model.Leg, error) {
	sequenceID, err := strconv.Atoi(flightCode[2:])
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid flight code format")
	}

	leg, err := s.legs.FindBySequenceID(ctx, sequenceID)
	if err != nil {
		if errors.Is(err, inventoryerrors.ErrLegNotFound) {
			return nil, apperrors.NotFoundWithID("Flight", flightCode)
		}
		return nil, apperrors.Internal("Failed to resolve flight", err)
	}
	return leg, nil
}

func (s *inventoryService) acquireLegLock(ctx context.Context, legID primitive.ObjectID) (string, error) {
	lockID := fmt.Sprintf("leg_lock_%s", legID.Hex())

	lock := &model.LegLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.ReservationLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This flight is currently being reserved by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire reservation lock", err)
	}

	return lockID, nil
}

func (s *inventoryService) sanitizePassengers(req *model.BookingRequest) {
	for i := range req.Reservations {
		for j := range req.Reservations[i].Passengers {
			p := &req.Reservations[i].Passengers[j]
			p.FirstName = sanitizer.NormalizeName(p.FirstName)
			p.LastName = sanitizer.NormalizeName(p.LastName)
			p.Agency = sanitizer.NormalizeAgency(p.Agency)
		}
	}
}

// bookingDetail assembles the caller-facing view: per-leg flight summaries
// with local departure/arrival instants, plus the derived total price.
func (s *inventoryService) bookingDetail(ctx context.Context, booking *model.Booking) (*model.BookingDetail, error) {
	detail := &model.BookingDetail{
		ID:               booking.ID.Hex(),
		CreditCardNumber: booking.CreditCardNumber,
		FrequentFlyerID:  booking.FrequentFlyerID,
		FlightBookings:   make([]model.FlightBookingDetail, 0, len(booking.BookingLegs)),
	}

	for _, bl := range booking.BookingLegs {
		leg, err := s.legs.FindByID(ctx, bl.LegID)
		if err != nil {
			return nil, apperrors.Internal("Failed to load booked flight", err)
		}
		route, err := s.findRoute(ctx, leg.RouteID)
		if err != nil {
			return nil, err
		}
		carrier, err := s.findCarrierByID(ctx, route.CarrierID)
		if err != nil {
			return nil, err
		}
		departureAirport, err := s.findAirportByID(ctx, route.DepartureAirportID)
		if err != nil {
			return nil, err
		}
		arrivalAirport, err := s.findAirportByID(ctx, route.ArrivalAirportID)
		if err != nil {
			return nil, err
		}

		departureLoc, err := time.LoadLocation(departureAirport.TimeZone)
		if err != nil {
			return nil, apperrors.Internal("Unknown departure airport time zone", err)
		}
		arrivalLoc, err := time.LoadLocation(arrivalAirport.TimeZone)
		if err != nil {
			return nil, apperrors.Internal("Unknown arrival airport time zone", err)
		}

		departureAt, arrivalAt := schedule.Instants(
			leg.Year, leg.Week, route.Weekday,
			route.DepartureSecondInDay, route.DurationInSeconds,
			departureLoc, arrivalLoc,
		)

		passengers := make([]model.FlightPassenger, 0, len(bl.Passengers))
		for _, p := range bl.Passengers {
			passengers = append(passengers, model.FlightPassenger{
				FirstName: p.Person.FirstName,
				LastName:  p.Person.LastName,
				PNR:       p.PNR,
			})
		}

		detail.Price += len(bl.Passengers) * route.SeatPrice
		detail.FlightBookings = append(detail.FlightBookings, model.FlightBookingDetail{
			FlightCode:       leg.FlightCode(carrier.IATA),
			Carrier:          carrier.Detail(),
			DepartureAirport: departureAirport.Name,
			ArrivalAirport:   arrivalAirport.Name,
			DepartureDate:    departureAt.UnixMilli(),
			ArrivalDate:      arrivalAt.UnixMilli(),
			Passengers:       passengers,
		})
	}

	return detail, nil
}

func (s *inventoryService) findRoute(ctx context.Context, id primitive.ObjectID) (*model.Route, error) {
	route, err := s.routes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, inventoryerrors.ErrRouteNotFound) {
			return nil, apperrors.NotFoundWithID("Route", id.Hex())
		}
		return nil, apperrors.Internal("Failed to load route", err)
	}
	return route, nil
}

func (s *inventoryService) findAirport(ctx context.Context, iata string) (*model.Airport, error) {
	airport, err := s.directory.FindAirportByIATA(ctx, iata)
	if err != nil {
		if errors.Is(err, directoryrepo.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Airport", iata)
		}
		return nil, apperrors.Internal("Failed to look up airport", err)
	}
	return airport, nil
}

func (s *inventoryService) findAirportByID(ctx context.Context, id primitive.ObjectID) (*model.Airport, error) {
	airport, err := s.directory.FindAirportByID(ctx, id)
	if err != nil {
		if errors.Is(err, directoryrepo.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Airport", id.Hex())
		}
		return nil, apperrors.Internal("Failed to look up airport", err)
	}
	return airport, nil
}

func (s *inventoryService) findCarrierByID(ctx context.Context, id primitive.ObjectID) (*model.Carrier, error) {
	carrier, err := s.directory.FindCarrierByID(ctx, id)
	if err != nil {
		if errors.Is(err, directoryrepo.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Carrier", id.Hex())
		}
		return nil, apperrors.Internal("Failed to look up carrier", err)
	}
	return carrier, nil
}

func countPassengers(booking *model.Booking) int {
	n := 0
	for _, bl := range booking.BookingLegs {
		n += len(bl.Passengers)
	}
	return n
}

func collectPNRs(booking *model.Booking) []string {
	pnrs := make([]string, 0, countPassengers(booking))
	for _, bl := range booking.BookingLegs {
		for _, p := range bl.Passengers {
			pnrs = append(pnrs, p.PNR)
		}
	}
	return pnrs
}
