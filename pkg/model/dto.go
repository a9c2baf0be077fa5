package model

// FlightSummary is one search result: a materialized flight with its
// remaining capacity. Dates are epoch milliseconds.
type FlightSummary struct {
	Carrier          CarrierDetail `json:"carrier"`
	DepartureAirport AirportDetail `json:"departure_airport"`
	ArrivalAirport   AirportDetail `json:"arrival_airport"`
	FlightCode       string        `json:"flight_code"`
	DepartureDate    int64         `json:"departure_date"`
	ArrivalDate      int64         `json:"arrival_date"`
	AvailableSeats   int           `json:"available_seats"`
	SeatPrice        int           `json:"seat_price"`
}

type FlightPassenger struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PNR       string `json:"pnr"`
}

// FlightBookingDetail is the per-leg slice of a BookingDetail.
type FlightBookingDetail struct {
	FlightCode       string            `json:"flight_code"`
	Carrier          CarrierDetail     `json:"carrier"`
	DepartureAirport string            `json:"departure_airport"`
	ArrivalAirport   string            `json:"arrival_airport"`
	DepartureDate    int64             `json:"departure_date"`
	ArrivalDate      int64             `json:"arrival_date"`
	Passengers       []FlightPassenger `json:"passengers"`
}

type BookingDetail struct {
	ID               string                `json:"id"`
	Price            int                   `json:"price"`
	CreditCardNumber string                `json:"credit_card_number"`
	FrequentFlyerID  string                `json:"frequent_flyer_id"`
	FlightBookings   []FlightBookingDetail `json:"flight_bookings"`
}

// ReserveRequest asks for a seat hold on an existing flight.
type ReserveRequest struct {
	FlightCode    string `json:"flight_code" validate:"required,flight_code"`
	AmountOfSeats int    `json:"amount_of_seats" validate:"required,min=1,max=9"`
}

// BookingReservationRef names one reservation to consume and the passengers
// filling its held seats.
type BookingReservationRef struct {
	ID         string   `json:"id" validate:"required,mongodb"`
	Passengers []Person `json:"passengers" validate:"required,min=1,max=9,dive"`
}

type BookingRequest struct {
	Reservations        []BookingReservationRef `json:"reservations" validate:"required,min=1,dive"`
	CreditCardNumber    string                  `json:"credit_card_number" validate:"required,len=16,numeric"`
	FrequentFlyerNumber string                  `json:"frequent_flyer_number,omitempty" validate:"omitempty,len=7"`
}
