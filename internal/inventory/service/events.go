package service

import (
	"context"
	"skyfare/pkg/kafka"
)

const (
	EventReservationCreated = "reservation.created"
	EventBookingCreated     = "booking.created"
	EventBookingCancelled   = "booking.cancelled"

	eventSource = "skyfare-inventory"
)

// EventPublisher is the slice of the kafka producer the service needs.
// Publishing is best effort: inventory state is committed before any event
// is emitted, and a failed emit never fails the request.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type ReservationCreatedEvent struct {
	ReservationID string `json:"reservation_id"`
	FlightCode    string `json:"flight_code"`
	AmountOfSeats int    `json:"amount_of_seats"`
	Price         int    `json:"price"`
}

type BookingCreatedEvent struct {
	BookingID  string   `json:"booking_id"`
	Price      int      `json:"price"`
	Passengers int      `json:"passengers"`
	PNRs       []string `json:"pnrs"`
}

type BookingCancelledEvent struct {
	BookingID string `json:"booking_id"`
	PNR       string `json:"pnr"`
}

func (s *inventoryService) publishEvent(ctx context.Context, eventType string, key string, payload any) {
	if s.publisher == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(eventSource).
		Build()

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish event",
			"event_type", eventType,
			"key", key,
			"error", err,
		)
	}
}
