package errors

import "errors"

var (
	ErrLegNotFound = errors.New("leg not found")

	ErrRouteNotFound = errors.New("route not found")

	ErrReservationNotFound = errors.New("reservation not found")

	ErrBookingNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid document ID format")

	ErrLockHeld = errors.New("leg lock is held by another request")
)
