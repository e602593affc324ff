// Package service implements the booking core: the reservation
// controller that coordinates the per-seat distributed lock, the
// idempotency guard and the pessimistic ledger transaction, and the
// sale controller that converts a pending reservation into a sale.
package service

import "errors"

// Business error kinds returned by the services.  Handlers translate
// them into HTTP statuses with errors.Is; anything else is treated as
// an internal failure.
var (
	// ErrNotFound is returned when a seat, session, reservation or
	// sale does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a seat is not AVAILABLE, when the
	// per-seat lock is held by another request, or when a session
	// already exists for the same room and start time.
	ErrConflict = errors.New("conflict")

	// ErrInvalidState is returned when a reservation is not PENDING
	// at confirmation time (already confirmed, expired-and-marked,
	// or cancelled).
	ErrInvalidState = errors.New("invalid state")

	// ErrExpired is returned when a reservation's expiry has passed
	// at confirmation time.
	ErrExpired = errors.New("expired")
)
