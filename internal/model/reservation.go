package model

import "time"

// ReservationStatus enumerates the states of a reservation.  Only
// PENDING and CONFIRMED are written by the service; EXPIRED and
// CANCELLED exist in the schema for completeness (expiry is enforced
// lazily at confirmation time, no sweeper rewrites the row).
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationExpired   ReservationStatus = "EXPIRED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// Reservation is a time-bounded hold on exactly one seat by one user.
// RequestID is the caller-supplied idempotency key and is unique
// across all reservations: retransmitting the same request returns
// the original row instead of creating a second hold.
//
// Fields:
//  ID        – primary key (UUID).
//  UserID    – opaque identifier of the reserving user.
//  SeatID    – seat being held.
//  Status    – PENDING until confirmed, CONFIRMED afterwards.
//  ExpiresAt – instant after which the reservation can no longer be paid.
//  RequestID – caller-supplied idempotency key (unique).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Reservation struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	SeatID    string            `json:"seat_id"`
	Status    ReservationStatus `json:"status"`
	ExpiresAt time.Time         `json:"expires_at"`
	RequestID string            `json:"request_id"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
