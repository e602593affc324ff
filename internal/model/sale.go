package model

import "time"

// Sale is the immutable receipt written when a reservation is paid.
// AmountCents is copied from the session's ticket price at the moment
// of confirmation, so later price changes never rewrite history.
//
// Fields:
//  ID            – primary key (UUID).
//  UserID        – buyer, copied from the reservation.
//  SeatID        – seat that was sold.
//  AmountCents   – amount charged in cents.
//  ReservationID – originating reservation, when any.
//  PaymentID     – caller-supplied payment reference.
//  CreatedAt     – creation timestamp.
type Sale struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	SeatID        string    `json:"seat_id"`
	AmountCents   uint32    `json:"amount_cents"`
	ReservationID string    `json:"reservation_id,omitempty"`
	PaymentID     string    `json:"payment_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
