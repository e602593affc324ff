// Package queue defines the domain events exchanged over the message
// broker and the publisher/consumer that move them.
package queue

// Routing keys for the events published by the booking core.  Each key
// is bound to a durable queue named "cinema.<key>" on the exchange.
const (
	ReservationCreatedKey = "reservation.created"
	PaymentConfirmedKey   = "payment.confirmed"
)

// ReservationCreatedEvent is published after a reservation commits.
// Downstream consumers get enough to schedule notifications or
// analytics without querying the primary database.
type ReservationCreatedEvent struct {
	ReservationID string `json:"reservationId"`
	SeatID        string `json:"seatId"`
	UserID        string `json:"userId"`
	ExpiresAt     string `json:"expiresAt"`
}

// PaymentConfirmedEvent is published after a sale commits.
type PaymentConfirmedEvent struct {
	SaleID        string `json:"saleId"`
	ReservationID string `json:"reservationId"`
	SeatID        string `json:"seatId"`
	UserID        string `json:"userId"`
	AmountCents   uint32 `json:"amount"`
}
