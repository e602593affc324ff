package model

import "time"

// Session represents a scheduled screening that sells a fixed set of
// seats.  The seat collection is created together with the session and
// never resized afterwards.  AvailableSeats is a denormalized counter
// kept in step with the number of seats whose status is AVAILABLE.
//
// Fields:
//  ID               – primary key (UUID).
//  MovieTitle       – title of the movie being screened.
//  Room             – name of the room hosting the screening.
//  StartTime        – when the screening begins.
//  TicketPriceCents – price per seat in cents.
//  TotalSeats       – fixed number of seats created with the session.
//  AvailableSeats   – seats currently AVAILABLE; always in [0, TotalSeats].
//  Seats            – owned seat collection (may be nil on list queries).
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Session struct {
	ID               string    `json:"id"`
	MovieTitle       string    `json:"movie_title"`
	Room             string    `json:"room"`
	StartTime        time.Time `json:"start_time"`
	TicketPriceCents uint32    `json:"ticket_price_cents"`
	TotalSeats       int       `json:"total_seats"`
	AvailableSeats   int       `json:"available_seats"`
	Seats            []Seat    `json:"seats,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
