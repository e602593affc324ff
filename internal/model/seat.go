package model

import "time"

// SeatStatus enumerates the lifecycle states of a seat.  Transitions
// are one-directional: AVAILABLE → RESERVED → SOLD.  A seat never
// returns to AVAILABLE except when a reservation attempt rolls back.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatReserved  SeatStatus = "RESERVED"
	SeatSold      SeatStatus = "SOLD"
)

// Seat is one sellable unit inside a session.  The (SessionID, Label)
// pair is unique.  Version is a monotonically increasing counter
// bumped on every reservation.  It is audit metadata, not an
// optimistic-lock precondition: the pessimistic row lock taken
// during the reservation transaction already serializes writers.
//
// Fields:
//  ID        – primary key (UUID).
//  SessionID – owning session.
//  Label     – human-readable seat label such as "A7".
//  Status    – AVAILABLE, RESERVED or SOLD.
//  Version   – revision counter, incremented on reservation.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Seat struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Label     string     `json:"label"`
	Status    SeatStatus `json:"status"`
	Version   uint32     `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
