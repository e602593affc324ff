package service

import (
	"context"
	"time"

	"github.com/daviramosds/starsoft-backend-challenge/internal/model"
)

// Locker is the named, TTL-bound mutual-exclusion primitive shared by
// all process instances.  Acquire is a single bounded attempt: it
// returns false immediately when the lock is held elsewhere, it never
// queues or blocks.  The TTL auto-expires the lock so a crashed holder
// cannot wedge a seat forever.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Cache is a best-effort, non-authoritative key/value store used to
// mirror reservation snapshots for fast-path reads.  Errors from any
// method must never influence the outcome of a booking operation.
type Cache interface {
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Publisher emits domain events to external consumers.  Publication is
// fire-and-forget: failures are logged by the caller, never surfaced.
type Publisher interface {
	Publish(ctx context.Context, event string, payload any) error
}

// LedgerTx is the unit-of-work handle passed to the function given to
// Ledger.InTx.  The ForUpdate reads take a write-intent row lock held
// until the transaction ends.  Lookups return (nil, nil) when the row
// does not exist so callers can map absence to a business error.
//
// Row-lock ordering is fixed by convention: within one transaction a
// seat row is always locked before its session row, never the reverse,
// and only those two rows are ever locked together.  Confirmation locks
// the reservation row first, then follows the same seat→session order.
type LedgerTx interface {
	SeatForUpdate(ctx context.Context, seatID string) (*model.Seat, error)
	SessionForUpdate(ctx context.Context, sessionID string) (*model.Session, error)
	ReservationForUpdate(ctx context.Context, reservationID string) (*model.Reservation, error)

	InsertReservation(ctx context.Context, r *model.Reservation) error
	UpdateSeat(ctx context.Context, s *model.Seat) error
	UpdateSession(ctx context.Context, s *model.Session) error
	UpdateReservation(ctx context.Context, r *model.Reservation) error
	InsertSale(ctx context.Context, s *model.Sale) error

	InsertSession(ctx context.Context, s *model.Session) error
	InsertSeats(ctx context.Context, seats []model.Seat) error
}

// Ledger is the strongly-consistent store holding sessions, seats,
// reservations and sales.  InTx runs fn inside a single atomic
// transaction: any error aborts the whole unit of work and no partial
// state becomes visible.  The remaining methods are plain reads used
// outside transactions (idempotency check and the read APIs); their
// single-row variants return (nil, nil) when nothing matches.
type Ledger interface {
	InTx(ctx context.Context, fn func(tx LedgerTx) error) error

	ReservationByRequestID(ctx context.Context, requestID string) (*model.Reservation, error)
	ReservationByID(ctx context.Context, id string) (*model.Reservation, error)
	ReservationsByUser(ctx context.Context, userID string) ([]model.Reservation, error)

	SalesByUser(ctx context.Context, userID string) ([]model.Sale, error)
	Sales(ctx context.Context) ([]model.Sale, error)

	SessionByID(ctx context.Context, id string) (*model.Session, error)
	SessionByRoomAndStart(ctx context.Context, room string, start time.Time) (*model.Session, error)
	Sessions(ctx context.Context) ([]model.Session, error)
	AvailableSeats(ctx context.Context, sessionID string) ([]model.Seat, error)
}
