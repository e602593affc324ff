// Package repository implements MySQL persistence for sessions, seats,
// reservations and sales, and the transactional Ledger consumed by the
// booking services.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/daviramosds/starsoft-backend-challenge/internal/model"
	"github.com/daviramosds/starsoft-backend-challenge/internal/service"
)

// Ledger adapts the table repositories to the service.Ledger port.  It
// owns the transaction boundary: InTx opens a database transaction,
// hands the callback a LedgerTx bound to it and commits only when the
// callback returns nil.
type Ledger struct {
	db           *sql.DB
	sessions     *SessionRepo
	seats        *SeatRepo
	reservations *ReservationRepo
	sales        *SaleRepo
}

// NewLedger constructs a Ledger over the given database handle.
func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{
		db:           db,
		sessions:     NewSessionRepo(db),
		seats:        NewSeatRepo(db),
		reservations: NewReservationRepo(db),
		sales:        NewSaleRepo(db),
	}
}

var _ service.Ledger = (*Ledger)(nil)

// InTx runs fn within a single database transaction.  Any error from
// fn (or from commit) rolls the whole unit of work back; no partial
// state is ever visible to other transactions.
func (l *Ledger) InTx(ctx context.Context, fn func(tx service.LedgerTx) error) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&ledgerTx{ledger: l, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

// ReservationByRequestID implements the idempotency lookup.
func (l *Ledger) ReservationByRequestID(ctx context.Context, requestID string) (*model.Reservation, error) {
	return l.reservations.GetByRequestID(ctx, requestID)
}

func (l *Ledger) ReservationByID(ctx context.Context, id string) (*model.Reservation, error) {
	return l.reservations.GetByID(ctx, id)
}

func (l *Ledger) ReservationsByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	return l.reservations.ListByUser(ctx, userID)
}

func (l *Ledger) SalesByUser(ctx context.Context, userID string) ([]model.Sale, error) {
	return l.sales.ListByUser(ctx, userID)
}

func (l *Ledger) Sales(ctx context.Context) ([]model.Sale, error) {
	return l.sales.List(ctx)
}

// SessionByID loads a session together with its seat map.
func (l *Ledger) SessionByID(ctx context.Context, id string) (*model.Session, error) {
	session, err := l.sessions.GetByID(ctx, id)
	if err != nil || session == nil {
		return session, err
	}
	seats, err := l.seats.ListBySession(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Seats = seats
	return session, nil
}

func (l *Ledger) SessionByRoomAndStart(ctx context.Context, room string, start time.Time) (*model.Session, error) {
	return l.sessions.GetByRoomAndStart(ctx, room, start)
}

func (l *Ledger) Sessions(ctx context.Context) ([]model.Session, error) {
	return l.sessions.List(ctx)
}

func (l *Ledger) AvailableSeats(ctx context.Context, sessionID string) ([]model.Seat, error) {
	return l.seats.ListAvailableBySession(ctx, sessionID)
}

// ledgerTx implements service.LedgerTx over one open *sql.Tx.
type ledgerTx struct {
	ledger *Ledger
	tx     *sql.Tx
}

var _ service.LedgerTx = (*ledgerTx)(nil)

func (t *ledgerTx) SeatForUpdate(ctx context.Context, seatID string) (*model.Seat, error) {
	return t.ledger.seats.GetByIDForUpdateTx(ctx, t.tx, seatID)
}

func (t *ledgerTx) SessionForUpdate(ctx context.Context, sessionID string) (*model.Session, error) {
	return t.ledger.sessions.GetByIDForUpdateTx(ctx, t.tx, sessionID)
}

func (t *ledgerTx) ReservationForUpdate(ctx context.Context, reservationID string) (*model.Reservation, error) {
	return t.ledger.reservations.GetByIDForUpdateTx(ctx, t.tx, reservationID)
}

func (t *ledgerTx) InsertReservation(ctx context.Context, r *model.Reservation) error {
	return t.ledger.reservations.CreateTx(ctx, t.tx, r)
}

func (t *ledgerTx) UpdateSeat(ctx context.Context, s *model.Seat) error {
	return t.ledger.seats.UpdateTx(ctx, t.tx, s)
}

func (t *ledgerTx) UpdateSession(ctx context.Context, s *model.Session) error {
	return t.ledger.sessions.UpdateTx(ctx, t.tx, s)
}

func (t *ledgerTx) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	return t.ledger.reservations.UpdateTx(ctx, t.tx, r)
}

func (t *ledgerTx) InsertSale(ctx context.Context, s *model.Sale) error {
	return t.ledger.sales.CreateTx(ctx, t.tx, s)
}

func (t *ledgerTx) InsertSession(ctx context.Context, s *model.Session) error {
	return t.ledger.sessions.CreateTx(ctx, t.tx, s)
}

func (t *ledgerTx) InsertSeats(ctx context.Context, seats []model.Seat) error {
	return t.ledger.seats.CreateBulkTx(ctx, t.tx, seats)
}
