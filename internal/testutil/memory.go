// Package testutil provides in-memory substitutes for the booking
// services' external dependencies: a transactional ledger, a TTL lock,
// a cache and a recording event publisher.  They let the concurrency
// protocol be exercised in plain unit tests without MySQL, Redis or
// RabbitMQ.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/daviramosds/starsoft-backend-challenge/internal/model"
	"github.com/daviramosds/starsoft-backend-challenge/internal/service"
)

// MemoryLedger is an in-memory service.Ledger.  A single mutex held
// for the whole transaction stands in for the storage engine's row
// locks: transactions are fully serialized, which satisfies the same
// guarantee the pessimistic SELECT ... FOR UPDATE reads provide.
// Writes performed inside InTx become visible only on commit.
type MemoryLedger struct {
	mu           sync.Mutex
	sessions     map[string]model.Session
	seats        map[string]model.Seat
	reservations map[string]model.Reservation
	sales        map[string]model.Sale
	saleOrder    []string
}

// NewMemoryLedger returns an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		sessions:     make(map[string]model.Session),
		seats:        make(map[string]model.Seat),
		reservations: make(map[string]model.Reservation),
		sales:        make(map[string]model.Sale),
	}
}

var _ service.Ledger = (*MemoryLedger)(nil)

// Seed inserts rows directly, bypassing the transaction machinery.
func (l *MemoryLedger) Seed(session *model.Session, seats ...model.Seat) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if session != nil {
		l.sessions[session.ID] = *session
	}
	for _, s := range seats {
		l.seats[s.ID] = s
	}
}

// Seat returns a copy of the stored seat, for assertions.
func (l *MemoryLedger) Seat(id string) (model.Seat, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.seats[id]
	return s, ok
}

// Session returns a copy of the stored session, for assertions.
func (l *MemoryLedger) Session(id string) (model.Session, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sessions[id]
	return s, ok
}

// Reservation returns a copy of the stored reservation, for assertions.
func (l *MemoryLedger) Reservation(id string) (model.Reservation, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.reservations[id]
	return r, ok
}

// CountReservations reports how many reservations have been committed.
func (l *MemoryLedger) CountReservations() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.reservations)
}

// InTx serializes the unit of work under the store mutex and buffers
// writes until fn returns nil; an error discards them all.
func (l *MemoryLedger) InTx(ctx context.Context, fn func(tx service.LedgerTx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	tx := &memoryTx{ledger: l, pending: make(map[string]any)}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (l *MemoryLedger) ReservationByRequestID(ctx context.Context, requestID string) (*model.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.reservations {
		if r.RequestID == requestID {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

func (l *MemoryLedger) ReservationByID(ctx context.Context, id string) (*model.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if r, ok := l.reservations[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (l *MemoryLedger) ReservationsByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []model.Reservation
	for _, r := range l.reservations {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (l *MemoryLedger) SalesByUser(ctx context.Context, userID string) ([]model.Sale, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []model.Sale
	for _, id := range l.saleOrder {
		if s := l.sales[id]; s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (l *MemoryLedger) Sales(ctx context.Context) ([]model.Sale, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Sale, 0, len(l.saleOrder))
	for _, id := range l.saleOrder {
		out = append(out, l.sales[id])
	}
	return out, nil
}

func (l *MemoryLedger) SessionByID(ctx context.Context, id string) (*model.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sessions[id]
	if !ok {
		return nil, nil
	}
	s.Seats = l.seatsOfLocked(id)
	return &s, nil
}

func (l *MemoryLedger) SessionByRoomAndStart(ctx context.Context, room string, start time.Time) (*model.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.sessions {
		if s.Room == room && s.StartTime.Equal(start) {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

func (l *MemoryLedger) Sessions(ctx context.Context) ([]model.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Session, 0, len(l.sessions))
	for _, s := range l.sessions {
		out = append(out, s)
	}
	return out, nil
}

func (l *MemoryLedger) AvailableSeats(ctx context.Context, sessionID string) ([]model.Seat, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []model.Seat
	for _, s := range l.seatsOfLocked(sessionID) {
		if s.Status == model.SeatAvailable {
			out = append(out, s)
		}
	}
	return out, nil
}

// seatsOfLocked collects a session's seats; the caller holds l.mu.
func (l *MemoryLedger) seatsOfLocked(sessionID string) []model.Seat {
	var out []model.Seat
	for _, s := range l.seats {
		if s.SessionID == sessionID {
			out = append(out, s)
		}
	}
	return out
}

// memoryTx buffers writes keyed by entity kind and id until commit.
type memoryTx struct {
	ledger  *MemoryLedger
	pending map[string]any
}

var _ service.LedgerTx = (*memoryTx)(nil)

func (t *memoryTx) SeatForUpdate(ctx context.Context, seatID string) (*model.Seat, error) {
	if v, ok := t.pending["seat/"+seatID]; ok {
		s := v.(model.Seat)
		return &s, nil
	}
	if s, ok := t.ledger.seats[seatID]; ok {
		return &s, nil
	}
	return nil, nil
}

func (t *memoryTx) SessionForUpdate(ctx context.Context, sessionID string) (*model.Session, error) {
	if v, ok := t.pending["session/"+sessionID]; ok {
		s := v.(model.Session)
		return &s, nil
	}
	if s, ok := t.ledger.sessions[sessionID]; ok {
		return &s, nil
	}
	return nil, nil
}

func (t *memoryTx) ReservationForUpdate(ctx context.Context, reservationID string) (*model.Reservation, error) {
	if v, ok := t.pending["reservation/"+reservationID]; ok {
		r := v.(model.Reservation)
		return &r, nil
	}
	if r, ok := t.ledger.reservations[reservationID]; ok {
		return &r, nil
	}
	return nil, nil
}

func (t *memoryTx) InsertReservation(ctx context.Context, r *model.Reservation) error {
	t.pending["reservation/"+r.ID] = *r
	return nil
}

func (t *memoryTx) UpdateSeat(ctx context.Context, s *model.Seat) error {
	t.pending["seat/"+s.ID] = *s
	return nil
}

func (t *memoryTx) UpdateSession(ctx context.Context, s *model.Session) error {
	t.pending["session/"+s.ID] = *s
	return nil
}

func (t *memoryTx) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	t.pending["reservation/"+r.ID] = *r
	return nil
}

func (t *memoryTx) InsertSale(ctx context.Context, s *model.Sale) error {
	t.pending["sale/"+s.ID] = *s
	return nil
}

func (t *memoryTx) InsertSession(ctx context.Context, s *model.Session) error {
	t.pending["session/"+s.ID] = *s
	return nil
}

func (t *memoryTx) InsertSeats(ctx context.Context, seats []model.Seat) error {
	for _, s := range seats {
		t.pending["seat/"+s.ID] = s
	}
	return nil
}

func (t *memoryTx) commit() {
	for key, v := range t.pending {
		switch v := v.(type) {
		case model.Seat:
			t.ledger.seats[v.ID] = v
		case model.Session:
			t.ledger.sessions[v.ID] = v
		case model.Reservation:
			t.ledger.reservations[v.ID] = v
		case model.Sale:
			t.ledger.sales[v.ID] = v
			t.ledger.saleOrder = append(t.ledger.saleOrder, v.ID)
		default:
			panic("unknown pending entity " + key)
		}
	}
}
