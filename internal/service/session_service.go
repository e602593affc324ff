package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/daviramosds/starsoft-backend-challenge/internal/clock"
	"github.com/daviramosds/starsoft-backend-challenge/internal/model"
)

// MinSeatsPerSession is the smallest seat map a session may be created
// with.
const MinSeatsPerSession = 16

// SessionService creates and reads sessions.  A session owns a fixed
// seat map created atomically with it; seats are labelled A1..An.
type SessionService struct {
	ledger Ledger
	clock  clock.Clock
}

// NewSessionService constructs a SessionService.
func NewSessionService(ledger Ledger, clk clock.Clock) *SessionService {
	if ledger == nil || clk == nil {
		panic("nil dependency passed to NewSessionService")
	}
	return &SessionService{ledger: ledger, clock: clk}
}

// CreateSessionInput carries the fields needed to create a session.
type CreateSessionInput struct {
	MovieTitle       string
	Room             string
	StartTime        string // RFC3339
	TicketPriceCents uint32
	TotalSeats       int
}

// Create creates a session together with its full seat map in one
// transaction.  A second session in the same room at the same start
// time fails with ErrConflict.
func (s *SessionService) Create(ctx context.Context, in CreateSessionInput) (*model.Session, error) {
	start, err := parseStart(in.StartTime)
	if err != nil {
		return nil, err
	}
	if in.TotalSeats < MinSeatsPerSession {
		return nil, fmt.Errorf("a session needs at least %d seats: %w", MinSeatsPerSession, ErrInvalidState)
	}

	existing, err := s.ledger.SessionByRoomAndStart(ctx, in.Room, start)
	if err != nil {
		return nil, fmt.Errorf("room/start lookup: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("room %q already has a session at %s: %w", in.Room, in.StartTime, ErrConflict)
	}

	now := s.clock.Now()
	session := &model.Session{
		ID:               uuid.NewString(),
		MovieTitle:       in.MovieTitle,
		Room:             in.Room,
		StartTime:        start,
		TicketPriceCents: in.TicketPriceCents,
		TotalSeats:       in.TotalSeats,
		AvailableSeats:   in.TotalSeats,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	seats := make([]model.Seat, 0, in.TotalSeats)
	for i := 1; i <= in.TotalSeats; i++ {
		seats = append(seats, model.Seat{
			ID:        uuid.NewString(),
			SessionID: session.ID,
			Label:     fmt.Sprintf("A%d", i),
			Status:    model.SeatAvailable,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	err = s.ledger.InTx(ctx, func(tx LedgerTx) error {
		if err := tx.InsertSession(ctx, session); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		if err := tx.InsertSeats(ctx, seats); err != nil {
			return fmt.Errorf("insert seats: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	session.Seats = seats
	return session, nil
}

// Get returns one session with its seats.
func (s *SessionService) Get(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.ledger.SessionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return session, nil
}

// List returns all sessions ordered by start time.
func (s *SessionService) List(ctx context.Context) ([]model.Session, error) {
	sessions, err := s.ledger.Sessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// AvailableSeats returns the session's seats that are still AVAILABLE.
func (s *SessionService) AvailableSeats(ctx context.Context, sessionID string) ([]model.Seat, error) {
	session, err := s.ledger.SessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	seats, err := s.ledger.AvailableSeats(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list available seats: %w", err)
	}
	return seats, nil
}

// parseStart parses an RFC3339 start time and normalizes it to UTC.
func parseStart(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start time %q: %w", s, ErrInvalidState)
	}
	return t.UTC(), nil
}
