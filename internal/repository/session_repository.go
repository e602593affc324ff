package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/daviramosds/starsoft-backend-challenge/internal/model"
)

// SessionRepo provides data access to the sessions table.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the provided database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

const sessionColumns = `id, movie_title, room, start_time, ticket_price_cents, total_seats, available_seats, created_at, updated_at`

func scanSession(row *sql.Row) (*model.Session, error) {
	var s model.Session
	err := row.Scan(&s.ID, &s.MovieTitle, &s.Room, &s.StartTime, &s.TicketPriceCents,
		&s.TotalSeats, &s.AvailableSeats, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByIDForUpdateTx reads one session under SELECT ... FOR UPDATE.
// Callers must already hold the seat row lock: the fixed seat→session
// lock order is what keeps concurrent reservation transactions free of
// circular waits.  Returns (nil, nil) when the session does not exist.
func (r *SessionRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, sessionID string) (*model.Session, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ? FOR UPDATE`, sessionID)
	return scanSession(row)
}

// UpdateTx persists the session's available-seat counter and
// updated_at within the provided transaction.
func (r *SessionRepo) UpdateTx(ctx context.Context, tx *sql.Tx, s *model.Session) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE sessions SET available_seats = ?, updated_at = ? WHERE id = ?`,
		s.AvailableSeats, s.UpdatedAt, s.ID)
	return err
}

// CreateTx inserts a session row within the provided transaction.
func (r *SessionRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Session) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, movie_title, room, start_time, ticket_price_cents, total_seats, available_seats, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.MovieTitle, s.Room, s.StartTime, s.TicketPriceCents, s.TotalSeats, s.AvailableSeats, s.CreatedAt, s.UpdatedAt)
	return err
}

// GetByID returns one session or (nil, nil) when absent.  Seats are
// not loaded here; the ledger adapter attaches them.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	return scanSession(row)
}

// GetByRoomAndStart returns the session scheduled in the room at the
// given start time, or (nil, nil) when there is none.
func (r *SessionRepo) GetByRoomAndStart(ctx context.Context, room string, start time.Time) (*model.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE room = ? AND start_time = ?`, room, start)
	return scanSession(row)
}

// List returns all sessions ordered by start time.
func (r *SessionRepo) List(ctx context.Context) ([]model.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions ORDER BY start_time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sessions []model.Session
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.MovieTitle, &s.Room, &s.StartTime, &s.TicketPriceCents,
			&s.TotalSeats, &s.AvailableSeats, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
