package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/daviramosds/starsoft-backend-challenge/internal/model"
)

// SeatRepo provides data access to the seats table.  The ForUpdate
// variant takes the write-intent row lock that serializes concurrent
// reservation transactions on the same seat.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo returns a new SeatRepo bound to the provided database.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

const seatColumns = `id, session_id, label, status, version, created_at, updated_at`

func scanSeat(row *sql.Row) (*model.Seat, error) {
	var s model.Seat
	err := row.Scan(&s.ID, &s.SessionID, &s.Label, &s.Status, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByIDForUpdateTx reads one seat under SELECT ... FOR UPDATE.  Any
// other transaction doing the same read on this row blocks until this
// transaction commits or rolls back.  Returns (nil, nil) when the seat
// does not exist.
func (r *SeatRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, seatID string) (*model.Seat, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+seatColumns+` FROM seats WHERE id = ? FOR UPDATE`, seatID)
	return scanSeat(row)
}

// UpdateTx persists the seat's status, version and updated_at within
// the provided transaction.
func (r *SeatRepo) UpdateTx(ctx context.Context, tx *sql.Tx, s *model.Seat) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE seats SET status = ?, version = ?, updated_at = ? WHERE id = ?`,
		s.Status, s.Version, s.UpdatedAt, s.ID)
	return err
}

// CreateBulkTx inserts the full seat map of a session in one statement.
// Passing an empty slice has no effect and returns nil.
func (r *SeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (id, session_id, label, status, version, created_at, updated_at) VALUES `
	args := make([]interface{}, 0, len(seats)*7)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?)"
		args = append(args, s.ID, s.SessionID, s.Label, s.Status, s.Version, s.CreatedAt, s.UpdatedAt)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListAvailableBySession returns the AVAILABLE seats of a session
// ordered by label.
func (r *SeatRepo) ListAvailableBySession(ctx context.Context, sessionID string) ([]model.Seat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+seatColumns+` FROM seats WHERE session_id = ? AND status = ? ORDER BY label`,
		sessionID, model.SeatAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seats []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.SessionID, &s.Label, &s.Status, &s.Version, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// ListBySession returns all seats of a session ordered by label.
func (r *SeatRepo) ListBySession(ctx context.Context, sessionID string) ([]model.Seat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+seatColumns+` FROM seats WHERE session_id = ? ORDER BY label`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seats []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.SessionID, &s.Label, &s.Status, &s.Version, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}
