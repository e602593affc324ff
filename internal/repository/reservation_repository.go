package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/daviramosds/starsoft-backend-challenge/internal/model"
)

// ReservationRepo provides data access to the reservations table.  The
// request_id column carries a unique index and doubles as the
// idempotency guard against retried submissions.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the
// provided database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, user_id, seat_id, status, expires_at, request_id, created_at, updated_at`

func scanReservation(row *sql.Row) (*model.Reservation, error) {
	var r model.Reservation
	err := row.Scan(&r.ID, &r.UserID, &r.SeatID, &r.Status, &r.ExpiresAt, &r.RequestID, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateTx inserts a reservation within the provided transaction.  A
// duplicate request_id violates the unique index and aborts the
// transaction, which can only happen when two requests with the same
// key race past the read-side idempotency check simultaneously.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (id, user_id, seat_id, status, expires_at, request_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.UserID, res.SeatID, res.Status, res.ExpiresAt, res.RequestID, res.CreatedAt, res.UpdatedAt)
	return err
}

// GetByIDForUpdateTx reads one reservation under SELECT ... FOR UPDATE
// so concurrent confirmation attempts on the same reservation are
// serialized by the storage engine.  Returns (nil, nil) when absent.
func (r *ReservationRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id string) (*model.Reservation, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ? FOR UPDATE`, id)
	return scanReservation(row)
}

// UpdateTx persists the reservation's status and updated_at within the
// provided transaction.
func (r *ReservationRepo) UpdateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?`,
		res.Status, res.UpdatedAt, res.ID)
	return err
}

// GetByRequestID returns the reservation created by a previous
// submission with the same idempotency key, or (nil, nil) when the key
// has never been seen.  Runs outside any transaction: a hit means the
// original request already committed and can be replayed verbatim.
func (r *ReservationRepo) GetByRequestID(ctx context.Context, requestID string) (*model.Reservation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE request_id = ?`, requestID)
	return scanReservation(row)
}

// GetByID returns one reservation or (nil, nil) when absent.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id)
	return scanReservation(row)
}

// ListByUser returns the user's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var reservations []model.Reservation
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.SeatID, &res.Status, &res.ExpiresAt,
			&res.RequestID, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}
