package repository

import (
	"context"
	"database/sql"

	"github.com/daviramosds/starsoft-backend-challenge/internal/model"
)

// SaleRepo provides data access to the sales table.  Sales are
// append-only receipts; there is no update path.
type SaleRepo struct {
	db *sql.DB
}

// NewSaleRepo returns a new SaleRepo bound to the provided database.
func NewSaleRepo(db *sql.DB) *SaleRepo { return &SaleRepo{db: db} }

const saleColumns = `id, user_id, seat_id, amount_cents, reservation_id, payment_id, created_at`

// CreateTx inserts a sale within the provided transaction.
func (r *SaleRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Sale) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO sales (id, user_id, seat_id, amount_cents, reservation_id, payment_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.SeatID, s.AmountCents, nullable(s.ReservationID), nullable(s.PaymentID), s.CreatedAt)
	return err
}

// ListByUser returns the user's sales, newest first.
func (r *SaleRepo) ListByUser(ctx context.Context, userID string) ([]model.Sale, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSales(rows)
}

// List returns all sales, newest first.
func (r *SaleRepo) List(ctx context.Context) ([]model.Sale, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+saleColumns+` FROM sales ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSales(rows)
}

func collectSales(rows *sql.Rows) ([]model.Sale, error) {
	var sales []model.Sale
	for rows.Next() {
		var (
			s             model.Sale
			reservationID sql.NullString
			paymentID     sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.SeatID, &s.AmountCents, &reservationID, &paymentID, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.ReservationID = reservationID.String
		s.PaymentID = paymentID.String
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
