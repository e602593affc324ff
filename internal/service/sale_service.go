package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/daviramosds/starsoft-backend-challenge/internal/clock"
	"github.com/daviramosds/starsoft-backend-challenge/internal/model"
	"github.com/daviramosds/starsoft-backend-challenge/internal/queue"
)

// SaleService converts pending reservations into sales and reads the
// sales history.  Confirmation runs as one pessimistic transaction; no
// distributed lock is needed because the reservation protocol already
// guarantees at most one PENDING reservation per seat, so the row lock
// alone serializes concurrent confirmation attempts.
type SaleService struct {
	ledger    Ledger
	cache     Cache
	publisher Publisher
	clock     clock.Clock
}

// NewSaleService constructs a SaleService.  All dependencies are required.
func NewSaleService(ledger Ledger, cache Cache, publisher Publisher, clk clock.Clock) *SaleService {
	if ledger == nil || cache == nil || publisher == nil || clk == nil {
		panic("nil dependency passed to NewSaleService")
	}
	return &SaleService{ledger: ledger, cache: cache, publisher: publisher, clock: clk}
}

// ConfirmPayment finalizes the reservation identified by reservationID
// and records a sale carrying the supplied payment reference.  The
// reservation must still be PENDING and not past its expiry; expiry is
// enforced here and only here: an expired reservation fails with
// ErrExpired but its row and seat are left untouched.  On success the
// reservation becomes CONFIRMED, the seat becomes SOLD and the sale
// copies the session's current ticket price.  Cache invalidation and
// the payment.confirmed event run after commit, best-effort.
func (s *SaleService) ConfirmPayment(ctx context.Context, reservationID, paymentID string) (*model.Sale, error) {
	now := s.clock.Now()
	sale := &model.Sale{
		ID:            uuid.NewString(),
		ReservationID: reservationID,
		PaymentID:     paymentID,
		CreatedAt:     now,
	}

	err := s.ledger.InTx(ctx, func(tx LedgerTx) error {
		reservation, err := tx.ReservationForUpdate(ctx, reservationID)
		if err != nil {
			return fmt.Errorf("lock reservation row: %w", err)
		}
		if reservation == nil {
			return fmt.Errorf("reservation %s: %w", reservationID, ErrNotFound)
		}
		if reservation.Status != model.ReservationPending {
			return fmt.Errorf("reservation %s is %s: %w", reservationID, reservation.Status, ErrInvalidState)
		}
		if now.After(reservation.ExpiresAt) {
			return fmt.Errorf("reservation %s expired at %s: %w", reservationID, reservation.ExpiresAt.Format(time.RFC3339), ErrExpired)
		}

		seat, err := tx.SeatForUpdate(ctx, reservation.SeatID)
		if err != nil {
			return fmt.Errorf("lock seat row: %w", err)
		}
		if seat == nil {
			return fmt.Errorf("seat %s: %w", reservation.SeatID, ErrNotFound)
		}
		session, err := tx.SessionForUpdate(ctx, seat.SessionID)
		if err != nil {
			return fmt.Errorf("lock session row: %w", err)
		}
		if session == nil {
			return fmt.Errorf("session %s: %w", seat.SessionID, ErrNotFound)
		}

		reservation.Status = model.ReservationConfirmed
		reservation.UpdatedAt = now
		if err := tx.UpdateReservation(ctx, reservation); err != nil {
			return fmt.Errorf("update reservation: %w", err)
		}

		seat.Status = model.SeatSold
		seat.UpdatedAt = now
		if err := tx.UpdateSeat(ctx, seat); err != nil {
			return fmt.Errorf("update seat: %w", err)
		}

		sale.UserID = reservation.UserID
		sale.SeatID = seat.ID
		sale.AmountCents = session.TicketPriceCents
		if err := tx.InsertSale(ctx, sale); err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, reservationID)
	s.publish(ctx, queue.PaymentConfirmedKey, queue.PaymentConfirmedEvent{
		SaleID:        sale.ID,
		ReservationID: reservationID,
		SeatID:        sale.SeatID,
		UserID:        sale.UserID,
		AmountCents:   sale.AmountCents,
	})
	return sale, nil
}

// ListSales returns the purchase history, newest first.  With a
// non-empty userID only that user's sales are returned.
func (s *SaleService) ListSales(ctx context.Context, userID string) ([]model.Sale, error) {
	var (
		sales []model.Sale
		err   error
	)
	if userID != "" {
		sales, err = s.ledger.SalesByUser(ctx, userID)
	} else {
		sales, err = s.ledger.Sales(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

// invalidate drops the cache mirror of a confirmed reservation.
// Best-effort: failures are logged, the entry expires on its own TTL.
func (s *SaleService) invalidate(ctx context.Context, reservationID string) {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	if err := s.cache.Delete(sctx, reservationCacheKey(reservationID)); err != nil {
		log.Printf("cache: invalidate reservation %s failed: %v", reservationID, err)
	}
}

func (s *SaleService) publish(ctx context.Context, event string, payload any) {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	if err := s.publisher.Publish(sctx, event, payload); err != nil {
		log.Printf("events: publish %s failed: %v", event, err)
	}
}
