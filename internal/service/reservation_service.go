package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/daviramosds/starsoft-backend-challenge/internal/clock"
	"github.com/daviramosds/starsoft-backend-challenge/internal/model"
	"github.com/daviramosds/starsoft-backend-challenge/internal/queue"
)

// sideEffectTimeout bounds the best-effort cache and event calls so a
// stalled broker cannot hold the request open after the ledger commit.
const sideEffectTimeout = 2 * time.Second

// ReservationService creates and reads seat reservations.  Creation is
// the concurrency-critical path: it layers an idempotency guard, a
// short-lived per-seat distributed lock and a pessimistic ledger
// transaction so that exactly one of any number of concurrent,
// possibly-retried requests wins a given seat.
type ReservationService struct {
	ledger         Ledger
	locker         Locker
	cache          Cache
	publisher      Publisher
	clock          clock.Clock
	reservationTTL time.Duration
	lockTTL        time.Duration
}

// NewReservationService constructs a ReservationService.  All
// dependencies are required; reservationTTL is how long a pending
// reservation stays payable and lockTTL is the auto-expiry of the
// per-seat lock (it should be much shorter than reservationTTL).
func NewReservationService(ledger Ledger, locker Locker, cache Cache, publisher Publisher, clk clock.Clock, reservationTTL, lockTTL time.Duration) *ReservationService {
	if ledger == nil || locker == nil || cache == nil || publisher == nil || clk == nil {
		panic("nil dependency passed to NewReservationService")
	}
	return &ReservationService{
		ledger:         ledger,
		locker:         locker,
		cache:          cache,
		publisher:      publisher,
		clock:          clk,
		reservationTTL: reservationTTL,
		lockTTL:        lockTTL,
	}
}

// seatLockKey names the distributed lock guarding one seat.
func seatLockKey(seatID string) string {
	return "seat:lock:" + seatID
}

// reservationCacheKey names the cache mirror entry of one reservation.
func reservationCacheKey(id string) string {
	return "reservation:" + id
}

// Create reserves the seat for the user.  The requestID is the
// caller-supplied idempotency key: repeating a request that already
// succeeded returns the original reservation unchanged, without taking
// the lock or touching the ledger again.
//
// When the seat's lock is held by another in-flight request the call
// fails immediately with ErrConflict instead of queueing; the caller is
// expected to retry.  Holding the lock, a single transaction locks the
// seat row (then the session row), inserts the PENDING reservation,
// flips the seat to RESERVED and decrements the session's available
// counter.  The cache mirror and the reservation.created event happen
// strictly after commit and are best-effort.
func (s *ReservationService) Create(ctx context.Context, userID, seatID, requestID string) (*model.Reservation, error) {
	existing, err := s.ledger.ReservationByRequestID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	lockKey := seatLockKey(seatID)
	acquired, err := s.locker.Acquire(ctx, lockKey, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire seat lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("seat %s is being processed: %w", seatID, ErrConflict)
	}
	// Release exactly once on every exit path below, success or not.
	defer func() {
		if relErr := s.locker.Release(context.WithoutCancel(ctx), lockKey); relErr != nil {
			log.Printf("lock: release %s failed: %v", lockKey, relErr)
		}
	}()

	now := s.clock.Now()
	reservation := &model.Reservation{
		ID:        uuid.NewString(),
		UserID:    userID,
		SeatID:    seatID,
		Status:    model.ReservationPending,
		ExpiresAt: now.Add(s.reservationTTL),
		RequestID: requestID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.ledger.InTx(ctx, func(tx LedgerTx) error {
		seat, err := tx.SeatForUpdate(ctx, seatID)
		if err != nil {
			return fmt.Errorf("lock seat row: %w", err)
		}
		if seat == nil {
			return fmt.Errorf("seat %s: %w", seatID, ErrNotFound)
		}
		if seat.Status != model.SeatAvailable {
			return fmt.Errorf("seat %s is %s: %w", seatID, seat.Status, ErrConflict)
		}

		// Seat row first, session row second. Always this order.
		session, err := tx.SessionForUpdate(ctx, seat.SessionID)
		if err != nil {
			return fmt.Errorf("lock session row: %w", err)
		}

		if err := tx.InsertReservation(ctx, reservation); err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}

		seat.Status = model.SeatReserved
		seat.Version++
		seat.UpdatedAt = now
		if err := tx.UpdateSeat(ctx, seat); err != nil {
			return fmt.Errorf("update seat: %w", err)
		}

		if session != nil {
			session.AvailableSeats--
			if session.AvailableSeats < 0 {
				session.AvailableSeats = 0
			}
			session.UpdatedAt = now
			if err := tx.UpdateSession(ctx, session); err != nil {
				return fmt.Errorf("update session: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mirror(ctx, reservation)
	s.publish(ctx, queue.ReservationCreatedKey, queue.ReservationCreatedEvent{
		ReservationID: reservation.ID,
		SeatID:        reservation.SeatID,
		UserID:        reservation.UserID,
		ExpiresAt:     reservation.ExpiresAt.Format(time.RFC3339),
	})
	return reservation, nil
}

// Get returns one reservation by id.  The cache mirror is consulted
// first as a fast path; the ledger stays authoritative and serves any
// miss or cache failure.
func (s *ReservationService) Get(ctx context.Context, id string) (*model.Reservation, error) {
	if snapshot, err := s.cache.Get(ctx, reservationCacheKey(id)); err == nil && snapshot != "" {
		var r model.Reservation
		if err := json.Unmarshal([]byte(snapshot), &r); err == nil {
			return &r, nil
		}
	}
	reservation, err := s.ledger.ReservationByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load reservation: %w", err)
	}
	if reservation == nil {
		return nil, fmt.Errorf("reservation %s: %w", id, ErrNotFound)
	}
	return reservation, nil
}

// ListByUser returns the user's reservations, newest first.
func (s *ReservationService) ListByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	reservations, err := s.ledger.ReservationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return reservations, nil
}

// mirror writes a JSON snapshot of the reservation into the cache with
// the remaining reservation TTL.  Best-effort: failures are logged.
func (s *ReservationService) mirror(ctx context.Context, r *model.Reservation) {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	snapshot, err := json.Marshal(r)
	if err != nil {
		log.Printf("cache: marshal reservation %s failed: %v", r.ID, err)
		return
	}
	if err := s.cache.SetWithTTL(sctx, reservationCacheKey(r.ID), string(snapshot), s.reservationTTL); err != nil {
		log.Printf("cache: mirror reservation %s failed: %v", r.ID, err)
	}
}

// publish emits a domain event.  Best-effort: failures are logged and
// never affect the already-committed reservation.
func (s *ReservationService) publish(ctx context.Context, event string, payload any) {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	if err := s.publisher.Publish(sctx, event, payload); err != nil {
		log.Printf("events: publish %s failed: %v", event, err)
	}
}
