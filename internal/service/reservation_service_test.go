package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviramosds/starsoft-backend-challenge/internal/clock"
	"github.com/daviramosds/starsoft-backend-challenge/internal/model"
	"github.com/daviramosds/starsoft-backend-challenge/internal/queue"
	"github.com/daviramosds/starsoft-backend-challenge/internal/service"
	"github.com/daviramosds/starsoft-backend-challenge/internal/testutil"
)

const (
	reservationTTL = 30 * time.Second
	lockTTL        = 5 * time.Second
)

type fixture struct {
	ledger    *testutil.MemoryLedger
	locker    *testutil.MemoryLocker
	cache     *testutil.MemoryCache
	publisher *testutil.RecordingPublisher
	clock     *clock.Fixed
	svc       *service.ReservationService
	session   model.Session
	seat      model.Seat
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ledger:    testutil.NewMemoryLedger(),
		locker:    testutil.NewMemoryLocker(),
		cache:     testutil.NewMemoryCache(),
		publisher: testutil.NewRecordingPublisher(),
		clock:     clock.NewFixed(time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)),
	}
	f.svc = service.NewReservationService(f.ledger, f.locker, f.cache, f.publisher, f.clock, reservationTTL, lockTTL)

	f.session = model.Session{
		ID:               uuid.NewString(),
		MovieTitle:       "Blade Runner",
		Room:             "Room 1",
		StartTime:        f.clock.Now().Add(2 * time.Hour),
		TicketPriceCents: 2500,
		TotalSeats:       2,
		AvailableSeats:   2,
	}
	f.seat = model.Seat{
		ID:        uuid.NewString(),
		SessionID: f.session.ID,
		Label:     "A1",
		Status:    model.SeatAvailable,
	}
	other := model.Seat{
		ID:        uuid.NewString(),
		SessionID: f.session.ID,
		Label:     "A2",
		Status:    model.SeatAvailable,
	}
	f.ledger.Seed(&f.session, f.seat, other)
	return f
}

func TestCreate_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, "user-1", f.seat.ID, uuid.NewString())
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, model.ReservationPending, res.Status)
	assert.Equal(t, f.clock.Now().Add(reservationTTL), res.ExpiresAt)

	seat, _ := f.ledger.Seat(f.seat.ID)
	assert.Equal(t, model.SeatReserved, seat.Status)
	assert.Equal(t, uint32(1), seat.Version)

	session, _ := f.ledger.Session(f.session.ID)
	assert.Equal(t, 1, session.AvailableSeats)

	assert.True(t, f.cache.Has("reservation:"+res.ID), "cache mirror written")
	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, queue.ReservationCreatedKey, events[0].Name)

	acquires, releases := f.locker.Counts()
	assert.Equal(t, 1, acquires)
	assert.Equal(t, 1, releases)
}

func TestCreate_IdempotentReplay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requestID := uuid.NewString()

	first, err := f.svc.Create(ctx, "user-1", f.seat.ID, requestID)
	require.NoError(t, err)

	second, err := f.svc.Create(ctx, "user-1", f.seat.ID, requestID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "replay must return the original reservation")
	assert.Equal(t, 1, f.ledger.CountReservations())

	acquires, _ := f.locker.Counts()
	assert.Equal(t, 1, acquires, "replay must not take the lock again")
}

func TestCreate_SeatNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), "user-1", uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, service.ErrNotFound)

	acquires, releases := f.locker.Counts()
	assert.Equal(t, acquires, releases, "lock released on the failure path")
	assert.Equal(t, 0, f.ledger.CountReservations())
}

func TestCreate_SeatNotAvailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "user-1", f.seat.ID, uuid.NewString())
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, "user-2", f.seat.ID, uuid.NewString())
	assert.ErrorIs(t, err, service.ErrConflict)
	assert.Equal(t, 1, f.ledger.CountReservations())

	acquires, releases := f.locker.Counts()
	assert.Equal(t, acquires, releases)
}

func TestCreate_LockBusy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	held, err := f.locker.Acquire(ctx, "seat:lock:"+f.seat.ID, lockTTL)
	require.NoError(t, err)
	require.True(t, held)

	_, err = f.svc.Create(ctx, "user-1", f.seat.ID, uuid.NewString())
	assert.ErrorIs(t, err, service.ErrConflict)
	assert.Equal(t, 0, f.ledger.CountReservations(), "busy lock must fail before the ledger")

	seat, _ := f.ledger.Seat(f.seat.ID)
	assert.Equal(t, model.SeatAvailable, seat.Status)
	assert.True(t, f.locker.Held("seat:lock:"+f.seat.ID), "foreign lock must not be released")
}

func TestCreate_ConcurrentSameSeat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const attempts = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.Create(ctx, fmt.Sprintf("user-%d", i), f.seat.ID, uuid.NewString())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, service.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded, "exactly one request may win the seat")
	assert.Equal(t, attempts-1, conflicts)
	assert.Equal(t, 1, f.ledger.CountReservations())

	seat, _ := f.ledger.Seat(f.seat.ID)
	assert.Equal(t, model.SeatReserved, seat.Status)
	session, _ := f.ledger.Session(f.session.ID)
	assert.Equal(t, 1, session.AvailableSeats)

	acquires, releases := f.locker.Counts()
	assert.Equal(t, acquires, releases, "every acquisition must be released")
}

func TestCreate_PublishFailureDoesNotFailReservation(t *testing.T) {
	f := newFixture(t)
	f.publisher.Fail = errors.New("broker down")

	res, err := f.svc.Create(context.Background(), "user-1", f.seat.ID, uuid.NewString())
	require.NoError(t, err, "event publication is best-effort")
	require.NotNil(t, res)

	seat, _ := f.ledger.Seat(f.seat.ID)
	assert.Equal(t, model.SeatReserved, seat.Status)
}

func TestCreate_AvailableSeatsConservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.ledger.SessionByID(ctx, f.session.ID)
	require.NoError(t, err)
	for _, seat := range session.Seats {
		_, err := f.svc.Create(ctx, "user-1", seat.ID, uuid.NewString())
		require.NoError(t, err)
	}

	got, _ := f.ledger.Session(f.session.ID)
	available, err := f.ledger.AvailableSeats(ctx, f.session.ID)
	require.NoError(t, err)
	assert.Equal(t, len(available), got.AvailableSeats)
	assert.Equal(t, 0, got.AvailableSeats)
}

func TestCreate_AvailableSeatsFlooredAtZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Force a drifted counter: the seat is still AVAILABLE but the
	// denormalized count already reads zero.
	f.session.AvailableSeats = 0
	f.ledger.Seed(&f.session)

	_, err := f.svc.Create(ctx, "user-1", f.seat.ID, uuid.NewString())
	require.NoError(t, err)

	session, _ := f.ledger.Session(f.session.ID)
	assert.Equal(t, 0, session.AvailableSeats, "counter never goes negative")
}

func TestGet_CacheFastPathAndFallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, "user-1", f.seat.ID, uuid.NewString())
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)

	// Drop the mirror: the ledger must still serve the read.
	require.NoError(t, f.cache.Delete(ctx, "reservation:"+res.ID))
	got, err = f.svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)

	_, err = f.svc.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestListByUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, "user-1", f.seat.ID, uuid.NewString())
	require.NoError(t, err)

	mine, err := f.svc.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, res.ID, mine[0].ID)

	none, err := f.svc.ListByUser(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, none)
}
