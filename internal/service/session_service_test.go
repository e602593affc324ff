package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviramosds/starsoft-backend-challenge/internal/clock"
	"github.com/daviramosds/starsoft-backend-challenge/internal/model"
	"github.com/daviramosds/starsoft-backend-challenge/internal/service"
	"github.com/daviramosds/starsoft-backend-challenge/internal/testutil"
)

func newSessionService(t *testing.T) (*service.SessionService, *testutil.MemoryLedger, *clock.Fixed) {
	t.Helper()
	ledger := testutil.NewMemoryLedger()
	clk := clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return service.NewSessionService(ledger, clk), ledger, clk
}

func validInput() service.CreateSessionInput {
	return service.CreateSessionInput{
		MovieTitle:       "Dune",
		Room:             "Room 3",
		StartTime:        "2025-06-02T19:00:00Z",
		TicketPriceCents: 3000,
		TotalSeats:       16,
	}
}

func TestCreateSession(t *testing.T) {
	svc, _, _ := newSessionService(t)

	session, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, 16, session.TotalSeats)
	assert.Equal(t, 16, session.AvailableSeats)
	require.Len(t, session.Seats, 16)
	for i, seat := range session.Seats {
		assert.Equal(t, fmt.Sprintf("A%d", i+1), seat.Label)
		assert.Equal(t, model.SeatAvailable, seat.Status)
		assert.Equal(t, session.ID, seat.SessionID)
	}
}

func TestCreateSession_DuplicateRoomAndStart(t *testing.T) {
	svc, _, _ := newSessionService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Create(ctx, validInput())
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestCreateSession_TooFewSeats(t *testing.T) {
	svc, _, _ := newSessionService(t)

	in := validInput()
	in.TotalSeats = 4
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, service.ErrInvalidState)
}

func TestCreateSession_BadStartTime(t *testing.T) {
	svc, _, _ := newSessionService(t)

	in := validInput()
	in.StartTime = "tomorrow evening"
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, service.ErrInvalidState)
}

func TestGetSession(t *testing.T) {
	svc, _, _ := newSessionService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Len(t, got.Seats, 16)

	_, err = svc.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAvailableSeats(t *testing.T) {
	svc, ledger, clk := newSessionService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	reservations := service.NewReservationService(
		ledger, testutil.NewMemoryLocker(), testutil.NewMemoryCache(),
		testutil.NewRecordingPublisher(), clk, reservationTTL, lockTTL)
	_, err = reservations.Create(ctx, "user-1", created.Seats[0].ID, uuid.NewString())
	require.NoError(t, err)

	available, err := svc.AvailableSeats(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, available, 15)
	for _, seat := range available {
		assert.NotEqual(t, created.Seats[0].ID, seat.ID)
	}

	_, err = svc.AvailableSeats(ctx, uuid.NewString())
	assert.ErrorIs(t, err, service.ErrNotFound)
}
