package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviramosds/starsoft-backend-challenge/internal/model"
	"github.com/daviramosds/starsoft-backend-challenge/internal/queue"
	"github.com/daviramosds/starsoft-backend-challenge/internal/service"
)

type saleFixture struct {
	*fixture
	sales       *service.SaleService
	reservation *model.Reservation
}

// newSaleFixture reserves the fixture seat so confirmation tests start
// from a committed PENDING reservation.
func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	f := newFixture(t)
	sales := service.NewSaleService(f.ledger, f.cache, f.publisher, f.clock)

	res, err := f.svc.Create(context.Background(), "user-1", f.seat.ID, uuid.NewString())
	require.NoError(t, err)
	return &saleFixture{fixture: f, sales: sales, reservation: res}
}

func TestConfirmPayment_Success(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale, err := f.sales.ConfirmPayment(ctx, f.reservation.ID, "payment-123")
	require.NoError(t, err)
	require.NotNil(t, sale)

	assert.Equal(t, f.session.TicketPriceCents, sale.AmountCents, "amount copied from the session price")
	assert.Equal(t, "user-1", sale.UserID)
	assert.Equal(t, f.seat.ID, sale.SeatID)
	assert.Equal(t, f.reservation.ID, sale.ReservationID)
	assert.Equal(t, "payment-123", sale.PaymentID)

	res, _ := f.ledger.Reservation(f.reservation.ID)
	assert.Equal(t, model.ReservationConfirmed, res.Status)
	seat, _ := f.ledger.Seat(f.seat.ID)
	assert.Equal(t, model.SeatSold, seat.Status)

	assert.False(t, f.cache.Has("reservation:"+f.reservation.ID), "mirror invalidated")

	events := f.publisher.Events()
	require.Len(t, events, 2) // reservation.created then payment.confirmed
	assert.Equal(t, queue.PaymentConfirmedKey, events[1].Name)
	payload, ok := events[1].Payload.(queue.PaymentConfirmedEvent)
	require.True(t, ok)
	assert.Equal(t, sale.ID, payload.SaleID)
	assert.Equal(t, sale.AmountCents, payload.AmountCents)
}

func TestConfirmPayment_TwiceFailsInvalidState(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	_, err := f.sales.ConfirmPayment(ctx, f.reservation.ID, "p1")
	require.NoError(t, err)

	_, err = f.sales.ConfirmPayment(ctx, f.reservation.ID, "p2")
	assert.ErrorIs(t, err, service.ErrInvalidState, "a reservation is sold at most once")

	sales, listErr := f.sales.ListSales(ctx, "user-1")
	require.NoError(t, listErr)
	assert.Len(t, sales, 1)
}

func TestConfirmPayment_Expired(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	f.clock.Advance(reservationTTL + time.Second)

	_, err := f.sales.ConfirmPayment(ctx, f.reservation.ID, "p1")
	assert.ErrorIs(t, err, service.ErrExpired)

	// Expiry is enforced lazily: the rows are left exactly as they were.
	res, _ := f.ledger.Reservation(f.reservation.ID)
	assert.Equal(t, model.ReservationPending, res.Status)
	seat, _ := f.ledger.Seat(f.seat.ID)
	assert.Equal(t, model.SeatReserved, seat.Status)

	sales, listErr := f.sales.ListSales(ctx, "")
	require.NoError(t, listErr)
	assert.Empty(t, sales)
}

func TestConfirmPayment_AtExactExpiryStillSucceeds(t *testing.T) {
	f := newSaleFixture(t)

	f.clock.Advance(reservationTTL) // now == expiresAt, not past it

	_, err := f.sales.ConfirmPayment(context.Background(), f.reservation.ID, "p1")
	assert.NoError(t, err)
}

func TestConfirmPayment_NotFound(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.sales.ConfirmPayment(context.Background(), uuid.NewString(), "p1")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestListSales(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale, err := f.sales.ConfirmPayment(ctx, f.reservation.ID, "p1")
	require.NoError(t, err)

	all, err := f.sales.ListSales(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, sale.ID, all[0].ID)

	mine, err := f.sales.ListSales(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	none, err := f.sales.ListSales(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, none)
}
