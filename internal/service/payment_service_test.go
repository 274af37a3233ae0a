package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
)

func TestApproveCard(t *testing.T) {
	tests := []struct {
		card string
		want bool
	}{
		{"4111111111111112", true},
		{"4111111111111110", true},
		{"4111111111111111", false},
		{"4111 1111 1111 1118 ", true},
		{"41111111111111X", false},
		{"", false},
		{"   ", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ApproveCard(tt.card), "card %q", tt.card)
	}
}

func bookOne(t *testing.T, bs *BookingService, scheduleID uint64) *Reservation {
	t.Helper()
	res, err := bs.CreateBooking(context.Background(), newBooking(scheduleID, "Asha"))
	require.NoError(t, err)
	return res
}

func TestSettle(t *testing.T) {
	ctx := context.Background()
	amount := decimal.RequireFromString("1417.50")

	t.Run("Successful payment confirms", func(t *testing.T) {
		l := newMemLedger()
		l.addSchedule(1, 3)
		bs, ps, pub := newTestServices(l)
		res := bookOne(t, bs, 1)

		status, err := ps.Settle(ctx, Settlement{BookingID: res.BookingID, Success: true, Amount: amount})
		require.NoError(t, err)
		assert.Equal(t, model.BookingConfirmed, status)
		assert.Equal(t, 2, l.seatsOf(1))

		b, _ := l.booking(res.BookingID)
		assert.Equal(t, model.BookingConfirmed, b.Status)
		payments := l.paymentsOf(res.BookingID)
		require.Len(t, payments, 1)
		assert.Equal(t, model.PaymentSuccess, payments[0].Status)
		assert.Equal(t, MethodCard, payments[0].Method)
		assert.True(t, payments[0].Amount.Equal(amount))

		require.Len(t, pub.events, 1)
		assert.Equal(t, "CONFIRMED", pub.events[0].Status)
		assert.Equal(t, "1417.50", pub.events[0].Amount)
		assert.False(t, pub.events[0].SeatFreed)
	})

	t.Run("Failed payment releases the seat", func(t *testing.T) {
		l := newMemLedger()
		l.addSchedule(1, 3)
		bs, ps, pub := newTestServices(l)
		res := bookOne(t, bs, 1)

		status, err := ps.Settle(ctx, Settlement{BookingID: res.BookingID, Success: false, Amount: amount})
		require.NoError(t, err)
		assert.Equal(t, model.BookingFailed, status)
		assert.Equal(t, 3, l.seatsOf(1))
		payments := l.paymentsOf(res.BookingID)
		require.Len(t, payments, 1)
		assert.Equal(t, model.PaymentFailed, payments[0].Status)
		require.Len(t, pub.events, 1)
		assert.True(t, pub.events[0].SeatFreed)
	})

	t.Run("Second settlement is rejected", func(t *testing.T) {
		l := newMemLedger()
		l.addSchedule(1, 3)
		bs, ps, _ := newTestServices(l)
		res := bookOne(t, bs, 1)

		_, err := ps.Settle(ctx, Settlement{BookingID: res.BookingID, Success: false, Amount: amount})
		require.NoError(t, err)
		_, err = ps.Settle(ctx, Settlement{BookingID: res.BookingID, Success: false, Amount: amount})
		assert.ErrorIs(t, err, ErrAlreadySettled)
		_, err = ps.Settle(ctx, Settlement{BookingID: res.BookingID, Success: true, Amount: amount})
		assert.ErrorIs(t, err, ErrAlreadySettled)

		assert.Equal(t, 3, l.seatsOf(1), "seat credited once")
		assert.Len(t, l.paymentsOf(res.BookingID), 1)
		b, _ := l.booking(res.BookingID)
		assert.Equal(t, model.BookingFailed, b.Status)
	})

	t.Run("Unknown booking", func(t *testing.T) {
		_, ps, pub := newTestServices(newMemLedger())
		_, err := ps.Settle(ctx, Settlement{BookingID: 404, Success: true, Amount: amount})
		assert.ErrorIs(t, err, ErrBookingNotFound)
		assert.Empty(t, pub.events)
	})

	t.Run("Publisher failure does not undo the settlement", func(t *testing.T) {
		l := newMemLedger()
		l.addSchedule(1, 3)
		bs, ps, pub := newTestServices(l)
		pub.err = errors.New("broker down")
		res := bookOne(t, bs, 1)

		status, err := ps.Settle(ctx, Settlement{BookingID: res.BookingID, Success: true, Amount: amount})
		require.NoError(t, err)
		assert.Equal(t, model.BookingConfirmed, status)
	})
}

func TestSettleIsAtomic(t *testing.T) {
	for _, step := range []string{"lock booking", "set status", "create payment", "credit seat"} {
		t.Run(step, func(t *testing.T) {
			l := newMemLedger()
			l.addSchedule(1, 3)
			bs, ps, pub := newTestServices(l)
			res := bookOne(t, bs, 1)
			l.failOn[step] = errors.New("injected")

			_, err := ps.Settle(context.Background(), Settlement{BookingID: res.BookingID, Success: false, Amount: decimal.NewFromInt(10)})
			var se *StorageError
			require.ErrorAs(t, err, &se)

			b, _ := l.booking(res.BookingID)
			assert.Equal(t, model.BookingPending, b.Status)
			assert.Equal(t, 2, l.seatsOf(1))
			assert.Empty(t, l.paymentsOf(res.BookingID))
			assert.Empty(t, pub.events)
		})
	}
}

// One seat: book it, get turned away, fail the payment, then book the
// released seat.
func TestBookingLifecycle(t *testing.T) {
	ctx := context.Background()
	l := newMemLedger()
	l.addSchedule(1, 1)
	bs, ps, _ := newTestServices(l)

	first, err := bs.CreateBooking(ctx, newBooking(1, "Asha"))
	require.NoError(t, err)
	assert.Equal(t, "S001", first.SeatNumber)
	assert.Equal(t, 0, l.seatsOf(1))

	_, err = bs.CreateBooking(ctx, newBooking(1, "Ravi"))
	assert.ErrorIs(t, err, ErrNoSeatsLeft)
	assert.Equal(t, 0, l.seatsOf(1))

	status, err := ps.Settle(ctx, Settlement{BookingID: first.BookingID, Success: ApproveCard("4111111111111111"), Amount: first.FareAmount})
	require.NoError(t, err)
	assert.Equal(t, model.BookingFailed, status)
	assert.Equal(t, 1, l.seatsOf(1))

	third, err := bs.CreateBooking(ctx, newBooking(1, "Meera"))
	require.NoError(t, err)
	assert.Equal(t, "S001", third.SeatNumber)
	assert.Equal(t, 0, l.seatsOf(1))
	assert.NotEqual(t, first.PNR, third.PNR)
}

func TestSeatLabelRepeatsAfterRelease(t *testing.T) {
	ctx := context.Background()
	l := newMemLedger()
	l.addSchedule(1, 2)
	bs, ps, _ := newTestServices(l)

	a, err := bs.CreateBooking(ctx, newBooking(1, "Asha"))
	require.NoError(t, err)
	b, err := bs.CreateBooking(ctx, newBooking(1, "Ravi"))
	require.NoError(t, err)
	assert.Equal(t, "S002", a.SeatNumber)
	assert.Equal(t, "S001", b.SeatNumber)

	_, err = ps.Settle(ctx, Settlement{BookingID: a.BookingID, Success: false, Amount: a.FareAmount})
	require.NoError(t, err)

	c, err := bs.CreateBooking(ctx, newBooking(1, "Meera"))
	require.NoError(t, err)
	assert.Equal(t, b.SeatNumber, c.SeatNumber)
	assert.NotEqual(t, b.PNR, c.PNR)
}

func TestConcurrentSettleAndBook(t *testing.T) {
	ctx := context.Background()
	l := newMemLedger()
	l.addSchedule(1, 4)
	bs, ps, _ := newTestServices(l)

	var held []*Reservation
	for i := 0; i < 4; i++ {
		held = append(held, bookOne(t, bs, 1))
	}
	require.Equal(t, 0, l.seatsOf(1))

	done := make(chan error, 8)
	for _, r := range held {
		go func(id uint64) {
			_, err := ps.Settle(ctx, Settlement{BookingID: id, Success: false, Amount: decimal.NewFromInt(1)})
			done <- err
		}(r.BookingID)
		go func() {
			_, err := bs.CreateBooking(ctx, newBooking(1, "Late"))
			if errors.Is(err, ErrNoSeatsLeft) {
				err = nil
			}
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-done)
	}
	assert.GreaterOrEqual(t, l.seatsOf(1), 0)
	bookings, _, _ := l.counts()
	assert.Equal(t, 4+(4-l.seatsOf(1)), bookings)
}
