package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
)

// LedgerTx is the set of writes the booking and settlement flows perform
// inside a single transaction.  Implementations hold row locks until the
// surrounding InTx call returns.
type LedgerTx interface {
	// LockScheduleSeats locks the schedule row and returns its seat count.
	LockScheduleSeats(ctx context.Context, scheduleID uint64) (int, error)
	DebitSeat(ctx context.Context, scheduleID uint64) error
	CreateBooking(ctx context.Context, b *model.Booking) error
	CreateTicket(ctx context.Context, t *model.Ticket) error
	// LockBooking locks the booking row and returns it.
	LockBooking(ctx context.Context, bookingID uint64) (*model.Booking, error)
	SetBookingStatus(ctx context.Context, bookingID uint64, status model.BookingStatus) error
	CreatePayment(ctx context.Context, p *model.Payment) error
	CreditSeatForBooking(ctx context.Context, bookingID uint64) error
}

// Ledger runs LedgerTx work against MySQL.  Every InTx call is one InnoDB
// transaction: it commits when fn returns nil and rolls back otherwise.
type Ledger struct {
	db        *sqlx.DB
	schedules *ScheduleRepo
	bookings  *BookingRepo
	tickets   *TicketRepo
	payments  *PaymentRepo
}

// NewLedger wires the repositories that take part in ledger transactions.
func NewLedger(db *sqlx.DB, schedules *ScheduleRepo, bookings *BookingRepo, tickets *TicketRepo, payments *PaymentRepo) *Ledger {
	if db == nil || schedules == nil || bookings == nil || tickets == nil || payments == nil {
		panic("nil dependency passed to NewLedger")
	}
	return &Ledger{db: db, schedules: schedules, bookings: bookings, tickets: tickets, payments: payments}
}

// InTx opens a transaction, hands it to fn and commits if fn succeeds.
func (l *Ledger) InTx(ctx context.Context, fn func(LedgerTx) error) error {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&ledgerTx{tx: tx, l: l}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}

type ledgerTx struct {
	tx *sqlx.Tx
	l  *Ledger
}

func (t *ledgerTx) LockScheduleSeats(ctx context.Context, scheduleID uint64) (int, error) {
	return t.l.schedules.LockSeatsTx(ctx, t.tx, scheduleID)
}

func (t *ledgerTx) DebitSeat(ctx context.Context, scheduleID uint64) error {
	return t.l.schedules.DebitSeatTx(ctx, t.tx, scheduleID)
}

func (t *ledgerTx) CreateBooking(ctx context.Context, b *model.Booking) error {
	return t.l.bookings.CreateTx(ctx, t.tx, b)
}

func (t *ledgerTx) CreateTicket(ctx context.Context, tk *model.Ticket) error {
	return t.l.tickets.CreateTx(ctx, t.tx, tk)
}

func (t *ledgerTx) LockBooking(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	return t.l.bookings.LockTx(ctx, t.tx, bookingID)
}

func (t *ledgerTx) SetBookingStatus(ctx context.Context, bookingID uint64, status model.BookingStatus) error {
	return t.l.bookings.UpdateStatusTx(ctx, t.tx, bookingID, status)
}

func (t *ledgerTx) CreatePayment(ctx context.Context, p *model.Payment) error {
	return t.l.payments.CreateTx(ctx, t.tx, p)
}

func (t *ledgerTx) CreditSeatForBooking(ctx context.Context, bookingID uint64) error {
	return t.l.schedules.CreditSeatForBookingTx(ctx, t.tx, bookingID)
}
