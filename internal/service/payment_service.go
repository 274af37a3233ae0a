package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
	"github.com/iliyamo/railway-seat-reservation/internal/queue"
	"github.com/iliyamo/railway-seat-reservation/internal/repository"
	"github.com/iliyamo/railway-seat-reservation/internal/utils"
)

// MethodCard is the only payment method the checkout offers.
const MethodCard = "CARD"

// Settlement describes one payment outcome for a PENDING booking.
type Settlement struct {
	BookingID uint64
	Success   bool
	Method    string
	Amount    decimal.Decimal
}

// PaymentService settles bookings.
type PaymentService struct {
	ledger    TxRunner
	publisher EventPublisher
	log       *logrus.Logger
	now       func() time.Time
}

// NewPaymentService constructs a PaymentService.  publisher may be nil, in
// which case no settlement events are emitted.
func NewPaymentService(ledger TxRunner, publisher EventPublisher, log *logrus.Logger) *PaymentService {
	if ledger == nil || log == nil {
		panic("nil dependency passed to NewPaymentService")
	}
	return &PaymentService{ledger: ledger, publisher: publisher, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// ApproveCard is the stand-in payment processor: a card is approved when
// its number ends in an even digit.
func ApproveCard(card string) bool {
	card = strings.TrimSpace(card)
	if card == "" {
		return false
	}
	last := card[len(card)-1]
	if last < '0' || last > '9' {
		return false
	}
	return (last-'0')%2 == 0
}

// Settle moves a PENDING booking to CONFIRMED or FAILED and records the
// payment in the same transaction.  A failed payment also returns the seat
// to the booking's schedule.  Bookings that are already settled are left
// untouched and ErrAlreadySettled is returned.
func (s *PaymentService) Settle(ctx context.Context, st Settlement) (model.BookingStatus, error) {
	if st.Amount.IsNegative() {
		return "", ErrInvalidBooking
	}
	status, payStatus := model.BookingFailed, model.PaymentFailed
	if st.Success {
		status, payStatus = model.BookingConfirmed, model.PaymentSuccess
	}
	method := strings.TrimSpace(st.Method)
	if method == "" {
		method = MethodCard
	}

	var booking *model.Booking
	err := s.ledger.InTx(ctx, func(tx repository.LedgerTx) error {
		b, err := tx.LockBooking(ctx, st.BookingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrBookingNotFound
			}
			return storageErr("lock booking", err)
		}
		if b.Status != model.BookingPending {
			return ErrAlreadySettled
		}
		if err := tx.SetBookingStatus(ctx, b.ID, status); err != nil {
			return storageErr("update booking status", err)
		}
		p := model.Payment{BookingID: b.ID, Amount: st.Amount, Status: payStatus, Method: method}
		if err := tx.CreatePayment(ctx, &p); err != nil {
			return storageErr("insert payment", err)
		}
		if !st.Success {
			if err := tx.CreditSeatForBooking(ctx, b.ID); err != nil {
				return storageErr("release seat", err)
			}
		}
		booking = b
		return nil
	})
	if err != nil {
		err = asStorage("settle booking", err)
		entry := s.log.WithField("booking_id", st.BookingID)
		if isDomainError(err) {
			entry.WithError(err).Info("settlement rejected")
		} else {
			entry.WithError(err).Error("settlement failed")
		}
		return "", err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"schedule_id": booking.ScheduleID,
		"status":      status,
		"amount":      utils.FormatAmount(st.Amount),
	}).Info("booking settled")
	s.publish(ctx, booking, status, method, st)
	return status, nil
}

// publish emits the settlement event.  Failures are logged only; the
// settlement has already committed.
func (s *PaymentService) publish(ctx context.Context, b *model.Booking, status model.BookingStatus, method string, st Settlement) {
	if s.publisher == nil {
		return
	}
	ev := queue.BookingSettledEvent{
		BookingID:  b.ID,
		ScheduleID: b.ScheduleID,
		Passenger:  b.PassengerName,
		SeatNumber: b.SeatNumber,
		Status:     string(status),
		Amount:     utils.FormatAmount(st.Amount),
		Method:     method,
		SeatFreed:  !st.Success,
		SettledAt:  s.now().Format(time.RFC3339),
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.publisher.PublishSettlement(pubCtx, ev); err != nil {
		s.log.WithError(err).WithField("booking_id", b.ID).Warn("settlement event not published")
	}
}
