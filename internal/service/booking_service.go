package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
	"github.com/iliyamo/railway-seat-reservation/internal/repository"
	"github.com/iliyamo/railway-seat-reservation/internal/utils"
)

// maxReferenceAttempts bounds how many reference codes are tried for one
// ticket before the booking is abandoned.
const maxReferenceAttempts = 5

// NewBooking is the input of CreateBooking.  FareAmount is computed by the
// caller from the chosen coach type before the transaction starts.
type NewBooking struct {
	ScheduleID    uint64
	CoachTypeID   uint64
	PassengerName string
	Email         string
	FareAmount    decimal.Decimal
}

// Reservation is what a successful CreateBooking hands back.
type Reservation struct {
	BookingID  uint64
	PNR        string
	SeatNumber string
	FareAmount decimal.Decimal
	Status     model.BookingStatus
}

// BookingService allocates seats and issues tickets.  It also serves the
// read-only booking and ticket lookups.
type BookingService struct {
	ledger   TxRunner
	bookings BookingReader
	payments PaymentLister
	log      *logrus.Logger
	newPNR   func(bookingID uint64) (string, error)
}

// NewBookingService constructs a BookingService.  All dependencies must be
// non-nil.
func NewBookingService(ledger TxRunner, bookings BookingReader, payments PaymentLister, log *logrus.Logger) *BookingService {
	if ledger == nil || bookings == nil || payments == nil || log == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{ledger: ledger, bookings: bookings, payments: payments, log: log, newPNR: utils.GeneratePNR}
}

// SeatLabel derives the seat label from the seat count read under the
// schedule lock, before it is decremented.
func SeatLabel(availableSeats int) string {
	return fmt.Sprintf("S%03d", availableSeats)
}

// CreateBooking reserves one seat on a schedule in a single transaction:
// lock the schedule row, check capacity, derive the seat label, debit the
// seat, insert a PENDING booking and issue its ticket.  Either all of it
// commits or none of it does.
func (s *BookingService) CreateBooking(ctx context.Context, req NewBooking) (*Reservation, error) {
	req.PassengerName = strings.TrimSpace(req.PassengerName)
	if req.PassengerName == "" || req.ScheduleID == 0 || req.CoachTypeID == 0 || req.FareAmount.IsNegative() {
		return nil, ErrInvalidBooking
	}
	var email *string
	if e := strings.TrimSpace(req.Email); e != "" {
		email = &e
	}

	var res Reservation
	err := s.ledger.InTx(ctx, func(tx repository.LedgerTx) error {
		seats, err := tx.LockScheduleSeats(ctx, req.ScheduleID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrScheduleNotFound
			}
			return storageErr("lock schedule", err)
		}
		if seats <= 0 {
			return ErrNoSeatsLeft
		}
		seat := SeatLabel(seats)
		if err := tx.DebitSeat(ctx, req.ScheduleID); err != nil {
			if errors.Is(err, repository.ErrSeatsExhausted) {
				return ErrNoSeatsLeft
			}
			return storageErr("debit seat", err)
		}

		b := model.Booking{
			ScheduleID:    req.ScheduleID,
			CoachTypeID:   req.CoachTypeID,
			PassengerName: req.PassengerName,
			Email:         email,
			Status:        model.BookingPending,
			SeatNumber:    seat,
			FareAmount:    req.FareAmount,
		}
		if err := tx.CreateBooking(ctx, &b); err != nil {
			return storageErr("insert booking", err)
		}
		t, err := s.issueTicket(ctx, tx, b.ID)
		if err != nil {
			return err
		}
		res = Reservation{BookingID: b.ID, PNR: t.PNR, SeatNumber: seat, FareAmount: b.FareAmount, Status: b.Status}
		return nil
	})
	if err != nil {
		err = asStorage("create booking", err)
		entry := s.log.WithFields(logrus.Fields{"schedule_id": req.ScheduleID, "coach_type_id": req.CoachTypeID})
		if isDomainError(err) {
			entry.WithError(err).Info("booking rejected")
		} else {
			entry.WithError(err).Error("booking failed")
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id":  res.BookingID,
		"schedule_id": req.ScheduleID,
		"seat":        res.SeatNumber,
		"pnr":         res.PNR,
	}).Info("booking created")
	return &res, nil
}

// issueTicket inserts the ticket, drawing a fresh reference code whenever
// the previous one collided with an existing ticket.
func (s *BookingService) issueTicket(ctx context.Context, tx repository.LedgerTx, bookingID uint64) (*model.Ticket, error) {
	for attempt := 1; attempt <= maxReferenceAttempts; attempt++ {
		pnr, err := s.newPNR(bookingID)
		if err != nil {
			return nil, storageErr("generate reference code", err)
		}
		t := model.Ticket{BookingID: bookingID, PNR: pnr}
		err = tx.CreateTicket(ctx, &t)
		if err == nil {
			return &t, nil
		}
		if !errors.Is(err, repository.ErrDuplicateReference) {
			return nil, storageErr("insert ticket", err)
		}
		s.log.WithFields(logrus.Fields{"booking_id": bookingID, "attempt": attempt}).Warn("reference code collision")
	}
	return nil, storageErr("insert ticket", ErrReferenceExhausted)
}

// GetBooking returns the booking overview for id.
func (s *BookingService) GetBooking(ctx context.Context, id uint64) (*repository.BookingDetail, error) {
	d, err := s.bookings.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, storageErr("get booking", err)
	}
	return d, nil
}

// GetTicket returns the booking overview for a reference code.
func (s *BookingService) GetTicket(ctx context.Context, pnr string) (*repository.BookingDetail, error) {
	d, err := s.bookings.GetDetailByPNR(ctx, strings.ToUpper(strings.TrimSpace(pnr)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, storageErr("get ticket", err)
	}
	return d, nil
}

// ListPayments returns the payment attempts recorded for a booking.
func (s *BookingService) ListPayments(ctx context.Context, bookingID uint64) ([]model.Payment, error) {
	out, err := s.payments.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, storageErr("list payments", err)
	}
	return out, nil
}
