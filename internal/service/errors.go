package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/railway-seat-reservation/internal/repository"
)

// Lookup failures wrap repository.ErrNotFound so callers can branch on
// either the specific value or the generic one.
var (
	ErrScheduleNotFound  = fmt.Errorf("schedule %w", repository.ErrNotFound)
	ErrCoachTypeNotFound = fmt.Errorf("coach type %w", repository.ErrNotFound)
	ErrBookingNotFound   = fmt.Errorf("booking %w", repository.ErrNotFound)
	ErrTicketNotFound    = fmt.Errorf("ticket %w", repository.ErrNotFound)
)

var (
	// ErrNoSeatsLeft means the schedule had no seat at the time its row was
	// locked.  Nothing was written.
	ErrNoSeatsLeft = errors.New("no seats left for this schedule")

	// ErrAlreadySettled is returned when a booking is no longer PENDING.
	ErrAlreadySettled = fmt.Errorf("booking already settled: %w", repository.ErrConflict)

	// ErrTicketNotConfirmed is returned when a document is requested for a
	// ticket whose booking has not been paid.
	ErrTicketNotConfirmed = fmt.Errorf("ticket not confirmed: %w", repository.ErrConflict)

	ErrInvalidBooking     = errors.New("invalid booking request")
	ErrReferenceExhausted = errors.New("could not allocate a unique reference code")
)

// StorageError reports a database failure.  The transaction it happened in
// has been rolled back by the time the caller sees it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return "storage failure during " + e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error { return &StorageError{Op: op, Err: err} }

// asStorage wraps err as a StorageError unless it already is one or is a
// domain outcome.
func asStorage(op string, err error) error {
	var se *StorageError
	if errors.As(err, &se) || isDomainError(err) {
		return err
	}
	return storageErr(op, err)
}

func isDomainError(err error) bool {
	var se *StorageError
	if errors.As(err, &se) {
		return false
	}
	return errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, repository.ErrConflict) ||
		errors.Is(err, ErrNoSeatsLeft) ||
		errors.Is(err, ErrInvalidBooking)
}
