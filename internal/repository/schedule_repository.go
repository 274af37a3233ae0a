package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
)

// ScheduleRepo reads schedules and owns the available_seats counter.  All
// writes to the counter go through the *Tx methods so they run under the
// schedule row lock taken by LockSeatsTx.
type ScheduleRepo struct {
	db *sqlx.DB
}

// NewScheduleRepo returns a new ScheduleRepo bound to the given database.
func NewScheduleRepo(db *sqlx.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

const scheduleSelect = `
SELECT s.id AS schedule_id,
       t.name AS train_name,
       t.number AS train_number,
       src.code AS source_code,
       src.name AS source_name,
       dst.code AS destination_code,
       dst.name AS destination_name,
       s.travel_date,
       s.departure_time,
       s.arrival_time,
       s.available_seats
FROM schedule s
JOIN train t ON t.id = s.train_id
JOIN station src ON src.id = s.source_station_id
JOIN station dst ON dst.id = s.destination_station_id`

// ScheduleSearchQuery selects schedules between two stations on a date.
// TravelDate is formatted YYYY-MM-DD.
type ScheduleSearchQuery struct {
	SourceStationID      uint64
	DestinationStationID uint64
	TravelDate           string
}

// Search lists matching schedules ordered by departure time.
func (r *ScheduleRepo) Search(ctx context.Context, q ScheduleSearchQuery) ([]model.Schedule, error) {
	query := scheduleSelect + `
WHERE s.source_station_id = ? AND s.destination_station_id = ? AND s.travel_date = ?
ORDER BY s.departure_time`
	out := []model.Schedule{}
	if err := r.db.SelectContext(ctx, &out, query, q.SourceStationID, q.DestinationStationID, q.TravelDate); err != nil {
		return nil, fmt.Errorf("search schedules: %w", err)
	}
	return out, nil
}

// GetByID returns the schedule with train and station names, or ErrNotFound.
// This is a plain read; the seat count may change right after it returns.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (*model.Schedule, error) {
	var s model.Schedule
	if err := r.db.GetContext(ctx, &s, scheduleSelect+` WHERE s.id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// LockSeatsTx takes an exclusive row lock on the schedule and returns its
// current seat count.  The lock is held until tx ends.
func (r *ScheduleRepo) LockSeatsTx(ctx context.Context, tx *sqlx.Tx, id uint64) (int, error) {
	const q = `SELECT available_seats FROM schedule WHERE id = ? FOR UPDATE`
	var seats int
	if err := tx.GetContext(ctx, &seats, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return seats, nil
}

// DebitSeatTx takes one seat off the schedule.  The guard keeps the counter
// non-negative even if a caller skipped LockSeatsTx.
func (r *ScheduleRepo) DebitSeatTx(ctx context.Context, tx *sqlx.Tx, id uint64) error {
	const q = `UPDATE schedule SET available_seats = available_seats - 1 WHERE id = ? AND available_seats > 0`
	res, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSeatsExhausted
	}
	return nil
}

// CreditSeatForBookingTx puts back the seat held by a booking.  The
// schedule is resolved through the booking row at execution time.
func (r *ScheduleRepo) CreditSeatForBookingTx(ctx context.Context, tx *sqlx.Tx, bookingID uint64) error {
	const q = `UPDATE schedule s JOIN booking b ON b.schedule_id = s.id
SET s.available_seats = s.available_seats + 1
WHERE b.id = ?`
	res, err := tx.ExecContext(ctx, q, bookingID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
