package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
)

// BookingRepo provides persistence for bookings.  Writes happen inside the
// ledger transaction; the detail reads back the booking pages and tickets.
type BookingRepo struct {
	db *sqlx.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sqlx.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateTx inserts b and fills in its generated ID.  The caller must commit
// or rollback the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, b *model.Booking) error {
	const q = `INSERT INTO booking (schedule_id, coach_type_id, passenger_name, email, status, seat_number, fare_amount)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.ScheduleID, b.CoachTypeID, b.PassengerName, b.Email, b.Status, b.SeatNumber, b.FareAmount)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// LockTx reads a booking with an exclusive row lock, or returns ErrNotFound.
func (r *BookingRepo) LockTx(ctx context.Context, tx *sqlx.Tx, id uint64) (*model.Booking, error) {
	const q = `SELECT id, schedule_id, coach_type_id, passenger_name, email, status, seat_number, fare_amount, created_at
FROM booking WHERE id = ? FOR UPDATE`
	var b model.Booking
	if err := tx.GetContext(ctx, &b, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// UpdateStatusTx sets the booking status.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id uint64, status model.BookingStatus) error {
	res, err := tx.ExecContext(ctx, `UPDATE booking SET status = ? WHERE id = ?`, status, id)
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

// BookingDetail is the joined view of a booking with its ticket, journey
// and travel class.  It backs the booking overview and the ticket view.
type BookingDetail struct {
	BookingID        uint64              `db:"booking_id" json:"booking_id"`
	Status           model.BookingStatus `db:"status" json:"status"`
	PassengerName    string              `db:"passenger_name" json:"passenger_name"`
	Email            *string             `db:"email" json:"email"`
	SeatNumber       string              `db:"seat_number" json:"seat_number"`
	FareAmount       decimal.Decimal     `db:"fare_amount" json:"-"`
	CreatedAt        time.Time           `db:"created_at" json:"created_at"`
	PNR              string              `db:"pnr" json:"pnr"`
	IssuedAt         time.Time           `db:"issued_at" json:"issued_at"`
	ScheduleID       uint64              `db:"schedule_id" json:"schedule_id"`
	TravelDate       time.Time           `db:"travel_date" json:"travel_date"`
	DepartureTime    string              `db:"departure_time" json:"departure_time"`
	ArrivalTime      string              `db:"arrival_time" json:"arrival_time"`
	TrainName        string              `db:"train_name" json:"train_name"`
	TrainNumber      string              `db:"train_number" json:"train_number"`
	SourceName       string              `db:"source_name" json:"source_name"`
	DestinationName  string              `db:"destination_name" json:"destination_name"`
	CoachTypeID      uint64              `db:"coach_type_id" json:"coach_type_id"`
	CoachCode        string              `db:"coach_code" json:"coach_code"`
	CoachName        string              `db:"coach_name" json:"coach_name"`
	CoachDescription *string             `db:"coach_description" json:"coach_description"`
}

const bookingDetailSelect = `
SELECT b.id AS booking_id,
       b.status,
       b.passenger_name,
       b.email,
       b.seat_number,
       b.fare_amount,
       b.created_at,
       tk.pnr,
       tk.issued_at,
       s.id AS schedule_id,
       s.travel_date,
       s.departure_time,
       s.arrival_time,
       tr.name AS train_name,
       tr.number AS train_number,
       src.name AS source_name,
       dst.name AS destination_name,
       ct.id AS coach_type_id,
       ct.code AS coach_code,
       ct.name AS coach_name,
       ct.description AS coach_description
FROM booking b
JOIN ticket tk ON tk.booking_id = b.id
JOIN schedule s ON s.id = b.schedule_id
JOIN train tr ON tr.id = s.train_id
JOIN station src ON src.id = s.source_station_id
JOIN station dst ON dst.id = s.destination_station_id
JOIN coachtype ct ON ct.id = b.coach_type_id`

// GetDetail returns the booking overview for id or ErrNotFound.
func (r *BookingRepo) GetDetail(ctx context.Context, id uint64) (*BookingDetail, error) {
	return r.getDetail(ctx, bookingDetailSelect+` WHERE b.id = ?`, id)
}

// GetDetailByPNR returns the booking overview for a reference code or
// ErrNotFound.
func (r *BookingRepo) GetDetailByPNR(ctx context.Context, pnr string) (*BookingDetail, error) {
	return r.getDetail(ctx, bookingDetailSelect+` WHERE tk.pnr = ?`, pnr)
}

func (r *BookingRepo) getDetail(ctx context.Context, q string, arg interface{}) (*BookingDetail, error) {
	var d BookingDetail
	if err := r.db.GetContext(ctx, &d, q, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}
