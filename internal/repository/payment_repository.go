package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
)

// PaymentRepo appends and lists payment attempts.
type PaymentRepo struct {
	db *sqlx.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sqlx.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// CreateTx records a payment attempt inside tx and sets its ID.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, p *model.Payment) error {
	const q = `INSERT INTO payment (booking_id, amount, status, method) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.BookingID, p.Amount, p.Status, p.Method)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// ListByBooking returns the payment attempts of a booking, oldest first.
func (r *PaymentRepo) ListByBooking(ctx context.Context, bookingID uint64) ([]model.Payment, error) {
	const q = `SELECT id, booking_id, amount, status, method, created_at FROM payment WHERE booking_id = ? ORDER BY id`
	out := []model.Payment{}
	if err := r.db.SelectContext(ctx, &out, q, bookingID); err != nil {
		return nil, err
	}
	return out, nil
}
