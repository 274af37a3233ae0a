package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
)

// TicketRepo writes tickets.  Reads go through BookingRepo's detail view.
type TicketRepo struct {
	db *sqlx.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sqlx.DB) *TicketRepo { return &TicketRepo{db: db} }

// CreateTx inserts t and fills in its ID and issue time.  A reference code
// that already exists yields ErrDuplicateReference; InnoDB only rolls back
// the failed statement, so tx stays usable for another attempt.
func (r *TicketRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, t *model.Ticket) error {
	res, err := tx.ExecContext(ctx, `INSERT INTO ticket (booking_id, pnr) VALUES (?, ?)`, t.BookingID, t.PNR)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateReference
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	// Query back the issue time set by the column default
	return tx.GetContext(ctx, &t.IssuedAt, `SELECT issued_at FROM ticket WHERE id = ?`, t.ID)
}
