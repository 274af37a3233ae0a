package model

import "time"

// Ticket is issued together with its booking and carries the passenger
// facing reference code.  Tickets are immutable.
type Ticket struct {
    ID        uint64    `db:"id" json:"id"`                 // ticket.id
    BookingID uint64    `db:"booking_id" json:"booking_id"` // ticket.booking_id
    PNR       string    `db:"pnr" json:"pnr"`               // ticket.pnr (unique)
    IssuedAt  time.Time `db:"issued_at" json:"issued_at"`   // ticket.issued_at
}
