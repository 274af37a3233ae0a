package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// PaymentStatus is the outcome of one settlement attempt.
type PaymentStatus string

const (
    PaymentSuccess PaymentStatus = "SUCCESS"
    PaymentFailed  PaymentStatus = "FAILED"
)

// Payment is an append-only audit row written by settlement.
type Payment struct {
    ID        uint64          `db:"id" json:"id"`
    BookingID uint64          `db:"booking_id" json:"booking_id"`
    Amount    decimal.Decimal `db:"amount" json:"amount"`
    Status    PaymentStatus   `db:"status" json:"status"`
    Method    string          `db:"method" json:"method"`
    CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
