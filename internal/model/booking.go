package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// BookingStatus enumerates the lifecycle states of a booking.  A booking
// starts PENDING and is settled exactly once into CONFIRMED or FAILED.
type BookingStatus string

const (
    BookingPending   BookingStatus = "PENDING"
    BookingConfirmed BookingStatus = "CONFIRMED"
    BookingFailed    BookingStatus = "FAILED"
)

// Settled reports whether the status is terminal.
func (s BookingStatus) Settled() bool {
    return s == BookingConfirmed || s == BookingFailed
}

// Booking is a seat provisionally or definitively allocated to a passenger
// on a schedule.  FareAmount is frozen when the booking is created.
//
// Fields:
//  ID            – primary key identifier.
//  ScheduleID    – schedule the seat belongs to.
//  CoachTypeID   – travel class chosen by the passenger.
//  PassengerName – name printed on the ticket.
//  Email         – optional contact address.
//  Status        – PENDING, CONFIRMED or FAILED.
//  SeatNumber    – seat label such as "S042".
//  FareAmount    – amount to be paid, two decimals.
//  CreatedAt     – creation timestamp.
type Booking struct {
    ID            uint64          `db:"id" json:"id"`                         // booking.id
    ScheduleID    uint64          `db:"schedule_id" json:"schedule_id"`       // booking.schedule_id
    CoachTypeID   uint64          `db:"coach_type_id" json:"coach_type_id"`   // booking.coach_type_id
    PassengerName string          `db:"passenger_name" json:"passenger_name"` // booking.passenger_name
    Email         *string         `db:"email" json:"email"`                   // booking.email (nullable)
    Status        BookingStatus   `db:"status" json:"status"`                 // booking.status
    SeatNumber    string          `db:"seat_number" json:"seat_number"`       // booking.seat_number
    FareAmount    decimal.Decimal `db:"fare_amount" json:"fare_amount"`       // booking.fare_amount
    CreatedAt     time.Time       `db:"created_at" json:"created_at"`         // booking.created_at
}
